// Package filters is a collection of shader-based image filters for the
// GoGPU ecosystem.
//
// # Overview
//
// Every filter owns a [Program] (a WGSL fragment shader spliced onto a shared
// prelude), a [UniformGroup] laid out with WGSL alignment rules, and an
// optional list of texture bindings. Filters never render on their own: a
// [System] host draws their passes. Two hosts ship with the module:
//
//   - github.com/gogpu/filters/raster runs every pass on the CPU
//   - github.com/gogpu/filters/gpu runs passes on a wgpu HAL device
//
// # Quick Start
//
//	import (
//		"github.com/gogpu/filters"
//		"github.com/gogpu/filters/raster"
//	)
//
//	blur := filters.NewBlurFilter(func(o *filters.BlurOptions) {
//		o.Strength = filters.Broadcast(4)
//	})
//	gray := filters.NewGrayscaleFilter()
//
//	sys := raster.New()
//	defer sys.Destroy()
//	out, err := sys.Run(img, blur, gray)
//
// # Options
//
// Constructors take functional options over an XOptions struct whose
// defaults come from DefaultXOptions. Older positional argument lists are
// still accepted through [Legacy]; they log a deprecation notice once per
// filter type.
//
// # Uniforms
//
// Property setters write straight into the filter's uniform buffer. Point,
// color and vector accessors return views, so writing through the result of
// a getter updates the filter.
//
// # Presets
//
// Filter chains can be described in TOML or YAML and loaded with
// github.com/gogpu/filters/preset.
package filters

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0-alpha.1"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0

	// VersionPrerelease is the prerelease identifier
	VersionPrerelease = "alpha.1"
)
