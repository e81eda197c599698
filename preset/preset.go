// Package preset builds filter chains from TOML or YAML documents.
//
// A preset lists filters in order. Each entry names its filter with the
// filter key; every other key is a field of that filter's options record
// and is decoded over the documented defaults, so absent keys keep them:
//
//	name = "soft glow"
//
//	[[filters]]
//	filter = "blur"
//	strength = { x = 2.0, y = 2.0 }
//
//	[[filters]]
//	filter = "glow"
//	color = "#ffcc00"
//	outer_strength = 2.0
//
// The same chain in YAML:
//
//	name: soft glow
//	filters:
//	  - filter: blur
//	    strength: {x: 2, y: 2}
//	  - filter: glow
//	    color: "#ffcc00"
//	    outer_strength: 2
//
// Entries also accept enabled and padding, which apply to any filter, and
// texture, which names the lookup table of color_map or the light map of
// simple_lightmap.
package preset

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/filters"
)

var (
	// ErrUnknownFilter is returned for an entry whose filter name is not
	// registered.
	ErrUnknownFilter = errors.New("preset: unknown filter")

	// ErrUnknownFormat is returned by Load for an unsupported file extension.
	ErrUnknownFormat = errors.New("preset: unknown format")

	// ErrUnknownTexture is returned when a texture name cannot be resolved.
	ErrUnknownTexture = errors.New("preset: unknown texture")
)

// Preset is a decoded filter chain.
type Preset struct {
	Name    string
	Filters []filters.Filter

	textures []*filters.ImageTexture
}

// Destroy destroys every filter and every texture the preset loaded.
func (p *Preset) Destroy() {
	for _, f := range p.Filters {
		f.Destroy()
	}
	for _, t := range p.textures {
		t.Destroy()
	}
	p.Filters = nil
	p.textures = nil
}

// Option configures decoding.
type Option func(*config)

type config struct {
	textures map[string]filters.Texture
	dir      string
}

// WithTexture makes t available to entries under name.
func WithTexture(name string, t filters.Texture) Option {
	return func(c *config) {
		c.textures[name] = t
	}
}

// WithImageDir lets entries name image files relative to dir as textures.
// Files are decoded with the image formats registered by the program.
func WithImageDir(dir string) Option {
	return func(c *config) {
		c.dir = dir
	}
}

func newConfig(opts []Option) *config {
	c := &config{textures: make(map[string]filters.Texture)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load reads a preset file, choosing the format by extension. Texture
// names resolve relative to the file's directory unless WithImageDir says
// otherwise.
func Load(path string, opts ...Option) (*Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("preset: %w", err)
	}
	opts = append([]Option{WithImageDir(filepath.Dir(path))}, opts...)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return DecodeTOML(data, opts...)
	case ".yaml", ".yml":
		return DecodeYAML(data, opts...)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, filepath.Ext(path))
	}
}

// DecodeTOML builds the chain described by a TOML document.
func DecodeTOML(data []byte, opts ...Option) (*Preset, error) {
	var doc struct {
		Name    string           `toml:"name"`
		Filters []map[string]any `toml:"filters"`
	}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("preset: %w", err)
	}
	entries := make([]decodeFunc, len(doc.Filters))
	for i, table := range doc.Filters {
		// Re-encode the entry so each options record decodes on its own.
		raw, err := toml.Marshal(table)
		if err != nil {
			return nil, fmt.Errorf("preset: entry %d: %w", i, err)
		}
		entries[i] = func(v any) error { return toml.Unmarshal(raw, v) }
	}
	return build(doc.Name, entries, newConfig(opts))
}

// DecodeYAML builds the chain described by a YAML document.
func DecodeYAML(data []byte, opts ...Option) (*Preset, error) {
	var doc struct {
		Name    string      `yaml:"name"`
		Filters []yaml.Node `yaml:"filters"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("preset: %w", err)
	}
	entries := make([]decodeFunc, len(doc.Filters))
	for i := range doc.Filters {
		node := &doc.Filters[i]
		entries[i] = node.Decode
	}
	return build(doc.Name, entries, newConfig(opts))
}

// decodeFunc decodes one entry into v, leaving fields it does not name
// untouched.
type decodeFunc func(v any) error

// common holds the keys every entry accepts.
type common struct {
	Filter  string   `toml:"filter" yaml:"filter"`
	Enabled *bool    `toml:"enabled" yaml:"enabled"`
	Padding *float32 `toml:"padding" yaml:"padding"`
	Texture string   `toml:"texture" yaml:"texture"`
}

func build(name string, entries []decodeFunc, c *config) (_ *Preset, err error) {
	p := &Preset{Name: name}
	defer func() {
		if err != nil {
			p.Destroy()
		}
	}()
	for i, decode := range entries {
		var head common
		if err := decode(&head); err != nil {
			return nil, fmt.Errorf("preset: entry %d: %w", i, err)
		}
		b, ok := registry[head.Filter]
		if !ok {
			return nil, fmt.Errorf("preset: entry %d: %w %q", i, ErrUnknownFilter, head.Filter)
		}
		var tex filters.Texture
		if head.Texture != "" {
			if tex, err = p.texture(c, head.Texture); err != nil {
				return nil, fmt.Errorf("preset: entry %d: %w", i, err)
			}
		}
		f, err := b(decode, tex)
		if err != nil {
			return nil, fmt.Errorf("preset: entry %d (%s): %w", i, head.Filter, err)
		}
		if head.Enabled != nil {
			if e, ok := f.(interface{ SetEnabled(bool) }); ok {
				e.SetEnabled(*head.Enabled)
			}
		}
		if head.Padding != nil {
			if e, ok := f.(interface{ SetPadding(float32) }); ok {
				e.SetPadding(*head.Padding)
			}
		}
		p.Filters = append(p.Filters, f)
	}
	filters.Logger().Debug("preset decoded", "name", name, "filters", len(p.Filters))
	return p, nil
}

// texture resolves name from the registered textures, then from the image
// directory. Loaded images are cached per preset.
func (p *Preset) texture(c *config, name string) (filters.Texture, error) {
	if t, ok := c.textures[name]; ok {
		return t, nil
	}
	if c.dir == "" {
		return nil, fmt.Errorf("%w %q", ErrUnknownTexture, name)
	}
	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(c.dir, name)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrUnknownTexture, name, err)
	}
	defer file.Close()
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("preset: decode texture %q: %w", name, err)
	}
	t := filters.NewImageTexture(img)
	p.textures = append(p.textures, t)
	c.textures[name] = t
	return t, nil
}
