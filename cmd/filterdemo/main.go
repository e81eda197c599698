// Command filterdemo applies a preset filter chain to an image on the CPU.
//
// Usage:
//
//	filterdemo -in photo.jpg -preset glow.toml -out result.png
//
// With -watch the output is rendered again whenever the preset file
// changes, until interrupted.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/transform"
	"github.com/fsnotify/fsnotify"

	"github.com/gogpu/filters"
	"github.com/gogpu/filters/preset"
	"github.com/gogpu/filters/raster"
)

type config struct {
	in      string
	out     string
	preset  string
	scale   float64
	watch   bool
	verbose bool
}

func main() {
	var cfg config
	flag.StringVar(&cfg.in, "in", "", "input image (png, jpeg, gif, bmp, tiff, webp)")
	flag.StringVar(&cfg.out, "out", "out.png", "output image (png, jpeg, gif, bmp, tiff)")
	flag.StringVar(&cfg.preset, "preset", "", "filter chain (.toml, .yaml)")
	flag.Float64Var(&cfg.scale, "scale", 1, "resize the input by this factor first")
	flag.BoolVar(&cfg.watch, "watch", false, "render again when the preset changes")
	flag.BoolVar(&cfg.verbose, "v", false, "debug logging")
	list := flag.Bool("list", false, "list filter names and exit")
	flag.Parse()

	if *list {
		fmt.Println(strings.Join(preset.Names(), "\n"))
		return
	}
	if cfg.in == "" || cfg.preset == "" {
		flag.Usage()
		os.Exit(2)
	}

	level := slog.LevelInfo
	if cfg.verbose {
		level = slog.LevelDebug
	}
	filters.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := render(cfg); err != nil {
		log.Fatal(err)
	}
	if !cfg.watch {
		return
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := watch(ctx, cfg); err != nil {
		log.Fatal(err)
	}
}

// render loads the input and the preset, runs the chain and saves the
// result.
func render(cfg config) error {
	src, err := openImage(cfg.in)
	if err != nil {
		return err
	}
	if cfg.scale <= 0 {
		return fmt.Errorf("invalid scale %g", cfg.scale)
	}
	if cfg.scale != 1 {
		b := src.Bounds()
		w := max(1, int(float64(b.Dx())*cfg.scale+0.5))
		h := max(1, int(float64(b.Dy())*cfg.scale+0.5))
		src = transform.Resize(src, w, h, transform.Linear)
	}

	p, err := preset.Load(cfg.preset)
	if err != nil {
		return err
	}
	defer p.Destroy()

	sys := raster.New()
	defer sys.Destroy()
	dst, err := sys.Run(src, p.Filters...)
	if err != nil {
		return fmt.Errorf("run %s: %w", presetName(p, cfg.preset), err)
	}
	if err := saveImage(dst, cfg.out); err != nil {
		return err
	}
	filters.Logger().Info("rendered", "preset", presetName(p, cfg.preset), "out", cfg.out,
		"width", dst.Rect.Dx(), "height", dst.Rect.Dy())
	return nil
}

// watch renders again on every write to the preset until ctx is done.
// The directory is watched so editors that replace the file are seen.
func watch(ctx context.Context, cfg config) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(cfg.preset)); err != nil {
		return err
	}
	target := filepath.Clean(cfg.preset)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target || !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if err := render(cfg); err != nil {
				filters.Logger().Error("render failed", "err", err)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				filters.Logger().Warn("watch: events dropped")
				continue
			}
			return err
		}
	}
}

func presetName(p *preset.Preset, path string) string {
	if p.Name != "" {
		return p.Name
	}
	return filepath.Base(path)
}
