package main

import (
	"bufio"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp" // register the webp decoder
)

// openImage decodes any registered image format.
func openImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// saveImage encodes img in the format named by the file extension.
func saveImage(img image.Image, path string) (err error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	var encode func(*bufio.Writer) error
	switch ext {
	case "png":
		encode = func(w *bufio.Writer) error { return png.Encode(w, img) }
	case "jpg", "jpeg":
		encode = func(w *bufio.Writer) error { return jpeg.Encode(w, img, &jpeg.Options{Quality: 90}) }
	case "gif":
		encode = func(w *bufio.Writer) error { return gif.Encode(w, img, nil) }
	case "bmp":
		encode = func(w *bufio.Writer) error { return bmp.Encode(w, img) }
	case "tif", "tiff":
		encode = func(w *bufio.Writer) error { return tiff.Encode(w, img, nil) }
	default:
		return fmt.Errorf("unsupported output format %q", ext)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	w := bufio.NewWriter(f)
	if err := encode(w); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return w.Flush()
}
