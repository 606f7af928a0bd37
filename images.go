package folio

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"

	"github.com/vengy/folio/logger"
)

const (
	maxImageWidth = 800
	jpegQuality   = 80
)

// OptimizedImage describes one image rewritten by OptimizeImages.
type OptimizedImage struct {
	Source string
	Output string
	Width  int
	Height int
	Size   int
}

// processImage decodes an image from src, resizes it to maxImageWidth if it
// is wider, and encodes it as JPEG. resized is false when the image already
// fits, in which case nothing is encoded.
func processImage(src io.Reader) (data []byte, w, h int, resized bool, err error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return nil, 0, 0, false, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h = bounds.Dx(), bounds.Dy()
	if w <= maxImageWidth {
		return nil, w, h, false, nil
	}

	newH := h * maxImageWidth / w
	dst := image.NewRGBA(image.Rect(0, 0, maxImageWidth, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, 0, 0, false, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), maxImageWidth, newH, true, nil
}

// OptimizeImages walks dir and replaces every image wider than 800px with a
// downscaled JPEG named after the slug of the original file. Files that
// can't be decoded are logged and skipped.
func OptimizeImages(dir string, log *logger.Logger) ([]OptimizedImage, error) {
	var out []OptimizedImage
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isImageFile(path) {
			return nil
		}
		res, ok, err := optimizeFile(path)
		if err != nil {
			log.Warn("skip image", "path", path, "error", err)
			return nil
		}
		if ok {
			log.Info("optimized image", "source", res.Source, "output", res.Output, "width", res.Width, "height", res.Height)
			out = append(out, res)
		}
		return nil
	})
	return out, err
}

func optimizeFile(path string) (OptimizedImage, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return OptimizedImage{}, false, err
	}
	data, w, h, resized, err := processImage(f)
	f.Close()
	if err != nil || !resized {
		return OptimizedImage{}, false, err
	}

	output := filepath.Join(filepath.Dir(path), slugifyFilename(filepath.Base(path))+".jpg")
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return OptimizedImage{}, false, fmt.Errorf("write image: %w", err)
	}
	if output != path {
		if err := os.Remove(path); err != nil {
			return OptimizedImage{}, false, fmt.Errorf("remove original: %w", err)
		}
	}
	return OptimizedImage{Source: path, Output: output, Width: w, Height: h, Size: len(data)}, true, nil
}

func isImageFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg", ".png", ".gif":
		return true
	}
	return false
}

// slugifyFilename converts a filename (without extension) to a URL-safe slug.
func slugifyFilename(name string) string {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	if s := Slugify(base); s != "" {
		return s
	}
	return "image"
}
