package utils

import (
	"image"
	"image/jpeg"
	"os"

	"golang.org/x/image/draw"

	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

const (
	// optimizeMaxWidth caps stored image width; wider uploads are scaled
	// down preserving aspect ratio.
	optimizeMaxWidth = 1920
	optimizeQuality  = 85
)

// OptimizeImage decodes the file at path, scales it down to the width cap
// when needed, and rewrites it in place as JPEG.  GIF, PNG and WebP
// uploads come out as JPEG too, matching the single serving format.  The
// new file size is returned.  Undecodable input is an error; the caller
// decides whether to keep the original bytes.
func OptimizeImage(path string) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	src, _, err := image.Decode(f)
	_ = f.Close()
	if err != nil {
		return 0, err
	}

	b := src.Bounds()
	if b.Dx() > optimizeMaxWidth {
		ratio := float64(optimizeMaxWidth) / float64(b.Dx())
		h := int(float64(b.Dy()) * ratio)
		dst := image.NewRGBA(image.Rect(0, 0, optimizeMaxWidth, h))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
		src = dst
	}

	out, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	if err := jpeg.Encode(out, src, &jpeg.Options{Quality: optimizeQuality}); err != nil {
		_ = out.Close()
		return 0, err
	}
	if err := out.Close(); err != nil {
		return 0, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}
