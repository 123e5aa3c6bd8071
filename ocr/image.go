package ocr

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/warp/shift-calendar/generic"
)

// ImageInfo describes a validated upload.
type ImageInfo struct {
	Format   string
	MIMEType string
	Width    int
	Height   int
}

var mimeTypes = map[string]string{
	"png":  "image/png",
	"jpeg": "image/jpeg",
	"webp": "image/webp",
}

// SniffImage checks that data is a PNG, JPEG or WebP image and reads its
// dimensions without decoding pixels.
func SniffImage(data []byte) (ImageInfo, error) {
	if len(data) == 0 {
		return ImageInfo{}, fmt.Errorf("%w: empty upload", generic.ErrUnsupportedImage)
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return ImageInfo{}, fmt.Errorf("%w: %v", generic.ErrUnsupportedImage, err)
	}
	mime, ok := mimeTypes[format]
	if !ok {
		return ImageInfo{}, fmt.Errorf("%w: format %q", generic.ErrUnsupportedImage, format)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return ImageInfo{}, fmt.Errorf("%w: zero-sized image", generic.ErrUnsupportedImage)
	}
	return ImageInfo{Format: format, MIMEType: mime, Width: cfg.Width, Height: cfg.Height}, nil
}
