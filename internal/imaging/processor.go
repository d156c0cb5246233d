// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package imaging prepares uploaded images before they are sent to the CDN:
// EXIF orientation is applied, oversized images are downscaled and the
// result is re-encoded without metadata.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp" // WebP decoder

	"github.com/olegiv/folio-go/internal/model"
)

// ErrUnsupportedFormat is returned for data that is not JPEG, PNG, GIF or WebP.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// DefaultQuality is the JPEG quality used for re-encoding.
const DefaultQuality = 90

// Result is a prepared image.
type Result struct {
	Data     []byte
	MimeType string
	Width    int
	Height   int
}

// Processor prepares images using pure Go libraries.
type Processor struct {
	maxWidth int
	quality  int
}

// NewProcessor creates a processor that downscales images wider than
// maxWidth. A maxWidth of 0 disables downscaling.
func NewProcessor(maxWidth int) *Processor {
	return &Processor{maxWidth: maxWidth, quality: DefaultQuality}
}

// Prepare reads an image and returns the processed bytes. GIFs are passed
// through unchanged so animations survive.
func (p *Processor) Prepare(r io.Reader) (Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Result{}, fmt.Errorf("read image data: %w", err)
	}

	format := detectFormat(data)
	if format == "" {
		return Result{}, ErrUnsupportedFormat
	}

	if format == "gif" {
		cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return Result{}, fmt.Errorf("decode image: %w", err)
		}
		return Result{Data: data, MimeType: model.MimeTypeGIF, Width: cfg.Width, Height: cfg.Height}, nil
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return Result{}, fmt.Errorf("decode image: %w", err)
	}

	img = applyOrientation(img, readExifOrientation(bytes.NewReader(data)))

	if p.maxWidth > 0 && img.Bounds().Dx() > p.maxWidth {
		img = imaging.Resize(img, p.maxWidth, 0, imaging.Lanczos)
	}

	out, mimeType, err := encodeImage(img, format, p.quality)
	if err != nil {
		return Result{}, fmt.Errorf("encode image: %w", err)
	}

	b := img.Bounds()
	return Result{Data: out, MimeType: mimeType, Width: b.Dx(), Height: b.Dy()}, nil
}

// readExifOrientation returns 1 (normal) if orientation cannot be determined.
func readExifOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	orientation, err := tag.Int(0)
	if err != nil {
		return 1
	}
	return orientation
}

// applyOrientation applies an EXIF orientation value (1-8).
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.FlipH(imaging.Rotate270(img))
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.FlipH(imaging.Rotate90(img))
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

// encodeImage writes PNG as PNG and everything else as JPEG, since there is
// no pure Go WebP encoder.
func encodeImage(img image.Image, format string, quality int) ([]byte, string, error) {
	var buf bytes.Buffer
	if format == "png" {
		if err := png.Encode(&buf, img); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), model.MimeTypePNG, nil
	}
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), model.MimeTypeJPEG, nil
}

func detectFormat(data []byte) string {
	contentType := http.DetectContentType(data)
	// TIFF is rejected outright (CVE-2023-36308 in disintegration/imaging).
	if strings.Contains(contentType, "tiff") {
		return ""
	}
	switch {
	case strings.Contains(contentType, "jpeg"):
		return "jpeg"
	case strings.Contains(contentType, "png"):
		return "png"
	case strings.Contains(contentType, "gif"):
		return "gif"
	case strings.Contains(contentType, "webp"):
		return "webp"
	default:
		return ""
	}
}
