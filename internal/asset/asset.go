// Package asset loads and decodes the images the try-on pipeline works with:
// uploaded photos and glasses overlays referenced by data URL, remote URL or
// path under the static asset directory.
package asset

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"strings"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

var (
	ErrUnsupportedSource = errors.New("unsupported asset source")
	ErrUnsafePath        = errors.New("asset path escapes asset directory")
	ErrInvalidDataURL    = errors.New("invalid data URL")
	ErrDecode            = errors.New("failed to decode image")
	ErrTooLarge          = errors.New("asset exceeds size limit")
)

// Asset is a decoded image together with the bytes it was decoded from.
type Asset struct {
	Image  image.Image
	Data   []byte
	Format string
	Width  int
	Height int
}

// MIME returns the media type of the encoded bytes.
func (a *Asset) MIME() string {
	return "image/" + a.Format
}

// Decode decodes PNG, JPEG, WebP or BMP bytes.
func Decode(data []byte) (*Asset, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	b := img.Bounds()
	return &Asset{
		Image:  img,
		Data:   data,
		Format: format,
		Width:  b.Dx(),
		Height: b.Dy(),
	}, nil
}

// DecodeConfig reads only the header and returns format and pixel size.
func DecodeConfig(data []byte) (format string, width, height int, err error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", 0, 0, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return format, cfg.Width, cfg.Height, nil
}

// ParseDataURL splits a base64 data URL into its payload and media type.
func ParseDataURL(s string) ([]byte, string, error) {
	rest, ok := strings.CutPrefix(s, "data:")
	if !ok {
		return nil, "", ErrInvalidDataURL
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, "", ErrInvalidDataURL
	}
	mime, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		return nil, "", fmt.Errorf("%w: only base64 payloads are supported", ErrInvalidDataURL)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidDataURL, err)
	}
	return data, mime, nil
}

// DataURL encodes data as a base64 data URL.
func DataURL(data []byte, mime string) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// Downscale shrinks an image to at most maxWidth pixels wide, keeping its
// aspect ratio, and returns it PNG encoded so transparency survives. Images
// already narrow enough are returned unchanged.
func Downscale(data []byte, maxWidth int) ([]byte, string, error) {
	a, err := Decode(data)
	if err != nil {
		return nil, "", err
	}
	if maxWidth <= 0 || a.Width <= maxWidth {
		return data, a.MIME(), nil
	}

	newWidth := maxWidth
	newHeight := max(1, int(float64(a.Height)*float64(maxWidth)/float64(a.Width)+0.5))

	resized := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(resized, resized.Bounds(), a.Image, a.Image.Bounds(), draw.Src, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, resized); err != nil {
		return nil, "", fmt.Errorf("failed to encode resized image: %w", err)
	}
	return buf.Bytes(), "image/png", nil
}

// EncodePNG encodes img as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}
