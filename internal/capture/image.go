package capture

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/jpeg" // decoder registration for uploads and camera frames
	_ "image/png"
)

const (
	MIMETypePNG  = "image/png"
	MIMETypeJPEG = "image/jpeg"
)

// EncodedImage is a still image ready to be sent for analysis. Data is never
// modified after construction.
type EncodedImage struct {
	Data     []byte
	MIMEType string
	Width    int
	Height   int
}

// NewEncodedImage wraps encoded bytes, reading the dimensions from the header
func NewEncodedImage(data []byte, mimeType string) (*EncodedImage, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("image data cannot be empty")
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image header: %w", err)
	}

	return &EncodedImage{
		Data:     data,
		MIMEType: mimeType,
		Width:    cfg.Width,
		Height:   cfg.Height,
	}, nil
}

// Base64 returns the standard base64 encoding of the image bytes
func (e *EncodedImage) Base64() string {
	return base64.StdEncoding.EncodeToString(e.Data)
}

// DataURI returns the image as a data: URI
func (e *EncodedImage) DataURI() string {
	return "data:" + e.MIMEType + ";base64," + e.Base64()
}

// Size returns the encoded size in bytes
func (e *EncodedImage) Size() int {
	return len(e.Data)
}

// Decode decodes the image bytes
func (e *EncodedImage) Decode() (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(e.Data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}
