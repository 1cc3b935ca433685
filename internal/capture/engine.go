// Package capture turns camera frames and uploaded files into encoded images:
// the centered, mirrored square crop for live capture and type/size checks
// for uploads.
package capture

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"math"

	"github.com/yildizm/ColorSeason/internal/season"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

const (
	// DefaultCropRatio is the share of the centered square that is kept
	DefaultCropRatio = 0.9
)

// Region is the crop rectangle in source pixel coordinates
type Region struct {
	X    float64
	Y    float64
	Size float64
}

// SquareRegion computes the crop for a w×h frame: the largest centered square,
// shrunk to ratio of its side and re-centered by the remaining margin.
func SquareRegion(w, h int, ratio float64) Region {
	var squareSize, offsetX, offsetY float64
	switch {
	case w > h:
		squareSize = float64(h)
		offsetX = float64(w-h) / 2
	case h > w:
		squareSize = float64(w)
		offsetY = float64(h-w) / 2
	default:
		squareSize = float64(w)
	}

	captureSize := squareSize * ratio
	margin := (squareSize - captureSize) / 2

	return Region{
		X:    offsetX + margin,
		Y:    offsetY + margin,
		Size: captureSize,
	}
}

// Bounds returns the integer pixel rectangle the region covers
func (r Region) Bounds() image.Rectangle {
	x0 := int(math.Floor(r.X))
	y0 := int(math.Floor(r.Y))
	size := int(r.Size)
	return image.Rect(x0, y0, x0+size, y0+size)
}

// Options controls the crop
type Options struct {
	Ratio  float64
	Mirror bool
}

// DefaultOptions returns the standard crop: 90% inner square, mirrored
func DefaultOptions() Options {
	return Options{Ratio: DefaultCropRatio, Mirror: true}
}

// Engine captures a still from a FrameSource and renders the crop as PNG
type Engine struct {
	opts Options
}

// NewEngine creates an engine. A non-positive or >1 ratio falls back to the default.
func NewEngine(opts Options) *Engine {
	if opts.Ratio <= 0 || opts.Ratio > 1 {
		opts.Ratio = DefaultCropRatio
	}
	return &Engine{opts: opts}
}

// Options returns the engine's crop options
func (e *Engine) Options() Options {
	return e.opts
}

// Capture grabs the current frame from src and crops it
func (e *Engine) Capture(ctx context.Context, src FrameSource) (*EncodedImage, error) {
	if src == nil {
		return nil, season.NewCaptureError("no frame source available", nil)
	}

	frame, err := src.Frame(ctx)
	if err != nil {
		if season.TypeOf(err) != "" {
			return nil, err
		}
		return nil, season.NewCaptureError("failed to read camera frame", err)
	}

	return e.CaptureImage(frame)
}

// CaptureImage crops an already decoded frame
func (e *Engine) CaptureImage(frame image.Image) (*EncodedImage, error) {
	if frame == nil {
		return nil, season.NewCaptureError("no frame available", nil)
	}

	b := frame.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, season.NewCaptureError("frame has no pixels", nil)
	}

	region := SquareRegion(b.Dx(), b.Dy(), e.opts.Ratio)
	src := region.Bounds().Add(b.Min)
	size := src.Dx()
	if size <= 0 {
		return nil, season.NewCaptureError("failed to create capture canvas", fmt.Errorf("crop size %d for %dx%d frame", size, b.Dx(), b.Dy()))
	}

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	if e.opts.Mirror {
		// source to destination: dx = x0+size-sx, dy = sy-y0
		m := f64.Aff3{
			-1, 0, float64(src.Min.X + size),
			0, 1, float64(-src.Min.Y),
		}
		draw.NearestNeighbor.Transform(dst, m, frame, src, draw.Src, nil)
	} else {
		draw.Draw(dst, dst.Bounds(), frame, src.Min, draw.Src)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, season.NewCaptureError("failed to encode capture", err)
	}

	return &EncodedImage{
		Data:     buf.Bytes(),
		MIMEType: MIMETypePNG,
		Width:    size,
		Height:   size,
	}, nil
}
