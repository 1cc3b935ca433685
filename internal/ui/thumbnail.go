package ui

import (
	"fmt"
	"image"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/image/draw"

	"github.com/yildizm/ColorSeason/internal/capture"
)

// renderThumbnail draws img with upper half blocks, two pixel rows per
// terminal line, scaled to cols columns.
func renderThumbnail(img *capture.EncodedImage, cols int) (string, error) {
	if img == nil || cols < 1 {
		return "", nil
	}
	src, err := img.Decode()
	if err != nil {
		return "", err
	}

	b := src.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return "", nil
	}
	rows := cols * b.Dy() / b.Dx()
	if rows%2 != 0 {
		rows++
	}
	if rows < 2 {
		rows = 2
	}

	dst := image.NewRGBA(image.Rect(0, 0, cols, rows))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)

	var sb strings.Builder
	for y := 0; y < rows; y += 2 {
		for x := 0; x < cols; x++ {
			top := hexAt(dst, x, y)
			bottom := hexAt(dst, x, y+1)
			sb.WriteString(lipgloss.NewStyle().
				Foreground(lipgloss.Color(top)).
				Background(lipgloss.Color(bottom)).
				Render("▀"))
		}
		if y+2 < rows {
			sb.WriteByte('\n')
		}
	}
	return sb.String(), nil
}

func hexAt(img *image.RGBA, x, y int) string {
	c := img.RGBAAt(x, y)
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}
