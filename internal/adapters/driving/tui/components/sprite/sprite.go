// Package sprite draws PNG sprites in the terminal with half-block characters.
//
// Each character cell shows two vertically stacked pixels: the upper one as
// the foreground of '▀' and the lower one as its background. Transparent
// pixels fall back to the terminal background.
package sprite

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// DefaultColumns is the width used when the caller passes a non-positive one.
const DefaultColumns = 32

const (
	upperHalf = "▀"
	lowerHalf = "▄"

	// Pixels at or below this 16-bit alpha count as transparent.
	alphaThreshold = 0x7fff
)

// ErrBlankImage is returned for images without a single visible pixel.
var ErrBlankImage = errors.New("sprite: image has no visible pixels")

// Render decodes PNG data and draws it at most maxCols cells wide.
// The image is cropped to its visible pixels and scaled down by an
// integer factor using nearest-neighbour sampling.
func Render(data []byte, maxCols int) (string, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decoding sprite: %w", err)
	}
	return RenderImage(img, maxCols)
}

// RenderImage draws an already decoded image.
func RenderImage(img image.Image, maxCols int) (string, error) {
	if maxCols <= 0 {
		maxCols = DefaultColumns
	}

	box, ok := visibleBounds(img)
	if !ok {
		return "", ErrBlankImage
	}

	scale := (box.Dx() + maxCols - 1) / maxCols
	if scale < 1 {
		scale = 1
	}

	var b strings.Builder
	for y := box.Min.Y; y < box.Max.Y; y += 2 * scale {
		if y > box.Min.Y {
			b.WriteByte('\n')
		}
		for x := box.Min.X; x < box.Max.X; x += scale {
			top, topOK := pixel(img, box, x, y)
			bottom, bottomOK := pixel(img, box, x, y+scale)
			b.WriteString(cell(top, topOK, bottom, bottomOK))
		}
	}
	return b.String(), nil
}

func cell(top color.Color, topOK bool, bottom color.Color, bottomOK bool) string {
	switch {
	case topOK && bottomOK:
		return lipgloss.NewStyle().Foreground(hex(top)).Background(hex(bottom)).Render(upperHalf)
	case topOK:
		return lipgloss.NewStyle().Foreground(hex(top)).Render(upperHalf)
	case bottomOK:
		return lipgloss.NewStyle().Foreground(hex(bottom)).Render(lowerHalf)
	default:
		return " "
	}
}

// pixel returns the colour at (x, y) and whether it is visible.
func pixel(img image.Image, box image.Rectangle, x, y int) (color.Color, bool) {
	if !(image.Point{X: x, Y: y}).In(box) {
		return nil, false
	}
	c := img.At(x, y)
	_, _, _, a := c.RGBA()
	if a <= alphaThreshold {
		return nil, false
	}
	return c, true
}

func visibleBounds(img image.Image) (image.Rectangle, bool) {
	b := img.Bounds()
	minX, minY := b.Max.X, b.Max.Y
	maxX, maxY := b.Min.X-1, b.Min.Y-1

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a <= alphaThreshold {
				continue
			}
			minX = min(minX, x)
			minY = min(minY, y)
			maxX = max(maxX, x)
			maxY = max(maxY, y)
		}
	}

	if maxX < minX {
		return image.Rectangle{}, false
	}
	return image.Rect(minX, minY, maxX+1, maxY+1), true
}

func hex(c color.Color) lipgloss.Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", n.R, n.G, n.B))
}
