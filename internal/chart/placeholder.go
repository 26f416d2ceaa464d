package chart

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const noDataMessage = "No data for this selection"

var (
	placeholderBg     = color.RGBA{R: 250, G: 250, B: 250, A: 255}
	placeholderBorder = color.RGBA{R: 210, G: 210, B: 210, A: 255}
	placeholderTitle  = color.RGBA{R: 0x50, G: 0x3D, B: 0x36, A: 255}
	placeholderText   = color.RGBA{R: 110, G: 110, B: 110, A: 255}
)

// Placeholder renders a blank panel with the chart title and a centred
// message, used when a slot has nothing to plot.
func (r *Renderer) Placeholder(title, message string) ([]byte, error) {
	img := blank(r.width, r.height)
	drawCentered(img, title, r.height/4, placeholderTitle)
	drawCentered(img, message, r.height/2, placeholderText)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode placeholder: %w", err)
	}
	return buf.Bytes(), nil
}

func blank(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(placeholderBg), image.Point{}, draw.Src)

	border := image.NewUniform(placeholderBorder)
	for _, rect := range []image.Rectangle{
		image.Rect(0, 0, w, 1),
		image.Rect(0, h-1, w, h),
		image.Rect(0, 0, 1, h),
		image.Rect(w-1, 0, w, h),
	} {
		draw.Draw(img, rect, border, image.Point{}, draw.Src)
	}
	return img
}

// drawCentered writes text horizontally centred with its baseline at y.
func drawCentered(img *image.RGBA, text string, y int, col color.Color) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	face := basicfont.Face7x13
	dr := &font.Drawer{Dst: img, Src: image.NewUniform(col), Face: face}
	tw := dr.MeasureString(text).Ceil()
	x := (img.Bounds().Dx() - tw) / 2
	if x < 8 {
		x = 8
	}
	dr.Dot = fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)}
	dr.DrawString(text)
}
