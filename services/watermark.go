package services

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	_ "image/png"
	"os"
	"strings"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	_ "golang.org/x/image/webp"
)

// DefaultWatermarkText is rendered when the user supplies no text.
const DefaultWatermarkText = "WATERMARK"

// AddTextWatermark reads the image at srcPath, composites text in the
// bottom-right corner over a semi-transparent box and writes the result to
// dstPath as JPEG.
func AddTextWatermark(srcPath, dstPath, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		text = DefaultWatermarkText
	}

	f, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("decode image: %w", err)
	}

	bounds := src.Bounds()
	canvas := image.NewRGBA(bounds)
	draw.Draw(canvas, bounds, src, bounds.Min, draw.Src)

	face := basicfont.Face7x13
	textW := font.MeasureString(face, text).Ceil()
	textH := face.Metrics().Height.Ceil()

	minDim := bounds.Dx()
	if bounds.Dy() < minDim {
		minDim = bounds.Dy()
	}
	margin := minDim * 2 / 100
	if margin < 10 {
		margin = 10
	}

	x := bounds.Max.X - textW - margin
	y := bounds.Max.Y - textH - margin

	const pad = 6
	box := image.Rect(x-pad, y-pad, x+textW+pad, y+textH+pad).Intersect(bounds)
	draw.Draw(canvas, box, image.NewUniform(color.NRGBA{A: 110}), image.Point{}, draw.Over)

	drawer := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(color.NRGBA{R: 255, G: 255, B: 255, A: 230}),
		Face: face,
		Dot:  fixed.P(x, y+face.Metrics().Ascent.Ceil()),
	}
	drawer.DrawString(text)

	out, err := os.Create(dstPath)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer out.Close()

	if err := jpeg.Encode(out, canvas, &jpeg.Options{Quality: 92}); err != nil {
		return fmt.Errorf("encode jpeg: %w", err)
	}
	return nil
}
