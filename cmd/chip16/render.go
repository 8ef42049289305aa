package main

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// scaled returns the image enlarged by an integer factor, with an
// optional caption in the top left corner.
func scaled(src image.Image, scale int, caption string) (dst *image.RGBA) {
	if scale < 1 {
		scale = 1
	}

	bounds := src.Bounds()
	dst = image.NewRGBA(image.Rect(0, 0, bounds.Dx()*scale, bounds.Dy()*scale))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, bounds, draw.Src, nil)

	if caption != "" {
		face := basicfont.Face7x13
		drawer := &font.Drawer{
			Dst:  dst,
			Src:  image.NewUniform(color.White),
			Face: face,
			Dot:  fixed.P(2, face.Ascent+2),
		}
		drawer.DrawString(caption)
	}

	return
}

// writePNG encodes the scaled image.
func writePNG(w io.Writer, src image.Image, scale int, caption string) error {
	return png.Encode(w, scaled(src, scale, caption))
}

// renderTerminal draws the image with 24-bit ANSI colors, two pixel rows
// per text row, fit to cols by rows characters.
func renderTerminal(w io.Writer, src image.Image, cols, rows int) (err error) {
	bounds := src.Bounds()
	if cols < 1 || rows < 1 {
		return
	}

	width := cols
	height := width * bounds.Dy() / bounds.Dx()
	if height > rows*2 {
		height = rows * 2
		width = height * bounds.Dx() / bounds.Dy()
	}
	height &^= 1
	if width < 1 || height < 2 {
		return
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, bounds, draw.Src, nil)

	var text strings.Builder
	for y := 0; y < height; y += 2 {
		for x := range width {
			top := dst.RGBAAt(x, y)
			bottom := dst.RGBAAt(x, y+1)
			fmt.Fprintf(&text, "\x1b[38;2;%d;%d;%dm\x1b[48;2;%d;%d;%dm▀",
				top.R, top.G, top.B, bottom.R, bottom.G, bottom.B)
		}
		text.WriteString("\x1b[0m\n")
	}

	_, err = io.WriteString(w, text.String())
	return
}
