package io

import (
	"fmt"
	"image"
	"image/color"
	"iter"
	"maps"

	"github.com/ezrec/chip16/cpu"
)

const (
	VIDEO_WIDTH  = 320 // Screen width in pixels.
	VIDEO_HEIGHT = 240 // Screen height in pixels.
	VIDEO_COLORS = 16  // Palette slots.
)

var _video_defines = map[string]string{
	"VIDEO_WIDTH":  fmt.Sprintf("%d", VIDEO_WIDTH),
	"VIDEO_HEIGHT": fmt.Sprintf("%d", VIDEO_HEIGHT),
	"VIDEO_COLORS": fmt.Sprintf("%d", VIDEO_COLORS),
}

// DefaultPalette is the palette in effect after reset.
var DefaultPalette = [VIDEO_COLORS]cpu.RGB{
	{R: 0x00, G: 0x00, B: 0x00}, // transparent
	{R: 0x00, G: 0x00, B: 0x00}, // black
	{R: 0x88, G: 0x88, B: 0x88}, // gray
	{R: 0xBF, G: 0x39, B: 0x32}, // red
	{R: 0xDE, G: 0x7A, B: 0xAE}, // pink
	{R: 0x4C, G: 0x3D, B: 0x21}, // dark brown
	{R: 0x90, G: 0x5F, B: 0x25}, // brown
	{R: 0xE4, G: 0x94, B: 0x52}, // orange
	{R: 0xEA, G: 0xD9, B: 0x79}, // yellow
	{R: 0x53, G: 0x7A, B: 0x3B}, // green
	{R: 0xAB, G: 0xD5, B: 0x4A}, // light green
	{R: 0x25, G: 0x2E, B: 0x38}, // dark blue
	{R: 0x00, G: 0x46, B: 0x7F}, // blue
	{R: 0x68, G: 0xAB, B: 0xCC}, // light blue
	{R: 0xBC, G: 0xDE, B: 0xE4}, // sky blue
	{R: 0xFF, G: 0xFF, B: 0xFF}, // white
}

// Video is a 320x240 surface of 4-bit palette indexes. Index 0 is
// transparent, and shows the background color.
type Video struct {
	Palette    [VIDEO_COLORS]cpu.RGB
	Background uint8
	Frames     int // Vertical blanks since reset.

	pixels [VIDEO_WIDTH * VIDEO_HEIGHT]uint8
}

// NewVideo returns a cleared surface with the default palette.
func NewVideo() (video *Video) {
	video = &Video{}
	video.Reset()
	return
}

// Defines for the video surface.
func (video *Video) Defines() iter.Seq2[string, string] {
	return maps.All(_video_defines)
}

// Reset clears the surface, background and frame count, and restores the
// default palette.
func (video *Video) Reset() {
	video.Palette = DefaultPalette
	video.Background = 0
	video.Frames = 0
	video.Clear()
}

// Clear sets every pixel to transparent.
func (video *Video) Clear() {
	clear(video.pixels[:])
}

// SetPalette replaces a palette slot.
func (video *Video) SetPalette(slot uint8, rgb cpu.RGB) {
	video.Palette[slot&0xf] = rgb
}

// Pixel returns the palette index at (x, y), or 0 off screen.
func (video *Video) Pixel(x, y int) uint8 {
	if x < 0 || x >= VIDEO_WIDTH || y < 0 || y >= VIDEO_HEIGHT {
		return 0
	}
	return video.pixels[y*VIDEO_WIDTH+x]
}

// Draw draws a sprite, clipping it to the surface. Pixels with index 0
// are skipped. It returns true if any drawn pixel landed on a non-zero
// pixel.
func (video *Video) Draw(sprite cpu.Sprite) (collision bool) {
	width := int(sprite.Width) * 2
	height := int(sprite.Height)

	for row := range height {
		sy := row
		if sprite.VFlip {
			sy = height - 1 - row
		}
		y := int(sprite.Y) + row
		if y < 0 || y >= VIDEO_HEIGHT {
			continue
		}

		for col := range width {
			sx := col
			if sprite.HFlip {
				sx = width - 1 - col
			}
			x := int(sprite.X) + col
			if x < 0 || x >= VIDEO_WIDTH {
				continue
			}

			index := sy*int(sprite.Width) + sx/2
			if index >= len(sprite.Data) {
				continue
			}
			value := sprite.Data[index]
			if sx&1 == 0 {
				value >>= 4
			}
			value &= 0xf
			if value == 0 {
				continue
			}

			offset := y*VIDEO_WIDTH + x
			if video.pixels[offset] != 0 {
				collision = true
			}
			video.pixels[offset] = value
		}
	}

	return
}

// Vblank marks the end of a frame.
func (video *Video) Vblank() {
	video.Frames++
}

// Image renders the surface, with transparent pixels in the background
// color.
func (video *Video) Image() (img *image.Paletted) {
	palette := make(color.Palette, VIDEO_COLORS)
	for n, rgb := range video.Palette {
		palette[n] = color.RGBA{R: rgb.R, G: rgb.G, B: rgb.B, A: 0xff}
	}

	img = image.NewPaletted(image.Rect(0, 0, VIDEO_WIDTH, VIDEO_HEIGHT), palette)
	for offset, value := range video.pixels {
		if value == 0 {
			value = video.Background & 0xf
		}
		img.Pix[offset] = value
	}

	return
}
