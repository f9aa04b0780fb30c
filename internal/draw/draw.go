// Package draw renders logical-space scenes into a terminal using
// truecolor half-block characters.
package draw

import (
	"fmt"
	"io"

	"github.com/lucasb-eyer/go-colorful"
)

// Point represents a 2D coordinate in logical space.
type Point struct {
	X, Y float64
}

// Color is an RGBA color with components in [0, 1].
// A is coverage for blending; the framebuffer itself stores opaque color.
type Color struct {
	R, G, B, A float64
}

// RGB returns an opaque color.
func RGB(r, g, b float64) Color {
	return Color{R: r, G: g, B: b, A: 1}
}

// RGBA returns a color with explicit alpha.
func RGBA(r, g, b, a float64) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// HSV returns an opaque color from hue (degrees), saturation and value.
func HSV(h, s, v float64) Color {
	c := colorful.Hsv(h, s, v)
	return Color{R: c.R, G: c.G, B: c.B, A: 1}
}

// WithAlpha returns the color scaled to the given coverage.
func (c Color) WithAlpha(a float64) Color {
	c.A = a
	return c
}

// Lerp interpolates both color and alpha toward other by factor t.
func (c Color) Lerp(other Color, t float64) Color {
	return Color{
		R: c.R + (other.R-c.R)*t,
		G: c.G + (other.G-c.G)*t,
		B: c.B + (other.B-c.B)*t,
		A: c.A + (other.A-c.A)*t,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// BlendMode selects how a source color combines with the framebuffer.
type BlendMode int

const (
	// BlendAlpha is standard source-over compositing.
	BlendAlpha BlendMode = iota
	// BlendScreen is additive "screen" compositing: overlapping bright
	// regions combine toward white and never clip.
	BlendScreen
)

// Sprite is a small logical-space image with per-cell color and coverage.
// Cells with zero alpha are transparent.
type Sprite struct {
	W, H int
	Pix  []Color // Flat slice: [y*W + x]
}

// At returns the sprite cell at (x, y), or a transparent color out of bounds.
func (s *Sprite) At(x, y int) Color {
	if x < 0 || x >= s.W || y < 0 || y >= s.H {
		return Color{}
	}
	return s.Pix[y*s.W+x]
}

// ClearScreen clears the terminal and moves cursor to top-left.
func ClearScreen(w io.Writer) {
	fmt.Fprint(w, "\033[H\033[2J")
}

// HideCursor hides the terminal cursor.
func HideCursor(w io.Writer) {
	fmt.Fprint(w, "\033[?25l")
}

// ShowCursor shows the terminal cursor.
func ShowCursor(w io.Writer) {
	fmt.Fprint(w, "\033[?25h")
}

// MoveCursor moves cursor to a specific position (1-based).
func MoveCursor(w io.Writer, x, y int) {
	fmt.Fprintf(w, "\033[%d;%dH", y, x)
}

// ResetStyle clears any active color attributes.
func ResetStyle(w io.Writer) {
	fmt.Fprint(w, "\033[0m")
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
