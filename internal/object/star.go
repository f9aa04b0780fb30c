package object

import (
	"math"
	"math/rand"

	"github.com/ostrab/moonstrike/internal/draw"
)

// Star is a single background point. Position and twinkle parameters are
// immutable once spawned; vertical position is parallax-scrolled at
// render time, wrapped modulo surface height.
type Star struct {
	X, Y  float64
	Z     float64 // Depth in [0.3, 1.0]; higher scrolls faster and twinkles more
	Alpha float64 // Base alpha in [0.5, 1.0]
	Phase float64 // Twinkle phase in [0, 2π)
}

// Starfield holds the current star set. Regeneration replaces the set
// wholesale; there is never more than one live set.
type Starfield struct {
	stars  []Star
	width  float64
	height float64
	rng    *rand.Rand
}

// NewStarfield creates an empty starfield drawing from rng.
func NewStarfield(rng *rand.Rand) *Starfield {
	return &Starfield{rng: rng}
}

// StarCount returns the star count for a surface of the given size at
// the given quality scalar: area density clamped to [60, 240], scaled.
func StarCount(width, height, quality float64) int {
	base := math.Floor(width * height / 7000)
	if base < 60 {
		base = 60
	}
	if base > 240 {
		base = 240
	}
	return int(math.Floor(base * quality))
}

// Regenerate replaces the star set for the given surface size and
// quality scalar.
func (f *Starfield) Regenerate(width, height, quality float64) {
	count := StarCount(width, height, quality)
	f.width = width
	f.height = height
	f.stars = f.stars[:0]
	for i := 0; i < count; i++ {
		f.stars = append(f.stars, Star{
			X:     f.rng.Float64() * width,
			Y:     f.rng.Float64() * height,
			Z:     0.3 + f.rng.Float64()*0.7,
			Alpha: 0.5 + f.rng.Float64()*0.5,
			Phase: f.rng.Float64() * 2 * math.Pi,
		})
	}
}

// Count returns the number of live stars.
func (f *Starfield) Count() int {
	return len(f.stars)
}

// Render draws all stars. scroll is the vertical parallax offset; deeper
// stars (higher z) scroll faster. elapsed drives the twinkle in seconds.
func (f *Starfield) Render(c *draw.Canvas, scroll, elapsed float64) {
	for i := range f.stars {
		s := &f.stars[i]
		y := math.Mod(s.Y+scroll*(0.2+0.8*s.Z), f.height)
		if y < 0 {
			y += f.height
		}
		twinkle := math.Sin(s.Phase+elapsed*(0.3+s.Z))*0.3 + 0.7
		side := 1.2 + s.Z*1.8
		col := draw.RGB(1, 1, 1).WithAlpha(s.Alpha * twinkle)
		c.FillRect(s.X-side/2, y-side/2, side, side, col, draw.BlendAlpha)
	}
}
