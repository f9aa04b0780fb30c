package object

import (
	"math"

	"github.com/ostrab/moonstrike/internal/draw"
)

// Rocket angle convention: standard screen math, direction vector is
// (cos a, sin a), so -π/2 points straight up.

// DrawRocket renders the rocket at (x, y) facing angle a with the given
// logical size (hull half-length). A nil sprite selects the vector hull.
func DrawRocket(c *draw.Canvas, sprite *draw.Sprite, x, y, a, size float64) {
	if sprite != nil {
		// Sprite art points up; rotate from its rest orientation.
		scale := size * 2 / float64(sprite.H)
		c.DrawSprite(sprite, x, y, scale, a+math.Pi/2, 1, draw.BlendAlpha)
		return
	}
	drawVectorRocket(c, x, y, a, size)
}

// drawVectorRocket draws a five-point hull with swept fins.
func drawVectorRocket(c *draw.Canvas, x, y, a, size float64) {
	dirX, dirY := math.Cos(a), math.Sin(a)
	sideX, sideY := -dirY, dirX

	at := func(fwd, side float64) draw.Point {
		return draw.Point{
			X: x + dirX*fwd*size + sideX*side*size,
			Y: y + dirY*fwd*size + sideY*side*size,
		}
	}

	hull := []draw.Point{
		at(1.0, 0),     // nose
		at(0.25, 0.4),  // right shoulder
		at(-1.0, 0.4),  // right tail
		at(-1.0, -0.4), // left tail
		at(0.25, -0.4), // left shoulder
	}
	c.FillPolygon(hull, draw.RGB(0.85, 0.87, 0.92), draw.BlendAlpha)

	fins := [][]draw.Point{
		{at(-0.5, 0.4), at(-1.2, 0.85), at(-1.0, 0.4)},
		{at(-0.5, -0.4), at(-1.2, -0.85), at(-1.0, -0.4)},
	}
	for _, fin := range fins {
		c.FillPolygon(fin, draw.RGB(0.75, 0.2, 0.2), draw.BlendAlpha)
	}

	// Porthole
	pw := at(0.3, 0)
	c.FillCircle(pw.X, pw.Y, size*0.18, draw.RGB(0.35, 0.65, 0.9), draw.BlendAlpha)
}
