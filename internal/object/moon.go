package object

import (
	"github.com/ostrab/moonstrike/internal/draw"
)

// Fixed crater layout for the vector moon, as fractions of the radius.
var moonCraters = [...]struct{ dx, dy, r float64 }{
	{-0.35, -0.2, 0.22},
	{0.3, 0.15, 0.16},
	{0.05, 0.45, 0.12},
	{-0.1, -0.55, 0.1},
}

// DrawMoon renders the moon at (x, y) with logical radius r. A nil
// sprite selects the vector fallback: a shaded disc with fixed craters.
func DrawMoon(c *draw.Canvas, sprite *draw.Sprite, x, y, r float64) {
	if sprite != nil {
		scale := r * 2 / float64(sprite.W)
		c.DrawSprite(sprite, x, y, scale, 0, 1, draw.BlendAlpha)
		return
	}
	c.RadialGradient(x, y, r, draw.RGB(0.92, 0.92, 0.88), draw.RGB(0.55, 0.55, 0.6), draw.BlendAlpha)
	for _, cr := range moonCraters {
		c.FillCircle(x+cr.dx*r, y+cr.dy*r, cr.r*r, draw.RGBA(0.45, 0.45, 0.5, 0.8), draw.BlendAlpha)
	}
}

// DrawMoonGlow renders the end-of-show glow: an additive radial gradient
// reaching out to outerR around the moon.
func DrawMoonGlow(c *draw.Canvas, x, y, outerR, alpha float64) {
	inner := draw.RGB(1, 0.95, 0.75).WithAlpha(alpha)
	outer := draw.RGB(1, 0.85, 0.5).WithAlpha(0)
	c.RadialGradient(x, y, outerR, inner, outer, draw.BlendScreen)
}
