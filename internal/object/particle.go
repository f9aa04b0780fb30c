// Package object implements the drawable entities of the show: the
// starfield, the thruster and impact-flash particle pools, and the
// rocket and moon.
package object

import (
	"math"
	"math/rand"

	"github.com/ostrab/moonstrike/internal/draw"
	"github.com/ostrab/moonstrike/internal/physics"
)

// Particle velocity damping per frame, normalized to 60fps.
const particleDrag = 0.98

// ThrusterParticle is a short-lived exhaust puff.
type ThrusterParticle struct {
	X, Y    float64
	VX, VY  float64
	Life    float64 // Elapsed seconds
	MaxLife float64 // In [0.4, 1.2]
	Radius  float64 // In [3, 8]
	Hue     float64 // In [40, 70]: warm exhaust colors
}

// FlashParticle is an impact flash near the moon surface.
type FlashParticle struct {
	X, Y    float64
	Life    float64 // Elapsed seconds
	MaxLife float64 // In [0.5, 1.0]
	Radius  float64 // In [10, 40]
}

// ThrusterPool owns all live thruster particles. No external references
// to pool entries exist; mutation happens only on the render goroutine.
type ThrusterPool struct {
	particles []ThrusterParticle
	rng       *rand.Rand
}

// NewThrusterPool creates an empty pool drawing randomness from rng.
func NewThrusterPool(rng *rand.Rand) *ThrusterPool {
	return &ThrusterPool{rng: rng}
}

// Emit spawns max(1, floor(2*quality)) particles behind the given anchor.
// facing is the rocket's travel direction; exhaust is biased opposite it
// with angular and positional jitter.
func (p *ThrusterPool) Emit(x, y, facing, quality float64) {
	count := int(math.Floor(2 * quality))
	if count < 1 {
		count = 1
	}
	for i := 0; i < count; i++ {
		ang := facing + math.Pi + (p.rng.Float64()-0.5)*0.6
		speed := 40 + p.rng.Float64()*40
		p.particles = append(p.particles, ThrusterParticle{
			X:       x + (p.rng.Float64()-0.5)*4,
			Y:       y + (p.rng.Float64()-0.5)*4,
			VX:      math.Cos(ang) * speed,
			VY:      math.Sin(ang) * speed,
			MaxLife: 0.4 + p.rng.Float64()*0.8,
			Radius:  3 + p.rng.Float64()*5,
			Hue:     40 + p.rng.Float64()*30,
		})
	}
}

// Update integrates positions, damps velocity and expires particles.
func (p *ThrusterPool) Update(dt float64) {
	damp := physics.Damp(particleDrag, dt)
	kept := p.particles[:0] // reuse backing array
	for _, pt := range p.particles {
		pt.Life += dt
		if pt.Life > pt.MaxLife {
			continue
		}
		pt.VX *= damp
		pt.VY *= damp
		pt.X += pt.VX * dt
		pt.Y += pt.VY * dt
		kept = append(kept, pt)
	}
	p.particles = kept
}

// Render draws each particle as a radial gradient that grows while it
// fades. Drawn with screen blending so overlapping puffs brighten.
func (p *ThrusterPool) Render(c *draw.Canvas) {
	for i := range p.particles {
		pt := &p.particles[i]
		nl := pt.Life / pt.MaxLife
		r := pt.Radius * (1 + 2*nl)
		col := draw.HSV(pt.Hue, 1, 1)
		c.RadialGradient(pt.X, pt.Y, r, col.WithAlpha(0.9*(1-nl)), col.WithAlpha(0), draw.BlendScreen)
	}
}

// Len returns the number of live particles.
func (p *ThrusterPool) Len() int { return len(p.particles) }

// Reset removes all particles.
func (p *ThrusterPool) Reset() { p.particles = p.particles[:0] }

// FlashPool owns all live impact flashes. Same lifecycle pattern as the
// thruster pool, separate set.
type FlashPool struct {
	particles []FlashParticle
	rng       *rand.Rand
}

// NewFlashPool creates an empty pool drawing randomness from rng.
func NewFlashPool(rng *rand.Rand) *FlashPool {
	return &FlashPool{rng: rng}
}

// Emit spawns one flash at the given point with randomized radius.
func (p *FlashPool) Emit(x, y float64) {
	p.particles = append(p.particles, FlashParticle{
		X:       x,
		Y:       y,
		MaxLife: 0.5 + p.rng.Float64()*0.5,
		Radius:  10 + p.rng.Float64()*30,
	})
}

// Update advances life and expires flashes. Flashes do not move.
func (p *FlashPool) Update(dt float64) {
	kept := p.particles[:0]
	for _, pt := range p.particles {
		pt.Life += dt
		if pt.Life > pt.MaxLife {
			continue
		}
		kept = append(kept, pt)
	}
	p.particles = kept
}

// Render draws each flash as a white→amber→transparent gradient growing
// faster than the thruster puffs.
func (p *FlashPool) Render(c *draw.Canvas) {
	white := draw.RGB(1, 1, 1)
	amber := draw.RGB(1, 0.75, 0.3)
	for i := range p.particles {
		pt := &p.particles[i]
		nl := pt.Life / pt.MaxLife
		r := pt.Radius * (1 + 3*nl)
		fade := 1 - nl
		c.ThreeStopGradient(pt.X, pt.Y, r,
			white.WithAlpha(fade),
			amber.WithAlpha(fade*0.8),
			amber.WithAlpha(0),
			0.4, draw.BlendScreen)
	}
}

// Len returns the number of live flashes.
func (p *FlashPool) Len() int { return len(p.particles) }

// Reset removes all flashes.
func (p *FlashPool) Reset() { p.particles = p.particles[:0] }
