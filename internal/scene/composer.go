package scene

import (
	"math"
	"math/rand"

	"github.com/ostrab/moonstrike/internal/assets"
	"github.com/ostrab/moonstrike/internal/config"
	"github.com/ostrab/moonstrike/internal/draw"
	"github.com/ostrab/moonstrike/internal/object"
	"github.com/ostrab/moonstrike/internal/physics"
)

// Rocket hull half-length as a fraction of the smaller surface dimension.
const rocketSizeFrac = 0.035

// Orbit entry angle: level with the moon center on its near side, the
// side the launch apex faces.
const orbitStartAngle = math.Pi

// State is the composed entity state at one point of the timeline.
// Pure function of t; exposed so tests can assert the choreography
// without a drawing surface.
type State struct {
	Phases Phases

	MoonX, MoonY, MoonR float64

	RocketVisible bool
	RocketX       float64
	RocketY       float64
	RocketAngle   float64 // Direction of travel; -π/2 is straight up
	Orbiting      bool

	BeamActive   bool
	GlowRadius   float64
	GlowAlpha    float64
	TitleOpacity float64
}

// Composer maps timeline frames to draw calls in a fixed layer order:
// background, starfield, moon, attack beam and flash spawns, thruster
// spawns, rocket, glow overlay, particle integration and render.
type Composer struct {
	tun    config.Tuning
	width  float64
	height float64
	rng    *rand.Rand

	stars    *object.Starfield
	thruster *object.ThrusterPool
	flash    *object.FlashPool
	store    *assets.Store
}

// NewComposer creates a composer for a logical surface of the given
// size. store may be nil when no sprite assets exist; every frame then
// takes the vector-drawn paths.
func NewComposer(tun config.Tuning, width, height float64, store *assets.Store, rng *rand.Rand) *Composer {
	c := &Composer{
		tun:      tun,
		width:    width,
		height:   height,
		rng:      rng,
		stars:    object.NewStarfield(rng),
		thruster: object.NewThrusterPool(rng),
		flash:    object.NewFlashPool(rng),
		store:    store,
	}
	c.stars.Regenerate(width, height, 1.0)
	return c
}

// StateAt computes entity state for normalized progress t.
func (cmp *Composer) StateAt(t float64) State {
	ph := PhasesAt(t)
	w, h := cmp.width, cmp.height
	minDim := math.Min(w, h)

	s := State{Phases: ph}

	s.MoonR = minDim * (0.12 + 0.06*ph.S3 + 0.12*ph.S4)
	s.MoonX = (0.72 - 0.04*ph.S2 + 0.02*ph.S3) * w
	s.MoonY = (0.28 - 0.04*ph.S2 + 0.02*ph.S3) * h

	switch {
	case ph.S2 > 0 && ph.S3 == 0:
		// Launch: ascend from below the surface to a point above center.
		s.RocketVisible = true
		s.RocketX = w/2 - 0.06*w*(1-ph.S2)
		s.RocketY = h + 50 - 0.9*h*ph.S2
		s.RocketAngle = physics.Lerp(-math.Pi/2+0.18, -math.Pi/2, ph.S2)
	case ph.S3 > 0:
		// Orbit: sweep 1.6π around the moon, facing the travel tangent.
		s.RocketVisible = true
		s.Orbiting = true
		a := orbitStartAngle + 1.6*math.Pi*ph.S3
		orbitR := 1.2 * s.MoonR
		s.RocketX = s.MoonX + math.Cos(a)*orbitR
		s.RocketY = s.MoonY + math.Sin(a)*orbitR
		s.RocketAngle = a + math.Pi/2
	default:
		// Parked off-screen below.
		s.RocketX = w / 2
		s.RocketY = h + 80
		s.RocketAngle = -math.Pi / 2
	}

	s.BeamActive = ph.S3 > 0
	if ph.S4 > 0 {
		s.GlowRadius = s.MoonR * (1 + 4*ph.S4)
		s.GlowAlpha = 0.5 * ph.S4
	}
	s.TitleOpacity = physics.EaseInOutSine(ph.S1) * (1 - ph.S3)

	return s
}

// ComposeFrame draws one frame and integrates particles. Returns the
// composed state and whether the timeline has reached its end.
func (cmp *Composer) ComposeFrame(c *draw.Canvas, f Frame) (State, bool) {
	s := cmp.StateAt(f.T)
	elapsed := f.ElapsedMs / 1000
	rocketSize := math.Min(cmp.width, cmp.height) * rocketSizeFrac

	c.Clear()
	cmp.stars.Render(c, elapsed*cmp.tun.StarScrollSpeed, elapsed)

	cmp.drawMoon(c, s.MoonX, s.MoonY, s.MoonR)

	if s.BeamActive {
		cmp.drawBeam(c, s, elapsed)
		if !f.Frozen && cmp.rng.Float64() < cmp.tun.FlashChance {
			ang := cmp.rng.Float64() * 2 * math.Pi
			dist := s.MoonR * (0.85 + cmp.rng.Float64()*0.3)
			cmp.flash.Emit(s.MoonX+math.Cos(ang)*dist, s.MoonY+math.Sin(ang)*dist)
		}
	}

	if !f.Frozen && (s.Phases.S2 > 0 || s.Phases.S3 > 0) {
		n := int(math.Floor(cmp.tun.ThrusterBaseRate * f.Quality * f.DT * (1 + s.Phases.S3)))
		backX := s.RocketX - math.Cos(s.RocketAngle)*rocketSize*1.2
		backY := s.RocketY - math.Sin(s.RocketAngle)*rocketSize*1.2
		for i := 0; i < n; i++ {
			cmp.thruster.Emit(backX, backY, s.RocketAngle, f.Quality)
		}
	}

	if s.RocketVisible {
		object.DrawRocket(c, cmp.rocketSprite(), s.RocketX, s.RocketY, s.RocketAngle, rocketSize)
	}

	if s.GlowAlpha > 0 {
		object.DrawMoonGlow(c, s.MoonX, s.MoonY, s.GlowRadius, s.GlowAlpha)
	}

	// Particles integrate and draw last so they sit above the rocket.
	cmp.thruster.Update(f.DT)
	cmp.flash.Update(f.DT)
	cmp.flash.Render(c)
	cmp.thruster.Render(c)

	return s, f.T >= 1
}

// ComposeIdle draws the pre-start backdrop: just the drifting starfield.
func (cmp *Composer) ComposeIdle(c *draw.Canvas, elapsed float64) {
	c.Clear()
	cmp.stars.Render(c, elapsed*cmp.tun.StarScrollSpeed, elapsed)
}

// ComposeStatic draws the reduced-motion frame: starfield frozen at
// phase zero, moon at its resting place with a steady glow, no rocket
// and no particles.
func (cmp *Composer) ComposeStatic(c *draw.Canvas) {
	minDim := math.Min(cmp.width, cmp.height)
	x := 0.7 * cmp.width
	y := 0.3 * cmp.height
	r := 0.24 * minDim

	c.Clear()
	cmp.stars.Render(c, 0, 0)
	cmp.drawMoon(c, x, y, r)
	object.DrawMoonGlow(c, x, y, r*2.2, 0.35)
}

// drawBeam draws the attack beam from the rocket's nose to the moon
// with a pulsing additive core.
func (cmp *Composer) drawBeam(c *draw.Canvas, s State, elapsed float64) {
	alpha := physics.Clamp01(0.55 + 0.35*math.Sin(elapsed*12))
	col := draw.RGB(1, 0.35, 0.25).WithAlpha(alpha)
	from := draw.Point{X: s.RocketX, Y: s.RocketY}
	to := draw.Point{X: s.MoonX, Y: s.MoonY}
	c.DrawBeam(from, to, 4, col, draw.BlendScreen)
}

func (cmp *Composer) drawMoon(c *draw.Canvas, x, y, r float64) {
	object.DrawMoon(c, cmp.moonSprite(), x, y, r)
}

func (cmp *Composer) rocketSprite() *draw.Sprite {
	if cmp.store == nil {
		return nil
	}
	return cmp.store.Rocket.Get()
}

func (cmp *Composer) moonSprite() *draw.Sprite {
	if cmp.store == nil {
		return nil
	}
	return cmp.store.Moon.Get()
}

// RegenerateStars rebuilds the star set at the given quality scalar.
// Must run before the frame's draw calls so star count matches the new
// scalar immediately.
func (cmp *Composer) RegenerateStars(quality float64) {
	cmp.stars.Regenerate(cmp.width, cmp.height, quality)
}

// StarCount returns the number of live stars.
func (cmp *Composer) StarCount() int {
	return cmp.stars.Count()
}

// ParticleCount returns live thruster and flash particle counts.
func (cmp *Composer) ParticleCount() (thruster, flash int) {
	return cmp.thruster.Len(), cmp.flash.Len()
}

// ResetParticles empties both pools.
func (cmp *Composer) ResetParticles() {
	cmp.thruster.Reset()
	cmp.flash.Reset()
}
