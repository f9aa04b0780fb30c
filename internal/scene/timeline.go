// Package scene owns the deterministic timeline and the four-phase
// choreography that maps elapsed time to entity state.
package scene

import (
	"github.com/ostrab/moonstrike/internal/config"
	"github.com/ostrab/moonstrike/internal/physics"
)

// Frame is the per-tick output of the timeline: everything the composer
// needs to draw one frame.
type Frame struct {
	ElapsedMs  float64
	T          float64 // Normalized progress, clamped to [0, 1]
	DT         float64 // Frame delta in seconds, for particle integration
	FPS        float64 // Smoothed frames per second
	Quality    float64 // Adaptive density scalar
	Regenerate bool    // Star set must be rebuilt before this frame draws
	Frozen     bool    // Freeze-frame: no new particle spawns
}

// Timeline converts host timestamps into clamped progress, frame deltas
// and the adaptive quality scalar. Progress is derived from wall-clock
// elapsed time, never from accumulated deltas, so the show always lasts
// exactly its configured duration regardless of achieved frame rate.
type Timeline struct {
	tun     config.Tuning
	started bool
	startMs float64
	lastMs  float64
	emaDt   float64
	quality float64
}

// NewTimeline creates a timeline with quality 1.0 and the EMA seeded at
// the 60fps frame time.
func NewTimeline(tun config.Tuning) *Timeline {
	return &Timeline{
		tun:     tun,
		emaDt:   1000.0 / 60,
		quality: 1.0,
	}
}

// Reset un-latches the start timestamp for a new run. Quality carries
// over: frame-rate pressure does not vanish on replay.
func (tl *Timeline) Reset() {
	tl.started = false
}

// Quality returns the current quality scalar.
func (tl *Timeline) Quality() float64 {
	return tl.quality
}

// Duration returns the show length in milliseconds.
func (tl *Timeline) Duration() float64 {
	return tl.tun.DurationMs
}

// Tick advances the timeline to the given timestamp. The first tick
// after a (re)start latches the start time; its delta is the nominal
// frame time and it never adjusts quality, since no real delta exists yet.
func (tl *Timeline) Tick(nowMs float64) Frame {
	first := !tl.started
	if first {
		tl.started = true
		tl.startMs = nowMs
		tl.lastMs = nowMs
	}

	elapsed := nowMs - tl.startMs
	dtMs := nowMs - tl.lastMs
	if dtMs < 1 {
		dtMs = 1
	}
	tl.lastMs = nowMs

	regen := false
	if first {
		dtMs = 1000.0 / 60
	} else {
		tl.emaDt = tl.emaDt*0.9 + dtMs*0.1
		regen = tl.adjustQuality(1000 / tl.emaDt)
	}

	return Frame{
		ElapsedMs:  elapsed,
		T:          physics.Clamp01(elapsed / tl.tun.DurationMs),
		DT:         dtMs / 1000,
		FPS:        1000 / tl.emaDt,
		Quality:    tl.quality,
		Regenerate: regen,
	}
}

// adjustQuality walks the quality scalar one step when the smoothed
// frame rate leaves the hysteresis band. Returns true when the scalar
// moved, which obliges the caller to regenerate the starfield before
// drawing so star count matches the new scalar immediately.
func (tl *Timeline) adjustQuality(fps float64) bool {
	switch {
	case fps < tl.tun.FPSLow && tl.quality > tl.tun.QualityMin:
		tl.quality = physics.Clamp(tl.quality-tl.tun.QualityStepDown, tl.tun.QualityMin, tl.tun.QualityMax)
		return true
	case fps > tl.tun.FPSHigh && tl.quality < tl.tun.QualityMax:
		tl.quality = physics.Clamp(tl.quality+tl.tun.QualityStepUp, tl.tun.QualityMin, tl.tun.QualityMax)
		return true
	}
	return false
}
