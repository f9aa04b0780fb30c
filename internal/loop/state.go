// Package loop provides playback control and the frame loop of the show.
package loop

import (
	"math"
	"math/rand"
	"sync/atomic"

	"github.com/ostrab/moonstrike/internal/assets"
	"github.com/ostrab/moonstrike/internal/config"
	"github.com/ostrab/moonstrike/internal/draw"
	"github.com/ostrab/moonstrike/internal/scene"
)

// PlaybackState is the current playback phase.
type PlaybackState int

const (
	StateNotStarted    PlaybackState = iota // Waiting on the start screen
	StateRunning                            // Timeline advancing
	StateSkipped                            // Jumped to the final frame early
	StateEnded                              // Timeline reached t=1 naturally
	StateFrozenReduced                      // Reduced-motion still frame
)

func (s PlaybackState) String() string {
	switch s {
	case StateNotStarted:
		return "not-started"
	case StateRunning:
		return "running"
	case StateSkipped:
		return "skipped"
	case StateEnded:
		return "ended"
	case StateFrozenReduced:
		return "reduced-motion-frozen"
	default:
		return "invalid"
	}
}

// Directive tells the outer loop what a step produced.
type Directive int

const (
	// DirectiveContinue: the timeline is live, keep feeding timestamps.
	DirectiveContinue Directive = iota
	// DirectiveDone: a final or static frame was composed; no further
	// motion happens until a control input changes state.
	DirectiveDone
)

// inactiveProgress is published while no run is advancing, so the audio
// watcher never fires on skipped or idle playback.
const inactiveProgress = -1.0

// Show owns one animation instance: timeline, composer, pools and the
// playback state machine. Everything mutable is touched only from the
// goroutine driving Step; the published progress is the single value
// other goroutines may read.
type Show struct {
	tun      config.Tuning
	timeline *scene.Timeline
	composer *scene.Composer

	state   PlaybackState
	reduced bool
	last    scene.State
	lastMs  float64

	runID    atomic.Uint64
	progress atomic.Uint64
}

// NewShow creates a show rendering into the standard logical surface.
// store may be nil to force vector drawing throughout.
func NewShow(tun config.Tuning, store *assets.Store, rng *rand.Rand) *Show {
	sh := &Show{
		tun:      tun,
		timeline: scene.NewTimeline(tun),
		composer: scene.NewComposer(tun, config.LogicalWidth, config.LogicalHeight, store, rng),
	}
	sh.publish(inactiveProgress)
	return sh
}

// State returns the playback state.
func (sh *Show) State() PlaybackState {
	return sh.state
}

// SceneState returns the entity state of the most recent composed frame.
func (sh *Show) SceneState() scene.State {
	return sh.last
}

// Composer exposes the scene composer, mainly for density inspection.
func (sh *Show) Composer() *scene.Composer {
	return sh.composer
}

// SetReducedMotion records the viewer's reduced-motion preference.
func (sh *Show) SetReducedMotion(on bool) {
	sh.reduced = on
}

// ReducedMotion reports the recorded preference.
func (sh *Show) ReducedMotion() bool {
	return sh.reduced
}

// Start begins playback. With reduced motion preferred it enters the
// frozen still-frame state immediately: no frames are scheduled and no
// particles ever spawn. The viewer may still opt into full playback via
// Replay.
func (sh *Show) Start(nowMs float64) {
	if sh.reduced {
		sh.state = StateFrozenReduced
		sh.composer.ResetParticles()
		sh.publish(inactiveProgress)
		return
	}
	sh.beginRun(nowMs)
}

// Replay restarts full playback from Ended, Skipped or the reduced
// still frame. Restarting is idempotent with respect to any frame the
// loop had pending: the next Step simply starts the new run.
func (sh *Show) Replay(nowMs float64) {
	sh.beginRun(nowMs)
}

// beginRun resets pools and timers for a fresh run.
func (sh *Show) beginRun(nowMs float64) {
	sh.timeline.Reset()
	sh.composer.ResetParticles()
	sh.composer.RegenerateStars(sh.timeline.Quality())
	sh.state = StateRunning
	sh.lastMs = nowMs
	sh.runID.Add(1)
	sh.publish(0)
}

// Skip cancels the running timeline and jumps straight to the ended
// visual without waiting for t to reach 1. Pools are dropped so no
// mid-flight exhaust lingers over the final frame.
func (sh *Show) Skip() {
	if sh.state == StateEnded || sh.state == StateFrozenReduced {
		return
	}
	sh.state = StateSkipped
	sh.composer.ResetParticles()
	sh.publish(inactiveProgress)
}

// Progress implements audio.ProgressSource. t is negative while no run
// is advancing.
func (sh *Show) Progress() (run uint64, t float64) {
	return sh.runID.Load(), math.Float64frombits(sh.progress.Load())
}

func (sh *Show) publish(t float64) {
	sh.progress.Store(math.Float64bits(t))
}

// Step composes the frame for the given timestamp into the canvas and
// advances playback. The caller owns pacing; tests feed synthetic
// timestamps directly.
func (sh *Show) Step(c *draw.Canvas, nowMs float64) Directive {
	dt := (nowMs - sh.lastMs) / 1000
	if dt < 0 {
		dt = 0
	}
	sh.lastMs = nowMs

	switch sh.state {
	case StateRunning:
		f := sh.timeline.Tick(nowMs)
		if f.Regenerate {
			sh.composer.RegenerateStars(f.Quality)
		}
		st, done := sh.composer.ComposeFrame(c, f)
		sh.last = st
		sh.publish(f.T)
		if done {
			sh.state = StateEnded
			return DirectiveDone
		}
		return DirectiveContinue

	case StateEnded, StateSkipped:
		// Freeze-frame: the scene holds at t=1 while leftover particles
		// finish fading out. Nothing new spawns.
		f := scene.Frame{
			T:         1,
			ElapsedMs: sh.tun.DurationMs,
			DT:        dt,
			Quality:   sh.timeline.Quality(),
			Frozen:    true,
		}
		st, _ := sh.composer.ComposeFrame(c, f)
		sh.last = st
		return DirectiveDone

	case StateFrozenReduced:
		sh.composer.ComposeStatic(c)
		sh.last = sh.composer.StateAt(0)
		return DirectiveDone

	default:
		sh.composer.ComposeIdle(c, nowMs/1000)
		return DirectiveContinue
	}
}
