package audio

import (
	"sync/atomic"
	"time"
)

// pollInterval is how often the watcher samples playback progress.
const pollInterval = 50 * time.Millisecond

// ProgressSource publishes playback progress for the watcher. run
// increments on every (re)start so cues re-arm; t is normalized
// progress, negative while no run is active.
type ProgressSource interface {
	Progress() (run uint64, t float64)
}

// cueTrigger is one threshold on the normalized timeline.
type cueTrigger struct {
	at  float64
	cue Cue
}

// Watcher checks cue thresholds on a fixed-interval ticker, decoupled
// from the render loop. It only reads the source's published progress
// and never touches rendering state.
type Watcher struct {
	src     ProgressSource
	player  Player
	cues    []cueTrigger
	enabled atomic.Bool

	lastRun uint64
	fired   []bool
	stop    chan struct{}
	done    chan struct{}
}

// NewWatcher creates a watcher firing the launch and attack cues at the
// given thresholds. player may be nil; the watcher then only tracks.
func NewWatcher(src ProgressSource, player Player, launchAt, attackAt float64) *Watcher {
	w := &Watcher{
		src:    src,
		player: player,
		cues: []cueTrigger{
			{at: launchAt, cue: CueLaunch},
			{at: attackAt, cue: CueAttack},
		},
		fired: make([]bool, 2),
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	w.enabled.Store(true)
	return w
}

// SetEnabled toggles whether fired cues reach the player. Thresholds
// keep being tracked either way, so re-enabling mid-run does not replay
// cues that already passed.
func (w *Watcher) SetEnabled(on bool) {
	w.enabled.Store(on)
}

// Enabled reports whether cues reach the player.
func (w *Watcher) Enabled() bool {
	return w.enabled.Load()
}

// Start launches the watcher goroutine.
func (w *Watcher) Start() {
	go func() {
		defer close(w.done)
		ticker := time.NewTicker(pollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-w.stop:
				return
			case <-ticker.C:
				run, t := w.src.Progress()
				for _, cue := range w.check(run, t) {
					if w.enabled.Load() && w.player != nil {
						w.player.Play(cue)
					}
				}
			}
		}
	}()
}

// Stop terminates the watcher goroutine and waits for it to exit.
func (w *Watcher) Stop() {
	close(w.stop)
	<-w.done
}

// check advances threshold tracking for the observed progress and
// returns the cues that crossed since the last sample. A new run id
// re-arms all thresholds; each fires at most once per run.
func (w *Watcher) check(run uint64, t float64) []Cue {
	if run != w.lastRun {
		w.lastRun = run
		for i := range w.fired {
			w.fired[i] = false
		}
	}
	if t < 0 {
		return nil
	}
	var out []Cue
	for i, trig := range w.cues {
		if !w.fired[i] && t >= trig.at {
			w.fired[i] = true
			out = append(out, trig.cue)
		}
	}
	return out
}
