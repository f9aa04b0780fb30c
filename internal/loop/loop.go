package loop

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/ostrab/moonstrike/internal/assets"
	"github.com/ostrab/moonstrike/internal/audio"
	"github.com/ostrab/moonstrike/internal/config"
	"github.com/ostrab/moonstrike/internal/draw"
	"github.com/ostrab/moonstrike/internal/input"
)

// Max render resolution. Larger terminals get a centered canvas with a
// border; pushing more cells than this over SSH costs more than it looks.
const (
	maxRenderWidth  = 200
	maxRenderHeight = 56
)

// Options configures a playback session.
type Options struct {
	// TermSizeFunc reports terminal dimensions; nil uses os.Stdout.
	TermSizeFunc draw.TermSizeFunc
	// ReducedMotion renders a static frame instead of animating.
	ReducedMotion bool
	// SoundEnabled starts with sound cues audible.
	SoundEnabled bool
	// Player receives sound cues; nil plays nothing.
	Player audio.Player
	// Tuning overrides the default show constants.
	Tuning *config.Tuning
	// AssetDir optionally overrides the embedded sprite art.
	AssetDir string
	// Seed fixes the random sequence; 0 seeds from the clock.
	Seed int64
}

// Run plays the show until the viewer quits or the input stream closes.
// Returns an error only when the host cannot support playback at all.
func Run(r *bufio.Reader, w io.Writer, opts Options) error {
	tun := config.DefaultTuning()
	if opts.Tuning != nil {
		tun = *opts.Tuning
	}
	sizeFunc := opts.TermSizeFunc
	if sizeFunc == nil {
		sizeFunc = draw.DefaultTermSizeFunc
	}

	// No usable surface means the whole component no-ops rather than
	// partially rendering.
	termWidth, termHeight, err := draw.TerminalSizeRawWith(sizeFunc)
	if err != nil {
		return fmt.Errorf("playback unsupported: %w", err)
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	// Sprite art loads in the background; frames render with whatever
	// has arrived, falling back to vector drawing meanwhile.
	store := &assets.Store{}
	assets.DefaultLoader(opts.AssetDir).FillAsync(store)

	show := NewShow(tun, store, rng)
	show.SetReducedMotion(opts.ReducedMotion)

	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	canvas := draw.NewCanvas(renderWidth, renderHeight, config.LogicalWidth, config.LogicalHeight)
	canvas.SetOffset(offsetCol, offsetRow)
	cw := draw.NewChunkWriter(w, offsetCol, offsetRow)

	watcher := audio.NewWatcher(show, opts.Player, tun.LaunchCueAt, tun.AttackCueAt)
	watcher.SetEnabled(opts.SoundEnabled)
	watcher.Start()
	defer watcher.Stop()

	stream := input.StartStream(r)

	draw.HideCursor(w)
	defer draw.ShowCursor(w)
	draw.ClearScreen(w)

	epoch := time.Now()
	prevState := show.State()

	for {
		frameStart := time.Now()
		nowMs := float64(frameStart.Sub(epoch).Microseconds()) / 1000

		inp := input.ReadInput(stream)
		if inp.Quit {
			break
		}
		if inp.Sound {
			watcher.SetEnabled(!watcher.Enabled())
		}
		handleControls(show, inp, nowMs)

		// Handle terminal resize
		if tw, th, err := draw.TerminalSizeRawWith(sizeFunc); err == nil && (tw != termWidth || th != termHeight) {
			termWidth, termHeight = tw, th
			rw, rh, oc, or := clampTermSize(tw, th)
			canvas.Resize(rw, rh)
			canvas.SetOffset(oc, or)
			cw.SetOffset(oc, or)
			cw.WriteString("\033[H\033[2J")
			canvas.ForceRedraw()
		}

		// Full clear on state transitions so stale overlay text from
		// the previous state does not persist.
		if st := show.State(); st != prevState {
			cw.WriteString("\033[H\033[2J")
			canvas.ForceRedraw()
			prevState = st
		}

		show.Step(canvas, nowMs)

		canvas.Render(cw)
		canvas.RenderBorder(cw)
		drawOverlay(show, watcher, cw, canvas)

		// The watcher never writes to the terminal itself; drain any
		// queued bells here to keep a single writer on the stream.
		if bell, ok := opts.Player.(*audio.BellPlayer); ok {
			for i := bell.TakePending(); i > 0; i-- {
				cw.WriteString("\a")
			}
		}

		if err := cw.Flush(); err != nil {
			return err
		}

		elapsed := time.Since(frameStart)
		if elapsed < config.TargetFrameTime {
			time.Sleep(config.TargetFrameTime - elapsed)
		}
	}

	draw.ClearScreen(w)
	draw.ResetStyle(w)
	return nil
}

// handleControls applies per-state key bindings.
func handleControls(show *Show, inp input.Input, nowMs float64) {
	switch show.State() {
	case StateNotStarted:
		if inp.Confirm {
			show.Start(nowMs)
		}
		if inp.Skip {
			show.Skip()
		}
	case StateRunning:
		if inp.Skip {
			show.Skip()
		}
	case StateEnded, StateSkipped:
		if inp.Confirm {
			show.Replay(nowMs)
		}
	case StateFrozenReduced:
		// Explicit opt-in to full playback.
		if inp.Confirm {
			show.Replay(nowMs)
		}
	}
}

// clampTermSize limits the render area to the max resolution and
// computes centering offsets for larger terminals.
func clampTermSize(termWidth, termHeight int) (width, height, offsetCol, offsetRow int) {
	width = termWidth
	height = termHeight
	if width > maxRenderWidth {
		width = maxRenderWidth
		offsetCol = (termWidth - width) / 2
	}
	if height > maxRenderHeight {
		height = maxRenderHeight
		offsetRow = (termHeight - height) / 2
	}
	return width, height, offsetCol, offsetRow
}
