package loop

import (
	"fmt"
	"strings"

	"github.com/ostrab/moonstrike/internal/audio"
	"github.com/ostrab/moonstrike/internal/draw"
)

const titleText = "M O O N S T R I K E"

// drawOverlay layers state-dependent text on top of the rendered canvas.
func drawOverlay(show *Show, watcher *audio.Watcher, cw *draw.ChunkWriter, c *draw.Canvas) {
	switch show.State() {
	case StateNotStarted:
		drawTitle(cw, c, 1)
		writeCentered(cw, c, c.TerminalHeight()-4, "\033[1mPress SPACE to launch\033[0m")
		writeCentered(cw, c, c.TerminalHeight()-2, controlsLine(watcher))
	case StateRunning:
		drawTitle(cw, c, show.SceneState().TitleOpacity)
		writeCentered(cw, c, c.TerminalHeight()-2, controlsLine(watcher))
	case StateEnded, StateSkipped:
		writeCentered(cw, c, c.TerminalHeight()-2, "Press SPACE to replay · Q to quit")
	case StateFrozenReduced:
		writeCentered(cw, c, c.TerminalHeight()-4, "Reduced motion — showing a still frame")
		writeCentered(cw, c, c.TerminalHeight()-2, "Press SPACE to play anyway · Q to quit")
	}
}

// drawTitle renders the banner with opacity folded into the foreground
// color against the dark backdrop. Frames repaint only lit canvas
// cells, so a fully faded title is erased with spaces rather than left
// on screen.
func drawTitle(cw *draw.ChunkWriter, c *draw.Canvas, opacity float64) {
	if opacity <= 0.01 {
		writeCentered(cw, c, 3, strings.Repeat(" ", len(titleText)))
		return
	}
	v := int(255 * opacity)
	if v > 255 {
		v = 255
	}
	s := fmt.Sprintf("\033[1m\033[38;2;%d;%d;%dm%s\033[0m", v, v, v, titleText)
	writeCentered(cw, c, 3, s)
}

func controlsLine(watcher *audio.Watcher) string {
	sound := "off"
	if watcher.Enabled() {
		sound = "on"
	}
	return fmt.Sprintf("\033[2mS skip · M sound [%s] · Q quit\033[0m", sound)
}

// writeCentered positions s horizontally centered on the given row.
// Escape sequences in s do not count toward its printed width.
func writeCentered(cw *draw.ChunkWriter, c *draw.Canvas, row int, s string) {
	col := (c.TerminalWidth()-printedWidth(s))/2 + 1
	if col < 1 {
		col = 1
	}
	cw.WriteAt(col, row, s)
}

// printedWidth counts visible characters, skipping ANSI escapes.
func printedWidth(s string) int {
	n := 0
	inEsc := false
	for _, r := range s {
		switch {
		case inEsc:
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
				inEsc = false
			}
		case r == '\033':
			inEsc = true
		default:
			n++
		}
	}
	return n
}
