// Package input reads playback control keys from a raw terminal stream.
package input

import (
	"bufio"
)

// Input represents the control keys pressed since the last frame.
type Input struct {
	Quit    bool // q, Q, Esc or Ctrl-C
	Confirm bool // Space or Enter: start, replay, opt into full playback
	Skip    bool // s or S: jump to the final frame
	Sound   bool // m or M: toggle sound
	Pressed []byte
}

// Stream delivers input bytes via a channel so reads never block the
// frame loop.
type Stream struct {
	ch chan byte
}

// StartStream spawns a goroutine that reads from r and sends bytes to
// the stream. The channel closes when the reader fails (disconnect).
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{
		ch: make(chan byte, 128),
	}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// ReadInput drains all available bytes from the stream (non-blocking)
// and folds them into a per-frame Input. A closed stream reads as Quit.
func ReadInput(s *Stream) Input {
	var inp Input
	var buf []byte

	for {
		select {
		case b, ok := <-s.ch:
			if !ok {
				inp.Quit = true
				goto parse
			}
			buf = append(buf, b)
		default:
			goto parse
		}
	}

parse:
	for i := 0; i < len(buf); i++ {
		b := buf[i]

		// CSI sequences (arrow keys etc.) carry no meaning here; swallow
		// them so a stray ESC [ A is not read as a bare Escape.
		if b == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			i += 2
			continue
		}

		switch b {
		case 'q', 'Q', '\x03', '\x1b':
			inp.Quit = true
		case ' ', '\r', '\n':
			inp.Confirm = true
		case 's', 'S':
			inp.Skip = true
		case 'm', 'M':
			inp.Sound = true
		}
	}
	inp.Pressed = buf
	return inp
}
