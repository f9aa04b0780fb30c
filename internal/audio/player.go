// Package audio plays the show's sound cues. Cues fire at fixed
// normalized-timeline thresholds, checked by a watcher that runs on its
// own ticker and only reads published playback progress. Audio failures
// never reach the visual timeline: a cue that cannot play is dropped.
package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"
)

const sampleRate = beep.SampleRate(44100)

// Cue names a sound effect of the show.
type Cue int

const (
	CueLaunch Cue = iota // Rocket ignition, at the launch threshold
	CueAttack            // Beam zap, at the attack threshold
)

func (c Cue) String() string {
	switch c {
	case CueLaunch:
		return "launch"
	case CueAttack:
		return "attack"
	default:
		return "unknown"
	}
}

// Player plays cues. Implementations must not block the caller and must
// swallow playback failures.
type Player interface {
	Play(cue Cue)
	Close()
}

// SpeakerPlayer plays cues through the system speaker. Each cue prefers
// a WAV sample from the asset directory and falls back to a synthesized
// tone when the sample is missing or undecodable.
type SpeakerPlayer struct {
	samples map[Cue]*beep.Buffer
}

// NewSpeakerPlayer initializes the speaker and loads optional samples
// from dir (may be empty). An initialization error means the host has
// no audio; callers should fall back to another Player.
func NewSpeakerPlayer(dir string) (*SpeakerPlayer, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return nil, fmt.Errorf("init speaker: %w", err)
	}
	p := &SpeakerPlayer{samples: make(map[Cue]*beep.Buffer)}
	if dir != "" {
		for _, cue := range []Cue{CueLaunch, CueAttack} {
			if buf := loadSample(filepath.Join(dir, cue.String()+".wav")); buf != nil {
				p.samples[cue] = buf
			}
		}
	}
	return p, nil
}

// loadSample decodes a WAV file into a memory buffer at the speaker
// rate, or returns nil when anything fails.
func loadSample(path string) *beep.Buffer {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	streamer, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return nil
	}
	buf := beep.NewBuffer(beep.Format{SampleRate: sampleRate, NumChannels: 2, Precision: 2})
	if format.SampleRate != sampleRate {
		buf.Append(beep.Resample(3, format.SampleRate, sampleRate, streamer))
	} else {
		buf.Append(streamer)
	}
	streamer.Close()
	return buf
}

// Play starts the cue asynchronously on the speaker mixer.
func (p *SpeakerPlayer) Play(cue Cue) {
	if buf, ok := p.samples[cue]; ok {
		speaker.Play(buf.Streamer(0, buf.Len()))
		return
	}
	speaker.Play(synthCue(cue))
}

// Close silences the speaker.
func (p *SpeakerPlayer) Close() {
	speaker.Clear()
}

// BellPlayer signals cues with the terminal bell. It never writes to
// the terminal itself: the render loop drains pending bells on its next
// frame, preserving the single-writer invariant on the output stream.
type BellPlayer struct {
	pending atomic.Int32
}

// NewBellPlayer creates a bell player.
func NewBellPlayer() *BellPlayer {
	return &BellPlayer{}
}

// Play queues one bell.
func (b *BellPlayer) Play(Cue) {
	b.pending.Add(1)
}

// TakePending returns and clears the queued bell count.
func (b *BellPlayer) TakePending() int {
	return int(b.pending.Swap(0))
}

// Close is a no-op.
func (b *BellPlayer) Close() {}
