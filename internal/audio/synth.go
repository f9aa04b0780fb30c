package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

// synthCue builds the synthesized-tone fallback for a cue: a frequency
// sweep with an attack/release envelope.
func synthCue(cue Cue) beep.Streamer {
	switch cue {
	case CueLaunch:
		// Low rumble sliding down
		return newSweep(150, 50, 900*time.Millisecond, 30*time.Millisecond, 400*time.Millisecond)
	case CueAttack:
		// Rising zap
		return newSweep(300, 900, 350*time.Millisecond, 5*time.Millisecond, 120*time.Millisecond)
	default:
		return beep.Silence(0)
	}
}

// sweep is a sine oscillator whose frequency glides from one value to
// another over its lifetime, shaped by a linear attack/release envelope.
type sweep struct {
	from, to float64
	phase    float64
	pos      int
	total    int
	attack   int
	release  int
}

func newSweep(from, to float64, duration, attack, release time.Duration) beep.Streamer {
	return &sweep{
		from:    from,
		to:      to,
		total:   sampleRate.N(duration),
		attack:  sampleRate.N(attack),
		release: sampleRate.N(release),
	}
}

func (s *sweep) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if s.pos >= s.total {
			return i, i > 0
		}

		progress := float64(s.pos) / float64(s.total)
		freq := s.from + (s.to-s.from)*progress
		val := math.Sin(2 * math.Pi * s.phase)

		vol := 1.0
		if s.pos < s.attack && s.attack > 0 {
			vol = float64(s.pos) / float64(s.attack)
		} else if rem := s.total - s.pos; rem < s.release && s.release > 0 {
			vol = float64(rem) / float64(s.release)
		}
		val *= vol * 0.6

		samples[i][0] = val
		samples[i][1] = val

		s.phase += freq / float64(sampleRate)
		s.phase -= math.Floor(s.phase)
		s.pos++
	}
	return len(samples), true
}

func (s *sweep) Err() error { return nil }
