package scene

import "github.com/ostrab/moonstrike/internal/physics"

// Phase windows over normalized progress t. Each phase-local value is
// clamped to [0, 1]: 0 before its window, 1 after it.
//
//	s1 [0.0, 0.2]  intro title fade-in
//	s2 [0.2, 0.6]  rocket launches upward
//	s3 [0.6, 0.9]  rocket orbits the moon, attack beam and flashes
//	s4 [0.9, 1.0]  moon glows, freeze imminent
type Phases struct {
	S1, S2, S3, S4 float64
}

// PhasesAt computes the four phase-local progress values for t.
func PhasesAt(t float64) Phases {
	return Phases{
		S1: physics.Clamp01(t / 0.2),
		S2: physics.Clamp01((t - 0.2) / 0.4),
		S3: physics.Clamp01((t - 0.6) / 0.3),
		S4: physics.Clamp01((t - 0.9) / 0.1),
	}
}
