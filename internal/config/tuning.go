package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Logical render resolution - all scene math runs in this coordinate
// space. Actual rendering scales to fit terminal size.
const (
	LogicalWidth  = 960.0
	LogicalHeight = 540.0
)

// Client rendering
const (
	TargetFPS       = 60
	TargetFrameTime = time.Second / TargetFPS
)

// Tuning holds the heuristic constants of the show. The defaults are the
// shipped choreography; a YAML file can override individual values for
// experimentation without a rebuild.
type Tuning struct {
	// Total show length in milliseconds.
	DurationMs float64 `yaml:"duration_ms"`

	// Adaptive quality band. Density scales by the quality scalar, which
	// walks between min and max in small steps driven by measured fps.
	QualityMin      float64 `yaml:"quality_min"`
	QualityMax      float64 `yaml:"quality_max"`
	QualityStepDown float64 `yaml:"quality_step_down"`
	QualityStepUp   float64 `yaml:"quality_step_up"`

	// Hysteresis band: degrade below FPSLow, recover above FPSHigh.
	FPSLow  float64 `yaml:"fps_low"`
	FPSHigh float64 `yaml:"fps_high"`

	// Per-second thruster emission request rate at quality 1.0.
	ThrusterBaseRate float64 `yaml:"thruster_base_rate"`

	// Chance per frame of an impact flash while the attack runs.
	FlashChance float64 `yaml:"flash_chance"`

	// Starfield vertical drift in logical pixels per second.
	StarScrollSpeed float64 `yaml:"star_scroll_speed"`

	// Normalized-timeline positions of the sound cues.
	LaunchCueAt float64 `yaml:"launch_cue_at"`
	AttackCueAt float64 `yaml:"attack_cue_at"`
}

// DefaultTuning returns the shipped constants.
func DefaultTuning() Tuning {
	return Tuning{
		DurationMs:       10000,
		QualityMin:       0.6,
		QualityMax:       1.2,
		QualityStepDown:  0.02,
		QualityStepUp:    0.01,
		FPSLow:           45,
		FPSHigh:          58,
		ThrusterBaseRate: 60,
		FlashChance:      0.25,
		StarScrollSpeed:  16,
		LaunchCueAt:      0.2,
		AttackCueAt:      0.7,
	}
}

// LoadTuning reads a YAML tuning file and applies it over the defaults.
// Zero-valued fields in the file keep their defaults.
func LoadTuning(path string) (Tuning, error) {
	t := DefaultTuning()
	data, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("read tuning: %w", err)
	}
	var overlay Tuning
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return t, fmt.Errorf("parse tuning: %w", err)
	}
	t.apply(overlay)
	if err := t.validate(); err != nil {
		return DefaultTuning(), err
	}
	return t, nil
}

// LoadTuningFromEnv loads the tuning file named by MOONSTRIKE_TUNING,
// or returns defaults when the variable is unset.
func LoadTuningFromEnv() (Tuning, error) {
	path := GetEnv("MOONSTRIKE_TUNING", "")
	if path == "" {
		return DefaultTuning(), nil
	}
	return LoadTuning(path)
}

func (t *Tuning) apply(o Tuning) {
	if o.DurationMs > 0 {
		t.DurationMs = o.DurationMs
	}
	if o.QualityMin > 0 {
		t.QualityMin = o.QualityMin
	}
	if o.QualityMax > 0 {
		t.QualityMax = o.QualityMax
	}
	if o.QualityStepDown > 0 {
		t.QualityStepDown = o.QualityStepDown
	}
	if o.QualityStepUp > 0 {
		t.QualityStepUp = o.QualityStepUp
	}
	if o.FPSLow > 0 {
		t.FPSLow = o.FPSLow
	}
	if o.FPSHigh > 0 {
		t.FPSHigh = o.FPSHigh
	}
	if o.ThrusterBaseRate > 0 {
		t.ThrusterBaseRate = o.ThrusterBaseRate
	}
	if o.FlashChance > 0 {
		t.FlashChance = o.FlashChance
	}
	if o.StarScrollSpeed > 0 {
		t.StarScrollSpeed = o.StarScrollSpeed
	}
	if o.LaunchCueAt > 0 {
		t.LaunchCueAt = o.LaunchCueAt
	}
	if o.AttackCueAt > 0 {
		t.AttackCueAt = o.AttackCueAt
	}
}

func (t Tuning) validate() error {
	if t.QualityMin > t.QualityMax {
		return fmt.Errorf("tuning: quality_min %.2f exceeds quality_max %.2f", t.QualityMin, t.QualityMax)
	}
	if t.FPSLow >= t.FPSHigh {
		return fmt.Errorf("tuning: fps_low %.1f must stay below fps_high %.1f", t.FPSLow, t.FPSHigh)
	}
	if t.LaunchCueAt < 0 || t.LaunchCueAt > 1 || t.AttackCueAt < 0 || t.AttackCueAt > 1 {
		return fmt.Errorf("tuning: cue positions must lie in [0,1]")
	}
	return nil
}
