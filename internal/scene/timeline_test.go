package scene

import (
	"math"
	"testing"

	"github.com/ostrab/moonstrike/internal/config"
)

func TestTimelineProgressMonotone(t *testing.T) {
	tl := NewTimeline(config.DefaultTuning())

	prev := -1.0
	for now := 0.0; now <= 12000; now += 100 {
		f := tl.Tick(now)
		if f.T < prev {
			t.Fatalf("progress went backwards at now=%v: %v -> %v", now, prev, f.T)
		}
		if f.T < 0 || f.T > 1 {
			t.Fatalf("progress out of range at now=%v: %v", now, f.T)
		}
		prev = f.T
	}

	// Past the duration progress pins at exactly 1.
	if f := tl.Tick(20000); f.T != 1 {
		t.Errorf("expected t=1 past duration, got %v", f.T)
	}
}

func TestTimelineProgressFromWallClock(t *testing.T) {
	tl := NewTimeline(config.DefaultTuning())

	// Start latches at the first tick's timestamp, not zero.
	tl.Tick(5000)
	f := tl.Tick(10000)
	if got, want := f.T, 0.5; math.Abs(got-want) > 1e-9 {
		t.Errorf("t = %v, want %v", got, want)
	}
	if got, want := f.ElapsedMs, 5000.0; got != want {
		t.Errorf("elapsed = %v, want %v", got, want)
	}

	// Uneven tick spacing must not disturb wall-clock progress.
	f = tl.Tick(10001)
	if got, want := f.T, 5001.0/10000; math.Abs(got-want) > 1e-9 {
		t.Errorf("t after 1ms tick = %v, want %v", got, want)
	}
}

func TestTimelineFirstTickNominal(t *testing.T) {
	tl := NewTimeline(config.DefaultTuning())

	f := tl.Tick(1234)
	if f.ElapsedMs != 0 {
		t.Errorf("first tick elapsed = %v, want 0", f.ElapsedMs)
	}
	if got, want := f.DT, (1000.0/60)/1000; math.Abs(got-want) > 1e-9 {
		t.Errorf("first tick dt = %v, want nominal %v", got, want)
	}
	if f.Quality != 1.0 || f.Regenerate {
		t.Errorf("first tick adjusted quality: q=%v regen=%v", f.Quality, f.Regenerate)
	}
}

func TestTimelineQualityDegradesUnderLoad(t *testing.T) {
	tun := config.DefaultTuning()
	tl := NewTimeline(tun)

	// 50ms frames sustained (20fps) must walk quality down to the floor.
	now := 0.0
	var f Frame
	for i := 0; i < 400; i++ {
		f = tl.Tick(now)
		now += 50
	}
	if got := f.Quality; math.Abs(got-tun.QualityMin) > 1e-9 {
		t.Errorf("quality after sustained 20fps = %v, want floor %v", got, tun.QualityMin)
	}
}

func TestTimelineQualityRecovers(t *testing.T) {
	tun := config.DefaultTuning()
	tl := NewTimeline(tun)

	now := 0.0
	for i := 0; i < 200; i++ {
		tl.Tick(now)
		now += 50
	}
	low := tl.Quality()
	if low >= 1.0 {
		t.Fatalf("expected quality below 1 after load, got %v", low)
	}

	// Fast frames (8ms, 125fps) walk it back up toward the ceiling.
	var f Frame
	for i := 0; i < 2000; i++ {
		f = tl.Tick(now)
		now += 8
	}
	if got := f.Quality; math.Abs(got-tun.QualityMax) > 1e-9 {
		t.Errorf("quality after sustained fast frames = %v, want ceiling %v", got, tun.QualityMax)
	}
}

func TestTimelineQualityStableInBand(t *testing.T) {
	tl := NewTimeline(config.DefaultTuning())

	// 20ms frames = 50fps, inside the 45..58 hysteresis band. Let the
	// EMA settle first: it is seeded at the 60fps frame time, so the
	// opening frames still read above the band.
	now := 0.0
	for i := 0; i < 50; i++ {
		tl.Tick(now)
		now += 20
	}
	q := tl.Quality()
	for i := 0; i < 500; i++ {
		f := tl.Tick(now)
		if f.Regenerate {
			t.Fatalf("regenerate fired inside hysteresis band at frame %d (fps=%v)", i, f.FPS)
		}
		now += 20
	}
	if got := tl.Quality(); got != q {
		t.Errorf("quality drifted inside band: %v -> %v", q, got)
	}
}

func TestTimelineRegenerateFlagTracksQualitySteps(t *testing.T) {
	tl := NewTimeline(config.DefaultTuning())

	now := 0.0
	lastQ := tl.Quality()
	for i := 0; i < 300; i++ {
		f := tl.Tick(now)
		if (f.Quality != lastQ) != f.Regenerate {
			t.Fatalf("frame %d: quality %v -> %v but regenerate=%v", i, lastQ, f.Quality, f.Regenerate)
		}
		lastQ = f.Quality
		now += 50
	}
}

func TestTimelineResetKeepsQuality(t *testing.T) {
	tl := NewTimeline(config.DefaultTuning())

	now := 0.0
	for i := 0; i < 200; i++ {
		tl.Tick(now)
		now += 50
	}
	q := tl.Quality()
	if q >= 1.0 {
		t.Fatalf("expected degraded quality, got %v", q)
	}

	tl.Reset()
	f := tl.Tick(now + 1000)
	if f.ElapsedMs != 0 {
		t.Errorf("reset did not re-latch start: elapsed=%v", f.ElapsedMs)
	}
	if f.Quality != q {
		t.Errorf("quality after reset = %v, want carried-over %v", f.Quality, q)
	}
}

func TestTimelineMinimumDelta(t *testing.T) {
	tl := NewTimeline(config.DefaultTuning())
	tl.Tick(100)

	// Duplicate and backwards timestamps clamp the delta to 1ms.
	f := tl.Tick(100)
	if got, want := f.DT, 0.001; math.Abs(got-want) > 1e-12 {
		t.Errorf("dt for duplicate timestamp = %v, want %v", got, want)
	}
}
