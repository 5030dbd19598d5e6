package viseme

import (
	"math"
	"testing"
	"time"

	"github.com/example/go-faceblend/internal/face"
)

func testEvent(code string, intensity float64) *Event {
	return &Event{
		Code:      code,
		Start:     time.Unix(0, 0),
		Duration:  200 * time.Millisecond,
		Intensity: intensity,
	}
}

func TestUpdateFirstFrameScenario(t *testing.T) {
	// "aa" at intensity 1.0 while speaking with smoothing 0.3 must land
	// jawOpen at 0 + (0.7 - 0) * 0.7 = 0.49 after one frame.
	s := NewSmoother(DefaultTable())
	p := Params{Smoothing: 0.3, IntensityGain: 1.0}

	got := s.Update(testEvent("aa", 1.0), true, p)
	if math.Abs(got[face.JawOpen]-0.49) > 1e-12 {
		t.Fatalf("jawOpen after one frame = %g, want 0.49", got[face.JawOpen])
	}
}

func TestUpdateConvergesMonotonically(t *testing.T) {
	s := NewSmoother(DefaultTable())
	p := Params{Smoothing: 0.5, IntensityGain: 1.0}
	ev := testEvent("aa", 1.0)
	const target = 0.7

	prev := 0.0
	for i := 1; i <= 20; i++ {
		got := s.Update(ev, true, p)[face.JawOpen]
		if got <= prev {
			t.Fatalf("frame %d: weight %g did not increase from %g", i, got, prev)
		}
		if got > target {
			t.Fatalf("frame %d: weight %g overshot target %g", i, got, target)
		}
		// After N frames the remaining gap is smoothing^N of the target.
		bound := target * math.Pow(p.Smoothing, float64(i))
		if gap := target - got; gap > bound+1e-12 {
			t.Fatalf("frame %d: gap %g exceeds smoothing^N bound %g", i, gap, bound)
		}
		prev = got
	}
}

func TestUpdateSilenceConvergesToZero(t *testing.T) {
	s := NewSmoother(DefaultTable())
	p := Params{Smoothing: 0.3, IntensityGain: 1.0}
	ev := testEvent("aa", 1.0)

	for i := 0; i < 5; i++ {
		s.Update(ev, true, p)
	}

	var last face.Weights
	for i := 0; i < 40; i++ {
		last = s.Update(nil, false, p)
	}

	for name, v := range last {
		if math.Abs(v) > 1e-3 {
			t.Errorf("channel %s = %g after silence, want < 1e-3", name, v)
		}
	}
	if !s.Settled(1e-3) {
		t.Error("smoother did not report settled after fade-out")
	}
}

func TestUpdateCarriesFadingChannels(t *testing.T) {
	// A channel driven by the previous phoneme must keep fading when the new
	// target set does not mention it, not vanish abruptly.
	s := NewSmoother(DefaultTable())
	p := Params{Smoothing: 0.5, IntensityGain: 1.0}

	s.Update(testEvent("ou", 1.0), true, p) // drives mouthPucker
	got := s.Update(testEvent("aa", 1.0), true, p)

	if _, ok := got[face.MouthPucker]; !ok {
		t.Fatal("mouthPucker dropped instead of fading after phoneme change")
	}
	if got[face.MouthPucker] <= 0 {
		t.Fatalf("mouthPucker = %g, want a positive fading value", got[face.MouthPucker])
	}
}

func TestUpdateLastWriteWins(t *testing.T) {
	// Two events in one frame window: only the later one's target matters.
	s := NewSmoother(DefaultTable())
	p := Params{Smoothing: 0.0, IntensityGain: 1.0}

	// With smoothing 0 a frame snaps straight to the target, so the output
	// equals whichever event was active at the tick.
	s.Update(testEvent("ou", 1.0), true, p)
	got := s.Update(testEvent("aa", 1.0), true, p)

	if math.Abs(got[face.JawOpen]-0.7) > 1e-12 {
		t.Errorf("jawOpen = %g, want 0.7 from the later event", got[face.JawOpen])
	}
	// Snap smoothing drives the superseded channel straight to zero.
	if v := got[face.MouthPucker]; v != 0 {
		t.Errorf("mouthPucker = %g, want 0 after being superseded", v)
	}
}

func TestUpdateIntensityNotClamped(t *testing.T) {
	s := NewSmoother(DefaultTable())
	p := Params{Smoothing: 0.0, IntensityGain: 1.0}

	got := s.Update(testEvent("aa", 2.0), true, p)
	if math.Abs(got[face.JawOpen]-1.4) > 1e-12 {
		t.Fatalf("jawOpen = %g, want 1.4: out-of-range intensity must propagate", got[face.JawOpen])
	}
}

func TestUpdateIntensityGain(t *testing.T) {
	s := NewSmoother(DefaultTable())
	p := Params{Smoothing: 0.0, IntensityGain: 0.5}

	got := s.Update(testEvent("aa", 1.0), true, p)
	if math.Abs(got[face.JawOpen]-0.35) > 1e-12 {
		t.Fatalf("jawOpen = %g, want 0.35 with gain 0.5", got[face.JawOpen])
	}
}

func TestUpdateUnknownCodeFadesToSilence(t *testing.T) {
	s := NewSmoother(DefaultTable())
	p := Params{Smoothing: 0.5, IntensityGain: 1.0}

	s.Update(testEvent("aa", 1.0), true, p)
	before := s.Current()[face.JawOpen]

	got := s.Update(testEvent("not-a-phoneme", 1.0), true, p)
	if got[face.JawOpen] >= before {
		t.Fatalf("jawOpen = %g, want decay below %g for unknown code", got[face.JawOpen], before)
	}
}

func TestReset(t *testing.T) {
	s := NewSmoother(DefaultTable())
	p := Params{Smoothing: 0.3, IntensityGain: 1.0}

	s.Update(testEvent("aa", 1.0), true, p)
	s.Reset()

	if got := s.Current(); len(got) != 0 {
		t.Fatalf("Current() after Reset = %v, want empty", got)
	}
}

func TestEventActive(t *testing.T) {
	start := time.Unix(100, 0)
	ev := Event{Code: "aa", Start: start, Duration: 100 * time.Millisecond}

	if !ev.Active(start.Add(50 * time.Millisecond)) {
		t.Error("event inactive inside its duration")
	}
	if ev.Active(start.Add(150 * time.Millisecond)) {
		t.Error("event still active past its duration")
	}
	zero := Event{Code: "aa", Start: start}
	if zero.Active(start) {
		t.Error("zero-duration event reported active")
	}
}
