package viseme

import (
	"time"

	"github.com/example/go-faceblend/internal/face"
)

// dropEpsilon is the magnitude below which a channel fading toward zero is
// considered settled and removed from the running state, so the weight map
// does not accumulate dead entries across utterances.
const dropEpsilon = 1e-4

// Event is a single phoneme timing event from a speech-timing source. Events
// are immutable; a later event supersedes the active one immediately.
type Event struct {
	Code      string
	Start     time.Time
	Duration  time.Duration
	Intensity float64
}

// Active reports whether the event's nominal duration covers now. Zero
// duration events are treated as instantaneous and never active.
func (e Event) Active(now time.Time) bool {
	return now.Before(e.Start.Add(e.Duration))
}

// Params tunes a smoothing pass.
type Params struct {
	// Smoothing is the exponential retention factor in [0,1): 0 snaps to the
	// target in one frame, values near 1 approach it slowly.
	Smoothing float64
	// IntensityGain scales the event intensity before it scales the targets.
	IntensityGain float64
}

// Smoother carries per-channel weights across frames and eases them toward
// the target set of the active phoneme. It is the only speech-related state
// that outlives a frame.
type Smoother struct {
	table   Table
	current face.Weights
}

// NewSmoother returns a Smoother resolving targets against table.
func NewSmoother(table Table) *Smoother {
	return &Smoother{
		table:   table,
		current: face.Weights{},
	}
}

// Update advances the smoothed weights one frame toward the target implied by
// ev and speaking, and returns a copy of the result.
//
// When speaking is false or ev is nil the target is the silence set, so every
// carried channel fades toward zero rather than dropping abruptly. When an
// event is active its table targets are scaled by IntensityGain*ev.Intensity;
// intensity is deliberately not clamped, out-of-range values propagate
// proportionally so upstream bugs stay visible.
func (s *Smoother) Update(ev *Event, speaking bool, p Params) face.Weights {
	var target face.Weights
	if speaking && ev != nil {
		target = s.table.Weights(ev.Code)
		scale := p.IntensityGain * ev.Intensity
		for name := range target {
			target[name] *= scale
		}
	} else {
		target = s.table.Weights(Silence)
	}

	// Smooth over the union of carried and targeted channels.
	next := make(face.Weights, len(s.current)+len(target))
	for name, old := range s.current {
		goal := target[name]
		next[name] = old + (goal-old)*(1-p.Smoothing)
	}
	for name, goal := range target {
		if _, seen := s.current[name]; seen {
			continue
		}
		next[name] = goal * (1 - p.Smoothing)
	}

	// Drop channels that have settled at zero with a zero target.
	for name, v := range next {
		if target[name] == 0 && v > -dropEpsilon && v < dropEpsilon {
			delete(next, name)
		}
	}

	s.current = next
	return next.Clone()
}

// Current returns a copy of the running weights.
func (s *Smoother) Current() face.Weights {
	return s.current.Clone()
}

// Settled reports whether every running weight is within eps of zero.
func (s *Smoother) Settled(eps float64) bool {
	for _, v := range s.current {
		if v > eps || v < -eps {
			return false
		}
	}
	return true
}

// Reset clears the running weights. Called when speech stops so a residual
// decaying weight cannot bleed into the next utterance.
func (s *Smoother) Reset() {
	s.current = face.Weights{}
}
