// Package engine drives the per-frame facial animation pipeline: it samples
// the latest speech and mode inputs, runs the viseme, expression, and blink
// layers, composes their outputs, and forwards the result to the bound mesh
// provider and clip player.
package engine

import (
	"time"

	"github.com/example/go-faceblend/internal/animstate"
	"github.com/example/go-faceblend/internal/blink"
	"github.com/example/go-faceblend/internal/expression"
	"github.com/example/go-faceblend/internal/face"
	"github.com/example/go-faceblend/internal/viseme"
)

// settleEpsilon is the residual weight magnitude below which the smoother is
// considered drained after speech stops.
const settleEpsilon = 1e-3

// MeshProvider is the capability a bound mesh exposes: channel membership and
// a per-channel weight write. Channels the engine does not write keep their
// prior value on the provider side.
type MeshProvider interface {
	HasChannel(name string) bool
	SetWeight(name string, value float64)
}

// ClipPlayer exposes the loopable skeletal clips of the bound rig and accepts
// a play request. Play is only issued on a (clip, speed) change.
type ClipPlayer interface {
	Clips() []string
	Play(name string, speed float64)
}

// Params tunes the engine's layers.
type Params struct {
	Smoothing     float64
	IntensityGain float64
	BlinkPeriod   time.Duration
	BlinkWindow   time.Duration
}

// DefaultParams returns the tuning used when no configuration is supplied.
func DefaultParams() Params {
	return Params{
		Smoothing:     0.3,
		IntensityGain: 1.0,
		BlinkPeriod:   blink.DefaultPeriod,
		BlinkWindow:   blink.DefaultWindow,
	}
}

// Frame is the composed output of one tick.
type Frame struct {
	Weights face.Weights
	Clip    string
	Speed   float64
	Pose    string
}

// Engine holds the latest sampled inputs and the only cross-frame state: the
// smoothed lip-sync weights and the blink epoch. It is single-threaded by
// contract; the frame loop is the one writer.
type Engine struct {
	params   params
	smoother *viseme.Smoother
	blinker  *blink.Oscillator

	mesh   MeshProvider
	player ClipPlayer

	event    *viseme.Event
	inputs   animstate.Inputs
	speaking bool

	lastClip  string
	lastSpeed float64
}

type params struct {
	smoothing     float64
	intensityGain float64
}

// New returns an engine over table bound to mesh and player, with the blink
// epoch captured at now.
func New(p Params, table viseme.Table, mesh MeshProvider, player ClipPlayer, now time.Time) *Engine {
	return &Engine{
		params: params{
			smoothing:     p.Smoothing,
			intensityGain: p.IntensityGain,
		},
		smoother: viseme.NewSmoother(table),
		blinker:  blink.NewOscillator(p.BlinkPeriod, p.BlinkWindow, now),
		mesh:     mesh,
		player:   player,
	}
}

// OnPhoneme records the latest phoneme event. A burst of events between
// frames collapses to the most recent one; there is no queue.
func (e *Engine) OnPhoneme(ev viseme.Event) {
	e.event = &ev
}

// OnMode records the latest mode tuple from the mode/emotion source.
func (e *Engine) OnMode(listening, speaking bool, emotion expression.Emotion) {
	e.inputs = animstate.Inputs{
		Listening: listening,
		Speaking:  speaking,
		Emotion:   emotion,
	}
}

// Tick advances the engine one frame at now: it runs all layers against the
// latest sampled inputs, writes the composed weights to the mesh provider,
// forwards the resolved clip to the player on change, and returns the frame.
func (e *Engine) Tick(now time.Time) Frame {
	speaking := e.inputs.Speaking
	if e.speaking && !speaking {
		// Stop-speaking transition: restart the blink cycle. The smoother is
		// drained gradually below rather than zeroed here, so channels fade
		// to silence instead of snapping.
		e.blinker.Restart(now)
	}
	e.speaking = speaking

	ev := e.event
	if ev != nil && !ev.Active(now) {
		ev = nil
	}

	lip := e.smoother.Update(ev, speaking, viseme.Params{
		Smoothing:     e.params.smoothing,
		IntensityGain: e.params.intensityGain,
	})
	if !speaking && e.smoother.Settled(settleEpsilon) {
		// Fully faded out: clear the running state so nothing bleeds into
		// the next utterance.
		e.smoother.Reset()
		e.event = nil
	}

	expr := expression.For(e.inputs.Emotion)
	blinkWeight := e.blinker.Weight(now)

	weights := Compose(expr, lip, blinkWeight)
	if e.mesh != nil {
		for name, v := range weights {
			if e.mesh.HasChannel(name) {
				e.mesh.SetWeight(name, v)
			}
		}
	}

	st := animstate.Resolve(e.inputs)
	frame := Frame{
		Weights: weights,
		Clip:    st.Clip,
		Speed:   st.Speed,
		Pose:    st.Pose,
	}

	if e.player != nil {
		if name, ok := animstate.MatchClip(e.player.Clips(), st.Clip); ok {
			frame.Clip = name
			if name != e.lastClip || st.Speed != e.lastSpeed {
				e.player.Play(name, st.Speed)
				e.lastClip = name
				e.lastSpeed = st.Speed
			}
		} else if e.lastClip != "" {
			// No match at all: the last playing clip continues.
			frame.Clip = e.lastClip
			frame.Speed = e.lastSpeed
		}
	}

	return frame
}
