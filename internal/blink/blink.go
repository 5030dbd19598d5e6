// Package blink produces a periodic, time-driven eyelid weight independent of
// speech and expression.
package blink

import (
	"math"
	"time"
)

// Default blink cadence: one blink every three seconds, 150 ms per blink.
const (
	DefaultPeriod = 3 * time.Second
	DefaultWindow = 150 * time.Millisecond
)

// WeightAt returns the eyelid closure in [0,1] for an elapsed time in
// seconds, a blink period, and an active window, all in seconds. Within the
// first window seconds of each period the weight traces a single sinusoidal
// pulse peaking at the window midpoint; outside it the weight is exactly 0.
// Degenerate parameters (period <= 0, window <= 0) yield 0.
func WeightAt(elapsed, period, window float64) float64 {
	if period <= 0 || window <= 0 {
		return 0
	}
	phase := math.Mod(elapsed, period)
	if phase < 0 {
		phase += period
	}
	if phase >= window {
		return 0
	}
	return math.Sin(phase / window * math.Pi)
}

// Oscillator binds WeightAt to a wall-clock epoch captured once. It holds no
// other state; restarting it re-captures the epoch.
type Oscillator struct {
	period time.Duration
	window time.Duration
	epoch  time.Time
}

// NewOscillator returns an oscillator with the given cadence and epoch.
func NewOscillator(period, window time.Duration, epoch time.Time) *Oscillator {
	return &Oscillator{period: period, window: window, epoch: epoch}
}

// Restart re-captures the epoch so the next blink cycle starts at now.
func (o *Oscillator) Restart(now time.Time) {
	o.epoch = now
}

// Weight returns the eyelid closure at now.
func (o *Oscillator) Weight(now time.Time) float64 {
	return WeightAt(now.Sub(o.epoch).Seconds(), o.period.Seconds(), o.window.Seconds())
}
