// Package timeline parses scripted sequences of phoneme and mode events for
// deterministic offline rendering.
package timeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"time"
)

// Script is a timed sequence of input events. Events are applied to the
// engine when the frame clock passes their timestamp.
type Script struct {
	// FPS optionally overrides the frame rate for rendering this script.
	FPS    int     `json:"fps,omitempty"`
	Events []Event `json:"events"`
}

// Event carries exactly one of a phoneme or a mode change at a point in time.
type Event struct {
	AtMS    int           `json:"at_ms"`
	Phoneme *PhonemeEvent `json:"phoneme,omitempty"`
	Mode    *ModeEvent    `json:"mode,omitempty"`
}

// PhonemeEvent is the scripted form of a speech-timing event.
type PhonemeEvent struct {
	Code       string  `json:"code"`
	DurationMS int     `json:"duration_ms"`
	Intensity  float64 `json:"intensity"`
}

// ModeEvent is the scripted form of a mode/emotion change.
type ModeEvent struct {
	Listening bool   `json:"listening"`
	Speaking  bool   `json:"speaking"`
	Emotion   string `json:"emotion"`
}

// Parse decodes a script from r and sorts its events by timestamp so authors
// may list them in any order.
func Parse(r io.Reader) (Script, error) {
	var s Script
	dec := json.NewDecoder(r)
	if err := dec.Decode(&s); err != nil {
		return Script{}, fmt.Errorf("decode timeline: %w", err)
	}

	for i, ev := range s.Events {
		if ev.Phoneme == nil && ev.Mode == nil {
			return Script{}, fmt.Errorf("timeline event %d has neither phoneme nor mode", i)
		}
		if ev.AtMS < 0 {
			return Script{}, fmt.Errorf("timeline event %d has negative timestamp", i)
		}
	}

	sort.SliceStable(s.Events, func(i, j int) bool {
		return s.Events[i].AtMS < s.Events[j].AtMS
	})
	return s, nil
}

// Load reads and parses a script file.
func Load(path string) (Script, error) {
	f, err := os.Open(path) // #nosec G304 -- path is operator-supplied
	if err != nil {
		return Script{}, fmt.Errorf("open timeline: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Parse(f)
}

// Duration returns the time span covered by the script: the latest event
// timestamp plus that event's phoneme duration, if any.
func (s Script) Duration() time.Duration {
	var end int
	for _, ev := range s.Events {
		stop := ev.AtMS
		if ev.Phoneme != nil {
			stop += ev.Phoneme.DurationMS
		}
		if stop > end {
			end = stop
		}
	}
	return time.Duration(end) * time.Millisecond
}
