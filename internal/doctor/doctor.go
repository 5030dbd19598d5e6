// Package doctor provides environment preflight checks for faceblend.
package doctor

import (
	"fmt"
	"io"

	"github.com/example/go-faceblend/internal/config"
	"github.com/example/go-faceblend/internal/face"
	"github.com/example/go-faceblend/internal/rig"
	"github.com/example/go-faceblend/internal/viseme"
)

// PassMark and FailMark are the prefix symbols printed for each check result.
const (
	PassMark = "✓"
	FailMark = "✗"
)

// Checks holds the resolved inputs each doctor check runs against.
type Checks struct {
	Cfg config.Config
	// Table is the shape table in effect (built-in or loaded from
	// paths.shapes_path by the caller).
	Table viseme.Table
	// Rig is the rig descriptor in effect.
	Rig rig.Descriptor
}

// Result collects the outcome of all checks.
type Result struct {
	failures []string
}

// Failed returns true if any check failed.
func (r *Result) Failed() bool { return len(r.failures) > 0 }

// Failures returns the list of failure messages.
func (r *Result) Failures() []string { return append([]string(nil), r.failures...) }

func (r *Result) fail(msg string) { r.failures = append(r.failures, msg) }

// Run executes all checks and writes human-readable output to w.
// Each check line is prefixed with PassMark or FailMark.
func Run(c Checks, w io.Writer) Result {
	var res Result

	// ---- engine parameters ------------------------------------------------
	if err := c.Cfg.Validate(); err != nil {
		res.fail(fmt.Sprintf("engine parameters: %v", err))
		fmt.Fprintf(w, "%s engine parameters: %v\n", FailMark, err)
	} else {
		fmt.Fprintf(w, "%s engine parameters: fps=%d smoothing=%g blink=%dms/%dms\n",
			PassMark, c.Cfg.Engine.FPS, c.Cfg.Engine.Smoothing,
			c.Cfg.Blink.PeriodMS, c.Cfg.Blink.WindowMS)
	}

	// ---- shape table ------------------------------------------------------
	if err := c.Table.Validate(); err != nil {
		res.fail(fmt.Sprintf("shape table: %v", err))
		fmt.Fprintf(w, "%s shape table: %v\n", FailMark, err)
	} else {
		fmt.Fprintf(w, "%s shape table: %d phonemes, silence entry present\n",
			PassMark, len(c.Table))
	}

	// ---- rig channels -----------------------------------------------------
	boundRig, err := rig.New(c.Rig)
	if err != nil {
		res.fail(fmt.Sprintf("rig: %v", err))
		fmt.Fprintf(w, "%s rig: %v\n", FailMark, err)
		return res
	}
	fmt.Fprintf(w, "%s rig %q: %d channels, %d clips\n",
		PassMark, c.Rig.Name, len(c.Rig.Channels), len(c.Rig.Clips))

	// Eyelid channels must exist for the blink layer to land anywhere.
	for _, name := range face.EyelidChannels() {
		if !boundRig.HasChannel(name) {
			res.fail(fmt.Sprintf("rig missing eyelid channel %q", name))
			fmt.Fprintf(w, "%s eyelid channel %q: missing\n", FailMark, name)
		} else {
			fmt.Fprintf(w, "%s eyelid channel %q: present\n", PassMark, name)
		}
	}

	// Channels the table targets but the rig lacks degrade silently at
	// runtime; surface them here so rig authors notice.
	missing := map[string]bool{}
	for _, targets := range c.Table {
		for name := range targets {
			if !boundRig.HasChannel(name) {
				missing[name] = true
			}
		}
	}
	if len(missing) > 0 {
		names := make([]string, 0, len(missing))
		for name := range missing {
			names = append(names, name)
		}
		res.fail(fmt.Sprintf("rig lacks %d channel(s) targeted by the shape table: %v", len(names), names))
		fmt.Fprintf(w, "%s shape table coverage: %d channel(s) not on rig\n", FailMark, len(names))
	} else {
		fmt.Fprintf(w, "%s shape table coverage: all targeted channels on rig\n", PassMark)
	}

	return res
}
