package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/example/go-faceblend/internal/audio"
	"github.com/example/go-faceblend/internal/engine"
	"github.com/example/go-faceblend/internal/expression"
	"github.com/example/go-faceblend/internal/rig"
	"github.com/example/go-faceblend/internal/timeline"
	"github.com/example/go-faceblend/internal/viseme"
	"github.com/spf13/cobra"
)

// frameRecord is one rendered frame in the JSON Lines output.
type frameRecord struct {
	TMS     int64              `json:"t_ms"`
	Weights map[string]float64 `json:"weights"`
	Clip    string             `json:"clip,omitempty"`
	Speed   float64            `json:"speed,omitempty"`
	Pose    string             `json:"pose,omitempty"`
}

func newRunCmd() *cobra.Command {
	var (
		timelinePath string
		audioPath    string
		outputPath   string
		maxFrames    int
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Render a timeline script to per-frame weights (JSON Lines)",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			script, err := timeline.Load(timelinePath)
			if err != nil {
				return err
			}

			fps := cfg.Engine.FPS
			if script.FPS > 0 {
				fps = script.FPS
			}

			var envelope []float64
			if audioPath != "" {
				envelope, err = loadEnvelope(audioPath, fps)
				if err != nil {
					return err
				}
			}

			table, err := loadTable(cfg)
			if err != nil {
				return err
			}
			rigDesc, err := loadRigDescriptor(cfg)
			if err != nil {
				return err
			}
			boundRig, err := rig.New(rigDesc)
			if err != nil {
				return err
			}

			out, closeOut, err := openOutput(outputPath)
			if err != nil {
				return err
			}
			defer closeOut()

			return renderScript(renderOptions{
				script:    script,
				fps:       fps,
				maxFrames: maxFrames,
				envelope:  envelope,
				params:    engineParams(cfg),
				table:     table,
				rig:       boundRig,
				out:       out,
			})
		},
	}

	cmd.Flags().StringVar(&timelinePath, "timeline", "", "Timeline script JSON (required)")
	cmd.Flags().StringVar(&audioPath, "audio", "", "Optional mono WAV whose loudness envelope scales phoneme intensity")
	cmd.Flags().StringVar(&outputPath, "output", "-", "Output path for JSON Lines frames (- = stdout)")
	cmd.Flags().IntVar(&maxFrames, "max-frames", 0, "Stop after this many frames (0 = run to script end plus one second)")
	_ = cmd.MarkFlagRequired("timeline")

	return cmd
}

func loadEnvelope(path string, fps int) ([]float64, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is operator-supplied
	if err != nil {
		return nil, fmt.Errorf("read audio: %w", err)
	}
	buf, err := audio.DecodeWAV(data)
	if err != nil {
		return nil, err
	}
	return audio.Envelope(buf, fps)
}

func openOutput(path string) (io.Writer, func(), error) {
	if path == "" || path == "-" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path) // #nosec G304 -- path is operator-supplied
	if err != nil {
		return nil, nil, fmt.Errorf("create output: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

type renderOptions struct {
	script    timeline.Script
	fps       int
	maxFrames int
	envelope  []float64
	params    engine.Params
	table     viseme.Table
	rig       *rig.Rig
	out       io.Writer
}

// renderScript ticks the engine over a synthetic frame clock starting at the
// Unix epoch, applying script events as the clock passes them, and writes one
// JSON line per frame. The synthetic clock makes output fully deterministic.
func renderScript(opts renderOptions) error {
	epoch := time.Unix(0, 0).UTC()
	eng := engine.New(opts.params, opts.table, opts.rig, opts.rig, epoch)

	step := time.Second / time.Duration(opts.fps)
	frames := opts.maxFrames
	if frames <= 0 {
		// Run to script end plus a one-second tail so fades settle.
		frames = int(opts.script.Duration()/step) + opts.fps
	}

	w := bufio.NewWriter(opts.out)
	enc := json.NewEncoder(w)

	next := 0
	events := opts.script.Events
	for i := 0; i < frames; i++ {
		now := epoch.Add(time.Duration(i) * step)
		tMS := now.Sub(epoch).Milliseconds()

		for next < len(events) && int64(events[next].AtMS) <= tMS {
			applyEvent(eng, events[next], now, frameEnvelope(opts.envelope, i))
			next++
		}

		frame := eng.Tick(now)
		if err := enc.Encode(frameRecord{
			TMS:     tMS,
			Weights: frame.Weights,
			Clip:    frame.Clip,
			Speed:   frame.Speed,
			Pose:    frame.Pose,
		}); err != nil {
			return fmt.Errorf("write frame: %w", err)
		}
	}

	return w.Flush()
}

func applyEvent(eng *engine.Engine, ev timeline.Event, now time.Time, gain float64) {
	if ev.Phoneme != nil {
		eng.OnPhoneme(viseme.Event{
			Code:      ev.Phoneme.Code,
			Start:     now,
			Duration:  time.Duration(ev.Phoneme.DurationMS) * time.Millisecond,
			Intensity: ev.Phoneme.Intensity * gain,
		})
	}
	if ev.Mode != nil {
		eng.OnMode(ev.Mode.Listening, ev.Mode.Speaking, expression.Emotion(ev.Mode.Emotion))
	}
}

// frameEnvelope returns the loudness gain for frame i, or unity when no
// envelope was supplied or the audio is shorter than the script.
func frameEnvelope(env []float64, i int) float64 {
	if len(env) == 0 || i >= len(env) {
		return 1
	}
	return env[i]
}
