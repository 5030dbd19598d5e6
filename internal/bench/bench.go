// Package bench provides benchmarking primitives for the faceblend bench
// command.
package bench

import (
	"fmt"
	"sort"
	"time"

	"github.com/example/go-faceblend/internal/engine"
	"github.com/example/go-faceblend/internal/expression"
	"github.com/example/go-faceblend/internal/rig"
	"github.com/example/go-faceblend/internal/viseme"
)

// Config selects what to benchmark.
type Config struct {
	Frames int
	FPS    int
	Params engine.Params
	Table  viseme.Table
	Rig    rig.Descriptor
}

// Result holds the timing of a benchmark run.
type Result struct {
	Frames         int
	Elapsed        time.Duration
	TicksPerSecond float64
	AvgTick        time.Duration
}

// Stats holds aggregate per-tick timing statistics.
type Stats struct {
	Min  time.Duration
	Max  time.Duration
	Mean time.Duration
}

// ComputeStats calculates min, max and mean over a slice of durations.
// An empty slice yields the zero Stats.
func ComputeStats(durations []time.Duration) Stats {
	if len(durations) == 0 {
		return Stats{}
	}
	mn, mx := durations[0], durations[0]
	var sum time.Duration
	for _, d := range durations {
		if d < mn {
			mn = d
		}
		if d > mx {
			mx = d
		}
		sum += d
	}
	return Stats{
		Min:  mn,
		Max:  mx,
		Mean: sum / time.Duration(len(durations)),
	}
}

// Run ticks an engine through a synthetic utterance that cycles every phoneme
// code in the table, and measures wall time per tick. The frame clock is
// synthetic so results do not depend on ticker jitter.
func Run(cfg Config) (Result, Stats, error) {
	if cfg.Frames <= 0 {
		return Result{}, Stats{}, fmt.Errorf("frames must be positive, got %d", cfg.Frames)
	}
	if cfg.FPS <= 0 {
		return Result{}, Stats{}, fmt.Errorf("fps must be positive, got %d", cfg.FPS)
	}

	boundRig, err := rig.New(cfg.Rig)
	if err != nil {
		return Result{}, Stats{}, err
	}

	codes := cfg.Table.Codes()
	sort.Strings(codes)
	if len(codes) == 0 {
		return Result{}, Stats{}, fmt.Errorf("shape table is empty")
	}

	epoch := time.Unix(0, 0)
	eng := engine.New(cfg.Params, cfg.Table, boundRig, boundRig, epoch)
	eng.OnMode(false, true, expression.Neutral)

	step := time.Second / time.Duration(cfg.FPS)
	perTick := make([]time.Duration, 0, cfg.Frames)

	// One phoneme every six frames approximates conversational viseme rate.
	const framesPerPhoneme = 6

	begin := time.Now()
	clock := epoch
	for i := 0; i < cfg.Frames; i++ {
		if i%framesPerPhoneme == 0 {
			code := codes[(i/framesPerPhoneme)%len(codes)]
			eng.OnPhoneme(viseme.Event{
				Code:      code,
				Start:     clock,
				Duration:  time.Duration(framesPerPhoneme) * step,
				Intensity: 1.0,
			})
		}

		tickStart := time.Now()
		eng.Tick(clock)
		perTick = append(perTick, time.Since(tickStart))

		clock = clock.Add(step)
	}
	elapsed := time.Since(begin)

	res := Result{
		Frames:  cfg.Frames,
		Elapsed: elapsed,
		AvgTick: elapsed / time.Duration(cfg.Frames),
	}
	if elapsed > 0 {
		res.TicksPerSecond = float64(cfg.Frames) / elapsed.Seconds()
	}
	return res, ComputeStats(perTick), nil
}
