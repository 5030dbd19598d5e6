package bench

import (
	"testing"
	"time"

	"github.com/example/go-faceblend/internal/engine"
	"github.com/example/go-faceblend/internal/rig"
	"github.com/example/go-faceblend/internal/viseme"
)

func TestComputeStats(t *testing.T) {
	durations := []time.Duration{
		3 * time.Millisecond,
		1 * time.Millisecond,
		5 * time.Millisecond,
	}
	got := ComputeStats(durations)

	if got.Min != time.Millisecond {
		t.Errorf("Min = %s, want 1ms", got.Min)
	}
	if got.Max != 5*time.Millisecond {
		t.Errorf("Max = %s, want 5ms", got.Max)
	}
	if got.Mean != 3*time.Millisecond {
		t.Errorf("Mean = %s, want 3ms", got.Mean)
	}
}

func TestComputeStatsEmpty(t *testing.T) {
	if got := ComputeStats(nil); got != (Stats{}) {
		t.Errorf("ComputeStats(nil) = %+v, want zero", got)
	}
}

func TestRun(t *testing.T) {
	res, stats, err := Run(Config{
		Frames: 600,
		FPS:    60,
		Params: engine.DefaultParams(),
		Table:  viseme.DefaultTable(),
		Rig:    rig.DefaultDescriptor(),
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if res.Frames != 600 {
		t.Errorf("Frames = %d, want 600", res.Frames)
	}
	if res.Elapsed <= 0 {
		t.Errorf("Elapsed = %s, want > 0", res.Elapsed)
	}
	if res.TicksPerSecond <= 0 {
		t.Errorf("TicksPerSecond = %g, want > 0", res.TicksPerSecond)
	}
	if stats.Max < stats.Min {
		t.Errorf("stats max %s < min %s", stats.Max, stats.Min)
	}
}

func TestRunArgumentErrors(t *testing.T) {
	base := Config{
		Frames: 10,
		FPS:    60,
		Params: engine.DefaultParams(),
		Table:  viseme.DefaultTable(),
		Rig:    rig.DefaultDescriptor(),
	}

	bad := base
	bad.Frames = 0
	if _, _, err := Run(bad); err == nil {
		t.Error("Run accepted zero frames")
	}

	bad = base
	bad.FPS = 0
	if _, _, err := Run(bad); err == nil {
		t.Error("Run accepted zero fps")
	}

	bad = base
	bad.Table = viseme.Table{}
	if _, _, err := Run(bad); err == nil {
		t.Error("Run accepted an empty table")
	}
}
