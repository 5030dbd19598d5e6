package main

import (
	"fmt"
	"os"

	"github.com/example/go-faceblend/internal/bench"
	"github.com/spf13/cobra"
)

func newBenchCmd() *cobra.Command {
	var frames int

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Benchmark engine tick throughput over a synthetic utterance",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			table, err := loadTable(cfg)
			if err != nil {
				return err
			}
			rigDesc, err := loadRigDescriptor(cfg)
			if err != nil {
				return err
			}

			res, stats, err := bench.Run(bench.Config{
				Frames: frames,
				FPS:    cfg.Engine.FPS,
				Params: engineParams(cfg),
				Table:  table,
				Rig:    rigDesc,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(os.Stdout, "frames:      %d\n", res.Frames)
			fmt.Fprintf(os.Stdout, "elapsed:     %s\n", res.Elapsed)
			fmt.Fprintf(os.Stdout, "ticks/sec:   %.0f\n", res.TicksPerSecond)
			fmt.Fprintf(os.Stdout, "tick min:    %s\n", stats.Min)
			fmt.Fprintf(os.Stdout, "tick max:    %s\n", stats.Max)
			fmt.Fprintf(os.Stdout, "tick mean:   %s\n", stats.Mean)
			return nil
		},
	}

	cmd.Flags().IntVar(&frames, "frames", 10000, "Number of frames to render")

	return cmd
}
