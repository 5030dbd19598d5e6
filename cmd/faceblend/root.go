package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/example/go-faceblend/internal/config"
	"github.com/example/go-faceblend/internal/engine"
	"github.com/example/go-faceblend/internal/rig"
	"github.com/example/go-faceblend/internal/server"
	"github.com/example/go-faceblend/internal/viseme"
	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	activeCfg config.Config
	cfgLoaded bool
)

func NewRootCmd() *cobra.Command {
	defaults := config.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "faceblend",
		Short: "Faceblend facial-animation command line",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := config.Load(config.LoadOptions{
				Cmd:        cmd,
				ConfigFile: cfgFile,
				Defaults:   defaults,
			})
			if err != nil {
				return err
			}
			activeCfg = loaded
			cfgLoaded = true
			setupLogger(loaded.LogLevel)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Optional config file (yaml|toml|json)")
	config.RegisterFlags(cmd.PersistentFlags(), defaults)

	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newBenchCmd())
	cmd.AddCommand(newDoctorCmd())
	cmd.AddCommand(newHealthCmd())

	return cmd
}

// setupLogger configures the process-wide slog default logger.
func setupLogger(levelStr string) {
	lvl, err := server.ParseLogLevel(levelStr)
	if err != nil {
		lvl = slog.LevelInfo
	}
	h := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(h))
}

func requireConfig() (config.Config, error) {
	if !cfgLoaded {
		return config.Config{}, fmt.Errorf("configuration not loaded")
	}
	return activeCfg, nil
}

// loadTable resolves the shape table in effect: a JSON table from
// paths.shapes_path, or the built-in default.
func loadTable(cfg config.Config) (viseme.Table, error) {
	if cfg.Paths.ShapesPath != "" {
		return viseme.LoadTable(cfg.Paths.ShapesPath)
	}
	return viseme.DefaultTable(), nil
}

// loadRigDescriptor resolves the rig descriptor in effect: a JSON descriptor
// from paths.rig_path, or the built-in reference rig.
func loadRigDescriptor(cfg config.Config) (rig.Descriptor, error) {
	if cfg.Paths.RigPath != "" {
		return rig.LoadDescriptor(cfg.Paths.RigPath)
	}
	return rig.DefaultDescriptor(), nil
}

// engineParams translates the loaded configuration into engine tuning.
func engineParams(cfg config.Config) engine.Params {
	return engine.Params{
		Smoothing:     cfg.Engine.Smoothing,
		IntensityGain: cfg.Engine.IntensityGain,
		BlinkPeriod:   time.Duration(cfg.Blink.PeriodMS) * time.Millisecond,
		BlinkWindow:   time.Duration(cfg.Blink.WindowMS) * time.Millisecond,
	}
}
