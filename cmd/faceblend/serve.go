package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/go-faceblend/internal/config"
	"github.com/example/go-faceblend/internal/server"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the faceblend live-session HTTP server",
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

			srv := server.New(cfg, server.Deps{
				Table:  table,
				Rig:    rigDesc,
				Params: engineParams(cfg),
				FPS:    cfg.Engine.FPS,
			}).WithShutdownTimeout(time.Duration(cfg.Server.ShutdownTimeout) * time.Second)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return srv.Start(ctx)
		},
	}

	defaults := config.DefaultConfig()
	config.RegisterFlags(cmd.Flags(), defaults)

	return cmd
}
