package main

import (
	"fmt"
	"os"

	"github.com/example/go-faceblend/internal/doctor"
	"github.com/spf13/cobra"
)

func newDoctorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Run preflight checks against the configured rig and shape table",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
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

			res := doctor.Run(doctor.Checks{
				Cfg:   cfg,
				Table: table,
				Rig:   rigDesc,
			}, os.Stdout)

			if res.Failed() {
				return fmt.Errorf("doctor found %d problem(s)", len(res.Failures()))
			}
			return nil
		},
	}

	return cmd
}
