package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/osse101/ToolForge_Go/configs"
	"github.com/osse101/ToolForge_Go/internal/material"
	"github.com/osse101/ToolForge_Go/internal/registry"
)

func newCheckMaterialsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-materials [path]",
		Short: "Validate a material pack and print its checksum (default: embedded pack)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configs.MaterialsPath
			if len(args) > 0 {
				path = args[0]
			}

			p := newPrinter(cmd.OutOrStdout())
			p.Header(fmt.Sprintf("Checking material pack %s", path))

			// registering into a scratch registry catches duplicate and dangling ids
			reg := registry.New()
			pack, err := material.LoadInto(cmd.Context(), material.NewLoader(configs.FS), path, reg)
			if err != nil {
				return err
			}

			p.Success("%d traits, %d materials", len(pack.Traits), len(reg.Materials()))
			p.Info("checksum %s", pack.Checksum)
			return nil
		},
	}
}
