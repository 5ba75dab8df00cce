package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sigreer/lvmgraph/internal/inventory"
	"github.com/sigreer/lvmgraph/internal/log"
	"github.com/sigreer/lvmgraph/internal/topology"
)

func newResolveCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <device-name>",
		Short: "Print the mount point of a block device",
		Long: `Look a device up by its kernel or device-mapper name in the lsblk tree
and print where it is mounted. Nothing is printed for a device that exists
but is not mounted; a device that does not exist is an error.

Examples:
  lvmgraph resolve sda1
  lvmgraph resolve vg0-root
  lvmgraph resolve /dev/mapper/ubuntu--vg-ubuntu--lv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd, f, args[0])
		},
	}
}

// deviceName strips the /dev/ and /dev/mapper/ prefixes lsblk does not show
func deviceName(query string) string {
	if name, ok := strings.CutPrefix(query, "/dev/mapper/"); ok {
		return name
	}
	return strings.TrimPrefix(query, "/dev/")
}

func runResolve(cmd *cobra.Command, f *flags, query string) error {
	cfg, err := loadConfig(cmd, f)
	if err != nil {
		return err
	}

	data, err := newSource(cfg).Report(cmd.Context(), inventory.ReportLsblk)
	if err != nil {
		return fmt.Errorf("loading %s report: %w", inventory.ReportLsblk, err)
	}
	forest, err := inventory.ParseLsblk(data)
	if err != nil {
		return err
	}

	name := deviceName(query)
	mountpoint, found := topology.ResolveMountpoint(forest, name)
	if !found {
		return fmt.Errorf("device %s not found in block device tree", name)
	}
	if mountpoint == nil {
		log.Logger.Info().Str("device", name).Msg("device not mounted")
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), *mountpoint)
	return nil
}
