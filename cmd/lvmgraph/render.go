package main

import (
	"github.com/spf13/cobra"

	"github.com/sigreer/lvmgraph/internal/inventory"
	"github.com/sigreer/lvmgraph/internal/log"
	"github.com/sigreer/lvmgraph/internal/render"
	"github.com/sigreer/lvmgraph/internal/topology"
)

func newRenderCmd(f *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the storage diagram (default command)",
		Long: `Load the LVM and block device inventory, reconcile it into disks,
partitions, volume groups, thin pools and logical volumes, and print it.

Output formats:
  mermaid  Mermaid flowchart from the lvm.mermaid template (default)
  json     the reconciled view as JSON
  table    plain-text listing of each layer`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, f)
		},
	}
	addRenderFlags(cmd, f)
	return cmd
}

func addRenderFlags(cmd *cobra.Command, f *flags) {
	cmd.Flags().StringVarP(&f.format, "format", "f", render.FormatMermaid, "output format: mermaid, json, table")
	cmd.Flags().StringVar(&f.templateDir, "template-dir", "", "directory holding lvm.mermaid (default is the built-in template)")
	cmd.Flags().BoolVar(&f.noMountpoints, "no-mountpoints", false, "leave mount points out of the output")
}

func runRender(cmd *cobra.Command, f *flags) error {
	cfg, err := loadConfig(cmd, f)
	if err != nil {
		return err
	}

	r, err := render.New(render.Options{
		Format:      cfg.Render.Format,
		TemplateDir: cfg.Render.TemplateDir,
		Mountpoints: cfg.RenderMountpoints(),
	})
	if err != nil {
		return err
	}

	inv, err := inventory.Load(cmd.Context(), newSource(cfg), log.WithComponent("inventory"))
	if err != nil {
		return err
	}

	view := topology.Reconcile(inv, topology.Options{DiskTypes: cfg.DiskTypes}, log.WithComponent("topology"))
	if n := len(view.Unresolved); n > 0 {
		log.Logger.Warn().Int("count", n).Strs("devices", view.Unresolved).Msg("logical volumes missing from block device tree")
	}

	return r.Render(cmd.OutOrStdout(), view)
}
