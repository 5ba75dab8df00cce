package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sigreer/lvmgraph/internal/command"
	"github.com/sigreer/lvmgraph/internal/config"
	"github.com/sigreer/lvmgraph/internal/inventory"
	"github.com/sigreer/lvmgraph/internal/log"
)

// flags holds command-line overrides; only flags the user actually set
// replace config file values
type flags struct {
	cfgFile       string
	fixtureDir    string
	format        string
	templateDir   string
	noMountpoints bool
	timeout       time.Duration
	byteSizes     bool
	logLevel      string
	logJSON       bool
}

func newRootCmd() *cobra.Command {
	f := &flags{}

	root := &cobra.Command{
		Use:   "lvmgraph",
		Short: "Draw the LVM and block device stack as a diagram",
		Long: `lvmgraph reads the host's LVM reports (lvs, pvs, vgs) and the lsblk
device tree and prints a Mermaid flowchart of the storage stack:
disks, partitions, physical volumes, volume groups, thin pools and
logical volumes with their mount points.

Examples:
  lvmgraph > storage.mmd
  lvmgraph --format table
  lvmgraph --fixture ./captured-host --no-mountpoints
  lvmgraph resolve vg0-root`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, f)
		},
	}

	root.PersistentFlags().StringVar(&f.cfgFile, "config", "", "config file (default is /etc/lvmgraph/config.yaml)")
	root.PersistentFlags().StringVar(&f.fixtureDir, "fixture", "", "read captured reports from this directory instead of running the LVM tools")
	root.PersistentFlags().DurationVar(&f.timeout, "timeout", 30*time.Second, "timeout for each external command (0 disables)")
	root.PersistentFlags().BoolVar(&f.byteSizes, "bytes", false, "ask lsblk for exact sizes and print them with binary prefixes")
	root.PersistentFlags().StringVar(&f.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	root.PersistentFlags().BoolVar(&f.logJSON, "log-json", false, "write logs as JSON")

	render := newRenderCmd(f)
	addRenderFlags(root, f)

	root.AddCommand(render)
	root.AddCommand(newResolveCmd(f))
	root.AddCommand(newVersionCmd())

	return root
}

// loadConfig merges the config file with any flags set on cmd and
// initialises logging from the result
func loadConfig(cmd *cobra.Command, f *flags) (*config.Config, error) {
	cfg, err := config.Load(f.cfgFile)
	if err != nil {
		return nil, err
	}

	set := cmd.Flags()
	if set.Changed("fixture") {
		cfg.FixtureDir = f.fixtureDir
		cfg.Source = config.SourceFixture
	}
	if set.Changed("timeout") {
		if f.timeout < 0 {
			return nil, fmt.Errorf("--timeout must not be negative, got %s", f.timeout)
		}
		cfg.CommandTimeout = f.timeout
	}
	if set.Changed("bytes") {
		cfg.ByteSizes = f.byteSizes
	}
	if set.Changed("log-level") {
		cfg.Log.Level = f.logLevel
	}
	if set.Changed("log-json") {
		cfg.Log.JSON = f.logJSON
	}
	if set.Changed("format") {
		cfg.Render.Format = f.format
	}
	if set.Changed("template-dir") {
		cfg.Render.TemplateDir = f.templateDir
	}
	if set.Changed("no-mountpoints") {
		show := !f.noMountpoints
		cfg.Render.Mountpoints = &show
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Init(log.Config{
		Level:      log.ParseLevel(cfg.Log.Level),
		JSONOutput: cfg.Log.JSON,
		Output:     cmd.ErrOrStderr(),
	})
	log.Logger.Debug().
		Str("source", cfg.SourceMode()).
		Str("format", cfg.Render.Format).
		Dur("timeout", cfg.CommandTimeout).
		Msg("configuration loaded")

	return cfg, nil
}

// newSource picks captured fixtures or the live host tools
func newSource(cfg *config.Config) inventory.Source {
	if cfg.SourceMode() == config.SourceFixture {
		return &inventory.FixtureSource{Dir: cfg.FixtureDir}
	}
	return &inventory.LiveSource{
		Runner:    command.NewExec(cfg.CommandTimeout, log.WithComponent("command")),
		ByteSizes: cfg.ByteSizes,
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
