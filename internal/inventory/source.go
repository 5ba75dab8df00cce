package inventory

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/sigreer/lvmgraph/internal/command"
)

// ReportLsblk names the block-device report. It is not an LVM report but
// shares the Source interface.
const ReportLsblk ReportKind = "lsblk"

// Source returns the raw JSON of one inventory report
type Source interface {
	Report(ctx context.Context, kind ReportKind) ([]byte, error)
}

// LiveSource runs the LVM reporting tools and lsblk on the host
type LiveSource struct {
	Runner command.Runner

	// ByteSizes asks lsblk for exact byte counts, formatted later with binary prefixes
	ByteSizes bool
}

// Report runs the tool for kind and returns its stdout
func (s *LiveSource) Report(ctx context.Context, kind ReportKind) ([]byte, error) {
	var (
		out []byte
		err error
	)

	switch kind {
	case ReportLV, ReportPV, ReportVG:
		out, err = s.Runner.Run(ctx, kind.Command(), "--reportformat", "json")
	case ReportLsblk:
		args := []string{"-J", "-o", lsblkColumns}
		if s.ByteSizes {
			args = append(args, "-b")
		}
		out, err = s.Runner.Run(ctx, "lsblk", args...)
	default:
		return nil, fmt.Errorf("unknown report kind %q", kind)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	return out, nil
}

// FixtureSource reads previously captured reports from a directory holding
// lvs.json, pvs.json, vgs.json and lsblk.json
type FixtureSource struct {
	Dir string
}

// FixtureFile returns the file name a report is read from
func FixtureFile(kind ReportKind) string {
	if kind == ReportLsblk {
		return "lsblk.json"
	}
	return kind.Command() + ".json"
}

// Report reads the fixture file for kind
func (s *FixtureSource) Report(ctx context.Context, kind ReportKind) ([]byte, error) {
	path := filepath.Join(s.Dir, FixtureFile(kind))
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	return data, nil
}

// Load fetches and decodes all four reports. Any failure aborts the load;
// an incomplete inventory is never returned.
func Load(ctx context.Context, src Source, log zerolog.Logger) (*Inventory, error) {
	inv := &Inventory{}

	fetch := func(kind ReportKind) ([]byte, error) {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
		}
		data, err := src.Report(ctx, kind)
		if err != nil {
			return nil, fmt.Errorf("loading %s report: %w", kind, err)
		}
		log.Debug().Str("report", string(kind)).Int("bytes", len(data)).Msg("report loaded")
		return data, nil
	}

	data, err := fetch(ReportLV)
	if err != nil {
		return nil, err
	}
	if inv.LVs, err = ParseLVs(data); err != nil {
		return nil, err
	}

	if data, err = fetch(ReportPV); err != nil {
		return nil, err
	}
	if inv.PVs, err = ParsePVs(data); err != nil {
		return nil, err
	}

	if data, err = fetch(ReportVG); err != nil {
		return nil, err
	}
	if inv.VGs, err = ParseVGs(data); err != nil {
		return nil, err
	}

	if data, err = fetch(ReportLsblk); err != nil {
		return nil, err
	}
	if inv.Forest, err = ParseLsblk(data); err != nil {
		return nil, err
	}

	log.Info().
		Int("lvs", len(inv.LVs)).
		Int("pvs", len(inv.PVs)).
		Int("vgs", len(inv.VGs)).
		Int("devices", len(inv.Forest)).
		Msg("inventory loaded")

	return inv, nil
}
