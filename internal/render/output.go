package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/sigreer/lvmgraph/internal/topology"
)

// PrintJSON outputs the view as indented JSON
func PrintJSON(w io.Writer, view *topology.View) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(view)
}

// PrintTable outputs the view as one plain-text table per layer
func PrintTable(w io.Writer, view *topology.View, mountpoints bool) {
	section(w, "DISKS")
	fmt.Fprintf(w, "%-20s %-10s %-5s %s\n", "NAME", "SIZE", "LVM", "PARTS")
	for _, d := range view.Disks {
		fmt.Fprintf(w, "%-20s %-10s %-5s %d\n", d.Name, d.Size, yesNo(d.LVMAllocated), d.Parts)
	}

	section(w, "PARTITIONS")
	fmt.Fprintf(w, "%-28s %-10s %-5s %-12s %s\n", "NAME", "SIZE", "LVM", "DISK", "MOUNTPOINT")
	for _, p := range view.Partitions {
		switch p := p.(type) {
		case topology.DiskPartition:
			fmt.Fprintf(w, "%-28s %-10s %-5s %-12s %s\n", p.Name, p.Size, yesNo(p.LVMAllocated), p.Disk, mountpoint(p.Mountpoint, mountpoints))
		case topology.FakePartition:
			fmt.Fprintf(w, "%-28s %-10s %-5s %-12s %s\n", p.Name, "-", "-", p.Disk, "-")
		}
	}

	section(w, "PHYSICAL VOLUMES")
	fmt.Fprintf(w, "%-20s %-16s %-10s %s\n", "NAME", "VG", "SIZE", "FREE")
	for _, pv := range view.PVs {
		fmt.Fprintf(w, "%-20s %-16s %-10s %s\n", pv.Name, dash(pv.VGName), dash(pv.Field("pv_size")), dash(pv.Field("pv_free")))
	}

	section(w, "VOLUME GROUPS")
	fmt.Fprintf(w, "%-16s %-10s %-10s %-4s %s\n", "NAME", "SIZE", "FREE", "PVS", "LVS")
	for _, vg := range view.VGs {
		fmt.Fprintf(w, "%-16s %-10s %-10s %-4s %s\n", vg.Name, dash(vg.Field("vg_size")), dash(vg.Field("vg_free")), dash(vg.Field("pv_count")), dash(vg.Field("lv_count")))
	}

	section(w, "THIN POOLS")
	fmt.Fprintf(w, "%-16s %-16s %-10s %s\n", "NAME", "VG", "SIZE", "DATA%")
	for _, t := range view.Thins {
		if pool, ok := t.(topology.ThinPool); ok {
			fmt.Fprintf(w, "%-16s %-16s %-10s %s\n", pool.Name, pool.VGName, dash(pool.Field("lv_size")), dash(pool.Field("data_percent")))
		}
	}

	section(w, "LOGICAL VOLUMES")
	fmt.Fprintf(w, "%-16s %-16s %-10s %-10s %-16s %s\n", "NAME", "VG", "ATTR", "SIZE", "POOL", "MOUNTPOINT")
	for _, lv := range view.LVs {
		fmt.Fprintf(w, "%-16s %-16s %-10s %-10s %-16s %s\n", lv.Name, lv.VGName, lv.Attr, dash(lv.Field("lv_size")), dash(lv.PoolLV), mountpoint(lv.Mountpoint, mountpoints))
	}

	if len(view.Unresolved) > 0 {
		section(w, "NOT IN BLOCK DEVICE TREE")
		for _, name := range view.Unresolved {
			fmt.Fprintln(w, name)
		}
	}
}

func section(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n", title)
	fmt.Fprintln(w, strings.Repeat("-", 80))
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func mountpoint(m *string, show bool) string {
	if !show || m == nil {
		return "-"
	}
	return *m
}
