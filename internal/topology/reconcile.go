package topology

import (
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"github.com/sigreer/lvmgraph/internal/inventory"
)

// Options tunes which devices become diagram disks
type Options struct {
	// DiskTypes lists the lsblk types of top-level devices drawn as disks
	DiskTypes []string
}

// DefaultOptions draws only real disks
func DefaultOptions() Options {
	return Options{DiskTypes: []string{inventory.DeviceTypeDisk}}
}

// Reconcile turns a raw inventory into the collections the renderer draws.
// The inventory is not modified and the result depends only on its input.
func Reconcile(inv *inventory.Inventory, opts Options, log zerolog.Logger) *View {
	view := &View{
		LVs:        []inventory.LogicalVolume{},
		Thins:      []ThinPoolEntry{},
		Disks:      []Disk{},
		Partitions: []Partition{},
		VGs:        append([]inventory.VolumeGroup{}, inv.VGs...),
		PVs:        append([]inventory.PhysicalVolume{}, inv.PVs...),
	}

	splitThinPools(view, inv.LVs)
	attachMountpoints(view, inv.Forest, log)
	deriveDisks(view, inv.Forest, pvNameSet(inv.PVs), opts)

	return view
}

// splitThinPools sorts LVs into thin pools and ordinary volumes, adding a
// placeholder pool for each ordinary volume that lives outside any pool
func splitThinPools(view *View, lvs []inventory.LogicalVolume) {
	for _, lv := range lvs {
		if lv.IsThinPool() {
			view.Thins = append(view.Thins, ThinPool{LogicalVolume: lv})
			continue
		}
		view.LVs = append(view.LVs, lv)
		if lv.PoolLV == "" {
			view.Thins = append(view.Thins, PlaceholderPool{})
		}
	}
}

func attachMountpoints(view *View, forest []inventory.BlockDevice, log zerolog.Logger) {
	for i := range view.LVs {
		lv := &view.LVs[i]
		name := lv.DMName()

		mountpoint, found := ResolveMountpoint(forest, name)
		switch {
		case !found:
			log.Warn().Str("device", name).Msg("mountpoint not found: device missing from block device tree")
			view.Unresolved = append(view.Unresolved, name)
		case mountpoint == nil:
			log.Debug().Str("device", name).Msg("device not mounted")
		default:
			lv.Mountpoint = copyString(mountpoint)
		}
	}
}

func deriveDisks(view *View, forest []inventory.BlockDevice, pvs map[string]bool, opts Options) {
	diskTypes := opts.DiskTypes
	if len(diskTypes) == 0 {
		diskTypes = DefaultOptions().DiskTypes
	}

	for _, dev := range forest {
		if !slices.Contains(diskTypes, dev.Type) {
			continue
		}
		name := "/dev/" + dev.Name

		parts := 0
		for _, child := range dev.Children {
			if child.Type != inventory.DeviceTypePart {
				continue
			}
			partName := "/dev/" + child.Name
			view.Partitions = append(view.Partitions, DiskPartition{
				Name:         partName,
				Size:         strings.ToLower(child.Size),
				LVMAllocated: pvs[partName],
				Disk:         name,
				Mountpoint:   copyString(child.Mountpoint),
			})
			parts++
		}

		allocated := pvs[name]
		view.Disks = append(view.Disks, Disk{
			Name:         name,
			Size:         strings.ToLower(dev.Size),
			LVMAllocated: allocated,
			Parts:        parts,
		})

		if allocated {
			view.Partitions = append(view.Partitions, FakePartition{
				Name: name + FakePartitionSuffix,
				Disk: name,
			})
		}
	}
}

// pvNameSet is an exact-match set of pv_name values; paths are not normalised
func pvNameSet(pvs []inventory.PhysicalVolume) map[string]bool {
	set := make(map[string]bool, len(pvs))
	for _, pv := range pvs {
		set[pv.Name] = true
	}
	return set
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
