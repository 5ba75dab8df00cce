package topology

import "github.com/sigreer/lvmgraph/internal/inventory"

// MaxResolveDepth bounds the breadth-first search. Real hosts nest a few
// levels (disk, partition, dm stack); anything deeper is treated as absent.
const MaxResolveDepth = 64

// ResolveMountpoint searches the block-device forest level by level for a
// device named name. found reports whether the device exists; mountpoint is
// nil when it exists but is not mounted.
func ResolveMountpoint(forest []inventory.BlockDevice, name string) (mountpoint *string, found bool) {
	frontier := forest
	for depth := 0; len(frontier) > 0 && depth < MaxResolveDepth; depth++ {
		var next []inventory.BlockDevice
		for i := range frontier {
			if frontier[i].Name == name {
				return frontier[i].Mountpoint, true
			}
			next = append(next, frontier[i].Children...)
		}
		frontier = next
	}
	return nil, false
}
