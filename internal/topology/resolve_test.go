package topology

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigreer/lvmgraph/internal/inventory"
)

func str(s string) *string { return &s }

func dev(name, typ, size string, mountpoint *string, children ...inventory.BlockDevice) inventory.BlockDevice {
	return inventory.BlockDevice{Name: name, Type: typ, Size: size, Mountpoint: mountpoint, Children: children}
}

func TestResolveMountpoint(t *testing.T) {
	forest := []inventory.BlockDevice{
		dev("sda", "disk", "10G", nil,
			dev("sda1", "part", "1G", str("/boot")),
			dev("sda2", "part", "9G", nil,
				dev("vg0-root", "lvm", "8G", str("/")),
				dev("vg0-swap", "lvm", "1G", nil),
			),
		),
		dev("sdb", "disk", "4G", nil),
	}

	tests := []struct {
		name      string
		device    string
		wantFound bool
		wantMount *string
	}{
		{"depth one", "sda1", true, str("/boot")},
		{"depth two", "vg0-root", true, str("/")},
		{"found but not mounted", "vg0-swap", true, nil},
		{"top level unmounted", "sdb", true, nil},
		{"absent", "vg9-nope", false, nil},
		{"parent disk", "sda", true, nil},
		{"case sensitive", "SDA1", false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mountpoint, found := ResolveMountpoint(forest, tt.device)
			assert.Equal(t, tt.wantFound, found)
			assert.Equal(t, tt.wantMount, mountpoint)
		})
	}
}

func TestResolveMountpointNestedExample(t *testing.T) {
	forest := []inventory.BlockDevice{
		dev("sda", "disk", "10G", nil, dev("sda1", "part", "5G", str("/boot"))),
	}

	mountpoint, found := ResolveMountpoint(forest, "sda1")
	require.True(t, found)
	require.NotNil(t, mountpoint)
	assert.Equal(t, "/boot", *mountpoint)
}

func TestResolveMountpointEmptyForest(t *testing.T) {
	for _, forest := range [][]inventory.BlockDevice{nil, {}} {
		mountpoint, found := ResolveMountpoint(forest, "sda")
		assert.False(t, found)
		assert.Nil(t, mountpoint)
	}
}

func TestResolveMountpointShallowestMatchWins(t *testing.T) {
	// names are unique on a real host, but the search must still stop at
	// the first level that contains a match
	forest := []inventory.BlockDevice{
		dev("md0", "raid1", "1G", nil, dev("dup", "lvm", "1G", str("/deep"))),
		dev("dup", "disk", "1G", str("/shallow")),
	}

	mountpoint, found := ResolveMountpoint(forest, "dup")
	require.True(t, found)
	assert.Equal(t, "/shallow", *mountpoint)
}

func TestResolveMountpointDepthGuard(t *testing.T) {
	leaf := dev("leaf", "lvm", "1G", str("/leaf"))
	node := leaf
	for i := 0; i < MaxResolveDepth+5; i++ {
		node = dev(fmt.Sprintf("n%d", i), "lvm", "1G", nil, node)
	}
	forest := []inventory.BlockDevice{node}

	_, found := ResolveMountpoint(forest, "leaf")
	assert.False(t, found)

	// devices within the guard are still found
	_, found = ResolveMountpoint(forest, fmt.Sprintf("n%d", MaxResolveDepth+4-10))
	assert.True(t, found)
}

func TestResolveMountpointAnyAbsentName(t *testing.T) {
	forest := []inventory.BlockDevice{
		dev("sda", "disk", "10G", nil, dev("sda1", "part", "5G", str("/boot"))),
		dev("nvme0n1", "disk", "1T", nil),
	}

	for _, name := range []string{"", "sdc", "sda11", "/dev/sda1", "nvme0n1p1"} {
		t.Run(name, func(t *testing.T) {
			mountpoint, found := ResolveMountpoint(forest, name)
			assert.False(t, found)
			assert.Nil(t, mountpoint)
		})
	}
}
