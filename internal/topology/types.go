package topology

import (
	"encoding/json"

	"github.com/sigreer/lvmgraph/internal/inventory"
)

// FakePartitionSuffix is appended to a disk name to form the placeholder
// partition of a whole-disk PV
const FakePartitionSuffix = "_fakepartition"

// ThinPoolEntry is either a real thin pool or a layout placeholder standing
// in for the missing pool of an ordinary LV
type ThinPoolEntry interface {
	IsFake() bool
	thinPoolEntry()
}

// ThinPool is a logical volume whose lv_attr marks it as a thin pool
type ThinPool struct {
	inventory.LogicalVolume
}

func (ThinPool) IsFake() bool   { return false }
func (ThinPool) thinPoolEntry() {}

// PlaceholderPool carries no data; it only keeps pool rows aligned in the diagram
type PlaceholderPool struct{}

func (PlaceholderPool) IsFake() bool   { return true }
func (PlaceholderPool) thinPoolEntry() {}

func (p ThinPool) MarshalJSON() ([]byte, error) {
	type alias inventory.LogicalVolume
	return json.Marshal(struct {
		alias
		Fake bool `json:"fake"`
	}{alias(p.LogicalVolume), false})
}

func (PlaceholderPool) MarshalJSON() ([]byte, error) {
	return []byte(`{"fake":true}`), nil
}

// Disk is a top-level block device
type Disk struct {
	Name         string `json:"name"`
	Size         string `json:"size"`
	LVMAllocated bool   `json:"lvm_allocated"`
	Parts        int    `json:"parts"`
}

// Partition is either a real partition of a disk or the placeholder drawn
// under a disk that is used as a PV in its entirety
type Partition interface {
	IsFake() bool
	DiskName() string
	partition()
}

// DiskPartition is a partition reported by lsblk
type DiskPartition struct {
	Name         string  `json:"name"`
	Size         string  `json:"size"`
	LVMAllocated bool    `json:"lvm_allocated"`
	Disk         string  `json:"disk"`
	Mountpoint   *string `json:"mountpoint"`
}

func (DiskPartition) IsFake() bool       { return false }
func (p DiskPartition) DiskName() string { return p.Disk }
func (DiskPartition) partition()         {}

func (p DiskPartition) MarshalJSON() ([]byte, error) {
	type alias DiskPartition
	return json.Marshal(struct {
		alias
		Fake bool `json:"fake"`
	}{alias(p), false})
}

// FakePartition stands under a whole-disk PV. It has no size and no mountpoint.
type FakePartition struct {
	Name string `json:"name"`
	Disk string `json:"disk"`
}

func (FakePartition) IsFake() bool       { return true }
func (p FakePartition) DiskName() string { return p.Disk }
func (FakePartition) partition()         {}

func (p FakePartition) MarshalJSON() ([]byte, error) {
	type alias FakePartition
	return json.Marshal(struct {
		alias
		Size         string `json:"size"`
		LVMAllocated bool   `json:"lvm_allocated"`
		Fake         bool   `json:"fake"`
	}{alias(p), "", false, true})
}

// View is the reconciled, presentation-ready picture of the storage stack
type View struct {
	LVs        []inventory.LogicalVolume  `json:"lvs"`
	Thins      []ThinPoolEntry            `json:"thins"`
	Disks      []Disk                     `json:"disks"`
	Partitions []Partition                `json:"partitions"`
	VGs        []inventory.VolumeGroup    `json:"vgs"`
	PVs        []inventory.PhysicalVolume `json:"pvs"`

	// Unresolved lists dm names of LVs that lsblk does not show at all
	Unresolved []string `json:"unresolved,omitempty"`
}
