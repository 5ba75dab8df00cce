package inventory

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSourceUnavailable is returned when an inventory report cannot be obtained
	ErrSourceUnavailable = errors.New("inventory source unavailable")

	// ErrMalformedRecord is returned when a report cannot be decoded or lacks a required field
	ErrMalformedRecord = errors.New("malformed inventory record")
)

// malformed wraps err as ErrMalformedRecord unless it already is one
func malformed(what string, err error) error {
	if errors.Is(err, ErrMalformedRecord) {
		return fmt.Errorf("%s: %w", what, err)
	}
	return fmt.Errorf("%s: %w: %v", what, ErrMalformedRecord, err)
}

// VolumeType is the first character of lv_attr, see lvs(8)
type VolumeType byte

const (
	VolumeTypeThinPool         VolumeType = 't'
	VolumeTypeThinPoolData     VolumeType = 'T'
	VolumeTypeThinPoolMetadata VolumeType = 'e'
	VolumeTypeThinVolume       VolumeType = 'V'
	VolumeTypeMirrored         VolumeType = 'm'
	VolumeTypeRAID             VolumeType = 'r'
	VolumeTypeSnapshot         VolumeType = 's'
	VolumeTypeOrigin           VolumeType = 'o'
	VolumeTypeNone             VolumeType = '-'
)

// BlockDevice is a node of the lsblk device forest
type BlockDevice struct {
	Name       string        `json:"name"`
	Type       string        `json:"type"`
	Size       string        `json:"size"`
	Mountpoint *string       `json:"mountpoint"`
	Children   []BlockDevice `json:"children,omitempty"`
}

// Device types reported by lsblk that the reconciler cares about
const (
	DeviceTypeDisk = "disk"
	DeviceTypePart = "part"
	DeviceTypeLVM  = "lvm"
	DeviceTypeLoop = "loop"
)

// PhysicalVolume is one row of the pvs report
type PhysicalVolume struct {
	Name   string            `json:"pv_name"`
	VGName string            `json:"vg_name,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

// VolumeGroup is one row of the vgs report. Fields carries every reported
// column so templates can show size, free space and counts.
type VolumeGroup struct {
	Name   string            `json:"vg_name"`
	Fields map[string]string `json:"fields,omitempty"`
}

// LogicalVolume is one row of the lvs report
type LogicalVolume struct {
	Name       string            `json:"lv_name"`
	VGName     string            `json:"vg_name"`
	Attr       string            `json:"lv_attr"`
	PoolLV     string            `json:"pool_lv"`
	Mountpoint *string           `json:"mountpoint"`
	Fields     map[string]string `json:"fields,omitempty"`
}

// VolumeType returns the volume type encoded in lv_attr
func (lv LogicalVolume) VolumeType() VolumeType {
	if lv.Attr == "" {
		return VolumeTypeNone
	}
	return VolumeType(lv.Attr[0])
}

// IsThinPool reports whether the volume is a thin pool
func (lv LogicalVolume) IsThinPool() bool {
	return lv.VolumeType() == VolumeTypeThinPool
}

// DMName returns the device-mapper name lsblk shows for this volume.
// Dashes inside the VG and LV names are doubled, as dm does.
func (lv LogicalVolume) DMName() string {
	return dmEscape(lv.VGName) + "-" + dmEscape(lv.Name)
}

func dmEscape(s string) string {
	return strings.ReplaceAll(s, "-", "--")
}

// Field returns a raw report column, or "" if absent
func (lv LogicalVolume) Field(key string) string {
	return lv.Fields[key]
}

// Field returns a raw report column, or "" if absent
func (vg VolumeGroup) Field(key string) string {
	return vg.Fields[key]
}

// Field returns a raw report column, or "" if absent
func (pv PhysicalVolume) Field(key string) string {
	return pv.Fields[key]
}

// Inventory is a snapshot of the host's LVM and block-device state
type Inventory struct {
	LVs    []LogicalVolume
	PVs    []PhysicalVolume
	VGs    []VolumeGroup
	Forest []BlockDevice
}
