package inventory

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
)

// lsblkColumns are the columns requested from lsblk
const lsblkColumns = "NAME,TYPE,SIZE,MOUNTPOINT"

// lsblkOutput represents the JSON output from lsblk -J
type lsblkOutput struct {
	Blockdevices *[]BlockDevice `json:"blockdevices"`
}

// lsblkDevice is the wire shape of one lsblk entry. Older util-linux prints
// "mountpoint", newer releases print a "mountpoints" array; size is a string
// unless --bytes was given, in which case some releases print a number.
type lsblkDevice struct {
	Name        *string         `json:"name"`
	Type        *string         `json:"type"`
	Size        json.RawMessage `json:"size"`
	Mountpoint  *string         `json:"mountpoint"`
	Mountpoints []*string       `json:"mountpoints"`
	Children    []BlockDevice   `json:"children"`
}

// UnmarshalJSON decodes an lsblk entry, rejecting entries without name, type or size
func (d *BlockDevice) UnmarshalJSON(data []byte) error {
	var raw lsblkDevice
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if raw.Name == nil {
		return fmt.Errorf("%w: block device without %q", ErrMalformedRecord, "name")
	}
	if raw.Type == nil {
		return fmt.Errorf("%w: block device %s without %q", ErrMalformedRecord, *raw.Name, "type")
	}

	size, err := decodeSize(raw.Size)
	if err != nil {
		return fmt.Errorf("%w: block device %s: %v", ErrMalformedRecord, *raw.Name, err)
	}

	mountpoint := raw.Mountpoint
	if mountpoint == nil {
		for _, mp := range raw.Mountpoints {
			if mp != nil && *mp != "" {
				mountpoint = mp
				break
			}
		}
	}

	children := raw.Children
	if children == nil {
		children = []BlockDevice{}
	}

	*d = BlockDevice{
		Name:       *raw.Name,
		Type:       *raw.Type,
		Size:       size,
		Mountpoint: mountpoint,
		Children:   children,
	}
	return nil
}

// decodeSize returns lsblk's human readable size, formatting byte counts
// (from lsblk --bytes) with binary prefixes
func decodeSize(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", fmt.Errorf("missing %q", "size")
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		if n, err := strconv.ParseUint(s, 10, 64); err == nil {
			return humanize.IBytes(n), nil
		}
		return s, nil
	}

	n, err := strconv.ParseUint(string(raw), 10, 64)
	if err != nil {
		return "", fmt.Errorf("invalid size %s", raw)
	}
	return humanize.IBytes(n), nil
}

// ParseLsblk decodes lsblk -J output into the block-device forest
func ParseLsblk(data []byte) ([]BlockDevice, error) {
	var output lsblkOutput
	if err := json.Unmarshal(data, &output); err != nil {
		return nil, malformed("lsblk", err)
	}
	if output.Blockdevices == nil {
		return nil, fmt.Errorf("lsblk: %w: missing %q", ErrMalformedRecord, "blockdevices")
	}
	return *output.Blockdevices, nil
}
