package inventory

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ReportKind names one of the LVM reports
type ReportKind string

const (
	ReportLV ReportKind = "lv"
	ReportPV ReportKind = "pv"
	ReportVG ReportKind = "vg"
)

// Command returns the LVM reporting tool for the kind (lvs, pvs, vgs)
func (k ReportKind) Command() string {
	return string(k) + "s"
}

// lvmOutput is the common envelope of `lvs|pvs|vgs --reportformat json`.
// Each report entry is keyed by section name ("lv", "pv", "vg", "log").
type lvmOutput struct {
	Report *[]map[string]json.RawMessage `json:"report"`
}

// record is one report row with every value flattened to its text form
type record map[string]string

func (r record) require(kind ReportKind, keys ...string) error {
	for _, k := range keys {
		if _, ok := r[k]; !ok {
			return fmt.Errorf("%s report: %w: row without %q", kind, ErrMalformedRecord, k)
		}
	}
	return nil
}

// parseReport decodes an LVM JSON report and returns the rows of the
// section matching kind. Rows from multiple report entries are concatenated.
func parseReport(data []byte, kind ReportKind) ([]record, error) {
	var output lvmOutput
	if err := json.Unmarshal(data, &output); err != nil {
		return nil, malformed(kind.Command(), err)
	}
	if output.Report == nil || len(*output.Report) == 0 {
		return nil, fmt.Errorf("%s: %w: empty report", kind.Command(), ErrMalformedRecord)
	}

	var records []record
	found := false
	for _, entry := range *output.Report {
		section, ok := entry[string(kind)]
		if !ok {
			continue
		}
		found = true

		var rows []map[string]json.RawMessage
		if err := json.Unmarshal(section, &rows); err != nil {
			return nil, malformed(kind.Command(), err)
		}
		for _, row := range rows {
			rec, err := flatten(row)
			if err != nil {
				return nil, malformed(kind.Command(), err)
			}
			records = append(records, rec)
		}
	}

	if !found {
		return nil, fmt.Errorf("%s: %w: no %q section", kind.Command(), ErrMalformedRecord, kind)
	}
	return records, nil
}

// flatten converts report values to strings. The json report format prints
// every value as a string; json_std prints numbers and null as well.
func flatten(row map[string]json.RawMessage) (record, error) {
	rec := make(record, len(row))
	for k, v := range row {
		v = bytes.TrimSpace(v)
		switch {
		case len(v) == 0 || bytes.Equal(v, []byte("null")):
			rec[k] = ""
		case v[0] == '"':
			var s string
			if err := json.Unmarshal(v, &s); err != nil {
				return nil, fmt.Errorf("field %s: %w", k, err)
			}
			rec[k] = s
		default:
			if _, err := strconv.ParseFloat(string(v), 64); err != nil {
				return nil, fmt.Errorf("field %s: unexpected value %s", k, v)
			}
			rec[k] = string(v)
		}
	}
	return rec, nil
}

// ParseLVs decodes `lvs --reportformat json` output
func ParseLVs(data []byte) ([]LogicalVolume, error) {
	records, err := parseReport(data, ReportLV)
	if err != nil {
		return nil, err
	}

	lvs := make([]LogicalVolume, 0, len(records))
	for _, r := range records {
		if err := r.require(ReportLV, "lv_name", "vg_name", "lv_attr", "pool_lv"); err != nil {
			return nil, err
		}
		if r["lv_attr"] == "" {
			return nil, fmt.Errorf("lv report: %w: %s/%s has empty lv_attr", ErrMalformedRecord, r["vg_name"], r["lv_name"])
		}
		lvs = append(lvs, LogicalVolume{
			Name:   r["lv_name"],
			VGName: r["vg_name"],
			Attr:   r["lv_attr"],
			PoolLV: r["pool_lv"],
			Fields: r,
		})
	}
	return lvs, nil
}

// ParsePVs decodes `pvs --reportformat json` output
func ParsePVs(data []byte) ([]PhysicalVolume, error) {
	records, err := parseReport(data, ReportPV)
	if err != nil {
		return nil, err
	}

	pvs := make([]PhysicalVolume, 0, len(records))
	for _, r := range records {
		if err := r.require(ReportPV, "pv_name"); err != nil {
			return nil, err
		}
		pvs = append(pvs, PhysicalVolume{
			Name:   r["pv_name"],
			VGName: r["vg_name"],
			Fields: r,
		})
	}
	return pvs, nil
}

// ParseVGs decodes `vgs --reportformat json` output
func ParseVGs(data []byte) ([]VolumeGroup, error) {
	records, err := parseReport(data, ReportVG)
	if err != nil {
		return nil, err
	}

	vgs := make([]VolumeGroup, 0, len(records))
	for _, r := range records {
		if err := r.require(ReportVG, "vg_name"); err != nil {
			return nil, err
		}
		vgs = append(vgs, VolumeGroup{
			Name:   r["vg_name"],
			Fields: r,
		})
	}
	return vgs, nil
}
