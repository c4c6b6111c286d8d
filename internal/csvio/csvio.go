// Package csvio encodes the case collection to tabular text and decodes
// import batches from it. Header-to-field mapping lives here; what the
// decoded values mean is the repository's business.
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"logbook/internal/core"
)

// Header is the stable column order for exports, derived from the record
// schema. Decoding matches by name, so column order in imports is free.
var Header = []string{
	"id", "date", "session", "specialty", "operation", "priority", "asa",
	"age", "anaestheticType", "airway", "regional", "procedures",
	"teaching", "location", "incidents",
}

// listSep joins multi-value fields (regional, procedures) within one cell.
const listSep = ";"

// Encode writes records as CSV with the stable header.
func Encode(w io.Writer, records []core.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range records {
		row := []string{
			r.ID, r.Date, r.Session, r.Specialty, r.Operation, r.Priority,
			r.ASA, r.Age, r.Anaesthetic, r.Airway,
			joinList(r.Regional), joinList(r.Procedures),
			r.Teaching, r.Location, r.Incidents,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row for %s: %w", r.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Decode reads CSV into record values. The first row is the header; unknown
// columns are ignored and missing columns default to empty fields — sparse
// rows are the repository's per-item concern, not a decode failure. Rows
// with the wrong field count are skipped by the csv reader's lenient mode.
func Decode(r io.Reader) ([]core.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}

	field := func(row []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var records []core.Record
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return records, fmt.Errorf("read csv row: %w", err)
		}
		records = append(records, core.Record{
			ID:          field(row, "id"),
			Date:        field(row, "date"),
			Session:     field(row, "session"),
			Specialty:   field(row, "specialty"),
			Operation:   field(row, "operation"),
			Priority:    field(row, "priority"),
			ASA:         field(row, "asa"),
			Age:         field(row, "age"),
			Anaesthetic: field(row, "anaestheticType"),
			Airway:      field(row, "airway"),
			Regional:    splitList(field(row, "regional")),
			Procedures:  splitList(field(row, "procedures")),
			Teaching:    field(row, "teaching"),
			Location:    field(row, "location"),
			Incidents:   field(row, "incidents"),
		})
	}
	return records, nil
}

func joinList(values []string) string {
	return strings.Join(values, listSep)
}

func splitList(cell string) []string {
	if cell == "" {
		return nil
	}
	parts := strings.Split(cell, listSep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
