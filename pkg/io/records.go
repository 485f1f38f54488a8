package io

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/matzehuels/repograph/pkg/deps"
)

// RecordColumns is the header written by [WriteRecordsCSV].
var RecordColumns = []string{
	"group_id", "artifact_id", "latest", "release_details_xml",
	"dep_group_id", "dep_artifact_id", "dep_version", "metadata_xml",
}

var requiredColumns = []string{"group_id", "artifact_id", "dep_group_id", "dep_artifact_id"}

// ErrMissingColumn is returned by [ReadRecordsCSV] when the header lacks a
// required column.
var ErrMissingColumn = errors.New("missing column")

// WriteRecordsCSV writes one row per dependency of each record.
func WriteRecordsCSV(records []*deps.Record, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(RecordColumns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range records {
		for _, d := range r.Dependencies {
			row := []string{
				r.GroupID, r.ArtifactID, r.Latest, r.DescriptorURL,
				d.GroupID, d.ArtifactID, d.Version, r.MetadataURL,
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("write %s: %w", r.ProjectID(), err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadRecordsCSV reads rows written by [WriteRecordsCSV], or by any tool
// using the same column names, and groups them into records. Rows belong to
// the same record when they share metadata_xml, or group and artifact when
// that column is absent or empty.
func ReadRecordsCSV(r io.Reader) ([]*deps.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[h] = i
	}
	for _, name := range requiredColumns {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("%w %q", ErrMissingColumn, name)
		}
	}
	field := func(row []string, name string) string {
		if i, ok := col[name]; ok && i < len(row) {
			return row[i]
		}
		return ""
	}

	var records []*deps.Record
	index := make(map[string]*deps.Record)
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		rec := &deps.Record{
			GroupID:       field(row, "group_id"),
			ArtifactID:    field(row, "artifact_id"),
			Latest:        field(row, "latest"),
			DescriptorURL: field(row, "release_details_xml"),
			MetadataURL:   field(row, "metadata_xml"),
		}
		key := rec.MetadataURL
		if key == "" {
			key = rec.ProjectID()
		}
		if existing, ok := index[key]; ok {
			rec = existing
		} else {
			index[key] = rec
			records = append(records, rec)
		}

		dep := deps.Dependency{
			GroupID:    field(row, "dep_group_id"),
			ArtifactID: field(row, "dep_artifact_id"),
			Version:    field(row, "dep_version"),
		}
		if dep.GroupID != "" && dep.ArtifactID != "" {
			rec.Dependencies = append(rec.Dependencies, dep)
		}
	}
	return records, nil
}

// WriteRecordsJSON writes the complete record list as indented JSON.
func WriteRecordsJSON(records []*deps.Record, w io.Writer) error {
	if records == nil {
		records = []*deps.Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadRecordsJSON decodes records written by [WriteRecordsJSON].
func ReadRecordsJSON(r io.Reader) ([]*deps.Record, error) {
	var records []*deps.Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return records, nil
}

// LoadRecords reads a records file, choosing the decoder by extension:
// ".json" for [ReadRecordsJSON], anything else for [ReadRecordsCSV].
func LoadRecords(path string) ([]*deps.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var records []*deps.Record
	if filepath.Ext(path) == ".json" {
		records, err = ReadRecordsJSON(f)
	} else {
		records, err = ReadRecordsCSV(f)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// SaveRecords writes records to path atomically, choosing the encoder the
// same way as [LoadRecords].
func SaveRecords(records []*deps.Record, path string) error {
	return writeFileAtomic(path, func(w io.Writer) error {
		if filepath.Ext(path) == ".json" {
			return WriteRecordsJSON(records, w)
		}
		return WriteRecordsCSV(records, w)
	})
}

// writeFileAtomic writes to a temporary file in the target directory and
// renames it into place.
func writeFileAtomic(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".tmp-"+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", path, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
