package io

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/repograph/pkg/deps"
)

func sampleRecords() []*deps.Record {
	return []*deps.Record{
		{
			GroupID: "io.ktor", ArtifactID: "ktor-server", Latest: "3.0.0",
			MetadataURL:   "https://repo/io/ktor/ktor-server/maven-metadata.xml",
			DescriptorURL: "https://repo/io/ktor/ktor-server/3.0.0/ktor-server-3.0.0.pom",
			Dependencies: []deps.Dependency{
				{GroupID: "io.ktor", ArtifactID: "ktor-http", Version: "3.0.0"},
				{GroupID: "org.slf4j", ArtifactID: "slf4j-api", Version: "2.0.9"},
			},
		},
		{
			GroupID: "io.ktor", ArtifactID: "ktor-bom", Latest: "3.0.0",
			MetadataURL: "https://repo/io/ktor/ktor-bom/maven-metadata.xml",
		},
		{
			GroupID: "io.ktor", ArtifactID: "ktor-http", Latest: "3.0.0",
			MetadataURL:   "https://repo/io/ktor/ktor-http/maven-metadata.xml",
			DescriptorURL: "https://repo/io/ktor/ktor-http/3.0.0/ktor-http-3.0.0.pom",
			Dependencies: []deps.Dependency{
				{GroupID: "io.ktor", ArtifactID: "ktor-utils", Version: "3.0.0"},
			},
		},
	}
}

func TestWriteRecordsCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRecordsCSV(sampleRecords(), &buf); err != nil {
		t.Fatalf("WriteRecordsCSV: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")

	// Header plus one row per dependency; ktor-bom has none.
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4:\n%s", len(lines), buf.String())
	}
	if lines[0] != "group_id,artifact_id,latest,release_details_xml,dep_group_id,dep_artifact_id,dep_version,metadata_xml" {
		t.Errorf("header = %q", lines[0])
	}
	if strings.Contains(buf.String(), "ktor-bom") {
		t.Error("artifact without dependencies should produce no rows")
	}
}

func TestReadRecordsCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRecordsCSV(sampleRecords(), &buf); err != nil {
		t.Fatal(err)
	}
	got, err := ReadRecordsCSV(&buf)
	if err != nil {
		t.Fatalf("ReadRecordsCSV: %v", err)
	}

	var want []*deps.Record
	for _, r := range sampleRecords() {
		if len(r.Dependencies) > 0 {
			want = append(want, r)
		}
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestRecordColumnsExtendSinkLayout(t *testing.T) {
	sink := []string{"group_id", "artifact_id", "latest", "release_details_xml",
		"dep_group_id", "dep_artifact_id", "dep_version"}
	if diff := cmp.Diff(sink, RecordColumns[:len(sink)]); diff != "" {
		t.Errorf("leading columns (-want +got):\n%s", diff)
	}
	if got := RecordColumns[len(RecordColumns)-1]; got != "metadata_xml" {
		t.Errorf("last column = %q, want metadata_xml", got)
	}
}

func TestReadRecordsCSVWithoutMetadataColumn(t *testing.T) {
	in := `group_id,artifact_id,latest,release_details_xml,dep_group_id,dep_artifact_id,dep_version
org.a,a,1.0,https://repo/a.pom,org.b,b,2.0
org.b,b,2.0,https://repo/b.pom,org.c,c,
org.a,a,1.0,https://repo/a.pom,org.c,c,3.0
`
	got, err := ReadRecordsCSV(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	want := []*deps.Record{
		{GroupID: "org.a", ArtifactID: "a", Latest: "1.0", DescriptorURL: "https://repo/a.pom",
			Dependencies: []deps.Dependency{
				{GroupID: "org.b", ArtifactID: "b", Version: "2.0"},
				{GroupID: "org.c", ArtifactID: "c", Version: "3.0"},
			}},
		{GroupID: "org.b", ArtifactID: "b", Latest: "2.0", DescriptorURL: "https://repo/b.pom",
			Dependencies: []deps.Dependency{{GroupID: "org.c", ArtifactID: "c"}}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestReadRecordsCSVErrors(t *testing.T) {
	if _, err := ReadRecordsCSV(strings.NewReader("group_id,latest\n")); !errors.Is(err, ErrMissingColumn) {
		t.Errorf("err = %v, want ErrMissingColumn", err)
	}
	recs, err := ReadRecordsCSV(strings.NewReader(""))
	if err != nil || recs != nil {
		t.Errorf("empty input = %v, %v; want nil, nil", recs, err)
	}
}

func TestSaveLoadRecords(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"records.json", "release_details.csv"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := SaveRecords(sampleRecords(), path); err != nil {
				t.Fatalf("SaveRecords: %v", err)
			}
			got, err := LoadRecords(path)
			if err != nil {
				t.Fatalf("LoadRecords: %v", err)
			}
			wantLen := 3
			if filepath.Ext(name) == ".csv" {
				wantLen = 2
			}
			if len(got) != wantLen {
				t.Errorf("got %d records, want %d", len(got), wantLen)
			}
		})
	}

	if _, err := LoadRecords(filepath.Join(dir, "missing.csv")); err == nil {
		t.Error("expected error for missing file")
	}
}
