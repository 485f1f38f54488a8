package maven

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/repograph/pkg/deps"
)

func TestParseMetadata(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		want    *Metadata
		wantErr bool
	}{
		{
			name: "plain",
			doc: `<?xml version="1.0" encoding="UTF-8"?>
<metadata>
  <groupId>io.ktor</groupId>
  <artifactId>ktor-client</artifactId>
  <versioning>
    <latest> 2.3.4 </latest>
    <release>2.3.4</release>
  </versioning>
</metadata>`,
			want: &Metadata{GroupID: "io.ktor", ArtifactID: "ktor-client", Latest: "2.3.4"},
		},
		{
			name: "default namespace",
			doc: `<metadata xmlns="http://maven.apache.org/METADATA/1.1.0">
  <groupId>org.example</groupId><artifactId>lib</artifactId>
  <versioning><latest>1.0</latest></versioning>
</metadata>`,
			want: &Metadata{GroupID: "org.example", ArtifactID: "lib", Latest: "1.0"},
		},
		{
			name: "missing latest",
			doc:  `<metadata><groupId>g</groupId><artifactId>a</artifactId><versioning/></metadata>`,
			want: &Metadata{GroupID: "g", ArtifactID: "a"},
		},
		{
			name:    "missing artifact",
			doc:     `<metadata><groupId>g</groupId></metadata>`,
			wantErr: true,
		},
		{
			name:    "undefined entity",
			doc:     `<metadata><groupId>g&x</groupId><artifactId>a</artifactId></metadata>`,
			wantErr: true,
		},
		{
			name:    "not xml",
			doc:     `<html><body>404`,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMetadata([]byte(tt.doc))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMetadata() error = %v, wantErr %v", err, tt.wantErr)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseMetadata() (-want, +got):\n%s", diff)
			}
		})
	}
}

func TestParseDescriptor(t *testing.T) {
	tests := []struct {
		name        string
		doc         string
		wantDeps    []deps.Dependency
		wantSection string
	}{
		{
			name: "default namespace",
			doc: `<?xml version="1.0" encoding="UTF-8"?>
<project xmlns="http://maven.apache.org/POM/4.0.0">
  <groupId>com.example</groupId>
  <artifactId>app</artifactId>
  <version>1.0.0</version>
  <dependencies>
    <dependency>
      <groupId>org.jetbrains.kotlin</groupId>
      <artifactId>kotlin-stdlib</artifactId>
      <version>1.9.0</version>
    </dependency>
    <dependency>
      <groupId>junit</groupId>
      <artifactId>junit</artifactId>
      <version>4.13</version>
      <scope>test</scope>
    </dependency>
  </dependencies>
</project>`,
			wantDeps: []deps.Dependency{
				{GroupID: "org.jetbrains.kotlin", ArtifactID: "kotlin-stdlib", Version: "1.9.0"},
				{GroupID: "junit", ArtifactID: "junit", Version: "4.13", Scope: "test"},
			},
			wantSection: "dependencies",
		},
		{
			name: "prefixed elements",
			doc: `<pom:project xmlns:pom="http://maven.apache.org/POM/4.0.0">
  <pom:groupId>g</pom:groupId><pom:artifactId>a</pom:artifactId>
  <pom:dependencies><pom:dependency>
    <pom:groupId>x</pom:groupId><pom:artifactId>y</pom:artifactId>
  </pom:dependency></pom:dependencies>
</pom:project>`,
			wantDeps:    []deps.Dependency{{GroupID: "x", ArtifactID: "y"}},
			wantSection: "dependencies",
		},
		{
			name: "dependency management fallback",
			doc: `<project>
  <groupId>g</groupId><artifactId>bom</artifactId>
  <dependencyManagement><dependencies>
    <dependency><groupId>g</groupId><artifactId>core</artifactId><version>2.0</version></dependency>
  </dependencies></dependencyManagement>
</project>`,
			wantDeps:    []deps.Dependency{{GroupID: "g", ArtifactID: "core", Version: "2.0"}},
			wantSection: "dependencyManagement",
		},
		{
			name:        "no dependency section",
			doc:         `<project><groupId>g</groupId><artifactId>a</artifactId></project>`,
			wantDeps:    []deps.Dependency{},
			wantSection: "",
		},
		{
			name: "incomplete entries skipped",
			doc: `<project><dependencies>
  <dependency><artifactId>orphan</artifactId></dependency>
  <dependency><groupId>g</groupId><artifactId>ok</artifactId></dependency>
</dependencies></project>`,
			wantDeps:    []deps.Dependency{{GroupID: "g", ArtifactID: "ok"}},
			wantSection: "dependencies",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDescriptor([]byte(tt.doc))
			if err != nil {
				t.Fatalf("ParseDescriptor() error = %v", err)
			}
			if diff := cmp.Diff(tt.wantDeps, got.Dependencies); diff != "" {
				t.Errorf("Dependencies (-want, +got):\n%s", diff)
			}
			if got.Section != tt.wantSection {
				t.Errorf("Section = %q, want %q", got.Section, tt.wantSection)
			}
		})
	}
}

func TestParseDescriptorParentGroup(t *testing.T) {
	got, err := ParseDescriptor([]byte(`<project>
  <parent><groupId>org.parent</groupId><artifactId>p</artifactId></parent>
  <artifactId>child</artifactId>
</project>`))
	if err != nil {
		t.Fatal(err)
	}
	if got.GroupID != "org.parent" {
		t.Errorf("GroupID = %q, want inherited org.parent", got.GroupID)
	}
}

func TestParseDescriptorMalformed(t *testing.T) {
	if _, err := ParseDescriptor([]byte("")); err == nil {
		t.Error("empty document should fail")
	}
}
