package repository

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const apacheListing = `<html><head><title>Index of /maven/org/example</title></head>
<body><h1>Index of /maven/org/example</h1>
<pre><a href="?C=N;O=D">Name</a>
<a href="../">../</a>
<a href="/maven/org/">Parent Directory</a>
<a href="lib-a/">lib-a/</a>
<a href="lib-b/">lib-b/</a>
<a href="lib-b/">lib-b/</a>
<a href="maven-metadata.xml">maven-metadata.xml</a>
<a href="maven-metadata.xml.sha1">maven-metadata.xml.sha1</a>
<a href="https://mirror.example.org/other/">mirror</a>
<a href="mailto:admin@example.org">admin</a>
</pre></body></html>`

func TestParseListing(t *testing.T) {
	dir := "https://repo.example.org/maven/org/example/"
	got, err := ParseListing(dir, strings.NewReader(apacheListing))
	if err != nil {
		t.Fatalf("ParseListing: %v", err)
	}

	wantDirs := []string{
		dir + "lib-a/",
		dir + "lib-b/",
		"https://mirror.example.org/other/",
	}
	wantFiles := []string{
		dir + "maven-metadata.xml",
		dir + "maven-metadata.xml.sha1",
	}
	if diff := cmp.Diff(wantDirs, got.Dirs); diff != "" {
		t.Errorf("Dirs (-want, +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantFiles, got.Files); diff != "" {
		t.Errorf("Files (-want, +got):\n%s", diff)
	}
}

func TestListingFilesNamed(t *testing.T) {
	l := &Listing{Files: []string{
		"https://r/a/maven-metadata.xml",
		"https://r/a/maven-metadata.xml.md5",
		"https://r/a/other-maven-metadata.xml",
	}}
	got := l.FilesNamed("maven-metadata.xml")
	if diff := cmp.Diff([]string{"https://r/a/maven-metadata.xml"}, got); diff != "" {
		t.Errorf("FilesNamed (-want, +got):\n%s", diff)
	}
}

func TestParseListingEmpty(t *testing.T) {
	got, err := ParseListing("https://r/a/", strings.NewReader("<html><body>nothing</body></html>"))
	if err != nil {
		t.Fatalf("ParseListing: %v", err)
	}
	if len(got.Dirs) != 0 || len(got.Files) != 0 {
		t.Errorf("expected empty listing, got %+v", got)
	}
}
