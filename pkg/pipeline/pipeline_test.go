package pipeline

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/repograph/pkg/analysis"
	"github.com/matzehuels/repograph/pkg/crawl"
	"github.com/matzehuels/repograph/pkg/deps"
	"github.com/matzehuels/repograph/pkg/errors"
	pkgio "github.com/matzehuels/repograph/pkg/io"
	"github.com/matzehuels/repograph/pkg/render"
	"github.com/matzehuels/repograph/pkg/repository"
)

func listing(entries ...string) string {
	var b strings.Builder
	b.WriteString(`<html><body><a href="../">../</a>`)
	for _, e := range entries {
		fmt.Fprintf(&b, `<a href="%s">%s</a>`, e, e)
	}
	b.WriteString("</body></html>")
	return b.String()
}

func metadata(group, artifact, latest string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<metadata><groupId>%s</groupId><artifactId>%s</artifactId>
<versioning><latest>%s</latest><versions><version>%s</version></versions></versioning></metadata>`,
		group, artifact, latest, latest)
}

func pom(deps ...string) string {
	var b strings.Builder
	b.WriteString(`<project xmlns="http://maven.apache.org/POM/4.0.0"><dependencies>`)
	for _, d := range deps {
		g, a, _ := strings.Cut(d, "/")
		fmt.Fprintf(&b, `<dependency><groupId>%s</groupId><artifactId>%s</artifactId><version>1.0</version></dependency>`, g, a)
	}
	b.WriteString(`</dependencies></project>`)
	return b.String()
}

// fakeRepo serves:
//
//	com/acme/lib   -> depends on com.acme/app and junit/junit
//	com/acme/app   -> depends on com.acme/lib
//	org/util       -> no dependencies
//	org/bad        -> unparsable metadata
func fakeRepo(t *testing.T) (*httptest.Server, *atomic.Int64) {
	t.Helper()
	pages := map[string]string{
		"/":                                listing("com/", "org/"),
		"/com/":                            listing("acme/"),
		"/com/acme/":                       listing("lib/", "app/"),
		"/com/acme/lib/":                   listing("1.0/", "maven-metadata.xml", "maven-metadata.xml.sha1"),
		"/com/acme/lib/maven-metadata.xml": metadata("com.acme", "lib", "1.0"),
		"/com/acme/lib/1.0/lib-1.0.pom":    pom("com.acme/app", "junit/junit"),
		"/com/acme/app/":                   listing("maven-metadata.xml"),
		"/com/acme/app/maven-metadata.xml": metadata("com.acme", "app", "2.0"),
		"/com/acme/app/2.0/app-2.0.pom":    pom("com.acme/lib"),
		"/org/":                            listing("util/", "bad/"),
		"/org/util/":                       listing("maven-metadata.xml"),
		"/org/util/maven-metadata.xml":     metadata("org", "util", "3.1"),
		"/org/util/3.1/util-3.1.pom":       `<project><artifactId>util</artifactId></project>`,
		"/org/bad/":                        listing("maven-metadata.xml"),
		"/org/bad/maven-metadata.xml":      `<metadata><groupId>org</groupId`,
	}
	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		body, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, body)
	}))
	t.Cleanup(server.Close)
	return server, &hits
}

func newRunner(t *testing.T, store crawl.Store) *Runner {
	t.Helper()
	client, err := repository.NewClient(repository.Options{RetryDelay: time.Millisecond, MemoSize: -1})
	require.NoError(t, err)
	return NewRunner(client, store, nil)
}

func testOptions(t *testing.T, root string) Options {
	dir := t.TempDir()
	return Options{
		Root:        root,
		Workers:     2,
		Resume:      true,
		RecordsPath: filepath.Join(dir, "release_details.csv"),
		OutputDir:   filepath.Join(dir, "build"),
	}
}

func TestExecute(t *testing.T) {
	server, _ := fakeRepo(t)
	opts := testOptions(t, server.URL+"/")
	store := crawl.NewFileStore(filepath.Join(t.TempDir(), "xmls.csv"))

	res, err := newRunner(t, store).Execute(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Crawl.TopLevel)
	assert.Equal(t, 2, res.Crawl.Processed)
	assert.Len(t, res.Crawl.Locations(), 4)

	assert.Equal(t, 4, res.Resolve.Attempted)
	assert.Equal(t, 3, res.Resolve.Succeeded)
	require.Len(t, res.Resolve.Failures, 1)
	assert.Equal(t, errors.ErrCodeDescriptorParse, res.Resolve.Failures[0].Code)

	a := res.Analysis
	assert.Equal(t, []string{"com.acme/app", "com.acme/lib", "org/util"}, a.Graph.Nodes())
	assert.Equal(t, map[string]float64{"com.acme/app": 0.5, "com.acme/lib": 0.5, "org/util": 1}, a.Instability)
	assert.Empty(t, a.Violations)
	if diff := cmp.Diff([]analysis.Cycle{{"com.acme/app", "com.acme/lib", "com.acme/app"}}, a.Cycles); diff != "" {
		t.Errorf("cycles mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 1, a.Stats.Orphans)

	for _, name := range []string{"base_projects.dot", "base_projects_violations.dot", GraphJSONFile, ReportFile} {
		_, err := os.Stat(filepath.Join(opts.OutputDir, name))
		assert.NoError(t, err, name)
	}
	_, err = os.Stat(RecordsJSONPath(opts.RecordsPath))
	assert.NoError(t, err)

	rep, err := pkgio.ImportReport(filepath.Join(opts.OutputDir, ReportFile))
	require.NoError(t, err)
	assert.Equal(t, res.Report.RunID, rep.RunID)
	assert.Equal(t, 4, rep.Crawl.Locations)
	assert.Len(t, rep.Cycles, 1)
}

func TestExecuteResumes(t *testing.T) {
	server, hits := fakeRepo(t)
	opts := testOptions(t, server.URL+"/")
	store := crawl.NewFileStore(filepath.Join(t.TempDir(), "xmls.csv"))

	_, err := newRunner(t, store).Execute(context.Background(), opts)
	require.NoError(t, err)
	first := hits.Load()

	res, err := newRunner(t, store).Execute(context.Background(), opts)
	require.NoError(t, err)
	second := hits.Load() - first

	assert.Equal(t, 2, res.Crawl.Skipped)
	assert.Equal(t, 3, res.Resolve.Reused)
	// Root listing plus the one location that failed last time.
	assert.Equal(t, int64(2), second)
	assert.Len(t, res.Analysis.Graph.Nodes(), 3)
}

func TestAnalyze(t *testing.T) {
	dep := func(id string) deps.Dependency { return deps.Dependency{GroupID: id, ArtifactID: id} }
	records := []*deps.Record{
		{GroupID: "x", ArtifactID: "x", Dependencies: []deps.Dependency{dep("y")}},
		{GroupID: "y", ArtifactID: "y", Dependencies: []deps.Dependency{dep("z1"), dep("z2")}},
		{GroupID: "z1", ArtifactID: "z1"},
		{GroupID: "z2", ArtifactID: "z2"},
		{GroupID: "w1", ArtifactID: "w1", Dependencies: []deps.Dependency{dep("x")}},
		{GroupID: "w2", ArtifactID: "w2", Dependencies: []deps.Dependency{dep("x")}},
	}
	opts := testOptions(t, "")
	require.NoError(t, os.MkdirAll(opts.OutputDir, 0o755))
	stale := filepath.Join(opts.OutputDir, "stale.txt")
	require.NoError(t, os.WriteFile(stale, []byte("x"), 0o644))

	a, err := Analyze(context.Background(), records, opts)
	require.NoError(t, err)

	// x: 0.333, y: 0.667, z*: 0, w*: 1
	assert.Equal(t, 0.333, a.Instability["x/x"])
	assert.Equal(t, 0.667, a.Instability["y/y"])
	require.Len(t, a.Violations, 1)
	assert.Equal(t, "x/x->y/y", a.Violations[0].String())
	assert.Empty(t, a.Cycles)

	_, err = os.Stat(stale)
	assert.True(t, os.IsNotExist(err), "output directory should be cleared")

	dot, err := os.ReadFile(filepath.Join(opts.OutputDir, ViolationsGraphName+".dot"))
	require.NoError(t, err)
	assert.Contains(t, string(dot), `"x/x" -> "y/y" [color=red];`)
	assert.Contains(t, string(dot), `"y/y" [label="y/y\nI: 0.667"];`)
}

func TestAnalyzeRejects(t *testing.T) {
	opts := testOptions(t, "")
	_, err := Analyze(context.Background(), nil, opts)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput), "err = %v", err)

	opts.OutputDir = "."
	_, err = Analyze(context.Background(), []*deps.Record{{GroupID: "a", ArtifactID: "a"}}, opts)
	assert.Error(t, err)

	opts = testOptions(t, "")
	opts.Format = render.Format("gif")
	_, err = Analyze(context.Background(), []*deps.Record{{GroupID: "a", ArtifactID: "a"}}, opts)
	assert.Error(t, err)
}

func TestLoadRecordSetPrefersJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "release_details.csv")
	records := []*deps.Record{
		{GroupID: "a", ArtifactID: "a", MetadataURL: "https://repo/a/maven-metadata.xml",
			Dependencies: []deps.Dependency{{GroupID: "b", ArtifactID: "b"}}},
		{GroupID: "b", ArtifactID: "b", MetadataURL: "https://repo/b/maven-metadata.xml"},
	}
	require.NoError(t, SaveRecords(records, path))

	got, err := LoadRecordSet(path)
	require.NoError(t, err)
	assert.Len(t, got, 2, "JSON companion keeps records without dependencies")

	require.NoError(t, os.Remove(RecordsJSONPath(path)))
	got, err = LoadRecordSet(path)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = LoadRecordSet(filepath.Join(t.TempDir(), "missing.csv"))
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))
}

func TestRecordsJSONPath(t *testing.T) {
	assert.Equal(t, "out/release_details.json", RecordsJSONPath("out/release_details.csv"))
	assert.Equal(t, "records.json", RecordsJSONPath("records.json"))
}

func TestValidateForCrawl(t *testing.T) {
	assert.Error(t, Options{}.ValidateForCrawl())
	assert.Error(t, Options{Root: "ftp://x/"}.ValidateForCrawl())
	assert.NoError(t, Options{Root: "https://repo/"}.ValidateForCrawl())
}
