package crawl

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// Checkpoint file columns.
var checkpointHeader = []string{"main_dir", "maven_xml"}

// FileStore keeps a checkpoint in a CSV file with one row per location and
// a single row with an empty maven_xml for directories that had none.
// Every Append rewrites the file through a temporary file and a rename.
type FileStore struct {
	path string

	mu sync.Mutex
	cp *Checkpoint
}

// NewFileStore returns a store backed by path. The file is created on the
// first Append.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the checkpoint file location.
func (s *FileStore) Path() string { return s.path }

// Load reads the checkpoint file. A missing file yields an empty checkpoint.
func (s *FileStore) Load(ctx context.Context) (*Checkpoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp, err := readCheckpoint(s.path)
	if err != nil {
		return nil, err
	}
	s.cp = cp

	out := NewCheckpoint()
	for dir, locs := range cp.entries {
		out.Set(dir, locs)
	}
	return out, nil
}

// Append records dir and rewrites the file.
func (s *FileStore) Append(ctx context.Context, dir string, locations []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cp == nil {
		cp, err := readCheckpoint(s.path)
		if err != nil {
			return err
		}
		s.cp = cp
	}
	s.cp.Set(dir, locations)
	return writeCheckpoint(s.path, s.cp)
}

// Reset removes the checkpoint file.
func (s *FileStore) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cp = NewCheckpoint()
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func readCheckpoint(path string) (*Checkpoint, error) {
	cp := NewCheckpoint()
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cp, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(checkpointHeader)
	header, err := r.Read()
	if err == io.EOF {
		return cp, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read checkpoint %s: %w", path, err)
	}
	if header[0] != checkpointHeader[0] || header[1] != checkpointHeader[1] {
		return nil, fmt.Errorf("read checkpoint %s: unexpected header %v", path, header)
	}
	for {
		row, err := r.Read()
		if err == io.EOF {
			return cp, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read checkpoint %s: %w", path, err)
		}
		cp.Add(row[0], row[1])
	}
}

func writeCheckpoint(path string, cp *Checkpoint) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".checkpoint-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	_ = w.Write(checkpointHeader)
	for _, dir := range cp.Dirs() {
		locs := cp.Get(dir)
		if len(locs) == 0 {
			_ = w.Write([]string{dir, ""})
			continue
		}
		for _, loc := range locs {
			_ = w.Write([]string{dir, loc})
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
