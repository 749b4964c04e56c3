package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"promptlab/domain/core"
	"promptlab/domain/run"
)

// FileRunStore persists runs as pretty-printed JSON files, one per run.
// The CLI uses it to leave inspectable artifacts next to the rendered
// report.
type FileRunStore struct {
	BaseDir string
}

// NewFileRunStore creates a file store rooted at baseDir
func NewFileRunStore(baseDir string) *FileRunStore {
	return &FileRunStore{BaseDir: baseDir}
}

// EnsureBaseDir creates the base directory if it doesn't exist
func (s *FileRunStore) EnsureBaseDir() error {
	return os.MkdirAll(s.BaseDir, 0755)
}

// Save writes the run as a timestamp-prefixed JSON file
func (s *FileRunStore) Save(ctx context.Context, r run.Run) error {
	if err := s.EnsureBaseDir(); err != nil {
		return fmt.Errorf("failed to create base directory: %w", err)
	}

	filename := fmt.Sprintf("%s_%s.json", r.CreatedAt.Time().Format("2006-01-02_15-04-05"), r.ID)
	path := filepath.Join(s.BaseDir, filename)

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write run file: %w", err)
	}

	return nil
}

// Get retrieves a run by its ID
func (s *FileRunStore) Get(ctx context.Context, id core.RunID) (*run.Run, error) {
	files, err := s.listRunFiles()
	if err != nil {
		return nil, err
	}

	for _, file := range files {
		r, err := s.loadRunFile(file)
		if err != nil {
			continue // Skip corrupted files
		}
		if r.ID == id {
			return r, nil
		}
	}

	return nil, core.NewRunNotFoundError(string(id))
}

// List returns the most recent runs, newest first. A non-positive
// limit returns all.
func (s *FileRunStore) List(ctx context.Context, limit int) ([]run.Run, error) {
	files, err := s.listRunFiles()
	if err != nil {
		return nil, err
	}

	// Filenames sort chronologically thanks to the timestamp prefix
	sort.Sort(sort.Reverse(sort.StringSlice(files)))

	results := make([]run.Run, 0, len(files))
	for _, file := range files {
		if limit > 0 && len(results) >= limit {
			break
		}
		r, err := s.loadRunFile(file)
		if err != nil {
			continue // Skip corrupted files
		}
		results = append(results, *r)
	}

	return results, nil
}

// listRunFiles returns all run JSON files under the base directory
func (s *FileRunStore) listRunFiles() ([]string, error) {
	var files []string

	err := filepath.WalkDir(s.BaseDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".json") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	return files, nil
}

// loadRunFile loads a single run from a JSON file
func (s *FileRunStore) loadRunFile(path string) (*run.Run, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var r run.Run
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}

	return &r, nil
}
