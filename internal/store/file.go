package store

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// FileLeadStore appends lead rows to a JSON-lines file. Demo mode uses it in
// place of the spreadsheet.
type FileLeadStore struct {
	mu   sync.Mutex
	path string
}

func NewFileLeadStore(path string) *FileLeadStore {
	return &FileLeadStore{path: path}
}

func (f *FileLeadStore) AppendRow(_ context.Context, row []string) error {
	if len(row) == 0 {
		return fmt.Errorf("empty row")
	}
	b, err := json.Marshal(row)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return err
	}
	// owner-only: rows carry contact details
	fh, err := os.OpenFile(f.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	if _, err := fh.Write(append(b, '\n')); err != nil {
		fh.Close()
		return err
	}
	return fh.Close()
}

// Rows reads every stored row. A missing file means no rows.
func (f *FileLeadStore) Rows() ([][]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fh, err := os.Open(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer fh.Close()

	var rows [][]string
	sc := bufio.NewScanner(fh)
	for sc.Scan() {
		if len(sc.Bytes()) == 0 {
			continue
		}
		var row []string
		if err := json.Unmarshal(sc.Bytes(), &row); err != nil {
			return nil, fmt.Errorf("decode %s: %w", f.path, err)
		}
		rows = append(rows, row)
	}
	return rows, sc.Err()
}
