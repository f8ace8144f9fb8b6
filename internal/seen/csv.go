package seen

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

var (
	csvHeader       = []string{"Name", "Date", "ID"}
	legacyCSVHeader = []string{"Name", "Date", "GUID"}
)

// CSVStore keeps the record in a three-column CSV file.
type CSVStore struct {
	path string
}

// NewCSVStore returns a store backed by the file at path. The file is
// created on first Load if it does not exist.
func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path}
}

// Path returns the backing file path.
func (s *CSVStore) Path() string { return s.path }

func (s *CSVStore) Load(_ context.Context) (*Record, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := s.write(NewRecord()); err != nil {
			return nil, s.fail("load", err)
		}
		return NewRecord(), nil
	}
	if err != nil {
		return nil, s.fail("load", err)
	}
	defer f.Close()

	entries, err := readCSV(f)
	if err != nil {
		return nil, s.fail("load", err)
	}
	r, err := fromEntries(entries)
	if err != nil {
		return nil, s.fail("load", err)
	}
	return r, nil
}

func (s *CSVStore) Persist(_ context.Context, r *Record) error {
	if err := s.write(r); err != nil {
		return s.fail("persist", err)
	}
	return nil
}

// Ping checks that the file's directory is reachable.
func (s *CSVStore) Ping(_ context.Context) error {
	if _, err := os.Stat(filepath.Dir(s.path)); err != nil {
		return s.fail("ping", err)
	}
	return nil
}

func (s *CSVStore) Close() error { return nil }

func (s *CSVStore) fail(op string, err error) error {
	return &StorageError{Op: op, Path: s.path, Err: err}
}

func readCSV(rd io.Reader) ([]Entry, error) {
	cr := csv.NewReader(rd)
	cr.FieldsPerRecord = len(csvHeader)

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		// A zero-byte file is treated like a fresh one.
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if !equalHeader(header, csvHeader) && !equalHeader(header, legacyCSVHeader) {
		return nil, fmt.Errorf("unexpected header %v", header)
	}

	var entries []Entry
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{Name: row[0], Date: row[1], ID: row[2]})
	}
	return entries, nil
}

func equalHeader(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

// write replaces the file atomically: rows go to a temp file in the same
// directory which is then renamed over the target.
func (s *CSVStore) write(r *Record) error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(csvHeader); err != nil {
		tmp.Close()
		return err
	}
	for _, e := range r.entries {
		if err := w.Write([]string{e.Name, e.Date, e.ID}); err != nil {
			tmp.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}
