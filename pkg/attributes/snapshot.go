package attributes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"
)

// SnapshotStore is a Source that can also persist a list.
type SnapshotStore interface {
	Source
	Store(ctx context.Context, records []Record) error
}

// EncodeSnapshot writes records in the aggregate format of the remote API:
// a JSON object keyed by kind.
func EncodeSnapshot(w io.Writer, records []Record) error {
	agg := make(map[Kind][]Record)
	for _, rec := range records {
		agg[rec.Kind] = append(agg[rec.Kind], rec)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(agg); err != nil {
		return fmt.Errorf("error encoding attribute snapshot: %w", err)
	}
	return nil
}

// DecodeSnapshot reads records written by EncodeSnapshot or served by the
// remote aggregate endpoint.
func DecodeSnapshot(r io.Reader) ([]Record, error) {
	var agg map[Kind][]Record
	if err := json.NewDecoder(r).Decode(&agg); err != nil {
		return nil, fmt.Errorf("error decoding attribute snapshot: %w", err)
	}
	return flatten(agg), nil
}

// flatten sets each record's kind and returns them ordered by kind.
func flatten(agg map[Kind][]Record) []Record {
	kinds := make([]Kind, 0, len(agg))
	for k := range agg {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	var out []Record
	for _, k := range kinds {
		for _, rec := range agg[k] {
			rec.Kind = k
			out = append(out, rec)
		}
	}
	return out
}

// FileSnapshot stores the attribute list as a JSON file.
type FileSnapshot struct {
	fs   afero.Fs
	path string
}

var _ SnapshotStore = (*FileSnapshot)(nil)

// NewFileSnapshot returns a snapshot at path on fs. A nil fs is the OS filesystem.
func NewFileSnapshot(fs afero.Fs, path string) *FileSnapshot {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &FileSnapshot{fs: fs, path: path}
}

// Path returns the snapshot location.
func (s *FileSnapshot) Path() string {
	return s.path
}

// FetchAll reads the snapshot.
func (s *FileSnapshot) FetchAll(_ context.Context) ([]Record, error) {
	f, err := s.fs.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("error opening attribute snapshot: %w", err)
	}
	defer f.Close()

	return DecodeSnapshot(f)
}

// Store writes the snapshot through a temporary file so readers never see a
// partial file.
func (s *FileSnapshot) Store(_ context.Context, records []Record) error {
	var buf bytes.Buffer
	if err := EncodeSnapshot(&buf, records); err != nil {
		return err
	}

	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("error creating snapshot directory: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("error writing attribute snapshot: %w", err)
	}
	if err := s.fs.Rename(tmp, s.path); err != nil {
		_ = s.fs.Remove(tmp)
		return fmt.Errorf("error replacing attribute snapshot: %w", err)
	}
	return nil
}

// Exists reports whether the snapshot file is present.
func (s *FileSnapshot) Exists() (bool, error) {
	_, err := s.fs.Stat(s.path)
	if os.IsNotExist(err) {
		return false, nil
	}
	return err == nil, err
}

// Mirror fetches from one source and persists the result into a store
// before returning it.
type Mirror struct {
	From Source
	To   SnapshotStore
}

var _ Source = (*Mirror)(nil)

// FetchAll implements Source.
func (m *Mirror) FetchAll(ctx context.Context) ([]Record, error) {
	records, err := m.From.FetchAll(ctx)
	if err != nil {
		return nil, err
	}
	if err := m.To.Store(ctx, records); err != nil {
		return nil, fmt.Errorf("error storing attribute snapshot: %w", err)
	}
	return records, nil
}
