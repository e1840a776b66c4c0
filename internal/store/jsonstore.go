// Package store persists planner inputs and outputs: JSON pool snapshots
// and plan reports under a root directory, and a SQLite loader for the
// upstream players database.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aatrey56/fpl-squad-planner/internal/model"
)

type JSONStore struct {
	Root string // e.g. "data/raw"
}

func NewJSONStore(root string) *JSONStore {
	return &JSONStore{Root: root}
}

func (s *JSONStore) Path(rel string) string {
	return filepath.Join(s.Root, rel)
}

func (s *JSONStore) Exists(rel string) bool {
	_, err := os.Stat(s.Path(rel))
	return err == nil
}

func (s *JSONStore) WriteRaw(rel string, body []byte, pretty bool) error {
	path := s.Path(rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	if pretty {
		var v any
		if err := json.Unmarshal(body, &v); err == nil {
			buf := &bytes.Buffer{}
			enc := json.NewEncoder(buf)
			enc.SetIndent("", "  ")
			_ = enc.Encode(v)
			body = buf.Bytes()
		}
	}

	return os.WriteFile(path, body, 0o644)
}

func (s *JSONStore) ReadRaw(rel string) ([]byte, error) {
	path := s.Path(rel)
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	return b, err
}

// PoolSnapshot is the on-disk shape of one gameweek's eligible pool.
type PoolSnapshot struct {
	Gameweek int            `json:"gameweek"`
	Horizon  int            `json:"horizon"`
	Players  []model.Player `json:"players"`
}

// LoadPool reads a pool snapshot and sanity-checks it: non-negative prices
// and projections, valid positions.
func (s *JSONStore) LoadPool(rel string) (PoolSnapshot, error) {
	raw, err := s.ReadRaw(rel)
	if err != nil {
		return PoolSnapshot{}, fmt.Errorf("pool snapshot %s: %w", rel, err)
	}
	var snap PoolSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return PoolSnapshot{}, fmt.Errorf("parse pool snapshot %s: %w", rel, err)
	}
	for _, p := range snap.Players {
		if !p.Position.Valid() {
			return PoolSnapshot{}, fmt.Errorf("pool snapshot %s: player %d has position %d", rel, p.ID, p.Position)
		}
		if p.Price < 0 {
			return PoolSnapshot{}, fmt.Errorf("pool snapshot %s: player %d has negative price", rel, p.ID)
		}
		for _, v := range p.Projected {
			if v < 0 {
				return PoolSnapshot{}, fmt.Errorf("pool snapshot %s: player %d has negative projection", rel, p.ID)
			}
		}
	}
	return snap, nil
}

// WritePool stores a pool snapshot pretty-printed.
func (s *JSONStore) WritePool(rel string, snap PoolSnapshot) error {
	b, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return s.WriteRaw(rel, b, true)
}

// WriteReport stores any planner output (squad, transfer plan, chip advice)
// as indented JSON with a trailing newline.
func (s *JSONStore) WriteReport(rel string, report any) error {
	b, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	path := s.Path(rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
