// Package store implements block persistence: a JSON file that is the
// system of record, and an optional Postgres sink for supplementary audit
// history.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/cliptions/validator/internal/block"
)

// JSONBlockStore persists blocks as a single pretty-printed JSON object
// keyed by block number, written atomically (temp file + rename) so a
// crash mid-write never leaves a half-written database on disk.
//
// Saving round-trips through the existing on-disk record as a template:
// any field the current schema doesn't know about is preserved rather than
// dropped, so older or newer versions of this code can share a data
// directory during a rolling upgrade.
type JSONBlockStore struct {
	path  string
	mutex sync.Mutex
}

// NewJSONBlockStore returns a store backed by the JSON file at path. The
// file is created on first Save if it doesn't already exist.
func NewJSONBlockStore(path string) *JSONBlockStore {
	return &JSONBlockStore{path: path}
}

func (s *JSONBlockStore) readDB() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return map[string]json.RawMessage{}, nil
	}
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return map[string]json.RawMessage{}, nil
	}
	var db map[string]json.RawMessage
	if err := json.Unmarshal(data, &db); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptDB, err)
	}
	return db, nil
}

// writeDB writes db atomically: marshal to a temp file in the same
// directory, fsync, then rename over the destination. The rename is what
// makes concurrent readers (or a crash) never observe a partial file.
func (s *JSONBlockStore) writeDB(db map[string]json.RawMessage) error {
	payload, err := json.MarshalIndent(db, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".blocks-*.json.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(payload); err != nil {
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
	return os.Rename(tmpPath, s.path)
}

// Load reads and decodes the block recorded under blockNum.
func (s *JSONBlockStore) Load(blockNum string) (block.Block, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	db, err := s.readDB()
	if err != nil {
		return block.Block{}, err
	}
	raw, ok := db[blockNum]
	if !ok {
		return block.Block{}, ErrBlockNotFound
	}
	var b block.Block
	if err := json.Unmarshal(raw, &b); err != nil {
		return block.Block{}, fmt.Errorf("%w: %v", ErrCorruptDB, err)
	}
	return b, nil
}

// LoadCommitmentsOpen reads the block recorded under blockNum and checks it
// is still accepting commitments — the resume entry point after a restart,
// where the caller needs the stored phase confirmed before rebuilding the
// typed state machine around it.
func (s *JSONBlockStore) LoadCommitmentsOpen(blockNum string) (block.Block, error) {
	b, err := s.Load(blockNum)
	if err != nil {
		return block.Block{}, err
	}
	if b.Status != block.StatusCommitmentsOpen {
		return block.Block{}, fmt.Errorf("%w: block %s is %s, want CommitmentsOpen", block.ErrWrongPhase, blockNum, b.Status)
	}
	return b, nil
}

// Save writes b into the database, template-merging it over whatever
// record already exists under the same block number so fields unknown to
// this build's block.Block are preserved instead of being dropped.
func (s *JSONBlockStore) Save(b block.Block) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	db, err := s.readDB()
	if err != nil {
		return err
	}

	template := map[string]any{}
	if existing, ok := db[b.BlockNum]; ok {
		_ = json.Unmarshal(existing, &template)
	}

	fresh := map[string]any{}
	freshBytes, err := json.Marshal(b)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(freshBytes, &fresh); err != nil {
		return err
	}
	for k, v := range fresh {
		template[k] = v
	}

	merged, err := json.Marshal(template)
	if err != nil {
		return err
	}
	db[b.BlockNum] = merged

	return s.writeDB(db)
}

// List returns every block number currently recorded, sorted.
func (s *JSONBlockStore) List() ([]string, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	db, err := s.readDB()
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(db))
	for k := range db {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}
