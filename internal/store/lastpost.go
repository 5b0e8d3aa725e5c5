package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// LastPostCache remembers the broadcast-channel post id of each block's
// commitments announcement, keyed by block number. Reveals are published as
// replies into the announcement's thread and miner submissions are
// collected from it, so the id has to survive a validator restart; it lives
// in its own small JSON file beside the block store, written with the same
// temp-file-then-rename discipline.
type LastPostCache struct {
	path  string
	mutex sync.Mutex
}

// NewLastPostCache returns a cache backed by the JSON file at path. The
// file is created on first Record.
func NewLastPostCache(path string) *LastPostCache {
	return &LastPostCache{path: path}
}

func (c *LastPostCache) read() (map[string]string, error) {
	data, err := os.ReadFile(c.path)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return map[string]string{}, nil
	}
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// Record stores the announcement post id for blockNum.
func (c *LastPostCache) Record(blockNum, postID string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	m, err := c.read()
	if err != nil {
		return err
	}
	m[blockNum] = postID

	payload, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".last_post-*.json.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, c.path)
}

// Get returns the announcement post id recorded for blockNum, or "" if no
// id was ever recorded (the block predates the cache, or the file was
// removed between restarts).
func (c *LastPostCache) Get(blockNum string) (string, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	m, err := c.read()
	if err != nil {
		return "", err
	}
	return m[blockNum], nil
}
