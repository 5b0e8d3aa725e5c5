package config

import "path/filepath"

// PathManager resolves every data file and directory the validator reads
// or writes, rooted at a single data directory, and creates the directory
// tree on first use.
type PathManager struct {
	dataDir string
}

// NewPathManager returns a PathManager rooted at dataDir.
func NewPathManager(dataDir string) *PathManager {
	return &PathManager{dataDir: dataDir}
}

// EnsureDirs creates every directory this PathManager manages, so callers
// can rely on them existing before the first write.
func (pm *PathManager) EnsureDirs() error {
	for _, dir := range []string{
		pm.CommitmentsDir(),
		pm.RevealsDir(),
		pm.MinerCommitmentsDir(),
	} {
		if err := ensureDir(dir); err != nil {
			return err
		}
	}
	return nil
}

// BlocksFile is the single JSON file the block store persists to.
func (pm *PathManager) BlocksFile() string {
	return filepath.Join(pm.dataDir, "blocks.json")
}

// CommitmentsDir caches collected commitments prior to reveal.
func (pm *PathManager) CommitmentsDir() string {
	return filepath.Join(pm.dataDir, "commitments")
}

// RevealsDir caches collected reveals once parsed from broadcast replies.
func (pm *PathManager) RevealsDir() string {
	return filepath.Join(pm.dataDir, "reveals")
}

// MinerCommitmentsDir caches raw miner commitment submissions.
func (pm *PathManager) MinerCommitmentsDir() string {
	return filepath.Join(pm.dataDir, "miner_commitments")
}

// LastPostFile holds each block's commitments-announcement post id, keyed by
// block number, so a restarted validator can find the thread it was
// replying to.
func (pm *PathManager) LastPostFile() string {
	return filepath.Join(pm.dataDir, "last_post.json")
}
