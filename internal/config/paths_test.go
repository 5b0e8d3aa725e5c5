package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEnsureDirsCreatesTree(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "cliptions-data")
	pm := NewPathManager(root)

	if err := pm.EnsureDirs(); err != nil {
		t.Fatalf("EnsureDirs: %v", err)
	}

	for _, p := range []string{pm.CommitmentsDir(), pm.RevealsDir(), pm.MinerCommitmentsDir()} {
		info, err := os.Stat(p)
		if err != nil {
			t.Fatalf("Stat(%q): %v", p, err)
		}
		if !info.IsDir() {
			t.Fatalf("%q is not a directory", p)
		}
	}
}

func TestPathManagerFilePaths(t *testing.T) {
	pm := NewPathManager("/data/cliptions")
	if got := pm.BlocksFile(); got != "/data/cliptions/blocks.json" {
		t.Fatalf("BlocksFile = %q", got)
	}
	if got := pm.LastPostFile(); got != "/data/cliptions/last_post.json" {
		t.Fatalf("LastPostFile = %q", got)
	}
}
