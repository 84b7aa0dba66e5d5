package scan

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
)

// hashCacheFile holds the persisted path→hash map under the project root
const hashCacheFile = ".vibecheck/file-hashes.json"

// ContentHash hashes file content for incremental change detection
func ContentHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// readHashCache loads the prior run's hash map. A missing or malformed
// file means a cold start, never an error.
func readHashCache(fsys afero.Fs, root string) map[string]string {
	hashes := make(map[string]string)

	data, err := afero.ReadFile(fsys, filepath.Join(root, hashCacheFile))
	if err != nil {
		return hashes
	}
	if err := json.Unmarshal(data, &hashes); err != nil {
		return make(map[string]string)
	}
	return hashes
}

// writeHashCache replaces the persisted hash map with the full map of
// the run just finished. Written once per scan, after all reads settle;
// concurrent scans of the same root must be serialized by the caller.
func writeHashCache(fsys afero.Fs, root string, hashes map[string]string) error {
	data, err := json.MarshalIndent(hashes, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal hash cache: %w", err)
	}

	path := filepath.Join(root, hashCacheFile)
	if err := fsys.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	if err := afero.WriteFile(fsys, path, data, 0644); err != nil {
		return fmt.Errorf("write hash cache: %w", err)
	}
	return nil
}
