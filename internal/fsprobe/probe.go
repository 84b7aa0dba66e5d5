// Package fsprobe answers existence and lookup questions about project
// files: literal paths, extension fallbacks, index-file variants, and
// bounded-size reads. Results of existence checks are cached briefly so
// resolver chains hammering the same paths stay cheap.
package fsprobe

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/vibecheck/vibecheck/internal/cache"
)

// Extensions is the ordered list tried for extensionless references
var Extensions = []string{".ts", ".tsx", ".js", ".jsx", ".json", ".mjs", ".cjs"}

// existsTTL keeps existence answers fresh enough to notice new files
// created mid-session.
const existsTTL = 30 * time.Second

// Probe performs file-system checks rooted at a project directory
type Probe struct {
	fs          afero.Fs
	root        string
	exists      *cache.TTL[bool]
	maxFileSize int64
}

// NewProbe creates a probe rooted at root. maxFileSize bounds Read; a
// non-positive value means no bound.
func NewProbe(fsys afero.Fs, root string, maxFileSize int64) *Probe {
	return &Probe{
		fs:          fsys,
		root:        root,
		exists:      cache.NewTTL[bool](4096, existsTTL),
		maxFileSize: maxFileSize,
	}
}

// Exists reports whether the path (relative to the project root) is a
// regular file.
func (p *Probe) Exists(rel string) bool {
	full := filepath.Join(p.root, rel)
	if found, ok := p.exists.Get(full); ok {
		return found
	}

	info, err := p.fs.Stat(full)
	found := err == nil && !info.IsDir()
	if found {
		// Negative answers are not cached: a file created a moment
		// later must be visible on the next probe.
		p.exists.Set(full, true, 0)
	}
	return found
}

// ResolveWithExtensions tries rel with each known extension appended,
// returning the first path that exists and the extension added.
func (p *Probe) ResolveWithExtensions(rel string) (resolved, addedExt string, ok bool) {
	for _, ext := range Extensions {
		candidate := rel + ext
		if p.Exists(candidate) {
			return candidate, ext, true
		}
	}
	return "", "", false
}

// ResolveIndex tries rel as a directory containing an index file,
// returning the first index variant that exists.
func (p *Probe) ResolveIndex(rel string) (resolved, addedIndex string, ok bool) {
	for _, ext := range Extensions {
		suffix := "/index" + ext
		candidate := filepath.Join(rel, "index"+ext)
		if p.Exists(candidate) {
			return candidate, suffix, true
		}
	}
	return "", "", false
}

// Read returns the file content, refusing files larger than the
// configured bound.
func (p *Probe) Read(rel string) ([]byte, error) {
	full := filepath.Join(p.root, rel)
	info, err := p.fs.Stat(full)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", rel, err)
	}
	if p.maxFileSize > 0 && info.Size() > p.maxFileSize {
		return nil, fmt.Errorf("file %s exceeds size bound (%d > %d)", rel, info.Size(), p.maxFileSize)
	}

	data, err := afero.ReadFile(p.fs, full)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rel, err)
	}
	return data, nil
}

// Dispose releases the existence cache
func (p *Probe) Dispose() {
	p.exists.Dispose()
}
