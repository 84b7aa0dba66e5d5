// Package scan drives project file loading with dual-layer incremental
// caching and runs pluggable analysis engines against the loaded files
// with per-engine timeout and error containment.
package scan

import (
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// FileContext is one loaded project file. Content is kept for the
// process lifetime in the loader's memory cache; the hash is persisted
// cross-run for incremental change detection.
type FileContext struct {
	Path    string   `json:"path"`
	Content string   `json:"-"`
	Hash    string   `json:"hash"`
	Lines   []string `json:"-"`
	Ext     string   `json:"ext"`
}

// NewFileContext builds a FileContext from raw content
func NewFileContext(path string, content []byte) *FileContext {
	text := string(content)
	return &FileContext{
		Path:    path,
		Content: text,
		Hash:    ContentHash(content),
		Lines:   strings.Split(text, "\n"),
		Ext:     filepath.Ext(path),
	}
}

// Context is the shared state handed to every engine during one scan
// invocation. Files is read-only once engines start; the scratch cache
// and timings are guarded for concurrent engine access.
type Context struct {
	Files       map[string]*FileContext
	ProjectRoot string

	mu      sync.Mutex
	timings map[string]time.Duration
	scratch map[string]any
}

// NewContext creates an empty scan context for one invocation
func NewContext(projectRoot string) *Context {
	return &Context{
		Files:       make(map[string]*FileContext),
		ProjectRoot: projectRoot,
		timings:     make(map[string]time.Duration),
		scratch:     make(map[string]any),
	}
}

// SetTiming records a named phase duration
func (c *Context) SetTiming(name string, d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timings[name] = d
}

// Timings returns a copy of the recorded phase durations
func (c *Context) Timings() map[string]time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]time.Duration, len(c.timings))
	for k, v := range c.timings {
		out[k] = v
	}
	return out
}

// Put stores a value in the cross-engine scratch cache
func (c *Context) Put(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scratch[key] = value
}

// Get reads a value from the cross-engine scratch cache
func (c *Context) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.scratch[key]
	return v, ok
}
