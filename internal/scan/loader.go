package scan

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/vibecheck/vibecheck/internal/model"
)

// LoadStats counts file-loading outcomes for one scan
type LoadStats struct {
	Total   int // files matching the include/exclude patterns
	Scanned int // files handed to engines this run
	Cached  int // files served from memory or skipped as unchanged
}

// Loader enumerates, reads, and caches project files. The in-memory
// content cache lives for the loader's lifetime (explicit Clear
// required); the hash map is persisted cross-run under
// .vibecheck/file-hashes.json for incremental detection.
type Loader struct {
	fs      afero.Fs
	cfg     model.ScannerConfig
	logger  *slog.Logger
	limiter *rate.Limiter

	mu     sync.Mutex
	memory map[string]*FileContext
}

// NewLoader creates a loader for the configured project root
func NewLoader(fsys afero.Fs, cfg model.ScannerConfig, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.ReadConcurrency <= 0 {
		cfg.ReadConcurrency = 50
	}

	var limiter *rate.Limiter
	if cfg.ReadRateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.ReadRateLimit), cfg.ReadConcurrency)
	}

	return &Loader{
		fs:      fsys,
		cfg:     cfg,
		logger:  logger,
		limiter: limiter,
		memory:  make(map[string]*FileContext),
	}
}

// Load enumerates matching files and fills a fresh scan context. In
// incremental mode, files whose content hash is unchanged since the
// prior run are excluded from the context entirely — engines never see
// them this run. Only a project root that cannot be enumerated at all
// is a failure.
func (l *Loader) Load(ctx context.Context) (*Context, LoadStats, error) {
	paths, err := l.enumerate()
	if err != nil {
		return nil, LoadStats{}, fmt.Errorf("enumerate %s: %w", l.cfg.ProjectRoot, err)
	}

	prev := readHashCache(l.fs, l.cfg.ProjectRoot)
	newHashes := make(map[string]string, len(paths))
	sc := NewContext(l.cfg.ProjectRoot)
	stats := LoadStats{Total: len(paths)}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.cfg.ReadConcurrency)

	for _, rel := range paths {
		rel := rel
		g.Go(func() error {
			if l.limiter != nil {
				if err := l.limiter.Wait(gctx); err != nil {
					return err
				}
			}

			fc, fromMemory := l.fromMemory(rel)
			if !fromMemory {
				data, readErr := afero.ReadFile(l.fs, filepath.Join(l.cfg.ProjectRoot, rel))
				if readErr != nil {
					l.logger.Warn("skipping unreadable file", "path", rel, "error", readErr)
					mu.Lock()
					stats.Total--
					mu.Unlock()
					return nil
				}
				fc = NewFileContext(rel, data)
				l.remember(rel, fc)
			}

			unchanged := l.cfg.Incremental && prev[rel] == fc.Hash

			mu.Lock()
			defer mu.Unlock()
			newHashes[rel] = fc.Hash
			if unchanged {
				stats.Cached++
				return nil
			}
			if fromMemory {
				stats.Cached++
			} else {
				stats.Scanned++
			}
			sc.Files[rel] = fc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, LoadStats{}, err
	}

	// Full replacement: covers newly-read and cache-hit files alike
	if err := writeHashCache(l.fs, l.cfg.ProjectRoot, newHashes); err != nil {
		l.logger.Warn("hash cache not persisted", "error", err)
	}

	return sc, stats, nil
}

// fromMemory checks the process-lifetime content cache
func (l *Loader) fromMemory(rel string) (*FileContext, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fc, ok := l.memory[rel]
	return fc, ok
}

func (l *Loader) remember(rel string, fc *FileContext) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.memory[rel] = fc
}

// ClearCache empties the in-memory content cache
func (l *Loader) ClearCache() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.memory = make(map[string]*FileContext)
}

// enumerate walks the project root collecting files that match at least
// one include pattern and no exclude pattern.
func (l *Loader) enumerate() ([]string, error) {
	if _, err := l.fs.Stat(l.cfg.ProjectRoot); err != nil {
		return nil, err
	}

	var paths []string
	err := afero.Walk(l.fs, l.cfg.ProjectRoot, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		rel, relErr := filepath.Rel(l.cfg.ProjectRoot, path)
		if relErr != nil || rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if info.IsDir() {
			if l.excluded(rel) || l.excluded(rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}
		if l.included(rel) && !l.excluded(rel) {
			paths = append(paths, rel)
		}
		return nil
	})
	return paths, err
}

func (l *Loader) included(rel string) bool {
	if len(l.cfg.IncludePatterns) == 0 {
		return true
	}
	for _, pattern := range l.cfg.IncludePatterns {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

func (l *Loader) excluded(rel string) bool {
	for _, pattern := range l.cfg.ExcludePatterns {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}
