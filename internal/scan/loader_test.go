package scan

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/vibecheck/vibecheck/internal/model"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testScannerConfig() model.ScannerConfig {
	cfg := model.DefaultConfig().Scanner
	cfg.ProjectRoot = "proj"
	return cfg
}

func writeProject(t *testing.T, fsys afero.Fs, files map[string]string) {
	t.Helper()
	for path, content := range files {
		if err := afero.WriteFile(fsys, "proj/"+path, []byte(content), 0644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
}

func TestLoader_PatternFiltering(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeProject(t, fsys, map[string]string{
		"src/app.ts":          "a",
		"src/style.css":       "b",
		"node_modules/x/i.ts": "c",
		"README.md":           "d",
	})

	loader := NewLoader(fsys, testScannerConfig(), discard())
	sc, stats, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if stats.Total != 1 {
		t.Errorf("expected 1 matching file, got %d", stats.Total)
	}
	if _, ok := sc.Files["src/app.ts"]; !ok {
		t.Error("src/app.ts should be loaded")
	}
	if _, ok := sc.Files["node_modules/x/i.ts"]; ok {
		t.Error("excluded directories must not be loaded")
	}
}

func TestLoader_IncrementalSecondScanEmpty(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeProject(t, fsys, map[string]string{
		"src/app.ts":  "content a",
		"src/util.ts": "content b",
	})
	cfg := testScannerConfig()

	first := NewLoader(fsys, cfg, discard())
	sc, stats, err := first.Load(context.Background())
	if err != nil {
		t.Fatalf("first load: %v", err)
	}
	if stats.Scanned != 2 || len(sc.Files) != 2 {
		t.Fatalf("first scan should read everything, got %+v", stats)
	}

	// Fresh loader simulates a new process; only the persisted hash
	// cache carries over.
	second := NewLoader(fsys, cfg, discard())
	sc2, stats2, err := second.Load(context.Background())
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if len(sc2.Files) != 0 {
		t.Errorf("unchanged project: scan context should be empty, got %d files", len(sc2.Files))
	}
	if stats2.Scanned != 0 {
		t.Errorf("unchanged project: scanned should be 0, got %d", stats2.Scanned)
	}
	if stats2.Total != 2 {
		t.Errorf("total should still count unchanged files, got %d", stats2.Total)
	}
	if stats2.Cached != 2 {
		t.Errorf("unchanged files should count as cached, got %d", stats2.Cached)
	}
}

func TestLoader_IncrementalDetectsChange(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeProject(t, fsys, map[string]string{
		"src/app.ts":  "v1",
		"src/util.ts": "stable",
	})
	cfg := testScannerConfig()

	if _, _, err := NewLoader(fsys, cfg, discard()).Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	writeProject(t, fsys, map[string]string{"src/app.ts": "v2"})

	sc, stats, err := NewLoader(fsys, cfg, discard()).Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(sc.Files) != 1 {
		t.Fatalf("only the changed file should enter the context, got %d", len(sc.Files))
	}
	if _, ok := sc.Files["src/app.ts"]; !ok {
		t.Error("changed file missing from context")
	}
	if stats.Scanned != 1 || stats.Cached != 1 {
		t.Errorf("expected 1 scanned / 1 cached, got %+v", stats)
	}
}

func TestLoader_NonIncrementalAlwaysLoads(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeProject(t, fsys, map[string]string{"src/app.ts": "a"})
	cfg := testScannerConfig()
	cfg.Incremental = false

	loader := NewLoader(fsys, cfg, discard())
	if _, _, err := loader.Load(context.Background()); err != nil {
		t.Fatal(err)
	}

	sc, stats, err := loader.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(sc.Files) != 1 {
		t.Error("non-incremental scans always hand files to engines")
	}
	// Second load within the process serves content from memory
	if stats.Cached != 1 {
		t.Errorf("expected memory cache hit, got %+v", stats)
	}
}

func TestLoader_ClearCacheForcesReread(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeProject(t, fsys, map[string]string{"src/app.ts": "a"})
	cfg := testScannerConfig()
	cfg.Incremental = false

	loader := NewLoader(fsys, cfg, discard())
	if _, _, err := loader.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	loader.ClearCache()

	_, stats, err := loader.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.Scanned != 1 || stats.Cached != 0 {
		t.Errorf("cleared cache should force a fresh read, got %+v", stats)
	}
}

func TestLoader_ReadRateLimitPacesReads(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeProject(t, fsys, map[string]string{
		"src/a.ts": "a",
		"src/b.ts": "b",
		"src/c.ts": "c",
		"src/d.ts": "d",
		"src/e.ts": "e",
	})
	cfg := testScannerConfig()
	cfg.Incremental = false
	cfg.ReadConcurrency = 1 // burst 1: tokens arrive strictly at the limit rate
	cfg.ReadRateLimit = 100

	loader := NewLoader(fsys, cfg, discard())
	start := time.Now()
	sc, stats, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if stats.Scanned != 5 || len(sc.Files) != 5 {
		t.Fatalf("all files should load, got %+v", stats)
	}
	// 5 reads at 100/s with burst 1 need 4 token waits: >= ~40ms
	if elapsed := time.Since(start); elapsed < 35*time.Millisecond {
		t.Errorf("reads were not paced: 5 files loaded in %v", elapsed)
	}
}

func TestLoader_MissingRootFails(t *testing.T) {
	loader := NewLoader(afero.NewMemMapFs(), testScannerConfig(), discard())
	if _, _, err := loader.Load(context.Background()); err == nil {
		t.Error("an inaccessible project root is a setup failure")
	}
}
