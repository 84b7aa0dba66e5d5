package fsprobe

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
)

func newTestFs(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fsys := afero.NewMemMapFs()
	for path, content := range files {
		if err := afero.WriteFile(fsys, path, []byte(content), 0644); err != nil {
			t.Fatalf("write fixture %s: %v", path, err)
		}
	}
	return fsys
}

func TestProbe_Exists(t *testing.T) {
	fsys := newTestFs(t, map[string]string{
		"proj/src/app.ts": "export {}",
	})
	probe := NewProbe(fsys, "proj", 0)
	defer probe.Dispose()

	if !probe.Exists("src/app.ts") {
		t.Error("existing file should be found")
	}
	if probe.Exists("src/missing.ts") {
		t.Error("missing file should not be found")
	}
	if probe.Exists("src") {
		t.Error("directories are not files")
	}
}

func TestProbe_NegativeNotCached(t *testing.T) {
	fsys := newTestFs(t, map[string]string{})
	probe := NewProbe(fsys, "proj", 0)
	defer probe.Dispose()

	if probe.Exists("late.ts") {
		t.Fatal("file does not exist yet")
	}

	// Create the file after the first probe; it must be visible
	if err := afero.WriteFile(fsys, "proj/late.ts", []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if !probe.Exists("late.ts") {
		t.Error("newly created file should be discovered")
	}
}

func TestProbe_ResolveWithExtensions(t *testing.T) {
	fsys := newTestFs(t, map[string]string{
		"proj/src/util.tsx": "export {}",
	})
	probe := NewProbe(fsys, "proj", 0)
	defer probe.Dispose()

	resolved, ext, ok := probe.ResolveWithExtensions("src/util")
	if !ok {
		t.Fatal("expected extension fallback to resolve")
	}
	if ext != ".tsx" {
		t.Errorf("expected .tsx, got %s", ext)
	}
	if resolved != "src/util.tsx" {
		t.Errorf("unexpected resolved path %s", resolved)
	}

	if _, _, ok := probe.ResolveWithExtensions("src/nothing"); ok {
		t.Error("unresolvable reference should report not found")
	}
}

func TestProbe_ResolveIndex(t *testing.T) {
	fsys := newTestFs(t, map[string]string{
		"proj/src/components/index.ts": "export {}",
	})
	probe := NewProbe(fsys, "proj", 0)
	defer probe.Dispose()

	resolved, added, ok := probe.ResolveIndex("src/components")
	if !ok {
		t.Fatal("expected index fallback to resolve")
	}
	if added != "/index.ts" {
		t.Errorf("expected /index.ts, got %s", added)
	}
	if resolved != "src/components/index.ts" {
		t.Errorf("unexpected resolved path %s", resolved)
	}
}

func TestProbe_ReadBounded(t *testing.T) {
	fsys := newTestFs(t, map[string]string{
		"proj/small.ts": "ok",
		"proj/big.ts":   strings.Repeat("x", 100),
	})
	probe := NewProbe(fsys, "proj", 10)
	defer probe.Dispose()

	data, err := probe.Read("small.ts")
	if err != nil {
		t.Fatalf("read small: %v", err)
	}
	if string(data) != "ok" {
		t.Errorf("unexpected content %q", data)
	}

	if _, err := probe.Read("big.ts"); err == nil {
		t.Error("oversized file should be refused")
	}
}
