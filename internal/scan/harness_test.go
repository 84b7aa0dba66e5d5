package scan

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/vibecheck/vibecheck/internal/model"
)

func staticEngine(name string, findings []model.Finding) Engine {
	return Engine{
		Name: name,
		Tier: "test",
		Run: func(ctx context.Context, sc *Context) ([]model.Finding, error) {
			return findings, nil
		},
	}
}

func newTestHarness(t *testing.T, cfg model.ScannerConfig) *Harness {
	t.Helper()
	fsys := afero.NewMemMapFs()
	writeProject(t, fsys, map[string]string{"src/app.ts": "export {}"})
	return NewHarness(fsys, cfg, discard())
}

func TestHarness_EngineIsolation(t *testing.T) {
	cfg := testScannerConfig()
	cfg.EngineTimeout = 50 * time.Millisecond
	h := newTestHarness(t, cfg)

	good := staticEngine("good", []model.Finding{{Engine: "good", Rule: "r", Message: "ok"}})
	failing := Engine{
		Name: "failing",
		Run: func(ctx context.Context, sc *Context) ([]model.Finding, error) {
			return nil, errors.New("boom")
		},
	}
	panicking := Engine{
		Name: "panicking",
		Run: func(ctx context.Context, sc *Context) ([]model.Finding, error) {
			panic("kaboom")
		},
	}
	hanging := Engine{
		Name: "hanging",
		Run: func(ctx context.Context, sc *Context) ([]model.Finding, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}

	engines := []Engine{good, failing, panicking, hanging}
	result, err := h.Run(context.Background(), engines)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(result.EngineResults) != len(engines) {
		t.Fatalf("expected %d engine results, got %d", len(engines), len(result.EngineResults))
	}
	for i, er := range result.EngineResults {
		if er.Engine != engines[i].Name {
			t.Errorf("engine result %d misaligned: %s", i, er.Engine)
		}
	}

	if !result.EngineResults[0].Success {
		t.Error("well-behaved engine should succeed")
	}
	for _, idx := range []int{1, 2, 3} {
		er := result.EngineResults[idx]
		if er.Success || er.Error == "" {
			t.Errorf("engine %s should fail with a captured error, got %+v", er.Engine, er)
		}
		if er.Findings == nil {
			t.Errorf("engine %s should still carry an empty findings slice", er.Engine)
		}
	}

	// The good engine's findings survive in the aggregate
	found := false
	for _, f := range result.Findings {
		if f.Engine == "good" {
			found = true
		}
	}
	if !found {
		t.Error("findings from healthy engines must be aggregated")
	}
}

func TestHarness_SequentialMode(t *testing.T) {
	cfg := testScannerConfig()
	cfg.Parallel = false
	h := newTestHarness(t, cfg)

	engines := []Engine{
		staticEngine("a", []model.Finding{{Engine: "a", Message: "1"}}),
		staticEngine("b", []model.Finding{{Engine: "b", Message: "2"}}),
	}
	result, err := h.Run(context.Background(), engines)
	if err != nil {
		t.Fatal(err)
	}

	if len(result.Findings) != 2 {
		t.Fatalf("expected 2 findings, got %d", len(result.Findings))
	}
	// Sequential aggregation follows dispatch order
	if result.Findings[0].Engine != "a" || result.Findings[1].Engine != "b" {
		t.Errorf("unexpected aggregation order: %+v", result.Findings)
	}
}

func TestHarness_ParallelBatches(t *testing.T) {
	cfg := testScannerConfig()
	cfg.Parallel = true
	cfg.Workers = 2
	h := newTestHarness(t, cfg)

	var engines []Engine
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		engines = append(engines, staticEngine(name, []model.Finding{{Engine: name}}))
	}

	result, err := h.Run(context.Background(), engines)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.EngineResults) != 5 {
		t.Fatalf("expected 5 engine results, got %d", len(result.EngineResults))
	}
	if len(result.Findings) != 5 {
		t.Errorf("expected 5 findings, got %d", len(result.Findings))
	}
	if result.Metrics.Workers != 2 {
		t.Errorf("metrics should report configured workers, got %d", result.Metrics.Workers)
	}
}

func TestHarness_OnFindingStreams(t *testing.T) {
	h := newTestHarness(t, testScannerConfig())

	var streamed []string
	h.OnFinding = func(f model.Finding) {
		streamed = append(streamed, f.Engine)
	}

	_, err := h.Run(context.Background(), []Engine{
		staticEngine("a", []model.Finding{{Engine: "a"}, {Engine: "a"}}),
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(streamed) != 2 {
		t.Errorf("expected 2 streamed findings, got %d", len(streamed))
	}
}

func TestHarness_MetricsAndTimings(t *testing.T) {
	h := newTestHarness(t, testScannerConfig())

	result, err := h.Run(context.Background(), []Engine{staticEngine("a", nil)})
	if err != nil {
		t.Fatal(err)
	}

	if result.Metrics.Files.Total != 1 {
		t.Errorf("expected 1 total file, got %d", result.Metrics.Files.Total)
	}
	for _, phase := range []string{"load", "engines", "total"} {
		if _, ok := result.Timings[phase]; !ok {
			t.Errorf("missing %s timing", phase)
		}
	}
}

func TestEngine_BuiltinTodoScanner(t *testing.T) {
	fsys := afero.NewMemMapFs()
	writeProject(t, fsys, map[string]string{
		"src/app.ts": "const a = 1;\n// TODO: wire auth\nconsole.log(a);\n",
	})
	h := NewHarness(fsys, testScannerConfig(), discard())

	result, err := h.Run(context.Background(), []Engine{TodoEngine(), DebugStatementEngine()})
	if err != nil {
		t.Fatal(err)
	}

	var rules []string
	for _, f := range result.Findings {
		rules = append(rules, f.Rule)
	}
	if len(result.Findings) != 2 {
		t.Fatalf("expected 2 findings (%v), got %+v", rules, result.Findings)
	}
}
