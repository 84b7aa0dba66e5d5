package scan

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/spf13/afero"

	"github.com/vibecheck/vibecheck/internal/model"
)

// Engine is a pluggable analysis unit. Run receives the shared scan
// context and must honor ctx cancellation; the harness treats engines
// as untrusted collaborators and contains their failures.
type Engine struct {
	Name     string
	Tier     string
	Patterns []string
	Run      func(ctx context.Context, sc *Context) ([]model.Finding, error)
}

// Result is the aggregated outcome of one scan invocation
type Result struct {
	Findings      []model.Finding          `json:"findings"`
	EngineResults []model.EngineResult     `json:"engine_results"`
	Metrics       Metrics                  `json:"metrics"`
	Timings       map[string]time.Duration `json:"timings"`
}

// Harness loads files and dispatches engines over them
type Harness struct {
	loader *Loader
	cfg    model.ScannerConfig
	logger *slog.Logger

	// OnFinding, when set, streams each finding as it is aggregated
	OnFinding func(model.Finding)
}

// NewHarness creates a harness with its own loader
func NewHarness(fsys afero.Fs, cfg model.ScannerConfig, logger *slog.Logger) *Harness {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.EngineTimeout <= 0 {
		cfg.EngineTimeout = 30 * time.Second
	}
	return &Harness{
		loader: NewLoader(fsys, cfg, logger),
		cfg:    cfg,
		logger: logger,
	}
}

// Loader exposes the harness's loader for cache control
func (h *Harness) Loader() *Loader {
	return h.loader
}

// Run executes every engine against a freshly loaded scan context.
// engineResults is positionally aligned with engines and always has one
// entry per engine, regardless of individual failures. Only a failure
// to load the project at all propagates.
func (h *Harness) Run(ctx context.Context, engines []Engine) (*Result, error) {
	start := time.Now()

	loadStart := time.Now()
	sc, stats, err := h.loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load files: %w", err)
	}
	sc.SetTiming("load", time.Since(loadStart))

	engineStart := time.Now()
	engineResults := make([]model.EngineResult, len(engines))

	if h.cfg.Parallel {
		// Fixed-size batches, each awaited fully before the next starts
		for lo := 0; lo < len(engines); lo += h.cfg.Workers {
			hi := min(lo+h.cfg.Workers, len(engines))
			var wg sync.WaitGroup
			for i := lo; i < hi; i++ {
				wg.Add(1)
				go func(idx int) {
					defer wg.Done()
					engineResults[idx] = h.runEngine(ctx, engines[idx], sc)
				}(i)
			}
			wg.Wait()
		}
	} else {
		for i, engine := range engines {
			engineResults[i] = h.runEngine(ctx, engine, sc)
		}
	}
	sc.SetTiming("engines", time.Since(engineStart))
	sc.SetTiming("total", time.Since(start))

	// Aggregate in engine dispatch order
	var findings []model.Finding
	for _, er := range engineResults {
		for _, f := range er.Findings {
			findings = append(findings, f)
			if h.OnFinding != nil {
				h.OnFinding(f)
			}
		}
	}
	if findings == nil {
		findings = []model.Finding{}
	}

	return &Result{
		Findings:      findings,
		EngineResults: engineResults,
		Metrics:       computeMetrics(stats, engineResults, h.cfg.Workers, time.Since(start)),
		Timings:       sc.Timings(),
	}, nil
}

// runEngine invokes one engine with timeout isolation and panic
// containment. The timeout is real cancellation: the engine's context
// is cancelled, and a well-behaved engine stops doing work.
func (h *Harness) runEngine(ctx context.Context, engine Engine, sc *Context) model.EngineResult {
	start := time.Now()
	ectx, cancel := context.WithTimeout(ctx, h.cfg.EngineTimeout)
	defer cancel()

	type outcome struct {
		findings []model.Finding
		err      error
	}
	done := make(chan outcome, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("engine panicked: %v", r)}
			}
		}()
		findings, err := engine.Run(ectx, sc)
		done <- outcome{findings: findings, err: err}
	}()

	result := model.EngineResult{Engine: engine.Name, Findings: []model.Finding{}}
	select {
	case out := <-done:
		if out.err != nil {
			result.Error = out.err.Error()
			h.logger.Warn("engine failed", "engine", engine.Name, "error", out.err)
		} else {
			result.Success = true
			result.Findings = out.findings
			if result.Findings == nil {
				result.Findings = []model.Finding{}
			}
		}
	case <-ectx.Done():
		result.Error = fmt.Sprintf("engine timed out after %s", h.cfg.EngineTimeout)
		h.logger.Warn("engine timed out", "engine", engine.Name, "timeout", h.cfg.EngineTimeout)
	}
	result.DurationMS = time.Since(start).Milliseconds()
	return result
}
