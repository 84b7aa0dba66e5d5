package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/vibecheck/vibecheck/internal/model"
	"github.com/vibecheck/vibecheck/internal/resolve"
	"github.com/vibecheck/vibecheck/internal/scan"
	"github.com/vibecheck/vibecheck/internal/truthpack"
)

var (
	scanJSON       string
	scanTruthpack  string
	scanWorkers    int
	scanSequential bool
	scanFull       bool
	scanNoCache    bool
	scanTimeout    time.Duration
	scanWatch      bool
	scanReadRate   float64
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan [project-root]",
	Short: "Scan a project and verify the claims its code makes",
	Long: `Scan loads the project's files (incrementally, skipping files whose
content hash is unchanged since the last run), runs every registered
scan engine against them, and verifies extracted claims against the
truthpack, the file system, and the package manifest.

Example:
  vibecheck scan .
  vibecheck scan ./my-app --json report.json
  vibecheck scan . --full --sequential`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScanCmd,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringVar(&scanJSON, "json", "", "write full report JSON to this path")
	scanCmd.Flags().StringVar(&scanTruthpack, "truthpack", "", "truthpack directory (default: <root>/.vibecheck/truthpack)")
	scanCmd.Flags().IntVar(&scanWorkers, "workers", 4, "engines per parallel batch")
	scanCmd.Flags().BoolVar(&scanSequential, "sequential", false, "run engines one at a time")
	scanCmd.Flags().BoolVar(&scanFull, "full", false, "disable incremental mode (rescan unchanged files)")
	scanCmd.Flags().BoolVar(&scanNoCache, "no-cache", false, "disable the evidence cache")
	scanCmd.Flags().DurationVar(&scanTimeout, "engine-timeout", 30*time.Second, "per-engine timeout")
	scanCmd.Flags().BoolVar(&scanWatch, "watch-truthpack", false, "invalidate the truthpack snapshot when its files change")
	scanCmd.Flags().Float64Var(&scanReadRate, "read-rate", 0, "max file reads per second, 0 for unlimited")
}

func runScanCmd(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) == 1 {
		root = args[0]
	}

	cfg := model.DefaultConfig()
	cfg.Resolver.ProjectRoot = root
	cfg.Scanner.ProjectRoot = root
	cfg.Scanner.Incremental = !scanFull
	cfg.Scanner.Parallel = !scanSequential
	cfg.Scanner.Workers = scanWorkers
	cfg.Scanner.EngineTimeout = scanTimeout
	cfg.Scanner.ReadRateLimit = scanReadRate
	cfg.Resolver.EnableCaching = !scanNoCache
	if scanTruthpack != "" {
		cfg.Resolver.TruthpackPath = scanTruthpack
	} else {
		cfg.Resolver.TruthpackPath = root + "/.vibecheck/truthpack"
	}

	logger := newLogger()
	fsys := afero.NewOsFs()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := truthpack.NewStore(fsys, cfg.Resolver.TruthpackPath, cfg.Truthpack.StaleAfter, logger)
	if scanWatch {
		go func() {
			if err := store.Watch(ctx); err != nil && ctx.Err() == nil {
				fmt.Fprintf(os.Stderr, "Warning: truthpack watcher stopped: %v\n", err)
			}
		}()
	}

	resolver := resolve.NewResolver(cfg.Resolver, store, fsys, logger)
	defer resolver.Dispose()

	harness := scan.NewHarness(fsys, cfg.Scanner, logger)
	if verbose {
		harness.OnFinding = func(f model.Finding) {
			fmt.Fprintf(os.Stderr, "  [%s] %s:%d %s\n", f.Severity, f.File, f.Line, f.Message)
		}
	}

	engines := []scan.Engine{
		resolve.VerificationEngine(resolver),
		scan.TodoEngine(),
		scan.DebugStatementEngine(),
	}

	result, err := harness.Run(ctx, engines)
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}

	printSummary(result, resolver)

	if scanJSON != "" {
		if err := writeReport(scanJSON, root, result); err != nil {
			return err
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "Wrote report: %s\n", scanJSON)
		}
	}
	return nil
}

func printSummary(result *scan.Result, resolver *resolve.Resolver) {
	fmt.Printf("Files: %d total, %d scanned, %d cached (%.0f%% hit rate)\n",
		result.Metrics.Files.Total, result.Metrics.Files.Scanned,
		result.Metrics.Files.Cached, result.Metrics.Files.HitRate*100)

	for _, er := range result.EngineResults {
		status := "ok"
		if !er.Success {
			status = "FAILED: " + er.Error
		}
		fmt.Printf("  %-20s %4d findings  %5dms  %s\n", er.Engine, len(er.Findings), er.DurationMS, status)
	}

	evidenceStats := resolver.CacheStats()
	fmt.Printf("Findings: %d   Evidence cache: %d entries, %.0f%% hit rate\n",
		len(result.Findings), evidenceStats.Size, evidenceStats.HitRate*100)
}

// report is the JSON payload written by --json
type report struct {
	ProjectRoot   string               `json:"project_root"`
	GeneratedAt   time.Time            `json:"generated_at"`
	Findings      []model.Finding      `json:"findings"`
	EngineResults []model.EngineResult `json:"engine_results"`
	Metrics       scan.Metrics         `json:"metrics"`
}

func writeReport(path, root string, result *scan.Result) error {
	data, err := json.MarshalIndent(report{
		ProjectRoot:   root,
		GeneratedAt:   time.Now().UTC(),
		Findings:      result.Findings,
		EngineResults: result.EngineResults,
		Metrics:       result.Metrics,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
