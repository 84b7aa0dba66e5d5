// Package resolve verifies claims against the project's ground truth.
// Each claim type has an ordered chain of sources; the first source to
// return positive evidence wins. Positive evidence is cached under
// "type:value"; negative evidence never is, so files and routes created
// mid-session are discovered on the next resolution.
package resolve

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/vibecheck/vibecheck/internal/cache"
	"github.com/vibecheck/vibecheck/internal/fsprobe"
	"github.com/vibecheck/vibecheck/internal/model"
	"github.com/vibecheck/vibecheck/internal/truthpack"
)

// Source is one strategy for resolving a claim. Implementations return
// not-found evidence (never an error) when the claim simply is not in
// their ground truth; errors are reserved for operational failures.
type Source interface {
	Name() model.EvidenceSource
	Resolve(ctx context.Context, claim model.Claim) (model.Evidence, error)
}

// Resolver runs resolver chains over claims, with caching and bounded
// parallel batch resolution. Create one per pipeline run and Dispose it
// when done.
type Resolver struct {
	cfg    model.ResolverConfig
	chains map[model.ClaimType][]Source
	cache  *cache.TTL[model.Evidence]
	probe  *fsprobe.Probe
	logger *slog.Logger
}

// NewResolver wires the default chain table over the given truthpack
// store and project file system.
func NewResolver(cfg model.ResolverConfig, store *truthpack.Store, fsys afero.Fs, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.ParallelLimit <= 0 {
		cfg.ParallelLimit = 10
	}

	probe := fsprobe.NewProbe(fsys, cfg.ProjectRoot, cfg.MaxFileSize)

	tp := &TruthpackSource{store: store}
	fsrc := &FilesystemSource{probe: probe}
	pkg := &PackageJSONSource{fs: fsys, root: cfg.ProjectRoot}
	env := &EnvFileSource{fs: fsys, root: cfg.ProjectRoot}
	ast := &TextSearchSource{fs: fsys, cfg: cfg, logger: logger}

	// Chains are a dispatch table: adding a resolver means adding a
	// table entry, not another branch.
	chains := map[model.ClaimType][]Source{
		model.ClaimTypeImport:            {pkg, fsrc},
		model.ClaimTypeFunctionCall:      {tp, ast},
		model.ClaimTypeTypeReference:     {tp, ast},
		model.ClaimTypeAPIEndpoint:       {tp},
		model.ClaimTypeEnvVariable:       {tp, env},
		model.ClaimTypeFileReference:     {fsrc},
		model.ClaimTypePackageDependency: {pkg},
	}
	if len(cfg.Sources) > 0 {
		chains = filterChains(chains, cfg.Sources)
	}

	return &Resolver{
		cfg:    cfg,
		chains: chains,
		cache:  cache.NewTTL[model.Evidence](cfg.CacheMaxSize, cfg.CacheTTL),
		probe:  probe,
		logger: logger,
	}
}

// filterChains keeps only the sources named in enabled, preserving
// chain order.
func filterChains(chains map[model.ClaimType][]Source, enabled []string) map[model.ClaimType][]Source {
	allowed := make(map[model.EvidenceSource]bool, len(enabled))
	for _, name := range enabled {
		allowed[model.EvidenceSource(name)] = true
	}

	out := make(map[model.ClaimType][]Source, len(chains))
	for claimType, chain := range chains {
		var kept []Source
		for _, src := range chain {
			if allowed[src.Name()] {
				kept = append(kept, src)
			}
		}
		out[claimType] = kept
	}
	return out
}

// Resolve produces the verdict for a single claim. It never fails: a
// claim no source can confirm degrades to not-found evidence.
func (r *Resolver) Resolve(ctx context.Context, claim model.Claim) model.Evidence {
	key := claim.CacheKey()
	if r.cfg.EnableCaching {
		if ev, ok := r.cache.Get(key); ok {
			ev.ClaimID = claim.ID
			ev.CacheHit = true
			return ev
		}
	}

	for _, src := range r.chains[claim.Type] {
		ev, err := r.resolveWithTimeout(ctx, src, claim)
		if err != nil {
			r.logger.Debug("resolver source failed",
				"source", src.Name(), "claim_type", claim.Type, "value", claim.Value, "error", err)
			continue
		}
		if ev.Found {
			now := time.Now().UTC()
			ev.ResolvedAt = &now
			ev.ClaimID = claim.ID
			if ev.Details == nil {
				ev.Details = map[string]any{}
			}
			if r.cfg.EnableCaching {
				r.cache.Set(key, ev, 0)
			}
			return ev
		}
	}

	return model.NotFoundEvidence(claim.ID)
}

// resolveWithTimeout bounds a single source call. The timeout context
// is real cancellation: sources observe ctx.Done() in their loops.
func (r *Resolver) resolveWithTimeout(ctx context.Context, src Source, claim model.Claim) (model.Evidence, error) {
	cctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()
	return src.Resolve(cctx, claim)
}

// ResolveAll resolves every claim under the configured parallel limit.
// Output is positionally aligned with input; a single claim's failure
// never aborts the batch.
func (r *Resolver) ResolveAll(ctx context.Context, claims []model.Claim) []model.Evidence {
	if len(claims) == 0 {
		return []model.Evidence{}
	}

	results := make([]model.Evidence, len(claims))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.ParallelLimit)

	for i, claim := range claims {
		i, claim := i, claim
		g.Go(func() error {
			results[i] = r.Resolve(gctx, claim)
			return nil
		})
	}
	_ = g.Wait() // workers never return errors

	return results
}

// CacheStats exposes evidence-cache effectiveness for metrics output
func (r *Resolver) CacheStats() cache.Stats {
	return r.cache.Stats()
}

// Dispose releases the resolver's caches
func (r *Resolver) Dispose() {
	r.cache.Dispose()
	r.probe.Dispose()
}
