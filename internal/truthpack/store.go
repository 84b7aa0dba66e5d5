// Package truthpack loads the project's persisted ground-truth snapshot:
// routes, env variables, contracts, and protected resources, one JSON
// file per domain. Every domain is optional — a missing or malformed
// file means "no data", never a failure.
package truthpack

import (
	"context"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/afero"

	"github.com/vibecheck/vibecheck/internal/model"
	"github.com/vibecheck/vibecheck/internal/worker"
)

const (
	loadRetries     = 2
	loadBackoff     = 50 * time.Millisecond
	defaultStaleAge = 5 * time.Minute
)

// Domain names the per-file ground-truth domains
type Domain string

const (
	DomainRoutes    Domain = "routes"
	DomainEnv       Domain = "env"
	DomainContracts Domain = "contracts"
	DomainAuth      Domain = "auth"
)

// Store lazily loads truthpack domains from a directory. Each domain is
// read on first use; the whole snapshot is invalidated and reloaded once
// it is older than the staleness window.
type Store struct {
	fs         afero.Fs
	dir        string
	staleAfter time.Duration
	logger     *slog.Logger

	mu       sync.Mutex
	loadedAt time.Time
	loaded   map[Domain]bool

	routes    model.RoutesPack
	env       model.EnvPack
	contracts model.ContractsPack
	auth      model.AuthPack
}

// NewStore creates a store reading from dir. A non-positive staleAfter
// falls back to the 5-minute default.
func NewStore(fsys afero.Fs, dir string, staleAfter time.Duration, logger *slog.Logger) *Store {
	if staleAfter <= 0 {
		staleAfter = defaultStaleAge
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		fs:         fsys,
		dir:        dir,
		staleAfter: staleAfter,
		logger:     logger,
		loaded:     make(map[Domain]bool),
	}
}

// Routes returns the routes domain, loading it on first use
func (s *Store) Routes(ctx context.Context) model.RoutesPack {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureFresh()
	if !s.loaded[DomainRoutes] {
		s.routes = model.RoutesPack{}
		s.loadDomain(ctx, DomainRoutes, &s.routes)
	}
	return s.routes
}

// Env returns the env domain, loading it on first use
func (s *Store) Env(ctx context.Context) model.EnvPack {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureFresh()
	if !s.loaded[DomainEnv] {
		s.env = model.EnvPack{}
		s.loadDomain(ctx, DomainEnv, &s.env)
	}
	return s.env
}

// Contracts returns the contracts domain, loading it on first use
func (s *Store) Contracts(ctx context.Context) model.ContractsPack {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureFresh()
	if !s.loaded[DomainContracts] {
		s.contracts = model.ContractsPack{}
		s.loadDomain(ctx, DomainContracts, &s.contracts)
	}
	return s.contracts
}

// Auth returns the auth domain, loading it on first use
func (s *Store) Auth(ctx context.Context) model.AuthPack {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureFresh()
	if !s.loaded[DomainAuth] {
		s.auth = model.AuthPack{}
		s.loadDomain(ctx, DomainAuth, &s.auth)
	}
	return s.auth
}

// Invalidate drops every loaded domain so the next access reloads
func (s *Store) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = make(map[Domain]bool)
	s.loadedAt = time.Time{}
}

// ensureFresh invalidates the snapshot once it passes the staleness
// window. Caller holds s.mu.
func (s *Store) ensureFresh() {
	if !s.loadedAt.IsZero() && time.Since(s.loadedAt) > s.staleAfter {
		s.loaded = make(map[Domain]bool)
		s.loadedAt = time.Time{}
	}
}

// loadDomain reads and parses one domain file into out, retrying reads
// on transient failure. Any failure leaves out at its zero value.
// Caller holds s.mu.
func (s *Store) loadDomain(ctx context.Context, domain Domain, out any) {
	path := filepath.Join(s.dir, string(domain)+".json")

	var data []byte
	err := worker.Retry(ctx, loadRetries, loadBackoff, func() error {
		var readErr error
		data, readErr = afero.ReadFile(s.fs, path)
		return readErr
	})
	if err != nil {
		s.logger.Debug("truthpack domain unavailable", "domain", domain, "path", path, "error", err)
	} else if err := json.Unmarshal(data, out); err != nil {
		s.logger.Debug("truthpack domain malformed", "domain", domain, "path", path, "error", err)
	}

	s.loaded[domain] = true
	if s.loadedAt.IsZero() {
		s.loadedAt = time.Now()
	}
}
