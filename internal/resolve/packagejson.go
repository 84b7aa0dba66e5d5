package resolve

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/afero"

	"github.com/vibecheck/vibecheck/internal/model"
)

// nodeBuiltins is the fixed set of Node.js built-in modules. Checked
// before the manifest so "fs" or "node:path" never count against the
// dependency sections.
var nodeBuiltins = map[string]bool{
	"assert": true, "async_hooks": true, "buffer": true, "child_process": true,
	"cluster": true, "console": true, "constants": true, "crypto": true,
	"dgram": true, "diagnostics_channel": true, "dns": true, "domain": true,
	"events": true, "fs": true, "http": true, "http2": true, "https": true,
	"inspector": true, "module": true, "net": true, "os": true, "path": true,
	"perf_hooks": true, "process": true, "punycode": true, "querystring": true,
	"readline": true, "repl": true, "stream": true, "string_decoder": true,
	"timers": true, "tls": true, "trace_events": true, "tty": true, "url": true,
	"util": true, "v8": true, "vm": true, "worker_threads": true, "zlib": true,
}

// PackageJSONSource resolves package dependency claims against the
// project manifest, loading it lazily once per resolver lifetime.
type PackageJSONSource struct {
	fs   afero.Fs
	root string

	once     sync.Once
	manifest model.PackageManifest
}

func (s *PackageJSONSource) Name() model.EvidenceSource {
	return model.SourcePackageJSON
}

func (s *PackageJSONSource) Resolve(_ context.Context, claim model.Claim) (model.Evidence, error) {
	name := NormalizePackageName(claim.Value)

	if nodeBuiltins[name] {
		return model.Evidence{
			ClaimID:    claim.ID,
			Found:      true,
			Source:     model.SourcePackageJSON,
			Confidence: 1.0,
			Details: map[string]any{
				"package_name": name,
				"is_builtin":   true,
			},
		}, nil
	}

	s.once.Do(s.loadManifest)

	sections := []struct {
		name string
		deps map[string]string
	}{
		{"dependencies", s.manifest.Dependencies},
		{"devDependencies", s.manifest.DevDependencies},
		{"peerDependencies", s.manifest.PeerDependencies},
	}

	for _, section := range sections {
		if version, ok := section.deps[name]; ok {
			return model.Evidence{
				ClaimID:    claim.ID,
				Found:      true,
				Source:     model.SourcePackageJSON,
				Confidence: 1.0,
				Details: map[string]any{
					"package_name":    name,
					"dependency_type": section.name,
					"version":         version,
				},
			}, nil
		}
	}

	return notFound(claim, model.SourcePackageJSON), nil
}

// loadManifest reads package.json once; a missing or malformed manifest
// is simply an empty one.
func (s *PackageJSONSource) loadManifest() {
	data, err := afero.ReadFile(s.fs, filepath.Join(s.root, "package.json"))
	if err != nil {
		return
	}
	_ = json.Unmarshal(data, &s.manifest)
}

// NormalizePackageName strips the "node:" prefix and subpaths:
// "@scope/pkg/sub" becomes "@scope/pkg", "pkg/sub" becomes "pkg".
func NormalizePackageName(spec string) string {
	name := strings.TrimPrefix(spec, "node:")

	parts := strings.Split(name, "/")
	if strings.HasPrefix(name, "@") {
		if len(parts) >= 2 {
			return parts[0] + "/" + parts[1]
		}
		return name
	}
	return parts[0]
}
