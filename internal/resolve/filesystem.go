package resolve

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/vibecheck/vibecheck/internal/fsprobe"
	"github.com/vibecheck/vibecheck/internal/model"
)

// FilesystemSource resolves file references: the literal path first,
// then extension fallbacks, then index-file variants.
type FilesystemSource struct {
	probe *fsprobe.Probe
}

func (s *FilesystemSource) Name() model.EvidenceSource {
	return model.SourceFilesystem
}

func (s *FilesystemSource) Resolve(_ context.Context, claim model.Claim) (model.Evidence, error) {
	rel := normalizeRelPath(claim.Value)
	if rel == "" {
		return notFound(claim, model.SourceFilesystem), nil
	}

	if s.probe.Exists(rel) {
		return found(claim, 1.0, map[string]any{"resolved_path": rel}), nil
	}

	// Extensionless references get the fixed fallback chain
	if filepath.Ext(rel) == "" {
		if resolved, ext, ok := s.probe.ResolveWithExtensions(rel); ok {
			return found(claim, 0.9, map[string]any{
				"resolved_path":   resolved,
				"added_extension": ext,
			}), nil
		}
		if resolved, idx, ok := s.probe.ResolveIndex(rel); ok {
			return found(claim, 0.85, map[string]any{
				"resolved_path": resolved,
				"added_index":   idx,
			}), nil
		}
	}

	return notFound(claim, model.SourceFilesystem), nil
}

func found(claim model.Claim, confidence float64, details map[string]any) model.Evidence {
	return model.Evidence{
		ClaimID:    claim.ID,
		Found:      true,
		Source:     model.SourceFilesystem,
		Confidence: confidence,
		Details:    details,
	}
}

// normalizeRelPath makes an import-style specifier relative to the
// project root. Bare module specifiers are not file references.
func normalizeRelPath(value string) string {
	cleaned := filepath.Clean(strings.TrimPrefix(value, "./"))
	cleaned = strings.TrimPrefix(cleaned, "/")
	if cleaned == "." || cleaned == "" {
		return ""
	}
	return cleaned
}
