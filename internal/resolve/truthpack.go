package resolve

import (
	"context"
	"strings"

	"github.com/vibecheck/vibecheck/internal/model"
	"github.com/vibecheck/vibecheck/internal/truthpack"
)

// TruthpackSource resolves claims against the persisted ground-truth
// snapshot: routes and contracts for endpoints, the variable inventory
// for env claims. The pack carries no symbol inventory, so function and
// type claims fall through to the textual search source.
type TruthpackSource struct {
	store *truthpack.Store
}

func (s *TruthpackSource) Name() model.EvidenceSource {
	return model.SourceTruthpack
}

func (s *TruthpackSource) Resolve(ctx context.Context, claim model.Claim) (model.Evidence, error) {
	switch claim.Type {
	case model.ClaimTypeAPIEndpoint:
		return s.resolveEndpoint(ctx, claim), nil
	case model.ClaimTypeEnvVariable:
		return s.resolveEnv(ctx, claim), nil
	default:
		return notFound(claim, model.SourceTruthpack), nil
	}
}

func (s *TruthpackSource) resolveEndpoint(ctx context.Context, claim model.Claim) model.Evidence {
	method, path := splitEndpoint(claim.Value)

	for _, route := range s.store.Routes(ctx).Routes {
		if method != "" && !strings.EqualFold(method, route.Method) {
			continue
		}
		if PathsMatch(path, route.Path) {
			ev := model.Evidence{
				ClaimID:    claim.ID,
				Found:      true,
				Source:     model.SourceTruthpack,
				Confidence: 1.0,
				Details: map[string]any{
					"route":       route.Path,
					"method":      route.Method,
					"exact_match": path == route.Path,
				},
			}
			if route.File != "" {
				ev.Location = &model.Location{Line: route.Line}
				ev.Details["file"] = route.File
			}
			return ev
		}
	}

	// Contracts are a weaker source: path+method pairs without an
	// implementing file.
	for _, contract := range s.store.Contracts(ctx).Contracts {
		if method != "" && !strings.EqualFold(method, contract.Method) {
			continue
		}
		if PathsMatch(path, contract.Path) {
			return model.Evidence{
				ClaimID:    claim.ID,
				Found:      true,
				Source:     model.SourceTruthpack,
				Confidence: 0.9,
				Details: map[string]any{
					"contract":    contract.Path,
					"method":      contract.Method,
					"exact_match": path == contract.Path,
				},
			}
		}
	}

	return notFound(claim, model.SourceTruthpack)
}

func (s *TruthpackSource) resolveEnv(ctx context.Context, claim model.Claim) model.Evidence {
	name := strings.TrimPrefix(claim.Value, "process.env.")

	for _, variable := range s.store.Env(ctx).Variables {
		if variable.Name != name {
			continue
		}
		ev := model.Evidence{
			ClaimID:    claim.ID,
			Found:      true,
			Source:     model.SourceTruthpack,
			Confidence: 1.0,
			Details:    map[string]any{"name": name},
		}
		if len(variable.UsedIn) > 0 {
			ev.Location = &model.Location{Line: variable.UsedIn[0].Line}
			ev.Details["file"] = variable.UsedIn[0].File
		}
		return ev
	}

	return notFound(claim, model.SourceTruthpack)
}

// splitEndpoint handles claim values like "GET /api/users" as well as
// bare paths.
func splitEndpoint(value string) (method, path string) {
	parts := strings.SplitN(strings.TrimSpace(value), " ", 2)
	if len(parts) == 2 {
		return strings.ToUpper(parts[0]), strings.TrimSpace(parts[1])
	}
	return "", value
}

// PathsMatch reports whether a claimed path matches a defined route
// path. Segment counts must be equal; a defined segment starting with
// ':', '[', or '{', or equal to "*" or "**", matches any single claimed
// segment; all other segments must match literally.
//
// Note: "**" deliberately consumes exactly one segment here, matching
// the truthpack generator's semantics.
func PathsMatch(claimed, defined string) bool {
	if claimed == defined {
		return true
	}

	claimedSegs := splitPath(claimed)
	definedSegs := splitPath(defined)
	if len(claimedSegs) != len(definedSegs) {
		return false
	}

	for i, def := range definedSegs {
		if isParamSegment(def) {
			continue
		}
		if def != claimedSegs[i] {
			return false
		}
	}
	return true
}

func isParamSegment(seg string) bool {
	if seg == "*" || seg == "**" {
		return true
	}
	return strings.HasPrefix(seg, ":") || strings.HasPrefix(seg, "[") || strings.HasPrefix(seg, "{")
}

func splitPath(p string) []string {
	return strings.Split(strings.Trim(p, "/"), "/")
}

func notFound(claim model.Claim, source model.EvidenceSource) model.Evidence {
	ev := model.NotFoundEvidence(claim.ID)
	ev.Source = source
	return ev
}
