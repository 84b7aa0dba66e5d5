package resolve

import (
	"context"
	"fmt"

	"github.com/vibecheck/vibecheck/internal/extract"
	"github.com/vibecheck/vibecheck/internal/model"
	"github.com/vibecheck/vibecheck/internal/scan"
)

// VerificationEngine adapts the resolver into a scan engine: it
// extracts claims from every loaded file, resolves them in one batch,
// and reports each ghost reference as a finding.
func VerificationEngine(resolver *Resolver) scan.Engine {
	extractor := extract.NewExtractor()

	return scan.Engine{
		Name:     "truth-verification",
		Tier:     "verification",
		Patterns: []string{"import", "fetch", "process.env", "require"},
		Run: func(ctx context.Context, sc *scan.Context) ([]model.Finding, error) {
			// Parallel slices: identical claims in different files must
			// each keep their own originating path.
			var claims []model.Claim
			var claimFiles []string

			for path, fc := range sc.Files {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
				for _, claim := range extractor.Extract(fc.Content) {
					claims = append(claims, claim)
					claimFiles = append(claimFiles, path)
				}
			}

			evidence := resolver.ResolveAll(ctx, claims)

			var findings []model.Finding
			for i, ev := range evidence {
				if ev.Found {
					continue
				}
				claim := claims[i]
				findings = append(findings, model.Finding{
					Engine:   "truth-verification",
					Rule:     "ghost-" + string(claim.Type),
					File:     claimFiles[i],
					Line:     claim.Location.Line,
					Message:  fmt.Sprintf("%s %q not found in project ground truth", claim.Type, claim.Value),
					Severity: ghostSeverity(claim.Type),
					Data: map[string]any{
						"claim_id": claim.ID,
						"value":    claim.Value,
						"source":   string(ev.Source),
					},
				})
			}
			return findings, nil
		},
	}
}

// ghostSeverity weights ghost references by how certain extraction is
// for that claim type.
func ghostSeverity(t model.ClaimType) model.Severity {
	switch t {
	case model.ClaimTypeImport, model.ClaimTypePackageDependency, model.ClaimTypeFileReference:
		return model.SeverityCritical
	case model.ClaimTypeAPIEndpoint, model.ClaimTypeEnvVariable:
		return model.SeverityWarning
	default:
		return model.SeverityInfo
	}
}
