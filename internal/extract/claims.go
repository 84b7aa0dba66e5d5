// Package extract pulls verifiable claims out of generated source text.
// Extraction is a deliberate regex pass, not a parser: it is pure,
// performs no I/O, and produces deterministic claim ids so unchanged
// code always extracts to identical claims.
package extract

import (
	"regexp"
	"strings"

	"github.com/vibecheck/vibecheck/internal/model"
)

var (
	importRe  = regexp.MustCompile(`import\s+(?:[\w{}\s,*$]+\s+from\s+)?['"]([^'"]+)['"]`)
	requireRe = regexp.MustCompile(`require\(\s*['"]([^'"]+)['"]\s*\)`)
	endpointRe = regexp.MustCompile(
		`(?:fetch|axios\.(?:get|post|put|patch|delete|head))\(\s*` + "[`'\"]" + `(/[^'"` + "`" + `\s]*)`)
	envRe      = regexp.MustCompile(`process\.env\.([A-Z][A-Z0-9_]*)`)
	typeNewRe  = regexp.MustCompile(`\bnew\s+([A-Z][A-Za-z0-9_]*)\s*[(<]`)
	typeRelRe  = regexp.MustCompile(`\b(?:extends|implements)\s+([A-Z][A-Za-z0-9_]*)`)
	callRe     = regexp.MustCompile(`\b([a-z_$][A-Za-z0-9_$]*)\s*\(`)
)

// callNoise are identifiers matched by callRe that are language
// keywords or globals, not project symbols worth verifying.
var callNoise = map[string]bool{
	"if": true, "for": true, "while": true, "switch": true, "catch": true,
	"return": true, "function": true, "typeof": true, "await": true,
	"require": true, "fetch": true, "import": true, "super": true,
	"console": true, "parseInt": true, "parseFloat": true, "setTimeout": true,
	"setInterval": true, "clearTimeout": true, "clearInterval": true,
}

// Extractor turns generated code into claims
type Extractor struct{}

// NewExtractor creates a claim extractor
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract scans content line by line and returns every claim found,
// deduplicated by id.
func (e *Extractor) Extract(content string) []model.Claim {
	var claims []model.Claim
	lines := strings.Split(content, "\n")

	for i, line := range lines {
		lineNo := i + 1
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "*") {
			continue
		}

		claims = append(claims, extractImports(line, lineNo)...)
		claims = append(claims, matchAll(endpointRe, line, lineNo, model.ClaimTypeAPIEndpoint, 0.85)...)
		claims = append(claims, matchAll(envRe, line, lineNo, model.ClaimTypeEnvVariable, 0.95)...)
		claims = append(claims, matchAll(typeNewRe, line, lineNo, model.ClaimTypeTypeReference, 0.8)...)
		claims = append(claims, matchAll(typeRelRe, line, lineNo, model.ClaimTypeTypeReference, 0.9)...)
		claims = append(claims, extractCalls(line, lineNo)...)
	}

	return dedupe(claims)
}

// extractImports emits an import claim for every module specifier plus
// a file_reference for relative specifiers or a package_dependency for
// bare ones, so both the path and the dependency get verified.
func extractImports(line string, lineNo int) []model.Claim {
	var claims []model.Claim
	for _, re := range []*regexp.Regexp{importRe, requireRe} {
		for _, m := range re.FindAllStringSubmatchIndex(line, -1) {
			spec := line[m[2]:m[3]]
			loc := model.Location{Line: lineNo, Column: m[2] + 1, Length: len(spec)}
			claims = append(claims, model.NewClaim(model.ClaimTypeImport, spec, loc, 0.95, strings.TrimSpace(line)))

			if strings.HasPrefix(spec, ".") || strings.HasPrefix(spec, "/") {
				claims = append(claims, model.NewClaim(model.ClaimTypeFileReference, spec, loc, 0.9, strings.TrimSpace(line)))
			} else {
				claims = append(claims, model.NewClaim(model.ClaimTypePackageDependency, spec, loc, 0.9, strings.TrimSpace(line)))
			}
		}
	}
	return claims
}

func extractCalls(line string, lineNo int) []model.Claim {
	var claims []model.Claim
	for _, m := range callRe.FindAllStringSubmatchIndex(line, -1) {
		name := line[m[2]:m[3]]
		if callNoise[name] {
			continue
		}
		// Method calls (obj.method) are scoped to their receiver and
		// out of reach for textual verification.
		if m[2] > 0 && line[m[2]-1] == '.' {
			continue
		}
		loc := model.Location{Line: lineNo, Column: m[2] + 1, Length: len(name)}
		claims = append(claims, model.NewClaim(model.ClaimTypeFunctionCall, name, loc, 0.6, strings.TrimSpace(line)))
	}
	return claims
}

func matchAll(re *regexp.Regexp, line string, lineNo int, t model.ClaimType, confidence float64) []model.Claim {
	var claims []model.Claim
	for _, m := range re.FindAllStringSubmatchIndex(line, -1) {
		value := line[m[2]:m[3]]
		loc := model.Location{Line: lineNo, Column: m[2] + 1, Length: len(value)}
		claims = append(claims, model.NewClaim(t, value, loc, confidence, strings.TrimSpace(line)))
	}
	return claims
}

func dedupe(claims []model.Claim) []model.Claim {
	seen := make(map[string]bool, len(claims))
	out := claims[:0]
	for _, c := range claims {
		if !seen[c.ID] {
			seen[c.ID] = true
			out = append(out, c)
		}
	}
	return out
}
