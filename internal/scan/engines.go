package scan

import (
	"context"
	"regexp"
	"strings"

	"github.com/vibecheck/vibecheck/internal/model"
)

var (
	todoRe  = regexp.MustCompile(`\b(TODO|FIXME|HACK|XXX)\b[:\s]*(.*)`)
	debugRe = regexp.MustCompile(`\bconsole\.(log|debug|trace)\s*\(`)
)

// TodoEngine flags leftover task markers in scanned files
func TodoEngine() Engine {
	return Engine{
		Name:     "todo-scanner",
		Tier:     "hygiene",
		Patterns: []string{"TODO", "FIXME", "HACK", "XXX"},
		Run: func(ctx context.Context, sc *Context) ([]model.Finding, error) {
			var findings []model.Finding
			for path, fc := range sc.Files {
				if err := ctx.Err(); err != nil {
					return findings, err
				}
				for i, line := range fc.Lines {
					if m := todoRe.FindStringSubmatch(line); m != nil {
						findings = append(findings, model.Finding{
							Engine:   "todo-scanner",
							Rule:     "leftover-marker",
							File:     path,
							Line:     i + 1,
							Message:  strings.TrimSpace(m[0]),
							Severity: model.SeverityInfo,
						})
					}
				}
			}
			return findings, nil
		},
	}
}

// DebugStatementEngine flags console logging left in scanned files
func DebugStatementEngine() Engine {
	return Engine{
		Name:     "debug-statement",
		Tier:     "hygiene",
		Patterns: []string{"console.log"},
		Run: func(ctx context.Context, sc *Context) ([]model.Finding, error) {
			var findings []model.Finding
			for path, fc := range sc.Files {
				if err := ctx.Err(); err != nil {
					return findings, err
				}
				for i, line := range fc.Lines {
					if debugRe.MatchString(line) {
						findings = append(findings, model.Finding{
							Engine:   "debug-statement",
							Rule:     "console-output",
							File:     path,
							Line:     i + 1,
							Message:  "console output left in code",
							Severity: model.SeverityWarning,
						})
					}
				}
			}
			return findings, nil
		},
	}
}
