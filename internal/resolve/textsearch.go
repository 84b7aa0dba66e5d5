package resolve

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/afero"

	"github.com/vibecheck/vibecheck/internal/fsprobe"
	"github.com/vibecheck/vibecheck/internal/model"
)

// skipDirs are never descended into during the symbol search
var skipDirs = map[string]bool{
	"node_modules": true, ".git": true, "dist": true, "build": true, ".vibecheck": true,
}

// TextSearchSource is the fallback for function and type claims the
// truthpack cannot answer: a bounded, best-effort regex search over
// project files. It is intentionally not a parser — false negatives
// past the file cap and unscoped text matches are accepted trade-offs.
type TextSearchSource struct {
	fs     afero.Fs
	cfg    model.ResolverConfig
	logger *slog.Logger
}

func (s *TextSearchSource) Name() model.EvidenceSource {
	return model.SourceAST
}

func (s *TextSearchSource) Resolve(ctx context.Context, claim model.Claim) (model.Evidence, error) {
	patterns := declarationPatterns(claim)
	if len(patterns) == 0 {
		return notFound(claim, model.SourceAST), nil
	}

	maxFiles := s.cfg.MaxScanFiles
	if maxFiles <= 0 {
		maxFiles = 500
	}

	var result model.Evidence
	matched := false
	scanned := 0
	errStopWalk := errors.New("stop walk")

	err := afero.Walk(s.fs, s.cfg.ProjectRoot, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return nil // unreadable entries are skipped, not fatal
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if info.IsDir() {
			if skipDirs[info.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !isSourceFile(path) {
			return nil
		}
		if matched || scanned >= maxFiles {
			return errStopWalk
		}
		if s.cfg.MaxFileSize > 0 && info.Size() > s.cfg.MaxFileSize {
			return nil
		}
		scanned++

		data, readErr := afero.ReadFile(s.fs, path)
		if readErr != nil {
			s.logger.Debug("symbol search skipping file", "path", path, "error", readErr)
			return nil
		}

		for lineNo, line := range strings.Split(string(data), "\n") {
			for _, re := range patterns {
				if re.MatchString(line) {
					result = model.Evidence{
						ClaimID:    claim.ID,
						Found:      true,
						Source:     model.SourceAST,
						Confidence: 0.9,
						Location:   &model.Location{Line: lineNo + 1},
						Details: map[string]any{
							"file":    path,
							"pattern": re.String(),
						},
					}
					matched = true
					return errStopWalk
				}
			}
		}
		return nil
	})
	if err != nil && !errors.Is(err, errStopWalk) {
		return model.Evidence{}, err
	}

	if matched {
		return result, nil
	}
	return notFound(claim, model.SourceAST), nil
}

// declarationPatterns builds word-boundary regexes for the declaration
// shapes a symbol can take.
func declarationPatterns(claim model.Claim) []*regexp.Regexp {
	name := regexp.QuoteMeta(claim.Value)

	switch claim.Type {
	case model.ClaimTypeFunctionCall:
		return []*regexp.Regexp{
			regexp.MustCompile(`\bfunction\s+` + name + `\s*\(`),
			regexp.MustCompile(`\b(?:const|let|var)\s+` + name + `\s*=\s*(?:async\s+)?(?:function\b|\()`),
			regexp.MustCompile(`\bexport\s+(?:default\s+)?(?:async\s+)?function\s+` + name + `\b`),
		}
	case model.ClaimTypeTypeReference:
		return []*regexp.Regexp{
			regexp.MustCompile(`\b(?:export\s+)?(?:interface|type|class|enum)\s+` + name + `\b`),
		}
	default:
		return nil
	}
}

func isSourceFile(path string) bool {
	for _, ext := range fsprobe.Extensions {
		if ext == ".json" {
			continue
		}
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}
