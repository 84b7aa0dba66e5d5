package resolve

import (
	"bufio"
	"context"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/vibecheck/vibecheck/internal/model"
)

// envFiles is the fixed list of dotenv files scanned when the truthpack
// has no entry for a variable.
var envFiles = []string{".env", ".env.local", ".env.development", ".env.production", ".env.example"}

// EnvFileSource resolves env variable claims by scanning dotenv files
// line by line for a NAME= definition.
type EnvFileSource struct {
	fs   afero.Fs
	root string
}

func (s *EnvFileSource) Name() model.EvidenceSource {
	return model.SourceFilesystem
}

func (s *EnvFileSource) Resolve(ctx context.Context, claim model.Claim) (model.Evidence, error) {
	name := strings.TrimPrefix(claim.Value, "process.env.")

	for _, envFile := range envFiles {
		if err := ctx.Err(); err != nil {
			return model.Evidence{}, err
		}

		file, err := s.fs.Open(filepath.Join(s.root, envFile))
		if err != nil {
			continue
		}

		lineNo := 0
		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			lineNo++
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			if strings.HasPrefix(line, name+"=") {
				_ = file.Close()
				return model.Evidence{
					ClaimID:    claim.ID,
					Found:      true,
					Source:     model.SourceFilesystem,
					Confidence: 0.9,
					Location:   &model.Location{Line: lineNo},
					Details: map[string]any{
						"name":     name,
						"env_file": envFile,
					},
				}, nil
			}
		}
		_ = file.Close()
	}

	return notFound(claim, model.SourceFilesystem), nil
}
