package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/vibecheck/vibecheck/internal/extract"
	"github.com/vibecheck/vibecheck/internal/model"
	"github.com/vibecheck/vibecheck/internal/resolve"
	"github.com/vibecheck/vibecheck/internal/truthpack"
)

var (
	verifyRoot      string
	verifyTruthpack string
	verifyJSON      bool
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify <file>",
	Short: "Extract and verify the claims a single file makes",
	Long: `Verify runs claim extraction over one file and resolves every claim
against the project's ground truth, printing each verdict.

Example:
  vibecheck verify src/generated/api-client.ts
  vibecheck verify snippet.ts --root ./my-app --json`,
	Args: cobra.ExactArgs(1),
	RunE: runVerifyCmd,
}

func init() {
	rootCmd.AddCommand(verifyCmd)

	verifyCmd.Flags().StringVar(&verifyRoot, "root", ".", "project root the claims are verified against")
	verifyCmd.Flags().StringVar(&verifyTruthpack, "truthpack", "", "truthpack directory (default: <root>/.vibecheck/truthpack)")
	verifyCmd.Flags().BoolVar(&verifyJSON, "json", false, "print evidence as JSON")
}

func runVerifyCmd(cmd *cobra.Command, args []string) error {
	content, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}

	cfg := model.DefaultConfig()
	cfg.Resolver.ProjectRoot = verifyRoot
	if verifyTruthpack != "" {
		cfg.Resolver.TruthpackPath = verifyTruthpack
	} else {
		cfg.Resolver.TruthpackPath = verifyRoot + "/.vibecheck/truthpack"
	}

	logger := newLogger()
	fsys := afero.NewOsFs()

	store := truthpack.NewStore(fsys, cfg.Resolver.TruthpackPath, cfg.Truthpack.StaleAfter, logger)
	resolver := resolve.NewResolver(cfg.Resolver, store, fsys, logger)
	defer resolver.Dispose()

	claims := extract.NewExtractor().Extract(string(content))
	evidence := resolver.ResolveAll(context.Background(), claims)

	if verifyJSON {
		out := struct {
			Claims   []model.Claim    `json:"claims"`
			Evidence []model.Evidence `json:"evidence"`
		}{Claims: claims, Evidence: evidence}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal evidence: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	ghosts := 0
	for i, ev := range evidence {
		mark := "✓"
		if !ev.Found {
			mark = "✗"
			ghosts++
		}
		fmt.Printf("%s %-19s %-40s line %-4d %s (%.2f)\n",
			mark, claims[i].Type, claims[i].Value, claims[i].Location.Line, ev.Source, ev.Confidence)
	}
	fmt.Printf("\n%d claims, %d ghost references\n", len(claims), ghosts)

	if ghosts > 0 {
		os.Exit(1)
	}
	return nil
}
