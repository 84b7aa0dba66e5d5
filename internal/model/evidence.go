package model

import "time"

// EvidenceSource identifies which ground-truth source produced a verdict
type EvidenceSource string

const (
	SourceTruthpack   EvidenceSource = "truthpack"    // Persisted ground-truth snapshot
	SourceFilesystem  EvidenceSource = "filesystem"   // Direct file-system probe
	SourcePackageJSON EvidenceSource = "package_json" // Package manifest
	SourceAST         EvidenceSource = "ast"          // Best-effort textual symbol search
	SourceGit         EvidenceSource = "git"          // Version-control history
)

// Evidence is the resolver's verdict on a single claim
type Evidence struct {
	ClaimID    string         `json:"claim_id"`
	Found      bool           `json:"found"`
	Source     EvidenceSource `json:"source"`
	Location   *Location      `json:"location,omitempty"`
	Confidence float64        `json:"confidence"`
	Details    map[string]any `json:"details,omitempty"`
	ResolvedAt *time.Time     `json:"resolved_at,omitempty"`
	CacheHit   bool           `json:"cache_hit,omitempty"`
}

// NotFoundEvidence is the degraded verdict for a claim no source could
// confirm: a ghost reference. It is never cached, so a file or route
// created mid-session is discovered on the next resolution.
func NotFoundEvidence(claimID string) Evidence {
	return Evidence{
		ClaimID:    claimID,
		Found:      false,
		Source:     SourceTruthpack,
		Confidence: 0,
		Details:    map[string]any{},
	}
}
