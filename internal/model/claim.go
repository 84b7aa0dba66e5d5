package model

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ClaimType categorizes the nature of a claim made by generated code
type ClaimType string

const (
	ClaimTypeImport            ClaimType = "import"             // Import of a module or file
	ClaimTypeFunctionCall      ClaimType = "function_call"      // Call to a named function
	ClaimTypeTypeReference     ClaimType = "type_reference"     // Reference to a named type/class
	ClaimTypeAPIEndpoint       ClaimType = "api_endpoint"       // HTTP call to a route
	ClaimTypeEnvVariable       ClaimType = "env_variable"       // Read of an environment variable
	ClaimTypeFileReference     ClaimType = "file_reference"     // Path to a project file
	ClaimTypePackageDependency ClaimType = "package_dependency" // Dependency on a package
)

// Location pinpoints where a claim appears in the generated code
type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
	Length int `json:"length,omitempty"`
}

// Claim represents a verifiable assertion extracted from generated code.
// Claims are immutable: created by extraction, consumed once by the
// resolver, and retained afterwards only as a cache key.
type Claim struct {
	ID         string    `json:"id"`
	Type       ClaimType `json:"type"`
	Value      string    `json:"value"`
	Location   Location  `json:"location"`
	Confidence float64   `json:"confidence"`        // Extraction confidence, 0..1
	Context    string    `json:"context,omitempty"` // Surrounding source line
}

// NewClaim builds a claim with a deterministic id, so repeated extraction
// of unchanged code yields identical ids.
func NewClaim(t ClaimType, value string, loc Location, confidence float64, context string) Claim {
	return Claim{
		ID:         claimID(t, value, loc),
		Type:       t,
		Value:      value,
		Location:   loc,
		Confidence: confidence,
		Context:    context,
	}
}

// CacheKey returns the evidence cache key for this claim. Claims with the
// same type and value share a verdict regardless of where they appear.
func (c Claim) CacheKey() string {
	return string(c.Type) + ":" + c.Value
}

// claimID hashes (type, location, value) into a stable identifier
func claimID(t ClaimType, value string, loc Location) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%d|%d|%d|%s", t, loc.Line, loc.Column, loc.Length, value)))
	return hex.EncodeToString(sum[:8])
}
