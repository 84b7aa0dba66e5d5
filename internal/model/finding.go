package model

// Severity indicates the importance of a finding
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Finding is a single issue reported by a scan engine
type Finding struct {
	Engine   string         `json:"engine"`
	Rule     string         `json:"rule"`
	File     string         `json:"file"`
	Line     int            `json:"line,omitempty"`
	Message  string         `json:"message"`
	Severity Severity       `json:"severity"`
	Data     map[string]any `json:"data,omitempty"` // Transparent supporting data
}

// EngineResult records the outcome of one engine invocation. One is
// produced per registered engine per scan, even on failure or timeout.
type EngineResult struct {
	Engine     string    `json:"engine"`
	Findings   []Finding `json:"findings"`
	DurationMS int64     `json:"duration_ms"`
	Success    bool      `json:"success"`
	Error      string    `json:"error,omitempty"`
}
