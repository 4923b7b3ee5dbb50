package api

import "time"

// Response status values
const (
	StatusSuccess = "success"

	MessageProcessingComplete = "Processing complete"
)

// ProcessFileResponse reports the outcome of a successful run. The first
// four fields are the ones the desktop client reads.
type ProcessFileResponse struct {
	Status        string `json:"status"`
	Message       string `json:"message"`
	ChangesFound  bool   `json:"changes_found"`
	ProcessedFile string `json:"processed_file"`

	ChangedRows       []int          `json:"changed_rows"`
	CurrentSheet      string         `json:"current_sheet"`
	PreviousSheet     string         `json:"previous_sheet"`
	Columns           []string       `json:"columns"`
	SuppressedColumns []string       `json:"suppressed_columns"`
	Noise             []NoiseSummary `json:"noise,omitempty"`
}

// NoiseSummary is the change ratio measured for one compared column
type NoiseSummary struct {
	Column  string  `json:"column"`
	Ratio   float64 `json:"ratio"`
	Changed int     `json:"changed"`
	Aligned int     `json:"aligned"`
	Dropped bool    `json:"dropped"`
}

// AliveResponse is the body of GET /health
type AliveResponse struct {
	Status string `json:"status"`
}

// HealthResponse is the body of the /api/health endpoints
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
	Services  map[string]interface{} `json:"services,omitempty"`
}
