package models

// ProgressUpdate is broadcast over the websocket hub while an import run
// is in flight.
type ProgressUpdate struct {
	JobID    string  `json:"job_id"`
	Slug     string  `json:"slug"`
	Message  string  `json:"message"`
	Progress float64 `json:"progress"`
	Done     bool    `json:"done"`
}
