package models

// Health is the body of the health endpoint
type Health struct {
	Status     string `json:"status"`
	Height     int64  `json:"height"`
	Difficulty int    `json:"difficulty"`
}

// Validation reports the result of verifying the whole chain
type Validation struct {
	Valid  bool   `json:"valid"`
	Height int64  `json:"height"`
	Error  string `json:"error,omitempty"`
}
