// internal/workers/assistant/build-prompt/models.go
package buildprompt

import (
	"dealer-assistant/internal/models"
	retrieverecords "dealer-assistant/internal/workers/assistant/retrieve-records"
)

type Input struct {
	Message string `json:"message"`
}

// Prompt is what the model receives for one turn.
type Prompt struct {
	System    string               `json:"system"`
	User      string               `json:"user"`
	Intent    models.QueryIntent   `json:"intent"`
	Retrieval retrieverecords.Kind `json:"retrieval"`
	Context   string               `json:"context"`
}

type Output struct {
	Reply     string `json:"reply"`
	Fallback  bool   `json:"fallback"`
	ErrorCode string `json:"errorCode,omitempty"`
}
