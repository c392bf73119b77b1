// internal/workers/assistant/classify-intent/models.go
package classifyintent

import "dealer-assistant/internal/models"

type Input struct {
	Text string `json:"text"`
}

type Output struct {
	Intent models.QueryIntent `json:"intent"`
}

// sourceRule maps one lead source focus to the keywords that select it.
type sourceRule struct {
	focus    models.LeadFocus
	keywords []string
}
