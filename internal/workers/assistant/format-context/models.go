// internal/workers/assistant/format-context/models.go
package formatcontext

import retrieverecords "dealer-assistant/internal/workers/assistant/retrieve-records"

type Input struct {
	Result *retrieverecords.Result `json:"result"`
}

type Output struct {
	Text string `json:"text"`
}
