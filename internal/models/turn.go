package models

import "time"

// TurnLogEntry is one completed user/assistant exchange.
type TurnLogEntry struct {
	ID            string    `json:"id"`
	UserText      string    `json:"userText"`
	AssistantText string    `json:"assistantText"`
	CreatedAt     time.Time `json:"createdAt"`
}
