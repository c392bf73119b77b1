// internal/workers/assistant/build-prompt/config.go
package buildprompt

import "time"

const (
	DefaultSystemInstruction = "You are a helpful assistant for car dealership staff. " +
		"Answer questions about sales leads and customer inquiries. " +
		"When dealership data follows the user's message, base your answer on it. " +
		"If the data does not answer the question, say so and ask a clarifying question."

	DefaultFallbackMessage = "Sorry, I couldn't get a response from the assistant right now. Please try again in a moment."

	DefaultContextCacheSize = 128
)

type Config struct {
	SystemInstruction string
	FallbackMessage   string
	Timeout           time.Duration
	// CacheSize bounds the context block cache. Zero or less disables it.
	CacheSize int
}

func LoadConfig() *Config {
	return &Config{
		SystemInstruction: DefaultSystemInstruction,
		FallbackMessage:   DefaultFallbackMessage,
		Timeout:           30 * time.Second,
		CacheSize:         DefaultContextCacheSize,
	}
}
