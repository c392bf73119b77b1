// internal/workers/assistant/format-context/config.go
package formatcontext

import "golang.org/x/text/language"

type Config struct {
	// Language drives title-casing of inquiry keys and brand names.
	Language language.Tag
}

func LoadConfig() *Config {
	return &Config{
		Language: language.English,
	}
}
