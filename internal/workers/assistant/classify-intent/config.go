// internal/workers/assistant/classify-intent/config.go
package classifyintent

// DefaultBrands is the ordered brand list scanned for a leads sub-focus. The
// first brand found in the text wins.
var DefaultBrands = []string{
	"bmw", "toyota", "honda", "ford", "nissan", "mercedes",
	"volkswagen", "hyundai", "kia", "mazda", "chevrolet", "tesla",
}

type Config struct {
	Brands []string
}

func LoadConfig() *Config {
	return &Config{
		Brands: DefaultBrands,
	}
}
