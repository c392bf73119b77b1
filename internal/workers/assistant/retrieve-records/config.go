// internal/workers/assistant/retrieve-records/config.go
package retrieverecords

import "time"

// DateLayout is the prefix compared against record timestamps.
const DateLayout = "2006-01-02"

// Today renders now as a local YYYY-MM-DD date.
func Today(now time.Time) string {
	return now.Local().Format(DateLayout)
}
