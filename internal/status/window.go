package status

import "time"

// DefaultWindow is the lookback used when a window token is absent or not
// recognized. The dashboard must never fail solely because of a bad window
// selector, so resolution falls back instead of erroring.
const DefaultWindow = time.Hour

var windowDurations = map[string]time.Duration{
	"5m":  5 * time.Minute,
	"15m": 15 * time.Minute,
	"30m": 30 * time.Minute,
	"1h":  time.Hour,
	"4h":  4 * time.Hour,
	"24h": 24 * time.Hour,
	"1w":  7 * 24 * time.Hour,
	"2w":  14 * 24 * time.Hour,
}

// ResolveWindow maps a symbolic window token to its exact duration. Every
// consumer (snapshot aggregation, series bucketing, caching) resolves windows
// through here so bucket-size math stays consistent.
func ResolveWindow(token string) time.Duration {
	if d, ok := windowDurations[token]; ok {
		return d
	}
	return DefaultWindow
}
