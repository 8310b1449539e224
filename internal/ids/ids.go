package ids

import "github.com/segmentio/ksuid"

// New returns a unique KSUID. Ids sort by their one-second timestamp only; order
// within the same second is arbitrary, so callers order records by time instead.
func New() string {
	return ksuid.New().String()
}

func Prefixed(prefix string) string {
	return prefix + "_" + New()
}
