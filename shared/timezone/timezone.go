package timezone

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

var (
	mu        sync.RWMutex
	locations = map[string]*time.Location{}
)

// LocationFor resolves an IANA timezone name, falling back to UTC for an
// empty or unknown name. Resolved locations are cached for the process
// lifetime; tenants reuse a small set of zones.
func LocationFor(name string) *time.Location {
	if name == "" {
		return time.UTC
	}

	mu.RLock()
	loc, ok := locations[name]
	mu.RUnlock()

	if ok {
		return loc
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Warn().
			Err(err).
			Str("timezone", name).
			Msg("Unknown timezone, falling back to UTC. Use standard names like 'Asia/Jakarta', 'UTC', 'America/New_York'")

		loc = time.UTC
	}

	mu.Lock()
	locations[name] = loc
	mu.Unlock()

	return loc
}

// Format formats a time in the given tenant timezone.
func Format(t time.Time, tzName, layout string) string {
	return t.In(LocationFor(tzName)).Format(layout)
}
