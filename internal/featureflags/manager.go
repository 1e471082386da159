package featureflags

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
)

// Flags the application consults.
const (
	// FlagRemoteMatching routes match scoring through the external
	// matching service instead of the built-in heuristic.
	FlagRemoteMatching = "remote_matching"
	// FlagBrowseCache keeps the opportunity browse feed in Redis.
	FlagBrowseCache = "browse_cache"
	// FlagViewBuffering batches profile view counts through Redis before
	// flushing them to the database.
	FlagViewBuffering = "view_buffering"
)

// defaults apply when a flag is absent from the configured list.
var defaults = map[string]string{
	FlagBrowseCache:   "on",
	FlagViewBuffering: "on",
}

// Manager evaluates feature flags defined in a simple key=value list.
// Example: "remote_matching=on,browse_cache=off,view_buffering=25%"
type Manager struct {
	flags map[string]string
}

// NewManager creates a feature-flag manager from a comma-separated config string.
func NewManager(raw string) *Manager {
	out := make(map[string]string)

	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := normalize(parts[0])
		value := normalize(parts[1])
		if key == "" || value == "" {
			continue
		}
		out[key] = value
	}

	return &Manager{flags: out}
}

// Enabled returns whether a flag is enabled for a given user.
// Supported values:
// - on/true/1
// - off/false/0
// - N% (deterministic user rollout, e.g. 25%)
// Flags absent from the config fall back to the package defaults.
func (m *Manager) Enabled(name string, userID uint) bool {
	if m == nil {
		return false
	}

	key := normalize(name)
	value, ok := m.flags[key]
	if !ok {
		value, ok = defaults[key]
		if !ok {
			return false
		}
	}

	switch value {
	case "on", "true", "1":
		return true
	case "off", "false", "0":
		return false
	}

	if strings.HasSuffix(value, "%") {
		pct, err := strconv.Atoi(strings.TrimSuffix(value, "%"))
		if err != nil {
			return false
		}
		if pct <= 0 {
			return false
		}
		if pct >= 100 {
			return true
		}
		if userID == 0 {
			return false
		}
		return rolloutBucket(key, userID) < pct
	}

	return false
}

// Snapshot returns evaluated flag status for one user, covering both
// configured flags and defaults.
func (m *Manager) Snapshot(userID uint) map[string]bool {
	out := make(map[string]bool, len(m.flags)+len(defaults))
	for name := range defaults {
		out[name] = m.Enabled(name, userID)
	}
	for name := range m.flags {
		out[name] = m.Enabled(name, userID)
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func rolloutBucket(name string, userID uint) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(fmt.Sprintf("%s:%d", name, userID)))
	return int(h.Sum32() % 100)
}
