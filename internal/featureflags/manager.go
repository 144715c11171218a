// Package featureflags switches individual blog behaviors on or off from configuration.
package featureflags

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strconv"
	"strings"
)

// Flags understood by the services.
const (
	// RegistrationUsernameEmailOnly limits the registration duplicate check to
	// username and email instead of all four identity fields.
	RegistrationUsernameEmailOnly = "registration_username_email_only"
	// RelaxedPostUniqueness stops rejecting posts whose title or content already exists.
	RelaxedPostUniqueness = "relaxed_post_uniqueness"
	// GuardPostDelete requires a logged-in user to delete posts.
	GuardPostDelete = "guard_post_delete"
	// RecordPostAuthor stores the creating user's id on new posts.
	RecordPostAuthor = "record_post_author"
)

// Known lists every flag the application evaluates.
var Known = []string{
	RegistrationUsernameEmailOnly,
	RelaxedPostUniqueness,
	GuardPostDelete,
	RecordPostAuthor,
}

// Manager evaluates feature flags defined in a simple key=value list.
// Example: "guard_post_delete=on,record_post_author=25%"
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
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		key, value = normalize(key), normalize(value)
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
//
// Anonymous callers (userID 0) only see flags that are fully on.
func (m *Manager) Enabled(name string, userID uint) bool {
	if m == nil {
		return false
	}

	value, ok := m.flags[normalize(name)]
	if !ok {
		return false
	}

	switch value {
	case "on", "true", "1":
		return true
	case "off", "false", "0":
		return false
	}

	pctRaw, isPct := strings.CutSuffix(value, "%")
	if !isPct {
		return false
	}
	pct, err := strconv.Atoi(pctRaw)
	if err != nil || pct <= 0 {
		return false
	}
	if pct >= 100 {
		return true
	}
	if userID == 0 {
		return false
	}
	return rolloutBucket(name, userID) < pct
}

// Unknown returns configured flag names the application never evaluates, sorted.
func (m *Manager) Unknown() []string {
	if m == nil {
		return nil
	}
	known := make(map[string]struct{}, len(Known))
	for _, k := range Known {
		known[k] = struct{}{}
	}
	var out []string
	for name := range m.flags {
		if _, ok := known[name]; !ok {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// Snapshot returns evaluated flag status for one user.
func (m *Manager) Snapshot(userID uint) map[string]bool {
	out := make(map[string]bool, len(Known))
	for _, name := range Known {
		out[name] = m.Enabled(name, userID)
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func rolloutBucket(name string, userID uint) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(fmt.Sprintf("%s:%d", normalize(name), userID)))
	return int(h.Sum32() % 100)
}
