package config

import (
	"sort"

	"chanmgr/config/models"
)

// SortedNames returns channel names, most recently modified first. Ties and
// channels without an mtime fall back to name order.
func SortedNames(channels map[string]models.Channel) []string {
	names := make([]string, 0, len(channels))
	for name := range channels {
		names = append(names, name)
	}

	mtime := func(name string) int64 {
		if c := channels[name]; c.Mtime != nil {
			return *c.Mtime
		}
		return 0
	}

	sort.SliceStable(names, func(i, j int) bool {
		mi, mj := mtime(names[i]), mtime(names[j])
		if mi != mj {
			return mi > mj
		}
		return names[i] < names[j]
	})
	return names
}

// ActiveName returns the channel whose token and base URL match the active
// settings, or "" when none does. The active document carries no channel
// name, so credentials are the only link back.
func ActiveName(channels map[string]models.Channel, active *models.Channel) string {
	if active == nil || active.AuthToken() == "" {
		return ""
	}
	for _, name := range SortedNames(channels) {
		c := channels[name]
		if c.AuthToken() == active.AuthToken() && c.BaseURL() == active.BaseURL() {
			return name
		}
	}
	return ""
}
