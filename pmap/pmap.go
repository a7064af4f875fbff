// Package pmap specifies, at interface level, the read-only CIDR-to-label
// lookup used by prefix-map files (country codes, address types). Map
// *consumption* is in scope; generating a prefix-map file from source data
// is a Non-goal (spec §1).
package pmap

import "net/netip"

// Map looks up a label for an address. The zero value behaves as an empty
// map (every lookup misses).
type Map struct {
	entries []entry
	none    string // label returned when no entry matches
}

type entry struct {
	prefix netip.Prefix
	label  string
}

// New returns an empty Map; none is the label returned for unmatched
// addresses (e.g. "??" for country-code maps).
func New(none string) *Map {
	return &Map{none: none}
}

// Add associates prefix with label. Among overlapping entries, Lookup picks
// the most specific (longest) prefix regardless of insertion order, matching
// the most-specific-wins convention of the original prefix-map format; of
// equally specific entries, the one added first wins.
func (m *Map) Add(prefix netip.Prefix, label string) {
	m.entries = append(m.entries, entry{prefix, label})
}

// Lookup returns the label for addr, or m's none label if no entry matches.
func (m *Map) Lookup(addr netip.Addr) string {
	if m == nil {
		return ""
	}
	addr = addr.Unmap()
	best := -1
	bestBits := -1
	for i, e := range m.entries {
		if e.prefix.Contains(addr) && e.prefix.Bits() > bestBits {
			best = i
			bestBits = e.prefix.Bits()
		}
	}
	if best < 0 {
		return m.none
	}
	return m.entries[best].label
}
