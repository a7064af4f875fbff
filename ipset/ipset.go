// Package ipset specifies, at interface level, the read-only IP-address set
// type shared between sensor deciders, rwset-family tools, and the IPSetRef
// header entry. Full on-disk IPset tree compaction is out of scope here
// (spec: shared services are specified only at interface level); Set is
// backed by a flat prefix list rather than a radix/interval tree.
package ipset

import (
	"net/netip"
	"sync"
)

// Set is a thread-safe, read-mostly collection of IP prefixes. Many sensors
// may share one Set instance (spec §5: "IPset ... instances ... MAY be
// shared across sensors"), so lookups take a read lock.
type Set struct {
	mu       sync.RWMutex
	prefixes []netip.Prefix
}

// New returns a Set containing the given prefixes.
func New(prefixes ...netip.Prefix) *Set {
	return &Set{prefixes: append([]netip.Prefix(nil), prefixes...)}
}

// Add inserts a prefix into the set.
func (s *Set) Add(p netip.Prefix) {
	s.mu.Lock()
	s.prefixes = append(s.prefixes, p)
	s.mu.Unlock()
}

// Contains reports whether addr is a member of the set.
func (s *Set) Contains(addr netip.Addr) bool {
	if s == nil {
		return false
	}
	addr = addr.Unmap()
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.prefixes {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// Union returns a new Set holding the prefixes of both s and other.
func (s *Set) Union(other *Set) *Set {
	out := New()
	if s != nil {
		s.mu.RLock()
		out.prefixes = append(out.prefixes, s.prefixes...)
		s.mu.RUnlock()
	}
	if other != nil {
		other.mu.RLock()
		out.prefixes = append(out.prefixes, other.prefixes...)
		other.mu.RUnlock()
	}
	return out
}

// Len returns the number of prefixes held by the set.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.prefixes)
}
