// Package ipaddr represents the addresses carried in a flow record and the
// CIDR blocks used by sensor deciders to classify them.
package ipaddr

import (
	"fmt"
	"net/netip"
)

// V6Mapped returns addr widened to the ::ffff:0:0/96 mapped form used when an
// IPv4 record is serialized into an IPv6-capable record format.
func V6Mapped(addr netip.Addr) netip.Addr {
	if addr.Is4() {
		return netip.AddrFrom16(addr.As16())
	}
	return addr
}

// Unmap narrows a v4-in-v6 mapped address back to plain IPv4, leaving native
// v6 addresses untouched. Mirrors netip.Addr.Unmap but documents the SiLK
// usage site (reading a v4 record out of a v6-capable format).
func Unmap(addr netip.Addr) netip.Addr {
	return addr.Unmap()
}

// Block is a read-only set of CIDR prefixes, used by IPBLOCK/IPSET deciders.
// Block instances are treated as read-only once sensor configuration is
// done (Add is the only mutator) and may then be shared across sensors (spec: "IPset/Bag/Prefix-map instances ... MAY be shared").
type Block struct {
	prefixes []netip.Prefix
}

// NewBlock returns a Block containing the given prefixes.
func NewBlock(prefixes ...netip.Prefix) *Block {
	b := &Block{prefixes: append([]netip.Prefix(nil), prefixes...)}
	return b
}

// Add appends a prefix to the block. Not safe for concurrent use; call only
// during sensor configuration, before the block is shared.
func (b *Block) Add(p netip.Prefix) {
	b.prefixes = append(b.prefixes, p)
}

// Contains reports whether addr falls inside any prefix of the block.
func (b *Block) Contains(addr netip.Addr) bool {
	if b == nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range b.prefixes {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// Union returns a new Block containing the prefixes of both b and other.
func (b *Block) Union(other *Block) *Block {
	out := &Block{}
	if b != nil {
		out.prefixes = append(out.prefixes, b.prefixes...)
	}
	if other != nil {
		out.prefixes = append(out.prefixes, other.prefixes...)
	}
	return out
}

// Len returns the number of prefixes in the block.
func (b *Block) Len() int {
	if b == nil {
		return 0
	}
	return len(b.prefixes)
}

// String renders the block for diagnostics.
func (b *Block) String() string {
	if b == nil || len(b.prefixes) == 0 {
		return "{}"
	}
	return fmt.Sprintf("%v", b.prefixes)
}
