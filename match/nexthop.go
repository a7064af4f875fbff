package match

import (
	"net/netip"

	"github.com/flowsilk/flowpack/record"
	"github.com/flowsilk/flowpack/side"
)

// packNextHop packs a match id into the low-order 24 bits of an IPv4 address
// and tags the high-order byte with the side the record came from: 0x00 for
// query, 0xff for response. rwmatch repurposes NextHop this way because the
// field carries no meaning once two records have been joined.
func packNextHop(id uint32, sd side.Side) record.IP {
	var tag byte
	if sd == side.RESPONSE {
		tag = 0xff
	}
	b := id & 0x00ffffff
	addr := netip.AddrFrom4([4]byte{
		tag,
		byte(b >> 16),
		byte(b >> 8),
		byte(b),
	})
	return record.FromAddr(addr)
}

// UnpackNextHop reverses packNextHop: ok is false if ip does not carry a
// packed match id (not an IPv4 address, or id is zero).
func UnpackNextHop(ip record.IP) (id uint32, sd side.Side, ok bool) {
	if !ip.Is4() {
		return 0, 0, false
	}
	b := ip.As4()
	id = uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
	if id == 0 {
		return 0, 0, false
	}
	sd = side.QUERY
	if b[0] == 0xff {
		sd = side.RESPONSE
	}
	return id, sd, true
}
