package record

import "net/netip"

// Family discriminates the address kind carried by an IP value.
type Family uint8

const (
	FAMILY_V4 Family = 4
	FAMILY_V6 Family = 6
)

// IP wraps a netip.Addr, giving it the family discriminator the spec
// requires of GetSIP/GetDIP accessors.
type IP struct {
	netip.Addr
}

// FromAddr wraps a netip.Addr as an IP.
func FromAddr(a netip.Addr) IP {
	return IP{Addr: a}
}

// Family reports whether addr carries an IPv4 or IPv6 payload. An IPv4
// address mapped into IPv6 form (::ffff:a.b.c.d) still reports FAMILY_V4.
func (ip IP) Family() Family {
	if ip.Is4() || ip.Is4In6() {
		return FAMILY_V4
	}
	return FAMILY_V6
}

// String renders the address in its native family, unwrapping v4-in-v6.
func (ip IP) String() string {
	return ip.Unmap().String()
}
