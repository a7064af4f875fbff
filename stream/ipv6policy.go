package stream

import "net/netip"

// IPv6Policy controls how v4 records are serialized into a v6-capable
// format, and how v4/v6 records interact with a file's declared format on
// read.
type IPv6Policy uint8

const (
	IPV6_IGNORE IPv6Policy = iota // widen v4 addresses to mapped form when writing a v6-capable format; drop nothing on read
	IPV6_ASV4                     // skip the write-side widening; v6Codec still stores v4 addresses in mapped form, so the bytes written match IGNORE
	IPV6_MIX                      // v4 and v6 records both permitted; handled exactly like IGNORE
	IPV6_FORCE                    // widen v4 addresses to mapped form when writing a v6-capable format; handled exactly like IGNORE
	IPV6_ONLY                     // v6 file accepts only v6 (non-mapped) records; v4 records are dropped
)

func (p IPv6Policy) String() string {
	switch p {
	case IPV6_IGNORE:
		return "ignore"
	case IPV6_ASV4:
		return "asv4"
	case IPV6_MIX:
		return "mix"
	case IPV6_FORCE:
		return "force"
	case IPV6_ONLY:
		return "only"
	default:
		return "unknown"
	}
}

// applyIPv6WritePolicy widens addr into v4-in-v6 mapped form when writing
// into a v6-capable format, unless policy is ASV4 (spec: "IPv4-only records
// are widened ... unless policy is ASV4").
func applyIPv6WritePolicy(addr netip.Addr, policy IPv6Policy, formatIsV6 bool) netip.Addr {
	if !formatIsV6 {
		return addr
	}
	if policy == IPV6_ASV4 {
		return addr
	}
	if addr.Is4() {
		return netip.AddrFrom16(addr.As16())
	}
	return addr
}

// keepOnRead reports whether a record with the given address family should
// be kept when read from a file of the given format, under policy. Only
// ONLY drops records (a v4-only record arriving from a v6-capable file);
// every other policy keeps everything it is handed.
func keepOnRead(addrIsV4 bool, policy IPv6Policy, formatIsV6 bool) bool {
	if policy == IPV6_ONLY && formatIsV6 && addrIsV4 {
		return false
	}
	return true
}
