// Package decider implements the sensor/decider side of the packing core:
// the tagged-variant decider union, the Sensor type, and the configuration-
// time verifier of spec §4.F.1. The classifier itself (package classify)
// only calls Sensor.TestFlowInterfaces and Sensor.CheckFilters; it never
// inspects decider internals directly.
package decider

import (
	"github.com/flowsilk/flowpack/ipaddr"
	"github.com/flowsilk/flowpack/ipset"
)

// Kind is the decider tagged variant. REMAIN_* variants carry no payload of
// their own: Sensor.TestFlowInterfaces resolves them on demand to the
// complement of the other networks' deciders, so at runtime they behave
// like a non-remainder decider of the same family. Sensor.Verify only fills
// in an implicit REMAIN_* kind; it does not precompute the complement.
type Kind uint8

const (
	UNSET Kind = iota
	INTERFACE
	REMAIN_INTERFACE
	IPBLOCK
	REMAIN_IPBLOCK
	IPSET
	REMAIN_IPSET
	NEG_IPBLOCK // reserved: not configurable via the external format
	NEG_IPSET   // reserved: not configurable via the external format
)

// Family groups deciders that test the same kind of membership.
type Family uint8

const (
	FAMILY_NONE Family = iota
	FAMILY_INTERFACE
	FAMILY_IPBLOCK
	FAMILY_IPSET
)

// Family returns the decider family of k, or FAMILY_NONE for UNSET.
func (k Kind) Family() Family {
	switch k {
	case INTERFACE, REMAIN_INTERFACE:
		return FAMILY_INTERFACE
	case IPBLOCK, REMAIN_IPBLOCK, NEG_IPBLOCK:
		return FAMILY_IPBLOCK
	case IPSET, REMAIN_IPSET, NEG_IPSET:
		return FAMILY_IPSET
	default:
		return FAMILY_NONE
	}
}

// IsRemainder reports whether k is one of the REMAIN_* variants.
func (k Kind) IsRemainder() bool {
	switch k {
	case REMAIN_INTERFACE, REMAIN_IPBLOCK, REMAIN_IPSET:
		return true
	default:
		return false
	}
}

// Decider is one network's membership rule within a sensor.
type Decider struct {
	Kind       Kind
	Interfaces map[uint32]struct{} // SNMP interface ids, for INTERFACE/REMAIN_INTERFACE
	Block      *ipaddr.Block       // literal CIDR list, for IPBLOCK/REMAIN_IPBLOCK/NEG_IPBLOCK
	Set        *ipset.Set          // shared named ipset, for IPSET/REMAIN_IPSET/NEG_IPSET
}

// hasInterface reports whether ifidx is a member of d's interface set.
func (d *Decider) hasInterface(ifidx uint32) bool {
	if d == nil || d.Interfaces == nil {
		return false
	}
	_, ok := d.Interfaces[ifidx]
	return ok
}
