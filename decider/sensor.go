package decider

import (
	"net/netip"

	"github.com/flowsilk/flowpack/probe"
	"github.com/flowsilk/flowpack/record"
	"github.com/flowsilk/flowpack/recordfilter"
)

// Direction selects which side of a record a test applies to.
type Direction uint8

const (
	SRC Direction = iota
	DST
)

// Sensor is a logical vantage point: a classification ruleset (one Decider
// per network) plus optional record filters, fed by one or more probes.
type Sensor struct {
	ID    probe.SensorID
	Name  string
	Class string

	// FixedNetwork, if non-nil for a direction, pins that side of every
	// record unconditionally to the given network, bypassing deciders.
	FixedNetwork [2]*probe.Network // indexed by Direction

	Deciders [probe.NUM_NETWORKS]Decider // indexed by probe.Network

	Filters []*recordfilter.Filter

	probes []probe.ID
}

// Probes returns the probe ids feeding this sensor.
func (s *Sensor) Probes() []probe.ID { return s.probes }

// AddProbe records that this sensor consumes records from p. Called only
// during configuration load.
func (s *Sensor) AddProbe(p probe.ID) {
	s.probes = append(s.probes, p)
}

// FilterCount returns the number of configured filters.
func (s *Sensor) FilterCount() int { return len(s.Filters) }

// CheckFilters reports whether rec should be discarded: true if any filter
// matches.
func (s *Sensor) CheckFilters(rec *record.Record) bool {
	for _, f := range s.Filters {
		if f.Match(rec) {
			return true
		}
	}
	return false
}

// snmpSide returns the SNMP interface index relevant to dir: input for the
// source side (where a packet entered the observation point), output for
// the destination side.
func snmpSide(rec *record.Record, dir Direction) uint32 {
	if dir == SRC {
		return rec.InputSNMP
	}
	return rec.OutputSNMP
}

// addrSide returns the record address relevant to dir.
func addrSide(rec *record.Record, dir Direction) record.IP {
	if dir == SRC {
		return rec.SrcIP
	}
	return rec.DstIP
}

// TestFlowInterfaces reports whether rec's dir side belongs to network n
// under this sensor's configuration. REMAIN_* deciders are resolved here by
// complementing the union of the other networks' same-family deciders.
func (s *Sensor) TestFlowInterfaces(rec *record.Record, n probe.Network, dir Direction) bool {
	d := &s.Deciders[n]
	switch d.Kind {
	case UNSET:
		return false

	case INTERFACE:
		return d.hasInterface(snmpSide(rec, dir))
	case REMAIN_INTERFACE:
		return !s.othersHaveInterface(n, snmpSide(rec, dir))

	case IPBLOCK:
		return d.Block.Contains(addrSide(rec, dir).Addr)
	case REMAIN_IPBLOCK:
		return !s.othersContainBlock(n, addrSide(rec, dir).Addr)

	case IPSET:
		return d.Set.Contains(addrSide(rec, dir).Addr)
	case REMAIN_IPSET:
		return !s.othersContainSet(n, addrSide(rec, dir).Addr)

	default:
		// NEG_IPBLOCK / NEG_IPSET: rejected at Verify time, never reached.
		return false
	}
}

func (s *Sensor) othersHaveInterface(exclude probe.Network, ifidx uint32) bool {
	for n := probe.Network(0); n < probe.NUM_NETWORKS; n++ {
		if n == exclude {
			continue
		}
		if s.Deciders[n].hasInterface(ifidx) {
			return true
		}
	}
	return false
}

func (s *Sensor) othersContainBlock(exclude probe.Network, addr netip.Addr) bool {
	for n := probe.Network(0); n < probe.NUM_NETWORKS; n++ {
		if n == exclude {
			continue
		}
		if s.Deciders[n].Block.Contains(addr) {
			return true
		}
	}
	return false
}

func (s *Sensor) othersContainSet(exclude probe.Network, addr netip.Addr) bool {
	for n := probe.Network(0); n < probe.NUM_NETWORKS; n++ {
		if n == exclude {
			continue
		}
		if s.Deciders[n].Set.Contains(addr) {
			return true
		}
	}
	return false
}
