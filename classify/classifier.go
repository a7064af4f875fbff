// Package classify implements the packing-logic classifier: given a probe
// and a parsed flow record, it produces the set of (flowtype, sensor_id)
// pairs the record belongs to, and selects the on-disk file format and
// record version for a given probe/flowtype. Re-architected from a
// process-wide function-pointer table into an explicit Classifier value
// that is constructed once and passed by reference into every call — no
// package-level mutable state. State-machine idiom grounded on
// pipe/direction.go's handler loop, generalized from channel-driven BGP
// message dispatch to the synchronous per-record decision tree below.
package classify

import (
	"github.com/flowsilk/flowpack/decider"
	"github.com/flowsilk/flowpack/probe"
	"github.com/flowsilk/flowpack/record"
)

// Scheme selects the classification algorithm. Only TwoWay has a body;
// Generic (one-way classification against a single decider set) is named
// here to keep the enumeration complete but is not implemented.
type Scheme uint8

const (
	TwoWay Scheme = 1 + iota
	Generic
)

// Classifier owns the enabled flowtype set and the probe/sensor registry
// reference; it performs no I/O and holds no per-call mutable state, so one
// instance may be shared (read-only) across concurrent packing pipelines
// operating on different probes.
type Classifier struct {
	Scheme    Scheme
	WebSplit  bool // default true: enables IN_WEB/OUT_WEB
	ICMPSplit bool // default false: enables IN_ICMP/OUT_ICMP

	Probes  *probe.Registry
	Sensors *decider.Registry
}

// New returns a TwoWay classifier with web-splitting enabled and
// icmp-splitting disabled, the documented defaults, asserting flowtype
// numeric/name agreement.
func New(probes *probe.Registry, sensors *decider.Registry) (*Classifier, error) {
	if err := assertNameAgreement(); err != nil {
		return nil, err
	}
	return &Classifier{
		Scheme:    TwoWay,
		WebSplit:  true,
		ICMPSplit: false,
		Probes:    probes,
		Sensors:   sensors,
	}, nil
}

// firewall memo codes recognized by the FW_EVENT quirk overlay.
const (
	fwDeniedIngress    = 1
	fwDeniedEgress     = 2
	fwDenied           = 3
	fwDeniedServPort   = 4
	fwDeniedNotSyn     = 5
)

// Classify computes the (flowtype, sensor_id) pairs rec belongs to for the
// sensors fed by p, writing into ftypes/sensors (each must have length >=
// p.SensorCount()) and returning the count written, or an error.
func (c *Classifier) Classify(p *probe.Probe, rec *record.Record, ftypes []Flowtype, sensors []probe.SensorID) (int, error) {
	k := 0
	for _, sid := range p.SensorIDs() {
		s := c.Sensors.Get(sid)
		if s == nil {
			continue
		}
		if s.FilterCount() > 0 && s.CheckFilters(rec) {
			continue
		}

		ft := c.classifyOne(s, rec)

		if p.Quirks.Has(probe.FW_EVENT) {
			ft = applyFirewallOverlay(ft, rec.Memo)
		}

		ftypes[k] = ft
		sensors[k] = sid
		k++
	}
	return k, nil
}

func (c *Classifier) classifyOne(s *decider.Sensor, rec *record.Record) Flowtype {
	src, srcOK := c.testSource(s, rec)
	if !srcOK {
		return OTHER
	}

	// A fixed destination network pins this side unconditionally and
	// bypasses the decider tests below entirely.
	if dst := s.FixedNetwork[decider.DST]; dst != nil {
		return c.classifyDest(s, rec, src, *dst)
	}

	if src == probe.NETWORK_EXTERNAL {
		switch {
		case s.TestFlowInterfaces(rec, probe.NETWORK_NULL, decider.DST):
			return IN_NULL
		case s.TestFlowInterfaces(rec, probe.NETWORK_INTERNAL, decider.DST):
			return c.inboundFlowtype(rec)
		case s.TestFlowInterfaces(rec, probe.NETWORK_EXTERNAL, decider.DST):
			return EXT2EXT
		default:
			return OTHER
		}
	}

	// src == NETWORK_INTERNAL
	switch {
	case s.TestFlowInterfaces(rec, probe.NETWORK_NULL, decider.DST):
		return OUT_NULL
	case s.TestFlowInterfaces(rec, probe.NETWORK_EXTERNAL, decider.DST):
		return c.outboundFlowtype(rec)
	case s.TestFlowInterfaces(rec, probe.NETWORK_INTERNAL, decider.DST):
		return INT2INT
	default:
		return OTHER
	}
}

// classifyDest resolves the flowtype once both src and dst networks are
// already known (dst pinned by FixedNetwork[DST]), mirroring the decider-
// tested branches in classifyOne above.
func (c *Classifier) classifyDest(s *decider.Sensor, rec *record.Record, src, dst probe.Network) Flowtype {
	if src == probe.NETWORK_EXTERNAL {
		switch dst {
		case probe.NETWORK_NULL:
			return IN_NULL
		case probe.NETWORK_INTERNAL:
			return c.inboundFlowtype(rec)
		case probe.NETWORK_EXTERNAL:
			return EXT2EXT
		default:
			return OTHER
		}
	}

	switch dst {
	case probe.NETWORK_NULL:
		return OUT_NULL
	case probe.NETWORK_EXTERNAL:
		return c.outboundFlowtype(rec)
	case probe.NETWORK_INTERNAL:
		return INT2INT
	default:
		return OTHER
	}
}

// testSource determines the source-side network. A fixed source network
// pins this side unconditionally, bypassing the decider tests; otherwise
// EXTERNAL is preferred over INTERNAL per the normative tie-break.
func (c *Classifier) testSource(s *decider.Sensor, rec *record.Record) (probe.Network, bool) {
	if fixed := s.FixedNetwork[decider.SRC]; fixed != nil {
		return *fixed, true
	}
	if s.TestFlowInterfaces(rec, probe.NETWORK_EXTERNAL, decider.SRC) {
		return probe.NETWORK_EXTERNAL, true
	}
	if s.TestFlowInterfaces(rec, probe.NETWORK_INTERNAL, decider.SRC) {
		return probe.NETWORK_INTERNAL, true
	}
	return probe.NETWORK_NULL, false
}

func (c *Classifier) inboundFlowtype(rec *record.Record) Flowtype {
	if c.ICMPSplit && rec.IsICMP() {
		return IN_ICMP
	}
	if c.WebSplit && rec.IsWeb() {
		return IN_WEB
	}
	return IN
}

func (c *Classifier) outboundFlowtype(rec *record.Record) Flowtype {
	if c.ICMPSplit && rec.IsICMP() {
		return OUT_ICMP
	}
	if c.WebSplit && rec.IsWeb() {
		return OUT_WEB
	}
	return OUT
}

// applyFirewallOverlay coerces ft per rec's firewall-event memo code. It is
// idempotent: a flowtype already coerced to a *_NULL variant, or OTHER, is
// left unchanged on a second application.
func applyFirewallOverlay(ft Flowtype, memo uint16) Flowtype {
	switch memo {
	case fwDeniedIngress:
		return IN_NULL
	case fwDeniedEgress:
		return OUT_NULL
	case fwDenied, fwDeniedServPort, fwDeniedNotSyn:
		switch ft {
		case IN, IN_WEB, IN_ICMP, EXT2EXT:
			return IN_NULL
		case OUT, OUT_WEB, OUT_ICMP, INT2INT:
			return OUT_NULL
		default:
			return ft
		}
	default:
		return ft
	}
}
