// Package match implements rwmatch: a two-stream temporal join over flow
// records. Grounded on pipe/direction.go's per-side bookkeeping
// (pipe.Direction's buffering and stats), re-architected from a
// channel-driven concurrent reader into a synchronous state machine, since
// the packing core's concurrency model mandates single-threaded cooperative
// scheduling for one join. speaker/speaker.go's Attach/Options pattern
// grounds Engine's construction shape.
package match

import (
	"fmt"
	"net/netip"

	"github.com/flowsilk/flowpack/decider"
	"github.com/flowsilk/flowpack/probe"
	"github.com/flowsilk/flowpack/record"
)

// Field identifies one relatable record attribute. Time fields are
// deliberately absent: they drive the match window, not equality.
type Field uint8

const (
	FIELD_SIP Field = 1 + iota
	FIELD_DIP
	FIELD_SPORT
	FIELD_DPORT
	FIELD_PROTOCOL
	FIELD_PACKETS
	FIELD_BYTES
	FIELD_FLAGS // combined flags
	FIELD_INIT_FLAGS
	FIELD_REST_FLAGS
	FIELD_SENSOR
	FIELD_INPUT_SNMP
	FIELD_OUTPUT_SNMP
	FIELD_FLOWTYPE
	FIELD_CLASS
	FIELD_TCP_STATE
	FIELD_APPLICATION
	FIELD_ICMP_TYPE
	FIELD_ICMP_CODE
)

func (f Field) String() string {
	switch f {
	case FIELD_SIP:
		return "sip"
	case FIELD_DIP:
		return "dip"
	case FIELD_SPORT:
		return "sport"
	case FIELD_DPORT:
		return "dport"
	case FIELD_PROTOCOL:
		return "protocol"
	case FIELD_PACKETS:
		return "packets"
	case FIELD_BYTES:
		return "bytes"
	case FIELD_FLAGS:
		return "flags"
	case FIELD_INIT_FLAGS:
		return "init-flags"
	case FIELD_REST_FLAGS:
		return "rest-flags"
	case FIELD_SENSOR:
		return "sensor"
	case FIELD_INPUT_SNMP:
		return "input-snmp"
	case FIELD_OUTPUT_SNMP:
		return "output-snmp"
	case FIELD_FLOWTYPE:
		return "flowtype"
	case FIELD_CLASS:
		return "class"
	case FIELD_TCP_STATE:
		return "tcp-state"
	case FIELD_APPLICATION:
		return "application"
	case FIELD_ICMP_TYPE:
		return "icmp-type"
	case FIELD_ICMP_CODE:
		return "icmp-code"
	default:
		return fmt.Sprintf("field(%d)", uint8(f))
	}
}

// RelatePair names one (query_field, response_field) equality test. Most
// configurations relate a field to itself (e.g. protocol-to-protocol), but
// address fields are commonly crossed (query sip to response dip).
type RelatePair struct {
	Query    Field
	Response Field
}

// FieldString parses a relate-pair field name.
func FieldString(s string) (Field, error) {
	for f := FIELD_SIP; f <= FIELD_ICMP_CODE; f++ {
		if f.String() == s {
			return f, nil
		}
	}
	return 0, fmt.Errorf("match: %w: %q", ErrInvalidRelate, s)
}

// sensorResolver resolves FIELD_CLASS lookups through a sensor registry;
// registry is nil if the engine was not configured with one (valid unless
// a relate list uses FIELD_CLASS). FIELD_SENSOR is read straight from the
// record.
type sensorResolver struct {
	registry *decider.Registry
}

func (r sensorResolver) class(sensorID uint16) string {
	if r.registry == nil {
		return ""
	}
	s := r.registry.Get(probe.SensorID(sensorID))
	if s == nil {
		return ""
	}
	return s.Class
}

func fieldValue(f Field, rec *record.Record) any {
	switch f {
	case FIELD_SIP:
		return normalizeAddr(rec.SrcIP.Addr)
	case FIELD_DIP:
		return normalizeAddr(rec.DstIP.Addr)
	case FIELD_SPORT:
		return rec.SrcPort
	case FIELD_DPORT:
		return rec.DstPort
	case FIELD_PROTOCOL:
		return rec.Protocol
	case FIELD_PACKETS:
		return rec.Packets
	case FIELD_BYTES:
		return rec.Bytes
	case FIELD_FLAGS:
		return rec.CombinedFlags()
	case FIELD_INIT_FLAGS:
		return rec.InitFlags
	case FIELD_REST_FLAGS:
		return rec.RestFlags
	case FIELD_SENSOR:
		return rec.SensorID
	case FIELD_INPUT_SNMP:
		return rec.InputSNMP
	case FIELD_OUTPUT_SNMP:
		return rec.OutputSNMP
	case FIELD_FLOWTYPE:
		return rec.FlowtypeID
	case FIELD_TCP_STATE:
		return rec.TCPState
	case FIELD_APPLICATION:
		return rec.Application
	case FIELD_ICMP_TYPE:
		t, _ := rec.ICMPTypeCode()
		return t
	case FIELD_ICMP_CODE:
		_, c := rec.ICMPTypeCode()
		return c
	default:
		return nil
	}
}

func normalizeAddr(a netip.Addr) netip.Addr {
	return a.Unmap()
}

// equal reports whether pair holds between q and r. FIELD_CLASS is resolved
// through res rather than fieldValue, since it is not a Record field.
func (p RelatePair) equal(q, r *record.Record, res sensorResolver) bool {
	if p.Query == FIELD_CLASS || p.Response == FIELD_CLASS {
		return res.class(q.SensorID) == res.class(r.SensorID)
	}
	qv := fieldValue(p.Query, q)
	rv := fieldValue(p.Response, r)
	if qa, ok := qv.(netip.Addr); ok {
		ra, ok2 := rv.(netip.Addr)
		return ok2 && qa == ra
	}
	return qv == rv
}
