// Package probe represents a flow collection endpoint: its wire protocol,
// quirks, and the sensors that consume its records.
package probe

// Type is the probe's ingest protocol.
type Type uint8

const (
	INVALID    Type = 0
	NETFLOW_V5 Type = 1
	NETFLOW_V9 Type = 2
	IPFIX      Type = 3
	SFLOW      Type = 4
	SILK       Type = 5
)

func (t Type) String() string {
	switch t {
	case NETFLOW_V5:
		return "netflow-v5"
	case NETFLOW_V9:
		return "netflow-v9"
	case IPFIX:
		return "ipfix"
	case SFLOW:
		return "sflow"
	case SILK:
		return "silk"
	default:
		return "invalid"
	}
}

// TypeString parses the name used in site configuration back into a Type.
func TypeString(s string) (Type, error) {
	switch s {
	case "netflow-v5":
		return NETFLOW_V5, nil
	case "netflow-v9":
		return NETFLOW_V9, nil
	case "ipfix":
		return IPFIX, nil
	case "sflow":
		return SFLOW, nil
	case "silk":
		return SILK, nil
	default:
		return INVALID, ErrType
	}
}

// Quirks is a per-probe bitset altering decode/classify behavior.
type Quirks uint8

const (
	// ZERO_PACKETS: the probe may report a zero packet count; the packer
	// must pick a record format that does not store a bytes-per-packet
	// ratio, since that ratio would divide by zero.
	ZERO_PACKETS Quirks = 1 << 0

	// FW_EVENT: the record's Memo field carries a firewall-event code that
	// may coerce the classified flowtype to a *_NULL variant.
	FW_EVENT Quirks = 1 << 1
)

func (q Quirks) Has(bit Quirks) bool { return q&bit != 0 }

// ID identifies a probe within a Registry.
type ID uint32

// SensorID identifies a sensor within a Registry. Defined here (rather than
// in package decider) so Probe can name its sensors without probe having
// to import decider for the reverse link, per the arena+index redesign: no
// cyclic package references between the probe and sensor sides.
type SensorID uint32

// Probe is an ingest endpoint: a protocol plus optional decode/classify
// quirks, feeding zero or more sensors.
type Probe struct {
	ID      ID
	Name    string
	Type    Type
	Quirks  Quirks
	sensors []SensorID // resolved through the owning Registry
}

// SensorCount returns the number of sensors fed by this probe.
func (p *Probe) SensorCount() int { return len(p.sensors) }

// SensorIDs returns the sensor ids fed by this probe, in configuration order.
func (p *Probe) SensorIDs() []SensorID { return p.sensors }

// AddSensor records that sid consumes records from this probe. Called only
// during configuration load, before the probe is shared across readers.
func (p *Probe) AddSensor(sid SensorID) {
	p.sensors = append(p.sensors, sid)
}
