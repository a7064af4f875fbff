package classify

import (
	"github.com/flowsilk/flowpack/probe"
	"github.com/flowsilk/flowpack/recordio"
)

// formatPair names the format used for NetFlow-v5 probes and the format
// used for every other probe type, for one flowtype.
type formatPair struct {
	v5    recordio.Format
	other recordio.Format
}

// formatTable is the per-flowtype table of spec.md §4.F.3. Web flowtypes
// route to the web-specific formats on both sides.
var formatTable = map[Flowtype]formatPair{
	IN:       {recordio.FORMAT_V5, recordio.FORMAT_GENERIC},
	OUT:      {recordio.FORMAT_V5, recordio.FORMAT_GENERIC},
	IN_WEB:   {recordio.FORMAT_V5_WEB, recordio.FORMAT_WEB},
	OUT_WEB:  {recordio.FORMAT_V5_WEB, recordio.FORMAT_WEB},
	IN_NULL:  {recordio.FORMAT_V5, recordio.FORMAT_GENERIC},
	OUT_NULL: {recordio.FORMAT_V5, recordio.FORMAT_GENERIC},
	INT2INT:  {recordio.FORMAT_V5, recordio.FORMAT_GENERIC},
	EXT2EXT:  {recordio.FORMAT_V5, recordio.FORMAT_GENERIC},
	IN_ICMP:  {recordio.FORMAT_V5, recordio.FORMAT_GENERIC},
	OUT_ICMP: {recordio.FORMAT_V5, recordio.FORMAT_GENERIC},
	OTHER:    {recordio.FORMAT_V5, recordio.FORMAT_GENERIC},
}

// SelectFormat picks the file format and record version for ft from p.
// ipv6Enabled is a build-wide switch: when true, every flowtype from a
// non-NetFlow-v5 probe is forced onto the IPv6-capable format, overriding
// formatTable's "other" entry. The legacy implementation compiled this as
// two build configurations; here it is a runtime value so a single binary
// can run either policy.
//
// SelectFormat takes it as an explicit parameter rather than a Classifier
// field, since it describes a process-wide build capability rather than a
// per-classifier-instance policy.
func (c *Classifier) SelectFormat(p *probe.Probe, ft Flowtype, ipv6Enabled bool) (recordio.Format, recordio.Version) {
	pair, ok := formatTable[ft]
	if !ok {
		pair = formatTable[OTHER]
	}

	isV5 := p.Type == probe.NETFLOW_V5

	if p.Quirks.Has(probe.ZERO_PACKETS) {
		// Generic format never stores a bytes/packet ratio; record_version
		// pinning is dropped only when the IPv6 override below also
		// applies to this probe, matching the documented ambiguity between
		// the two overrides (see DESIGN.md).
		if ipv6Enabled && !isV5 {
			return recordio.FORMAT_V6, recordio.VERSION_ANY
		}
		return recordio.FORMAT_GENERIC, recordio.VERSION_GENERIC
	}

	if ipv6Enabled && !isV5 {
		return recordio.FORMAT_V6, recordio.VERSION_ANY
	}

	if isV5 && p.SensorCount() == 1 {
		return pair.v5, recordio.VERSION_ANY
	}

	return pair.other, recordio.VERSION_ANY
}
