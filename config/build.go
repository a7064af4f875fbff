package config

import (
	"fmt"
	"net/netip"

	"github.com/flowsilk/flowpack/classify"
	"github.com/flowsilk/flowpack/decider"
	"github.com/flowsilk/flowpack/ipaddr"
	"github.com/flowsilk/flowpack/ipset"
	"github.com/flowsilk/flowpack/probe"
	"github.com/flowsilk/flowpack/recordfilter"
)

// Build converts the parsed document into a Site, wiring probes, named
// sets, and sensors in the order they appear, then verifying every sensor
// and constructing the classifier.
func (doc *Doc) Build() (*Site, error) {
	probes := probe.NewRegistry()
	probeByName := make(map[string]probe.ID, len(doc.Probes))

	for _, pd := range doc.Probes {
		typ, err := probe.TypeString(pd.Type)
		if err != nil {
			return nil, fmt.Errorf("%w: probe %q: %v", ErrProbeType, pd.Name, err)
		}
		quirks, err := parseQuirks(pd.Quirks)
		if err != nil {
			return nil, fmt.Errorf("config: probe %q: %w", pd.Name, err)
		}
		id, err := probes.Add(pd.Name, typ, quirks)
		if err != nil {
			return nil, err
		}
		probeByName[pd.Name] = id
	}

	sets, err := buildIPSets(doc.IPSets)
	if err != nil {
		return nil, err
	}

	sensors := decider.NewRegistry()
	for _, sd := range doc.Sensors {
		s, err := buildSensor(sd, sets)
		if err != nil {
			return nil, err
		}
		sid, err := sensors.Add(s)
		if err != nil {
			return nil, err
		}
		for _, pname := range sd.Probes {
			pid, ok := probeByName[pname]
			if !ok {
				return nil, fmt.Errorf("%w: sensor %q: probe %q", ErrProbeRef, sd.Name, pname)
			}
			s.AddProbe(pid)
			probes.Get(pid).AddSensor(sid)
		}
		if err := s.Verify(); err != nil {
			return nil, err
		}
	}

	cl, err := classify.New(probes, sensors)
	if err != nil {
		return nil, err
	}
	if doc.WebSplit != nil {
		cl.WebSplit = *doc.WebSplit
	}
	if doc.ICMPSplit != nil {
		cl.ICMPSplit = *doc.ICMPSplit
	}

	return &Site{Probes: probes, Sensors: sensors, Classifier: cl}, nil
}

func buildIPSets(raw map[string][]string) (map[string]*ipset.Set, error) {
	out := make(map[string]*ipset.Set, len(raw))
	for name, cidrs := range raw {
		s := ipset.New()
		for _, c := range cidrs {
			p, err := netip.ParsePrefix(c)
			if err != nil {
				return nil, fmt.Errorf("%w: ipset %q: %q", ErrBlock, name, c)
			}
			s.Add(p)
		}
		out[name] = s
	}
	return out, nil
}

func buildSensor(sd SensorDoc, sets map[string]*ipset.Set) (*decider.Sensor, error) {
	s := &decider.Sensor{Name: sd.Name, Class: sd.Class}

	if sd.FixedSrc != "" {
		n, err := networkFromName(sd.FixedSrc)
		if err != nil {
			return nil, fmt.Errorf("config: sensor %q: %w", sd.Name, err)
		}
		s.FixedNetwork[decider.SRC] = &n
	}
	if sd.FixedDst != "" {
		n, err := networkFromName(sd.FixedDst)
		if err != nil {
			return nil, fmt.Errorf("config: sensor %q: %w", sd.Name, err)
		}
		s.FixedNetwork[decider.DST] = &n
	}

	for n, dd := range map[probe.Network]*DeciderDoc{
		probe.NETWORK_EXTERNAL: sd.External,
		probe.NETWORK_INTERNAL: sd.Internal,
		probe.NETWORK_NULL:     sd.Null,
	} {
		if dd == nil {
			continue
		}
		d, err := buildDecider(*dd, sets)
		if err != nil {
			return nil, fmt.Errorf("config: sensor %q: %w", sd.Name, err)
		}
		s.Deciders[n] = d
	}

	for _, expr := range sd.Filters {
		f, err := recordfilter.New(expr)
		if err != nil {
			return nil, fmt.Errorf("%w: sensor %q: %q: %v", ErrFilter, sd.Name, expr, err)
		}
		s.Filters = append(s.Filters, f)
	}

	return s, nil
}

func buildDecider(dd DeciderDoc, sets map[string]*ipset.Set) (decider.Decider, error) {
	switch dd.Kind {
	case "interface":
		return decider.Decider{Kind: decider.INTERFACE, Interfaces: interfaceSet(dd.Interfaces)}, nil
	case "remain-interface":
		return decider.Decider{Kind: decider.REMAIN_INTERFACE, Interfaces: interfaceSet(dd.Interfaces)}, nil
	case "ipblock":
		b, err := buildBlock(dd.Blocks)
		if err != nil {
			return decider.Decider{}, err
		}
		return decider.Decider{Kind: decider.IPBLOCK, Block: b}, nil
	case "remain-ipblock":
		b, err := buildBlock(dd.Blocks)
		if err != nil {
			return decider.Decider{}, err
		}
		return decider.Decider{Kind: decider.REMAIN_IPBLOCK, Block: b}, nil
	case "ipset":
		set, err := lookupSet(dd.Set, sets)
		if err != nil {
			return decider.Decider{}, err
		}
		return decider.Decider{Kind: decider.IPSET, Set: set}, nil
	case "remain-ipset":
		set, err := lookupSet(dd.Set, sets)
		if err != nil {
			return decider.Decider{}, err
		}
		return decider.Decider{Kind: decider.REMAIN_IPSET, Set: set}, nil
	default:
		return decider.Decider{}, fmt.Errorf("config: unknown decider kind %q", dd.Kind)
	}
}

func interfaceSet(ids []uint32) map[uint32]struct{} {
	if len(ids) == 0 {
		return nil
	}
	out := make(map[uint32]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}

func buildBlock(cidrs []string) (*ipaddr.Block, error) {
	b := ipaddr.NewBlock()
	for _, c := range cidrs {
		p, err := netip.ParsePrefix(c)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrBlock, c)
		}
		b.Add(p)
	}
	return b, nil
}

func lookupSet(name string, sets map[string]*ipset.Set) (*ipset.Set, error) {
	s, ok := sets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrDeciderRef, name)
	}
	return s, nil
}

func networkFromName(name string) (probe.Network, error) {
	switch name {
	case "null":
		return probe.NETWORK_NULL, nil
	case "external":
		return probe.NETWORK_EXTERNAL, nil
	case "internal":
		return probe.NETWORK_INTERNAL, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrNetworkRef, name)
	}
}

func parseQuirks(names []string) (probe.Quirks, error) {
	var q probe.Quirks
	for _, n := range names {
		switch n {
		case "zero-packets":
			q |= probe.ZERO_PACKETS
		case "fw-event":
			q |= probe.FW_EVENT
		default:
			return 0, fmt.Errorf("config: unknown probe quirk %q", n)
		}
	}
	return q, nil
}
