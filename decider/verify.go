package decider

import "github.com/flowsilk/flowpack/probe"

// Verify validates s against the rules of spec §4.F.1, mutating s in place
// to resolve an implicit REMAIN_* network (rule 6). It must be called once,
// at configuration load time, before s is used by the classifier; the
// classifier's hot path never calls Verify and never fails.
func (s *Sensor) Verify() error {
	ext, intl, null := &s.Deciders[probe.NETWORK_EXTERNAL], &s.Deciders[probe.NETWORK_INTERNAL], &s.Deciders[probe.NETWORK_NULL]

	// rule 1: both sides fixed -> valid regardless of deciders.
	if s.FixedNetwork[SRC] != nil && s.FixedNetwork[DST] != nil {
		return nil
	}

	// rule 2: at least one of internal/external present.
	if ext.Kind == UNSET && intl.Kind == UNSET {
		return &InvalidSensorError{Name: s.Name, Reason: "neither internal nor external decider is set"}
	}

	// rule 3: exactly one decider family across the sensor, except a
	// null-network decider of family interface may coexist with
	// ipblock/ipset deciders on the other networks.
	chosen := FAMILY_NONE
	for _, n := range [...]probe.Network{probe.NETWORK_EXTERNAL, probe.NETWORK_INTERNAL} {
		f := s.Deciders[n].Kind.Family()
		if f == FAMILY_NONE {
			continue
		}
		if chosen == FAMILY_NONE {
			chosen = f
		} else if chosen != f {
			return &InvalidSensorError{Name: s.Name, Reason: "internal and external deciders use different families"}
		}
	}
	if nf := null.Kind.Family(); nf != FAMILY_NONE {
		if nf != FAMILY_INTERFACE && chosen != FAMILY_NONE && nf != chosen {
			return &InvalidSensorError{Name: s.Name, Reason: "null decider family conflicts with internal/external family"}
		}
		if nf == FAMILY_INTERFACE && chosen != FAMILY_NONE && chosen != FAMILY_INTERFACE {
			// allowed exception: null-interface alongside ipblock/ipset
		} else if chosen == FAMILY_NONE {
			chosen = nf
		}
	}

	// rule 4: at most one remainder network.
	remainderCount := 0
	var remainderNet probe.Network = probe.NUM_NETWORKS
	for n := probe.Network(0); n < probe.NUM_NETWORKS; n++ {
		if s.Deciders[n].Kind.IsRemainder() {
			remainderCount++
			remainderNet = n
		}
	}
	if remainderCount > 1 {
		return &InvalidSensorError{Name: s.Name, Reason: "more than one network marked remainder"}
	}

	// rule 5: remainder of ipblock/ipset needs a non-remainder sibling of
	// the same family; a lone interface remainder is legal.
	if remainderCount == 1 {
		fam := s.Deciders[remainderNet].Kind.Family()
		if fam == FAMILY_IPBLOCK || fam == FAMILY_IPSET {
			haveSibling := false
			for n := probe.Network(0); n < probe.NUM_NETWORKS; n++ {
				if n == remainderNet {
					continue
				}
				d := &s.Deciders[n]
				if d.Kind.Family() == fam && !d.Kind.IsRemainder() {
					haveSibling = true
					break
				}
			}
			if !haveSibling {
				return &InvalidSensorError{Name: s.Name, Reason: "remainder decider has no non-remainder sibling of the same family"}
			}
		}
	}

	// rule 6: exactly one of external/internal unset (other non-remainder,
	// of the chosen family) -> fill the unset side with the matching
	// REMAIN_* variant.
	if (ext.Kind == UNSET) != (intl.Kind == UNSET) {
		var set, unset *Decider
		if ext.Kind == UNSET {
			set, unset = intl, ext
		} else {
			set, unset = ext, intl
		}
		if !set.Kind.IsRemainder() {
			switch set.Kind.Family() {
			case FAMILY_INTERFACE:
				unset.Kind = REMAIN_INTERFACE
			case FAMILY_IPBLOCK:
				unset.Kind = REMAIN_IPBLOCK
			case FAMILY_IPSET:
				unset.Kind = REMAIN_IPSET
			}
		}
	}

	// rule 7: NEG_IPBLOCK/NEG_IPSET are reserved, not externally
	// configurable; their presence is always a terminal implementation
	// error, not a per-sensor config mistake.
	for n := probe.Network(0); n < probe.NUM_NETWORKS; n++ {
		switch s.Deciders[n].Kind {
		case NEG_IPBLOCK, NEG_IPSET:
			return ErrNotImplemented
		}
	}

	return nil
}
