package match

import "time"

// DeltaKind selects how the match-extension time window is computed.
type DeltaKind uint8

const (
	ABSOLUTE DeltaKind = 1 + iota // candidate.stime <= base.etime + delta
	RELATIVE                     // candidate.stime <= max(etime of matched records so far) + delta
	INFINITE                     // time ignored after the initial pair
)

// Policy configures one join: the relate-pair list, the time window, and
// whether the window is tested symmetrically at match-establishment time.
type Policy struct {
	Relate    []RelatePair
	Delta     time.Duration
	Kind      DeltaKind
	Symmetric bool
}

// Validate checks Policy at config time, the point spec.md calls out for
// InvalidRelate.
func (p Policy) Validate() error {
	if len(p.Relate) == 0 {
		return ErrInvalidRelate
	}
	for _, rp := range p.Relate {
		if rp.Query == 0 || rp.Response == 0 {
			return ErrInvalidRelate
		}
	}
	if p.Delta < 0 {
		return ErrInvalidRelate
	}
	return nil
}
