// Package header implements the extensible file-header-entry system: a
// registry of typed, self-describing entries appended after a stream's fixed
// header fields. Unknown entry types encountered on read are preserved
// verbatim via RawEntry rather than dropped. Grounded on the caps package's
// Cap/NewFunc/Raw registry shape.
package header

import "fmt"

// EntryType identifies an entry's concrete kind.
type EntryType uint16

const (
	ENTRY_INVOCATION EntryType = 1 + iota
	ENTRY_ANNOTATION
	ENTRY_PACKEDFILE
	ENTRY_PROBENAME
	ENTRY_PREFIXMAP_REF
	ENTRY_IPSET_REF
	ENTRY_BAG_REF
	ENTRY_AGGBAG_REF
	ENTRY_FILE_VERSION_LEGACY
)

func (t EntryType) String() string {
	switch t {
	case ENTRY_INVOCATION:
		return "invocation"
	case ENTRY_ANNOTATION:
		return "annotation"
	case ENTRY_PACKEDFILE:
		return "packed-file"
	case ENTRY_PROBENAME:
		return "probe-name"
	case ENTRY_PREFIXMAP_REF:
		return "prefixmap-ref"
	case ENTRY_IPSET_REF:
		return "ipset-ref"
	case ENTRY_BAG_REF:
		return "bag-ref"
	case ENTRY_AGGBAG_REF:
		return "aggbag-ref"
	case ENTRY_FILE_VERSION_LEGACY:
		return "file-version-legacy"
	default:
		return fmt.Sprintf("unknown(%d)", uint16(t))
	}
}

// Entry is one typed, self-describing header entry. Implementations live in
// package entries; RawEntry here is the fallback for unrecognized types.
type Entry interface {
	Type() EntryType

	// Unmarshal parses the entry's body (not including the type/length
	// prefix, which Stream.ReadHeader already consumed).
	Unmarshal(src []byte) error

	// Marshal appends the entry's body to dst. The caller prefixes type
	// and length.
	Marshal(dst []byte) []byte

	ToJSON(dst []byte) []byte
}

// NewFunc constructs a new, empty instance of the entry type t.
type NewFunc func(t EntryType) Entry

// Registry maps entry types to constructors. Types absent from the registry
// decode into RawEntry, preserving their bytes verbatim for round-trip.
type Registry struct {
	funcs map[EntryType]NewFunc
}

// NewRegistry returns a Registry seeded with fns (typically entries.NewFuncs).
func NewRegistry(fns map[EntryType]NewFunc) *Registry {
	r := &Registry{funcs: make(map[EntryType]NewFunc, len(fns))}
	for t, fn := range fns {
		r.funcs[t] = fn
	}
	return r
}

// New constructs a new entry of type t: the registered type if known, or a
// RawEntry fallback otherwise.
func (r *Registry) New(t EntryType) Entry {
	if r != nil {
		if fn, ok := r.funcs[t]; ok {
			return fn(t)
		}
	}
	return NewRaw(t)
}

// Register adds or overrides the constructor for t.
func (r *Registry) Register(t EntryType, fn NewFunc) {
	if r.funcs == nil {
		r.funcs = make(map[EntryType]NewFunc)
	}
	r.funcs[t] = fn
}
