package header

import "encoding/hex"

// RawEntry preserves an unrecognized entry type's body verbatim, so streams
// written with a newer entry catalog still round-trip cleanly through an
// older reader.
type RawEntry struct {
	EntryType EntryType
	Body      []byte
}

// NewRaw is a NewFunc for the raw fallback.
func NewRaw(t EntryType) Entry {
	return &RawEntry{EntryType: t}
}

func (e *RawEntry) Type() EntryType { return e.EntryType }

func (e *RawEntry) Unmarshal(src []byte) error {
	e.Body = append([]byte(nil), src...)
	return nil
}

func (e *RawEntry) Marshal(dst []byte) []byte {
	return append(dst, e.Body...)
}

func (e *RawEntry) ToJSON(dst []byte) []byte {
	dst = append(dst, `"0x`...)
	dst = append(dst, hex.EncodeToString(e.Body)...)
	return append(dst, '"')
}
