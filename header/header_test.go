package header

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistry_KnownType(t *testing.T) {
	r := NewRegistry(nil)
	r.Register(ENTRY_PROBENAME, func(t EntryType) Entry { return &stubEntry{t: t} })

	e := r.New(ENTRY_PROBENAME)
	_, ok := e.(*stubEntry)
	require.True(t, ok)
}

func TestRegistry_UnknownTypeFallsBackToRaw(t *testing.T) {
	r := NewRegistry(nil)
	e := r.New(ENTRY_ANNOTATION)
	_, ok := e.(*RawEntry)
	require.True(t, ok)
	require.Equal(t, ENTRY_ANNOTATION, e.Type())
}

func TestRegistry_NilReceiverIsSafe(t *testing.T) {
	var r *Registry
	e := r.New(ENTRY_INVOCATION)
	_, ok := e.(*RawEntry)
	require.True(t, ok)
}

func TestRawEntry_RoundTrip(t *testing.T) {
	e := NewRaw(ENTRY_BAG_REF).(*RawEntry)
	require.NoError(t, e.Unmarshal([]byte{1, 2, 3}))

	var dst []byte
	dst = e.Marshal(dst)
	require.Equal(t, []byte{1, 2, 3}, dst)
	require.Equal(t, ENTRY_BAG_REF, e.Type())
}

func TestEntryTypeStringUnknown(t *testing.T) {
	require.Equal(t, "unknown(0)", EntryType(0).String())
	require.Equal(t, "probe-name", ENTRY_PROBENAME.String())
}

type stubEntry struct {
	t EntryType
}

func (e *stubEntry) Type() EntryType           { return e.t }
func (e *stubEntry) Unmarshal(src []byte) error { return nil }
func (e *stubEntry) Marshal(dst []byte) []byte  { return dst }
func (e *stubEntry) ToJSON(dst []byte) []byte   { return dst }
