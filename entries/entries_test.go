package entries

import (
	"testing"
	"time"

	"github.com/flowsilk/flowpack/header"
	"github.com/stretchr/testify/require"
)

func TestInvocation_RoundTrip(t *testing.T) {
	want := &Invocation{Argv: []string{"rwflowpack", "-site", "site.yaml"}, At: time.UnixMilli(1700000000000).UTC()}

	var dst []byte
	dst = want.Marshal(dst)

	got := &Invocation{}
	require.NoError(t, got.Unmarshal(dst))
	require.Equal(t, want.Argv, got.Argv)
	require.True(t, want.At.Equal(got.At))
}

func TestAnnotation_RoundTrip(t *testing.T) {
	want := &Annotation{Note: "site migrated 2026-01-01"}
	var dst []byte
	dst = want.Marshal(dst)

	got := &Annotation{}
	require.NoError(t, got.Unmarshal(dst))
	require.Equal(t, want.Note, got.Note)
}

func TestPackedFile_RoundTrip(t *testing.T) {
	want := &PackedFile{
		Start:       time.UnixMilli(1700000000000).UTC(),
		End:         time.UnixMilli(1700003600000).UTC(),
		RecordCount: 12345,
	}
	var dst []byte
	dst = want.Marshal(dst)

	got := &PackedFile{}
	require.NoError(t, got.Unmarshal(dst))
	require.True(t, want.Start.Equal(got.Start))
	require.True(t, want.End.Equal(got.End))
	require.Equal(t, want.RecordCount, got.RecordCount)
}

func TestProbeName_RoundTrip(t *testing.T) {
	want := &ProbeName{Name: "S0"}
	var dst []byte
	dst = want.Marshal(dst)

	got := &ProbeName{}
	require.NoError(t, got.Unmarshal(dst))
	require.Equal(t, want.Name, got.Name)
}

func TestPrefixMapRef_RoundTrip(t *testing.T) {
	want := &PrefixMapRef{Name: "country-codes.pmap", Checksum: 0xdeadbeef}
	var dst []byte
	dst = want.Marshal(dst)

	got := &PrefixMapRef{}
	require.NoError(t, got.Unmarshal(dst))
	require.Equal(t, want.Name, got.Name)
	require.Equal(t, want.Checksum, got.Checksum)
}

func TestIPSetRef_RoundTripAndKind(t *testing.T) {
	for _, kind := range []header.EntryType{header.ENTRY_IPSET_REF, header.ENTRY_BAG_REF, header.ENTRY_AGGBAG_REF} {
		want := &IPSetRef{kind: kind, FormatVersion: 3, ByteLength: 4096}
		var dst []byte
		dst = want.Marshal(dst)

		got := &IPSetRef{kind: kind}
		require.NoError(t, got.Unmarshal(dst))
		require.Equal(t, want.FormatVersion, got.FormatVersion)
		require.Equal(t, want.ByteLength, got.ByteLength)
		require.Equal(t, kind, got.Type())
	}
}

func TestFileVersionLegacy_RoundTrip(t *testing.T) {
	want := &FileVersionLegacy{Version: 5}
	var dst []byte
	dst = want.Marshal(dst)

	got := &FileVersionLegacy{}
	require.NoError(t, got.Unmarshal(dst))
	require.Equal(t, want.Version, got.Version)
}

func TestUnmarshal_TruncatedErrors(t *testing.T) {
	require.Error(t, (&Invocation{}).Unmarshal(nil))
	require.Error(t, (&Annotation{}).Unmarshal(nil))
	require.Error(t, (&PackedFile{}).Unmarshal(nil))
	require.Error(t, (&PrefixMapRef{}).Unmarshal(nil))
	require.Error(t, (&IPSetRef{}).Unmarshal(nil))
	require.Error(t, (&FileVersionLegacy{}).Unmarshal(nil))
}

func TestNewFuncs_CoverEveryEntryType(t *testing.T) {
	types := []header.EntryType{
		header.ENTRY_INVOCATION,
		header.ENTRY_ANNOTATION,
		header.ENTRY_PACKEDFILE,
		header.ENTRY_PROBENAME,
		header.ENTRY_PREFIXMAP_REF,
		header.ENTRY_IPSET_REF,
		header.ENTRY_BAG_REF,
		header.ENTRY_AGGBAG_REF,
		header.ENTRY_FILE_VERSION_LEGACY,
	}
	for _, ty := range types {
		fn, ok := NewFuncs[ty]
		require.True(t, ok, "missing constructor for %s", ty)
		e := fn(ty)
		require.Equal(t, ty, e.Type())
	}
}
