package stream

import (
	"net/netip"
	"path/filepath"
	"testing"
	"time"

	skbinary "github.com/flowsilk/flowpack/binary"
	"github.com/flowsilk/flowpack/entries"
	"github.com/flowsilk/flowpack/header"
	"github.com/flowsilk/flowpack/record"
	"github.com/flowsilk/flowpack/recordio"
	"github.com/stretchr/testify/require"
)

func sampleRecord(n uint32) *record.Record {
	return &record.Record{
		SrcIP:    record.FromAddr(netip.MustParseAddr("192.0.2.1")),
		DstIP:    record.FromAddr(netip.MustParseAddr("198.51.100.1")),
		SrcPort:  1234,
		DstPort:  443,
		Protocol: 6,
		Packets:  n,
		Bytes:    n * 100,
		STime:    time.UnixMilli(1700000000000).UTC(),
		Duration: time.Second,
	}
}

func TestStream_WriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.rw")
	registry := header.NewRegistry(entries.NewFuncs)

	w := Create(WRITE, CONTENT_SILK_FLOW)
	w.Options.Registry = registry
	w.Header.FileFormat = recordio.FORMAT_GENERIC
	w.Header.RecordVersion = recordio.VERSION_GENERIC
	w.Header.Entries = append(w.Header.Entries, &entries.ProbeName{Name: "S0"})
	w.Bind(path)
	require.NoError(t, w.Open())
	require.NoError(t, w.WriteHeader())

	want := []*record.Record{sampleRecord(1), sampleRecord(2), sampleRecord(3)}
	for _, r := range want {
		require.NoError(t, w.WriteRecord(r))
	}
	require.NoError(t, w.Destroy())
	require.Equal(t, uint64(3), w.RecordsWritten())

	r := Create(READ, CONTENT_SILK_FLOW)
	r.Options.Registry = registry
	r.Bind(path)
	require.NoError(t, r.Open())
	require.Equal(t, recordio.FORMAT_GENERIC, r.Header.FileFormat)

	var probeName string
	for _, e := range r.Header.Entries {
		if pn, ok := e.(*entries.ProbeName); ok {
			probeName = pn.Name
		}
	}
	require.Equal(t, "S0", probeName)

	var got []record.Record
	for {
		var rec record.Record
		err := r.ReadRecord(&rec)
		if err == ErrEOF {
			break
		}
		require.NoError(t, err)
		got = append(got, rec)
	}
	require.NoError(t, r.Destroy())

	require.Len(t, got, len(want))
	for i, w := range want {
		require.Equal(t, w.Packets, got[i].Packets)
		require.Equal(t, w.Bytes, got[i].Bytes)
	}
	require.Equal(t, uint64(3), r.RecordsRead())
}

func TestStream_LittleEndianRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test-le.rw")

	w := Create(WRITE, CONTENT_SILK_FLOW)
	w.Options.ByteOrder = skbinary.LE
	w.Header.FileFormat = recordio.FORMAT_V5
	w.Bind(path)
	require.NoError(t, w.Open())
	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.WriteRecord(sampleRecord(7)))
	require.NoError(t, w.Destroy())

	r := Create(READ, CONTENT_SILK_FLOW)
	r.Bind(path)
	require.NoError(t, r.Open())

	var rec record.Record
	require.NoError(t, r.ReadRecord(&rec))
	require.Equal(t, uint32(7), rec.Packets)
	require.NoError(t, r.Destroy())
}

func TestStream_IPv6OnlyPolicyDropsV4(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test-v6.rw")

	w := Create(WRITE, CONTENT_SILK_FLOW)
	w.Header.FileFormat = recordio.FORMAT_V6
	w.Bind(path)
	require.NoError(t, w.Open())
	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.WriteRecord(sampleRecord(1))) // v4 addresses, widened on write
	require.NoError(t, w.Destroy())

	r := Create(READ, CONTENT_SILK_FLOW)
	require.NoError(t, r.SetIPv6Policy(IPV6_ONLY))
	r.Bind(path)
	require.NoError(t, r.Open())

	var rec record.Record
	err := r.ReadRecord(&rec)
	require.ErrorIs(t, err, ErrEOF)
	require.NoError(t, r.Destroy())
}

func TestStream_BindRequiredBeforeOpen(t *testing.T) {
	s := Create(READ, CONTENT_SILK_FLOW)
	require.ErrorIs(t, s.Open(), ErrNotBound)
}

func TestStream_DoubleOpenFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.rw")
	w := Create(WRITE, CONTENT_SILK_FLOW)
	w.Header.FileFormat = recordio.FORMAT_GENERIC
	w.Bind(path)
	require.NoError(t, w.Open())
	require.ErrorIs(t, w.Open(), ErrAlreadyOpen)
	require.NoError(t, w.Destroy())
}

func TestHeader_CheckFormat(t *testing.T) {
	h := &Header{FileFormat: recordio.FORMAT_V5, RecordVersion: recordio.VERSION_ANY}
	require.NoError(t, h.CheckFormat([]recordio.Format{recordio.FORMAT_V5, recordio.FORMAT_GENERIC}, recordio.VERSION_ANY, recordio.VERSION_ANY))

	err := h.CheckFormat([]recordio.Format{recordio.FORMAT_GENERIC}, recordio.VERSION_ANY, recordio.VERSION_ANY)
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestHeader_CopyNotInvocations(t *testing.T) {
	src := &Header{Entries: []header.Entry{
		&entries.Invocation{Argv: []string{"rwflowpack"}},
		&entries.ProbeName{Name: "S0"},
	}}
	dst := &Header{}
	dst.Copy(src, COPY_NOT_INVOCATIONS)

	require.Len(t, dst.Entries, 1)
	_, ok := dst.Entries[0].(*entries.ProbeName)
	require.True(t, ok)
}
