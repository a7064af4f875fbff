package recordio

import (
	"encoding/binary"
	"net/netip"
	"testing"
	"time"

	"github.com/flowsilk/flowpack/record"
	"github.com/stretchr/testify/require"
)

func sampleRecord() *record.Record {
	return &record.Record{
		SrcIP:       record.FromAddr(netip.MustParseAddr("192.0.2.1")),
		DstIP:       record.FromAddr(netip.MustParseAddr("198.51.100.1")),
		SrcPort:     1234,
		DstPort:     443,
		Protocol:    6,
		Packets:     10,
		Bytes:       1500,
		InitFlags:   0x02,
		RestFlags:   0x10,
		TCPState:    1,
		Application: 7,
		SensorID:    3,
		FlowtypeID:  1,
		InputSNMP:   1,
		OutputSNMP:  2,
		NextHop:     record.FromAddr(netip.MustParseAddr("192.0.2.254")),
		STime:       time.UnixMilli(1700000000000).UTC(),
		Duration:    5 * time.Second,
		Memo:        42,
	}
}

func sampleRecordV6() *record.Record {
	r := sampleRecord()
	r.SrcIP = record.FromAddr(netip.MustParseAddr("2001:db8::1"))
	r.DstIP = record.FromAddr(netip.MustParseAddr("2001:db8::2"))
	r.NextHop = record.FromAddr(netip.MustParseAddr("2001:db8::fe"))
	return r
}

func roundTrip(t *testing.T, codec Codec, bo binary.ByteOrder, want *record.Record) *record.Record {
	t.Helper()
	dst := codec.Encode(bo, want, nil)
	require.Len(t, dst, codec.Length())

	got := &record.Record{}
	require.NoError(t, codec.Decode(bo, dst, got))
	return got
}

func TestGenericCodec_RoundTrip(t *testing.T) {
	want := sampleRecord()
	got := roundTrip(t, genericCodec{}, binary.BigEndian, want)

	require.True(t, want.SrcIP.Addr.Unmap() == got.SrcIP.Addr.Unmap())
	require.Equal(t, want.SrcPort, got.SrcPort)
	require.Equal(t, want.DstPort, got.DstPort)
	require.Equal(t, want.Protocol, got.Protocol)
	require.Equal(t, want.Packets, got.Packets)
	require.Equal(t, want.Bytes, got.Bytes)
	require.True(t, want.STime.Equal(got.STime))
	require.Equal(t, want.Duration, got.Duration)
	require.Equal(t, want.Application, got.Application)
	require.Equal(t, want.Memo, got.Memo)
	require.Equal(t, want.SensorID, got.SensorID)
	require.Equal(t, want.FlowtypeID, got.FlowtypeID)
	require.Equal(t, want.TCPState, got.TCPState)
}

func TestV5Codec_RoundTrip(t *testing.T) {
	want := sampleRecord()
	got := roundTrip(t, v5Codec{}, binary.LittleEndian, want)

	require.Equal(t, want.SrcPort, got.SrcPort)
	require.Equal(t, want.Bytes, got.Bytes)
	require.True(t, want.STime.Equal(got.STime))
	require.Equal(t, want.FlowtypeID, got.FlowtypeID)
	// v5 layout has no Application/TCPState fields
	require.Equal(t, uint16(0), got.Application)
	require.Equal(t, record.TCPState(0), got.TCPState)
}

func TestV5WebCodec_SameLayoutAsV5(t *testing.T) {
	want := sampleRecord()
	a := v5Codec{}.Encode(binary.BigEndian, want, nil)
	b := v5WebCodec{}.Encode(binary.BigEndian, want, nil)
	require.Equal(t, a, b)
	require.Equal(t, v5Codec{}.Length(), v5WebCodec{}.Length())
}

func TestWebCodec_SameLayoutAsGeneric(t *testing.T) {
	want := sampleRecord()
	a := genericCodec{}.Encode(binary.BigEndian, want, nil)
	b := webCodec{}.Encode(binary.BigEndian, want, nil)
	require.Equal(t, a, b)
	require.Equal(t, genericCodec{}.Length(), webCodec{}.Length())
}

func TestV6Codec_RoundTrip(t *testing.T) {
	want := sampleRecordV6()
	got := roundTrip(t, v6Codec{}, binary.BigEndian, want)

	require.True(t, want.SrcIP.Addr == got.SrcIP.Addr)
	require.True(t, want.DstIP.Addr == got.DstIP.Addr)
	require.True(t, want.NextHop.Addr == got.NextHop.Addr)
	require.Equal(t, want.Bytes, got.Bytes)
}

func TestV6Codec_WidensV4Addresses(t *testing.T) {
	want := sampleRecord() // v4 addresses
	got := roundTrip(t, v6Codec{}, binary.BigEndian, want)

	require.True(t, got.SrcIP.Addr.Is4In6())
	require.Equal(t, want.SrcIP.Addr, got.SrcIP.Addr.Unmap())
}

func TestDecode_ShortBufferErrors(t *testing.T) {
	var rec record.Record
	require.Error(t, genericCodec{}.Decode(binary.BigEndian, make([]byte, 4), &rec))
	require.Error(t, v5Codec{}.Decode(binary.BigEndian, make([]byte, 4), &rec))
	require.Error(t, v6Codec{}.Decode(binary.BigEndian, make([]byte, 4), &rec))
}

func TestCodecFor_EachFormat(t *testing.T) {
	for _, f := range []Format{FORMAT_GENERIC, FORMAT_V5, FORMAT_V5_WEB, FORMAT_WEB, FORMAT_V6} {
		c, err := CodecFor(f, VERSION_ANY)
		require.NoError(t, err)
		require.NotZero(t, c.Length())
	}
}

func TestCodecFor_Unsupported(t *testing.T) {
	_, err := CodecFor(Format(99), VERSION_ANY)
	require.ErrorIs(t, err, ErrUnsupported)
}
