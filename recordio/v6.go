package recordio

import (
	"encoding/binary"
	"net/netip"
	"time"

	"github.com/flowsilk/flowpack/record"
)

// v6Codec is the IPv6-capable layout: 16-byte addresses, otherwise the same
// field set as genericCodec. The layout has no address-family flag: Encode
// stores any v4 address that reaches it in v4-in-v6 mapped form, whatever
// the stream's IPv6 policy, and Decode returns such addresses mapped.
//
// Wire layout (91 bytes):
//
//	sip(16) dip(16) sport(2) dport(2) proto(1) initFlags(1) restFlags(1)
//	tcpState(1) packets(4) bytes(4) stime_ms(8) duration_ms(4)
//	inSNMP(4) outSNMP(4) nextHop(16) sensor(2) flowtype(1) application(2) memo(2)
const v6Length = 16 + 16 + 2 + 2 + 1 + 1 + 1 + 1 + 4 + 4 + 8 + 4 + 4 + 4 + 16 + 2 + 1 + 2 + 2

type v6Codec struct{}

func (v6Codec) Length() int { return v6Length }

func (v6Codec) Decode(bo binary.ByteOrder, src []byte, rec *record.Record) error {
	if len(src) < v6Length {
		return errShort("v6", v6Length, len(src))
	}
	rec.Reset()

	sip, _ := netip.AddrFromSlice(src[0:16])
	dip, _ := netip.AddrFromSlice(src[16:32])
	rec.SrcIP = record.FromAddr(sip)
	rec.DstIP = record.FromAddr(dip)

	rec.SrcPort = bo.Uint16(src[32:34])
	rec.DstPort = bo.Uint16(src[34:36])
	rec.Protocol = src[36]
	rec.InitFlags = record.TCPFlags(src[37])
	rec.RestFlags = record.TCPFlags(src[38])
	rec.TCPState = record.TCPState(src[39])
	rec.Packets = bo.Uint32(src[40:44])
	rec.Bytes = bo.Uint32(src[44:48])
	rec.STime = time.UnixMilli(int64(bo.Uint64(src[48:56]))).UTC()
	rec.Duration = time.Duration(bo.Uint32(src[56:60])) * time.Millisecond

	off := 60
	rec.InputSNMP = bo.Uint32(src[off : off+4])
	rec.OutputSNMP = bo.Uint32(src[off+4 : off+8])
	nh, _ := netip.AddrFromSlice(src[off+8 : off+24])
	rec.NextHop = record.FromAddr(nh)
	rec.SensorID = bo.Uint16(src[off+24 : off+26])
	rec.FlowtypeID = src[off+26]
	rec.Application = bo.Uint16(src[off+27 : off+29])
	rec.Memo = bo.Uint16(src[off+29 : off+31])
	return nil
}

func (v6Codec) Encode(bo binary.ByteOrder, rec *record.Record, dst []byte) []byte {
	var buf [v6Length]byte

	sip16 := as16(rec.SrcIP.Addr)
	dip16 := as16(rec.DstIP.Addr)
	copy(buf[0:16], sip16[:])
	copy(buf[16:32], dip16[:])

	bo.PutUint16(buf[32:34], rec.SrcPort)
	bo.PutUint16(buf[34:36], rec.DstPort)
	buf[36] = rec.Protocol
	buf[37] = byte(rec.InitFlags)
	buf[38] = byte(rec.RestFlags)
	buf[39] = byte(rec.TCPState)
	bo.PutUint32(buf[40:44], rec.Packets)
	bo.PutUint32(buf[44:48], rec.Bytes)
	bo.PutUint64(buf[48:56], uint64(rec.STime.UnixMilli()))
	bo.PutUint32(buf[56:60], uint32(rec.Duration/time.Millisecond))

	off := 60
	bo.PutUint32(buf[off:off+4], rec.InputSNMP)
	bo.PutUint32(buf[off+4:off+8], rec.OutputSNMP)
	nh16 := as16(rec.NextHop.Addr)
	copy(buf[off+8:off+24], nh16[:])
	bo.PutUint16(buf[off+24:off+26], rec.SensorID)
	buf[off+26] = rec.FlowtypeID
	bo.PutUint16(buf[off+27:off+29], rec.Application)
	bo.PutUint16(buf[off+29:off+31], rec.Memo)

	return append(dst, buf[:]...)
}
