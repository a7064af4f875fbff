package recordio

import (
	"encoding/binary"
	"net/netip"
	"time"

	"github.com/flowsilk/flowpack/record"
)

// genericCodec is the ZERO_PACKETS-safe layout: full field set, IPv4
// addresses, no compact bytes/packets ratio encoding.
//
// Wire layout (55 bytes):
//
//	sip(4) dip(4) sport(2) dport(2) proto(1) initFlags(1) restFlags(1)
//	tcpState(1) packets(4) bytes(4) stime_ms(8) duration_ms(4)
//	inSNMP(4) outSNMP(4) nextHop(4) sensor(2) flowtype(1) application(2) memo(2)
const genericLength = 4 + 4 + 2 + 2 + 1 + 1 + 1 + 1 + 4 + 4 + 8 + 4 + 4 + 4 + 4 + 2 + 1 + 2 + 2

type genericCodec struct{}

func (genericCodec) Length() int { return genericLength }

func (genericCodec) Decode(bo binary.ByteOrder, src []byte, rec *record.Record) error {
	if len(src) < genericLength {
		return errShort("generic", genericLength, len(src))
	}
	rec.Reset()

	sip, _ := netip.AddrFromSlice(src[0:4])
	dip, _ := netip.AddrFromSlice(src[4:8])
	rec.SrcIP = record.FromAddr(sip)
	rec.DstIP = record.FromAddr(dip)

	rec.SrcPort = bo.Uint16(src[8:10])
	rec.DstPort = bo.Uint16(src[10:12])
	rec.Protocol = src[12]
	rec.InitFlags = record.TCPFlags(src[13])
	rec.RestFlags = record.TCPFlags(src[14])
	rec.TCPState = record.TCPState(src[15])
	rec.Packets = bo.Uint32(src[16:20])
	rec.Bytes = bo.Uint32(src[20:24])
	rec.STime = time.UnixMilli(int64(bo.Uint64(src[24:32]))).UTC()
	rec.Duration = time.Duration(bo.Uint32(src[32:36])) * time.Millisecond

	off := 36
	rec.InputSNMP = bo.Uint32(src[off : off+4])
	rec.OutputSNMP = bo.Uint32(src[off+4 : off+8])
	nh, _ := netip.AddrFromSlice(src[off+8 : off+12])
	rec.NextHop = record.FromAddr(nh)
	rec.SensorID = bo.Uint16(src[off+12 : off+14])
	rec.FlowtypeID = src[off+14]
	rec.Application = bo.Uint16(src[off+15 : off+17])
	rec.Memo = bo.Uint16(src[off+17 : off+19])
	return nil
}

func (genericCodec) Encode(bo binary.ByteOrder, rec *record.Record, dst []byte) []byte {
	var buf [genericLength]byte

	sip4 := as4(rec.SrcIP.Addr)
	dip4 := as4(rec.DstIP.Addr)
	copy(buf[0:4], sip4[:])
	copy(buf[4:8], dip4[:])

	bo.PutUint16(buf[8:10], rec.SrcPort)
	bo.PutUint16(buf[10:12], rec.DstPort)
	buf[12] = rec.Protocol
	buf[13] = byte(rec.InitFlags)
	buf[14] = byte(rec.RestFlags)
	buf[15] = byte(rec.TCPState)
	bo.PutUint32(buf[16:20], rec.Packets)
	bo.PutUint32(buf[20:24], rec.Bytes)
	bo.PutUint64(buf[24:32], uint64(rec.STime.UnixMilli()))
	bo.PutUint32(buf[32:36], uint32(rec.Duration/time.Millisecond))

	off := 36
	bo.PutUint32(buf[off:off+4], rec.InputSNMP)
	bo.PutUint32(buf[off+4:off+8], rec.OutputSNMP)
	nh4 := as4(rec.NextHop.Addr)
	copy(buf[off+8:off+12], nh4[:])
	bo.PutUint16(buf[off+12:off+14], rec.SensorID)
	buf[off+14] = rec.FlowtypeID
	bo.PutUint16(buf[off+15:off+17], rec.Application)
	bo.PutUint16(buf[off+17:off+19], rec.Memo)

	return append(dst, buf[:]...)
}
