// Package recordio implements the per-(file_format, record_format_version)
// wire codecs for the data section of a stream file. Each combination is a
// distinct (de)serializer, selected by CodecFor; record layout is otherwise
// opaque to the stream layer. Grounded on msg/open.go and msg/update.go's
// dispatch-by-type Parse/Marshal pattern, adapted from BGP attribute
// encoding to SiLK's fixed-width flow record wire formats.
package recordio

import (
	"encoding/binary"
	"fmt"
	"net/netip"

	"github.com/flowsilk/flowpack/record"
)

// as4 renders addr as its 4-byte form, or the zero address if addr is not a
// valid IPv4 (or v4-in-v6) address — an invalid/absent NextHop, for example.
func as4(addr netip.Addr) [4]byte {
	addr = addr.Unmap()
	if !addr.Is4() {
		return [4]byte{}
	}
	return addr.As4()
}

// as16 renders addr as its 16-byte form, widening a v4 address into
// v4-in-v6 mapped form.
func as16(addr netip.Addr) [16]byte {
	if addr.Is4() {
		addr = netip.AddrFrom16(addr.As16())
	}
	if !addr.IsValid() {
		return [16]byte{}
	}
	return addr.As16()
}

// Format identifies the on-disk record layout. Distinct from record_format,
// which is the legacy name for the same concept.
type Format uint8

const (
	FORMAT_GENERIC Format = 1 + iota // no bytes-per-packet ratio trick; safe for ZERO_PACKETS probes
	FORMAT_V5                        // NetFlow-v5-optimized
	FORMAT_V5_WEB                    // NetFlow-v5 web flowtypes; same layout as FORMAT_V5
	FORMAT_WEB                       // web flowtypes, non-v5 probes; same layout as FORMAT_GENERIC
	FORMAT_V6                        // IPv6-capable, used under the global IPv6 override
)

func (f Format) String() string {
	switch f {
	case FORMAT_GENERIC:
		return "generic"
	case FORMAT_V5:
		return "v5"
	case FORMAT_V5_WEB:
		return "v5web"
	case FORMAT_WEB:
		return "web"
	case FORMAT_V6:
		return "v6"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(f))
	}
}

// Version is the record_format_version: independent of file_format and
// file_version, consulted alongside Format to pick a Codec.
type Version uint8

const (
	VERSION_ANY     Version = 0 // codec does not distinguish sub-versions
	VERSION_GENERIC Version = 1 // the only version FORMAT_GENERIC currently defines
)

// Codec (de)serializes one record to/from its fixed-width wire
// representation, in the byte order the file header declares.
type Codec interface {
	Decode(bo binary.ByteOrder, src []byte, rec *record.Record) error
	Encode(bo binary.ByteOrder, rec *record.Record, dst []byte) []byte
	Length() int
}

var ErrUnsupported = fmt.Errorf("recordio: unsupported format/version combination")

// CodecFor returns the codec for (format, version).
func CodecFor(format Format, version Version) (Codec, error) {
	switch format {
	case FORMAT_GENERIC:
		return genericCodec{}, nil
	case FORMAT_V5:
		return v5Codec{}, nil
	case FORMAT_V5_WEB:
		return v5WebCodec{}, nil
	case FORMAT_WEB:
		return webCodec{}, nil
	case FORMAT_V6:
		return v6Codec{}, nil
	default:
		return nil, fmt.Errorf("%w: format=%s version=%d", ErrUnsupported, format, version)
	}
}

func errShort(who string, need, got int) error {
	return fmt.Errorf("recordio: %s: need %d bytes, got %d", who, need, got)
}
