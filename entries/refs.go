package entries

import (
	"encoding/binary"
	"fmt"

	"github.com/flowsilk/flowpack/header"
)

// PrefixMapRef describes an external prefix-map file the stream was
// classified or labeled against; the prefix-map file itself is out of scope,
// only this descriptor is.
type PrefixMapRef struct {
	Name     string
	Checksum uint32
}

func (e *PrefixMapRef) Type() header.EntryType { return header.ENTRY_PREFIXMAP_REF }

func (e *PrefixMapRef) Marshal(dst []byte) []byte {
	dst = putString(dst, e.Name)
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], e.Checksum)
	return append(dst, b[:]...)
}

func (e *PrefixMapRef) Unmarshal(src []byte) error {
	name, src, err := getString(src)
	if err != nil {
		return fmt.Errorf("entries: prefixmap-ref: %w", err)
	}
	if len(src) < 4 {
		return fmt.Errorf("entries: prefixmap-ref: truncated checksum")
	}
	e.Name = name
	e.Checksum = binary.BigEndian.Uint32(src[:4])
	return nil
}

func (e *PrefixMapRef) ToJSON(dst []byte) []byte {
	return append(dst, fmt.Sprintf(`{"name":%q,"checksum":%d}`, e.Name, e.Checksum)...)
}

// IPSetRef is a shared descriptor shape for IPSetRef/BagRef/AggBagRef header
// entries: the three shared-service artifacts differ only in header.EntryType
// and carry identical fields (format version + byte length), so one Go type
// serves all three; kind records which entry type constructed it.
type IPSetRef struct {
	kind          header.EntryType
	FormatVersion uint16
	ByteLength    uint64
}

func (e *IPSetRef) Type() header.EntryType { return e.kind }

func (e *IPSetRef) Marshal(dst []byte) []byte {
	var v [2]byte
	binary.BigEndian.PutUint16(v[:], e.FormatVersion)
	dst = append(dst, v[:]...)
	var l [8]byte
	binary.BigEndian.PutUint64(l[:], e.ByteLength)
	return append(dst, l[:]...)
}

func (e *IPSetRef) Unmarshal(src []byte) error {
	if len(src) < 10 {
		return fmt.Errorf("entries: %s: truncated", e.kind)
	}
	e.FormatVersion = binary.BigEndian.Uint16(src[:2])
	e.ByteLength = binary.BigEndian.Uint64(src[2:10])
	return nil
}

func (e *IPSetRef) ToJSON(dst []byte) []byte {
	return append(dst, fmt.Sprintf(`{"format_version":%d,"byte_length":%d}`, e.FormatVersion, e.ByteLength)...)
}
