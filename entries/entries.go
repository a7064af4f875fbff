// Package entries implements the concrete header.Entry catalog: the typed
// descriptors a stream's header may carry in addition to its fixed fields.
// Grounded on attrs/common.go's TLV attribute shape (fixed fields followed by
// a length-prefixed variable tail), adapted to the header.Entry interface.
package entries

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/flowsilk/flowpack/header"
)

// NewFuncs is the constructor table passed to header.NewRegistry to decode
// every entry type this package defines.
var NewFuncs = map[header.EntryType]header.NewFunc{
	header.ENTRY_INVOCATION:         func(t header.EntryType) header.Entry { return &Invocation{} },
	header.ENTRY_ANNOTATION:         func(t header.EntryType) header.Entry { return &Annotation{} },
	header.ENTRY_PACKEDFILE:         func(t header.EntryType) header.Entry { return &PackedFile{} },
	header.ENTRY_PROBENAME:          func(t header.EntryType) header.Entry { return &ProbeName{} },
	header.ENTRY_PREFIXMAP_REF:      func(t header.EntryType) header.Entry { return &PrefixMapRef{} },
	header.ENTRY_IPSET_REF:          func(t header.EntryType) header.Entry { return &IPSetRef{kind: header.ENTRY_IPSET_REF} },
	header.ENTRY_BAG_REF:            func(t header.EntryType) header.Entry { return &IPSetRef{kind: header.ENTRY_BAG_REF} },
	header.ENTRY_AGGBAG_REF:         func(t header.EntryType) header.Entry { return &IPSetRef{kind: header.ENTRY_AGGBAG_REF} },
	header.ENTRY_FILE_VERSION_LEGACY: func(t header.EntryType) header.Entry { return &FileVersionLegacy{} },
}

func putTime(dst []byte, t time.Time) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(t.UnixMilli()))
	return append(dst, b[:]...)
}

func getTime(src []byte) (time.Time, []byte, error) {
	if len(src) < 8 {
		return time.Time{}, nil, fmt.Errorf("entries: truncated timestamp")
	}
	ms := binary.BigEndian.Uint64(src[:8])
	return time.UnixMilli(int64(ms)).UTC(), src[8:], nil
}

func putString(dst []byte, s string) []byte {
	var l [2]byte
	binary.BigEndian.PutUint16(l[:], uint16(len(s)))
	dst = append(dst, l[:]...)
	return append(dst, s...)
}

func getString(src []byte) (string, []byte, error) {
	if len(src) < 2 {
		return "", nil, fmt.Errorf("entries: truncated string length")
	}
	n := binary.BigEndian.Uint16(src[:2])
	src = src[2:]
	if len(src) < int(n) {
		return "", nil, fmt.Errorf("entries: truncated string body")
	}
	return string(src[:n]), src[n:], nil
}
