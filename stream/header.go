package stream

import (
	"fmt"

	"github.com/flowsilk/flowpack/binary"
	"github.com/flowsilk/flowpack/compress"
	"github.com/flowsilk/flowpack/header"
	"github.com/flowsilk/flowpack/recordio"
)

// magic identifies a stream file at the start of its header.
var magic = [4]byte{'s', 'k', 'f', 'p'}

// Header is the fixed portion of a stream file's header plus its entry
// list. ContentType and the entries are the only parts a caller normally
// touches directly; FileFormat/RecordVersion/CompressionMethod are usually
// set for the caller from Classifier.SelectFormat's result. The stream takes
// the data-section byte order from Options.ByteOrder on write and stores the
// file's order there on read; it neither sets nor reads Header.ByteOrder.
type Header struct {
	ContentType       ContentType
	FileFormat        recordio.Format
	RecordVersion     recordio.Version
	FileVersion       uint8
	ByteOrder         binary.ByteOrderTag
	CompressionMethod compress.Method

	Entries []header.Entry

	// RecordLength is derived from FileFormat/RecordVersion when the codec
	// is resolved; exposed for header round-trip checks.
	RecordLength int
}

// ContentType distinguishes the three kinds of file the stream layer can
// carry; only SILK_FLOW is record-structured, the others are opaque blobs
// to this package (classification and analysis tools do not look inside
// SILK/TEXT payloads).
type ContentType uint8

const (
	CONTENT_SILK_FLOW ContentType = 1 + iota
	CONTENT_SILK
	CONTENT_TEXT
)

// CheckFormat validates FileFormat against a caller-supplied acceptance
// mask and [minVersion, maxVersion], returning ErrUnsupportedFormat or
// ErrUnsupportedRecordVersion on mismatch.
func (h *Header) CheckFormat(accepted []recordio.Format, minVersion, maxVersion recordio.Version) error {
	ok := false
	for _, f := range accepted {
		if f == h.FileFormat {
			ok = true
			break
		}
	}
	if !ok {
		return fmt.Errorf("stream: %w: %s", ErrUnsupportedFormat, h.FileFormat)
	}
	if h.RecordVersion != recordio.VERSION_ANY && (h.RecordVersion < minVersion || h.RecordVersion > maxVersion) {
		return fmt.Errorf("stream: %w: %d", ErrUnsupportedRecordVersion, h.RecordVersion)
	}
	return nil
}

// entryOf returns the first entry of type t, or nil.
func (h *Header) entryOf(t header.EntryType) header.Entry {
	for _, e := range h.Entries {
		if e.Type() == t {
			return e
		}
	}
	return nil
}

// CopyPolicy selects which entries Copy carries from a source header to a
// destination header.
type CopyPolicy uint8

const (
	COPY_ALL CopyPolicy = iota
	COPY_NOT_INVOCATIONS
)

// Copy appends src's entries to h according to policy.
func (h *Header) Copy(src *Header, policy CopyPolicy) {
	for _, e := range src.Entries {
		if policy == COPY_NOT_INVOCATIONS && e.Type() == header.ENTRY_INVOCATION {
			continue
		}
		h.Entries = append(h.Entries, e)
	}
}
