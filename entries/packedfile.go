package entries

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/flowsilk/flowpack/header"
)

// PackedFile records the hourly file's nominal time window and the number of
// records it holds, as written once at close time.
type PackedFile struct {
	Start, End  time.Time
	RecordCount uint64
}

func (e *PackedFile) Type() header.EntryType { return header.ENTRY_PACKEDFILE }

func (e *PackedFile) Marshal(dst []byte) []byte {
	dst = putTime(dst, e.Start)
	dst = putTime(dst, e.End)
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], e.RecordCount)
	return append(dst, b[:]...)
}

func (e *PackedFile) Unmarshal(src []byte) error {
	start, src, err := getTime(src)
	if err != nil {
		return fmt.Errorf("entries: packed-file: start: %w", err)
	}
	end, src, err := getTime(src)
	if err != nil {
		return fmt.Errorf("entries: packed-file: end: %w", err)
	}
	if len(src) < 8 {
		return fmt.Errorf("entries: packed-file: truncated record count")
	}
	e.Start = start
	e.End = end
	e.RecordCount = binary.BigEndian.Uint64(src[:8])
	return nil
}

func (e *PackedFile) ToJSON(dst []byte) []byte {
	return append(dst, fmt.Sprintf(`{"start":"%s","end":"%s","records":%d}`,
		e.Start.Format(time.RFC3339), e.End.Format(time.RFC3339), e.RecordCount)...)
}
