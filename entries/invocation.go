package entries

import (
	"encoding/binary"
	"fmt"
	"strings"
	"time"

	"github.com/flowsilk/flowpack/header"
)

// Invocation records the command line and UTC time that produced the file.
type Invocation struct {
	Argv []string
	At   time.Time
}

func (e *Invocation) Type() header.EntryType { return header.ENTRY_INVOCATION }

func (e *Invocation) Marshal(dst []byte) []byte {
	dst = putTime(dst, e.At)
	var n [2]byte
	binary.BigEndian.PutUint16(n[:], uint16(len(e.Argv)))
	dst = append(dst, n[:]...)
	for _, a := range e.Argv {
		dst = putString(dst, a)
	}
	return dst
}

func (e *Invocation) Unmarshal(src []byte) error {
	at, src, err := getTime(src)
	if err != nil {
		return fmt.Errorf("entries: invocation: %w", err)
	}
	if len(src) < 2 {
		return fmt.Errorf("entries: invocation: truncated argc")
	}
	n := binary.BigEndian.Uint16(src[:2])
	src = src[2:]

	argv := make([]string, 0, n)
	for i := uint16(0); i < n; i++ {
		var a string
		var err error
		a, src, err = getString(src)
		if err != nil {
			return fmt.Errorf("entries: invocation: argv[%d]: %w", i, err)
		}
		argv = append(argv, a)
	}

	e.At = at
	e.Argv = argv
	return nil
}

func (e *Invocation) ToJSON(dst []byte) []byte {
	dst = append(dst, `{"at":"`...)
	dst = append(dst, e.At.Format(time.RFC3339)...)
	dst = append(dst, `","argv":"`...)
	dst = append(dst, strings.Join(e.Argv, " ")...)
	return append(dst, `"}`...)
}
