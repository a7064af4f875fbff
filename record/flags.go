package record

import "strings"

// TCPFlags is a bitset of the standard TCP control bits.
type TCPFlags uint8

const (
	FIN TCPFlags = 1 << 0
	SYN TCPFlags = 1 << 1
	RST TCPFlags = 1 << 2
	PSH TCPFlags = 1 << 3
	ACK TCPFlags = 1 << 4
	URG TCPFlags = 1 << 5
	ECE TCPFlags = 1 << 6
	CWR TCPFlags = 1 << 7
)

var flagLetters = [...]struct {
	bit    TCPFlags
	letter byte
}{
	{FIN, 'F'}, {SYN, 'S'}, {RST, 'R'}, {PSH, 'P'},
	{ACK, 'A'}, {URG, 'U'}, {ECE, 'E'}, {CWR, 'C'},
}

// String renders flags as the usual single-letter-per-bit form, e.g. "SA".
func (f TCPFlags) String() string {
	var b strings.Builder
	for _, fl := range flagLetters {
		if f&fl.bit != 0 {
			b.WriteByte(fl.letter)
		}
	}
	return b.String()
}
