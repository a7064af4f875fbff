// Package binary provides binary read/write methods.
package binary

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Msb is the network byte order (big-endian), used by every SiLK file header
// field regardless of the data section's own byte order.
var Msb = order{
	ByteOrder:       binary.BigEndian,
	AppendByteOrder: binary.BigEndian,
	be:              true,
}

// Lsb is little-endian, used when a file's header.byte_order selects it for
// the data section.
var Lsb = order{
	ByteOrder:       binary.LittleEndian,
	AppendByteOrder: binary.LittleEndian,
	be:              false,
}

type order struct {
	binary.ByteOrder
	binary.AppendByteOrder
	be bool
}

func (order) WriteUint8(w io.Writer, v uint8) (n int, err error) {
	b := [...]byte{
		byte(v),
	}
	return w.Write(b[:])
}

func (o order) WriteUint16(w io.Writer, v uint16) (n int, err error) {
	var b [2]byte
	o.PutUint16(b[:], v)
	return w.Write(b[:])
}

func (o order) WriteUint32(w io.Writer, v uint32) (n int, err error) {
	var b [4]byte
	o.PutUint32(b[:], v)
	return w.Write(b[:])
}

func (o order) WriteUint64(w io.Writer, v uint64) (n int, err error) {
	var b [8]byte
	o.PutUint64(b[:], v)
	return w.Write(b[:])
}

// ByteOrderTag identifies a file's data-section byte order on the wire.
type ByteOrderTag uint8

const (
	BE ByteOrderTag = 1
	LE ByteOrderTag = 2
)

// Order returns the decoder/encoder for a file's byte_order tag.
func Order(tag ByteOrderTag) (order, error) {
	switch tag {
	case BE:
		return Msb, nil
	case LE:
		return Lsb, nil
	default:
		return order{}, fmt.Errorf("binary: invalid byte order tag %d", tag)
	}
}

// Tag returns the ByteOrderTag matching o, for writing a fresh header.
func (o order) Tag() ByteOrderTag {
	if o.be {
		return BE
	}
	return LE
}
