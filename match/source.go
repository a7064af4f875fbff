package match

import (
	"io"

	"github.com/flowsilk/flowpack/record"
	"github.com/flowsilk/flowpack/side"
	"github.com/flowsilk/flowpack/stream"
)

// Writer is the output side of a Source: anything that can accept encoded
// records, satisfied directly by *stream.Stream.
type Writer interface {
	WriteRecord(rec *record.Record) error
}

// Source wraps one input stream with a one-record lookahead buffer, the
// primitive the state machine needs to compare two streams' current head
// records without consuming either until a decision is made.
type Source struct {
	Side side.Side
	s    *stream.Stream

	have bool
	rec  record.Record
	eof  bool
}

// NewSource wraps s, tagging records pulled from it with sd.
func NewSource(sd side.Side, s *stream.Stream) *Source {
	return &Source{Side: sd, s: s}
}

// Peek returns the current head record without consuming it, reading one
// from the underlying stream if the lookahead buffer is empty. Returns
// io.EOF once the stream is exhausted.
func (src *Source) Peek() (*record.Record, error) {
	if src.eof {
		return nil, io.EOF
	}
	if !src.have {
		if err := src.s.ReadRecord(&src.rec); err != nil {
			if err == stream.ErrEOF {
				src.eof = true
				return nil, io.EOF
			}
			return nil, err
		}
		src.have = true
	}
	return &src.rec, nil
}

// Advance discards the current head record, so the next Peek reads a fresh
// one.
func (src *Source) Advance() {
	src.have = false
}
