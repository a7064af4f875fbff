// Package stream implements the binary file layer: header framing,
// compression, and record-at-a-time I/O over a path or stdio. Grounded on
// mrt.Mrt's header/body split and mrt.Reader's open-path/stdio handling
// (mrt/mrt.go, mrt/reader.go), generalized from a single fixed MRT header to
// the header-entry-terminated format and pluggable record codec this format
// needs.
package stream

import (
	"bufio"
	"fmt"
	"io"
	"os"

	skbinary "github.com/flowsilk/flowpack/binary"
	"github.com/flowsilk/flowpack/compress"
	"github.com/flowsilk/flowpack/header"
	"github.com/flowsilk/flowpack/record"
	"github.com/flowsilk/flowpack/recordio"
	"github.com/rs/zerolog"
)

// Mode selects read or write access for a Stream.
type Mode uint8

const (
	READ Mode = iota
	WRITE
)

// Options configures a Stream before Open. The zero value is valid:
// ByteOrder defaults to BE, IPv6Policy to IGNORE, Logger to a no-op logger.
type Options struct {
	ByteOrder  skbinary.ByteOrderTag
	IPv6Policy IPv6Policy
	Registry   *header.Registry // entry constructors; nil uses header.NewRaw for everything
	Logger     *zerolog.Logger
}

// Stream is a handle to one SiLK-format file, bound to a path or stdio and
// opened for either READ or WRITE. A Stream is exclusively owned by its
// caller; no concurrent access (spec.md §5).
type Stream struct {
	*zerolog.Logger

	mode        Mode
	contentType ContentType
	path        string
	opened      bool

	Options Options
	Header  Header

	f     *os.File
	br    *bufio.Reader
	bw    *bufio.Writer
	cr    *compress.Reader
	cw    *compress.Writer
	codec recordio.Codec
	order skbinary.ByteOrderTag

	recordsWritten uint64
	recordsRead    uint64

	// curBlock/curOff implement the block-straddling record reader: a
	// decompressed block may hold several records, and a record may not
	// align with block boundaries across successive ReadBlock calls.
	curBlock []byte
	curOff   int
}

// Create returns a new, unopened Stream for mode and contentType. It does
// not touch the filesystem.
func Create(mode Mode, contentType ContentType) *Stream {
	s := &Stream{mode: mode, contentType: contentType}
	s.Options.ByteOrder = skbinary.BE
	return s
}

// Bind associates s with path. "-" means stdin for READ, stdout for WRITE;
// "stdin"/"stdout" are accepted as synonyms. Any other value is a
// filesystem path, validated lazily at Open.
func (s *Stream) Bind(path string) {
	s.path = path
}

// SetIPv6Policy sets the policy governing v4/v6 record widening and
// dropping. Must be called before Open.
func (s *Stream) SetIPv6Policy(p IPv6Policy) error {
	if s.opened {
		return fmt.Errorf("stream: %w: SetIPv6Policy after Open", ErrAlreadyOpen)
	}
	s.Options.IPv6Policy = p
	return nil
}

func (s *Stream) resolveLogger() {
	if s.Options.Logger != nil {
		s.Logger = s.Options.Logger
	} else {
		l := zerolog.Nop()
		s.Logger = &l
	}
}

// Open opens the underlying fd/stdio. For READ mode it reads the header
// magic and entries (see ReadHeader); WRITE mode defers writing the header
// until WriteHeader is explicitly called, so the caller can still adjust
// Header fields after Open.
func (s *Stream) Open() error {
	if s.path == "" {
		return ErrNotBound
	}
	if s.opened {
		return ErrAlreadyOpen
	}
	s.resolveLogger()

	switch s.mode {
	case READ:
		switch s.path {
		case "-", "stdin":
			s.br = bufio.NewReader(os.Stdin)
		default:
			f, err := os.Open(s.path)
			if err != nil {
				return fmt.Errorf("stream: open %q: %w", s.path, err)
			}
			s.f = f
			s.br = bufio.NewReader(f)
		}
	case WRITE:
		switch s.path {
		case "-", "stdout":
			s.bw = bufio.NewWriter(os.Stdout)
		default:
			f, err := os.Create(s.path)
			if err != nil {
				return fmt.Errorf("stream: create %q: %w", s.path, err)
			}
			s.f = f
			s.bw = bufio.NewWriter(f)
		}
	}

	s.opened = true
	if s.mode == READ {
		return s.ReadHeader()
	}
	return nil
}

// ReadHeader parses the magic, fixed fields, and entry list. Read-mode only.
func (s *Stream) ReadHeader() error {
	var magicBuf [4]byte
	if _, err := io.ReadFull(s.br, magicBuf[:]); err != nil {
		if err == io.ErrUnexpectedEOF || err == io.EOF {
			return ErrEOF
		}
		return fmt.Errorf("stream: read magic: %w", err)
	}
	if magicBuf != magic {
		return fmt.Errorf("stream: %w: bad magic", ErrUnsupportedFormat)
	}

	var fixed [5]byte
	if _, err := io.ReadFull(s.br, fixed[:]); err != nil {
		return fmt.Errorf("stream: read fixed header: %w", err)
	}
	s.Header.FileFormat = recordio.Format(fixed[0])
	s.Header.RecordVersion = recordio.Version(fixed[1])
	s.Header.FileVersion = fixed[2]

	order, err := skbinary.Order(skbinary.ByteOrderTag(fixed[3]))
	if err != nil {
		return fmt.Errorf("stream: %w", err)
	}
	s.order = order.Tag()
	s.Options.ByteOrder = s.order

	method := compress.Method(fixed[4])
	if method != compress.METHOD_NONE && method != compress.METHOD_ZLIB && method != compress.METHOD_LZW {
		return fmt.Errorf("stream: %w: %d", ErrCompressInvalid, method)
	}
	s.Header.CompressionMethod = method

	if err := s.readEntries(); err != nil {
		return err
	}

	codec, err := recordio.CodecFor(s.Header.FileFormat, s.Header.RecordVersion)
	if err != nil {
		return fmt.Errorf("stream: %w", err)
	}
	s.codec = codec
	s.Header.RecordLength = codec.Length()

	s.cr = compress.NewReader(s.br, s.Header.CompressionMethod)
	return nil
}

func (s *Stream) readEntries() error {
	for {
		var thdr [8]byte
		if _, err := io.ReadFull(s.br, thdr[:]); err != nil {
			return fmt.Errorf("stream: read entry header: %w", err)
		}
		typ := header.EntryType(be32(thdr[0:4]))
		length := be32(thdr[4:8])
		if typ == 0 {
			return nil
		}
		if length < 8 {
			return fmt.Errorf("stream: entry length %d shorter than its own header", length)
		}

		payload := make([]byte, length-8)
		if _, err := io.ReadFull(s.br, payload); err != nil {
			return fmt.Errorf("stream: read entry payload: %w", err)
		}

		e := s.Options.Registry.New(typ)
		if err := e.Unmarshal(payload); err != nil {
			return fmt.Errorf("stream: entry %s: %w", typ, err)
		}
		s.Header.Entries = append(s.Header.Entries, e)
	}
}

func be32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

func putBE32(dst []byte, v uint32) {
	dst[0] = byte(v >> 24)
	dst[1] = byte(v >> 16)
	dst[2] = byte(v >> 8)
	dst[3] = byte(v)
}

// WriteHeader freezes the header fields and emits them. Write-mode only;
// must be called exactly once, before any WriteRecord.
func (s *Stream) WriteHeader() error {
	if s.mode != WRITE {
		return fmt.Errorf("stream: WriteHeader on a read stream")
	}

	if _, err := s.bw.Write(magic[:]); err != nil {
		return err
	}

	order, err := skbinary.Order(s.Options.ByteOrder)
	if err != nil {
		return fmt.Errorf("stream: %w", err)
	}
	s.order = order.Tag()

	fixed := [5]byte{
		byte(s.Header.FileFormat),
		byte(s.Header.RecordVersion),
		s.Header.FileVersion,
		byte(s.Options.ByteOrder),
		byte(s.Header.CompressionMethod),
	}
	if _, err := s.bw.Write(fixed[:]); err != nil {
		return err
	}

	for _, e := range s.Header.Entries {
		body := e.Marshal(nil)
		var thdr [8]byte
		putBE32(thdr[0:4], uint32(e.Type()))
		putBE32(thdr[4:8], uint32(len(body)+8))
		if _, err := s.bw.Write(thdr[:]); err != nil {
			return err
		}
		if _, err := s.bw.Write(body); err != nil {
			return err
		}
	}
	var term [8]byte // type 0 terminates the entry list
	if _, err := s.bw.Write(term[:]); err != nil {
		return err
	}

	codec, err := recordio.CodecFor(s.Header.FileFormat, s.Header.RecordVersion)
	if err != nil {
		return fmt.Errorf("stream: %w", err)
	}
	s.codec = codec
	s.Header.RecordLength = codec.Length()

	s.cw = compress.NewWriter(s.bw, s.Header.CompressionMethod)
	return nil
}

// isV6Format reports whether the stream's selected file format stores
// 16-byte addresses.
func (s *Stream) isV6Format() bool {
	return s.Header.FileFormat == recordio.FORMAT_V6
}

// ReadRecord reads and decodes the next record, applying the stream's IPv6
// policy. It returns ErrEOF distinctly from other errors, and skips (and
// counts) records dropped by the ONLY policy rather than surfacing them as
// an error to the caller.
func (s *Stream) ReadRecord(rec *record.Record) error {
	for {
		raw, err := s.nextRecordBytes()
		if err != nil {
			return err
		}

		order, _ := skbinary.Order(s.order)
		if err := s.codec.Decode(order, raw, rec); err != nil {
			return fmt.Errorf("stream: decode: %w", err)
		}

		if rec.Malformed() {
			return fmt.Errorf("stream: %w", ErrMalformedRecord)
		}

		if !keepOnRead(rec.SrcIP.Is4() || rec.SrcIP.Is4In6(), s.Options.IPv6Policy, s.isV6Format()) {
			s.recordsRead++
			continue
		}

		s.recordsRead++
		return nil
	}
}

func (s *Stream) nextRecordBytes() ([]byte, error) {
	n := s.Header.RecordLength
	for len(s.curBlock)-s.curOff < n {
		block, err := s.cr.ReadBlock()
		if err != nil {
			if err == io.EOF {
				if len(s.curBlock)-s.curOff == 0 {
					return nil, ErrEOF
				}
				return nil, fmt.Errorf("stream: %w: truncated trailing record", ErrMalformedRecord)
			}
			return nil, err
		}
		if s.curOff > 0 {
			s.curBlock = append([]byte(nil), s.curBlock[s.curOff:]...)
			s.curOff = 0
		}
		s.curBlock = append(s.curBlock, block...)
	}
	raw := s.curBlock[s.curOff : s.curOff+n]
	s.curOff += n
	return raw, nil
}

// WriteRecord encodes and writes rec, widening its addresses per the
// stream's IPv6 policy if the selected format is v6-capable.
func (s *Stream) WriteRecord(rec *record.Record) error {
	order, _ := skbinary.Order(s.order)

	if s.isV6Format() {
		widened := *rec
		widened.SrcIP = record.FromAddr(applyIPv6WritePolicy(rec.SrcIP.Addr, s.Options.IPv6Policy, true))
		widened.DstIP = record.FromAddr(applyIPv6WritePolicy(rec.DstIP.Addr, s.Options.IPv6Policy, true))
		rec = &widened
	}

	buf := s.codec.Encode(order, rec, nil)
	if err := s.cw.WriteBlock(buf); err != nil {
		return fmt.Errorf("stream: write record: %w", err)
	}
	s.recordsWritten++
	return nil
}

// RecordsWritten and RecordsRead report the count of records successfully
// passed through WriteRecord/ReadRecord so far (the read count also
// includes records that ReadRecord dropped under the ONLY policy).
func (s *Stream) RecordsWritten() uint64 { return s.recordsWritten }
func (s *Stream) RecordsRead() uint64    { return s.recordsRead }

// Close flushes the compressor and, for WRITE, the underlying file, then
// closes the fd if one was opened. It does not release s; Destroy does.
func (s *Stream) Close() error {
	if !s.opened {
		return nil
	}
	if s.mode == WRITE && s.bw != nil {
		if err := s.bw.Flush(); err != nil {
			return fmt.Errorf("stream: flush: %w", err)
		}
	}
	if s.f != nil {
		return s.f.Close()
	}
	return nil
}

// Destroy releases s's resources, closing first if still open.
func (s *Stream) Destroy() error {
	err := s.Close()
	s.f = nil
	s.br = nil
	s.bw = nil
	s.cr = nil
	s.cw = nil
	s.opened = false
	return err
}
