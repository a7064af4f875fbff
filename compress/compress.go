// Package compress implements the self-delimiting block compression framing
// used by the stream layer's data section: each block is a 4-byte big-endian
// length followed by that many bytes of compressed payload, so a Reader can
// decompress one block at a time without knowing the uncompressed size up
// front. Grounded on the transparent-decompression idiom of mrt.Reader, which
// wraps gzip/bzip2 directly around a byte stream; here the legacy SiLK
// compressors (none, zlib-like, lzw-like) are exposed the same way.
package compress

import (
	"bytes"
	"compress/lzw"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"io"
)

// Method identifies the compression algorithm applied to a stream's data
// section, as recorded in the file header (spec §4.C).
type Method uint8

const (
	METHOD_NONE Method = iota
	METHOD_ZLIB        // stdlib deflate, standing in for the legacy zlib method
	METHOD_LZW         // stdlib lzw, standing in for the legacy lzo/snappy-class method
)

func (m Method) String() string {
	switch m {
	case METHOD_NONE:
		return "none"
	case METHOD_ZLIB:
		return "zlib"
	case METHOD_LZW:
		return "lzw"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(m))
	}
}

// MethodString parses a Method's String() form back into a Method.
func MethodString(s string) (Method, error) {
	switch s {
	case "none":
		return METHOD_NONE, nil
	case "zlib":
		return METHOD_ZLIB, nil
	case "lzw":
		return METHOD_LZW, nil
	default:
		return 0, fmt.Errorf("compress: %w: %q", ErrMethod, s)
	}
}

var ErrMethod = fmt.Errorf("unknown compression method")

// maxBlock bounds a single block's uncompressed size (spec §4.C). The stream
// layer writes one record per block, far below this bound.
const maxBlock = 1 << 20

// Writer compresses data in discrete self-delimiting blocks: each call to
// WriteBlock appends one framed block to the underlying io.Writer.
type Writer struct {
	w      io.Writer
	method Method
}

// NewWriter returns a Writer that frames and compresses blocks using method.
func NewWriter(w io.Writer, method Method) *Writer {
	return &Writer{w: w, method: method}
}

// WriteBlock compresses and frames one block of uncompressed data. len(p)
// must not exceed maxBlock.
func (w *Writer) WriteBlock(p []byte) error {
	if len(p) > maxBlock {
		return fmt.Errorf("compress: block of %d bytes exceeds max %d", len(p), maxBlock)
	}

	var buf bytes.Buffer
	switch w.method {
	case METHOD_NONE:
		buf.Write(p)
	case METHOD_ZLIB:
		zw := zlib.NewWriter(&buf)
		if _, err := zw.Write(p); err != nil {
			return fmt.Errorf("compress: zlib: %w", err)
		}
		if err := zw.Close(); err != nil {
			return fmt.Errorf("compress: zlib: %w", err)
		}
	case METHOD_LZW:
		lw := lzw.NewWriter(&buf, lzw.MSB, 8)
		if _, err := lw.Write(p); err != nil {
			return fmt.Errorf("compress: lzw: %w", err)
		}
		if err := lw.Close(); err != nil {
			return fmt.Errorf("compress: lzw: %w", err)
		}
	default:
		return fmt.Errorf("compress: %w: %d", ErrMethod, w.method)
	}

	var lenHdr [4]byte
	binary.BigEndian.PutUint32(lenHdr[:], uint32(buf.Len()))
	if _, err := w.w.Write(lenHdr[:]); err != nil {
		return err
	}
	_, err := w.w.Write(buf.Bytes())
	return err
}

// Reader decompresses the block framing written by Writer.
type Reader struct {
	r      io.Reader
	method Method
}

// NewReader returns a Reader that reads framed blocks compressed with method.
func NewReader(r io.Reader, method Method) *Reader {
	return &Reader{r: r, method: method}
}

// ReadBlock reads and decompresses the next block. It returns io.EOF only
// when no further block header can be read at all; a short read mid-block is
// reported as an unexpected-EOF wrapped error.
func (r *Reader) ReadBlock() ([]byte, error) {
	var lenHdr [4]byte
	if _, err := io.ReadFull(r.r, lenHdr[:]); err != nil {
		if err == io.ErrUnexpectedEOF {
			return nil, fmt.Errorf("compress: truncated block header: %w", err)
		}
		return nil, err
	}
	n := binary.BigEndian.Uint32(lenHdr[:])

	raw := make([]byte, n)
	if _, err := io.ReadFull(r.r, raw); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("compress: truncated block body: %w", err)
	}

	switch r.method {
	case METHOD_NONE:
		return raw, nil
	case METHOD_ZLIB:
		zr, err := zlib.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("compress: zlib: %w", err)
		}
		defer zr.Close()
		return io.ReadAll(zr)
	case METHOD_LZW:
		lr := lzw.NewReader(bytes.NewReader(raw), lzw.MSB, 8)
		defer lr.Close()
		return io.ReadAll(lr)
	default:
		return nil, fmt.Errorf("compress: %w: %d", ErrMethod, r.method)
	}
}
