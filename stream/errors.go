package stream

import "errors"

var (
	ErrEOF                      = errors.New("stream: end of file")
	ErrCompressUnavailable      = errors.New("stream: compression method known but unavailable")
	ErrCompressInvalid          = errors.New("stream: unknown compression method")
	ErrHeaderLegacy             = errors.New("stream: pre-header-entry legacy file")
	ErrUnsupportedFormat        = errors.New("stream: unsupported file format")
	ErrUnsupportedRecordVersion = errors.New("stream: unsupported record format version")
	ErrIPv6PolicyViolation      = errors.New("stream: record dropped by ipv6 policy")
	ErrMalformedRecord          = errors.New("stream: malformed record")
	ErrNotBound                 = errors.New("stream: bind not called")
	ErrAlreadyOpen              = errors.New("stream: already open")
	ErrNotOpen                  = errors.New("stream: not open")
)
