package cursor

import "github.com/cockroachdb/errors"

var (
	// ErrUnexpectedEndOfData is returned when a read needs more bytes than the
	// source holds. It is never retried.
	ErrUnexpectedEndOfData = errors.New("unexpected end of data")
	// ErrNotSeekable is returned for backward seeks on sources without io.Seeker.
	ErrNotSeekable = errors.New("source is not seekable")
	// ErrStringTooLong is returned when a prefixed string or byte run exceeds 255 bytes.
	ErrStringTooLong = errors.New("value too long for one-byte length prefix")
)
