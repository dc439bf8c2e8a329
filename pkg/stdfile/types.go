package stdfile

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ssargent/stdfkit/pkg/codec"
	"github.com/ssargent/stdfkit/pkg/cursor"
	"github.com/ssargent/stdfkit/pkg/record"
)

// ReaderConfig holds configuration for the file reader
type ReaderConfig struct {
	FilePath        string        // Path used by Open
	StartOffset     int64         // Offset to start reading from
	Cursor          cursor.Config // Byte order, string encoding and value codings
	DetectByteOrder bool          // Take the byte order from the FAR CPU_TYPE
	Codec           codec.Options // Body decoding options
	SkipMalformed   bool          // Log and skip records that fail to decode
	Logger          *zap.Logger
	Observer        Observer
}

// WriterConfig holds configuration for the file writer
type WriterConfig struct {
	FilePath      string        // Path used by Create
	Cursor        cursor.Config // Byte order and string encoding
	FsyncInterval time.Duration // How often to fsync (0 = on Close only)
	BufferSize    int           // Write buffer size
	Logger        *zap.Logger
	Observer      Observer
}

// Observer receives per-record events. pkg/metrics implements it.
type Observer interface {
	ObserveDecoded(name string, d time.Duration)
	ObserveSkipped(reason string)
	ObserveEncoded(name string)
}

type nopObserver struct{}

func (nopObserver) ObserveDecoded(string, time.Duration) {}
func (nopObserver) ObserveSkipped(string)                {}
func (nopObserver) ObserveEncoded(string)                {}

// Skip reasons reported to the Observer.
const (
	SkipUnknown   = "unknown"
	SkipMalformed = "malformed"
)

// RecordIterator provides streaming access to records
type RecordIterator interface {
	Next() bool
	Record() record.Record
	Offset() int64
	Err() error
	Close() error
}

// RecordError attributes a decoding failure to the record that caused it.
type RecordError struct {
	Offset int64           // Offset of the record header
	Code   record.TypeCode // Identity from the header, zero if the header was unreadable
	Err    error
}

func (e *RecordError) Error() string {
	if e.Code == 0 {
		return fmt.Sprintf("record at offset %d: %v", e.Offset, e.Err)
	}
	return fmt.Sprintf("%s record at offset %d: %v", e.Code, e.Offset, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// Stats summarizes what a Reader has consumed so far.
type Stats struct {
	Records   int                     `json:"records"`
	ByType    map[record.TypeCode]int `json:"-"`
	Unknown   int                     `json:"unknown"`
	Malformed int                     `json:"malformed"`
	Bytes     int64                   `json:"bytes"`
	ByteOrder cursor.ByteOrder        `json:"-"`
}

// Count returns the number of decoded records of type code.
func (s Stats) Count(code record.TypeCode) int {
	return s.ByType[code]
}

func (s Stats) clone() Stats {
	out := s
	out.ByType = make(map[record.TypeCode]int, len(s.ByType))
	for k, v := range s.ByType {
		out.ByType[k] = v
	}
	return out
}
