package cursor

import (
	"encoding/binary"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
)

// ByteOrder selects how multi-byte numbers are laid out on the wire.
type ByteOrder uint8

const (
	LittleEndian ByteOrder = iota
	BigEndian
)

func (o ByteOrder) String() string {
	if o == BigEndian {
		return "big"
	}
	return "little"
}

// Binary returns the encoding/binary byte order for o.
func (o ByteOrder) Binary() binary.ByteOrder {
	if o == BigEndian {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

// ParseByteOrder accepts "little"/"le" and "big"/"be".
func ParseByteOrder(s string) (ByteOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "little", "le", "little-endian":
		return LittleEndian, nil
	case "big", "be", "big-endian":
		return BigEndian, nil
	}
	return LittleEndian, errors.Newf("unknown byte order %q", s)
}

// BoolCoding is the policy used to map booleans to a single byte.
type BoolCoding uint8

const (
	// BoolNonZero reads any non-zero byte as true and writes 1/0.
	BoolNonZero BoolCoding = iota
	// BoolASCII reads and writes the characters '1' and '0'.
	BoolASCII
)

func ParseBoolCoding(s string) (BoolCoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "nonzero", "binary":
		return BoolNonZero, nil
	case "ascii":
		return BoolASCII, nil
	}
	return BoolNonZero, errors.Newf("unknown boolean coding %q", s)
}

// TimeCoding is the policy used for U*4 timestamps.
type TimeCoding uint8

const (
	// TimeUnixUTC stores seconds since the Unix epoch and decodes to UTC.
	TimeUnixUTC TimeCoding = iota
	// TimeUnixLocal stores seconds since the Unix epoch and decodes to local time.
	TimeUnixLocal
)

func ParseTimeCoding(s string) (TimeCoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "utc", "unix":
		return TimeUnixUTC, nil
	case "local":
		return TimeUnixLocal, nil
	}
	return TimeUnixUTC, errors.Newf("unknown datetime coding %q", s)
}

// Config is fixed when a Reader or Writer is constructed.
type Config struct {
	ByteOrder      ByteOrder
	StringEncoding string // IANA charset name, empty means ISO-8859-1
	BoolCoding     BoolCoding
	TimeCoding     TimeCoding
}

// DefaultConfig returns the little-endian, Latin-1 configuration most STDF
// producers use.
func DefaultConfig() Config {
	return Config{
		ByteOrder:      LittleEndian,
		StringEncoding: "ISO-8859-1",
		BoolCoding:     BoolNonZero,
		TimeCoding:     TimeUnixUTC,
	}
}

// Encoding resolves StringEncoding to a text encoding.
func (c Config) Encoding() (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(c.StringEncoding)) {
	case "", "latin1", "latin-1", "iso-8859-1", "iso8859-1":
		return charmap.ISO8859_1, nil
	case "utf-8", "utf8":
		return unicode.UTF8, nil
	}
	enc, err := ianaindex.IANA.Encoding(c.StringEncoding)
	if err != nil {
		return nil, errors.Wrapf(err, "string encoding %q", c.StringEncoding)
	}
	if enc == nil {
		return nil, errors.Newf("string encoding %q is not supported", c.StringEncoding)
	}
	return enc, nil
}
