package cursor

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"time"

	"github.com/cockroachdb/errors"
	"golang.org/x/text/encoding"
)

// Reader reads STDF primitives sequentially from a byte source and tracks the
// absolute stream position of the next byte.
type Reader struct {
	src    io.Reader // original source, used for seeking
	in     io.Reader // buffered view of src
	seeker io.Seeker
	base   int64 // absolute position of src offset 0
	off    int64 // absolute position of the next byte
	limit  int64 // absolute end position, -1 when unknown
	order  binary.ByteOrder
	enc    encoding.Encoding
	cfg    Config
	buf    [8]byte
}

// NewReader creates a Reader over rd. Sources that are not *bytes.Reader are
// buffered; when rd is also an io.Seeker, Seek repositions it.
func NewReader(rd io.Reader, cfg Config) (*Reader, error) {
	enc, err := cfg.Encoding()
	if err != nil {
		return nil, err
	}
	r := &Reader{
		src:   rd,
		limit: -1,
		order: cfg.ByteOrder.Binary(),
		enc:   enc,
		cfg:   cfg,
	}
	if s, ok := rd.(io.Seeker); ok {
		r.seeker = s
	}
	switch v := rd.(type) {
	case *bytes.Reader:
		r.in = v
		r.limit = int64(v.Len())
	case *bufio.Reader:
		r.in = v
	default:
		r.in = bufio.NewReader(rd)
	}
	return r, nil
}

// NewBytesReader creates a bounded Reader over b.
func NewBytesReader(b []byte, cfg Config) (*Reader, error) {
	return NewReader(bytes.NewReader(b), cfg)
}

// Config returns the configuration the Reader was built with.
func (r *Reader) Config() Config {
	return r.cfg
}

// Position returns the absolute offset of the next byte to be read.
func (r *Reader) Position() int64 {
	return r.off
}

// Remaining returns the number of bytes left before the limit, or -1 when the
// source length is unknown.
func (r *Reader) Remaining() int64 {
	if r.limit < 0 {
		return -1
	}
	return r.limit - r.off
}

// EOF reports whether the source is exhausted.
func (r *Reader) EOF() bool {
	if r.limit >= 0 {
		return r.off >= r.limit
	}
	if br, ok := r.in.(*bufio.Reader); ok {
		_, err := br.Peek(1)
		return err != nil
	}
	return false
}

// SeekTo moves to the absolute position pos. Without an io.Seeker only forward
// moves are possible.
func (r *Reader) SeekTo(pos int64) error {
	if pos < r.base {
		return errors.Newf("seek to %d before start of source at %d", pos, r.base)
	}
	if r.seeker != nil {
		if _, err := r.seeker.Seek(pos-r.base, io.SeekStart); err != nil {
			return errors.Wrapf(err, "seek to %d", pos)
		}
		if br, ok := r.in.(*bufio.Reader); ok {
			br.Reset(r.src) // drop buffered bytes from the old position
		}
		r.off = pos
		return nil
	}
	if pos < r.off {
		return errors.Wrapf(ErrNotSeekable, "seek back to %d from %d", pos, r.off)
	}
	return r.Skip(pos - r.off)
}

// Skip discards n bytes.
func (r *Reader) Skip(n int64) error {
	if n < 0 {
		return errors.Newf("invalid skip length %d", n)
	}
	if r.limit >= 0 && r.off+n > r.limit {
		return errors.Wrapf(ErrUnexpectedEndOfData, "skip %d bytes at offset %d", n, r.off)
	}
	m, err := io.CopyN(io.Discard, r.in, n)
	r.off += m
	if err != nil {
		return endOfData(err, n, r.off-m)
	}
	return nil
}

// Section reads the next n bytes and returns a bounded Reader over them that
// reports the same absolute positions as r.
func (r *Reader) Section(n int) (*Reader, error) {
	start := r.off
	b, err := r.Bytes(n)
	if err != nil {
		return nil, err
	}
	src := bytes.NewReader(b)
	return &Reader{
		src:    src,
		in:     src,
		seeker: src,
		base:   start,
		off:    start,
		limit:  start + int64(n),
		order:  r.order,
		enc:    r.enc,
		cfg:    r.cfg,
	}, nil
}

func (r *Reader) readN(n int) ([]byte, error) {
	if n < 0 {
		return nil, errors.Newf("invalid read length %d", n)
	}
	if r.limit >= 0 && r.off+int64(n) > r.limit {
		return nil, errors.Wrapf(ErrUnexpectedEndOfData, "read %d bytes at offset %d, %d available", n, r.off, r.limit-r.off)
	}
	var buf []byte
	if n <= len(r.buf) {
		buf = r.buf[:n]
	} else {
		buf = make([]byte, n)
	}
	if _, err := io.ReadFull(r.in, buf); err != nil {
		return nil, endOfData(err, int64(n), r.off)
	}
	r.off += int64(n)
	return buf, nil
}

func endOfData(err error, n, off int64) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return errors.Wrapf(ErrUnexpectedEndOfData, "read %d bytes at offset %d", n, off)
	}
	return errors.Wrapf(err, "read %d bytes at offset %d", n, off)
}

func (r *Reader) U1() (uint8, error) {
	b, err := r.readN(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *Reader) U2() (uint16, error) {
	b, err := r.readN(2)
	if err != nil {
		return 0, err
	}
	return r.order.Uint16(b), nil
}

func (r *Reader) U4() (uint32, error) {
	b, err := r.readN(4)
	if err != nil {
		return 0, err
	}
	return r.order.Uint32(b), nil
}

func (r *Reader) U8() (uint64, error) {
	b, err := r.readN(8)
	if err != nil {
		return 0, err
	}
	return r.order.Uint64(b), nil
}

func (r *Reader) I1() (int8, error) {
	v, err := r.U1()
	return int8(v), err
}

func (r *Reader) I2() (int16, error) {
	v, err := r.U2()
	return int16(v), err
}

func (r *Reader) I4() (int32, error) {
	v, err := r.U4()
	return int32(v), err
}

func (r *Reader) I8() (int64, error) {
	v, err := r.U8()
	return int64(v), err
}

func (r *Reader) R4() (float32, error) {
	u, err := r.U4()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(u), nil
}

func (r *Reader) R8() (float64, error) {
	u, err := r.U8()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(u), nil
}

// Bytes returns a copy of the next n bytes.
func (r *Reader) Bytes(n int) ([]byte, error) {
	b, err := r.readN(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

// PrefixedBytes reads a one-byte length followed by that many bytes.
func (r *Reader) PrefixedBytes() ([]byte, error) {
	n, err := r.U1()
	if err != nil {
		return nil, err
	}
	return r.Bytes(int(n))
}

// FixedString reads an n byte string. Trailing padding is preserved; the codec
// strips it from C*f fields.
func (r *Reader) FixedString(n int) (string, error) {
	b, err := r.readN(n)
	if err != nil {
		return "", err
	}
	return r.decodeString(b)
}

// String reads a string prefixed by a one-byte length.
func (r *Reader) String() (string, error) {
	n, err := r.U1()
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", nil
	}
	return r.FixedString(int(n))
}

func (r *Reader) decodeString(b []byte) (string, error) {
	out, err := r.enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", errors.Wrapf(err, "decode %s string at offset %d", r.cfg.StringEncoding, r.off-int64(len(b)))
	}
	return string(out), nil
}

// Bool reads a single byte according to the configured BoolCoding.
func (r *Reader) Bool() (bool, error) {
	b, err := r.U1()
	if err != nil {
		return false, err
	}
	if r.cfg.BoolCoding == BoolASCII {
		return b == '1', nil
	}
	return b != 0, nil
}

// Time reads a U*4 timestamp according to the configured TimeCoding. Zero
// decodes to the zero time.
func (r *Reader) Time() (time.Time, error) {
	v, err := r.U4()
	if err != nil {
		return time.Time{}, err
	}
	if v == 0 {
		return time.Time{}, nil
	}
	t := time.Unix(int64(v), 0)
	if r.cfg.TimeCoding == TimeUnixLocal {
		return t.Local(), nil
	}
	return t.UTC(), nil
}
