package cursor

import (
	"encoding/binary"
	"io"
	"math"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"golang.org/x/text/encoding"
)

// Writer is the write-side mirror of Reader.
type Writer struct {
	w     io.Writer
	off   int64
	order binary.ByteOrder
	enc   encoding.Encoding
	cfg   Config
	buf   [8]byte
}

// NewWriter creates a Writer appending to w.
func NewWriter(w io.Writer, cfg Config) (*Writer, error) {
	enc, err := cfg.Encoding()
	if err != nil {
		return nil, err
	}
	return &Writer{
		w:     w,
		order: cfg.ByteOrder.Binary(),
		enc:   enc,
		cfg:   cfg,
	}, nil
}

// Config returns the configuration the Writer was built with.
func (w *Writer) Config() Config {
	return w.cfg
}

// Position returns the number of bytes written since construction, adjusted
// by SeekTo.
func (w *Writer) Position() int64 {
	return w.off
}

// SeekTo moves to the absolute position pos. The sink must be an io.WriteSeeker.
func (w *Writer) SeekTo(pos int64) error {
	s, ok := w.w.(io.Seeker)
	if !ok {
		return errors.Wrapf(ErrNotSeekable, "seek to %d", pos)
	}
	if _, err := s.Seek(pos, io.SeekStart); err != nil {
		return errors.Wrapf(err, "seek to %d", pos)
	}
	w.off = pos
	return nil
}

func (w *Writer) write(b []byte) error {
	n, err := w.w.Write(b)
	w.off += int64(n)
	if err != nil {
		return errors.Wrapf(err, "write %d bytes at offset %d", len(b), w.off-int64(n))
	}
	return nil
}

func (w *Writer) U1(v uint8) error {
	w.buf[0] = v
	return w.write(w.buf[:1])
}

func (w *Writer) U2(v uint16) error {
	w.order.PutUint16(w.buf[:2], v)
	return w.write(w.buf[:2])
}

func (w *Writer) U4(v uint32) error {
	w.order.PutUint32(w.buf[:4], v)
	return w.write(w.buf[:4])
}

func (w *Writer) U8(v uint64) error {
	w.order.PutUint64(w.buf[:8], v)
	return w.write(w.buf[:8])
}

func (w *Writer) I1(v int8) error    { return w.U1(uint8(v)) }
func (w *Writer) I2(v int16) error   { return w.U2(uint16(v)) }
func (w *Writer) I4(v int32) error   { return w.U4(uint32(v)) }
func (w *Writer) I8(v int64) error   { return w.U8(uint64(v)) }
func (w *Writer) R4(v float32) error { return w.U4(math.Float32bits(v)) }
func (w *Writer) R8(v float64) error { return w.U8(math.Float64bits(v)) }

// Bytes writes b verbatim.
func (w *Writer) Bytes(b []byte) error {
	return w.write(b)
}

// PrefixedBytes writes a one-byte length followed by b.
func (w *Writer) PrefixedBytes(b []byte) error {
	if len(b) > math.MaxUint8 {
		return errors.Wrapf(ErrStringTooLong, "%d bytes", len(b))
	}
	if err := w.U1(uint8(len(b))); err != nil {
		return err
	}
	return w.write(b)
}

// FixedString writes s into exactly n bytes, padding with spaces. Longer
// strings are rejected.
func (w *Writer) FixedString(s string, n int) error {
	b, err := w.encodeString(s)
	if err != nil {
		return err
	}
	if len(b) > n {
		return errors.Newf("string of %d bytes does not fit fixed width %d", len(b), n)
	}
	if pad := n - len(b); pad > 0 {
		b = append(b, strings.Repeat(" ", pad)...)
	}
	return w.write(b)
}

// String writes s with a one-byte length prefix.
func (w *Writer) String(s string) error {
	b, err := w.encodeString(s)
	if err != nil {
		return err
	}
	return w.PrefixedBytes(b)
}

func (w *Writer) encodeString(s string) ([]byte, error) {
	b, err := w.enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, errors.Wrapf(err, "encode %q as %s", s, w.cfg.StringEncoding)
	}
	return b, nil
}

// Bool writes a single byte according to the configured BoolCoding.
func (w *Writer) Bool(v bool) error {
	var b uint8
	switch {
	case w.cfg.BoolCoding == BoolASCII && v:
		b = '1'
	case w.cfg.BoolCoding == BoolASCII:
		b = '0'
	case v:
		b = 1
	}
	return w.U1(b)
}

// Time writes t as U*4 seconds since the Unix epoch; the zero time is written
// as 0.
func (w *Writer) Time(t time.Time) error {
	if t.IsZero() {
		return w.U4(0)
	}
	sec := t.Unix()
	if sec < 0 || sec > math.MaxUint32 {
		return errors.Newf("time %s out of U*4 range", t.Format(time.RFC3339))
	}
	return w.U4(uint32(sec))
}
