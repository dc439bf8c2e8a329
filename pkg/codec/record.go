package codec

import (
	"bytes"
	"math"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/ssargent/stdfkit/pkg/cursor"
	"github.com/ssargent/stdfkit/pkg/record"
	"github.com/ssargent/stdfkit/pkg/schema"
)

// Options tune decoding.
type Options struct {
	// AllowTruncated accepts bodies that end on a field boundary before the
	// last field. Fields past the end keep their zero values. STDF writers
	// may omit trailing optional fields this way.
	AllowTruncated bool
}

// RecordCodec reads and writes record bodies using the layouts of a schema
// registry. It holds no per-call state and is safe for concurrent use.
type RecordCodec struct {
	reg  *schema.Registry
	opts Options
}

// NewRecordCodec creates a codec over reg.
func NewRecordCodec(reg *schema.Registry, opts Options) *RecordCodec {
	return &RecordCodec{reg: reg, opts: opts}
}

// Registry returns the registry the codec resolves layouts from.
func (c *RecordCodec) Registry() *schema.Registry {
	return c.reg
}

// Decode reads the body announced by h. The reader must be positioned just
// after the header. For identities the registry does not know the body is
// skipped and Decode returns a nil record with known set to false. On return
// the reader is always positioned at the end of the declared body, so bytes a
// layout does not consume are ignored.
func (c *RecordCodec) Decode(r *cursor.Reader, h Header) (rec record.Record, known bool, err error) {
	s, ok := c.reg.Schema(h.Code())
	if !ok {
		if err := r.Skip(int64(h.Length)); err != nil {
			return nil, false, errors.Wrapf(err, "skip %s body", h.Code())
		}
		return nil, false, nil
	}

	body, err := r.Section(int(h.Length))
	if err != nil {
		return nil, true, errors.Wrapf(err, "read %s body", s.Name)
	}
	rec, err = c.DecodeBody(body, s)
	if err != nil {
		return nil, true, err
	}
	return rec, true, nil
}

// DecodeBody builds a record of s's variant from body.
func (c *RecordCodec) DecodeBody(body *cursor.Reader, s *schema.Schema) (record.Record, error) {
	rec := s.New()
	if err := c.DecodeInto(body, s, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// DecodeInto populates rec field by field in wire order.
func (c *RecordCodec) DecodeInto(body *cursor.Reader, s *schema.Schema, rec record.Record) error {
	if s.Generic {
		g, ok := rec.(*record.GDR)
		if !ok {
			return errors.Wrapf(ErrFieldType, "generic layout %s given %T", s.Name, rec)
		}
		return decodeGeneric(body, g)
	}

	fields := s.Fields()
	for i := range fields {
		f := &fields[i]
		if c.opts.AllowTruncated && body.Remaining() == 0 {
			return nil
		}
		if err := decodeField(body, s, f, rec); err != nil {
			return errors.Wrapf(err, "decode %s.%s", s.Name, f.Name)
		}
	}
	return nil
}

func decodeField(r *cursor.Reader, s *schema.Schema, f *schema.Field, rec record.Record) error {
	ptr := f.Ref(rec)
	if !f.Shape.IsArray() {
		return readScalar(r, f, ptr)
	}

	n := s.Count(rec, f)
	if f.Shape.Kind == schema.PrefixedArrayShape {
		b, err := r.U1()
		if err != nil {
			return err
		}
		n = int(b)
	}
	return readArray(r, f, ptr, n)
}

func readScalar(r *cursor.Reader, f *schema.Field, ptr any) error {
	var err error
	switch p := ptr.(type) {
	case *uint8:
		*p, err = r.U1()
		if f.Type == schema.N1 {
			*p &= 0x0F
		}
	case *uint16:
		*p, err = r.U2()
	case *uint32:
		*p, err = r.U4()
	case *uint64:
		*p, err = r.U8()
	case *int8:
		*p, err = r.I1()
	case *int16:
		*p, err = r.I2()
	case *int32:
		*p, err = r.I4()
	case *int64:
		*p, err = r.I8()
	case *float32:
		*p, err = r.R4()
	case *float64:
		*p, err = r.R8()
	case *string:
		if f.Type == schema.Cf {
			*p, err = readFixedString(r, f.Width)
		} else {
			*p, err = r.String()
		}
	case *record.Char:
		*p, err = readChar(r)
	case *[]byte:
		*p, err = r.PrefixedBytes()
	case *record.BitField:
		*p, err = readBitField(r)
	case *time.Time:
		*p, err = r.Time()
	default:
		return errors.Wrapf(ErrFieldType, "%s bound to %T", f.Type, ptr)
	}
	return err
}

func readArray(r *cursor.Reader, f *schema.Field, ptr any, n int) error {
	if left := r.Remaining(); left >= 0 {
		if need := minArrayBytes(f, n); need > left {
			return errors.Wrapf(cursor.ErrUnexpectedEndOfData,
				"%d elements of %s need at least %d bytes, %d left", n, f.Type, need, left)
		}
	}
	var err error
	switch p := ptr.(type) {
	case *[]uint8:
		if f.Type == schema.N1 {
			*p, err = readNibbles(r, n)
		} else {
			*p, err = readSlice(n, r.U1)
		}
	case *[]uint16:
		*p, err = readSlice(n, r.U2)
	case *[]uint32:
		*p, err = readSlice(n, r.U4)
	case *[]uint64:
		*p, err = readSlice(n, r.U8)
	case *[]int8:
		*p, err = readSlice(n, r.I1)
	case *[]int16:
		*p, err = readSlice(n, r.I2)
	case *[]int32:
		*p, err = readSlice(n, r.I4)
	case *[]int64:
		*p, err = readSlice(n, r.I8)
	case *[]float32:
		*p, err = readSlice(n, r.R4)
	case *[]float64:
		*p, err = readSlice(n, r.R8)
	case *[]string:
		if f.Type == schema.Cf {
			*p, err = readSlice(n, func() (string, error) { return readFixedString(r, f.Width) })
		} else {
			*p, err = readSlice(n, r.String)
		}
	case *[]record.Char:
		*p, err = readSlice(n, func() (record.Char, error) { return readChar(r) })
	case *[]time.Time:
		*p, err = readSlice(n, r.Time)
	default:
		return errors.Wrapf(ErrFieldType, "array of %s bound to %T", f.Type, ptr)
	}
	return err
}

// minArrayBytes is the smallest body that can hold n elements of f. A
// variable width element takes at least its one-byte length.
func minArrayBytes(f *schema.Field, n int) int64 {
	switch {
	case f.Type == schema.N1:
		return (int64(n) + 1) / 2
	case f.Type == schema.Cf:
		return int64(n) * int64(f.Width)
	case f.Type.Width() == schema.Variable:
		return int64(n)
	}
	return int64(n) * int64(f.Type.Width())
}

// readSlice reads n elements. A zero count yields an empty, non-nil slice.
func readSlice[T any](n int, read func() (T, error)) ([]T, error) {
	out := make([]T, n)
	for i := range out {
		v, err := read()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// readFixedString reads a C*f value. The space padding added by the writer
// is dropped, so a short value round-trips unchanged.
func readFixedString(r *cursor.Reader, width int) (string, error) {
	s, err := r.FixedString(width)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(s, " "), nil
}

func readChar(r *cursor.Reader) (record.Char, error) {
	b, err := r.U1()
	return record.Char(b), err
}

// readNibbles unpacks n nibbles stored two per byte, low nibble first.
func readNibbles(r *cursor.Reader, n int) ([]uint8, error) {
	packed, err := r.Bytes((n + 1) / 2)
	if err != nil {
		return nil, err
	}
	out := make([]uint8, n)
	for i := range out {
		b := packed[i/2]
		if i%2 == 1 {
			b >>= 4
		}
		out[i] = b & 0x0F
	}
	return out, nil
}

func readBitField(r *cursor.Reader) (record.BitField, error) {
	n, err := r.U2()
	if err != nil {
		return record.BitField{}, err
	}
	bits, err := r.Bytes((int(n) + 7) / 8)
	if err != nil {
		return record.BitField{}, err
	}
	return record.BitField{Len: n, Bits: bits}, nil
}

// Encode writes rec, header included, to w and returns the number of bytes
// written. The record is assembled in memory first and reaches w in a single
// write, so w needs no seek support.
func (c *RecordCodec) Encode(w *cursor.Writer, rec record.Record) (int, error) {
	buf, err := c.Marshal(rec, w.Config())
	if err != nil {
		return 0, err
	}
	if err := w.Bytes(buf); err != nil {
		return 0, errors.Wrapf(err, "write %s", record.Name(rec))
	}
	return len(buf), nil
}

// Marshal encodes rec, header included, with the given cursor configuration.
func (c *RecordCodec) Marshal(rec record.Record, cfg cursor.Config) ([]byte, error) {
	s, ok := c.reg.Schema(rec.TypeCode())
	if !ok {
		return nil, errors.Wrapf(ErrUnknownRecord, "%s", rec.TypeCode())
	}

	var buf bytes.Buffer
	bw, err := cursor.NewWriter(&buf, cfg)
	if err != nil {
		return nil, err
	}
	code := rec.TypeCode()
	// The length is patched once the body size is known.
	if err := WriteHeader(bw, Header{Type: code.Type(), Sub: code.Sub()}); err != nil {
		return nil, err
	}
	if err := c.EncodeBody(bw, s, rec); err != nil {
		return nil, err
	}

	out := buf.Bytes()
	n := len(out) - HeaderSize
	if n > math.MaxUint16 {
		return nil, errors.Wrapf(ErrRecordTooLarge, "%s body is %d bytes", s.Name, n)
	}
	cfg.ByteOrder.Binary().PutUint16(out[0:2], uint16(n))
	return out, nil
}

// EncodeBody writes the fields of rec in wire order, without a header.
func (c *RecordCodec) EncodeBody(w *cursor.Writer, s *schema.Schema, rec record.Record) error {
	if s.Generic {
		g, ok := rec.(*record.GDR)
		if !ok {
			return errors.Wrapf(ErrFieldType, "generic layout %s given %T", s.Name, rec)
		}
		return encodeGeneric(w, g)
	}

	fields := s.Fields()
	for i := range fields {
		f := &fields[i]
		if err := encodeField(w, s, f, rec); err != nil {
			return errors.Wrapf(err, "encode %s.%s", s.Name, f.Name)
		}
	}
	return nil
}

func encodeField(w *cursor.Writer, s *schema.Schema, f *schema.Field, rec record.Record) error {
	ptr := f.Ref(rec)
	if !f.Shape.IsArray() {
		return writeScalar(w, f, ptr)
	}

	n := arrayLen(ptr)
	switch f.Shape.Kind {
	case schema.PrefixedArrayShape:
		if n > math.MaxUint8 {
			return errors.Wrapf(ErrCountMismatch, "%d elements exceed the one-byte prefix", n)
		}
		if err := w.U1(uint8(n)); err != nil {
			return err
		}
	default:
		if want := s.Count(rec, f); n != want {
			return errors.Wrapf(ErrCountMismatch, "%d elements, count is %d", n, want)
		}
	}
	return writeArray(w, f, ptr)
}

func writeScalar(w *cursor.Writer, f *schema.Field, ptr any) error {
	switch p := ptr.(type) {
	case *uint8:
		if f.Type == schema.N1 {
			return w.U1(*p & 0x0F)
		}
		return w.U1(*p)
	case *uint16:
		return w.U2(*p)
	case *uint32:
		return w.U4(*p)
	case *uint64:
		return w.U8(*p)
	case *int8:
		return w.I1(*p)
	case *int16:
		return w.I2(*p)
	case *int32:
		return w.I4(*p)
	case *int64:
		return w.I8(*p)
	case *float32:
		return w.R4(*p)
	case *float64:
		return w.R8(*p)
	case *string:
		if f.Type == schema.Cf {
			return w.FixedString(*p, f.Width)
		}
		return w.String(*p)
	case *record.Char:
		return w.U1(uint8(*p))
	case *[]byte:
		return w.PrefixedBytes(*p)
	case *record.BitField:
		return writeBitField(w, *p)
	case *time.Time:
		return w.Time(*p)
	}
	return errors.Wrapf(ErrFieldType, "%s bound to %T", f.Type, ptr)
}

func writeArray(w *cursor.Writer, f *schema.Field, ptr any) error {
	switch p := ptr.(type) {
	case *[]uint8:
		if f.Type == schema.N1 {
			return writeNibbles(w, *p)
		}
		return writeSlice(*p, w.U1)
	case *[]uint16:
		return writeSlice(*p, w.U2)
	case *[]uint32:
		return writeSlice(*p, w.U4)
	case *[]uint64:
		return writeSlice(*p, w.U8)
	case *[]int8:
		return writeSlice(*p, w.I1)
	case *[]int16:
		return writeSlice(*p, w.I2)
	case *[]int32:
		return writeSlice(*p, w.I4)
	case *[]int64:
		return writeSlice(*p, w.I8)
	case *[]float32:
		return writeSlice(*p, w.R4)
	case *[]float64:
		return writeSlice(*p, w.R8)
	case *[]string:
		if f.Type == schema.Cf {
			return writeSlice(*p, func(s string) error { return w.FixedString(s, f.Width) })
		}
		return writeSlice(*p, w.String)
	case *[]record.Char:
		return writeSlice(*p, func(c record.Char) error { return w.U1(uint8(c)) })
	case *[]time.Time:
		return writeSlice(*p, w.Time)
	}
	return errors.Wrapf(ErrFieldType, "array of %s bound to %T", f.Type, ptr)
}

func writeSlice[T any](s []T, write func(T) error) error {
	for _, v := range s {
		if err := write(v); err != nil {
			return err
		}
	}
	return nil
}

// writeNibbles packs v two per byte, low nibble first.
func writeNibbles(w *cursor.Writer, v []uint8) error {
	packed := make([]byte, (len(v)+1)/2)
	for i, n := range v {
		if i%2 == 1 {
			packed[i/2] |= (n & 0x0F) << 4
		} else {
			packed[i/2] |= n & 0x0F
		}
	}
	return w.Bytes(packed)
}

func writeBitField(w *cursor.Writer, b record.BitField) error {
	want := (int(b.Len) + 7) / 8
	if len(b.Bits) != want {
		return errors.Wrapf(ErrCountMismatch, "bit field of %d bits carries %d bytes, needs %d", b.Len, len(b.Bits), want)
	}
	if err := w.U2(b.Len); err != nil {
		return err
	}
	return w.Bytes(b.Bits)
}

// arrayLen returns the length of a bound slice.
func arrayLen(ptr any) int {
	switch p := ptr.(type) {
	case *[]uint8:
		return len(*p)
	case *[]uint16:
		return len(*p)
	case *[]uint32:
		return len(*p)
	case *[]uint64:
		return len(*p)
	case *[]int8:
		return len(*p)
	case *[]int16:
		return len(*p)
	case *[]int32:
		return len(*p)
	case *[]int64:
		return len(*p)
	case *[]float32:
		return len(*p)
	case *[]float64:
		return len(*p)
	case *[]string:
		return len(*p)
	case *[]record.Char:
		return len(*p)
	case *[]time.Time:
		return len(*p)
	}
	return 0
}

// Unmarshal decodes one complete record, header included, from data.
func (c *RecordCodec) Unmarshal(data []byte, cfg cursor.Config) (record.Record, error) {
	r, err := cursor.NewBytesReader(data, cfg)
	if err != nil {
		return nil, err
	}
	h, err := ReadHeader(r)
	if err != nil {
		return nil, err
	}
	rec, known, err := c.Decode(r, h)
	if err != nil {
		return nil, err
	}
	if !known {
		return nil, errors.Wrapf(ErrUnknownRecord, "%s", h.Code())
	}
	return rec, nil
}
