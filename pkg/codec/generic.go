package codec

import (
	"math"

	"github.com/cockroachdb/errors"

	"github.com/ssargent/stdfkit/pkg/cursor"
	"github.com/ssargent/stdfkit/pkg/record"
)

// GDR bodies hold a U*2 field count followed by (pad?, tag, value) tuples.
// Offsets are measured from the first byte after the count. Values of the
// aligned types start on an even offset, so their tag sits on an odd one; a
// zero tag on an even offset is padding and is neither counted nor stored.

func decodeGeneric(r *cursor.Reader, g *record.GDR) error {
	count, err := r.U2()
	if err != nil {
		return errors.Wrap(err, "decode GDR field count")
	}
	start := r.Position()

	g.Fields = make([]record.GenericField, 0, count)
	for len(g.Fields) < int(count) {
		tagPos := r.Position()
		b, err := r.U1()
		if err != nil {
			return errors.Wrapf(err, "decode GDR field %d", len(g.Fields))
		}
		tag := record.GenericType(b)
		if tag == record.GenPad && (tagPos-start)%2 == 0 {
			tagPos = r.Position()
			if b, err = r.U1(); err != nil {
				return errors.Wrapf(err, "decode GDR field %d", len(g.Fields))
			}
			tag = record.GenericType(b)
		}

		if !tag.Known() {
			return &GenericRecordError{Offset: tagPos, Tag: tag, Reason: "unknown type tag"}
		}
		if tag.Aligned() && (tagPos-start)%2 == 0 {
			return &GenericRecordError{Offset: tagPos, Tag: tag, Reason: "misaligned " + tag.String() + " value, expected a pad byte"}
		}

		v, err := readGenericValue(r, tag)
		if err != nil {
			return errors.Wrapf(err, "decode GDR field %d (%s)", len(g.Fields), tag)
		}
		g.Fields = append(g.Fields, record.GenericField{Type: tag, Value: v})
	}
	return nil
}

func readGenericValue(r *cursor.Reader, tag record.GenericType) (any, error) {
	switch tag {
	case record.GenU1:
		return r.U1()
	case record.GenU2:
		return r.U2()
	case record.GenU4:
		return r.U4()
	case record.GenI1:
		return r.I1()
	case record.GenI2:
		return r.I2()
	case record.GenI4:
		return r.I4()
	case record.GenR4:
		return r.R4()
	case record.GenR8:
		return r.R8()
	case record.GenCn:
		return r.String()
	case record.GenBn:
		return r.PrefixedBytes()
	case record.GenDn:
		return readBitField(r)
	case record.GenN1:
		b, err := r.U1()
		return b & 0x0F, err
	}
	return nil, errors.Newf("no value reader for %s", tag)
}

func encodeGeneric(w *cursor.Writer, g *record.GDR) error {
	if len(g.Fields) > math.MaxUint16 {
		return errors.Wrapf(ErrRecordTooLarge, "GDR with %d fields", len(g.Fields))
	}
	if err := w.U2(uint16(len(g.Fields))); err != nil {
		return err
	}
	start := w.Position()

	for i, f := range g.Fields {
		if !f.Type.Known() {
			return errors.Wrapf(ErrFieldType, "GDR field %d has tag %s", i, f.Type)
		}
		if f.Type.Aligned() && (w.Position()-start)%2 == 0 {
			if err := w.U1(uint8(record.GenPad)); err != nil {
				return err
			}
		}
		if err := w.U1(uint8(f.Type)); err != nil {
			return err
		}
		if err := writeGenericValue(w, f); err != nil {
			return errors.Wrapf(err, "encode GDR field %d (%s)", i, f.Type)
		}
	}
	return nil
}

func writeGenericValue(w *cursor.Writer, f record.GenericField) error {
	switch v := f.Value.(type) {
	case uint8:
		switch f.Type {
		case record.GenU1:
			return w.U1(v)
		case record.GenN1:
			return w.U1(v & 0x0F)
		}
	case uint16:
		if f.Type == record.GenU2 {
			return w.U2(v)
		}
	case uint32:
		if f.Type == record.GenU4 {
			return w.U4(v)
		}
	case int8:
		if f.Type == record.GenI1 {
			return w.I1(v)
		}
	case int16:
		if f.Type == record.GenI2 {
			return w.I2(v)
		}
	case int32:
		if f.Type == record.GenI4 {
			return w.I4(v)
		}
	case float32:
		if f.Type == record.GenR4 {
			return w.R4(v)
		}
	case float64:
		if f.Type == record.GenR8 {
			return w.R8(v)
		}
	case string:
		if f.Type == record.GenCn {
			return w.String(v)
		}
	case []byte:
		if f.Type == record.GenBn {
			return w.PrefixedBytes(v)
		}
	case record.BitField:
		if f.Type == record.GenDn {
			return writeBitField(w, v)
		}
	}
	return errors.Wrapf(ErrFieldType, "%s tag holding %T", f.Type, f.Value)
}
