package schema

import (
	"fmt"
	"sort"

	"github.com/cockroachdb/errors"

	"github.com/ssargent/stdfkit/pkg/record"
)

// ErrInvalidSchema marks schema configuration defects. They are programming
// errors and surface when a registry is built, never while decoding.
var ErrInvalidSchema = errors.New("invalid schema")

// Binding declares one record layout: its identity, a factory for empty
// records and the fields in any order. Generic marks the GDR layout, which is
// decoded without a static field list.
type Binding struct {
	Code    record.TypeCode
	Name    string
	New     func() record.Record
	Fields  []Field
	Generic bool
}

// Schema is a validated, immutable record layout.
type Schema struct {
	Code        record.TypeCode
	Version     record.Version
	Name        string
	Description string
	Generic     bool

	fields []Field
	byName map[string]int
	newFn  func() record.Record
}

// NewSchema validates b and returns its schema with fields sorted by Order.
func NewSchema(version record.Version, b Binding) (*Schema, error) {
	if b.Name == "" {
		return nil, errors.Wrapf(ErrInvalidSchema, "%s: missing name", b.Code)
	}
	if b.New == nil {
		return nil, errors.Wrapf(ErrInvalidSchema, "%s: missing factory", b.Name)
	}
	zero := b.New()
	if zero == nil {
		return nil, errors.Wrapf(ErrInvalidSchema, "%s: factory returned nil", b.Name)
	}
	if zero.TypeCode() != b.Code {
		return nil, errors.Wrapf(ErrInvalidSchema, "%s: factory builds %s, binding declares %s",
			b.Name, zero.TypeCode(), b.Code)
	}

	s := &Schema{
		Code:        b.Code,
		Version:     version,
		Name:        b.Name,
		Description: zero.Description(),
		Generic:     b.Generic,
		byName:      make(map[string]int, len(b.Fields)),
		newFn:       b.New,
	}

	if b.Generic {
		if _, ok := zero.(*record.GDR); !ok {
			return nil, errors.Wrapf(ErrInvalidSchema, "%s: generic layout requires a GDR factory", b.Name)
		}
		if len(b.Fields) > 0 {
			return nil, errors.Wrapf(ErrInvalidSchema, "%s: generic layout cannot declare fields", b.Name)
		}
		return s, nil
	}

	s.fields = make([]Field, len(b.Fields))
	copy(s.fields, b.Fields)
	sort.SliceStable(s.fields, func(i, j int) bool {
		return s.fields[i].Order < s.fields[j].Order
	})

	for i := range s.fields {
		f := &s.fields[i]
		if i > 0 && f.Order <= s.fields[i-1].Order {
			return nil, errors.Wrapf(ErrInvalidSchema, "%s: fields %s and %s share order %d",
				b.Name, s.fields[i-1].Name, f.Name, f.Order)
		}
		if _, dup := s.byName[f.Name]; dup {
			return nil, errors.Wrapf(ErrInvalidSchema, "%s: duplicate field %s", b.Name, f.Name)
		}
		s.byName[f.Name] = i
		if err := s.checkField(zero, f); err != nil {
			return nil, errors.Wrapf(ErrInvalidSchema, "%s.%s: %v", b.Name, f.Name, err)
		}
	}
	return s, nil
}

func (s *Schema) checkField(zero record.Record, f *Field) error {
	if f.Name == "" {
		return errors.New("missing name")
	}
	if f.Ref == nil {
		return errors.New("missing binding")
	}
	if _, ok := dataTypeNames[f.Type]; !ok {
		return errors.Newf("unknown data type %d", f.Type)
	}
	if f.Type == Cf && f.Width <= 0 {
		return errors.New("C*f field needs a positive width")
	}

	switch f.Shape.Kind {
	case ScalarShape, PrefixedArrayShape:
	case FixedArrayShape:
		if f.Shape.Count <= 0 {
			return errors.Newf("fixed array count %d", f.Shape.Count)
		}
	case CountedArrayShape:
		idx, ok := s.byName[f.Shape.CountSource]
		if !ok {
			// byName only holds earlier fields, so a later source also lands here.
			return errors.Newf("count source %q is not declared before the array", f.Shape.CountSource)
		}
		src := s.fields[idx]
		if src.Shape.IsArray() {
			return errors.Newf("count source %q is an array", src.Name)
		}
		switch src.Type {
		case U1, U2, U4:
		default:
			return errors.Newf("count source %q has non-count type %s", src.Name, src.Type)
		}
	default:
		return errors.Newf("unknown shape %s", f.Shape.Kind)
	}
	if f.Shape.IsArray() && (f.Type == Bn || f.Type == Dn) {
		return errors.Newf("arrays of %s are not supported", f.Type)
	}

	ptr := f.Ref(zero)
	want := storageType(f.Type, f.Shape.IsArray())
	if got := fmt.Sprintf("%T", ptr); got != want {
		return errors.Newf("bound to %s, %s %s needs %s", got, f.Shape.Kind, f.Type, want)
	}
	return nil
}

// storageType names the pointer type a field must bind to.
func storageType(t DataType, array bool) string {
	var elem string
	switch t {
	case U1, B1, N1:
		elem = "uint8"
	case U2:
		elem = "uint16"
	case U4:
		elem = "uint32"
	case U8:
		elem = "uint64"
	case I1:
		elem = "int8"
	case I2:
		elem = "int16"
	case I4:
		elem = "int32"
	case I8:
		elem = "int64"
	case R4:
		elem = "float32"
	case R8:
		elem = "float64"
	case C1:
		elem = "record.Char"
	case Cn, Cf:
		elem = "string"
	case Bn:
		elem = "[]uint8"
	case Dn:
		elem = "record.BitField"
	case Time:
		elem = "time.Time"
	}
	if array {
		return "*[]" + elem
	}
	return "*" + elem
}

// Fields returns the fields in wire order. The slice must not be modified.
func (s *Schema) Fields() []Field {
	return s.fields
}

// Field looks up a field by name.
func (s *Schema) Field(name string) (*Field, bool) {
	i, ok := s.byName[name]
	if !ok {
		return nil, false
	}
	return &s.fields[i], true
}

// New returns an empty record of this schema's variant.
func (s *Schema) New() record.Record {
	return s.newFn()
}

// Count returns the element count of array field f in r: the fixed count, or
// the current value of its count source. Prefixed arrays return -1 because
// their count lives on the wire.
func (s *Schema) Count(r record.Record, f *Field) int {
	switch f.Shape.Kind {
	case FixedArrayShape:
		return f.Shape.Count
	case CountedArrayShape:
		src, _ := s.Field(f.Shape.CountSource)
		switch p := src.Ref(r).(type) {
		case *uint8:
			return int(*p)
		case *uint16:
			return int(*p)
		case *uint32:
			return int(*p)
		}
	}
	return -1
}

func (s *Schema) String() string {
	return fmt.Sprintf("%s(%d,%d) %s", s.Name, s.Code.Type(), s.Code.Sub(), s.Version)
}
