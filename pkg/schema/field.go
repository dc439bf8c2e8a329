package schema

import (
	"fmt"

	"github.com/ssargent/stdfkit/pkg/record"
)

// Variable is the width of types whose encoded length depends on the value.
const Variable = -1

// DataType is an STDF field data type.
type DataType uint8

const (
	U1 DataType = iota + 1
	U2
	U4
	U8
	I1
	I2
	I4
	I8
	R4
	R8
	C1   // single character
	Cn   // string with one-byte length prefix
	Cf   // fixed-width string, width given by the field
	B1   // one byte of flags
	Bn   // bytes with one-byte length prefix
	Dn   // bit field with two-byte bit count
	N1   // nibble; arrays pack two per byte
	Time // U*4 seconds since the epoch
)

var dataTypeNames = map[DataType]string{
	U1: "U*1", U2: "U*2", U4: "U*4", U8: "U*8",
	I1: "I*1", I2: "I*2", I4: "I*4", I8: "I*8",
	R4: "R*4", R8: "R*8",
	C1: "C*1", Cn: "C*n", Cf: "C*f",
	B1: "B*1", Bn: "B*n", Dn: "D*n", N1: "N*1",
	Time: "U*4(time)",
}

func (t DataType) String() string {
	if s, ok := dataTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("datatype(%d)", uint8(t))
}

// Width returns the encoded width of one value, or Variable.
func (t DataType) Width() int {
	switch t {
	case U1, I1, C1, B1, N1:
		return 1
	case U2, I2:
		return 2
	case U4, I4, R4, Time:
		return 4
	case U8, I8, R8:
		return 8
	}
	return Variable
}

// ShapeKind distinguishes scalars from the three array layouts.
type ShapeKind uint8

const (
	ScalarShape ShapeKind = iota
	// FixedArrayShape has a count fixed by the schema.
	FixedArrayShape
	// CountedArrayShape takes its count from an earlier sibling field.
	CountedArrayShape
	// PrefixedArrayShape is preceded on the wire by a one-byte count.
	PrefixedArrayShape
)

func (k ShapeKind) String() string {
	switch k {
	case ScalarShape:
		return "scalar"
	case FixedArrayShape:
		return "fixed-array"
	case CountedArrayShape:
		return "counted-array"
	case PrefixedArrayShape:
		return "prefixed-array"
	}
	return fmt.Sprintf("shape(%d)", uint8(k))
}

// Shape is a tagged union over field layouts. Count is set for fixed arrays,
// CountSource for counted arrays.
type Shape struct {
	Kind        ShapeKind
	Count       int
	CountSource string
}

// IsArray reports whether the shape holds a sequence of values.
func (s Shape) IsArray() bool {
	return s.Kind != ScalarShape
}

func Scalar() Shape                    { return Shape{Kind: ScalarShape} }
func FixedArray(n int) Shape           { return Shape{Kind: FixedArrayShape, Count: n} }
func CountedArray(source string) Shape { return Shape{Kind: CountedArrayShape, CountSource: source} }
func PrefixedArray() Shape             { return Shape{Kind: PrefixedArrayShape} }

// Field describes one field of a record layout. Ref returns a pointer to the
// field's storage inside a record of the schema's variant.
type Field struct {
	Name  string
	Order int
	Type  DataType
	Width int
	Shape Shape
	Ref   func(record.Record) any
}

// F declares a scalar field. Ref is built with Bind.
func F(order int, name string, t DataType, ref func(record.Record) any) Field {
	return Field{
		Name:  name,
		Order: order,
		Type:  t,
		Width: t.Width(),
		Shape: Scalar(),
		Ref:   ref,
	}
}

// CountedBy turns f into an array sized by the named sibling field.
func (f Field) CountedBy(source string) Field {
	f.Shape = CountedArray(source)
	return f
}

// Prefixed turns f into an array preceded by a one-byte count.
func (f Field) Prefixed() Field {
	f.Shape = PrefixedArray()
	return f
}

// Repeated turns f into an array of exactly n elements.
func (f Field) Repeated(n int) Field {
	f.Shape = FixedArray(n)
	return f
}

// Sized sets the byte width of a C*f field.
func (f Field) Sized(n int) Field {
	f.Width = n
	return f
}

func (f Field) String() string {
	return fmt.Sprintf("%d:%s %s", f.Order, f.Name, f.Notation())
}

// Notation returns the data type in STDF notation, array shape included.
func (f Field) Notation() string {
	switch f.Shape.Kind {
	case CountedArrayShape:
		return fmt.Sprintf("kx%s[%s]", f.Type, f.Shape.CountSource)
	case FixedArrayShape:
		return fmt.Sprintf("%dx%s", f.Shape.Count, f.Type)
	case PrefixedArrayShape:
		return fmt.Sprintf("nx%s", f.Type)
	}
	return f.Type.String()
}

// Bind adapts a typed accessor into a Field.Ref.
func Bind[R record.Record, T any](get func(R) *T) func(record.Record) any {
	return func(r record.Record) any {
		return get(r.(R))
	}
}
