package record

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/goccy/go-json"
)

// GenericType is the one-byte type tag that introduces every GDR field.
type GenericType uint8

const (
	GenPad GenericType = 0
	GenU1  GenericType = 1
	GenU2  GenericType = 2
	GenU4  GenericType = 3
	GenI1  GenericType = 4
	GenI2  GenericType = 5
	GenI4  GenericType = 6
	GenR4  GenericType = 7
	GenR8  GenericType = 8
	GenCn  GenericType = 10
	GenBn  GenericType = 11
	GenDn  GenericType = 12
	GenN1  GenericType = 13
)

// Known reports whether t is a value-carrying tag.
func (t GenericType) Known() bool {
	switch t {
	case GenU1, GenU2, GenU4, GenI1, GenI2, GenI4, GenR4, GenR8, GenCn, GenBn, GenDn, GenN1:
		return true
	}
	return false
}

// Aligned reports whether values of type t must start on an even offset,
// which puts their tag on an odd one.
func (t GenericType) Aligned() bool {
	switch t {
	case GenU2, GenU4, GenI2, GenI4, GenR4, GenR8:
		return true
	}
	return false
}

func (t GenericType) String() string {
	switch t {
	case GenPad:
		return "B*0"
	case GenU1:
		return "U*1"
	case GenU2:
		return "U*2"
	case GenU4:
		return "U*4"
	case GenI1:
		return "I*1"
	case GenI2:
		return "I*2"
	case GenI4:
		return "I*4"
	case GenR4:
		return "R*4"
	case GenR8:
		return "R*8"
	case GenCn:
		return "C*n"
	case GenBn:
		return "B*n"
	case GenDn:
		return "D*n"
	case GenN1:
		return "N*1"
	default:
		return fmt.Sprintf("type(%d)", uint8(t))
	}
}

// GenericField is one self-describing GDR field. Value holds the Go type
// matching Type: uint8, uint16, uint32, int8, int16, int32, float32, float64,
// string, []byte, BitField, or uint8 for a nibble.
type GenericField struct {
	Type  GenericType `json:"type"`
	Value any         `json:"value"`
}

// UnmarshalJSON restores Value to the Go type its tag calls for. Plain JSON
// numbers would otherwise arrive as float64 and be refused by the encoder.
func (f *GenericField) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type  GenericType     `json:"type"`
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v, err := decodeGenericValue(raw.Type, raw.Value)
	if err != nil {
		return errors.Wrapf(err, "%s value", raw.Type)
	}
	f.Type, f.Value = raw.Type, v
	return nil
}

func decodeGenericValue(t GenericType, data json.RawMessage) (any, error) {
	switch t {
	case GenPad:
		return nil, nil
	case GenU1:
		return unmarshalAs[uint8](data)
	case GenN1:
		v, err := unmarshalAs[uint8](data)
		if err == nil && v > 0x0F {
			return nil, errors.Newf("nibble %d out of range", v)
		}
		return v, err
	case GenU2:
		return unmarshalAs[uint16](data)
	case GenU4:
		return unmarshalAs[uint32](data)
	case GenI1:
		return unmarshalAs[int8](data)
	case GenI2:
		return unmarshalAs[int16](data)
	case GenI4:
		return unmarshalAs[int32](data)
	case GenR4:
		return unmarshalAs[float32](data)
	case GenR8:
		return unmarshalAs[float64](data)
	case GenCn:
		return unmarshalAs[string](data)
	case GenBn:
		return unmarshalAs[[]byte](data)
	case GenDn:
		return unmarshalAs[BitField](data)
	}
	return nil, errors.Newf("unknown generic type %d", uint8(t))
}

func unmarshalAs[T any](data json.RawMessage) (T, error) {
	var v T
	if len(data) == 0 {
		return v, errors.New("missing value")
	}
	err := json.Unmarshal(data, &v)
	return v, err
}

func (f GenericField) String() string {
	return fmt.Sprintf("%s %v", f.Type, f.Value)
}

// GDR is the Generic Data Record. Its fields have no static schema.
type GDR struct {
	Base
	Fields []GenericField `json:"GEN_DATA"`
}

func (*GDR) TypeCode() TypeCode  { return TypeGDR }
func (*GDR) Description() string { return "Generic Data Record" }

// Add appends a field and returns the record for chaining.
func (g *GDR) Add(t GenericType, v any) *GDR {
	g.Fields = append(g.Fields, GenericField{Type: t, Value: v})
	return g
}
