package codec

import (
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/ssargent/stdfkit/pkg/record"
)

var (
	// ErrMalformedGenericRecord is returned for GDR bodies with an unknown
	// type tag or a misaligned value.
	ErrMalformedGenericRecord = errors.New("malformed generic data record")
	// ErrCountMismatch is returned by Encode when an array's length differs
	// from the value of its count field.
	ErrCountMismatch = errors.New("array length does not match count field")
	// ErrRecordTooLarge is returned by Encode when a body exceeds 65535 bytes.
	ErrRecordTooLarge = errors.New("record body exceeds 65535 bytes")
	// ErrFieldType is returned when a value's Go type does not fit its field
	// or GDR tag.
	ErrFieldType = errors.New("value type does not match field type")
	// ErrUnknownRecord is returned by Encode for records the registry does not
	// describe.
	ErrUnknownRecord = errors.New("record type not registered")
)

// GenericRecordError locates a GDR decoding failure. It matches
// ErrMalformedGenericRecord with errors.Is.
type GenericRecordError struct {
	Offset int64
	Tag    record.GenericType
	Reason string
}

func (e *GenericRecordError) Error() string {
	return fmt.Sprintf("%s at offset %d: %s (tag %d)", ErrMalformedGenericRecord, e.Offset, e.Reason, uint8(e.Tag))
}

func (e *GenericRecordError) Is(target error) bool {
	return target == ErrMalformedGenericRecord
}
