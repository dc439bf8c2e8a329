package codec

import (
	"fmt"

	"github.com/ssargent/stdfkit/pkg/cursor"
	"github.com/ssargent/stdfkit/pkg/record"
)

// HeaderSize is the encoded size of a record header.
const HeaderSize = 4

// Header precedes every record: the body length, which excludes the header
// itself, then REC_TYP and REC_SUB.
type Header struct {
	Length uint16
	Type   uint8
	Sub    uint8
}

// Code returns the record identity the header announces.
func (h Header) Code() record.TypeCode {
	return record.NewTypeCode(h.Type, h.Sub)
}

func (h Header) String() string {
	return fmt.Sprintf("%s len=%d", h.Code(), h.Length)
}

// ReadHeader reads a header at the reader's position.
func ReadHeader(r *cursor.Reader) (Header, error) {
	var h Header
	var err error
	if h.Length, err = r.U2(); err != nil {
		return Header{}, err
	}
	if h.Type, err = r.U1(); err != nil {
		return Header{}, err
	}
	if h.Sub, err = r.U1(); err != nil {
		return Header{}, err
	}
	return h, nil
}

// WriteHeader writes h at the writer's position.
func WriteHeader(w *cursor.Writer, h Header) error {
	if err := w.U2(h.Length); err != nil {
		return err
	}
	if err := w.U1(h.Type); err != nil {
		return err
	}
	return w.U1(h.Sub)
}
