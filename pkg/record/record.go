// Package record defines the STDF record model: record identities, the
// Record interface shared by every record variant, and one struct per STDF V4
// record type.
//
// Record values carry only field storage. The wire layout of each variant
// lives in package schema, which binds every field to its position, width and
// array shape.
package record

import (
	"fmt"
	"strings"
)

// TypeCode is the 16-bit record identity: REC_TYP in the high byte and
// REC_SUB in the low byte.
type TypeCode uint16

// NewTypeCode packs a major and minor type into a TypeCode.
func NewTypeCode(typ, sub uint8) TypeCode {
	return TypeCode(uint16(typ)<<8 | uint16(sub))
}

// Type returns REC_TYP.
func (c TypeCode) Type() uint8 {
	return uint8(c >> 8)
}

// Sub returns REC_SUB.
func (c TypeCode) Sub() uint8 {
	return uint8(c & 0xFF)
}

// String returns the record mnemonic for known V4 codes, otherwise the
// numeric pair.
func (c TypeCode) String() string {
	if name, ok := names[c]; ok {
		return name
	}
	return fmt.Sprintf("REC(%d,%d)", c.Type(), c.Sub())
}

// ParseTypeCode resolves a V4 mnemonic such as "PTR", ignoring case.
func ParseTypeCode(name string) (TypeCode, bool) {
	name = strings.ToUpper(name)
	for code, n := range names {
		if n == name {
			return code, true
		}
	}
	return 0, false
}

// Version identifies the STDF schema binding a record belongs to.
type Version uint8

const (
	V4 Version = 4
)

func (v Version) String() string {
	return fmt.Sprintf("V%d", uint8(v))
}

// Record is implemented by every record variant.
type Record interface {
	TypeCode() TypeCode
	Version() Version
	Description() string
	isRecord()
}

// Base is embedded by every record variant. It supplies the V4 version tag.
// Vendor record types embed it as well to become registrable.
type Base struct{}

func (Base) Version() Version { return V4 }

func (Base) isRecord() {}

// Name returns the mnemonic of r's record type.
func Name(r Record) string {
	return r.TypeCode().String()
}

// V4 record identities.
const (
	TypeFAR TypeCode = 0x000A
	TypeATR TypeCode = 0x0014
	TypeMIR TypeCode = 0x010A
	TypeMRR TypeCode = 0x0114
	TypePCR TypeCode = 0x011E
	TypeHBR TypeCode = 0x0128
	TypeSBR TypeCode = 0x0132
	TypePMR TypeCode = 0x013C
	TypePGR TypeCode = 0x013E
	TypePLR TypeCode = 0x013F
	TypeRDR TypeCode = 0x0146
	TypeSDR TypeCode = 0x0150
	TypeWIR TypeCode = 0x020A
	TypeWRR TypeCode = 0x0214
	TypeWCR TypeCode = 0x021E
	TypePIR TypeCode = 0x050A
	TypePRR TypeCode = 0x0514
	TypeTSR TypeCode = 0x0A1E
	TypePTR TypeCode = 0x0F0A
	TypeMPR TypeCode = 0x0F0F
	TypeFTR TypeCode = 0x0F14
	TypeBPS TypeCode = 0x140A
	TypeEPS TypeCode = 0x1414
	TypeGDR TypeCode = 0x320A
	TypeDTR TypeCode = 0x321E
)

var names = map[TypeCode]string{
	TypeFAR: "FAR",
	TypeATR: "ATR",
	TypeMIR: "MIR",
	TypeMRR: "MRR",
	TypePCR: "PCR",
	TypeHBR: "HBR",
	TypeSBR: "SBR",
	TypePMR: "PMR",
	TypePGR: "PGR",
	TypePLR: "PLR",
	TypeRDR: "RDR",
	TypeSDR: "SDR",
	TypeWIR: "WIR",
	TypeWRR: "WRR",
	TypeWCR: "WCR",
	TypePIR: "PIR",
	TypePRR: "PRR",
	TypeTSR: "TSR",
	TypePTR: "PTR",
	TypeMPR: "MPR",
	TypeFTR: "FTR",
	TypeBPS: "BPS",
	TypeEPS: "EPS",
	TypeGDR: "GDR",
	TypeDTR: "DTR",
}

// BitField is a D*n value: a bit count followed by ceil(Len/8) bytes, first
// bit in the least significant bit of the first byte.
type BitField struct {
	Len  uint16 `json:"len"`
	Bits []byte `json:"bits"`
}

// Bit reports whether bit i is set.
func (b BitField) Bit(i int) bool {
	if i < 0 || i >= int(b.Len) || i/8 >= len(b.Bits) {
		return false
	}
	return b.Bits[i/8]&(1<<(uint(i)%8)) != 0
}

// NewBitField returns a BitField of n bits, all clear.
func NewBitField(n uint16) BitField {
	return BitField{Len: n, Bits: make([]byte, (int(n)+7)/8)}
}

// Set sets bit i.
func (b *BitField) Set(i int) {
	if i < 0 || i >= int(b.Len) {
		return
	}
	b.Bits[i/8] |= 1 << (uint(i) % 8)
}
