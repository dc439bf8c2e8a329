// Package codec reads and writes STDF V4 records.
//
// A record is a four byte header followed by a body:
//
//	[REC_LEN(2)][REC_TYP(1)][REC_SUB(1)][body: REC_LEN bytes]
//
// REC_LEN counts body bytes only. Multi-byte values use the byte order of the
// cursor configuration; STDF files announce it through the CPU_TYPE field of
// the leading FAR record.
//
// # Bodies
//
// The body layout comes from a schema.Registry. Fields are read and written in
// ascending Order. Arrays take their element count from
//   - the schema, for fixed arrays,
//   - an earlier count field of the same record, for counted arrays,
//   - a one-byte prefix on the wire, for prefixed arrays.
//
// N*1 arrays pack two nibbles per byte, low nibble first. D*n bit fields carry
// a U*2 bit count followed by ceil(n/8) bytes.
//
// Decode always leaves the cursor at the end of the declared body: bytes a
// layout does not consume are skipped, and identities missing from the
// registry are skipped whole and reported as unknown rather than failing.
//
// # Generic Data Records
//
// GDR bodies have no static layout. They hold a U*2 field count and then, for
// each field, a type tag and a value. Values of the two, four and eight byte
// numeric types must start on an even offset counted from the first byte
// after the field count; writers insert a zero pad byte before the tag when
// needed. Pads are not counted and are not kept in the decoded record.
//
// # Encoding
//
// Encode assembles the whole record in memory, patches REC_LEN once the body
// length is known and hands the result to the sink in one write. Sinks need
// not be seekable. Bodies over 65535 bytes fail with ErrRecordTooLarge, and a
// counted array whose length differs from its count field fails with
// ErrCountMismatch.
//
// # Usage
//
//	c := codec.NewRecordCodec(schema.MustV4(), codec.Options{})
//
//	data, err := c.Marshal(&record.PIR{HeadNum: 1, SiteNum: 2}, cursor.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//
//	rec, err := c.Unmarshal(data, cursor.DefaultConfig())
//
// # Thread Safety
//
// RecordCodec instances are safe for concurrent use. Cursors are not.
package codec
