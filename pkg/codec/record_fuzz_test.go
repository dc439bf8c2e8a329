//go:build fuzz
// +build fuzz

package codec

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/ssargent/stdfkit/pkg/cursor"
	"github.com/ssargent/stdfkit/pkg/schema"
)

// FuzzRecordCodec_Decode feeds arbitrary streams to the decoder. Decoding may
// fail but must not panic, and anything it accepts must survive a re-encode.
func FuzzRecordCodec_Decode(f *testing.F) {
	c := NewRecordCodec(schema.MustV4(), Options{})
	cfg := cursor.DefaultConfig()

	for _, rec := range sampleRecords() {
		data, err := c.Marshal(rec, cfg)
		if err != nil {
			f.Fatal(err)
		}
		f.Add(data)
	}
	f.Add([]byte{0x06, 0x00, 0x32, 0x0A, 0x01, 0x00, 0x00, 0x02, 0x01, 0x00})
	f.Add([]byte{0x03, 0x00, 0xB4, 0x01, 0xAA})

	f.Fuzz(func(t *testing.T, data []byte) {
		r, err := cursor.NewBytesReader(data, cfg)
		if err != nil {
			t.Fatal(err)
		}
		for !r.EOF() {
			start := r.Position()
			h, err := ReadHeader(r)
			if err != nil {
				return
			}
			rec, known, err := c.Decode(r, h)
			if err != nil {
				return
			}
			if r.Position() != start+HeaderSize+int64(h.Length) {
				t.Fatalf("cursor at %d after %s at %d", r.Position(), h, start)
			}
			if !known {
				continue
			}

			out, err := c.Marshal(rec, cfg)
			if err != nil {
				// Counts decoded from the wire always match their arrays.
				t.Fatalf("re-encode %s failed: %v", h, err)
			}
			again, err := c.Unmarshal(out, cfg)
			if err != nil {
				t.Fatalf("decode of re-encoded %s failed: %v", h, err)
			}
			if diff := cmp.Diff(rec, again, cmpopts.EquateEmpty(), cmpopts.EquateNaNs()); diff != "" {
				t.Fatalf("%s changed across re-encode:\n%s\ninput % X", h, diff, bytes.Clone(data))
			}
		}
	})
}
