package index

import (
	"encoding/binary"

	"github.com/cockroachdb/errors"
	"github.com/segmentio/ksuid"

	"github.com/ssargent/stdfkit/pkg/record"
)

// Key layout:
//
//	f/<id>                     -> FileMeta as JSON
//	r/<id>/<code:2><seq:4>     -> offset:8 length:4
//
// <id> is the 27 character KSUID string. Integers are big endian so keys
// sort by record type, then by occurrence.
const (
	filePrefix  = "f/"
	entryPrefix = "r/"
	entryValLen = 12
)

func fileKey(id ksuid.KSUID) []byte {
	return append([]byte(filePrefix), id.String()...)
}

func fileEntriesPrefix(id ksuid.KSUID) []byte {
	k := append([]byte(entryPrefix), id.String()...)
	return append(k, '/')
}

func codePrefix(id ksuid.KSUID, code record.TypeCode) []byte {
	return binary.BigEndian.AppendUint16(fileEntriesPrefix(id), uint16(code))
}

func entryKey(id ksuid.KSUID, code record.TypeCode, seq uint32) []byte {
	return binary.BigEndian.AppendUint32(codePrefix(id, code), seq)
}

// prefixEnd returns the smallest key greater than every key starting with p.
func prefixEnd(p []byte) []byte {
	end := append([]byte(nil), p...)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}

func encodeEntry(e Entry) []byte {
	v := make([]byte, 0, entryValLen)
	v = binary.BigEndian.AppendUint64(v, uint64(e.Offset))
	return binary.BigEndian.AppendUint32(v, e.Length)
}

func decodeEntry(key, val []byte) (Entry, error) {
	if len(val) != entryValLen || len(key) < 6 {
		return Entry{}, errors.Newf("corrupt index entry %q", key)
	}
	tail := key[len(key)-6:]
	return Entry{
		Code:   record.TypeCode(binary.BigEndian.Uint16(tail)),
		Seq:    binary.BigEndian.Uint32(tail[2:]),
		Offset: int64(binary.BigEndian.Uint64(val)),
		Length: binary.BigEndian.Uint32(val[8:]),
	}, nil
}
