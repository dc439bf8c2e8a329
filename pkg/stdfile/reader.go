package stdfile

import (
	"bufio"
	"io"
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/ssargent/stdfkit/pkg/codec"
	"github.com/ssargent/stdfkit/pkg/cursor"
	"github.com/ssargent/stdfkit/pkg/record"
	"github.com/ssargent/stdfkit/pkg/schema"
)

// Reader provides sequential access to the records of an STDF stream
type Reader struct {
	closer   io.Closer
	cur      *cursor.Reader
	codec    *codec.RecordCodec
	config   ReaderConfig
	observer Observer
	sugar    *zap.SugaredLogger

	offset int64 // header offset of the last record returned
	stats  Stats
}

// Open opens config.FilePath for reading.
func Open(reg *schema.Registry, config ReaderConfig) (*Reader, error) {
	file, err := os.Open(config.FilePath)
	if err != nil {
		return nil, err
	}

	r, err := NewReader(file, reg, config)
	if err != nil {
		file.Close()
		return nil, err
	}
	r.closer = file
	return r, nil
}

// NewReader creates a reader over rd. When config.DetectByteOrder is set the
// leading FAR record decides the byte order; otherwise config.Cursor does.
func NewReader(rd io.Reader, reg *schema.Registry, config ReaderConfig) (*Reader, error) {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	observer := config.Observer
	if observer == nil {
		observer = nopObserver{}
	}
	r := &Reader{
		codec:    codec.NewRecordCodec(reg, config.Codec),
		config:   config,
		observer: observer,
		sugar:    logger.Sugar(),
		offset:   -1,
		stats:    Stats{ByType: make(map[record.TypeCode]int)},
	}

	if config.DetectByteOrder {
		head, src, err := peekHead(rd)
		if err != nil {
			return nil, err
		}
		rd = src
		if order, ok := DetectByteOrder(head); ok {
			config.Cursor.ByteOrder = order
			r.config.Cursor.ByteOrder = order
		} else {
			r.sugar.Debugw("no leading FAR, keeping configured byte order", "order", config.Cursor.ByteOrder.String())
		}
	}

	cur, err := cursor.NewReader(rd, config.Cursor)
	if err != nil {
		return nil, err
	}
	r.cur = cur

	// Move to the start offset if specified
	if config.StartOffset > 0 {
		if err := cur.SeekTo(config.StartOffset); err != nil {
			return nil, errors.Wrapf(err, "start offset %d", config.StartOffset)
		}
	}
	r.stats.ByteOrder = config.Cursor.ByteOrder
	return r, nil
}

// ReadNext decodes the next record. Records of unknown type are skipped. It
// returns io.EOF once the stream ends on a record boundary; any other failure
// is a *RecordError.
func (r *Reader) ReadNext() (record.Record, error) {
	for {
		if r.cur.EOF() {
			return nil, io.EOF
		}
		start := r.cur.Position()

		h, err := codec.ReadHeader(r.cur)
		if err != nil {
			return nil, &RecordError{Offset: start, Err: err}
		}
		end := start + codec.HeaderSize + int64(h.Length)

		began := time.Now()
		rec, known, err := r.codec.Decode(r.cur, h)
		if err != nil {
			// The declared length lets us resync only when the body was read whole.
			if r.config.SkipMalformed && r.cur.Position() == end {
				r.stats.Malformed++
				r.stats.Bytes += end - start
				r.observer.ObserveSkipped(SkipMalformed)
				r.sugar.Warnw("skipping malformed record", "offset", start, "record", h.Code().String(), "err", err)
				continue
			}
			return nil, &RecordError{Offset: start, Code: h.Code(), Err: err}
		}
		r.stats.Bytes += end - start

		if !known {
			r.stats.Unknown++
			r.observer.ObserveSkipped(SkipUnknown)
			r.sugar.Debugw("skipping unknown record", "offset", start, "record", h.Code().String(), "length", h.Length)
			continue
		}

		name := record.Name(rec)
		r.stats.Records++
		r.stats.ByType[h.Code()]++
		r.observer.ObserveDecoded(name, time.Since(began))
		r.offset = start
		return rec, nil
	}
}

// ReadAt decodes the record whose header starts at offset. The source must be
// seekable for offsets behind the current position.
func (r *Reader) ReadAt(offset int64) (record.Record, error) {
	if err := r.SeekTo(offset); err != nil {
		return nil, err
	}

	h, err := codec.ReadHeader(r.cur)
	if err != nil {
		return nil, &RecordError{Offset: offset, Err: err}
	}
	rec, known, err := r.codec.Decode(r.cur, h)
	if err != nil {
		return nil, &RecordError{Offset: offset, Code: h.Code(), Err: err}
	}
	if !known {
		return nil, &RecordError{Offset: offset, Code: h.Code(), Err: codec.ErrUnknownRecord}
	}
	r.offset = offset
	return rec, nil
}

// SeekTo sets the read offset. It must point at a record header.
func (r *Reader) SeekTo(offset int64) error {
	return r.cur.SeekTo(offset)
}

// Offset returns the header offset of the last record returned, or -1.
func (r *Reader) Offset() int64 {
	return r.offset
}

// Position returns the offset of the next header to be read.
func (r *Reader) Position() int64 {
	return r.cur.Position()
}

// ByteOrder returns the byte order in use.
func (r *Reader) ByteOrder() cursor.ByteOrder {
	return r.config.Cursor.ByteOrder
}

// Registry returns the registry records are decoded with.
func (r *Reader) Registry() *schema.Registry {
	return r.codec.Registry()
}

// Stats returns a snapshot of the reader's counters.
func (r *Reader) Stats() Stats {
	return r.stats.clone()
}

// Iterator returns a streaming iterator for records
func (r *Reader) Iterator() RecordIterator {
	return &recordIterator{reader: r}
}

// Close closes the underlying file, if the reader opened one
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

// recordIterator implements RecordIterator for streaming access
type recordIterator struct {
	reader *Reader
	record record.Record
	err    error
}

func (it *recordIterator) Next() bool {
	if it.err != nil {
		return false
	}
	it.record, it.err = it.reader.ReadNext()
	return it.err == nil
}

func (it *recordIterator) Record() record.Record {
	return it.record
}

func (it *recordIterator) Offset() int64 {
	return it.reader.Offset()
}

// Err returns the error that stopped iteration, nil at a clean end of stream.
func (it *recordIterator) Err() error {
	if errors.Is(it.err, io.EOF) {
		return nil
	}
	return it.err
}

func (it *recordIterator) Close() error {
	// Don't close the underlying reader as it's owned by the caller
	return nil
}

// HeaderSizeFAR is the size of a FAR record, header included.
const HeaderSizeFAR = codec.HeaderSize + 2

// DetectByteOrder inspects the first bytes of a stream. STDF V4 files open
// with a FAR whose CPU_TYPE is 1 on big-endian writers and 2 on little-endian
// ones. ok is false when head does not start with a FAR.
func DetectByteOrder(head []byte) (order cursor.ByteOrder, ok bool) {
	if len(head) < HeaderSizeFAR {
		return cursor.LittleEndian, false
	}
	if code := record.NewTypeCode(head[2], head[3]); code != record.TypeFAR {
		return cursor.LittleEndian, false
	}
	switch {
	case head[0] == 2 && head[1] == 0, head[0] == 0 && head[1] == 2:
	default:
		return cursor.LittleEndian, false
	}
	if head[4] == 1 {
		return cursor.BigEndian, true
	}
	return cursor.LittleEndian, true
}

// peekHead returns the first bytes of rd without consuming them, and the
// reader to continue from.
func peekHead(rd io.Reader) ([]byte, io.Reader, error) {
	head := make([]byte, HeaderSizeFAR)
	if s, ok := rd.(io.ReadSeeker); ok {
		pos, err := s.Seek(0, io.SeekCurrent)
		if err != nil {
			return nil, nil, err
		}
		n, _ := io.ReadFull(s, head)
		if _, err := s.Seek(pos, io.SeekStart); err != nil {
			return nil, nil, err
		}
		return head[:n], rd, nil
	}

	br, ok := rd.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(rd)
	}
	peeked, _ := br.Peek(HeaderSizeFAR)
	return peeked, br, nil
}
