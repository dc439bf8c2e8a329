// Package index keeps a persistent map from STDF files to the offsets of
// their records, so single records can be re-read without scanning a file.
package index

import (
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pebble"
	"github.com/goccy/go-json"
	"github.com/segmentio/ksuid"
	"go.uber.org/zap"

	"github.com/ssargent/stdfkit/pkg/cursor"
	"github.com/ssargent/stdfkit/pkg/metrics"
	"github.com/ssargent/stdfkit/pkg/record"
	"github.com/ssargent/stdfkit/pkg/schema"
	"github.com/ssargent/stdfkit/pkg/stdfile"
)

var (
	// ErrFileNotFound is returned for file IDs the index does not hold.
	ErrFileNotFound = errors.New("file not indexed")
	// ErrEntryNotFound is returned when a file has no record at the requested position.
	ErrEntryNotFound = errors.New("record not indexed")
)

// Options configures an Index.
type Options struct {
	Dir      string           // Pebble directory
	Registry *schema.Registry // Defaults to schema.MustV4()
	Cursor   cursor.Config    // Used when a file carries no FAR to detect from
	Logger   *zap.Logger
	Metrics  *metrics.Metrics
}

// FileMeta describes an indexed file.
type FileMeta struct {
	ID        string         `json:"id"`
	Path      string         `json:"path"`
	Size      int64          `json:"size"`
	Records   int            `json:"records"`
	Unknown   int            `json:"unknown"`
	ByType    map[string]int `json:"by_type"`
	ByteOrder string         `json:"byte_order"`
	IndexedAt time.Time      `json:"indexed_at"`
}

// Entry locates one record inside an indexed file. Seq counts records of
// the same type from zero.
type Entry struct {
	Code   record.TypeCode `json:"-"`
	Seq    uint32          `json:"seq"`
	Offset int64           `json:"offset"`
	Length uint32          `json:"length"`
}

// Index is a pebble-backed record offset index. It is safe for concurrent use.
type Index struct {
	db      *pebble.DB
	reg     *schema.Registry
	cursor  cursor.Config
	sugar   *zap.SugaredLogger
	metrics *metrics.Metrics
}

// Open opens or creates the index stored in opts.Dir.
func Open(opts Options) (*Index, error) {
	if err := os.MkdirAll(opts.Dir, 0750); err != nil {
		return nil, err
	}
	db, err := pebble.Open(opts.Dir, &pebble.Options{})
	if err != nil {
		return nil, errors.Wrapf(err, "open index %s", opts.Dir)
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	reg := opts.Registry
	if reg == nil {
		reg = schema.MustV4()
	}

	idx := &Index{
		db:      db,
		reg:     reg,
		cursor:  opts.Cursor,
		sugar:   logger.Sugar(),
		metrics: opts.Metrics,
	}
	if files, err := idx.Files(); err == nil {
		idx.metrics.SetIndexedFiles(len(files))
	}
	return idx, nil
}

// Add scans the STDF file at path and indexes every record of a known type.
// Records are committed in one batch, so a failed scan leaves no trace.
func (idx *Index) Add(path string) (meta FileMeta, err error) {
	defer func() { idx.metrics.RecordIndexOperation("add", err == nil) }()

	abs, err := filepath.Abs(path)
	if err != nil {
		return FileMeta{}, err
	}
	r, err := stdfile.Open(idx.reg, stdfile.ReaderConfig{
		FilePath:        abs,
		Cursor:          idx.cursor,
		DetectByteOrder: true,
		Logger:          idx.sugar.Desugar(),
		Observer:        idx.metrics,
	})
	if err != nil {
		return FileMeta{}, err
	}
	defer r.Close()

	id := ksuid.New()
	batch := idx.db.NewBatch()
	defer batch.Close()

	seqs := make(map[record.TypeCode]uint32)
	it := r.Iterator()
	for it.Next() {
		code := it.Record().TypeCode()
		e := Entry{
			Code:   code,
			Seq:    seqs[code],
			Offset: it.Offset(),
			Length: uint32(r.Position() - it.Offset()),
		}
		seqs[code]++
		if err := batch.Set(entryKey(id, code, e.Seq), encodeEntry(e), nil); err != nil {
			return FileMeta{}, err
		}
	}
	if err := it.Err(); err != nil {
		return FileMeta{}, errors.Wrapf(err, "index %s", abs)
	}

	stats := r.Stats()
	meta = FileMeta{
		ID:        id.String(),
		Path:      abs,
		Size:      stats.Bytes,
		Records:   stats.Records,
		Unknown:   stats.Unknown,
		ByType:    make(map[string]int, len(stats.ByType)),
		ByteOrder: r.ByteOrder().String(),
		IndexedAt: time.Now().UTC(),
	}
	for code, n := range stats.ByType {
		meta.ByType[code.String()] = n
	}

	data, err := json.Marshal(meta)
	if err != nil {
		return FileMeta{}, err
	}
	if err := batch.Set(fileKey(id), data, nil); err != nil {
		return FileMeta{}, err
	}
	if err := batch.Commit(pebble.Sync); err != nil {
		return FileMeta{}, err
	}

	idx.sugar.Infow("indexed stdf file", "id", meta.ID, "path", abs, "records", meta.Records)
	if files, err := idx.Files(); err == nil {
		idx.metrics.SetIndexedFiles(len(files))
	}
	return meta, nil
}

// Files lists indexed files ordered by ID, which is creation order.
func (idx *Index) Files() ([]FileMeta, error) {
	iter, err := idx.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte(filePrefix),
		UpperBound: prefixEnd([]byte(filePrefix)),
	})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	files := []FileMeta{}
	for iter.First(); iter.Valid(); iter.Next() {
		var meta FileMeta
		if err := json.Unmarshal(iter.Value(), &meta); err != nil {
			return nil, errors.Wrapf(err, "decode %q", iter.Key())
		}
		files = append(files, meta)
	}
	return files, iter.Error()
}

// File returns the metadata of one indexed file.
func (idx *Index) File(id string) (FileMeta, error) {
	kid, err := parseID(id)
	if err != nil {
		return FileMeta{}, err
	}
	data, closer, err := idx.db.Get(fileKey(kid))
	if errors.Is(err, pebble.ErrNotFound) {
		return FileMeta{}, errors.Wrapf(ErrFileNotFound, "%s", id)
	}
	if err != nil {
		return FileMeta{}, err
	}
	defer closer.Close()

	var meta FileMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return FileMeta{}, err
	}
	return meta, nil
}

// Entries returns the positions of every record of type code in file id.
func (idx *Index) Entries(id string, code record.TypeCode) ([]Entry, error) {
	kid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	prefix := codePrefix(kid, code)
	iter, err := idx.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: prefixEnd(prefix),
	})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	entries := []Entry{}
	for iter.First(); iter.Valid(); iter.Next() {
		e, err := decodeEntry(iter.Key(), iter.Value())
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, iter.Error()
}

// Lookup returns the position of the seq-th record of type code in file id.
func (idx *Index) Lookup(id string, code record.TypeCode, seq uint32) (Entry, error) {
	kid, err := parseID(id)
	if err != nil {
		return Entry{}, err
	}
	key := entryKey(kid, code, seq)
	val, closer, err := idx.db.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return Entry{}, errors.Wrapf(ErrEntryNotFound, "%s %s #%d", id, code, seq)
	}
	if err != nil {
		return Entry{}, err
	}
	defer closer.Close()
	return decodeEntry(key, val)
}

// ReadRecord re-decodes the seq-th record of type code in file id straight
// from its offset.
func (idx *Index) ReadRecord(id string, code record.TypeCode, seq uint32) (record.Record, error) {
	meta, err := idx.File(id)
	if err != nil {
		return nil, err
	}
	e, err := idx.Lookup(id, code, seq)
	if err != nil {
		return nil, err
	}

	cfg := idx.cursor
	if cfg.ByteOrder, err = cursor.ParseByteOrder(meta.ByteOrder); err != nil {
		return nil, err
	}
	r, err := stdfile.Open(idx.reg, stdfile.ReaderConfig{FilePath: meta.Path, Cursor: cfg})
	if err != nil {
		return nil, err
	}
	defer r.Close()

	rec, err := r.ReadAt(e.Offset)
	if err != nil {
		return nil, err
	}
	if rec.TypeCode() != code {
		return nil, errors.Newf("%s changed on disk: expected %s at offset %d, found %s",
			meta.Path, code, e.Offset, rec.TypeCode())
	}
	return rec, nil
}

// Codes returns the record types present in file id, sorted.
func (idx *Index) Codes(id string) ([]record.TypeCode, error) {
	meta, err := idx.File(id)
	if err != nil {
		return nil, err
	}
	codes := make([]record.TypeCode, 0, len(meta.ByType))
	for name := range meta.ByType {
		if code, ok := record.ParseTypeCode(name); ok {
			codes = append(codes, code)
		}
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes, nil
}

// Remove drops file id and all its entries.
func (idx *Index) Remove(id string) (err error) {
	defer func() { idx.metrics.RecordIndexOperation("remove", err == nil) }()

	if _, err := idx.File(id); err != nil {
		return err
	}
	kid, _ := parseID(id)

	batch := idx.db.NewBatch()
	defer batch.Close()
	prefix := fileEntriesPrefix(kid)
	if err := batch.DeleteRange(prefix, prefixEnd(prefix), nil); err != nil {
		return err
	}
	if err := batch.Delete(fileKey(kid), nil); err != nil {
		return err
	}
	if err := batch.Commit(pebble.Sync); err != nil {
		return err
	}

	if files, err := idx.Files(); err == nil {
		idx.metrics.SetIndexedFiles(len(files))
	}
	return nil
}

// Close closes the underlying database
func (idx *Index) Close() error {
	return idx.db.Close()
}

func parseID(id string) (ksuid.KSUID, error) {
	kid, err := ksuid.Parse(id)
	if err != nil {
		return ksuid.Nil, errors.Wrapf(ErrFileNotFound, "invalid file id %q", id)
	}
	return kid, nil
}
