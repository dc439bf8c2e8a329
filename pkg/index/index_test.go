package index

import (
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/stdfkit/pkg/cursor"
	"github.com/ssargent/stdfkit/pkg/metrics"
	"github.com/ssargent/stdfkit/pkg/record"
	"github.com/ssargent/stdfkit/pkg/schema"
	"github.com/ssargent/stdfkit/pkg/stdfile"
)

func writeFile(t *testing.T, order cursor.ByteOrder, recs ...record.Record) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lot.stdf")

	cfg := cursor.DefaultConfig()
	cfg.ByteOrder = order
	w, err := stdfile.Create(schema.MustV4(), stdfile.WriterConfig{FilePath: path, Cursor: cfg})
	require.NoError(t, err)
	require.NoError(t, w.WriteAll(recs...))
	require.NoError(t, w.Close())
	return path
}

func wafer() []record.Record {
	return []record.Record{
		&record.FAR{CpuType: 2, StdfVer: 4},
		&record.MIR{LotID: "LOT42"},
		&record.PIR{HeadNum: 1, SiteNum: 0},
		&record.PTR{TestNum: 100, Result: 0.5},
		&record.PTR{TestNum: 101, Result: 1.5},
		&record.PRR{HeadNum: 1, PartID: "1"},
		&record.PIR{HeadNum: 1, SiteNum: 1},
		&record.PTR{TestNum: 100, Result: 0.7},
		&record.PTR{TestNum: 101, Result: 1.7},
		&record.PRR{HeadNum: 1, PartID: "2"},
		&record.MRR{},
	}
}

func openIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := Open(Options{Dir: filepath.Join(t.TempDir(), "index")})
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })
	return idx
}

func TestIndex_AddAndRead(t *testing.T) {
	idx := openIndex(t)
	path := writeFile(t, cursor.LittleEndian, wafer()...)

	meta, err := idx.Add(path)
	require.NoError(t, err)
	assert.Equal(t, path, meta.Path)
	assert.Equal(t, 11, meta.Records)
	assert.Equal(t, 4, meta.ByType["PTR"])
	assert.Equal(t, "little", meta.ByteOrder)

	got, err := idx.File(meta.ID)
	require.NoError(t, err)
	assert.Equal(t, meta.Records, got.Records)
	assert.Equal(t, meta.Size, got.Size)

	entries, err := idx.Entries(meta.ID, record.TypePTR)
	require.NoError(t, err)
	require.Len(t, entries, 4)
	for i, e := range entries {
		assert.Equal(t, uint32(i), e.Seq)
		assert.Equal(t, record.TypePTR, e.Code)
	}
	assert.Less(t, entries[0].Offset, entries[1].Offset)

	rec, err := idx.ReadRecord(meta.ID, record.TypePTR, 2)
	require.NoError(t, err)
	ptr, ok := rec.(*record.PTR)
	require.True(t, ok)
	assert.Equal(t, uint32(100), ptr.TestNum)
	assert.Equal(t, float32(0.7), ptr.Result)

	prr, err := idx.ReadRecord(meta.ID, record.TypePRR, 1)
	require.NoError(t, err)
	assert.Equal(t, "2", prr.(*record.PRR).PartID)

	codes, err := idx.Codes(meta.ID)
	require.NoError(t, err)
	assert.Equal(t, []record.TypeCode{
		record.TypeFAR, record.TypeMIR, record.TypeMRR, record.TypePIR, record.TypePRR, record.TypePTR,
	}, codes)
}

func TestIndex_EntryLength(t *testing.T) {
	idx := openIndex(t)
	path := writeFile(t, cursor.LittleEndian, wafer()...)

	meta, err := idx.Add(path)
	require.NoError(t, err)

	far, err := idx.Lookup(meta.ID, record.TypeFAR, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), far.Offset)
	assert.Equal(t, uint32(6), far.Length)

	mir, err := idx.Lookup(meta.ID, record.TypeMIR, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(6), mir.Offset)
}

func TestIndex_BigEndianFile(t *testing.T) {
	idx := openIndex(t)
	recs := wafer()
	recs[0] = &record.FAR{CpuType: 1, StdfVer: 4}
	path := writeFile(t, cursor.BigEndian, recs...)

	meta, err := idx.Add(path)
	require.NoError(t, err)
	assert.Equal(t, "big", meta.ByteOrder)

	rec, err := idx.ReadRecord(meta.ID, record.TypePTR, 3)
	require.NoError(t, err)
	assert.Equal(t, uint32(101), rec.(*record.PTR).TestNum)
}

func TestIndex_NotFound(t *testing.T) {
	idx := openIndex(t)
	path := writeFile(t, cursor.LittleEndian, wafer()...)
	meta, err := idx.Add(path)
	require.NoError(t, err)

	_, err = idx.File("not-a-ksuid")
	assert.True(t, errors.Is(err, ErrFileNotFound))

	_, err = idx.File("0ujtsYcgvSTl8PAuAdqWYSMnLOv")
	assert.True(t, errors.Is(err, ErrFileNotFound))

	_, err = idx.ReadRecord(meta.ID, record.TypePTR, 99)
	assert.True(t, errors.Is(err, ErrEntryNotFound))

	entries, err := idx.Entries(meta.ID, record.TypeGDR)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestIndex_FilesAndRemove(t *testing.T) {
	reg := prometheus.NewRegistry()
	idx, err := Open(Options{Dir: filepath.Join(t.TempDir(), "index"), Metrics: metrics.New(reg)})
	require.NoError(t, err)
	defer idx.Close()

	a, err := idx.Add(writeFile(t, cursor.LittleEndian, wafer()...))
	require.NoError(t, err)
	b, err := idx.Add(writeFile(t, cursor.LittleEndian, wafer()[:3]...))
	require.NoError(t, err)

	files, err := idx.Files()
	require.NoError(t, err)
	require.Len(t, files, 2)

	ids := []string{files[0].ID, files[1].ID}
	assert.ElementsMatch(t, []string{a.ID, b.ID}, ids)

	require.NoError(t, idx.Remove(a.ID))

	files, err = idx.Files()
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, b.ID, files[0].ID)

	entries, err := idx.Entries(a.ID, record.TypePTR)
	require.NoError(t, err)
	assert.Empty(t, entries)

	// b is untouched
	_, err = idx.ReadRecord(b.ID, record.TypePIR, 0)
	require.NoError(t, err)

	assert.True(t, errors.Is(idx.Remove(a.ID), ErrFileNotFound))
}

func TestIndex_Reopen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "index")
	path := writeFile(t, cursor.LittleEndian, wafer()...)

	idx, err := Open(Options{Dir: dir})
	require.NoError(t, err)
	meta, err := idx.Add(path)
	require.NoError(t, err)
	require.NoError(t, idx.Close())

	idx, err = Open(Options{Dir: dir})
	require.NoError(t, err)
	defer idx.Close()

	rec, err := idx.ReadRecord(meta.ID, record.TypeMIR, 0)
	require.NoError(t, err)
	assert.Equal(t, "LOT42", rec.(*record.MIR).LotID)
}

func TestPrefixEnd(t *testing.T) {
	assert.Equal(t, []byte("f0"), prefixEnd([]byte("f/")))
	assert.Equal(t, []byte{0x01}, prefixEnd([]byte{0x00, 0xFF}))
	assert.Nil(t, prefixEnd([]byte{0xFF, 0xFF}))
}
