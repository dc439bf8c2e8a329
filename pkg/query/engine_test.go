package query

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/stdfkit/pkg/record"
	"github.com/ssargent/stdfkit/pkg/schema"
)

// sliceSource replays records at fake offsets 10, 20, ...
type sliceSource struct {
	recs []record.Record
	pos  int
}

func (s *sliceSource) Next() bool {
	if s.pos >= len(s.recs) {
		return false
	}
	s.pos++
	return true
}

func (s *sliceSource) Record() record.Record { return s.recs[s.pos-1] }
func (s *sliceSource) Offset() int64         { return int64(s.pos * 10) }
func (s *sliceSource) Err() error            { return nil }

func testRecords() []record.Record {
	return []record.Record{
		&record.FAR{CpuType: 2, StdfVer: 4},
		&record.MIR{LotID: "LOT1", StartT: time.Unix(1700000000, 0).UTC(), ModeCod: 'P'},
		&record.PTR{TestNum: 1, Result: 0.5, TestTxt: "iddq"},
		&record.PTR{TestNum: 2, Result: 1.5, TestTxt: "vdd"},
		&record.PTR{TestNum: 3, Result: 2.5, TestTxt: "vdd"},
		&record.PRR{HardBin: 1, SoftBin: 7},
	}
}

func newEngine() *SimpleQueryEngine {
	return NewSimpleQueryEngine(&SchemaFieldExtractor{Registry: schema.MustV4()})
}

func collect(t *testing.T, it QueryIterator) []QueryResult {
	t.Helper()
	var out []QueryResult
	for it.Next() {
		out = append(out, it.Result())
	}
	require.NoError(t, it.Err())
	require.NoError(t, it.Close())
	return out
}

func TestParseFieldQuery(t *testing.T) {
	tests := []struct {
		expr    string
		want    FieldQuery
		wantErr bool
	}{
		{expr: "RESULT>1.5", want: FieldQuery{Field: "RESULT", Operator: ">", Value: "1.5"}},
		{expr: " result >= 2 ", want: FieldQuery{Field: "RESULT", Operator: ">=", Value: "2"}},
		{expr: "TEST_TXT='vdd'", want: FieldQuery{Field: "TEST_TXT", Operator: "=", Value: "vdd"}},
		{expr: "HARD_BIN!=1", want: FieldQuery{Field: "HARD_BIN", Operator: "!=", Value: "1"}},
		{expr: "TEST_NUM<=3", want: FieldQuery{Field: "TEST_NUM", Operator: "<=", Value: "3"}},
		{expr: "TEST_NUM", wantErr: true},
		{expr: "=3", wantErr: true},
		{expr: "A!3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := ParseFieldQuery(tt.expr)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFieldQueries(t *testing.T) {
	qs, err := ParseFieldQueries("")
	require.NoError(t, err)
	assert.Nil(t, qs)

	qs, err = ParseFieldQueries("RESULT>1,TEST_TXT=vdd")
	require.NoError(t, err)
	assert.Len(t, qs, 2)

	_, err = ParseFieldQueries("RESULT>1,bogus")
	assert.Error(t, err)
}

func TestFieldQuery_Validate(t *testing.T) {
	assert.Error(t, (&FieldQuery{Operator: "="}).Validate())
	assert.Error(t, (&FieldQuery{Field: "A"}).Validate())
	assert.Error(t, (&FieldQuery{Field: "A", Operator: "~"}).Validate())
	assert.NoError(t, (&FieldQuery{Field: "A", Operator: "!="}).Validate())
}

func TestSchemaFieldExtractor(t *testing.T) {
	e := &SchemaFieldExtractor{Registry: schema.MustV4()}
	ptr := &record.PTR{Result: 1.25, TestTxt: "t"}

	v, err := e.Extract(ptr, "RESULT")
	require.NoError(t, err)
	assert.Equal(t, float32(1.25), v)

	_, err = e.Extract(ptr, "NOPE")
	assert.ErrorIs(t, err, ErrFieldNotFound)

	_, err = e.Extract(&record.PLR{}, "GRP_INDX")
	assert.ErrorContains(t, err, "array")
}

func TestExecuteQuery(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		queries []FieldQuery
		want    []int64
	}{
		{"numeric greater", []FieldQuery{{Field: "RESULT", Operator: ">", Value: "1"}}, []int64{40, 50}},
		{"numeric typed value", []FieldQuery{{Field: "RESULT", Operator: "<", Value: 1.0}}, []int64{30}},
		{"string equality", []FieldQuery{{Field: "TEST_TXT", Operator: "=", Value: "vdd"}}, []int64{40, 50}},
		{"conjunction", []FieldQuery{
			{Field: "TEST_TXT", Operator: "=", Value: "vdd"},
			{Field: "TEST_NUM", Operator: "!=", Value: "2"},
		}, []int64{50}},
		{"char field", []FieldQuery{{Field: "MODE_COD", Operator: "=", Value: "P"}}, []int64{20}},
		{"time field", []FieldQuery{{Field: "START_T", Operator: ">=", Value: "2023-11-14T22:13:20Z"}}, []int64{20}},
		{"unix time", []FieldQuery{{Field: "START_T", Operator: "<", Value: "1700000000"}}, nil},
		{"no query matches all", nil, []int64{10, 20, 30, 40, 50, 60}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it, err := newEngine().ExecuteQuery(ctx, &sliceSource{recs: testRecords()}, tt.queries...)
			require.NoError(t, err)

			var offsets []int64
			for _, r := range collect(t, it) {
				offsets = append(offsets, r.Offset)
			}
			assert.Equal(t, tt.want, offsets)
		})
	}
}

func TestExecuteRangeQuery(t *testing.T) {
	it, err := newEngine().ExecuteRangeQuery(context.Background(), &sliceSource{recs: testRecords()}, "RESULT", 1.0, "2.5")
	require.NoError(t, err)

	results := collect(t, it)
	require.Len(t, results, 2)
	assert.Equal(t, uint32(2), results[0].Record.(*record.PTR).TestNum)
	assert.Equal(t, uint32(3), results[1].Record.(*record.PTR).TestNum)
}

func TestExecuteQuery_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := newEngine().ExecuteQuery(ctx, &sliceSource{}, FieldQuery{Field: "RESULT", Operator: "~"})
	assert.Error(t, err)

	it, err := newEngine().ExecuteQuery(ctx, &sliceSource{recs: testRecords()},
		FieldQuery{Field: "RESULT", Operator: ">", Value: "high"})
	require.NoError(t, err)
	assert.False(t, it.Next())
	assert.ErrorContains(t, it.Err(), "not a number")

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	it, err = newEngine().ExecuteQuery(cancelled, &sliceSource{recs: testRecords()})
	require.NoError(t, err)
	assert.False(t, it.Next())
	assert.ErrorIs(t, it.Err(), context.Canceled)
}
