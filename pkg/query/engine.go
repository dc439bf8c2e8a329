package query

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/ssargent/stdfkit/pkg/record"
)

// SimpleQueryEngine evaluates field queries over a record stream
type SimpleQueryEngine struct {
	extractor FieldExtractor
}

var _ QueryEngine = (*SimpleQueryEngine)(nil)

// NewSimpleQueryEngine creates a new query engine
func NewSimpleQueryEngine(extractor FieldExtractor) *SimpleQueryEngine {
	return &SimpleQueryEngine{extractor: extractor}
}

// ExecuteQuery streams the records of src that satisfy every query. Records
// without a queried field never match.
func (qe *SimpleQueryEngine) ExecuteQuery(ctx context.Context, src RecordSource, queries ...FieldQuery) (QueryIterator, error) {
	for i := range queries {
		if err := queries[i].Validate(); err != nil {
			return nil, errors.Wrap(err, "invalid query")
		}
	}
	return &filterIterator{ctx: ctx, src: src, engine: qe, queries: queries}, nil
}

// ExecuteRangeQuery streams the records whose field lies in [low, high]
func (qe *SimpleQueryEngine) ExecuteRangeQuery(ctx context.Context, src RecordSource, field string, low, high interface{}) (QueryIterator, error) {
	return qe.ExecuteQuery(ctx, src,
		FieldQuery{Field: field, Operator: ">=", Value: low},
		FieldQuery{Field: field, Operator: "<=", Value: high},
	)
}

// Match reports whether rec satisfies every query.
func (qe *SimpleQueryEngine) Match(rec record.Record, queries []FieldQuery) (bool, error) {
	for _, q := range queries {
		v, err := qe.extractor.Extract(rec, q.Field)
		if errors.Is(err, ErrFieldNotFound) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		c, err := compare(v, q.Value)
		if err != nil {
			return false, errors.Wrapf(err, "query %s", q)
		}
		if !holds(q.Operator, c) {
			return false, nil
		}
	}
	return true, nil
}

func holds(op string, c int) bool {
	switch op {
	case "=":
		return c == 0
	case "!=":
		return c != 0
	case ">":
		return c > 0
	case ">=":
		return c >= 0
	case "<":
		return c < 0
	case "<=":
		return c <= 0
	}
	return false
}

// compare orders a field value against a query value, converting the query
// value to the field's kind.
func compare(field, want interface{}) (int, error) {
	switch v := field.(type) {
	case uint8, uint16, uint32, uint64, int8, int16, int32, int64, float32, float64:
		a, _ := toFloat(v)
		b, err := toFloat(want)
		if err != nil {
			return 0, err
		}
		return cmpFloat(a, b), nil
	case string:
		return strings.Compare(v, toString(want)), nil
	case record.Char:
		return strings.Compare(v.String(), toString(want)), nil
	case time.Time:
		t, err := toTime(want)
		if err != nil {
			return 0, err
		}
		return v.Compare(t), nil
	}
	return 0, errors.Newf("fields of type %T cannot be compared", field)
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func toFloat(v interface{}) (float64, error) {
	switch x := v.(type) {
	case uint8:
		return float64(x), nil
	case uint16:
		return float64(x), nil
	case uint32:
		return float64(x), nil
	case uint64:
		return float64(x), nil
	case int8:
		return float64(x), nil
	case int16:
		return float64(x), nil
	case int32:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case int:
		return float64(x), nil
	case float32:
		return float64(x), nil
	case float64:
		return x, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, errors.Newf("%q is not a number", x)
		}
		return f, nil
	}
	return 0, errors.Newf("%v is not a number", v)
}

func toString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// toTime accepts a time.Time, an RFC 3339 string or Unix seconds.
func toTime(v interface{}) (time.Time, error) {
	switch x := v.(type) {
	case time.Time:
		return x, nil
	case string:
		if t, err := time.Parse(time.RFC3339, x); err == nil {
			return t, nil
		}
		if n, err := strconv.ParseInt(x, 10, 64); err == nil {
			return time.Unix(n, 0).UTC(), nil
		}
		return time.Time{}, errors.Newf("%q is not a time", x)
	}
	f, err := toFloat(v)
	if err != nil {
		return time.Time{}, errors.Newf("%v is not a time", v)
	}
	return time.Unix(int64(f), 0).UTC(), nil
}

// filterIterator implements QueryIterator over a record source
type filterIterator struct {
	ctx     context.Context
	src     RecordSource
	engine  *SimpleQueryEngine
	queries []FieldQuery
	result  QueryResult
	err     error
}

func (it *filterIterator) Next() bool {
	if it.err != nil {
		return false
	}
	for {
		if err := it.ctx.Err(); err != nil {
			it.err = err
			return false
		}
		if !it.src.Next() {
			it.err = it.src.Err()
			return false
		}
		rec := it.src.Record()
		ok, err := it.engine.Match(rec, it.queries)
		if err != nil {
			it.err = err
			return false
		}
		if ok {
			it.result = QueryResult{Offset: it.src.Offset(), Record: rec}
			return true
		}
	}
}

func (it *filterIterator) Result() QueryResult {
	return it.result
}

func (it *filterIterator) Err() error {
	return it.err
}

func (it *filterIterator) Close() error {
	// The source belongs to the caller
	return nil
}
