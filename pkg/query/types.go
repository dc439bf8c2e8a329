// Package query filters decoded records by field predicates such as
// RESULT>1.5 or TEST_TXT=vdd.
package query

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/ssargent/stdfkit/pkg/record"
	"github.com/ssargent/stdfkit/pkg/schema"
)

// ErrFieldNotFound is returned when a record has no field of the queried name.
var ErrFieldNotFound = errors.New("field not found")

// FieldExtractor defines how to extract field values from a record
type FieldExtractor interface {
	Extract(rec record.Record, field string) (interface{}, error)
}

// SchemaFieldExtractor extracts scalar fields through the registry layouts
type SchemaFieldExtractor struct {
	Registry *schema.Registry
}

// Extract implements FieldExtractor
func (e *SchemaFieldExtractor) Extract(rec record.Record, field string) (interface{}, error) {
	sch, ok := e.Registry.Schema(rec.TypeCode())
	if !ok {
		return nil, errors.Wrapf(ErrFieldNotFound, "no layout for %s", record.Name(rec))
	}
	f, ok := sch.Field(field)
	if !ok {
		return nil, errors.Wrapf(ErrFieldNotFound, "%s has no field %s", sch.Name, field)
	}
	if f.Shape.IsArray() {
		return nil, errors.Newf("field %s of %s is an array", field, sch.Name)
	}
	return schema.Value(f, rec), nil
}

// FieldQuery represents a single field-based query condition
type FieldQuery struct {
	Field    string      // Field name to query (e.g., "RESULT", "TEST_TXT")
	Operator string      // Comparison operator: "=", "!=", ">", "<", ">=", "<="
	Value    interface{} // Value to compare against
}

var validOps = map[string]bool{
	"=": true, "!=": true, ">": true, "<": true, ">=": true, "<=": true,
}

// Validate checks if the query is properly formed
func (q *FieldQuery) Validate() error {
	if q.Field == "" {
		return errors.New("field name cannot be empty")
	}
	if q.Operator == "" {
		return errors.New("operator cannot be empty")
	}
	if !validOps[q.Operator] {
		return errors.Newf("invalid operator: %s", q.Operator)
	}
	return nil
}

func (q FieldQuery) String() string {
	return q.Field + q.Operator + toString(q.Value)
}

// ParseFieldQuery parses "FIELD<op>VALUE". Field names are upper-cased and
// the value is kept as text; it is converted to the field's type when
// compared. Surrounding quotes on the value are dropped.
func ParseFieldQuery(expr string) (FieldQuery, error) {
	i := strings.IndexAny(expr, "=!<>")
	if i < 0 {
		return FieldQuery{}, errors.Newf("no operator in %q", expr)
	}
	op := expr[i : i+1]
	if i+1 < len(expr) && expr[i+1] == '=' && op != "=" {
		op += "="
	}

	q := FieldQuery{
		Field:    strings.ToUpper(strings.TrimSpace(expr[:i])),
		Operator: op,
		Value:    unquote(strings.TrimSpace(expr[i+len(op):])),
	}
	if err := q.Validate(); err != nil {
		return FieldQuery{}, errors.Wrapf(err, "query %q", expr)
	}
	return q, nil
}

// ParseFieldQueries parses a comma separated list of conditions.
func ParseFieldQueries(list string) ([]FieldQuery, error) {
	if strings.TrimSpace(list) == "" {
		return nil, nil
	}
	var queries []FieldQuery
	for _, expr := range strings.Split(list, ",") {
		q, err := ParseFieldQuery(expr)
		if err != nil {
			return nil, err
		}
		queries = append(queries, q)
	}
	return queries, nil
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

// QueryResult represents a single query result
type QueryResult struct {
	Offset int64 // Offset of the record header
	Record record.Record
}

// QueryIterator provides streaming access to query results
type QueryIterator interface {
	Next() bool
	Result() QueryResult
	Err() error
	Close() error
}

// RecordSource is the stream a query runs over.
type RecordSource interface {
	Next() bool
	Record() record.Record
	Offset() int64
	Err() error
}

// QueryEngine handles query execution
type QueryEngine interface {
	ExecuteQuery(ctx context.Context, src RecordSource, queries ...FieldQuery) (QueryIterator, error)
	ExecuteRangeQuery(ctx context.Context, src RecordSource, field string, low, high interface{}) (QueryIterator, error)
}
