package schema

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ssargent/stdfkit/pkg/record"
)

const (
	renderRule   = "--------------------------------------------------------\n"
	renderHeader = "========================= ==============================\n"
)

// Render writes a diagnostic listing of r: one line per field of s, arrays as
// a labeled block with one element per line. Nil arrays print Null and empty
// ones (*EMPTY). The output is for people, not for parsing.
func Render(w io.Writer, s *Schema, r record.Record) error {
	var b strings.Builder

	b.WriteString(renderRule)
	fmt.Fprintf(&b, "%25s:%s\n", "RECORD", s.Name)
	b.WriteString(renderHeader)

	if s.Generic {
		renderGeneric(&b, r)
	}
	for i := range s.fields {
		f := &s.fields[i]
		v := Value(f, r)
		if f.Shape.IsArray() {
			renderList(&b, f.Name, f.Type.String(), v)
			continue
		}
		fmt.Fprintf(&b, "%25s:%s\n", f.Name, formatScalar(v))
	}
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// Sprint renders r to a string.
func Sprint(s *Schema, r record.Record) string {
	var b strings.Builder
	_ = Render(&b, s, r)
	return b.String()
}

func renderGeneric(b *strings.Builder, r record.Record) {
	g, ok := r.(*record.GDR)
	if !ok {
		return
	}
	if g.Fields == nil {
		fmt.Fprintf(b, "%25s:Null\n", "GEN_DATA")
		return
	}
	items := make([]any, len(g.Fields))
	for i, f := range g.Fields {
		items[i] = f.Type.String() + " " + formatScalar(f.Value)
	}
	writeList(b, "GEN_DATA", "V*n", items)
}

func renderList(b *strings.Builder, name, elem string, v any) {
	items, isNil := elements(v)
	if isNil {
		fmt.Fprintf(b, "%25s:Null\n", name)
		return
	}
	writeList(b, name, elem, items)
}

func writeList(b *strings.Builder, name, elem string, items []any) {
	fmt.Fprintf(b, "%25s:LIST/ARRAY OF %s ", name, elem)
	if len(items) == 0 {
		b.WriteString("(*EMPTY)\n")
		return
	}
	b.WriteString("\n")
	for _, item := range items {
		fmt.Fprintf(b, "%s\n", formatScalar(item))
	}
}

// elements flattens a bound array value. isNil is set for nil slices.
func elements(v any) (items []any, isNil bool) {
	switch s := v.(type) {
	case []uint8:
		return collect(s)
	case []uint16:
		return collect(s)
	case []uint32:
		return collect(s)
	case []uint64:
		return collect(s)
	case []int8:
		return collect(s)
	case []int16:
		return collect(s)
	case []int32:
		return collect(s)
	case []int64:
		return collect(s)
	case []float32:
		return collect(s)
	case []float64:
		return collect(s)
	case []string:
		return collect(s)
	case []record.Char:
		return collect(s)
	case []time.Time:
		return collect(s)
	}
	return nil, true
}

func collect[T any](s []T) ([]any, bool) {
	if s == nil {
		return nil, true
	}
	items := make([]any, len(s))
	for i, v := range s {
		items[i] = v
	}
	return items, false
}

func formatScalar(v any) string {
	switch x := v.(type) {
	case nil:
		return "Null"
	case string:
		return x
	case []byte:
		if x == nil {
			return "Null"
		}
		return fmt.Sprintf("% X", x)
	case time.Time:
		if x.IsZero() {
			return "0"
		}
		return x.Format(time.RFC3339)
	case record.BitField:
		if x.Bits == nil {
			return "Null"
		}
		return fmt.Sprintf("%d bits % X", x.Len, x.Bits)
	case fmt.Stringer:
		return x.String()
	}
	return fmt.Sprint(v)
}

// Value returns the current value of f in r, dereferenced from its binding.
func Value(f *Field, r record.Record) any {
	switch p := f.Ref(r).(type) {
	case *uint8:
		return *p
	case *uint16:
		return *p
	case *uint32:
		return *p
	case *uint64:
		return *p
	case *int8:
		return *p
	case *int16:
		return *p
	case *int32:
		return *p
	case *int64:
		return *p
	case *float32:
		return *p
	case *float64:
		return *p
	case *string:
		return *p
	case *record.Char:
		return *p
	case *[]byte:
		return *p
	case *record.BitField:
		return *p
	case *time.Time:
		return *p
	case *[]uint16:
		return *p
	case *[]uint32:
		return *p
	case *[]uint64:
		return *p
	case *[]int8:
		return *p
	case *[]int16:
		return *p
	case *[]int32:
		return *p
	case *[]int64:
		return *p
	case *[]float32:
		return *p
	case *[]float64:
		return *p
	case *[]string:
		return *p
	case *[]record.Char:
		return *p
	case *[]time.Time:
		return *p
	}
	return nil
}
