package schema

import (
	"sort"

	"github.com/cockroachdb/errors"

	"github.com/ssargent/stdfkit/pkg/record"
)

// Registry maps record identities to validated schemas. It is immutable once
// built and safe for concurrent use.
type Registry struct {
	version record.Version
	schemas map[record.TypeCode]*Schema
}

// NewRegistry validates every binding and builds a registry. Any defect in a
// binding fails the whole registry with ErrInvalidSchema.
func NewRegistry(version record.Version, bindings ...Binding) (*Registry, error) {
	reg := &Registry{
		version: version,
		schemas: make(map[record.TypeCode]*Schema, len(bindings)),
	}
	if err := reg.add(bindings); err != nil {
		return nil, err
	}
	return reg, nil
}

func (r *Registry) add(bindings []Binding) error {
	for _, b := range bindings {
		if existing, dup := r.schemas[b.Code]; dup {
			return errors.Wrapf(ErrInvalidSchema, "%s: code %#04x already bound to %s",
				b.Name, uint16(b.Code), existing.Name)
		}
		s, err := NewSchema(r.version, b)
		if err != nil {
			return err
		}
		r.schemas[b.Code] = s
	}
	return nil
}

// Extend returns a new registry holding r's schemas plus the given bindings.
// r itself is left unchanged.
func (r *Registry) Extend(bindings ...Binding) (*Registry, error) {
	next := &Registry{
		version: r.version,
		schemas: make(map[record.TypeCode]*Schema, len(r.schemas)+len(bindings)),
	}
	for code, s := range r.schemas {
		next.schemas[code] = s
	}
	if err := next.add(bindings); err != nil {
		return nil, err
	}
	return next, nil
}

// Version returns the STDF version the registry describes.
func (r *Registry) Version() record.Version {
	return r.version
}

// Schema looks up the layout for code.
func (r *Registry) Schema(code record.TypeCode) (*Schema, bool) {
	s, ok := r.schemas[code]
	return s, ok
}

// New returns an empty record for code.
func (r *Registry) New(code record.TypeCode) (record.Record, bool) {
	s, ok := r.schemas[code]
	if !ok {
		return nil, false
	}
	return s.New(), true
}

// Codes lists the registered identities in ascending order.
func (r *Registry) Codes() []record.TypeCode {
	codes := make([]record.TypeCode, 0, len(r.schemas))
	for code := range r.schemas {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}

// Len returns the number of registered schemas.
func (r *Registry) Len() int {
	return len(r.schemas)
}
