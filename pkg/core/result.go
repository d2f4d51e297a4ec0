package core

import (
	"bytes"
	"encoding/json"
)

// Result groups matching annotations by identifier.
// Keys keep the order in which each identifier was first matched, and every
// group keeps the order of the annotation input.
type Result struct {
	order  []string
	groups map[string][]Annotation
}

// NewResult creates an empty Result.
func NewResult() *Result {
	return &Result{groups: make(map[string][]Annotation)}
}

// Append adds a to the group of its identifier, creating the group on first use.
func (r *Result) Append(a Annotation) {
	if _, ok := r.groups[a.Identifier]; !ok {
		r.order = append(r.order, a.Identifier)
	}
	r.groups[a.Identifier] = append(r.groups[a.Identifier], a)
}

// Keys returns the identifiers in first-occurrence order.
func (r *Result) Keys() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Get returns the annotations recorded for id.
func (r *Result) Get(id string) ([]Annotation, bool) {
	g, ok := r.groups[id]
	return g, ok
}

// Len returns the number of identifiers with at least one match.
func (r *Result) Len() int { return len(r.order) }

// Count returns the total number of annotations across all groups.
func (r *Result) Count() int {
	n := 0
	for _, g := range r.groups {
		n += len(g)
	}
	return n
}

// Each calls fn for every group in key order, stopping at the first error.
func (r *Result) Each(fn func(id string, group []Annotation) error) error {
	for _, id := range r.order {
		if err := fn(id, r.groups[id]); err != nil {
			return err
		}
	}
	return nil
}

// Map returns the groups as a plain map. The slices are shared with r.
func (r *Result) Map() map[string][]Annotation {
	out := make(map[string][]Annotation, len(r.groups))
	for k, v := range r.groups {
		out[k] = v
	}
	return out
}

// MarshalJSON encodes the Result as a single object, keys in first-occurrence order.
func (r *Result) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, id := range r.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshalValue(id)
		if err != nil {
			return nil, err
		}
		val, err := marshalValue(r.groups[id])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// marshalValue encodes v without HTML escaping; the caller's encoder decides
// whether to escape.
func marshalValue(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
