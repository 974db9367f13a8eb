package shift

import "reflect"

///////////////////////////////////////////////////////////////////////////////
// Instance
///////////////////////////////////////////////////////////////////////////////

// Instance is a validated, populated object produced by Construct. Fields
// live in an attribute map so setters, hooks, and the unmatched-args policy
// can attach arbitrary attributes.
type Instance struct {
	schema *Schema
	attrs  map[string]any
}

func newInstance(s *Schema) *Instance {
	return &Instance{schema: s, attrs: make(map[string]any)}
}

// Schema returns the schema this instance was constructed from.
func (in *Instance) Schema() *Schema { return in.schema }

// Get returns the attribute value and whether it is set.
func (in *Instance) Get(name string) (any, bool) {
	v, ok := in.attrs[name]
	return v, ok
}

// GetOr returns the attribute value or fallback when unset.
func (in *Instance) GetOr(name string, fallback any) any {
	if v, ok := in.attrs[name]; ok {
		return v
	}
	return fallback
}

// Has reports whether the attribute is set.
func (in *Instance) Has(name string) bool {
	_, ok := in.attrs[name]
	return ok
}

// Set assigns an attribute directly, bypassing the pipeline. Setters and
// hooks use this for arbitrary assignment logic.
func (in *Instance) Set(name string, v any) {
	in.attrs[name] = v
}

// Delete removes an attribute.
func (in *Instance) Delete(name string) {
	delete(in.attrs, name)
}

// Attrs returns a copy of the attribute map.
func (in *Instance) Attrs() map[string]any {
	out := make(map[string]any, len(in.attrs))
	for k, v := range in.attrs {
		out[k] = v
	}
	return out
}

// Equal reports whether two instances share a schema and have deeply equal
// attributes.
func (in *Instance) Equal(other *Instance) bool {
	if in == nil || other == nil {
		return in == other
	}
	if in.schema != other.schema || len(in.attrs) != len(other.attrs) {
		return false
	}
	for k, v := range in.attrs {
		ov, ok := other.attrs[k]
		if !ok || !deepEqual(v, ov) {
			return false
		}
	}
	return true
}

// String renders the instance via the representation stage.
func (in *Instance) String() string { return Repr(in) }

// deepEqual compares attribute values, descending into nested instances and
// containers holding them.
func deepEqual(a, b any) bool {
	if ia, ok := a.(*Instance); ok {
		ib, ok := b.(*Instance)
		return ok && ia.Equal(ib)
	}
	if as, ok := asAnySlice(a); ok {
		bs, ok := asAnySlice(b)
		if !ok || len(as) != len(bs) {
			return false
		}
		for i := range as {
			if !deepEqual(as[i], bs[i]) {
				return false
			}
		}
		return true
	}
	if am, ok := asAnyMap(a); ok {
		bm, ok := asAnyMap(b)
		if !ok || len(am) != len(bm) {
			return false
		}
		for k, av := range am {
			bv, ok := bm[k]
			if !ok || !deepEqual(av, bv) {
				return false
			}
		}
		return true
	}
	return reflect.DeepEqual(a, b)
}
