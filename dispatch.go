package shift

import (
	"fmt"
	"reflect"
)

///////////////////////////////////////////////////////////////////////////////
// Built-in type dispatch
///////////////////////////////////////////////////////////////////////////////

// dispatchValidate checks v against desc and returns the value to keep
// (nested mappings are replaced by constructed instances), the violations
// found, and a fatal error when one occurred (unresolvable forward
// reference, hook failure inside a nested construction).
//
// Dispatch priority: any, registered/exact primitive, literal, union,
// tuple, slice, map, callable, nested schema. Anything else falls back to a
// direct runtime-type membership check, which primType already is.
func dispatchValidate(ctx *Context, f *Field, desc TypeDesc, v any) (any, []Violation, error) {
	cfg := ctx.Config()

	switch d := desc.(type) {
	case anyType:
		if !cfg.AllowAny {
			return v, violationf(ctx, f, "any", "any-typed fields are not allowed"), nil
		}
		return v, nil, nil

	case primType:
		if h := _typeRegistry.Lookup(d.Type); h != nil && h.Validate != nil {
			ok, err := h.Validate(ctx, f, v)
			if err != nil {
				return v, nil, err
			}
			if !ok {
				return v, violationf(ctx, f, "type", "value %v rejected by the %s handler", v, d.Type), nil
			}
			return v, nil, nil
		}
		if reflect.TypeOf(v) != d.Type {
			return v, violationf(ctx, f, "type", "value %v (%T) is not a valid %s", v, v, d), nil
		}
		return v, nil, nil

	case literalType:
		for _, candidate := range d.Values {
			if reflect.DeepEqual(v, candidate) {
				return v, nil, nil
			}
		}
		return v, violationf(ctx, f, "literal", "value %v is not one of %s", v, d), nil

	case unionType:
		for _, alt := range d.Alts {
			replaced, viols, err := dispatchValidate(ctx, f, alt, v)
			if err != nil {
				return v, nil, err
			}
			if len(viols) == 0 {
				return replaced, nil, nil
			}
		}
		return v, violationf(ctx, f, "union", "value %v (%T) matches no alternative of %s", v, v, d), nil

	case tupleType:
		elems, ok := asAnySlice(v)
		if !ok {
			return v, violationf(ctx, f, "tuple", "value %v (%T) is not a sequence", v, v), nil
		}
		if len(elems) != len(d.Elems) {
			return v, violationf(ctx, f, "tuple", "arity %d does not match %s", len(elems), d), nil
		}
		return dispatchElems(ctx, f, "tuple", elems, func(i int) TypeDesc { return d.Elems[i] })

	case sliceType:
		elems, ok := asAnySlice(v)
		if !ok {
			return v, violationf(ctx, f, "slice", "value %v (%T) is not a sequence", v, v), nil
		}
		return dispatchElems(ctx, f, "slice", elems, func(int) TypeDesc { return d.Elem })

	case mapType:
		m, ok := asAnyMap(v)
		if !ok {
			return v, violationf(ctx, f, "map", "value %v (%T) is not a mapping", v, v), nil
		}
		var viols []Violation
		out := make(map[any]any, len(m))
		for key, val := range m {
			_, kv, err := dispatchValidate(ctx, f, d.Key, key)
			if err != nil {
				return v, nil, err
			}
			viols = append(viols, kv...)
			rv, vv, err := dispatchValidate(ctx, f, d.Value, val)
			if err != nil {
				return v, nil, err
			}
			viols = append(viols, vv...)
			out[key] = rv
		}
		if len(viols) > 0 {
			return v, viols, nil
		}
		// String-keyed input stays string-keyed so serialization round
		// trips through JSON.
		if _, strKeyed := v.(map[string]any); strKeyed {
			strOut := make(map[string]any, len(out))
			for key, val := range out {
				strOut[key.(string)] = val
			}
			return strOut, nil, nil
		}
		return out, nil, nil

	case callableType:
		if !isCallable(v) {
			return v, violationf(ctx, f, "callable", "value %v (%T) is not callable", v, v), nil
		}
		return v, nil, nil

	case schemaType:
		return dispatchNested(ctx, f, d.Schema, v)

	case refType:
		resolved, err := ResolveRef(d.Name, ctx.Schema())
		if err != nil {
			return v, nil, err
		}
		return dispatchValidate(ctx, f, resolved, v)

	default:
		// Unknown descriptor kinds degrade to accepting the value; the
		// built-in set above is closed.
		return v, nil, nil
	}
}

// dispatchElems validates a sequence element-wise, rebuilding it so nested
// mappings become constructed instances.
func dispatchElems(ctx *Context, f *Field, constraint string, elems []any, descAt func(int) TypeDesc) (any, []Violation, error) {
	var viols []Violation
	out := make([]any, len(elems))
	for i, elem := range elems {
		replaced, vs, err := dispatchValidate(ctx, f, descAt(i), elem)
		if err != nil {
			return elems, nil, err
		}
		for _, v := range vs {
			v.Message = fmt.Sprintf("element %d: %s", i, v.Message)
			v.Constraint = constraint
			viols = append(viols, v)
		}
		out[i] = replaced
	}
	if len(viols) > 0 {
		return elems, viols, nil
	}
	return out, nil, nil
}

// dispatchNested validates a nested-schema field: an already-constructed
// instance of the schema is accepted directly without re-validation, and a
// mapping is constructed recursively through the target schema's own
// pipeline.
func dispatchNested(ctx *Context, f *Field, target *Schema, v any) (any, []Violation, error) {
	if !ctx.Config().AllowNestedShiftClasses {
		return v, violationf(ctx, f, "nested", "nested schema fields are not allowed"), nil
	}

	if inst, ok := v.(*Instance); ok {
		name := "<nil>"
		if inst.Schema() != nil {
			if inst.Schema().Name() == target.Name() {
				return inst, nil, nil
			}
			name = inst.Schema().Name()
		}
		return v, violationf(ctx, f, "nested", "instance of %q is not a %q", name, target.Name()), nil
	}

	if m, ok := v.(map[string]any); ok {
		inst, err := Construct(target, m)
		if err == nil {
			return inst, nil, nil
		}
		if agg, ok := AsAggregate(err); ok {
			viols := make([]Violation, 0, len(agg.Violations))
			for _, nested := range agg.Violations {
				viols = append(viols, Violation{
					Schema:     ctx.Schema().Name(),
					Field:      f.Name,
					Constraint: "nested",
					Message:    nested.String(),
				})
			}
			return v, viols, nil
		}
		return v, nil, err // Hook and resolution failures stay fatal.
	}

	return v, violationf(ctx, f, "nested", "value %v (%T) is not a %q instance or mapping", v, v, target.Name()), nil
}

// violationf builds a single-violation slice for the field.
func violationf(ctx *Context, f *Field, constraint, format string, args ...any) []Violation {
	return []Violation{{
		Schema:     ctx.Schema().Name(),
		Field:      f.Name,
		Constraint: constraint,
		Message:    fmt.Sprintf(format, args...),
	}}
}

///////////////////////////////////////////////////////////////////////////////
// Built-in type-level transforms
///////////////////////////////////////////////////////////////////////////////

// dispatchTransform applies the type-level transform for desc: registered
// handler transforms for exact types, numeric widening/narrowing between
// int and float64, and element-wise recursion through containers. A nil
// error and the (possibly replaced) value are returned; errors become
// violations at the call site.
func dispatchTransform(ctx *Context, f *Field, desc TypeDesc, v any) (any, error) {
	switch d := desc.(type) {
	case primType:
		if h := _typeRegistry.Lookup(d.Type); h != nil && h.Transform != nil {
			return h.Transform(ctx, f, v)
		}
		return coerceNumeric(d.Type, v), nil

	case unionType:
		// The first alternative whose transform yields a valid value wins;
		// a transform error just disqualifies that alternative. Unresolvable
		// references stay fatal.
		for _, alt := range d.Alts {
			t, err := dispatchTransform(ctx, f, alt, v)
			if err != nil {
				if _, fatal := err.(*ResolutionError); fatal {
					return v, err
				}
				continue
			}
			_, viols, err := dispatchValidate(ctx, f, alt, t)
			if err != nil {
				return v, err
			}
			if len(viols) == 0 {
				return t, nil
			}
		}
		return v, nil

	case sliceType:
		elems, ok := asAnySlice(v)
		if !ok {
			return v, nil
		}
		out := make([]any, len(elems))
		for i, elem := range elems {
			t, err := dispatchTransform(ctx, f, d.Elem, elem)
			if err != nil {
				return v, err
			}
			out[i] = t
		}
		return out, nil

	case tupleType:
		elems, ok := asAnySlice(v)
		if !ok || len(elems) != len(d.Elems) {
			return v, nil
		}
		out := make([]any, len(elems))
		for i, elem := range elems {
			t, err := dispatchTransform(ctx, f, d.Elems[i], elem)
			if err != nil {
				return v, err
			}
			out[i] = t
		}
		return out, nil

	case mapType:
		m, ok := asAnyMap(v)
		if !ok {
			return v, nil
		}
		out := make(map[any]any, len(m))
		for key, val := range m {
			t, err := dispatchTransform(ctx, f, d.Value, val)
			if err != nil {
				return v, err
			}
			out[key] = t
		}
		if _, strKeyed := v.(map[string]any); strKeyed {
			strOut := make(map[string]any, len(out))
			for key, val := range out {
				strOut[key.(string)] = val
			}
			return strOut, nil
		}
		return out, nil

	case refType:
		resolved, err := ResolveRef(d.Name, ctx.Schema())
		if err != nil {
			return v, err
		}
		return dispatchTransform(ctx, f, resolved, v)

	default:
		return v, nil
	}
}

// coerceNumeric bridges the int/float64 seam left by generic decoders:
// a whole float64 destined for an int field narrows, and an int destined
// for a float64 field widens. Anything else passes through untouched.
func coerceNumeric(want reflect.Type, v any) any {
	switch want {
	case IntType:
		if fv, ok := v.(float64); ok && fv == float64(int(fv)) {
			return int(fv)
		}
	case Int64Type:
		if fv, ok := v.(float64); ok && fv == float64(int64(fv)) {
			return int64(fv)
		}
		if iv, ok := v.(int); ok {
			return int64(iv)
		}
	case Float64Type:
		switch n := v.(type) {
		case int:
			return float64(n)
		case int64:
			return float64(n)
		}
	}
	return v
}
