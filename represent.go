package shift

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

///////////////////////////////////////////////////////////////////////////////
// Representation
///////////////////////////////////////////////////////////////////////////////

// Repr renders the instance as "Name(field=value, ...)". Fields appear in
// declaration order under their repr aliases; private, excluded, and
// repr-deferred fields are omitted. Promoted unmatched attributes follow
// the declared fields in sorted order.
func Repr(in *Instance) string {
	if in == nil {
		return "<nil>"
	}

	s := in.Schema()
	cfg := resolveConfig(s)
	var b strings.Builder
	b.WriteString(s.Name())
	b.WriteByte('(')

	wrote := false
	seen := map[string]bool{}
	for _, f := range s.Fields() {
		seen[f.Name] = true
		if f.Private || f.ReprExclude || f.DeferRepr {
			continue
		}
		v, ok := in.Get(f.Name)
		if !ok {
			continue
		}
		if wrote {
			b.WriteString(", ")
		}
		b.WriteString(f.reprName())
		b.WriteByte('=')
		b.WriteString(reprField(cfg, s.Name(), f, v))
		wrote = true
	}

	var extra []string
	for name := range in.Attrs() {
		if !seen[name] {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	for _, name := range extra {
		if wrote {
			b.WriteString(", ")
		}
		v, _ := in.Get(name)
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(reprValue(v))
		wrote = true
	}

	b.WriteByte(')')
	return b.String()
}

// reprField renders one declared field, preferring a bound repr function,
// then a registered type handler, then the default rendering.
func reprField(cfg Config, schema string, f *Field, v any) string {
	if cfg.AllowShiftReprs {
		if binding := _decorators.Lookup(schema, f.Name, StageRepr); binding != nil {
			return binding.Fn.(ReprFunc)(f, v)
		}
	}
	if rt := runtimeTypeOf(f.Type); rt != nil {
		if h := _typeRegistry.Lookup(rt); h != nil && h.Represent != nil {
			return h.Represent(f, v)
		}
	}
	return reprValue(v)
}

func reprValue(v any) string {
	switch t := v.(type) {
	case nil:
		return "<nil>"
	case string:
		return fmt.Sprintf("%q", t)
	case []byte:
		return fmt.Sprintf("%q", t)
	case time.Time:
		return fmt.Sprintf("%q", t.Format(time.RFC3339))
	case *Instance:
		return Repr(t)
	case []any:
		parts := make([]string, len(t))
		for i, e := range t {
			parts[i] = reprValue(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = fmt.Sprintf("%q: %s", k, reprValue(t[k]))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		if IsMissing(v) {
			return "<missing>"
		}
		return fmt.Sprintf("%v", v)
	}
}
