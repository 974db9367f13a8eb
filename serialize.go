package shift

import (
	"fmt"
	"time"

	json "github.com/goccy/go-json"
)

///////////////////////////////////////////////////////////////////////////////
// Serialization
///////////////////////////////////////////////////////////////////////////////

// Serialize projects the instance to a plain mapping of JSON-friendly
// values. Declared fields serialize under their serialize aliases; private,
// excluded, and serialize-deferred fields are omitted. Promoted unmatched
// attributes pass through under their own keys.
func Serialize(in *Instance) map[string]any {
	if in == nil {
		return nil
	}

	s := in.Schema()
	cfg := resolveConfig(s)
	out := make(map[string]any, len(s.Fields()))
	seen := map[string]bool{}
	for _, f := range s.Fields() {
		seen[f.Name] = true
		if f.Private || f.SerializeExclude || f.DeferSerialize {
			continue
		}
		v, ok := in.Get(f.Name)
		if !ok {
			continue
		}
		out[f.serializeName()] = serializeField(cfg, s.Name(), f, v)
	}

	for name, v := range in.Attrs() {
		if !seen[name] {
			out[name] = serializeValue(v)
		}
	}
	return out
}

// SerializeJSON serializes the instance and encodes the result as JSON.
func SerializeJSON(in *Instance) ([]byte, error) {
	return json.Marshal(Serialize(in))
}

// serializeField projects one declared field, preferring a bound
// serializer, then a registered type handler, then the default projection.
func serializeField(cfg Config, schema string, f *Field, v any) any {
	if cfg.AllowShiftSerializers {
		if binding := _decorators.Lookup(schema, f.Name, StageSerialize); binding != nil {
			return binding.Fn.(SerializerFunc)(f, v)
		}
	}
	if rt := runtimeTypeOf(f.Type); rt != nil {
		if h := _typeRegistry.Lookup(rt); h != nil && h.Serialize != nil {
			return h.Serialize(f, v)
		}
	}
	return serializeValue(v)
}

func serializeValue(v any) any {
	switch t := v.(type) {
	case *Instance:
		return Serialize(t)
	case time.Time:
		return t.Format(time.RFC3339)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = serializeValue(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = serializeValue(e)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[fmt.Sprint(k)] = serializeValue(e)
		}
		return out
	default:
		if IsMissing(v) {
			return nil
		}
		return v
	}
}
