package shift

import (
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/google/uuid"
)

///////////////////////////////////////////////////////////////////////////////
// Helpers
///////////////////////////////////////////////////////////////////////////////

// toFloat widens any numeric value to float64 for bound comparisons.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// lenOf returns the length of a string, slice, array, or map value.
func lenOf(v any) (int, bool) {
	if v == nil {
		return 0, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String, reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len(), true
	default:
		return 0, false
	}
}

// isCallable reports whether v is an invocable value.
func isCallable(v any) bool {
	return v != nil && reflect.ValueOf(v).Kind() == reflect.Func
}

// coerceScalar converts a string input to the given runtime type. It covers
// the scalar types the struct-tag layer needs for tag defaults: numerics,
// bools, strings, byte slices, uuid.UUID, and time.Time.
func coerceScalar(t reflect.Type, value string) (any, error) {
	switch t {
	case UUIDType:
		id, err := uuid.Parse(value)
		if err != nil {
			return nil, fmt.Errorf("error converting value to UUID: %w", err)
		}
		return id, nil
	case TimeType:
		ts, err := parseTime(value)
		if err != nil {
			return nil, err
		}
		return ts, nil
	case BytesType:
		return []byte(value), nil
	}

	switch t.Kind() {
	case reflect.String:
		return value, nil
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("error converting value to bool: %w", err)
		}
		return b, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("error converting value to int: %w", err)
		}
		out := reflect.New(t).Elem()
		if out.OverflowInt(n) {
			return nil, fmt.Errorf("value %d overflows %s", n, t.Name())
		}
		out.SetInt(n)
		return out.Interface(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("error converting value to uint: %w", err)
		}
		out := reflect.New(t).Elem()
		if out.OverflowUint(n) {
			return nil, fmt.Errorf("value %d overflows %s", n, t.Name())
		}
		out.SetUint(n)
		return out.Interface(), nil
	case reflect.Float32, reflect.Float64:
		n, err := strconv.ParseFloat(value, t.Bits())
		if err != nil {
			return nil, fmt.Errorf("error converting value to float: %w", err)
		}
		out := reflect.New(t).Elem()
		if out.OverflowFloat(n) {
			return nil, fmt.Errorf("value %f overflows %s", n, t.Name())
		}
		out.SetFloat(n)
		return out.Interface(), nil
	default:
		return nil, fmt.Errorf("unsupported scalar type: %s", t.String())
	}
}

// parseTime accepts RFC3339 plus a few common layouts.
func parseTime(value string) (time.Time, error) {
	formats := []string{
		time.RFC3339,
		time.RFC3339Nano,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
		"15:04:05",
	}
	var err error
	var ts time.Time
	for _, format := range formats {
		if ts, err = time.Parse(format, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("error converting value to time.Time: %w", err)
}

// asAnySlice normalizes slice and array values to []any for element-wise
// dispatch. Typed slices are widened element by element.
func asAnySlice(v any) ([]any, bool) {
	if s, ok := v.([]any); ok {
		return s, true
	}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return nil, false
	}
	if rv.Kind() == reflect.Slice && rv.Type() == BytesType {
		return nil, false // []byte is a scalar here
	}
	out := make([]any, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// asAnyMap normalizes map values to map[any]any for key/value dispatch.
func asAnyMap(v any) (map[any]any, bool) {
	if m, ok := v.(map[any]any); ok {
		return m, true
	}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || rv.Kind() != reflect.Map {
		return nil, false
	}
	out := make(map[any]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().Interface()] = iter.Value().Interface()
	}
	return out, true
}
