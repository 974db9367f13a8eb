package shift

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

///////////////////////////////////////////////////////////////////////////////
// Struct-Tag Schemas
///////////////////////////////////////////////////////////////////////////////

// FromStruct derives a schema from the exported fields of struct type T,
// reading per-field metadata from the "shift" struct tag. The tag holds
// comma-separated pairs; a leading bare token renames the field and "-"
// excludes it entirely:
//
//	type Server struct {
//	    Host string `shift:"host,pattern=^[a-z0-9.-]+$"`
//	    Port int    `shift:"port,default=8080,ge=1,le=65535"`
//	    Note string `shift:"-"`
//	}
//
// The schema registers under the struct type's name (or the explicit name
// when one is supplied) exactly like a builder-declared schema.
func FromStruct[T any](name ...string) (*Schema, error) {
	var zero T
	rt := reflect.TypeOf(zero)
	if rt == nil || rt.Kind() != reflect.Struct {
		return nil, fmt.Errorf("FromStruct: %T is not a struct type", zero)
	}

	schemaName := rt.Name()
	if len(name) > 0 {
		schemaName = name[0]
	}

	sb := NewSchema(schemaName)
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		tag := sf.Tag.Get(StructTagName)
		if tag == TagKeyIgnore {
			continue
		}
		fieldName, fb, err := buildTaggedField(sf, tag)
		if err != nil {
			return nil, &SchemaError{Schema: schemaName, Field: sf.Name, Err: err}
		}
		sb.Field(fieldName, fb)
	}
	return sb.Build()
}

// MustFromStruct is FromStruct, panicking on error.
func MustFromStruct[T any](name ...string) *Schema {
	s, err := FromStruct[T](name...)
	if err != nil {
		panic(err)
	}
	return s
}

// buildTaggedField translates one struct field and its tag into a field
// builder. The field's runtime type becomes its type descriptor; tag pairs
// layer defaults, constraints, aliases, and visibility on top.
func buildTaggedField(sf reflect.StructField, tag string) (string, *FieldBuilder, error) {
	fieldName := sf.Name
	fb := F(descFor(sf.Type))

	if tag == "" {
		return fieldName, fb, nil
	}

	pairs := strings.Split(tag, TagPairDelim)
	for i, pair := range pairs {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, val, hasVal := strings.Cut(pair, TagKeyValDelim)

		// A leading bare token renames the field, json-tag style.
		if i == 0 && !hasVal && !isTagFlag(key) {
			fieldName = key
			continue
		}

		if err := applyTagPair(fb, sf.Type, key, val, hasVal); err != nil {
			return "", nil, err
		}
	}
	return fieldName, fb, nil
}

func isTagFlag(key string) bool {
	switch key {
	case TagKeyOmitRepr, TagKeyOmitSer, TagKeyPrivate:
		return true
	}
	return false
}

func applyTagPair(fb *FieldBuilder, rt reflect.Type, key, val string, hasVal bool) error {
	needVal := func() error {
		if !hasVal {
			return fmt.Errorf("tag key %q requires a value", key)
		}
		return nil
	}

	switch key {
	case TagKeyDefault:
		if err := needVal(); err != nil {
			return err
		}
		v, err := coerceScalar(rt, val)
		if err != nil {
			return err
		}
		fb.Default(v)
	case TagKeyAlias:
		if err := needVal(); err != nil {
			return err
		}
		fb.ReprAs(val).SerializeAs(val)
	case TagKeyPattern:
		if err := needVal(); err != nil {
			return err
		}
		fb.Pattern(val)
	case TagKeyGe, TagKeyGt, TagKeyLe, TagKeyLt:
		if err := needVal(); err != nil {
			return err
		}
		n, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return fmt.Errorf("tag key %q: %w", key, err)
		}
		switch key {
		case TagKeyGe:
			fb.Ge(n)
		case TagKeyGt:
			fb.Gt(n)
		case TagKeyLe:
			fb.Le(n)
		case TagKeyLt:
			fb.Lt(n)
		}
	case TagKeyEq, TagKeyNe:
		if err := needVal(); err != nil {
			return err
		}
		v, err := coerceScalar(rt, val)
		if err != nil {
			return err
		}
		if key == TagKeyEq {
			fb.Eq(v)
		} else {
			fb.Ne(v)
		}
	case TagKeyMinLen, TagKeyMaxLen:
		if err := needVal(); err != nil {
			return err
		}
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("tag key %q: %w", key, err)
		}
		if key == TagKeyMinLen {
			fb.MinLen(n)
		} else {
			fb.MaxLen(n)
		}
	case TagKeyOmitRepr:
		fb.ReprExclude()
	case TagKeyOmitSer:
		fb.SerializeExclude()
	case TagKeyPrivate:
		fb.Private()
	default:
		return fmt.Errorf("unknown tag key %q", key)
	}
	return nil
}

// descFor maps a struct field's runtime type to a type descriptor, using
// the composite descriptors for slices and string-keyed maps so element
// validation applies.
func descFor(rt reflect.Type) TypeDesc {
	switch rt {
	case BytesType:
		return Bytes
	case TimeType:
		return Time
	case UUIDType:
		return UUID
	}
	switch rt.Kind() {
	case reflect.Interface:
		return Any
	case reflect.Slice:
		return SliceOf(descFor(rt.Elem()))
	case reflect.Map:
		return MapOf(descFor(rt.Key()), descFor(rt.Elem()))
	default:
		return Prim(rt)
	}
}
