package shift

import (
	"fmt"
	"reflect"
	"strings"
)

///////////////////////////////////////////////////////////////////////////////
// Type Descriptors
///////////////////////////////////////////////////////////////////////////////

// TypeDesc describes the expected shape of a field value. Descriptors are
// either terminal (a concrete runtime type, "any", a literal set, a
// callable, a nested schema, a forward reference) or composite (union,
// tuple, slice, map) built from other descriptors.
type TypeDesc interface {
	// String renders the descriptor for diagnostics.
	String() string

	// sealed; dispatch in dispatch.go switches over the concrete variants.
	isTypeDesc()
}

// anyType accepts every value (subject to Config.AllowAny).
type anyType struct{}

// primType expects the value's runtime type to equal Type exactly.
type primType struct{ Type reflect.Type }

// literalType expects the value to equal one of Values.
type literalType struct{ Values []any }

// unionType expects the value to satisfy at least one alternative.
type unionType struct{ Alts []TypeDesc }

// tupleType expects a []any whose arity and element types match positionally.
type tupleType struct{ Elems []TypeDesc }

// sliceType expects a sequence whose every element satisfies Elem.
type sliceType struct{ Elem TypeDesc }

// mapType expects a mapping whose keys satisfy Key and values satisfy Value.
type mapType struct{ Key, Value TypeDesc }

// callableType expects an invocable value (a Go func of any signature).
type callableType struct{}

// schemaType delegates to the named schema's own pipeline.
type schemaType struct{ Schema *Schema }

// refType is a deferred type expression, resolved lazily at validation time
// so self- and mutually-referential schemas can be declared in any order.
// The defining scope is the schema whose field carries the reference.
type refType struct {
	Name string
}

func (anyType) isTypeDesc()      {}
func (primType) isTypeDesc()     {}
func (literalType) isTypeDesc()  {}
func (unionType) isTypeDesc()    {}
func (tupleType) isTypeDesc()    {}
func (sliceType) isTypeDesc()    {}
func (mapType) isTypeDesc()      {}
func (callableType) isTypeDesc() {}
func (schemaType) isTypeDesc()   {}
func (refType) isTypeDesc()      {}

func (anyType) String() string      { return "any" }
func (t primType) String() string   { return t.Type.String() }
func (callableType) String() string { return "callable" }
func (t schemaType) String() string { return t.Schema.Name() }
func (t refType) String() string    { return "'" + t.Name + "'" }

func (t literalType) String() string {
	parts := make([]string, 0, len(t.Values))
	for _, v := range t.Values {
		parts = append(parts, fmt.Sprintf("%#v", v))
	}
	return "oneof[" + strings.Join(parts, ", ") + "]"
}

func (t unionType) String() string {
	parts := make([]string, 0, len(t.Alts))
	for _, a := range t.Alts {
		parts = append(parts, a.String())
	}
	return strings.Join(parts, " | ")
}

func (t tupleType) String() string {
	parts := make([]string, 0, len(t.Elems))
	for _, e := range t.Elems {
		parts = append(parts, e.String())
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (t sliceType) String() string { return "[]" + t.Elem.String() }

func (t mapType) String() string {
	return "map[" + t.Key.String() + "]" + t.Value.String()
}

///////////////////////////////////////////////////////////////////////////////
// Constructors
///////////////////////////////////////////////////////////////////////////////

// Common terminal descriptors.
var (
	Any     TypeDesc = anyType{}
	Bool    TypeDesc = primType{BoolType}
	Int     TypeDesc = primType{IntType}
	Int64   TypeDesc = primType{Int64Type}
	Float64 TypeDesc = primType{Float64Type}
	String  TypeDesc = primType{StringType}
	Bytes   TypeDesc = primType{BytesType}
	Time    TypeDesc = primType{TimeType}
	UUID    TypeDesc = primType{UUIDType}

	Callable TypeDesc = callableType{}
)

// Prim returns a descriptor matching the exact runtime type t.
func Prim(t reflect.Type) TypeDesc { return primType{t} }

// TypeFor returns a descriptor matching the exact runtime type V.
func TypeFor[V any]() TypeDesc {
	return primType{reflect.TypeOf((*V)(nil)).Elem()}
}

// OneOf returns a literal descriptor: the value must equal one of values.
func OneOf(values ...any) TypeDesc { return literalType{values} }

// Union returns a descriptor satisfied by any of the alternatives.
func Union(alts ...TypeDesc) TypeDesc { return unionType{alts} }

// Tuple returns a positional descriptor over a []any of matching arity.
func Tuple(elems ...TypeDesc) TypeDesc { return tupleType{elems} }

// SliceOf returns a homogeneous-sequence descriptor.
func SliceOf(elem TypeDesc) TypeDesc { return sliceType{elem} }

// MapOf returns a key/value mapping descriptor.
func MapOf(key, value TypeDesc) TypeDesc { return mapType{key, value} }

// Of returns a nested-schema descriptor delegating to s.
func Of(s *Schema) TypeDesc { return schemaType{s} }

// Ref returns a forward reference to a schema or registered type by name.
// The reference is resolved lazily, on first validation.
func Ref(name string) TypeDesc { return refType{Name: name} }

// runtimeTypeOf returns the reflect.Type a primType descriptor matches, or
// nil for every other descriptor kind.
func runtimeTypeOf(d TypeDesc) reflect.Type {
	if p, ok := d.(primType); ok {
		return p.Type
	}
	return nil
}
