package shift

import (
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"
)

///////////////////////////////////////////////////////////////////////////////
// TypeHandler
///////////////////////////////////////////////////////////////////////////////

// TypeHandler bundles the five per-stage functions associated with a runtime
// type. Any nil function falls back to the default behavior for its stage,
// so a handler can override a single stage.
type TypeHandler struct {
	Transform TransformerFunc
	Validate  ValidatorFunc
	Set       SetterFunc
	Represent ReprFunc
	Serialize SerializerFunc
}

///////////////////////////////////////////////////////////////////////////////
// TypeRegistry
///////////////////////////////////////////////////////////////////////////////

// TypeRegistry maps runtime types to handler bundles. Mutation is explicit:
// Register replaces, Deregister removes (falling back to built-in/default
// dispatch), Clear removes every user registration. Built-in handlers are
// installed once and survive Clear.
//
// The registry takes no locks. Concurrent lookups are safe; concurrent
// mutation must be serialized by the caller.
type TypeRegistry struct {
	handlers map[reflect.Type]*TypeHandler
	builtins map[reflect.Type]*TypeHandler
}

// NewTypeRegistry returns a registry pre-populated with the built-in
// handlers for special scalar types.
func NewTypeRegistry() *TypeRegistry {
	r := &TypeRegistry{
		handlers: make(map[reflect.Type]*TypeHandler),
		builtins: make(map[reflect.Type]*TypeHandler),
	}
	r.builtins[UUIDType] = &TypeHandler{Transform: transformUUID, Serialize: serializeUUID}
	r.builtins[TimeType] = &TypeHandler{Transform: transformTime, Serialize: serializeTime}
	return r
}

// Register associates a handler bundle with the exact runtime type t,
// replacing any existing registration for it.
func (r *TypeRegistry) Register(t reflect.Type, h *TypeHandler) {
	r.handlers[t] = h
}

// Deregister removes the user registration for t. Built-in and default
// dispatch behavior applies afterwards.
func (r *TypeRegistry) Deregister(t reflect.Type) {
	delete(r.handlers, t)
}

// Clear removes every user registration. Built-ins stay.
func (r *TypeRegistry) Clear() {
	r.handlers = make(map[reflect.Type]*TypeHandler)
}

// Lookup returns the handler bundle for t, preferring user registrations
// over built-ins, or nil when neither exists and default dispatch applies.
func (r *TypeRegistry) Lookup(t reflect.Type) *TypeHandler {
	if h, ok := r.handlers[t]; ok {
		return h
	}
	if h, ok := r.builtins[t]; ok {
		return h
	}
	return nil
}

// Snapshot returns a copy of the user registrations for introspection.
func (r *TypeRegistry) Snapshot() map[reflect.Type]*TypeHandler {
	out := make(map[reflect.Type]*TypeHandler, len(r.handlers))
	for t, h := range r.handlers {
		out[t] = h
	}
	return out
}

///////////////////////////////////////////////////////////////////////////////
// Built-in special scalar transforms
///////////////////////////////////////////////////////////////////////////////

// transformUUID coerces string input into uuid.UUID.
func transformUUID(_ *Context, _ *Field, v any) (any, error) {
	switch s := v.(type) {
	case string:
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("error converting value to UUID: %w", err)
		}
		return id, nil
	default:
		return v, nil
	}
}

// transformTime coerces string input into time.Time, RFC3339 first.
func transformTime(_ *Context, _ *Field, v any) (any, error) {
	switch s := v.(type) {
	case string:
		ts, err := parseTime(s)
		if err != nil {
			return nil, err
		}
		return ts, nil
	default:
		return v, nil
	}
}

// serializeUUID projects uuid.UUID values to their canonical string form.
func serializeUUID(_ *Field, v any) any {
	if id, ok := v.(uuid.UUID); ok {
		return id.String()
	}
	return v
}

// serializeTime projects time.Time values to RFC3339 strings.
func serializeTime(_ *Field, v any) any {
	if ts, ok := v.(time.Time); ok {
		return ts.Format(time.RFC3339)
	}
	return v
}

///////////////////////////////////////////////////////////////////////////////
// Global Singleton and Package Functions
///////////////////////////////////////////////////////////////////////////////

var _typeRegistry *TypeRegistry

func init() {
	_typeRegistry = NewTypeRegistry()
}

// RegisterType registers a handler bundle with the global type registry.
func RegisterType(t reflect.Type, h *TypeHandler) {
	_typeRegistry.Register(t, h)
}

// DeregisterType removes a user registration from the global type registry.
func DeregisterType(t reflect.Type) {
	_typeRegistry.Deregister(t)
}

// ClearTypes removes every user registration from the global type registry.
func ClearTypes() {
	_typeRegistry.Clear()
}

// LookupType returns the handler bundle for t or nil.
func LookupType(t reflect.Type) *TypeHandler {
	return _typeRegistry.Lookup(t)
}

// GetTypeRegistry returns a copy of the global user registrations.
func GetTypeRegistry() map[reflect.Type]*TypeHandler {
	return _typeRegistry.Snapshot()
}
