package shift

import "fmt"

///////////////////////////////////////////////////////////////////////////////
// Decorator Bindings
///////////////////////////////////////////////////////////////////////////////

// Binding associates one user function with one field for one stage. A
// single function may be bound to several fields (one Binding per field),
// but at most one Binding may exist per (field, stage).
type Binding struct {
	Stage Stage

	// Fn is one of TransformerFunc, ValidatorFunc, SetterFunc, ReprFunc, or
	// SerializerFunc depending on Stage.
	Fn any

	// Pre runs the bound function before the default stage behavior rather
	// than after it.
	Pre bool

	// SkipDefault suppresses the default stage behavior entirely when the
	// binding runs first.
	SkipDefault bool
}

// BindOpts controls binding placement relative to the default stage
// behavior.
type BindOpts struct {
	// Pre runs the bound function before the default behavior.
	Pre bool
	// KeepDefault, together with Pre, still runs the default behavior after
	// the bound function. Without Pre it has no effect.
	KeepDefault bool
}

func (o BindOpts) skipDefault() bool { return o.Pre && !o.KeepDefault }

///////////////////////////////////////////////////////////////////////////////
// DecoratorRegistry
///////////////////////////////////////////////////////////////////////////////

type decoratorKey struct {
	schema string
	field  string
	stage  Stage
}

// DecoratorRegistry maps (schema, field, stage) to bound override
// functions. It is populated once at schema-build time; like the other
// registries it takes no locks, so mutation must not race construction.
type DecoratorRegistry struct {
	bindings map[decoratorKey]*Binding
}

func NewDecoratorRegistry() *DecoratorRegistry {
	return &DecoratorRegistry{bindings: make(map[decoratorKey]*Binding)}
}

// Bind associates fn with every named field for the given stage. Binding a
// (field, stage) pair twice is an error.
func (r *DecoratorRegistry) Bind(schema string, stage Stage, fields []string, fn any, opts BindOpts) error {
	for _, field := range fields {
		key := decoratorKey{schema: schema, field: field, stage: stage}
		if _, exists := r.bindings[key]; exists {
			return fmt.Errorf("%w: %s.%s (%s)", ErrDuplicateBinding, schema, field, stage)
		}
		r.bindings[key] = &Binding{
			Stage:       stage,
			Fn:          fn,
			Pre:         opts.Pre,
			SkipDefault: opts.skipDefault(),
		}
	}
	return nil
}

// Lookup returns the binding for (schema, field, stage) or nil.
func (r *DecoratorRegistry) Lookup(schema, field string, stage Stage) *Binding {
	return r.bindings[decoratorKey{schema: schema, field: field, stage: stage}]
}

// ClearSchema removes every binding belonging to one schema.
func (r *DecoratorRegistry) ClearSchema(schema string) {
	for key := range r.bindings {
		if key.schema == schema {
			delete(r.bindings, key)
		}
	}
}

// Clear removes every binding.
func (r *DecoratorRegistry) Clear() {
	r.bindings = make(map[decoratorKey]*Binding)
}

// Snapshot returns a copy of the bindings for introspection.
func (r *DecoratorRegistry) Snapshot() map[string]*Binding {
	out := make(map[string]*Binding, len(r.bindings))
	for key, b := range r.bindings {
		out[fmt.Sprintf("%s.%s:%s", key.schema, key.field, key.stage)] = b
	}
	return out
}

///////////////////////////////////////////////////////////////////////////////
// Global Singleton and Package Functions
///////////////////////////////////////////////////////////////////////////////

var _decorators *DecoratorRegistry

func init() {
	_decorators = NewDecoratorRegistry()
}

// LookupBinding returns the bound function for (schema, field, stage) from
// the global decorator registry, or nil.
func LookupBinding(schema, field string, stage Stage) *Binding {
	return _decorators.Lookup(schema, field, stage)
}

// GetDecoratorRegistry returns a copy of the global bindings.
func GetDecoratorRegistry() map[string]*Binding {
	return _decorators.Snapshot()
}
