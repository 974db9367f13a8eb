// Package shift provides a runtime data-validation and marshalling engine
// for class-like schemas: named fields with declared types, optional
// per-field constraints, and defaults.
//
// A Schema is described ahead of time with a builder API (or derived from a
// Go struct via FromStruct) and then used any number of times to construct
// validated instances from raw input mappings:
//
//	server, err := shift.NewSchema("Server").
//		Field("host", shift.F(shift.String).Default("localhost")).
//		Field("port", shift.F(shift.Int).Default(8080).Ge(0).Le(65535)).
//		Build()
//
//	inst, err := shift.Construct(server, map[string]any{"port": 22})
//
// Construction runs a five-stage pipeline per field: transform, validate,
// set, represent, serialize. The first three run during Construct; Repr and
// Serialize drive the last two on a finished instance. Every stage can be
// overridden per type (RegisterType), per field (FieldBuilder), or per
// schema field group (SchemaBuilder.Transformer/Validator/Setter and
// friends).
//
// Validation never fails fast across fields by default: every violated
// constraint of every field contributes one diagnostic line, and a single
// AggregateError reports them all at once.
//
// The package keeps process-wide registries for type handlers, forward
// references, decorator bindings, and built schemas. All of them expose
// explicit register/deregister/clear operations plus copy accessors, and
// ResetGlobals() restores everything to its initial state for test
// isolation. Concurrent construction calls are safe as long as no registry
// mutation is in flight; serializing mutations is the host application's
// job. The registries themselves take no locks, only the lazy
// forward-reference resolution cache does.
package shift
