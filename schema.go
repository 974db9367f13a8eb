package shift

///////////////////////////////////////////////////////////////////////////////
// Schema
///////////////////////////////////////////////////////////////////////////////

// HookFunc is a pre- or post-construction hook. A non-nil error aborts the
// construction call immediately and is never aggregated.
type HookFunc func(ctx *Context) error

// Schema is a built, immutable description of a class-like type: an ordered
// field list, an optional config override, and optional lifecycle hooks.
// Build resolves the declared fields exactly once; the result is cached on
// the Schema until a global reset discards it.
type Schema struct {
	name     string
	fields   []*Field
	byName   map[string]*Field
	config   *Config
	preInit  HookFunc
	postInit HookFunc
}

// Name returns the schema's name, used in diagnostics and as its forward
// reference identity.
func (s *Schema) Name() string { return s.name }

// Fields returns the ordered field metadata list: declaration order, with
// every annotated field preceding every un-annotated one.
func (s *Schema) Fields() []*Field {
	out := make([]*Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// FieldByName returns the metadata for one declared field.
func (s *Schema) FieldByName(name string) (*Field, bool) {
	f, ok := s.byName[name]
	return f, ok
}

// Construct runs the pipeline for this schema over the input mapping.
func (s *Schema) Construct(input map[string]any) (*Instance, error) {
	return Construct(s, input)
}

///////////////////////////////////////////////////////////////////////////////
// SchemaBuilder
///////////////////////////////////////////////////////////////////////////////

type pendingBinding struct {
	stage  Stage
	fields []string
	fn     any
	opts   BindOpts
}

// SchemaBuilder assembles a Schema declaratively. Declaration order is
// preserved; errors are deferred and surface from Build as a SchemaError.
type SchemaBuilder struct {
	name      string
	order     []string
	builders  map[string]*FieldBuilder
	bindings  []pendingBinding
	config    *Config
	preInit   HookFunc
	postInit  HookFunc
	firstErr error
}

// NewSchema starts a schema declaration.
func NewSchema(name string) *SchemaBuilder {
	return &SchemaBuilder{
		name:     name,
		builders: make(map[string]*FieldBuilder),
	}
}

func (sb *SchemaBuilder) fail(field string, err error) {
	if sb.firstErr == nil {
		sb.firstErr = &SchemaError{Schema: sb.name, Field: field, Err: err}
	}
}

// Field declares a field. Redeclaring a name is a SchemaError.
func (sb *SchemaBuilder) Field(name string, fb *FieldBuilder) *SchemaBuilder {
	if _, exists := sb.builders[name]; exists {
		sb.fail(name, ErrDuplicateField)
		return sb
	}
	if fb == nil {
		fb = F()
	}
	sb.builders[name] = fb
	sb.order = append(sb.order, name)
	return sb
}

// Attr declares an un-annotated field carrying only a default value, the
// analogue of a plain class attribute.
func (sb *SchemaBuilder) Attr(name string, value any) *SchemaBuilder {
	return sb.Field(name, F().Default(value))
}

// Transformer binds fn to the named fields for the transform stage, running
// after the default type-level transform.
func (sb *SchemaBuilder) Transformer(fn TransformerFunc, fields ...string) *SchemaBuilder {
	return sb.TransformerOpts(BindOpts{}, fn, fields...)
}

// TransformerOpts binds a transformer with explicit placement options.
func (sb *SchemaBuilder) TransformerOpts(opts BindOpts, fn TransformerFunc, fields ...string) *SchemaBuilder {
	sb.bindings = append(sb.bindings, pendingBinding{StageTransform, fields, fn, opts})
	return sb
}

// Validator binds fn to the named fields for the validate stage. Placement
// relative to the default validation follows the config axes
// UseShiftValidatorsFirst and ShiftValidatorsHavePrecedence.
func (sb *SchemaBuilder) Validator(fn ValidatorFunc, fields ...string) *SchemaBuilder {
	return sb.ValidatorOpts(BindOpts{}, fn, fields...)
}

// ValidatorOpts binds a validator with explicit placement options, which
// override the config axes for these fields.
func (sb *SchemaBuilder) ValidatorOpts(opts BindOpts, fn ValidatorFunc, fields ...string) *SchemaBuilder {
	sb.bindings = append(sb.bindings, pendingBinding{StageValidate, fields, fn, opts})
	return sb
}

// Setter binds fn to the named fields for the set stage, replacing the
// default attribute assignment.
func (sb *SchemaBuilder) Setter(fn SetterFunc, fields ...string) *SchemaBuilder {
	sb.bindings = append(sb.bindings, pendingBinding{StageSet, fields, fn, BindOpts{}})
	return sb
}

// ReprFor binds fn to the named fields for the representation stage.
func (sb *SchemaBuilder) ReprFor(fn ReprFunc, fields ...string) *SchemaBuilder {
	sb.bindings = append(sb.bindings, pendingBinding{StageRepr, fields, fn, BindOpts{}})
	return sb
}

// SerializerFor binds fn to the named fields for the serialize stage.
func (sb *SchemaBuilder) SerializerFor(fn SerializerFunc, fields ...string) *SchemaBuilder {
	sb.bindings = append(sb.bindings, pendingBinding{StageSerialize, fields, fn, BindOpts{}})
	return sb
}

// PreInit declares a hook that runs before any field is processed, with
// access to the raw input mapping. An error aborts construction.
func (sb *SchemaBuilder) PreInit(fn HookFunc) *SchemaBuilder {
	sb.preInit = fn
	return sb
}

// PostInit declares a hook that runs after all fields were processed, only
// when no diagnostics were collected. An error aborts construction.
func (sb *SchemaBuilder) PostInit(fn HookFunc) *SchemaBuilder {
	sb.postInit = fn
	return sb
}

// Config attaches a per-schema configuration override.
func (sb *SchemaBuilder) Config(cfg Config) *SchemaBuilder {
	sb.config = &cfg
	return sb
}

// Build resolves the declared fields into ordered metadata, registers the
// schema's bindings and forward-reference identity, and returns the Schema.
// Definition problems are reported here, independent of any construction
// call.
func (sb *SchemaBuilder) Build() (*Schema, error) {
	if sb.firstErr != nil {
		return nil, sb.firstErr
	}

	s := &Schema{
		name:     sb.name,
		byName:   make(map[string]*Field),
		config:   sb.config,
		preInit:  sb.preInit,
		postInit: sb.postInit,
	}
	cfg := resolveConfig(s)

	// Resolve fields in declaration order, annotated fields first.
	var annotated, plain []*Field
	for _, name := range sb.order {
		f, err := sb.builders[name].build(name)
		if err != nil {
			return nil, &SchemaError{Schema: sb.name, Field: name, Err: err}
		}
		field := &f

		if field.annotated {
			annotated = append(annotated, field)
			continue
		}
		if !cfg.AllowNonAnnotated {
			return nil, &SchemaError{Schema: sb.name, Field: name, Err: ErrNonAnnotated}
		}
		if !field.HasDefault() {
			// Permitted but undeterminable: the field is excluded from the
			// metadata list altogether.
			logDebug(cfg, "schema %s: excluding typeless field %q with no default", sb.name, name)
			continue
		}
		plain = append(plain, field)
	}

	s.fields = append(annotated, plain...)
	for _, f := range s.fields {
		s.byName[f.Name] = f
	}

	// A rebuilt schema replaces its previous bindings wholesale.
	_decorators.ClearSchema(sb.name)

	for _, f := range s.fields {
		if err := bindFieldOverrides(sb.name, f); err != nil {
			return nil, &SchemaError{Schema: sb.name, Field: f.Name, Err: err}
		}
	}
	for _, pb := range sb.bindings {
		for _, fieldName := range pb.fields {
			if _, ok := s.byName[fieldName]; !ok {
				return nil, &SchemaError{Schema: sb.name, Field: fieldName, Err: ErrUnknownField}
			}
		}
		if err := _decorators.Bind(sb.name, pb.stage, pb.fields, pb.fn, pb.opts); err != nil {
			return nil, &SchemaError{Schema: sb.name, Err: err}
		}
	}

	registerSchema(s)
	return s, nil
}

// MustBuild is Build, panicking on error. Intended for static declarations.
func (sb *SchemaBuilder) MustBuild() *Schema {
	s, err := sb.Build()
	if err != nil {
		panic(err)
	}
	return s
}

// bindFieldOverrides registers a field's own stage functions as decorator
// bindings so the pipeline only ever consults the registry.
func bindFieldOverrides(schema string, f *Field) error {
	type entry struct {
		stage Stage
		fn    any
		ok    bool
	}
	entries := []entry{
		{StageTransform, f.Transformer, f.Transformer != nil},
		{StageValidate, f.Validator, f.Validator != nil},
		{StageSet, f.Setter, f.Setter != nil},
		{StageRepr, f.ReprFunc, f.ReprFunc != nil},
		{StageSerialize, f.Serializer, f.Serializer != nil},
	}
	for _, e := range entries {
		if !e.ok {
			continue
		}
		if err := _decorators.Bind(schema, e.stage, []string{f.Name}, e.fn, BindOpts{}); err != nil {
			return err
		}
	}
	return nil
}

///////////////////////////////////////////////////////////////////////////////
// Schema registry
///////////////////////////////////////////////////////////////////////////////

var _schemas map[string]*Schema

func init() {
	_schemas = make(map[string]*Schema)
}

// registerSchema records a built schema by name and binds its forward
// reference identity. Rebuilding a name replaces the previous entry.
func registerSchema(s *Schema) {
	_schemas[s.name] = s
	_forwardRefs.Register(s.name, Of(s))
	_refCache.clear()
}

// LookupSchema returns a built schema by name.
func LookupSchema(name string) (*Schema, bool) {
	s, ok := _schemas[name]
	return s, ok
}

// GetSchemaRegistry returns a copy of the built-schema registry.
func GetSchemaRegistry() map[string]*Schema {
	out := make(map[string]*Schema, len(_schemas))
	for k, v := range _schemas {
		out[k] = v
	}
	return out
}

// ClearSchemas empties the built-schema registry and the per-schema caches
// hanging off it (decorator bindings, forward refs, resolution cache).
func ClearSchemas() {
	for name := range _schemas {
		_decorators.ClearSchema(name)
		_forwardRefs.Deregister(name)
	}
	_schemas = make(map[string]*Schema)
	_refCache.clear()
}

// ResetGlobals restores every global registry and cache to its initial
// state: type handlers, forward references, decorator bindings, built
// schemas, and the process default config. Intended for test isolation.
func ResetGlobals() {
	_typeRegistry = NewTypeRegistry()
	_forwardRefs = NewForwardRefRegistry()
	_refCache = newRefCache()
	_decorators = NewDecoratorRegistry()
	_schemas = make(map[string]*Schema)
	_defaultConfig = NewConfig()
}
