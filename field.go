package shift

import (
	"fmt"
	"reflect"
	"regexp"
)

///////////////////////////////////////////////////////////////////////////////
// Stage function types
///////////////////////////////////////////////////////////////////////////////

// TransformerFunc replaces a raw value before validation. Returning an error
// contributes a violation for the field; the raw value is left untouched.
type TransformerFunc func(ctx *Context, f *Field, v any) (any, error)

// ValidatorFunc reports whether v is acceptable for the field. A non-nil
// error is fatal: it aborts the construction call immediately instead of
// being aggregated.
type ValidatorFunc func(ctx *Context, f *Field, v any) (bool, error)

// SetterFunc performs arbitrary assignment logic in place of the default
// attribute set. Its effects happen through ctx.Instance(); any return value
// would be discarded, so there is none.
type SetterFunc func(ctx *Context, f *Field, v any)

// ReprFunc renders the field's value fragment for Repr.
type ReprFunc func(f *Field, v any) string

// SerializerFunc produces the field's serialized value for Serialize.
type SerializerFunc func(f *Field, v any) any

// CheckFunc is a free-form predicate constraint over the field value.
type CheckFunc func(v any) bool

// FactoryFunc produces a default value at construction time.
type FactoryFunc func() any

///////////////////////////////////////////////////////////////////////////////
// Constraints
///////////////////////////////////////////////////////////////////////////////

// Constraints is a field's declared value checks. Every declared check is
// evaluated on validation and every failing one contributes its own
// violation, so a single field can yield multiple diagnostic lines.
type Constraints struct {
	Ge, Gt, Le, Lt *float64
	Eq, Ne         any
	HasEq, HasNe   bool
	MinLen, MaxLen *int
	Pattern        *regexp.Regexp
	In             []any
	Check          CheckFunc
}

func (c *Constraints) empty() bool {
	return c.Ge == nil && c.Gt == nil && c.Le == nil && c.Lt == nil &&
		!c.HasEq && !c.HasNe && c.MinLen == nil && c.MaxLen == nil &&
		c.Pattern == nil && c.In == nil && c.Check == nil
}

// evaluate runs every declared check against v and returns one violation per
// failing check.
func (c *Constraints) evaluate(schema, field string, v any) []Violation {
	var out []Violation
	fail := func(constraint, format string, args ...any) {
		out = append(out, Violation{
			Schema:     schema,
			Field:      field,
			Constraint: constraint,
			Message:    fmt.Sprintf(format, args...),
		})
	}

	if c.Ge != nil || c.Gt != nil || c.Le != nil || c.Lt != nil {
		n, ok := toFloat(v)
		if !ok {
			fail("numeric", "value %v is not numeric", v)
		} else {
			if c.Ge != nil && !(n >= *c.Ge) {
				fail("ge", "value %v is less than %v", v, *c.Ge)
			}
			if c.Gt != nil && !(n > *c.Gt) {
				fail("gt", "value %v is not greater than %v", v, *c.Gt)
			}
			if c.Le != nil && !(n <= *c.Le) {
				fail("le", "value %v is greater than %v", v, *c.Le)
			}
			if c.Lt != nil && !(n < *c.Lt) {
				fail("lt", "value %v is not less than %v", v, *c.Lt)
			}
		}
	}

	if c.HasEq && !reflect.DeepEqual(v, c.Eq) {
		fail("eq", "value %v is not equal to %v", v, c.Eq)
	}
	if c.HasNe && reflect.DeepEqual(v, c.Ne) {
		fail("ne", "value %v is equal to %v", v, c.Ne)
	}

	if c.MinLen != nil || c.MaxLen != nil {
		n, ok := lenOf(v)
		if !ok {
			fail("len", "value %v has no length", v)
		} else {
			if c.MinLen != nil && n < *c.MinLen {
				fail("min_len", "length %d is less than %d", n, *c.MinLen)
			}
			if c.MaxLen != nil && n > *c.MaxLen {
				fail("max_len", "length %d is greater than %d", n, *c.MaxLen)
			}
		}
	}

	if c.Pattern != nil {
		s, ok := v.(string)
		if !ok {
			fail("pattern", "value %v is not a string", v)
		} else if !c.Pattern.MatchString(s) {
			fail("pattern", "value %q does not match %q", s, c.Pattern.String())
		}
	}

	if c.In != nil {
		found := false
		for _, candidate := range c.In {
			if reflect.DeepEqual(v, candidate) {
				found = true
				break
			}
		}
		if !found {
			fail("in", "value %v is not one of the allowed values", v)
		}
	}

	if c.Check != nil && !c.Check(v) {
		fail("check", "value %v failed the check predicate", v)
	}

	return out
}

///////////////////////////////////////////////////////////////////////////////
// Field
///////////////////////////////////////////////////////////////////////////////

// Field is the resolved metadata for one declared schema field. Fields are
// built once per schema by Build and cached on the Schema; they are not
// mutated afterwards.
type Field struct {
	Name string

	// Type is the declared type descriptor, or nil for an un-annotated
	// field. Forward references stay unresolved here and are resolved
	// lazily at validation time.
	Type TypeDesc

	// Default is the declared default value, or Missing when none was
	// declared. DefaultFactory, when set, wins over Default.
	Default        any
	DefaultFactory FactoryFunc

	// DefaultSkips lets an applied default bypass transform and validation.
	DefaultSkips bool

	Constraints Constraints

	// Per-field stage overrides. These are registered as decorator bindings
	// at Build time, so a field-level function and a schema-level binding
	// for the same stage collide with ErrDuplicateBinding.
	Transformer    TransformerFunc
	Validator      ValidatorFunc
	ValidatorSkips bool // Accepting bound validator skips default validation.
	Setter         SetterFunc
	ReprFunc       ReprFunc
	Serializer     SerializerFunc

	// Stage defer flags. Defer suppresses the field entirely.
	Defer           bool
	DeferTransform  bool
	DeferValidation bool
	DeferSet        bool
	DeferRepr       bool
	DeferSerialize  bool

	// Private excludes the field from both representation and
	// serialization.
	Private bool

	ReprAs           string // Representation alias, "" keeps Name.
	SerializeAs      string // Serialization alias, "" keeps Name.
	ReprExclude      bool
	SerializeExclude bool

	annotated bool // Declared with a type.
}

// Annotated reports whether the field was declared with a type.
func (f *Field) Annotated() bool { return f.annotated }

// HasDefault reports whether the field declares a default value or factory.
func (f *Field) HasDefault() bool {
	return f.DefaultFactory != nil || !IsMissing(f.Default)
}

// resolveDefault produces the field's default value, preferring the factory.
// It returns Missing when the field has none.
func (f *Field) resolveDefault() any {
	if f.DefaultFactory != nil {
		return f.DefaultFactory()
	}
	return f.Default
}

// reprName returns the name the field uses in representation output.
func (f *Field) reprName() string {
	if f.ReprAs != "" {
		return f.ReprAs
	}
	return f.Name
}

// serializeName returns the key the field uses in serialized output.
func (f *Field) serializeName() string {
	if f.SerializeAs != "" {
		return f.SerializeAs
	}
	return f.Name
}

///////////////////////////////////////////////////////////////////////////////
// FieldBuilder
///////////////////////////////////////////////////////////////////////////////

// FieldBuilder assembles a Field fluently. Errors (for example an invalid
// pattern) are deferred and surface as a SchemaError from Build.
type FieldBuilder struct {
	field       Field
	patternExpr string
	err         error
}

// F starts a field declaration. Passing a TypeDesc annotates the field;
// calling F() declares an un-annotated field, which then needs a default
// (or AllowNonAnnotated handling applies).
func F(t ...TypeDesc) *FieldBuilder {
	fb := &FieldBuilder{field: Field{Default: Missing}}
	if len(t) > 0 && t[0] != nil {
		fb.field.Type = t[0]
		fb.field.annotated = true
	}
	return fb
}

// Default declares the value used when the field is omitted from the input.
func (fb *FieldBuilder) Default(v any) *FieldBuilder {
	fb.field.Default = v
	return fb
}

// DefaultFactory declares a factory producing the default at construction
// time. It wins over Default.
func (fb *FieldBuilder) DefaultFactory(fn FactoryFunc) *FieldBuilder {
	fb.field.DefaultFactory = fn
	return fb
}

// DefaultSkips lets an applied default bypass transform and validation.
func (fb *FieldBuilder) DefaultSkips() *FieldBuilder {
	fb.field.DefaultSkips = true
	return fb
}

func (fb *FieldBuilder) Ge(n float64) *FieldBuilder { fb.field.Constraints.Ge = &n; return fb }
func (fb *FieldBuilder) Gt(n float64) *FieldBuilder { fb.field.Constraints.Gt = &n; return fb }
func (fb *FieldBuilder) Le(n float64) *FieldBuilder { fb.field.Constraints.Le = &n; return fb }
func (fb *FieldBuilder) Lt(n float64) *FieldBuilder { fb.field.Constraints.Lt = &n; return fb }

func (fb *FieldBuilder) Eq(v any) *FieldBuilder {
	fb.field.Constraints.Eq = v
	fb.field.Constraints.HasEq = true
	return fb
}

func (fb *FieldBuilder) Ne(v any) *FieldBuilder {
	fb.field.Constraints.Ne = v
	fb.field.Constraints.HasNe = true
	return fb
}

func (fb *FieldBuilder) MinLen(n int) *FieldBuilder { fb.field.Constraints.MinLen = &n; return fb }
func (fb *FieldBuilder) MaxLen(n int) *FieldBuilder { fb.field.Constraints.MaxLen = &n; return fb }

// Pattern declares a regular expression the (string) value must match. The
// expression is compiled at Build time.
func (fb *FieldBuilder) Pattern(expr string) *FieldBuilder {
	fb.patternExpr = expr
	return fb
}

// In declares a membership constraint over the given values.
func (fb *FieldBuilder) In(values ...any) *FieldBuilder {
	fb.field.Constraints.In = values
	return fb
}

// Check declares a free-form predicate constraint.
func (fb *FieldBuilder) Check(fn CheckFunc) *FieldBuilder {
	fb.field.Constraints.Check = fn
	return fb
}

func (fb *FieldBuilder) Transformer(fn TransformerFunc) *FieldBuilder {
	fb.field.Transformer = fn
	return fb
}

func (fb *FieldBuilder) Validator(fn ValidatorFunc) *FieldBuilder {
	fb.field.Validator = fn
	return fb
}

// ValidatorSkips makes an accepting bound validator skip the default
// validation for this field regardless of config.
func (fb *FieldBuilder) ValidatorSkips() *FieldBuilder {
	fb.field.ValidatorSkips = true
	return fb
}

func (fb *FieldBuilder) Setter(fn SetterFunc) *FieldBuilder {
	fb.field.Setter = fn
	return fb
}

func (fb *FieldBuilder) Repr(fn ReprFunc) *FieldBuilder {
	fb.field.ReprFunc = fn
	return fb
}

func (fb *FieldBuilder) Serializer(fn SerializerFunc) *FieldBuilder {
	fb.field.Serializer = fn
	return fb
}

// Defer suppresses every stage for the field: it is never transformed,
// validated, or set from input.
func (fb *FieldBuilder) Defer() *FieldBuilder { fb.field.Defer = true; return fb }

func (fb *FieldBuilder) DeferTransform() *FieldBuilder  { fb.field.DeferTransform = true; return fb }
func (fb *FieldBuilder) DeferValidation() *FieldBuilder { fb.field.DeferValidation = true; return fb }
func (fb *FieldBuilder) DeferSet() *FieldBuilder        { fb.field.DeferSet = true; return fb }
func (fb *FieldBuilder) DeferRepr() *FieldBuilder       { fb.field.DeferRepr = true; return fb }
func (fb *FieldBuilder) DeferSerialize() *FieldBuilder  { fb.field.DeferSerialize = true; return fb }

// Private excludes the field from representation and serialization output.
func (fb *FieldBuilder) Private() *FieldBuilder { fb.field.Private = true; return fb }

func (fb *FieldBuilder) ReprAs(name string) *FieldBuilder      { fb.field.ReprAs = name; return fb }
func (fb *FieldBuilder) SerializeAs(name string) *FieldBuilder { fb.field.SerializeAs = name; return fb }
func (fb *FieldBuilder) ReprExclude() *FieldBuilder            { fb.field.ReprExclude = true; return fb }
func (fb *FieldBuilder) SerializeExclude() *FieldBuilder {
	fb.field.SerializeExclude = true
	return fb
}

// build finalizes the field, compiling deferred pieces.
func (fb *FieldBuilder) build(name string) (Field, error) {
	if fb.err != nil {
		return Field{}, fb.err
	}
	f := fb.field
	f.Name = name
	if fb.patternExpr != "" {
		re, err := regexp.Compile(fb.patternExpr)
		if err != nil {
			return Field{}, fmt.Errorf("invalid pattern %q: %w", fb.patternExpr, err)
		}
		f.Constraints.Pattern = re
	}
	return f, nil
}
