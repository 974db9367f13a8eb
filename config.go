package shift

///////////////////////////////////////////////////////////////////////////////
// Config
///////////////////////////////////////////////////////////////////////////////

// Config is the set of construction-time options. A schema may carry its own
// Config; otherwise the process-wide default applies. The effective config
// is resolved once per construction call and treated as an immutable
// snapshot for the whole call.
type Config struct {
	// Verbosity selects diagnostic logging detail, 0 (silent) through 3.
	Verbosity int

	// DoValidation gates the validate stage. When false, fields are neither
	// validated nor set.
	DoValidation bool

	// AllowUnmatchedArgs promotes unknown input keys to new unvalidated
	// attributes on the instance. When false, unknown keys are violations.
	AllowUnmatchedArgs bool

	// AllowAny accepts any-typed fields unconditionally. When false, fields
	// typed Any are rejected outright.
	AllowAny bool

	// AllowDefaults lets fields with a declared default fall back to it when
	// omitted from the input. When false, such fields are rejected.
	AllowDefaults bool

	// AllowNonAnnotated permits fields declared without a type (they are
	// validated only when a bound validator exists). When false, declaring
	// one is a SchemaError at Build time.
	AllowNonAnnotated bool

	// AllowShiftValidators gates bound validators. When false, any field
	// carrying one is rejected.
	AllowShiftValidators bool

	// ShiftValidatorsHavePrecedence short-circuits default validation once a
	// bound validator accepts the value.
	ShiftValidatorsHavePrecedence bool

	// UseShiftValidatorsFirst runs the bound validator before the default
	// validation instead of after it.
	UseShiftValidatorsFirst bool

	// AllowShiftSetters gates bound setters. When false, any field carrying
	// one is rejected.
	AllowShiftSetters bool

	// AllowShiftReprs gates bound repr functions. When false, fields fall
	// back to the default rendering.
	AllowShiftReprs bool

	// AllowShiftSerializers gates bound serializers. When false, fields fall
	// back to the default projection.
	AllowShiftSerializers bool

	// AllowNestedShiftClasses validates nested-schema fields recursively.
	// When false, such fields are rejected.
	AllowNestedShiftClasses bool

	// FailFast stops construction at the first invalid field instead of
	// collecting every violation. Off by default, and off is the contract
	// most callers want: one call reports the complete picture.
	FailFast bool
}

// NewConfig returns a Config populated with the initial defaults,
// independent of any changes made to the process-wide default.
func NewConfig() Config {
	return Config{
		Verbosity:                     VerbositySilent,
		DoValidation:                  true,
		AllowUnmatchedArgs:            false,
		AllowAny:                      true,
		AllowDefaults:                 true,
		AllowNonAnnotated:             true,
		AllowShiftValidators:          true,
		ShiftValidatorsHavePrecedence: true,
		UseShiftValidatorsFirst:       true,
		AllowShiftSetters:             true,
		AllowShiftReprs:               true,
		AllowShiftSerializers:         true,
		AllowNestedShiftClasses:       true,
		FailFast:                      false,
	}
}

var _defaultConfig = NewConfig()

// DefaultConfig returns a copy of the process-wide default configuration.
func DefaultConfig() Config { return _defaultConfig }

// SetDefaultConfig replaces the process-wide default configuration. It
// affects schemas without an explicit override on their next construction
// call; in-flight calls keep the snapshot they resolved.
func SetDefaultConfig(cfg Config) { _defaultConfig = cfg }

// resolveConfig computes the effective configuration snapshot for a schema:
// the schema's explicit override when present, else the process default.
func resolveConfig(s *Schema) Config {
	if s != nil && s.config != nil {
		return *s.config
	}
	return _defaultConfig
}
