package shift

import (
	"errors"
	"fmt"
	"strings"
)

///////////////////////////////////////////////////////////////////////////////
// Errors
///////////////////////////////////////////////////////////////////////////////

var (
	ErrNilSchema         = errors.New("schema cannot be nil")
	ErrDuplicateField    = errors.New("field declared more than once")
	ErrDuplicateBinding  = errors.New("a function is already bound for this field and stage")
	ErrUnknownField      = errors.New("binding references a field not declared on the schema")
	ErrNonAnnotated      = errors.New("fields without a declared type are not allowed")
	ErrUnsupportedSource = errors.New("unsupported source document")
)

// SchemaError reports a malformed schema definition. It is detected when
// Build resolves the declared fields, independent of any construction call.
type SchemaError struct {
	Schema string
	Field  string
	Err    error
}

func (e *SchemaError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("schema %q: %v", e.Schema, e.Err)
	}
	return fmt.Sprintf("schema %q: field %q: %v", e.Schema, e.Field, e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// ResolutionError reports a forward-reference expression that could not be
// resolved against its scope or the global forward-ref registry.
type ResolutionError struct {
	Expr  string
	Scope string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("cannot resolve forward reference %q (scope %q)", e.Expr, e.Scope)
}

// HookError reports a pre- or post-construction hook failure. It propagates
// immediately and is never aggregated with field diagnostics.
type HookError struct {
	Schema string
	Hook   string // "pre-init" or "post-init"
	Err    error
}

func (e *HookError) Error() string {
	return fmt.Sprintf("schema %q: %s hook failed: %v", e.Schema, e.Hook, e.Err)
}

func (e *HookError) Unwrap() error { return e.Err }

///////////////////////////////////////////////////////////////////////////////
// Violations
///////////////////////////////////////////////////////////////////////////////

// Violation is one diagnostic line collected during a construction call. A
// single field can contribute several violations, one per failed check.
type Violation struct {
	Schema     string
	Field      string
	Constraint string // Name of the violated constraint or check.
	Message    string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s.%s: %s: %s", v.Schema, v.Field, v.Constraint, v.Message)
}

// AggregateError carries every violation collected during one construction
// call, in field order. No instance is produced when it is returned.
type AggregateError struct {
	Schema     string
	Violations []Violation
}

func (e *AggregateError) Error() string {
	b := &strings.Builder{}
	fmt.Fprintf(b, "validation of %q failed with %d violation(s):", e.Schema, len(e.Violations))
	for _, v := range e.Violations {
		b.WriteString("\n\t")
		b.WriteString(v.String())
	}
	return b.String()
}

// AsAggregate extracts an AggregateError from err using errors.As.
func AsAggregate(err error) (*AggregateError, bool) {
	var agg *AggregateError
	if errors.As(err, &agg) {
		return agg, true
	}
	return nil, false
}
