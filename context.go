package shift

///////////////////////////////////////////////////////////////////////////////
// Construction Context
///////////////////////////////////////////////////////////////////////////////

// Context is the ephemeral per-call state of one construction: the original
// input mapping, the instance being built, and the diagnostics collected so
// far. It is created by Construct, handed to every bound function and hook,
// and discarded when the call finishes.
type Context struct {
	schema     *Schema
	config     Config
	input      map[string]any
	instance   *Instance
	violations []Violation
}

func newContext(s *Schema, cfg Config, input map[string]any) *Context {
	return &Context{
		schema:   s,
		config:   cfg,
		input:    input,
		instance: newInstance(s),
	}
}

// Schema returns the schema under construction.
func (c *Context) Schema() *Schema { return c.schema }

// Config returns the effective configuration snapshot for this call.
func (c *Context) Config() Config { return c.config }

// Input returns the raw input mapping. Callers must not mutate it.
func (c *Context) Input() map[string]any { return c.input }

// Instance returns the in-progress instance.
func (c *Context) Instance() *Instance { return c.instance }

// AddViolation appends one diagnostic line for a field.
func (c *Context) AddViolation(field, constraint, message string) {
	c.violations = append(c.violations, Violation{
		Schema:     c.schema.Name(),
		Field:      field,
		Constraint: constraint,
		Message:    message,
	})
}

// addViolations appends pre-built diagnostics.
func (c *Context) addViolations(vs []Violation) {
	c.violations = append(c.violations, vs...)
}

// Violations returns the diagnostics collected so far.
func (c *Context) Violations() []Violation { return c.violations }

// invalid reports whether any diagnostics were collected.
func (c *Context) invalid() bool { return len(c.violations) > 0 }
