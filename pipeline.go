package shift

import (
	"sort"
)

///////////////////////////////////////////////////////////////////////////////
// Pipeline Engine
///////////////////////////////////////////////////////////////////////////////

// Construct builds a validated instance of s from the input mapping.
//
// Each field runs transform, validate, and set in metadata order. A field
// that fails validation is skipped, not set, and construction continues so
// one call reports every violation; the aggregated diagnostics come back as
// an *AggregateError. Hook failures and unresolvable forward references are
// fatal and propagate immediately without aggregation.
func Construct(s *Schema, input map[string]any) (*Instance, error) {
	if s == nil {
		return nil, ErrNilSchema
	}
	if input == nil {
		input = map[string]any{}
	}

	cfg := resolveConfig(s)
	ctx := newContext(s, cfg, input)

	logInfo(cfg, "constructing %s", s.Name())
	logTrace(cfg, input, "%s input", s.Name())

	if s.preInit != nil {
		if err := s.preInit(ctx); err != nil {
			return nil, &HookError{Schema: s.Name(), Hook: "pre-init", Err: err}
		}
	}

	for _, f := range s.fields {
		if f.Defer {
			logDebug(cfg, "%s.%s: deferred, skipping", s.Name(), f.Name)
			continue
		}
		before := len(ctx.violations)
		if err := processField(ctx, f); err != nil {
			return nil, err
		}
		if len(ctx.violations) > before && cfg.FailFast {
			break
		}
	}

	applyUnmatched(ctx)

	if ctx.invalid() {
		return nil, &AggregateError{Schema: s.Name(), Violations: ctx.Violations()}
	}

	if s.postInit != nil {
		if err := s.postInit(ctx); err != nil {
			return nil, &HookError{Schema: s.Name(), Hook: "post-init", Err: err}
		}
	}

	logDebug(cfg, "constructed %s", s.Name())
	return ctx.Instance(), nil
}

// processField runs one field through transform, validate, and set. Field
// problems land in the context's diagnostics; the returned error is fatal.
func processField(ctx *Context, f *Field) error {
	cfg := ctx.Config()
	schema := ctx.Schema().Name()
	before := len(ctx.violations)

	raw, present := ctx.Input()[f.Name]
	if !present {
		raw = Missing
	}
	logDebug(cfg, "%s.%s: raw value resolved (present=%v)", schema, f.Name, present)

	value := raw
	skipValidation := false
	if !f.DeferTransform {
		v, skip, err := transformStage(ctx, f, value)
		if err != nil {
			return err
		}
		value, skipValidation = v, skip
		if len(ctx.violations) > before {
			return nil
		}
		if IsMissing(value) {
			ctx.AddViolation(f.Name, "required", "field is required but was not supplied")
			return nil
		}
	}

	// DoValidation=false skips validation and setting both.
	if !cfg.DoValidation {
		return nil
	}

	deferredMissing := f.DeferTransform && IsMissing(value)
	if !f.DeferValidation && !skipValidation && !deferredMissing {
		if err := validateStage(ctx, f, &value); err != nil {
			return err
		}
		if len(ctx.violations) > before {
			return nil
		}
	}

	if f.DeferSet {
		return nil
	}
	return setStage(ctx, f, value)
}

// transformStage applies the bound transformer and the default type-level
// transform in the binding's configured order. The default behavior
// substitutes an absent value with the field's resolved default before the
// type-level transform runs. It reports whether validation should be
// skipped (DefaultSkips took effect).
func transformStage(ctx *Context, f *Field, value any) (any, bool, error) {
	cfg := ctx.Config()
	schema := ctx.Schema().Name()
	binding := _decorators.Lookup(schema, f.Name, StageTransform)

	applyBound := func(v any) (any, bool) {
		fn := binding.Fn.(TransformerFunc)
		out, err := fn(ctx, f, v)
		if err != nil {
			ctx.AddViolation(f.Name, "transform", err.Error())
			return v, false
		}
		return out, true
	}

	runDefault := true
	if binding != nil && binding.Pre {
		v, ok := applyBound(value)
		if !ok {
			return value, false, nil
		}
		value = v
		runDefault = !binding.SkipDefault
	}

	if runDefault {
		if IsMissing(value) && f.HasDefault() {
			if !cfg.AllowDefaults {
				ctx.AddViolation(f.Name, "default", "field was omitted and defaults are disabled")
				return value, false, nil
			}
			value = f.resolveDefault()
			logDebug(cfg, "%s.%s: default applied", schema, f.Name)
			if f.DefaultSkips {
				return value, true, nil
			}
		}
		if !IsMissing(value) && f.Type != nil {
			v, err := dispatchTransform(ctx, f, f.Type, value)
			if err != nil {
				if _, fatal := err.(*ResolutionError); fatal {
					return value, false, err
				}
				ctx.AddViolation(f.Name, "transform", err.Error())
				return value, false, nil
			}
			value = v
		}
	}

	if binding != nil && !binding.Pre {
		v, ok := applyBound(value)
		if !ok {
			return value, false, nil
		}
		value = v
	}

	logTrace(cfg, value, "%s.%s transformed", schema, f.Name)
	return value, false, nil
}

// validateStage evaluates the default validation (constraint set plus type
// dispatch) and the bound validator, interleaved per the binding flags and
// the config axes. On success the value may be replaced (nested mappings
// become instances).
func validateStage(ctx *Context, f *Field, value *any) error {
	cfg := ctx.Config()
	schema := ctx.Schema().Name()
	binding := _decorators.Lookup(schema, f.Name, StageValidate)

	if binding != nil && !cfg.AllowShiftValidators {
		ctx.AddViolation(f.Name, "validator", "bound validators are not allowed")
		return nil
	}

	// Default validation: every declared constraint check plus the type
	// dispatch. All checks run; each failure is its own diagnostic.
	runDefault := func() ([]Violation, error) {
		viols := f.Constraints.evaluate(schema, f.Name, *value)
		if f.Type != nil {
			replaced, tv, err := dispatchValidate(ctx, f, f.Type, *value)
			if err != nil {
				return nil, err
			}
			if len(tv) == 0 {
				*value = replaced
			}
			viols = append(viols, tv...)
		}
		return viols, nil
	}

	if binding == nil {
		viols, err := runDefault()
		if err != nil {
			return err
		}
		ctx.addViolations(viols)
		return nil
	}

	fn := binding.Fn.(ValidatorFunc)
	first := binding.Pre || cfg.UseShiftValidatorsFirst
	precedence := binding.SkipDefault || cfg.ShiftValidatorsHavePrecedence || f.ValidatorSkips

	if first {
		ok, err := fn(ctx, f, *value)
		if err != nil {
			return err
		}
		if !ok {
			ctx.AddViolation(f.Name, "validator", "value rejected by bound validator")
		}
		if ok && precedence {
			logDebug(cfg, "%s.%s: bound validator accepted, skipping default validation", schema, f.Name)
			return nil
		}
		viols, err := runDefault()
		if err != nil {
			return err
		}
		ctx.addViolations(viols)
		return nil
	}

	// Bound validator runs after the default validation. An accepting
	// validator with precedence overrides the default result.
	viols, err := runDefault()
	if err != nil {
		return err
	}
	ok, err := fn(ctx, f, *value)
	if err != nil {
		return err
	}
	if !ok {
		viols = append(viols, Violation{
			Schema:     schema,
			Field:      f.Name,
			Constraint: "validator",
			Message:    "value rejected by bound validator",
		})
	} else if precedence {
		viols = nil
	}
	ctx.addViolations(viols)
	return nil
}

// setStage assigns the validated value: a bound setter when present, then a
// registered type handler's set, then the default attribute assignment.
func setStage(ctx *Context, f *Field, value any) error {
	cfg := ctx.Config()
	schema := ctx.Schema().Name()

	if binding := _decorators.Lookup(schema, f.Name, StageSet); binding != nil {
		if !cfg.AllowShiftSetters {
			ctx.AddViolation(f.Name, "setter", "bound setters are not allowed")
			return nil
		}
		binding.Fn.(SetterFunc)(ctx, f, value)
		return nil
	}

	if rt := runtimeTypeOf(f.Type); rt != nil {
		if h := _typeRegistry.Lookup(rt); h != nil && h.Set != nil {
			h.Set(ctx, f, value)
			return nil
		}
	}

	ctx.Instance().Set(f.Name, value)
	return nil
}

// applyUnmatched handles input keys that match no declared field: promoted
// to unvalidated attributes or rejected, per config.
func applyUnmatched(ctx *Context) {
	cfg := ctx.Config()

	var extra []string
	for key := range ctx.Input() {
		if _, ok := ctx.Schema().FieldByName(key); !ok {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)

	for _, key := range extra {
		if cfg.AllowUnmatchedArgs {
			logDebug(cfg, "%s: promoting unmatched key %q", ctx.Schema().Name(), key)
			ctx.Instance().Set(key, ctx.Input()[key])
			continue
		}
		// FailFast keeps the same one-violation contract here as the field
		// loop: the first rejection ends collection.
		if cfg.FailFast && ctx.invalid() {
			break
		}
		ctx.AddViolation(key, "unmatched_key", "input key matches no declared field")
	}
}
