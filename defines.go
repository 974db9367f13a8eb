package shift

import (
	"reflect"
	"time"

	"github.com/google/uuid"
)

// Stage identifies one of the five pipeline phases.
type Stage int

const (
	StageTransform Stage = iota
	StageValidate
	StageSet
	StageRepr
	StageSerialize
)

// String returns the stage name used in diagnostics and logs.
func (s Stage) String() string {
	switch s {
	case StageTransform:
		return "transform"
	case StageValidate:
		return "validate"
	case StageSet:
		return "set"
	case StageRepr:
		return "repr"
	case StageSerialize:
		return "serialize"
	default:
		return "unknown"
	}
}

// Verbosity levels accepted by Config.Verbosity.
const (
	VerbositySilent = 0
	VerbosityInfo   = 1
	VerbosityDebug  = 2
	VerbosityTrace  = 3
)

// Struct tag keys recognized by FromStruct.
const (
	StructTagName = "shift"

	TagKeyDefault   = "default"
	TagKeyAlias     = "alias"
	TagKeyPattern   = "pattern"
	TagKeyGe        = "ge"
	TagKeyGt        = "gt"
	TagKeyLe        = "le"
	TagKeyLt        = "lt"
	TagKeyEq        = "eq"
	TagKeyNe        = "ne"
	TagKeyMinLen    = "minlen"
	TagKeyMaxLen    = "maxlen"
	TagKeyOmitRepr  = "omitrepr"
	TagKeyOmitSer   = "omitserial"
	TagKeyPrivate   = "private"
	TagKeyIgnore    = "-"
	TagPairDelim    = ","
	TagKeyValDelim  = "="
)

// reflect.Type constants for type checks and special scalar handling.
var (
	BoolType      = reflect.TypeOf(false)
	IntType       = reflect.TypeOf(int(0))
	Int64Type     = reflect.TypeOf(int64(0))
	Float64Type   = reflect.TypeOf(float64(0))
	StringType    = reflect.TypeOf("")
	BytesType     = reflect.TypeOf([]byte{})
	TimeType      = reflect.TypeOf(time.Time{})
	UUIDType      = reflect.TypeOf(uuid.UUID{})
	StringAnyMap  = reflect.TypeOf(map[string]any{})
	AnySliceType  = reflect.TypeOf([]any{})
)

// missingType is the absent sentinel's underlying type. A dedicated type
// keeps Missing distinct from every real value, including nil.
type missingType struct{}

// Missing marks "argument not supplied" and is never a valid field value.
// It tells "omitted, use default" apart from "explicitly set to nil".
var Missing any = missingType{}

// IsMissing reports whether v is the absent sentinel.
func IsMissing(v any) bool {
	_, ok := v.(missingType)
	return ok
}

func (missingType) String() string { return "<missing>" }
