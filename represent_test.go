package shift

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepr(t *testing.T) {
	t.Run("DeclarationOrder", func(t *testing.T) {
		t.Cleanup(ResetGlobals)

		s := NewSchema("Server").
			Field("host", F(String)).
			Field("port", F(Int)).
			MustBuild()

		in, err := Construct(s, map[string]any{"host": "example.com", "port": 80})
		require.NoError(t, err)
		assert.Equal(t, `Server(host="example.com", port=80)`, Repr(in))
	})

	t.Run("NilInstance", func(t *testing.T) {
		assert.Equal(t, "<nil>", Repr(nil))
	})

	t.Run("Alias", func(t *testing.T) {
		t.Cleanup(ResetGlobals)

		s := NewSchema("Aliased").
			Field("internal_name", F(String).ReprAs("name")).
			MustBuild()

		in, err := Construct(s, map[string]any{"internal_name": "x"})
		require.NoError(t, err)
		assert.Equal(t, `Aliased(name="x")`, Repr(in))
	})

	t.Run("ExclusionsAndPrivate", func(t *testing.T) {
		t.Cleanup(ResetGlobals)

		s := NewSchema("Partial").
			Field("shown", F(Int)).
			Field("hidden", F(Int).ReprExclude()).
			Field("secret", F(Int).Private()).
			Field("late", F(Int).DeferRepr()).
			MustBuild()

		in, err := Construct(s, map[string]any{"shown": 1, "hidden": 2, "secret": 3, "late": 4})
		require.NoError(t, err)
		assert.Equal(t, "Partial(shown=1)", Repr(in))
	})

	t.Run("BoundReprFunc", func(t *testing.T) {
		t.Cleanup(ResetGlobals)

		s := NewSchema("Custom").
			Field("token", F(String).Repr(func(f *Field, v any) string {
				return "***"
			})).
			MustBuild()

		in, err := Construct(s, map[string]any{"token": "hunter2"})
		require.NoError(t, err)
		assert.Equal(t, "Custom(token=***)", Repr(in))
	})

	t.Run("ReprBindingsDisabledByConfig", func(t *testing.T) {
		t.Cleanup(ResetGlobals)

		cfg := NewConfig()
		cfg.AllowShiftReprs = false
		s := NewSchema("Muted").
			Field("token", F(String).Repr(func(f *Field, v any) string {
				return "***"
			})).
			Config(cfg).
			MustBuild()

		in, err := Construct(s, map[string]any{"token": "hunter2"})
		require.NoError(t, err)
		assert.Equal(t, `Muted(token="hunter2")`, Repr(in))
	})

	t.Run("SchemaLevelReprBinding", func(t *testing.T) {
		t.Cleanup(ResetGlobals)

		s := NewSchema("Custom2").
			Field("n", F(Int)).
			ReprFor(func(f *Field, v any) string {
				return fmt.Sprintf("0x%x", v)
			}, "n").
			MustBuild()

		in, err := Construct(s, map[string]any{"n": 255})
		require.NoError(t, err)
		assert.Equal(t, "Custom2(n=0xff)", Repr(in))
	})

	t.Run("NestedInstance", func(t *testing.T) {
		t.Cleanup(ResetGlobals)

		inner := NewSchema("Inner").Field("v", F(Int)).MustBuild()
		outer := NewSchema("Outer").Field("in", F(Of(inner))).MustBuild()

		in, err := Construct(outer, map[string]any{"in": map[string]any{"v": 1}})
		require.NoError(t, err)
		assert.Equal(t, "Outer(in=Inner(v=1))", Repr(in))
	})

	t.Run("ContainersAndNil", func(t *testing.T) {
		t.Cleanup(ResetGlobals)

		s := NewSchema("Mixed").
			Field("xs", F(SliceOf(Int))).
			Field("m", F(MapOf(String, Int))).
			Field("none", F(Any)).
			MustBuild()

		in, err := Construct(s, map[string]any{
			"xs":   []any{1, 2},
			"m":    map[string]any{"b": 2, "a": 1},
			"none": nil,
		})
		require.NoError(t, err)
		assert.Equal(t, `Mixed(xs=[1, 2], m={"a": 1, "b": 2}, none=<nil>)`, Repr(in))
	})

	t.Run("StringMethodDelegates", func(t *testing.T) {
		t.Cleanup(ResetGlobals)

		s := NewSchema("Str").Field("x", F(Int)).MustBuild()
		in, err := Construct(s, map[string]any{"x": 1})
		require.NoError(t, err)
		assert.Equal(t, Repr(in), in.String())
		assert.Equal(t, Repr(in), fmt.Sprintf("%v", in))
	})

	t.Run("PromotedAttributesAppended", func(t *testing.T) {
		t.Cleanup(ResetGlobals)

		cfg := NewConfig()
		cfg.AllowUnmatchedArgs = true
		s := NewSchema("Promo").Field("x", F(Int)).Config(cfg).MustBuild()

		in, err := Construct(s, map[string]any{"x": 1, "b_extra": 2, "a_extra": 3})
		require.NoError(t, err)
		assert.Equal(t, "Promo(x=1, a_extra=3, b_extra=2)", Repr(in))
	})
}
