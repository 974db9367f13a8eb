package shift

import (
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerialize(t *testing.T) {
	t.Run("PlainFields", func(t *testing.T) {
		t.Cleanup(ResetGlobals)

		s := NewSchema("Server").
			Field("host", F(String)).
			Field("port", F(Int)).
			MustBuild()

		in, err := Construct(s, map[string]any{"host": "example.com", "port": 80})
		require.NoError(t, err)

		out := Serialize(in)
		assert.Equal(t, map[string]any{"host": "example.com", "port": 80}, out)
	})

	t.Run("NilInstance", func(t *testing.T) {
		assert.Nil(t, Serialize(nil))
	})

	t.Run("AliasesExclusionsPrivate", func(t *testing.T) {
		t.Cleanup(ResetGlobals)

		s := NewSchema("Partial").
			Field("internal", F(Int).SerializeAs("wire")).
			Field("hidden", F(Int).SerializeExclude()).
			Field("secret", F(Int).Private()).
			Field("late", F(Int).DeferSerialize()).
			MustBuild()

		in, err := Construct(s, map[string]any{"internal": 1, "hidden": 2, "secret": 3, "late": 4})
		require.NoError(t, err)

		out := Serialize(in)
		assert.Equal(t, map[string]any{"wire": 1}, out)
	})

	t.Run("BoundSerializer", func(t *testing.T) {
		t.Cleanup(ResetGlobals)

		s := NewSchema("Redacted").
			Field("token", F(String).Serializer(func(f *Field, v any) any {
				return "***"
			})).
			MustBuild()

		in, err := Construct(s, map[string]any{"token": "hunter2"})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"token": "***"}, Serialize(in))
	})

	t.Run("SerializerBindingsDisabledByConfig", func(t *testing.T) {
		t.Cleanup(ResetGlobals)

		cfg := NewConfig()
		cfg.AllowShiftSerializers = false
		s := NewSchema("Verbatim").
			Field("token", F(String).Serializer(func(f *Field, v any) any {
				return "***"
			})).
			Config(cfg).
			MustBuild()

		in, err := Construct(s, map[string]any{"token": "hunter2"})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"token": "hunter2"}, Serialize(in))
	})

	t.Run("NestedInstances", func(t *testing.T) {
		t.Cleanup(ResetGlobals)

		inner := NewSchema("Inner").Field("v", F(Int)).MustBuild()
		outer := NewSchema("Outer").
			Field("one", F(Of(inner))).
			Field("many", F(SliceOf(Of(inner)))).
			MustBuild()

		in, err := Construct(outer, map[string]any{
			"one":  map[string]any{"v": 1},
			"many": []any{map[string]any{"v": 2}},
		})
		require.NoError(t, err)

		out := Serialize(in)
		assert.Equal(t, map[string]any{
			"one":  map[string]any{"v": 1},
			"many": []any{map[string]any{"v": 2}},
		}, out)
	})

	t.Run("SpecialScalars", func(t *testing.T) {
		t.Cleanup(ResetGlobals)

		s := NewSchema("Stamped").
			Field("id", F(UUID)).
			Field("at", F(Time)).
			MustBuild()

		in, err := Construct(s, map[string]any{
			"id": "123e4567-e89b-12d3-a456-426614174000",
			"at": "2024-06-01T10:30:00Z",
		})
		require.NoError(t, err)

		out := Serialize(in)
		assert.Equal(t, "123e4567-e89b-12d3-a456-426614174000", out["id"])
		assert.Equal(t, "2024-06-01T10:30:00Z", out["at"])
	})

	t.Run("MissingSerializesAsNull", func(t *testing.T) {
		t.Cleanup(ResetGlobals)

		s := NewSchema("Sparse").
			Field("x", F(Int).DeferTransform()).
			MustBuild()

		in, err := Construct(s, map[string]any{})
		require.NoError(t, err)

		out := Serialize(in)
		require.Contains(t, out, "x")
		assert.Nil(t, out["x"])
	})

	t.Run("PromotedAttributesIncluded", func(t *testing.T) {
		t.Cleanup(ResetGlobals)

		cfg := NewConfig()
		cfg.AllowUnmatchedArgs = true
		s := NewSchema("Open").Field("x", F(Int)).Config(cfg).MustBuild()

		in, err := Construct(s, map[string]any{"x": 1, "extra": "kept"})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"x": 1, "extra": "kept"}, Serialize(in))
	})
}

func TestSerializeJSON(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		t.Cleanup(ResetGlobals)

		s := NewSchema("Doc").
			Field("name", F(String)).
			Field("count", F(Int)).
			Field("tags", F(SliceOf(String)).Default([]any{})).
			MustBuild()

		in, err := Construct(s, map[string]any{"name": "a", "count": 2})
		require.NoError(t, err)

		data, err := SerializeJSON(in)
		require.NoError(t, err)

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, "a", decoded["name"])
		assert.Equal(t, float64(2), decoded["count"])
		assert.Equal(t, []any{}, decoded["tags"])
	})

	t.Run("TimeEncodesAsRFC3339", func(t *testing.T) {
		t.Cleanup(ResetGlobals)

		s := NewSchema("Stamp").Field("at", F(Time)).MustBuild()
		at := time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC)
		in, err := Construct(s, map[string]any{"at": at})
		require.NoError(t, err)

		data, err := SerializeJSON(in)
		require.NoError(t, err)
		assert.JSONEq(t, `{"at": "2024-06-01T10:30:00Z"}`, string(data))
	})
}
