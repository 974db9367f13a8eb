package shift

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructJSON(t *testing.T) {
	t.Run("Object", func(t *testing.T) {
		t.Cleanup(ResetGlobals)

		s := NewSchema("Server").
			Field("host", F(String)).
			Field("port", F(Int).Default(8080)).
			Field("debug", F(Bool).Default(false)).
			MustBuild()

		in, err := ConstructJSON(s, []byte(`{"host": "example.com", "port": 9090}`))
		require.NoError(t, err)
		assert.Equal(t, "example.com", in.GetOr("host", nil))
		assert.Equal(t, 9090, in.GetOr("port", nil))
		assert.Equal(t, false, in.GetOr("debug", nil))
	})

	t.Run("NestedObjects", func(t *testing.T) {
		t.Cleanup(ResetGlobals)

		ep := NewSchema("Endpoint").Field("path", F(String)).MustBuild()
		s := NewSchema("Svc").
			Field("endpoints", F(SliceOf(Of(ep)))).
			MustBuild()

		in, err := ConstructJSON(s, []byte(`{"endpoints": [{"path": "/a"}, {"path": "/b"}]}`))
		require.NoError(t, err)

		eps := in.GetOr("endpoints", nil).([]any)
		require.Len(t, eps, 2)
		assert.Equal(t, "/b", eps[1].(*Instance).GetOr("path", nil))
	})

	t.Run("UnionFieldCoerced", func(t *testing.T) {
		t.Cleanup(ResetGlobals)

		s := NewSchema("Either").
			Field("v", F(Union(Int, String))).
			MustBuild()

		in, err := ConstructJSON(s, []byte(`{"v": 3}`))
		require.NoError(t, err)
		assert.Equal(t, 3, in.GetOr("v", nil))

		in, err = ConstructJSON(s, []byte(`{"v": "three"}`))
		require.NoError(t, err)
		assert.Equal(t, "three", in.GetOr("v", nil))
	})

	t.Run("MalformedDocument", func(t *testing.T) {
		t.Cleanup(ResetGlobals)

		s := NewSchema("S1").Field("x", F(Int)).MustBuild()
		_, err := ConstructJSON(s, []byte(`{"x": `))
		assert.ErrorIs(t, err, ErrUnsupportedSource)
	})

	t.Run("NonObjectDocument", func(t *testing.T) {
		t.Cleanup(ResetGlobals)

		s := NewSchema("S2").Field("x", F(Int)).MustBuild()
		_, err := ConstructJSON(s, []byte(`[1, 2, 3]`))
		assert.ErrorIs(t, err, ErrUnsupportedSource)
	})

	t.Run("ViolationsStillAggregate", func(t *testing.T) {
		t.Cleanup(ResetGlobals)

		s := NewSchema("S3").Field("port", F(Int).Le(65535)).MustBuild()
		_, err := ConstructJSON(s, []byte(`{"port": 70000}`))
		agg, ok := AsAggregate(err)
		require.True(t, ok)
		assert.Equal(t, "le", agg.Violations[0].Constraint)
	})
}

func TestConstructYAML(t *testing.T) {
	t.Run("Mapping", func(t *testing.T) {
		t.Cleanup(ResetGlobals)

		s := NewSchema("Conf").
			Field("host", F(String)).
			Field("port", F(Int)).
			Field("tags", F(SliceOf(String)).Default([]any{})).
			MustBuild()

		doc := []byte("host: example.com\nport: 8080\ntags:\n  - a\n  - b\n")
		in, err := ConstructYAML(s, doc)
		require.NoError(t, err)
		assert.Equal(t, "example.com", in.GetOr("host", nil))
		assert.Equal(t, 8080, in.GetOr("port", nil))
		assert.Equal(t, []any{"a", "b"}, in.GetOr("tags", nil))
	})

	t.Run("EmptyDocumentUsesDefaults", func(t *testing.T) {
		t.Cleanup(ResetGlobals)

		s := NewSchema("Conf2").Field("n", F(Int).Default(1)).MustBuild()
		in, err := ConstructYAML(s, []byte(""))
		require.NoError(t, err)
		assert.Equal(t, 1, in.GetOr("n", nil))
	})

	t.Run("MalformedDocument", func(t *testing.T) {
		t.Cleanup(ResetGlobals)

		s := NewSchema("Conf3").Field("n", F(Int)).MustBuild()
		_, err := ConstructYAML(s, []byte(":\n  - ["))
		assert.ErrorIs(t, err, ErrUnsupportedSource)
	})
}
