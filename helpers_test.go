package shift

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToFloat(t *testing.T) {
	cases := []struct {
		in   any
		want float64
		ok   bool
	}{
		{3, 3, true},
		{int8(3), 3, true},
		{int64(3), 3, true},
		{uint16(3), 3, true},
		{float32(1.5), 1.5, true},
		{2.5, 2.5, true},
		{"3", 0, false},
		{nil, 0, false},
		{true, 0, false},
	}
	for _, c := range cases {
		got, ok := toFloat(c.in)
		assert.Equal(t, c.ok, ok)
		if ok {
			assert.Equal(t, c.want, got)
		}
	}
}

func TestLenOf(t *testing.T) {
	n, ok := lenOf("abc")
	assert.True(t, ok)
	assert.Equal(t, 3, n)

	n, ok = lenOf([]any{1, 2})
	assert.True(t, ok)
	assert.Equal(t, 2, n)

	n, ok = lenOf(map[string]any{"a": 1})
	assert.True(t, ok)
	assert.Equal(t, 1, n)

	_, ok = lenOf(42)
	assert.False(t, ok)
	_, ok = lenOf(nil)
	assert.False(t, ok)
}

func TestIsCallable(t *testing.T) {
	assert.True(t, isCallable(func() {}))
	assert.True(t, isCallable(time.Now))
	assert.False(t, isCallable(1))
	assert.False(t, isCallable(nil))
}

func TestCoerceScalar(t *testing.T) {
	t.Run("Numerics", func(t *testing.T) {
		v, err := coerceScalar(IntType, "42")
		require.NoError(t, err)
		assert.Equal(t, 42, v)

		v, err = coerceScalar(Float64Type, "2.5")
		require.NoError(t, err)
		assert.Equal(t, 2.5, v)

		_, err = coerceScalar(IntType, "forty-two")
		assert.Error(t, err)
	})

	t.Run("Overflow", func(t *testing.T) {
		_, err := coerceScalar(TypeFor[int8]().(primType).Type, "300")
		assert.Error(t, err)
	})

	t.Run("BoolAndString", func(t *testing.T) {
		v, err := coerceScalar(BoolType, "true")
		require.NoError(t, err)
		assert.Equal(t, true, v)

		v, err = coerceScalar(StringType, "x")
		require.NoError(t, err)
		assert.Equal(t, "x", v)
	})

	t.Run("Bytes", func(t *testing.T) {
		v, err := coerceScalar(BytesType, "raw")
		require.NoError(t, err)
		assert.Equal(t, []byte("raw"), v)
	})

	t.Run("UUID", func(t *testing.T) {
		v, err := coerceScalar(UUIDType, "123e4567-e89b-12d3-a456-426614174000")
		require.NoError(t, err)
		_, ok := v.(uuid.UUID)
		assert.True(t, ok)

		_, err = coerceScalar(UUIDType, "nope")
		assert.Error(t, err)
	})

	t.Run("Time", func(t *testing.T) {
		v, err := coerceScalar(TimeType, "2024-06-01")
		require.NoError(t, err)
		ts, ok := v.(time.Time)
		require.True(t, ok)
		assert.Equal(t, 2024, ts.Year())
	})
}

func TestParseTime(t *testing.T) {
	for _, in := range []string{
		"2024-06-01T10:30:00Z",
		"2024-06-01T10:30:00.5Z",
		"2024-06-01T10:30:00",
		"2024-06-01 10:30:00",
		"2024-06-01",
	} {
		_, err := parseTime(in)
		assert.NoError(t, err, in)
	}

	_, err := parseTime("June 1st")
	assert.Error(t, err)
}

func TestAsAnySlice(t *testing.T) {
	s, ok := asAnySlice([]any{1, 2})
	assert.True(t, ok)
	assert.Len(t, s, 2)

	s, ok = asAnySlice([]int{1, 2, 3})
	assert.True(t, ok)
	assert.Equal(t, []any{1, 2, 3}, s)

	_, ok = asAnySlice([]byte("raw"))
	assert.False(t, ok)
	_, ok = asAnySlice("string")
	assert.False(t, ok)
	_, ok = asAnySlice(nil)
	assert.False(t, ok)
}

func TestAsAnyMap(t *testing.T) {
	m, ok := asAnyMap(map[string]any{"a": 1})
	assert.True(t, ok)
	assert.Equal(t, 1, m["a"])

	m, ok = asAnyMap(map[int]string{1: "one"})
	assert.True(t, ok)
	assert.Equal(t, "one", m[1])

	_, ok = asAnyMap([]any{})
	assert.False(t, ok)
	_, ok = asAnyMap(nil)
	assert.False(t, ok)
}

func TestMissingSentinel(t *testing.T) {
	assert.True(t, IsMissing(Missing))
	assert.False(t, IsMissing(nil))
	assert.False(t, IsMissing(0))
	assert.False(t, IsMissing(""))
}
