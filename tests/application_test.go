package tests

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	shift "github.com/shiftkit/shift"
)

// End-to-end scenario: a service configuration schema with nested
// endpoints, bound stage functions, JSON input, and serialization back out.

func buildServiceSchemas(t *testing.T) *shift.Schema {
	t.Helper()

	endpoint := shift.NewSchema("Endpoint").
		Field("path", shift.F(shift.String).Pattern(`^/`)).
		Field("method", shift.F(shift.String).Default("GET").In("GET", "POST", "PUT", "DELETE")).
		MustBuild()

	return shift.NewSchema("Service").
		Field("name", shift.F(shift.String).MinLen(1)).
		Field("host", shift.F(shift.String).MinLen(1)).
		Field("port", shift.F(shift.Int).Default(8080).Ge(1).Le(65535)).
		Field("endpoints", shift.F(shift.SliceOf(shift.Of(endpoint))).DefaultFactory(func() any {
			return []any{}
		})).
		Field("listen", shift.F(shift.String).Defer()).
		Transformer(func(ctx *shift.Context, f *shift.Field, v any) (any, error) {
			if s, ok := v.(string); ok {
				return strings.ToLower(strings.TrimSpace(s)), nil
			}
			return v, nil
		}, "host").
		PostInit(func(ctx *shift.Context) error {
			host, _ := ctx.Instance().Get("host")
			port, _ := ctx.Instance().Get("port")
			ctx.Instance().Set("listen", fmt.Sprintf("%s:%d", host, port))
			return nil
		}).
		MustBuild()
}

func TestServiceLifecycle(t *testing.T) {
	t.Cleanup(shift.ResetGlobals)
	service := buildServiceSchemas(t)

	in, err := shift.ConstructJSON(service, []byte(`{
		"name": "billing",
		"host": "  API.Example.COM  ",
		"port": 9090,
		"endpoints": [
			{"path": "/invoices"},
			{"path": "/invoices/pay", "method": "POST"}
		]
	}`))
	require.NoError(t, err)

	assert.Equal(t, "api.example.com", in.GetOr("host", nil))
	assert.Equal(t, 9090, in.GetOr("port", nil))
	assert.Equal(t, "api.example.com:9090", in.GetOr("listen", nil))

	eps := in.GetOr("endpoints", nil).([]any)
	require.Len(t, eps, 2)
	first := eps[0].(*shift.Instance)
	assert.Equal(t, "GET", first.GetOr("method", nil))

	out := shift.Serialize(in)
	assert.Equal(t, "billing", out["name"])
	assert.Equal(t, []any{
		map[string]any{"path": "/invoices", "method": "GET"},
		map[string]any{"path": "/invoices/pay", "method": "POST"},
	}, out["endpoints"])

	text := shift.Repr(in)
	assert.True(t, strings.HasPrefix(text, "Service("))
	assert.Contains(t, text, `Endpoint(path="/invoices"`)
}

func TestServiceDiagnostics(t *testing.T) {
	t.Cleanup(shift.ResetGlobals)
	service := buildServiceSchemas(t)

	_, err := shift.ConstructJSON(service, []byte(`{
		"name": "",
		"host": "ok.example.com",
		"port": 70000,
		"endpoints": [{"path": "no-slash", "method": "BREW"}]
	}`))

	agg, ok := shift.AsAggregate(err)
	require.True(t, ok)
	require.Len(t, agg.Violations, 4)

	constraints := make([]string, 0, len(agg.Violations))
	for _, v := range agg.Violations {
		constraints = append(constraints, v.Constraint)
	}
	assert.Equal(t, []string{"min_len", "le", "slice", "slice"}, constraints)
}

func TestServiceRoundTrip(t *testing.T) {
	t.Cleanup(shift.ResetGlobals)
	service := buildServiceSchemas(t)

	a, err := shift.Construct(service, map[string]any{
		"name": "search",
		"host": "search.internal",
		"endpoints": []any{
			map[string]any{"path": "/q", "method": "GET"},
		},
	})
	require.NoError(t, err)

	data, err := shift.SerializeJSON(a)
	require.NoError(t, err)

	b, err := shift.ConstructJSON(service, data)
	require.NoError(t, err)
	assert.True(t, a.Equal(b))
}
