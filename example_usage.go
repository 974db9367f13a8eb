package shift

import (
	"fmt"
	"log"
	"strings"
)

// Example showing the full lifecycle: declare schemas, bind stage
// functions, construct from a mapping, then round-trip through JSON.

func ExampleUsage() {
	defer ResetGlobals()

	// An endpoint schema nested inside a server schema.
	endpoint := NewSchema("Endpoint").
		Field("path", F(String).Pattern(`^/`)).
		Field("method", F(String).Default("GET").In("GET", "POST", "PUT", "DELETE")).
		MustBuild()

	server := NewSchema("Server").
		Field("host", F(String).MinLen(1)).
		Field("port", F(Int).Default(8080).Ge(1).Le(65535)).
		Field("endpoints", F(SliceOf(Of(endpoint))).Default([]any{})).
		Transformer(func(ctx *Context, f *Field, v any) (any, error) {
			if s, ok := v.(string); ok {
				return strings.ToLower(s), nil
			}
			return v, nil
		}, "host").
		MustBuild()

	fmt.Println("=== Example 1: Construct from a mapping ===")

	in, err := Construct(server, map[string]any{
		"host": "API.Example.COM",
		"port": 9090,
		"endpoints": []any{
			map[string]any{"path": "/health"},
			map[string]any{"path": "/users", "method": "POST"},
		},
	})
	if err != nil {
		log.Fatalf("construction failed: %v", err)
	}
	fmt.Println(Repr(in))

	fmt.Println("\n=== Example 2: Aggregated violations ===")

	_, err = Construct(server, map[string]any{
		"host": "",
		"port": 70000,
	})
	if agg, ok := AsAggregate(err); ok {
		for _, v := range agg.Violations {
			fmt.Println("-", v.String())
		}
	}

	fmt.Println("\n=== Example 3: JSON round trip ===")

	in, err = ConstructJSON(server, []byte(`{"host": "api.example.com", "port": 8443}`))
	if err != nil {
		log.Fatalf("construction failed: %v", err)
	}
	out, _ := SerializeJSON(in)
	fmt.Println(string(out))

	fmt.Println("\n=== Example 4: Struct-tag declaration ===")

	type Greeting struct {
		Text  string `shift:"text,default=hello,minlen=1"`
		Times int    `shift:"times,default=1,ge=1,le=10"`
	}
	greeting := MustFromStruct[Greeting]()

	in, err = Construct(greeting, map[string]any{"times": 3})
	if err != nil {
		log.Fatalf("construction failed: %v", err)
	}
	fmt.Println(Repr(in))
}
