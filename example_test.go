package shift

import (
	"errors"
	"fmt"
)

func ExampleConstruct() {
	defer ResetGlobals()

	user := NewSchema("User").
		Field("name", F(String).MinLen(1)).
		Field("age", F(Int).Default(0).Ge(0)).
		MustBuild()

	in, err := Construct(user, map[string]any{"name": "ada"})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(Repr(in))
	// Output: User(name="ada", age=0)
}

func ExampleConstruct_violations() {
	defer ResetGlobals()

	user := NewSchema("User").
		Field("name", F(String).MinLen(1)).
		Field("age", F(Int).Ge(0)).
		MustBuild()

	_, err := Construct(user, map[string]any{"name": "", "age": -1})
	if agg, ok := AsAggregate(err); ok {
		for _, v := range agg.Violations {
			fmt.Println(v.Constraint, "on", v.Field)
		}
	}
	// Output:
	// min_len on name
	// ge on age
}

func ExampleSerializeJSON() {
	defer ResetGlobals()

	user := NewSchema("User").
		Field("name", F(String)).
		Field("age", F(Int)).
		MustBuild()

	in, err := Construct(user, map[string]any{"name": "ada", "age": 36})
	if err != nil {
		fmt.Println(err)
		return
	}
	data, err := SerializeJSON(in)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(string(data))
	// Output: {"age":36,"name":"ada"}
}

func ExampleFromStruct() {
	defer ResetGlobals()

	type Server struct {
		Host string `shift:"host,minlen=1"`
		Port int    `shift:"port,default=8080,ge=1,le=65535"`
	}

	server, err := FromStruct[Server]()
	if err != nil {
		fmt.Println(err)
		return
	}

	in, err := ConstructJSON(server, []byte(`{"host": "example.com"}`))
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(Repr(in))
	// Output: Server(host="example.com", port=8080)
}

func ExampleRegisterForwardRef() {
	defer ResetGlobals()

	RegisterForwardRef("Port", Int)

	svc := NewSchema("Svc").
		Field("port", F(Ref("Port"))).
		MustBuild()

	_, err := Construct(svc, map[string]any{"port": "not a port"})
	var agg *AggregateError
	if errors.As(err, &agg) {
		fmt.Println(len(agg.Violations), "violation")
	}
	// Output: 1 violation
}
