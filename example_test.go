package json_test

import (
	"fmt"
	"testing"

	jsonengine "github.com/jsonengine/json"
)

func TestUsage(t *testing.T) {
	// ParseString tokenizes and parses in one call, handing back a
	// Value handle onto the root of the parsed tree.
	val, err := jsonengine.ParseString(`
	{
		"null": null,
		"integer": 5,
		"number": 5.0,
		"boolean": true,
		"array": [null, 5, 5.0, true],
		"object": {}
	}
	`)
	if err != nil {
		t.Fatalf("can't parse json: %v", err)
	}

	// to inspect the kind, use the Kind method.
	if val.Kind() != jsonengine.ValueObject {
		t.Error("JSON object is wrong kind!")
	}

	// Objects are walked by position, not by key lookup: At(i) returns
	// the i'th value in insertion order, and Keys/KeyValuePairs give you
	// the matching key for each position.
	count, _ := val.Count()
	keys := make([]string, 0, count)
	for k := range val.Keys() {
		keys = append(keys, k.String())
	}
	if len(keys) != count {
		t.Error("key count doesn't match value count")
	}

	// Integer literals parse as Long, fractional/exponent literals as
	// Double; both are plain Go numeric types once extracted.
	var integerIdx, numberIdx int
	for i, k := range keys {
		switch k {
		case "integer":
			integerIdx = i
		case "number":
			numberIdx = i
		}
	}
	integerVal, _ := val.At(integerIdx)
	numberVal, _ := val.At(numberIdx)
	i, _ := integerVal.AsLong()
	n, _ := numberVal.AsDouble()
	if float64(i) != n {
		t.Error("integer and number should compare equal numerically")
	}

	// Arrays are walked with At/Iterate.
	var arrayIdx int
	for i, k := range keys {
		if k == "array" {
			arrayIdx = i
		}
	}
	arrayVal, _ := val.At(arrayIdx)
	third, _ := arrayVal.At(3)
	b, _ := third.AsBool()
	if !b {
		t.Error("true... isn't?")
	}

	// A Value drives a Generator to pretty-print itself.
	fmt.Println(arrayVal.String())

	// And a document can be produced directly from Go values with
	// GenerateString, without building a Value tree first.
	out, err := jsonengine.GenerateString(map[string]any{
		"name": "The Beatles",
		"members": []any{
			map[string]any{"name": "John", "role": "guitar"},
			map[string]any{"name": "Paul", "role": "bass"},
		},
	})
	if err != nil {
		t.Fatalf("unexpected generate error: %v", err)
	}
	fmt.Println(out)
}
