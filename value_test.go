package json

import (
	"fmt"
	"testing"
)

func TestValueKindString(t *testing.T) {
	for _, test := range []struct {
		input    ValueKind
		expected string
	}{
		{ValueNull, "Null"},
		{ValueBool, "Bool"},
		{ValueLong, "Long"},
		{ValueDouble, "Double"},
		{ValueString, "String"},
		{ValueArray, "Array"},
		{ValueObject, "Object"},
		{ValueKind(255), "<unknown value>"},
	} {
		t.Run(fmt.Sprintf("%d", test.input), func(t *testing.T) {
			if got := test.input.String(); got != test.expected {
				t.Errorf("expected %q got %q", test.expected, got)
			}
		})
	}
}

func TestValueAsBoolWrongKind(t *testing.T) {
	v, err := ParseString("5")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if _, err := v.AsBool(); err == nil {
		t.Errorf("expected invalid-cast error, got none")
	}
}

func TestValueAsLongWrongKind(t *testing.T) {
	v, err := ParseString("5.5")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if _, err := v.AsLong(); err == nil {
		t.Errorf("expected invalid-cast error, got none")
	}
}

func TestValueAsStringWrongKind(t *testing.T) {
	v, err := ParseString("true")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if _, err := v.AsString(); err == nil {
		t.Errorf("expected invalid-cast error, got none")
	}
}

func TestValueCountNonContainer(t *testing.T) {
	v, err := ParseString("5")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if _, err := v.Count(); err == nil {
		t.Errorf("expected invalid-cast error for Count on a scalar, got none")
	}
}

func TestValueAtOutOfRange(t *testing.T) {
	v, err := ParseString("[1,2,3]")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if _, err := v.At(3); err == nil {
		t.Errorf("expected bounds error, got none")
	}
	if _, err := v.At(-1); err == nil {
		t.Errorf("expected bounds error, got none")
	}
}

func TestValueAtNonContainer(t *testing.T) {
	v, err := ParseString("5")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if _, err := v.At(0); err == nil {
		t.Errorf("expected invalid-cast error, got none")
	}
}

func TestValueIterateNonContainerYieldsNothing(t *testing.T) {
	v, err := ParseString("5")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	count := 0
	for range v.Iterate() {
		count++
	}
	if count != 0 {
		t.Errorf("expected 0 iterations over a scalar, got %d", count)
	}
}

func TestValueKeysNonObjectYieldsNothing(t *testing.T) {
	v, err := ParseString("[1,2,3]")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	count := 0
	for range v.Keys() {
		count++
	}
	if count != 0 {
		t.Errorf("expected 0 keys over an array, got %d", count)
	}
}

func TestValueCountMatchesIterationLength(t *testing.T) {
	for _, input := range []string{
		`[]`, `[1]`, `[1,2,3]`, `{}`, `{"a":1}`, `{"a":1,"b":2}`,
	} {
		t.Run(input, func(t *testing.T) {
			v, err := ParseString(input)
			if err != nil {
				t.Fatalf("unexpected parse error: %v", err)
			}
			n, err := v.Count()
			if err != nil {
				t.Fatalf("unexpected Count error: %v", err)
			}
			counted := 0
			for range v.Iterate() {
				counted++
			}
			if counted != n {
				t.Errorf("Count()=%d but iteration yielded %d", n, counted)
			}
			for i := 0; i < n; i++ {
				if _, err := v.At(i); err != nil {
					t.Errorf("At(%d) unexpectedly failed: %v", i, err)
				}
			}
		})
	}
}

func TestValueKeysMatchKeyValuePairsOrder(t *testing.T) {
	v, err := ParseString(`{"z":1,"a":2,"m":3,"z":4}`)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}

	var fromKeys []string
	for k := range v.Keys() {
		fromKeys = append(fromKeys, k.String())
	}

	var fromPairs []string
	for k := range v.KeyValuePairs() {
		fromPairs = append(fromPairs, k.String())
	}

	if len(fromKeys) != len(fromPairs) {
		t.Fatalf("mismatched lengths: %d vs %d", len(fromKeys), len(fromPairs))
	}
	for i := range fromKeys {
		if fromKeys[i] != fromPairs[i] {
			t.Errorf("index %d: Keys()=%q KeyValuePairs()=%q", i, fromKeys[i], fromPairs[i])
		}
	}
}

func TestValueStringPrettyPrints(t *testing.T) {
	v, err := ParseString(`{}`)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if got := v.String(); got != "{}" {
		t.Errorf("expected %q got %q", "{}", got)
	}
}

func TestValueFluentDrillDown(t *testing.T) {
	v, err := ParseString(`{"name":"The Beatles","members":[{"name":"John"},{"name":"George"}]}`)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	members, err := v.At(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := members.At(1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	name, err := second.At(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := name.AsString()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "George" {
		t.Errorf("expected %q got %q", "George", got)
	}
}
