package json

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGeneratorCompactArray(t *testing.T) {
	g := NewGenerator()
	require.NoError(t, g.BeginArray())
	require.NoError(t, g.Bool(true))
	require.NoError(t, g.Bool(false))
	require.NoError(t, g.Null())
	require.NoError(t, g.EndArray())
	require.Equal(t, "[true,false,null]", g.Output())
	require.True(t, g.IsDone())
}

func TestGeneratorCompactObject(t *testing.T) {
	g := NewGenerator()
	require.NoError(t, g.BeginObject())
	require.NoError(t, g.String("k"))
	require.NoError(t, g.BeginArray())
	require.NoError(t, g.Long(1))
	require.NoError(t, g.Long(2))
	require.NoError(t, g.Long(3))
	require.NoError(t, g.EndArray())
	require.NoError(t, g.EndObject())
	require.Equal(t, `{"k":[1,2,3]}`, g.Output())
}

func TestGeneratorEmptyContainersPretty(t *testing.T) {
	g := NewGenerator()
	g.SetPretty(true)
	require.NoError(t, g.BeginObject())
	require.NoError(t, g.EndObject())
	require.Equal(t, "{}", g.Output())

	g = NewGenerator()
	g.SetPretty(true)
	require.NoError(t, g.BeginArray())
	require.NoError(t, g.EndArray())
	require.Equal(t, "[]", g.Output())
}

func TestGeneratorPrettyIndent(t *testing.T) {
	g := NewGenerator()
	g.SetPretty(true)
	require.NoError(t, g.BeginObject())
	require.NoError(t, g.String("a"))
	require.NoError(t, g.Long(1))
	require.NoError(t, g.String("b"))
	require.NoError(t, g.Long(2))
	require.NoError(t, g.EndObject())

	expected := "{\n    \"a\": 1,\n    \"b\": 2\n}"
	require.Equal(t, expected, g.Output())
}

func TestGeneratorPrettyCustomIndent(t *testing.T) {
	g := NewGenerator()
	g.SetPretty(true)
	g.SetIndent("  ")
	require.NoError(t, g.BeginArray())
	require.NoError(t, g.Long(1))
	require.NoError(t, g.Long(2))
	require.NoError(t, g.EndArray())

	expected := "[\n  1,\n  2\n]"
	require.Equal(t, expected, g.Output())
}

func TestGeneratorPrettyIsSupersetOfCompactModuloWhitespace(t *testing.T) {
	build := func(pretty bool) string {
		g := NewGenerator()
		g.SetPretty(pretty)
		_ = g.BeginObject()
		_ = g.String("a")
		_ = g.BeginArray()
		_ = g.Long(1)
		_ = g.String("two")
		_ = g.Bool(true)
		_ = g.EndArray()
		_ = g.String("b")
		_ = g.Null()
		_ = g.EndObject()
		return g.Output()
	}
	compact := build(false)
	pretty := build(true)

	stripped := make([]rune, 0, len(pretty))
	inString := false
	escaped := false
	for _, r := range pretty {
		if inString {
			stripped = append(stripped, r)
			if escaped {
				escaped = false
			} else if r == '\\' {
				escaped = true
			} else if r == '"' {
				inString = false
			}
			continue
		}
		switch r {
		case ' ', '\t', '\n':
			continue
		case '"':
			inString = true
		}
		stripped = append(stripped, r)
	}
	require.Equal(t, compact, string(stripped))
}

func TestGeneratorStringEscaping(t *testing.T) {
	g := NewGenerator()
	require.NoError(t, g.String("\"\\/\b\f\n\r\t"))
	require.Equal(t, `"\"\\/\b\f\n\r\t"`, g.Output())
}

func TestGeneratorNonASCIIPassthrough(t *testing.T) {
	g := NewGenerator()
	require.NoError(t, g.String("café €"))
	require.Equal(t, "\"café €\"", g.Output())
}

func TestGeneratorNonStringKeyFails(t *testing.T) {
	g := NewGenerator()
	require.NoError(t, g.BeginObject())
	err := g.Long(5)
	require.ErrorIs(t, err, ErrGenerate)
	require.True(t, g.IsFailed())
}

func TestGeneratorDoubleRootFails(t *testing.T) {
	g := NewGenerator()
	require.NoError(t, g.Long(1))
	require.True(t, g.IsDone())
	err := g.Long(2)
	require.ErrorIs(t, err, ErrGenerate)
}

func TestGeneratorUnmatchedEndFails(t *testing.T) {
	g := NewGenerator()
	err := g.EndArray()
	require.ErrorIs(t, err, ErrGenerate)
}

func TestGeneratorDoubleAlwaysLooksLikeADouble(t *testing.T) {
	g := NewGenerator()
	require.NoError(t, g.Double(10))
	out := g.Output()
	require.NotEqual(t, "10", out)

	tok := NewTokenizer()
	tok.FeedString(out)
	tok.End()
	require.True(t, tok.IsDone())
	require.Equal(t, TokenDouble, tok.At(0).Kind())
}

func TestGeneratorAnyMapSortsKeys(t *testing.T) {
	out, err := GenerateString(map[string]any{"b": 2, "a": 1, "c": 3})
	require.NoError(t, err)
	require.Equal(t, `{"a":1,"b":2,"c":3}`, out)
}

func TestGeneratorAnySlice(t *testing.T) {
	out, err := GenerateString([]any{1, "two", true, nil})
	require.NoError(t, err)
	require.Equal(t, `[1,"two",true,null]`, out)
}

func TestGeneratorAnyUnsupportedType(t *testing.T) {
	type custom struct{ X int }
	_, err := GenerateString(custom{X: 1})
	require.ErrorIs(t, err, ErrGenerate)
}

type greeting struct {
	Who string
}

func (g greeting) EmitJSON(gen *Generator) error {
	return gen.Any(map[string]any{"hello": g.Who})
}

func TestGeneratorAnyJSONValuer(t *testing.T) {
	out, err := GenerateString(greeting{Who: "world"})
	require.NoError(t, err)
	require.Equal(t, `{"hello":"world"}`, out)
}

func TestGeneratorEmitValueRoundTrip(t *testing.T) {
	_, v := parseAll(t, `{"k":[1,2,3],"s":"hi","b":true,"n":null,"f":1.5}`)
	out, err := GenerateValueString(v, false)
	require.NoError(t, err)

	reparsed, err := ParseString(out)
	require.NoError(t, err)

	again, err := GenerateValueString(reparsed, false)
	require.NoError(t, err)
	require.Equal(t, out, again)
}
