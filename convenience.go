package json

import (
	"fmt"
	"io"
)

// Tokenize runs a Tokenizer over a complete string and returns it,
// having called End() so that a bare top-level scalar with no
// trailing terminator is finalized. The returned Tokenizer may be
// IsFailed; callers that want a tree should use ParseString instead.
func Tokenize(s string) *Tokenizer {
	t := NewTokenizer()
	t.FeedString(s)
	t.End()
	return t
}

// ParseString tokenizes and parses s in one call, returning the
// resulting document's root Value. Failure at either stage is wrapped
// in ErrParse, carrying the failing stage's own error string.
func ParseString(s string) (Value, error) {
	t := Tokenize(s)
	if t.IsFailed() {
		return Value{}, fmt.Errorf("%w: %s", ErrParse, t.ErrorString())
	}
	if !t.IsDone() {
		return Value{}, fmt.Errorf("%w: unexpected end of input", ErrParse)
	}

	p := NewParser()
	for tok := range t.Tokens() {
		p.Feed(tok)
		if p.IsFailed() {
			return Value{}, fmt.Errorf("%w: %s", ErrParse, p.ErrorString())
		}
	}
	if !p.IsDone() {
		return Value{}, fmt.Errorf("%w: incomplete document", ErrParse)
	}
	return p.LastParsedRoot()
}

// ParseBytes is ParseString over a byte slice holding UTF-8 text.
func ParseBytes(b []byte) (Value, error) {
	return ParseString(string(b))
}

// Parse reads r to completion and parses it as a single JSON document.
func Parse(r io.Reader) (Value, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return Value{}, err
	}
	return ParseBytes(b)
}

// GenerateString renders v (see Generator.Any for the accepted shapes)
// as compact JSON text in one call.
func GenerateString(v any) (string, error) {
	g := NewGenerator()
	if err := g.Any(v); err != nil {
		return "", err
	}
	return g.Output(), nil
}

// GenerateValueString renders a Parser-produced Value as JSON text in
// one call: pretty-printed when pretty is true, compact otherwise.
func GenerateValueString(v Value, pretty bool) (string, error) {
	g := NewGenerator()
	g.SetPretty(pretty)
	if err := g.EmitValue(v); err != nil {
		return "", err
	}
	return g.Output(), nil
}
