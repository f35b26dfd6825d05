package json

import (
	"fmt"
	"iter"
	"sort"
	"strconv"
	"strings"
)

// genState is the Generator's state machine position. It mirrors
// Parser's states exactly, since a Generator is the Parser run in
// reverse: the caller drives it with the same shape of events a
// Parser would hand to a consumer.
type genState uint8

const (
	gsStart genState = iota
	gsDone
	gsError
	gsArrayValue
	gsObjectKey
	gsObjectValue
)

type genContextKind uint8

const (
	gcArray genContextKind = iota
	gcObject
)

type genContext struct {
	kind      genContextKind
	needComma bool
}

// JSONValuer is implemented by types that know how to render
// themselves into a Generator, for use with Generator.Any.
type JSONValuer interface {
	EmitJSON(g *Generator) error
}

// Generator is a push-driven, call-at-a-time JSON text emitter. Its
// state machine enforces the same well-formedness the Parser enforces
// on the way in: a call that would produce malformed JSON (a value in
// key position, a second root value, a call after Error) fails with
// ErrGenerate and leaves the Generator in Error.
type Generator struct {
	state    genState
	contexts []genContext
	sb       strings.Builder

	pretty bool
	indent string

	failureReason string
}

// NewGenerator returns a Generator in compact mode.
func NewGenerator() *Generator {
	return &Generator{state: gsStart, indent: "    "}
}

// SetPretty toggles pretty-printing: a newline and indentation after
// every structural separator, plus ": " instead of ":" after object
// keys. Compact mode (the default) emits no insignificant whitespace.
func (g *Generator) SetPretty(enabled bool) { g.pretty = enabled }

// SetIndent overrides the per-level indentation string used in pretty
// mode. The default is four spaces.
func (g *Generator) SetIndent(indent string) { g.indent = indent }

// IsDone reports whether the Generator has emitted a complete
// top-level value.
func (g *Generator) IsDone() bool { return g.state == gsDone }

// IsFailed reports whether the Generator rejected a call.
func (g *Generator) IsFailed() bool { return g.state == gsError }

// ErrorString returns a human-readable description of the failure, or
// "" if the Generator has not failed.
func (g *Generator) ErrorString() string {
	if g.state != gsError {
		return ""
	}
	return g.failureReason
}

// Err returns a non-nil error wrapping ErrGenerate when the Generator
// has failed, or nil otherwise.
func (g *Generator) Err() error {
	if g.state != gsError {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrGenerate, g.failureReason)
}

// Output returns the text accumulated so far, regardless of whether a
// complete document has been emitted.
func (g *Generator) Output() string { return g.sb.String() }

func (g *Generator) fail(reason string) error {
	g.failureReason = reason
	g.state = gsError
	return g.Err()
}

func (g *Generator) topContext() *genContext { return &g.contexts[len(g.contexts)-1] }

func (g *Generator) writeIndent(depth int) {
	for i := 0; i < depth; i++ {
		g.sb.WriteString(g.indent)
	}
}

// beforeChild emits the separator (comma, and in pretty mode a
// newline plus indent) that precedes every array element and every
// object key, including the first one in a non-empty container.
func (g *Generator) beforeChild() {
	ctx := g.topContext()
	if ctx.needComma {
		g.sb.WriteByte(',')
	}
	if g.pretty {
		g.sb.WriteByte('\n')
		g.writeIndent(len(g.contexts))
	}
	ctx.needComma = true
}

// afterValueEmitted resumes whatever state the enclosing context
// expects next, or marks the document Done if there is none.
func (g *Generator) afterValueEmitted() {
	if len(g.contexts) == 0 {
		g.state = gsDone
		return
	}
	if g.topContext().kind == gcArray {
		g.state = gsArrayValue
	} else {
		g.state = gsObjectKey
	}
}

// prepareValuePosition validates that the current state accepts a
// value (scalar, array, or object) next, emitting separators as
// needed. It returns a non-nil error (and fails the Generator) if a
// value is not expected here.
func (g *Generator) prepareValuePosition() error {
	switch g.state {
	case gsStart:
		return nil
	case gsArrayValue:
		g.beforeChild()
		return nil
	case gsObjectValue:
		return nil
	case gsObjectKey:
		return g.fail("expected a string key, not a value")
	case gsDone:
		return g.fail("generator already produced a complete document")
	default:
		return g.fail("generator is in an error state")
	}
}

func (g *Generator) emitScalarValue(write func()) error {
	if err := g.prepareValuePosition(); err != nil {
		return err
	}
	write()
	g.afterValueEmitted()
	return nil
}

func (g *Generator) emitKey(write func()) error {
	g.beforeChild()
	write()
	if g.pretty {
		g.sb.WriteString(": ")
	} else {
		g.sb.WriteByte(':')
	}
	g.state = gsObjectValue
	return nil
}

// BeginArray opens an array. It is valid wherever a value is expected.
func (g *Generator) BeginArray() error {
	if err := g.prepareValuePosition(); err != nil {
		return err
	}
	g.contexts = append(g.contexts, genContext{kind: gcArray})
	g.sb.WriteByte('[')
	g.state = gsArrayValue
	return nil
}

// EndArray closes the innermost array. It is valid only when that
// array is expecting its next element, i.e. immediately after
// BeginArray or after a completed element.
func (g *Generator) EndArray() error {
	if g.state != gsArrayValue || len(g.contexts) == 0 || g.topContext().kind != gcArray {
		return g.fail("unexpected array end")
	}
	ctx := g.contexts[len(g.contexts)-1]
	if ctx.needComma && g.pretty {
		g.sb.WriteByte('\n')
		g.writeIndent(len(g.contexts) - 1)
	}
	g.contexts = g.contexts[:len(g.contexts)-1]
	g.sb.WriteByte(']')
	g.afterValueEmitted()
	return nil
}

// BeginObject opens an object. It is valid wherever a value is
// expected.
func (g *Generator) BeginObject() error {
	if err := g.prepareValuePosition(); err != nil {
		return err
	}
	g.contexts = append(g.contexts, genContext{kind: gcObject})
	g.sb.WriteByte('{')
	g.state = gsObjectKey
	return nil
}

// EndObject closes the innermost object. It is valid only when that
// object is expecting its next key, i.e. immediately after
// BeginObject or after a completed key/value pair.
func (g *Generator) EndObject() error {
	if g.state != gsObjectKey || len(g.contexts) == 0 || g.topContext().kind != gcObject {
		return g.fail("unexpected object end")
	}
	ctx := g.contexts[len(g.contexts)-1]
	if ctx.needComma && g.pretty {
		g.sb.WriteByte('\n')
		g.writeIndent(len(g.contexts) - 1)
	}
	g.contexts = g.contexts[:len(g.contexts)-1]
	g.sb.WriteByte('}')
	g.afterValueEmitted()
	return nil
}

// Null emits a JSON null.
func (g *Generator) Null() error {
	return g.emitScalarValue(func() { g.sb.WriteString("null") })
}

// Bool emits a JSON boolean.
func (g *Generator) Bool(b bool) error {
	return g.emitScalarValue(func() {
		if b {
			g.sb.WriteString("true")
		} else {
			g.sb.WriteString("false")
		}
	})
}

// Long emits a JSON integer.
func (g *Generator) Long(v int64) error {
	return g.emitScalarValue(func() { g.sb.WriteString(strconv.FormatInt(v, 10)) })
}

// Double emits a JSON number with a fractional part or exponent always
// present, so that re-tokenizing the output yields a Double rather
// than a Long: a bare "10" would round-trip back as TokenLong.
func (g *Generator) Double(v float64) error {
	return g.emitScalarValue(func() { g.sb.WriteString(formatDouble(v)) })
}

func formatDouble(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

// String emits a JSON string, either in value position or, when the
// Generator currently expects an object key, in key position.
func (g *Generator) String(s string) error {
	if g.state == gsObjectKey {
		return g.emitKey(func() { g.writeQuotedString(s) })
	}
	return g.emitScalarValue(func() { g.writeQuotedString(s) })
}

// StringSlice emits a JSON string directly from a StringSlice's code
// units, without materializing an intermediate Go string.
func (g *Generator) StringSlice(s StringSlice) error {
	if g.state == gsObjectKey {
		return g.emitKey(func() { g.writeQuotedRunes(s.CodeUnits()) })
	}
	return g.emitScalarValue(func() { g.writeQuotedRunes(s.CodeUnits()) })
}

func (g *Generator) writeQuotedString(s string) {
	g.sb.WriteByte('"')
	for _, r := range s {
		g.writeEscapedRune(r)
	}
	g.sb.WriteByte('"')
}

func (g *Generator) writeQuotedRunes(rs []rune) {
	g.sb.WriteByte('"')
	for _, r := range rs {
		g.writeEscapedRune(r)
	}
	g.sb.WriteByte('"')
}

func (g *Generator) writeEscapedRune(r rune) {
	switch r {
	case '"':
		g.sb.WriteString(`\"`)
	case '\\':
		g.sb.WriteString(`\\`)
	case '\b':
		g.sb.WriteString(`\b`)
	case '\f':
		g.sb.WriteString(`\f`)
	case '\n':
		g.sb.WriteString(`\n`)
	case '\r':
		g.sb.WriteString(`\r`)
	case '\t':
		g.sb.WriteString(`\t`)
	default:
		g.sb.WriteRune(r)
	}
}

// EmitToken feeds one Tokenizer-produced Token into the Generator,
// translating it into the corresponding emit call.
func (g *Generator) EmitToken(t Token) error {
	switch t.Kind() {
	case TokenNull:
		return g.Null()
	case TokenBool:
		return g.Bool(t.Raw.Bool())
	case TokenLong:
		return g.Long(t.Raw.Long())
	case TokenDouble:
		return g.Double(t.Raw.Double())
	case TokenString:
		return g.StringSlice(t.StringSlice())
	case TokenArrayBegin:
		return g.BeginArray()
	case TokenArrayEnd:
		return g.EndArray()
	case TokenObjectBegin:
		return g.BeginObject()
	case TokenObjectEnd:
		return g.EndObject()
	default:
		return g.fail(fmt.Sprintf("unrecognized token kind %v", t.Kind()))
	}
}

// EmitValue walks a Value tree (as produced by a Parser) and emits it
// in full.
func (g *Generator) EmitValue(v Value) error {
	switch v.Kind() {
	case ValueNull:
		return g.Null()
	case ValueBool:
		b, _ := v.AsBool()
		return g.Bool(b)
	case ValueLong:
		n, _ := v.AsLong()
		return g.Long(n)
	case ValueDouble:
		d, _ := v.AsDouble()
		return g.Double(d)
	case ValueString:
		s, _ := v.AsStringSlice()
		return g.StringSlice(s)
	case ValueArray:
		if err := g.BeginArray(); err != nil {
			return err
		}
		for child := range v.Iterate() {
			if err := g.EmitValue(child); err != nil {
				return err
			}
		}
		return g.EndArray()
	case ValueObject:
		if err := g.BeginObject(); err != nil {
			return err
		}
		for key, child := range v.KeyValuePairs() {
			if err := g.StringSlice(key); err != nil {
				return err
			}
			if err := g.EmitValue(child); err != nil {
				return err
			}
		}
		return g.EndObject()
	default:
		return g.fail(fmt.Sprintf("unrecognized value kind %v", v.Kind()))
	}
}

// Any emits v by type-switching over the common Go representations of
// a JSON value, in order: nil, bool, the integer kinds (widened to
// Long), float32/float64 (as Double), string, StringSlice, Value,
// Token, a key/value sequence (map[string]any or iter.Seq2[string,
// any]), a general sequence ([]any or iter.Seq[any]), and finally
// JSONValuer for types that know how to render themselves. Any other
// type fails with ErrGenerate naming the unsupported type.
func (g *Generator) Any(v any) error {
	switch x := v.(type) {
	case nil:
		return g.Null()
	case bool:
		return g.Bool(x)
	case int:
		return g.Long(int64(x))
	case int8:
		return g.Long(int64(x))
	case int16:
		return g.Long(int64(x))
	case int32:
		return g.Long(int64(x))
	case int64:
		return g.Long(x)
	case uint:
		return g.Long(int64(x))
	case uint8:
		return g.Long(int64(x))
	case uint16:
		return g.Long(int64(x))
	case uint32:
		return g.Long(int64(x))
	case uint64:
		return g.Long(int64(x))
	case float32:
		return g.Double(float64(x))
	case float64:
		return g.Double(x)
	case string:
		return g.String(x)
	case StringSlice:
		return g.StringSlice(x)
	case Value:
		return g.EmitValue(x)
	case Token:
		return g.EmitToken(x)
	case map[string]any:
		return g.emitMap(x)
	case iter.Seq2[string, any]:
		return g.emitKVSeq(x)
	case []any:
		return g.emitSlice(x)
	case iter.Seq[any]:
		return g.emitSeq(x)
	case JSONValuer:
		return x.EmitJSON(g)
	default:
		return g.fail(fmt.Sprintf("unsupported type %T", v))
	}
}

func (g *Generator) emitMap(m map[string]any) error {
	if err := g.BeginObject(); err != nil {
		return err
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := g.String(k); err != nil {
			return err
		}
		if err := g.Any(m[k]); err != nil {
			return err
		}
	}
	return g.EndObject()
}

func (g *Generator) emitKVSeq(seq iter.Seq2[string, any]) error {
	if err := g.BeginObject(); err != nil {
		return err
	}
	var ferr error
	seq(func(k string, val any) bool {
		if ferr = g.String(k); ferr != nil {
			return false
		}
		if ferr = g.Any(val); ferr != nil {
			return false
		}
		return true
	})
	if ferr != nil {
		return ferr
	}
	return g.EndObject()
}

func (g *Generator) emitSlice(s []any) error {
	if err := g.BeginArray(); err != nil {
		return err
	}
	for _, elem := range s {
		if err := g.Any(elem); err != nil {
			return err
		}
	}
	return g.EndArray()
}

func (g *Generator) emitSeq(seq iter.Seq[any]) error {
	if err := g.BeginArray(); err != nil {
		return err
	}
	var ferr error
	seq(func(elem any) bool {
		if ferr = g.Any(elem); ferr != nil {
			return false
		}
		return true
	})
	if ferr != nil {
		return ferr
	}
	return g.EndArray()
}
