package json

import "fmt"

// parserState is the Parser's state machine position.
type parserState uint8

const (
	psStart parserState = iota
	psDone
	psError
	psArrayValue
	psObjectKey
	psObjectValue
)

type parserContextKind uint8

const (
	pcArray parserContextKind = iota
	pcObject
)

// parserContext tracks one open container: whether it is an array or
// an object, and the pooled scratch list of its children's indices
// (for an object, alternating stringIndex/valueIndex pairs).
type parserContext struct {
	kind parserContextKind
	temp []int
}

// Parser is a push-fed, token-at-a-time state machine that builds a
// flat tree from a JSON token stream. It owns three growable arenas
// (strings, values, indexes) that, once populated, may back more than
// one completed parse: Reset starts a fresh document while keeping the
// arenas, so repeated Feed/Reset cycles amortize allocation across many
// small documents. A Parser must not be used concurrently from more
// than one goroutine.
type Parser struct {
	state    parserState
	contexts []parserContext
	tempPool [][]int

	strings []StringSlice
	values  []RawValue
	indexes []int

	copiedUpTo int

	failureReason string
}

// NewParser returns a Parser ready to accept tokens.
func NewParser() *Parser {
	return &Parser{state: psStart}
}

// IsDone reports whether the Parser has completed a root value.
func (p *Parser) IsDone() bool { return p.state == psDone }

// IsFailed reports whether the Parser rejected the token stream.
func (p *Parser) IsFailed() bool { return p.state == psError }

// IsParsing reports whether the Parser is neither done nor failed.
func (p *Parser) IsParsing() bool { return !p.IsDone() && !p.IsFailed() }

// ErrorString returns a human-readable description of the failure, or
// "" if the Parser has not failed.
func (p *Parser) ErrorString() string {
	if p.state != psError {
		return ""
	}
	return p.failureReason
}

// Err returns a non-nil error wrapping ErrParse when the Parser has
// failed, or nil otherwise.
func (p *Parser) Err() error {
	if p.state != psError {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrParse, p.failureReason)
}

func (p *Parser) fail(reason string) {
	p.failureReason = reason
	p.state = psError
}

func (p *Parser) getTemp() []int {
	n := len(p.tempPool)
	if n == 0 {
		return nil
	}
	t := p.tempPool[n-1]
	p.tempPool = p.tempPool[:n-1]
	return t[:0]
}

func (p *Parser) releaseTemp(t []int) {
	p.tempPool = append(p.tempPool, t)
}

func (p *Parser) pushContext(kind parserContextKind) {
	p.contexts = append(p.contexts, parserContext{kind: kind, temp: p.getTemp()})
}

func (p *Parser) popContext() parserContext {
	n := len(p.contexts) - 1
	c := p.contexts[n]
	p.contexts = p.contexts[:n]
	return c
}

func (p *Parser) topContext() *parserContext {
	return &p.contexts[len(p.contexts)-1]
}

func (p *Parser) appendStringFromToken(tok Token) int {
	p.strings = append(p.strings, tok.StringSlice())
	return len(p.strings) - 1
}

func (p *Parser) appendScalar(tok Token) int {
	var rv RawValue
	switch tok.Kind() {
	case TokenNull:
		rv = rawValueStruct(ValueNull)
	case TokenBool:
		rv = rawValueBool(tok.Raw.Bool())
	case TokenLong:
		rv = rawValueLong(tok.Raw.Long())
	case TokenDouble:
		rv = rawValueDouble(tok.Raw.Double())
	case TokenString:
		rv = rawValueStringIndex(p.appendStringFromToken(tok))
	}
	p.values = append(p.values, rv)
	return len(p.values) - 1
}

// recordChildAndAdvance records idx (a value just appended, whether a
// scalar or a freshly-closed container) as a child of the enclosing
// context and sets the state appropriate for what comes next there. An
// empty context stack means idx is the document root.
func (p *Parser) recordChildAndAdvance(idx int) {
	if len(p.contexts) == 0 {
		p.state = psDone
		return
	}
	ctx := p.topContext()
	ctx.temp = append(ctx.temp, idx)
	if ctx.kind == pcArray {
		p.state = psArrayValue
	} else {
		p.state = psObjectKey
	}
}

func (p *Parser) closeArray() {
	ctx := p.popContext()
	offset := len(p.indexes)
	p.indexes = append(p.indexes, ctx.temp...)
	length := len(ctx.temp)
	p.releaseTemp(ctx.temp)
	idx := len(p.values)
	p.values = append(p.values, rawValueArray(offset, length))
	p.recordChildAndAdvance(idx)
}

func (p *Parser) closeObject() {
	ctx := p.popContext()
	offset := len(p.indexes)
	p.indexes = append(p.indexes, ctx.temp...)
	length := len(ctx.temp) / 2
	p.releaseTemp(ctx.temp)
	idx := len(p.values)
	p.values = append(p.values, rawValueObject(offset, length))
	p.recordChildAndAdvance(idx)
}

func (p *Parser) dispatchValue(tok Token) {
	switch tok.Kind() {
	case TokenArrayBegin:
		p.pushContext(pcArray)
		p.state = psArrayValue
	case TokenObjectBegin:
		p.pushContext(pcObject)
		p.state = psObjectKey
	case TokenNull, TokenBool, TokenLong, TokenDouble, TokenString:
		p.recordChildAndAdvance(p.appendScalar(tok))
	default:
		p.fail("expected a JSON value")
	}
}

func (p *Parser) step(tok Token) {
	switch p.state {
	case psStart:
		p.dispatchValue(tok)

	case psArrayValue:
		if tok.Kind() == TokenArrayEnd {
			p.closeArray()
			return
		}
		p.dispatchValue(tok)

	case psObjectKey:
		switch tok.Kind() {
		case TokenObjectEnd:
			p.closeObject()
		case TokenString:
			idx := p.appendStringFromToken(tok)
			ctx := p.topContext()
			ctx.temp = append(ctx.temp, idx)
			p.state = psObjectValue
		default:
			p.fail(`expected a string key or '}'`)
		}

	case psObjectValue:
		p.dispatchValue(tok)
	}
}

// Feed advances the Parser by one token. It is a no-op if the Parser
// is already Done or in Error.
func (p *Parser) Feed(tok Token) {
	if p.state == psDone || p.state == psError {
		return
	}
	p.step(tok)
}

// FeedAll feeds each token in order, stopping early if the Parser
// becomes Done or failed partway through.
func (p *Parser) FeedAll(tokens ...Token) {
	for _, tok := range tokens {
		if p.state == psDone || p.state == psError {
			return
		}
		p.Feed(tok)
	}
}

// LastParsedRoot returns a Value handle to the most recently completed
// parse's root, i.e. values[len(values)-1]. It fails with ErrInvalidOp
// if the Parser has not reached Done.
func (p *Parser) LastParsedRoot() (Value, error) {
	if p.state != psDone {
		return Value{}, fmt.Errorf("%w: parser has not completed a parse", ErrInvalidOp)
	}
	return Value{raw: p.values[len(p.values)-1], p: p}, nil
}

// Reset returns the state machine to Start and returns all in-flight
// temp index lists to the pool. The accumulated strings/values/indexes
// arenas are preserved, so a Parser can be reused across documents
// without re-allocating its backing storage.
func (p *Parser) Reset() {
	for len(p.contexts) > 0 {
		ctx := p.popContext()
		p.releaseTemp(ctx.temp)
	}
	p.state = psStart
	p.failureReason = ""
}

// Clear resets the Parser and additionally truncates its arenas and
// borrowed-strings bookkeeping.
func (p *Parser) Clear() {
	p.Reset()
	p.strings = p.strings[:0]
	p.values = p.values[:0]
	p.indexes = p.indexes[:0]
	p.copiedUpTo = 0
}

// CopyStrings copies every string appended to strings[] since the last
// CopyStrings call into a single buffer owned by the Parser, and
// rewrites those strings[] entries to reference it. After this call,
// Values built from those entries no longer depend on whichever
// Tokenizer buffer originally backed them.
func (p *Parser) CopyStrings() {
	total := 0
	for i := p.copiedUpTo; i < len(p.strings); i++ {
		total += p.strings[i].Len()
	}
	if total == 0 {
		p.copiedUpTo = len(p.strings)
		return
	}
	owned := make([]rune, total)
	box := &owned
	pos := 0
	for i := p.copiedUpTo; i < len(p.strings); i++ {
		s := p.strings[i]
		n := s.Len()
		copy(owned[pos:pos+n], s.CodeUnits())
		p.strings[i] = newStringSlice(box, pos, n)
		pos += n
	}
	p.copiedUpTo = len(p.strings)
}
