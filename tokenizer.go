package json

import (
	"fmt"
	"math"
)

// tokenizerState is the Tokenizer's state machine position.
type tokenizerState uint8

const (
	tsStart tokenizerState = iota
	tsDone
	tsError
	tsArrayValue
	tsArrayComma
	tsObjectKey
	tsObjectColon
	tsObjectValue
	tsObjectComma
	tsStringChar
	tsStringEscape
	tsStringU1
	tsStringU2
	tsStringU3
	tsStringU4
	tsNumWhole
	tsNumZero
	tsNumMinus
	tsNumFrac0
	tsNumFrac
	tsNumExp0
	tsNumExp
	tsN
	tsNu
	tsNul
	tsT
	tsTr
	tsTru
	tsF
	tsFa
	tsFal
	tsFals
)

// Tokenizer is a push-fed, character-at-a-time state machine that
// converts a stream of runes into a validated JSON token stream. Feed
// characters one at a time (Feed), in bulk (FeedString/FeedSlice), and
// inspect IsDone/IsFailed/ErrorString to observe status. A Tokenizer
// must not be used concurrently from more than one goroutine.
type Tokenizer struct {
	state       tokenizerState
	returnStack []tokenizerState

	buf         []rune
	stringStart int
	stringPos   int

	tokens []RawToken

	numSign         int64
	numWhole        int64
	numHasFrac      bool
	numFrac         int64
	numFracDivisor  float64
	numHasExp       bool
	numExpSign      int64
	numExp          int64
	numExpSignSeen  bool

	escapeAccum uint32

	pos            int
	lastChar       rune
	failedChar     rune
	failedLastChar rune
	failedCharPos  int
	failureReason  string
}

// NewTokenizer returns a Tokenizer ready to accept input.
func NewTokenizer() *Tokenizer {
	return &Tokenizer{state: tsStart}
}

func isWhitespace(r rune) bool {
	switch r {
	case ' ', '\t', '\r', '\n', '\v', '\f':
		return true
	}
	return false
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func hexDigit(r rune) (uint32, bool) {
	switch {
	case r >= '0' && r <= '9':
		return uint32(r - '0'), true
	case r >= 'a' && r <= 'f':
		return uint32(r-'a') + 10, true
	case r >= 'A' && r <= 'F':
		return uint32(r-'A') + 10, true
	default:
		return 0, false
	}
}

// IsDone reports whether the Tokenizer has reached a terminal, valid
// end of its single top-level value.
func (t *Tokenizer) IsDone() bool { return t.state == tsDone }

// IsFailed reports whether the Tokenizer encountered invalid input.
func (t *Tokenizer) IsFailed() bool { return t.state == tsError }

// IsTokenizing reports whether the Tokenizer is neither done nor
// failed, i.e. still able to usefully accept Feed calls.
func (t *Tokenizer) IsTokenizing() bool { return !t.IsDone() && !t.IsFailed() }

// Count returns the number of tokens emitted so far.
func (t *Tokenizer) Count() int { return len(t.tokens) }

// At returns the i-th emitted token.
func (t *Tokenizer) At(i int) Token {
	return Token{Raw: t.tokens[i], buf: &t.buf}
}

// Tokens returns an iterator over the tokens emitted so far, in
// document order.
func (t *Tokenizer) Tokens() func(func(Token) bool) {
	return func(yield func(Token) bool) {
		for i := 0; i < len(t.tokens); i++ {
			if !yield(t.At(i)) {
				return
			}
		}
	}
}

// ErrorString returns a human-readable description of the failure,
// or "" if the Tokenizer has not failed.
func (t *Tokenizer) ErrorString() string {
	if t.state != tsError {
		return ""
	}
	return fmt.Sprintf(
		"at byte %d: %s (character %q, preceding character %q)",
		t.failedCharPos, t.failureReason, t.failedChar, t.failedLastChar,
	)
}

// Err returns a non-nil error wrapping ErrParse when the Tokenizer has
// failed, or nil otherwise. This is the natural-Go-error rendering of
// ErrorString, for callers that want to errors.Is/fmt.Errorf against a
// failed Tokenizer rather than polling IsFailed/ErrorString.
func (t *Tokenizer) Err() error {
	if t.state != tsError {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrParse, t.ErrorString())
}

func (t *Tokenizer) fail(r rune, reason string) {
	t.failedChar = r
	t.failedLastChar = t.lastChar
	t.failedCharPos = t.pos
	t.failureReason = reason
	t.state = tsError
}

func (t *Tokenizer) pushReturn(s tokenizerState) {
	t.returnStack = append(t.returnStack, s)
}

func (t *Tokenizer) popReturn() tokenizerState {
	n := len(t.returnStack) - 1
	s := t.returnStack[n]
	t.returnStack = t.returnStack[:n]
	return s
}

func (t *Tokenizer) emitToken(tok RawToken) {
	t.tokens = append(t.tokens, tok)
}

func (t *Tokenizer) ensureCapacity(n int) {
	if n <= len(t.buf) {
		return
	}
	newCap := len(t.buf) * 2
	if newCap == 0 {
		newCap = 32
	}
	for newCap < n {
		newCap *= 2
	}
	nb := make([]rune, newCap)
	copy(nb, t.buf)
	t.buf = nb
}

func (t *Tokenizer) appendStringChar(r rune) {
	t.ensureCapacity(t.stringPos + 1)
	t.buf[t.stringPos] = r
	t.stringPos++
}

func (t *Tokenizer) emitStringToken() {
	offset, length := t.stringStart, t.stringPos-t.stringStart
	t.emitToken(rawTokenString(offset, length))
	t.stringStart = t.stringPos
}

func (t *Tokenizer) resetNumberAccum() {
	t.numSign = 1
	t.numWhole = 0
	t.numHasFrac = false
	t.numFrac = 0
	t.numFracDivisor = 1
	t.numHasExp = false
	t.numExpSign = 1
	t.numExp = 0
	t.numExpSignSeen = false
}

func (t *Tokenizer) emitLong() tokenizerState {
	t.emitToken(rawTokenLong(t.numSign * t.numWhole))
	return t.popReturn()
}

func (t *Tokenizer) emitDouble() tokenizerState {
	frac := 0.0
	if t.numHasFrac {
		frac = float64(t.numFrac) / t.numFracDivisor
	}
	mantissa := float64(t.numSign) * (float64(t.numWhole) + frac)
	exp := 0.0
	if t.numHasExp {
		exp = float64(t.numExpSign * t.numExp)
	}
	t.emitToken(rawTokenDouble(mantissa * math.Pow(10, exp)))
	return t.popReturn()
}

// popAndRedispatch finishes a number by popping its follow state and,
// unless that follow state is terminal, re-feeding the same character
// into it. This is the tokenizer's only lookahead: a number's
// terminator character was never part of the number's own grammar.
func (t *Tokenizer) popAndRedispatch(follow tokenizerState, r rune) {
	t.state = follow
	if follow != tsDone && follow != tsError {
		t.step(r)
	}
}

// Feed advances the state machine by one character. It is a no-op if
// the Tokenizer is already Done or in Error.
func (t *Tokenizer) Feed(r rune) {
	if t.state == tsDone || t.state == tsError {
		return
	}
	t.step(r)
	t.pos++
	t.lastChar = r
}

// FeedString feeds every rune of s in order, stopping early if the
// Tokenizer becomes Done or failed partway through.
func (t *Tokenizer) FeedString(s string) {
	for _, r := range s {
		if t.state == tsDone || t.state == tsError {
			return
		}
		t.Feed(r)
	}
}

// FeedSlice feeds rs[start:start+length] in order, stopping early on
// Done or Error.
func (t *Tokenizer) FeedSlice(rs []rune, start, length int) {
	end := start + length
	for i := start; i < end; i++ {
		if t.state == tsDone || t.state == tsError {
			return
		}
		t.Feed(rs[i])
	}
}

// End signals that no more characters will be fed. Its only effect is
// to finalize a number token left pending by the lack of a following
// terminator character (e.g. a bare top-level "-123" with nothing
// after it). It is idempotent and safe to call unconditionally once a
// caller knows its input is exhausted.
func (t *Tokenizer) End() {
	switch t.state {
	case tsNumZero, tsNumWhole:
		t.state = t.emitLong()
	case tsNumFrac, tsNumExp:
		t.state = t.emitDouble()
	}
}

// Reset clears emitted tokens and, if a string is mid-construction,
// compacts its in-progress prefix to the head of the buffer so parsing
// can continue. Parse position (state, return stack, in-flight number
// accumulators) is preserved.
func (t *Tokenizer) Reset() {
	if t.stringPos > t.stringStart {
		n := t.stringPos - t.stringStart
		copy(t.buf[0:n], t.buf[t.stringStart:t.stringPos])
		t.stringStart = 0
		t.stringPos = n
	} else {
		t.stringStart = 0
		t.stringPos = 0
	}
	t.tokens = t.tokens[:0]
}

// Clear returns the Tokenizer to its initial, empty state.
func (t *Tokenizer) Clear() {
	t.state = tsStart
	t.returnStack = t.returnStack[:0]
	t.buf = nil
	t.stringStart = 0
	t.stringPos = 0
	t.tokens = nil
	t.resetNumberAccum()
	t.pos = 0
	t.lastChar = 0
	t.failedChar = 0
	t.failedLastChar = 0
	t.failedCharPos = 0
	t.failureReason = ""
}

// dispatchValue handles the "first-value dispatch" shared by Start,
// ArrayValue, and ObjectValue: the next non-whitespace character
// decides which kind of value begins, and follow records the state to
// resume once that value is fully parsed.
func (t *Tokenizer) dispatchValue(r rune, follow tokenizerState) {
	switch {
	case r == '[':
		t.emitToken(rawTokenStruct(TokenArrayBegin))
		t.pushReturn(follow)
		t.state = tsArrayValue
	case r == '{':
		t.emitToken(rawTokenStruct(TokenObjectBegin))
		t.pushReturn(follow)
		t.state = tsObjectKey
	case r == '"':
		t.pushReturn(follow)
		t.state = tsStringChar
	case r == 'n':
		t.pushReturn(follow)
		t.state = tsN
	case r == 't':
		t.pushReturn(follow)
		t.state = tsT
	case r == 'f':
		t.pushReturn(follow)
		t.state = tsF
	case r == '0':
		t.pushReturn(follow)
		t.resetNumberAccum()
		t.state = tsNumZero
	case r == '-':
		t.pushReturn(follow)
		t.resetNumberAccum()
		t.numSign = -1
		t.state = tsNumMinus
	case r >= '1' && r <= '9':
		t.pushReturn(follow)
		t.resetNumberAccum()
		t.numWhole = int64(r - '0')
		t.state = tsNumWhole
	default:
		t.fail(r, "expected a JSON value")
	}
}

func (t *Tokenizer) step(r rune) {
	switch t.state {
	case tsStart:
		if isWhitespace(r) {
			return
		}
		t.dispatchValue(r, tsDone)

	case tsArrayValue:
		if isWhitespace(r) {
			return
		}
		if r == ']' {
			t.emitToken(rawTokenStruct(TokenArrayEnd))
			t.state = t.popReturn()
			return
		}
		t.dispatchValue(r, tsArrayComma)

	case tsArrayComma:
		switch {
		case isWhitespace(r):
		case r == ']':
			t.emitToken(rawTokenStruct(TokenArrayEnd))
			t.state = t.popReturn()
		case r == ',':
			t.state = tsArrayValue
		default:
			t.fail(r, "expected ',' or ']'")
		}

	case tsObjectKey:
		switch {
		case isWhitespace(r):
		case r == '}':
			t.emitToken(rawTokenStruct(TokenObjectEnd))
			t.state = t.popReturn()
		case r == '"':
			t.pushReturn(tsObjectColon)
			t.state = tsStringChar
		default:
			t.fail(r, `expected '"' or '}'`)
		}

	case tsObjectColon:
		switch {
		case isWhitespace(r):
		case r == ':':
			t.state = tsObjectValue
		default:
			t.fail(r, "expected ':'")
		}

	case tsObjectValue:
		if isWhitespace(r) {
			return
		}
		t.dispatchValue(r, tsObjectComma)

	case tsObjectComma:
		switch {
		case isWhitespace(r):
		case r == '}':
			t.emitToken(rawTokenStruct(TokenObjectEnd))
			t.state = t.popReturn()
		case r == ',':
			t.state = tsObjectKey
		default:
			t.fail(r, "expected ',' or '}'")
		}

	case tsStringChar:
		switch {
		case r == '"':
			t.emitStringToken()
			t.state = t.popReturn()
		case r == '\\':
			t.state = tsStringEscape
		case r < 32:
			t.fail(r, "control character in string")
		default:
			t.appendStringChar(r)
		}

	case tsStringEscape:
		switch r {
		case '"', '\\', '/':
			t.appendStringChar(r)
			t.state = tsStringChar
		case 'b':
			t.appendStringChar('\b')
			t.state = tsStringChar
		case 'f':
			t.appendStringChar('\f')
			t.state = tsStringChar
		case 'n':
			t.appendStringChar('\n')
			t.state = tsStringChar
		case 'r':
			t.appendStringChar('\r')
			t.state = tsStringChar
		case 't':
			t.appendStringChar('\t')
			t.state = tsStringChar
		case 'u':
			t.escapeAccum = 0
			t.state = tsStringU1
		default:
			t.fail(r, "invalid escape sequence")
		}

	case tsStringU1, tsStringU2, tsStringU3, tsStringU4:
		v, ok := hexDigit(r)
		if !ok {
			t.fail(r, "invalid unicode escape")
			return
		}
		t.escapeAccum = t.escapeAccum<<4 | v
		switch t.state {
		case tsStringU1:
			t.state = tsStringU2
		case tsStringU2:
			t.state = tsStringU3
		case tsStringU3:
			t.state = tsStringU4
		case tsStringU4:
			t.appendStringChar(rune(t.escapeAccum))
			t.state = tsStringChar
		}

	case tsNumMinus:
		switch {
		case r == '0':
			t.state = tsNumZero
		case r >= '1' && r <= '9':
			t.numWhole = int64(r - '0')
			t.state = tsNumWhole
		default:
			t.fail(r, "expected digit after '-'")
		}

	case tsNumZero:
		switch {
		case r == '.':
			t.state = tsNumFrac0
		case r == 'e' || r == 'E':
			t.numHasExp = true
			t.state = tsNumExp0
		case isDigit(r):
			t.fail(r, "invalid number: leading zero")
		default:
			t.popAndRedispatch(t.emitLong(), r)
		}

	case tsNumWhole:
		switch {
		case isDigit(r):
			t.numWhole = t.numWhole*10 + int64(r-'0')
		case r == '.':
			t.state = tsNumFrac0
		case r == 'e' || r == 'E':
			t.numHasExp = true
			t.state = tsNumExp0
		default:
			t.popAndRedispatch(t.emitLong(), r)
		}

	case tsNumFrac0:
		if isDigit(r) {
			t.numFrac = int64(r - '0')
			t.numFracDivisor = 10
			t.numHasFrac = true
			t.state = tsNumFrac
			return
		}
		t.fail(r, "expected digit after '.'")

	case tsNumFrac:
		switch {
		case isDigit(r):
			t.numFrac = t.numFrac*10 + int64(r-'0')
			t.numFracDivisor *= 10
		case r == 'e' || r == 'E':
			t.numHasExp = true
			t.state = tsNumExp0
		default:
			t.popAndRedispatch(t.emitDouble(), r)
		}

	case tsNumExp0:
		switch {
		case (r == '+' || r == '-') && !t.numExpSignSeen:
			t.numExpSignSeen = true
			if r == '-' {
				t.numExpSign = -1
			}
		case isDigit(r):
			t.numExp = int64(r - '0')
			t.state = tsNumExp
		default:
			t.fail(r, "expected digit in exponent")
		}

	case tsNumExp:
		switch {
		case isDigit(r):
			t.numExp = t.numExp*10 + int64(r-'0')
		default:
			t.popAndRedispatch(t.emitDouble(), r)
		}

	case tsN:
		if r == 'u' {
			t.state = tsNu
		} else {
			t.fail(r, "invalid literal, expected 'null'")
		}
	case tsNu:
		if r == 'l' {
			t.state = tsNul
		} else {
			t.fail(r, "invalid literal, expected 'null'")
		}
	case tsNul:
		if r == 'l' {
			t.emitToken(rawTokenStruct(TokenNull))
			t.state = t.popReturn()
		} else {
			t.fail(r, "invalid literal, expected 'null'")
		}

	case tsT:
		if r == 'r' {
			t.state = tsTr
		} else {
			t.fail(r, "invalid literal, expected 'true'")
		}
	case tsTr:
		if r == 'u' {
			t.state = tsTru
		} else {
			t.fail(r, "invalid literal, expected 'true'")
		}
	case tsTru:
		if r == 'e' {
			t.emitToken(rawTokenBool(true))
			t.state = t.popReturn()
		} else {
			t.fail(r, "invalid literal, expected 'true'")
		}

	case tsF:
		if r == 'a' {
			t.state = tsFa
		} else {
			t.fail(r, "invalid literal, expected 'false'")
		}
	case tsFa:
		if r == 'l' {
			t.state = tsFal
		} else {
			t.fail(r, "invalid literal, expected 'false'")
		}
	case tsFal:
		if r == 's' {
			t.state = tsFals
		} else {
			t.fail(r, "invalid literal, expected 'false'")
		}
	case tsFals:
		if r == 'e' {
			t.emitToken(rawTokenBool(false))
			t.state = t.popReturn()
		} else {
			t.fail(r, "invalid literal, expected 'false'")
		}
	}
}
