package json

import "math"

// TokenKind discriminates the payload carried by a RawToken.
type TokenKind uint8

// Token kinds, per spec.
const (
	TokenNull TokenKind = iota
	TokenBool
	TokenLong
	TokenDouble
	TokenString
	TokenArrayBegin
	TokenArrayEnd
	TokenObjectBegin
	TokenObjectEnd
)

func (k TokenKind) String() string {
	switch k {
	case TokenNull:
		return "Null"
	case TokenBool:
		return "Bool"
	case TokenLong:
		return "Long"
	case TokenDouble:
		return "Double"
	case TokenString:
		return "String"
	case TokenArrayBegin:
		return "ArrayBegin"
	case TokenArrayEnd:
		return "ArrayEnd"
	case TokenObjectBegin:
		return "ObjectBegin"
	case TokenObjectEnd:
		return "ObjectEnd"
	default:
		return "<unknown token>"
	}
}

// RawToken is a tagged union: a 1-byte Kind discriminator plus an
// 8-byte-equivalent payload shared by Bool, Long, Double, and the
// (StringOffset, StringLength) pair. This mirrors an overlaid-memory
// layout without resorting to unsafe.Pointer games: the payload is
// packed into a single uint64 and unpacked by the typed accessor the
// caller asks for.
type RawToken struct {
	Kind    TokenKind
	payload uint64
}

func rawTokenBool(b bool) RawToken {
	var p uint64
	if b {
		p = 1
	}
	return RawToken{Kind: TokenBool, payload: p}
}

func rawTokenLong(v int64) RawToken {
	return RawToken{Kind: TokenLong, payload: uint64(v)}
}

func rawTokenDouble(v float64) RawToken {
	return RawToken{Kind: TokenDouble, payload: math.Float64bits(v)}
}

func rawTokenString(offset, length int) RawToken {
	return RawToken{Kind: TokenString, payload: packPair(offset, length)}
}

func rawTokenStruct(kind TokenKind) RawToken {
	return RawToken{Kind: kind}
}

func packPair(a, b int) uint64 {
	return uint64(uint32(a))<<32 | uint64(uint32(b))
}

func unpackPair(p uint64) (int, int) {
	return int(int32(p >> 32)), int(int32(p))
}

// Bool returns the token's boolean payload. The caller is responsible
// for checking Kind == TokenBool first; like the source, RawToken does
// not itself validate which field is "live".
func (t RawToken) Bool() bool { return t.payload != 0 }

// Long returns the token's integer payload.
func (t RawToken) Long() int64 { return int64(t.payload) }

// Double returns the token's floating-point payload.
func (t RawToken) Double() float64 { return math.Float64frombits(t.payload) }

// StringOffsetLength returns the (offset, length) pair into the
// Tokenizer's character buffer for a String token.
func (t RawToken) StringOffsetLength() (offset, length int) { return unpackPair(t.payload) }

// Token wraps a RawToken together with a reference to the character
// buffer it was produced against. The buffer reference is only
// meaningful (and only kept) when Kind == TokenString; for all other
// kinds buf is nil and StringSlice/StringValue should not be called.
type Token struct {
	Raw RawToken
	buf *[]rune
}

// Kind returns the token's discriminator.
func (t Token) Kind() TokenKind { return t.Raw.Kind }

// StringSlice returns the token's string payload as a view into the
// Tokenizer's buffer. Valid only while that buffer and offset remain
// stable, i.e. until the next Reset or Clear on the owning Tokenizer.
func (t Token) StringSlice() StringSlice {
	offset, length := t.Raw.StringOffsetLength()
	return newStringSlice(t.buf, offset, length)
}

// StringValue materializes the token's string payload as a native Go
// string (a copy).
func (t Token) StringValue() string { return t.StringSlice().String() }
