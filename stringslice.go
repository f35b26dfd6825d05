package json

import "github.com/cespare/xxhash/v2"

// StringSlice is a view into a shared rune buffer: a buffer reference
// plus a start offset and a length. It never copies the characters it
// views; equality compares positionally against the backing runes
// rather than materializing a string.
//
// The zero value is an empty slice over a nil buffer.
type StringSlice struct {
	buf    *[]rune
	start  int
	length int
}

func newStringSlice(buf *[]rune, start, length int) StringSlice {
	return StringSlice{buf: buf, start: start, length: length}
}

// Len returns the number of code units in the slice.
func (s StringSlice) Len() int { return s.length }

// IsEmpty reports whether the slice has zero length.
func (s StringSlice) IsEmpty() bool { return s.length == 0 }

// CodeUnits returns the raw 16-bit-equivalent code units backing this
// slice, including any unpaired surrogate values stored by the
// Tokenizer's \uXXXX handling. Use this instead of String() when a
// lone surrogate must survive round-tripping.
func (s StringSlice) CodeUnits() []rune {
	if s.buf == nil {
		return nil
	}
	return (*s.buf)[s.start : s.start+s.length]
}

// String materializes the slice's contents as a native Go string. Any
// unpaired UTF-16 surrogate code unit in the slice is replaced with
// U+FFFD by Go's rune-to-UTF-8 conversion; use CodeUnits to see the
// raw 16-bit values instead.
func (s StringSlice) String() string {
	if s.length == 0 {
		return ""
	}
	return string(s.CodeUnits())
}

// Equal reports whether two slices have identical contents. It never
// allocates: characters are compared positionally.
func (s StringSlice) Equal(o StringSlice) bool {
	if s.length != o.length {
		return false
	}
	for i := 0; i < s.length; i++ {
		if (*s.buf)[s.start+i] != (*o.buf)[o.start+i] {
			return false
		}
	}
	return true
}

// EqualString reports whether the slice's contents equal a native Go
// string, compared rune-by-rune without materializing the slice.
func (s StringSlice) EqualString(str string) bool {
	i := 0
	for _, r := range str {
		if i >= s.length || (*s.buf)[s.start+i] != r {
			return false
		}
		i++
	}
	return i == s.length
}

// Hash returns a hash of the slice's materialized string contents.
// Because it hashes the current contents, callers whose backing buffer
// may later mutate in place (e.g. a Tokenizer that has not yet had
// CopyStrings called against it) should not cache this value across
// a Reset or Clear.
func (s StringSlice) Hash() uint64 {
	if s.length == 0 {
		return xxhash.Sum64String("")
	}
	return xxhash.Sum64String(s.String())
}
