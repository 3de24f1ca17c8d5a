// Package pointer parses RFC 6901 JSON Pointers into segments the patch
// engine can route to struct members, list positions and map keys.
package pointer

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind classifies a pointer segment.
type Kind int

const (
	// Member is a struct member name or a map key.
	Member Kind = iota
	// Index is a canonical non-negative decimal list index.
	Index
	// Append is the "-" token: one past the end of a list.
	Append
	// Negative is a segment that parses as a negative integer. It is never a
	// valid list position nor a valid member name.
	Negative
)

func (k Kind) String() string {
	switch k {
	case Member:
		return "member"
	case Index:
		return "index"
	case Append:
		return "append"
	case Negative:
		return "negative"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Segment is one unescaped reference token.
type Segment struct {
	Raw   string
	Kind  Kind
	Index int
}

func (s Segment) String() string {
	return Escape(s.Raw)
}

// Pointer is a parsed JSON Pointer. The empty Pointer denotes the root.
type Pointer []Segment

// Parse splits a JSON Pointer string into unescaped, classified segments.
// The empty string is the root; anything else must start with "/".
func Parse(path string) (Pointer, error) {
	if path == "" {
		return nil, nil
	}
	if !strings.HasPrefix(path, "/") {
		return nil, fmt.Errorf("json pointer %q must be empty or start with \"/\"", path)
	}

	tokens := strings.Split(path[1:], "/")
	p := make(Pointer, len(tokens))
	for i, token := range tokens {
		p[i] = NewSegment(Unescape(token))
	}
	return p, nil
}

// MustParse is like Parse but panics on error.
func MustParse(path string) Pointer {
	p, err := Parse(path)
	if err != nil {
		panic(err)
	}
	return p
}

// NewSegment classifies an already unescaped token.
func NewSegment(token string) Segment {
	if token == "-" {
		return Segment{Raw: token, Kind: Append}
	}
	if isCanonicalIndex(token) {
		idx, err := strconv.Atoi(token)
		if err != nil {
			// Only a range error is possible here. The index is still an
			// index, just never within bounds.
			idx = math.MaxInt
		}
		return Segment{Raw: token, Kind: Index, Index: idx}
	}
	if strings.HasPrefix(token, "-") {
		idx, err := strconv.Atoi(token)
		if err == nil && idx < 0 {
			return Segment{Raw: token, Kind: Negative, Index: idx}
		}
		if errors.Is(err, strconv.ErrRange) {
			return Segment{Raw: token, Kind: Negative, Index: math.MinInt}
		}
	}
	return Segment{Raw: token, Kind: Member}
}

// isCanonicalIndex reports whether token is "0" or a run of digits without a
// leading zero, per RFC 6901 section 4.
func isCanonicalIndex(token string) bool {
	if token == "" {
		return false
	}
	if len(token) > 1 && token[0] == '0' {
		return false
	}
	for i := 0; i < len(token); i++ {
		if token[i] < '0' || token[i] > '9' {
			return false
		}
	}
	return true
}

// String renders the pointer back to its escaped textual form.
func (p Pointer) String() string {
	var b strings.Builder
	for _, s := range p {
		b.WriteByte('/')
		b.WriteString(Escape(s.Raw))
	}
	return b.String()
}

// IsRoot reports whether p addresses the whole document.
func (p Pointer) IsRoot() bool {
	return len(p) == 0
}

// Parent returns p without its last segment. The parent of the root is the
// root.
func (p Pointer) Parent() Pointer {
	if len(p) == 0 {
		return p
	}
	return p[:len(p)-1]
}

// Last returns the final segment of a non-root pointer.
func (p Pointer) Last() Segment {
	return p[len(p)-1]
}

// HasPrefix reports whether prefix addresses p itself or one of its
// ancestors.
func (p Pointer) HasPrefix(prefix Pointer) bool {
	if len(prefix) > len(p) {
		return false
	}
	for i := range prefix {
		if p[i].Raw != prefix[i].Raw {
			return false
		}
	}
	return true
}

// Escape encodes a raw member name or key as a reference token.
func Escape(key string) string {
	key = strings.ReplaceAll(key, "~", "~0")
	key = strings.ReplaceAll(key, "/", "~1")
	return key
}

// Unescape decodes a reference token. "~1" is handled before "~0" so that
// "~01" decodes to "~1".
func Unescape(token string) string {
	token = strings.ReplaceAll(token, "~1", "/")
	token = strings.ReplaceAll(token, "~0", "~")
	return token
}

// Join appends raw (unescaped) tokens to a textual pointer.
func Join(path string, tokens ...string) string {
	var b strings.Builder
	b.WriteString(path)
	for _, t := range tokens {
		b.WriteByte('/')
		b.WriteString(Escape(t))
	}
	return b.String()
}
