// Package document implements the fidelity-preserving Document tree: a
// polymorphic value that carries presentation metadata (integer base,
// string style, comments, compactness) alongside ordinary scalar and
// aggregate values.
package document

import (
	"errors"
	"fmt"
	"strings"

	"go.istra.dev/annotate/integer"
)

// Node is the closed sum of all Document variants. The only implementations
// are the concrete types in this package; the unexported marker method
// keeps the set closed, the idiomatic Go substitute for a Rust enum.
type Node interface {
	isNode()

	// Variant returns the node's variant name, for diagnostics.
	Variant() string
}

// StrFormat records a string's original or requested syntactic style.
type StrFormat int

const (
	// StrStandard is the backend's normal string rendering.
	StrStandard StrFormat = iota
	// StrQuoted always quotes the string, even where not required.
	StrQuoted
	// StrUnquoted renders the string unquoted when the backend allows it.
	StrUnquoted
	// StrMultiline renders the string as a multiline block when allowed.
	StrMultiline
)

func (f StrFormat) String() string {
	switch f {
	case StrStandard:
		return "Standard"
	case StrQuoted:
		return "Quoted"
	case StrUnquoted:
		return "Unquoted"
	case StrMultiline:
		return "Multiline"
	default:
		return fmt.Sprintf("StrFormat(%d)", int(f))
	}
}

// BytesFormat records a byte string's preferred serialized encoding.
type BytesFormat int

const (
	// BytesStandard emits bytes as a numeric sequence.
	BytesStandard BytesFormat = iota
	// BytesHexStr emits bytes as a continuous hex string.
	BytesHexStr
	// BytesHexdump emits bytes as a `hexdump -vC`-style block.
	BytesHexdump
	// BytesXxd emits bytes as an `xxd`-style block.
	BytesXxd
)

func (f BytesFormat) String() string {
	switch f {
	case BytesStandard:
		return "Standard"
	case BytesHexStr:
		return "HexStr"
	case BytesHexdump:
		return "Hexdump"
	case BytesXxd:
		return "Xxd"
	default:
		return fmt.Sprintf("BytesFormat(%d)", int(f))
	}
}

// CommentFormat records a comment's original or requested syntax.
type CommentFormat int

const (
	// CommentStandard is the backend's default comment syntax.
	CommentStandard CommentFormat = iota
	// CommentBlock renders the comment as a /* ... */ block.
	CommentBlock
	// CommentHash renders the comment as a # ... line.
	CommentHash
	// CommentSlashSlash renders the comment as a // ... line.
	CommentSlashSlash
)

func (f CommentFormat) String() string {
	switch f {
	case CommentStandard:
		return "Standard"
	case CommentBlock:
		return "Block"
	case CommentHash:
		return "Hash"
	case CommentSlashSlash:
		return "SlashSlash"
	default:
		return fmt.Sprintf("CommentFormat(%d)", int(f))
	}
}

// Sentinel errors for the taxonomy spec.md §7 names.
var (
	// ErrStructure reports a Document shape mismatch (expected X, found Y).
	ErrStructure = errors.New("document: structure error")
	// ErrKeyType reports an illegal mapping-key variant at emission time.
	ErrKeyType = errors.New("document: key type error")
)

func structureErr(expected, found string) error {
	return fmt.Errorf("%w: expected %s, found %s", ErrStructure, expected, found)
}

// Null is the null value.
type Null struct{}

func (Null) isNode()          {}
func (Null) Variant() string { return "Null" }

// Bool is a boolean value.
type Bool bool

func (Bool) isNode()          {}
func (Bool) Variant() string { return "Boolean" }

// Int is a signed/unsigned integer with its preferred base and width.
type Int struct {
	Value integer.Integer
}

func (Int) isNode()          {}
func (Int) Variant() string { return "Int" }

// Float is a 64-bit floating point value, including NaN and ±Inf.
type Float float64

func (Float) isNode()          {}
func (Float) Variant() string { return "Float" }

// Str is a string value with its preferred rendering style.
type Str struct {
	Text   string
	Format StrFormat
}

func (Str) isNode()          {}
func (Str) Variant() string { return "String" }

// Bytes is a raw byte sequence.
type Bytes []byte

func (Bytes) isNode()          {}
func (Bytes) Variant() string { return "Bytes" }

// Mapping is an ordered sequence of Fragment children, each a key/value
// pair (invariant 3: every Mapping child must be a Fragment).
type Mapping []Node

func (Mapping) isNode()          {}
func (Mapping) Variant() string { return "Mapping" }

// Sequence is an ordered sequence of Document children (an array).
type Sequence []Node

func (Sequence) isNode()          {}
func (Sequence) Variant() string { return "Sequence" }

// Comment is a human-directed annotation attached to a neighboring node. It
// never carries a value (invariant 4).
type Comment struct {
	Text   string
	Format CommentFormat
}

func (Comment) isNode()          {}
func (Comment) Variant() string { return "Comment" }

// Compact wraps a Document as a hint that the emitter should render it
// inline, on a single line.
type Compact struct {
	Node Node
}

func (Compact) isNode()          {}
func (Compact) Variant() string { return "Compact" }

// Fragment groups zero or more Comments around up to two value-bearing
// children: one for a bare value, two (key then value) for a KV pair.
type Fragment []Node

func (Fragment) isNode()          {}
func (Fragment) Variant() string { return "Fragment" }

// HasValue reports whether n carries a value, per invariant 4: a Comment
// never does, a Compact defers to its wrapped node, and a Fragment does iff
// any child does.
func HasValue(n Node) bool {
	switch v := n.(type) {
	case Comment:
		return false
	case Compact:
		return HasValue(v.Node)
	case Fragment:
		for _, c := range v {
			if HasValue(c) {
				return true
			}
		}

		return false
	default:
		return true
	}
}

// Fragments returns the children of n, which must be a Fragment.
func Fragments(n Node) ([]Node, error) {
	f, ok := n.(Fragment)
	if !ok {
		return nil, structureErr("Fragment", n.Variant())
	}

	return f, nil
}

// AsKV returns n's key and value, per invariant 1: n must be a Fragment
// with exactly two value-bearing children, key first.
func AsKV(n Node) (key, value Node, err error) {
	frags, err := Fragments(n)
	if err != nil {
		return nil, nil, err
	}

	var kv []Node

	for _, f := range frags {
		if HasValue(f) {
			kv = append(kv, f)
		}
	}

	switch len(kv) {
	case 0:
		return nil, nil, structureErr("kvpair", "zero elements")
	case 1:
		return nil, nil, structureErr("kvpair", "one element")
	case 2:
		return kv[0], kv[1], nil
	default:
		return nil, nil, structureErr("kvpair", "many elements")
	}
}

// AsValue returns n's single value-bearing content: itself for any
// non-container node, the unwrapped content of a Compact, or the sole
// value-bearing child of a Fragment (invariants 4-5). A Comment, or a
// Fragment with zero or more than one value-bearing child, is an error.
func AsValue(n Node) (Node, error) {
	switch v := n.(type) {
	case Comment:
		return nil, structureErr("a value", "Comment")
	case Compact:
		return AsValue(v.Node)
	case Fragment:
		var values []Node

		for _, f := range v {
			if HasValue(f) {
				values = append(values, f)
			}
		}

		switch len(values) {
		case 0:
			return nil, structureErr("one value", "zero")
		case 1:
			return values[0], nil
		default:
			return nil, structureErr("one value", "many")
		}
	default:
		return n, nil
	}
}

// Setter writes a replacement Node back into the tree slot it was obtained
// from, the mutable counterpart's way of standing in for Rust's `&mut
// Document`: Go's Compact stores its child by value in a struct field, so a
// type-asserted copy of that struct is not addressable the way a slice
// element is. A Setter closes over whatever indirection is needed (a slice
// index, or a rewrap of an outer Compact) so the caller never has to know
// which.
type Setter func(Node)

// FragmentsMut is the mutable counterpart of [Fragments]: it returns the
// same children, but as a slice sharing n's backing array, so writing
// through the returned slice (or a pointer into it) mutates n in place.
func FragmentsMut(n Node) ([]Node, error) {
	f, ok := n.(Fragment)
	if !ok {
		return nil, structureErr("Fragment", n.Variant())
	}

	return f, nil
}

// AsKVMut is the mutable counterpart of [AsKV]: it returns pointers to n's
// key and value slots. Fragment is itself a slice type, so a type-asserted
// copy of it shares the same backing array as the original n; indexing that
// copy yields addresses that alias the original tree.
func AsKVMut(n Node) (key, value *Node, err error) {
	frags, err := FragmentsMut(n)
	if err != nil {
		return nil, nil, err
	}

	var idx []int

	for i, f := range frags {
		if HasValue(f) {
			idx = append(idx, i)
		}
	}

	switch len(idx) {
	case 0:
		return nil, nil, structureErr("kvpair", "zero elements")
	case 1:
		return nil, nil, structureErr("kvpair", "one element")
	case 2:
		return &frags[idx[0]], &frags[idx[1]], nil
	default:
		return nil, nil, structureErr("kvpair", "many elements")
	}
}

// AsValueMut is the mutable counterpart of [AsValue]: it returns n's single
// value-bearing content along with a Setter that writes a replacement back
// into n's original slot.
//
// For a non-container node or a Fragment's sole value-bearing child, the
// caller's *Node already addresses storage shared with the original tree
// (Fragment is a slice type), so the Setter writes through it directly. A
// Compact is the one case needing closure indirection: unwrapping it yields
// a copy of its wrapped Node, so the Setter first asks the inner Node's own
// Setter to store the replacement, then rewraps the result in a fresh
// Compact and writes that back into *n.
func AsValueMut(n *Node) (Node, Setter, error) {
	switch v := (*n).(type) {
	case Comment:
		return nil, nil, structureErr("a value", "Comment")
	case Compact:
		inner := v.Node

		val, set, err := AsValueMut(&inner)
		if err != nil {
			return nil, nil, err
		}

		outer := n

		return val, func(replacement Node) {
			set(replacement)
			*outer = Compact{Node: inner}
		}, nil
	case Fragment:
		var idx []int

		for i, f := range v {
			if HasValue(f) {
				idx = append(idx, i)
			}
		}

		switch len(idx) {
		case 0:
			return nil, nil, structureErr("one value", "zero")
		case 1:
			slot := &v[idx[0]]

			return *slot, func(replacement Node) { *slot = replacement }, nil
		default:
			return nil, nil, structureErr("one value", "many")
		}
	default:
		return *n, func(replacement Node) { *n = replacement }, nil
	}
}

// LastValueIndex returns the index of the rightmost value-bearing element
// in seq, or len(seq) if none is value-bearing.
func LastValueIndex(seq []Node) int {
	for i := len(seq) - 1; i >= 0; i-- {
		if HasValue(seq[i]) {
			return i
		}
	}

	return len(seq)
}

// AsComment returns n's comment text and format, if n is a Comment.
func AsComment(n Node) (text string, format CommentFormat, ok bool) {
	c, ok := n.(Comment)
	if !ok {
		return "", 0, false
	}

	return c.Text, c.Format, true
}

// AsStr converts n to a string, unwrapping Compact/Fragment first.
func AsStr(n Node) (string, error) {
	v, err := AsValue(n)
	if err != nil {
		return "", err
	}

	if s, ok := v.(Str); ok {
		return s.Text, nil
	}

	return "", structureErr("String", v.Variant())
}

// AsNull asserts that n is Null, unwrapping Compact/Fragment first.
func AsNull(n Node) error {
	v, err := AsValue(n)
	if err != nil {
		return err
	}

	if _, ok := v.(Null); ok {
		return nil
	}

	return structureErr("Null", v.Variant())
}

func parseBool(s string) (bool, error) {
	switch s {
	case "true", "True", "TRUE":
		return true, nil
	case "false", "False", "FALSE":
		return false, nil
	default:
		return false, structureErr("Boolean", "String")
	}
}

// AsBool converts n to a bool: a Boolean node directly, or a String parsed
// via the canonical true/True/TRUE/false/False/FALSE spellings.
func AsBool(n Node) (bool, error) {
	v, err := AsValue(n)
	if err != nil {
		return false, err
	}

	switch t := v.(type) {
	case Bool:
		return bool(t), nil
	case Str:
		return parseBool(t.Text)
	default:
		return false, structureErr("Boolean", v.Variant())
	}
}

// AsChar converts n to a single rune; the underlying string must contain
// exactly one character.
func AsChar(n Node) (rune, error) {
	s, err := AsStr(n)
	if err != nil {
		return 0, err
	}

	runes := []rune(s)

	switch len(runes) {
	case 0:
		return 0, structureErr("one character", "zero")
	case 1:
		return runes[0], nil
	default:
		return 0, structureErr("one character", "many")
	}
}

// AsInt converts n to an [integer.Integer]: an Int node directly, a Float
// truncated, or a String/numeric literal parsed in its apparent base.
func AsInt(n Node) (integer.Integer, error) {
	v, err := AsValue(n)
	if err != nil {
		return integer.Integer{}, err
	}

	switch t := v.(type) {
	case Int:
		return t.Value, nil
	case Float:
		return integer.FromInt(int64(t), 64, integer.Dec), nil
	case Str:
		parsed, err := integer.ParseInt(t.Text, 0)
		if err != nil {
			return integer.Integer{}, err
		}

		return parsed, nil
	default:
		return integer.Integer{}, structureErr("Int", v.Variant())
	}
}

// AsInt64 is [AsInt] truncated to an int64.
func AsInt64(n Node) (int64, error) {
	i, err := AsInt(n)
	if err != nil {
		return 0, err
	}

	return i.ToInt64(), nil
}

// AsUint64 is [AsInt] truncated to a uint64.
func AsUint64(n Node) (uint64, error) {
	i, err := AsInt(n)
	if err != nil {
		return 0, err
	}

	return i.ToUint64(), nil
}

// AsFloat64 converts n to a float64: a Float directly, or an Int widened.
func AsFloat64(n Node) (float64, error) {
	v, err := AsValue(n)
	if err != nil {
		return 0, err
	}

	switch t := v.(type) {
	case Float:
		return float64(t), nil
	case Int:
		return float64(t.Value.ToInt64()), nil
	default:
		return 0, structureErr("Float", v.Variant())
	}
}

// AsBytes converts n to a byte slice.
func AsBytes(n Node) ([]byte, error) {
	v, err := AsValue(n)
	if err != nil {
		return nil, err
	}

	if b, ok := v.(Bytes); ok {
		return b, nil
	}

	return nil, structureErr("Bytes", v.Variant())
}

// KeyText returns the textual form of a mapping key, after unwrapping
// Compact/Fragment. Only scalar nodes (String/Int/Float/Boolean) are legal
// keys (invariant 6); anything else is [ErrKeyType].
func KeyText(n Node) (string, error) {
	v, err := AsValue(n)
	if err != nil {
		return "", err
	}

	switch t := v.(type) {
	case Str:
		return t.Text, nil
	case Int:
		return t.Value.String(), nil
	case Float:
		return strings.TrimSuffix(fmt.Sprintf("%v", float64(t)), ".0"), nil
	case Bool:
		if t {
			return "true", nil
		}

		return "false", nil
	default:
		return "", fmt.Errorf("%w: %s cannot be a mapping key", ErrKeyType, v.Variant())
	}
}
