package document

import (
	"iter"
	"strconv"
)

// All returns a pre-order traversal of n and every descendant, including
// Comment and Fragment nodes: a container is yielded before its children.
// Ported from the Rust crate's stack-based DocIter as a Go 1.23
// range-over-func generator, grounded on rhogenson-ccl's lexer.go
// iter.Seq producer pattern.
func All(n Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		var walk func(Node) bool
		walk = func(n Node) bool {
			if !yield(n) {
				return false
			}

			switch v := n.(type) {
			case Mapping:
				for _, c := range v {
					if !walk(c) {
						return false
					}
				}
			case Sequence:
				for _, c := range v {
					if !walk(c) {
						return false
					}
				}
			case Compact:
				return walk(v.Node)
			case Fragment:
				for _, c := range v {
					if !walk(c) {
						return false
					}
				}
			}

			return true
		}

		walk(n)
	}
}

// PathSegment is one step of a [Path]: either a mapping key (Name) or a
// sequence position (Index).
type PathSegment struct {
	Name    string
	Index   int
	IsIndex bool
}

func (s PathSegment) String() string {
	if s.IsIndex {
		return strconv.Itoa(s.Index)
	}

	return s.Name
}

// Path identifies a value node's position in the tree as a sequence of
// [PathSegment]s from the root.
type Path []PathSegment

// String renders p as dot-joined segments (e.g. "d.1").
func (p Path) String() string {
	s := ""

	for i, seg := range p {
		if i > 0 {
			s += "."
		}

		s += seg.String()
	}

	return s
}

// Walk returns an iterator over every non-container value node in n,
// yielding (path, value) pairs. Comments are skipped; Compact and
// single-value Fragment wrappers are transparent. Every element of a
// Sequence advances that level's index, and every KV Fragment of a Mapping
// sets that level's name, regardless of whether the element is itself a
// scalar or a nested aggregate.
//
// Ported from the Rust crate's stack-based DocPathIter as a recursive Go
// generator; grounded on rhogenson-ccl's iter.Seq2 lexer pattern.
func Walk(n Node) iter.Seq2[Path, Node] {
	return func(yield func(Path, Node) bool) {
		var path Path

		var rec func(Node) bool
		rec = func(n Node) bool {
			switch v := n.(type) {
			case Comment:
				return true
			case Mapping:
				for _, frag := range v {
					key, val, err := AsKV(frag)
					if err != nil {
						continue
					}

					name, err := KeyText(key)
					if err != nil {
						continue
					}

					path = append(path, PathSegment{Name: name})

					if !rec(val) {
						return false
					}

					path = path[:len(path)-1]
				}

				return true
			case Sequence:
				idx := 0

				for _, elem := range v {
					val, err := AsValue(elem)
					if err != nil {
						continue
					}

					path = append(path, PathSegment{Index: idx, IsIndex: true})
					idx++

					if !rec(val) {
						return false
					}

					path = path[:len(path)-1]
				}

				return true
			case Compact:
				return rec(v.Node)
			case Fragment:
				for _, c := range v {
					if !rec(c) {
						return false
					}
				}

				return true
			default:
				cp := make(Path, len(path))
				copy(cp, path)

				return yield(cp, n)
			}
		}

		rec(n)
	}
}

// ValueMut is one item yielded by [WalkMut]: a value node paired with a
// Setter that writes a replacement for it back into the tree.
type ValueMut struct {
	Node Node
	Set  Setter
}

// WalkMut is the mutable counterpart of [Walk]: it yields the same
// (path, value) pairs, but each value arrives alongside a Setter the caller
// can invoke to replace it in place, the Go substitute for the Rust
// original's DocPathIterMut transform-in-place traversal.
//
// n must address storage the caller owns; WalkMut threads that address
// through Mapping/Sequence/Fragment children directly (all three are slice
// types, so their elements are already addressable) and through Compact
// wrappers via the same rewrap-closure technique as [AsValueMut].
func WalkMut(n *Node) iter.Seq2[Path, ValueMut] {
	return func(yield func(Path, ValueMut) bool) {
		var path Path

		var rec func(*Node) bool
		rec = func(n *Node) bool {
			switch v := (*n).(type) {
			case Comment:
				return true
			case Mapping:
				for i := range v {
					key, val, err := AsKVMut(v[i])
					if err != nil {
						continue
					}

					name, err := KeyText(*key)
					if err != nil {
						continue
					}

					path = append(path, PathSegment{Name: name})

					if !rec(val) {
						return false
					}

					path = path[:len(path)-1]
				}

				return true
			case Sequence:
				idx := 0

				for i := range v {
					val, set, err := AsValueMut(&v[i])
					if err != nil {
						continue
					}

					path = append(path, PathSegment{Index: idx, IsIndex: true})
					idx++

					slot := val

					if !rec(&slot) {
						return false
					}

					set(slot)

					path = path[:len(path)-1]
				}

				return true
			case Compact:
				inner := v.Node
				outer := n

				if !rec(&inner) {
					return false
				}

				*outer = Compact{Node: inner}

				return true
			case Fragment:
				for i := range v {
					if !rec(&v[i]) {
						return false
					}
				}

				return true
			default:
				cp := make(Path, len(path))
				copy(cp, path)

				return yield(cp, ValueMut{Node: *n, Set: func(replacement Node) { *n = replacement }})
			}
		}

		rec(n)
	}
}
