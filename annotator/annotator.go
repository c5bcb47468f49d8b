// Package annotator implements the annotation dispatch contract: a way for
// user types to contribute per-field formatting and comments to the
// serializer without the serializer knowing their static types ahead of
// time.
//
// A value participates directly by implementing [Annotator] on itself (the
// common case — the Go substitute for a derive macro, since there is no
// codegen step here: the "derive" path and the "manual impl" path are the
// same path). The [Registry] exists for the remaining case, a value the
// serializer sees only as an opaque `any` whose concrete type cannot
// implement the interface itself (a generated type from another package,
// say); register an uplift function for that type once, at init time.
package annotator

import (
	"fmt"
	"reflect"
	"sync"
)

// Format is a per-field formatting directive an Annotator can request for a
// struct/tuple field, enum member, or whole aggregate.
type Format int

// The nine formatting directives, one set of effects per document kind.
const (
	// Block renders a string in multiline style.
	Block Format = iota
	// Binary renders an integer in base 2.
	Binary
	// Decimal renders an integer in base 10.
	Decimal
	// Hex renders an integer in base 16.
	Hex
	// Octal renders an integer in base 8.
	Octal
	// Compact wraps an aggregate value in a Compact node.
	Compact
	// HexStr renders a bytes value as a continuous hex string.
	HexStr
	// Hexdump renders a bytes value as a hexdump -vC style block.
	Hexdump
	// Xxd renders a bytes value as an xxd -g2 style block.
	Xxd
)

func (f Format) String() string {
	switch f {
	case Block:
		return "Block"
	case Binary:
		return "Binary"
	case Decimal:
		return "Decimal"
	case Hex:
		return "Hex"
	case Octal:
		return "Octal"
	case Compact:
		return "Compact"
	case HexStr:
		return "HexStr"
	case Hexdump:
		return "Hexdump"
	case Xxd:
		return "Xxd"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// Member identifies the field, index, or enum-variant slot a [Format] or
// comment query is being asked about.
//
// Variant carries the active enum variant's name when the query occurs
// inside an enum, and is empty otherwise. Exactly one of Name or IsIndex
// distinguishes a struct/map field query (Name) from a tuple/sequence
// position query (Index); IsVariant marks a query about the enclosing enum
// variant itself, rather than one of its members.
type Member struct {
	Variant   string
	Name      string
	Index     int
	IsIndex   bool
	IsVariant bool
}

// NameMember returns a Member referring to struct field name, scoped to the
// given enum variant (empty if not inside an enum).
func NameMember(variant, name string) Member {
	return Member{Variant: variant, Name: name}
}

// IndexMember returns a Member referring to tuple/sequence position idx,
// scoped to the given enum variant.
func IndexMember(variant string, idx int) Member {
	return Member{Variant: variant, Index: idx, IsIndex: true}
}

// VariantMember returns a Member referring to the enclosing enum variant
// itself, rather than one of its fields.
func VariantMember(variant string) Member {
	return Member{Variant: variant, IsVariant: true}
}

// Annotator lets a value contribute per-field/per-variant formatting and
// comments to the serializer.
//
// Format reports the overlay format to apply to member, if any. Comment
// reports an optional comment string to attach ahead of member in the
// enclosing aggregate.
type Annotator interface {
	Format(member Member) (Format, bool)
	Comment(member Member) (string, bool)
}

// AsAnnotator reports whether v implements Annotator directly, returning it
// when so. This is the fast path the serializer tries before consulting the
// [Registry]: most user types implement the interface themselves, the way
// spec.md's `as_annotate()` distinguishes "has user annotations" from
// "some value we know nothing about".
func AsAnnotator(v any) (Annotator, bool) {
	a, ok := v.(Annotator)
	return a, ok
}

// UpliftFunc turns an opaque value of some registered concrete type into an
// Annotator. It is called with the same value the registry was keyed by —
// typically a pointer, so the uplift can attach per-instance state if
// needed.
type UpliftFunc func(v any) Annotator

// Registry is a process-wide, type-keyed table of uplift functions for
// values that cannot implement [Annotator] on their own concrete type.
//
// The zero value is ready to use. Register entries with [Registry.Register]
// before the first call to [Registry.Lookup]; population is internally
// synchronized via [sync.Once] so concurrent first use from multiple
// goroutines is safe, and a duplicate type key detected during that first
// build is a fatal configuration error (the table is poisoned by design —
// silently picking one of two conflicting registrations would hide a bug).
type Registry struct {
	once    sync.Once
	mu      sync.Mutex
	byType  map[reflect.Type]UpliftFunc
	pending []registration
}

type registration struct {
	typ  reflect.Type
	upfn UpliftFunc
}

// Register records an uplift function for typ, to be installed the first
// time the registry is queried. Safe to call from an init function.
//
// Register does not itself detect duplicates — that check happens once, at
// first build, against every registration made before that point — so
// registering the same type twice is not an error until something actually
// looks it up.
func (r *Registry) Register(typ reflect.Type, upfn UpliftFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.pending = append(r.pending, registration{typ: typ, upfn: upfn})
}

func (r *Registry) build() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byType = make(map[reflect.Type]UpliftFunc, len(r.pending))

	for _, reg := range r.pending {
		if _, dup := r.byType[reg.typ]; dup {
			panic(fmt.Sprintf("annotator: duplicate registration for type %s", reg.typ))
		}

		r.byType[reg.typ] = reg.upfn
	}
}

// Lookup resolves v's concrete type to a registered [UpliftFunc] and calls
// it, returning the resulting Annotator. ok is false when no uplift is
// registered for v's type.
//
// The table is built from every pending [Registry.Register] call on the
// first invocation of Lookup and is read-only thereafter.
func (r *Registry) Lookup(v any) (Annotator, bool) {
	r.once.Do(r.build)

	typ := reflect.TypeOf(v)
	if typ == nil {
		return nil, false
	}

	upfn, ok := r.byType[typ]
	if !ok {
		return nil, false
	}

	return upfn(v), true
}

// Default is the process-wide registry consulted by ser/de when a value
// does not implement [Annotator] directly.
var Default = &Registry{}
