// Package ser implements the reflect-driven serializer: it walks an
// arbitrary Go value and produces a [document.Node] tree, consulting an
// [annotator.Annotator] for each struct field's preferred base, string
// style, and attached comment.
package ser

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"go.istra.dev/annotate/annotator"
	"go.istra.dev/annotate/bytesfmt"
	"go.istra.dev/annotate/document"
	"go.istra.dev/annotate/integer"
	"go.istra.dev/annotate/partial"
)

// Variant is implemented by enum-like types: a closed set of concrete
// values identified by name, the idiomatic Go substitute for a Rust enum
// with data-carrying variants.
type Variant interface {
	VariantName() string
}

// Frame is the mutable per-recursion presentation state threaded through
// Marshal. Each descent into a struct/array field clones the frame and
// overlays it with the annotation resolved for that field.
type Frame struct {
	Annotator   annotator.Annotator
	Base        integer.Base
	StrFormat   document.StrFormat
	BytesFormat document.BytesFormat
	Compact     bool
}

// lookupAnnotator resolves v's Annotator: a direct implementation on v's
// own type takes priority (the Go analogue of a Rust type implementing
// the Annotate trait itself), falling back to the process-wide registry
// for types that can't carry their own methods.
func lookupAnnotator(v any) (annotator.Annotator, bool) {
	if ann, ok := annotator.AsAnnotator(v); ok {
		return ann, true
	}

	return annotator.Default.Lookup(v)
}

func topFrame(v any) Frame {
	frame := Frame{
		Base:        integer.Dec,
		StrFormat:   document.StrStandard,
		BytesFormat: document.BytesStandard,
	}

	if ann, ok := lookupAnnotator(v); ok {
		frame.Annotator = ann
	}

	return frame
}

// withFormat applies an [annotator.Format] to a clone of frame, per
// spec's scalar-effects-of-format table.
func (f Frame) withFormat(format annotator.Format) Frame {
	out := f

	switch format {
	case annotator.Binary:
		out.Base = integer.Bin
	case annotator.Decimal:
		out.Base = integer.Dec
	case annotator.Hex:
		out.Base = integer.Hex
	case annotator.Octal:
		out.Base = integer.Oct
	case annotator.Block:
		out.StrFormat = document.StrMultiline
	case annotator.Compact:
		out.Compact = true
	case annotator.HexStr:
		out.BytesFormat = document.BytesHexStr
	case annotator.Hexdump:
		out.BytesFormat = document.BytesHexdump
	case annotator.Xxd:
		out.BytesFormat = document.BytesXxd
	}

	return out
}

// Marshal walks v by reflection and returns its Document representation.
func Marshal(v any) (document.Node, error) {
	return marshalValue(reflect.ValueOf(v), topFrame(v), "")
}

func indirect(rv reflect.Value) reflect.Value {
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return rv
		}

		rv = rv.Elem()
	}

	return rv
}

func catpath(path, name string) string {
	if path == "" {
		return name
	}

	return path + "." + name
}

func marshalValue(rv reflect.Value, frame Frame, path string) (document.Node, error) {
	if !rv.IsValid() {
		return document.Null{}, nil
	}

	rv = indirect(rv)

	if !rv.IsValid() {
		return document.Null{}, nil
	}

	if d, ok := rv.Interface().(document.Node); ok {
		return d, nil
	}

	if p, ok := rv.Interface().(partial.Document); ok {
		if p.Node == nil {
			return document.Null{}, nil
		}

		return p.Node, nil
	}

	switch rv.Kind() {
	case reflect.Bool:
		return document.Bool(rv.Bool()), nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		width := bitWidthOf(rv.Kind())

		return document.Int{Value: integer.FromIntWidth(rv.Int(), width, frame.Base, 0)}, nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		width := bitWidthOf(rv.Kind())

		return document.Int{Value: integer.FromUintWidth(rv.Uint(), width, frame.Base, 0)}, nil

	case reflect.Float32, reflect.Float64:
		return document.Float(rv.Float()), nil

	case reflect.String:
		return document.Str{Text: rv.String(), Format: frame.StrFormat}, nil

	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return marshalBytes(rv.Bytes(), frame)
		}

		return marshalSequence(rv, frame, path)

	case reflect.Map:
		return marshalMap(rv, frame, path)

	case reflect.Struct:
		return marshalStruct(rv, frame, path)

	default:
		return nil, fmt.Errorf("ser: %s: unsupported kind %s", path, rv.Kind())
	}
}

func bitWidthOf(k reflect.Kind) int {
	switch k {
	case reflect.Int8, reflect.Uint8:
		return 8
	case reflect.Int16, reflect.Uint16:
		return 16
	case reflect.Int32, reflect.Uint32:
		return 32
	default:
		return 64
	}
}

func marshalBytes(b []byte, frame Frame) (document.Node, error) {
	switch frame.BytesFormat {
	case document.BytesHexStr:
		s, _ := bytesfmt.Encode(b, bytesfmt.HexStr)

		return document.Str{Text: s, Format: document.StrStandard}, nil
	case document.BytesHexdump:
		s, _ := bytesfmt.Encode(b, bytesfmt.Hexdump)

		return document.Str{Text: s, Format: document.StrMultiline}, nil
	case document.BytesXxd:
		s, _ := bytesfmt.Encode(b, bytesfmt.Xxd)

		return document.Str{Text: s, Format: document.StrMultiline}, nil
	default:
		return document.Bytes(append([]byte(nil), b...)), nil
	}
}

func wrapCompact(v document.Node, compact bool) document.Node {
	if compact {
		return document.Compact{Node: v}
	}

	return v
}

func marshalSequence(rv reflect.Value, frame Frame, path string) (document.Node, error) {
	out := make(document.Sequence, 0, rv.Len())

	for i := 0; i < rv.Len(); i++ {
		elemFrame := frame
		elemFrame.Compact = false

		v, err := marshalValue(rv.Index(i), elemFrame, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}

		out = append(out, wrapCompact(v, frame.Compact))
	}

	return out, nil
}

func marshalMap(rv reflect.Value, frame Frame, path string) (document.Node, error) {
	out := make(document.Mapping, 0, rv.Len())

	for _, key := range rv.MapKeys() {
		keyFrame := frame
		keyFrame.Compact = false

		kDoc, err := marshalValue(key, keyFrame, catpath(path, "<key>"))
		if err != nil {
			return nil, err
		}

		vDoc, err := marshalValue(rv.MapIndex(key), keyFrame, catpath(path, fmt.Sprint(key.Interface())))
		if err != nil {
			return nil, err
		}

		out = append(out, document.Fragment{kDoc, wrapCompact(vDoc, frame.Compact)})
	}

	return out, nil
}

type fieldTag struct {
	name      string
	omitEmpty bool
	skip      bool
}

func parseFieldTag(sf reflect.StructField) fieldTag {
	ft := fieldTag{name: sf.Name}

	tag, ok := sf.Tag.Lookup("annotate")
	if !ok {
		return ft
	}

	parts := strings.Split(tag, ",")
	if parts[0] == "-" {
		ft.skip = true

		return ft
	}

	if parts[0] != "" {
		ft.name = parts[0]
	}

	for _, opt := range parts[1:] {
		if opt == "omitempty" {
			ft.omitEmpty = true
		}
	}

	return ft
}

func isEmptyValue(rv reflect.Value) bool {
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array, reflect.String:
		return rv.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return rv.IsNil()
	case reflect.Bool:
		return !rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() == 0
	default:
		return false
	}
}

// marshalStruct implements the per-field protocol of spec §4.5: for each
// field, resolve its Member identity, query the annotator for a format
// override and an optional comment, recurse with the overlaid frame, and
// assemble [comment?, key, value] into the enclosing Mapping.
func marshalStruct(rv reflect.Value, frame Frame, path string) (document.Node, error) {
	if variant, ok := rv.Interface().(Variant); ok {
		return marshalVariant(rv, variant, frame, path)
	}

	return marshalStructFields(rv, frame, path)
}

// marshalStructFields is the plain struct-to-Mapping walk for a top-level
// (non-variant) struct.
func marshalStructFields(rv reflect.Value, frame Frame, path string) (document.Node, error) {
	return marshalStructFieldsVariant(rv, "", frame, path)
}

// marshalStructFieldsVariant is the struct-to-Mapping walk shared by
// marshalStruct (for non-variant types, variantName "") and marshalVariant
// (for a struct-variant's inner fields, variantName the active variant).
// Threading variantName through lets every Format/Comment query form the
// Member spec.md:132 describes: variant_name_or_none is the active enum
// variant when the fields being walked belong to one.
func marshalStructFieldsVariant(rv reflect.Value, variantName string, frame Frame, path string) (document.Node, error) {
	rt := rv.Type()
	out := make(document.Mapping, 0, rv.NumField())

	for i := 0; i < rv.NumField(); i++ {
		sf := rt.Field(i)
		if sf.PkgPath != "" {
			continue
		}

		tag := parseFieldTag(sf)
		if tag.skip {
			continue
		}

		fv := rv.Field(i)
		if tag.omitEmpty && isEmptyValue(fv) {
			continue
		}

		member := annotator.NameMember(variantName, tag.name)
		fieldFrame := frame
		fieldFrame.Compact = false

		if frame.Annotator != nil {
			if format, ok := frame.Annotator.Format(member); ok {
				fieldFrame = frame.withFormat(format)
			}
		}

		if ann, ok := lookupAnnotator(fv.Interface()); ok {
			fieldFrame.Annotator = ann
		} else {
			fieldFrame.Annotator = nil
		}

		val, err := marshalValue(fv, fieldFrame, catpath(path, tag.name))
		if err != nil {
			return nil, err
		}

		val = wrapCompact(val, fieldFrame.Compact)

		frag := document.Fragment{document.Str{Text: tag.name, Format: document.StrStandard}, val}

		if frame.Annotator != nil {
			if comment, ok := frame.Annotator.Comment(member); ok {
				frag = append(document.Fragment{document.Comment{Text: comment}}, frag...)
			}
		}

		out = append(out, frag)
	}

	return out, nil
}

// marshalTupleFields renders a tuple-variant's exported fields as a
// Sequence, applying the same per-field protocol as
// marshalStructFieldsVariant: each element forms an IndexMember scoped to
// variantName, queries Format/Comment against the enclosing annotator, and
// wraps a per-element comment as a bare-value Fragment (the convention
// jsonfmt/yamlfmt's emitSequence already renders).
func marshalTupleFields(
	rv reflect.Value, exported []int, variantName string, frame, fieldFrame Frame, path string,
) (document.Node, error) {
	values := make(document.Sequence, 0, len(exported))

	for elemIdx, i := range exported {
		member := annotator.IndexMember(variantName, elemIdx)

		elemFrame := fieldFrame
		elemFrame.Compact = false

		if frame.Annotator != nil {
			if format, ok := frame.Annotator.Format(member); ok {
				elemFrame = fieldFrame.withFormat(format)
			}
		}

		fv := rv.Field(i)
		if ann, ok := lookupAnnotator(fv.Interface()); ok {
			elemFrame.Annotator = ann
		} else {
			elemFrame.Annotator = nil
		}

		val, err := marshalValue(fv, elemFrame, catpath(path, strconv.Itoa(elemIdx)))
		if err != nil {
			return nil, err
		}

		val = wrapCompact(val, elemFrame.Compact)

		if frame.Annotator != nil {
			if comment, ok := frame.Annotator.Comment(member); ok {
				val = document.Fragment{document.Comment{Text: comment}, val}
			}
		}

		values = append(values, val)
	}

	return values, nil
}

// variantOverlay resolves the Format/Comment the enclosing annotator
// attaches to the variant as a whole (spec.md:130-132's Member.Variant:
// "what Format/Comment applies to the variant as a whole", e.g. whether to
// Compact-wrap a whole NesAddress::Prg(...) or attach it a comment),
// overlaid on top of whatever Compact flag was already inherited from an
// enclosing struct field's per-member query.
func variantOverlay(frame Frame, name string) (compact bool, comment string, hasComment bool) {
	compact = frame.Compact

	if frame.Annotator == nil {
		return compact, "", false
	}

	member := annotator.VariantMember(name)

	if format, ok := frame.Annotator.Format(member); ok && format == annotator.Compact {
		compact = true
	}

	comment, hasComment = frame.Annotator.Comment(member)

	return compact, comment, hasComment
}

// marshalVariant implements spec §4.5's enum-variant rules: a unit variant
// (zero fields) becomes a bare string; a single-field variant is a newtype;
// multiple fields become a one-entry Mapping keying a Sequence or Mapping.
// The variant's own Format/Comment (Member.IsVariant) is resolved once via
// variantOverlay and applies to the whole variant, not just its fields: the
// Compact decision folds into the same wrapCompact call an enclosing
// struct field's overlay would have used, and a variant comment is folded
// into the entry's own Fragment alongside its key and value, the same slot
// a per-field comment occupies (and the same Fragment shape jsonfmt/
// yamlfmt's emitMapping already knows how to render a leading comment
// out of).
func marshalVariant(rv reflect.Value, variant Variant, frame Frame, path string) (document.Node, error) {
	name := variant.VariantName()

	compact, comment, hasComment := variantOverlay(frame, name)

	buildEntry := func(value document.Node) document.Node {
		frag := document.Fragment{document.Str{Text: name, Format: document.StrStandard}, value}
		if hasComment {
			frag = append(document.Fragment{document.Comment{Text: comment}}, frag...)
		}

		return document.Mapping{frag}
	}

	rt := rv.Type()

	var exported []int

	for i := 0; i < rv.NumField(); i++ {
		if rt.Field(i).PkgPath == "" {
			exported = append(exported, i)
		}
	}

	if len(exported) == 0 {
		unit := document.Str{Text: name, Format: document.StrStandard}
		if hasComment {
			return document.Fragment{document.Comment{Text: comment}, unit}, nil
		}

		return unit, nil
	}

	fieldFrame := frame
	fieldFrame.Compact = false

	if len(exported) == 1 {
		val, err := marshalValue(rv.Field(exported[0]), fieldFrame, catpath(path, name))
		if err != nil {
			return nil, err
		}

		return buildEntry(wrapCompact(val, compact)), nil
	}

	// A tuple variant (Rust's Foo(A, B)) has no positional-field Go
	// equivalent, so a struct opts into Sequence rendering by tagging
	// every field `annotate:"...,tuple"`; otherwise it renders as a
	// struct-variant Mapping.
	if hasTupleTag(rt, exported) {
		values, err := marshalTupleFields(rv, exported, name, frame, fieldFrame, catpath(path, name))
		if err != nil {
			return nil, err
		}

		return buildEntry(wrapCompact(values, compact)), nil
	}

	inner, err := marshalStructFieldsVariant(rv, name, fieldFrame, catpath(path, name))
	if err != nil {
		return nil, err
	}

	return buildEntry(wrapCompact(inner, compact)), nil
}

// hasTupleTag reports whether every exported field of a variant struct is
// tagged `annotate:"tuple"`, the marker this package uses to request
// Sequence (tuple-variant) rendering instead of Mapping (struct-variant).
func hasTupleTag(rt reflect.Type, exported []int) bool {
	for _, i := range exported {
		if !strings.Contains(rt.Field(i).Tag.Get("annotate"), "tuple") {
			return false
		}
	}

	return true
}
