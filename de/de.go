// Package de implements the reflect-driven deserializer: it walks a
// [document.Node] tree, peeling Comments/Compact/single-value Fragments at
// each step via [document.AsValue], and populates an arbitrary Go value.
package de

import (
	"fmt"
	"reflect"
	"strings"

	"go.istra.dev/annotate/document"
	"go.istra.dev/annotate/partial"
)

// Unmarshal populates v, which must be a non-nil pointer, from doc.
func Unmarshal(doc document.Node, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("de: Unmarshal target must be a non-nil pointer, got %T", v)
	}

	return unmarshalValue(doc, rv.Elem(), "")
}

func catpath(path, name string) string {
	if path == "" {
		return name
	}

	return path + "." + name
}

func unmarshalValue(n document.Node, rv reflect.Value, path string) error {
	if rv.Type() == reflect.TypeOf((*document.Node)(nil)).Elem() {
		val, err := document.AsValue(n)
		if err != nil {
			return fmt.Errorf("de: %s: %w", path, err)
		}

		rv.Set(reflect.ValueOf(val))

		return nil
	}

	if rv.Type() == reflect.TypeOf(partial.Document{}) {
		val, err := document.AsValue(n)
		if err != nil {
			return fmt.Errorf("de: %s: %w", path, err)
		}

		rv.Set(reflect.ValueOf(partial.Document{Node: val}))

		return nil
	}

	switch rv.Kind() {
	case reflect.Ptr:
		if rv.IsNil() {
			rv.Set(reflect.New(rv.Type().Elem()))
		}

		return unmarshalValue(n, rv.Elem(), path)

	case reflect.Interface:
		if rv.NumMethod() == 0 {
			val, err := document.AsValue(n)
			if err != nil {
				return err
			}

			rv.Set(reflect.ValueOf(nativeValue(val)))

			return nil
		}

		return fmt.Errorf("de: %s: cannot decode into non-empty interface %s", path, rv.Type())

	case reflect.Bool:
		b, err := document.AsBool(n)
		if err != nil {
			return wrapPath(path, err)
		}

		rv.SetBool(b)

		return nil

	case reflect.String:
		s, err := document.AsStr(n)
		if err != nil {
			return wrapPath(path, err)
		}

		rv.SetString(s)

		return nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := document.AsInt64(n)
		if err != nil {
			return wrapPath(path, err)
		}

		rv.SetInt(i)

		return nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u, err := document.AsUint64(n)
		if err != nil {
			return wrapPath(path, err)
		}

		rv.SetUint(u)

		return nil

	case reflect.Float32, reflect.Float64:
		f, err := document.AsFloat64(n)
		if err != nil {
			return wrapPath(path, err)
		}

		rv.SetFloat(f)

		return nil

	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			b, err := document.AsBytes(n)
			if err != nil {
				return wrapPath(path, err)
			}

			rv.SetBytes(b)

			return nil
		}

		return unmarshalSequence(n, rv, path)

	case reflect.Array:
		return unmarshalArray(n, rv, path)

	case reflect.Map:
		return unmarshalMap(n, rv, path)

	case reflect.Struct:
		return unmarshalStruct(n, rv, path)

	default:
		return fmt.Errorf("de: %s: unsupported kind %s", path, rv.Kind())
	}
}

func wrapPath(path string, err error) error {
	return fmt.Errorf("de: %s: %w", path, err)
}

// nativeValue converts a peeled Document scalar into the Go native type an
// `any`-typed field should hold.
func nativeValue(n document.Node) any {
	switch v := n.(type) {
	case document.Null:
		return nil
	case document.Bool:
		return bool(v)
	case document.Int:
		return v.Value.ToInt64()
	case document.Float:
		return float64(v)
	case document.Str:
		return v.Text
	case document.Bytes:
		return []byte(v)
	case document.Sequence:
		out := make([]any, 0, len(v))

		for _, e := range v {
			if !document.HasValue(e) {
				continue
			}

			val, err := document.AsValue(e)
			if err != nil {
				continue
			}

			out = append(out, nativeValue(val))
		}

		return out
	case document.Mapping:
		out := make(map[string]any, len(v))

		for _, f := range v {
			key, val, err := document.AsKV(f)
			if err != nil {
				continue
			}

			k, err := document.AsStr(key)
			if err != nil {
				continue
			}

			resolved, err := document.AsValue(val)
			if err != nil {
				continue
			}

			out[k] = nativeValue(resolved)
		}

		return out
	default:
		return n
	}
}

func valueChildren(n document.Node) ([]document.Node, error) {
	seq, err := document.AsValue(n)
	if err != nil {
		return nil, err
	}

	s, ok := seq.(document.Sequence)
	if !ok {
		return nil, fmt.Errorf("de: expected Sequence, found %s", seq.Variant())
	}

	out := make([]document.Node, 0, len(s))

	for _, e := range s {
		if document.HasValue(e) {
			out = append(out, e)
		}
	}

	return out, nil
}

func unmarshalSequence(n document.Node, rv reflect.Value, path string) error {
	items, err := valueChildren(n)
	if err != nil {
		return wrapPath(path, err)
	}

	out := reflect.MakeSlice(rv.Type(), len(items), len(items))

	for i, item := range items {
		if err := unmarshalValue(item, out.Index(i), fmt.Sprintf("%s[%d]", path, i)); err != nil {
			return err
		}
	}

	rv.Set(out)

	return nil
}

func unmarshalArray(n document.Node, rv reflect.Value, path string) error {
	items, err := valueChildren(n)
	if err != nil {
		return wrapPath(path, err)
	}

	if len(items) != rv.Len() {
		return fmt.Errorf("de: %s: expected %d elements, found %d", path, rv.Len(), len(items))
	}

	for i, item := range items {
		if err := unmarshalValue(item, rv.Index(i), fmt.Sprintf("%s[%d]", path, i)); err != nil {
			return err
		}
	}

	return nil
}

func mappingChildren(n document.Node) (document.Mapping, error) {
	val, err := document.AsValue(n)
	if err != nil {
		return nil, err
	}

	m, ok := val.(document.Mapping)
	if !ok {
		return nil, fmt.Errorf("de: expected Mapping, found %s", val.Variant())
	}

	return m, nil
}

func unmarshalMap(n document.Node, rv reflect.Value, path string) error {
	m, err := mappingChildren(n)
	if err != nil {
		return wrapPath(path, err)
	}

	out := reflect.MakeMapWithSize(rv.Type(), len(m))
	keyType := rv.Type().Key()
	elemType := rv.Type().Elem()

	for _, frag := range m {
		if !document.HasValue(frag) {
			continue
		}

		keyDoc, valDoc, err := document.AsKV(frag)
		if err != nil {
			return wrapPath(path, err)
		}

		keyVal := reflect.New(keyType).Elem()
		if err := unmarshalValue(keyDoc, keyVal, catpath(path, "<key>")); err != nil {
			return err
		}

		elemVal := reflect.New(elemType).Elem()
		if err := unmarshalValue(valDoc, elemVal, catpath(path, fmt.Sprint(keyVal.Interface()))); err != nil {
			return err
		}

		out.SetMapIndex(keyVal, elemVal)
	}

	rv.Set(out)

	return nil
}

func fieldNameFor(sf reflect.StructField) (name string, skip, omitEmpty bool) {
	name = sf.Name

	tag, ok := sf.Tag.Lookup("annotate")
	if !ok {
		return name, false, false
	}

	parts := strings.Split(tag, ",")
	if parts[0] == "-" {
		return name, true, false
	}

	if parts[0] != "" {
		name = parts[0]
	}

	for _, opt := range parts[1:] {
		if opt == "omitempty" {
			omitEmpty = true
		}
	}

	return name, false, omitEmpty
}

// variant mirrors [ser.Variant] structurally: any type implementing one
// automatically implements the other, so de can recognize enum-variant
// targets without importing ser.
type variant interface {
	VariantName() string
}

// variantOf reports whether rv's value (or, if addressable, its address)
// implements variant, the Go substitute for a Rust enum.
func variantOf(rv reflect.Value) (variant, bool) {
	if rv.CanInterface() {
		if v, ok := rv.Interface().(variant); ok {
			return v, true
		}
	}

	if rv.CanAddr() {
		if v, ok := rv.Addr().Interface().(variant); ok {
			return v, true
		}
	}

	return nil, false
}

// hasTupleTag mirrors ser's helper of the same name: every exported field
// must carry `annotate:"...,tuple"` for a variant to decode as a Sequence
// instead of a Mapping.
func hasTupleTag(rt reflect.Type, exported []int) bool {
	for _, i := range exported {
		if !strings.Contains(rt.Field(i).Tag.Get("annotate"), "tuple") {
			return false
		}
	}

	return true
}

// unmarshalStruct implements spec §4.6's struct/enum contract: a
// [variant]-implementing target decodes per unmarshalVariant; an ordinary
// struct decodes as a Mapping, by field name.
func unmarshalStruct(n document.Node, rv reflect.Value, path string) error {
	if v, ok := variantOf(rv); ok {
		return unmarshalVariant(n, rv, v, path)
	}

	return unmarshalStructFields(n, rv, path)
}

// unmarshalVariant is marshalVariant's inverse: a bare String populates a
// unit variant (leaving all fields zero); a single-entry Mapping's sole
// value populates a newtype variant's one field, a Sequence under a tuple-
// tagged variant, or a Mapping under a struct variant, by field name.
func unmarshalVariant(n document.Node, rv reflect.Value, v variant, path string) error {
	val, err := document.AsValue(n)
	if err != nil {
		return wrapPath(path, err)
	}

	if s, ok := val.(document.Str); ok {
		return unmarshalUnitVariant(s.Text, rv, path)
	}

	m, ok := val.(document.Mapping)
	if !ok || len(m) != 1 {
		return fmt.Errorf("de: %s: expected String or single-entry Mapping for variant %s, found %s",
			path, v.VariantName(), val.Variant())
	}

	_, inner, err := document.AsKV(m[0])
	if err != nil {
		return wrapPath(path, err)
	}

	rt := rv.Type()

	var exported []int

	for i := 0; i < rv.NumField(); i++ {
		if rt.Field(i).PkgPath == "" {
			exported = append(exported, i)
		}
	}

	variantPath := catpath(path, v.VariantName())

	switch {
	case len(exported) == 1:
		return unmarshalValue(inner, rv.Field(exported[0]), variantPath)

	case hasTupleTag(rt, exported):
		innerVal, err := document.AsValue(inner)
		if err != nil {
			return wrapPath(variantPath, err)
		}

		seq, ok := innerVal.(document.Sequence)
		if !ok {
			return fmt.Errorf("de: %s: expected Sequence for tuple variant %s, found %s",
				variantPath, v.VariantName(), innerVal.Variant())
		}

		if len(seq) != len(exported) {
			return fmt.Errorf("de: %s: tuple variant %s expects %d elements, found %d",
				variantPath, v.VariantName(), len(exported), len(seq))
		}

		for idx, fi := range exported {
			if err := unmarshalValue(seq[idx], rv.Field(fi), fmt.Sprintf("%s[%d]", variantPath, idx)); err != nil {
				return err
			}
		}

		return nil

	default:
		return unmarshalStructFields(inner, rv, variantPath)
	}
}

// unmarshalStructFields is the plain struct-to-Mapping walk, shared by
// unmarshalStruct (for non-variant types) and unmarshalVariant (for a
// struct-variant's inner fields).
func unmarshalStructFields(n document.Node, rv reflect.Value, path string) error {
	val, err := document.AsValue(n)
	if err != nil {
		return wrapPath(path, err)
	}

	// A zero-field struct accepts a bare String too: ser never produces one
	// (an empty struct always marshals to an empty Mapping), but a hand-
	// written document using a unit-variant-shaped String to mean "nothing
	// here" is harmless to decode leniently.
	if s, ok := val.(document.Str); ok && rv.NumField() == 0 {
		return unmarshalUnitVariant(s.Text, rv, path)
	}

	m, ok := val.(document.Mapping)
	if !ok {
		return fmt.Errorf("de: %s: expected Mapping, found %s", path, val.Variant())
	}

	byName := make(map[string]document.Node, len(m))

	for _, frag := range m {
		if !document.HasValue(frag) {
			continue
		}

		keyDoc, valDoc, err := document.AsKV(frag)
		if err != nil {
			return wrapPath(path, err)
		}

		key, err := document.AsStr(keyDoc)
		if err != nil {
			return wrapPath(path, err)
		}

		byName[key] = valDoc
	}

	rt := rv.Type()

	for i := 0; i < rv.NumField(); i++ {
		sf := rt.Field(i)
		if sf.PkgPath != "" {
			continue
		}

		name, skip, _ := fieldNameFor(sf)
		if skip {
			continue
		}

		fieldDoc, ok := byName[name]
		if !ok {
			continue
		}

		if err := unmarshalValue(fieldDoc, rv.Field(i), catpath(path, name)); err != nil {
			return err
		}
	}

	return nil
}

// unmarshalUnitVariant handles a Document String peeled for a struct target:
// per spec's enum contract a bare string names a unit variant. If rv's
// type has no fields there is nothing further to populate; a non-empty
// struct receiving a bare string is a shape mismatch.
func unmarshalUnitVariant(name string, rv reflect.Value, path string) error {
	if rv.NumField() != 0 {
		return fmt.Errorf("de: %s: unit variant %q cannot populate non-empty struct %s", path, name, rv.Type())
	}

	return nil
}
