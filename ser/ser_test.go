package ser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.istra.dev/annotate/annotator"
	"go.istra.dev/annotate/document"
	"go.istra.dev/annotate/jsonfmt"
	"go.istra.dev/annotate/ser"
)

func TestMarshalScalars(t *testing.T) {
	t.Parallel()

	doc, err := ser.Marshal(true)
	require.NoError(t, err)
	assert.Equal(t, document.Bool(true), doc)

	doc, err = ser.Marshal("hello")
	require.NoError(t, err)
	assert.Equal(t, document.Str{Text: "hello", Format: document.StrStandard}, doc)

	doc, err = ser.Marshal(3.5)
	require.NoError(t, err)
	assert.Equal(t, document.Float(3.5), doc)

	doc, err = ser.Marshal(int32(42))
	require.NoError(t, err)
	i, ok := doc.(document.Int)
	require.True(t, ok)
	assert.EqualValues(t, 42, i.Value.ToInt64())
}

func TestMarshalStruct(t *testing.T) {
	t.Parallel()

	type Inner struct {
		Name string
	}

	type Outer struct {
		ID     int    `annotate:"id"`
		Inner  Inner  `annotate:"inner"`
		Secret string `annotate:"-"`
		Empty  string `annotate:"empty,omitempty"`
	}

	v := Outer{ID: 7, Inner: Inner{Name: "x"}, Secret: "dont-show"}

	doc, err := ser.Marshal(v)
	require.NoError(t, err)

	m, ok := doc.(document.Mapping)
	require.True(t, ok)
	require.Len(t, m, 2)

	key, val, err := document.AsKV(m[0])
	require.NoError(t, err)
	assert.Equal(t, "id", key.(document.Str).Text)

	iv, ok := val.(document.Int)
	require.True(t, ok)
	assert.EqualValues(t, 7, iv.Value.ToInt64())

	_, innerVal, err := document.AsKV(m[1])
	require.NoError(t, err)

	innerMap, ok := innerVal.(document.Mapping)
	require.True(t, ok)
	require.Len(t, innerMap, 1)
}

func TestMarshalSliceAndMap(t *testing.T) {
	t.Parallel()

	doc, err := ser.Marshal([]int{1, 2, 3})
	require.NoError(t, err)

	seq, ok := doc.(document.Sequence)
	require.True(t, ok)
	require.Len(t, seq, 3)
}

func TestMarshalBytesHexStr(t *testing.T) {
	t.Parallel()

	doc, err := ser.Marshal(hexField{Data: []byte{0xDE, 0xAD}})
	require.NoError(t, err)

	m, ok := doc.(document.Mapping)
	require.True(t, ok)
	require.Len(t, m, 1)

	_, val, err := document.AsKV(m[0])
	require.NoError(t, err)

	s, ok := val.(document.Str)
	require.True(t, ok)
	assert.Equal(t, "dead", s.Text)
}

type hexField struct {
	Data []byte `annotate:"data"`
}

func (hexField) Format(member annotator.Member) (annotator.Format, bool) {
	if member.Name == "data" {
		return annotator.HexStr, true
	}

	return 0, false
}

func (hexField) Comment(annotator.Member) (string, bool) {
	return "", false
}

func TestMarshalEnumVariant(t *testing.T) {
	t.Parallel()

	doc, err := ser.Marshal(unitVariant{})
	require.NoError(t, err)
	assert.Equal(t, document.Str{Text: "Unit", Format: document.StrStandard}, doc)

	doc, err = ser.Marshal(newtypeVariant{Value: 5})
	require.NoError(t, err)

	m, ok := doc.(document.Mapping)
	require.True(t, ok)
	require.Len(t, m, 1)

	key, val, err := document.AsKV(m[0])
	require.NoError(t, err)
	assert.Equal(t, "Newtype", key.(document.Str).Text)

	iv, ok := val.(document.Int)
	require.True(t, ok)
	assert.EqualValues(t, 5, iv.Value.ToInt64())
}

type unitVariant struct{}

func (unitVariant) VariantName() string { return "Unit" }

type newtypeVariant struct {
	Value int
}

func (newtypeVariant) VariantName() string { return "Newtype" }

// nesAddress is the tuple-variant stand-in for the Rust original's
// `NesAddress::Prg(bank, address)`: every field tagged `,tuple` renders it
// as a Sequence instead of a struct-variant Mapping, and its own Annotator
// answers both a Member.IsVariant query (whole-variant Compact + comment)
// and per-index Member.IsIndex queries (per-element Hex).
type nesAddress struct {
	Bank    int `annotate:",tuple"`
	Address int `annotate:",tuple"`
}

func (nesAddress) VariantName() string { return "Prg" }

func (nesAddress) Format(member annotator.Member) (annotator.Format, bool) {
	switch {
	case member.IsVariant:
		return annotator.Compact, true
	case member.IsIndex:
		return annotator.Hex, true
	default:
		return 0, false
	}
}

func (nesAddress) Comment(member annotator.Member) (string, bool) {
	if member.IsVariant {
		return "NES PRG bank:address", true
	}

	return "", false
}

func TestMarshalTupleVariantCompactWithVariantComment(t *testing.T) {
	t.Parallel()

	doc, err := ser.Marshal(nesAddress{Bank: 1, Address: 0x8000})
	require.NoError(t, err)

	out, err := jsonfmt.String(doc, jsonfmt.JSON5Dialect())
	require.NoError(t, err)
	assert.Equal(t, "{\n  // NES PRG bank:address\n  Prg: [0x1, 0x8000]\n}", out)
}

// shapeCircle is the struct-variant regression for the Member.Variant
// threading bug: it has two fields, so it renders as a struct-variant
// Mapping (not the single-field newtype shortcut), and its Annotator only
// honors a Format query whose Member.Variant matches this variant's own
// name, so a hardcoded empty variant (as marshalStructFields used to pass
// for every struct-variant) would silently miss the hex override.
type shapeCircle struct {
	Radius int
	Label  string
}

func (shapeCircle) VariantName() string { return "Circle" }

func (shapeCircle) Format(member annotator.Member) (annotator.Format, bool) {
	if member.Name == "Radius" && member.Variant == "Circle" {
		return annotator.Hex, true
	}

	return 0, false
}

func (shapeCircle) Comment(annotator.Member) (string, bool) {
	return "", false
}

func TestMarshalStructVariantFieldsSeeOwnVariantName(t *testing.T) {
	t.Parallel()

	doc, err := ser.Marshal(shapeCircle{Radius: 16, Label: "x"})
	require.NoError(t, err)

	m, ok := doc.(document.Mapping)
	require.True(t, ok)
	require.Len(t, m, 1)

	_, val, err := document.AsKV(m[0])
	require.NoError(t, err)

	inner, ok := val.(document.Mapping)
	require.True(t, ok)
	require.Len(t, inner, 2)

	_, radiusVal, err := document.AsKV(inner[0])
	require.NoError(t, err)

	iv, ok := radiusVal.(document.Int)
	require.True(t, ok)
	assert.Equal(t, "0x10", iv.Value.Format(nil))
}
