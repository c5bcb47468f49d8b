package de_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.istra.dev/annotate/de"
	"go.istra.dev/annotate/document"
	"go.istra.dev/annotate/integer"
	"go.istra.dev/annotate/ser"
)

func intVal(v int64) integer.Integer {
	return integer.FromInt(v, 64, integer.Dec)
}

func TestUnmarshalScalars(t *testing.T) {
	t.Parallel()

	var b bool

	require.NoError(t, de.Unmarshal(document.Bool(true), &b))
	assert.True(t, b)

	var s string

	require.NoError(t, de.Unmarshal(document.Str{Text: "hi"}, &s))
	assert.Equal(t, "hi", s)

	var f float64

	require.NoError(t, de.Unmarshal(document.Float(2.5), &f))
	assert.InDelta(t, 2.5, f, 1e-9)
}

func TestUnmarshalStruct(t *testing.T) {
	t.Parallel()

	type Inner struct {
		Name string
	}

	type Outer struct {
		ID    int   `annotate:"id"`
		Inner Inner `annotate:"inner"`
	}

	doc := document.Mapping{
		document.Fragment{document.Str{Text: "id"}, document.Int{Value: intVal(7)}},
		document.Fragment{
			document.Str{Text: "inner"},
			document.Mapping{
				document.Fragment{document.Str{Text: "Name"}, document.Str{Text: "x"}},
			},
		},
	}

	var out Outer

	require.NoError(t, de.Unmarshal(doc, &out))
	assert.Equal(t, 7, out.ID)
	assert.Equal(t, "x", out.Inner.Name)
}

func TestUnmarshalSequence(t *testing.T) {
	t.Parallel()

	doc := document.Sequence{document.Int{Value: intVal(1)}, document.Int{Value: intVal(2)}}

	var out []int

	require.NoError(t, de.Unmarshal(doc, &out))
	assert.Equal(t, []int{1, 2}, out)
}

func TestUnmarshalMap(t *testing.T) {
	t.Parallel()

	doc := document.Mapping{
		document.Fragment{document.Str{Text: "a"}, document.Int{Value: intVal(1)}},
		document.Fragment{document.Str{Text: "b"}, document.Int{Value: intVal(2)}},
	}

	var out map[string]int

	require.NoError(t, de.Unmarshal(doc, &out))
	assert.Equal(t, map[string]int{"a": 1, "b": 2}, out)
}

func TestUnmarshalDocumentPassthrough(t *testing.T) {
	t.Parallel()

	type Holder struct {
		Raw document.Node `annotate:"raw"`
	}

	doc := document.Mapping{
		document.Fragment{
			document.Str{Text: "raw"},
			document.Sequence{document.Int{Value: intVal(9)}},
		},
	}

	var out Holder

	require.NoError(t, de.Unmarshal(doc, &out))

	seq, ok := out.Raw.(document.Sequence)
	require.True(t, ok)
	require.Len(t, seq, 1)
}

func TestUnmarshalUnitVariant(t *testing.T) {
	t.Parallel()

	type Empty struct{}

	var out Empty

	require.NoError(t, de.Unmarshal(document.Str{Text: "Unit"}, &out))
}

type rgbVariant struct {
	R, G, B int `annotate:",tuple"`
}

func (rgbVariant) VariantName() string { return "RGB" }

type hexVariant struct {
	Code string
}

func (hexVariant) VariantName() string { return "Hex" }

type offVariant struct{}

func (offVariant) VariantName() string { return "Off" }

func TestUnmarshalNewtypeVariantRoundTrip(t *testing.T) {
	t.Parallel()

	doc, err := ser.Marshal(hexVariant{Code: "#fff"})
	require.NoError(t, err)

	var out hexVariant

	require.NoError(t, de.Unmarshal(doc, &out))
	assert.Equal(t, hexVariant{Code: "#fff"}, out)
}

func TestUnmarshalTupleVariantRoundTrip(t *testing.T) {
	t.Parallel()

	doc, err := ser.Marshal(rgbVariant{R: 1, G: 2, B: 3})
	require.NoError(t, err)

	var out rgbVariant

	require.NoError(t, de.Unmarshal(doc, &out))
	assert.Equal(t, rgbVariant{R: 1, G: 2, B: 3}, out)
}

func TestUnmarshalUnitVariantRoundTrip(t *testing.T) {
	t.Parallel()

	doc, err := ser.Marshal(offVariant{})
	require.NoError(t, err)

	var out offVariant

	require.NoError(t, de.Unmarshal(doc, &out))
	assert.Equal(t, offVariant{}, out)
}

type multiFieldVariant struct {
	Name string
	Age  int
}

func (multiFieldVariant) VariantName() string { return "Person" }

func TestUnmarshalStructVariantRoundTrip(t *testing.T) {
	t.Parallel()

	doc, err := ser.Marshal(multiFieldVariant{Name: "Ada", Age: 30})
	require.NoError(t, err)

	var out multiFieldVariant

	require.NoError(t, de.Unmarshal(doc, &out))
	assert.Equal(t, multiFieldVariant{Name: "Ada", Age: 30}, out)
}
