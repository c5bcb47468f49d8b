package annotator_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.istra.dev/annotate/annotator"
)

type hexField struct {
	Value int
}

func (h hexField) Format(member annotator.Member) (annotator.Format, bool) {
	if member.Name == "Value" {
		return annotator.Hex, true
	}

	return 0, false
}

func (h hexField) Comment(member annotator.Member) (string, bool) {
	if member.Name == "Value" {
		return "rendered in hex", true
	}

	return "", false
}

func TestAsAnnotator(t *testing.T) {
	t.Parallel()

	a, ok := annotator.AsAnnotator(hexField{Value: 10})
	require.True(t, ok)

	f, ok := a.Format(annotator.NameMember("", "Value"))
	require.True(t, ok)
	assert.Equal(t, annotator.Hex, f)

	_, ok = annotator.AsAnnotator(42)
	assert.False(t, ok)
}

type opaqueThing struct {
	N int
}

type opaqueAnnotator struct {
	t *opaqueThing
}

func (o opaqueAnnotator) Format(member annotator.Member) (annotator.Format, bool) {
	return annotator.Decimal, true
}

func (o opaqueAnnotator) Comment(member annotator.Member) (string, bool) {
	return "", false
}

func TestRegistryLookup(t *testing.T) {
	t.Parallel()

	reg := &annotator.Registry{}
	reg.Register(reflect.TypeOf(&opaqueThing{}), func(v any) annotator.Annotator {
		return opaqueAnnotator{t: v.(*opaqueThing)}
	})

	v := &opaqueThing{N: 3}

	a, ok := reg.Lookup(v)
	require.True(t, ok)

	f, ok := a.Format(annotator.Member{})
	require.True(t, ok)
	assert.Equal(t, annotator.Decimal, f)

	_, ok = reg.Lookup(42)
	assert.False(t, ok)
}

func TestRegistryDuplicatePanics(t *testing.T) {
	t.Parallel()

	reg := &annotator.Registry{}
	typ := reflect.TypeOf(&opaqueThing{})
	reg.Register(typ, func(v any) annotator.Annotator { return opaqueAnnotator{} })
	reg.Register(typ, func(v any) annotator.Annotator { return opaqueAnnotator{} })

	assert.Panics(t, func() {
		reg.Lookup(&opaqueThing{})
	})
}

func TestFormatString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Hex", annotator.Hex.String())
	assert.Equal(t, "Xxd", annotator.Xxd.String())
}
