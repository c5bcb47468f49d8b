package partial_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.istra.dev/annotate/de"
	"go.istra.dev/annotate/document"
	"go.istra.dev/annotate/integer"
	"go.istra.dev/annotate/partial"
	"go.istra.dev/annotate/ser"
)

type holder struct {
	N   int              `annotate:"n"`
	Doc partial.Document `annotate:"doc"`
}

func intVal(v int64) integer.Integer {
	return integer.FromInt(v, 64, integer.Dec)
}

func TestMarshalPassesNodeThrough(t *testing.T) {
	t.Parallel()

	h := holder{
		N: 5,
		Doc: partial.Document{Node: document.Sequence{
			document.Str{Text: "Hello", Format: document.StrStandard},
			document.Str{Text: "world", Format: document.StrStandard},
		}},
	}

	doc, err := ser.Marshal(h)
	require.NoError(t, err)

	m, ok := doc.(document.Mapping)
	require.True(t, ok)
	require.Len(t, m, 2)

	_, docVal, err := document.AsKV(m[1])
	require.NoError(t, err)

	seq, ok := docVal.(document.Sequence)
	require.True(t, ok)
	require.Len(t, seq, 2)
}

func TestUnmarshalPassesNodeThrough(t *testing.T) {
	t.Parallel()

	input := document.Mapping{
		document.Fragment{document.Str{Text: "n"}, document.Int{Value: intVal(10)}},
		document.Fragment{
			document.Str{Text: "doc"},
			document.Mapping{
				document.Fragment{document.Str{Text: "key"}, document.Str{Text: "value"}},
			},
		},
	}

	var h holder

	require.NoError(t, de.Unmarshal(input, &h))
	assert.Equal(t, 10, h.N)

	m, ok := h.Doc.Node.(document.Mapping)
	require.True(t, ok)
	require.Len(t, m, 1)
}
