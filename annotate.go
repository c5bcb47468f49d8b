package annotate

import (
	"go.istra.dev/annotate/de"
	"go.istra.dev/annotate/document"
	"go.istra.dev/annotate/relax"
	"go.istra.dev/annotate/ser"
)

// Marshal walks v by reflection and returns its [document.Node]
// representation. See [ser.Marshal].
func Marshal(v any) (document.Node, error) {
	return ser.Marshal(v)
}

// Unmarshal populates v, which must be a non-nil pointer, from doc. See
// [de.Unmarshal].
func Unmarshal(doc document.Node, v any) error {
	return de.Unmarshal(doc, v)
}

// Parse reads text into a [document.Node] under the fully permissive
// dialect (every JSON5/HJSON extension enabled), the default a bare
// config file is expected to use. Use [relax.Parse] directly with
// [relax.JSON]/[relax.JSON5]/[relax.HJSON] to pin a stricter dialect.
func Parse(text string) (document.Node, error) {
	return relax.Parse(text, relax.Permissive())
}

// FromString parses text under the permissive dialect and unmarshals the
// result into v, the common case of reading a value straight from a
// config file.
func FromString(text string, v any) error {
	doc, err := Parse(text)
	if err != nil {
		return err
	}

	return Unmarshal(doc, v)
}
