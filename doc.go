// Package annotate provides a JSON-superset configuration and
// data-interchange format: a [document.Node] tree that carries formatting
// intent (preferred integer base, multiline strings, attached comments,
// compact regions) alongside its data, parsed permissively from JSON,
// JSON5, or HJSON text and rendered back out in any of those dialects.
//
// [Marshal] walks an arbitrary Go value into a [document.Node]; [Unmarshal]
// walks one back into a Go value. [Parse] reads dialect-flexible text into
// a [document.Node] directly, and [jsonfmt.Emit]/[yamlfmt.Emit] render one
// back out:
//
//	doc, err := annotate.Marshal(cfg)
//	if err != nil {
//	    return err
//	}
//
//	text, err := jsonfmt.String(doc, jsonfmt.JSON5Dialect())
//
// [FromString] composes Parse and Unmarshal for the common case of reading
// a config value straight from text:
//
//	var cfg Config
//	if err := annotate.FromString(text, &cfg); err != nil {
//	    return err
//	}
package annotate
