// Package partial lets a [document.Node] appear as an ordinary field in a
// user struct, passing through [ser]/[de] unchanged instead of being
// walked field-by-field like the rest of the struct.
package partial

import "go.istra.dev/annotate/document"

// Document wraps a [document.Node] for embedding in a struct marshaled by
// [ser] or unmarshaled by [de]. Both special-case this type: marshaling
// emits Node as-is, and unmarshaling sets Node to whatever value the
// corresponding input node resolves to via [document.AsValue], without
// attempting to walk it into Document's own (nonexistent) fields.
type Document struct {
	Node document.Node
}
