// Package element provides the immutable element model rendered by Fibre.
//
// An Element describes one desired host node: a kind tag plus a property
// record. Child descriptions live under the reserved "children" property as
// an ordered []*Element; text leaves use the reserved kind "TEXT_ELEMENT"
// and carry their content under "nodeValue".
//
// # Element API
//
// Elements are created with CreateElement or the tag factories:
//
//	Div(Props{"id": "foo"},
//	    A(nil, "bar"),
//	    B(nil),
//	)
//
// Raw strings and other scalar children are coerced to text elements, so
// every consumer can assume Children() holds only well-formed Elements.
//
// Elements never reference host nodes and are safe to share between renders.
package element
