// Package markup builds element trees from HTML and YAML documents.
//
// ParseHTML accepts an HTML fragment with exactly one top-level element.
// Attributes are mapped back to element property names (class becomes
// className, for becomes htmlFor), boolean attributes become true, and
// whitespace-only text is dropped.
//
// ParseYAML accepts a node tree where each node is either a string (a text
// element) or a mapping:
//
//	kind: div
//	props:
//	  id: foo
//	children:
//	  - kind: a
//	    children: [bar]
//	  - kind: b
//
// JSON input uses the same shape and is accepted by ParseYAML.
package markup
