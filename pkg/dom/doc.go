// Package dom provides an in-memory host document for Fibre.
//
// Document implements host.Host with DOM-like semantics: nodes are created
// detached, appending a node that already has a parent moves it, and lookups
// by id only see nodes attached under the document body. The resulting tree
// can be serialized with OuterHTML and InnerHTML for inspection and tests.
//
//	doc := dom.NewDocument()
//	root, _ := doc.GetNodeByID("root")
//	// ... render into root ...
//	html := dom.InnerHTML(root.(*dom.Node))
package dom
