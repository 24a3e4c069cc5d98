// Package fibretest provides testing helpers for code built on Fibre.
//
// It supplies host and materializer wrappers that count or fail calls, and
// assertions over the serialized host tree.
//
// # Counting Materialization
//
//	counter := fibretest.NewCountingMaterializer(fiber.NewMaterializer(doc, nil))
//	tree, _ := fiber.NewTree(doc, counter, doc.Mount(), el)
//	// ... perform units of work ...
//	if counter.Calls() != el.Count() { ... }
//
// # Injecting Host Failures
//
//	h := fibretest.NewFailingHost(doc).FailCreate("b")
//
// # Assertions
//
//	fibretest.ExpectHTML(t, doc.Mount(), `<div id="foo"><a>bar</a><b></b></div>`)
package fibretest
