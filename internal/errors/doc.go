// Package errors provides structured, coded errors for Fibre.
//
// Every failure the engine reports carries a short code (e.g., "E001") that
// maps to a registered message and category, so callers can branch on the
// code instead of matching strings:
//
//	if errors.HasCode(err, errors.CodeRenderSuperseded) {
//	    // a newer render replaced this one
//	}
//
// # Error Categories
//
//   - element: malformed element descriptions
//   - render: render lifecycle (superseded, rejected, failed)
//   - host: host node primitives (create, set property, append)
//   - protocol: host-operation wire format
//   - config: fibre.json loading and validation
//   - cli: command-line input
//
// # Usage
//
//	err := errors.New(errors.CodeInvalidElement).
//	    WithDetail("element kind is empty").
//	    WithSuggestion("Build elements with element.CreateElement")
//
//	fmt.Println(err.Format())
package errors
