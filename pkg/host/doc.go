// Package host defines the boundary between Fibre and the platform that owns
// real nodes.
//
// A Host creates element and text nodes, sets properties on them, appends
// children, and looks nodes up by id. Node handles are opaque to the engine;
// pkg/dom provides an in-memory implementation and pkg/stream one that
// encodes operations for a remote client.
//
// Property assignment goes through a PropertyTable, a declared set of
// recognized property names and the values they accept, instead of copying
// arbitrary keys onto nodes.
package host
