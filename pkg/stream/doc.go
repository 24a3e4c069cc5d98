// Package stream provides a host that records operations as protocol
// frames instead of mutating a document.
//
// A stream Host hands out numeric node handles. Handle 0 is the mount
// container; every created node gets the next handle. Operations are
// buffered until Flush, which sends them to a Sink as a single ops frame.
// Replay applies decoded operations to any other host, so a remote peer
// (or a test) can rebuild the tree the render produced.
package stream
