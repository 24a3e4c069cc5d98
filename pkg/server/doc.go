// Package server streams renders to browsers over WebSocket.
//
// Each connection gets its own stream host, scheduler and idle loop. The
// page renders into the connection as a sequence of ops frames, one per
// idle slice, followed by a done frame when the render completes or an
// error frame when it fails, is superseded or is rejected. A client may
// send an HTML fragment as a text message to request a new render into
// the same container; the scheduler's policy decides what happens to a
// render still in flight.
//
// # Routes
//
//   - GET /         HTML page with the thin client
//   - GET /ws       WebSocket endpoint
//   - GET /metrics  Prometheus metrics
//   - GET /healthz  Liveness probe
//
// # Usage
//
//	srv := server.New(server.DefaultConfig(), func(*http.Request) (*element.Element, error) {
//	    return element.Div(nil, "hello"), nil
//	})
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server
