// Package handler implements the HTTP surface of the topowatch dashboard.
//
// DashboardHandler exposes the latest frame set and accepts the two control
// requests a renderer can make: changing the selected topology and reporting
// a new surface size. Both go through the dashboard loop, so the response
// already reflects the change.
//
// # Routes
//
//	GET  /api/frames      latest FrameSet
//	GET  /api/topologies  every bound topology with its counts and viewport
//	POST /api/selection   {"name": "..."}
//	POST /api/viewport    {"width": w, "height": h}
//	GET  /api/health      liveness
//
// The SSE stream (/events) and the pointer input socket (/ws/input) live in
// package hub; the routes are registered by the serve command.
//
// # Middleware
//
// Chain composes Recover, CORS, Logger and Metrics. The response writer
// wrapper keeps http.Flusher and http.Hijacker working for the streams.
//
// Errors are returned as JSON with {error, details} and a matching status.
package handler
