// Package domain defines the core types for the topowatch topology dashboard.
//
// This package contains the normalized in-memory model that both wire formats
// decode into, along with the render frames derived from it.
//
// # Core Types
//
// Endpoint is an address/name pair hosted by a node. It is purely descriptive
// and drives label width when a node is drawn.
//
// Node is a graph vertex identified by a small integer that is unique within one
// topology snapshot. Once a physics integrator is attached, a node also carries
// mutable position state (X, Y, velocity, and an optional pinned position).
//
// Link is a typed, directed route between two node ids. Parallel links between
// the same pair carry a lateral Offset so they render as a fan.
//
// Topology is one named graph. Snapshot is one fetched payload holding every
// topology in document order.
//
// # Link Styles
//
// LinkStyle resolves a link type to a distance, color and strength. Types that
// are not in the table fall back to the "unknown" style; this is never a parse
// error.
//
// # Frames
//
// Frame is the immutable, render-ready copy of a topology handed to renderers
// (SSE clients, the terminal UI). Frames are derived on the dashboard loop and
// never alias live node state.
//
// # Errors
//
// ErrMalformedSnapshot, ErrFetchFailure and ErrLayoutOverflow form the error
// taxonomy. None of them is fatal to the polling loop.
package domain
