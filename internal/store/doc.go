// Package store holds the live per-topology state of the dashboard.
//
// Each topology name seen in a snapshot gets a Binding: the live Topology the
// physics simulation observes, the simulation itself, and the viewport it is
// drawn in. Later snapshots are merged into the existing binding in place so
// node pointers, and with them position and pin state, survive across polls.
// Node ids that vanish are pruned; topologies that vanish are kept and marked
// stale.
//
// A Store is not safe for concurrent use. The dashboard loop owns it.
package store
