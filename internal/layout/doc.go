// Package layout holds the pure placement algorithms of the dashboard: the
// per-pair link offset calculation that fans out parallel links, and the grid
// allocation that splits the surface into one viewport per topology.
//
// Neither algorithm computes node coordinates; that is the physics
// integrator's job.
package layout
