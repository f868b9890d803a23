// Package physics provides the force-directed integrator that owns live node
// coordinates.
//
// The rest of the dashboard talks to it only through the Simulation interface:
// hand it the node and link collections of a topology, restart it with some
// energy, and tick it. Pinning is expressed on the nodes themselves (FX/FY), so
// a pinned node is held in place by the integrator without any extra call.
//
// ForceSimulation follows the usual alpha-cooling scheme: every tick alpha
// moves toward alphaTarget, forces are scaled by alpha, and the simulation
// goes quiet once alpha drops below AlphaMin with a zero target.
package physics
