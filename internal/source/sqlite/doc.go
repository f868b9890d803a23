// Package sqlite stores topologies in SQLite for the reference data
// endpoint. It uses the pure Go modernc.org/sqlite driver.
package sqlite
