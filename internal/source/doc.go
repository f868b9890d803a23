// Package source is a reference implementation of the endpoint the dashboard
// polls. It serves a repository of topologies, either a YAML fixture that is
// reloaded when the file changes or a SQLite database, encoded in the delta
// or JSON wire format.
package source
