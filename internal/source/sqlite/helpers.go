package sqlite

import (
	"database/sql"
	"strconv"
)

// nullToString safely converts sql.NullString to string
func nullToString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// stringToNull safely converts string to sql.NullString
func stringToNull(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// nodeKey is the stored key of a node id
func nodeKey(id int) string {
	return "n" + strconv.Itoa(id)
}
