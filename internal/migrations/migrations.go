package migrations

import (
	_ "embed"
)

//go:embed 001_initial_schema.sql
var initialSchema string

// InitialSchema returns the schema applied when a store is opened.
// The schema is idempotent; applying it to an existing database is a
// no-op.
func InitialSchema() string {
	return initialSchema
}
