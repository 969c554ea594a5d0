// Package store persists the development server's tree in SQLite.
//
// The [Journal] records every accepted subtree write in the "nodes" table
// and hands them back, in order, when the server restarts. Queries are
// built with squirrel and the schema is managed by goose migrations.
package store
