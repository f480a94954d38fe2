// Package migrations holds the PostgreSQL schema for the postgres storage backend.
package migrations

import "embed"

// FS contains the numbered golang-migrate files.
//
//go:embed *.sql
var FS embed.FS
