// Package schemas provides embedded SQL migration files and JSON schemas.
package schemas

import "embed"

// Migrations contains all SQL migration files, applied in file name order.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// Questions is the JSON schema of a generated question list.
//
//go:embed questions.schema.json
var Questions []byte
