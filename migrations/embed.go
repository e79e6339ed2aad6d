// Package migrations содержит встроенные SQL миграции
package migrations

import "embed"

// PostgresMigrations содержит goose-миграции для PostgreSQL
//
//go:embed postgres/*.sql
var PostgresMigrations embed.FS
