package database

import "embed"

//go:embed migrations/*.sql
var EmbeddedMigrationsFS embed.FS
