// Package appfs embeds the files the binaries need at runtime.
package appfs

import "embed"

const (
	// MigrationsDir is the goose migrations directory within FS.
	MigrationsDir = "migrations"
	// InsightSeeds holds the pre-authored daily insights within FS.
	InsightSeeds = "seeds/insights.yaml"
)

//go:embed migrations/*.sql seeds/*.yaml
var FS embed.FS
