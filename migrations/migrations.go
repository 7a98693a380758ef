// Package migrations embeds the Postgres schema for the tick event log.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
