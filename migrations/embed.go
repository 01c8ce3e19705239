package migrations

import "embed"

// Files holds the forward-only schema for users and period records.
//
//go:embed *.sql
var Files embed.FS
