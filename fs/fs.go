package appfs

import "embed"

// FS carries the files the binaries need at runtime, database migrations
// foremost, so deployments ship a single artifact.
//
//go:embed migrations
var FS embed.FS
