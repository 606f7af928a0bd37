package folio

import "embed"

// EmbeddedAssets contains static assets shipped with the binary:
// folio.css
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
