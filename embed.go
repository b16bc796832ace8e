package blogkit

import "embed"

// EmbeddedAssets contains static assets shipped with the engine:
// blogkit.css
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
