// Package web embeds the static assets served by the API: the interactive
// documentation page and the OpenAPI description.
package web

import "embed"

// Static embeds the documentation assets.
//
//go:embed static/*
var Static embed.FS
