// Package web embeds the dashboard templates and static assets so the
// server binary ships self-contained.
package web

import "embed"

// TemplatesFS holds the HTML page and the HTMX partials.
//
//go:embed templates/*.html
var TemplatesFS embed.FS

// StaticFS holds css and js served under /static/.
//
//go:embed static/*
var StaticFS embed.FS
