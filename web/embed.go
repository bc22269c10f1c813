// Package web provides the embedded page templates and static assets.
package web

import "embed"

// Templates contains the html/template sources of the listing page.
//
//go:embed templates/*.tmpl
var Templates embed.FS

// Static contains the assets served under /assets/.
//
//go:embed static
var Static embed.FS
