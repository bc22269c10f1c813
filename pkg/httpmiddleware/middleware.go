// Package httpmiddleware contains the HTTP middleware chain of the
// storefront server. Every constructor returns a Middleware, which has the
// same shape as a chi middleware and can be passed to chi.Router.Use.
package httpmiddleware

import "net/http"

// Middleware wraps an http.Handler with additional behaviour.
type Middleware func(next http.Handler) http.Handler
