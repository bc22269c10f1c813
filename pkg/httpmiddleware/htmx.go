package httpmiddleware

import (
	"context"
	"net/http"
)

type htmxKey struct{}

// IsHTMX reports whether the request was issued by htmx. It is only set
// for requests that passed through the HTMX middleware.
func IsHTMX(ctx context.Context) bool {
	v, _ := ctx.Value(htmxKey{}).(bool)
	return v
}

// HTMX marks requests coming from htmx so handlers can answer with a
// fragment instead of a full page. Responses always vary on HX-Request.
func HTMX() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("Vary", "HX-Request")
			is := r.Header.Get("HX-Request") == "true"
			ctx := context.WithValue(r.Context(), htmxKey{}, is)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
