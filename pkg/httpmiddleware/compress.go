package httpmiddleware

import (
	"io"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/klauspost/pgzip"
)

// compressibleTypes are the content types worth compressing.
var compressibleTypes = []string{
	"text/html",
	"text/css",
	"text/plain",
	"application/json",
}

// Compress returns a middleware that gzip-encodes compressible responses
// with the parallel pgzip writer. Level follows compress/gzip semantics.
func Compress(level int) Middleware {
	c := middleware.NewCompressor(level, compressibleTypes...)
	c.SetEncoder("gzip", func(w io.Writer, level int) io.Writer {
		gw, err := pgzip.NewWriterLevel(w, level)
		if err != nil {
			return nil
		}
		return gw
	})
	return c.Handler
}
