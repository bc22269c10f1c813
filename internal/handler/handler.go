// Package handler serves the product listing page.
package handler

import (
	"html/template"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"

	"github.com/xenking/storefront/internal/domain/listing"
	"github.com/xenking/storefront/web"
)

// HandlerConfig holds non-dependency configuration for the Handler.
type HandlerConfig struct {
	// Title is the page title.
	Title string
	// Currency is prepended to every price.
	Currency string
}

// Handler renders the listing page from the listing service.
type Handler struct {
	listing   *listing.Service
	templates *template.Template
	assets    http.Handler

	title    string
	currency string
}

// NewHandler parses the embedded templates and constructs a Handler.
func NewHandler(cfg HandlerConfig, svc *listing.Service) (*Handler, error) {
	tmpl, err := template.ParseFS(web.Templates, "templates/*.tmpl")
	if err != nil {
		return nil, errors.Wrap(err, "parse templates")
	}
	static, err := fs.Sub(web.Static, "static")
	if err != nil {
		return nil, errors.Wrap(err, "open static assets")
	}
	return &Handler{
		listing:   svc,
		templates: tmpl,
		assets:    http.StripPrefix("/assets/", http.FileServerFS(static)),
		title:     cfg.Title,
		currency:  cfg.Currency,
	}, nil
}

// Routes registers the page and asset routes on r.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.Listing)
	r.Get("/assets/*", h.assets.ServeHTTP)
}
