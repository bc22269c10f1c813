package handler

import (
	"bytes"
	"net/http"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/storefront/internal/domain/listing"
	"github.com/xenking/storefront/pkg/httpmiddleware"
)

const (
	pageTemplate     = "layout"
	fragmentTemplate = "listing_fragment"

	// sortControlID is the id of the sort select, sent by htmx in HX-Trigger.
	sortControlID = "sort"
)

// Listing serves GET /. The search term comes from q and the ordering from
// sort. htmx requests get the grid and an out-of-band sort select instead
// of the full page.
func (h *Handler) Listing(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	lg := zctx.From(ctx)

	page := h.listing.Page(ctx, parseState(r, lg))

	name := pageTemplate
	htmx := httpmiddleware.IsHTMX(ctx)
	if htmx {
		name = fragmentTemplate
	}

	var buf bytes.Buffer
	if err := h.templates.ExecuteTemplate(&buf, name, h.newPageView(page, htmx)); err != nil {
		lg.Error("Render listing", zap.String("template", name), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = buf.WriteTo(w)
}

// parseState reads the listing state from the query string.
//
// prev_q carries the query the page was rendered with. When a form submit
// (Enter in the search box, or the no-script button) changes the query, the
// sort is reset just like a live search. Changes made through the sort
// select keep the selected mode.
func parseState(r *http.Request, lg *zap.Logger) listing.State {
	query := r.URL.Query()
	state := listing.State{Query: query.Get("q")}

	mode, err := listing.ParseSortMode(query.Get("sort"))
	if err != nil {
		lg.Debug("Ignore sort mode", zap.Error(err))
	}
	if query.Has("prev_q") && query.Get("prev_q") != state.Query && r.Header.Get("HX-Trigger") != sortControlID {
		mode = listing.SortNone
	}
	state.Sort = mode
	return state
}
