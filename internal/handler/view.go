package handler

import (
	"github.com/xenking/storefront/internal/domain/listing"
)

// pageView is the template data of the listing page and fragment.
type pageView struct {
	Title       string
	Query       string
	Total       int
	Cards       []cardView
	SortOptions []sortOption
	// OOB marks the sort select for an out-of-band htmx swap.
	OOB bool
}

type cardView struct {
	ID       int
	Title    string
	Image    string
	Price    string
	Category string
	Rating   string
}

type sortOption struct {
	Value    string
	Label    string
	Selected bool
}

func (h *Handler) newPageView(page listing.Page, oob bool) pageView {
	cards := make([]cardView, len(page.Products))
	for i, p := range page.Products {
		cards[i] = cardView{
			ID:       p.ID,
			Title:    p.Title,
			Image:    p.Image,
			Price:    h.currency + p.Price.String(),
			Category: p.Category,
			Rating:   p.Rating.Rate.String(),
		}
	}

	options := make([]sortOption, len(listing.SortModes))
	for i, m := range listing.SortModes {
		options[i] = sortOption{
			Value:    string(m),
			Label:    m.Label(),
			Selected: m == page.State.Sort,
		}
	}

	return pageView{
		Title:       h.title,
		Query:       page.State.Query,
		Total:       page.Total,
		Cards:       cards,
		SortOptions: options,
		OOB:         oob,
	}
}
