package templates

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/directory/internal/directory"
)

// DirectoryParams is everything the directory page shows.
type DirectoryParams struct {
	Title  string
	Query  directory.Query
	Facets directory.Facets
	View   directory.View
	Cards  []directory.Card

	// Error replaces the results when the dataset could not be loaded.
	Error *directory.UserMessage

	// LoadMoreURL links to the next page; empty when everything is shown.
	LoadMoreURL string

	// SearchDebounceMS delays the automatic form submit while typing.
	SearchDebounceMS int64
}

// DirectoryPage renders the full page.
func DirectoryPage(p DirectoryParams) templ.Component {
	return Layout(p.Title, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := Controls(p).Render(ctx, w); err != nil {
			return err
		}
		return Results(p).Render(ctx, w)
	}))
}

// Controls renders the search, filter and sort form.
func Controls(p DirectoryParams) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<form class="controls" id="controls" method="get" action="/">`)
		h.raw(`<input type="search" name="search" placeholder="Search initiatives..." aria-label="Search"`)
		h.attr("value", p.Query.Search)
		h.raw(`>`)

		selectBox(h, "category", "All categories", p.Facets.Categories, p.Query.Category)
		selectBox(h, "country", "All countries", p.Facets.Countries, p.Query.Country)
		selectBox(h, "city", "All cities", p.Facets.Cities, p.Query.City)

		h.raw(`<select name="sort" aria-label="Sort">`)
		for _, k := range directory.SortKeys {
			option(h, string(k), k.Label(), k == p.Query.Sort)
		}
		h.raw(`</select><button type="submit">Apply</button> <a href="/">Clear</a></form>`)

		// Submit after typing stops, like the search box did client-side.
		h.raw(`<script>(function(){var f=document.getElementById("controls"),t;` +
			`f.search.addEventListener("input",function(){clearTimeout(t);t=setTimeout(function(){f.submit()},`)
		h.raw(strconv.FormatInt(p.SearchDebounceMS, 10))
		h.raw(`)});f.querySelectorAll("select").forEach(function(s){s.addEventListener("change",function(){f.submit()})})})();</script>`)
	})
}

func selectBox(h *htmlWriter, name, allLabel string, values []string, selected string) {
	h.raw(`<select`)
	h.attr("name", name)
	h.attr("aria-label", allLabel)
	h.raw(`>`)
	option(h, "", allLabel, selected == "")
	for _, v := range values {
		option(h, v, v, v == selected)
	}
	h.raw(`</select>`)
}

func option(h *htmlWriter, value, label string, selected bool) {
	h.raw(`<option`)
	h.attr("value", value)
	if selected {
		h.raw(` selected`)
	}
	h.raw(`>`)
	h.text(label)
	h.raw(`</option>`)
}

// Results renders the summary line, the cards and the load more link, or
// the error alert.
func Results(p DirectoryParams) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if p.Error != nil {
			return ErrorAlert(p.Error.Message, p.Error.Action, p.Error.Code).Render(ctx, w)
		}

		h := &htmlWriter{w: w}
		h.raw(`<p class="summary" id="results-count">`)
		h.text(p.View.Summary())
		h.raw(`</p>`)

		if p.View.Total == 0 {
			h.raw(`<div class="empty">No initiatives found. Please try adjusting your search criteria.</div>`)
			return h.err
		}

		h.raw(`<div class="grid" id="initiatives">`)
		for _, c := range p.Cards {
			renderCard(h, c)
		}
		h.raw(`</div>`)

		if p.LoadMoreURL != "" {
			h.raw(`<div class="load-more"><a`)
			h.href(p.LoadMoreURL)
			h.raw(`>Load more</a></div>`)
		}
		return h.err
	})
}

// Card renders one initiative.
func Card(c directory.Card) templ.Component {
	return component(func(h *htmlWriter) { renderCard(h, c) })
}

func renderCard(h *htmlWriter, c directory.Card) {
	h.raw(`<article class="card"><div class="card-header"><h3>`)
	h.text(c.Title)
	h.raw(`</h3>`)
	if c.Category != "" {
		h.raw(`<span class="card-category">`)
		h.text(c.Category)
		h.raw(`</span>`)
	}
	h.raw(`</div>`)

	if c.Description != "" {
		h.raw(`<p class="card-description">`)
		h.text(c.Description)
		h.raw(`</p>`)
	}
	if c.Location != "" {
		h.raw(`<div class="card-location">`)
		h.text(c.Location)
		h.raw(`</div>`)
	}

	for _, ct := range c.Contacts {
		h.raw(`<div class="contact-item">`)
		if ct.Href == "" {
			h.raw(`<span>`)
			h.text(ct.Label)
			h.raw(`</span>`)
		} else {
			h.raw(`<a`)
			h.href(ct.Href)
			if ct.Kind == directory.ContactWebsite {
				h.raw(` target="_blank" rel="noopener"`)
			}
			h.raw(`>`)
			h.text(ct.Label)
			h.raw(`</a>`)
		}
		h.raw(`</div>`)
	}

	if len(c.Social) > 0 {
		h.raw(`<div class="card-social">`)
		for _, l := range c.Social {
			h.raw(`<a class="social-link" target="_blank" rel="noopener"`)
			h.href(l.Href)
			h.attr("title", l.Label)
			h.raw(`>`)
			h.text(l.Label)
			h.raw(`</a>`)
		}
		h.raw(`</div>`)
	}
	h.raw(`</article>`)
}
