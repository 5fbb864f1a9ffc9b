// Package templates holds the HTML components of the directory UI.
//
// Components are templ.Component values. Every dynamic string goes through
// templ.EscapeString, and every dynamic href through templ.URL so that
// javascript: and similar schemes from the sheet are neutralised.
package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// htmlWriter accumulates the first write error so components can emit
// markup without checking every call.
type htmlWriter struct {
	w   io.Writer
	err error
}

// raw writes trusted markup.
func (h *htmlWriter) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

// text writes s HTML-escaped.
func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

// attr writes name="value" with the value escaped.
func (h *htmlWriter) attr(name, value string) {
	h.raw(" " + name + `="` + templ.EscapeString(value) + `"`)
}

// href writes an href attribute for a URL that came from data.
func (h *htmlWriter) href(url string) {
	h.attr("href", string(templ.URL(url)))
}

// component renders the result of render through an htmlWriter.
func component(render func(h *htmlWriter)) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		render(h)
		return h.err
	})
}
