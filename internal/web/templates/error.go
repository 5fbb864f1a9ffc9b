package templates

import "github.com/a-h/templ"

// ErrorAlert renders a load error in place of the results.
func ErrorAlert(message, action, code string) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<div class="alert" role="alert"><p>`)
		h.text(message)
		h.raw(`</p>`)
		if action != "" {
			h.raw(`<p>`)
			h.text(action)
			h.raw(`</p>`)
		}
		if code != "" {
			h.raw(`<p class="code">Code: `)
			h.text(code)
			h.raw(`</p>`)
		}
		h.raw(`<p><a href="/">Retry</a></p></div>`)
	})
}
