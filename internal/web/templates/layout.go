package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

const stylesheet = `
body{font-family:system-ui,sans-serif;margin:0;background:#f6f7f9;color:#1f2933}
header{background:#1f4e79;color:#fff;padding:1.5rem 2rem}
header h1{margin:0;font-size:1.6rem}
main{max-width:72rem;margin:0 auto;padding:1.5rem}
.controls{display:flex;flex-wrap:wrap;gap:.5rem;margin-bottom:1rem}
.controls input,.controls select,.controls button{padding:.45rem .6rem;font-size:.95rem}
.controls input[type=search]{flex:1 1 16rem}
.summary{color:#52606d;margin:.5rem 0 1rem}
.grid{display:grid;grid-template-columns:repeat(auto-fill,minmax(18rem,1fr));gap:1rem}
.card{background:#fff;border-radius:.5rem;padding:1rem;box-shadow:0 1px 3px rgba(0,0,0,.08)}
.card h3{margin:0 0 .35rem}
.card-category{display:inline-block;background:#e3f2fd;color:#1f4e79;border-radius:1rem;padding:.1rem .6rem;font-size:.8rem}
.card-location,.contact-item{color:#52606d;font-size:.9rem;margin-top:.35rem}
.card-social a{margin-right:.6rem;font-size:.85rem}
.load-more{text-align:center;margin:1.5rem 0}
.alert{background:#fdecea;border:1px solid #f5c2c0;border-radius:.5rem;padding:1rem}
.alert .code{color:#8a4b4b;font-size:.8rem}
.empty{text-align:center;color:#52606d;padding:2rem}
`

// Layout wraps body in the page shell.
func Layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<title>`)
		h.text(title)
		h.raw(`</title><style>` + stylesheet + `</style></head><body><header><h1>`)
		h.text(title)
		h.raw(`</h1></header><main>`)
		if h.err != nil {
			return h.err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		h.raw(`</main></body></html>`)
		return h.err
	})
}
