package fetch

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// LooksLikeHTML reports whether body is an HTML page rather than CSV. Sheets
// that are not published answer with a sign-in or redirect page.
func LooksLikeHTML(body string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(body)), "<html") ||
		strings.Contains(body, "<title>") ||
		strings.Contains(body, "temporary redirect")
}

// PageTitle returns the text of the first <title> element in body, or "".
func PageTitle(body string) string {
	z := html.NewTokenizer(strings.NewReader(body))
	inTitle := false
	for {
		switch z.Next() {
		case html.ErrorToken:
			return ""
		case html.StartTagToken:
			name, _ := z.TagName()
			inTitle = atom.Lookup(name) == atom.Title
		case html.TextToken:
			if inTitle {
				return strings.TrimSpace(string(z.Text()))
			}
		case html.EndTagToken:
			inTitle = false
		}
	}
}
