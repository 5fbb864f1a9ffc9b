package directory

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Platform is a social network whose account handles live in a sheet column.
type Platform struct {
	Column  string // sheet header, e.g. "X Account"
	BaseURL string // profile URL prefix, e.g. "https://x.com/"
}

// Label is the column name without its " Account" suffix.
func (p Platform) Label() string {
	return strings.TrimSpace(strings.TrimSuffix(p.Column, " Account"))
}

// ContactKind identifies a contact channel on a card.
type ContactKind string

const (
	ContactWebsite ContactKind = "website"
	ContactPhone   ContactKind = "phone"
	ContactAddress ContactKind = "address"
)

// Contact is one present contact channel. Href is empty for channels that
// are not links (addresses).
type Contact struct {
	Kind  ContactKind `json:"kind"`
	Label string      `json:"label"`
	Href  string      `json:"href,omitempty"`
}

// Link is a labelled outbound URL.
type Link struct {
	Label string `json:"label"`
	Href  string `json:"href"`
}

// Card is the renderable form of a Record. Empty optional fields are "".
type Card struct {
	Title       string    `json:"title"`
	Category    string    `json:"category,omitempty"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	Contacts    []Contact `json:"contacts"`
	Social      []Link    `json:"social"`
}

// Presenter maps records to cards.
type Presenter struct {
	platforms []Platform
	policy    *bluemonday.Policy
}

// NewPresenter creates a Presenter that renders social links for platforms
// in the given order.
func NewPresenter(platforms []Platform) *Presenter {
	ps := make([]Platform, len(platforms))
	copy(ps, platforms)
	return &Presenter{
		platforms: ps,
		policy:    bluemonday.StrictPolicy(),
	}
}

// Platforms returns the configured platforms.
func (p *Presenter) Platforms() []Platform {
	out := make([]Platform, len(p.platforms))
	copy(out, p.platforms)
	return out
}

// Card builds the card for r.
func (p *Presenter) Card(r Record) Card {
	c := Card{
		Title:       r.Name,
		Category:    r.Category,
		Description: p.plainText(r.Description),
		Location:    FormatLocation(r.City, r.Country),
		Contacts:    []Contact{},
		Social:      []Link{},
	}

	if r.Website != "" {
		c.Contacts = append(c.Contacts, Contact{Kind: ContactWebsite, Label: "Visit Website", Href: r.Website})
	}
	if r.Phone != "" {
		c.Contacts = append(c.Contacts, Contact{Kind: ContactPhone, Label: r.Phone, Href: "tel:" + r.Phone})
	}
	if r.Address != "" {
		c.Contacts = append(c.Contacts, Contact{Kind: ContactAddress, Label: r.Address})
	}

	for _, pl := range p.platforms {
		handle := r.Extra[pl.Column]
		if handle == "" {
			continue
		}
		c.Social = append(c.Social, Link{Label: pl.Label(), Href: SocialURL(pl.BaseURL, handle)})
	}
	return c
}

// Cards maps every record to its card.
func (p *Presenter) Cards(records []Record) []Card {
	out := make([]Card, len(records))
	for i, r := range records {
		out[i] = p.Card(r)
	}
	return out
}

// plainText strips any markup a sheet cell may carry. The result is plain
// text; escaping is left to the renderer.
func (p *Presenter) plainText(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(p.policy.Sanitize(s)))
}

// FormatLocation joins city and country as "City, Country", dropping empty
// parts. It returns "" when both are empty.
func FormatLocation(city, country string) string {
	parts := make([]string, 0, 2)
	for _, v := range []string{city, country} {
		if v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, ", ")
}

// SocialURL appends handle, minus one leading "@", to baseURL.
func SocialURL(baseURL, handle string) string {
	return baseURL + strings.TrimPrefix(handle, "@")
}
