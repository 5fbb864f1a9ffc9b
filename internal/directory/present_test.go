package directory

import (
	"reflect"
	"testing"
)

var testPlatforms = []Platform{
	{Column: "X Account", BaseURL: "https://x.com/"},
	{Column: "Instagram Account", BaseURL: "https://instagram.com/"},
}

func TestPresenter_Card(t *testing.T) {
	p := NewPresenter(testPlatforms)

	r := Record{
		Name:        "Green Roots",
		Category:    "Food",
		Country:     "Kenya",
		City:        "Nairobi",
		Description: "Urban <b>gardens</b> & seed banks",
		Website:     "https://greenroots.example",
		Phone:       "+254 700 000",
		Address:     "1 Garden Lane",
		Extra: map[string]string{
			"Instagram Account": "@greenroots",
			"X Account":         "gr_ke",
		},
	}

	got := p.Card(r)

	if got.Title != "Green Roots" || got.Category != "Food" {
		t.Errorf("title/category = %q/%q", got.Title, got.Category)
	}
	if got.Location != "Nairobi, Kenya" {
		t.Errorf("Location = %q", got.Location)
	}
	if got.Description != "Urban gardens & seed banks" {
		t.Errorf("Description = %q", got.Description)
	}

	wantContacts := []Contact{
		{Kind: ContactWebsite, Label: "Visit Website", Href: "https://greenroots.example"},
		{Kind: ContactPhone, Label: "+254 700 000", Href: "tel:+254 700 000"},
		{Kind: ContactAddress, Label: "1 Garden Lane"},
	}
	if !reflect.DeepEqual(got.Contacts, wantContacts) {
		t.Errorf("Contacts = %+v, want %+v", got.Contacts, wantContacts)
	}

	// Platform order, not map order.
	wantSocial := []Link{
		{Label: "X", Href: "https://x.com/gr_ke"},
		{Label: "Instagram", Href: "https://instagram.com/greenroots"},
	}
	if !reflect.DeepEqual(got.Social, wantSocial) {
		t.Errorf("Social = %+v, want %+v", got.Social, wantSocial)
	}
}

func TestPresenter_CardOmitsEmpty(t *testing.T) {
	p := NewPresenter(testPlatforms)
	got := p.Card(Record{Name: "Bare"})

	if got.Category != "" || got.Description != "" || got.Location != "" {
		t.Errorf("card = %+v, want empty optional fields", got)
	}
	if got.Contacts == nil || len(got.Contacts) != 0 {
		t.Errorf("Contacts = %v, want empty slice", got.Contacts)
	}
	if got.Social == nil || len(got.Social) != 0 {
		t.Errorf("Social = %v, want empty slice", got.Social)
	}
}

func TestPresenter_Cards(t *testing.T) {
	p := NewPresenter(nil)
	got := p.Cards([]Record{{Name: "a"}, {Name: "b"}})
	if len(got) != 2 || got[0].Title != "a" || got[1].Title != "b" {
		t.Errorf("Cards = %+v", got)
	}
}

func TestFormatLocation(t *testing.T) {
	tests := []struct {
		city, country, want string
	}{
		{"Lima", "Peru", "Lima, Peru"},
		{"", "Peru", "Peru"},
		{"Lima", "", "Lima"},
		{"", "", ""},
	}
	for _, tt := range tests {
		if got := FormatLocation(tt.city, tt.country); got != tt.want {
			t.Errorf("FormatLocation(%q, %q) = %q, want %q", tt.city, tt.country, got, tt.want)
		}
	}
}

func TestSocialURL(t *testing.T) {
	tests := []struct {
		handle, want string
	}{
		{"@acme", "https://x.com/acme"},
		{"acme", "https://x.com/acme"},
		{"@@acme", "https://x.com/@acme"},
	}
	for _, tt := range tests {
		if got := SocialURL("https://x.com/", tt.handle); got != tt.want {
			t.Errorf("SocialURL(%q) = %q, want %q", tt.handle, got, tt.want)
		}
	}
}

func TestPlatform_Label(t *testing.T) {
	if got := (Platform{Column: "Linkedin Account"}).Label(); got != "Linkedin" {
		t.Errorf("Label() = %q, want Linkedin", got)
	}
}
