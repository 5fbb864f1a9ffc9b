package directory

import (
	"time"

	"github.com/google/uuid"
)

// Columns maps spreadsheet header names to Record fields.
type Columns struct {
	Name        string
	Category    string
	Country     string
	City        string
	Description string
	Website     string
	Phone       string
	Address     string
	Notes       string
}

// DefaultColumns is the header layout of the published initiatives sheet.
var DefaultColumns = Columns{
	Name:        "Initiative Name",
	Category:    "Category",
	Country:     "Country",
	City:        "City",
	Description: "Description",
	Website:     "Website",
	Phone:       "Phone",
	Address:     "Address",
	Notes:       "Notes",
}

// field returns a pointer to the Record field bound to header, or nil when
// the header is not part of the mapping.
func (c Columns) field(r *Record, header string) *string {
	switch header {
	case "":
		return nil
	case c.Name:
		return &r.Name
	case c.Category:
		return &r.Category
	case c.Country:
		return &r.Country
	case c.City:
		return &r.City
	case c.Description:
		return &r.Description
	case c.Website:
		return &r.Website
	case c.Phone:
		return &r.Phone
	case c.Address:
		return &r.Address
	case c.Notes:
		return &r.Notes
	}
	return nil
}

// Record is one spreadsheet row. Every field defaults to the empty string.
type Record struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Country     string `json:"country"`
	City        string `json:"city"`
	Description string `json:"description"`
	Website     string `json:"website"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	Notes       string `json:"notes"`

	// Extra holds columns outside the mapping, keyed by header name.
	Extra map[string]string `json:"extra,omitempty"`
}

// Value returns the cell for header, looking in the mapped fields first.
func (r Record) Value(cols Columns, header string) string {
	if p := cols.field(&r, header); p != nil {
		return *p
	}
	return r.Extra[header]
}

// set stores value under header.
func (r *Record) set(cols Columns, header, value string) {
	if p := cols.field(r, header); p != nil {
		*p = value
		return
	}
	if r.Extra == nil {
		r.Extra = make(map[string]string)
	}
	r.Extra[header] = value
}

// Dataset is the full ordered collection of records from one load cycle.
//
// A Dataset is never modified after construction. Reloading produces a new
// Dataset with a new ID; callers must treat Records as read-only.
type Dataset struct {
	ID       uuid.UUID `json:"id"`
	Headers  []string  `json:"headers"`
	Records  []Record  `json:"records"`
	LoadedAt time.Time `json:"loaded_at"`
}

// NewDataset wraps records in a Dataset stamped with a fresh ID.
func NewDataset(headers []string, records []Record) *Dataset {
	if records == nil {
		records = []Record{}
	}
	return &Dataset{
		ID:       uuid.New(),
		Headers:  headers,
		Records:  records,
		LoadedAt: time.Now(),
	}
}

// Len returns the number of records, treating a nil Dataset as empty.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}
