package directory

// csv.go implements the spreadsheet CSV scanner.
//
// The scanner is permissive: malformed quoting never fails a row.
// encoding/csv rejects such input (or, with LazyQuotes, keeps the quotes in
// the value), so rows are scanned by hand:
//
//   - fields are separated by commas
//   - a double quote toggles quoting; inside quotes a comma is literal
//   - "" inside a quoted field is one literal quote
//   - whitespace outside quotes at either end of a field is trimmed
//   - an unterminated quote runs to the end of the line

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const utf8BOM = "\uFEFF"

// ParseCSV parses raw CSV text into a Dataset.
//
// The first line is the header row. Data rows whose first field is empty are
// skipped; remaining rows are zipped against the headers, with missing
// trailing values defaulting to "". Values beyond the last header are
// dropped. Text with fewer than two lines fails with *ParseError.
//
// ParseCSV does not apply the name admission rule; see Admit.
func ParseCSV(text string, cols Columns) (*Dataset, error) {
	text = strings.TrimPrefix(text, utf8BOM)
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) < 2 {
		return nil, &ParseError{Reason: "CSV must have at least a header row and one data row"}
	}

	headers := ParseRow(lines[0])
	if !hasHeader(headers) {
		return nil, &ParseError{Line: 1, Reason: "header row has no column names"}
	}

	records := make([]Record, 0, len(lines)-1)
	for _, line := range lines[1:] {
		row := ParseRow(line)
		if len(row) == 0 || row[0] == "" {
			continue
		}
		var rec Record
		for i, h := range headers {
			value := ""
			if i < len(row) {
				value = row[i]
			}
			rec.set(cols, h, value)
		}
		records = append(records, rec)
	}

	return NewDataset(headers, records), nil
}

// ParseRow splits a single CSV line into trimmed field values.
// It always returns at least one field.
func ParseRow(line string) []string {
	var (
		fields   []string
		f        fieldBuffer
		inQuotes bool
	)
	f.reset()

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"':
			if inQuotes && i+1 < len(line) && line[i+1] == '"' {
				f.write(c, true)
				i++
				continue
			}
			inQuotes = !inQuotes
			f.markQuote()
		case c == ',' && !inQuotes:
			fields = append(fields, f.String())
			f.reset()
		default:
			f.write(c, inQuotes)
		}
	}
	return append(fields, f.String())
}

// fieldBuffer accumulates one field and remembers which bytes came from
// inside quotes so trimming can leave them alone.
type fieldBuffer struct {
	b []byte
	// [qStart, qEnd) spans the quoted content; qStart < 0 means none.
	qStart, qEnd int
}

func (f *fieldBuffer) reset() {
	f.b = f.b[:0]
	f.qStart, f.qEnd = -1, -1
}

func (f *fieldBuffer) write(c byte, quoted bool) {
	f.b = append(f.b, c)
	if quoted {
		if f.qStart < 0 {
			f.qStart = len(f.b) - 1
		}
		f.qEnd = len(f.b)
	}
}

// markQuote records a quote boundary at the current position, so that an
// empty quoted section still shields surrounding whitespace.
func (f *fieldBuffer) markQuote() {
	if f.qStart < 0 {
		f.qStart = len(f.b)
	}
	f.qEnd = len(f.b)
}

// String returns the field with unquoted edge whitespace trimmed.
func (f *fieldBuffer) String() string {
	lead, trail := len(f.b), 0
	if f.qStart >= 0 {
		lead, trail = f.qStart, f.qEnd
	}

	lo := 0
	for lo < lead {
		r, size := utf8.DecodeRune(f.b[lo:])
		if !unicode.IsSpace(r) {
			break
		}
		lo += size
	}

	hi := len(f.b)
	if trail < lo {
		trail = lo
	}
	for hi > trail {
		r, size := utf8.DecodeLastRune(f.b[:hi])
		if !unicode.IsSpace(r) {
			break
		}
		hi -= size
	}
	return string(f.b[lo:hi])
}

// Admit returns the records that carry a non-blank name, preserving order.
// The input slice is not modified.
func Admit(records []Record) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if strings.TrimSpace(r.Name) != "" {
			out = append(out, r)
		}
	}
	return out
}

// AdmitDataset applies Admit to a parsed dataset, returning a new Dataset
// that keeps the source ID and headers.
func AdmitDataset(ds *Dataset) *Dataset {
	if ds == nil {
		return nil
	}
	return &Dataset{
		ID:       ds.ID,
		Headers:  ds.Headers,
		Records:  Admit(ds.Records),
		LoadedAt: ds.LoadedAt,
	}
}

func hasHeader(headers []string) bool {
	for _, h := range headers {
		if h != "" {
			return true
		}
	}
	return false
}
