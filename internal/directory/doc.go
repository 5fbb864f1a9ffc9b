// Package directory holds the data pipeline behind the initiative directory.
//
// The package is independent of any transport. The web server, the terminal
// browser and tests all drive the same functions.
//
// # Pipeline
//
// A published spreadsheet is fetched as CSV text elsewhere (see package
// fetch). From there the flow is:
//
//  1. [ParseCSV] turns the text into a [Dataset] of [Record] values using a
//     permissive quoted-field scanner ([ParseRow]).
//  2. [Admit] drops records without a name.
//  3. [Filter], [Sort] and [Reveal] derive the visible cards for a [Query].
//     [Run] composes the three into a [View].
//  4. [Presenter] turns records into [Card] view models.
//
// [Session] wraps the query steps into an explicit state value for
// interactive clients: search typing is debounced, filter and sort changes
// reset the page, and LoadMore grows the revealed window.
//
// # Records
//
// Spreadsheet columns are mapped to typed [Record] fields through a
// [Columns] table. Columns that are not part of the table (social account
// handles, for example) are kept in Record.Extra keyed by header name.
//
// # Errors
//
// Loading can fail with [HTTPError], [ErrEmptyResponse], [RedirectError],
// [ParseError] or [FetchExhaustedError]. [MapError] turns any of them into
// the single fixed message shown to users.
package directory
