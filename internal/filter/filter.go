// Package filter decides which listing rows represent animals whose
// photo should be downloaded.
//
// The portal renders each animal as adjacent table cells: a name cell
// carrying the detail-page anchor, followed by a status cell. The
// filter slides a one-cell lookback window over the page's cells and
// emits a download candidate whenever a status cell matches both the
// hold keyword and the year token while the preceding cell holds a
// linked anchor.
package filter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/luckydoganimalrescue/p6-ldar-portal-scraper/internal/listing"
)

// Candidate pairs a detail-page href with the sanitized filename its
// photo will be saved under.
type Candidate struct {
	Href     string
	Filename string
}

// Filter matches listing cells against a hold-status keyword and a
// year token.
type Filter struct {
	hold *regexp.Regexp
	year *regexp.Regexp
}

// New compiles a Filter. The hold pattern is anchored at the start of
// the cell text; the year pattern matches anywhere in it, across
// embedded line breaks.
func New(hold, yearPattern string) (*Filter, error) {
	holdRe, err := regexp.Compile(`^(?:` + hold + `)`)
	if err != nil {
		return nil, fmt.Errorf("invalid hold pattern %q: %w", hold, err)
	}
	yearRe, err := regexp.Compile(`(?s)` + yearPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid year pattern %q: %w", yearPattern, err)
	}
	return &Filter{hold: holdRe, year: yearRe}, nil
}

// Collect scans cells in order and returns the download candidates, in
// row order. A cell produces a candidate only when its text matches
// both patterns and the previous cell carries a non-empty href; rows
// missing any condition are skipped without error. The lookback window
// advances on every cell, matched or not.
func (f *Filter) Collect(cells []listing.Cell) []Candidate {
	var out []Candidate
	var prev *listing.Cell

	for i := range cells {
		cur := &cells[i]
		if f.hold.MatchString(cur.Text) && f.year.MatchString(cur.Text) &&
			prev != nil && prev.Href != "" {
			out = append(out, Candidate{
				Href:     prev.Href,
				Filename: Sanitize(prev.Text, cur.Text),
			})
		}
		prev = cur
	}
	return out
}

var nonFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9-]`)

// Sanitize derives a filesystem-safe filename token from a matched
// status cell and the name cell before it. Newlines and the literal
// "Adopted" marker are stripped from the status text, the name text is
// prepended with a hyphen, and everything outside [A-Za-z0-9-] is
// removed. The result is deterministic and idempotent.
func Sanitize(prevText, curText string) string {
	clean := strings.ReplaceAll(curText, "\n", "")
	clean = strings.ReplaceAll(clean, "Adopted", "")
	clean = prevText + "-" + clean
	return nonFilenameChars.ReplaceAllString(clean, "")
}
