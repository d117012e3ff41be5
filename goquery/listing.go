// Package goquery parses SF State class search pages with goquery.
package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/classload"
)

// Ensure ListingParser implements classload.ListingParser at compile time.
var _ classload.ListingParser = (*ListingParser)(nil)

// RowSelectors are tried in order; the first that matches any element wins.
var RowSelectors = []string{
	"tr[data-role='row']",
	"tbody tr",
	"table tr",
}

// NextSelectors locate the link to the following results page.
var NextSelectors = []string{
	"a[rel='next']",
	"li.next a[href]",
	".pagination a.next[href]",
	"a.k-pager-nav[title='Go to the next page'][href]",
}

// NoResultsText is shown by the class search when a query matches nothing.
const NoResultsText = "No classes were found"

// ListingParser extracts rows from a class search results page.
type ListingParser struct {
	// Columns is the padded width of every returned row.
	Columns int
}

// NewListingParser returns a parser producing rows padded to
// classload.SFSUColumns.
func NewListingParser() *ListingParser {
	return &ListingParser{Columns: classload.SFSUColumns}
}

// ParseListing implements classload.ListingParser.
func (p *ListingParser) ParseListing(html string, pageURL string) (*classload.ListingPage, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, classload.Errorf(classload.EINVALID, "invalid page URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, classload.Errorf(classload.EINVALID, "failed to parse HTML: %v", err)
	}

	page := &classload.ListingPage{}
	if strings.Contains(doc.Text(), NoResultsText) {
		page.NoResults = true
		return page, nil
	}

	var rows *goquery.Selection
	for _, selector := range RowSelectors {
		if rows = doc.Find(selector); rows.Length() > 0 {
			break
		}
	}

	rows.Each(func(_ int, tr *goquery.Selection) {
		cells := tr.ChildrenFiltered("td")
		if cells.Length() == 0 {
			return
		}
		row := classload.Row{Cells: make([]string, 0, p.Columns)}
		cells.Each(func(i int, td *goquery.Selection) {
			row.Set(i, cellText(td))
		})
		if p.Columns > 0 {
			row.Set(p.Columns-1, row.Cell(p.Columns-1))
		}
		if href, ok := tr.Find("a[href]").First().Attr("href"); ok {
			row.DetailURL = resolveURL(base, href)
		}
		page.Rows = append(page.Rows, row)
	})

	for _, selector := range NextSelectors {
		if href, ok := doc.Find(selector).First().Attr("href"); ok {
			if next := resolveURL(base, href); next != "" && next != base.String() {
				page.NextURL = next
				break
			}
		}
	}

	return page, nil
}

// resolveURL resolves a relative URL against a base URL.
// Returns empty string for unparsable and non-HTTP links.
// Fragments are stripped from the resolved URL.
func resolveURL(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || isNonHTTPLink(href) {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""
	return resolved.String()
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(href)
	return href == "#" ||
		strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}
