package mock

import "github.com/fwojciec/classload"

var _ classload.ListingParser = (*ListingParser)(nil)

// ListingParser is a mock implementation of classload.ListingParser.
type ListingParser struct {
	ParseListingFn func(html string, pageURL string) (*classload.ListingPage, error)
}

func (p *ListingParser) ParseListing(html string, pageURL string) (*classload.ListingPage, error) {
	return p.ParseListingFn(html, pageURL)
}

var _ classload.DetailParser = (*DetailParser)(nil)

// DetailParser is a mock implementation of classload.DetailParser.
type DetailParser struct {
	ParseDetailFn func(html string) (*classload.SectionDetail, error)
}

func (p *DetailParser) ParseDetail(html string) (*classload.SectionDetail, error) {
	return p.ParseDetailFn(html)
}
