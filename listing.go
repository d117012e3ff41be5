package classload

// ListingPage is the parsed content of one results page.
type ListingPage struct {
	Rows []Row

	// NextURL is the absolute URL of the next results page, if any.
	NextURL string

	// NoResults is set when the page states that no classes were found.
	NoResults bool
}

// SectionDetail is the data read from a class detail page.
type SectionDetail struct {
	CourseCode string
	Enrolled   string
}

// ListingParser extracts rows from a class search results page.
type ListingParser interface {
	// ParseListing parses html fetched from pageURL. Relative links are
	// resolved against pageURL.
	ParseListing(html string, pageURL string) (*ListingPage, error)
}

// DetailParser extracts enrollment data from a class detail page.
type DetailParser interface {
	ParseDetail(html string) (*SectionDetail, error)
}
