package goquery

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/classload"
)

// Ensure DetailParser implements classload.DetailParser at compile time.
var _ classload.DetailParser = (*DetailParser)(nil)

// DetailSelector matches the details panel of a class detail page once it
// has rendered.
const DetailSelector = "div.class-details"

const detailFields = "#content > div > div.detail-container.row.class-details > div.col-md-4 > div"

// EnrolledSelectors locate the enrolled count (not the capacity) on a class
// detail page. The field has moved between rows of the details panel over
// time, so positions are tried in order.
var EnrolledSelectors = []string{
	detailFields + " > div:nth-child(7) > div.col-xs-5.col-md-6",
	detailFields + " > div:nth-child(5) > div.col-xs-5.col-md-6",
	detailFields + " > div:nth-child(6) > div.col-xs-5.col-md-6",
}

var (
	courseLabelRe = regexp.MustCompile(`Course:\s*([A-Z]{2,4}\s+\d{3}[A-Z]?)`)
	courseCodeRe  = regexp.MustCompile(`\b([A-Z]{2,4}\s+\d{3}[A-Z]?)\b`)
	labelRe       = regexp.MustCompile(`(?i)^\s*enrolled\s*:?\s*$`)
)

// DetailParser extracts enrollment and the course code from a class
// detail page.
type DetailParser struct{}

// NewDetailParser returns a DetailParser.
func NewDetailParser() *DetailParser {
	return &DetailParser{}
}

// ParseDetail implements classload.DetailParser. Missing fields are left
// empty; the row parser decides what an empty enrollment means.
func (p *DetailParser) ParseDetail(html string) (*classload.SectionDetail, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, classload.Errorf(classload.EINVALID, "failed to parse HTML: %v", err)
	}

	detail := &classload.SectionDetail{
		Enrolled:   enrolledText(doc),
		CourseCode: courseCode(doc),
	}
	return detail, nil
}

func enrolledText(doc *goquery.Document) string {
	for _, selector := range EnrolledSelectors {
		if sel := doc.Find(selector).First(); sel.Length() > 0 {
			if text := cellText(sel); text != "" {
				return text
			}
		}
	}

	// Label/value pairs: "<div>Enrolled</div><div>28</div>".
	var text string
	doc.Find("div, dt, th, span, label").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if sel.Children().Length() > 0 || !labelRe.MatchString(cellText(sel)) {
			return true
		}
		if next := sel.Next(); next.Length() > 0 {
			text = cellText(next)
		}
		return text == ""
	})
	return text
}

func courseCode(doc *goquery.Document) string {
	for _, selector := range []string{"h1", "h2", "h3", "title", ".class-details", "body"} {
		text := cellText(doc.Find(selector))
		if m := courseLabelRe.FindStringSubmatch(text); m != nil {
			return normalizeSpace(m[1])
		}
		if m := courseCodeRe.FindStringSubmatch(text); m != nil {
			return normalizeSpace(m[1])
		}
	}
	return ""
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
