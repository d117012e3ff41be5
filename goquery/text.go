package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// cellText returns the text of the selection with each text node trimmed
// and the non-empty pieces joined by a single space. Lines broken by <br>
// are joined with "; " so that a cell listing several instructors keeps
// them apart: "<td>Instructors:<br>Jane Doe<br>John Smith</td>" reads
// "Instructors: Jane Doe; John Smith". A line ending in a colon is a label
// and joins its value with a space.
func cellText(sel *goquery.Selection) string {
	var lines [][]string
	lines = append(lines, nil)
	for _, n := range sel.Nodes {
		collectText(n, &lines)
	}

	var b strings.Builder
	for _, line := range lines {
		if len(line) == 0 {
			continue
		}
		if b.Len() > 0 {
			if strings.HasSuffix(b.String(), ":") {
				b.WriteString(" ")
			} else {
				b.WriteString("; ")
			}
		}
		b.WriteString(strings.Join(line, " "))
	}
	return b.String()
}

func collectText(n *html.Node, lines *[][]string) {
	if n == nil {
		return
	}
	switch n.Type {
	case html.TextNode:
		if s := strings.Join(strings.Fields(n.Data), " "); s != "" {
			last := len(*lines) - 1
			(*lines)[last] = append((*lines)[last], s)
		}
		return
	case html.ElementNode:
		switch n.Data {
		case "script", "style":
			return
		case "br":
			*lines = append(*lines, nil)
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, lines)
	}
}
