package classload

import (
	"strconv"
	"strings"
)

// Row is one raw table row: cell text by column index.
type Row struct {
	Cells []string `json:"cells"`

	// DetailURL links to the class detail page, if the row has one.
	DetailURL string `json:"detailUrl,omitempty"`
}

// Cell returns the trimmed text of column i, or "" if the column is absent.
func (r Row) Cell(i int) string {
	if i < 0 || i >= len(r.Cells) {
		return ""
	}
	return strings.TrimSpace(r.Cells[i])
}

// Set writes v into column i, padding the row as needed.
func (r *Row) Set(i int, v string) {
	if i < 0 {
		return
	}
	for len(r.Cells) <= i {
		r.Cells = append(r.Cells, "")
	}
	r.Cells[i] = v
}

// ColumnLayout maps the fields of a section to column indexes.
// A negative index means the column is absent from the layout.
type ColumnLayout struct {
	ClassNumber     int
	CourseType      int
	Title           int
	CourseNumber    int
	Instructor      int
	InstructorFirst int
	Enrolled        int

	// MinCells is the number of non-empty cells below which a row is
	// treated as a header or separator.
	MinCells int
}

// SFSULayout is the layout of rows from the SF State class search results.
// The listing itself carries course type, title, units, class number and
// instructor; the scraper fills the course code and enrollment read from
// the class detail page into the two trailing columns.
var SFSULayout = ColumnLayout{
	CourseType:      0,
	Title:           1,
	ClassNumber:     3,
	Instructor:      5,
	InstructorFirst: -1,
	CourseNumber:    10,
	Enrolled:        11,
	MinCells:        3,
}

// SFSUColumns is the padded width of an SFSULayout row.
const SFSUColumns = 12

// SimpleLayout reads rows of the form: course number, title, instructor
// ("Last, First"), enrollment.
var SimpleLayout = ColumnLayout{
	ClassNumber:     -1,
	CourseType:      -1,
	CourseNumber:    0,
	Title:           1,
	Instructor:      2,
	InstructorFirst: -1,
	Enrolled:        3,
	MinCells:        3,
}

// RowKind tags the outcome of parsing one row.
type RowKind int

const (
	// RowData is a parsed section; Record is set.
	RowData RowKind = iota
	// RowNotData is a header, separator or blank row.
	RowNotData
	// RowSkipped is a malformed data row; Reason is set.
	RowSkipped
)

// RowResult is the outcome of parsing one row.
type RowResult struct {
	Kind   RowKind
	Record SectionRecord
	Reason string
}

// ParseRow converts a row into a SectionRecord, a not-data signal or a
// skip decision. It never fails.
func ParseRow(row Row, layout ColumnLayout) RowResult {
	if isNotDataRow(row, layout) {
		return RowResult{Kind: RowNotData}
	}

	courseNumber := row.Cell(layout.CourseNumber)
	if courseNumber == "" {
		return RowResult{Kind: RowSkipped, Reason: "missing course number"}
	}

	enrolledText := row.Cell(layout.Enrolled)
	enrolled, ok := ParseEnrollment(enrolledText)
	if !ok {
		return RowResult{Kind: RowSkipped, Reason: "non-numeric enrollment " + strconv.Quote(enrolledText)}
	}

	last, first := SplitInstructorName(row.Cell(layout.Instructor))
	if layout.InstructorFirst >= 0 {
		last, first = NormalizeInstructor(row.Cell(layout.Instructor), row.Cell(layout.InstructorFirst))
	}

	return RowResult{
		Kind: RowData,
		Record: SectionRecord{
			ClassNumber:         row.Cell(layout.ClassNumber),
			CourseNumber:        courseNumber,
			CourseTitle:         row.Cell(layout.Title),
			InstructorLastName:  last,
			InstructorFirstName: first,
			Enrolled:            enrolled,
			Notes:               courseTypeNotes(row.Cell(layout.CourseType)),
		},
	}
}

// isNotDataRow reports whether the row is a header, separator or blank.
func isNotDataRow(row Row, layout ColumnLayout) bool {
	var filled []string
	for _, c := range row.Cells {
		if c = strings.TrimSpace(c); c != "" {
			filled = append(filled, c)
		}
	}
	if len(filled) == 0 || len(filled) < layout.MinCells {
		return true
	}
	if hasNumericKey(row, layout) {
		return false
	}
	text := strings.ToLower(strings.Join(filled, " "))
	if strings.Contains(text, "course type") && strings.Contains(text, "class number") {
		return true
	}
	if strings.Contains(text, "instructor") && (strings.Contains(text, "enrolled") || strings.Contains(text, "course title")) &&
		!strings.Contains(text, "instructors:") {
		return true
	}
	return false
}

// hasNumericKey reports whether the row carries a numeric enrollment or
// class number. Header rows never do, whatever words their cells hold.
func hasNumericKey(row Row, layout ColumnLayout) bool {
	if _, ok := ParseEnrollment(row.Cell(layout.Enrolled)); ok {
		return true
	}
	if layout.ClassNumber < 0 {
		return false
	}
	cn := strings.TrimSpace(row.Cell(layout.ClassNumber))
	return cn != "" && strings.Trim(cn, "0123456789") == ""
}

// ParseEnrollment reads the first integer in s, e.g. "30" or "30 of 40".
// It returns false when s holds no digits.
func ParseEnrollment(s string) (int, bool) {
	m := digitsRe.FindString(s)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}

// SplitInstructorName normalizes a single instructor field into last and
// first name. It accepts "Last, First", "First Last" and the listing form
// "Instructors: First Last, First Last", of which only the leading
// instructor is kept. Blank, "Staff" and "TBA" map to the Staff sentinel.
func SplitInstructorName(s string) (last, first string) {
	s = strings.TrimSpace(s)
	if rest, ok := cutPrefixFold(s, "Instructors:"); ok {
		return splitFirstLast(leadingName(rest))
	}
	if rest, ok := cutPrefixFold(s, "Instructor:"); ok {
		return splitFirstLast(leadingName(rest))
	}
	if isUnassigned(s) {
		return Staff, ""
	}
	if l, f, ok := strings.Cut(s, ","); ok {
		return strings.TrimSpace(l), strings.Join(strings.Fields(f), " ")
	}
	return splitFirstLast(s)
}

// leadingName returns the first of a comma or semicolon separated list.
func leadingName(s string) string {
	if i := strings.IndexAny(s, ",;"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// splitFirstLast splits "First [Middle] Last".
func splitFirstLast(s string) (last, first string) {
	if isUnassigned(s) {
		return Staff, ""
	}
	parts := strings.Fields(s)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[len(parts)-1], strings.Join(parts[:len(parts)-1], " ")
}

// NormalizeInstructor normalizes separate last and first name cells.
func NormalizeInstructor(last, first string) (string, string) {
	last = strings.TrimSpace(last)
	first = strings.TrimSpace(first)
	if isUnassigned(last) && isUnassigned(first) {
		return Staff, ""
	}
	if isUnassigned(last) {
		return first, ""
	}
	return last, first
}

func isUnassigned(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "staff", "tba", "to be announced":
		return true
	}
	return false
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
		return s[len(prefix):], true
	}
	return s, false
}

// courseTypeNotes annotates cross-listed and paired sections.
func courseTypeNotes(courseType string) []string {
	var notes []string
	lower := strings.ToLower(courseType)
	if strings.Contains(lower, "cross-listed") {
		notes = append(notes, "cross-listed")
	}
	if strings.Contains(lower, "paired") {
		notes = append(notes, "paired")
	}
	return notes
}
