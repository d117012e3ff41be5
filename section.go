package classload

import (
	"regexp"
	"strconv"
	"strings"
)

// Level is the course level derived from the course number.
type Level int

// Level values. LevelUnclassified is the zero value so that a record whose
// course number could not be read is never counted as undergraduate.
const (
	LevelUnclassified Level = iota
	LevelUndergraduate
	LevelGraduate
)

// Course number boundaries of the SF State catalog.
const (
	MaxUndergraduateCourse = 600
	MinGraduateCourse      = 700
)

// String returns a short label for the level.
func (l Level) String() string {
	switch l {
	case LevelUndergraduate:
		return "ug"
	case LevelGraduate:
		return "grad"
	default:
		return "unclassified"
	}
}

// SupervisionKeywords mark a course title as supervision work.
var SupervisionKeywords = []string{
	"Independent",
	"Internship",
	"Supervision",
	"Thesis",
	"Field",
	"Research",
}

// Staff is the sentinel instructor last name for unassigned sections.
const Staff = "Staff"

// SectionRecord is one scraped class section.
type SectionRecord struct {
	ClassNumber         string   `json:"classNumber,omitempty"`
	CourseNumber        string   `json:"courseNumber"`
	CourseTitle         string   `json:"courseTitle"`
	InstructorLastName  string   `json:"instructorLastName"`
	InstructorFirstName string   `json:"instructorFirstName"`
	Enrolled            int      `json:"enrolled"`
	Notes               []string `json:"notes,omitempty"`
}

// Level returns the course level of the section.
func (r *SectionRecord) Level() Level {
	level, _ := Classify(r.CourseNumber, r.CourseTitle)
	return level
}

// IsSupervision reports whether the section is supervision work.
func (r *SectionRecord) IsSupervision() bool {
	return IsSupervision(r.CourseTitle)
}

// IsStaff reports whether the section has no assigned instructor.
func (r *SectionRecord) IsStaff() bool {
	return r.InstructorLastName == Staff && r.InstructorFirstName == ""
}

// Classify maps a course number and title to a level and supervision flag.
// It never fails: a course number without digits is LevelUnclassified.
func Classify(courseNumber, title string) (Level, bool) {
	supervision := IsSupervision(title)
	n, ok := ParseCourseNumber(courseNumber)
	if !ok {
		return LevelUnclassified, supervision
	}
	return ClassifyNumber(n), supervision
}

// ClassifyNumber maps a numeric course number to its level. Numbers between
// the undergraduate and graduate ranges are LevelUnclassified.
func ClassifyNumber(n int) Level {
	switch {
	case n <= MaxUndergraduateCourse:
		return LevelUndergraduate
	case n >= MinGraduateCourse:
		return LevelGraduate
	default:
		return LevelUnclassified
	}
}

// IsSupervision reports whether title contains any supervision keyword,
// ignoring case.
func IsSupervision(title string) bool {
	lower := strings.ToLower(title)
	for _, kw := range SupervisionKeywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

var (
	// Course codes like "FIN 350" or "MATH 115A"; the 3-digit group is the number.
	courseCodeRe = regexp.MustCompile(`\b(\d{3})[A-Z]?\b`)
	digitsRe     = regexp.MustCompile(`\d+`)
)

// ParseCourseNumber extracts the numeric course number from a published
// value such as "101", "FIN 350" or "115A". It returns false if the value
// holds no digits.
func ParseCourseNumber(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if m := courseCodeRe.FindStringSubmatch(strings.ToUpper(s)); m != nil {
		n, err := strconv.Atoi(m[1])
		return n, err == nil
	}
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
