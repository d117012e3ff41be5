package classload

import (
	"fmt"
	"sort"
	"strings"
)

// InstructorWorkload is one row of the workload report.
type InstructorWorkload struct {
	LastName  string `json:"lastName"`
	FirstName string `json:"firstName"`

	UGClasses             int `json:"ugClasses"`
	UGStudents            int `json:"ugStudents"`
	UGSupervisionClasses  int `json:"ugSupervisionClasses"`
	UGSupervisionStudents int `json:"ugSupervisionStudents"`

	GradClasses             int `json:"gradClasses"`
	GradStudents            int `json:"gradStudents"`
	GradSupervisionClasses  int `json:"gradSupervisionClasses"`
	GradSupervisionStudents int `json:"gradSupervisionStudents"`

	// Sections whose course number falls outside both level ranges.
	UnclassifiedClasses  int      `json:"unclassifiedClasses"`
	UnclassifiedStudents int      `json:"unclassifiedStudents"`
	UnclassifiedCourses  []string `json:"unclassifiedCourses,omitempty"`

	Note string `json:"note"`
}

// ClassifiedClasses returns the number of sections counted in the four
// level buckets.
func (w *InstructorWorkload) ClassifiedClasses() int {
	return w.UGClasses + w.UGSupervisionClasses + w.GradClasses + w.GradSupervisionClasses
}

// Students returns the number of students over all buckets.
func (w *InstructorWorkload) Students() int {
	return w.UGStudents + w.UGSupervisionStudents + w.GradStudents + w.GradSupervisionStudents +
		w.UnclassifiedStudents
}

// Name returns "Last, First", or just the last name.
func (w *InstructorWorkload) Name() string {
	if w.FirstName == "" {
		return w.LastName
	}
	return w.LastName + ", " + w.FirstName
}

// add counts one section into the bucket matching its classification.
func (w *InstructorWorkload) add(r *SectionRecord) {
	level, supervision := Classify(r.CourseNumber, r.CourseTitle)
	switch {
	case level == LevelUndergraduate && !supervision:
		w.UGClasses++
		w.UGStudents += r.Enrolled
	case level == LevelUndergraduate && supervision:
		w.UGSupervisionClasses++
		w.UGSupervisionStudents += r.Enrolled
	case level == LevelGraduate && !supervision:
		w.GradClasses++
		w.GradStudents += r.Enrolled
	case level == LevelGraduate && supervision:
		w.GradSupervisionClasses++
		w.GradSupervisionStudents += r.Enrolled
	default:
		w.UnclassifiedClasses++
		w.UnclassifiedStudents += r.Enrolled
		w.UnclassifiedCourses = append(w.UnclassifiedCourses, r.CourseNumber)
	}
}

// Columns are the fixed spreadsheet columns of the workload report.
var Columns = []string{
	"Last Name",
	"First Name",
	"Total UG classes",
	"Total UG students",
	"Total UG supervision classes",
	"Total UG supervision students",
	"Total Grad classes",
	"Total Grad students",
	"Total Grad supervision classes",
	"Total Grad supervision students",
	"Note",
}

// Values returns the row values in Columns order.
func (w *InstructorWorkload) Values() []any {
	return []any{
		w.LastName,
		w.FirstName,
		w.UGClasses,
		w.UGStudents,
		w.UGSupervisionClasses,
		w.UGSupervisionStudents,
		w.GradClasses,
		w.GradStudents,
		w.GradSupervisionClasses,
		w.GradSupervisionStudents,
		w.Note,
	}
}

// Aggregate folds section records into one workload row per instructor.
// Rows are sorted by last name then first name, ignoring case; equal names
// keep the order in which they were first encountered. Empty input yields
// an empty, non-nil slice.
func Aggregate(records []SectionRecord) []*InstructorWorkload {
	type key struct{ last, first string }

	rows := []*InstructorWorkload{}
	index := make(map[key]int)
	notes := make(map[key]map[string]struct{})
	staff := make(map[key]bool)

	for i := range records {
		r := &records[i]
		k := key{r.InstructorLastName, r.InstructorFirstName}
		idx, ok := index[k]
		if !ok {
			idx = len(rows)
			index[k] = idx
			rows = append(rows, &InstructorWorkload{LastName: k.last, FirstName: k.first})
			notes[k] = make(map[string]struct{})
		}
		rows[idx].add(r)
		if r.IsStaff() {
			staff[k] = true
		}
		for _, n := range r.Notes {
			if n = strings.TrimSpace(n); n != "" {
				notes[k][n] = struct{}{}
			}
		}
	}

	for k, idx := range index {
		rows[idx].Note = buildNote(rows[idx], notes[k], staff[k])
	}

	sort.SliceStable(rows, func(i, j int) bool {
		li, lj := strings.ToLower(rows[i].LastName), strings.ToLower(rows[j].LastName)
		if li != lj {
			return li < lj
		}
		return strings.ToLower(rows[i].FirstName) < strings.ToLower(rows[j].FirstName)
	})
	return rows
}

// buildNote joins the sorted row notes with the unclassified and staff
// annotations.
func buildNote(w *InstructorWorkload, set map[string]struct{}, unassigned bool) string {
	parts := make([]string, 0, len(set)+2)
	for n := range set {
		parts = append(parts, n)
	}
	sort.Strings(parts)

	if unassigned {
		parts = append([]string{"unassigned sections"}, parts...)
	}
	if w.UnclassifiedClasses > 0 {
		courses := append([]string(nil), w.UnclassifiedCourses...)
		sort.Strings(courses)
		w.UnclassifiedCourses = courses
		parts = append(parts, fmt.Sprintf("%d unclassified section(s): %s",
			w.UnclassifiedClasses, strings.Join(courses, ", ")))
	}
	return strings.Join(parts, "; ")
}
