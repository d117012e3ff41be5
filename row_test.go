package classload_test

import (
	"testing"

	"github.com/fwojciec/classload"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func simpleRow(cells ...string) classload.Row {
	return classload.Row{Cells: cells}
}

func TestParseRow(t *testing.T) {
	t.Parallel()

	t.Run("parses a simple data row", func(t *testing.T) {
		t.Parallel()

		res := classload.ParseRow(simpleRow("101", "Intro to Finance", "Smith, John", "30"), classload.SimpleLayout)

		require.Equal(t, classload.RowData, res.Kind)
		assert.Equal(t, "101", res.Record.CourseNumber)
		assert.Equal(t, "Intro to Finance", res.Record.CourseTitle)
		assert.Equal(t, "Smith", res.Record.InstructorLastName)
		assert.Equal(t, "John", res.Record.InstructorFirstName)
		assert.Equal(t, 30, res.Record.Enrolled)
	})

	t.Run("signals blank rows as not data", func(t *testing.T) {
		t.Parallel()

		res := classload.ParseRow(simpleRow("", " ", ""), classload.SimpleLayout)

		assert.Equal(t, classload.RowNotData, res.Kind)
	})

	t.Run("signals rows with too few cells as not data", func(t *testing.T) {
		t.Parallel()

		res := classload.ParseRow(simpleRow("FIN", "Finance"), classload.SimpleLayout)

		assert.Equal(t, classload.RowNotData, res.Kind)
	})

	t.Run("signals header rows as not data", func(t *testing.T) {
		t.Parallel()

		res := classload.ParseRow(simpleRow("Course", "Course Title", "Instructor", "Enrolled"), classload.SimpleLayout)
		assert.Equal(t, classload.RowNotData, res.Kind)

		row := classload.Row{Cells: []string{"Course Type", "Title", "Units", "Class Number", "Days", "Instructors"}}
		res = classload.ParseRow(row, classload.SFSULayout)
		assert.Equal(t, classload.RowNotData, res.Kind)
	})

	t.Run("keeps data rows whose text reads like a header", func(t *testing.T) {
		t.Parallel()

		res := classload.ParseRow(simpleRow("FIN 690", "Instructor Training: Course Title Design", "Smith, John", "14"), classload.SimpleLayout)
		require.Equal(t, classload.RowData, res.Kind)
		assert.Equal(t, 14, res.Record.Enrolled)

		row := classload.Row{Cells: make([]string, classload.SFSUColumns)}
		row.Set(0, "Lecture")
		row.Set(1, "Course Type and Class Number Analysis")
		row.Set(3, "31005")
		row.Set(5, "Instructors: Jane Doe")
		res = classload.ParseRow(row, classload.SFSULayout)
		require.Equal(t, classload.RowSkipped, res.Kind)
		assert.Equal(t, "missing course number", res.Reason)
	})

	t.Run("skips rows with non-numeric enrollment", func(t *testing.T) {
		t.Parallel()

		res := classload.ParseRow(simpleRow("101", "Intro", "Smith, John", "n/a"), classload.SimpleLayout)

		require.Equal(t, classload.RowSkipped, res.Kind)
		assert.Contains(t, res.Reason, "non-numeric enrollment")
	})

	t.Run("skips rows without a course number", func(t *testing.T) {
		t.Parallel()

		res := classload.ParseRow(simpleRow("", "Intro", "Smith, John", "12"), classload.SimpleLayout)

		require.Equal(t, classload.RowSkipped, res.Kind)
		assert.Equal(t, "missing course number", res.Reason)
	})

	t.Run("maps unassigned sections to the staff sentinel", func(t *testing.T) {
		t.Parallel()

		for _, name := range []string{"Staff", "TBA", ""} {
			res := classload.ParseRow(simpleRow("101", "Intro", name, "12"), classload.SimpleLayout)

			require.Equal(t, classload.RowData, res.Kind, "name=%q", name)
			assert.Equal(t, classload.Staff, res.Record.InstructorLastName)
			assert.Empty(t, res.Record.InstructorFirstName)
		}
	})

	t.Run("parses SFSU listing rows with detail columns", func(t *testing.T) {
		t.Parallel()

		row := classload.Row{Cells: make([]string, classload.SFSUColumns)}
		row.Set(0, "Lecture Cross-Listed")
		row.Set(1, "Business Finance")
		row.Set(2, "3")
		row.Set(3, "12345")
		row.Set(5, "Instructors: Jane Doe")
		row.Set(10, "FIN 350")
		row.Set(11, "42")

		res := classload.ParseRow(row, classload.SFSULayout)

		require.Equal(t, classload.RowData, res.Kind)
		assert.Equal(t, "12345", res.Record.ClassNumber)
		assert.Equal(t, "FIN 350", res.Record.CourseNumber)
		assert.Equal(t, "Doe", res.Record.InstructorLastName)
		assert.Equal(t, "Jane", res.Record.InstructorFirstName)
		assert.Equal(t, 42, res.Record.Enrolled)
		assert.Equal(t, []string{"cross-listed"}, res.Record.Notes)
	})

	t.Run("reads separate name columns", func(t *testing.T) {
		t.Parallel()

		layout := classload.ColumnLayout{
			ClassNumber:     -1,
			CourseType:      -1,
			CourseNumber:    0,
			Title:           1,
			Instructor:      2,
			InstructorFirst: 3,
			Enrolled:        4,
			MinCells:        3,
		}

		res := classload.ParseRow(simpleRow("720", "Seminar", "Lee", "Ann", "9"), layout)

		require.Equal(t, classload.RowData, res.Kind)
		assert.Equal(t, "Lee", res.Record.InstructorLastName)
		assert.Equal(t, "Ann", res.Record.InstructorFirstName)
	})
}

func TestSplitInstructorName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in    string
		last  string
		first string
	}{
		{"Smith, John", "Smith", "John"},
		{"Smith,   John  Paul", "Smith", "John Paul"},
		{"Instructors: John Smith", "Smith", "John"},
		{"Instructors: Mary Ann Lee, Bob Stone", "Lee", "Mary Ann"},
		{"Instructors: Jane Doe; John Smith", "Doe", "Jane"},
		{"John Smith", "Smith", "John"},
		{"Cher", "Cher", ""},
		{"Staff", classload.Staff, ""},
		{"Instructors: TBA", classload.Staff, ""},
		{"  ", classload.Staff, ""},
	}

	for _, tt := range tests {
		last, first := classload.SplitInstructorName(tt.in)
		assert.Equal(t, tt.last, last, "in=%q", tt.in)
		assert.Equal(t, tt.first, first, "in=%q", tt.in)
	}
}

func TestNormalizeInstructor(t *testing.T) {
	t.Parallel()

	last, first := classload.NormalizeInstructor(" Lee ", "Ann")
	assert.Equal(t, "Lee", last)
	assert.Equal(t, "Ann", first)

	last, first = classload.NormalizeInstructor("", "")
	assert.Equal(t, classload.Staff, last)
	assert.Empty(t, first)
}

func TestParseEnrollment(t *testing.T) {
	t.Parallel()

	n, ok := classload.ParseEnrollment("30")
	assert.True(t, ok)
	assert.Equal(t, 30, n)

	n, ok = classload.ParseEnrollment("Enrolled: 18 of 40")
	assert.True(t, ok)
	assert.Equal(t, 18, n)

	_, ok = classload.ParseEnrollment("closed")
	assert.False(t, ok)
}

func TestRow_Set(t *testing.T) {
	t.Parallel()

	var row classload.Row
	row.Set(2, "x")

	assert.Equal(t, []string{"", "", "x"}, row.Cells)
	assert.Equal(t, "x", row.Cell(2))
	assert.Empty(t, row.Cell(5))
	assert.Empty(t, row.Cell(-1))
}
