package classload_test

import (
	"testing"

	"github.com/fwojciec/classload"
	"github.com/stretchr/testify/assert"
)

func TestClassifyNumber(t *testing.T) {
	t.Parallel()

	t.Run("is total over a wide range of integers", func(t *testing.T) {
		t.Parallel()

		for n := -1000; n <= 10000; n++ {
			level := classload.ClassifyNumber(n)
			switch {
			case n <= 600:
				assert.Equal(t, classload.LevelUndergraduate, level, "n=%d", n)
			case n >= 700:
				assert.Equal(t, classload.LevelGraduate, level, "n=%d", n)
			default:
				assert.Equal(t, classload.LevelUnclassified, level, "n=%d", n)
			}
		}
	})

	t.Run("uses inclusive boundaries", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, classload.LevelUndergraduate, classload.ClassifyNumber(600))
		assert.Equal(t, classload.LevelUnclassified, classload.ClassifyNumber(601))
		assert.Equal(t, classload.LevelUnclassified, classload.ClassifyNumber(699))
		assert.Equal(t, classload.LevelGraduate, classload.ClassifyNumber(700))
	})
}

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		course      string
		title       string
		level       classload.Level
		supervision bool
	}{
		{"plain undergraduate", "101", "Intro to Finance", classload.LevelUndergraduate, false},
		{"graduate thesis", "750", "Thesis Research", classload.LevelGraduate, true},
		{"course code with subject", "FIN 350", "Business Finance", classload.LevelUndergraduate, false},
		{"course code with suffix", "MATH 115A", "Algebra", classload.LevelUndergraduate, false},
		{"gap range", "650", "Seminar", classload.LevelUnclassified, false},
		{"no digits", "TBD", "Internship", classload.LevelUnclassified, true},
		{"empty", "", "Field Study", classload.LevelUnclassified, true},
		{"four digit number", "1010", "Lab", classload.LevelGraduate, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			level, supervision := classload.Classify(tt.course, tt.title)

			assert.Equal(t, tt.level, level)
			assert.Equal(t, tt.supervision, supervision)
		})
	}
}

func TestIsSupervision(t *testing.T) {
	t.Parallel()

	t.Run("matches keywords ignoring case", func(t *testing.T) {
		t.Parallel()

		assert.True(t, classload.IsSupervision("independent study"))
		assert.True(t, classload.IsSupervision("INTERNSHIP IN MKTG"))
		assert.True(t, classload.IsSupervision("Master's Thesis"))
		assert.True(t, classload.IsSupervision("Clinical Supervision"))
		assert.True(t, classload.IsSupervision("Fieldwork"))
		assert.True(t, classload.IsSupervision("Directed research"))
	})

	t.Run("rejects regular titles", func(t *testing.T) {
		t.Parallel()

		assert.False(t, classload.IsSupervision("Financial Markets"))
		assert.False(t, classload.IsSupervision(""))
	})
}

func TestParseCourseNumber(t *testing.T) {
	t.Parallel()

	n, ok := classload.ParseCourseNumber("FIN 350")
	assert.True(t, ok)
	assert.Equal(t, 350, n)

	n, ok = classload.ParseCourseNumber(" 700 ")
	assert.True(t, ok)
	assert.Equal(t, 700, n)

	_, ok = classload.ParseCourseNumber("n/a")
	assert.False(t, ok)
}

func TestSectionRecord_IsStaff(t *testing.T) {
	t.Parallel()

	assert.True(t, (&classload.SectionRecord{InstructorLastName: classload.Staff}).IsStaff())
	assert.False(t, (&classload.SectionRecord{InstructorLastName: "Staff", InstructorFirstName: "Jo"}).IsStaff())
}

func TestLevel_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ug", classload.LevelUndergraduate.String())
	assert.Equal(t, "grad", classload.LevelGraduate.String())
	assert.Equal(t, "unclassified", classload.LevelUnclassified.String())
}
