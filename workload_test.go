package classload_test

import (
	"math/rand"
	"testing"

	"github.com/fwojciec/classload"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(course, title, last, first string, enrolled int) classload.SectionRecord {
	return classload.SectionRecord{
		CourseNumber:        course,
		CourseTitle:         title,
		InstructorLastName:  last,
		InstructorFirstName: first,
		Enrolled:            enrolled,
	}
}

func TestAggregate(t *testing.T) {
	t.Parallel()

	t.Run("buckets undergraduate lecture and graduate supervision", func(t *testing.T) {
		t.Parallel()

		rows := classload.Aggregate([]classload.SectionRecord{
			record("101", "Intro to Finance", "Smith", "John", 30),
			record("750", "Thesis Research", "Smith", "John", 1),
		})

		require.Len(t, rows, 1)
		want := &classload.InstructorWorkload{
			LastName:                "Smith",
			FirstName:               "John",
			UGClasses:               1,
			UGStudents:              30,
			GradSupervisionClasses:  1,
			GradSupervisionStudents: 1,
		}
		assert.Equal(t, want, rows[0])
	})

	t.Run("returns empty non-nil table for no records", func(t *testing.T) {
		t.Parallel()

		rows := classload.Aggregate(nil)

		require.NotNil(t, rows)
		assert.Empty(t, rows)
	})

	t.Run("sorts by last then first name ignoring case", func(t *testing.T) {
		t.Parallel()

		rows := classload.Aggregate([]classload.SectionRecord{
			record("101", "A", "young", "Zed", 1),
			record("101", "A", "Adams", "beth", 1),
			record("101", "A", "Adams", "Al", 1),
			record("101", "A", "Baker", "Cy", 1),
		})

		require.Len(t, rows, 4)
		assert.Equal(t, "Adams, Al", rows[0].Name())
		assert.Equal(t, "Adams, beth", rows[1].Name())
		assert.Equal(t, "Baker, Cy", rows[2].Name())
		assert.Equal(t, "young, Zed", rows[3].Name())
	})

	t.Run("breaks case-insensitive ties by encounter order", func(t *testing.T) {
		t.Parallel()

		rows := classload.Aggregate([]classload.SectionRecord{
			record("101", "A", "smith", "john", 1),
			record("101", "A", "Smith", "John", 2),
		})

		require.Len(t, rows, 2)
		assert.Equal(t, "smith", rows[0].LastName)
		assert.Equal(t, "Smith", rows[1].LastName)
	})

	t.Run("keeps staff in a separate bucket", func(t *testing.T) {
		t.Parallel()

		rows := classload.Aggregate([]classload.SectionRecord{
			record("101", "Intro", classload.Staff, "", 20),
			record("102", "Intro II", "Staffer", "Kim", 10),
		})

		require.Len(t, rows, 2)
		assert.Equal(t, classload.Staff, rows[0].LastName)
		assert.Equal(t, 20, rows[0].UGStudents)
		assert.Equal(t, "unassigned sections", rows[0].Note)
		assert.Equal(t, 10, rows[1].UGStudents)
	})

	t.Run("flags unclassified sections in the note", func(t *testing.T) {
		t.Parallel()

		rows := classload.Aggregate([]classload.SectionRecord{
			record("699", "Seminar", "Lee", "Ann", 8),
			record("650", "Seminar", "Lee", "Ann", 4),
			record("300", "Markets", "Lee", "Ann", 25),
		})

		require.Len(t, rows, 1)
		w := rows[0]
		assert.Equal(t, 1, w.UGClasses)
		assert.Equal(t, 2, w.UnclassifiedClasses)
		assert.Equal(t, 12, w.UnclassifiedStudents)
		assert.Equal(t, []string{"650", "699"}, w.UnclassifiedCourses)
		assert.Equal(t, "2 unclassified section(s): 650, 699", w.Note)
	})

	t.Run("joins unique sorted row notes", func(t *testing.T) {
		t.Parallel()

		a := record("101", "Intro", "Lee", "Ann", 1)
		a.Notes = []string{"paired"}
		b := record("102", "Intro", "Lee", "Ann", 1)
		b.Notes = []string{"cross-listed", "paired"}

		rows := classload.Aggregate([]classload.SectionRecord{a, b})

		require.Len(t, rows, 1)
		assert.Equal(t, "cross-listed; paired", rows[0].Note)
	})
}

func TestAggregate_CountConservation(t *testing.T) {
	t.Parallel()

	records := []classload.SectionRecord{
		record("101", "Intro", "Lee", "Ann", 10),
		record("480", "Internship", "Lee", "Ann", 3),
		record("701", "Graduate Seminar", "Lee", "Ann", 12),
		record("898", "Master's Thesis", "Lee", "Ann", 2),
		record("650", "Gap", "Lee", "Ann", 5),
		record("201", "Stats", "Ng", "Tom", 40),
	}

	rows := classload.Aggregate(records)

	classified := map[string]int{}
	for _, r := range records {
		if r.Level() != classload.LevelUnclassified {
			classified[r.InstructorLastName]++
		}
	}
	for _, w := range rows {
		assert.Equal(t, classified[w.LastName], w.ClassifiedClasses(), w.Name())
	}
}

func TestAggregate_Commutative(t *testing.T) {
	t.Parallel()

	records := []classload.SectionRecord{
		record("101", "Intro", "Lee", "Ann", 10),
		record("480", "Internship", "Lee", "Ann", 3),
		record("701", "Graduate Seminar", "Ng", "Tom", 12),
		record("898", "Master's Thesis", "Ng", "Tom", 2),
		record("650", "Gap", "Lee", "Ann", 5),
		record("620", "Gap", "Lee", "Ann", 6),
		record("201", "Stats", classload.Staff, "", 40),
		record("350", "Finance", "Ortiz", "Eva", 33),
	}
	want := classload.Aggregate(records)

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 50; i++ {
		shuffled := append([]classload.SectionRecord(nil), records...)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		got := classload.Aggregate(shuffled)

		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("aggregate depends on input order (-want +got):\n%s", diff)
		}
	}
}

func TestInstructorWorkload_Values(t *testing.T) {
	t.Parallel()

	w := &classload.InstructorWorkload{LastName: "Lee", FirstName: "Ann", UGClasses: 2, GradStudents: 7, Note: "paired"}

	values := w.Values()

	require.Len(t, values, len(classload.Columns))
	assert.Equal(t, "Lee", values[0])
	assert.Equal(t, 2, values[2])
	assert.Equal(t, 7, values[7])
	assert.Equal(t, "paired", values[10])
	assert.Equal(t, "Note", classload.Columns[10])
}
