package collection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/librus-sync/internal/models"
)

func TestDiffIdenticalCollectionsIsEmpty(t *testing.T) {
	grades := []models.Grade{grade(1, "A", "5", "2019-09-02", 1, 1), grade(2, "B", "4", "2019-09-03", 2, 1)}
	events := []models.Event{{ID: 1, Day: "3"}, {ID: 2, Day: "4"}}
	announcements := []models.Announcement{
		models.NewAnnouncement(models.Announcement{Date: "2019-09-20", Title: "Wycieczka", Content: "Zbiórka"}),
	}
	attendance := []models.Attendance{{ID: 1, Code: "nb"}, {ID: 2, Code: "sp"}}

	assert.Equal(t, 0, DiffGrades(NewGrades(grades...), NewGrades(grades...)).Len())
	assert.Equal(t, 0, DiffEvents(NewEvents(events...), NewEvents(events...)).Len())
	assert.Equal(t, 0, DiffAnnouncements(NewAnnouncements(announcements...), NewAnnouncements(announcements...)).Len())

	added, modified := DiffAttendance(NewAttendance(attendance...), NewAttendance(attendance...))
	assert.Equal(t, 0, added.Len())
	assert.Equal(t, 0, modified.Len())
}

func TestDiffGradesFindsOneNewGrade(t *testing.T) {
	prior := NewGrades(
		grade(1, "A", "5", "2019-09-02", 1, 1),
		grade(2, "A", "4", "2019-09-03", 1, 1),
		grade(3, "B", "3", "2019-09-04", 1, 1),
	)
	fresh := grade(4, "B", "2", "2019-09-05", 1, 1)
	current := NewGrades(append(prior.Records(), fresh)...)

	diff := DiffGrades(current, prior)
	require.Equal(t, 1, diff.Len())
	assert.Equal(t, fresh, diff.Records()[0])
}

func TestDiffGradesReusedIdentifierWithNewDate(t *testing.T) {
	prior := NewGrades(grade(1, "A", "5", "2018-09-02", 1, 1))
	current := NewGrades(grade(1, "A", "3", "2019-09-02", 1, 1))

	diff := DiffGrades(current, prior)
	assert.Equal(t, 1, diff.Len())
}

func TestDiffWithoutPriorReturnsEverything(t *testing.T) {
	current := NewEvents(models.Event{ID: 1}, models.Event{ID: 2})
	assert.Equal(t, 2, DiffEvents(current, nil).Len())
	assert.Equal(t, 2, DiffEvents(current, NewEvents()).Len())

	grades := NewGrades(grade(1, "A", "5", "2019-09-02", 1, 1))
	assert.Equal(t, 1, DiffGrades(grades, nil).Len())
}

func TestDiffAnnouncementsByComposite(t *testing.T) {
	base := models.Announcement{Title: "Zebranie", Content: "Sala 12"}
	first := base
	first.Date = "2019-09-20"
	second := base
	second.Date = "2019-10-20"

	prior := NewAnnouncements(models.NewAnnouncement(first))
	current := NewAnnouncements(models.NewAnnouncement(first), models.NewAnnouncement(second))

	diff := DiffAnnouncements(current, prior)
	require.Equal(t, 1, diff.Len())
	assert.Equal(t, "2019-10-20", diff.Records()[0].Date)
}

func TestDiffAttendanceSeparatesAddedAndModified(t *testing.T) {
	prior := NewAttendance(
		models.Attendance{ID: 10, Code: "nb"},
		models.Attendance{ID: 11, Code: "sp"},
	)
	current := NewAttendance(
		models.Attendance{ID: 10, Code: "u"},
		models.Attendance{ID: 11, Code: "sp"},
		models.Attendance{ID: 12, Code: "nb"},
	)

	added, modified := DiffAttendance(current, prior)
	require.Equal(t, 1, added.Len())
	assert.Equal(t, 12, added.Records()[0].ID)
	require.Equal(t, 1, modified.Len())
	assert.Equal(t, 10, modified.Records()[0].ID)
	assert.Equal(t, "u", modified.Records()[0].Code)

	merged := Merge(added, modified)
	assert.Equal(t, 2, merged.Len())
}

func TestDiffIsIdempotent(t *testing.T) {
	prior := NewEvents(models.Event{ID: 1})
	current := NewEvents(models.Event{ID: 1}, models.Event{ID: 2})

	first := DiffEvents(current, prior)
	second := DiffEvents(current, prior)
	assert.Equal(t, first.Records(), second.Records())
	assert.Equal(t, 2, current.Len())
}

func TestDiffGradesWithoutDateIsStable(t *testing.T) {
	undated := models.NewGrade(models.Grade{ID: 7, Category: models.GradeDescriptive, Subject: "Religia", Value: "T"})

	assert.Equal(t, 0, DiffGrades(NewGrades(undated), NewGrades(undated)).Len())
	assert.Equal(t, 1, DiffGrades(NewGrades(undated), NewGrades()).Len())
}

func TestDiffEventsUnresolvedIdentifierHidesLaterOnes(t *testing.T) {
	prior := NewEvents(models.Event{ID: 0, Day: "3", Qualifier: "Odwołane zajęcia"})
	current := NewEvents(
		models.Event{ID: 0, Day: "3", Qualifier: "Odwołane zajęcia"},
		models.Event{ID: 0, Day: "10", Qualifier: "Dzień wolny"},
	)

	assert.Equal(t, 0, DiffEvents(current, prior).Len())
	assert.Equal(t, 2, DiffEvents(current, NewEvents()).Len())
}

func TestFreshUsesLoadedPrior(t *testing.T) {
	prior := NewGrades(grade(1, "A", "5", "2019-09-02", 1, 1))
	current := NewGrades(grade(1, "A", "5", "2019-09-02", 1, 1), grade(2, "A", "3", "2019-09-05", 1, 1))

	assert.Equal(t, 2, current.Fresh().Len())

	require.NoError(t, current.LoadPrior(prior))
	fresh := current.Fresh()
	require.Equal(t, 1, fresh.Len())
	assert.Equal(t, 2, fresh.Records()[0].ID)

	entries := NewAttendance(models.Attendance{ID: 1, Code: "u"}, models.Attendance{ID: 2, Code: "nb"})
	require.NoError(t, entries.LoadPrior(NewAttendance(models.Attendance{ID: 1, Code: "nb"})))
	added, modified := entries.Changes()
	assert.Equal(t, 1, added.Len())
	assert.Equal(t, 1, modified.Len())

	events := NewEvents(models.Event{ID: 4, Day: "1"})
	require.NoError(t, events.LoadPrior(nil))
	assert.Equal(t, 1, events.Fresh().Len())

	notices := NewAnnouncements(models.NewAnnouncement(models.Announcement{Date: "2019-09-20", Title: "Apel"}))
	require.NoError(t, notices.LoadPrior(notices))
	assert.Equal(t, 0, notices.Fresh().Len())
}
