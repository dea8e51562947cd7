package models

import (
	"strconv"
	"strings"
)

// EventType is the numeric calendar category resolved from the cell markers.
type EventType int

const (
	EventHoliday EventType = iota
	EventTeacherAbsence
	EventParentMeeting
	EventSubstitution
	EventExam
	EventShortTest
	EventLessonObservation
)

var eventTypeLabels = map[EventType]string{
	EventHoliday:           "Dzień wolny",
	EventTeacherAbsence:    "Nieobecność nauczyciela",
	EventParentMeeting:     "Wywiadówka",
	EventSubstitution:      "Zastępstwo",
	EventExam:              "Sprawdzian",
	EventShortTest:         "Kartkówka",
	EventLessonObservation: "Lekcja otwarta",
}

// Label returns the default Polish label for the type.
func (t EventType) Label() string {
	return eventTypeLabels[t]
}

// HasLessonRange reports whether events of this type carry a lesson-period range.
// Teacher absences only sometimes do.
func (t EventType) HasLessonRange() bool {
	switch t {
	case EventExam, EventShortTest, EventLessonObservation, EventTeacherAbsence:
		return true
	default:
		return false
	}
}

// Event field positions.
const (
	EventFieldQualifier = iota
	EventFieldDate
	EventFieldTeacher
	EventFieldLessonRange
	EventFieldDay
	EventFieldMonth
	EventFieldYear
	EventFieldTypeLabel
	EventFieldType
	EventFieldDescription
	EventFieldID
)

// Event is one calendar entry for a given day.
type Event struct {
	Qualifier   string    `json:"qualifier"`
	Date        string    `json:"date"`
	Teacher     string    `json:"teacher"`
	LessonRange string    `json:"lesson_range"`
	Day         string    `json:"day"`
	Month       string    `json:"month"`
	Year        int       `json:"year"`
	TypeLabel   string    `json:"type_label"`
	Type        EventType `json:"type"`
	Description string    `json:"description"`
	ID          int       `json:"id"`
}

// NewEvent applies per-type field applicability.
func NewEvent(e Event) Event {
	if !e.Type.HasLessonRange() {
		e.LessonRange = MissingText
	}
	if e.TypeLabel == "" {
		e.TypeLabel = e.Type.Label()
	}
	return e
}

// Field returns the value at the given position of the event's field vector.
func (e Event) Field(i int) any {
	switch i {
	case EventFieldQualifier:
		return e.Qualifier
	case EventFieldDate:
		return e.Date
	case EventFieldTeacher:
		return e.Teacher
	case EventFieldLessonRange:
		return e.LessonRange
	case EventFieldDay:
		return e.Day
	case EventFieldMonth:
		return e.Month
	case EventFieldYear:
		return e.Year
	case EventFieldTypeLabel:
		return e.TypeLabel
	case EventFieldType:
		return int(e.Type)
	case EventFieldDescription:
		return e.Description
	case EventFieldID:
		return e.ID
	default:
		return nil
	}
}

// Key is the event identifier.
func (e Event) Key() string {
	return strconv.Itoa(e.ID)
}

// Display renders the canonical one-line representation.
func (e Event) Display() string {
	var b strings.Builder
	b.WriteString("[" + e.Day + " " + e.Month + " " + strconv.Itoa(e.Year) + "] ")
	b.WriteString(e.TypeLabel)
	if e.Qualifier != "" {
		b.WriteString(": " + e.Qualifier)
	}
	if e.LessonRange != "" {
		b.WriteString(" (lekcja " + e.LessonRange + ")")
	}
	if e.Teacher != "" {
		b.WriteString(". Nauczyciel: " + e.Teacher)
	}
	if e.Description != "" {
		b.WriteString(". Opis: " + e.Description)
	}
	if e.ID != 0 {
		b.WriteString(". id w Librusie: " + strconv.Itoa(e.ID))
	}
	b.WriteString(".\n")
	return b.String()
}
