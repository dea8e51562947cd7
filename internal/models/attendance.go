package models

import (
	"strconv"
	"strings"
)

// AttendanceType is the numeric kind of an attendance mark.
type AttendanceType int

const (
	AttendanceExcused AttendanceType = iota
	AttendanceAbsence
	AttendanceLateness
	AttendanceExemption
)

// Attendance field positions.
const (
	AttendanceFieldTypeLabel = iota
	AttendanceFieldType
	AttendanceFieldDate
	AttendanceFieldLesson
	AttendanceFieldTeacher
	AttendanceFieldLessonNumber
	AttendanceFieldSchoolTrip
	AttendanceFieldAddedBy
	AttendanceFieldCode
	AttendanceFieldID
)

// Attendance is a single non-presence mark (absence, lateness, exemption, excuse).
type Attendance struct {
	TypeLabel    string         `json:"type_label"`
	Type         AttendanceType `json:"type"`
	Date         string         `json:"date"`
	Lesson       string         `json:"lesson"`
	Teacher      string         `json:"teacher"`
	LessonNumber int            `json:"lesson_number"`
	SchoolTrip   int            `json:"school_trip"`
	AddedBy      string         `json:"added_by"`
	Code         string         `json:"code"`
	ID           int            `json:"librus_id"`
}

// Field returns the value at the given position of the entry's field vector.
func (a Attendance) Field(i int) any {
	switch i {
	case AttendanceFieldTypeLabel:
		return a.TypeLabel
	case AttendanceFieldType:
		return int(a.Type)
	case AttendanceFieldDate:
		return a.Date
	case AttendanceFieldLesson:
		return a.Lesson
	case AttendanceFieldTeacher:
		return a.Teacher
	case AttendanceFieldLessonNumber:
		return a.LessonNumber
	case AttendanceFieldSchoolTrip:
		return a.SchoolTrip
	case AttendanceFieldAddedBy:
		return a.AddedBy
	case AttendanceFieldCode:
		return a.Code
	case AttendanceFieldID:
		return a.ID
	default:
		return nil
	}
}

// Key is the portal identifier.
func (a Attendance) Key() string {
	return strconv.Itoa(a.ID)
}

// CompositeKey changes when the mark under a known identifier is re-typed (e.g. nb -> u).
func (a Attendance) CompositeKey() string {
	return a.Code + strconv.Itoa(a.ID)
}

// Display renders the canonical one-line representation.
func (a Attendance) Display() string {
	var b strings.Builder
	b.WriteString("[" + a.Date)
	if a.LessonNumber != MissingNumber {
		b.WriteString(", lekcja " + strconv.Itoa(a.LessonNumber))
	}
	b.WriteString("] " + a.TypeLabel + " (" + a.Code + ")")
	if a.Lesson != "" {
		b.WriteString(" - " + a.Lesson)
	}
	if a.Teacher != "" {
		b.WriteString(". Nauczyciel: " + a.Teacher)
	}
	if a.SchoolTrip == 1 {
		b.WriteString(". Wycieczka")
	}
	b.WriteString(". Dodał/a " + a.AddedBy + ", id w Librusie: " + strconv.Itoa(a.ID) + ".\n")
	return b.String()
}
