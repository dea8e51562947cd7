package parser

import (
	"strings"

	"github.com/noah-isme/librus-sync/internal/models"
)

// Marker maps a literal substring of the markup to a category code.
type Marker struct {
	Substring string
	Code      int
}

// Table is an ordered classification table.
type Table []Marker

// Resolve scans every marker in table order and returns the code of the last one found.
// Unmatched fragments resolve to 0.
func (t Table) Resolve(fragment string) (int, bool) {
	code, found := 0, false
	for _, m := range t {
		if strings.Contains(fragment, m.Substring) {
			code, found = m.Code, true
		}
	}
	return code, found
}

// cancelledLesson appears in the cell text of a lesson cancelled for a teacher's absence.
const cancelledLesson = "odwołane"

const substitutionColor = "background-color: #FF7878"

// EventTable classifies calendar cells. Substitutions and cancelled lessons share a colour.
var EventTable = Table{
	{Substring: "/terminarz/szczegoly_wolne/", Code: int(models.EventHoliday)},
	{Substring: "background-color: #C0C0C0", Code: int(models.EventTeacherAbsence)},
	{Substring: "/terminarz/szczegoly_wywiadowki/", Code: int(models.EventParentMeeting)},
	{Substring: substitutionColor, Code: int(models.EventSubstitution)},
	{Substring: "background-color: #6AB0F0", Code: int(models.EventExam)},
	{Substring: "background-color: #7DD27D", Code: int(models.EventShortTest)},
	{Substring: "background-color: #F0B0F0", Code: int(models.EventLessonObservation)},
}

// ClassifyEvent resolves the event type. The table lookup runs first; a substitution
// whose cell mentions a cancelled lesson is then reclassified as a teacher absence.
func ClassifyEvent(fragment string) models.EventType {
	code, _ := EventTable.Resolve(fragment)
	t := models.EventType(code)
	if t == models.EventSubstitution && strings.Contains(strings.ToLower(fragment), cancelledLesson) {
		return models.EventTeacherAbsence
	}
	return t
}

// attendanceCodes maps the short mark shown in the attendance table to its type.
var attendanceCodes = map[string]models.AttendanceType{
	"u":  models.AttendanceExcused,
	"nb": models.AttendanceAbsence,
	"sp": models.AttendanceLateness,
	"zw": models.AttendanceExemption,
}

// presenceCode marks an attended lesson; those are not attendance records.
const presenceCode = "ob"

// ClassifyAttendance resolves an attendance short code, defaulting to 0.
func ClassifyAttendance(code string) models.AttendanceType {
	return attendanceCodes[strings.ToLower(strings.TrimSpace(code))]
}
