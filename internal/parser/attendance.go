package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/noah-isme/librus-sync/internal/models"
)

var (
	attendanceIDAnchor      = Anchor{Prefixes: []string{"/przegladaj_nb/szczegoly/"}}
	attendanceLabelAnchor   = titleAnchor("Rodzaj: ")
	attendanceDateAnchor    = titleAnchor("Data: ")
	attendanceLessonAnchor  = titleAnchor("Lekcja: ")
	attendanceTeacherAnchor = titleAnchor("Nauczyciel: ")
	attendanceNumberAnchor  = titleAnchor("Godzina lekcyjna: ")
	attendanceTripAnchor    = titleAnchor("Czy wycieczka: ")
	attendanceAddedByAnchor = titleAnchor("Dodał: ")
)

// ParseAttendance extracts every absence, lateness, exemption and excuse mark.
// Presence marks are not records.
func ParseAttendance(markup string) ([]models.Attendance, error) {
	doc, err := parseDocument(markup)
	if err != nil {
		return nil, err
	}
	var entries []models.Attendance
	doc.Find(attendanceSelector).Each(func(_ int, sel *goquery.Selection) {
		code := strings.TrimSpace(sel.Text())
		if strings.EqualFold(code, presenceCode) {
			return
		}
		if a, ok := ExtractAttendance(render(sel), code); ok {
			entries = append(entries, a)
		}
	})
	return entries, nil
}

// ExtractAttendance builds an entry from one rendered attendance link and its short code.
func ExtractAttendance(fragment, code string) (models.Attendance, bool) {
	id, ok := attendanceIDAnchor.Int(fragment)
	if !ok {
		return models.Attendance{}, false
	}
	label, _ := attendanceLabelAnchor.Text(fragment)
	lesson, _ := attendanceLessonAnchor.Text(fragment)
	teacher, _ := attendanceTeacherAnchor.Text(fragment)
	number, _ := attendanceNumberAnchor.Int(fragment)
	addedBy, _ := attendanceAddedByAnchor.Text(fragment)

	code = strings.TrimSpace(code)
	return models.Attendance{
		TypeLabel:    label,
		Type:         ClassifyAttendance(code),
		Date:         attendanceDate(fragment),
		Lesson:       lesson,
		Teacher:      teacher,
		LessonNumber: number,
		SchoolTrip:   attendanceTrip(fragment),
		AddedBy:      addedBy,
		Code:         code,
		ID:           id,
	}, true
}

func attendanceDate(fragment string) string {
	raw, ok := attendanceDateAnchor.Text(fragment)
	if !ok {
		return models.MissingText
	}
	date, _, _ := strings.Cut(raw, " (")
	return strings.TrimSpace(date)
}

func attendanceTrip(fragment string) int {
	raw, ok := attendanceTripAnchor.Text(fragment)
	if !ok {
		return models.MissingNumber
	}
	switch strings.ToLower(raw) {
	case "tak":
		return 1
	case "nie":
		return 0
	default:
		return models.MissingNumber
	}
}
