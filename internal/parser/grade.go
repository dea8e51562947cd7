package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/noah-isme/librus-sync/internal/models"
)

const shapingSegment = "ksztaltujace/"

var (
	gradeIDAnchor          = Anchor{Prefixes: []string{"szczegoly/"}, Terminators: []string{`"`}}
	gradeKindAnchor        = titleAnchor("Kategoria: ")
	gradeDateAnchor        = titleAnchor("Data: ")
	gradeTeacherAnchor     = titleAnchor("Nauczyciel: ")
	gradeAddedByAnchor     = titleAnchor("Dodał: ")
	gradeAverageAnchor     = titleAnchor("średniej: ")
	gradeWeightAnchor      = titleAnchor("Waga: ")
	gradeDescriptionAnchor = titleAnchor("Ocena: ")
	gradeSubjectAnchor     = Anchor{Prefixes: []string{`tree_colapsed.png"/>`, "<td>"}, Terminators: []string{"</td>"}}
)

// ParseGrades extracts every grade from the grades page. Links without an identifier
// (the portal renders a placeholder grade at the top of the table) are skipped.
func ParseGrades(markup string) ([]models.Grade, error) {
	doc, err := parseDocument(markup)
	if err != nil {
		return nil, err
	}
	var grades []models.Grade
	doc.Find(gradeSelector).Each(func(_ int, sel *goquery.Selection) {
		row := render(sel.Closest("tr"))
		if g, ok := ExtractGrade(render(sel), row, strings.TrimSpace(sel.Text())); ok {
			grades = append(grades, g)
		}
	})
	return grades, nil
}

// ExtractGrade builds a grade from one rendered grade link, its enclosing table row and
// the link text.
func ExtractGrade(fragment, row, value string) (models.Grade, bool) {
	id, shaping, ok := gradeID(fragment)
	if !ok {
		return models.Grade{}, false
	}
	date, weekday := gradeDate(fragment)
	kind, _ := gradeKindAnchor.Text(fragment)
	teacher, _ := gradeTeacherAnchor.Text(fragment)
	addedBy, _ := gradeAddedByAnchor.Text(fragment)
	description, _ := gradeDescriptionAnchor.Text(fragment)
	average, hasAverage := gradeCountsToAverage(fragment)
	weight, hasWeight := gradeWeight(fragment)

	category := models.GradeCategory(boolInt(hasWeight) + boolInt(hasAverage))
	if shaping {
		category = models.GradeShaping
	}

	return models.NewGrade(models.Grade{
		ID:              id,
		Category:        category,
		Subject:         gradeSubject(row),
		Value:           value,
		Date:            date,
		Weekday:         weekday,
		Kind:            kind,
		Weight:          weight,
		Teacher:         teacher,
		CountsToAverage: average,
		AddedBy:         addedBy,
		Description:     description,
	}), true
}

// gradeID reads the identifier from the details link; formative grades live under an
// extra "ksztaltujace/" segment.
func gradeID(fragment string) (id int, shaping bool, ok bool) {
	raw, found := gradeIDAnchor.Find(fragment)
	if !found {
		return 0, false, false
	}
	if idx := strings.Index(raw, shapingSegment); idx >= 0 {
		raw = raw[idx+len(shapingSegment):]
		shaping = true
	}
	id, ok = leadingInt(raw)
	return id, shaping, ok
}

// gradeDate splits "2019-09-20 (pt.)" into the date and the weekday abbreviation.
func gradeDate(fragment string) (date, weekday string) {
	raw, ok := gradeDateAnchor.Text(fragment)
	if !ok {
		return models.MissingText, models.MissingText
	}
	date, rest, found := strings.Cut(raw, " (")
	if !found {
		return strings.TrimSpace(date), models.MissingText
	}
	weekday, _, _ = strings.Cut(rest, ")")
	return strings.TrimSpace(date), strings.TrimSpace(weekday)
}

func gradeCountsToAverage(fragment string) (int, bool) {
	raw, ok := gradeAverageAnchor.Text(fragment)
	if !ok {
		return models.MissingNumber, false
	}
	switch strings.ToLower(raw) {
	case "tak":
		return 1, true
	case "nie":
		return 0, true
	default:
		return models.MissingNumber, false
	}
}

func gradeWeight(fragment string) (int, bool) {
	weight, ok := gradeWeightAnchor.Int(fragment)
	if !ok {
		return models.MissingNumber, false
	}
	return weight, true
}

// gradeSubject reads the subject cell that follows the expand icon in the grade's row.
func gradeSubject(row string) string {
	subject, _ := gradeSubjectAnchor.Text(row)
	return subject
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
