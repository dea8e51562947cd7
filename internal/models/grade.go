package models

import (
	"strconv"
	"strings"
)

// GradeCategory is the structural kind of a grade, derived from which optional fields it carries.
type GradeCategory int

const (
	// GradeDescriptive has neither weight nor average flag.
	GradeDescriptive GradeCategory = 0
	// GradeMidterm carries one of weight/average flag and never counts towards the average.
	GradeMidterm GradeCategory = 1
	// GradeStandard carries a weight and an average flag.
	GradeStandard GradeCategory = 2
	// GradeShaping comes from the formative ("ksztaltujace") path.
	GradeShaping GradeCategory = 3
)

// Label returns the stable category label stored alongside the numeric code.
func (c GradeCategory) Label() string {
	switch c {
	case GradeDescriptive:
		return "DescriptiveGrade"
	case GradeMidterm:
		return "MidtermGrade"
	case GradeStandard:
		return "StandardGrade"
	case GradeShaping:
		return "ShapingGrade"
	default:
		return ""
	}
}

// Grade field positions.
const (
	GradeFieldID = iota
	GradeFieldCategory
	GradeFieldCategoryLabel
	GradeFieldSubject
	GradeFieldValue
	GradeFieldDate
	GradeFieldWeekday
	GradeFieldKind
	GradeFieldWeight
	GradeFieldTeacher
	GradeFieldCountsToAverage
	GradeFieldAddedBy
	GradeFieldDescription
	GradeFieldAbsoluteValue
)

// Grade is a single grade read from the grades page.
type Grade struct {
	ID              int           `json:"id"`
	Category        GradeCategory `json:"category"`
	CategoryLabel   string        `json:"category_label"`
	Subject         string        `json:"subject"`
	Value           string        `json:"value"`
	Date            string        `json:"date"`
	Weekday         string        `json:"weekday"`
	Kind            string        `json:"kind"`
	Weight          int           `json:"weight"`
	Teacher         string        `json:"teacher"`
	CountsToAverage int           `json:"counts_to_average"`
	AddedBy         string        `json:"added_by"`
	Description     string        `json:"description"`
	AbsoluteValue   float64       `json:"absolute_value"`
}

// NewGrade normalises the extracted fields according to the category rules and derives
// the absolute value. The absolute value is computed here only.
func NewGrade(g Grade) Grade {
	switch g.Category {
	case GradeDescriptive, GradeShaping:
		g.Weight = MissingNumber
		g.CountsToAverage = MissingNumber
	case GradeMidterm:
		g.Weight = MissingNumber
		g.CountsToAverage = 0
	case GradeStandard:
		if g.Weight < 0 {
			g.Weight = 0
		}
		if g.CountsToAverage != 1 {
			g.CountsToAverage = 0
		}
	}
	g.CategoryLabel = g.Category.Label()
	g.AbsoluteValue = AbsoluteGradeValue(g.Value)
	return g
}

// AbsoluteGradeValue turns a grade token into its numeric equivalent.
// "-", "+", "T" and "np" are worth 0, "4+" is 4.5, "4-" is 3.75.
func AbsoluteGradeValue(token string) float64 {
	switch token {
	case "-", "+", "T", "np":
		return 0
	}
	if token == "" {
		return 0
	}
	digit, err := strconv.Atoi(token[:1])
	if err != nil {
		return 0
	}
	if len(token) == 1 {
		return float64(digit)
	}
	switch token[1] {
	case '+':
		return float64(digit) + 0.5
	case '-':
		return float64(digit) - 0.25
	default:
		return 0
	}
}

// Midterm reports whether the grade belongs in the per-subject midterm index.
func (g Grade) Midterm() bool {
	return g.Category == GradeMidterm
}

// Field returns the value at the given position of the grade's field vector.
func (g Grade) Field(i int) any {
	switch i {
	case GradeFieldID:
		return g.ID
	case GradeFieldCategory:
		return int(g.Category)
	case GradeFieldCategoryLabel:
		return g.CategoryLabel
	case GradeFieldSubject:
		return g.Subject
	case GradeFieldValue:
		return g.Value
	case GradeFieldDate:
		return g.Date
	case GradeFieldWeekday:
		return g.Weekday
	case GradeFieldKind:
		return g.Kind
	case GradeFieldWeight:
		return g.Weight
	case GradeFieldTeacher:
		return g.Teacher
	case GradeFieldCountsToAverage:
		return g.CountsToAverage
	case GradeFieldAddedBy:
		return g.AddedBy
	case GradeFieldDescription:
		return g.Description
	case GradeFieldAbsoluteValue:
		return g.AbsoluteValue
	default:
		return nil
	}
}

// Key is the grade identifier.
func (g Grade) Key() string {
	return strconv.Itoa(g.ID)
}

// Display renders the canonical one-line representation.
func (g Grade) Display() string {
	var b strings.Builder
	b.WriteString("[")
	b.WriteString(g.Date + ", " + g.Weekday + "] - <" + g.Subject + "> (")
	b.WriteString(g.Value + ")")
	if g.Weight != MissingNumber {
		b.WriteString(" - Waga: " + strconv.Itoa(g.Weight))
	}
	if g.CountsToAverage != MissingNumber {
		b.WriteString(". Liczy się: ")
		if g.CountsToAverage == 1 {
			b.WriteString("Tak")
		} else {
			b.WriteString("Nie")
		}
	}
	b.WriteString(". Typ oceny: " + g.Kind)
	b.WriteString(". Dodał/a " + g.Teacher + ", id w Librusie: " + strconv.Itoa(g.ID) + ".")
	if g.Description != "" {
		b.WriteString(" Opis: " + g.Description)
	}
	b.WriteString("\n")
	return b.String()
}
