package collection

import (
	"fmt"

	"github.com/noah-isme/librus-sync/internal/models"
	appErrors "github.com/noah-isme/librus-sync/pkg/errors"
)

// Grades collects grades with per-subject grouping.
type Grades struct {
	Collection[models.Grade]
	previous  *Grades
	subjects  []string
	bySubject map[string][]models.Grade
	midterms  map[string][]models.Grade
}

// NewGrades returns an empty grade collection.
func NewGrades(grades ...models.Grade) *Grades {
	c := &Grades{
		Collection: newCollection[models.Grade](models.GradeFieldDate),
		bySubject:  make(map[string][]models.Grade),
		midterms:   make(map[string][]models.Grade),
	}
	for _, g := range grades {
		c.Add(g)
	}
	return c
}

// Add appends the grade and updates the subject, identifier, date and midterm indices.
func (c *Grades) Add(g models.Grade) {
	c.Collection.Add(g)
	if _, ok := c.bySubject[g.Subject]; !ok {
		c.subjects = append(c.subjects, g.Subject)
	}
	c.bySubject[g.Subject] = append(c.bySubject[g.Subject], g)
	if g.Midterm() {
		c.midterms[g.Subject] = append(c.midterms[g.Subject], g)
	}
}

// AddUnique adds the grade unless its identifier is already present.
func (c *Grades) AddUnique(g models.Grade) bool {
	if c.HasKey(g.Key()) {
		return false
	}
	c.Add(g)
	return true
}

// Subjects returns the distinct subjects in insertion order.
func (c *Grades) Subjects() []string {
	out := make([]string, len(c.subjects))
	copy(out, c.subjects)
	return out
}

// BySubject returns the grades of one subject in insertion order.
func (c *Grades) BySubject(subject string) []models.Grade {
	return append([]models.Grade(nil), c.bySubject[subject]...)
}

// Midterms returns the midterm grades of one subject.
func (c *Grades) Midterms(subject string) []models.Grade {
	return append([]models.Grade(nil), c.midterms[subject]...)
}

// CalculateAverage returns the weighted average of the subject's grades that count
// towards the average and have a non-zero value.
func (c *Grades) CalculateAverage(subject string) (float64, error) {
	grades, ok := c.bySubject[subject]
	if !ok {
		return 0, appErrors.Clone(appErrors.ErrSubjectNotFound, fmt.Sprintf("subject %q not found", subject))
	}
	var sum, weights float64
	for _, g := range grades {
		if g.AbsoluteValue == 0 || g.CountsToAverage != 1 {
			continue
		}
		sum += g.AbsoluteValue * float64(g.Weight)
		weights += float64(g.Weight)
	}
	if weights == 0 {
		return 0, appErrors.Clone(appErrors.ErrNoEligibleGrades,
			fmt.Sprintf("no grades of %q count towards the average", subject))
	}
	return sum / weights, nil
}

// LoadPrior sets the previous snapshot the collection is diffed against. It can be set
// once; a nil prior is an empty one.
func (c *Grades) LoadPrior(prior *Grades) error {
	if prior == nil {
		prior = NewGrades()
	}
	if err := c.Collection.LoadPrior(&prior.Collection); err != nil {
		return err
	}
	c.previous = prior
	return nil
}

func (c *Grades) SortByWeight(reverse bool) {
	c.sortByField(models.GradeFieldWeight, reverse, compareNumbers)
}

func (c *Grades) SortByDate(reverse bool) {
	c.sortByField(models.GradeFieldDate, reverse, compareStrings)
}

func (c *Grades) SortByGrade(reverse bool) {
	c.sortByField(models.GradeFieldAbsoluteValue, reverse, compareNumbers)
}

// Fresh returns the records missing from the loaded prior, see DiffGrades.
// Without a loaded prior every record is fresh.
func (c *Grades) Fresh() *Grades {
	return DiffGrades(c, c.previous)
}
