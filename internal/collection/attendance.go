package collection

import "github.com/noah-isme/librus-sync/internal/models"

// Attendance collects attendance marks.
type Attendance struct {
	Collection[models.Attendance]
	previous   *Attendance
	composites map[string]struct{}
}

// NewAttendance returns an attendance collection holding the given entries.
func NewAttendance(entries ...models.Attendance) *Attendance {
	c := &Attendance{
		Collection: newCollection[models.Attendance](models.AttendanceFieldDate),
		composites: make(map[string]struct{}),
	}
	for _, a := range entries {
		c.Add(a)
	}
	return c
}

// Add appends the entry and indexes its code+id composite.
func (c *Attendance) Add(a models.Attendance) {
	c.Collection.Add(a)
	c.composites[a.CompositeKey()] = struct{}{}
}

func (c *Attendance) AddUnique(a models.Attendance) bool {
	if c.HasKey(a.Key()) {
		return false
	}
	c.Add(a)
	return true
}

// HasComposite reports whether an entry with the same code and id was added.
func (c *Attendance) HasComposite(key string) bool {
	_, ok := c.composites[key]
	return ok
}

// LoadPrior sets the previous snapshot the collection is diffed against. It can be set
// once; a nil prior is an empty one.
func (c *Attendance) LoadPrior(prior *Attendance) error {
	if prior == nil {
		prior = NewAttendance()
	}
	if err := c.Collection.LoadPrior(&prior.Collection); err != nil {
		return err
	}
	c.previous = prior
	return nil
}

func (c *Attendance) SortByDate(reverse bool) {
	c.sortByField(models.AttendanceFieldDate, reverse, compareStrings)
}

// Changes diffs the collection against the loaded prior, see DiffAttendance.
func (c *Attendance) Changes() (added, modified *Attendance) {
	return DiffAttendance(c, c.previous)
}
