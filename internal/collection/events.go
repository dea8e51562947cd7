package collection

import "github.com/noah-isme/librus-sync/internal/models"

// Events collects calendar entries of one month.
type Events struct {
	Collection[models.Event]
	previous *Events
}

// NewEvents returns an event collection holding the given events.
func NewEvents(events ...models.Event) *Events {
	c := &Events{Collection: newCollection[models.Event](models.EventFieldDate)}
	for _, e := range events {
		c.Add(e)
	}
	return c
}

// LoadPrior sets the previous snapshot the collection is diffed against. It can be set
// once; a nil prior is an empty one.
func (c *Events) LoadPrior(prior *Events) error {
	if prior == nil {
		prior = NewEvents()
	}
	if err := c.Collection.LoadPrior(&prior.Collection); err != nil {
		return err
	}
	c.previous = prior
	return nil
}

// PadDayField rewrites every one-character day field in place with a leading zero so
// days order lexicographically. This mutates the stored records.
func (c *Events) PadDayField() {
	for i := range c.records {
		if len(c.records[i].Day) == 1 {
			c.records[i].Day = "0" + c.records[i].Day
		}
	}
}

// SortByDay pads the day fields (see PadDayField) and then sorts by day.
func (c *Events) SortByDay(reverse bool) {
	c.PadDayField()
	c.sortByField(models.EventFieldDay, reverse, compareStrings)
}

func (c *Events) SortByDate(reverse bool) {
	c.sortByField(models.EventFieldDate, reverse, compareStrings)
}

// Fresh returns the records missing from the loaded prior, see DiffEvents.
// Without a loaded prior every record is fresh.
func (c *Events) Fresh() *Events {
	return DiffEvents(c, c.previous)
}
