package collection

import "github.com/noah-isme/librus-sync/internal/models"

// Announcements collects announcement board notices.
type Announcements struct {
	Collection[models.Announcement]
	previous *Announcements
}

func NewAnnouncements(announcements ...models.Announcement) *Announcements {
	c := &Announcements{Collection: newCollection[models.Announcement](models.AnnouncementFieldDate)}
	for _, a := range announcements {
		c.Add(a)
	}
	return c
}

// LoadPrior sets the previous snapshot the collection is diffed against. It can be set
// once; a nil prior is an empty one.
func (c *Announcements) LoadPrior(prior *Announcements) error {
	if prior == nil {
		prior = NewAnnouncements()
	}
	if err := c.Collection.LoadPrior(&prior.Collection); err != nil {
		return err
	}
	c.previous = prior
	return nil
}

// SortByDate orders announcements by publication pseudo-time.
func (c *Announcements) SortByDate(reverse bool) {
	c.sortByField(models.AnnouncementFieldPseudoTime, reverse, compareNumbers)
}

// Fresh returns the records missing from the loaded prior, see DiffAnnouncements.
// Without a loaded prior every record is fresh.
func (c *Announcements) Fresh() *Announcements {
	return DiffAnnouncements(c, c.previous)
}
