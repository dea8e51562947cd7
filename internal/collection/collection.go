// Package collection holds the per-domain record containers, their secondary indices and
// the snapshot diff.
package collection

import (
	"sort"
	"strings"

	"github.com/noah-isme/librus-sync/internal/models"
	appErrors "github.com/noah-isme/librus-sync/pkg/errors"
)

// NoRecordsFound is the display of an empty collection.
const NoRecordsFound = "Nie znaleziono wpisów.\n"

// Collection is an ordered, append-only sequence of records. Indices are additive and
// never pruned.
type Collection[R models.Record] struct {
	records []R
	keys    map[string]struct{}
	dates   map[string]struct{}
	datePos int
	prior   *Collection[R]
}

func newCollection[R models.Record](datePos int) Collection[R] {
	return Collection[R]{
		keys:    make(map[string]struct{}),
		dates:   make(map[string]struct{}),
		datePos: datePos,
	}
}

// Add appends the record and updates the identity and date indices.
func (c *Collection[R]) Add(r R) {
	c.records = append(c.records, r)
	c.keys[r.Key()] = struct{}{}
	if date, ok := r.Field(c.datePos).(string); ok && date != "" {
		c.dates[date] = struct{}{}
	}
}

// AddUnique adds the record unless a record with the same identity key is present.
func (c *Collection[R]) AddUnique(r R) bool {
	if c.HasKey(r.Key()) {
		return false
	}
	c.Add(r)
	return true
}

// Len returns the number of records.
func (c *Collection[R]) Len() int {
	if c == nil {
		return 0
	}
	return len(c.records)
}

// Records returns a copy of the records in their current order.
func (c *Collection[R]) Records() []R {
	if c == nil {
		return nil
	}
	out := make([]R, len(c.records))
	copy(out, c.records)
	return out
}

// HasKey reports whether a record with the identity key was added.
func (c *Collection[R]) HasKey(key string) bool {
	if c == nil {
		return false
	}
	_, ok := c.keys[key]
	return ok
}

// HasDate reports whether any record carried the date.
func (c *Collection[R]) HasDate(date string) bool {
	if c == nil {
		return false
	}
	_, ok := c.dates[date]
	return ok
}

// Display concatenates the canonical strings of every record.
func (c *Collection[R]) Display() string {
	if c.Len() == 0 {
		return NoRecordsFound
	}
	var b strings.Builder
	for _, r := range c.records {
		b.WriteString(r.Display())
	}
	return b.String()
}

// LoadPrior sets the previous snapshot used for diffing. It can be set once.
func (c *Collection[R]) LoadPrior(prior *Collection[R]) error {
	if c.prior != nil {
		return appErrors.Clone(appErrors.ErrPriorLoaded, "")
	}
	if prior == nil {
		empty := newCollection[R](c.datePos)
		prior = &empty
	}
	c.prior = prior
	return nil
}

// Prior returns the loaded previous snapshot, or nil.
func (c *Collection[R]) Prior() *Collection[R] {
	return c.prior
}

// sortByField reorders the records by one field position. Equal elements keep their
// relative order in both directions.
func (c *Collection[R]) sortByField(pos int, reverse bool, cmp func(a, b any) int) {
	sort.SliceStable(c.records, func(i, j int) bool {
		res := cmp(c.records[i].Field(pos), c.records[j].Field(pos))
		if reverse {
			return res > 0
		}
		return res < 0
	})
}

func compareNumbers(a, b any) int {
	x, y := toFloat(a), toFloat(b)
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}

func compareStrings(a, b any) int {
	x, _ := a.(string)
	y, _ := b.(string)
	return strings.Compare(x, y)
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case float64:
		return n
	default:
		return 0
	}
}
