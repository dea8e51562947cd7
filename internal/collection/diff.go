package collection

import "github.com/noah-isme/librus-sync/internal/models"

// DiffGrades returns the grades of current missing from prior. A grade whose identifier
// is known but whose date never appeared in prior is also new, since the portal reuses
// identifiers across school years. A grade without a date is matched on its identifier
// alone.
func DiffGrades(current, prior *Grades) *Grades {
	out := NewGrades()
	for _, g := range current.records {
		if prior == nil || !prior.HasKey(g.Key()) || (g.Date != models.MissingText && !prior.HasDate(g.Date)) {
			out.Add(g)
		}
	}
	return out
}

// DiffEvents returns the events of current whose identifier is missing from prior.
// Events without a resolvable identifier all carry 0, so once prior holds one of them
// (a cancelled lesson, a holiday without a link) no later id-0 event is reported.
func DiffEvents(current, prior *Events) *Events {
	out := NewEvents()
	for _, e := range current.records {
		if prior == nil || !prior.HasKey(e.Key()) {
			out.Add(e)
		}
	}
	return out
}

// DiffAnnouncements returns the announcements of current whose date, title and content
// concatenation is missing from prior.
func DiffAnnouncements(current, prior *Announcements) *Announcements {
	out := NewAnnouncements()
	for _, a := range current.records {
		if prior == nil || !prior.HasKey(a.Key()) {
			out.Add(a)
		}
	}
	return out
}

// DiffAttendance splits the entries of current missing from prior into added entries
// (unknown id) and modified entries (known id with a different code).
func DiffAttendance(current, prior *Attendance) (added, modified *Attendance) {
	added, modified = NewAttendance(), NewAttendance()
	for _, a := range current.records {
		switch {
		case prior == nil || !prior.HasKey(a.Key()):
			added.Add(a)
		case !prior.HasComposite(a.CompositeKey()):
			modified.Add(a)
		}
	}
	return added, modified
}

// Merge returns one collection holding added entries followed by modified ones.
func Merge(added, modified *Attendance) *Attendance {
	out := NewAttendance(added.records...)
	for _, a := range modified.records {
		out.Add(a)
	}
	return out
}

var (
	_ models.Record = models.Grade{}
	_ models.Record = models.Event{}
	_ models.Record = models.Announcement{}
	_ models.Record = models.Attendance{}
)
