package parser

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/noah-isme/librus-sync/internal/models"
)

var monthNames = [...]string{
	"styczeń", "luty", "marzec", "kwiecień", "maj", "czerwiec",
	"lipiec", "sierpień", "wrzesień", "październik", "listopad", "grudzień",
}

// MonthName returns the Polish name of a month (1-12) or "" when out of range.
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return models.MissingText
	}
	return monthNames[month-1]
}

var (
	eventYearAnchor        = Anchor{Prefixes: []string{`name="rok" value="`}, Terminators: []string{`"`}}
	eventMonthAnchor       = Anchor{Prefixes: []string{`name="miesiac" value="`}, Terminators: []string{`"`}}
	eventTeacherAnchor     = titleAnchor("Nauczyciel: ")
	eventLessonAnchor      = titleAnchor("Nr lekcji: ")
	eventTypeLabelAnchor   = titleAnchor("Rodzaj: ")
	eventDescriptionAnchor = titleAnchor("Opis: ")
	eventIDAnchors         = []Anchor{
		{Prefixes: []string{"/terminarz/szczegoly/"}},
		{Prefixes: []string{"/terminarz/szczegoly_wolne/"}},
		{Prefixes: []string{"/terminarz/szczegoly_wywiadowki/"}},
	}
)

// CalendarPage carries the page-level context every calendar cell needs.
type CalendarPage struct {
	Year      int
	Month     int
	MonthName string
}

// ParseCalendarPage reads the displayed month and year from the calendar form.
func ParseCalendarPage(page string) CalendarPage {
	year, _ := eventYearAnchor.Int(page)
	month, _ := eventMonthAnchor.Int(page)
	return CalendarPage{Year: year, Month: month, MonthName: MonthName(month)}
}

// EventExtractor turns calendar cells into events. A lesson-spanning entry is rendered
// once per lesson cell, so the extractor remembers which days already produced a
// record for each qualifier and drops repeats.
type EventExtractor struct {
	seen map[string]map[string]struct{}
}

// NewEventExtractor returns an extractor with empty dedup state.
func NewEventExtractor() *EventExtractor {
	return &EventExtractor{seen: make(map[string]map[string]struct{})}
}

// Extract builds the event for one rendered calendar cell shown on the given day.
// It returns false when the qualifier already produced an event on that day.
func (x *EventExtractor) Extract(fragment, qualifier, day string, page CalendarPage) (models.Event, bool) {
	qualifier = clean(qualifier)
	day = strings.TrimSpace(day)
	days, ok := x.seen[qualifier]
	if !ok {
		days = make(map[string]struct{})
		x.seen[qualifier] = days
	}
	if _, dup := days[day]; dup {
		return models.Event{}, false
	}
	days[day] = struct{}{}

	teacher, _ := eventTeacherAnchor.Text(fragment)
	lessons, _ := eventLessonAnchor.Text(fragment)
	label, _ := eventTypeLabelAnchor.Text(fragment)
	description, _ := eventDescriptionAnchor.Text(fragment)

	return models.NewEvent(models.Event{
		Qualifier:   qualifier,
		Date:        eventDate(page, day),
		Teacher:     teacher,
		LessonRange: lessons,
		Day:         day,
		Month:       page.MonthName,
		Year:        page.Year,
		TypeLabel:   label,
		Type:        ClassifyEvent(fragment),
		Description: description,
		ID:          eventID(fragment),
	}), true
}

// ParseEvents extracts every calendar entry of the month page.
func ParseEvents(markup string) ([]models.Event, error) {
	doc, err := parseDocument(markup)
	if err != nil {
		return nil, err
	}
	page := ParseCalendarPage(markup)
	extractor := NewEventExtractor()
	var events []models.Event
	doc.Find(eventSelector).Each(func(_ int, sel *goquery.Selection) {
		day := sel.Closest(eventDayContainer).Find(eventDaySelector).First().Text()
		if e, ok := extractor.Extract(render(sel), sel.Text(), day, page); ok {
			events = append(events, e)
		}
	})
	return events, nil
}

// eventID returns 0 when no details link is present.
func eventID(fragment string) int {
	for _, anchor := range eventIDAnchors {
		if id, ok := anchor.Int(fragment); ok {
			return id
		}
	}
	return 0
}

func eventDate(page CalendarPage, day string) string {
	d, ok := leadingInt(day)
	if !ok || page.Year <= 0 || page.MonthName == "" {
		return models.MissingText
	}
	return fmt.Sprintf("%04d-%02d-%02d", page.Year, page.Month, d)
}
