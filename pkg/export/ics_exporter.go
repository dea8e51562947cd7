package export

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
)

// CalendarEntry is one all-day calendar item.
type CalendarEntry struct {
	UID         string
	Date        time.Time
	Summary     string
	Description string
}

// ICSExporter renders calendar entries as an iCalendar feed.
type ICSExporter struct {
	productID string
}

func NewICSExporter(productID string) *ICSExporter {
	if productID == "" {
		productID = "-//librus-sync//PL"
	}
	return &ICSExporter{productID: productID}
}

// Render produces a VCALENDAR with one all-day VEVENT per entry.
func (e *ICSExporter) Render(name string, entries []CalendarEntry) ([]byte, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(e.productID)
	if name != "" {
		cal.SetXWRCalName(name)
	}
	stamp := time.Now().UTC()
	for _, entry := range entries {
		if entry.UID == "" {
			return nil, fmt.Errorf("calendar entry without uid")
		}
		event := cal.AddEvent(entry.UID)
		event.SetDtStampTime(stamp)
		event.SetAllDayStartAt(entry.Date)
		event.SetAllDayEndAt(entry.Date.AddDate(0, 0, 1))
		event.SetSummary(entry.Summary)
		if entry.Description != "" {
			event.SetDescription(entry.Description)
		}
	}
	return []byte(cal.Serialize()), nil
}
