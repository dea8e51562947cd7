package parser

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Selectors isolating one record fragment per page.
const (
	gradeSelector        = "a.ocena"
	eventSelector        = "div.kalendarz-dzien table td"
	eventDaySelector     = "div.kalendarz-numer-dnia"
	eventDayContainer    = "div.kalendarz-dzien"
	announcementSelector = "table.decorated"
	attendanceSelector   = `a[href*="/przegladaj_nb/szczegoly/"]`
)

func parseDocument(markup string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse markup: %w", err)
	}
	return doc, nil
}

// render re-serialises a selection so anchors match the escaped form used by the
// portal grammar (attribute values carry "&lt;br&gt;" rather than "<br>").
func render(sel *goquery.Selection) string {
	out, err := goquery.OuterHtml(sel)
	if err != nil {
		return ""
	}
	return out
}
