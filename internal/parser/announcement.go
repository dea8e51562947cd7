package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/noah-isme/librus-sync/internal/models"
)

const announcementMarker = "Data publikacji"

var (
	announcementTitleAnchor   = Anchor{Prefixes: []string{"<thead>", `<td colspan="2">`}, Terminators: []string{"</td>"}}
	announcementTeacherAnchor = Anchor{Prefixes: []string{"Dodał</th>", "<td>"}, Terminators: []string{"</td>"}}
	announcementDateAnchor    = Anchor{Prefixes: []string{announcementMarker + "</th>", "<td>"}, Terminators: []string{"</td>"}}
	announcementContentAnchor = Anchor{Prefixes: []string{"Treść</th>", "<td>"}, Terminators: []string{"</td>"}}
)

// ParseAnnouncements extracts every announcement table from the announcements page.
func ParseAnnouncements(markup string) ([]models.Announcement, error) {
	doc, err := parseDocument(markup)
	if err != nil {
		return nil, err
	}
	var announcements []models.Announcement
	doc.Find(announcementSelector).Each(func(_ int, sel *goquery.Selection) {
		fragment := render(sel)
		if !strings.Contains(fragment, announcementMarker) {
			return
		}
		announcements = append(announcements, ExtractAnnouncement(fragment))
	})
	return announcements, nil
}

// ExtractAnnouncement builds an announcement from one rendered announcement table.
func ExtractAnnouncement(fragment string) models.Announcement {
	title, _ := announcementTitleAnchor.Text(fragment)
	teacher, _ := announcementTeacherAnchor.Text(fragment)
	date, _ := announcementDateAnchor.Text(fragment)
	content := models.MissingText
	if raw, ok := announcementContentAnchor.Find(fragment); ok {
		content = cleanBlock(raw)
	}
	return models.NewAnnouncement(models.Announcement{
		Teacher: teacher,
		Date:    date,
		Title:   title,
		Content: content,
	})
}
