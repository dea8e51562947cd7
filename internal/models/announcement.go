package models

import (
	"strconv"
	"strings"
)

// Announcement field positions.
const (
	AnnouncementFieldTeacher = iota
	AnnouncementFieldDate
	AnnouncementFieldTitle
	AnnouncementFieldContent
	AnnouncementFieldYear
	AnnouncementFieldMonth
	AnnouncementFieldDay
	AnnouncementFieldPseudoTime
)

// Announcement is a notice from the school's announcement board.
type Announcement struct {
	Teacher    string `json:"teacher"`
	Date       string `json:"date"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	Year       int    `json:"year"`
	Month      int    `json:"month"`
	Day        int    `json:"day"`
	PseudoTime int    `json:"pseudo_time"`
}

// NewAnnouncement splits the publication date and derives the pseudo-time.
func NewAnnouncement(a Announcement) Announcement {
	a.Year, a.Month, a.Day = splitDate(a.Date)
	a.PseudoTime = PseudoTime(a.Year, a.Month, a.Day)
	return a
}

// PseudoTime is a sortable proxy for a date, not a day count.
func PseudoTime(year, month, day int) int {
	return year*365 + month*30 + day
}

func splitDate(date string) (year, month, day int) {
	parts := strings.SplitN(date, "-", 3)
	if len(parts) != 3 {
		return MissingNumber, MissingNumber, MissingNumber
	}
	values := [3]int{}
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return MissingNumber, MissingNumber, MissingNumber
		}
		values[i] = n
	}
	return values[0], values[1], values[2]
}

// Field returns the value at the given position of the announcement's field vector.
func (a Announcement) Field(i int) any {
	switch i {
	case AnnouncementFieldTeacher:
		return a.Teacher
	case AnnouncementFieldDate:
		return a.Date
	case AnnouncementFieldTitle:
		return a.Title
	case AnnouncementFieldContent:
		return a.Content
	case AnnouncementFieldYear:
		return a.Year
	case AnnouncementFieldMonth:
		return a.Month
	case AnnouncementFieldDay:
		return a.Day
	case AnnouncementFieldPseudoTime:
		return a.PseudoTime
	default:
		return nil
	}
}

// Key concatenates date, title and content; two identical notices on different days differ.
func (a Announcement) Key() string {
	return a.Date + a.Title + a.Content
}

// Display renders the canonical representation.
func (a Announcement) Display() string {
	return "[" + a.Date + "] " + a.Title + " - " + a.Teacher + "\n" + a.Content + "\n\n"
}
