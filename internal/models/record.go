package models

import "strings"

// Domain names one independent extraction and diff pipeline.
type Domain string

const (
	DomainGrades        Domain = "grades"
	DomainEvents        Domain = "events"
	DomainAnnouncements Domain = "announcements"
	DomainAttendance    Domain = "attendance"
)

// AllDomains lists every domain in the order a full sync processes them.
func AllDomains() []Domain {
	return []Domain{DomainGrades, DomainEvents, DomainAnnouncements, DomainAttendance}
}

// Valid returns true when the domain is a supported value.
func (d Domain) Valid() bool {
	switch d {
	case DomainGrades, DomainEvents, DomainAnnouncements, DomainAttendance:
		return true
	default:
		return false
	}
}

// ParseDomain normalises user input into a Domain.
func ParseDomain(raw string) (Domain, bool) {
	d := Domain(strings.ToLower(strings.TrimSpace(raw)))
	return d, d.Valid()
}

// Record is implemented by every normalised record type.
//
// Field exposes the record's field vector by position so sort comparators can address
// any domain uniformly. Positions are part of the record contract.
type Record interface {
	Field(i int) any
	Key() string
	Display() string
}

// Sentinel values for fields the upstream markup did not carry.
const (
	MissingNumber = -1
	MissingText   = ""
)
