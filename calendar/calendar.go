// Package calendar provides the calendar sub-agent's CalDAV backend: event
// creation, search, retrieval, update, and deletion against a discovered
// calendar collection, plus the tool definitions exposed to the model.
package calendar

import "time"

// Config describes the CalDAV account the sub-agent operates on.
type Config struct {
	// URL is the CalDAV endpoint used for discovery.
	URL string

	// Username and Password authenticate via HTTP basic auth.
	Username string
	Password string

	// Calendar selects a calendar collection by display name. Empty picks
	// the first collection that supports events.
	Calendar string
}

// Event is a single calendar event in the form the tools work with.
type Event struct {
	// ID is the event's iCalendar UID, unique within the calendar.
	ID string

	// Summary is the event title.
	Summary string

	// Start and End bound the event. For all-day events only the date
	// portion is meaningful.
	Start time.Time
	End   time.Time

	// AllDay marks a date-only event.
	AllDay bool

	// Description and Location are optional free text.
	Description string
	Location    string

	// Attendees is the list of attendee email addresses.
	Attendees []string
}

// SearchOptions controls event search behavior.
type SearchOptions struct {
	// Query is a free-text filter matched case-insensitively against event
	// summaries, descriptions, and locations.
	Query string

	// Start and End bound the searched time range. A zero Start defaults to
	// now; a zero End defaults to one year ahead.
	Start time.Time
	End   time.Time

	// Limit is the maximum number of results. Default: 10.
	Limit int
}
