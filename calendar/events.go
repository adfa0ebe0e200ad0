package calendar

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/emersion/go-webdav/caldav"
	"github.com/google/uuid"
)

// CreateEvent stores a new event and returns its assigned UID.
func (c *Client) CreateEvent(ctx context.Context, event *Event) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureConnected(ctx); err != nil {
		return "", err
	}

	if event.ID == "" {
		event.ID = uuid.NewString()
	}

	cal, err := encodeEvent(event)
	if err != nil {
		return "", err
	}

	if _, err := c.client.PutCalendarObject(ctx, c.objectPath(event.ID), cal); err != nil {
		return "", fmt.Errorf("put event %s: %w", event.ID, err)
	}

	c.logger.Debug("event created", "event.id", event.ID, "event.summary", event.Summary)
	return event.ID, nil
}

// GetEvent fetches a single event by UID.
func (c *Client) GetEvent(ctx context.Context, id string) (*Event, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureConnected(ctx); err != nil {
		return nil, err
	}

	obj, err := c.client.GetCalendarObject(ctx, c.objectPath(id))
	if err != nil {
		return nil, fmt.Errorf("event %s not found: %w", id, err)
	}

	return decodeObject(obj)
}

// PutEvent replaces an existing event. The event must carry the UID of the
// resource being replaced.
func (c *Client) PutEvent(ctx context.Context, event *Event) error {
	if event.ID == "" {
		return fmt.Errorf("event ID required for update")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureConnected(ctx); err != nil {
		return err
	}

	cal, err := encodeEvent(event)
	if err != nil {
		return err
	}

	if _, err := c.client.PutCalendarObject(ctx, c.objectPath(event.ID), cal); err != nil {
		return fmt.Errorf("put event %s: %w", event.ID, err)
	}
	return nil
}

// DeleteEvent removes an event by UID.
func (c *Client) DeleteEvent(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureConnected(ctx); err != nil {
		return err
	}

	if err := c.client.RemoveAll(ctx, c.objectPath(id)); err != nil {
		return fmt.Errorf("delete event %s: %w", id, err)
	}

	c.logger.Debug("event deleted", "event.id", id)
	return nil
}

// SearchEvents queries the collection for events in the given time range
// and filters them by free text. Results are sorted by start time.
func (c *Client) SearchEvents(ctx context.Context, opts SearchOptions) ([]Event, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureConnected(ctx); err != nil {
		return nil, err
	}

	start := opts.Start
	if start.IsZero() {
		start = time.Now()
	}
	end := opts.End
	if end.IsZero() {
		end = start.AddDate(1, 0, 0)
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = 10
	}

	query := &caldav.CalendarQuery{
		CompRequest: caldav.CalendarCompRequest{
			Name: "VCALENDAR",
			Comps: []caldav.CalendarCompRequest{{
				Name:     "VEVENT",
				AllProps: true,
			}},
		},
		CompFilter: caldav.CompFilter{
			Name: "VCALENDAR",
			Comps: []caldav.CompFilter{{
				Name:  "VEVENT",
				Start: start,
				End:   end,
			}},
		},
	}

	objects, err := c.client.QueryCalendar(ctx, c.calendarPath, query)
	if err != nil {
		return nil, fmt.Errorf("query calendar: %w", err)
	}

	var events []Event
	for _, obj := range objects {
		event, err := decodeObject(&obj)
		if err != nil {
			c.logger.Debug("skipping calendar object", "path", obj.Path, "error", err)
			continue
		}
		if opts.Query != "" && !matchesQuery(event, opts.Query) {
			continue
		}
		events = append(events, *event)
	}

	sort.Slice(events, func(i, j int) bool {
		return events[i].Start.Before(events[j].Start)
	})

	if len(events) > limit {
		events = events[:limit]
	}
	return events, nil
}

// matchesQuery reports whether the free-text query appears in the event's
// summary, description, or location.
func matchesQuery(event *Event, query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(event.Summary), q) ||
		strings.Contains(strings.ToLower(event.Description), q) ||
		strings.Contains(strings.ToLower(event.Location), q)
}
