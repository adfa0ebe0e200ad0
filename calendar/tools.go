package calendar

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/steward-ai/steward/tool"
)

// API is the surface the calendar tools need from the CalDAV layer.
// *Client satisfies it; tests substitute fakes.
type API interface {
	CreateEvent(ctx context.Context, event *Event) (string, error)
	SearchEvents(ctx context.Context, opts SearchOptions) ([]Event, error)
	GetEvent(ctx context.Context, id string) (*Event, error)
	PutEvent(ctx context.Context, event *Event) error
	DeleteEvent(ctx context.Context, id string) error
}

// Toolkit builds the calendar tools exposed to the model.
type Toolkit struct {
	api API
}

// NewToolkit creates a calendar toolkit over the given backend.
func NewToolkit(api API) *Toolkit {
	return &Toolkit{api: api}
}

// Tools returns the calendar tool set in a stable order.
func (t *Toolkit) Tools() []tool.Tool {
	return []tool.Tool{
		t.createTool(),
		t.searchTool(),
		t.updateTool(),
		t.deleteTool(),
		t.getTool(),
	}
}

// Accepted time layouts: a timed event ("2025-01-15 14:00") or an all-day
// date ("2025-01-15").
const (
	timedLayout = "2006-01-02 15:04"
	dayLayout   = "2006-01-02"
)

// parseEventTime parses a tool-supplied time string and reports whether it
// was date-only.
func parseEventTime(s string) (time.Time, bool, error) {
	if ts, err := time.ParseInLocation(timedLayout, s, time.Local); err == nil {
		return ts, false, nil
	}
	if d, err := time.ParseInLocation(dayLayout, s, time.Local); err == nil {
		return d, true, nil
	}
	return time.Time{}, false, fmt.Errorf("could not parse time %q (expected '%s' or '%s')", s, timedLayout, dayLayout)
}

func (t *Toolkit) createTool() tool.Tool {
	return tool.NewFunctionTool(
		"create_calendar_event",
		"Create a new calendar event. Specify start and end times as 'YYYY-MM-DD HH:MM' for timed events or 'YYYY-MM-DD' for all-day events. Returns the event ID.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"summary":     map[string]any{"type": "string", "description": "Event title/summary"},
				"start_time":  map[string]any{"type": "string", "description": "Start time (e.g., '2025-01-15 14:00' or '2025-01-15' for all-day)"},
				"end_time":    map[string]any{"type": "string", "description": "End time (same format as start_time)"},
				"description": map[string]any{"type": "string", "description": "Event description"},
				"location":    map[string]any{"type": "string", "description": "Event location"},
				"attendees":   map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "List of attendee email addresses"},
			},
			"required": []string{"summary", "start_time", "end_time"},
		},
		func(ctx context.Context, args map[string]any) (string, error) {
			start, startAllDay, err := parseEventTime(stringArg(args, "start_time"))
			if err != nil {
				return fmt.Sprintf("Error in creating calendar event: %s", err), nil
			}
			end, endAllDay, err := parseEventTime(stringArg(args, "end_time"))
			if err != nil {
				return fmt.Sprintf("Error in creating calendar event: %s", err), nil
			}

			event := &Event{
				Summary:     stringArg(args, "summary"),
				Start:       start,
				End:         end,
				AllDay:      startAllDay && endAllDay,
				Description: stringArg(args, "description"),
				Location:    stringArg(args, "location"),
				Attendees:   stringListArg(args, "attendees"),
			}
			// An all-day event ending on its start date spans that whole day;
			// iCalendar end dates are exclusive.
			if event.AllDay && !event.End.After(event.Start) {
				event.End = event.Start.AddDate(0, 0, 1)
			}

			id, err := t.api.CreateEvent(ctx, event)
			if err != nil {
				return fmt.Sprintf("Error in creating calendar event: %s", err), nil
			}

			return fmt.Sprintf("Successfully created event '%s' with ID: %s", event.Summary, id), nil
		},
	)
}

func (t *Toolkit) searchTool() tool.Tool {
	return tool.NewFunctionTool(
		"search_calendar_events",
		"Search for calendar events by text or time range. Returns event IDs and basic info for further operations.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query":       map[string]any{"type": "string", "description": "Search query for event text"},
				"time_min":    map[string]any{"type": "string", "description": "Start of time range (YYYY-MM-DD)"},
				"time_max":    map[string]any{"type": "string", "description": "End of time range (YYYY-MM-DD)"},
				"max_results": map[string]any{"type": "integer", "description": "Maximum number of results"},
			},
		},
		func(ctx context.Context, args map[string]any) (string, error) {
			opts := SearchOptions{
				Query: stringArg(args, "query"),
				Limit: intArg(args, "max_results"),
			}
			if s := stringArg(args, "time_min"); s != "" {
				min, _, err := parseEventTime(s)
				if err != nil {
					return fmt.Sprintf("Error in searching calendar events: %s", err), nil
				}
				opts.Start = min
			}
			if s := stringArg(args, "time_max"); s != "" {
				max, allDay, err := parseEventTime(s)
				if err != nil {
					return fmt.Sprintf("Error in searching calendar events: %s", err), nil
				}
				if allDay {
					max = max.AddDate(0, 0, 1)
				}
				opts.End = max
			}

			events, err := t.api.SearchEvents(ctx, opts)
			if err != nil {
				return fmt.Sprintf("Error in searching calendar events: %s", err), nil
			}
			if len(events) == 0 {
				return "No events found matching the criteria.", nil
			}

			var lines []string
			for i, event := range events {
				lines = append(lines, fmt.Sprintf(
					"Event %d: ID=%s | %s | %s",
					i+1, event.ID, formatEventTime(&event), truncate(event.Summary, 50),
				))
			}

			var sb strings.Builder
			sb.WriteString(fmt.Sprintf("Found %d events:\n", len(events)))
			sb.WriteString(strings.Join(lines, "\n"))
			sb.WriteString("\n\nUse the ID value with other tools to update or delete events.")
			return sb.String(), nil
		},
	)
}

func (t *Toolkit) updateTool() tool.Tool {
	return tool.NewFunctionTool(
		"update_calendar_event",
		"Update an existing calendar event. Only provide the fields you want to change.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"event_id":    map[string]any{"type": "string", "description": "The calendar event ID"},
				"summary":     map[string]any{"type": "string", "description": "New event title"},
				"start_time":  map[string]any{"type": "string", "description": "New start time"},
				"end_time":    map[string]any{"type": "string", "description": "New end time"},
				"description": map[string]any{"type": "string", "description": "New description"},
				"location":    map[string]any{"type": "string", "description": "New location"},
			},
			"required": []string{"event_id"},
		},
		func(ctx context.Context, args map[string]any) (string, error) {
			id := stringArg(args, "event_id")

			event, err := t.api.GetEvent(ctx, id)
			if err != nil {
				return fmt.Sprintf("Error in updating event %s: %s", id, err), nil
			}

			if s := stringArg(args, "summary"); s != "" {
				event.Summary = s
			}
			if s := stringArg(args, "description"); s != "" {
				event.Description = s
			}
			if s := stringArg(args, "location"); s != "" {
				event.Location = s
			}
			if s := stringArg(args, "start_time"); s != "" {
				start, allDay, err := parseEventTime(s)
				if err != nil {
					return fmt.Sprintf("Error in updating event %s: %s", id, err), nil
				}
				event.Start = start
				event.AllDay = allDay
			}
			if s := stringArg(args, "end_time"); s != "" {
				end, _, err := parseEventTime(s)
				if err != nil {
					return fmt.Sprintf("Error in updating event %s: %s", id, err), nil
				}
				event.End = end
			}

			if err := t.api.PutEvent(ctx, event); err != nil {
				return fmt.Sprintf("Error in updating event %s: %s", id, err), nil
			}

			return fmt.Sprintf("Successfully updated event '%s' (ID: %s)", event.Summary, id), nil
		},
	)
}

func (t *Toolkit) deleteTool() tool.Tool {
	return tool.NewFunctionTool(
		"delete_calendar_event",
		"Delete a calendar event by its ID",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"event_id": map[string]any{"type": "string", "description": "The calendar event ID to delete"},
			},
			"required": []string{"event_id"},
		},
		func(ctx context.Context, args map[string]any) (string, error) {
			id := stringArg(args, "event_id")

			// Best-effort fetch so the confirmation can name the event.
			summary := "Unknown"
			if event, err := t.api.GetEvent(ctx, id); err == nil {
				summary = event.Summary
			}

			if err := t.api.DeleteEvent(ctx, id); err != nil {
				return fmt.Sprintf("Error in deleting event %s: %s", id, err), nil
			}

			return fmt.Sprintf("Successfully deleted event '%s' (ID: %s)", summary, id), nil
		},
	)
}

func (t *Toolkit) getTool() tool.Tool {
	return tool.NewFunctionTool(
		"get_calendar_event",
		"Get full details of a calendar event",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"event_id": map[string]any{"type": "string", "description": "The calendar event ID"},
			},
			"required": []string{"event_id"},
		},
		func(ctx context.Context, args map[string]any) (string, error) {
			id := stringArg(args, "event_id")

			event, err := t.api.GetEvent(ctx, id)
			if err != nil {
				return fmt.Sprintf("Error in retrieving event %s: %s", id, err), nil
			}

			var sb strings.Builder
			sb.WriteString(fmt.Sprintf("Event ID: %s\n", event.ID))
			sb.WriteString(fmt.Sprintf("Title: %s\n", event.Summary))
			sb.WriteString(fmt.Sprintf("Start: %s\n", formatTime(event.Start, event.AllDay)))
			sb.WriteString(fmt.Sprintf("End: %s\n", formatTime(event.End, event.AllDay)))

			if event.Location != "" {
				sb.WriteString(fmt.Sprintf("Location: %s\n", event.Location))
			}
			if event.Description != "" {
				sb.WriteString(fmt.Sprintf("Description: %s\n", event.Description))
			}
			if len(event.Attendees) > 0 {
				sb.WriteString(fmt.Sprintf("Attendees: %s\n", strings.Join(event.Attendees, ", ")))
			}

			return strings.TrimSuffix(sb.String(), "\n"), nil
		},
	)
}

// --- Formatting helpers ---

func formatEventTime(event *Event) string {
	return formatTime(event.Start, event.AllDay)
}

func formatTime(t time.Time, allDay bool) string {
	if allDay {
		return t.Format(dayLayout)
	}
	return t.Format(timedLayout)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// --- Argument extraction helpers ---

func stringArg(args map[string]any, key string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return ""
}

func intArg(args map[string]any, key string) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}

func stringListArg(args map[string]any, key string) []string {
	raw, ok := args[key].([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
