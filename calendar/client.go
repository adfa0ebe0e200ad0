package calendar

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/emersion/go-webdav"
	"github.com/emersion/go-webdav/caldav"

	"github.com/steward-ai/steward/logging"
)

// Client wraps a CalDAV collection behind the calendar operations the tools
// need. Discovery (principal, home set, collection) runs once on first use
// and is cached; all public methods are goroutine-safe.
type Client struct {
	cfg    Config
	logger logging.Logger

	mu           sync.Mutex
	client       *caldav.Client
	calendarPath string
}

// NewClient creates a CalDAV client for the given account configuration.
// Discovery happens lazily on first use; call Connect for eager credential
// validation at startup.
func NewClient(cfg Config, logger logging.Logger) *Client {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &Client{cfg: cfg, logger: logger}
}

// Connect performs CalDAV discovery and locates the configured calendar
// collection. Fails if the credentials are rejected or no usable calendar
// exists.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connectLocked(ctx)
}

// connectLocked performs the actual discovery. Caller must hold c.mu.
func (c *Client) connectLocked(ctx context.Context) error {
	httpClient := webdav.HTTPClientWithBasicAuth(http.DefaultClient, c.cfg.Username, c.cfg.Password)
	client, err := caldav.NewClient(httpClient, c.cfg.URL)
	if err != nil {
		return fmt.Errorf("create caldav client for %s: %w", c.cfg.URL, err)
	}

	principal, err := client.FindCurrentUserPrincipal(ctx)
	if err != nil {
		return fmt.Errorf("find principal at %s: %w", c.cfg.URL, err)
	}

	homeSet, err := client.FindCalendarHomeSet(ctx, principal)
	if err != nil {
		return fmt.Errorf("find calendar home set: %w", err)
	}

	calendars, err := client.FindCalendars(ctx, homeSet)
	if err != nil {
		return fmt.Errorf("list calendars: %w", err)
	}

	path := ""
	for _, cal := range calendars {
		if !supportsEvents(cal) {
			continue
		}
		if c.cfg.Calendar == "" || cal.Name == c.cfg.Calendar {
			path = cal.Path
			break
		}
	}
	if path == "" {
		if c.cfg.Calendar != "" {
			return fmt.Errorf("calendar %q not found at %s", c.cfg.Calendar, c.cfg.URL)
		}
		return fmt.Errorf("no event calendar found at %s", c.cfg.URL)
	}

	c.client = client
	c.calendarPath = path
	c.logger.Info("CalDAV connected", "url", c.cfg.URL, "calendar", path)
	return nil
}

// ensureConnected runs discovery if it has not happened yet. Caller must
// hold c.mu.
func (c *Client) ensureConnected(ctx context.Context) error {
	if c.client != nil {
		return nil
	}
	return c.connectLocked(ctx)
}

// supportsEvents reports whether the collection accepts VEVENT components.
// An empty component set means the server did not advertise one; assume
// events are fine.
func supportsEvents(cal caldav.Calendar) bool {
	if len(cal.SupportedComponentSet) == 0 {
		return true
	}
	for _, comp := range cal.SupportedComponentSet {
		if comp == "VEVENT" {
			return true
		}
	}
	return false
}

// objectPath returns the resource path for an event UID within the
// discovered collection.
func (c *Client) objectPath(uid string) string {
	return c.calendarPath + uid + ".ics"
}
