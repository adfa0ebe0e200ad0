// Package mail provides the email sub-agent's IMAP backend: searching,
// reading, labeling, and draft creation over a single account, plus the
// markdown-to-MIME compose layer and the tool definitions exposed to the
// model.
package mail

import (
	"io"
	"time"

	"github.com/emersion/go-imap/v2"
)

// Config describes the email account the sub-agent operates on.
type Config struct {
	// Host and Port locate the IMAP server. Connections always use TLS.
	Host string
	Port int

	// Username and Password authenticate the account.
	Username string
	Password string

	// FromAddress and FromName identify the sender on composed drafts.
	FromAddress string
	FromName    string

	// DraftsFolder is the mailbox drafts are appended to. Default "Drafts".
	DraftsFolder string

	// AllowedLabels is the closed set of labels the agent may apply.
	AllowedLabels []string
}

// drainLiteral reads and discards the contents of an IMAP literal reader so
// the IMAP stream stays in sync. Nil readers are handled gracefully.
func drainLiteral(r imap.LiteralReader) {
	if r == nil {
		return
	}
	_, _ = io.Copy(io.Discard, r)
}

// Envelope is the summary metadata for an email message, suitable for
// search results.
type Envelope struct {
	// UID is the IMAP unique identifier for this message within its folder.
	UID uint32

	// Date is the message's Date header.
	Date time.Time

	// From is the sender, formatted as "Name <addr>" or just the address.
	From string

	// To is the list of recipients.
	To []string

	// Subject is the message subject line.
	Subject string

	// Flags contains IMAP flags and keywords (e.g., \Seen, Work).
	Flags []string
}

// Message is a fully-fetched email with body content extracted from the
// MIME structure.
type Message struct {
	Envelope

	// TextBody is the plain-text body content. Preferred over HTMLBody for
	// model consumption.
	TextBody string

	// HTMLBody is the raw HTML body, if present.
	HTMLBody string
}

// SearchOptions controls email search behavior.
type SearchOptions struct {
	// Folder is the mailbox to search. Default: "INBOX".
	Folder string

	// Query is a free-text string to match against message content.
	Query string

	// From filters by sender address or name.
	From string

	// Since filters for messages on or after this date.
	Since time.Time

	// Before filters for messages before this date.
	Before time.Time

	// Limit is the maximum number of results. Default: 10.
	Limit int
}

// DraftOptions describes a draft to compose and store in the drafts folder.
// The Body field contains markdown that the compose layer converts to both
// text/plain and text/html MIME parts.
type DraftOptions struct {
	// To is the recipient address (required).
	To string

	// Cc is the list of CC addresses.
	Cc []string

	// Bcc is the list of BCC addresses.
	Bcc []string

	// Subject is the email subject line (required).
	Subject string

	// Body is the message body in markdown format (required).
	Body string
}
