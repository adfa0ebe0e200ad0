package mail

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
	"github.com/emersion/go-message"
	gomail "github.com/emersion/go-message/mail"
)

// maxBodySize is the maximum body size to include in a message. Larger
// bodies are truncated with a note.
const maxBodySize = 32 * 1024

// maxRawMessageSize is the maximum raw RFC822 message size to buffer when
// reading from the IMAP literal. Messages larger than this (e.g. with huge
// attachments) are truncated; the remainder of the literal is drained to
// keep the IMAP stream in sync.
const maxRawMessageSize = 5 * 1024 * 1024

// ReadMessage fetches and parses a single message by UID from the specified
// folder. The MIME structure is walked to extract text/plain and text/html
// bodies.
func (c *Client) ReadMessage(ctx context.Context, folder string, uid uint32) (*Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureConnected(ctx); err != nil {
		return nil, err
	}

	if _, err := c.selectFolder(folder); err != nil {
		return nil, err
	}

	uidSet := imap.UIDSet{}
	uidSet.AddNum(imap.UID(uid))

	fetchOpts := &imap.FetchOptions{
		UID:      true,
		Envelope: true,
		Flags:    true,
		BodySection: []*imap.FetchItemBodySection{
			{Peek: false}, // Mark as \Seen; reading means read.
		},
	}

	fetchCmd := c.client.Fetch(uidSet, fetchOpts)

	msg := fetchCmd.Next()
	if msg == nil {
		_ = fetchCmd.Close()
		return nil, fmt.Errorf("message UID %d not found in %s", uid, folderName(folder))
	}

	result := &Message{}
	var rawBody []byte

	for {
		item := msg.Next()
		if item == nil {
			break
		}

		switch data := item.(type) {
		case imapclient.FetchItemDataUID:
			result.UID = uint32(data.UID)
		case imapclient.FetchItemDataFlags:
			for _, f := range data.Flags {
				result.Flags = append(result.Flags, string(f))
			}
		case imapclient.FetchItemDataEnvelope:
			if data.Envelope != nil {
				result.Date = data.Envelope.Date
				result.Subject = data.Envelope.Subject
				if len(data.Envelope.From) > 0 {
					result.From = formatAddress(data.Envelope.From[0])
				}
				for _, addr := range data.Envelope.To {
					result.To = append(result.To, formatAddress(addr))
				}
			}
		case imapclient.FetchItemDataBodySection:
			// Consume the literal immediately. go-imap/v2 streams data from
			// the connection; msg.Next() advances past unread literals, so
			// deferring the read would lose the body data.
			if data.Literal == nil {
				c.logger.Debug("nil body literal", "uid", uid)
				continue
			}
			var readErr error
			rawBody, readErr = io.ReadAll(io.LimitReader(data.Literal, maxRawMessageSize))
			drainLiteral(data.Literal)
			if readErr != nil {
				c.logger.Debug("error reading body literal", "uid", uid, "error", readErr)
				rawBody = nil
			}
		}
	}

	if rawBody != nil {
		if err := c.parseBody(result, bytes.NewReader(rawBody)); err != nil {
			c.logger.Debug("body parse error", "uid", uid, "error", err)
		}
	}

	if err := fetchCmd.Close(); err != nil {
		return nil, fmt.Errorf("fetch message UID %d: %w", uid, err)
	}

	return result, nil
}

// parseBody walks the MIME structure and extracts text content.
//
// The go-message library's mail.CreateReader and NextPart may return both a
// valid reader/part AND an error when the message uses an unknown charset
// or transfer encoding. Those are treated as non-fatal; the content may be
// slightly garbled but is still useful.
func (c *Client) parseBody(msg *Message, r io.Reader) error {
	mailReader, err := gomail.CreateReader(r)
	if err != nil && !message.IsUnknownCharset(err) {
		return fmt.Errorf("create mail reader: %w", err)
	}
	if mailReader == nil {
		return fmt.Errorf("create mail reader returned nil: %v", err)
	}

	for {
		part, err := mailReader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil && !message.IsUnknownCharset(err) {
			return fmt.Errorf("next part: %w", err)
		}
		if part == nil {
			continue
		}

		var contentType string
		switch h := part.Header.(type) {
		case *gomail.InlineHeader:
			contentType, _, _ = h.ContentType()
		case *gomail.AttachmentHeader:
			// Skip attachment bodies.
			continue
		default:
			continue
		}

		switch {
		case contentType == "text/plain" && msg.TextBody == "":
			msg.TextBody = readPart(part.Body)
		case contentType == "text/html" && msg.HTMLBody == "":
			msg.HTMLBody = readPart(part.Body)
		}
	}

	return nil
}

// readPart reads a body part up to maxBodySize, appending a truncation note
// when the limit is hit.
func readPart(r io.Reader) string {
	body, err := io.ReadAll(io.LimitReader(r, maxBodySize+1))
	if err != nil {
		return ""
	}
	text := string(body)
	if len(body) > maxBodySize {
		text = text[:maxBodySize] + "\n\n[truncated]"
	}
	return strings.TrimSpace(text)
}

func folderName(folder string) string {
	if folder == "" {
		return "INBOX"
	}
	return folder
}
