package mail

import (
	"context"
	"fmt"

	"github.com/emersion/go-imap/v2"
)

// CreateDraft composes an RFC 5322 message from the given options and
// appends it to the drafts folder with the \Draft flag set. Returns the UID
// the server assigned, or 0 if the server did not report one (UIDPLUS not
// supported).
func (c *Client) CreateDraft(ctx context.Context, opts DraftOptions) (uint32, error) {
	from := c.cfg.FromAddress
	if c.cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", c.cfg.FromName, c.cfg.FromAddress)
	}

	raw, err := ComposeMessage(ComposeOptions{
		From:    from,
		To:      []string{opts.To},
		Cc:      opts.Cc,
		Bcc:     opts.Bcc,
		Subject: opts.Subject,
		Body:    opts.Body,
	})
	if err != nil {
		return 0, fmt.Errorf("compose draft: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureConnected(ctx); err != nil {
		return 0, err
	}

	appendCmd := c.client.Append(c.cfg.DraftsFolder, int64(len(raw)), &imap.AppendOptions{
		Flags: []imap.Flag{imap.FlagDraft},
	})
	if _, err := appendCmd.Write(raw); err != nil {
		return 0, fmt.Errorf("write draft to %s: %w", c.cfg.DraftsFolder, err)
	}
	if err := appendCmd.Close(); err != nil {
		return 0, fmt.Errorf("close draft append: %w", err)
	}

	data, err := appendCmd.Wait()
	if err != nil {
		return 0, fmt.Errorf("append draft to %s: %w", c.cfg.DraftsFolder, err)
	}

	return uint32(data.UID), nil
}
