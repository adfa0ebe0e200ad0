package mail

import (
	"context"
	"fmt"

	"github.com/emersion/go-imap/v2"
)

// ApplyLabel attaches a label to the message with the given UID. Labels are
// stored as IMAP keywords, which most servers (including Gmail's IMAP
// bridge) map onto their native label or category mechanism. Validation
// against the allowed label set happens in the tool layer, where a failure
// must surface as conversational text rather than an error.
func (c *Client) ApplyLabel(ctx context.Context, folder string, uid uint32, label string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureConnected(ctx); err != nil {
		return err
	}

	if _, err := c.selectFolder(folder); err != nil {
		return err
	}

	uidSet := imap.UIDSet{}
	uidSet.AddNum(imap.UID(uid))

	storeCmd := c.client.Store(uidSet, &imap.StoreFlags{
		Op:     imap.StoreFlagsAdd,
		Silent: true,
		Flags:  []imap.Flag{imap.Flag(label)},
	}, nil)

	if err := storeCmd.Close(); err != nil {
		return fmt.Errorf("store label %q on UID %d: %w", label, uid, err)
	}

	return nil
}
