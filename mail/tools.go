package mail

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/steward-ai/steward/tool"
)

// Mailbox is the surface the email tools need from the IMAP layer. *Client
// satisfies it; tests substitute fakes.
type Mailbox interface {
	SearchMessages(ctx context.Context, opts SearchOptions) ([]Envelope, error)
	ReadMessage(ctx context.Context, folder string, uid uint32) (*Message, error)
	ApplyLabel(ctx context.Context, folder string, uid uint32, label string) error
	CreateDraft(ctx context.Context, opts DraftOptions) (uint32, error)
}

// Toolkit builds the email tools exposed to the model. Label validation
// happens here so a disallowed label surfaces as tool result text the model
// can correct from, never as an execution error.
type Toolkit struct {
	mailbox       Mailbox
	allowedLabels []string
}

// NewToolkit creates an email toolkit over the given mailbox.
func NewToolkit(mailbox Mailbox, allowedLabels []string) *Toolkit {
	return &Toolkit{mailbox: mailbox, allowedLabels: allowedLabels}
}

// Tools returns the email tool set in a stable order.
func (t *Toolkit) Tools() []tool.Tool {
	return []tool.Tool{
		t.draftTool(),
		t.searchTool(),
		t.getTool(),
		t.labelTool(),
	}
}

func (t *Toolkit) draftTool() tool.Tool {
	return tool.NewFunctionTool(
		"draft_email",
		"Create a draft email. Use this when you need to compose an email but not send it immediately. Returns the draft ID that can be used to review the draft later.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"to":      map[string]any{"type": "string", "description": "Recipient email address"},
				"subject": map[string]any{"type": "string", "description": "Email subject line"},
				"body":    map[string]any{"type": "string", "description": "Email body content in markdown"},
				"cc":      map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "CC recipients"},
				"bcc":     map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "BCC recipients"},
			},
			"required": []string{"to", "subject", "body"},
		},
		func(ctx context.Context, args map[string]any) (string, error) {
			opts := DraftOptions{
				To:      stringArg(args, "to"),
				Subject: stringArg(args, "subject"),
				Body:    stringArg(args, "body"),
				Cc:      stringListArg(args, "cc"),
				Bcc:     stringListArg(args, "bcc"),
			}

			uid, err := t.mailbox.CreateDraft(ctx, opts)
			if err != nil {
				return fmt.Sprintf("Error in creating draft email: %s", err), nil
			}

			return fmt.Sprintf(
				"Successfully created draft with ID: %d. The email draft to %s with subject '%s' is ready for review.",
				uid, opts.To, opts.Subject,
			), nil
		},
	)
}

func (t *Toolkit) searchTool() tool.Tool {
	return tool.NewFunctionTool(
		"search_emails",
		"Search emails by free text, sender, or date range. Returns email IDs in a structured format for use with other tools.",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query":       map[string]any{"type": "string", "description": "Free-text search query matched against message content"},
				"from":        map[string]any{"type": "string", "description": "Filter by sender address or name"},
				"since":       map[string]any{"type": "string", "description": "Messages on or after this date (YYYY-MM-DD)"},
				"before":      map[string]any{"type": "string", "description": "Messages before this date (YYYY-MM-DD)"},
				"max_results": map[string]any{"type": "integer", "description": "Maximum number of results to return"},
			},
		},
		func(ctx context.Context, args map[string]any) (string, error) {
			opts := SearchOptions{
				Query: stringArg(args, "query"),
				From:  stringArg(args, "from"),
				Limit: intArg(args, "max_results"),
			}
			if s := stringArg(args, "since"); s != "" {
				if d, err := time.Parse("2006-01-02", s); err == nil {
					opts.Since = d
				}
			}
			if s := stringArg(args, "before"); s != "" {
				if d, err := time.Parse("2006-01-02", s); err == nil {
					opts.Before = d
				}
			}

			envelopes, err := t.mailbox.SearchMessages(ctx, opts)
			if err != nil {
				return fmt.Sprintf("Error in searching emails: %s", err), nil
			}
			if len(envelopes) == 0 {
				return "No emails found matching the search criteria.", nil
			}

			var lines []string
			for i, env := range envelopes {
				lines = append(lines, fmt.Sprintf(
					"Email %d: ID=%d | From: %s | Subject: %s",
					i+1, env.UID, truncate(env.From, 40), truncate(env.Subject, 40),
				))
			}

			var sb strings.Builder
			sb.WriteString(fmt.Sprintf("Found %d emails. Showing first %d:\n", len(envelopes), len(lines)))
			sb.WriteString(strings.Join(lines, "\n"))
			sb.WriteString("\n\nUse the ID value (e.g., '42') with other tools.")
			return sb.String(), nil
		},
	)
}

func (t *Toolkit) getTool() tool.Tool {
	return tool.NewFunctionTool(
		"get_email_content",
		"Retrieve the full content of an email including sender, subject, body, and metadata",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"email_id": map[string]any{"type": "integer", "description": "The email ID returned by search_emails"},
			},
			"required": []string{"email_id"},
		},
		func(ctx context.Context, args map[string]any) (string, error) {
			uid := uint32(intArg(args, "email_id"))
			if uid == 0 {
				return "Error: email_id is required", nil
			}

			msg, err := t.mailbox.ReadMessage(ctx, "", uid)
			if err != nil {
				return fmt.Sprintf("Error in retrieving email %d: %s", uid, err), nil
			}

			var sb strings.Builder
			sb.WriteString(fmt.Sprintf("Email ID: %d\n", msg.UID))
			sb.WriteString(fmt.Sprintf("From: %s\n", msg.From))
			sb.WriteString(fmt.Sprintf("To: %s\n", strings.Join(msg.To, ", ")))
			sb.WriteString(fmt.Sprintf("Subject: %s\n", msg.Subject))
			sb.WriteString(fmt.Sprintf("Date: %s\n", msg.Date.Format("2006-01-02 15:04")))

			body := msg.TextBody
			if body == "" {
				body = msg.HTMLBody
			}
			sb.WriteString(fmt.Sprintf("\nBody:\n%s", truncate(body, 500)))
			return sb.String(), nil
		},
	)
}

func (t *Toolkit) labelTool() tool.Tool {
	description := "Apply a label to an email that has been analyzed. " +
		"Use this after determining which category/label an email belongs to. " +
		"The label must be one of the pre-defined labels configured for the system.\n" +
		"Allowed labels: " + strings.Join(t.allowedLabels, ", ")

	return tool.NewFunctionTool(
		"apply_email_label",
		description,
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"email_id": map[string]any{"type": "integer", "description": "The ID of the email to label"},
				"label":    map[string]any{"type": "string", "description": "The pre-defined label name to apply to the email"},
			},
			"required": []string{"email_id", "label"},
		},
		func(ctx context.Context, args map[string]any) (string, error) {
			uid := uint32(intArg(args, "email_id"))
			label := stringArg(args, "label")

			if !t.labelAllowed(label) {
				return fmt.Sprintf(
					"Error: '%s' is not an allowed label. Allowed labels are: %s",
					label, strings.Join(t.allowedLabels, ", "),
				), nil
			}

			if err := t.mailbox.ApplyLabel(ctx, "", uid, label); err != nil {
				return fmt.Sprintf("Error in applying label to email %d: %s", uid, err), nil
			}

			return fmt.Sprintf("Successfully applied label '%s' to email %d", label, uid), nil
		},
	)
}

func (t *Toolkit) labelAllowed(label string) bool {
	for _, allowed := range t.allowedLabels {
		if strings.EqualFold(allowed, label) {
			return true
		}
	}
	return false
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

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
