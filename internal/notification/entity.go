package notification

import (
	"fmt"
	"net/url"
)

// Notification type constants
const (
	TypeApprovalRequested = "care.approval_requested"
)

// Channel constants for delivery methods
const (
	ChannelLog     = "log"
	ChannelWebhook = "webhook"
)

const DefaultSubject = "CARE Submission Form Approval Required"

// Message is the approval request handed to a Notifier.
type Message struct {
	Type    string `json:"type"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	Link    string `json:"link"`
	UnitID  string `json:"unit_id"`
}

// BuildApprovalLink appends unit_id and rvp_approval=True to the form URL.
func BuildApprovalLink(base, unitID string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid form base url %q: %w", base, err)
	}
	q := u.Query()
	q.Set("unit_id", unitID)
	q.Set("rvp_approval", "True")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// NewApprovalRequest renders the fixed approval email for one recipient.
func NewApprovalRequest(to, subject, link, unitID string) Message {
	if subject == "" {
		subject = DefaultSubject
	}
	body := fmt.Sprintf(
		"Dear RVP,\n\nPlease review and approve the CARE submission form at the following link:\n\n%s\n\nThank you for your attention to this matter.",
		link,
	)
	return Message{
		Type:    TypeApprovalRequested,
		To:      to,
		Subject: subject,
		Body:    body,
		Link:    link,
		UnitID:  unitID,
	}
}
