package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// Notifier delivers approval requests to an external channel.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// LogNotifier writes the message to the log instead of sending it, for
// setups where the initiator forwards the link by hand.
type LogNotifier struct {
	log logrus.FieldLogger
}

func NewLogNotifier(log logrus.FieldLogger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Send(ctx context.Context, msg Message) error {
	n.log.WithFields(logrus.Fields{
		"channel": ChannelLog,
		"to":      msg.To,
		"subject": msg.Subject,
		"unit_id": msg.UnitID,
		"link":    msg.Link,
	}).Info("approval request")
	return nil
}

// WebhookNotifier posts the message as JSON to a mail relay.
type WebhookNotifier struct {
	client *resty.Client
	url    string
}

func NewWebhookNotifier(url string) *WebhookNotifier {
	client := resty.New().
		SetTimeout(10*time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	return &WebhookNotifier{client: client, url: url}
}

func (n *WebhookNotifier) Send(ctx context.Context, msg Message) error {
	resp, err := n.client.R().
		SetContext(ctx).
		SetBody(msg).
		Post(n.url)
	if err != nil {
		return fmt.Errorf("failed to call notification webhook: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("notification webhook returned status %d", resp.StatusCode())
	}
	return nil
}
