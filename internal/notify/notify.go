// Package notify delivers estimate summaries to the business account.
//
// Senders are best-effort from the submission pipeline's perspective: a
// failed delivery is logged by the caller and never fails the estimate.
// Implementations:
// - SMTPSender: email via SMTP (Mailhog for dev, any SMTP relay in prod)
// - WebhookSender: JSON POST to a configured endpoint
// - MultiSender: fan-out to several senders
package notify

import (
	"context"
	"errors"

	"github.com/prestimate/prestimate/internal/domain"
)

// Sender delivers one estimate notification.
type Sender interface {
	SendEstimateCreated(ctx context.Context, notification domain.EstimateNotification) error
}

// MultiSender fans a notification out to every configured sender and
// joins their failures. A partial failure still attempts the rest.
type MultiSender struct {
	senders []Sender
}

// NewMultiSender creates a MultiSender over the given senders.
func NewMultiSender(senders ...Sender) *MultiSender {
	return &MultiSender{senders: senders}
}

// SendEstimateCreated delivers through every sender.
func (m *MultiSender) SendEstimateCreated(ctx context.Context, notification domain.EstimateNotification) error {
	var errs []error
	for _, s := range m.senders {
		if err := s.SendEstimateCreated(ctx, notification); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
