package notifier

import (
	"context"

	"go.uber.org/zap"

	"github.com/bookadzone/launch-api/internal/events"
)

// Audit logs every signup and subscription event, giving an operational trail
// for silently-degraded flows.
type Audit struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAudit creates the audit notifier.
func NewAudit(dispatcher events.Dispatcher, logger *zap.Logger) *Audit {
	return &Audit{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to events.
func (a *Audit) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventSignupCreated, a.handleSignupCreated)
	a.dispatcher.Subscribe(events.EventSubscriberAdded, a.handleSubscriberAdded)
}

func (a *Audit) handleSignupCreated(ctx context.Context, event events.Event) error {
	a.logger.Info("SignupCreated",
		zap.String("event_id", event.ID),
		zap.String("email", event.Email),
		zap.Any("payload", event.Payload),
	)
	return nil
}

func (a *Audit) handleSubscriberAdded(ctx context.Context, event events.Event) error {
	a.logger.Info("SubscriberAdded",
		zap.String("event_id", event.ID),
		zap.String("email", event.Email),
		zap.Any("payload", event.Payload),
	)
	return nil
}
