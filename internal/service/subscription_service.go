package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/bookadzone/launch-api/internal/domain"
	"github.com/bookadzone/launch-api/internal/events"
	"github.com/bookadzone/launch-api/internal/mailer"
	"github.com/bookadzone/launch-api/internal/repository"
	apperrors "github.com/bookadzone/launch-api/pkg/util/errorutil"
)

const duplicateSubscriptionMessage = "This email is already subscribed"

// WarningSubscriptionMailFailed is attached to successful subscriptions when
// the confirmation mail could not be delivered.
const WarningSubscriptionMailFailed = "Confirmation email could not be sent"

// SubscriptionService handles the newsletter-only signup list.
type SubscriptionService struct {
	subscribers repository.SubscriberRepository
	mail        mailer.Sender
	dispatcher  events.Dispatcher
	logger      *zap.Logger
}

// SubscriptionDependencies bundles collaborators for the subscription service.
type SubscriptionDependencies struct {
	SubscriberRepo repository.SubscriberRepository
	Mailer         mailer.Sender
	Dispatcher     events.Dispatcher
	Logger         *zap.Logger
}

// SubscribeResult carries the stored subscriber plus an optional warning.
type SubscribeResult struct {
	Subscriber *domain.Subscriber
	Warning    string
}

// NewSubscriptionService constructs the service.
func NewSubscriptionService(deps SubscriptionDependencies) *SubscriptionService {
	return &SubscriptionService{
		subscribers: deps.SubscriberRepo,
		mail:        deps.Mailer,
		dispatcher:  deps.Dispatcher,
		logger:      deps.Logger,
	}
}

// Subscribe validates, deduplicates and stores a newsletter subscription,
// then attempts the confirmation mail best-effort.
func (s *SubscriptionService) Subscribe(ctx context.Context, email string) (*SubscribeResult, error) {
	if !ValidEmail(email) {
		return nil, apperrors.NewBadRequest("Please enter a valid email address")
	}
	email = strings.ToLower(strings.TrimSpace(email))

	if _, err := s.subscribers.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewDuplicate(duplicateSubscriptionMessage)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewDatabaseError(err)
	}

	subscriber := &domain.Subscriber{Email: email}
	if err := s.subscribers.Create(ctx, subscriber); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperrors.NewDuplicate(duplicateSubscriptionMessage)
		}
		return nil, apperrors.NewDatabaseError(err)
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventSubscriberAdded,
			Email:     subscriber.Email,
			Timestamp: time.Now().UTC(),
			Payload:   events.SubscriberAddedPayload{SubscriberID: subscriber.ID},
		})
	}

	result := &SubscribeResult{Subscriber: subscriber}
	if err := s.mail.SendSubscription(ctx, subscriber.Email); err != nil {
		s.logger.Warn("subscription email not sent",
			zap.String("email", subscriber.Email),
			zap.Error(err),
		)
		result.Warning = WarningSubscriptionMailFailed
	}
	return result, nil
}
