package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/bookadzone/launch-api/internal/config"
	"github.com/bookadzone/launch-api/internal/domain"
	"github.com/bookadzone/launch-api/internal/events"
	"github.com/bookadzone/launch-api/internal/geo"
	"github.com/bookadzone/launch-api/internal/mailer"
	"github.com/bookadzone/launch-api/internal/repository"
	apperrors "github.com/bookadzone/launch-api/pkg/util/errorutil"
)

const duplicateSignupMessage = "This email is already registered for notifications"

// WarningWelcomeMailFailed is attached to otherwise-successful submissions
// when the confirmation mail could not be delivered.
const WarningWelcomeMailFailed = "Welcome email could not be sent"

// SignupService coordinates the launch-notification intake flow.
type SignupService struct {
	signups    repository.SignupRepository
	resolver   geo.Resolver
	mail       mailer.Sender
	dispatcher events.Dispatcher
	logger     *zap.Logger
	baselines  config.SignupConfig
}

// SignupDependencies bundles collaborators for the signup service.
type SignupDependencies struct {
	SignupRepo repository.SignupRepository
	Resolver   geo.Resolver
	Mailer     mailer.Sender
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// SubmitResult carries the persisted record plus an optional non-fatal warning.
type SubmitResult struct {
	Signup  *domain.Signup
	Warning string
}

// Counts holds displayed signup totals per profile type.
type Counts struct {
	Advertisers int64 `json:"advertisers"`
	Agencies    int64 `json:"agencies"`
}

// NewSignupService constructs the service.
func NewSignupService(cfg config.SignupConfig, deps SignupDependencies) *SignupService {
	return &SignupService{
		signups:    deps.SignupRepo,
		resolver:   deps.Resolver,
		mail:       deps.Mailer,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		baselines:  cfg,
	}
}

// Submit validates, deduplicates and persists a signup, then attempts the
// welcome mail. Geo lookup and mail delivery are best-effort; only
// validation, duplicate and database failures fail the request.
func (s *SignupService) Submit(ctx context.Context, input SignupInput) (*SubmitResult, error) {
	if fields := ValidateSignupInput(input); len(fields) > 0 {
		return nil, apperrors.NewValidationError(fields)
	}

	input = input.Normalized()

	// Advisory pre-check; the unique index is what actually guarantees
	// one record per email under concurrent submissions.
	if _, err := s.signups.GetByEmail(ctx, input.Email); err == nil {
		return nil, apperrors.NewDuplicate(duplicateSignupMessage)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewDatabaseError(err)
	}

	signup := &domain.Signup{
		FullName:    input.FullName,
		CompanyName: input.CompanyName,
		Position:    input.Position,
		Email:       input.Email,
		ProfileType: domain.ProfileType(input.ProfileType),
		Location:    s.resolveLocation(ctx, input),
		IPAddress:   input.IPAddress,
		Status:      domain.SignupStatusActive,
		IsDeleted:   false,
	}
	if signup.IPAddress == "" {
		signup.IPAddress = domain.IPUnknown
	}

	if err := s.signups.Create(ctx, signup); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperrors.NewDuplicate(duplicateSignupMessage)
		}
		return nil, apperrors.NewDatabaseError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:  events.EventSignupCreated,
		Email: signup.Email,
		Payload: events.SignupCreatedPayload{
			SignupID:    signup.ID,
			ProfileType: signup.ProfileType,
			CompanyName: signup.CompanyName,
			Country:     signup.Location.Country,
			City:        signup.Location.City,
		},
	})

	result := &SubmitResult{Signup: signup}
	if err := s.mail.SendWelcome(ctx, signup.Email, signup.FullName); err != nil {
		s.logger.Warn("welcome email not sent",
			zap.String("email", signup.Email),
			zap.Error(err),
		)
		result.Warning = WarningWelcomeMailFailed
	}
	return result, nil
}

// AggregateCounts returns displayed totals: the configured baselines plus
// stored signups per profile type. It never fails; on database errors the
// baselines are returned unchanged.
func (s *SignupService) AggregateCounts(ctx context.Context) Counts {
	counts := Counts{
		Advertisers: s.baselines.BaselineAdvertisers,
		Agencies:    s.baselines.BaselineAgencies,
	}

	stored, err := s.signups.CountByProfileType(ctx)
	if err != nil {
		s.logger.Warn("signup counts unavailable, serving baselines", zap.Error(err))
		return counts
	}

	counts.Advertisers += stored[domain.ProfileTypeAdvertiser]
	counts.Agencies += stored[domain.ProfileTypeAgency]
	return counts
}

// resolveLocation prefers a client hint with a known city over a server-side
// lookup of the extracted IP.
func (s *SignupService) resolveLocation(ctx context.Context, input SignupInput) domain.Location {
	if hint := input.ClientLocation; hint != nil && hint.HasKnownCity() {
		loc := domain.UnknownLocation()
		loc.City = hint.City
		if hint.Region != "" {
			loc.Region = hint.Region
		}
		if hint.Country != "" {
			loc.Country = hint.Country
		}
		if hint.ISP != "" {
			loc.ISP = hint.ISP
		}
		loc.Lat = hint.Lat
		loc.Lon = hint.Lon
		return loc
	}
	return s.resolver.Resolve(ctx, input.IPAddress)
}

func (s *SignupService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now().UTC()
	_ = s.dispatcher.Publish(ctx, event)
}

// ExtractClientIP picks the best-effort client address from request headers,
// in CDN, forwarded-for, real-IP priority order.
func ExtractClientIP(header func(string) string) string {
	if ip := strings.TrimSpace(header("CF-Connecting-IP")); ip != "" {
		return ip
	}
	if forwarded := header("X-Forwarded-For"); forwarded != "" {
		first := strings.Split(forwarded, ",")[0]
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(header("X-Real-IP")); ip != "" {
		return ip
	}
	return domain.IPUnknown
}
