package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bookadzone/launch-api/internal/config"
	"github.com/bookadzone/launch-api/internal/domain"
	"github.com/bookadzone/launch-api/internal/events"
	"github.com/bookadzone/launch-api/internal/repository"
	apperrors "github.com/bookadzone/launch-api/pkg/util/errorutil"
)

type fakeSignupRepo struct {
	byEmail     map[string]*domain.Signup
	getErr      error
	createErr   error
	counts      map[domain.ProfileType]int64
	countErr    error
	createCalls int
}

func newFakeSignupRepo() *fakeSignupRepo {
	return &fakeSignupRepo{byEmail: make(map[string]*domain.Signup)}
}

func (f *fakeSignupRepo) GetByEmail(ctx context.Context, email string) (*domain.Signup, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if signup, ok := f.byEmail[email]; ok {
		return signup, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeSignupRepo) Create(ctx context.Context, signup *domain.Signup) error {
	f.createCalls++
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.byEmail[signup.Email]; ok {
		return repository.ErrDuplicateEmail
	}
	signup.ID = fmt.Sprintf("signup-%d", len(f.byEmail)+1)
	now := time.Now()
	signup.SignupDate = now
	signup.CreatedAt = now
	signup.UpdatedAt = now
	f.byEmail[signup.Email] = signup
	return nil
}

func (f *fakeSignupRepo) CountByProfileType(ctx context.Context) (map[domain.ProfileType]int64, error) {
	if f.countErr != nil {
		return nil, f.countErr
	}
	return f.counts, nil
}

type welcomeCall struct {
	to   string
	name string
}

type fakeSender struct {
	err          error
	welcomeCalls []welcomeCall
	subscribeTo  []string
	subscribeErr error
}

func (f *fakeSender) SendWelcome(ctx context.Context, to, name string) error {
	f.welcomeCalls = append(f.welcomeCalls, welcomeCall{to: to, name: name})
	return f.err
}

func (f *fakeSender) SendSubscription(ctx context.Context, to string) error {
	f.subscribeTo = append(f.subscribeTo, to)
	return f.subscribeErr
}

type fakeGeoResolver struct {
	loc   domain.Location
	calls int
}

func (f *fakeGeoResolver) Resolve(ctx context.Context, ip string) domain.Location {
	f.calls++
	return f.loc
}

func validInput() SignupInput {
	return SignupInput{
		FullName:    "Jane Doe",
		CompanyName: "Acme",
		Position:    "CMO",
		Email:       "Jane@Acme.com",
		ProfileType: "Advertiser",
		IPAddress:   "203.0.113.10",
	}
}

type signupFixture struct {
	svc      *SignupService
	repo     *fakeSignupRepo
	sender   *fakeSender
	resolver *fakeGeoResolver
}

func newSignupFixture(baselines config.SignupConfig) *signupFixture {
	repo := newFakeSignupRepo()
	sender := &fakeSender{}
	resolver := &fakeGeoResolver{loc: domain.Location{City: "Lagos", Region: "Lagos State", Country: "Nigeria", ISP: "MTN"}}
	svc := NewSignupService(baselines, SignupDependencies{
		SignupRepo: repo,
		Resolver:   resolver,
		Mailer:     sender,
		Dispatcher: events.NewInMemoryDispatcher(),
		Logger:     zap.NewNop(),
	})
	return &signupFixture{svc: svc, repo: repo, sender: sender, resolver: resolver}
}

func TestSubmitStoresNormalizedRecord(t *testing.T) {
	fx := newSignupFixture(config.SignupConfig{})

	result, err := fx.svc.Submit(context.Background(), validInput())
	require.NoError(t, err)
	require.NotNil(t, result.Signup)

	assert.Equal(t, "jane@acme.com", result.Signup.Email)
	assert.Equal(t, domain.ProfileTypeAdvertiser, result.Signup.ProfileType)
	assert.Equal(t, domain.SignupStatusActive, result.Signup.Status)
	assert.False(t, result.Signup.IsDeleted)
	assert.Equal(t, "203.0.113.10", result.Signup.IPAddress)
	assert.Equal(t, "Lagos", result.Signup.Location.City)
	assert.Empty(t, result.Warning)

	require.Len(t, fx.sender.welcomeCalls, 1)
	assert.Equal(t, "jane@acme.com", fx.sender.welcomeCalls[0].to)
	assert.Equal(t, "Jane Doe", fx.sender.welcomeCalls[0].name)
}

func TestSubmitDuplicateEmailCaseInsensitive(t *testing.T) {
	fx := newSignupFixture(config.SignupConfig{})

	first, err := fx.svc.Submit(context.Background(), validInput())
	require.NoError(t, err)

	repeat := validInput()
	repeat.Email = "JANE@ACME.COM"
	_, err = fx.svc.Submit(context.Background(), repeat)
	require.Error(t, err)

	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, 409, domainErr.HTTPStatus)
	assert.Equal(t, "This email is already registered for notifications", domainErr.Message)

	// The stored record is untouched and no second mail goes out.
	stored, err := fx.repo.GetByEmail(context.Background(), "jane@acme.com")
	require.NoError(t, err)
	assert.Equal(t, first.Signup.ID, stored.ID)
	assert.Len(t, fx.sender.welcomeCalls, 1)
}

func TestSubmitRacingInsertMapsToDuplicate(t *testing.T) {
	fx := newSignupFixture(config.SignupConfig{})
	// Pre-check passes but the unique index rejects the insert, as happens
	// when two submissions race.
	fx.repo.createErr = repository.ErrDuplicateEmail

	_, err := fx.svc.Submit(context.Background(), validInput())
	require.Error(t, err)
	assert.Equal(t, 409, apperrors.ToDomainError(err).HTTPStatus)
}

func TestSubmitReportsAllMissingFields(t *testing.T) {
	fx := newSignupFixture(config.SignupConfig{})

	_, err := fx.svc.Submit(context.Background(), SignupInput{})
	require.Error(t, err)

	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, 400, domainErr.HTTPStatus)
	for _, field := range []string{"fullName", "companyName", "position", "email", "profileType"} {
		assert.Contains(t, domainErr.Fields, field)
	}
	assert.Zero(t, fx.repo.createCalls)
	assert.Empty(t, fx.sender.welcomeCalls)
}

func TestSubmitMailFailureDegradesToWarning(t *testing.T) {
	fx := newSignupFixture(config.SignupConfig{})
	fx.sender.err = errors.New("smtp: connection refused")

	result, err := fx.svc.Submit(context.Background(), validInput())
	require.NoError(t, err)
	assert.Equal(t, WarningWelcomeMailFailed, result.Warning)

	// The record is persisted regardless.
	_, err = fx.repo.GetByEmail(context.Background(), "jane@acme.com")
	assert.NoError(t, err)
}

func TestSubmitGeoFailureStoresUnknownLocation(t *testing.T) {
	fx := newSignupFixture(config.SignupConfig{})
	fx.resolver.loc = domain.UnknownLocation()

	result, err := fx.svc.Submit(context.Background(), validInput())
	require.NoError(t, err)
	assert.Equal(t, domain.UnknownLocation(), result.Signup.Location)
	assert.Empty(t, result.Warning)
}

func TestSubmitPrefersClientLocationHint(t *testing.T) {
	fx := newSignupFixture(config.SignupConfig{})

	input := validInput()
	input.ClientLocation = &domain.Location{City: "Nairobi", Country: "Kenya"}

	result, err := fx.svc.Submit(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, "Nairobi", result.Signup.Location.City)
	assert.Equal(t, "Kenya", result.Signup.Location.Country)
	assert.Equal(t, domain.LocationUnknown, result.Signup.Location.Region)
	assert.Zero(t, fx.resolver.calls, "known client city should skip server lookup")
}

func TestSubmitIgnoresUnknownClientHint(t *testing.T) {
	fx := newSignupFixture(config.SignupConfig{})

	input := validInput()
	input.ClientLocation = &domain.Location{City: domain.LocationUnknown}

	result, err := fx.svc.Submit(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, "Lagos", result.Signup.Location.City)
	assert.Equal(t, 1, fx.resolver.calls)
}

func TestSubmitDatabaseLookupFailureIsFatal(t *testing.T) {
	fx := newSignupFixture(config.SignupConfig{})
	fx.repo.getErr = errors.New("connection reset")

	_, err := fx.svc.Submit(context.Background(), validInput())
	require.Error(t, err)
	assert.Equal(t, 500, apperrors.ToDomainError(err).HTTPStatus)
	assert.Empty(t, fx.sender.welcomeCalls)
}

func TestAggregateCountsAddsBaselines(t *testing.T) {
	fx := newSignupFixture(config.SignupConfig{BaselineAdvertisers: 120, BaselineAgencies: 45})
	fx.repo.counts = map[domain.ProfileType]int64{
		domain.ProfileTypeAdvertiser: 7,
		domain.ProfileTypeAgency:     3,
	}

	counts := fx.svc.AggregateCounts(context.Background())
	assert.Equal(t, int64(127), counts.Advertisers)
	assert.Equal(t, int64(48), counts.Agencies)
}

func TestAggregateCountsFallsBackToBaselines(t *testing.T) {
	fx := newSignupFixture(config.SignupConfig{BaselineAdvertisers: 120, BaselineAgencies: 45})
	fx.repo.countErr = errors.New("no connection")

	counts := fx.svc.AggregateCounts(context.Background())
	assert.Equal(t, int64(120), counts.Advertisers)
	assert.Equal(t, int64(45), counts.Agencies)
}

func TestExtractClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{
			name:    "cdn header wins",
			headers: map[string]string{"CF-Connecting-IP": "1.1.1.1", "X-Forwarded-For": "2.2.2.2", "X-Real-IP": "3.3.3.3"},
			want:    "1.1.1.1",
		},
		{
			name:    "forwarded-for first hop",
			headers: map[string]string{"X-Forwarded-For": " 2.2.2.2 , 10.0.0.1", "X-Real-IP": "3.3.3.3"},
			want:    "2.2.2.2",
		},
		{
			name:    "real-ip fallback",
			headers: map[string]string{"X-Real-IP": "3.3.3.3"},
			want:    "3.3.3.3",
		},
		{
			name:    "nothing set",
			headers: map[string]string{},
			want:    "unknown",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractClientIP(func(key string) string { return tt.headers[key] })
			assert.Equal(t, tt.want, got)
		})
	}
}
