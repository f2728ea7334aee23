package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bookadzone/launch-api/internal/api/http/handlers"
	"github.com/bookadzone/launch-api/internal/config"
	"github.com/bookadzone/launch-api/internal/domain"
	"github.com/bookadzone/launch-api/internal/events"
	"github.com/bookadzone/launch-api/internal/observability"
	"github.com/bookadzone/launch-api/internal/persistence"
	"github.com/bookadzone/launch-api/internal/repository"
	"github.com/bookadzone/launch-api/internal/service"
)

type memSignupRepo struct {
	byEmail  map[string]*domain.Signup
	countErr error
}

func (m *memSignupRepo) GetByEmail(ctx context.Context, email string) (*domain.Signup, error) {
	if signup, ok := m.byEmail[email]; ok {
		return signup, nil
	}
	return nil, pgx.ErrNoRows
}

func (m *memSignupRepo) Create(ctx context.Context, signup *domain.Signup) error {
	if _, ok := m.byEmail[signup.Email]; ok {
		return repository.ErrDuplicateEmail
	}
	signup.ID = fmt.Sprintf("signup-%d", len(m.byEmail)+1)
	now := time.Now()
	signup.SignupDate = now
	signup.CreatedAt = now
	signup.UpdatedAt = now
	m.byEmail[signup.Email] = signup
	return nil
}

func (m *memSignupRepo) CountByProfileType(ctx context.Context) (map[domain.ProfileType]int64, error) {
	if m.countErr != nil {
		return nil, m.countErr
	}
	counts := make(map[domain.ProfileType]int64)
	for _, signup := range m.byEmail {
		counts[signup.ProfileType]++
	}
	return counts, nil
}

type memSubscriberRepo struct {
	byEmail map[string]*domain.Subscriber
}

func (m *memSubscriberRepo) GetByEmail(ctx context.Context, email string) (*domain.Subscriber, error) {
	if sub, ok := m.byEmail[email]; ok {
		return sub, nil
	}
	return nil, pgx.ErrNoRows
}

func (m *memSubscriberRepo) Create(ctx context.Context, subscriber *domain.Subscriber) error {
	if _, ok := m.byEmail[subscriber.Email]; ok {
		return repository.ErrDuplicateEmail
	}
	subscriber.ID = fmt.Sprintf("sub-%d", len(m.byEmail)+1)
	subscriber.SubscriptionDate = time.Now()
	subscriber.CreatedAt = subscriber.SubscriptionDate
	m.byEmail[subscriber.Email] = subscriber
	return nil
}

type recordingSender struct {
	welcomeCount int
	err          error
}

func (r *recordingSender) SendWelcome(ctx context.Context, to, name string) error {
	r.welcomeCount++
	return r.err
}

func (r *recordingSender) SendSubscription(ctx context.Context, to string) error {
	return r.err
}

type staticResolver struct{ loc domain.Location }

func (s staticResolver) Resolve(ctx context.Context, ip string) domain.Location {
	return s.loc
}

type appFixture struct {
	app    *fiber.App
	sender *recordingSender
	repo   *memSignupRepo
}

func newTestApp(t *testing.T, baselines config.SignupConfig) *appFixture {
	t.Helper()

	repo := &memSignupRepo{byEmail: make(map[string]*domain.Signup)}
	subRepo := &memSubscriberRepo{byEmail: make(map[string]*domain.Subscriber)}
	sender := &recordingSender{}
	resolver := staticResolver{loc: domain.Location{City: "Lagos", Region: "Lagos State", Country: "Nigeria", ISP: "MTN"}}
	logger := zap.NewNop()
	dispatcher := events.NewInMemoryDispatcher()

	signupService := service.NewSignupService(baselines, service.SignupDependencies{
		SignupRepo: repo,
		Resolver:   resolver,
		Mailer:     sender,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	subscriptionService := service.NewSubscriptionService(service.SubscriptionDependencies{
		SubscriberRepo: subRepo,
		Mailer:         sender,
		Dispatcher:     dispatcher,
		Logger:         logger,
	})

	app := fiber.New()
	RegisterMiddlewares(app, logger, observability.NewMetrics(), 5*time.Second, false)
	RegisterRoutes(app, RouteConfig{
		Health:    handlers.NewHealthHandler("launch-api", "test", &persistence.Postgres{}, &persistence.Redis{}),
		Signups:   handlers.NewSignupHandler(signupService),
		Subscribe: handlers.NewSubscribeHandler(subscriptionService),
	})

	return &appFixture{app: app, sender: sender, repo: repo}
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded), string(raw))
	return resp.StatusCode, decoded
}

const janePayload = `{"fullName":"Jane Doe","companyName":"Acme","position":"CMO","email":"Jane@Acme.com","profileType":"Advertiser"}`

func TestSignupEndpointSuccess(t *testing.T) {
	fx := newTestApp(t, config.SignupConfig{})

	status, body := doJSON(t, fx.app, http.MethodPost, "/signup", janePayload)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Successfully registered for notifications", body["message"])
	assert.NotContains(t, body, "warning")

	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "jane@acme.com", data["email"])
	assert.Equal(t, "Advertiser", data["profileType"])

	assert.Equal(t, 1, fx.sender.welcomeCount)
}

func TestSignupEndpointDuplicate(t *testing.T) {
	fx := newTestApp(t, config.SignupConfig{})

	status, _ := doJSON(t, fx.app, http.MethodPost, "/signup", janePayload)
	require.Equal(t, http.StatusOK, status)

	status, body := doJSON(t, fx.app, http.MethodPost, "/signup", janePayload)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "This email is already registered for notifications", body["error"])
}

func TestSignupEndpointValidation(t *testing.T) {
	fx := newTestApp(t, config.SignupConfig{})

	status, body := doJSON(t, fx.app, http.MethodPost, "/signup", `{"email":"not-an-email"}`)
	assert.Equal(t, http.StatusBadRequest, status)

	fieldErrors, ok := body["errors"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Please enter a valid email address", fieldErrors["email"])
	for _, field := range []string{"fullName", "companyName", "position", "profileType"} {
		assert.Contains(t, fieldErrors, field)
	}
}

func TestSignupEndpointMailWarning(t *testing.T) {
	fx := newTestApp(t, config.SignupConfig{})
	fx.sender.err = errors.New("smtp down")

	status, body := doJSON(t, fx.app, http.MethodPost, "/signup", janePayload)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, service.WarningWelcomeMailFailed, body["warning"])
	assert.Contains(t, fx.repo.byEmail, "jane@acme.com")
}

func TestCountsEndpoint(t *testing.T) {
	fx := newTestApp(t, config.SignupConfig{BaselineAdvertisers: 120, BaselineAgencies: 45})

	status, body := doJSON(t, fx.app, http.MethodGet, "/signup/counts", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(120), body["advertisers"])
	assert.Equal(t, float64(45), body["agencies"])

	_, _ = doJSON(t, fx.app, http.MethodPost, "/signup", janePayload)

	status, body = doJSON(t, fx.app, http.MethodGet, "/signup/counts", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(121), body["advertisers"])
}

func TestCountsEndpointFallsBackOnDBError(t *testing.T) {
	fx := newTestApp(t, config.SignupConfig{BaselineAdvertisers: 120, BaselineAgencies: 45})
	fx.repo.countErr = errors.New("no connection")

	status, body := doJSON(t, fx.app, http.MethodGet, "/signup/counts", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(120), body["advertisers"])
	assert.Equal(t, float64(45), body["agencies"])
}

func TestValidateEndpoint(t *testing.T) {
	fx := newTestApp(t, config.SignupConfig{})

	status, body := doJSON(t, fx.app, http.MethodPost, "/validate", janePayload)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])

	status, body = doJSON(t, fx.app, http.MethodPost, "/validate", `{"fullName":"J","profileType":"Select Advertiser or Agency"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	fieldErrors, ok := body["errors"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Full name must be at least 2 characters long", fieldErrors["fullName"])
	assert.Equal(t, "Please select a profile type", fieldErrors["profileType"])
}

func TestSubscribeEndpoint(t *testing.T) {
	fx := newTestApp(t, config.SignupConfig{})

	status, body := doJSON(t, fx.app, http.MethodPost, "/subscribe", `{"email":"x@y.com"}`)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Successfully subscribed!", body["message"])

	status, body = doJSON(t, fx.app, http.MethodPost, "/subscribe", `{"email":"X@Y.com"}`)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "This email is already subscribed", body["error"])

	status, body = doJSON(t, fx.app, http.MethodPost, "/subscribe", `{"email":"nope"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Please enter a valid email address", body["error"])
}

func TestHealthLive(t *testing.T) {
	fx := newTestApp(t, config.SignupConfig{})

	status, body := doJSON(t, fx.app, http.MethodGet, "/health/live", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "alive", body["status"])
}

func TestHealthReadyReportsMissingDependencies(t *testing.T) {
	fx := newTestApp(t, config.SignupConfig{})

	status, _ := doJSON(t, fx.app, http.MethodGet, "/health/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, status)
}
