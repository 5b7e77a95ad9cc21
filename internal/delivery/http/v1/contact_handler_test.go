package v1

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"portfolio-backend/config"
	"portfolio-backend/internal/delivery/http/response"
	"portfolio-backend/internal/domain"
	"portfolio-backend/internal/usecase"
	"portfolio-backend/pkg/apperror"
	"portfolio-backend/pkg/security"
	"portfolio-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
	security.SetDefault(security.NewSecurityLogger(zap.NewNop(), "portfolio-backend", "test"))
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Name() string { return "telegram" }

func (m *MockNotifier) Notify(ctx context.Context, n domain.Notification) error {
	return m.Called(ctx, n).Error(0)
}

func testConfig() *config.Config {
	return &config.Config{
		Notifier:                  config.NotifierTelegram,
		SecretKey:                 "test",
		MaxMessageLength:          3000,
		AllowedOrigins:            []string{"*"},
		MaxBodyBytes:              64 << 10,
		RateLimitWindowSeconds:    60,
		RateLimitContactThreshold: 100,
		RateLimitGlobalThreshold:  1000,
	}
}

func newTestRouter(t *testing.T, n domain.Notifier, cfg *config.Config) *gin.Engine {
	t.Helper()
	contactUC := usecase.NewContactUsecase(n, validation.NewValidator(), usecase.ContactOptions{
		MaxMessageLength: cfg.MaxMessageLength,
	})
	return NewRouter(RouterDeps{
		ContactUC: contactUC,
		HealthUC:  usecase.NewHealthUsecase(contactUC, false),
		Config:    cfg,
	})
}

func post(r http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var resp response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

const annBody = `{"name":"Ann","email":"ann@example.com","message":"Hello, interested in your work."}`

func TestSubmitContact_Success(t *testing.T) {
	for _, path := range []string{"/v1/contact", "/submit_contact"} {
		t.Run(path, func(t *testing.T) {
			n := new(MockNotifier)
			n.On("Notify", mock.Anything, mock.MatchedBy(func(nt domain.Notification) bool {
				return strings.Contains(nt.Text, "Ann") &&
					strings.Contains(nt.Text, "ann@example.com") &&
					strings.Contains(nt.Text, "Hello, interested in your work.")
			})).Return(nil).Once()

			w := post(newTestRouter(t, n, testConfig()), path, annBody)

			assert.Equal(t, http.StatusOK, w.Code)
			resp := decode(t, w)
			assert.True(t, resp.Success)
			assert.Equal(t, MsgContactSent, resp.Message)
			assert.Empty(t, resp.Error)
			assert.NotEmpty(t, resp.RequestID)
			n.AssertNumberOfCalls(t, "Notify", 1)
		})
	}
}

func TestSubmitContact_NotifierFailure(t *testing.T) {
	n := new(MockNotifier)
	n.On("Notify", mock.Anything, mock.Anything).Return(errors.New("telegram: status 401: Unauthorized")).Once()

	w := post(newTestRouter(t, n, testConfig()), "/v1/contact", annBody)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decode(t, w)
	assert.False(t, resp.Success)
	assert.Equal(t, apperror.MsgDispatchFailure, resp.Error)
	assert.Equal(t, "dispatch_failure", resp.Code)
	assert.NotContains(t, w.Body.String(), "Unauthorized")
	n.AssertNumberOfCalls(t, "Notify", 1)
}

func TestSubmitContact_ValidationErrors(t *testing.T) {
	cases := []struct {
		name string
		body string
		kind string
	}{
		{"missing name", `{"email":"ann@example.com","message":"hi"}`, "missing_field"},
		{"empty object", `{}`, "missing_field"},
		{"invalid email", `{"name":"Ann","email":"ann.example.com","message":"hi"}`, "invalid_email"},
		{"script", `{"name":"Ann","email":"ann@example.com","message":"<script>alert(1)</script>"}`, "suspicious_content"},
		{"spam", `{"name":"Ann","email":"ann@example.com","message":"BUY NOW"}`, "suspicious_content"},
		{"too long", `{"name":"Ann","email":"ann@example.com","message":"` + strings.Repeat("a", 3001) + `"}`, "message_too_long"},
		{"malformed", `{"name":`, "invalid_payload"},
		{"wrong type", `{"name":1,"email":"ann@example.com","message":"hi"}`, "invalid_payload"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			n := new(MockNotifier)
			w := post(newTestRouter(t, n, testConfig()), "/v1/contact", tc.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			resp := decode(t, w)
			assert.False(t, resp.Success)
			assert.Equal(t, tc.kind, resp.Code)
			assert.NotEmpty(t, resp.Error)
			n.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
		})
	}
}

func TestSubmitContact_BodyTooLarge(t *testing.T) {
	cfg := testConfig()
	cfg.MaxBodyBytes = 128
	n := new(MockNotifier)

	body := `{"name":"Ann","email":"ann@example.com","message":"` + strings.Repeat("a", 200) + `"}`
	w := post(newTestRouter(t, n, cfg), "/v1/contact", body)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, "payload_too_large", decode(t, w).Code)

	// chunked bodies trip the reader limit inside the handler
	req := httptest.NewRequest(http.MethodPost, "/v1/contact", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.ContentLength = -1
	w = httptest.NewRecorder()
	newTestRouter(t, n, cfg).ServeHTTP(w, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	n.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
}

func TestSubmitContact_RateLimited(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitContactThreshold = 2
	n := new(MockNotifier)
	n.On("Notify", mock.Anything, mock.Anything).Return(nil)
	r := newTestRouter(t, n, cfg)

	assert.Equal(t, http.StatusOK, post(r, "/v1/contact", annBody).Code)
	assert.Equal(t, http.StatusOK, post(r, "/submit_contact", annBody).Code)

	w := post(r, "/v1/contact", annBody)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "rate_limited", decode(t, w).Code)
	n.AssertNumberOfCalls(t, "Notify", 2)
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t, new(MockNotifier), testConfig())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Success bool              `json:"success"`
		Message string            `json:"message"`
		Data    map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "System operational", resp.Message)
	assert.Equal(t, "telegram", resp.Data["notifier"])
}
