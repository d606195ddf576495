package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	"travelmail/config"
	"travelmail/internal/core"
	"travelmail/internal/database/client"
	fluentd "travelmail/internal/database/fluentd/repository"
	"travelmail/internal/database/redis/repository"
	cErr "travelmail/internal/pkg/error"
	"travelmail/internal/pkg/response"
	"travelmail/internal/telemetry"
	"travelmail/utils/apikey"
	"travelmail/utils/token"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

type fakeStore struct {
	enabled   bool
	remaining int
	ttl       int64
	err       error
	calls     int
}

func (s *fakeStore) Enabled() bool { return s.enabled }

func (s *fakeStore) Consume(_ context.Context, _ string, _ int64, _ int) (int, int64, error) {
	s.calls++
	return s.remaining, s.ttl, s.err
}

func testConfig() *config.Configuration {
	conf := &config.Configuration{}
	conf.App.Name = "travelmail"
	conf.App.SecretKey = testSecret
	return conf
}

// newEngine 依正式順序掛上 Recovery 與 Response，再接上受測 middleware
func newEngine(conf *config.Configuration, handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	trace := &telemetry.Trace{}
	logRepo := fluentd.NewLogRepository(conf, &client.NoopClient{})
	r := gin.New()
	r.Use(NewRecovery(zap.NewNop(), trace, conf, logRepo).ErrorHandler())
	r.Use(NewResponse(zap.NewNop(), trace, conf, logRepo).FormatHandler())
	r.Use(handlers...)
	r.GET("/probe", func(c *gin.Context) {
		_, fp, _ := apikey.FromContext(c)
		response.Success(c, gin.H{"fingerprint": fp})
	})
	r.POST("/probe", func(c *gin.Context) {
		response.Create(c, gin.H{"ok": true})
	})
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	return r
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var env response.Response
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (%s)", err, w.Body.String())
	}
	return env
}

func TestCredential(t *testing.T) {
	conf := testConfig()
	cred := NewCredential(zap.NewNop(), &telemetry.Trace{}, conf)
	r := newEngine(conf, cred.Handler())

	cases := []struct {
		name     string
		target   string
		header   string
		wantCode int
		wantErr  int
	}{
		{"missing", "/probe", "", http.StatusUnauthorized, cErr.MISSING_CREDENTIAL},
		{"header", "/probe", "AIza-header-key", http.StatusOK, 0},
		{"query", "/probe?key=AIza-query-key", "", http.StatusOK, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.target, nil)
			if tc.header != "" {
				req.Header.Set(core.HeaderGoogAPIKey, tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tc.wantCode {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tc.wantCode, w.Body.String())
			}
			env := decodeEnvelope(t, w)
			if env.Code != tc.wantErr {
				t.Fatalf("code = %d, want %d", env.Code, tc.wantErr)
			}
			if env.RequestID == "" || w.Header().Get(core.HeaderRequestID) != env.RequestID {
				t.Fatalf("request id mismatch: %q vs %q", env.RequestID, w.Header().Get(core.HeaderRequestID))
			}
		})
	}
}

func TestCredentialFingerprintMatchesHeader(t *testing.T) {
	conf := testConfig()
	r := newEngine(conf, NewCredential(zap.NewNop(), &telemetry.Trace{}, conf).Handler())

	req := httptest.NewRequest(http.MethodGet, "/probe?key=from-query", nil)
	req.Header.Set(core.HeaderGoogAPIKey, "from-header")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	env := decodeEnvelope(t, w)
	data, _ := env.Data.(map[string]any)
	if data["fingerprint"] != apikey.Fingerprint("from-header", testSecret) {
		t.Fatalf("header credential should win, got %v", data["fingerprint"])
	}
}

func TestAdmin(t *testing.T) {
	conf := testConfig()
	r := newEngine(conf, NewAdmin(zap.NewNop(), &telemetry.Trace{}, conf).Handler())
	now := time.Now()
	adminToken, _ := token.Issue(testSecret, "ops", core.RoleAdmin, time.Hour, now)
	viewerToken, _ := token.Issue(testSecret, "desk", core.RoleViewer, time.Hour, now)
	foreignToken, _ := token.Issue("other-secret", "ops", core.RoleAdmin, time.Hour, now)

	cases := []struct {
		name     string
		auth     string
		wantCode int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"foreign signature", "Bearer " + foreignToken, http.StatusUnauthorized},
		{"viewer", "Bearer " + viewerToken, http.StatusForbidden},
		{"admin", "Bearer " + adminToken, http.StatusOK},
		{"lowercase scheme", "bearer " + adminToken, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/probe", nil)
			if tc.auth != "" {
				req.Header.Set("Authorization", tc.auth)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tc.wantCode {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tc.wantCode, w.Body.String())
			}
		})
	}
}

func TestRateLimitGuard(t *testing.T) {
	cases := []struct {
		name        string
		enabled     bool
		store       *fakeStore
		wantCode    int
		wantCalls   int
		wantRetry   string
		wantRemains string
	}{
		{
			name:      "disabled by config",
			enabled:   false,
			store:     &fakeStore{enabled: true},
			wantCode:  http.StatusOK,
			wantCalls: 0,
		},
		{
			name:      "redis not configured",
			enabled:   true,
			store:     &fakeStore{enabled: false},
			wantCode:  http.StatusOK,
			wantCalls: 0,
		},
		{
			name:        "within quota",
			enabled:     true,
			store:       &fakeStore{enabled: true, remaining: 4, ttl: 30},
			wantCode:    http.StatusOK,
			wantCalls:   1,
			wantRemains: "4",
		},
		{
			name:      "exceeded",
			enabled:   true,
			store:     &fakeStore{enabled: true, remaining: 0, ttl: 12, err: repository.ErrRateLimitExceeded},
			wantCode:  http.StatusTooManyRequests,
			wantCalls: 1,
			wantRetry: "12",
		},
		{
			name:      "store failure",
			enabled:   true,
			store:     &fakeStore{enabled: true, err: errors.New("dial tcp: refused")},
			wantCode:  http.StatusServiceUnavailable,
			wantCalls: 1,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			conf := testConfig()
			conf.RateLimit.Enabled = tc.enabled
			conf.RateLimit.Limit = 5
			trace := &telemetry.Trace{}
			cred := NewCredential(zap.NewNop(), trace, conf)
			rl := NewRateLimit(zap.NewNop(), trace, &telemetry.Metric{}, conf, tc.store)
			r := newEngine(conf, cred.Handler(), rl.Guard())

			req := httptest.NewRequest(http.MethodGet, "/probe", nil)
			req.Header.Set(core.HeaderGoogAPIKey, "AIza-test")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tc.wantCode {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tc.wantCode, w.Body.String())
			}
			if tc.store.calls != tc.wantCalls {
				t.Fatalf("consume calls = %d, want %d", tc.store.calls, tc.wantCalls)
			}
			if got := w.Header().Get("Retry-After"); got != tc.wantRetry {
				t.Fatalf("Retry-After = %q, want %q", got, tc.wantRetry)
			}
			if tc.wantRemains != "" && w.Header().Get("X-RateLimit-Remaining") != tc.wantRemains {
				t.Fatalf("X-RateLimit-Remaining = %q", w.Header().Get("X-RateLimit-Remaining"))
			}
		})
	}
}

func TestRateLimitWindowDefault(t *testing.T) {
	conf := testConfig()
	rl := NewRateLimit(zap.NewNop(), &telemetry.Trace{}, &telemetry.Metric{}, conf, &fakeStore{})
	if rl.Window() != defaultWindowSeconds {
		t.Fatalf("window = %d", rl.Window())
	}
	conf.RateLimit.WindowSeconds = 3600
	if rl.Window() != 3600 {
		t.Fatalf("window = %d", rl.Window())
	}
}

func TestResponseEnvelope(t *testing.T) {
	conf := testConfig()
	r := newEngine(conf)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/probe", nil))
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", w.Code)
	}
	env := decodeEnvelope(t, w)
	if env.Code != 0 || env.Message != "OK" || env.Description != "Create Success" {
		t.Fatalf("envelope = %+v", env)
	}
}

func TestRecoveryPanic(t *testing.T) {
	conf := testConfig()
	r := newEngine(conf)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if env := decodeEnvelope(t, w); env.Code != cErr.INTERNAL_ERROR {
		t.Fatalf("code = %d", env.Code)
	}
}

func TestRedactHeaders(t *testing.T) {
	h := http.Header{}
	h.Set(core.HeaderGoogAPIKey, "AIzaSyA1234567890abcd")
	h.Set("Authorization", "Bearer abc.def.ghi")
	h.Set("Content-Type", "application/json")

	got := redactHeaders(h)
	if got["x-goog-api-key"] != apikey.Mask("AIzaSyA1234567890abcd") {
		t.Fatalf("api key not masked: %q", got["x-goog-api-key"])
	}
	if got["authorization"] == "Bearer abc.def.ghi" {
		t.Fatal("authorization not masked")
	}
	if got["content-type"] != "application/json" {
		t.Fatalf("content-type = %q", got["content-type"])
	}
}

func TestPreviewBody(t *testing.T) {
	if got := previewBody("image/png", []byte{0x89, 0x50}); got != "(binary image/png, 2 bytes)" {
		t.Fatalf("binary preview = %q", got)
	}
	if got := previewBody("application/json", []byte(`{"text":"你好"}`)); got != `{"text":"你好"}` {
		t.Fatalf("text preview = %q", got)
	}
	if got := previewBody("text/plain", []byte{0xff, 0xfe}); got != "b64://4=" {
		t.Fatalf("non utf-8 preview = %q", got)
	}
}
