package router

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"travelmail/config"
	"travelmail/internal/core"
	"travelmail/internal/database/client"
	fluentd "travelmail/internal/database/fluentd/repository"
	mongoRepo "travelmail/internal/database/mongodb/repository"
	redisRepo "travelmail/internal/database/redis/repository"
	"travelmail/internal/handler"
	"travelmail/internal/middleware"
	cErr "travelmail/internal/pkg/error"
	"travelmail/internal/pkg/response"
	"travelmail/internal/service"
	"travelmail/internal/service/assistant"
	"travelmail/internal/service/chat"
	"travelmail/internal/service/completion"
	"travelmail/internal/service/models"
	"travelmail/internal/telemetry"
	"travelmail/utils/token"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	testSecret = "router-secret"
	testKey    = "AIza-router"
)

// fakeGemini 列表固定回 flash；prompt 含 "boom" 時 generateContent 回 500
func fakeGemini(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != testKey {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		if r.Method == http.MethodGet {
			_, _ = w.Write([]byte(`{"models":[{"name":"models/gemini-pro"},{"name":"models/gemini-1.5-flash"}]}`))
			return
		}
		body, _ := io.ReadAll(r.Body)
		if strings.Contains(string(body), "boom") {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":{"message":"internal"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"**Missing** pax count\n===DRAFT===\nDear client"}]}}]}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	conf := &config.Configuration{}
	conf.App.Env = "test"
	conf.App.Name = "travelmail"
	conf.App.SecretKey = testSecret
	conf.Gemini.BaseURL = fakeGemini(t).URL

	trace := &telemetry.Trace{}
	metric := &telemetry.Metric{}
	logger := zap.NewNop()
	logRepo := fluentd.NewLogRepository(conf, &client.NoopClient{})
	recordRepo := mongoRepo.NewCompletionRecordRepository(trace, &client.MongoClient{})
	rateLimiter := redisRepo.NewRateLimiterRepository(trace, &client.RedisClient{})
	history := service.NewHistoryService(conf, trace, metric, logger, recordRepo, logRepo)

	httpClient := &http.Client{Timeout: 5 * time.Second}
	resolver := models.NewResolver(conf, models.NewGeminiService(conf, trace, httpClient), logger, trace, metric)
	completionClient := completion.NewClient(conf, resolver, chat.NewGeminiService(conf, trace, httpClient), logger, trace, metric)
	assistantService := assistant.NewService(conf, completionClient, logger)

	health := service.NewHealthService(&client.RedisClient{}, &client.MongoClient{})
	return NewRouter(
		conf,
		middleware.NewTraceEntry(trace, metric, conf),
		middleware.NewRecovery(logger, trace, conf, logRepo),
		middleware.NewCors(trace),
		middleware.NewLogger(logger, trace, conf, logRepo),
		middleware.NewResponse(logger, trace, conf, logRepo),
		NewAdminRouter(handler.NewAdminHandler(trace, history, rateLimiter), middleware.NewAdmin(logger, trace, conf)),
		NewAssistantRouter(
			handler.NewAssistantHandler(trace, conf, assistantService, completionClient, history, rateLimiter),
			handler.NewCompletionHandler(trace, completionClient, resolver, history),
			middleware.NewCredential(logger, trace, conf),
			middleware.NewRateLimit(logger, trace, metric, conf, rateLimiter),
		),
		NewHealthRouter(handler.NewHealthHandler(health, conf)),
	)
}

func do(r http.Handler, method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func envelope(t *testing.T, w *httptest.ResponseRecorder) (response.Response, map[string]any) {
	t.Helper()
	var env response.Response
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (%s)", err, w.Body.String())
	}
	data, _ := env.Data.(map[string]any)
	return env, data
}

func TestRouterAssistantFlow(t *testing.T) {
	r := newTestRouter(t)
	keyHeader := map[string]string{"X-Goog-Api-Key": testKey}

	t.Run("list tasks is public", func(t *testing.T) {
		w := do(r, http.MethodGet, "/assistant/v1/tasks", "", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		_, data := envelope(t, w)
		tasks, _ := data["tasks"].([]any)
		if len(tasks) != 4 {
			t.Fatalf("tasks = %v", data["tasks"])
		}
	})

	t.Run("run task needs a key", func(t *testing.T) {
		w := do(r, http.MethodPost, "/assistant/v1/tasks/audit", `{"text":"hello"}`, nil)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}
		if w.Header().Get(core.HeaderRequestID) == "" {
			t.Fatal("missing request id header")
		}
	})

	t.Run("audit splits sections", func(t *testing.T) {
		w := do(r, http.MethodPost, "/assistant/v1/tasks/audit", `{"text":"Need 2 coaches"}`, keyHeader)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}
		env, data := envelope(t, w)
		if env.Code != 0 || env.RequestID == "" {
			t.Fatalf("envelope = %+v", env)
		}
		if got := w.Header().Get(core.HeaderRequestID); got != env.RequestID {
			t.Fatalf("header request id %q != envelope %q", got, env.RequestID)
		}
		sections, _ := data["sections"].([]any)
		if len(sections) != 2 {
			t.Fatalf("sections = %v", data["sections"])
		}
		first, _ := sections[0].(map[string]any)
		if first["text"] != "Missing pax count" {
			t.Fatalf("analysis = %v", first["text"])
		}
		model, _ := data["model"].(map[string]any)
		if model["apiVersion"] != "v1" || model["modelID"] != "models/gemini-1.5-flash" {
			t.Fatalf("model = %v", model)
		}
	})

	t.Run("unknown task", func(t *testing.T) {
		w := do(r, http.MethodPost, "/assistant/v1/tasks/poetry", `{"text":"hi"}`, keyHeader)
		if w.Code != http.StatusNotFound {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}
	})

	t.Run("provider error maps to 502", func(t *testing.T) {
		w := do(r, http.MethodPost, "/assistant/v1/completions", `{"prompt":"boom"}`, keyHeader)
		if w.Code != http.StatusBadGateway {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}
	})

	t.Run("bad key cannot resolve", func(t *testing.T) {
		w := do(r, http.MethodGet, "/assistant/v1/models/resolve", "", map[string]string{"X-Goog-Api-Key": "wrong"})
		if w.Code != http.StatusForbidden {
			t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
		}
	})

	t.Run("quota reports disabled limiter", func(t *testing.T) {
		w := do(r, http.MethodGet, "/assistant/v1/quota", "", keyHeader)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d", w.Code)
		}
		_, data := envelope(t, w)
		if data["enabled"] != false {
			t.Fatalf("quota = %v", data)
		}
	})
}

func TestRouterAdmin(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodGet, "/admin/history", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("no token status = %d", w.Code)
	}

	jwt, err := token.Issue(testSecret, "ops", core.RoleAdmin, time.Hour, time.Now())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	w = do(r, http.MethodGet, "/admin/history", "", map[string]string{"Authorization": "Bearer " + jwt})
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("history without mongo status = %d, body %s", w.Code, w.Body.String())
	}
}

func TestRouterAdminResetRateLimit(t *testing.T) {
	r := newTestRouter(t)
	path := "/admin/ratelimit/abc123"

	if w := do(r, http.MethodDelete, path, "", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("no token status = %d", w.Code)
	}

	viewer, err := token.Issue(testSecret, "desk", core.RoleViewer, time.Hour, time.Now())
	if err != nil {
		t.Fatalf("issue viewer: %v", err)
	}
	if w := do(r, http.MethodDelete, path, "", map[string]string{"Authorization": "Bearer " + viewer}); w.Code != http.StatusForbidden {
		t.Fatalf("viewer status = %d", w.Code)
	}

	admin, err := token.Issue(testSecret, "ops", core.RoleAdmin, time.Hour, time.Now())
	if err != nil {
		t.Fatalf("issue admin: %v", err)
	}
	w := do(r, http.MethodDelete, path, "", map[string]string{"Authorization": "Bearer " + admin})
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("reset without redis status = %d, body %s", w.Code, w.Body.String())
	}
	env, _ := envelope(t, w)
	if env.Code != cErr.SERVICE_UNAVAILABLE {
		t.Fatalf("envelope = %+v", env)
	}
}

func TestRouterOps(t *testing.T) {
	r := newTestRouter(t)

	for _, path := range []string{"/health/liveness", "/health-check", "/version"} {
		if w := do(r, http.MethodGet, path, "", nil); w.Code != http.StatusOK {
			t.Fatalf("%s status = %d", path, w.Code)
		}
	}
	if w := do(r, http.MethodGet, "/health/readiness", "", nil); w.Code != http.StatusServiceUnavailable {
		t.Fatalf("readiness before start = %d", w.Code)
	}
}

func TestRouterFallbacks(t *testing.T) {
	r := newTestRouter(t)

	w := do(r, http.MethodGet, "/assistant/v2/tasks", "", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown route status = %d", w.Code)
	}
	env, _ := envelope(t, w)
	if env.Code != cErr.NOT_FOUND || env.RequestID == "" {
		t.Fatalf("envelope = %+v", env)
	}

	w = do(r, http.MethodPut, "/assistant/v1/tasks", "", nil)
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("wrong method status = %d", w.Code)
	}
}
