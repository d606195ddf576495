package completion

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
	"travelmail/config"
	"travelmail/internal/core"
	"travelmail/internal/service/chat"
	"travelmail/internal/service/models"
	"travelmail/internal/telemetry"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// fakeGemini 模擬 models.list 與 generateContent
type fakeGemini struct {
	list     map[string]int // version -> status；200 時回傳 listBody
	listBody string
	generate func(w http.ResponseWriter, r *http.Request)
	posts    int32
}

func (f *fakeGemini) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		atomic.AddInt32(&f.posts, 1)
		f.generate(w, r)
		return
	}
	version := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/"), "/models")
	status, ok := f.list[version]
	if !ok {
		status = http.StatusNotFound
	}
	w.WriteHeader(status)
	if status == http.StatusOK {
		_, _ = w.Write([]byte(f.listBody))
	}
}

func newTestClient(t *testing.T, f *fakeGemini, mutate func(*config.Configuration)) *Client {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)

	conf := &config.Configuration{}
	conf.Gemini.BaseURL = srv.URL
	if mutate != nil {
		mutate(conf)
	}
	trace := &telemetry.Trace{}
	metric := &telemetry.Metric{}
	logger := zap.NewNop()
	httpClient := &http.Client{}
	resolver := models.NewResolver(conf, models.NewGeminiService(conf, trace, httpClient), logger, trace, metric)
	return NewClient(conf, resolver, chat.NewGeminiService(conf, trace, httpClient), logger, trace, metric)
}

func reply(status int, body string) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

const flashList = `{"models":[{"name":"models/gemini-pro"},{"name":"models/gemini-1.5-flash"}]}`

func TestCompleteDiscover(t *testing.T) {
	cases := []struct {
		name      string
		list      map[string]int
		generate  func(http.ResponseWriter, *http.Request)
		wantKind  FailureKind
		wantCode  int
		wantText  string
		wantPosts int32
	}{
		{
			name:      "success strips bold",
			list:      map[string]int{"v1beta": 200},
			generate:  reply(200, `{"candidates":[{"content":{"parts":[{"text":"**Missing:** vehicle type"}]}}]}`),
			wantText:  "Missing: vehicle type",
			wantPosts: 1,
		},
		{
			name:      "both versions forbidden short-circuits",
			list:      map[string]int{"v1": 403, "v1beta": 403},
			wantKind:  ResolutionUnavailable,
			wantPosts: 0,
		},
		{
			name:      "ok without candidates",
			list:      map[string]int{"v1": 200},
			generate:  reply(200, `{"promptFeedback":{"blockReason":"SAFETY"}}`),
			wantKind:  EmptyOrBlockedResponse,
			wantPosts: 1,
		},
		{
			name:      "whitespace text is still a reply",
			list:      map[string]int{"v1": 200},
			generate:  reply(200, `{"candidates":[{"content":{"parts":[{"text":"  "}]}}]}`),
			wantText:  "  ",
			wantPosts: 1,
		},
		{
			name:      "provider error",
			list:      map[string]int{"v1": 200},
			generate:  reply(500, `{"error":{"code":500}}`),
			wantKind:  ProviderError,
			wantCode:  500,
			wantPosts: 1,
		},
		{
			name: "provider error with corrupt gzip body",
			list: map[string]int{"v1": 200},
			generate: func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Encoding", "gzip")
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte("upstream unavailable"))
			},
			wantKind:  ProviderError,
			wantCode:  503,
			wantPosts: 1,
		},
		{
			name:      "undecodable ok body",
			list:      map[string]int{"v1": 200},
			generate:  reply(200, `<html>`),
			wantKind:  EmptyOrBlockedResponse,
			wantPosts: 1,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := &fakeGemini{list: tc.list, listBody: flashList, generate: tc.generate}
			res := newTestClient(t, f, nil).Complete(context.Background(), Request{Credential: "k", Prompt: "p"})

			if got := atomic.LoadInt32(&f.posts); got != tc.wantPosts {
				t.Fatalf("posts = %d, want %d", got, tc.wantPosts)
			}
			if tc.wantKind == "" {
				if !res.OK() {
					t.Fatalf("unexpected failure: %v", res.Failure)
				}
				if res.Text != tc.wantText {
					t.Fatalf("text = %q, want %q", res.Text, tc.wantText)
				}
				return
			}
			if res.OK() {
				t.Fatalf("expected failure %s, got text %q", tc.wantKind, res.Text)
			}
			if res.Failure.Kind != tc.wantKind {
				t.Fatalf("kind = %s, want %s", res.Failure.Kind, tc.wantKind)
			}
			if res.Failure.StatusCode != tc.wantCode {
				t.Fatalf("status = %d, want %d", res.Failure.StatusCode, tc.wantCode)
			}
		})
	}
}

func TestCompleteResolutionMessage(t *testing.T) {
	f := &fakeGemini{list: map[string]int{"v1": 403, "v1beta": 403}}
	res := newTestClient(t, f, nil).Complete(context.Background(), Request{Credential: "bad", Prompt: "p"})
	if res.OK() || res.Failure.Message != MessageResolutionUnavailable {
		t.Fatalf("failure = %+v", res.Failure)
	}
}

func TestCompleteBlockReasonInMessage(t *testing.T) {
	f := &fakeGemini{
		list:     map[string]int{"v1": 200},
		listBody: flashList,
		generate: reply(200, `{"promptFeedback":{"blockReason":"SAFETY"}}`),
	}
	res := newTestClient(t, f, nil).Complete(context.Background(), Request{Credential: "k", Prompt: "p"})
	if res.OK() || !strings.Contains(res.Failure.Message, "SAFETY") {
		t.Fatalf("failure = %+v", res.Failure)
	}
}

func TestCompleteUsesResolvedModel(t *testing.T) {
	var (
		mu   sync.Mutex
		path string
	)
	f := &fakeGemini{
		list:     map[string]int{"v1beta": 200},
		listBody: flashList,
		generate: func(w http.ResponseWriter, r *http.Request) {
			mu.Lock()
			path = r.URL.Path
			mu.Unlock()
			_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"ok"}]}}]}`))
		},
	}
	res := newTestClient(t, f, nil).Complete(context.Background(), Request{Credential: "k", Prompt: "p"})
	if !res.OK() {
		t.Fatal(res.Failure)
	}
	mu.Lock()
	defer mu.Unlock()
	if path != "/v1beta/models/gemini-1.5-flash:generateContent" {
		t.Fatalf("path = %s", path)
	}
	want := models.Descriptor{APIVersion: "v1beta", ModelID: "models/gemini-1.5-flash"}
	if res.Model != want {
		t.Fatalf("model = %+v", res.Model)
	}
}

func TestCompleteTimeoutIsConnectionError(t *testing.T) {
	f := &fakeGemini{
		list:     map[string]int{"v1": 200},
		listBody: flashList,
		generate: func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(3 * time.Second):
			}
		},
	}
	c := newTestClient(t, f, nil)
	c.timeout = 50 * time.Millisecond

	res := c.Complete(context.Background(), Request{Credential: "k", Prompt: "p"})
	if res.OK() || res.Failure.Kind != ConnectionError {
		t.Fatalf("failure = %+v, want connection error", res.Failure)
	}
}

func TestConnectionErrorHidesCredential(t *testing.T) {
	const secret = "SECRET-KEY-123"
	hang := func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(3 * time.Second):
		}
	}
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "generateContent times out",
			handler: func(w http.ResponseWriter, r *http.Request) {
				if r.Method == http.MethodPost {
					hang(w, r)
					return
				}
				_, _ = w.Write([]byte(flashList))
			},
		},
		{
			name:    "models list times out",
			handler: hang,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			t.Cleanup(srv.Close)
			conf := &config.Configuration{}
			conf.Gemini.BaseURL = srv.URL

			obsCore, logs := observer.New(zap.DebugLevel)
			logger := zap.New(obsCore)
			trace := &telemetry.Trace{}
			metric := &telemetry.Metric{}
			httpClient := &http.Client{}
			resolver := models.NewResolver(conf, models.NewGeminiService(conf, trace, httpClient), logger, trace, metric)
			client := NewClient(conf, resolver, chat.NewGeminiService(conf, trace, httpClient), logger, trace, metric)
			client.timeout = 50 * time.Millisecond

			ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
			defer cancel()
			res := client.Complete(ctx, Request{Credential: secret, Prompt: "p"})
			if res.OK() {
				t.Fatal("expected failure")
			}
			if strings.Contains(res.Failure.Message, secret) || strings.Contains(res.Failure.AppError().ErrorDesc(), secret) {
				t.Fatalf("failure message leaks credential: %q", res.Failure.Message)
			}
			for _, entry := range logs.All() {
				if strings.Contains(entry.Message, secret) {
					t.Fatalf("log message leaks credential: %q", entry.Message)
				}
				for k, v := range entry.ContextMap() {
					if strings.Contains(fmt.Sprint(v), secret) {
						t.Fatalf("log field %s leaks credential: %v", k, v)
					}
				}
			}
		})
	}
}

func TestCompleteStripTokens(t *testing.T) {
	f := &fakeGemini{
		list:     map[string]int{"v1": 200},
		listBody: flashList,
		generate: reply(200, `{"candidates":[{"content":{"parts":[{"text":"## 26.03.2026, 18 pax, **Kaunas**"}]}}]}`),
	}
	res := newTestClient(t, f, nil).Complete(context.Background(), Request{Credential: "k", Prompt: "p", StripTokens: []string{"##"}})
	if res.Text != " 26.03.2026, 18 pax, Kaunas" {
		t.Fatalf("text = %q", res.Text)
	}
}

func TestCompleteFixed(t *testing.T) {
	fixed := func(c *config.Configuration) { c.Gemini.Strategy = string(core.StrategyFixed) }

	t.Run("falls through to next model", func(t *testing.T) {
		var (
			mu    sync.Mutex
			tried []string
		)
		f := &fakeGemini{
			generate: func(w http.ResponseWriter, r *http.Request) {
				mu.Lock()
				tried = append(tried, r.URL.Path)
				mu.Unlock()
				if strings.Contains(r.URL.Path, "gemini-1.5-flash:") {
					w.WriteHeader(http.StatusNotFound)
					return
				}
				_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"**ok**"}]}}]}`))
			},
		}
		res := newTestClient(t, f, fixed).Complete(context.Background(), Request{Credential: "k", Prompt: "p"})
		if !res.OK() || res.Text != "ok" {
			t.Fatalf("res = %+v", res)
		}
		want := []string{
			"/v1beta/models/gemini-1.5-flash:generateContent",
			"/v1beta/models/gemini-pro:generateContent",
		}
		mu.Lock()
		defer mu.Unlock()
		if strings.Join(tried, ",") != strings.Join(want, ",") {
			t.Fatalf("tried = %v", tried)
		}
	})

	t.Run("exhausted list", func(t *testing.T) {
		f := &fakeGemini{generate: reply(403, `{}`)}
		res := newTestClient(t, f, fixed).Complete(context.Background(), Request{Credential: "k", Prompt: "p"})
		if res.OK() || res.Failure.Kind != ResolutionUnavailable {
			t.Fatalf("res = %+v", res)
		}
		if n := atomic.LoadInt32(&f.posts); n != 3 {
			t.Fatalf("posts = %d, want 3", n)
		}
	})

	t.Run("first ok response is classified", func(t *testing.T) {
		f := &fakeGemini{generate: reply(200, `{}`)}
		res := newTestClient(t, f, fixed).Complete(context.Background(), Request{Credential: "k", Prompt: "p"})
		if res.OK() || res.Failure.Kind != EmptyOrBlockedResponse {
			t.Fatalf("res = %+v", res)
		}
		if n := atomic.LoadInt32(&f.posts); n != 1 {
			t.Fatalf("posts = %d, want 1", n)
		}
	})

	t.Run("never lists models", func(t *testing.T) {
		f := &fakeGemini{list: map[string]int{"v1": 200}, listBody: flashList, generate: reply(200, `{"candidates":[{"content":{"parts":[{"text":"x"}]}}]}`)}
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet {
				t.Errorf("fixed strategy must not list models")
			}
			f.ServeHTTP(w, r)
		}))
		defer srv.Close()
		conf := &config.Configuration{}
		conf.Gemini.BaseURL = srv.URL
		conf.Gemini.Strategy = string(core.StrategyFixed)
		trace := &telemetry.Trace{}
		c := NewClient(conf, stubResolver{err: errors.New("unused")}, chat.NewGeminiService(conf, trace, &http.Client{}), zap.NewNop(), trace, &telemetry.Metric{})
		if res := c.Complete(context.Background(), Request{Credential: "k", Prompt: "p"}); !res.OK() {
			t.Fatalf("res = %+v", res)
		}
	})
}

type stubResolver struct {
	model models.Descriptor
	err   error
}

func (s stubResolver) Resolve(context.Context, string) (models.Descriptor, error) {
	return s.model, s.err
}

func TestFailureAppError(t *testing.T) {
	cases := []struct {
		kind     FailureKind
		wantHTTP int
	}{
		{ResolutionUnavailable, http.StatusForbidden},
		{ProviderError, http.StatusBadGateway},
		{ConnectionError, http.StatusGatewayTimeout},
		{EmptyOrBlockedResponse, http.StatusBadGateway},
	}
	for _, tc := range cases {
		t.Run(string(tc.kind), func(t *testing.T) {
			f := &Failure{Kind: tc.kind, Message: "m"}
			if got := f.AppError().HttpCode(); got != tc.wantHTTP {
				t.Fatalf("http = %d, want %d", got, tc.wantHTTP)
			}
		})
	}
}
