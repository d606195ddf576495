package models

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
	"travelmail/config"
	"travelmail/internal/telemetry"

	"go.uber.org/zap"
)

type probeReply struct {
	status int
	body   string
}

func newFakeGemini(t *testing.T, replies map[string]probeReply, calls *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			atomic.AddInt32(calls, 1)
		}
		if r.Method != http.MethodGet {
			t.Errorf("unexpected method %s", r.Method)
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("credential not forwarded: %q", r.URL.RawQuery)
		}
		version := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/"), "/models")
		reply, ok := replies[version]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(reply.status)
		_, _ = w.Write([]byte(reply.body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestResolver(baseURL string, mutate func(*config.Configuration)) *Resolver {
	conf := &config.Configuration{}
	conf.Gemini.BaseURL = baseURL
	if mutate != nil {
		mutate(conf)
	}
	trace := &telemetry.Trace{}
	svc := NewGeminiService(conf, trace, &http.Client{})
	return NewResolver(conf, svc, zap.NewNop(), trace, &telemetry.Metric{})
}

func TestResolve(t *testing.T) {
	cases := []struct {
		name    string
		replies map[string]probeReply
		want    Descriptor
		wantErr error
	}{
		{
			name: "v1 missing falls through to v1beta flash",
			replies: map[string]probeReply{
				"v1beta": {200, `{"models":[{"name":"models/gemini-pro"},{"name":"models/gemini-1.5-flash"}]}`},
			},
			want: Descriptor{APIVersion: "v1beta", ModelID: "models/gemini-1.5-flash"},
		},
		{
			name: "first version wins",
			replies: map[string]probeReply{
				"v1":     {200, `{"models":[{"name":"models/gemini-1.5-flash"}]}`},
				"v1beta": {200, `{"models":[{"name":"models/gemini-2.0-flash"}]}`},
			},
			want: Descriptor{APIVersion: "v1", ModelID: "models/gemini-1.5-flash"},
		},
		{
			name: "no preferred tier takes first match in provider order",
			replies: map[string]probeReply{
				"v1": {200, `{"models":[{"name":"models/embedding-001"},{"name":"models/gemini-pro"},{"name":"models/gemini-ultra"}]}`},
			},
			want: Descriptor{APIVersion: "v1", ModelID: "models/gemini-pro"},
		},
		{
			name: "models without generateContent are skipped",
			replies: map[string]probeReply{
				"v1": {200, `{"models":[
					{"name":"models/gemini-embedding-flash","supportedGenerationMethods":["embedContent"]},
					{"name":"models/gemini-pro","supportedGenerationMethods":["generateContent","countTokens"]}
				]}`},
			},
			want: Descriptor{APIVersion: "v1", ModelID: "models/gemini-pro"},
		},
		{
			name: "list without family falls through",
			replies: map[string]probeReply{
				"v1":     {200, `{"models":[{"name":"models/text-bison-001"}]}`},
				"v1beta": {200, `{"models":[{"name":"models/gemini-pro"}]}`},
			},
			want: Descriptor{APIVersion: "v1beta", ModelID: "models/gemini-pro"},
		},
		{
			name: "undecodable body falls through",
			replies: map[string]probeReply{
				"v1":     {200, `<html>`},
				"v1beta": {200, `{"models":[{"name":"models/gemini-pro"}]}`},
			},
			want: Descriptor{APIVersion: "v1beta", ModelID: "models/gemini-pro"},
		},
		{
			name: "both forbidden",
			replies: map[string]probeReply{
				"v1":     {403, `{"error":{"code":403,"status":"PERMISSION_DENIED"}}`},
				"v1beta": {403, `{"error":{"code":403,"status":"PERMISSION_DENIED"}}`},
			},
			wantErr: ErrNoModelAvailable,
		},
		{
			name: "empty lists",
			replies: map[string]probeReply{
				"v1":     {200, `{}`},
				"v1beta": {200, `{"models":[]}`},
			},
			wantErr: ErrNoModelAvailable,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := newFakeGemini(t, tc.replies, nil)
			got, err := newTestResolver(srv.URL, nil).Resolve(context.Background(), "test-key")
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("err = %v, want %v", err, tc.wantErr)
				}
				if !got.IsZero() {
					t.Fatalf("descriptor = %+v, want zero", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestResolveIsStateless(t *testing.T) {
	var calls int32
	srv := newFakeGemini(t, map[string]probeReply{
		"v1beta": {200, `{"models":[{"name":"models/gemini-pro"},{"name":"models/gemini-1.5-flash"}]}`},
	}, &calls)
	r := newTestResolver(srv.URL, nil)

	first, err := r.Resolve(context.Background(), "test-key")
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Resolve(context.Background(), "test-key")
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Fatalf("resolution changed between calls: %+v vs %+v", first, second)
	}
	// 兩次都重新探測 v1 與 v1beta
	if n := atomic.LoadInt32(&calls); n != 4 {
		t.Fatalf("probe calls = %d, want 4", n)
	}
}

func TestResolveTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	_, err := newTestResolver(base, nil).Resolve(context.Background(), "test-key")
	if !errors.Is(err, ErrNoModelAvailable) {
		t.Fatalf("err = %v, want ErrNoModelAvailable", err)
	}
}

func TestResolveProbeTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/v1/") {
			select {
			case <-r.Context().Done():
			case <-time.After(3 * time.Second):
			}
			return
		}
		_, _ = w.Write([]byte(`{"models":[{"name":"models/gemini-pro"}]}`))
	}))
	defer srv.Close()

	r := newTestResolver(srv.URL, nil)
	r.timeout = 50 * time.Millisecond

	got, err := r.Resolve(context.Background(), "test-key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.APIVersion != "v1beta" {
		t.Fatalf("got %+v, want v1beta after v1 timeout", got)
	}
}

func TestResolveConfiguredMarkers(t *testing.T) {
	srv := newFakeGemini(t, map[string]probeReply{
		"v1beta": {200, `{"models":[{"name":"models/gemini-1.5-flash"},{"name":"models/gemini-1.5-pro"}]}`},
	}, nil)
	r := newTestResolver(srv.URL, func(c *config.Configuration) {
		c.Gemini.APIVersions = []string{"v1beta"}
		c.Gemini.PreferredMarker = "pro"
	})
	got, err := r.Resolve(context.Background(), "test-key")
	if err != nil {
		t.Fatal(err)
	}
	if got.ModelID != "models/gemini-1.5-pro" {
		t.Fatalf("got %s, want models/gemini-1.5-pro", got.ModelID)
	}
}

func TestSelect(t *testing.T) {
	if _, ok := Select(nil, "flash"); ok {
		t.Fatal("empty candidates must not select")
	}
	m, ok := Select([]Model{{Name: "models/gemini-pro"}}, "")
	if !ok || m.Name != "models/gemini-pro" {
		t.Fatalf("got %+v", m)
	}
}
