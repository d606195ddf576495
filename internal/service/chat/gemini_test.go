package chat

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"travelmail/config"
	"travelmail/internal/service/models"
	"travelmail/internal/telemetry"

	"github.com/klauspost/compress/gzip"
)

var flash = models.Descriptor{APIVersion: "v1beta", ModelID: "models/gemini-1.5-flash"}

func newTestService(baseURL string) Service {
	conf := &config.Configuration{}
	conf.Gemini.BaseURL = baseURL
	return NewGeminiService(conf, &telemetry.Trace{}, &http.Client{})
}

func TestGenerateContentWireFormat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if r.URL.Path != "/v1beta/models/gemini-1.5-flash:generateContent" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("key"); got != "test-key" {
			t.Errorf("key = %q", got)
		}
		body, _ := io.ReadAll(r.Body)
		want := `{"contents":[{"parts":[{"text":"hello"}]}]}`
		if string(body) != want {
			t.Errorf("body = %s, want %s", body, want)
		}
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"hi **there**"}]}}],"usageMetadata":{"promptTokenCount":3,"candidatesTokenCount":2,"totalTokenCount":5},"modelVersion":"gemini-1.5-flash-002"}`))
	}))
	defer srv.Close()

	resp, err := newTestService(srv.URL).GenerateContent(context.Background(), flash, "test-key", NewGenerateRequest("hello", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text, ok := resp.FirstText()
	if !ok || text != "hi **there**" {
		t.Fatalf("FirstText = %q, %v", text, ok)
	}
	if resp.UsageMetadata == nil || resp.UsageMetadata.TotalTokenCount != 5 {
		t.Fatalf("usage = %+v", resp.UsageMetadata)
	}
}

func TestGenerateContentHistory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		want := `{"contents":[{"role":"user","parts":[{"text":"q1"}]},{"role":"model","parts":[{"text":"a1"}]},{"role":"user","parts":[{"text":"q2"}]}]}`
		if string(body) != want {
			t.Errorf("body = %s", body)
		}
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"a2"}]}}]}`))
	}))
	defer srv.Close()

	history := []Turn{{Role: "user", Text: "q1"}, {Role: "model", Text: "a1"}}
	if _, err := newTestService(srv.URL).GenerateContent(context.Background(), flash, "test-key", NewGenerateRequest("q2", history)); err != nil {
		t.Fatal(err)
	}
}

func TestGenerateContentErrors(t *testing.T) {
	cases := []struct {
		name     string
		status   int
		encoding string
		body     string
		check    func(t *testing.T, err error)
	}{
		{
			name:   "server error",
			status: 500,
			body:   `{"error":{"code":500,"message":"internal"}}`,
			check: func(t *testing.T, err error) {
				var se *StatusError
				if !errors.As(err, &se) || se.StatusCode != 500 {
					t.Fatalf("err = %v, want StatusError 500", err)
				}
				if se.Body == "" {
					t.Fatal("status error body empty")
				}
			},
		},
		{
			name:     "unavailable with corrupt gzip body",
			status:   503,
			encoding: "gzip",
			body:     "upstream unavailable",
			check: func(t *testing.T, err error) {
				var se *StatusError
				// net/http 會自行解 gzip，讀取失敗也要保留狀態碼
				if !errors.As(err, &se) || se.StatusCode != 503 {
					t.Fatalf("err = %v, want StatusError 503", err)
				}
			},
		},
		{
			name:   "malformed body",
			status: 200,
			body:   `not json`,
			check: func(t *testing.T, err error) {
				if !errors.Is(err, ErrMalformedResponse) {
					t.Fatalf("err = %v, want ErrMalformedResponse", err)
				}
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tc.encoding != "" {
					w.Header().Set("Content-Encoding", tc.encoding)
				}
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()
			_, err := newTestService(srv.URL).GenerateContent(context.Background(), flash, "test-key", NewGenerateRequest("x", nil))
			tc.check(t, err)
		})
	}
}

func TestGenerateContentTransportErrorRedactsKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	baseURL := srv.URL
	srv.Close()

	_, err := newTestService(baseURL).GenerateContent(context.Background(), flash, "AIza-hidden", NewGenerateRequest("x", nil))
	if err == nil {
		t.Fatal("expected transport error")
	}
	if strings.Contains(err.Error(), "AIza-hidden") {
		t.Fatalf("error leaks credential: %v", err)
	}
	if !strings.Contains(err.Error(), "key=REDACTED") {
		t.Fatalf("error = %v", err)
	}
}

func TestGenerateContentGzipBody(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, _ = zw.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"zipped"}]}}]}`))
	_ = zw.Close()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		_, _ = w.Write(buf.Bytes())
	}))
	defer srv.Close()

	// 關閉 transport 自動解壓，由 compress.Decode 處理
	client := &http.Client{Transport: &http.Transport{DisableCompression: true}}
	conf := &config.Configuration{}
	conf.Gemini.BaseURL = srv.URL
	svc := NewGeminiService(conf, &telemetry.Trace{}, client)

	resp, err := svc.GenerateContent(context.Background(), flash, "test-key", NewGenerateRequest("x", nil))
	if err != nil {
		t.Fatal(err)
	}
	if text, _ := resp.FirstText(); text != "zipped" {
		t.Fatalf("text = %q", text)
	}
}

func TestFirstText(t *testing.T) {
	cases := []struct {
		name string
		resp *GenerateResponse
		ok   bool
	}{
		{"nil", nil, false},
		{"no candidates", &GenerateResponse{}, false},
		{"no content", &GenerateResponse{Candidates: []Candidate{{FinishReason: "SAFETY"}}}, false},
		{"no parts", &GenerateResponse{Candidates: []Candidate{{Content: &Content{}}}}, false},
		{"text", &GenerateResponse{Candidates: []Candidate{{Content: &Content{Parts: []Part{{Text: "x"}}}}}}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, ok := tc.resp.FirstText(); ok != tc.ok {
				t.Fatalf("ok = %v, want %v", ok, tc.ok)
			}
		})
	}
}
