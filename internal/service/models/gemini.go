package models

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"travelmail/config"
	"travelmail/internal/core"
	"travelmail/internal/telemetry"
	"travelmail/utils/apikey"
	"travelmail/utils/compress"

	"go.opentelemetry.io/otel/attribute"
)

type GeminiService struct {
	HTTPClient *http.Client
	baseURL    string
	trace      *telemetry.Trace
}

func NewGeminiService(conf *config.Configuration, trace *telemetry.Trace, client *http.Client) Service {
	base := core.GeminiAPIBaseURL
	if conf != nil && conf.Gemini.BaseURL != "" {
		base = conf.Gemini.BaseURL
	}
	return &GeminiService{HTTPClient: client, baseURL: strings.TrimRight(base, "/"), trace: trace}
}

// List GET {base}/{version}/models?key={credential}
func (s *GeminiService) List(ctx context.Context, version, credential string) (*ListResponse, error) {
	u, err := url.Parse(s.baseURL + "/" + version + string(core.GeminiModelsEndpoint))
	if err != nil {
		return nil, fmt.Errorf("build models url: %w", err)
	}
	q := u.Query()
	q.Set(core.QueryCredentialID, credential)
	u.RawQuery = q.Encode()

	ctx, span, end := s.trace.WithSpan(ctx, string(core.SpanModelsList))
	var spanErr error
	defer func() { end(spanErr) }()

	span.SetAttributes(
		attribute.String("ai.provider", string(core.ProviderGemini)),
		attribute.String("gemini.api_version", version),
		attribute.String("http.url", apikey.RedactURL(u)),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		err = apikey.RedactError(err, u)
		spanErr = err
		return nil, fmt.Errorf("create models request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		err = apikey.RedactError(err, u)
		spanErr = err
		return nil, err
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	raw, readErr := io.ReadAll(resp.Body)
	// 非 200 一律以狀態碼回報，body 讀不完或解不開就附上已讀到的原始內容
	if resp.StatusCode != http.StatusOK {
		body, decodeErr := compress.Decode(raw, resp.Header)
		if decodeErr != nil {
			body = raw
		}
		spanErr = &StatusError{StatusCode: resp.StatusCode, Body: trimBody(body)}
		return nil, spanErr
	}
	if readErr != nil {
		err = apikey.RedactError(readErr, u)
		spanErr = err
		return nil, err
	}
	body, err := compress.Decode(raw, resp.Header)
	if err != nil {
		spanErr = err
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	var out ListResponse
	if err := json.Unmarshal(body, &out); err != nil {
		spanErr = err
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	span.SetAttributes(attribute.Int("gemini.models.listed", len(out.Models)))
	return &out, nil
}
