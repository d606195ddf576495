package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"travelmail/config"
	"travelmail/internal/core"
	"travelmail/internal/service/models"
	"travelmail/internal/telemetry"
	"travelmail/utils/apikey"
	"travelmail/utils/compress"
)

type GeminiService struct {
	HTTPClient *http.Client
	baseURL    string
	trace      *telemetry.Trace
}

// NewGeminiService 建立 GeminiService
func NewGeminiService(conf *config.Configuration, trace *telemetry.Trace, client *http.Client) Service {
	base := core.GeminiAPIBaseURL
	if conf != nil && conf.Gemini.BaseURL != "" {
		base = conf.Gemini.BaseURL
	}
	return &GeminiService{HTTPClient: client, baseURL: strings.TrimRight(base, "/"), trace: trace}
}

// GenerateContent POST {base}/{version}/{model}:generateContent?key={credential}
// 失敗時：
//   - 送出失敗/逾時：原始 transport error
//   - 非 200：*StatusError
//   - 200 但無法解析：ErrMalformedResponse
func (s *GeminiService) GenerateContent(ctx context.Context, model models.Descriptor, credential string, req *GenerateRequest) (*GenerateResponse, error) {
	u, err := url.Parse(s.baseURL + "/" + model.APIVersion + "/" + model.ModelID + string(core.GeminiGenerateEndpoint))
	if err != nil {
		return nil, fmt.Errorf("build generate url: %w", err)
	}
	q := u.Query()
	q.Set(core.QueryCredentialID, credential)
	u.RawQuery = q.Encode()

	ctx, span, end := s.trace.WithSpan(ctx, string(core.SpanGenerateContent))
	var spanErr error
	defer func() { end(spanErr) }()

	meta := core.TraceGenerateMeta{
		APIVersion:   model.APIVersion,
		Model:        model.ModelID,
		URL:          apikey.RedactURL(u),
		HistoryTurns: len(req.Contents) - 1,
	}
	if n := len(req.Contents); n > 0 && len(req.Contents[n-1].Parts) > 0 {
		meta.PromptChars = len([]rune(req.Contents[n-1].Parts[0].Text))
	}
	defer func() { s.trace.ApplyTraceAttributes(span, meta) }()

	payload, err := json.Marshal(req)
	if err != nil {
		spanErr = err
		return nil, fmt.Errorf("marshal generate request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(payload))
	if err != nil {
		err = apikey.RedactError(err, u)
		spanErr = err
		return nil, fmt.Errorf("create generate request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := s.HTTPClient.Do(httpReq)
	if err != nil {
		err = apikey.RedactError(err, u)
		spanErr = err
		return nil, err
	}
	defer resp.Body.Close()
	meta.StatusCode = resp.StatusCode

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

	var out GenerateResponse
	if err := json.Unmarshal(body, &out); err != nil {
		spanErr = err
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if out.UsageMetadata != nil {
		meta.PromptTokens = out.UsageMetadata.PromptTokenCount
		meta.CandidatesTokens = out.UsageMetadata.CandidatesTokenCount
	}
	meta.BlockReason = out.BlockReason()
	return &out, nil
}
