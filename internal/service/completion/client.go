package completion

import (
	"context"
	"errors"
	"fmt"
	"time"
	"travelmail/config"
	"travelmail/internal/core"
	"travelmail/internal/service/chat"
	"travelmail/internal/service/models"
	"travelmail/internal/telemetry"

	"go.uber.org/zap"
)

// ModelResolver 找出金鑰可用的模型
type ModelResolver interface {
	Resolve(ctx context.Context, credential string) (models.Descriptor, error)
}

// Client 一次 generateContent 來回，所有失敗都以 Result.Failure 回傳
type Client struct {
	resolver        ModelResolver
	chat            chat.Service
	strategy        core.ResolveStrategy
	fallbackModels  []string
	fallbackVersion string
	timeout         time.Duration
	logger          *zap.Logger
	trace           *telemetry.Trace
	metric          *telemetry.Metric
}

func NewClient(
	conf *config.Configuration,
	resolver ModelResolver,
	chatService chat.Service,
	logger *zap.Logger,
	trace *telemetry.Trace,
	metric *telemetry.Metric,
) *Client {
	c := &Client{
		resolver:        resolver,
		chat:            chatService,
		strategy:        core.StrategyDiscover,
		fallbackModels:  core.DefaultFallbackModels,
		fallbackVersion: core.DefaultFallbackVersion,
		timeout:         core.DefaultGenerateTimeout * time.Second,
		logger:          logger,
		trace:           trace,
		metric:          metric,
	}
	if conf == nil {
		return c
	}
	g := conf.Gemini
	if g.Strategy != "" {
		c.strategy = core.ResolveStrategy(g.Strategy)
	}
	if len(g.FallbackModels) > 0 {
		c.fallbackModels = g.FallbackModels
	}
	if g.FallbackVersion != "" {
		c.fallbackVersion = g.FallbackVersion
	}
	if g.GenerateTimeout > 0 {
		c.timeout = time.Duration(g.GenerateTimeout) * time.Second
	}
	return c
}

func (c *Client) Strategy() core.ResolveStrategy { return c.strategy }

// Complete 依設定的策略取得模型並送出 prompt；兩種策略不會混用
func (c *Client) Complete(ctx context.Context, req Request) Result {
	start := time.Now()
	ctx, span, end := c.trace.WithSpan(ctx, string(core.SpanCompletion))

	var res Result
	if c.strategy == core.StrategyFixed {
		res = c.completeFixed(ctx, req)
	} else {
		res = c.completeDiscover(ctx, req)
	}

	meta := core.TraceCompletionMeta{
		Strategy:   string(c.strategy),
		Task:       req.Task,
		Model:      res.Model.ModelID,
		APIVersion: res.Model.APIVersion,
	}
	outcome := "success"
	var spanErr error
	if res.Failure != nil {
		outcome = string(res.Failure.Kind)
		meta.FailureKind = outcome
		spanErr = res.Failure
		c.logger.Info("completion failed",
			zap.String("task", req.Task),
			zap.String("kind", outcome),
			zap.Int("status", res.Failure.StatusCode),
			zap.String("message", res.Failure.Message),
		)
	} else {
		meta.OutputChars = len([]rune(res.Text))
	}
	c.trace.ApplyTraceAttributes(span, meta)
	end(spanErr)

	task := req.Task
	if task == "" {
		task = "raw"
	}
	c.metric.ObserveCompletion(task, outcome, time.Since(start))
	return res
}

func (c *Client) completeDiscover(ctx context.Context, req Request) Result {
	model, err := c.resolver.Resolve(ctx, req.Credential)
	if err != nil {
		return Fail(ResolutionUnavailable, MessageResolutionUnavailable)
	}
	resp, err := c.generate(ctx, model, req)
	return c.classify(model, resp, err, req)
}

func (c *Client) generate(ctx context.Context, model models.Descriptor, req Request) (*chat.GenerateResponse, error) {
	genCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.chat.GenerateContent(genCtx, model, req.Credential, chat.NewGenerateRequest(req.Prompt, req.History))
}

// classify 把一次 generateContent 的結果轉成 Result
func (c *Client) classify(model models.Descriptor, resp *chat.GenerateResponse, err error, req Request) Result {
	if err != nil {
		var statusErr *chat.StatusError
		switch {
		case errors.As(err, &statusErr):
			res := Fail(ProviderError, fmt.Sprintf("Google Error %d", statusErr.StatusCode))
			res.Failure.StatusCode = statusErr.StatusCode
			res.Failure.Body = statusErr.Body
			res.Model = model
			return res
		case errors.Is(err, chat.ErrMalformedResponse):
			res := Fail(EmptyOrBlockedResponse, "response could not be decoded")
			res.Model = model
			return res
		default:
			res := Fail(ConnectionError, err.Error())
			res.Model = model
			return res
		}
	}

	text, ok := resp.FirstText()
	// 只有空白的文字照樣回傳，沒有候選內容才算失敗
	if !ok {
		msg := "empty response"
		if reason := resp.BlockReason(); reason != "" {
			msg += ": blocked (" + reason + ")"
		}
		res := Fail(EmptyOrBlockedResponse, msg)
		res.Model = model
		return res
	}
	return Success(Normalize(text, req.StripTokens...), model, resp)
}
