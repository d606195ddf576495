package models

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"
	"travelmail/config"
	"travelmail/internal/core"
	"travelmail/internal/telemetry"

	"go.uber.org/zap"
)

// Resolver 為一把金鑰找出可用的 (版本, 模型)。每次呼叫都重新探測，不快取。
type Resolver struct {
	service   Service
	versions  []string
	family    string
	preferred string
	timeout   time.Duration
	logger    *zap.Logger
	trace     *telemetry.Trace
	metric    *telemetry.Metric
}

func NewResolver(conf *config.Configuration, service Service, logger *zap.Logger, trace *telemetry.Trace, metric *telemetry.Metric) *Resolver {
	r := &Resolver{
		service:   service,
		versions:  core.DefaultAPIVersions,
		family:    core.DefaultFamilyMarker,
		preferred: core.DefaultPreferredMarker,
		timeout:   core.DefaultListTimeout * time.Second,
		logger:    logger,
		trace:     trace,
		metric:    metric,
	}
	if conf == nil {
		return r
	}
	g := conf.Gemini
	if len(g.APIVersions) > 0 {
		r.versions = g.APIVersions
	}
	if g.FamilyMarker != "" {
		r.family = g.FamilyMarker
	}
	if g.PreferredMarker != "" {
		r.preferred = g.PreferredMarker
	}
	if g.ListTimeout > 0 {
		r.timeout = time.Duration(g.ListTimeout) * time.Second
	}
	return r
}

// Resolve 依序探測各版本；任何單一版本的失敗都吞掉改試下一個，全部失敗回 ErrNoModelAvailable
func (r *Resolver) Resolve(ctx context.Context, credential string) (Descriptor, error) {
	ctx, span, end := r.trace.WithSpan(ctx, string(core.SpanModelsResolve))
	var spanErr error
	defer func() { end(spanErr) }()

	for _, version := range r.versions {
		meta := core.TraceResolveProbeMeta{APIVersion: version}
		model, ok := r.probe(ctx, version, credential, &meta)
		r.trace.ApplyTraceAttributes(span, meta)
		r.metric.ObserveProbe(version, meta.Outcome)
		if ok {
			return Descriptor{APIVersion: version, ModelID: model.Name}, nil
		}
		if ctx.Err() != nil {
			break
		}
	}
	spanErr = ErrNoModelAvailable
	return Descriptor{}, ErrNoModelAvailable
}

func (r *Resolver) probe(ctx context.Context, version, credential string, meta *core.TraceResolveProbeMeta) (Model, bool) {
	probeCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	list, err := r.service.List(probeCtx, version, credential)
	if err != nil {
		var statusErr *StatusError
		switch {
		case errors.As(err, &statusErr):
			meta.StatusCode = statusErr.StatusCode
			meta.Outcome = "http_error"
		case errors.Is(err, ErrMalformedResponse):
			meta.Outcome = "decode_error"
		default:
			meta.Outcome = "transport_error"
		}
		r.logger.Debug("model probe failed",
			zap.String("api_version", version),
			zap.String("outcome", meta.Outcome),
			zap.Error(err),
		)
		return Model{}, false
	}

	meta.StatusCode = 200
	meta.Listed = len(list.Models)
	candidates := Filter(list.Models, r.family)
	meta.Matched = len(candidates)
	model, ok := Select(candidates, r.preferred)
	if !ok {
		meta.Outcome = "no_match"
		r.logger.Debug("model probe found no usable model",
			zap.String("api_version", version),
			zap.Int("listed", meta.Listed),
		)
		return Model{}, false
	}
	meta.Outcome = "ok"
	meta.Selected = model.Name
	return model, true
}

// Filter 保留名稱含家族標記、且（有宣告時）支援 generateContent 的模型，維持供應商順序
func Filter(list []Model, family string) []Model {
	out := make([]Model, 0, len(list))
	for _, m := range list {
		if !strings.Contains(m.Name, family) {
			continue
		}
		if len(m.SupportedGenerationMethods) > 0 &&
			!slices.Contains(m.SupportedGenerationMethods, core.GenerateContentMethod) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// Select 偏好名稱含 preferred 的第一個模型，否則取第一個
func Select(candidates []Model, preferred string) (Model, bool) {
	if len(candidates) == 0 {
		return Model{}, false
	}
	if preferred != "" {
		for _, m := range candidates {
			if strings.Contains(m.Name, preferred) {
				return m, true
			}
		}
	}
	return candidates[0], true
}
