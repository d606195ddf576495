package core

const ContextTraceKey = "telemetry_trace_ctx"

// ==== 型別安全 span name ====
// 專案全域建議都寫這裡，方便集中管理
type TraceSpanName string

const (
	SpanLoggerMiddleware     TraceSpanName = "logger_middleware"
	SpanRecoveryMiddleware   TraceSpanName = "recovery_middleware"
	SpanCorsMiddleware       TraceSpanName = "cors_middleware"
	SpanResponseMiddleware   TraceSpanName = "response_middleware"
	SpanCredentialMiddleware TraceSpanName = "credential_middleware"
	SpanRateLimitMiddleware  TraceSpanName = "ratelimit_middleware"
	SpanAdminMiddleware      TraceSpanName = "admin_middleware"
	SpanModelsList           TraceSpanName = "gemini.models.list"
	SpanModelsResolve        TraceSpanName = "gemini.models.resolve"
	SpanGenerateContent      TraceSpanName = "gemini.generate_content"
	SpanCompletion           TraceSpanName = "completion.complete"
)

// 指標名稱常數
type MetricName string

const (
	MetricHttpRequestsTotal     MetricName = "requests_total"
	MetricHttpRequestDuration   MetricName = "request_duration_seconds"
	MetricCompletionTotal       MetricName = "completion_total"
	MetricCompletionDuration    MetricName = "completion_duration_seconds"
	MetricResolverProbeTotal    MetricName = "resolver_probe_total"
	MetricRateLimitTotal        MetricName = "rate_limited_total"
	MetricHistoryRetentionTotal MetricName = "history_retention_deleted_total"
)

// label name 常數
type MetricLabelName string

const (
	MetricLabelEndpoint MetricLabelName = "endpoint"
	MetricLabelStatus   MetricLabelName = "status"
	MetricLabelVersion  MetricLabelName = "api_version"
	MetricLabelOutcome  MetricLabelName = "outcome"
	MetricLabelTask     MetricLabelName = "task"
)

type LoggerRequestMeta struct {
	Method     string            `trace:"request.method"`
	Path       string            `trace:"request.path"`
	FullPath   string            `trace:"request.full_path"`
	Query      string            `trace:"request.query"`
	Body       string            `trace:"request.body"`
	Scheme     string            `trace:"http.scheme"`
	Host       string            `trace:"http.host"`
	UserAgent  string            `trace:"http.user_agent"`
	ContentLen int64             `trace:"http.request_content_length"`
	Proto      string            `trace:"http.flavor"`
	ClientIP   string            `trace:"net.peer.ip"`
	Headers    map[string]string `trace:"http.request.header"`
	Params     map[string]string `trace:"http.request.param"`
}

// 模型解析（每個版本一次探測）
type TraceResolveProbeMeta struct {
	APIVersion string `trace:"gemini.api_version"`
	URL        string `trace:"http.url"`
	StatusCode int    `trace:"http.status_code,omitempty"`
	Listed     int    `trace:"gemini.models.listed"`
	Matched    int    `trace:"gemini.models.matched"`
	Selected   string `trace:"gemini.models.selected,omitempty"`
	Outcome    string `trace:"gemini.probe.outcome"`
}

type TraceGenerateMeta struct {
	APIVersion       string `trace:"gemini.api_version"`
	Model            string `trace:"gemini.model"`
	URL              string `trace:"http.url"`
	StatusCode       int    `trace:"http.status_code,omitempty"`
	HistoryTurns     int    `trace:"gemini.history_turns"`
	PromptChars      int    `trace:"gemini.prompt_chars"`
	PromptTokens     int    `trace:"gemini.tokens.prompt,omitempty"`
	CandidatesTokens int    `trace:"gemini.tokens.candidates,omitempty"`
	BlockReason      string `trace:"gemini.block_reason,omitempty"`
}

type TraceCompletionMeta struct {
	Strategy    string `trace:"completion.strategy"`
	Task        string `trace:"completion.task,omitempty"`
	Model       string `trace:"completion.model,omitempty"`
	APIVersion  string `trace:"completion.api_version,omitempty"`
	FailureKind string `trace:"completion.failure_kind,omitempty"`
	OutputChars int    `trace:"completion.output_chars,omitempty"`
}

// 供 Redis 限流 Consume / Get 使用
type TraceRateLimitMeta struct {
	Fingerprint string `trace:"rl.credential_fingerprint"`
	WindowSec   int64  `trace:"rl.window_sec"`
	Limit       int    `trace:"rl.limit_count"`
	Remaining   int    `trace:"rl.remaining,omitempty"`
	TTL         int64  `trace:"rl.ttl_sec,omitempty"`
	Op          string `trace:"rl.op"` // "consume" / "get"
}

type TraceRateLimitMiddlewareMeta struct {
	Fingerprint string `trace:"ratelimit.credential_fingerprint"`
	ConfigLimit int    `trace:"ratelimit.config.limit"`
	Remaining   int    `trace:"ratelimit.remaining"`
	TTLSeconds  int64  `trace:"ratelimit.ttl_sec"`
	Blocked     bool   `trace:"ratelimit.blocked"`
}

type TraceCredentialMiddlewareMeta struct {
	Where       string `trace:"auth.where"`
	ClientIP    string `trace:"net.peer.ip,omitempty"`
	Fingerprint string `trace:"auth.credential_fingerprint,omitempty"`
	Status      string `trace:"auth.status,omitempty"`
}

type TraceAdminMiddlewareMeta struct {
	Username string `trace:"auth.username,omitempty"`
	Role     string `trace:"auth.role,omitempty"`
	Status   string `trace:"auth.status,omitempty"`
}

type TraceHistoryListMeta struct {
	Page        int64          `trace:"list.page"`
	Size        int64          `trace:"list.size"`
	Filter      map[string]any `trace:"filter,omitempty"`
	ResultCount int            `trace:"result.count,omitempty"`
	Error       *string        `trace:"error,omitempty"`
}

type TracePanicMeta struct {
	Path       string  `trace:"http.path"`
	Method     string  `trace:"http.method"`
	ClientIP   string  `trace:"net.peer.ip"`
	UserAgent  string  `trace:"http.user_agent"`
	DurationMs float64 `trace:"response.latency_ms"`
	Status     int     `trace:"http.status_code"`
	Message    string  `trace:"error.message"`
	Stack      string  `trace:"error.stack"`
}

type TraceErrorMeta struct {
	Code       int     `trace:"error.code"`
	Message    string  `trace:"error.message"`
	Detail     string  `trace:"error.detail"`
	Status     int     `trace:"http.status_code"`
	DurationMs float64 `trace:"response.latency_ms"`
}

type TraceResponseMeta struct {
	Path       string  `trace:"http.path"`
	Method     string  `trace:"http.method"`
	Status     int     `trace:"http.status_code"`
	Message    string  `trace:"response.message"`
	Code       int     `trace:"response.code"`
	DurationMs float64 `trace:"response.latency_ms"`
	Data       string  `trace:"response.data_preview"`
}
type TraceHttpServerMeta struct {
	// request side
	ClientAddr        string `trace:"client.address"`
	HttpRequestMethod string `trace:"http.request.method"`
	HttpRoute         string `trace:"http.route"`
	UrlPath           string `trace:"http.request.path"`
	UrlScheme         string `trace:"http.request.url.scheme"`
	UserAgent         string `trace:"user_agent.original"`
	ServerAddress     string `trace:"server.address"`
	NetworkPeerAddr   string `trace:"network.peer.address"`
	NetworkPeerPort   int    `trace:"network.peer.port"`
	NetworkProtoVer   string `trace:"network.protocol.version"`
	SpanKind          string `trace:"span.kind"`
	SpanTraceID       string `trace:"span.trace_id"`
	HttpStatusCode    int    `trace:"http.response.status_code"`
}
