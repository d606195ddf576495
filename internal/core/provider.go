package core

// ProviderName
type ProviderName string

const (
	ProviderGemini ProviderName = "gemini"
)

const (
	GeminiAPIBaseURL = "https://generativelanguage.googleapis.com"
)

// APIVersion Gemini REST 版本
type APIVersion string

const (
	APIVersionV1     APIVersion = "v1"
	APIVersionV1Beta APIVersion = "v1beta"
)

type GeminiEndpoint string

const (
	GeminiModelsEndpoint   GeminiEndpoint = "/models"
	GeminiGenerateEndpoint GeminiEndpoint = ":generateContent"
)

// 模型解析預設值
const (
	DefaultFamilyMarker    = "gemini"
	DefaultPreferredMarker = "flash"
	DefaultListTimeout     = 10 // 秒
	DefaultGenerateTimeout = 60 // 秒
	GenerateContentMethod  = "generateContent"
)

// ResolveStrategy 模型選擇策略
type ResolveStrategy string

const (
	// 先列出模型再挑選
	StrategyDiscover ResolveStrategy = "discover"
	// 依固定模型名稱逐一嘗試 generateContent
	StrategyFixed ResolveStrategy = "fixed"
)

var (
	DefaultAPIVersions     = []string{string(APIVersionV1), string(APIVersionV1Beta)}
	DefaultFallbackModels  = []string{"gemini-1.5-flash", "gemini-pro", "gemini-1.5-flash-001"}
	DefaultFallbackVersion = string(APIVersionV1Beta)
)

// 憑證來源
const (
	HeaderGoogAPIKey  = "X-Goog-Api-Key"
	QueryCredentialID = "key"
)

// gin.Context 內的 key
const (
	ContextCredentialKey  = "credential"
	ContextFingerprintKey = "credentialFingerprint"
	ContextClaimsKey      = "claims"
	ContextRequestIDKey   = "requestID"
	HeaderRequestID       = "X-Request-ID"
)
