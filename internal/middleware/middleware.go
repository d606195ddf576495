package middleware

import (
	"strings"
	"travelmail/internal/database/redis/repository"

	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(
	NewCors,
	NewLogger,
	NewRecovery,
	NewTraceEntry,
	NewCredential,
	NewRateLimit,
	NewAdmin,
	NewResponse,
	wire.Bind(new(QuotaStore), new(*repository.RateLimiterRepository)),
)

// 維運路徑不做 tracing 與 log，也不包裝回應
var opsPrefixes = []string{"/swagger", "/metrics", "/version", "/health", "/debug/pprof"}

func isOpsPath(endpoint string) bool {
	for _, p := range opsPrefixes {
		if strings.HasPrefix(endpoint, p) {
			return true
		}
	}
	return false
}
