package database

import (
	client "travelmail/internal/database/client"
	fluentdRepo "travelmail/internal/database/fluentd/repository"
	mongoRepo "travelmail/internal/database/mongodb/repository"
	redisRepo "travelmail/internal/database/redis/repository"

	"github.com/google/wire"
)

// ProviderSet 定義所有 DB Client 的依賴
var ProviderSet = wire.NewSet(
	client.NewMongoClient,
	client.NewRedisClient,
	client.NewFluentdClient,
	mongoRepo.ProviderSet,
	redisRepo.ProviderSet,
	fluentdRepo.ProviderSet,
)
