package repository

import (
	"context"
	"errors"
	"fmt"
	"time"
	"travelmail/internal/core"
	client "travelmail/internal/database/client"
	"travelmail/internal/telemetry"

	"github.com/redis/go-redis/v9"
)

// RateLimiterRepository 以金鑰指紋為單位的固定視窗計數
type RateLimiterRepository struct {
	trace  *telemetry.Trace
	client *redis.Client
}

func NewRateLimiterRepository(trace *telemetry.Trace, client *client.RedisClient) *RateLimiterRepository {
	return &RateLimiterRepository{trace: trace, client: client.Client()}
}

var ErrRateLimitExceeded = errors.New("rate limit exceeded")

func (repository *RateLimiterRepository) Enabled() bool {
	return repository.client != nil
}

// Consume 消耗一次配額；自動處理新週期初始化與剩餘 TTL。
// 回傳：remaining（剩餘次數）、ttlSec（剩餘秒數）、err（若超限為 ErrRateLimitExceeded）
func (repository *RateLimiterRepository) Consume(
	contextValue context.Context,
	fingerprint string,
	windowSeconds int64,
	limitCount int,
) (remainingCount int, timeToLiveSeconds int64, returnedError error) {

	contextValue, span, endSpan := repository.trace.WithSpan(contextValue)
	defer func() {
		endSpan(returnedError)
	}()

	traceMetadata := core.TraceRateLimitMeta{
		Fingerprint: fingerprint,
		Limit:       limitCount,
		WindowSec:   windowSeconds,
		Op:          "consume",
	}
	defer func() {
		traceMetadata.Remaining, traceMetadata.TTL = remainingCount, timeToLiveSeconds
		repository.trace.ApplyTraceAttributes(span, traceMetadata)
	}()

	redisKey := repository.buildKey(fingerprint)
	expirationDuration := time.Duration(windowSeconds) * time.Second

	// 嘗試初始化：SETNX key value EX expiration
	wasSet, setError := repository.client.SetNX(
		contextValue,
		redisKey,
		limitCount-1, // 本次消耗一次，所以初始值 = 總額-1
		expirationDuration,
	).Result()
	if setError != nil {
		returnedError = setError
		return 0, 0, returnedError
	}
	if wasSet {
		remainingCount = limitCount - 1
		if remainingCount < 0 {
			remainingCount = 0
			returnedError = ErrRateLimitExceeded
		}
		return remainingCount, windowSeconds, returnedError
	}

	// Key 已存在 → DECR 與 TTL 一次送出
	pipeline := repository.client.TxPipeline()
	decrCommand := pipeline.Decr(contextValue, redisKey)
	ttlCommand := pipeline.TTL(contextValue, redisKey)
	if _, execError := pipeline.Exec(contextValue); execError != nil {
		returnedError = execError
		return 0, 0, returnedError
	}

	if ttlDuration := ttlCommand.Val(); ttlDuration > 0 {
		timeToLiveSeconds = int64(ttlDuration.Seconds())
	} else {
		// key 沒有 TTL 時補上視窗長度
		repository.client.Expire(contextValue, redisKey, expirationDuration)
		timeToLiveSeconds = windowSeconds
	}

	newValue := decrCommand.Val()
	if newValue < 0 {
		return 0, timeToLiveSeconds, ErrRateLimitExceeded
	}
	return int(newValue), timeToLiveSeconds, nil
}

// GetCurrent 查詢目前「剩餘次數」與剩餘 TTL（秒）。若無紀錄回傳 limitCount,0。
func (repository *RateLimiterRepository) GetCurrent(
	contextValue context.Context,
	fingerprint string,
	limitCount int,
) (remainingCount int, timeToLiveSeconds int64, returnedError error) {

	contextValue, span, endSpan := repository.trace.WithSpan(contextValue)
	defer func() { endSpan(returnedError) }()

	traceMetadata := core.TraceRateLimitMeta{
		Fingerprint: fingerprint,
		Limit:       limitCount,
		Op:          "get",
	}
	defer func() {
		traceMetadata.Remaining, traceMetadata.TTL = remainingCount, timeToLiveSeconds
		repository.trace.ApplyTraceAttributes(span, traceMetadata)
	}()

	redisKey := repository.buildKey(fingerprint)

	// 用 pipeline 併發 GET + TTL 減少往返
	pipeline := repository.client.Pipeline()
	getCommand := pipeline.Get(contextValue, redisKey)
	ttlCommand := pipeline.TTL(contextValue, redisKey)
	if _, execError := pipeline.Exec(contextValue); execError != nil && !errors.Is(execError, redis.Nil) {
		returnedError = execError
		return 0, 0, returnedError
	}

	value, getError := getCommand.Int()
	if errors.Is(getError, redis.Nil) {
		return limitCount, 0, nil
	}
	if getError != nil {
		returnedError = getError
		return 0, 0, returnedError
	}

	if ttlDuration := ttlCommand.Val(); ttlDuration > 0 {
		timeToLiveSeconds = int64(ttlDuration.Seconds())
	}
	remainingCount = value // value 就是剩餘（倒數語意）
	if remainingCount < 0 {
		remainingCount = 0
	}
	return remainingCount, timeToLiveSeconds, nil
}

// Delete 刪除配額 key（管理用，立即解除封鎖）
func (repository *RateLimiterRepository) Delete(
	contextValue context.Context,
	fingerprint string,
) (returnedError error) {

	contextValue, span, endSpan := repository.trace.WithSpan(contextValue)
	defer func() { endSpan(returnedError) }()

	repository.trace.ApplyTraceAttributes(span, core.TraceRateLimitMeta{Fingerprint: fingerprint, Op: "delete"})

	returnedError = repository.client.Del(contextValue, repository.buildKey(fingerprint)).Err()
	return returnedError
}

// buildKey 建構 RateLimiter 用的 Redis key
func (r *RateLimiterRepository) buildKey(fingerprint string) string {
	return fmt.Sprintf("%s:%s:%s", core.RedisKeyServerName, core.RedisKeyRateLimit, fingerprint)
}
