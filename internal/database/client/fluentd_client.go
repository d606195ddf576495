package client

import (
	"context"
	"time"
	"travelmail/config"

	"github.com/fluent/fluent-logger-golang/fluent"
	"go.uber.org/zap"
)

// FluentdPoster 讓 LogRepository 可以替換成 noop 或測試用實作
type FluentdPoster interface {
	Post(ctx context.Context, tag string, message any) error
	Close() error
}

// FluentdClient implements FluentdPoster using fluent-logger-golang.
type FluentdClient struct {
	client    *fluent.Fluent
	tagPrefix string
}

// NewFluentdClient 未設定 Host 時回傳 NoopClient
func NewFluentdClient(logger *zap.Logger, config *config.Configuration) (FluentdPoster, func(), error) {
	if config.Fluentd.Host == "" {
		logger.Info("Fluentd host not set, request/usage logs disabled")
		return &NoopClient{}, func() {}, nil
	}
	prefix := "travelmail"
	if config.Fluentd.TagPrefix != "" {
		prefix = config.Fluentd.TagPrefix
	}
	var timeout time.Duration
	if config.Fluentd.Timeout > 0 {
		timeout = time.Duration(config.Fluentd.Timeout) * time.Millisecond
	}

	f, err := fluent.New(fluent.Config{
		FluentHost:  config.Fluentd.Host,
		FluentPort:  config.Fluentd.Port,
		Timeout:     timeout,
		TagPrefix:   prefix,
		BufferLimit: config.Fluentd.BufferLimit,
		MaxRetry:    config.Fluentd.MaxRetry,
		// 送出失敗不阻塞請求
		Async: true,
	})
	if err != nil {
		logger.Error("failed to create Fluentd client", zap.Error(err))
		return nil, nil, err
	}
	c := &FluentdClient{client: f, tagPrefix: prefix}
	cleanup := func() {
		if err := c.Close(); err != nil {
			logger.Error("failed to close Fluentd client", zap.Error(err))
		}
	}
	return c, cleanup, nil
}

func (c *FluentdClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// Post 以 TagPrefix.tag 送出一筆紀錄；fluent-logger-golang 不支援 ctx 取消
func (c *FluentdClient) Post(ctx context.Context, tag string, message any) error {
	return c.client.Post(tag, message)
}

// NoopClient 停用模式
type NoopClient struct{}

func (n *NoopClient) Post(ctx context.Context, tag string, message any) error { return nil }
func (n *NoopClient) Close() error                                            { return nil }
