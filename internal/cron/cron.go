package cron

import (
	"context"

	"github.com/google/wire"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var ProviderSet = wire.NewSet(NewCron, NewRetentionJob)

type Cron struct {
	logger       *zap.Logger
	server       *cron.Cron
	retentionJob *RetentionJob
}

// NewCron .
func NewCron(logger *zap.Logger, retentionJob *RetentionJob) *Cron {
	server := cron.New(
		cron.WithSeconds(),
		cron.WithChain(cron.Recover(cron.DefaultLogger)),
	)

	return &Cron{
		logger:       logger,
		server:       server,
		retentionJob: retentionJob,
	}
}

func (c *Cron) Run() error {
	if c.retentionJob.Enabled() {
		if _, err := c.server.AddFunc(c.retentionJob.Spec(), c.retentionJob.Run); err != nil {
			return err
		}
		c.logger.Info("history retention job scheduled", zap.String("spec", c.retentionJob.Spec()))
	}

	c.server.Start()
	return nil
}

// Stop 等待執行中的 job 結束或 ctx 到期
func (c *Cron) Stop(ctx context.Context) error {
	done := c.server.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
