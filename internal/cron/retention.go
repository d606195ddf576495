package cron

import (
	"context"
	"time"
	"travelmail/config"
	"travelmail/internal/service"

	"go.uber.org/zap"
)

const (
	defaultRetentionSpec = "0 30 3 * * *" // 每天 03:30
	retentionTimeout     = 5 * time.Minute
)

// RetentionJob 定期刪除超過保留天數的完成紀錄
type RetentionJob struct {
	logger         *zap.Logger
	historyService *service.HistoryService
	spec           string
	days           int
	now            func() time.Time
}

func NewRetentionJob(conf *config.Configuration, logger *zap.Logger, historyService *service.HistoryService) *RetentionJob {
	spec := conf.History.RetentionSpec
	if spec == "" {
		spec = defaultRetentionSpec
	}
	return &RetentionJob{
		logger:         logger,
		historyService: historyService,
		spec:           spec,
		days:           conf.History.RetentionDays,
		now:            time.Now,
	}
}

func (j *RetentionJob) Enabled() bool { return j.days > 0 }

func (j *RetentionJob) Spec() string { return j.spec }

func (j *RetentionJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), retentionTimeout)
	defer cancel()

	deleted, err := j.historyService.Purge(ctx, j.now().UTC())
	if err != nil {
		j.logger.Error("history retention failed", zap.Error(err))
		return
	}
	j.logger.Info("history retention done", zap.Int64("deleted", deleted), zap.Int("retention_days", j.days))
}
