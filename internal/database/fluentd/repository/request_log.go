package repository

import (
	"context"
	"encoding/json"
	"time"
	"travelmail/config"
	"travelmail/internal/core"
	"travelmail/internal/database/client"
	"travelmail/internal/database/fluentd/model"
)

const loggedAtLayout = "2006-01-02 15:04:05.999999 UTC"

// LogRepository 統一負責發送 Request/Response/Usage Log 到 Fluentd
type LogRepository struct {
	fluentdClient client.FluentdPoster
	version       string
	project       string
}

func NewLogRepository(config *config.Configuration, client client.FluentdPoster) *LogRepository {
	version := "1.0.0"
	if config.App.Version != "" {
		version = config.App.Version
	}
	return &LogRepository{fluentdClient: client, version: version, project: config.App.Name}
}

func (repository *LogRepository) LogRequest(ctx context.Context, req model.RequestLog) error {
	if req.LoggedAt == "" {
		req.LoggedAt = time.Now().UTC().Format(loggedAtLayout)
	}
	if req.Version == "" {
		req.Version = repository.version
	}
	if req.ProjectName == "" {
		req.ProjectName = repository.project
	}
	return repository.post(ctx, core.FluentdRequest, req)
}

func (repository *LogRepository) LogResponse(ctx context.Context, resp model.ResponseLog) error {
	if resp.LoggedAt == "" {
		resp.LoggedAt = time.Now().UTC().Format(loggedAtLayout)
	}
	if resp.Version == "" {
		resp.Version = repository.version
	}
	if resp.ProjectName == "" {
		resp.ProjectName = repository.project
	}
	return repository.post(ctx, core.FluentdResponse, resp)
}

func (repository *LogRepository) LogUsage(ctx context.Context, usage model.UsageLog) error {
	if usage.LoggedAt == "" {
		usage.LoggedAt = time.Now().UTC().Format(loggedAtLayout)
	}
	if usage.Version == "" {
		usage.Version = repository.version
	}
	if usage.ProjectName == "" {
		usage.ProjectName = repository.project
	}
	return repository.post(ctx, core.FluentUsage, usage)
}

// post 轉成 map 後送出，欄位名稱沿用 json tag
func (repository *LogRepository) post(ctx context.Context, tag core.FluentdSubTag, record any) error {
	b, err := json.Marshal(record)
	if err != nil {
		return err
	}
	var fluentdMessage map[string]any
	if err := json.Unmarshal(b, &fluentdMessage); err != nil {
		return err
	}
	return repository.fluentdClient.Post(ctx, string(tag), fluentdMessage)
}
