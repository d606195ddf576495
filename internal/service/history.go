package service

import (
	"context"
	"errors"
	"time"
	"travelmail/config"
	"travelmail/internal/core"
	fluentdModel "travelmail/internal/database/fluentd/model"
	fluentd "travelmail/internal/database/fluentd/repository"
	"travelmail/internal/database/mongodb/model"
	"travelmail/internal/database/mongodb/repository"
	"travelmail/internal/dto"
	cErr "travelmail/internal/pkg/error"
	"travelmail/internal/service/chat"
	"travelmail/internal/service/completion"
	"travelmail/internal/service/models"
	"travelmail/internal/telemetry"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const (
	defaultHistoryPageSize = 20
	recordTimeout          = 3 * time.Second
)

// CompletionEvent 一次完成請求的摘要，不含金鑰與原文
type CompletionEvent struct {
	RequestID    string
	Fingerprint  string
	Task         string
	Strategy     core.ResolveStrategy
	InputChars   int
	OutputChars  int
	Duration     time.Duration
	Model        models.Descriptor
	ModelVersion string
	Usage        *chat.UsageMetadata
	Failure      *completion.Failure
}

type HistoryService struct {
	trace         *telemetry.Trace
	metric        *telemetry.Metric
	logger        *zap.Logger
	recordRepo    *repository.CompletionRecordRepository
	logRepo       *fluentd.LogRepository
	retentionDays int
}

func NewHistoryService(
	config *config.Configuration,
	trace *telemetry.Trace,
	metric *telemetry.Metric,
	logger *zap.Logger,
	recordRepo *repository.CompletionRecordRepository,
	logRepo *fluentd.LogRepository,
) *HistoryService {
	return &HistoryService{
		trace:         trace,
		metric:        metric,
		logger:        logger,
		recordRepo:    recordRepo,
		logRepo:       logRepo,
		retentionDays: config.History.RetentionDays,
	}
}

// Record 寫入 Mongo 紀錄與 Fluentd 用量；失敗只記 log，不影響回應
func (s *HistoryService) Record(ctx context.Context, event CompletionEvent) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()

	record := &model.CompletionRecord{
		RequestID:             event.RequestID,
		CredentialFingerprint: event.Fingerprint,
		Task:                  event.Task,
		Strategy:              string(event.Strategy),
		APIVersion:            event.Model.APIVersion,
		Model:                 event.Model.ModelID,
		Status:                core.CompletionSuccess,
		InputChars:            event.InputChars,
		OutputChars:           event.OutputChars,
		DurationMs:            event.Duration.Milliseconds(),
	}
	usage := fluentdModel.UsageLog{
		RequestID:             event.RequestID,
		CredentialFingerprint: event.Fingerprint,
		Provider:              string(core.ProviderGemini),
		Task:                  event.Task,
		Strategy:              string(event.Strategy),
		APIVersion:            event.Model.APIVersion,
		Model:                 event.Model.ModelID,
		ModelVersion:          event.ModelVersion,
		Outcome:               "success",
		DurationMs:            event.Duration.Milliseconds(),
	}
	if event.Failure != nil {
		record.Status = core.CompletionFailure
		record.FailureKind = string(event.Failure.Kind)
		record.ProviderStatus = event.Failure.StatusCode
		usage.Outcome = string(event.Failure.Kind)
	}
	if event.Usage != nil {
		record.PromptTokens = event.Usage.PromptTokenCount
		record.CandidatesTokens = event.Usage.CandidatesTokenCount
		usage.TokensPrompt = event.Usage.PromptTokenCount
		usage.TokensCandidates = event.Usage.CandidatesTokenCount
		usage.TokensTotal = event.Usage.TotalTokenCount
	}

	if s.recordRepo.Enabled() {
		if _, err := s.recordRepo.Create(ctx, record); err != nil {
			s.logger.Warn("save completion record failed", zap.String("request_id", event.RequestID), zap.Error(err))
		}
	}
	if err := s.logRepo.LogUsage(ctx, usage); err != nil {
		s.logger.Warn("send usage log failed", zap.String("request_id", event.RequestID), zap.Error(err))
	}
}

// List 分頁查詢歷史紀錄
func (s *HistoryService) List(ctx context.Context, query dto.HistoryQueryDto) (*dto.HistoryListDto, error) {
	if !s.recordRepo.Enabled() {
		return nil, cErr.ServiceUnavailable("completion history is disabled")
	}
	ctx, _, end := s.trace.WithSpan(ctx)
	defer end(nil)

	size := query.Size
	if size <= 0 {
		size = defaultHistoryPageSize
	}
	filter := bson.M{}
	if query.Task != "" {
		filter["task"] = query.Task
	}
	if query.Status != "" {
		filter["status"] = query.Status
	}
	if query.Fingerprint != "" {
		filter["credentialFingerprint"] = query.Fingerprint
	}

	records, total, err := s.recordRepo.List(ctx, core.ListOptions{Filter: filter, Page: query.Page, Size: size})
	if err != nil {
		end(err)
		return nil, cErr.DatabaseError("database ListCompletionRecords error")
	}
	return &dto.HistoryListDto{Items: records, Total: total, Page: query.Page, Size: size}, nil
}

func (s *HistoryService) Get(ctx context.Context, id primitive.ObjectID) (*model.CompletionRecord, error) {
	if !s.recordRepo.Enabled() {
		return nil, cErr.ServiceUnavailable("completion history is disabled")
	}
	ctx, _, end := s.trace.WithSpan(ctx)
	defer end(nil)

	record, err := s.recordRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, cErr.NotFound("completion record not found")
		}
		end(err)
		return nil, cErr.DatabaseError("database GetCompletionRecord error")
	}
	return record, nil
}

// Purge 刪除超過保留天數的紀錄；未設定保留天數或未啟用時不動作
func (s *HistoryService) Purge(ctx context.Context, now time.Time) (int64, error) {
	if s.retentionDays <= 0 || !s.recordRepo.Enabled() {
		return 0, nil
	}
	before := now.AddDate(0, 0, -s.retentionDays)
	deleted, err := s.recordRepo.DeleteOlderThan(ctx, before)
	if err != nil {
		return 0, err
	}
	s.metric.AddRetentionDeleted(deleted)
	return deleted, nil
}
