package repository

import (
	"context"
	"errors"
	"fmt"
	"time"
	"travelmail/internal/core"
	client "travelmail/internal/database/client"
	"travelmail/internal/database/mongodb/model"
	"travelmail/internal/telemetry"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrHistoryDisabled 未設定 MongoDB
var ErrHistoryDisabled = errors.New("completion history disabled")

type CompletionRecordRepository struct {
	collection *mongo.Collection
	trace      *telemetry.Trace
}

func NewCompletionRecordRepository(trace *telemetry.Trace, mongoClient *client.MongoClient) *CompletionRecordRepository {
	repository := &CompletionRecordRepository{trace: trace}
	if !mongoClient.Enabled() {
		return repository
	}
	database := mongoClient.Database(string(core.MongoDBTravelmail))
	repository.collection = mongoClient.Client().Database(database).Collection(string(core.MongoCollectionCompletionRecords))
	// 啟動時建立常用索引（冪等、存在即跳過）
	_ = repository.ensureIndexes(context.Background())
	return repository
}

func (repository *CompletionRecordRepository) Enabled() bool {
	return repository.collection != nil
}

func (repository *CompletionRecordRepository) ensureIndexes(contextValue context.Context) error {
	indexModels := []mongo.IndexModel{
		{ // 依建立時間倒序查列表、保留期清除
			Keys:    bson.D{{Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("idx_createdAt_desc"),
		},
		{ // 依金鑰指紋查詢
			Keys:    bson.D{{Key: "credentialFingerprint", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("idx_fingerprint_createdAt"),
		},
		{
			Keys:    bson.D{{Key: "task", Value: 1}},
			Options: options.Index().SetName("idx_task"),
		},
	}
	_, _ = repository.collection.Indexes().CreateMany(contextValue, indexModels)
	return nil
}

// Create 單筆寫入
func (repository *CompletionRecordRepository) Create(
	contextValue context.Context,
	record *model.CompletionRecord,
) (_ *model.CompletionRecord, returnedError error) {
	if !repository.Enabled() {
		return nil, ErrHistoryDisabled
	}
	contextValue, _, endSpan := repository.trace.WithSpan(contextValue)
	defer func() { endSpan(returnedError) }()

	if record.ID.IsZero() {
		record.ID = primitive.NewObjectID()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	insertResult, insertError := repository.collection.InsertOne(contextValue, record)
	if insertError != nil {
		returnedError = insertError
		return nil, returnedError
	}
	objectID, ok := insertResult.InsertedID.(primitive.ObjectID)
	if !ok {
		returnedError = fmt.Errorf("unexpected InsertedID type: %T", insertResult.InsertedID)
		return nil, returnedError
	}
	record.ID = objectID
	return record, nil
}

// GetByID 單筆讀取
func (repository *CompletionRecordRepository) GetByID(
	contextValue context.Context,
	recordID primitive.ObjectID,
) (_ *model.CompletionRecord, returnedError error) {
	if !repository.Enabled() {
		return nil, ErrHistoryDisabled
	}
	var record model.CompletionRecord
	if returnedError = repository.collection.FindOne(contextValue, bson.M{"_id": recordID}).Decode(&record); returnedError != nil {
		return nil, returnedError
	}
	return &record, nil
}

// List 分頁查詢（page 從 0 開始），依建立時間倒序
func (repository *CompletionRecordRepository) List(
	contextValue context.Context,
	listOptions core.ListOptions,
) (_ []*model.CompletionRecord, total int64, returnedError error) {
	if !repository.Enabled() {
		return nil, 0, ErrHistoryDisabled
	}
	contextValue, span, endSpan := repository.trace.WithSpan(contextValue)
	defer func() { endSpan(returnedError) }()

	filter := listOptions.Filter
	if filter == nil {
		filter = bson.M{}
	}
	traceMeta := core.TraceHistoryListMeta{Page: listOptions.Page, Size: listOptions.Size, Filter: filter}

	total, returnedError = repository.collection.CountDocuments(contextValue, filter)
	if returnedError != nil {
		return nil, 0, returnedError
	}

	findOptions := options.Find().
		SetSkip(listOptions.Page * listOptions.Size).
		SetLimit(listOptions.Size).
		SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, findError := repository.collection.Find(contextValue, filter, findOptions)
	if findError != nil {
		returnedError = findError
		return nil, 0, returnedError
	}
	defer cursor.Close(contextValue)

	records := []*model.CompletionRecord{}
	if returnedError = cursor.All(contextValue, &records); returnedError != nil {
		return nil, 0, returnedError
	}
	traceMeta.ResultCount = len(records)
	repository.trace.ApplyTraceAttributes(span, traceMeta)
	return records, total, nil
}

// DeleteOlderThan 刪除 before 之前的紀錄，回傳刪除筆數
func (repository *CompletionRecordRepository) DeleteOlderThan(
	contextValue context.Context,
	before time.Time,
) (_ int64, returnedError error) {
	if !repository.Enabled() {
		return 0, ErrHistoryDisabled
	}
	contextValue, _, endSpan := repository.trace.WithSpan(contextValue)
	defer func() { endSpan(returnedError) }()

	result, deleteError := repository.collection.DeleteMany(contextValue, bson.M{"createdAt": bson.M{"$lt": before}})
	if deleteError != nil {
		returnedError = deleteError
		return 0, returnedError
	}
	return result.DeletedCount, nil
}
