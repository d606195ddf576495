package client

import (
	"context"
	"strings"
	"time"
	"travelmail/config"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoClient 連接 MongoDB；未設定 URI 時 client 為 nil，歷史紀錄功能停用
type MongoClient struct {
	client   *mongo.Client
	database string
	logger   *zap.Logger
}

func NewMongoClient(logger *zap.Logger, config *config.Configuration) (*MongoClient, func(), error) {
	mongoClient := &MongoClient{logger: logger, database: config.MongoDB.Database}
	if config.MongoDB.URI == "" {
		logger.Info("MongoDB URI not set, completion history disabled")
		return mongoClient, func() {}, nil
	}
	client, err := mongoClient.connectDB(config)
	if err != nil {
		logger.Error("failed to connect to MongoDB", zap.Error(err))
		return nil, nil, err
	}
	logger.Info("Connected to MongoDB")
	mongoClient.client = client

	cleanup := func() {
		logger.Info("closing the MongoDB resources")
		if err := mongoClient.Close(); err != nil {
			logger.Error("failed to close MongoDB client", zap.Error(err))
		}
	}

	return mongoClient, cleanup, nil
}

func (client *MongoClient) connectDB(config *config.Configuration) (*mongo.Client, error) {
	uri := buildMongoURI(config.MongoDB.URI, config.MongoDB.Options)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return mongo.Connect(ctx, options.Client().ApplyURI(uri))
}

func buildMongoURI(baseURI, optionStr string) string {
	if optionStr == "" {
		return baseURI
	}
	if strings.Contains(baseURI, "?") {
		return baseURI + "&" + optionStr
	}
	return baseURI + "?" + optionStr
}

func (m *MongoClient) Enabled() bool {
	return m != nil && m.client != nil
}

// Close 關閉 MongoDB 連線
func (m *MongoClient) Close() error {
	if !m.Enabled() {
		return nil
	}
	return m.client.Disconnect(context.Background())
}

// Client 回傳 MongoDB 連線
func (m *MongoClient) Client() *mongo.Client {
	return m.client
}

// Database 回傳資料庫名稱，未設定時使用預設值
func (m *MongoClient) Database(fallback string) string {
	if m.database != "" {
		return m.database
	}
	return fallback
}

// Ping 健康檢查用
func (m *MongoClient) Ping(ctx context.Context) error {
	if !m.Enabled() {
		return nil
	}
	return m.client.Ping(ctx, nil)
}
