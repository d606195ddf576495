package service

import (
	"context"
	"sync/atomic"
	"time"
	"travelmail/internal/database/client"
)

const dependencyPingTimeout = 2 * time.Second

// Dependency 可被 readiness 探測的外部服務
type Dependency interface {
	Enabled() bool
	Ping(ctx context.Context) error
}

type dependency struct {
	name     string
	critical bool
	dep      Dependency
}

// DependencyStatus 單一外部服務的探測結果
type DependencyStatus struct {
	Name     string `json:"name"`
	Status   string `json:"status"` // ok / disabled / down
	Critical bool   `json:"critical"`
	Error    string `json:"error,omitempty"`
}

type HealthService struct {
	live  atomic.Bool
	ready atomic.Bool
	deps  []dependency
}

// NewHealthService Redis 掛掉時限流路由無法服務，視為 critical；Mongo 只影響歷史紀錄
func NewHealthService(redisClient *client.RedisClient, mongoClient *client.MongoClient) *HealthService {
	s := &HealthService{}
	s.live.Store(true)
	s.ready.Store(false) // 啟動完成後再打開
	if redisClient != nil {
		s.deps = append(s.deps, dependency{name: "redis", critical: true, dep: redisClient})
	}
	if mongoClient != nil {
		s.deps = append(s.deps, dependency{name: "mongodb", critical: false, dep: mongoClient})
	}
	return s
}

func (s *HealthService) SetReady(v bool) {
	s.ready.Store(v)
}

func (s *HealthService) IsLive() bool {
	return s.live.Load()
}

func (s *HealthService) IsReady() bool {
	return s.ready.Load()
}

// Check 探測所有外部服務；任一 critical 服務 down 時 ok 為 false
func (s *HealthService) Check(ctx context.Context) (ok bool, statuses []DependencyStatus) {
	ok = true
	for _, d := range s.deps {
		st := DependencyStatus{Name: d.name, Critical: d.critical, Status: "ok"}
		if !d.dep.Enabled() {
			st.Status = "disabled"
			statuses = append(statuses, st)
			continue
		}
		pingCtx, cancel := context.WithTimeout(ctx, dependencyPingTimeout)
		err := d.dep.Ping(pingCtx)
		cancel()
		if err != nil {
			st.Status = "down"
			st.Error = err.Error()
			if d.critical {
				ok = false
			}
		}
		statuses = append(statuses, st)
	}
	return ok, statuses
}
