package utils

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const pingTimeout = 2 * time.Second

type HealthStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Services  []Service `json:"services"`
}

type Service struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// HealthChecker pings the board store and the board-view cache.
type HealthChecker struct {
	DB    *gorm.DB
	Redis *redis.Client
}

func (h *HealthChecker) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{Status: "healthy", Timestamp: time.Now().UTC()}

	if h.DB != nil {
		status.record(pingService(ctx, "postgres", func(ctx context.Context) error {
			sqlDB, err := h.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}))
	}

	if h.Redis != nil {
		status.record(pingService(ctx, "redis", func(ctx context.Context) error {
			return h.Redis.Ping(ctx).Err()
		}))
	}

	return status
}

func pingService(ctx context.Context, name string, ping func(context.Context) error) Service {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := ping(ctx); err != nil {
		return Service{Name: name, Status: "down", Message: err.Error()}
	}
	return Service{Name: name, Status: "up"}
}

func (s *HealthStatus) record(svc Service) {
	if svc.Status != "up" {
		s.Status = "degraded"
	}
	s.Services = append(s.Services, svc)
}
