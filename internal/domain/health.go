package domain

import (
	"context"
	"time"
)

// HealthStatus is the liveness probe payload
type HealthStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// ServiceInfo is the banner served on the root path
type ServiceInfo struct {
	Service   string    `json:"service"`
	Version   string    `json:"version"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type HealthUsecase interface {
	Check(ctx context.Context) HealthStatus
	Info(ctx context.Context) ServiceInfo
}
