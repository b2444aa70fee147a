package usecase

import (
	"context"
	"time"

	"sweepo-backend/internal/domain"
)

const (
	serviceName    = "Sweepo Server"
	serviceVersion = "1.0.0"
)

type healthUsecase struct {
	now func() time.Time
}

func NewHealthUsecase() domain.HealthUsecase {
	return &healthUsecase{now: time.Now}
}

func (u *healthUsecase) Check(ctx context.Context) domain.HealthStatus {
	return domain.HealthStatus{
		Status:    "healthy",
		Timestamp: u.now().UTC(),
	}
}

func (u *healthUsecase) Info(ctx context.Context) domain.ServiceInfo {
	return domain.ServiceInfo{
		Service:   serviceName,
		Version:   serviceVersion,
		Status:    "running",
		Timestamp: u.now().UTC(),
	}
}
