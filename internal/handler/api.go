package handler

import (
	"github.com/vitalog/internal/logger"
	"github.com/vitalog/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	log           *logger.Logger
	metrics       *service.MetricsService
	profiles      *service.ProfileService
	scores        *service.ScoreService
	notifications *service.NotificationService
	reports       *service.ReportService
	rollup        *service.RollupService
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, log *logger.Logger) *API {
	if log == nil {
		log = logger.NewNop()
	}
	return &API{
		log:           log,
		metrics:       service.NewMetricsService(gdb),
		profiles:      service.NewProfileService(gdb),
		scores:        service.NewScoreService(gdb),
		notifications: service.NewNotificationService(gdb),
		reports:       service.NewReportService(gdb),
		rollup:        service.NewRollupService(gdb, log),
	}
}
