package api

import (
	"errors"
	"strings"
	"time"

	"github.com/terraincognita07/flowlog/internal/db"
	"github.com/terraincognita07/flowlog/internal/services"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func NewHandler(database *gorm.DB, secretKey string, location *time.Location, logger *zap.Logger) (*Handler, error) {
	if database == nil {
		return nil, errors.New("database is required")
	}
	if strings.TrimSpace(secretKey) == "" {
		return nil, errors.New("secret key is required")
	}
	if location == nil {
		location = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	handler := &Handler{
		secretKey:    []byte(secretKey),
		location:     location,
		logger:       logger,
		loginLimiter: newAttemptLimiter(loginFailureLimit, loginFailureWindow),
		now:          time.Now,
	}
	return handler.withDependencies(database), nil
}

func (handler *Handler) withDependencies(database *gorm.DB) *Handler {
	handler.repositories = db.NewRepositories(database)
	handler.authService = services.NewAuthService(handler.repositories.Users)
	handler.onboardingService = services.NewOnboardingService(handler.repositories.Users, handler.location)
	handler.symptomLog = services.NewSymptomLogService(handler.repositories.Periods, handler.location)
	handler.periods = services.NewPeriodService(handler.repositories.Periods, handler.location)
	handler.exports = services.NewExportService(handler.repositories.Periods, handler.location)
	return handler
}

func (handler *Handler) currentTime() time.Time {
	return handler.now().In(handler.location)
}
