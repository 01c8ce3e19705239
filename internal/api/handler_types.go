package api

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/terraincognita07/flowlog/internal/db"
	"github.com/terraincognita07/flowlog/internal/services"
	"go.uber.org/zap"
)

type Handler struct {
	repositories      *db.Repositories
	authService       *services.AuthService
	onboardingService *services.OnboardingService
	symptomLog        *services.SymptomLogService
	periods           *services.PeriodService
	exports           *services.ExportService
	secretKey         []byte
	location          *time.Location
	logger            *zap.Logger
	loginLimiter      *attemptLimiter
	now               func() time.Time
}

const (
	contextUserKey = "current_user"
	authTokenTTL   = 7 * 24 * time.Hour

	loginFailureLimit  = 8
	loginFailureWindow = 15 * time.Minute
)

type authClaims struct {
	UserID uint `json:"uid"`
	jwt.RegisteredClaims
}
