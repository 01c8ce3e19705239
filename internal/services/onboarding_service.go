package services

import (
	"errors"
	"time"

	"github.com/terraincognita07/flowlog/internal/models"
)

var (
	ErrOnboardingStartDateOutOfRange = errors.New("onboarding start date out of range")
	ErrOnboardingPeriodLength        = errors.New("onboarding period length out of range")
)

const DefaultPeriodLength = 5

type OnboardingUserRepository interface {
	CompleteOnboarding(userID uint, initial *models.PeriodRecord) error
}

type OnboardingInput struct {
	LastPeriodStart *time.Time
	PeriodLength    int
}

type OnboardingService struct {
	users    OnboardingUserRepository
	location *time.Location
}

func NewOnboardingService(users OnboardingUserRepository, location *time.Location) *OnboardingService {
	if location == nil {
		location = time.UTC
	}
	return &OnboardingService{users: users, location: location}
}

// Complete finishes onboarding. When the user reports a recent period it is
// stored as the first record; a period whose last day is still ahead of now
// stays open so today's symptoms attach to it.
func (service *OnboardingService) Complete(userID uint, input OnboardingInput, now time.Time) (*models.PeriodRecord, error) {
	if input.LastPeriodStart == nil {
		return nil, service.users.CompleteOnboarding(userID, nil)
	}

	periodLength := input.PeriodLength
	if periodLength == 0 {
		periodLength = DefaultPeriodLength
	}
	if periodLength < 1 || periodLength > 14 {
		return nil, ErrOnboardingPeriodLength
	}

	start := DateAtLocation(*input.LastPeriodStart, service.location)
	minDate, maxDate := OnboardingDateBounds(now, service.location)
	if start.Before(minDate) || start.After(maxDate) {
		return nil, ErrOnboardingStartDateOutOfRange
	}

	initial := NewPeriodRecord(start)
	lastDay := EndOfDay(start.AddDate(0, 0, periodLength-1), service.location)
	if lastDay.Before(now) {
		initial.EndDate = &lastDay
	}

	if err := service.users.CompleteOnboarding(userID, &initial); err != nil {
		return nil, err
	}
	return &initial, nil
}

// OnboardingDateBounds limits the reported start to the last sixty days.
func OnboardingDateBounds(now time.Time, location *time.Location) (time.Time, time.Time) {
	if location == nil {
		location = time.UTC
	}
	today := DateAtLocation(now, location)
	return today.AddDate(0, 0, -60), today
}
