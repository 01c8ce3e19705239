package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/terraincognita07/flowlog/internal/models"
)

var (
	ErrInvalidFlow        = errors.New("invalid flow")
	ErrInvalidEndDate     = errors.New("end date before start date")
	ErrEmptyPeriodUpdate  = errors.New("nothing to update")
	ErrInvalidPeriodLimit = errors.New("invalid period limit")
)

const (
	maxFlowLength    = 32
	MaxPeriodListing = 100
)

type PeriodListRepository interface {
	ListRecentByUser(userID uint, limit int) ([]models.PeriodRecord, error)
	ListByUser(userID uint) ([]models.PeriodRecord, error)
	FindByIDForUser(recordID uint, userID uint) (models.PeriodRecord, error)
	Persist(record *models.PeriodRecord) error
}

type PeriodUpdate struct {
	Flow    *string
	EndDate *time.Time
}

type SymptomFrequency struct {
	Name         string `json:"name"`
	Count        int    `json:"count"`
	TotalPeriods int    `json:"total_periods"`
}

// SymptomStats is the frequency table over periods whose symptoms could be
// read, plus the periods whose stored symptoms could not.
type SymptomStats struct {
	Symptoms            []SymptomFrequency `json:"symptoms"`
	TotalPeriods        int                `json:"total_periods"`
	UnreadablePeriodIDs []uint             `json:"unreadable_period_ids"`
}

type PeriodService struct {
	periods  PeriodListRepository
	location *time.Location
}

func NewPeriodService(periods PeriodListRepository, location *time.Location) *PeriodService {
	if location == nil {
		location = time.UTC
	}
	return &PeriodService{periods: periods, location: location}
}

func (service *PeriodService) ListRecent(userID uint, limit int) ([]models.PeriodRecord, error) {
	if limit == 0 {
		limit = ActivePeriodLookback
	}
	if limit < 1 || limit > MaxPeriodListing {
		return nil, ErrInvalidPeriodLimit
	}
	return service.periods.ListRecentByUser(userID, limit)
}

// UpdatePeriod applies a flow change and/or closes the period. The end date
// is stored as the last instant of its calendar day so the whole final day
// stays inside the period.
func (service *PeriodService) UpdatePeriod(userID uint, recordID uint, update PeriodUpdate) (models.PeriodRecord, error) {
	if update.Flow == nil && update.EndDate == nil {
		return models.PeriodRecord{}, ErrEmptyPeriodUpdate
	}

	record, err := service.periods.FindByIDForUser(recordID, userID)
	if err != nil {
		return models.PeriodRecord{}, fmt.Errorf("%w: %v", ErrPeriodRecordMissing, err)
	}

	if update.Flow != nil {
		flow, err := NormalizeFlow(*update.Flow)
		if err != nil {
			periodUpdates.WithLabelValues("invalid").Inc()
			return models.PeriodRecord{}, err
		}
		record.Flow = flow
	}
	if update.EndDate != nil {
		end := EndOfDay(*update.EndDate, service.location)
		if end.Before(record.StartDate) {
			periodUpdates.WithLabelValues("invalid").Inc()
			return models.PeriodRecord{}, ErrInvalidEndDate
		}
		record.EndDate = &end
	}

	if err := service.periods.Persist(&record); err != nil {
		periodUpdates.WithLabelValues("persist_failed").Inc()
		return models.PeriodRecord{}, fmt.Errorf("%w: %v", ErrPersistFailed, err)
	}
	periodUpdates.WithLabelValues("ok").Inc()
	return record, nil
}

// SymptomFrequencies counts, per symptom, how many of the user's periods
// carry it. Periods with unreadable symptoms are listed instead of counted.
func (service *PeriodService) SymptomFrequencies(userID uint) (SymptomStats, error) {
	records, err := service.periods.ListByUser(userID)
	if err != nil {
		return SymptomStats{}, err
	}

	stats := SymptomStats{UnreadablePeriodIDs: []uint{}}
	for _, record := range records {
		if record.SymptomsUnreadable() {
			stats.UnreadablePeriodIDs = append(stats.UnreadablePeriodIDs, record.ID)
		}
	}
	stats.Symptoms = CalculateSymptomFrequencies(records)
	stats.TotalPeriods = len(records) - len(stats.UnreadablePeriodIDs)
	return stats, nil
}

// CalculateSymptomFrequencies orders results by count, then name. Records
// with unreadable symptoms are skipped.
func CalculateSymptomFrequencies(records []models.PeriodRecord) []SymptomFrequency {
	counts := make(map[string]int)
	readable := 0
	for _, record := range records {
		if record.SymptomsUnreadable() {
			continue
		}
		readable++
		for _, name := range record.Symptoms {
			counts[name]++
		}
	}

	result := make([]SymptomFrequency, 0, len(counts))
	for name, count := range counts {
		result = append(result, SymptomFrequency{Name: name, Count: count, TotalPeriods: readable})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count == result[j].Count {
			return result[i].Name < result[j].Name
		}
		return result[i].Count > result[j].Count
	})
	return result
}

var knownFlows = []string{models.FlowSpotting, models.FlowLight, models.FlowMedium, models.FlowHeavy}

// NormalizeFlow trims raw and maps the known levels to their canonical
// spelling regardless of case. Other labels are kept as typed.
func NormalizeFlow(raw string) (string, error) {
	flow := strings.TrimSpace(raw)
	if flow == "" || !utf8.ValidString(flow) || len(flow) > maxFlowLength {
		return "", ErrInvalidFlow
	}
	for _, known := range knownFlows {
		if strings.EqualFold(flow, known) {
			return known, nil
		}
	}
	return flow, nil
}
