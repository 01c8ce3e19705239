package services

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/terraincognita07/flowlog/internal/models"
)

var (
	ErrNoSymptomsSelected  = errors.New("no symptoms selected")
	ErrInvalidSymptomName  = errors.New("invalid symptom name")
	ErrActivePeriodLoad    = errors.New("load active period failed")
	ErrPersistFailed       = errors.New("persist period record failed")
	ErrPeriodRecordMissing = errors.New("period record not found")
)

const maxSymptomNameLength = 80

type PeriodRecordRepository interface {
	ListRecentByUser(userID uint, limit int) ([]models.PeriodRecord, error)
	FindByIDForUser(recordID uint, userID uint) (models.PeriodRecord, error)
	Persist(record *models.PeriodRecord) error
}

type SymptomLogService struct {
	periods  PeriodRecordRepository
	location *time.Location
	lookback int
}

func NewSymptomLogService(periods PeriodRecordRepository, location *time.Location) *SymptomLogService {
	if location == nil {
		location = time.UTC
	}
	return &SymptomLogService{
		periods:  periods,
		location: location,
		lookback: ActivePeriodLookback,
	}
}

// ActivePeriod resolves the record that a save at now would attach to,
// without persisting anything.
func (service *SymptomLogService) ActivePeriod(userID uint, now time.Time) (models.PeriodRecord, bool, error) {
	candidates, err := service.periods.ListRecentByUser(userID, service.lookback)
	if err != nil {
		return models.PeriodRecord{}, false, fmt.Errorf("%w: %v", ErrActivePeriodLoad, err)
	}
	record, created := ResolveActivePeriod(now, candidates, service.location)
	if created {
		record.UserID = userID
	}
	return record, created, nil
}

// AttachSymptoms merges the selected names into the active period for now
// and persists the result. Existing names keep their position; new names are
// appended in selection order. Nothing is written when the selection is empty.
// A stored set that no longer decodes is treated as absent and replaced.
func (service *SymptomLogService) AttachSymptoms(userID uint, selected []string, now time.Time) (models.PeriodRecord, error) {
	names, err := NormalizeSymptomSelection(selected)
	if err != nil {
		return models.PeriodRecord{}, err
	}
	if len(names) == 0 {
		return models.PeriodRecord{}, ErrNoSymptomsSelected
	}

	record, created, err := service.ActivePeriod(userID, now)
	if err != nil {
		observeSymptomSave(saveResultLoadFailed)
		return models.PeriodRecord{}, err
	}

	if record.SymptomsUnreadable() {
		unreadableSymptomsReplaced.Inc()
		record.ReplaceSymptoms(nil)
	}
	record.Symptoms = record.Symptoms.Merge(names)
	if err := service.periods.Persist(&record); err != nil {
		observeSymptomSave(saveResultPersistFailed)
		return models.PeriodRecord{}, fmt.Errorf("%w: %v", ErrPersistFailed, err)
	}

	if created {
		periodsCreated.Inc()
	}
	observeSymptomSave(saveResultOK)
	return record, nil
}

// RemoveSymptom drops name from a stored record. A record left without
// symptoms stores them as absent.
func (service *SymptomLogService) RemoveSymptom(userID uint, recordID uint, name string) (models.PeriodRecord, error) {
	record, err := service.periods.FindByIDForUser(recordID, userID)
	if err != nil {
		return models.PeriodRecord{}, fmt.Errorf("%w: %v", ErrPeriodRecordMissing, err)
	}

	name = strings.TrimSpace(name)
	if !record.Symptoms.Contains(name) {
		return record, nil
	}

	record.Symptoms = record.Symptoms.Without(name)
	if err := service.periods.Persist(&record); err != nil {
		return models.PeriodRecord{}, fmt.Errorf("%w: %v", ErrPersistFailed, err)
	}
	return record, nil
}

// ClearSymptoms removes every symptom from a stored record, including a stored
// value that no longer decodes.
func (service *SymptomLogService) ClearSymptoms(userID uint, recordID uint) (models.PeriodRecord, error) {
	record, err := service.periods.FindByIDForUser(recordID, userID)
	if err != nil {
		return models.PeriodRecord{}, fmt.Errorf("%w: %v", ErrPeriodRecordMissing, err)
	}
	if len(record.Symptoms) == 0 && !record.SymptomsUnreadable() {
		return record, nil
	}

	record.ReplaceSymptoms(nil)
	if err := service.periods.Persist(&record); err != nil {
		return models.PeriodRecord{}, fmt.Errorf("%w: %v", ErrPersistFailed, err)
	}
	return record, nil
}

// NormalizeSymptomSelection trims names, drops blanks and repeats, and keeps
// the first-seen order.
func NormalizeSymptomSelection(selected []string) ([]string, error) {
	names := make([]string, 0, len(selected))
	seen := make(map[string]struct{}, len(selected))
	for _, raw := range selected {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		if !utf8.ValidString(name) || len(name) > maxSymptomNameLength {
			return nil, ErrInvalidSymptomName
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names, nil
}
