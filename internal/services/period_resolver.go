package services

import (
	"time"

	"github.com/terraincognita07/flowlog/internal/models"
)

// ActivePeriodLookback bounds how many recent records are scanned when
// resolving the active period.
const ActivePeriodLookback = 15

// ResolveActivePeriod picks the record that entries logged at now belong to.
// Rules are tried in order over candidates in scan order (newest start
// first), first match wins:
//  1. the record starts on now's calendar day in location;
//  2. the record started at or before now and its end is unset or not
//     before now.
//
// When nothing matches, an unsaved record starting at now is returned with
// created set. Candidates are never modified.
func ResolveActivePeriod(now time.Time, candidates []models.PeriodRecord, location *time.Location) (models.PeriodRecord, bool) {
	for _, candidate := range candidates {
		if SameCalendarDay(candidate.StartDate, now, location) {
			return candidate.Clone(), false
		}
	}
	for _, candidate := range candidates {
		if coversInstant(candidate, now) {
			return candidate.Clone(), false
		}
	}
	return NewPeriodRecord(now), true
}

func coversInstant(record models.PeriodRecord, now time.Time) bool {
	if record.StartDate.After(now) {
		return false
	}
	return record.IsOngoing() || !record.EndDate.Before(now)
}

func NewPeriodRecord(start time.Time) models.PeriodRecord {
	return models.PeriodRecord{
		StartDate: start,
		EndDate:   nil,
		Flow:      models.DefaultFlow,
		Symptoms:  nil,
	}
}
