package models

import "time"

const (
	FlowSpotting = "Spotting"
	FlowLight    = "Light"
	FlowMedium   = "Medium"
	FlowHeavy    = "Heavy"

	DefaultFlow = FlowLight
)

// PeriodRecord is one tracked period. Symptoms is the decoded form of the
// symptoms column held in SymptomsData; only EncodeSymptoms writes that
// column. When the stored value does not decode, Symptoms stays empty and
// SymptomsError carries the decode failure for this record alone.
type PeriodRecord struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	UserID        uint           `gorm:"not null;index:idx_period_records_user_start" json:"-"`
	StartDate     time.Time      `gorm:"not null;index:idx_period_records_user_start" json:"start_date"`
	EndDate       *time.Time     `json:"end_date"`
	Flow          string         `gorm:"not null;default:Light" json:"flow"`
	Symptoms      SymptomSet     `gorm:"-" json:"symptoms"`
	SymptomsData  StoredSymptoms `gorm:"column:symptoms;type:blob" json:"-"`
	SymptomsError string         `gorm:"-" json:"symptoms_error,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// Clone returns a copy that shares no mutable state with the receiver.
func (record PeriodRecord) Clone() PeriodRecord {
	cloned := record
	if record.EndDate != nil {
		end := *record.EndDate
		cloned.EndDate = &end
	}
	cloned.Symptoms = record.Symptoms.Clone()
	if record.SymptomsData != nil {
		cloned.SymptomsData = append(StoredSymptoms(nil), record.SymptomsData...)
	}
	return cloned
}

func (record PeriodRecord) IsOngoing() bool {
	return record.EndDate == nil
}

func (record PeriodRecord) SymptomsUnreadable() bool {
	return record.SymptomsError != ""
}

// DecodeSymptoms fills Symptoms from SymptomsData. On failure Symptoms is
// left empty, SymptomsError is set and the error is returned.
func (record *PeriodRecord) DecodeSymptoms() error {
	set, err := DecodeSymptomSet(record.SymptomsData)
	if err != nil {
		record.Symptoms = nil
		record.SymptomsError = err.Error()
		return err
	}
	record.Symptoms = set
	record.SymptomsError = ""
	return nil
}

// EncodeSymptoms writes Symptoms into SymptomsData. An unreadable stored
// value is kept as is while Symptoms is empty, so editing other fields never
// erases it; ReplaceSymptoms discards it explicitly.
func (record *PeriodRecord) EncodeSymptoms() error {
	if record.SymptomsUnreadable() && len(record.Symptoms) == 0 {
		return nil
	}
	data, err := EncodeSymptomSet(record.Symptoms)
	if err != nil {
		return err
	}
	record.SymptomsData = data
	record.SymptomsError = ""
	return nil
}

// ReplaceSymptoms sets Symptoms outright and drops any unreadable stored value.
func (record *PeriodRecord) ReplaceSymptoms(set SymptomSet) {
	record.Symptoms = set
	record.SymptomsError = ""
}
