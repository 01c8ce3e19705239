package db

import (
	"github.com/terraincognita07/flowlog/internal/models"
	"gorm.io/gorm"
)

type PeriodRecordRepository struct {
	database *gorm.DB
}

func NewPeriodRecordRepository(database *gorm.DB) *PeriodRecordRepository {
	return &PeriodRecordRepository{database: database}
}

// ListRecentByUser returns at most limit records, newest start date first.
func (repo *PeriodRecordRepository) ListRecentByUser(userID uint, limit int) ([]models.PeriodRecord, error) {
	records := make([]models.PeriodRecord, 0)
	query := repo.database.
		Where("user_id = ?", userID).
		Order("start_date DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	decodeStoredSymptoms(records)
	return records, nil
}

func (repo *PeriodRecordRepository) ListByUser(userID uint) ([]models.PeriodRecord, error) {
	return repo.ListRecentByUser(userID, 0)
}

func (repo *PeriodRecordRepository) FindByIDForUser(recordID uint, userID uint) (models.PeriodRecord, error) {
	record := models.PeriodRecord{}
	if err := repo.database.Where("id = ? AND user_id = ?", recordID, userID).First(&record).Error; err != nil {
		return models.PeriodRecord{}, err
	}
	_ = record.DecodeSymptoms()
	return record, nil
}

// Persist creates the record when it has no ID yet and saves it otherwise,
// inside one transaction. Dates are stored in UTC so text ordering in SQLite
// matches chronological ordering.
func (repo *PeriodRecordRepository) Persist(record *models.PeriodRecord) error {
	if err := prepareRecord(record); err != nil {
		return err
	}

	return repo.database.Transaction(func(tx *gorm.DB) error {
		if record.ID == 0 {
			return tx.Create(record).Error
		}
		result := tx.Model(record).
			Where("user_id = ?", record.UserID).
			Select("start_date", "end_date", "flow", "symptoms", "updated_at").
			Updates(record)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// decodeStoredSymptoms decodes every record's symptoms column. A value that
// does not decode is reported on its own record through SymptomsError and
// does not fail the listing.
func decodeStoredSymptoms(records []models.PeriodRecord) {
	for index := range records {
		_ = records[index].DecodeSymptoms()
	}
}

func prepareRecord(record *models.PeriodRecord) error {
	normalizeRecordDates(record)
	return record.EncodeSymptoms()
}

func normalizeRecordDates(record *models.PeriodRecord) {
	record.StartDate = record.StartDate.UTC()
	if record.EndDate != nil {
		end := record.EndDate.UTC()
		record.EndDate = &end
	}
}
