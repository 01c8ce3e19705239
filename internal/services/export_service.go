package services

import (
	"sort"
	"strings"
	"time"

	"github.com/terraincognita07/flowlog/internal/models"
)

const exportDateLayout = "2006-01-02"

type ExportPeriodReader interface {
	ListByUser(userID uint) ([]models.PeriodRecord, error)
}

type ExportService struct {
	periods  ExportPeriodReader
	location *time.Location
}

const unreadableSymptomsNote = "symptoms unreadable"

// ExportCSVRow is one period. Builtin holds one flag per entry of
// models.DefaultBuiltinSymptoms, in catalog order.
type ExportCSVRow struct {
	Start   string
	End     string
	Flow    string
	Builtin []bool
	Other   []string
	Notes   string
}

func NewExportService(periods ExportPeriodReader, location *time.Location) *ExportService {
	if location == nil {
		location = time.UTC
	}
	return &ExportService{periods: periods, location: location}
}

func ExportCSVHeaders() []string {
	catalog := models.DefaultBuiltinSymptoms()
	headers := make([]string, 0, len(catalog)+5)
	headers = append(headers, "Start", "End", "Flow")
	for _, symptom := range catalog {
		headers = append(headers, symptom.Name)
	}
	return append(headers, "Other", "Notes")
}

// BuildCSVRows returns the user's periods oldest first.
func (service *ExportService) BuildCSVRows(userID uint) ([]ExportCSVRow, error) {
	records, err := service.periods.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].StartDate.Before(records[j].StartDate)
	})

	columns := exportSymptomColumns()
	rows := make([]ExportCSVRow, 0, len(records))
	for _, record := range records {
		row := ExportCSVRow{
			Start:   DateAtLocation(record.StartDate, service.location).Format(exportDateLayout),
			Flow:    record.Flow,
			Builtin: make([]bool, len(columns)),
		}
		if record.SymptomsUnreadable() {
			row.Notes = unreadableSymptomsNote
		}
		if record.EndDate != nil {
			row.End = DateAtLocation(*record.EndDate, service.location).Format(exportDateLayout)
		}
		for _, name := range record.Symptoms {
			if column, ok := columns[strings.ToLower(name)]; ok {
				row.Builtin[column] = true
				continue
			}
			row.Other = append(row.Other, name)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (row ExportCSVRow) Columns() []string {
	columns := make([]string, 0, len(row.Builtin)+5)
	columns = append(columns, row.Start, row.End, row.Flow)
	for _, present := range row.Builtin {
		columns = append(columns, csvYesNo(present))
	}
	return append(columns, strings.Join(row.Other, "; "), row.Notes)
}

func exportSymptomColumns() map[string]int {
	catalog := models.DefaultBuiltinSymptoms()
	columns := make(map[string]int, len(catalog))
	for index, symptom := range catalog {
		columns[strings.ToLower(symptom.Name)] = index
	}
	return columns
}

func csvYesNo(value bool) string {
	if value {
		return "yes"
	}
	return ""
}
