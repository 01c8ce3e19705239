package db

import "gorm.io/gorm"

type Repositories struct {
	Users   *UserRepository
	Periods *PeriodRecordRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Users:   NewUserRepository(database),
		Periods: NewPeriodRecordRepository(database),
	}
}
