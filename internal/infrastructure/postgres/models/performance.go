package models

import "time"

// PlatformPerformanceModel is one platform's daily counters for a corridor.
// Rows are written only through the atomic upsert in the repository.
type PlatformPerformanceModel struct {
	ID                    string    `gorm:"primaryKey;type:uuid"`
	PlatformName          string    `gorm:"uniqueIndex:idx_performance_daily"`
	SenderCountry         string    `gorm:"uniqueIndex:idx_performance_daily"`
	RecipientCountry      string    `gorm:"uniqueIndex:idx_performance_daily"`
	Date                  time.Time `gorm:"uniqueIndex:idx_performance_daily;type:date"`
	TotalRequests         int64
	SuccessfulRequests    int64
	FailedRequests        int64
	AverageResponseTimeMs float64
	TimesWinner           int64
	AverageRank           *float64
	UpdatedAt             time.Time
}

func (PlatformPerformanceModel) TableName() string {
	return "platform_performance"
}
