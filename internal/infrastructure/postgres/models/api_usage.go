package models

import "time"

type APIUsageModel struct {
	RequestID           string `gorm:"primaryKey"`
	Endpoint            string
	Method              string
	SenderCountry       string
	RecipientCountry    string
	Amount              float64
	FetchHistoricalData bool
	StatusCode          int
	ResponseTimeMs      int64
	PlatformsQueried    int
	SuccessfulPlatforms int
	RequestedAt         time.Time `gorm:"index:idx_api_usage_requested_at"`
}

func (APIUsageModel) TableName() string {
	return "api_usage_log"
}
