package models

import "time"

// ComparisonModel persists one corridor comparison per calendar day. The
// per-platform results are embedded as a jsonb document; the migration adds
// the unique (corridor, utc day) index that backs the idempotence guard.
type ComparisonModel struct {
	ID                string `gorm:"primaryKey;type:uuid"`
	SenderCountry     string `gorm:"index:idx_comparisons_corridor"`
	RecipientCountry  string `gorm:"index:idx_comparisons_corridor"`
	SenderCurrency    string
	RecipientCurrency string
	Amount            float64
	OfficialRate      float64
	OfficialAmount    float64
	PlatformResults   string `gorm:"type:jsonb"`
	WinnerPlatform    string
	BestReceiveAmount float64
	BestExchangeRate  float64
	AverageRate       float64
	RateVariancePct   float64
	PlatformCount     int
	CreatedAt         time.Time `gorm:"index:idx_comparisons_created_at"`
	ExpiresAt         time.Time `gorm:"index:idx_comparisons_expires_at"`
}

func (ComparisonModel) TableName() string {
	return "comparisons"
}
