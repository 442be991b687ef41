package models

import "time"

// CorridorPopularityModel caches the periodically refreshed corridor
// ranking; the whole table is replaced on each refresh.
type CorridorPopularityModel struct {
	ID               string `gorm:"primaryKey;type:uuid"`
	SenderCountry    string `gorm:"uniqueIndex:idx_corridor_popularity"`
	RecipientCountry string `gorm:"uniqueIndex:idx_corridor_popularity"`
	TotalComparisons int64
	AverageAmount    float64
	PopularityRank   int
	BestPlatform     string
	AverageSavings   float64
	VolatilityScore  float64
	LastCompared     time.Time
	UpdatedAt        time.Time
}

func (CorridorPopularityModel) TableName() string {
	return "corridor_popularity"
}
