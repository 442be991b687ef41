package domain

import "time"

// ComparisonEvent is emitted after every completed comparison. Publishing is
// best-effort; a broker failure never affects the caller's response.
type ComparisonEvent struct {
	SenderCountry     string    `json:"senderCountry"`
	RecipientCountry  string    `json:"recipientCountry"`
	Amount            float64   `json:"amount"`
	WinnerPlatform    string    `json:"winnerPlatform"`
	PlatformCount     int       `json:"platformCount"`
	BestReceiveAmount float64   `json:"bestReceiveAmount"`
	Timestamp         time.Time `json:"timestamp"`
}

type EventPublisher interface {
	PublishComparison(event ComparisonEvent) error
}
