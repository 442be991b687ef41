package domain

import "errors"

var (
	ErrNoOfficialRate      = errors.New("failed to fetch official exchange rate")
	ErrComparisonFailed    = errors.New("failed to compare exchange rates")
	ErrDuplicateComparison = errors.New("comparison already recorded for corridor today")
)
