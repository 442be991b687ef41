package usecase

import (
	"github.com/remitip/rates-service/internal/domain"
)

// PlatformRestriction disables a platform for specific recipient countries
// or currencies. Platforms without an entry are never restricted.
type PlatformRestriction struct {
	DisabledCurrencies []string
	DisabledCountries  []string
}

// PlatformRegistry is the static, load-once catalog of adapters. It is
// read-only after construction and safe for concurrent use.
type PlatformRegistry struct {
	adapters     []domain.PlatformAdapter
	enabled      map[string]bool
	restrictions map[string]PlatformRestriction
}

func NewPlatformRegistry(adapters []domain.PlatformAdapter, enabled map[string]bool, restrictions map[string]PlatformRestriction) *PlatformRegistry {
	return &PlatformRegistry{
		adapters:     adapters,
		enabled:      enabled,
		restrictions: restrictions,
	}
}

// DefaultEnabledPlatforms reflects which upstream integrations currently
// hold up in production. MoneyGram, Revolut and Ria trip bot protection
// intermittently and Xoom has no public API anymore.
func DefaultEnabledPlatforms() map[string]bool {
	return map[string]bool{
		"Wise":       true,
		"Remitly":    true,
		"WorldRemit": true,
		"Airwallex":  true,
		"XE":         true,
		"MoneyGram":  false,
		"Revolut":    false,
		"Ria":        false,
		"Xoom":       false,
	}
}

func DefaultRestrictions() map[string]PlatformRestriction {
	return map[string]PlatformRestriction{
		"Revolut": {
			DisabledCurrencies: []string{"NGN", "GHS", "KES"},
			DisabledCountries:  []string{"NG", "GH", "KE"},
		},
	}
}

// EnabledAdapters returns only the adapters flagged enabled.
func (r *PlatformRegistry) EnabledAdapters() []domain.PlatformAdapter {
	out := make([]domain.PlatformAdapter, 0, len(r.adapters))
	for _, adapter := range r.adapters {
		if r.enabled[adapter.Name()] {
			out = append(out, adapter)
		}
	}
	return out
}

// IsRestricted reports whether the platform is disabled for the request's
// recipient country or its mapped currency. Restriction depends only on the
// corridor, never on the amount.
func (r *PlatformRegistry) IsRestricted(platformName string, req *domain.RateQuoteRequest) bool {
	restriction, ok := r.restrictions[platformName]
	if !ok {
		return false
	}

	recipientCurrency := domain.CurrencyForCountry(req.RecipientCountry)
	for _, currency := range restriction.DisabledCurrencies {
		if currency == recipientCurrency {
			return true
		}
	}
	for _, country := range restriction.DisabledCountries {
		if country == req.RecipientCountry {
			return true
		}
	}
	return false
}

// AvailablePlatforms lists the names of enabled adapters not restricted on
// the corridor, probed with a representative amount.
func (r *PlatformRegistry) AvailablePlatforms(senderCountry, recipientCountry string) []string {
	probe := &domain.RateQuoteRequest{
		SenderCountry:    senderCountry,
		RecipientCountry: recipientCountry,
		Amount:           100,
	}

	names := make([]string, 0, len(r.adapters))
	for _, adapter := range r.EnabledAdapters() {
		if r.IsRestricted(adapter.Name(), probe) {
			continue
		}
		names = append(names, adapter.Name())
	}
	return names
}
