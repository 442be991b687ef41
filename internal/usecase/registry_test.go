package usecase

import (
	"testing"

	"github.com/remitip/rates-service/internal/domain"
	"github.com/stretchr/testify/assert"
)

func testAdapters(names ...string) []domain.PlatformAdapter {
	adapters := make([]domain.PlatformAdapter, 0, len(names))
	for _, name := range names {
		adapters = append(adapters, &stubAdapter{name: name})
	}
	return adapters
}

func TestPlatformRegistry(t *testing.T) {
	t.Run("EnabledAdapters filters disabled platforms", func(t *testing.T) {
		registry := NewPlatformRegistry(
			testAdapters("Wise", "Xoom", "XE"),
			map[string]bool{"Wise": true, "Xoom": false, "XE": true},
			nil,
		)

		enabled := registry.EnabledAdapters()

		names := make([]string, 0, len(enabled))
		for _, adapter := range enabled {
			names = append(names, adapter.Name())
		}
		assert.Equal(t, []string{"Wise", "XE"}, names)
	})

	t.Run("Restriction by recipient country", func(t *testing.T) {
		registry := NewPlatformRegistry(nil, nil, map[string]PlatformRestriction{
			"Revolut": {DisabledCountries: []string{"NG"}},
		})

		assert.True(t, registry.IsRestricted("Revolut", &domain.RateQuoteRequest{SenderCountry: "US", RecipientCountry: "NG", Amount: 100}))
		assert.False(t, registry.IsRestricted("Revolut", &domain.RateQuoteRequest{SenderCountry: "US", RecipientCountry: "GB", Amount: 100}))
	})

	t.Run("Restriction by recipient currency", func(t *testing.T) {
		registry := NewPlatformRegistry(nil, nil, map[string]PlatformRestriction{
			"Revolut": {DisabledCurrencies: []string{"NGN"}},
		})

		// NG maps to NGN, so the currency restriction bites even without a
		// country entry.
		assert.True(t, registry.IsRestricted("Revolut", &domain.RateQuoteRequest{SenderCountry: "US", RecipientCountry: "NG", Amount: 100}))
		assert.False(t, registry.IsRestricted("Revolut", &domain.RateQuoteRequest{SenderCountry: "US", RecipientCountry: "KE", Amount: 100}))
	})

	t.Run("Platform without an entry is never restricted", func(t *testing.T) {
		registry := NewPlatformRegistry(nil, nil, map[string]PlatformRestriction{
			"Revolut": {DisabledCountries: []string{"NG"}},
		})

		assert.False(t, registry.IsRestricted("Wise", &domain.RateQuoteRequest{SenderCountry: "US", RecipientCountry: "NG", Amount: 100}))
	})

	t.Run("AvailablePlatforms drops disabled and restricted", func(t *testing.T) {
		registry := NewPlatformRegistry(
			testAdapters("Wise", "Revolut", "Xoom"),
			map[string]bool{"Wise": true, "Revolut": true, "Xoom": false},
			map[string]PlatformRestriction{
				"Revolut": {DisabledCountries: []string{"NG"}},
			},
		)

		assert.Equal(t, []string{"Wise"}, registry.AvailablePlatforms("US", "NG"))
		assert.Equal(t, []string{"Wise", "Revolut"}, registry.AvailablePlatforms("US", "GB"))
	})

	t.Run("Default configuration keeps Revolut out of West African corridors", func(t *testing.T) {
		registry := NewPlatformRegistry(
			testAdapters("Wise", "Remitly", "MoneyGram", "WorldRemit", "Airwallex", "Revolut", "XE", "Ria", "Xoom"),
			DefaultEnabledPlatforms(),
			DefaultRestrictions(),
		)

		available := registry.AvailablePlatforms("US", "NG")

		assert.ElementsMatch(t, []string{"Wise", "Remitly", "WorldRemit", "Airwallex", "XE"}, available)
		assert.NotContains(t, available, "Revolut")
		assert.NotContains(t, available, "Xoom")
	})
}
