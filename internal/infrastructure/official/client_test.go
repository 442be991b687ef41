package official

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/remitip/rates-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOfficialRate(t *testing.T) {
	ctx := context.Background()

	t.Run("Successful pair conversion", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v6/test-key/pair/USD/NGN/100", r.URL.Path)
			w.Write([]byte(`{
				"result": "success",
				"base_code": "USD",
				"target_code": "NGN",
				"conversion_rate": 1580.25,
				"conversion_result": 158025,
				"time_last_update_utc": "Fri, 29 Aug 2026 00:00:01 +0000"
			}`))
		}))
		defer server.Close()

		client := NewExchangeRateAPIClient(server.URL, "test-key")
		rate, err := client.GetOfficialRate(ctx, "USD", "NGN", 100)

		require.NoError(t, err)
		assert.Equal(t, "USD", rate.BaseCurrency)
		assert.Equal(t, "NGN", rate.TargetCurrency)
		assert.Equal(t, 1580.25, rate.ConversionRate)
		assert.Equal(t, 158025.0, rate.ConvertedAmount)
	})

	t.Run("Non-success result", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"result":"error","error-type":"unsupported-code"}`))
		}))
		defer server.Close()

		client := NewExchangeRateAPIClient(server.URL, "test-key")
		rate, err := client.GetOfficialRate(ctx, "USD", "XXX", 100)

		assert.Nil(t, rate)
		assert.ErrorIs(t, err, domain.ErrNoOfficialRate)
		assert.Contains(t, err.Error(), "unsupported-code")
	})

	t.Run("Upstream HTTP error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		client := NewExchangeRateAPIClient(server.URL, "test-key")
		rate, err := client.GetOfficialRate(ctx, "USD", "NGN", 100)

		assert.Nil(t, rate)
		assert.ErrorIs(t, err, domain.ErrNoOfficialRate)
	})

	t.Run("Unreachable upstream", func(t *testing.T) {
		client := NewExchangeRateAPIClient("http://127.0.0.1:1", "test-key")
		rate, err := client.GetOfficialRate(ctx, "USD", "NGN", 100)

		assert.Nil(t, rate)
		assert.ErrorIs(t, err, domain.ErrNoOfficialRate)
	})
}
