package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/remitip/rates-service/internal/domain"
)

const defaultAmount = 100

type RatesHandler struct {
	comparisonUsecase domain.ComparisonUsecase
}

func NewRatesHandler(comparisonUsecase domain.ComparisonUsecase) *RatesHandler {
	return &RatesHandler{comparisonUsecase: comparisonUsecase}
}

func errorResponse(message string) gin.H {
	return gin.H{"success": false, "error": gin.H{"message": message}}
}

func requestFromQuery(c *gin.Context) (*domain.RateQuoteRequest, bool) {
	senderCountry := c.Query("senderCountry")
	recipientCountry := c.Query("recipientCountry")
	if senderCountry == "" || recipientCountry == "" {
		return nil, false
	}

	amount := float64(defaultAmount)
	if raw := c.Query("amount"); raw != "" {
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil && parsed > 0 {
			amount = parsed
		}
	}

	return &domain.RateQuoteRequest{
		SenderCountry:       senderCountry,
		RecipientCountry:    recipientCountry,
		Amount:              amount,
		FetchHistoricalData: c.Query("fetchHistoricalData") == "true",
	}, true
}

func (h *RatesHandler) Compare(c *gin.Context) {
	req, ok := requestFromQuery(c)
	if !ok {
		c.JSON(http.StatusBadRequest, errorResponse("senderCountry and recipientCountry are required"))
		return
	}

	comparison, err := h.comparisonUsecase.CompareRates(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": comparison})
}

func (h *RatesHandler) Platforms(c *gin.Context) {
	senderCountry := c.Query("senderCountry")
	recipientCountry := c.Query("recipientCountry")
	if senderCountry == "" || recipientCountry == "" {
		c.JSON(http.StatusBadRequest, errorResponse("senderCountry and recipientCountry are required"))
		return
	}

	platforms := h.comparisonUsecase.AvailablePlatforms(senderCountry, recipientCountry)
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"platforms": platforms}})
}

func (h *RatesHandler) Health(c *gin.Context) {
	health := h.comparisonUsecase.HealthCheck(c.Request.Context())

	healthy := 0
	for _, ok := range health {
		if ok {
			healthy++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"platforms": health,
			"healthy":   healthy,
			"total":     len(health),
		},
	})
}
