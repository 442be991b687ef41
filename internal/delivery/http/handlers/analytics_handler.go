package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/remitip/rates-service/internal/app/background"
	"github.com/remitip/rates-service/internal/domain"
)

const defaultAnalyticsDays = 30

type AnalyticsHandler struct {
	analyticsUsecase domain.AnalyticsUsecase
	tasks            *background.BackgroundTasks
}

func NewAnalyticsHandler(analyticsUsecase domain.AnalyticsUsecase, tasks *background.BackgroundTasks) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsUsecase: analyticsUsecase,
		tasks:            tasks,
	}
}

func daysFromQuery(c *gin.Context) int {
	if raw := c.Query("days"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultAnalyticsDays
}

func (h *AnalyticsHandler) Platforms(c *gin.Context) {
	senderCountry := c.Query("senderCountry")
	recipientCountry := c.Query("recipientCountry")
	if senderCountry == "" || recipientCountry == "" {
		c.JSON(http.StatusBadRequest, errorResponse("senderCountry and recipientCountry are required"))
		return
	}

	analytics, err := h.analyticsUsecase.PlatformAnalytics(c.Request.Context(), senderCountry, recipientCountry, daysFromQuery(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("failed to compute platform analytics"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"platforms": analytics}})
}

func (h *AnalyticsHandler) Corridors(c *gin.Context) {
	corridors, err := h.analyticsUsecase.CorridorAnalytics(c.Request.Context(), daysFromQuery(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("failed to compute corridor analytics"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"corridors": corridors}})
}

func (h *AnalyticsHandler) Trends(c *gin.Context) {
	senderCountry := c.Query("senderCountry")
	recipientCountry := c.Query("recipientCountry")
	if senderCountry == "" || recipientCountry == "" {
		c.JSON(http.StatusBadRequest, errorResponse("senderCountry and recipientCountry are required"))
		return
	}

	periods := []string{"7d", "30d"}
	if raw := c.Query("periods"); raw != "" {
		periods = strings.Split(raw, ",")
	}

	trends, err := h.analyticsUsecase.TrendAnalysis(c.Request.Context(), senderCountry, recipientCountry, periods)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("failed to compute trend analysis"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"trends": trends}})
}

func (h *AnalyticsHandler) DailySummary(c *gin.Context) {
	date := time.Now().UTC()
	if raw := c.Query("date"); raw != "" {
		if parsed, err := time.Parse("2006-01-02", raw); err == nil {
			date = parsed
		}
	}

	summary, err := h.analyticsUsecase.DailySummary(c.Request.Context(), date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("failed to compute daily summary"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": summary})
}

func (h *AnalyticsHandler) TriggerJob(c *gin.Context) {
	jobType := c.Param("jobType")
	if err := h.tasks.RunJob(c.Request.Context(), jobType); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"job": jobType, "status": "completed"}})
}
