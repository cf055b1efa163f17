package handlers

import (
	"net/http"

	"github.com/camstore/store_backend/models"
	"github.com/gin-gonic/gin"
)

func DashboardStatsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := models.GetDashboardStats(c.Request.Context())
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

func DashboardKPIHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		kpi, err := models.GetDashboardKPI(c.Request.Context())
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, kpi)
	}
}

func RevenueAnalyticsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		days := intQuery(c, "days", 30)
		if days <= 0 || days > 365 {
			days = 30
		}
		revenue, err := models.RevenueAnalytics(c.Request.Context(), days)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, revenue)
	}
}

func WastageReportHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		report, err := models.WastageReport(c.Request.Context())
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, report)
	}
}

func CategoryBreakdownHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		breakdown, err := models.CategoryBreakdownReport(c.Request.Context())
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, breakdown)
	}
}
