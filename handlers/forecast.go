package handlers

import (
	"net/http"
	"os"
	"time"

	"github.com/camstore/store_backend/forecast"
	"github.com/camstore/store_backend/models"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SeasonalPredictionsHandler serves demand predictions. Without query
// filters it returns the next month's prediction for every known
// category; category and month narrow the result.
func SeasonalPredictionsHandler(analyzer *forecast.Analyzer) gin.HandlerFunc {
	return func(c *gin.Context) {
		month := intQuery(c, "month", int(time.Now().UTC().Month()))
		if month < 1 || month > 12 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "month must be between 1 and 12"})
			return
		}

		if category := c.Query("category"); category != "" {
			c.JSON(http.StatusOK, analyzer.Predict(category, month))
			return
		}

		categories, err := models.ListCategories(c.Request.Context())
		if err != nil {
			abortWithError(c, err)
			return
		}
		predictions := make([]forecast.Prediction, 0, len(categories))
		for _, category := range categories {
			predictions = append(predictions, analyzer.Predict(category, month))
		}
		c.JSON(http.StatusOK, gin.H{
			"month":       month,
			"predictions": predictions,
			"trained":     analyzer.IsTrained(),
		})
	}
}

func SeasonalInsightsHandler(analyzer *forecast.Analyzer) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"insights": analyzer.Insights(),
			"trained":  analyzer.IsTrained(),
		})
	}
}

// RetrainHandler re-trains from recorded sales, falling back to the
// configured dataset workbook when sales history is too thin.
func RetrainHandler(analyzer *forecast.Analyzer, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := analyzer.TrainFromTransactions(c.Request.Context()); err != nil {
			abortWithError(c, err)
			return
		}

		if !analyzer.IsTrained() {
			if path := os.Getenv("SEASONAL_DATASET"); path != "" {
				if err := analyzer.TrainFromXlsx(c.Request.Context(), path); err != nil {
					logger.WithFields(logrus.Fields{
						"field": "RetrainHandler",
						"path":  path,
					}).Warn("dataset training failed: " + err.Error())
				}
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "retraining complete",
			"trained": analyzer.IsTrained(),
		})
	}
}
