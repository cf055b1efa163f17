package handlers

import (
	"net/http"

	"github.com/camstore/store_backend/models"
	"github.com/gin-gonic/gin"
)

// CreateBatchHandler restocks a product: one new batch plus its restock
// transaction.
func CreateBatchHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewBatch
		if err := c.ShouldBindJSON(&input); err != nil {
			abortWithBindError(c, err)
			return
		}
		batch, err := models.CreateBatch(c.Request.Context(), &input)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusCreated, batch)
	}
}

func GetBatchHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c)
		if !ok {
			return
		}
		batch, err := models.GetBatch(c.Request.Context(), id)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, batch)
	}
}

func ExpiringBatchesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		days := intQuery(c, "days", 7)
		alerts, err := models.ListExpiringBatches(c.Request.Context(), days)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, alerts)
	}
}

func DailyExpiryCheckHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := models.DailyExpiryCheck(c.Request.Context())
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}
