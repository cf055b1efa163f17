package handlers

import (
	"net/http"

	"github.com/camstore/store_backend/models"
	"github.com/camstore/store_backend/workflow"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// CreateTransactionHandler runs the ledger workflow for a sale, wastage
// or restock request. Sale responses include the FIFO deduction plan so
// the caller can see which batches were consumed.
func CreateTransactionHandler(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input models.NewTransaction
		if err := c.ShouldBindJSON(&input); err != nil {
			abortWithBindError(c, err)
			return
		}
		if !input.TransactionType.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction type"})
			return
		}

		record, deductions, err := workflow.ProcessTransaction(c.Request.Context(), logger, &input)
		if err != nil {
			abortWithError(c, err)
			return
		}

		response := gin.H{"transaction": record}
		if deductions != nil {
			response["batch_deductions"] = deductions
		}
		c.JSON(http.StatusCreated, response)
	}
}

func ListTransactionsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		transactionType := models.TransactionType(c.Query("transaction_type"))
		if transactionType != "" && !transactionType.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction type"})
			return
		}

		transactions, err := models.ListTransactions(
			c.Request.Context(),
			transactionType,
			intQuery(c, "product_id", 0),
			intQuery(c, "limit", 50),
		)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, transactions)
	}
}
