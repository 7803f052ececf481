package api

import (
	"net/http"

	syncDelivery "emailbudget-backend/internal/gmailsync/delivery"
	txDelivery "emailbudget-backend/internal/transaction/delivery"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, transactionHandler *txDelivery.TransactionHandler, syncHandler *syncDelivery.SyncHandler) {
	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		transactions := api.Group("/transactions")
		{
			transactions.GET("", transactionHandler.ListTransactions)
			transactions.GET("/summary", transactionHandler.MonthlySummary)
			transactions.GET("/:id", transactionHandler.GetTransaction)
			transactions.DELETE("/:id", transactionHandler.DeleteTransaction)
			transactions.PATCH("/:id/category", transactionHandler.AssignCategory)
		}

		// OCR text path: enters the pipeline directly, no mail involved.
		api.POST("/import/ocr", transactionHandler.ImportReceiptText)

		categories := api.Group("/categories")
		{
			categories.GET("", transactionHandler.ListCategories)
			categories.POST("", transactionHandler.CreateCategory)
			categories.PUT("/:id", transactionHandler.UpdateCategory)
			categories.DELETE("/:id", transactionHandler.DeleteCategory)
		}

		budgets := api.Group("/budgets")
		{
			budgets.GET("", transactionHandler.ListBudgets)
			budgets.PUT("", transactionHandler.SetBudget)
			budgets.DELETE("/:id", transactionHandler.DeleteBudget)
		}

		rules := api.Group("/rules")
		{
			rules.GET("", transactionHandler.ListRules)
			rules.POST("", transactionHandler.CreateRule)
			rules.DELETE("/:id", transactionHandler.DeleteRule)
		}

		gmail := api.Group("/gmail")
		{
			gmail.POST("/connect", syncHandler.Connect)
			gmail.POST("/disconnect", syncHandler.Disconnect)
			gmail.GET("/status", syncHandler.Status)
			gmail.POST("/sync", syncHandler.SyncNow)
			gmail.POST("/sync/reset", syncHandler.ResetSync)
			gmail.POST("/poller/start", syncHandler.StartPoller)
			gmail.POST("/poller/stop", syncHandler.StopPoller)
			gmail.POST("/credentials", syncHandler.SaveCredentials)
			gmail.GET("/credentials", syncHandler.GetCredentials)
			gmail.DELETE("/credentials", syncHandler.DeleteCredentials)

			filters := gmail.Group("/filters")
			{
				filters.GET("", syncHandler.ListFilters)
				filters.POST("", syncHandler.AddFilter)
				filters.PATCH("/:id/toggle", syncHandler.SetFilterEnabled)
				filters.DELETE("/:id", syncHandler.DeleteFilter)
			}
		}
	}
}
