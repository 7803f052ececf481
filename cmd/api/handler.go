package api

import (
	syncDelivery "emailbudget-backend/internal/gmailsync/delivery"
	"emailbudget-backend/internal/gmailsync/poller"
	syncUsecasePkg "emailbudget-backend/internal/gmailsync/usecase"
	txDelivery "emailbudget-backend/internal/transaction/delivery"
	txUsecasePkg "emailbudget-backend/internal/transaction/usecase"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	engine *gin.Engine
}

func NewHandler(
	transactionUsecase txUsecasePkg.TransactionUsecase,
	syncUsecase *syncUsecasePkg.SyncUsecase,
	accountUsecase *syncUsecasePkg.AccountUsecase,
	p *poller.Poller,
) *Handler {
	engine := gin.Default()

	transactionHandler := txDelivery.NewTransactionHandler(transactionUsecase)
	syncHandler := syncDelivery.NewSyncHandler(syncUsecase, accountUsecase, p)
	SetupRoutes(engine, transactionHandler, syncHandler)

	return &Handler{engine: engine}
}

func (h *Handler) Start(addr string) error {
	return h.engine.Run(addr)
}
