package delivery

import (
	"errors"
	"log"
	"net/http"

	"emailbudget-backend/internal/gmailsync/domain"
	syncdto "emailbudget-backend/internal/gmailsync/dto"
	"emailbudget-backend/internal/gmailsync/poller"
	"emailbudget-backend/internal/gmailsync/usecase"

	"github.com/gin-gonic/gin"
)

type SyncHandler struct {
	syncUsecase    *usecase.SyncUsecase
	accountUsecase *usecase.AccountUsecase
	poller         *poller.Poller
}

func NewSyncHandler(syncUsecase *usecase.SyncUsecase, accountUsecase *usecase.AccountUsecase, p *poller.Poller) *SyncHandler {
	return &SyncHandler{
		syncUsecase:    syncUsecase,
		accountUsecase: accountUsecase,
		poller:         p,
	}
}

// Connect drives the OAuth flow. The request blocks until the browser
// consent completes; the consent URL is logged so a user on a headless
// setup can open it by hand.
func (h *SyncHandler) Connect(c *gin.Context) {
	info, err := h.accountUsecase.Connect(c.Request.Context(), func(url string) {
		log.Printf("[Account] open to authorize: %s", url)
	})
	if err != nil {
		if errors.Is(err, domain.ErrAuthRequired) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.poller.Start()
	c.JSON(http.StatusOK, syncdto.ConnectResponse{
		Connected:    info.Connected,
		AccountEmail: info.AccountEmail,
	})
}

func (h *SyncHandler) Disconnect(c *gin.Context) {
	h.poller.Stop()
	if err := h.accountUsecase.Disconnect(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "disconnected"})
}

func (h *SyncHandler) Status(c *gin.Context) {
	info, err := h.accountUsecase.Info()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	report := h.syncUsecase.Status()
	report.PollerRunning = h.poller.Running()
	c.JSON(http.StatusOK, gin.H{
		"connected":     info.Connected,
		"account_email": info.AccountEmail,
		"sync":          report,
	})
}

// SyncNow runs one cycle inline, independent of the background loop. Safe
// to interleave with it: the processed-message check makes concurrent
// cycles idempotent.
func (h *SyncHandler) SyncNow(c *gin.Context) {
	result, err := h.syncUsecase.RunCycle(c.Request.Context())
	if err != nil {
		if errors.Is(err, domain.ErrAuthRequired) || errors.Is(err, domain.ErrNotConnected) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error(), "result": result})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "result": result})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *SyncHandler) StartPoller(c *gin.Context) {
	h.poller.Start()
	c.JSON(http.StatusOK, gin.H{"running": true})
}

func (h *SyncHandler) StopPoller(c *gin.Context) {
	h.poller.Stop()
	c.JSON(http.StatusOK, gin.H{"running": false})
}

func (h *SyncHandler) ResetSync(c *gin.Context) {
	if err := h.accountUsecase.ResetSync(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "sync state cleared"})
}

func (h *SyncHandler) SaveCredentials(c *gin.Context) {
	var req syncdto.SaveCredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.accountUsecase.SaveCredentials(req.ClientID, req.ClientSecret); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "credentials saved"})
}

func (h *SyncHandler) GetCredentials(c *gin.Context) {
	has, err := h.accountUsecase.HasCredentials()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"configured": has})
}

func (h *SyncHandler) DeleteCredentials(c *gin.Context) {
	if err := h.accountUsecase.DeleteCredentials(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "credentials removed"})
}

func (h *SyncHandler) ListFilters(c *gin.Context) {
	filters, err := h.accountUsecase.ListFilters()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"filters": filters})
}

func (h *SyncHandler) AddFilter(c *gin.Context) {
	var req syncdto.AddFilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	filter, err := h.accountUsecase.AddFilter(req.EmailAddress, req.Description)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, filter)
}

func (h *SyncHandler) SetFilterEnabled(c *gin.Context) {
	var req syncdto.SetFilterEnabledRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.accountUsecase.SetFilterEnabled(c.Param("id"), *req.Enabled); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "filter updated"})
}

func (h *SyncHandler) DeleteFilter(c *gin.Context) {
	if err := h.accountUsecase.DeleteFilter(c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "filter deleted"})
}
