package handlers

import (
	"net/http"
	"time"

	"mediremind/services/push"
	"mediremind/services/reminder"
	"mediremind/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CronHandler exposes the externally scheduled jobs as stateless HTTP
// triggers. Each invocation is a complete unit of work; overlapping
// invocations degrade gracefully through the dedup gate.
type CronHandler struct {
	Scanner reminder.Scanner
	Drainer *push.BacklogDrainer
}

func NewCronHandler(scanner reminder.Scanner, drainer *push.BacklogDrainer) *CronHandler {
	return &CronHandler{Scanner: scanner, Drainer: drainer}
}

// ProcessRemindersHandler handles GET /cron/process-reminders.
func (h *CronHandler) ProcessRemindersHandler(c *gin.Context) {
	report := h.Scanner.Run(c.Request.Context(), time.Now())
	if report.Errors == nil {
		report.Errors = []string{}
	}
	c.JSON(http.StatusOK, report)
}

// ProcessPushHandler handles GET /cron/process-push.
func (h *CronHandler) ProcessPushHandler(c *gin.Context) {
	processed, err := h.Drainer.Drain(c.Request.Context())
	if err != nil {
		utils.GetLogger().Error("Push backlog drain failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"processed": processed})
}
