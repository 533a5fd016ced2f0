package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/solos-ag-ze/Painel-sub001/internal/services"
)

type NotificationController struct {
	notificationService *services.NotificationService
}

func NewNotificationController(notificationService *services.NotificationService) *NotificationController {
	return &NotificationController{notificationService: notificationService}
}

// List GET /api/v1/notificacoes?limit=50
func (nc *NotificationController) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	list, err := nc.notificationService.List(c.Request.Context(), CurrentUserID(c), limit)
	if err != nil {
		respondError(c, "Erro ao carregar notificações", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"notificacoes": list,
		"count":        len(list),
	})
}

// MarkRead POST /api/v1/notificacoes/:id/lida
func (nc *NotificationController) MarkRead(c *gin.Context) {
	if err := nc.notificationService.MarkRead(c.Request.Context(), CurrentUserID(c), c.Param("id")); err != nil {
		respondError(c, "Erro ao atualizar notificação", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
