package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bloodlink_backend/internal/middleware"
	"bloodlink_backend/internal/services"
	"bloodlink_backend/internal/services/dto"
)

type NotificationHandler struct {
	*BaseHandler
	notificationService services.NotificationService
}

func NewNotificationHandler(base *BaseHandler, notificationService services.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		BaseHandler:         base,
		notificationService: notificationService,
	}
}

func (h *NotificationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	notifications := rg.Group("/notifications")
	notifications.Use(middleware.AuthMiddleware())
	{
		notifications.GET("", h.List)
		notifications.PATCH("/read-all", h.MarkAllRead)
		notifications.PATCH("/:id/read", h.MarkRead)
		notifications.DELETE("/:id", h.Delete)
	}
}

func (h *NotificationHandler) List(c *gin.Context) {
	user, ok := h.GetAuthorizedUser(c)
	if !ok {
		return
	}

	var query dto.NotificationListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	response, err := h.notificationService.List(h.GetDB(c), user.ID, &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	user, ok := h.GetAuthorizedUser(c)
	if !ok {
		return
	}

	id, ok := h.ParseParamUUID(c, "id")
	if !ok {
		return
	}

	if err := h.notificationService.MarkRead(h.GetDB(c), user.ID, id); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	user, ok := h.GetAuthorizedUser(c)
	if !ok {
		return
	}

	updated, err := h.notificationService.MarkAllRead(h.GetDB(c), user.ID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

func (h *NotificationHandler) Delete(c *gin.Context) {
	user, ok := h.GetAuthorizedUser(c)
	if !ok {
		return
	}

	id, ok := h.ParseParamUUID(c, "id")
	if !ok {
		return
	}

	if err := h.notificationService.Delete(h.GetDB(c), user.ID, id); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification deleted"})
}
