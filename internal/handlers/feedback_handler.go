package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bloodlink_backend/internal/auth"
	"bloodlink_backend/internal/middleware"
	"bloodlink_backend/internal/services"
	"bloodlink_backend/internal/services/dto"
)

type FeedbackHandler struct {
	*BaseHandler
	feedbackService services.FeedbackService
}

func NewFeedbackHandler(base *BaseHandler, feedbackService services.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{
		BaseHandler:     base,
		feedbackService: feedbackService,
	}
}

func (h *FeedbackHandler) RegisterRoutes(rg *gin.RouterGroup) {
	feedback := rg.Group("/feedback")
	feedback.Use(middleware.AuthMiddleware())
	{
		feedback.POST("", h.Create)
		feedback.GET("/mine", h.ListMine)
		feedback.GET("/:id", h.Get)
		feedback.PATCH("/:id", h.Update)
		feedback.DELETE("/:id", h.Delete)
		feedback.GET("", middleware.RequireOperation(auth.OpListAllFeedback), h.ListAll)
	}
}

func (h *FeedbackHandler) Create(c *gin.Context) {
	user, ok := h.GetAuthorizedUser(c)
	if !ok {
		return
	}

	var req dto.CreateFeedbackRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	response, err := h.feedbackService.Create(h.GetDB(c), user.ID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"feedback": response})
}

func (h *FeedbackHandler) Get(c *gin.Context) {
	id, ok := h.ParseParamUUID(c, "id")
	if !ok {
		return
	}

	response, err := h.feedbackService.Get(h.GetDB(c), id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"feedback": response})
}

func (h *FeedbackHandler) ListAll(c *gin.Context) {
	var query dto.FeedbackListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	response, err := h.feedbackService.ListAll(h.GetDB(c), &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *FeedbackHandler) ListMine(c *gin.Context) {
	user, ok := h.GetAuthorizedUser(c)
	if !ok {
		return
	}

	var query dto.FeedbackListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	response, err := h.feedbackService.ListMine(h.GetDB(c), user.ID, &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *FeedbackHandler) Update(c *gin.Context) {
	user, ok := h.GetAuthorizedUser(c)
	if !ok {
		return
	}

	id, ok := h.ParseParamUUID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateFeedbackRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	response, err := h.feedbackService.Update(h.GetDB(c), user, id, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"feedback": response})
}

func (h *FeedbackHandler) Delete(c *gin.Context) {
	user, ok := h.GetAuthorizedUser(c)
	if !ok {
		return
	}

	id, ok := h.ParseParamUUID(c, "id")
	if !ok {
		return
	}

	if err := h.feedbackService.Delete(h.GetDB(c), user, id); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Feedback deleted"})
}
