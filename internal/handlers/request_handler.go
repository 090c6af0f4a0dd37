package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bloodlink_backend/internal/auth"
	"bloodlink_backend/internal/middleware"
	"bloodlink_backend/internal/services"
	"bloodlink_backend/internal/services/dto"
)

type RequestHandler struct {
	*BaseHandler
	requestService services.RequestService
}

func NewRequestHandler(base *BaseHandler, requestService services.RequestService) *RequestHandler {
	return &RequestHandler{
		BaseHandler:    base,
		requestService: requestService,
	}
}

func (h *RequestHandler) RegisterRoutes(rg *gin.RouterGroup) {
	requests := rg.Group("/requests")
	requests.Use(middleware.AuthMiddleware())
	{
		requests.GET("", h.List)
		requests.GET("/:id", h.Get)
		requests.POST("", middleware.RequireOperation(auth.OpCreateRequest), h.Create)
		requests.PATCH("/:id", middleware.RequireOperation(auth.OpManageRequest), h.Update)
		requests.DELETE("/:id", middleware.RequireOperation(auth.OpManageRequest), h.Delete)
		requests.POST("/:id/fulfill", middleware.RequireOperation(auth.OpFulfillRequest), h.Fulfill)
		requests.GET("/:id/match", middleware.RequireOperation(auth.OpManageRequest), h.MatchDonors)
	}
}

func (h *RequestHandler) Create(c *gin.Context) {
	user, ok := h.GetAuthorizedUser(c)
	if !ok {
		return
	}

	var req dto.CreateBloodRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	response, err := h.requestService.Create(h.GetDB(c), user, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"request": response})
}

func (h *RequestHandler) Get(c *gin.Context) {
	id, ok := h.ParseParamUUID(c, "id")
	if !ok {
		return
	}

	response, err := h.requestService.Get(h.GetDB(c), id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"request": response})
}

func (h *RequestHandler) List(c *gin.Context) {
	var query dto.BloodRequestListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	response, err := h.requestService.List(h.GetDB(c), &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *RequestHandler) Update(c *gin.Context) {
	user, ok := h.GetAuthorizedUser(c)
	if !ok {
		return
	}

	id, ok := h.ParseParamUUID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateBloodRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	response, err := h.requestService.Update(h.GetDB(c), user, id, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"request": response})
}

func (h *RequestHandler) Delete(c *gin.Context) {
	user, ok := h.GetAuthorizedUser(c)
	if !ok {
		return
	}

	id, ok := h.ParseParamUUID(c, "id")
	if !ok {
		return
	}

	if err := h.requestService.Delete(h.GetDB(c), user, id); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Request deleted"})
}

func (h *RequestHandler) Fulfill(c *gin.Context) {
	user, ok := h.GetAuthorizedUser(c)
	if !ok {
		return
	}

	id, ok := h.ParseParamUUID(c, "id")
	if !ok {
		return
	}

	response, err := h.requestService.Fulfill(h.GetDB(c), user, id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"request": response})
}

func (h *RequestHandler) MatchDonors(c *gin.Context) {
	id, ok := h.ParseParamUUID(c, "id")
	if !ok {
		return
	}

	notify := c.Query("notify") == "true"

	response, err := h.requestService.MatchDonors(h.GetDB(c), id, notify)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
