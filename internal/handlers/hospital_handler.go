package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bloodlink_backend/internal/auth"
	"bloodlink_backend/internal/middleware"
	"bloodlink_backend/internal/services"
	"bloodlink_backend/internal/services/dto"
)

type HospitalHandler struct {
	*BaseHandler
	hospitalService services.HospitalService
}

func NewHospitalHandler(base *BaseHandler, hospitalService services.HospitalService) *HospitalHandler {
	return &HospitalHandler{
		BaseHandler:     base,
		hospitalService: hospitalService,
	}
}

func (h *HospitalHandler) RegisterRoutes(rg *gin.RouterGroup) {
	hospitals := rg.Group("/hospitals")
	hospitals.Use(middleware.AuthMiddleware())
	{
		hospitals.GET("", h.List)
		hospitals.GET("/nearby", h.FindNearby)
		hospitals.GET("/:id", h.Get)
		hospitals.POST("", middleware.RequireOperation(auth.OpCreateHospital), h.Create)
		hospitals.PATCH("/:id", middleware.RequireOperation(auth.OpManageHospital), h.Update)
		hospitals.DELETE("/:id", middleware.RequireOperation(auth.OpManageHospital), h.Delete)
		hospitals.PATCH("/:id/blood-bank", middleware.RequireOperation(auth.OpManageHospital), h.AdjustBloodBank)
	}
}

func (h *HospitalHandler) Create(c *gin.Context) {
	user, ok := h.GetAuthorizedUser(c)
	if !ok {
		return
	}

	var req dto.CreateHospitalRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	response, err := h.hospitalService.Create(h.GetDB(c), user.ID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"hospital": response})
}

func (h *HospitalHandler) Get(c *gin.Context) {
	id, ok := h.ParseParamUUID(c, "id")
	if !ok {
		return
	}

	response, err := h.hospitalService.Get(h.GetDB(c), id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"hospital": response})
}

func (h *HospitalHandler) List(c *gin.Context) {
	var query dto.HospitalListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	response, err := h.hospitalService.List(h.GetDB(c), &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *HospitalHandler) FindNearby(c *gin.Context) {
	var query dto.NearbyHospitalsQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	hospitals, err := h.hospitalService.FindNearby(h.GetDB(c), &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"hospitals": hospitals})
}

func (h *HospitalHandler) Update(c *gin.Context) {
	id, ok := h.ParseParamUUID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateHospitalRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	response, err := h.hospitalService.Update(h.GetDB(c), id, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"hospital": response})
}

func (h *HospitalHandler) Delete(c *gin.Context) {
	id, ok := h.ParseParamUUID(c, "id")
	if !ok {
		return
	}

	if err := h.hospitalService.Delete(h.GetDB(c), id); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Hospital deleted"})
}

func (h *HospitalHandler) AdjustBloodBank(c *gin.Context) {
	id, ok := h.ParseParamUUID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateBloodBankRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	response, err := h.hospitalService.AdjustBloodBank(h.GetDB(c), id, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"hospital": response})
}
