package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bloodlink_backend/internal/auth"
	"bloodlink_backend/internal/middleware"
	"bloodlink_backend/internal/models"
	"bloodlink_backend/internal/services"
	"bloodlink_backend/internal/services/dto"
	"bloodlink_backend/pkg/apperrors"
)

type DonationHandler struct {
	*BaseHandler
	donationService services.DonationService
}

func NewDonationHandler(base *BaseHandler, donationService services.DonationService) *DonationHandler {
	return &DonationHandler{
		BaseHandler:     base,
		donationService: donationService,
	}
}

func (h *DonationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	donations := rg.Group("/donations")
	donations.Use(middleware.AuthMiddleware())
	{
		donations.GET("", h.List)
		donations.GET("/mine", h.ListMine)
		donations.GET("/eligibility", h.Eligibility)
		donations.GET("/:id", h.Get)
		donations.POST("", middleware.RequireOperation(auth.OpCreateDonation), h.Create)
		donations.PATCH("/:id", middleware.RequireOperation(auth.OpManageDonation), h.Update)
		donations.DELETE("/:id", middleware.RequireOperation(auth.OpManageDonation), h.Delete)
	}
}

func (h *DonationHandler) Create(c *gin.Context) {
	user, ok := h.GetAuthorizedUser(c)
	if !ok {
		return
	}

	var req dto.CreateDonationRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	response, err := h.donationService.Create(h.GetDB(c), user, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"donation": response})
}

func (h *DonationHandler) Get(c *gin.Context) {
	user, ok := h.GetAuthorizedUser(c)
	if !ok {
		return
	}

	id, ok := h.ParseParamUUID(c, "id")
	if !ok {
		return
	}

	response, err := h.donationService.Get(h.GetDB(c), id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	// Донор видит только свои донации
	if user.Role != models.UserRoleAdmin && response.DonorID != user.ID {
		h.HandleServiceError(c, apperrors.ErrInsufficientPermissions)
		return
	}

	c.JSON(http.StatusOK, gin.H{"donation": response})
}

// List is the admin view over all donations. Non-admins get their own.
func (h *DonationHandler) List(c *gin.Context) {
	user, ok := h.GetAuthorizedUser(c)
	if !ok {
		return
	}

	var query dto.DonationListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	db := h.GetDB(c)

	var response *dto.DonationListResponse
	var err error
	if user.Role == models.UserRoleAdmin {
		response, err = h.donationService.List(db, &query)
	} else {
		response, err = h.donationService.ListForDonor(db, user.ID, &query)
	}
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *DonationHandler) ListMine(c *gin.Context) {
	user, ok := h.GetAuthorizedUser(c)
	if !ok {
		return
	}

	var query dto.DonationListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	response, err := h.donationService.ListForDonor(h.GetDB(c), user.ID, &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// Eligibility reports whether the caller may donate now and, if not, when.
func (h *DonationHandler) Eligibility(c *gin.Context) {
	user, ok := h.GetAuthorizedUser(c)
	if !ok {
		return
	}

	next := h.donationService.NextEligibleDate(user)
	c.JSON(http.StatusOK, gin.H{
		"eligible":      next == nil,
		"next_eligible": next,
	})
}

func (h *DonationHandler) Update(c *gin.Context) {
	user, ok := h.GetAuthorizedUser(c)
	if !ok {
		return
	}

	id, ok := h.ParseParamUUID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateDonationRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	response, err := h.donationService.Update(h.GetDB(c), user, id, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"donation": response})
}

func (h *DonationHandler) Delete(c *gin.Context) {
	user, ok := h.GetAuthorizedUser(c)
	if !ok {
		return
	}

	id, ok := h.ParseParamUUID(c, "id")
	if !ok {
		return
	}

	if err := h.donationService.Delete(h.GetDB(c), user, id); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Donation deleted"})
}
