package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mystic-tours/service-booking/internal/application"
	"github.com/mystic-tours/service-booking/internal/platform/auth"
	"github.com/mystic-tours/service-booking/internal/platform/middleware"
	"github.com/mystic-tours/service-booking/internal/platform/response"
)

// TourHandler handles the tour catalog: public browsing plus authenticated
// content management.
type TourHandler struct {
	service *application.TourService
}

// NewTourHandler creates a new TourHandler.
func NewTourHandler(service *application.TourService) *TourHandler {
	return &TourHandler{service: service}
}

// RegisterRoutes registers all tour routes on the given router group.
func (h *TourHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	tours := r.Group("/api/v1/tours")
	{
		tours.GET("", h.ListPublishedTours)
		tours.GET("/:slug", h.GetTourBySlug)
	}

	manage := r.Group("/api/v1/admin/tours")
	manage.Use(middleware.Auth(jwtManager), middleware.RequireAnyRole(auth.RoleAdmin, auth.RoleEditor))
	{
		manage.GET("", h.ListAllTours)
		manage.POST("", h.CreateTour)
		manage.GET("/:id", h.GetTour)
		manage.PATCH("/:id", h.UpdateTour)
		manage.POST("/:id/archive", h.ArchiveTour)
		manage.DELETE("/:id", h.DeleteTour)
	}
}

// ListPublishedTours handles GET /api/v1/tours.
func (h *TourHandler) ListPublishedTours(c *gin.Context) {
	result, err := h.service.ListPublishedTours(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetTourBySlug handles GET /api/v1/tours/:slug.
func (h *TourHandler) GetTourBySlug(c *gin.Context) {
	result, err := h.service.GetTourBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ListAllTours handles GET /api/v1/admin/tours.
func (h *TourHandler) ListAllTours(c *gin.Context) {
	result, err := h.service.ListAllTours(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// CreateTour handles POST /api/v1/admin/tours.
func (h *TourHandler) CreateTour(c *gin.Context) {
	var req application.CreateTourRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateTour(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// GetTour handles GET /api/v1/admin/tours/:id.
func (h *TourHandler) GetTour(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid tour ID")
		return
	}

	result, err := h.service.GetTour(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdateTour handles PATCH /api/v1/admin/tours/:id.
func (h *TourHandler) UpdateTour(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid tour ID")
		return
	}

	var req application.UpdateTourRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.UpdateTour(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ArchiveTour handles POST /api/v1/admin/tours/:id/archive.
func (h *TourHandler) ArchiveTour(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid tour ID")
		return
	}

	result, err := h.service.ArchiveTour(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DeleteTour handles DELETE /api/v1/admin/tours/:id.
func (h *TourHandler) DeleteTour(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid tour ID")
		return
	}

	if err := h.service.DeleteTour(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
