package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mystic-tours/service-booking/internal/application"
	"github.com/mystic-tours/service-booking/internal/platform/auth"
	"github.com/mystic-tours/service-booking/internal/platform/middleware"
	"github.com/mystic-tours/service-booking/internal/platform/response"
)

// GalleryHandler handles site images: public listing plus authenticated
// content management.
type GalleryHandler struct {
	service *application.GalleryService
}

// NewGalleryHandler creates a new GalleryHandler.
func NewGalleryHandler(service *application.GalleryService) *GalleryHandler {
	return &GalleryHandler{service: service}
}

// RegisterRoutes registers all gallery routes on the given router group.
func (h *GalleryHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	gallery := r.Group("/api/v1/gallery")
	{
		gallery.GET("", h.ListPublishedImages)
	}

	manage := r.Group("/api/v1/admin/gallery")
	manage.Use(middleware.Auth(jwtManager), middleware.RequireAnyRole(auth.RoleAdmin, auth.RoleEditor))
	{
		manage.GET("", h.ListAllImages)
		manage.POST("", h.CreateImage)
		manage.POST("/:id/unpublish", h.UnpublishImage)
		manage.DELETE("/:id", h.DeleteImage)
	}
}

// ListPublishedImages handles GET /api/v1/gallery. An optional section query
// parameter narrows the result to one site section.
func (h *GalleryHandler) ListPublishedImages(c *gin.Context) {
	result, err := h.service.ListPublishedImages(c.Request.Context(), c.Query("section"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ListAllImages handles GET /api/v1/admin/gallery.
func (h *GalleryHandler) ListAllImages(c *gin.Context) {
	result, err := h.service.ListAllImages(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// CreateImage handles POST /api/v1/admin/gallery.
func (h *GalleryHandler) CreateImage(c *gin.Context) {
	var req application.CreateImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateImage(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// UnpublishImage handles POST /api/v1/admin/gallery/:id/unpublish.
func (h *GalleryHandler) UnpublishImage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid image ID")
		return
	}

	result, err := h.service.UnpublishImage(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DeleteImage handles DELETE /api/v1/admin/gallery/:id.
func (h *GalleryHandler) DeleteImage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid image ID")
		return
	}

	if err := h.service.DeleteImage(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
