package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/mystic-tours/service-booking/internal/application"
	"github.com/mystic-tours/service-booking/internal/platform/response"
)

// BookingHandler handles the public booking forms. These endpoints are
// unauthenticated: customers submit directly from the website.
type BookingHandler struct {
	service *application.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(service *application.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// RegisterRoutes registers the public booking routes on the given router group.
func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup) {
	bookings := r.Group("/api/v1/bookings")
	{
		bookings.POST("/tours", h.CreateTourBooking)
		bookings.POST("/transfers", h.CreateTransferBooking)
	}
}

// CreateTourBooking handles POST /api/v1/bookings/tours.
func (h *BookingHandler) CreateTourBooking(c *gin.Context) {
	var req application.CreateTourBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateTourBooking(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// CreateTransferBooking handles POST /api/v1/bookings/transfers.
func (h *BookingHandler) CreateTransferBooking(c *gin.Context) {
	var req application.CreateTransferBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateTransferBooking(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}
