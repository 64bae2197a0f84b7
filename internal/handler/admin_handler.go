package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mystic-tours/service-booking/internal/application"
	bookingDomain "github.com/mystic-tours/service-booking/internal/domain/booking"
	"github.com/mystic-tours/service-booking/internal/platform/auth"
	"github.com/mystic-tours/service-booking/internal/platform/middleware"
	"github.com/mystic-tours/service-booking/internal/platform/response"
)

// AdminHandler handles the back-office booking, driver, and assignment
// endpoints. Everything here requires an admin JWT.
type AdminHandler struct {
	bookings    *application.BookingService
	assignments *application.AssignmentService
	drivers     *application.DriverService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(
	bookings *application.BookingService,
	assignments *application.AssignmentService,
	drivers *application.DriverService,
) *AdminHandler {
	return &AdminHandler{
		bookings:    bookings,
		assignments: assignments,
		drivers:     drivers,
	}
}

// RegisterRoutes registers all admin routes on the given router group.
func (h *AdminHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	admin := r.Group("/api/v1/admin")
	admin.Use(middleware.Auth(jwtManager), middleware.RequireRole(auth.RoleAdmin))
	{
		admin.GET("/bookings", h.ListBookings)
		admin.GET("/bookings/stats", h.GetBookingStats)
		admin.GET("/bookings/:ref", h.GetBooking)
		admin.PATCH("/bookings/:ref", h.UpdateBooking)
		admin.DELETE("/bookings/:ref", h.DeleteBooking)
		admin.POST("/bookings/:ref/confirm", h.ConfirmBooking)
		admin.POST("/bookings/:ref/cancel", h.CancelBooking)
		admin.POST("/bookings/:ref/assign", h.AssignDriver)
		admin.GET("/bookings/:ref/assignment", h.GetActiveAssignment)

		admin.GET("/assignments", h.ListAssignments)
		admin.POST("/assignments/:id/cancel", h.CancelAssignment)

		admin.GET("/drivers", h.ListDrivers)
		admin.POST("/drivers", h.CreateDriver)
		admin.GET("/drivers/:id", h.GetDriver)
		admin.PATCH("/drivers/:id", h.UpdateDriver)
		admin.DELETE("/drivers/:id", h.DeleteDriver)
	}
}

// --- Bookings ---

// ListBookings handles GET /api/v1/admin/bookings. The list merges tour and
// transfer bookings, newest first, filtered by search, kind, and status.
func (h *AdminHandler) ListBookings(c *gin.Context) {
	filters := bookingDomain.ListFilters{
		Search: c.Query("search"),
		Kind:   c.Query("kind"),
		Status: c.Query("status"),
	}
	page, limit := parsePagination(c)

	result, err := h.bookings.ListBookings(c.Request.Context(), filters, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// GetBookingStats handles GET /api/v1/admin/bookings/stats.
func (h *AdminHandler) GetBookingStats(c *gin.Context) {
	result, err := h.bookings.GetBookingStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetBooking handles GET /api/v1/admin/bookings/:ref. The reference may be a
// UUID or a legacy serial number.
func (h *AdminHandler) GetBooking(c *gin.Context) {
	ref, err := bookingDomain.ParseRef(c.Param("ref"))
	if err != nil {
		response.BadRequest(c, "invalid booking reference")
		return
	}

	result, err := h.bookings.GetBooking(c.Request.Context(), ref)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdateBooking handles PATCH /api/v1/admin/bookings/:ref.
func (h *AdminHandler) UpdateBooking(c *gin.Context) {
	ref, err := bookingDomain.ParseRef(c.Param("ref"))
	if err != nil {
		response.BadRequest(c, "invalid booking reference")
		return
	}

	var req application.UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.bookings.UpdateBooking(c.Request.Context(), ref, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DeleteBooking handles DELETE /api/v1/admin/bookings/:ref.
func (h *AdminHandler) DeleteBooking(c *gin.Context) {
	ref, err := bookingDomain.ParseRef(c.Param("ref"))
	if err != nil {
		response.BadRequest(c, "invalid booking reference")
		return
	}

	if err := h.bookings.DeleteBooking(c.Request.Context(), ref); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// ConfirmBooking handles POST /api/v1/admin/bookings/:ref/confirm, the manual
// staff confirmation that bypasses driver assignment.
func (h *AdminHandler) ConfirmBooking(c *gin.Context) {
	ref, err := bookingDomain.ParseRef(c.Param("ref"))
	if err != nil {
		response.BadRequest(c, "invalid booking reference")
		return
	}

	result, err := h.bookings.ConfirmBooking(c.Request.Context(), ref)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// CancelBooking handles POST /api/v1/admin/bookings/:ref/cancel.
func (h *AdminHandler) CancelBooking(c *gin.Context) {
	ref, err := bookingDomain.ParseRef(c.Param("ref"))
	if err != nil {
		response.BadRequest(c, "invalid booking reference")
		return
	}

	result, err := h.bookings.CancelBooking(c.Request.Context(), ref)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// --- Assignments ---

// AssignDriver handles POST /api/v1/admin/bookings/:ref/assign.
func (h *AdminHandler) AssignDriver(c *gin.Context) {
	ref, err := bookingDomain.ParseRef(c.Param("ref"))
	if err != nil {
		response.BadRequest(c, "invalid booking reference")
		return
	}

	var req application.AssignDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.assignments.AssignDriver(c.Request.Context(), ref, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// GetActiveAssignment handles GET /api/v1/admin/bookings/:ref/assignment.
func (h *AdminHandler) GetActiveAssignment(c *gin.Context) {
	ref, err := bookingDomain.ParseRef(c.Param("ref"))
	if err != nil {
		response.BadRequest(c, "invalid booking reference")
		return
	}

	result, err := h.assignments.GetActiveAssignmentForBooking(c.Request.Context(), ref)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ListAssignments handles GET /api/v1/admin/assignments.
func (h *AdminHandler) ListAssignments(c *gin.Context) {
	result, err := h.assignments.ListAssignments(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// CancelAssignment handles POST /api/v1/admin/assignments/:id/cancel.
func (h *AdminHandler) CancelAssignment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid assignment ID")
		return
	}

	result, err := h.assignments.CancelAssignment(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// --- Drivers ---

// ListDrivers handles GET /api/v1/admin/drivers.
func (h *AdminHandler) ListDrivers(c *gin.Context) {
	result, err := h.drivers.ListDrivers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// CreateDriver handles POST /api/v1/admin/drivers.
func (h *AdminHandler) CreateDriver(c *gin.Context) {
	var req application.CreateDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.drivers.CreateDriver(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// GetDriver handles GET /api/v1/admin/drivers/:id.
func (h *AdminHandler) GetDriver(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid driver ID")
		return
	}

	result, err := h.drivers.GetDriver(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdateDriver handles PATCH /api/v1/admin/drivers/:id.
func (h *AdminHandler) UpdateDriver(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid driver ID")
		return
	}

	var req application.UpdateDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.drivers.UpdateDriver(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DeleteDriver handles DELETE /api/v1/admin/drivers/:id.
func (h *AdminHandler) DeleteDriver(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid driver ID")
		return
	}

	if err := h.drivers.DeleteDriver(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// parsePagination extracts page and limit query parameters with defaults.
func parsePagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	return page, limit
}
