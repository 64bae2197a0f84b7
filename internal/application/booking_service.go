package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mystic-tours/service-booking/internal/domain"
	bookingDomain "github.com/mystic-tours/service-booking/internal/domain/booking"
	tourDomain "github.com/mystic-tours/service-booking/internal/domain/tour"
	"github.com/mystic-tours/service-booking/internal/events/schema"
	"github.com/mystic-tours/service-booking/internal/platform/kafka"
	"go.uber.org/zap"
)

// CreateTourBookingRequest holds the public tour booking form submission.
type CreateTourBookingRequest struct {
	TourID          string    `json:"tour_id" binding:"required"`
	Name            string    `json:"name" binding:"required"`
	Email           string    `json:"email" binding:"required"`
	Phone           string    `json:"phone"`
	BookingDate     time.Time `json:"booking_date" binding:"required"`
	NumberOfPeople  int       `json:"number_of_people" binding:"required"`
	SpecialRequests string    `json:"special_requests"`
}

// FlightLegDTO carries one leg of an airport transfer over the wire.
type FlightLegDTO struct {
	FlightNumber string    `json:"flight_number"`
	Date         time.Time `json:"date"`
	Time         string    `json:"time"`
	Location     string    `json:"location"`
}

// CreateTransferBookingRequest holds the airport transfer form submission.
type CreateTransferBookingRequest struct {
	ServiceType string       `json:"service_type" binding:"required"`
	Name        string       `json:"name" binding:"required"`
	Email       string       `json:"email" binding:"required"`
	Phone       string       `json:"phone"`
	Passengers  int          `json:"passengers" binding:"required"`
	Arrival     FlightLegDTO `json:"arrival"`
	Departure   FlightLegDTO `json:"departure"`
	Notes       string       `json:"notes"`
}

// UpdateBookingRequest holds partial admin edits to either booking variant.
// Zero-valued fields are left unchanged.
type UpdateBookingRequest struct {
	Name            string       `json:"name"`
	Email           string       `json:"email"`
	Phone           string       `json:"phone"`
	BookingDate     *time.Time   `json:"booking_date"`
	NumberOfPeople  int          `json:"number_of_people"`
	SpecialRequests string       `json:"special_requests"`
	Arrival         FlightLegDTO `json:"arrival"`
	Departure       FlightLegDTO `json:"departure"`
	Notes           string       `json:"notes"`
	Status          string       `json:"status"`
}

// TourBookingDetailsDTO holds the tour-specific part of a booking response.
type TourBookingDetailsDTO struct {
	TourID          *uuid.UUID `json:"tour_id,omitempty"`
	TourName        string     `json:"tour_name"`
	BookingDate     time.Time  `json:"booking_date"`
	NumberOfPeople  int        `json:"number_of_people"`
	SpecialRequests string     `json:"special_requests,omitempty"`
}

// TransferBookingDetailsDTO holds the transfer-specific part of a booking response.
type TransferBookingDetailsDTO struct {
	ServiceType string        `json:"service_type"`
	Passengers  int           `json:"passengers"`
	Arrival     *FlightLegDTO `json:"arrival,omitempty"`
	Departure   *FlightLegDTO `json:"departure,omitempty"`
	Notes       string        `json:"notes,omitempty"`
}

// BookingDTO is the response representation of either booking variant.
type BookingDTO struct {
	ID           uuid.UUID                  `json:"id"`
	LegacyID     int64                      `json:"legacy_id,omitempty"`
	Kind         string                     `json:"kind"`
	Name         string                     `json:"name"`
	Email        string                     `json:"email"`
	Phone        string                     `json:"phone,omitempty"`
	Status       string                     `json:"status"`
	TotalAmount  float64                    `json:"total_amount"`
	AssignmentID *uuid.UUID                 `json:"assignment_id,omitempty"`
	Tour         *TourBookingDetailsDTO     `json:"tour,omitempty"`
	Transfer     *TransferBookingDetailsDTO `json:"transfer,omitempty"`
	Version      int64                      `json:"version"`
	CreatedAt    time.Time                  `json:"created_at"`
	UpdatedAt    time.Time                  `json:"updated_at"`
}

// BookingListItemDTO is one row of the merged admin booking list.
type BookingListItemDTO struct {
	Key           string    `json:"key"`
	Kind          string    `json:"kind"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	CustomerPhone string    `json:"customer_phone,omitempty"`
	Status        string    `json:"status"`
	TotalAmount   float64   `json:"total_amount"`
	Summary       string    `json:"summary"`
	TravelDate    time.Time `json:"travel_date"`
	CreatedAt     time.Time `json:"created_at"`
}

// BookingStatsDTO holds booking statistics for the admin dashboard.
type BookingStatsDTO struct {
	TotalBookings int64            `json:"total_bookings"`
	Tours         map[string]int64 `json:"tours"`
	Transfers     map[string]int64 `json:"transfers"`
}

// BookingService orchestrates booking use cases for both variants.
type BookingService struct {
	tourBookings     bookingDomain.TourBookingRepository
	transferBookings bookingDomain.TransferBookingRepository
	tours            tourDomain.TourRepository
	pricing          bookingDomain.PricingStrategy
	producer         *kafka.Producer
	logger           *zap.Logger
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	tourBookings bookingDomain.TourBookingRepository,
	transferBookings bookingDomain.TransferBookingRepository,
	tours tourDomain.TourRepository,
	pricing bookingDomain.PricingStrategy,
	producer *kafka.Producer,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		tourBookings:     tourBookings,
		transferBookings: transferBookings,
		tours:            tours,
		pricing:          pricing,
		producer:         producer,
		logger:           logger,
	}
}

// CreateTourBooking handles a public tour booking submission. The total is
// computed from the catalog unit price at this moment and never recomputed.
func (s *BookingService) CreateTourBooking(ctx context.Context, req CreateTourBookingRequest) (*BookingDTO, error) {
	tourID, err := uuid.Parse(req.TourID)
	if err != nil {
		return nil, domain.NewValidationError("tour_id", "tour id must be a valid UUID")
	}

	t, err := s.tours.FindByID(ctx, tourID)
	if err != nil {
		return nil, err
	}
	if !t.IsPublished() {
		return nil, domain.NewValidationError("tour_id", "tour is not open for booking")
	}
	if req.NumberOfPeople > t.MaxPeople() {
		return nil, domain.NewValidationError("number_of_people",
			fmt.Sprintf("this tour takes at most %d people", t.MaxPeople()))
	}

	total, err := s.pricing.TourPrice(t.UnitPrice(), req.NumberOfPeople)
	if err != nil {
		return nil, domain.NewValidationError("number_of_people", err.Error())
	}

	bk, err := bookingDomain.NewTourBooking(
		t.ID(),
		t.Title(),
		bookingDomain.CustomerDetails{Name: req.Name, Email: req.Email, Phone: req.Phone},
		req.BookingDate,
		req.NumberOfPeople,
		req.SpecialRequests,
		total,
	)
	if err != nil {
		return nil, err
	}

	if err := s.tourBookings.Save(ctx, bk); err != nil {
		return nil, fmt.Errorf("failed to save tour booking: %w", err)
	}

	evt := schema.BookingReceivedEvent{
		BookingID:     bk.ID(),
		LegacyID:      bk.LegacyID(),
		BookingKind:   string(bookingDomain.KindTour),
		CustomerName:  bk.Customer().Name,
		CustomerEmail: bk.Customer().Email,
		Summary:       bk.TourName(),
		TravelDate:    bk.BookingDate(),
		TotalAmount:   bk.TotalAmount(),
		OccurredAt:    time.Now().UTC(),
	}
	s.publishEvent(ctx, schema.BookingReceived, bk.ID().String(), evt)

	result := toTourBookingDTO(bk)
	return &result, nil
}

// CreateTransferBooking handles a public airport transfer submission. The
// total is the flat per-vehicle rate for the service type.
func (s *BookingService) CreateTransferBooking(ctx context.Context, req CreateTransferBookingRequest) (*BookingDTO, error) {
	serviceType := bookingDomain.ServiceType(req.ServiceType)

	total, err := s.pricing.TransferPrice(serviceType)
	if err != nil {
		return nil, domain.NewValidationError("service_type", "service type must be pickup, dropoff, or both")
	}

	bk, err := bookingDomain.NewAirportTransferBooking(
		serviceType,
		bookingDomain.CustomerDetails{Name: req.Name, Email: req.Email, Phone: req.Phone},
		req.Passengers,
		toFlightLeg(req.Arrival),
		toFlightLeg(req.Departure),
		req.Notes,
		total,
	)
	if err != nil {
		return nil, err
	}

	if err := s.transferBookings.Save(ctx, bk); err != nil {
		return nil, fmt.Errorf("failed to save transfer booking: %w", err)
	}

	travel := bk.Arrival().Date
	if travel.IsZero() {
		travel = bk.Departure().Date
	}
	evt := schema.BookingReceivedEvent{
		BookingID:     bk.ID(),
		BookingKind:   string(bookingDomain.KindAirport),
		CustomerName:  bk.Customer().Name,
		CustomerEmail: bk.Customer().Email,
		Summary:       "Airport transfer (" + string(bk.ServiceType()) + ")",
		TravelDate:    travel,
		TotalAmount:   bk.TotalAmount(),
		OccurredAt:    time.Now().UTC(),
	}
	s.publishEvent(ctx, schema.BookingReceived, bk.ID().String(), evt)

	result := toTransferBookingDTO(bk)
	return &result, nil
}

// GetBooking retrieves either booking variant by reference. Tour bookings are
// tried first because only they answer to legacy serial numbers.
func (s *BookingService) GetBooking(ctx context.Context, ref bookingDomain.Ref) (*BookingDTO, error) {
	tb, transfer, err := s.resolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	if tb != nil {
		result := toTourBookingDTO(tb)
		return &result, nil
	}
	result := toTransferBookingDTO(transfer)
	return &result, nil
}

// UpdateBooking applies partial admin edits to either booking variant,
// including the generic status edit. Totals are never recomputed.
func (s *BookingService) UpdateBooking(ctx context.Context, ref bookingDomain.Ref, req UpdateBookingRequest) (*BookingDTO, error) {
	tb, transfer, err := s.resolve(ctx, ref)
	if err != nil {
		return nil, err
	}

	customer := bookingDomain.CustomerDetails{Name: req.Name, Email: req.Email, Phone: req.Phone}

	if tb != nil {
		var date time.Time
		if req.BookingDate != nil {
			date = *req.BookingDate
		}
		if err := tb.UpdateDetails(customer, date, req.NumberOfPeople, req.SpecialRequests); err != nil {
			return nil, err
		}
		if req.Status != "" {
			status, err := bookingDomain.ParseStatus(req.Status)
			if err != nil {
				return nil, domain.NewValidationError("status", err.Error())
			}
			if err := tb.ChangeStatus(status); err != nil {
				return nil, err
			}
		}
		tb.IncrementVersion()
		if err := s.tourBookings.Update(ctx, tb); err != nil {
			return nil, err
		}
		result := toTourBookingDTO(tb)
		return &result, nil
	}

	if err := transfer.UpdateDetails(customer, toFlightLeg(req.Arrival), toFlightLeg(req.Departure), req.Notes); err != nil {
		return nil, err
	}
	if req.Status != "" {
		status, err := bookingDomain.ParseStatus(req.Status)
		if err != nil {
			return nil, domain.NewValidationError("status", err.Error())
		}
		if err := transfer.ChangeStatus(status); err != nil {
			return nil, err
		}
	}
	transfer.IncrementVersion()
	if err := s.transferBookings.Update(ctx, transfer); err != nil {
		return nil, err
	}
	result := toTransferBookingDTO(transfer)
	return &result, nil
}

// ConfirmBooking applies the manual staff confirmation, bypassing driver
// assignment. Chat-bot confirm commands also land here.
func (s *BookingService) ConfirmBooking(ctx context.Context, ref bookingDomain.Ref) (*BookingDTO, error) {
	tb, transfer, err := s.resolve(ctx, ref)
	if err != nil {
		return nil, err
	}

	if tb != nil {
		if err := tb.ConfirmManually(); err != nil {
			return nil, err
		}
		tb.IncrementVersion()
		if err := s.tourBookings.Update(ctx, tb); err != nil {
			return nil, err
		}
		s.publishConfirmed(ctx, bookingDomain.KindTour, tb.ID(), tb.Customer(), nil)
		result := toTourBookingDTO(tb)
		return &result, nil
	}

	if err := transfer.ConfirmManually(); err != nil {
		return nil, err
	}
	transfer.IncrementVersion()
	if err := s.transferBookings.Update(ctx, transfer); err != nil {
		return nil, err
	}
	s.publishConfirmed(ctx, bookingDomain.KindAirport, transfer.ID(), transfer.Customer(), nil)
	result := toTransferBookingDTO(transfer)
	return &result, nil
}

// CancelBooking cancels either booking variant. Cancellation is terminal.
func (s *BookingService) CancelBooking(ctx context.Context, ref bookingDomain.Ref) (*BookingDTO, error) {
	tb, transfer, err := s.resolve(ctx, ref)
	if err != nil {
		return nil, err
	}

	if tb != nil {
		if err := tb.Cancel(); err != nil {
			return nil, err
		}
		tb.IncrementVersion()
		if err := s.tourBookings.Update(ctx, tb); err != nil {
			return nil, err
		}
		s.publishCancelled(ctx, bookingDomain.KindTour, tb.ID(), tb.Customer())
		result := toTourBookingDTO(tb)
		return &result, nil
	}

	if err := transfer.Cancel(); err != nil {
		return nil, err
	}
	transfer.IncrementVersion()
	if err := s.transferBookings.Update(ctx, transfer); err != nil {
		return nil, err
	}
	s.publishCancelled(ctx, bookingDomain.KindAirport, transfer.ID(), transfer.Customer())
	result := toTransferBookingDTO(transfer)
	return &result, nil
}

// DeleteBooking hard-removes either booking variant regardless of status.
func (s *BookingService) DeleteBooking(ctx context.Context, ref bookingDomain.Ref) error {
	err := s.tourBookings.Delete(ctx, ref)
	if err == nil {
		return nil
	}
	var notFound *domain.NotFoundError
	if !errors.As(err, &notFound) {
		return err
	}
	if _, ok := ref.UUID(); !ok {
		// Legacy serials only ever identified tour bookings.
		return err
	}
	return s.transferBookings.Delete(ctx, ref)
}

// ListBookings returns one page of the merged admin view across both booking
// collections, filtered and sorted newest first.
func (s *BookingService) ListBookings(ctx context.Context, filters bookingDomain.ListFilters, page, limit int) (*domain.PaginatedResult[BookingListItemDTO], error) {
	tours, err := s.tourBookings.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tour bookings: %w", err)
	}
	transfers, err := s.transferBookings.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list transfer bookings: %w", err)
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	offset := (page - 1) * limit

	var total int64
	items := make([]BookingListItemDTO, 0, limit)
	for d := range bookingDomain.MergeAndFilter(tours, transfers, filters) {
		if total >= int64(offset) && len(items) < limit {
			items = append(items, toListItemDTO(d))
		}
		total++
	}

	result := domain.NewPaginatedResult(items, total, page, limit)
	return &result, nil
}

// GetBookingStats returns per-status booking counts for the admin dashboard.
func (s *BookingService) GetBookingStats(ctx context.Context) (*BookingStatsDTO, error) {
	tourCounts, err := s.tourBookings.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count tour bookings: %w", err)
	}
	transferCounts, err := s.transferBookings.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count transfer bookings: %w", err)
	}

	var total int64
	for _, c := range tourCounts {
		total += c
	}
	for _, c := range transferCounts {
		total += c
	}

	return &BookingStatsDTO{
		TotalBookings: total,
		Tours:         tourCounts,
		Transfers:     transferCounts,
	}, nil
}

func (s *BookingService) resolve(ctx context.Context, ref bookingDomain.Ref) (*bookingDomain.TourBooking, *bookingDomain.AirportTransferBooking, error) {
	return resolveBooking(ctx, s.tourBookings, s.transferBookings, ref)
}

// resolveBooking finds which collection a reference belongs to. Tour bookings
// are checked first because only they answer to legacy serial numbers.
// Exactly one of the returned aggregates is non-nil on success.
func resolveBooking(
	ctx context.Context,
	tourBookings bookingDomain.TourBookingRepository,
	transferBookings bookingDomain.TransferBookingRepository,
	ref bookingDomain.Ref,
) (*bookingDomain.TourBooking, *bookingDomain.AirportTransferBooking, error) {
	if ref.IsZero() {
		return nil, nil, domain.NewValidationError("ref", "booking reference is required")
	}

	tb, err := tourBookings.FindByRef(ctx, ref)
	if err == nil {
		return tb, nil, nil
	}
	var notFound *domain.NotFoundError
	if !errors.As(err, &notFound) {
		return nil, nil, err
	}
	if _, ok := ref.UUID(); !ok {
		return nil, nil, err
	}

	transfer, err := transferBookings.FindByRef(ctx, ref)
	if err != nil {
		return nil, nil, err
	}
	return nil, transfer, nil
}

// --- Event helpers ---

func (s *BookingService) publishConfirmed(ctx context.Context, kind bookingDomain.Kind, id uuid.UUID, customer bookingDomain.CustomerDetails, assignmentID *uuid.UUID) {
	evt := schema.BookingConfirmedEvent{
		BookingID:     id,
		BookingKind:   string(kind),
		CustomerName:  customer.Name,
		CustomerEmail: customer.Email,
		AssignmentID:  assignmentID,
		OccurredAt:    time.Now().UTC(),
	}
	s.publishEvent(ctx, schema.BookingConfirmed, id.String(), evt)
}

func (s *BookingService) publishCancelled(ctx context.Context, kind bookingDomain.Kind, id uuid.UUID, customer bookingDomain.CustomerDetails) {
	evt := schema.BookingCancelledEvent{
		BookingID:     id,
		BookingKind:   string(kind),
		CustomerName:  customer.Name,
		CustomerEmail: customer.Email,
		OccurredAt:    time.Now().UTC(),
	}
	s.publishEvent(ctx, schema.BookingCancelled, id.String(), evt)
}

func (s *BookingService) publishEvent(ctx context.Context, eventType, key string, data interface{}) {
	if s.producer == nil {
		return
	}
	cloudEvent, err := kafka.NewCloudEvent("service-booking", eventType, data)
	if err != nil {
		s.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}
	if err := s.producer.PublishEventKeyed(ctx, schema.TopicBookingEvents, key, cloudEvent); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("topic", schema.TopicBookingEvents),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}

// --- DTO helpers ---

func toFlightLeg(d FlightLegDTO) bookingDomain.FlightLeg {
	return bookingDomain.FlightLeg{
		FlightNumber: d.FlightNumber,
		Date:         d.Date,
		Time:         d.Time,
		Location:     d.Location,
	}
}

func toFlightLegDTO(l bookingDomain.FlightLeg) *FlightLegDTO {
	if l.FlightNumber == "" && l.Date.IsZero() {
		return nil
	}
	return &FlightLegDTO{
		FlightNumber: l.FlightNumber,
		Date:         l.Date,
		Time:         l.Time,
		Location:     l.Location,
	}
}

func toTourBookingDTO(bk *bookingDomain.TourBooking) BookingDTO {
	return BookingDTO{
		ID:           bk.ID(),
		LegacyID:     bk.LegacyID(),
		Kind:         string(bookingDomain.KindTour),
		Name:         bk.Customer().Name,
		Email:        bk.Customer().Email,
		Phone:        bk.Customer().Phone,
		Status:       string(bk.Status()),
		TotalAmount:  bk.TotalAmount(),
		AssignmentID: bk.AssignmentID(),
		Tour: &TourBookingDetailsDTO{
			TourID:          bk.TourID(),
			TourName:        bk.TourName(),
			BookingDate:     bk.BookingDate(),
			NumberOfPeople:  bk.NumberOfPeople(),
			SpecialRequests: bk.SpecialRequests(),
		},
		Version:   bk.Version(),
		CreatedAt: bk.CreatedAt(),
		UpdatedAt: bk.UpdatedAt(),
	}
}

func toTransferBookingDTO(bk *bookingDomain.AirportTransferBooking) BookingDTO {
	return BookingDTO{
		ID:           bk.ID(),
		Kind:         string(bookingDomain.KindAirport),
		Name:         bk.Customer().Name,
		Email:        bk.Customer().Email,
		Phone:        bk.Customer().Phone,
		Status:       string(bk.Status()),
		TotalAmount:  bk.TotalAmount(),
		AssignmentID: bk.AssignmentID(),
		Transfer: &TransferBookingDetailsDTO{
			ServiceType: string(bk.ServiceType()),
			Passengers:  bk.Passengers(),
			Arrival:     toFlightLegDTO(bk.Arrival()),
			Departure:   toFlightLegDTO(bk.Departure()),
			Notes:       bk.Notes(),
		},
		Version:   bk.Version(),
		CreatedAt: bk.CreatedAt(),
		UpdatedAt: bk.UpdatedAt(),
	}
}

func toListItemDTO(d bookingDomain.DisplayBooking) BookingListItemDTO {
	return BookingListItemDTO{
		Key:           d.Key,
		Kind:          string(d.Kind),
		CustomerName:  d.CustomerName,
		CustomerEmail: d.CustomerEmail,
		CustomerPhone: d.CustomerPhone,
		Status:        string(d.Status),
		TotalAmount:   d.TotalAmount,
		Summary:       d.Summary,
		TravelDate:    d.TravelDate,
		CreatedAt:     d.CreatedAt,
	}
}
