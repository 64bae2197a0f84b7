package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	tourDomain "github.com/mystic-tours/service-booking/internal/domain/tour"
	"go.uber.org/zap"
)

// CreateTourRequest holds the data for publishing a catalog entry.
type CreateTourRequest struct {
	Title       string  `json:"title" binding:"required"`
	Slug        string  `json:"slug" binding:"required"`
	Description string  `json:"description"`
	Location    string  `json:"location"`
	DurationHrs int     `json:"duration_hrs"`
	UnitPrice   float64 `json:"unit_price" binding:"required"`
	MaxPeople   int     `json:"max_people"`
	ImageURL    string  `json:"image_url"`
}

// UpdateTourRequest holds partial edits to a catalog entry.
type UpdateTourRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Location    string  `json:"location"`
	DurationHrs int     `json:"duration_hrs"`
	UnitPrice   float64 `json:"unit_price"`
	MaxPeople   int     `json:"max_people"`
	ImageURL    string  `json:"image_url"`
}

// TourDTO is the response representation of a catalog entry.
type TourDTO struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	DurationHrs int       `json:"duration_hrs"`
	UnitPrice   float64   `json:"unit_price"`
	MaxPeople   int       `json:"max_people"`
	ImageURL    string    `json:"image_url,omitempty"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TourService manages the public tour catalog.
type TourService struct {
	tours  tourDomain.TourRepository
	logger *zap.Logger
}

// NewTourService creates a new TourService.
func NewTourService(tours tourDomain.TourRepository, logger *zap.Logger) *TourService {
	return &TourService{tours: tours, logger: logger}
}

// CreateTour publishes a new catalog entry.
func (s *TourService) CreateTour(ctx context.Context, req CreateTourRequest) (*TourDTO, error) {
	t, err := tourDomain.NewTour(req.Title, req.Slug, req.Description, req.Location, req.DurationHrs, req.UnitPrice, req.MaxPeople, req.ImageURL)
	if err != nil {
		return nil, err
	}
	if err := s.tours.Save(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to save tour: %w", err)
	}
	result := toTourDTO(t)
	return &result, nil
}

// GetTour retrieves a catalog entry by id.
func (s *TourService) GetTour(ctx context.Context, id uuid.UUID) (*TourDTO, error) {
	t, err := s.tours.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	result := toTourDTO(t)
	return &result, nil
}

// GetTourBySlug retrieves a catalog entry by its public URL slug.
func (s *TourService) GetTourBySlug(ctx context.Context, slug string) (*TourDTO, error) {
	t, err := s.tours.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	result := toTourDTO(t)
	return &result, nil
}

// ListPublishedTours returns the public catalog.
func (s *TourService) ListPublishedTours(ctx context.Context) ([]TourDTO, error) {
	tours, err := s.tours.ListPublished(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list published tours: %w", err)
	}
	return toTourDTOs(tours), nil
}

// ListAllTours returns every catalog entry including archived ones (admin).
func (s *TourService) ListAllTours(ctx context.Context) ([]TourDTO, error) {
	tours, err := s.tours.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tours: %w", err)
	}
	return toTourDTOs(tours), nil
}

// UpdateTour applies partial edits to a catalog entry. Price changes never
// touch existing bookings.
func (s *TourService) UpdateTour(ctx context.Context, id uuid.UUID, req UpdateTourRequest) (*TourDTO, error) {
	t, err := s.tours.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	t.Update(req.Title, req.Description, req.Location, req.DurationHrs, req.UnitPrice, req.MaxPeople, req.ImageURL)
	if err := s.tours.Update(ctx, t); err != nil {
		return nil, err
	}
	result := toTourDTO(t)
	return &result, nil
}

// ArchiveTour removes a catalog entry from the public site without deleting
// it, keeping booking references intact.
func (s *TourService) ArchiveTour(ctx context.Context, id uuid.UUID) (*TourDTO, error) {
	t, err := s.tours.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	t.Archive()
	if err := s.tours.Update(ctx, t); err != nil {
		return nil, err
	}
	result := toTourDTO(t)
	return &result, nil
}

// DeleteTour removes a catalog entry. The storage layer detaches any
// bookings that still reference it; their captured tour name and total
// survive the deletion.
func (s *TourService) DeleteTour(ctx context.Context, id uuid.UUID) error {
	return s.tours.Delete(ctx, id)
}

func toTourDTO(t *tourDomain.Tour) TourDTO {
	return TourDTO{
		ID:          t.ID(),
		Title:       t.Title(),
		Slug:        t.Slug(),
		Description: t.Description(),
		Location:    t.Location(),
		DurationHrs: t.DurationHrs(),
		UnitPrice:   t.UnitPrice(),
		MaxPeople:   t.MaxPeople(),
		ImageURL:    t.ImageURL(),
		Status:      string(t.Status()),
		CreatedAt:   t.CreatedAt(),
		UpdatedAt:   t.UpdatedAt(),
	}
}

func toTourDTOs(tours []*tourDomain.Tour) []TourDTO {
	dtos := make([]TourDTO, len(tours))
	for i, t := range tours {
		dtos[i] = toTourDTO(t)
	}
	return dtos
}
