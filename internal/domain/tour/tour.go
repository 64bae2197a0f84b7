package tour

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TourStatus represents the publication state of a catalog entry.
type TourStatus string

const (
	TourPublished TourStatus = "published"
	TourArchived  TourStatus = "archived"
)

// Tour is the aggregate root for a catalog entry on the public site. Its
// unit price feeds the booking pricing rules at creation time.
type Tour struct {
	id          uuid.UUID
	title       string
	slug        string
	description string
	location    string
	durationHrs int
	unitPrice   float64
	maxPeople   int
	imageURL    string
	status      TourStatus
	version     int64
	createdAt   time.Time
	updatedAt   time.Time
}

// NewTour creates a published catalog entry with validated fields.
func NewTour(title, slug, description, location string, durationHrs int, unitPrice float64, maxPeople int, imageURL string) (*Tour, error) {
	if title == "" {
		return nil, fmt.Errorf("tour title is required")
	}
	if slug == "" {
		return nil, fmt.Errorf("tour slug is required")
	}
	if unitPrice <= 0 {
		return nil, fmt.Errorf("tour price must be positive")
	}
	if maxPeople <= 0 {
		maxPeople = 20
	}

	now := time.Now().UTC()
	return &Tour{
		id:          uuid.New(),
		title:       title,
		slug:        slug,
		description: description,
		location:    location,
		durationHrs: durationHrs,
		unitPrice:   unitPrice,
		maxPeople:   maxPeople,
		imageURL:    imageURL,
		status:      TourPublished,
		version:     1,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// Reconstruct rebuilds a Tour from persistence data (no validation).
func Reconstruct(
	id uuid.UUID,
	title, slug, description, location string,
	durationHrs int,
	unitPrice float64,
	maxPeople int,
	imageURL string,
	status TourStatus,
	version int64,
	createdAt, updatedAt time.Time,
) *Tour {
	return &Tour{
		id:          id,
		title:       title,
		slug:        slug,
		description: description,
		location:    location,
		durationHrs: durationHrs,
		unitPrice:   unitPrice,
		maxPeople:   maxPeople,
		imageURL:    imageURL,
		status:      status,
		version:     version,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// --- Getters ---

func (t *Tour) ID() uuid.UUID        { return t.id }
func (t *Tour) Title() string        { return t.title }
func (t *Tour) Slug() string         { return t.slug }
func (t *Tour) Description() string  { return t.description }
func (t *Tour) Location() string     { return t.location }
func (t *Tour) DurationHrs() int     { return t.durationHrs }
func (t *Tour) UnitPrice() float64   { return t.unitPrice }
func (t *Tour) MaxPeople() int       { return t.maxPeople }
func (t *Tour) ImageURL() string     { return t.imageURL }
func (t *Tour) Status() TourStatus   { return t.status }
func (t *Tour) Version() int64       { return t.version }
func (t *Tour) CreatedAt() time.Time { return t.createdAt }
func (t *Tour) UpdatedAt() time.Time { return t.updatedAt }

// IsPublished returns true if the tour is bookable on the public site.
func (t *Tour) IsPublished() bool {
	return t.status == TourPublished
}

// --- Behavior ---

// Update applies partial edits to the catalog entry. Changing the unit price
// never touches existing bookings; their totals were fixed at creation.
func (t *Tour) Update(title, description, location string, durationHrs int, unitPrice float64, maxPeople int, imageURL string) {
	if title != "" {
		t.title = title
	}
	if description != "" {
		t.description = description
	}
	if location != "" {
		t.location = location
	}
	if durationHrs > 0 {
		t.durationHrs = durationHrs
	}
	if unitPrice > 0 {
		t.unitPrice = unitPrice
	}
	if maxPeople > 0 {
		t.maxPeople = maxPeople
	}
	if imageURL != "" {
		t.imageURL = imageURL
	}
	t.version++
	t.updatedAt = time.Now().UTC()
}

// Archive removes the tour from the public catalog without deleting it.
func (t *Tour) Archive() {
	t.status = TourArchived
	t.version++
	t.updatedAt = time.Now().UTC()
}
