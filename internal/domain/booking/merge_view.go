package booking

import (
	"iter"
	"sort"
	"strings"
	"time"
)

// Kind tags entries in the merged admin view with their booking variant.
type Kind string

const (
	KindTour    Kind = "tour"
	KindAirport Kind = "airport"
)

// FilterAll matches every kind or status in ListFilters.
const FilterAll = "all"

// DisplayBooking is the flattened, tagged representation of either booking
// variant for the admin booking list.
type DisplayBooking struct {
	Ref           Ref       `json:"-"`
	Key           string    `json:"key"`
	Kind          Kind      `json:"kind"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	CustomerPhone string    `json:"customer_phone,omitempty"`
	Status        Status    `json:"status"`
	TotalAmount   float64   `json:"total_amount"`
	Summary       string    `json:"summary"`
	TravelDate    time.Time `json:"travel_date"`
	CreatedAt     time.Time `json:"created_at"`
}

// ListFilters narrows the merged view. Zero values and "all" match everything.
type ListFilters struct {
	Search string
	Kind   string
	Status string
}

// MergeAndFilter combines tour and transfer bookings into one view sorted by
// creation time, newest first, with ties kept in input order. The returned
// sequence is lazy and restartable: filtering runs per iteration, never
// mutates the inputs, and ranging over it twice yields the same entries.
func MergeAndFilter(tours []*TourBooking, transfers []*AirportTransferBooking, filters ListFilters) iter.Seq[DisplayBooking] {
	merged := make([]DisplayBooking, 0, len(tours)+len(transfers))
	for _, b := range tours {
		merged = append(merged, displayTour(b))
	}
	for _, b := range transfers {
		merged = append(merged, displayTransfer(b))
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CreatedAt.After(merged[j].CreatedAt)
	})

	return func(yield func(DisplayBooking) bool) {
		for _, d := range merged {
			if !filters.matches(d) {
				continue
			}
			if !yield(d) {
				return
			}
		}
	}
}

func (f ListFilters) matches(d DisplayBooking) bool {
	if f.Kind != "" && f.Kind != FilterAll && Kind(f.Kind) != d.Kind {
		return false
	}
	if f.Status != "" && f.Status != FilterAll && Status(f.Status) != d.Status {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(d.CustomerName), needle) &&
			!strings.Contains(strings.ToLower(d.CustomerEmail), needle) &&
			!strings.Contains(strings.ToLower(d.CustomerPhone), needle) {
			return false
		}
	}
	return true
}

func displayTour(b *TourBooking) DisplayBooking {
	ref := b.Ref()
	summary := b.TourName()
	if summary == "" {
		summary = "Tour (removed from catalog)"
	}
	return DisplayBooking{
		Ref:           ref,
		Key:           ref.Key(),
		Kind:          KindTour,
		CustomerName:  b.Customer().Name,
		CustomerEmail: b.Customer().Email,
		CustomerPhone: b.Customer().Phone,
		Status:        b.Status(),
		TotalAmount:   b.TotalAmount(),
		Summary:       summary,
		TravelDate:    b.BookingDate(),
		CreatedAt:     b.CreatedAt(),
	}
}

func displayTransfer(b *AirportTransferBooking) DisplayBooking {
	ref := b.Ref()
	travel := b.Arrival().Date
	if travel.IsZero() {
		travel = b.Departure().Date
	}
	return DisplayBooking{
		Ref:           ref,
		Key:           ref.Key(),
		Kind:          KindAirport,
		CustomerName:  b.Customer().Name,
		CustomerEmail: b.Customer().Email,
		CustomerPhone: b.Customer().Phone,
		Status:        b.Status(),
		TotalAmount:   b.TotalAmount(),
		Summary:       "Airport transfer (" + string(b.ServiceType()) + ")",
		TravelDate:    travel,
		CreatedAt:     b.CreatedAt(),
	}
}
