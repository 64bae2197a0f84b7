package application

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/mystic-tours/service-booking/internal/domain"
	bookingDomain "github.com/mystic-tours/service-booking/internal/domain/booking"
	driverDomain "github.com/mystic-tours/service-booking/internal/domain/driver"
	tourDomain "github.com/mystic-tours/service-booking/internal/domain/tour"
)

// In-memory repository fakes. They mirror the storage contracts closely
// enough to exercise the services, including legacy serial backfill and
// the transactional assign-and-confirm unit.

type fakeTourBookingRepo struct {
	mu         sync.Mutex
	byID       map[uuid.UUID]*bookingDomain.TourBooking
	nextLegacy int64
}

func newFakeTourBookingRepo() *fakeTourBookingRepo {
	return &fakeTourBookingRepo{byID: make(map[uuid.UUID]*bookingDomain.TourBooking), nextLegacy: 1000}
}

func (r *fakeTourBookingRepo) FindByRef(_ context.Context, ref bookingDomain.Ref) (*bookingDomain.TourBooking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := ref.UUID(); ok {
		if b, ok := r.byID[id]; ok {
			return b, nil
		}
		return nil, domain.NewNotFoundError("Booking", ref.String())
	}
	if legacy, ok := ref.Legacy(); ok {
		for _, b := range r.byID {
			if b.LegacyID() == legacy {
				return b, nil
			}
		}
	}
	return nil, domain.NewNotFoundError("Booking", ref.String())
}

func (r *fakeTourBookingRepo) ListAll(_ context.Context) ([]*bookingDomain.TourBooking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*bookingDomain.TourBooking, 0, len(r.byID))
	for _, b := range r.byID {
		out = append(out, b)
	}
	return out, nil
}

func (r *fakeTourBookingRepo) CountByStatus(_ context.Context) (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[string]int64)
	for _, b := range r.byID {
		counts[string(b.Status())]++
	}
	return counts, nil
}

func (r *fakeTourBookingRepo) Save(_ context.Context, b *bookingDomain.TourBooking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextLegacy++
	b.AssignLegacyID(r.nextLegacy)
	r.byID[b.ID()] = b
	return nil
}

func (r *fakeTourBookingRepo) Update(_ context.Context, b *bookingDomain.TourBooking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[b.ID()]; !ok {
		return domain.NewNotFoundError("Booking", b.ID().String())
	}
	r.byID[b.ID()] = b
	return nil
}

func (r *fakeTourBookingRepo) Delete(_ context.Context, ref bookingDomain.Ref) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := ref.UUID(); ok {
		if _, exists := r.byID[id]; exists {
			delete(r.byID, id)
			return nil
		}
	} else if legacy, ok := ref.Legacy(); ok {
		for id, b := range r.byID {
			if b.LegacyID() == legacy {
				delete(r.byID, id)
				return nil
			}
		}
	}
	return domain.NewNotFoundError("Booking", ref.String())
}

type fakeTransferBookingRepo struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*bookingDomain.AirportTransferBooking
}

func newFakeTransferBookingRepo() *fakeTransferBookingRepo {
	return &fakeTransferBookingRepo{byID: make(map[uuid.UUID]*bookingDomain.AirportTransferBooking)}
}

func (r *fakeTransferBookingRepo) FindByRef(_ context.Context, ref bookingDomain.Ref) (*bookingDomain.AirportTransferBooking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := ref.UUID(); ok {
		if b, ok := r.byID[id]; ok {
			return b, nil
		}
	}
	return nil, domain.NewNotFoundError("Booking", ref.String())
}

func (r *fakeTransferBookingRepo) ListAll(_ context.Context) ([]*bookingDomain.AirportTransferBooking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*bookingDomain.AirportTransferBooking, 0, len(r.byID))
	for _, b := range r.byID {
		out = append(out, b)
	}
	return out, nil
}

func (r *fakeTransferBookingRepo) CountByStatus(_ context.Context) (map[string]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[string]int64)
	for _, b := range r.byID {
		counts[string(b.Status())]++
	}
	return counts, nil
}

func (r *fakeTransferBookingRepo) Save(_ context.Context, b *bookingDomain.AirportTransferBooking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[b.ID()] = b
	return nil
}

func (r *fakeTransferBookingRepo) Update(_ context.Context, b *bookingDomain.AirportTransferBooking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[b.ID()]; !ok {
		return domain.NewNotFoundError("Booking", b.ID().String())
	}
	r.byID[b.ID()] = b
	return nil
}

func (r *fakeTransferBookingRepo) Delete(_ context.Context, ref bookingDomain.Ref) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := ref.UUID(); ok {
		if _, exists := r.byID[id]; exists {
			delete(r.byID, id)
			return nil
		}
	}
	return domain.NewNotFoundError("Booking", ref.String())
}

type fakeDriverRepo struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*driverDomain.Driver
}

func newFakeDriverRepo() *fakeDriverRepo {
	return &fakeDriverRepo{byID: make(map[uuid.UUID]*driverDomain.Driver)}
}

func (r *fakeDriverRepo) FindByID(_ context.Context, id uuid.UUID) (*driverDomain.Driver, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.byID[id]; ok {
		return d, nil
	}
	return nil, domain.NewNotFoundError("Driver", id.String())
}

func (r *fakeDriverRepo) ListAll(_ context.Context) ([]*driverDomain.Driver, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*driverDomain.Driver, 0, len(r.byID))
	for _, d := range r.byID {
		out = append(out, d)
	}
	return out, nil
}

func (r *fakeDriverRepo) Save(_ context.Context, d *driverDomain.Driver) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[d.ID()] = d
	return nil
}

func (r *fakeDriverRepo) Update(_ context.Context, d *driverDomain.Driver) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[d.ID()]; !ok {
		return domain.NewNotFoundError("Driver", d.ID().String())
	}
	r.byID[d.ID()] = d
	return nil
}

func (r *fakeDriverRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return domain.NewNotFoundError("Driver", id.String())
	}
	delete(r.byID, id)
	return nil
}

// fakeAssignmentRepo reproduces the transactional contract: the insert and
// the booking status flip either both happen or neither does, and a second
// active assignment for the same booking is a conflict.
type fakeAssignmentRepo struct {
	mu        sync.Mutex
	byID      map[uuid.UUID]*driverDomain.Assignment
	tours     *fakeTourBookingRepo
	transfers *fakeTransferBookingRepo
}

func newFakeAssignmentRepo(tours *fakeTourBookingRepo, transfers *fakeTransferBookingRepo) *fakeAssignmentRepo {
	return &fakeAssignmentRepo{
		byID:      make(map[uuid.UUID]*driverDomain.Assignment),
		tours:     tours,
		transfers: transfers,
	}
}

func (r *fakeAssignmentRepo) FindByID(_ context.Context, id uuid.UUID) (*driverDomain.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.byID[id]; ok {
		return a, nil
	}
	return nil, domain.NewNotFoundError("Assignment", id.String())
}

func (r *fakeAssignmentRepo) FindActiveByBookingID(_ context.Context, bookingID uuid.UUID) (*driverDomain.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.byID {
		if a.BookingID() == bookingID && a.IsActive() {
			return a, nil
		}
	}
	return nil, domain.NewNotFoundError("Assignment", bookingID.String())
}

func (r *fakeAssignmentRepo) ListAll(_ context.Context) ([]*driverDomain.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*driverDomain.Assignment, 0, len(r.byID))
	for _, a := range r.byID {
		out = append(out, a)
	}
	return out, nil
}

func (r *fakeAssignmentRepo) CreateWithConfirmation(ctx context.Context, a *driverDomain.Assignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.BookingID() == a.BookingID() && existing.IsActive() {
			return domain.NewConflictError("booking already has an active driver assignment")
		}
	}

	ref := bookingDomain.NewRef(a.BookingID())
	switch a.BookingKind() {
	case bookingDomain.KindTour:
		b, err := r.tours.FindByRef(ctx, ref)
		if err != nil {
			return err
		}
		if b.Status() != bookingDomain.StatusPending {
			return domain.NewInvalidStateError(string(b.Status()), string(bookingDomain.StatusConfirmed))
		}
		if err := b.Confirm(a.ID()); err != nil {
			return err
		}
	case bookingDomain.KindAirport:
		b, err := r.transfers.FindByRef(ctx, ref)
		if err != nil {
			return err
		}
		if b.Status() != bookingDomain.StatusPending {
			return domain.NewInvalidStateError(string(b.Status()), string(bookingDomain.StatusConfirmed))
		}
		if err := b.Confirm(a.ID()); err != nil {
			return err
		}
	default:
		return domain.NewNotFoundError("Booking", a.BookingID().String())
	}

	r.byID[a.ID()] = a
	return nil
}

func (r *fakeAssignmentRepo) Update(_ context.Context, a *driverDomain.Assignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[a.ID()]; !ok {
		return domain.NewNotFoundError("Assignment", a.ID().String())
	}
	r.byID[a.ID()] = a
	return nil
}

type fakeTourRepo struct {
	mu     sync.Mutex
	byID   map[uuid.UUID]*tourDomain.Tour
	bySlug map[string]uuid.UUID
}

func newFakeTourRepo() *fakeTourRepo {
	return &fakeTourRepo{byID: make(map[uuid.UUID]*tourDomain.Tour), bySlug: make(map[string]uuid.UUID)}
}

func (r *fakeTourRepo) FindByID(_ context.Context, id uuid.UUID) (*tourDomain.Tour, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.byID[id]; ok {
		return t, nil
	}
	return nil, domain.NewNotFoundError("Tour", id.String())
}

func (r *fakeTourRepo) FindBySlug(_ context.Context, slug string) (*tourDomain.Tour, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.bySlug[slug]; ok {
		return r.byID[id], nil
	}
	return nil, domain.NewNotFoundError("Tour", slug)
}

func (r *fakeTourRepo) ListPublished(_ context.Context) ([]*tourDomain.Tour, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*tourDomain.Tour
	for _, t := range r.byID {
		if t.IsPublished() {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeTourRepo) ListAll(_ context.Context) ([]*tourDomain.Tour, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*tourDomain.Tour, 0, len(r.byID))
	for _, t := range r.byID {
		out = append(out, t)
	}
	return out, nil
}

func (r *fakeTourRepo) Save(_ context.Context, t *tourDomain.Tour) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[t.ID()] = t
	r.bySlug[t.Slug()] = t.ID()
	return nil
}

func (r *fakeTourRepo) Update(_ context.Context, t *tourDomain.Tour) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[t.ID()]; !ok {
		return domain.NewNotFoundError("Tour", t.ID().String())
	}
	r.byID[t.ID()] = t
	return nil
}

func (r *fakeTourRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byID[id]
	if !ok {
		return domain.NewNotFoundError("Tour", id.String())
	}
	delete(r.bySlug, t.Slug())
	delete(r.byID, id)
	return nil
}
