package application

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mystic-tours/service-booking/internal/domain"
	bookingDomain "github.com/mystic-tours/service-booking/internal/domain/booking"
	tourDomain "github.com/mystic-tours/service-booking/internal/domain/tour"
)

type bookingFixture struct {
	service   *BookingService
	tours     *fakeTourRepo
	tourBkgs  *fakeTourBookingRepo
	transfers *fakeTransferBookingRepo
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()
	tours := newFakeTourRepo()
	tourBkgs := newFakeTourBookingRepo()
	transfers := newFakeTransferBookingRepo()
	service := NewBookingService(
		tourBkgs,
		transfers,
		tours,
		bookingDomain.NewStandardPricingStrategy(),
		nil,
		zap.NewNop(),
	)
	return &bookingFixture{service: service, tours: tours, tourBkgs: tourBkgs, transfers: transfers}
}

func (f *bookingFixture) seedTour(t *testing.T, unitPrice float64, maxPeople int) *tourDomain.Tour {
	t.Helper()
	tr, err := tourDomain.NewTour("Blue Mountains Hike", "blue-mountains-hike", "A full day hike.", "Blue Mountains", 8, unitPrice, maxPeople, "")
	require.NoError(t, err)
	require.NoError(t, f.tours.Save(context.Background(), tr))
	return tr
}

func tourRequest(tourID uuid.UUID, people int) CreateTourBookingRequest {
	return CreateTourBookingRequest{
		TourID:         tourID.String(),
		Name:           "Marcus Brown",
		Email:          "marcus@example.com",
		Phone:          "+1 555 0101",
		BookingDate:    time.Now().UTC().AddDate(0, 0, 7),
		NumberOfPeople: people,
	}
}

func transferRequest(serviceType string) CreateTransferBookingRequest {
	return CreateTransferBookingRequest{
		ServiceType: serviceType,
		Name:        "Marcus Brown",
		Email:       "marcus@example.com",
		Passengers:  2,
		Arrival: FlightLegDTO{
			FlightNumber: "AA1510",
			Date:         time.Now().UTC().AddDate(0, 0, 7),
			Time:         "14:30",
			Location:     "Grand Hotel",
		},
		Departure: FlightLegDTO{
			FlightNumber: "AA1511",
			Date:         time.Now().UTC().AddDate(0, 0, 14),
			Time:         "09:15",
			Location:     "Grand Hotel",
		},
	}
}

func TestCreateTourBookingComputesTotal(t *testing.T) {
	f := newBookingFixture(t)
	tr := f.seedTour(t, 149.00, 20)

	dto, err := f.service.CreateTourBooking(context.Background(), tourRequest(tr.ID(), 2))
	require.NoError(t, err)

	assert.InDelta(t, 298.00, dto.TotalAmount, 0.001)
	assert.Equal(t, "pending", dto.Status)
	assert.Equal(t, string(bookingDomain.KindTour), dto.Kind)
	require.NotNil(t, dto.Tour)
	assert.Equal(t, "Blue Mountains Hike", dto.Tour.TourName)
	assert.NotZero(t, dto.LegacyID, "storage backfills the legacy serial on insert")
}

func TestCreateTourBookingRejectsArchivedTour(t *testing.T) {
	f := newBookingFixture(t)
	tr := f.seedTour(t, 149.00, 20)
	tr.Archive()
	require.NoError(t, f.tours.Update(context.Background(), tr))

	_, err := f.service.CreateTourBooking(context.Background(), tourRequest(tr.ID(), 2))

	var validationErr *domain.ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestCreateTourBookingRejectsUnknownTour(t *testing.T) {
	f := newBookingFixture(t)

	_, err := f.service.CreateTourBooking(context.Background(), tourRequest(uuid.New(), 2))

	var notFound *domain.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestCreateTourBookingRejectsPartyOverTourCapacity(t *testing.T) {
	f := newBookingFixture(t)
	tr := f.seedTour(t, 149.00, 8)

	_, err := f.service.CreateTourBooking(context.Background(), tourRequest(tr.ID(), 9))

	var validationErr *domain.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Fields, "number_of_people")
}

func TestCreateTransferBookingFlatRates(t *testing.T) {
	f := newBookingFixture(t)

	cases := []struct {
		serviceType string
		want        float64
	}{
		{"pickup", 75.00},
		{"dropoff", 75.00},
		{"both", 140.00},
	}
	for _, tc := range cases {
		t.Run(tc.serviceType, func(t *testing.T) {
			dto, err := f.service.CreateTransferBooking(context.Background(), transferRequest(tc.serviceType))
			require.NoError(t, err)
			assert.InDelta(t, tc.want, dto.TotalAmount, 0.001)
			assert.Equal(t, "pending", dto.Status)
			assert.Zero(t, dto.LegacyID, "transfer bookings never carry a legacy serial")
		})
	}
}

func TestCreateTransferBookingRejectsUnknownServiceType(t *testing.T) {
	f := newBookingFixture(t)

	_, err := f.service.CreateTransferBooking(context.Background(), transferRequest("shuttle"))

	var validationErr *domain.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Fields, "service_type")
}

func TestGetBookingResolvesLegacySerialToTourBooking(t *testing.T) {
	f := newBookingFixture(t)
	tr := f.seedTour(t, 100.00, 20)
	created, err := f.service.CreateTourBooking(context.Background(), tourRequest(tr.ID(), 3))
	require.NoError(t, err)

	ref, err := bookingDomain.ParseRef(strconv.FormatInt(created.LegacyID, 10))
	require.NoError(t, err)

	dto, err := f.service.GetBooking(context.Background(), ref)
	require.NoError(t, err)
	assert.Equal(t, created.ID, dto.ID)
	assert.Equal(t, string(bookingDomain.KindTour), dto.Kind)
}

func TestGetBookingResolvesUUIDToTransferBooking(t *testing.T) {
	f := newBookingFixture(t)
	created, err := f.service.CreateTransferBooking(context.Background(), transferRequest("pickup"))
	require.NoError(t, err)

	dto, err := f.service.GetBooking(context.Background(), bookingDomain.NewRef(created.ID))
	require.NoError(t, err)
	assert.Equal(t, created.ID, dto.ID)
	assert.Equal(t, string(bookingDomain.KindAirport), dto.Kind)
}

func TestGetBookingUnknownRef(t *testing.T) {
	f := newBookingFixture(t)

	_, err := f.service.GetBooking(context.Background(), bookingDomain.NewRef(uuid.New()))

	var notFound *domain.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestUpdateBookingRejectsConfirmViaStatusEdit(t *testing.T) {
	f := newBookingFixture(t)
	tr := f.seedTour(t, 100.00, 20)
	created, err := f.service.CreateTourBooking(context.Background(), tourRequest(tr.ID(), 2))
	require.NoError(t, err)

	_, err = f.service.UpdateBooking(context.Background(), bookingDomain.NewRef(created.ID), UpdateBookingRequest{Status: "confirmed"})

	var stateErr *domain.InvalidStateError
	require.ErrorAs(t, err, &stateErr, "pending to confirmed must go through confirmation, not the status edit")
}

func TestUpdateBookingKeepsTotalWhenPartyGrows(t *testing.T) {
	f := newBookingFixture(t)
	tr := f.seedTour(t, 149.00, 20)
	created, err := f.service.CreateTourBooking(context.Background(), tourRequest(tr.ID(), 2))
	require.NoError(t, err)

	dto, err := f.service.UpdateBooking(context.Background(), bookingDomain.NewRef(created.ID), UpdateBookingRequest{NumberOfPeople: 5})
	require.NoError(t, err)

	assert.Equal(t, 5, dto.Tour.NumberOfPeople)
	assert.InDelta(t, 298.00, dto.TotalAmount, 0.001, "edits never recompute the total")
	assert.Greater(t, dto.Version, created.Version)
}

func TestConfirmBookingManually(t *testing.T) {
	f := newBookingFixture(t)
	tr := f.seedTour(t, 100.00, 20)
	created, err := f.service.CreateTourBooking(context.Background(), tourRequest(tr.ID(), 2))
	require.NoError(t, err)

	dto, err := f.service.ConfirmBooking(context.Background(), bookingDomain.NewRef(created.ID))
	require.NoError(t, err)

	assert.Equal(t, "confirmed", dto.Status)
	assert.Nil(t, dto.AssignmentID, "manual confirmation attaches no assignment")
}

func TestCancelBookingIsTerminal(t *testing.T) {
	f := newBookingFixture(t)
	created, err := f.service.CreateTransferBooking(context.Background(), transferRequest("both"))
	require.NoError(t, err)

	ref := bookingDomain.NewRef(created.ID)
	dto, err := f.service.CancelBooking(context.Background(), ref)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", dto.Status)

	_, err = f.service.ConfirmBooking(context.Background(), ref)
	var stateErr *domain.InvalidStateError
	require.ErrorAs(t, err, &stateErr)
}

func TestDeleteBookingLegacyRefNeverReachesTransfers(t *testing.T) {
	f := newBookingFixture(t)

	ref, err := bookingDomain.ParseRef("424242")
	require.NoError(t, err)

	err = f.service.DeleteBooking(context.Background(), ref)

	var notFound *domain.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestDeleteBookingFallsBackToTransfers(t *testing.T) {
	f := newBookingFixture(t)
	created, err := f.service.CreateTransferBooking(context.Background(), transferRequest("pickup"))
	require.NoError(t, err)

	require.NoError(t, f.service.DeleteBooking(context.Background(), bookingDomain.NewRef(created.ID)))

	_, err = f.service.GetBooking(context.Background(), bookingDomain.NewRef(created.ID))
	var notFound *domain.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestListBookingsMergesAndPaginates(t *testing.T) {
	f := newBookingFixture(t)
	tr := f.seedTour(t, 100.00, 20)
	for i := 0; i < 3; i++ {
		_, err := f.service.CreateTourBooking(context.Background(), tourRequest(tr.ID(), 2))
		require.NoError(t, err)
	}
	for i := 0; i < 2; i++ {
		_, err := f.service.CreateTransferBooking(context.Background(), transferRequest("pickup"))
		require.NoError(t, err)
	}

	page1, err := f.service.ListBookings(context.Background(), bookingDomain.ListFilters{}, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(5), page1.Total)
	assert.Len(t, page1.Items, 3)

	page2, err := f.service.ListBookings(context.Background(), bookingDomain.ListFilters{}, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(5), page2.Total)
	assert.Len(t, page2.Items, 2)

	seen := make(map[string]bool)
	for _, item := range append(page1.Items, page2.Items...) {
		assert.False(t, seen[item.Key], "pages must not overlap")
		seen[item.Key] = true
	}
}

func TestListBookingsFiltersByKind(t *testing.T) {
	f := newBookingFixture(t)
	tr := f.seedTour(t, 100.00, 20)
	_, err := f.service.CreateTourBooking(context.Background(), tourRequest(tr.ID(), 2))
	require.NoError(t, err)
	_, err = f.service.CreateTransferBooking(context.Background(), transferRequest("pickup"))
	require.NoError(t, err)

	result, err := f.service.ListBookings(context.Background(), bookingDomain.ListFilters{Kind: string(bookingDomain.KindAirport)}, 1, 20)
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, string(bookingDomain.KindAirport), result.Items[0].Kind)
}

func TestGetBookingStats(t *testing.T) {
	f := newBookingFixture(t)
	tr := f.seedTour(t, 100.00, 20)
	created, err := f.service.CreateTourBooking(context.Background(), tourRequest(tr.ID(), 2))
	require.NoError(t, err)
	_, err = f.service.ConfirmBooking(context.Background(), bookingDomain.NewRef(created.ID))
	require.NoError(t, err)
	_, err = f.service.CreateTransferBooking(context.Background(), transferRequest("pickup"))
	require.NoError(t, err)

	stats, err := f.service.GetBookingStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(2), stats.TotalBookings)
	assert.Equal(t, int64(1), stats.Tours["confirmed"])
	assert.Equal(t, int64(1), stats.Transfers["pending"])
}
