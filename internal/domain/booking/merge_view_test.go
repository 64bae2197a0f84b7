package booking

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// reconstructs a tour booking with a controlled creation time.
func tourBookingCreatedAt(t *testing.T, name, email string, status Status, createdAt time.Time) *TourBooking {
	t.Helper()
	tourID := uuid.New()
	return ReconstructTourBooking(
		uuid.New(), 0, &tourID, "Blue Mountains Hike",
		CustomerDetails{Name: name, Email: email},
		createdAt.AddDate(0, 0, 30), 2, "",
		status, 298.00, nil, 1, createdAt, createdAt,
	)
}

func transferBookingCreatedAt(t *testing.T, name, email string, status Status, createdAt time.Time) *AirportTransferBooking {
	t.Helper()
	return ReconstructAirportTransferBooking(
		uuid.New(), ServicePickup,
		CustomerDetails{Name: name, Email: email, Phone: "+1-876-555-0100"},
		2,
		FlightLeg{FlightNumber: "AA1510", Date: createdAt.AddDate(0, 0, 14), Time: "14:30", Location: "Hotel"},
		FlightLeg{},
		"", status, 75.00, nil, 1, createdAt, createdAt,
	)
}

func collect(seq func(func(DisplayBooking) bool)) []DisplayBooking {
	var out []DisplayBooking
	for d := range seq {
		out = append(out, d)
	}
	return out
}

func TestMergeAndFilterSortsNewestFirst(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	tours := []*TourBooking{
		tourBookingCreatedAt(t, "Alice", "alice@example.com", StatusPending, base),
		tourBookingCreatedAt(t, "Carol", "carol@example.com", StatusPending, base.Add(2*time.Hour)),
	}
	transfers := []*AirportTransferBooking{
		transferBookingCreatedAt(t, "Bob", "bob@example.com", StatusPending, base.Add(1*time.Hour)),
	}

	got := collect(MergeAndFilter(tours, transfers, ListFilters{}))
	require.Len(t, got, 3)
	assert.Equal(t, "Carol", got[0].CustomerName)
	assert.Equal(t, "Bob", got[1].CustomerName)
	assert.Equal(t, "Alice", got[2].CustomerName)
	assert.Equal(t, KindAirport, got[1].Kind)
}

// Equal timestamps keep input order: tours before transfers.
func TestMergeAndFilterStableOnTies(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	tours := []*TourBooking{tourBookingCreatedAt(t, "Alice", "alice@example.com", StatusPending, base)}
	transfers := []*AirportTransferBooking{transferBookingCreatedAt(t, "Bob", "bob@example.com", StatusPending, base)}

	got := collect(MergeAndFilter(tours, transfers, ListFilters{}))
	require.Len(t, got, 2)
	assert.Equal(t, "Alice", got[0].CustomerName)
	assert.Equal(t, "Bob", got[1].CustomerName)
}

func TestMergeAndFilterIsRestartable(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	tours := []*TourBooking{tourBookingCreatedAt(t, "Alice", "alice@example.com", StatusPending, base)}
	transfers := []*AirportTransferBooking{transferBookingCreatedAt(t, "Bob", "bob@example.com", StatusPending, base.Add(time.Hour))}

	seq := MergeAndFilter(tours, transfers, ListFilters{})
	first := collect(seq)
	second := collect(seq)
	assert.Equal(t, first, second)
}

func TestMergeAndFilterEarlyBreak(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	var tours []*TourBooking
	for i := 0; i < 5; i++ {
		tours = append(tours, tourBookingCreatedAt(t, "Alice", "alice@example.com", StatusPending, base.Add(time.Duration(i)*time.Minute)))
	}

	seq := MergeAndFilter(tours, nil, ListFilters{})
	var count int
	for range seq {
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(t, 2, count)

	// Breaking early does not consume the sequence.
	assert.Len(t, collect(seq), 5)
}

func TestMergeAndFilterFilters(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	tours := []*TourBooking{
		tourBookingCreatedAt(t, "Alice Smith", "alice@example.com", StatusPending, base),
		tourBookingCreatedAt(t, "Bob Jones", "bob@example.com", StatusConfirmed, base.Add(time.Minute)),
	}
	transfers := []*AirportTransferBooking{
		transferBookingCreatedAt(t, "Alice Brown", "abrown@example.com", StatusCancelled, base.Add(2*time.Minute)),
	}

	tests := []struct {
		name     string
		filters  ListFilters
		expected []string
	}{
		{"no filters", ListFilters{}, []string{"Alice Brown", "Bob Jones", "Alice Smith"}},
		{"all sentinels", ListFilters{Kind: FilterAll, Status: FilterAll}, []string{"Alice Brown", "Bob Jones", "Alice Smith"}},
		{"kind tour", ListFilters{Kind: "tour"}, []string{"Bob Jones", "Alice Smith"}},
		{"kind airport", ListFilters{Kind: "airport"}, []string{"Alice Brown"}},
		{"status pending", ListFilters{Status: "pending"}, []string{"Alice Smith"}},
		{"search name case-insensitive", ListFilters{Search: "alice"}, []string{"Alice Brown", "Alice Smith"}},
		{"search email", ListFilters{Search: "abrown@"}, []string{"Alice Brown"}},
		{"search phone", ListFilters{Search: "876-555"}, []string{"Alice Brown"}},
		{"filters combine with AND", ListFilters{Search: "alice", Kind: "tour"}, []string{"Alice Smith"}},
		{"no match", ListFilters{Search: "zelda"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := collect(MergeAndFilter(tours, transfers, tt.filters))
			names := make([]string, len(got))
			for i, d := range got {
				names[i] = d.CustomerName
			}
			if tt.expected == nil {
				assert.Empty(t, names)
			} else {
				assert.Equal(t, tt.expected, names)
			}
		})
	}
}

func TestDisplayBookingKeys(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	tb := tourBookingCreatedAt(t, "Alice", "alice@example.com", StatusPending, base)
	tb.AssignLegacyID(77)
	transfer := transferBookingCreatedAt(t, "Bob", "bob@example.com", StatusPending, base)

	got := collect(MergeAndFilter([]*TourBooking{tb}, []*AirportTransferBooking{transfer}, ListFilters{}))
	require.Len(t, got, 2)

	keys := map[string]bool{}
	for _, d := range got {
		keys[d.Key] = true
	}
	// UUIDs key both entries; the legacy serial never leaks into keys.
	assert.True(t, keys[tb.ID().String()])
	assert.True(t, keys[transfer.ID().String()])
	assert.False(t, keys["legacy:77"])
}

func TestDisplayBookingSummaryForDetachedTour(t *testing.T) {
	createdAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	orphan := ReconstructTourBooking(
		uuid.New(), 12, nil, "",
		CustomerDetails{Name: "Alice", Email: "alice@example.com"},
		createdAt.AddDate(0, 0, 30), 2, "",
		StatusPending, 298.00, nil, 1, createdAt, createdAt,
	)

	got := collect(MergeAndFilter([]*TourBooking{orphan}, nil, ListFilters{}))
	require.Len(t, got, 1)
	assert.Equal(t, "Tour (removed from catalog)", got[0].Summary)
}
