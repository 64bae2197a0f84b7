package booking

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

// Ref is an opaque booking reference. Tour bookings carry both a canonical
// UUID and a legacy serial number inherited from the original site; airport
// transfer bookings only ever had UUIDs. All lookups, comparisons, and
// collection keys go through Ref so the legacy number is never used as a key
// when a UUID exists.
type Ref struct {
	id     uuid.UUID
	legacy int64
}

// NewRef creates a Ref from a canonical UUID.
func NewRef(id uuid.UUID) Ref {
	return Ref{id: id}
}

// NewLegacyRef creates a Ref from a legacy serial number only.
func NewLegacyRef(n int64) Ref {
	return Ref{legacy: n}
}

// NewDualRef creates a Ref carrying both identifiers.
func NewDualRef(id uuid.UUID, legacy int64) Ref {
	return Ref{id: id, legacy: legacy}
}

// ParseRef interprets a path or query parameter as a booking reference:
// a UUID string, or a decimal legacy number.
func ParseRef(s string) (Ref, error) {
	if id, err := uuid.Parse(s); err == nil {
		return NewRef(id), nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil && n > 0 {
		return NewLegacyRef(n), nil
	}
	return Ref{}, fmt.Errorf("invalid booking reference: %q", s)
}

// UUID returns the canonical UUID and whether one is present.
func (r Ref) UUID() (uuid.UUID, bool) {
	return r.id, r.id != uuid.Nil
}

// Legacy returns the legacy serial number and whether one is present.
func (r Ref) Legacy() (int64, bool) {
	return r.legacy, r.legacy > 0
}

// IsZero reports whether the Ref carries no identifier at all.
func (r Ref) IsZero() bool {
	return r.id == uuid.Nil && r.legacy <= 0
}

// Key returns a stable string key for maps and de-duplication. The UUID wins
// whenever present.
func (r Ref) Key() string {
	if r.id != uuid.Nil {
		return r.id.String()
	}
	return "legacy:" + strconv.FormatInt(r.legacy, 10)
}

// Equal reports whether two Refs identify the same booking. UUIDs are
// compared when both sides have one; otherwise both must carry the same
// legacy number.
func (r Ref) Equal(other Ref) bool {
	if r.id != uuid.Nil && other.id != uuid.Nil {
		return r.id == other.id
	}
	if r.legacy > 0 && other.legacy > 0 {
		return r.legacy == other.legacy
	}
	return false
}

// String returns the display form: the legacy number when that is all the
// caller has, the UUID otherwise.
func (r Ref) String() string {
	return r.Key()
}
