package driver

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mystic-tours/service-booking/internal/domain"
)

// DriverStatus represents a driver's availability for new assignments.
type DriverStatus string

const (
	DriverAvailable DriverStatus = "available"
	DriverBusy      DriverStatus = "busy"
	DriverOffline   DriverStatus = "offline"
)

// IsValid returns true if the driver status is recognized.
func (s DriverStatus) IsValid() bool {
	switch s {
	case DriverAvailable, DriverBusy, DriverOffline:
		return true
	}
	return false
}

// ParseDriverStatus converts a string to a DriverStatus.
func ParseDriverStatus(s string) (DriverStatus, error) {
	status := DriverStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid driver status: %s", s)
	}
	return status, nil
}

// Driver is the aggregate root for a transfer/tour driver managed from the
// admin back-office.
type Driver struct {
	id        uuid.UUID
	name      string
	phone     string
	vehicle   string
	status    DriverStatus
	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// NewDriver creates a new driver, available by default.
func NewDriver(name, phone, vehicle string) (*Driver, error) {
	if strings.TrimSpace(name) == "" {
		return nil, domain.NewValidationError("name", "driver name is required")
	}
	now := time.Now().UTC()
	return &Driver{
		id:        uuid.New(),
		name:      name,
		phone:     phone,
		vehicle:   vehicle,
		status:    DriverAvailable,
		version:   1,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructDriver rebuilds a Driver from persistence data (no validation).
func ReconstructDriver(id uuid.UUID, name, phone, vehicle string, status DriverStatus, version int64, createdAt, updatedAt time.Time) *Driver {
	return &Driver{
		id:        id,
		name:      name,
		phone:     phone,
		vehicle:   vehicle,
		status:    status,
		version:   version,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// --- Getters ---

func (d *Driver) ID() uuid.UUID        { return d.id }
func (d *Driver) Name() string         { return d.name }
func (d *Driver) Phone() string        { return d.phone }
func (d *Driver) Vehicle() string      { return d.vehicle }
func (d *Driver) Status() DriverStatus { return d.status }
func (d *Driver) Version() int64       { return d.version }
func (d *Driver) CreatedAt() time.Time { return d.createdAt }
func (d *Driver) UpdatedAt() time.Time { return d.updatedAt }

// --- Behavior ---

// SetStatus changes the driver's availability.
func (d *Driver) SetStatus(status DriverStatus) error {
	if !status.IsValid() {
		return domain.NewValidationError("status", fmt.Sprintf("invalid driver status: %s", status))
	}
	d.status = status
	d.version++
	d.updatedAt = time.Now().UTC()
	return nil
}

// Update applies partial edits to the driver profile.
func (d *Driver) Update(name, phone, vehicle string) {
	if name != "" {
		d.name = name
	}
	if phone != "" {
		d.phone = phone
	}
	if vehicle != "" {
		d.vehicle = vehicle
	}
	d.version++
	d.updatedAt = time.Now().UTC()
}
