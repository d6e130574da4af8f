package repositories

import (
	"context"

	"github.com/satriahrh/penerjemah/domain/entities"
)

// SessionRepository defines data access methods for translation sessions
type SessionRepository interface {
	Create(ctx context.Context, session *entities.Session) error
	GetByID(ctx context.Context, id string) (*entities.Session, error)
	GetLastByDeviceID(ctx context.Context, deviceID string) (*entities.Session, error)
	Update(ctx context.Context, session *entities.Session) error
	AppendSegment(ctx context.Context, sessionID string, segment entities.Segment) error
	// ExpireSessions marks active sessions past their expiry as expired
	ExpireSessions(ctx context.Context) error
}

// DeviceRepository defines data access methods for registered devices
type DeviceRepository interface {
	Create(ctx context.Context, device *entities.Device) error
	GetByID(ctx context.Context, id string) (*entities.Device, error)
	GetBySerialNumber(ctx context.Context, serialNumber string) (*entities.Device, error)
	// ValidateSubscription checks a subscription key and returns the
	// device it belongs to
	ValidateSubscription(ctx context.Context, subscriptionKey string) (*entities.Device, error)
	Update(ctx context.Context, device *entities.Device) error
	Delete(ctx context.Context, id string) error
}
