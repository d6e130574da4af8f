package adapters

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/satriahrh/penerjemah/domain/entities"
	"github.com/satriahrh/penerjemah/domain/repositories"
)

// MemoryDeviceRepository is an in-memory implementation of DeviceRepository,
// suitable as a simple storage backend for single-instance deployments
type MemoryDeviceRepository struct {
	mu      sync.RWMutex
	devices map[string]*entities.Device // id -> device
	serials map[string]*entities.Device // serial_number -> device
	keys    map[string]*entities.Device // subscription_key -> device
}

var _ repositories.DeviceRepository = (*MemoryDeviceRepository)(nil)

// NewMemoryDeviceRepository creates a new in-memory device repository
func NewMemoryDeviceRepository() *MemoryDeviceRepository {
	return &MemoryDeviceRepository{
		devices: make(map[string]*entities.Device),
		serials: make(map[string]*entities.Device),
		keys:    make(map[string]*entities.Device),
	}
}

// ValidateSubscription checks a subscription key and returns the device it
// belongs to. This backs the token issuance flow.
func (m *MemoryDeviceRepository) ValidateSubscription(ctx context.Context, subscriptionKey string) (*entities.Device, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	device, exists := m.keys[subscriptionKey]
	if !exists {
		return nil, errors.New("unknown subscription key")
	}

	copied := *device
	return &copied, nil
}

// Create implements repositories.DeviceRepository
func (m *MemoryDeviceRepository) Create(ctx context.Context, device *entities.Device) error {
	if err := device.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.serials[device.SerialNumber]; exists {
		return errors.New("device with serial number already exists")
	}
	if _, exists := m.keys[device.SubscriptionKey]; exists {
		return errors.New("subscription key already registered")
	}

	if device.ID == "" {
		device.ID = uuid.NewString()
	}
	now := time.Now()
	if device.CreatedAt.IsZero() {
		device.CreatedAt = now
	}
	device.UpdatedAt = now

	copied := *device
	m.devices[device.ID] = &copied
	m.serials[device.SerialNumber] = &copied
	m.keys[device.SubscriptionKey] = &copied

	return nil
}

// GetByID implements repositories.DeviceRepository
func (m *MemoryDeviceRepository) GetByID(ctx context.Context, id string) (*entities.Device, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	device, exists := m.devices[id]
	if !exists {
		return nil, errors.New("device not found")
	}

	copied := *device
	return &copied, nil
}

// GetBySerialNumber implements repositories.DeviceRepository
func (m *MemoryDeviceRepository) GetBySerialNumber(ctx context.Context, serialNumber string) (*entities.Device, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	device, exists := m.serials[serialNumber]
	if !exists {
		return nil, errors.New("device not found")
	}

	copied := *device
	return &copied, nil
}

// Update implements repositories.DeviceRepository
func (m *MemoryDeviceRepository) Update(ctx context.Context, device *entities.Device) error {
	if err := device.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	existing, exists := m.devices[device.ID]
	if !exists {
		return errors.New("device not found")
	}

	delete(m.serials, existing.SerialNumber)
	delete(m.keys, existing.SubscriptionKey)

	device.UpdatedAt = time.Now()
	copied := *device
	m.devices[device.ID] = &copied
	m.serials[device.SerialNumber] = &copied
	m.keys[device.SubscriptionKey] = &copied

	return nil
}

// Delete implements repositories.DeviceRepository
func (m *MemoryDeviceRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	device, exists := m.devices[id]
	if !exists {
		return errors.New("device not found")
	}

	delete(m.serials, device.SerialNumber)
	delete(m.keys, device.SubscriptionKey)
	delete(m.devices, id)

	return nil
}
