package entities

import (
	"errors"
	"time"
)

// Device represents a client device registered for the translation service
type Device struct {
	ID              string    `json:"id" bson:"_id"`
	SerialNumber    string    `json:"serial_number" bson:"serial_number"`
	SubscriptionKey string    `json:"subscription_key" bson:"subscription_key"`
	Region          string    `json:"region" bson:"region"`
	OwnerID         *string   `json:"owner_id" bson:"owner_id"`
	CreatedAt       time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" bson:"updated_at"`
}

func (d *Device) Validate() error {
	if d.SerialNumber == "" {
		return errors.New("serial number is required")
	}
	if d.SubscriptionKey == "" {
		return errors.New("subscription key is required")
	}
	if d.Region == "" {
		return errors.New("region is required")
	}
	return nil
}
