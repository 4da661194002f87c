package tracker

import "github.com/google/uuid"

// IDProvider issues expense identifiers.
type IDProvider interface {
	NewID() string
}

// IDProviderFunc adapts a function to IDProvider.
type IDProviderFunc func() string

func (f IDProviderFunc) NewID() string {
	return f()
}

// UUIDProvider issues random (version 4) UUIDs.
type UUIDProvider struct{}

func (UUIDProvider) NewID() string {
	return uuid.NewString()
}
