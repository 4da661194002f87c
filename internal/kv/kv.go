// Package kv is the local key-value storage the tracker state is saved to.
package kv

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("key not found")

//go:generate mockgen -source=kv.go -destination=kv_mock.go -package=kv
type Store interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}
