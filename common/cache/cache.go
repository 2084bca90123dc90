package cache

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrNotFound     = errors.New("key not found in cache")
	ErrInvalidValue = errors.New("invalid value for cache")
	ErrInvalidKey   = errors.New("invalid cache key")
)

const keySeparator = ":"

type Cache interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Get decodes the stored bytes into value, which must be a *string, a
	// *[]byte or an encoding.BinaryUnmarshaler.
	Get(ctx context.Context, key string, value any) error

	Delete(ctx context.Context, key string) error

	Close() error
}

type Options struct {
	DefaultTTL time.Duration

	Addr string

	Password string

	DB int

	DialTimeout time.Duration
}

func DefaultOptions() Options {
	return Options{
		DefaultTTL:  24 * time.Hour,
		Addr:        "localhost:6379",
		DialTimeout: 5 * time.Second,
	}
}

// Key joins parts with ":". Empty parts and parts containing the separator
// are rejected so that keys stay unambiguous.
func Key(parts ...string) (string, error) {
	if len(parts) == 0 {
		return "", ErrInvalidKey
	}
	for _, p := range parts {
		if p == "" || strings.Contains(p, keySeparator) {
			return "", ErrInvalidKey
		}
	}
	return strings.Join(parts, keySeparator), nil
}
