package repositories

import (
	"context"
	"fmt"
	"strings"
)

// KeyValueStore is durable string storage for small app-private entries.
//
// SetMany must be atomic: after it returns, either every entry was written or
// none were. Delete of a missing key is not an error.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	SetMany(ctx context.Context, entries map[string]string) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

// Backend names accepted by NewKeyValueStore callers and config.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// NamespacedKey joins a namespace and key as "namespace:key".
func NamespacedKey(namespace, key string) string {
	namespace = strings.TrimSpace(namespace)
	if namespace == "" {
		return key
	}
	return fmt.Sprintf("%s:%s", namespace, key)
}
