// Package cache keeps one last-known-good value per query key, refreshed by
// re-issuing the request and optionally patched by optimistic mutations
// before server confirmation.
package cache

import "strings"

// Entity names one query family. Invalidation by entity mirrors prefix
// invalidation: it covers every key of that family regardless of arguments.
type Entity string

// Key identifies one query's cached value: an entity plus its arguments,
// with a stable string serialization so equality is unambiguous.
type Key struct {
	Entity Entity
	args   []string
}

// NewKey builds a key from an entity and its arguments.
func NewKey(entity Entity, args ...string) Key {
	return Key{Entity: entity, args: args}
}

// String returns the stable serialized form, e.g. "diaryDetail/5".
func (k Key) String() string {
	if len(k.args) == 0 {
		return string(k.Entity)
	}
	return string(k.Entity) + "/" + strings.Join(k.args, "/")
}
