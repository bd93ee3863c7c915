package store

import (
	"context"
	"errors"
)

// Well-known document keys. Each store owns exactly one key and never
// reads another store's document.
const (
	KeyJournals        = "user_journals"
	KeyVibeHistory     = "vibe_history"
	KeyCommunityPosts  = "community_posts"
	KeyLastMessageTime = "last_message_time"
)

// ErrNotFound is returned by Get when no document exists under the key.
var ErrNotFound = errors.New("key not found")

// Backend is durable string-keyed blob storage. There are no
// transactions and no indexing: every mutation above this interface is a
// whole-document read-modify-write, so concurrent writers to the same key
// are last-writer-wins.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
