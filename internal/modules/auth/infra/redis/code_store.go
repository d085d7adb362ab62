package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/garpP/sistema-de-emails-pra-API/internal/modules/auth/domain"
)

// expiryGrace keeps a key around a little past ExpiresAt so a late lookup
// still reports code_expired instead of code_not_found. After eviction the
// two are indistinguishable, which the API treats the same anyway.
const expiryGrace = time.Minute

// CodeStore keeps pending codes in Redis, one JSON value per
// (kind, identifier) key. Same semantics as the in-memory store.
type CodeStore struct {
	client *redis.Client
}

func NewCodeStore(client *redis.Client) *CodeStore {
	return &CodeStore{client: client}
}

func codeKey(kind domain.CodeKind, identifier string) string {
	return fmt.Sprintf("code:%s:%s", kind, identifier)
}

func (s *CodeStore) Put(ctx context.Context, kind domain.CodeKind, identifier string, pc domain.PendingCode) error {
	data, err := json.Marshal(pc)
	if err != nil {
		return err
	}
	ttl := time.Until(pc.ExpiresAt) + expiryGrace
	return s.client.Set(ctx, codeKey(kind, identifier), data, ttl).Err()
}

func (s *CodeStore) Get(ctx context.Context, kind domain.CodeKind, identifier string) (*domain.PendingCode, error) {
	data, err := s.client.Get(ctx, codeKey(kind, identifier)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, domain.ErrCodeNotFound
		}
		return nil, err
	}
	var pc domain.PendingCode
	if err := json.Unmarshal(data, &pc); err != nil {
		return nil, err
	}
	return &pc, nil
}

func (s *CodeStore) Delete(ctx context.Context, kind domain.CodeKind, identifier string) error {
	return s.client.Del(ctx, codeKey(kind, identifier)).Err()
}
