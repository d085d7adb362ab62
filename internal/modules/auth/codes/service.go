// Package codes owns the verification-code lifecycle: issue with TTL,
// verify once, gone after use. Storage is injected so the same logic runs
// over the in-process map or Redis.
package codes

import (
	"context"
	"crypto/subtle"
	"time"

	"github.com/garpP/sistema-de-emails-pra-API/internal/modules/auth/domain"
	"github.com/garpP/sistema-de-emails-pra-API/internal/platform/security"
)

type Service struct {
	store domain.CodeStore
	kind  domain.CodeKind
	ttl   time.Duration
	now   func() time.Time
}

// NewService creates the lifecycle for one flow. Separate kinds keep the
// registration and password-reset codes from validating each other.
func NewService(store domain.CodeStore, kind domain.CodeKind, ttl time.Duration) *Service {
	return &Service{store: store, kind: kind, ttl: ttl, now: time.Now}
}

// WithClock overrides the time source. Tests only.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Issue generates a fresh 6-digit code and stores it under identifier,
// replacing any pending code for that identifier. The code goes to the
// notifier, never into a response body.
func (s *Service) Issue(ctx context.Context, identifier string) (string, error) {
	code, err := security.RandomCode()
	if err != nil {
		return "", err
	}
	pc := domain.PendingCode{
		Code:      code,
		ExpiresAt: s.now().UTC().Add(s.ttl),
	}
	if err := s.store.Put(ctx, s.kind, identifier, pc); err != nil {
		return "", err
	}
	return code, nil
}

// Verify checks candidate against the pending code for identifier.
// The entry is deleted on a match (single use) and on detected expiry;
// a mismatch leaves it in place so a correct retry within the window
// still succeeds.
func (s *Service) Verify(ctx context.Context, identifier, candidate string) error {
	pc, err := s.store.Get(ctx, s.kind, identifier)
	if err != nil {
		return err
	}
	if s.now().UTC().After(pc.ExpiresAt) {
		_ = s.store.Delete(ctx, s.kind, identifier)
		return domain.ErrCodeExpired
	}
	if subtle.ConstantTimeCompare([]byte(pc.Code), []byte(candidate)) != 1 {
		return domain.ErrCodeMismatch
	}
	return s.store.Delete(ctx, s.kind, identifier)
}
