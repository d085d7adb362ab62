package domain

import (
	"context"
	"errors"
	"time"
)

type CodeKind string

const (
	CodeVerify CodeKind = "verify"
	CodeReset  CodeKind = "reset"
)

var (
	ErrCodeNotFound = errors.New("code_not_found")
	ErrCodeExpired  = errors.New("code_expired")
	ErrCodeMismatch = errors.New("code_mismatch")
)

// PendingCode is the record kept between "request code" and "verify code".
// ExpiresAt is authoritative: a store may keep the record longer, the
// lookup-time check decides.
type PendingCode struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}

// CodeStore is a TTL-capable keyed store for pending codes. At most one
// record exists per (kind, identifier); Put is a full overwrite.
type CodeStore interface {
	Put(ctx context.Context, kind CodeKind, identifier string, pc PendingCode) error
	// Get returns ErrCodeNotFound when no record exists.
	Get(ctx context.Context, kind CodeKind, identifier string) (*PendingCode, error)
	Delete(ctx context.Context, kind CodeKind, identifier string) error
}
