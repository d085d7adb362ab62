package infra

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garpP/sistema-de-emails-pra-API/internal/modules/auth/domain"
)

func TestMemCodeStorePutOverwrites(t *testing.T) {
	s := NewMemCodeStore()
	ctx := context.Background()
	exp := time.Now().UTC().Add(15 * time.Minute)

	require.NoError(t, s.Put(ctx, domain.CodeVerify, "a@x.com", domain.PendingCode{Code: "111111", ExpiresAt: exp}))
	require.NoError(t, s.Put(ctx, domain.CodeVerify, "a@x.com", domain.PendingCode{Code: "222222", ExpiresAt: exp}))

	pc, err := s.Get(ctx, domain.CodeVerify, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "222222", pc.Code)
}

func TestMemCodeStoreGetMissing(t *testing.T) {
	s := NewMemCodeStore()
	_, err := s.Get(context.Background(), domain.CodeVerify, "a@x.com")
	assert.ErrorIs(t, err, domain.ErrCodeNotFound)
}

func TestMemCodeStoreDelete(t *testing.T) {
	s := NewMemCodeStore()
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, domain.CodeReset, "a@x.com", domain.PendingCode{Code: "123456", ExpiresAt: time.Now().UTC()}))
	require.NoError(t, s.Delete(ctx, domain.CodeReset, "a@x.com"))

	_, err := s.Get(ctx, domain.CodeReset, "a@x.com")
	assert.ErrorIs(t, err, domain.ErrCodeNotFound)

	// deleting again is not an error
	assert.NoError(t, s.Delete(ctx, domain.CodeReset, "a@x.com"))
}

func TestMemCodeStoreKeysAreNamespaced(t *testing.T) {
	s := NewMemCodeStore()
	ctx := context.Background()
	exp := time.Now().UTC().Add(time.Minute)

	require.NoError(t, s.Put(ctx, domain.CodeVerify, "a@x.com", domain.PendingCode{Code: "111111", ExpiresAt: exp}))
	require.NoError(t, s.Put(ctx, domain.CodeReset, "a@x.com", domain.PendingCode{Code: "222222", ExpiresAt: exp}))

	pc, err := s.Get(ctx, domain.CodeVerify, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "111111", pc.Code)
}

func TestMemCredentialStore(t *testing.T) {
	s := NewMemCredentialStore()
	ctx := context.Background()

	assert.NoError(t, s.MarkVerified(ctx, "a@x.com"))
	assert.NoError(t, s.SetPassword(ctx, "a@x.com", "hash-1"))
	assert.NoError(t, s.SetPassword(ctx, "b@x.com", "hash-2"))
}
