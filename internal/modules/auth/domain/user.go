package domain

import "context"

// CredentialStore is the delegation point after a code checks out:
// verify-code marks the address confirmed, reset-password installs the new
// password hash. Backed by the host application's user storage in a real
// deployment.
type CredentialStore interface {
	MarkVerified(ctx context.Context, email string) error
	SetPassword(ctx context.Context, email, passwordHash string) error
}
