package infra

import (
	"context"
	"sync"
	"time"

	"github.com/garpP/sistema-de-emails-pra-API/internal/modules/auth/domain"
)

type memCodeStore struct {
	mu    sync.Mutex
	codes map[string]domain.PendingCode // key: kind|identifier
}

// NewMemCodeStore returns an in-process code store. All operations are
// serialized on one mutex, so an interleaved issue/verify on the same
// identifier cannot observe a half-written record. A background sweep
// drops entries well past expiry; the lookup-time check in the lifecycle
// stays authoritative either way.
func NewMemCodeStore() domain.CodeStore {
	s := &memCodeStore{codes: make(map[string]domain.PendingCode)}
	go s.sweep()
	return s
}

func key(kind domain.CodeKind, identifier string) string {
	return string(kind) + "|" + identifier
}

func (s *memCodeStore) Put(_ context.Context, kind domain.CodeKind, identifier string, pc domain.PendingCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[key(kind, identifier)] = pc
	return nil
}

func (s *memCodeStore) Get(_ context.Context, kind domain.CodeKind, identifier string) (*domain.PendingCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pc, ok := s.codes[key(kind, identifier)]
	if !ok {
		return nil, domain.ErrCodeNotFound
	}
	cp := pc
	return &cp, nil
}

func (s *memCodeStore) Delete(_ context.Context, kind domain.CodeKind, identifier string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.codes, key(kind, identifier))
	return nil
}

// sweep removes entries an hour past expiry every 5 minutes.
func (s *memCodeStore) sweep() {
	for {
		time.Sleep(5 * time.Minute)
		cutoff := time.Now().UTC().Add(-1 * time.Hour)
		s.mu.Lock()
		for k, pc := range s.codes {
			if pc.ExpiresAt.Before(cutoff) {
				delete(s.codes, k)
			}
		}
		s.mu.Unlock()
	}
}

type credentials struct {
	passwordHash string
	verified     bool
	updatedAt    time.Time
}

type memCredentialStore struct {
	mu    sync.Mutex
	users map[string]*credentials // email -> record
}

// NewMemCredentialStore keeps confirmation flags and password hashes in
// process memory. Stands in for the host application's user storage.
func NewMemCredentialStore() domain.CredentialStore {
	return &memCredentialStore{users: make(map[string]*credentials)}
}

func (s *memCredentialStore) get(email string) *credentials {
	c, ok := s.users[email]
	if !ok {
		c = &credentials{}
		s.users[email] = c
	}
	return c
}

func (s *memCredentialStore) MarkVerified(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.get(email)
	c.verified = true
	c.updatedAt = time.Now().UTC()
	return nil
}

func (s *memCredentialStore) SetPassword(_ context.Context, email, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.get(email)
	c.passwordHash = passwordHash
	c.updatedAt = time.Now().UTC()
	return nil
}
