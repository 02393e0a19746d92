package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/mariakevin/hairtryon-backend/internal/domain"
	"github.com/mariakevin/hairtryon-backend/internal/mailer"
	"github.com/mariakevin/hairtryon-backend/internal/repository"
	"github.com/mariakevin/hairtryon-backend/internal/utils"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// fakeUserRepo is an in-memory UserRepository.
type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*domain.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}

	r.nextID++
	user.ID = r.nextID
	// The real insert omits the credits column, so the schema default of 3
	// applies to every new account.
	user.Credits = 3
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt

	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *fakeUserRepo) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = time.Now()
	return nil
}

func (r *fakeUserRepo) MarkVerified(ctx context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	u.Verified = true
	u.UpdatedAt = time.Now()
	return nil
}

// fakeBlacklistRepo is an in-memory BlacklistRepository with the same
// idempotent insert semantics as the Postgres implementation.
type fakeBlacklistRepo struct {
	mu      sync.Mutex
	entries map[string]domain.TokenCategory
}

func newFakeBlacklistRepo() *fakeBlacklistRepo {
	return &fakeBlacklistRepo{entries: make(map[string]domain.TokenCategory)}
}

func (r *fakeBlacklistRepo) Blacklist(ctx context.Context, jti string, category domain.TokenCategory, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[jti]; ok {
		return nil
	}
	r.entries[jti] = category
	return nil
}

func (r *fakeBlacklistRepo) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.entries[jti]
	return ok, nil
}

// captureMailer records sent mail on a channel so tests can synchronize with
// the fire-and-forget dispatch goroutine.
type captureMailer struct {
	sent chan mailer.Mail
}

func newCaptureMailer() *captureMailer {
	return &captureMailer{sent: make(chan mailer.Mail, 16)}
}

func (m *captureMailer) Send(ctx context.Context, mail mailer.Mail) error {
	m.sent <- mail
	return nil
}

// waitForMail blocks until the dispatch goroutine delivers, failing the test
// on timeout.
func (m *captureMailer) waitForMail(t *testing.T) mailer.Mail {
	t.Helper()
	select {
	case mail := <-m.sent:
		return mail
	case <-time.After(2 * time.Second):
		t.Fatal("expected a mail dispatch, got none")
		return mailer.Mail{}
	}
}

type testEnv struct {
	users      *fakeUserRepo
	blacklist  *TokenBlacklistService
	lifecycle  *TokenLifecycle
	jwtManager *utils.JWTManager
	mail       *captureMailer
	auth       AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	users := newFakeUserRepo()
	jwtManager := utils.NewJWTManager(
		"access-secret-for-tests-0123456789abcdef",
		"refresh-secret-for-tests-0123456789abcdef",
		10*time.Minute,
		7*24*time.Hour,
	)
	blacklist := NewTokenBlacklistService(newFakeBlacklistRepo(), jwtManager)
	mail := newCaptureMailer()
	logger := zap.NewNop()

	auth := NewAuthService(
		users,
		blacklist,
		jwtManager,
		mail,
		logger,
		bcrypt.MinCost,
		"http://localhost:3000",
		time.Hour,
		15*time.Minute,
	)

	return &testEnv{
		users:      users,
		blacklist:  blacklist,
		lifecycle:  NewTokenLifecycle(blacklist, logger),
		jwtManager: jwtManager,
		mail:       mail,
		auth:       auth,
	}
}

// createVerifiedUser seeds an account that already passed signup
// verification.
func (e *testEnv) createVerifiedUser(t *testing.T, email, password string) *domain.User {
	t.Helper()

	hash, err := utils.HashPassword(password, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: hash,
		Verified:     true,
	}
	if err := e.users.Create(context.Background(), user); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}
