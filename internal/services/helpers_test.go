package services

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/pantryman/pantryman-be/internal/auth"
	"github.com/pantryman/pantryman-be/internal/database"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.New(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	// A fresh connection would see a fresh in-memory database.
	db.SetMaxOpenConns(1)
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// fakeSender records sent verification emails and can be told to fail.
type fakeSender struct {
	mu     sync.Mutex
	err    error
	toList []string
	tokens []string
}

func (f *fakeSender) SendVerificationEmail(_ context.Context, to, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.toList = append(f.toList, to)
	f.tokens = append(f.tokens, token)
	return nil
}

func (f *fakeSender) lastToken(t *testing.T) string {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.tokens) == 0 {
		t.Fatal("no verification email was sent")
	}
	return f.tokens[len(f.tokens)-1]
}

func newTestAuthService(t *testing.T, db *sql.DB, sender *fakeSender) *AuthService {
	t.Helper()
	hasher := auth.NewHasher(bcrypt.MinCost)
	tokens := auth.NewTokenManager("test-secret", "pantryman", "pantryman-app", time.Hour)
	return NewAuthService(db, hasher, tokens, sender)
}

// signupVerified creates a verified account and returns its user id.
func signupVerified(t *testing.T, svc *AuthService, sender *fakeSender, email, password string) string {
	t.Helper()
	result, err := svc.Signup(context.Background(), email, password)
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if !svc.VerifyEmail(context.Background(), sender.lastToken(t)) {
		t.Fatal("verification failed")
	}
	return result.UserID
}
