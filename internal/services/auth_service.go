package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/pantryman/pantryman-be/internal/auth"
	"github.com/pantryman/pantryman-be/internal/email"
	"github.com/pantryman/pantryman-be/internal/models"
)

// SignupResult is returned from a successful signup. EmailSent is false
// when the account was created but the verification email could not be
// delivered; the user can recover via resend-verification.
type SignupResult struct {
	UserID    string `json:"userId"`
	Email     string `json:"email"`
	Message   string `json:"message"`
	EmailSent bool   `json:"emailSent"`
}

// LoginResult is returned from a successful login.
type LoginResult struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// AuthServiceProvider defines the interface for the account lifecycle.
type AuthServiceProvider interface {
	Signup(ctx context.Context, emailAddr, password string) (SignupResult, error)
	Login(ctx context.Context, emailAddr, password string) (LoginResult, error)
	ResendVerification(ctx context.Context, emailAddr string) error
	VerifyEmail(ctx context.Context, token string) bool
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
	DeleteAccount(ctx context.Context, userID, password string) error
}

// AuthService orchestrates signup, login, email verification, and account
// maintenance.
type AuthService struct {
	db     *sql.DB
	hasher auth.Hasher
	tokens *auth.TokenManager
	sender email.Sender
}

// NewAuthService creates a new AuthService.
func NewAuthService(db *sql.DB, hasher auth.Hasher, tokens *auth.TokenManager, sender email.Sender) *AuthService {
	return &AuthService{db: db, hasher: hasher, tokens: tokens, sender: sender}
}

// Signup validates the input, creates an unverified user with a pending
// verification token, and emails the verification link. The account is
// committed before the email is attempted, so a provider outage never
// discards a created account.
func (s *AuthService) Signup(ctx context.Context, emailAddr, password string) (SignupResult, error) {
	if strings.TrimSpace(emailAddr) == "" || !strings.Contains(emailAddr, "@") {
		return SignupResult{}, newValidationError("Invalid email")
	}
	if len(password) < 8 {
		return SignupResult{}, newValidationError("Password must be at least 8 characters")
	}

	// Fast-path duplicate check; the unique index on users.email is the
	// final authority for concurrent signups.
	var existing string
	err := s.db.QueryRowContext(ctx, "SELECT id FROM users WHERE email = ?", emailAddr).Scan(&existing)
	if err == nil {
		return SignupResult{}, ErrAlreadyRegistered
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return SignupResult{}, err
	}

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return SignupResult{}, err
	}

	userID := uuid.NewString()
	verificationToken := uuid.NewString()

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO users (id, email, password_hash, is_verified, verification_token) VALUES (?, ?, ?, 0, ?)",
		userID, emailAddr, passwordHash, verificationToken)
	if err != nil {
		if isUniqueViolation(err) {
			return SignupResult{}, ErrAlreadyRegistered
		}
		return SignupResult{}, err
	}

	result := SignupResult{
		UserID:    userID,
		Email:     emailAddr,
		Message:   "Please check your email to verify your account.",
		EmailSent: true,
	}

	if err := s.sender.SendVerificationEmail(ctx, emailAddr, verificationToken); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Verification email failed after signup")
		result.EmailSent = false
		result.Message = "Account created, but the verification email could not be sent. Please request a new one."
	}

	return result, nil
}

// Login checks credentials and returns a bearer token. Unknown emails and
// wrong passwords produce the identical error; an unverified account is
// only reported after the password has been proven.
func (s *AuthService) Login(ctx context.Context, emailAddr, password string) (LoginResult, error) {
	var user models.User
	row := s.db.QueryRowContext(ctx,
		"SELECT id, email, password_hash, is_verified FROM users WHERE email = ?", emailAddr)
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.IsVerified)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return LoginResult{}, ErrInvalidCredentials
	}

	if !user.IsVerified {
		return LoginResult{}, ErrEmailNotVerified
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return LoginResult{}, err
	}

	return LoginResult{Token: token, UserID: user.ID, Email: user.Email}, nil
}

// ResendVerification issues a fresh verification token, invalidating any
// prior one, and resends the email.
func (s *AuthService) ResendVerification(ctx context.Context, emailAddr string) error {
	var userID string
	var isVerified bool
	row := s.db.QueryRowContext(ctx, "SELECT id, is_verified FROM users WHERE email = ?", emailAddr)
	if err := row.Scan(&userID, &isVerified); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	if isVerified {
		return ErrAlreadyVerified
	}

	// A single overwrite keeps at most one live token per user.
	newToken := uuid.NewString()
	if _, err := s.db.ExecContext(ctx,
		"UPDATE users SET verification_token = ? WHERE id = ?", newToken, userID); err != nil {
		return err
	}

	return s.sender.SendVerificationEmail(ctx, emailAddr, newToken)
}

// VerifyEmail consumes a verification token. The update clears the token
// and marks the user verified in one statement, so a replayed token
// matches zero rows and reports false.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) bool {
	if token == "" {
		return false
	}

	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET is_verified = 1, verification_token = NULL WHERE verification_token = ?", token)
	if err != nil {
		log.Error().Err(err).Msg("Failed to consume verification token")
		return false
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false
	}
	return rows > 0
}

// ChangePassword re-verifies the current password before storing a new
// hash. A mismatch yields ErrUnauthorized.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	if len(newPassword) < 8 {
		return newValidationError("Password must be at least 8 characters")
	}

	var passwordHash string
	row := s.db.QueryRowContext(ctx, "SELECT password_hash FROM users WHERE id = ?", userID)
	if err := row.Scan(&passwordHash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUnauthorized
		}
		return err
	}

	if !s.hasher.Verify(currentPassword, passwordHash) {
		return ErrUnauthorized
	}

	newHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, "UPDATE users SET password_hash = ? WHERE id = ?", newHash, userID)
	return err
}

// DeleteAccount re-verifies the password, then removes the user and all
// owned lists and items in one transaction.
func (s *AuthService) DeleteAccount(ctx context.Context, userID, password string) error {
	var passwordHash string
	row := s.db.QueryRowContext(ctx, "SELECT password_hash FROM users WHERE id = ?", userID)
	if err := row.Scan(&passwordHash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUnauthorized
		}
		return err
	}

	if !s.hasher.Verify(password, passwordHash) {
		return ErrUnauthorized
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM items WHERE list_id IN (SELECT id FROM grocery_lists WHERE user_id = ?)", userID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM grocery_lists WHERE user_id = ?", userID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM users WHERE id = ?", userID); err != nil {
		return err
	}

	return tx.Commit()
}

// isUniqueViolation reports whether err is a sqlite uniqueness-constraint
// failure.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT, sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
