package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// Sender is the outbound-email contract used by the auth service. A failed
// send has no side effects beyond the returned error.
type Sender interface {
	SendVerificationEmail(ctx context.Context, to, token string) error
}

const resendEndpoint = "https://api.resend.com/emails"

// ResendSender sends verification emails through the Resend HTTP API.
type ResendSender struct {
	apiKey     string
	fromEmail  string
	apiBaseURL string
	client     *http.Client
}

// NewResendSender creates a ResendSender. apiBaseURL is this backend's own
// base URL; verification links point at its verify endpoint.
func NewResendSender(apiKey, fromEmail, apiBaseURL string) *ResendSender {
	return &ResendSender{
		apiKey:     apiKey,
		fromEmail:  fromEmail,
		apiBaseURL: apiBaseURL,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

// SendVerificationEmail emails a verification link containing the token.
func (s *ResendSender) SendVerificationEmail(ctx context.Context, to, token string) error {
	verificationLink := fmt.Sprintf("%s/api/v1/auth/verify?token=%s", s.apiBaseURL, token)

	payload := map[string]interface{}{
		"from":    s.fromEmail,
		"to":      []string{to},
		"subject": "Verify your Pantryman account",
		"html": fmt.Sprintf(`<h2>Welcome to Pantryman!</h2>
<p>Click the link below to verify your email address:</p>
<p><a href="%s">Verify my email</a></p>
<p>If you didn't create an account, you can ignore this email.</p>`, verificationLink),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, resendEndpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("failed to send verification email: resend returned %d", resp.StatusCode)
	}

	log.Info().Str("to", to).Msg("Verification email sent")
	return nil
}
