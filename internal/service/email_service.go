package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const resendEndpoint = "https://api.resend.com/emails"

type EmailService struct {
	apiKey     string
	from       string
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewEmailService sends through the Resend API. With an empty apiKey nothing is
// sent and the reset link is logged instead, which is how local setups run.
func NewEmailService(apiKey, from string, logger *slog.Logger) *EmailService {
	return &EmailService{
		apiKey:     apiKey,
		from:       from,
		endpoint:   resendEndpoint,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

func (s *EmailService) SendResetToken(to, resetURL string) error {
	if s.apiKey == "" {
		s.logger.Debug("email delivery disabled, reset link not sent", "to", to, "url", resetURL)
		return nil
	}

	payload := map[string]interface{}{
		"from":    s.from,
		"to":      []string{to},
		"subject": "Bookshelf - Reset your password",
		"html":    buildResetEmail(resetURL),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("resend http error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("resend api error %d: %s", resp.StatusCode, string(respBody))
	}

	s.logger.Info("reset email sent", "to", to)
	return nil
}

func buildResetEmail(resetURL string) string {
	link := html.EscapeString(resetURL)
	return `<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family:Arial,sans-serif;background:#f4f4f4;padding:20px;">
  <div style="max-width:480px;margin:0 auto;background:#fff;border-radius:8px;padding:32px;">
    <h2 style="color:#333;">Reset your Bookshelf password</h2>
    <p>Hi,</p>
    <p>Someone asked to reset the password for this account. Use the link below to choose a new one:</p>
    <p style="text-align:center;margin:24px 0;">
      <a href="` + link + `" style="background:#6200EE;color:#fff;padding:12px 24px;border-radius:4px;text-decoration:none;">Reset password</a>
    </p>
    <p>The link is only valid for a limited time.</p>
    <p>If you did not ask for this, you can ignore this email.</p>
    <hr style="border:none;border-top:1px solid #eee;margin:24px 0;">
    <p style="color:#999;font-size:12px;">Bookshelf</p>
  </div>
</body>
</html>`
}
