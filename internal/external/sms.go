// Package external provides clients for third-party APIs (SMS gateway).
package external

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ---------------------------------------------------------------------------
// Constants
// ---------------------------------------------------------------------------

const (
	smsTimeout = 15 * time.Second
)

// ---------------------------------------------------------------------------
// SMSSender — Twilio-compatible messages client
// ---------------------------------------------------------------------------

// SMSSender sends text messages through a Twilio-compatible REST gateway.
// Nil-safe: NewSMSSender returns nil when the gateway is not configured and
// callers treat a nil sender as "log only".
type SMSSender struct {
	baseURL    string
	accountID  string
	authToken  string
	fromNumber string
	httpClient *http.Client
}

// NewSMSSender creates an SMS sender. Returns nil unless base URL, account,
// token, and from-number are all set (notifications disabled otherwise).
func NewSMSSender(baseURL, accountID, authToken, fromNumber string) *SMSSender {
	if baseURL == "" || accountID == "" || authToken == "" || fromNumber == "" {
		return nil
	}
	return &SMSSender{
		baseURL:    strings.TrimRight(baseURL, "/"),
		accountID:  accountID,
		authToken:  authToken,
		fromNumber: fromNumber,
		httpClient: &http.Client{
			Timeout: smsTimeout,
		},
	}
}

// IsConfigured reports whether the sender can reach a gateway.
func (s *SMSSender) IsConfigured() bool {
	return s != nil
}

// gatewayResponse is the slice of the provider response we care about.
type gatewayResponse struct {
	SID          string `json:"sid"`
	Status       string `json:"status"`
	ErrorCode    *int   `json:"error_code"`
	ErrorMessage string `json:"error_message"`
	Message      string `json:"message"` // error envelope on non-2xx
}

// Send delivers one message to one phone number. The caller owns retry and
// timeout policy via ctx.
func (s *SMSSender) Send(ctx context.Context, phoneNumber, message string) error {
	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", s.baseURL, s.accountID)

	form := url.Values{}
	form.Set("To", phoneNumber)
	form.Set("From", s.fromNumber)
	form.Set("Body", message)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build SMS request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(s.accountID, s.authToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send SMS to %s: %w", phoneNumber, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var gw gatewayResponse
	_ = json.Unmarshal(body, &gw)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := gw.Message
		if detail == "" {
			detail = strings.TrimSpace(string(body))
		}
		return fmt.Errorf("SMS gateway returned %d: %s", resp.StatusCode, detail)
	}
	if gw.ErrorCode != nil {
		return fmt.Errorf("SMS gateway error %d: %s", *gw.ErrorCode, gw.ErrorMessage)
	}
	return nil
}
