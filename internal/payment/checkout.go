// Package payment hands bookings off to a hosted Stripe-style checkout
// page and verifies the session ids that come back on the success and
// cancel callbacks.
package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ticketbari/ticketbari/internal/model"
)

// ErrInvalidSession is returned when a callback presents a session id
// that was not issued by this service.
var ErrInvalidSession = errors.New("invalid checkout session")

// Session is one opened checkout handoff.
type Session struct {
	ID        string
	URL       string
	BookingID string
	Amount    float64
	CreatedAt time.Time
}

// Provider opens checkout sessions and authenticates returning ones.
type Provider interface {
	CreateSession(booking *model.Booking) (*Session, error)
	VerifySession(sessionID string) error
}

// HostedProvider builds redirect URLs for the hosted checkout page and
// signs session ids with HMAC-SHA256 so callbacks cannot be forged.
type HostedProvider struct {
	baseURL    string
	successURL string
	cancelURL  string
	secret     []byte
	now        func() time.Time
}

func NewHostedProvider(baseURL, successURL, cancelURL, signingSecret string) *HostedProvider {
	return &HostedProvider{
		baseURL:    baseURL,
		successURL: successURL,
		cancelURL:  cancelURL,
		secret:     []byte(signingSecret),
		now:        time.Now,
	}
}

// CreateSession opens a checkout session for a booking and returns the
// redirect URL the client is sent to.
func (p *HostedProvider) CreateSession(booking *model.Booking) (*Session, error) {
	if booking.TotalPrice <= 0 {
		return nil, fmt.Errorf("booking %s has no payable amount", booking.ID)
	}

	nonce := strings.ReplaceAll(uuid.New().String(), "-", "")
	sessionID := "cs_" + nonce + "." + p.sign(nonce)

	redirect, err := url.Parse(p.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse checkout base url: %w", err)
	}

	q := redirect.Query()
	q.Set("session_id", sessionID)
	q.Set("amount", fmt.Sprintf("%.2f", booking.TotalPrice))
	q.Set("success_url", p.successURL)
	q.Set("cancel_url", p.cancelURL)
	redirect.RawQuery = q.Encode()

	return &Session{
		ID:        sessionID,
		URL:       redirect.String(),
		BookingID: booking.ID,
		Amount:    booking.TotalPrice,
		CreatedAt: p.now(),
	}, nil
}

// VerifySession checks the HMAC on a returning session id.
func (p *HostedProvider) VerifySession(sessionID string) error {
	rest, ok := strings.CutPrefix(sessionID, "cs_")
	if !ok {
		return ErrInvalidSession
	}

	nonce, sig, ok := strings.Cut(rest, ".")
	if !ok {
		return ErrInvalidSession
	}

	if !hmac.Equal([]byte(p.sign(nonce)), []byte(sig)) {
		return ErrInvalidSession
	}
	return nil
}

func (p *HostedProvider) sign(nonce string) string {
	mac := hmac.New(sha256.New, p.secret)
	mac.Write([]byte(nonce))
	return hex.EncodeToString(mac.Sum(nil))
}
