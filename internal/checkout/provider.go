package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// SessionLineItem is one provider-facing billing line, in minor units of
// the base currency.
type SessionLineItem struct {
	Name       string `json:"name"`
	UnitAmount int64  `json:"amount"`
	Quantity   int    `json:"quantity"`
	Image      string `json:"image,omitempty"`
}

type SessionRequest struct {
	LineItems    []SessionLineItem `json:"lineItems"`
	CustomerName string            `json:"customerName"`
	Email        string            `json:"email"`
	Amount       int64             `json:"amount"`
	SuccessURL   string            `json:"successUrl"`
	CancelURL    string            `json:"cancelUrl"`
}

type SessionResponse struct {
	RedirectURL string `json:"url"`
}

// SessionProvider is the payment provider boundary: hand over billing
// lines, get back a hosted-session redirect URL. The provider settles in
// the base currency only.
type SessionProvider interface {
	CreateSession(ctx context.Context, req SessionRequest) (SessionResponse, error)
}

// HTTPProvider posts the session request to a hosted-checkout endpoint.
type HTTPProvider struct {
	url    string
	client *http.Client
}

func NewHTTPProvider(url string) *HTTPProvider {
	return &HTTPProvider{url: url, client: &http.Client{Timeout: 30 * time.Second}}
}

func (p *HTTPProvider) CreateSession(ctx context.Context, req SessionRequest) (SessionResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return SessionResponse{}, fmt.Errorf("marshal session request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return SessionResponse{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return SessionResponse{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		URL   string `json:"url"`
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return SessionResponse{}, fmt.Errorf("decode session response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || payload.URL == "" {
		msg := payload.Error
		if msg == "" {
			msg = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return SessionResponse{}, fmt.Errorf("create session failed: %s", msg)
	}
	return SessionResponse{RedirectURL: payload.URL}, nil
}
