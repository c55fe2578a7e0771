package webhook

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	SignatureHeader = "X-Aspiro-Signature"
	EventHeader     = "X-Aspiro-Event"
	DeliveryHeader  = "X-Aspiro-Delivery"
)

// Sender POSTs signed payloads to a single endpoint
type Sender struct {
	url    string
	secret string
	client *http.Client
}

func NewSender(url, secret string) *Sender {
	return &Sender{
		url:    url,
		secret: secret,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Send delivers payload once. Any non-2xx response is an error.
func (s *Sender) Send(ctx context.Context, deliveryID, eventType string, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if s.secret != "" {
		req.Header.Set(SignatureHeader, Sign(s.secret, time.Now(), payload))
	}
	req.Header.Set(EventHeader, eventType)
	req.Header.Set(DeliveryHeader, deliveryID)
	req.Header.Set("User-Agent", "Aspiro-Webhook/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("post webhook: HTTP %d", resp.StatusCode)
	}

	return nil
}
