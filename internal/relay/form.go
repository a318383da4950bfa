// Package relay talks to the two HTTP services behind the contact form: the
// mail relay that forwards messages, and the reCAPTCHA verification endpoint.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const maxReplyBytes = 64 << 10

// Submission is the JSON body the mail relay expects.
type Submission struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Message        string `json:"message"`
	RecaptchaToken string `json:"recaptchaToken"`
}

// Reply is the relay's answer. Message may be empty.
type Reply struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// FormRelay posts contact submissions to the mail relay.
type FormRelay struct {
	url  string
	http *http.Client
}

// NewFormRelay builds a relay client for url. A nil client gets a default
// one with timeout.
func NewFormRelay(url string, hc *http.Client, timeout time.Duration) *FormRelay {
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}
	return &FormRelay{url: url, http: hc}
}

// URL returns the relay endpoint.
func (r *FormRelay) URL() string { return r.url }

// Send posts sub and decodes the reply. The HTTP status is not consulted: the
// relay reports rejection in the body. An error means the relay could not be
// reached or did not answer with JSON.
func (r *FormRelay) Send(ctx context.Context, sub Submission) (Reply, error) {
	body, err := json.Marshal(sub)
	if err != nil {
		return Reply{}, fmt.Errorf("relay.FormRelay.Send: encode: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return Reply{}, fmt.Errorf("relay.FormRelay.Send: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := r.http.Do(req)
	if err != nil {
		return Reply{}, fmt.Errorf("relay.FormRelay.Send: %w", err)
	}
	defer resp.Body.Close()

	var reply Reply
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxReplyBytes)).Decode(&reply); err != nil {
		return Reply{}, fmt.Errorf("relay.FormRelay.Send: decode reply (status %d): %w", resp.StatusCode, err)
	}
	return reply, nil
}
