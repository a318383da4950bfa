package relay

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

// SiteVerifyURL is Google's reCAPTCHA verification endpoint.
const SiteVerifyURL = "https://www.google.com/recaptcha/api/siteverify"

type siteVerifyResponse struct {
	Success    bool     `json:"success"`
	Hostname   string   `json:"hostname"`
	ErrorCodes []string `json:"error-codes"`
}

// Recaptcha verifies reCAPTCHA v2 tokens server side.
type Recaptcha struct {
	secret   string
	endpoint string
	http     *http.Client
}

// NewRecaptcha builds a verifier. endpoint defaults to SiteVerifyURL.
func NewRecaptcha(secret, endpoint string, hc *http.Client, timeout time.Duration) *Recaptcha {
	if endpoint == "" {
		endpoint = SiteVerifyURL
	}
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}
	return &Recaptcha{secret: secret, endpoint: endpoint, http: hc}
}

// Verify reports whether token is valid. remoteIP is optional. A non-nil
// error means the verification service itself could not be consulted.
func (v *Recaptcha) Verify(ctx context.Context, token, remoteIP string) (bool, error) {
	form := url.Values{}
	form.Set("secret", v.secret)
	form.Set("response", token)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return false, fmt.Errorf("relay.Recaptcha.Verify: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("relay.Recaptcha.Verify: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("relay.Recaptcha.Verify: status %d", resp.StatusCode)
	}
	var out siteVerifyResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxReplyBytes)).Decode(&out); err != nil {
		return false, fmt.Errorf("relay.Recaptcha.Verify: decode: %w", err)
	}
	return out.Success, nil
}
