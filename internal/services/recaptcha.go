package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// RecaptchaVerifier gates signup behind a reCAPTCHA v2 check when a secret is
// configured. A nil verifier means the check is disabled.
type RecaptchaVerifier struct {
	secret     string
	endpoint   string
	httpClient *http.Client
}

func NewRecaptchaVerifier(secret string) *RecaptchaVerifier {
	return &RecaptchaVerifier{
		secret:     secret,
		endpoint:   "https://www.google.com/recaptcha/api/siteverify",
		httpClient: &http.Client{Timeout: 8 * time.Second},
	}
}

// Verify checks a reCAPTCHA v2 token. Returns (ok, reason, error); reason is
// set when verification fails without a transport error.
func (v *RecaptchaVerifier) Verify(ctx context.Context, token, remoteIP string) (bool, string, error) {
	if v == nil || strings.TrimSpace(v.secret) == "" {
		return false, "verifier_not_configured", nil
	}
	if strings.TrimSpace(token) == "" {
		return false, "missing_token", nil
	}

	form := url.Values{}
	form.Set("secret", v.secret)
	form.Set("response", strings.TrimSpace(token))
	if strings.TrimSpace(remoteIP) != "" {
		form.Set("remoteip", strings.TrimSpace(remoteIP))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return false, "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return false, "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return false, "", fmt.Errorf("recaptcha verify http %d", resp.StatusCode)
	}

	var out struct {
		Success    bool     `json:"success"`
		ErrorCodes []string `json:"error-codes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return false, "", err
	}
	if out.Success {
		return true, "", nil
	}
	if len(out.ErrorCodes) > 0 {
		return false, strings.Join(out.ErrorCodes, ","), nil
	}
	return false, "verification_failed", nil
}
