// Package notify delivers lifecycle events to an HTTP webhook.
package notify

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/jhoicas/talent-api/internal/application/ports"
)

var _ ports.Notifier = (*Webhook)(nil)

// SignatureHeader carries the hex HMAC-SHA256 of the body when a secret is set.
const SignatureHeader = "X-Talent-Signature"

// Webhook posts each event as JSON to a single URL.
type Webhook struct {
	url    string
	secret []byte
	client *resty.Client
}

// NewWebhook builds the notifier.
func NewWebhook(url, secret string) *Webhook {
	client := resty.New().
		SetTimeout(5 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(200 * time.Millisecond).
		SetHeader("Content-Type", "application/json").
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= 500
		})
	return &Webhook{url: url, secret: []byte(secret), client: client}
}

// Notify sends e. Non-2xx answers are errors.
func (w *Webhook) Notify(ctx context.Context, e ports.Event) error {
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("notify: encode %s: %w", e.Type, err)
	}
	req := w.client.R().
		SetContext(ctx).
		SetHeader("X-Talent-Event", e.Type).
		SetBody(body)
	if len(w.secret) > 0 {
		req.SetHeader(SignatureHeader, Sign(w.secret, body))
	}
	resp, err := req.Post(w.url)
	if err != nil {
		return fmt.Errorf("notify: post %s: %w", e.Type, err)
	}
	if resp.IsError() {
		return fmt.Errorf("notify: %s answered HTTP %d", w.url, resp.StatusCode())
	}
	return nil
}

// Sign returns the hex HMAC-SHA256 of body.
func Sign(secret, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
