// Package message implements the dispatch side of the notification saga: an
// HTTP client for the message service and the Temporal activity that submits
// one message per bundling unit. Dispatch is fire-and-forget — the service
// accepting the request is success; delivery is its problem.
package message

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/hashicorp/go-cleanhttp"
)

// ErrRejected is wrapped into client errors when the message service
// explicitly refuses a request (4xx). Rejections are terminal for that one
// dispatch and must not be retried.
type RejectionError struct {
	StatusCode int
	Body       string
}

// Error formats as "message service rejected request: status <code>".
func (e *RejectionError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("message service rejected request: status %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("message service rejected request: status %d", e.StatusCode)
}

// Service is the message collaborator as the activity consumes it.
type Service interface {
	// CreateMessage submits one message for a contact. Acceptance is
	// success; a *RejectionError is terminal; other errors are transient.
	CreateMessage(ctx context.Context, contactID, templateID, channel, content string) error
}

// Client calls the message service over HTTP+JSON. Like the contact client it
// never retries: transient failures are the substrate's to retry.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithHTTPClient overrides the underlying HTTP client, e.g. for tests.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = h }
}

// NewClient returns a Client rooted at baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: cleanhttp.DefaultPooledClient(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// messageRequest is the create-message wire shape owned by the message service.
type messageRequest struct {
	ContactID  string `json:"contactId"`
	TemplateID string `json:"templateId"`
	Channel    string `json:"channel"`
	Content    string `json:"content"`
}

// CreateMessage implements Service.CreateMessage. 2xx is acceptance; 4xx is
// an explicit *RejectionError; anything else is a plain transient error.
func (c *Client) CreateMessage(ctx context.Context, contactID, templateID, channel, content string) error {
	body, err := json.Marshal(messageRequest{
		ContactID:  contactID,
		TemplateID: templateID,
		Channel:    channel,
		Content:    content,
	})
	if err != nil {
		return fmt.Errorf("create message: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/messages", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create message: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("create message: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode <= 299:
		return nil
	case resp.StatusCode >= 400 && resp.StatusCode <= 499:
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &RejectionError{StatusCode: resp.StatusCode, Body: string(bytes.TrimSpace(detail))}
	default:
		return fmt.Errorf("create message: message service returned status %d", resp.StatusCode)
	}
}
