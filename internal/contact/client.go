package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/hashicorp/go-cleanhttp"

	"github.com/ahrav/go-notify/internal/domain"
)

// Service is the contact collaborator as the activities consume it.
// *Client is the production implementation; tests may substitute fakes.
type Service interface {
	// Lookup finds a contact by its external identifier pair. A nil
	// contact with a nil error means the service answered "not found",
	// which is a normal outcome, not a failure.
	Lookup(ctx context.Context, idType, idValue string) (*domain.ResolvedContact, error)

	// Create submits a contact for asynchronous materialization.
	// Acceptance is success; the record becomes visible to Lookup later.
	Create(ctx context.Context, ref domain.ContactRef) error
}

// Client calls the contact service over HTTP+JSON. It performs no retries of
// its own: transient failures surface as plain errors and are retried by the
// execution substrate's activity retry policy.
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

// NewClient returns a Client rooted at baseURL, using a pooled HTTP client
// with sane defaults.
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

// contactRequest is the create-contact wire shape owned by the contact service.
type contactRequest struct {
	ExternalIDType  string `json:"externalIdType"`
	ExternalIDValue string `json:"externalIdValue"`
	Email           string `json:"email,omitempty"`
	Phone           string `json:"phone,omitempty"`
}

// Lookup implements Service.Lookup. HTTP 404 maps to (nil, nil); any other
// non-2xx maps to a *StatusError; an undecodable 2xx body maps to
// ErrMalformedResponse.
func (c *Client) Lookup(ctx context.Context, idType, idValue string) (*domain.ResolvedContact, error) {
	q := url.Values{}
	q.Set("externalIdType", idType)
	q.Set("externalIdValue", idValue)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/contacts?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("lookup contact: build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lookup contact: %w", err)
	}
	defer drainAndClose(resp.Body)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, nil
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &StatusError{Operation: "lookup contact", StatusCode: resp.StatusCode}
	}

	var contact domain.ResolvedContact
	if err := json.NewDecoder(resp.Body).Decode(&contact); err != nil {
		return nil, fmt.Errorf("%w: decoding lookup body: %v", ErrMalformedResponse, err)
	}
	return &contact, nil
}

// Create implements Service.Create. Any 2xx is acceptance; everything else is
// a *StatusError left to the substrate's transient-retry policy.
func (c *Client) Create(ctx context.Context, ref domain.ContactRef) error {
	body, err := json.Marshal(contactRequest{
		ExternalIDType:  ref.ExternalIDType,
		ExternalIDValue: ref.ExternalIDValue,
		Email:           ref.Email,
		Phone:           ref.Phone,
	})
	if err != nil {
		return fmt.Errorf("create contact: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/contacts", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create contact: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("create contact: %w", err)
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Operation: "create contact", StatusCode: resp.StatusCode}
	}
	return nil
}

// drainAndClose keeps the HTTP connection reusable by the pool.
func drainAndClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 4096))
	_ = body.Close()
}
