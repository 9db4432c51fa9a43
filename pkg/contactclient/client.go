// Package contactclient submits contact forms to the folio contact API.
// It follows the same status contract as the website's form: 429 means
// rate limited, 400 carries a message for the user, 5xx is a server error.
package contactclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout matches the timeout the website applies to form posts.
const DefaultTimeout = 30 * time.Second

var (
	// ErrRateLimited is returned for 429 responses.
	ErrRateLimited = errors.New("contactclient: too many requests, wait before sending another message")
	// ErrServer is returned for 5xx responses.
	ErrServer = errors.New("contactclient: server error, try again in a few minutes")
	// ErrTimeout is returned when the request does not complete in time.
	ErrTimeout = errors.New("contactclient: request timed out")
)

// Form is a contact form as the user filled it in.
type Form struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Result is a successful submission.
type Result struct {
	Message string
	ID      string
}

// RejectedError is a 4xx response other than 429. Errors is set when the
// server listed failed validation rules.
type RejectedError struct {
	StatusCode int
	Message    string
	Errors     []string
}

func (e *RejectedError) Error() string {
	if len(e.Errors) > 0 {
		return fmt.Sprintf("contactclient: %s (%s)", e.Message, strings.Join(e.Errors, "; "))
	}
	return "contactclient: " + e.Message
}

// Client posts forms to a contact endpoint.
type Client struct {
	endpoint   string
	timeout    time.Duration
	httpClient *http.Client
}

// New creates a Client for endpoint (e.g. https://example.com/api/contact).
func New(endpoint string) *Client {
	return &Client{
		endpoint:   endpoint,
		timeout:    DefaultTimeout,
		httpClient: &http.Client{},
	}
}

// WithTimeout overrides DefaultTimeout.
func (c *Client) WithTimeout(d time.Duration) *Client {
	c.timeout = d
	return c
}

type response struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Errors  []string        `json:"errors"`
	ID      json.RawMessage `json:"id"`
}

// Submit posts f and maps the response status to a Result or an error.
func (c *Client) Submit(ctx context.Context, f Form) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(f)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, fmt.Errorf("contactclient: network error: %w", err)
	}
	defer resp.Body.Close()

	var out response
	decodeErr := json.NewDecoder(resp.Body).Decode(&out)

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case resp.StatusCode >= 500:
		return nil, ErrServer
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		msg := out.Message
		if msg == "" && resp.StatusCode == http.StatusBadRequest {
			msg = "please check your form data and try again"
		} else if msg == "" {
			msg = "failed to send message"
		}
		return nil, &RejectedError{StatusCode: resp.StatusCode, Message: msg, Errors: out.Errors}
	}

	if decodeErr != nil {
		return nil, fmt.Errorf("contactclient: decode response: %w", decodeErr)
	}
	res := &Result{Message: out.Message, ID: idString(out.ID)}
	if res.Message == "" {
		res.Message = "Thank you! Your message has been sent successfully."
	}
	return res, nil
}

func idString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}
