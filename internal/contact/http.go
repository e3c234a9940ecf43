package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultHTTPTimeout = 8 * time.Second
	idempotencyHeader  = "Idempotency-Key"
)

// HTTPSubmitter posts submissions as JSON to an inquiries endpoint.
type HTTPSubmitter struct {
	baseURL string
	http    *http.Client
}

// NewHTTPSubmitter constructs a submitter posting to {baseURL}/inquiries. When baseURL
// is empty the submitter accepts everything locally without a network call.
func NewHTTPSubmitter(baseURL string) *HTTPSubmitter {
	return &HTTPSubmitter{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http: &http.Client{
			Timeout: defaultHTTPTimeout,
		},
	}
}

type inquiryPayload struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Subject     string `json:"subject"`
	Message     string `json:"message"`
	SubmittedAt string `json:"submittedAt"`
}

type inquiryResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func (c *HTTPSubmitter) Submit(ctx context.Context, s Submission) (Receipt, error) {
	if c == nil || c.baseURL == "" {
		return Receipt{ID: s.ID, Via: "http"}, nil
	}

	endpoint, err := url.JoinPath(c.baseURL, "inquiries")
	if err != nil {
		return Receipt{}, err
	}
	payload, err := json.Marshal(inquiryPayload{
		Name:        s.Values.Name,
		Email:       s.Values.Email,
		Subject:     s.Values.Subject,
		Message:     s.Values.Message,
		SubmittedAt: s.SubmittedAt.Format(time.RFC3339),
	})
	if err != nil {
		return Receipt{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return Receipt{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(idempotencyHeader, s.ID)

	resp, err := c.http.Do(req)
	if err != nil {
		return Receipt{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return Receipt{}, fmt.Errorf("contact: inquiry status %d: %s", resp.StatusCode, drainError(resp.Body))
	}

	var out inquiryResponse
	if resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil && err != io.EOF {
			return Receipt{}, err
		}
	}
	return Receipt{ID: s.ID, Via: "http", Ref: strings.TrimSpace(out.ID)}, nil
}

// HTTPClient exposes the underlying client so callers can adjust transport settings.
func (c *HTTPSubmitter) HTTPClient() *http.Client {
	if c.http == nil {
		c.http = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return c.http
}

func drainError(r io.Reader) string {
	if r == nil {
		return ""
	}
	b, _ := io.ReadAll(io.LimitReader(r, 256))
	return strings.TrimSpace(string(b))
}
