// internal/ledger/client.go
package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"
)

const resultSuccess = "Success"

var ErrRejected = errors.New("ledger rejected the request")

// OrderPayload is the body that appends a new order row.
type OrderPayload struct {
	Name           string        `json:"name"`
	Phone          string        `json:"phone"`
	Address        string        `json:"address"`
	PaymentMethod  string        `json:"paymentMethod"`
	Items          []PayloadItem `json:"items"`
	Total          float64       `json:"total"`
	TrackingNumber string        `json:"trackingNumber"`
	OrderStatus    string        `json:"orderStatus"`
	PaymentStatus  string        `json:"paymentStatus"`
	Notes          string        `json:"notes"`
}

type PayloadItem struct {
	Name      string  `json:"name"`
	Volume    string  `json:"volume,omitempty"`
	PrintType string  `json:"printType,omitempty"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// UpdatePayload changes the status columns of an existing row.
type UpdatePayload struct {
	Action         string `json:"action"`
	TrackingNumber string `json:"trackingNumber"`
	OrderStatus    string `json:"orderStatus"`
	PaymentStatus  string `json:"paymentStatus"`
}

type Reply struct {
	Result  string `json:"result"`
	Message string `json:"message"`
}

// Client posts payloads to the Apps Script web app. Stored payloads never
// carry the shared secret; Post adds it to every body it sends.
type Client struct {
	url        string
	secret     string
	httpClient *http.Client
}

func NewClient(url, secret string, timeout time.Duration) *Client {
	return &Client{
		url:        url,
		secret:     secret,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Post sends one JSON object body. Anything but a {"result":"Success"} reply
// is an error.
func (c *Client) Post(ctx context.Context, payload json.RawMessage) (*Reply, error) {
	body, err := c.sign(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build ledger request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ledger request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger reply: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("ledger returned status %d: %s", resp.StatusCode, truncate(string(raw), 200))
	}

	var reply Reply
	if err := json.Unmarshal(raw, &reply); err != nil {
		return nil, fmt.Errorf("invalid ledger reply: %w", err)
	}
	if !strings.EqualFold(reply.Result, resultSuccess) {
		return &reply, fmt.Errorf("%w: %s", ErrRejected, reply.Message)
	}
	return &reply, nil
}

// sign returns payload with the current secret set, replacing any secret
// the payload already holds.
func (c *Client) sign(payload json.RawMessage) ([]byte, error) {
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(payload, &fields); err != nil {
		return nil, fmt.Errorf("invalid ledger payload: %w", err)
	}
	secret, err := json.Marshal(c.secret)
	if err != nil {
		return nil, err
	}
	fields["secret"] = secret
	return json.Marshal(fields)
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
