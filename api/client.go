package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to the campus portal chat API. Every call is a single
// request/response; the client never retries.
type Client struct {
	baseURL    string
	userID     string
	deviceType string
	httpClient *http.Client
}

// New instantiates and returns a new client.
func New(baseURL, userID string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		userID:     userID,
		deviceType: "cli",
		httpClient: &http.Client{Timeout: timeout},
	}
}

// envelope is the JSON wrapper the backend puts around every response.
type envelope struct {
	Data json.RawMessage `json:"data"`
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	request.Header.Set("Accept", "application/json")
	request.Header.Set("x-device-type", c.deviceType)
	if c.userID != "" {
		request.Header.Set("x-user-id", c.userID)
	}
	return request, nil
}

// do executes the request and decodes the response envelope's data field into
// out. A nil out discards the data field. Any failure, including a malformed
// body, is reported as a TransportError.
func (c *Client) do(op string, request *http.Request, out any) error {
	response, err := c.httpClient.Do(request)
	if err != nil {
		return transportError(op, 0, err)
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(response.Body, 512))
		return transportError(op, response.StatusCode, fmt.Errorf("%s", strings.TrimSpace(string(body))))
	}

	if out == nil {
		io.Copy(io.Discard, response.Body)
		return nil
	}

	var e envelope
	if err := json.NewDecoder(response.Body).Decode(&e); err != nil {
		return transportError(op, response.StatusCode, fmt.Errorf("decoding response envelope: %w", err))
	}
	if len(e.Data) == 0 {
		return transportError(op, response.StatusCode, fmt.Errorf("response envelope has no data field"))
	}
	if err := json.Unmarshal(e.Data, out); err != nil {
		return transportError(op, response.StatusCode, fmt.Errorf("decoding data field: %w", err))
	}
	return nil
}
