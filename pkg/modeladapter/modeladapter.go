package modeladapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/germanamz/wildlife/pkg/chats/chat"
	"github.com/germanamz/wildlife/pkg/chats/message"
	"github.com/germanamz/wildlife/pkg/modeladapter/usage"
	"github.com/germanamz/wildlife/pkg/tools/toolbox"
)

// maxErrorBody caps how much of a failed response is kept in a StatusError.
const maxErrorBody = 4 << 10

// Completer sends a conversation to a model and returns the assistant's reply.
// tools declares what the model may call on this turn.
type Completer interface {
	Complete(ctx context.Context, c *chat.Chat, tools []toolbox.Tool) (message.Message, error)
}

// UsageReporter is implemented by completers that embed ModelAdapter.
type UsageReporter interface {
	UsageTracker() *usage.Tracker
}

// StatusError is returned when the provider answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// Auth holds the credentials for a provider API.
type Auth struct {
	Key    string // API key value.
	Header string // Header name (default: "Authorization").
	Scheme string // Scheme prefix (default: "Bearer" when Header is "Authorization").
}

// ModelAdapter holds state shared by provider implementations. Embed it and
// define a Complete method on the concrete type.
type ModelAdapter struct {
	Name        string            // Model identifier.
	Temperature float64           // Sampling temperature; 0 leaves the provider default.
	MaxTokens   int               // Maximum tokens in a reply.
	Auth        Auth              // Credentials.
	BaseURL     string            // API base URL, no trailing slash.
	Client      *http.Client      // HTTP client; a default with a long timeout is used when nil.
	Headers     map[string]string // Extra headers applied to every request.
	Usage       usage.Tracker     // Token usage across calls.

	clientOnce    sync.Once
	defaultClient *http.Client
}

// New creates a ModelAdapter with the given endpoint and credentials.
func New(baseURL string, auth Auth, client *http.Client) ModelAdapter {
	return ModelAdapter{
		Auth:    auth,
		BaseURL: baseURL,
		Client:  client,
	}
}

// UsageTracker returns the adapter's token usage tracker.
func (a *ModelAdapter) UsageTracker() *usage.Tracker { return &a.Usage }

func (a *ModelAdapter) httpClient() *http.Client {
	if a.Client != nil {
		return a.Client
	}

	a.clientOnce.Do(func() {
		a.defaultClient = &http.Client{Timeout: 10 * time.Minute}
	})

	return a.defaultClient
}

// NewRequest builds a request against BaseURL+path with auth and custom
// headers applied.
func (a *ModelAdapter) NewRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, a.BaseURL+path, body)
	if err != nil {
		return nil, err
	}

	if a.Auth.Key != "" {
		header := a.Auth.Header
		if header == "" {
			header = "Authorization"
		}

		value := a.Auth.Key
		switch {
		case header == "Authorization" && a.Auth.Scheme == "":
			value = "Bearer " + value
		case a.Auth.Scheme != "":
			value = a.Auth.Scheme + " " + value
		}

		req.Header.Set(header, value)
	}

	for k, v := range a.Headers {
		req.Header.Set(k, v)
	}

	return req, nil
}

// Do sends req with the configured client.
func (a *ModelAdapter) Do(req *http.Request) (*http.Response, error) {
	return a.httpClient().Do(req) //nolint:gosec // URL is built from trusted BaseURL config, not user input.
}

// PostJSON sends payload as JSON to path and decodes a 2xx response into
// dest. A nil dest discards the body. Non-2xx statuses yield *StatusError.
func (a *ModelAdapter) PostJSON(ctx context.Context, path string, payload, dest any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := a.NewRequest(ctx, http.MethodPost, path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := a.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	if dest == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
