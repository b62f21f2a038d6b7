package ankiconnect

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/xstraven/mcp-server-learning/internal/domain"
	"github.com/xstraven/mcp-server-learning/internal/ports"
)

// APIVersion is the AnkiConnect protocol version spoken by this client
const APIVersion = 6

const (
	DefaultURL     = "http://localhost:8765"
	DefaultTimeout = 10 * time.Second
)

// Invoker implements ports.AnkiInvoker over AnkiConnect's HTTP JSON API
type Invoker struct {
	url     string
	key     string
	timeout time.Duration
	client  *http.Client
	logger  *zap.Logger
}

var _ ports.AnkiInvoker = (*Invoker)(nil)

// Option configures an Invoker
type Option func(*Invoker)

// WithAPIKey sets the key sent with every request, for AnkiConnect setups that require one
func WithAPIKey(key string) Option {
	return func(i *Invoker) {
		i.key = key
	}
}

// WithTimeout bounds every request
func WithTimeout(d time.Duration) Option {
	return func(i *Invoker) {
		if d > 0 {
			i.timeout = d
		}
	}
}

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(c *http.Client) Option {
	return func(i *Invoker) {
		i.client = c
	}
}

// WithLogger sets the logger used for request tracing
func WithLogger(l *zap.Logger) Option {
	return func(i *Invoker) {
		i.logger = l
	}
}

// NewInvoker creates an invoker for the AnkiConnect endpoint at url
func NewInvoker(url string, opts ...Option) *Invoker {
	if url == "" {
		url = DefaultURL
	}
	i := &Invoker{
		url:     url,
		timeout: DefaultTimeout,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(i)
	}
	if i.client == nil {
		i.client = &http.Client{Timeout: i.timeout}
	}
	return i
}

type request struct {
	Action  string `json:"action"`
	Version int    `json:"version"`
	Params  any    `json:"params,omitempty"`
	Key     string `json:"key,omitempty"`
}

type response struct {
	Result json.RawMessage `json:"result"`
	Error  *string         `json:"error"`
}

// Invoke runs action and decodes its result into result when non-nil
func (i *Invoker) Invoke(ctx context.Context, action string, params any, result any) error {
	body, err := json.Marshal(request{
		Action:  action,
		Version: APIVersion,
		Params:  params,
		Key:     i.key,
	})
	if err != nil {
		return domain.WrapError(domain.KindInputInvalid, action, fmt.Errorf("failed to marshal request: %w", err))
	}

	ctx, cancel := context.WithTimeout(ctx, i.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, i.url, bytes.NewReader(body))
	if err != nil {
		return domain.WrapError(domain.KindInputInvalid, action, fmt.Errorf("failed to create request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := i.client.Do(httpReq)
	if err != nil {
		i.logger.Debug("ankiconnect request failed", zap.String("action", action), zap.Error(err))
		return i.transportError(action, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return i.transportError(action, err)
	}
	i.logger.Debug("ankiconnect request",
		zap.String("action", action),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode != http.StatusOK {
		return domain.NewError(domain.KindRemoteRejected, action,
			fmt.Sprintf("AnkiConnect returned HTTP %d: %s", resp.StatusCode, bytes.TrimSpace(raw)))
	}

	var ar response
	if err := json.Unmarshal(raw, &ar); err != nil {
		return domain.NewError(domain.KindRemoteRejected, action, fmt.Sprintf("failed to decode AnkiConnect response: %v", err))
	}
	if ar.Error != nil && *ar.Error != "" {
		// addNotes reports per-note failures in error while still returning the ids it created
		if result != nil && len(ar.Result) > 0 && !bytes.Equal(ar.Result, []byte("null")) {
			_ = json.Unmarshal(ar.Result, result)
		}
		return domain.NewError(domain.KindRemoteRejected, action, *ar.Error)
	}

	if result == nil || len(ar.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(ar.Result, result); err != nil {
		return domain.NewError(domain.KindRemoteRejected, action, fmt.Sprintf("unexpected result shape: %v", err))
	}
	return nil
}

func (i *Invoker) transportError(action string, err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &domain.Error{
			Kind:    domain.KindRemoteUnavailable,
			Op:      action,
			Message: fmt.Sprintf("AnkiConnect did not answer within %s", i.timeout),
			Err:     err,
		}
	}
	return &domain.Error{
		Kind:    domain.KindRemoteUnavailable,
		Op:      action,
		Message: "cannot connect to Anki, make sure Anki is running with AnkiConnect installed",
		Err:     err,
	}
}
