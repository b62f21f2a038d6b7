// Package zoteroweb reads a Zotero library through the Zotero Web API v3
package zoteroweb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xstraven/mcp-server-learning/internal/domain"
	"github.com/xstraven/mcp-server-learning/internal/ports"
)

const (
	DefaultBaseURL = "https://api.zotero.org"
	DefaultTimeout = 15 * time.Second

	apiVersion = "3"
	userAgent  = "mcp-server-learning/1.0"
	// the Web API caps a page at 100 entries
	maxPageSize = 100
)

// Client implements ports.ReferenceLibrary over the Zotero Web API
type Client struct {
	baseURL string
	library string
	apiKey  string
	timeout time.Duration
	client  *http.Client
	logger  *zap.Logger
}

var _ ports.ReferenceLibrary = (*Client)(nil)

// Option configures a Client
type Option func(*Client)

// WithBaseURL points the client at another API host
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithTimeout bounds every request
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.client = h
	}
}

// WithLogger sets the logger used for request tracing
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// NewClient creates a client for library, given as users/<id> or groups/<id>
func NewClient(apiKey, library string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, domain.NewError(domain.KindInputInvalid, "zotero web", "an API key is required")
	}
	if !strings.HasPrefix(library, "users/") && !strings.HasPrefix(library, "groups/") {
		return nil, domain.NewError(domain.KindInputInvalid, "zotero web", "either a user id or a group id is required")
	}

	c := &Client{
		baseURL: DefaultBaseURL,
		library: library,
		apiKey:  apiKey,
		timeout: DefaultTimeout,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.client == nil {
		c.client = &http.Client{Timeout: c.timeout}
	}
	return c, nil
}

func (c *Client) Name() string { return "web" }

// SearchItems runs a quick search over titles, creators and years
func (c *Client) SearchItems(ctx context.Context, query string, limit int) ([]domain.ZoteroItem, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("qmode", "titleCreatorYear")
	setLimit(params, limit)
	return c.items(ctx, "search items", "items/top", params)
}

// RecentItems lists top-level items by modification time, newest first
func (c *Client) RecentItems(ctx context.Context, limit, offset int) ([]domain.ZoteroItem, error) {
	params := url.Values{}
	params.Set("sort", "dateModified")
	params.Set("direction", "desc")
	setLimit(params, limit)
	if offset > 0 {
		params.Set("start", strconv.Itoa(offset))
	}
	return c.items(ctx, "recent items", "items/top", params)
}

// GetItem returns the item with key
func (c *Client) GetItem(ctx context.Context, key string) (*domain.ZoteroItem, error) {
	var e entry
	if err := c.get(ctx, "get item", "items/"+url.PathEscape(key), nil, &e); err != nil {
		return nil, err
	}
	item, err := e.item()
	if err != nil {
		return nil, domain.WrapError(domain.KindRemoteRejected, "get item", err)
	}
	if !domain.IsReferenceType(item.ItemType) {
		return nil, domain.NewError(domain.KindNotFound, "get item", fmt.Sprintf("no item with key %q", key))
	}
	return &item, nil
}

// ItemNotes returns the child notes of the item with key
func (c *Client) ItemNotes(ctx context.Context, key string) ([]domain.ZoteroNote, error) {
	params := url.Values{}
	params.Set("itemType", "note")

	var entries []entry
	if err := c.get(ctx, "item notes", "items/"+url.PathEscape(key)+"/children", params, &entries); err != nil {
		return nil, err
	}

	notes := make([]domain.ZoteroNote, 0, len(entries))
	for _, e := range entries {
		var d struct {
			Note string `json:"note"`
		}
		if err := json.Unmarshal(e.Data, &d); err != nil {
			return nil, domain.WrapError(domain.KindRemoteRejected, "item notes", err)
		}
		notes = append(notes, domain.ZoteroNote{Key: e.Key, Title: noteTitle(d.Note), Note: d.Note})
	}
	return notes, nil
}

// Collections lists every collection with its parent key
func (c *Client) Collections(ctx context.Context) ([]domain.ZoteroCollection, error) {
	params := url.Values{}
	setLimit(params, maxPageSize)

	var entries []struct {
		Key  string `json:"key"`
		Data struct {
			Name string `json:"name"`
			// false at the top level, a key otherwise
			ParentCollection any `json:"parentCollection"`
		} `json:"data"`
	}
	if err := c.get(ctx, "collections", "collections", params, &entries); err != nil {
		return nil, err
	}

	collections := make([]domain.ZoteroCollection, 0, len(entries))
	for _, e := range entries {
		col := domain.ZoteroCollection{Key: e.Key, Name: e.Data.Name}
		if parent, ok := e.Data.ParentCollection.(string); ok {
			col.ParentKey = parent
		}
		collections = append(collections, col)
	}
	return collections, nil
}

// CollectionItems lists the top-level items in the collection with collectionKey
func (c *Client) CollectionItems(ctx context.Context, collectionKey string, limit int) ([]domain.ZoteroItem, error) {
	params := url.Values{}
	setLimit(params, limit)
	return c.items(ctx, "collection items", "collections/"+url.PathEscape(collectionKey)+"/items/top", params)
}

func setLimit(params url.Values, limit int) {
	if limit <= 0 || limit > maxPageSize {
		limit = maxPageSize
	}
	params.Set("limit", strconv.Itoa(limit))
}

// items fetches a listing and drops standalone notes and attachments
func (c *Client) items(ctx context.Context, op, endpoint string, params url.Values) ([]domain.ZoteroItem, error) {
	var entries []entry
	if err := c.get(ctx, op, endpoint, params, &entries); err != nil {
		return nil, err
	}

	items := make([]domain.ZoteroItem, 0, len(entries))
	for _, e := range entries {
		item, err := e.item()
		if err != nil {
			return nil, domain.WrapError(domain.KindRemoteRejected, op, err)
		}
		if domain.IsReferenceType(item.ItemType) {
			items = append(items, item)
		}
	}
	return items, nil
}

func (c *Client) get(ctx context.Context, op, endpoint string, params url.Values, out any) error {
	u := fmt.Sprintf("%s/%s/%s", c.baseURL, c.library, endpoint)
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return domain.WrapError(domain.KindInputInvalid, op, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Zotero-API-Key", c.apiKey)
	req.Header.Set("Zotero-API-Version", apiVersion)
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Debug("zotero request failed", zap.String("endpoint", endpoint), zap.Error(err))
		return c.transportError(op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.transportError(op, err)
	}
	c.logger.Debug("zotero request",
		zap.String("endpoint", endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		retry := resp.Header.Get("Retry-After")
		if retry == "" {
			retry = "5"
		}
		return domain.NewError(domain.KindRemoteRejected, op,
			fmt.Sprintf("rate limited by the Zotero API, retry after %s seconds", retry))
	case resp.StatusCode == http.StatusNotFound:
		return domain.NewError(domain.KindNotFound, op, strings.TrimSpace(string(raw)))
	case resp.StatusCode == http.StatusForbidden:
		return domain.NewError(domain.KindRemoteRejected, op, "the Zotero API key does not grant access to this library")
	case resp.StatusCode != http.StatusOK:
		return domain.NewError(domain.KindRemoteRejected, op,
			fmt.Sprintf("Zotero API returned HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(raw))))
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return domain.NewError(domain.KindRemoteRejected, op, fmt.Sprintf("failed to decode Zotero response: %v", err))
	}
	return nil
}

func (c *Client) transportError(op string, err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &domain.Error{
			Kind:    domain.KindRemoteUnavailable,
			Op:      op,
			Message: fmt.Sprintf("Zotero API did not answer within %s", c.timeout),
			Err:     err,
		}
	}
	return &domain.Error{
		Kind:    domain.KindRemoteUnavailable,
		Op:      op,
		Message: "failed to connect to the Zotero API",
		Err:     err,
	}
}
