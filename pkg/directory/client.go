package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bbmri-tools/directory-sync/pkg/common/httpclient"
	"github.com/bbmri-tools/directory-sync/pkg/common/logger"
)

// FetchError is a non-2xx response or decode failure from the directory
// service. It is fatal to the current entity kind's run; no retry happens at
// this layer.
type FetchError struct {
	StatusCode int
	Body       string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("directory fetch failed: %d - %s", e.StatusCode, e.Body)
}

// Client issues the fixed per-kind GraphQL queries against one configured
// directory endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

func NewClient(endpoint string, timeout time.Duration) *Client {
	return &Client{
		endpoint:   endpoint,
		httpClient: httpclient.New(timeout),
	}
}

func (c *Client) FetchBiobanks(ctx context.Context) (map[string]interface{}, error) {
	return c.fetch(ctx, biobanksQuery)
}

func (c *Client) FetchNetworks(ctx context.Context) (map[string]interface{}, error) {
	return c.fetch(ctx, networksQuery)
}

func (c *Client) FetchCollections(ctx context.Context) (map[string]interface{}, error) {
	return c.fetch(ctx, collectionsQuery)
}

func (c *Client) fetch(ctx context.Context, query string) (map[string]interface{}, error) {
	body, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return nil, fmt.Errorf("marshalling query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("posting query: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		logger.Log.WithFields(map[string]interface{}{
			"status":   resp.StatusCode,
			"endpoint": c.endpoint,
		}).Error("Directory query failed")
		return nil, &FetchError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var payload map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding directory response: %w", err)
	}
	return payload, nil
}
