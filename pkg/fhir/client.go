package fhir

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bbmri-tools/directory-sync/pkg/common/httpclient"
	"github.com/bbmri-tools/directory-sync/pkg/common/logger"
	"github.com/bbmri-tools/directory-sync/pkg/miabis"
	"github.com/redis/go-redis/v9"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// ErrResourceNotFound signals an identifier-search miss on the store, as
// opposed to a transport or store failure.
var ErrResourceNotFound = errors.New("resource not found")

// ErrOrganizationNotFound is the organization-lookup boundary's absence
// signal. It wraps ErrResourceNotFound.
var ErrOrganizationNotFound = fmt.Errorf("organization not found: %w", ErrResourceNotFound)

// PublishError is a per-entity upload failure. The orchestrator logs it and
// moves on to the next entity in the batch.
type PublishError struct {
	ResourceType string
	Identifier   string
	reason       error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("publishing %s %s: %v", e.ResourceType, e.Identifier, e.reason)
}

func (e *PublishError) Unwrap() error {
	return e.reason
}

// Options configures the destination store client.
type Options struct {
	BaseURL  string
	Username string
	Password string

	// OAuth2 client-credentials settings; when TokenURL is set, token auth
	// replaces basic auth.
	TokenURL     string
	ClientID     string
	ClientSecret string

	Timeout       time.Duration
	RetryAttempts int

	// Optional cache for organization-lookup results.
	Cache    *redis.Client
	CacheTTL time.Duration
}

// Client performs idempotent create-or-update uploads against a FHIR store
// and the read-only organization lookup.
type Client struct {
	baseURL       string
	username      string
	password      string
	httpClient    *http.Client
	retryAttempts int
	cache         *redis.Client
	cacheTTL      time.Duration
}

func NewClient(opts Options) *Client {
	base := httpclient.New(opts.Timeout)
	username, password := opts.Username, opts.Password

	if opts.TokenURL != "" {
		cc := &clientcredentials.Config{
			ClientID:     opts.ClientID,
			ClientSecret: opts.ClientSecret,
			TokenURL:     opts.TokenURL,
		}
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
		base = cc.Client(ctx)
		username, password = "", ""
	}

	attempts := opts.RetryAttempts
	if attempts <= 0 {
		attempts = 1
	}

	return &Client{
		baseURL:       strings.TrimRight(opts.BaseURL, "/"),
		username:      username,
		password:      password,
		httpClient:    base,
		retryAttempts: attempts,
		cache:         opts.Cache,
		cacheTTL:      opts.CacheTTL,
	}
}

func (c *Client) UploadBiobank(ctx context.Context, biobank *miabis.Biobank) error {
	return c.upload(ctx, "Organization", biobank.Identifier, biobankResource(biobank))
}

func (c *Client) UploadNetwork(ctx context.Context, network *miabis.Network) error {
	managingOrgFHIRID, err := c.LookupOrganizationID(ctx, network.ManagingBiobankID)
	if err != nil && !errors.Is(err, ErrOrganizationNotFound) {
		return &PublishError{ResourceType: "Organization", Identifier: network.Identifier, reason: err}
	}
	return c.upload(ctx, "Organization", network.Identifier, networkResource(network, managingOrgFHIRID))
}

func (c *Client) UploadCollection(ctx context.Context, collection *miabis.Collection) error {
	return c.upload(ctx, "Group", collection.Identifier, collectionResource(collection))
}

// upload searches the store by identifier, then creates or updates the
// resource depending on whether a match already exists.
func (c *Client) upload(ctx context.Context, resourceType, identifier string, resource map[string]interface{}) error {
	existingID, err := c.searchID(ctx, resourceType, identifier)
	if err != nil && !errors.Is(err, ErrResourceNotFound) {
		return &PublishError{ResourceType: resourceType, Identifier: identifier, reason: err}
	}

	method := http.MethodPost
	target := fmt.Sprintf("%s/%s", c.baseURL, resourceType)
	if existingID != "" {
		method = http.MethodPut
		target = fmt.Sprintf("%s/%s/%s", c.baseURL, resourceType, existingID)
		resource["id"] = existingID
	}

	body, err := json.Marshal(resource)
	if err != nil {
		return &PublishError{ResourceType: resourceType, Identifier: identifier, reason: err}
	}

	err = httpclient.Retry(ctx, c.retryAttempts, 100*time.Millisecond, func() error {
		req, reqErr := http.NewRequestWithContext(ctx, method, target, bytes.NewReader(body))
		if reqErr != nil {
			return reqErr
		}
		req.Header.Set("Content-Type", "application/fhir+json")
		c.authorize(req)

		resp, doErr := c.httpClient.Do(req)
		if doErr != nil {
			return doErr
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			raw, _ := io.ReadAll(resp.Body)
			return fmt.Errorf("store returned %d - %s", resp.StatusCode, string(raw))
		}
		return nil
	})
	if err != nil {
		return &PublishError{ResourceType: resourceType, Identifier: identifier, reason: err}
	}

	logger.Log.WithFields(map[string]interface{}{
		"resource_type": resourceType,
		"identifier":    identifier,
		"updated":       existingID != "",
	}).Info("Resource published")
	return nil
}

// LookupOrganizationID resolves a directory identifier to the store-assigned
// id of the first matching Organization. Misses return
// ErrOrganizationNotFound. Hits are cached when a cache is configured.
func (c *Client) LookupOrganizationID(ctx context.Context, identifier string) (string, error) {
	cacheKey := "org-fhir-id:" + identifier
	if c.cache != nil {
		if cached, err := c.cache.Get(ctx, cacheKey).Result(); err == nil && cached != "" {
			return cached, nil
		}
	}

	id, err := c.searchID(ctx, "Organization", identifier)
	if err != nil {
		if errors.Is(err, ErrResourceNotFound) {
			return "", ErrOrganizationNotFound
		}
		return "", err
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, cacheKey, id, c.cacheTTL).Err(); err != nil {
			logger.Log.WithError(err).Warn("Failed to cache organization id")
		}
	}
	return id, nil
}

func (c *Client) searchID(ctx context.Context, resourceType, identifier string) (string, error) {
	target := fmt.Sprintf("%s/%s?identifier=%s", c.baseURL, resourceType, url.QueryEscape(identifier))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", err
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("search returned %d - %s", resp.StatusCode, string(raw))
	}

	var bundle struct {
		Total int `json:"total"`
		Entry []struct {
			Resource struct {
				ID string `json:"id"`
			} `json:"resource"`
		} `json:"entry"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&bundle); err != nil {
		return "", fmt.Errorf("decoding search bundle: %w", err)
	}
	if bundle.Total == 0 || len(bundle.Entry) == 0 {
		return "", ErrResourceNotFound
	}
	return bundle.Entry[0].Resource.ID, nil
}

func (c *Client) authorize(req *http.Request) {
	if c.username != "" || c.password != "" {
		req.SetBasicAuth(c.username, c.password)
	}
}
