package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"feed-sync/core/reconcile"
	"feed-sync/core/transport"
	"feed-sync/core/utils"

	"go.uber.org/zap"
)

const (
	feedStatePath = "/api/v2/feed-state"
	packagePath   = "/api/v2/package/%s/%s"
)

// Client queries the feed over HTTP. It implements reconcile.Feed.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient creates a feed client from configuration.
func NewClient(cfg Config, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		http:    &http.Client{Transport: transport.New(cfg.TimeoutSeconds)},
		logger:  logger,
	}
}

// Snapshot fetches the current feed state.
func (c *Client) Snapshot(ctx context.Context) (*reconcile.FeedSnapshot, error) {
	c.logger.Info("Retrieving package info from feed", zap.String("feed_url", c.baseURL))

	resp, err := c.get(ctx, c.baseURL+feedStatePath)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var state feedStateResponse
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		return nil, fmt.Errorf("failed to decode feed state: %w", err)
	}

	snapshot := &reconcile.FeedSnapshot{
		Timestamp: utils.TicksToTime(state.Date),
		Packages:  make([]reconcile.PackageEntry, 0, len(state.Packages)),
	}
	for _, p := range state.Packages {
		snapshot.Packages = append(snapshot.Packages, reconcile.PackageEntry{
			ID:             p.ID,
			Type:           p.PackageType,
			Versions:       p.Versions,
			PublishedDates: utils.TicksToTimes(p.Dates),
		})
	}

	c.logger.Info("Retrieved packages from feed",
		zap.Int("package_count", len(snapshot.Packages)),
		zap.String("feed_url", c.baseURL))

	return snapshot, nil
}

// Download opens the artifact stream for a package version. The caller must close it.
func (c *Client) Download(ctx context.Context, packageID, version string) (io.ReadCloser, error) {
	u := c.DownloadURL(packageID, version)
	c.logger.Info("Downloading package",
		zap.String("package", packageID),
		zap.String("version", version),
		zap.String("package_url", u))

	resp, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// DownloadURL returns the artifact URL of a package version.
func (c *Client) DownloadURL(packageID, version string) string {
	return c.baseURL + fmt.Sprintf(packagePath, url.PathEscape(packageID), url.PathEscape(version))
}

// get performs a GET and turns any non-2xx status into an error.
func (c *Client) get(ctx context.Context, u string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", u, err)
	}
	req.Header.Set("Accept", "application/json, application/octet-stream")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", u, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		return nil, &StatusError{URL: u, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	return resp, nil
}

// StatusError reports an unexpected HTTP status from the feed.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("GET %s: unexpected status %d: %s", e.URL, e.StatusCode, e.Body)
}
