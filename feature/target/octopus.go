package target

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"feed-sync/core/reconcile"
	"feed-sync/core/transport"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// apiKeyHeader carries the API key on every request to the deployment server.
const apiKeyHeader = "X-Octopus-ApiKey"

// Octopus talks to the built-in package repository of an Octopus Deploy server.
type Octopus struct {
	baseURL   string
	apiKey    string
	space     string
	overwrite bool
	pageSize  int
	http      *http.Client
	fs        afero.Fs
	logger    *zap.Logger
}

// NewOctopus creates an Octopus Deploy target.
func NewOctopus(cfg Config, fs afero.Fs, logger *zap.Logger) *Octopus {
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 100
	}
	return &Octopus{
		baseURL:   strings.TrimRight(cfg.URL, "/"),
		apiKey:    cfg.APIKey,
		space:     cfg.Space,
		overwrite: cfg.Overwrite,
		pageSize:  pageSize,
		http:      &http.Client{Transport: transport.New(cfg.TimeoutSeconds)},
		fs:        fs,
		logger:    logger,
	}
}

// packagePage is one page of GET /api/packages.
type packagePage struct {
	TotalResults int               `json:"TotalResults"`
	Items        []packageResource `json:"Items"`
}

type packageResource struct {
	PackageID      string    `json:"PackageId"`
	Version        string    `json:"Version"`
	LastModifiedOn time.Time `json:"LastModifiedOn"`
}

// ListPackages returns every stored version of the package, following pagination.
// The server filter is a prefix match, so items are kept only when the id is equal.
func (o *Octopus) ListPackages(ctx context.Context, packageID string) ([]reconcile.InventoryEntry, error) {
	var entries []reconcile.InventoryEntry

	for skip := 0; ; {
		q := url.Values{}
		q.Set("nuGetPackageId", packageID)
		q.Set("skip", strconv.Itoa(skip))
		q.Set("take", strconv.Itoa(o.pageSize))

		var page packagePage
		if err := o.getJSON(ctx, o.apiPath("packages")+"?"+q.Encode(), &page); err != nil {
			return nil, err
		}

		for _, item := range page.Items {
			if item.PackageID != packageID {
				continue
			}
			entries = append(entries, reconcile.InventoryEntry{
				Version:        item.Version,
				LastModifiedOn: item.LastModifiedOn,
			})
		}

		skip += len(page.Items)
		if len(page.Items) == 0 || skip >= page.TotalResults {
			break
		}
	}

	o.logger.Debug("Listed target packages",
		zap.String("package", packageID),
		zap.Int("versions", len(entries)))

	return entries, nil
}

// PushPackage uploads a staged artifact as multipart form data.
// The file is streamed from disk rather than buffered.
func (o *Octopus) PushPackage(ctx context.Context, packageID, version, path string) error {
	f, err := o.fs.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open staged package %s: %w", path, err)
	}
	defer f.Close()

	o.logger.Info("Uploading package to deployment server",
		zap.String("package", packageID),
		zap.String("version", version),
		zap.String("path", path))

	pr, pw := io.Pipe()
	defer pr.Close()
	form := multipart.NewWriter(pw)
	go func() {
		part, err := form.CreateFormFile("data", filepath.Base(path))
		if err == nil {
			_, err = io.Copy(part, f)
		}
		if err == nil {
			err = form.Close()
		}
		pw.CloseWithError(err)
	}()

	q := url.Values{}
	if o.overwrite {
		q.Set("replace", "true")
		q.Set("overwriteMode", "OverwriteExisting")
	}
	u := o.apiPath("packages/raw")
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, pr)
	if err != nil {
		return fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := o.do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()

	o.logger.Info("Successfully uploaded package to deployment server",
		zap.String("package", packageID),
		zap.String("version", version))
	return nil
}

func (o *Octopus) apiPath(resource string) string {
	if o.space != "" {
		return o.baseURL + "/api/" + url.PathEscape(o.space) + "/" + resource
	}
	return o.baseURL + "/api/" + resource
}

func (o *Octopus) getJSON(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to build request for %s: %w", u, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := o.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", u, err)
	}
	return nil
}

// do authenticates the request and turns any non-2xx status into a *StatusError.
func (o *Octopus) do(req *http.Request) (*http.Response, error) {
	req.Header.Set(apiKeyHeader, o.apiKey)

	resp, err := o.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s failed: %w", req.Method, req.URL.Redacted(), err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		return nil, &StatusError{
			Method:     req.Method,
			URL:        req.URL.Redacted(),
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}
	return resp, nil
}

// StatusError reports an unexpected HTTP status from the deployment server.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: unexpected status %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}
