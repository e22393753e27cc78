package r2

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bremray/bremray-backend/pkg/config"
	"github.com/bremray/bremray-backend/pkg/logger"
)

const pingTimeout = 5 * time.Second

// Client talks to an S3-compatible object store (Cloudflare R2) over its
// REST API with SigV4 request signing.
type Client struct {
	httpClient *http.Client
	endpoint   string
	bucket     string
	region     string
	publicURL  string
	creds      credentials
	now        func() time.Time
}

type credentials struct {
	accessKeyID     string
	secretAccessKey string
}

// Pinger exposes the health-check surface.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ObjectStore is the surface the photo service depends on.
type ObjectStore interface {
	PutObject(ctx context.Context, key, contentType string, body []byte) error
	DeleteObject(ctx context.Context, key string) error
	PublicObjectURL(key string) string
}

// NewClient validates configuration and returns a ready client. Unlike the
// database, the store is not pinged eagerly; R2 buckets reject anonymous
// listings and the first real request surfaces credential problems anyway.
func NewClient(ctx context.Context, cfg config.R2Config, logg *logger.Logger) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("r2 endpoint is required")
	}
	if cfg.BucketName == "" {
		return nil, errors.New("r2 bucket name is required")
	}
	if cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" {
		return nil, errors.New("r2 credentials are required")
	}

	client := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		endpoint:   strings.TrimRight(cfg.Endpoint, "/"),
		bucket:     cfg.BucketName,
		region:     cfg.Region,
		publicURL:  strings.TrimRight(cfg.PublicURL, "/"),
		creds: credentials{
			accessKeyID:     cfg.AccessKeyID,
			secretAccessKey: cfg.SecretAccessKey,
		},
		now: time.Now,
	}
	if client.region == "" {
		client.region = "auto"
	}

	if logg != nil {
		logg.Info(ctx, "r2 client initialized")
	}
	return client, nil
}

// PutObject uploads body under key with the supplied content type.
func (c *Client) PutObject(ctx context.Context, key, contentType string, body []byte) error {
	req, err := c.newObjectRequest(ctx, http.MethodPut, key, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)
	req.ContentLength = int64(len(body))

	c.sign(req, payloadHash(body))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("put object %s: %s", key, responseError(resp))
	}
	return nil
}

// DeleteObject removes the object stored under key. Deleting a missing
// object is not an error (S3 semantics).
func (c *Client) DeleteObject(ctx context.Context, key string) error {
	req, err := c.newObjectRequest(ctx, http.MethodDelete, key, nil)
	if err != nil {
		return err
	}

	c.sign(req, emptyPayloadHash)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("delete object %s: %s", key, responseError(resp))
	}
	return nil
}

// PublicObjectURL returns the caller-facing URL for an object key.
func (c *Client) PublicObjectURL(key string) string {
	return c.publicURL + "/" + strings.TrimLeft(key, "/")
}

// Ping issues a signed HEAD against the bucket to verify reachability and
// credentials.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil {
		return errors.New("r2 client not initialized")
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	u := fmt.Sprintf("%s/%s", c.endpoint, url.PathEscape(c.bucket))
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, u, nil)
	if err != nil {
		return err
	}

	c.sign(req, emptyPayloadHash)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("r2 bucket check failed: %s", resp.Status)
	}
	return nil
}

func (c *Client) newObjectRequest(ctx context.Context, method, key string, body io.Reader) (*http.Request, error) {
	if strings.TrimSpace(key) == "" {
		return nil, errors.New("object key is required")
	}
	u := &url.URL{Path: "/" + c.bucket + "/" + strings.TrimLeft(key, "/")}
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+u.EscapedPath(), body)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", method, err)
	}
	return req, nil
}

func responseError(resp *http.Response) string {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	if len(b) > 0 {
		return fmt.Sprintf("%s: %s", resp.Status, strings.TrimSpace(string(b)))
	}
	return resp.Status
}
