// Package media uploads workout photos and videos to object storage and
// returns public URLs to attach to the session. Failures are classified so
// the caller can tell a deployment problem from a transient one.
package media

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// Classified upload failures.
var (
	// ErrNotConfigured means no media endpoint is set; uploads are off.
	ErrNotConfigured = errors.New("media uploads not configured")
	// ErrBucketMissing means the endpoint answered but the bucket does not exist.
	ErrBucketMissing = errors.New("media bucket not found")
	// ErrAccessDenied means the credentials were rejected.
	ErrAccessDenied = errors.New("media access denied")
)

// Client uploads files to the media endpoint.
type Client struct {
	url        string
	bucket     string
	token      string
	httpClient *http.Client
}

// NewClient creates an upload client. An empty url yields a client whose
// Upload always returns ErrNotConfigured.
func NewClient(url, bucket, token string) *Client {
	return &Client{
		url:    url,
		bucket: bucket,
		token:  token,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Configured reports whether uploads can be attempted.
func (c *Client) Configured() bool {
	return c.url != ""
}

// Upload sends one file and returns its public URL.
func (c *Client) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("building upload form: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", fmt.Errorf("reading upload body: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("closing upload form: %w", err)
	}

	endpoint := fmt.Sprintf("%s/buckets/%s/objects", c.url, c.bucket)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return "", fmt.Errorf("building upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("uploading %s: %w", filename, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
	case http.StatusNotFound:
		return "", fmt.Errorf("uploading %s: %w", filename, ErrBucketMissing)
	case http.StatusUnauthorized, http.StatusForbidden:
		return "", fmt.Errorf("uploading %s: %w", filename, ErrAccessDenied)
	default:
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("upload failed (status %d): %s", resp.StatusCode, body)
	}

	var out struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decoding upload response: %w", err)
	}
	if out.URL == "" {
		return "", fmt.Errorf("upload response missing url")
	}
	return out.URL, nil
}
