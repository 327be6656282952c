package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

var ErrObjectNotFound = errors.New("storage: object not found")

const defaultTimeout = 30 * time.Second

// Client talks to the auth backend's object-storage REST API: upload by
// path, signed GET links, delete. Objects are write-once per path.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
	bucket  string
	log     *slog.Logger
}

func NewClient(baseURL, apiKey, bucket string, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		http:    &http.Client{Timeout: defaultTimeout},
		baseURL: baseURL,
		apiKey:  apiKey,
		bucket:  bucket,
		log:     log,
	}
}

func (c *Client) Upload(ctx context.Context, path string, r io.Reader, contentType string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.objectURL(path), r)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("storage: upload %q: status %d: %s", path, resp.StatusCode, string(data))
	}
	return nil
}

// SignedURL returns a temporary GET link for the object.
func (c *Client) SignedURL(ctx context.Context, path string, ttl time.Duration) (string, error) {
	body := strings.NewReader(fmt.Sprintf(`{"expiresIn":%d}`, int(ttl.Seconds())))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/object/sign/"+c.bucket+"/"+strings.TrimPrefix(path, "/"), body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", ErrObjectNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("storage: sign %q: status %d", path, resp.StatusCode)
	}

	var signed struct {
		SignedURL string `json:"signedURL"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&signed); err != nil {
		return "", err
	}
	if signed.SignedURL == "" {
		return "", errors.New("storage: empty signed url")
	}
	if strings.HasPrefix(signed.SignedURL, "http") {
		return signed.SignedURL, nil
	}
	return c.baseURL + "/" + strings.TrimPrefix(signed.SignedURL, "/"), nil
}

func (c *Client) Remove(ctx context.Context, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.objectURL(path), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrObjectNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("storage: remove %q: status %d", path, resp.StatusCode)
	}
	return nil
}

func (c *Client) objectURL(path string) string {
	return c.baseURL + "/object/" + c.bucket + "/" + strings.TrimPrefix(path, "/")
}
