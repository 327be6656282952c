package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

var (
	ErrNotFound     = errors.New("platform: resource not found")
	ErrNoAssetURL   = errors.New("platform: no download url for asset")
	ErrUnauthorized = errors.New("platform: unauthorized")
)

const defaultTimeout = 15 * time.Second

// Client talks to the video platform's management REST API. All calls are
// bounded by the configured timeout on top of the caller's context.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
	log     *slog.Logger
}

func NewClient(baseURL, apiKey string, timeout time.Duration, log *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: baseURL,
		apiKey:  apiKey,
		log:     log,
	}
}

func (c *Client) CreateRoom(ctx context.Context, name, description string) (*Room, error) {
	body := map[string]string{"name": name, "description": description}

	var room Room
	if err := c.do(ctx, http.MethodPost, "/rooms", body, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

// IssueToken mints a bearer token that lets the user enter the live room.
func (c *Client) IssueToken(ctx context.Context, roomID, userID, role string) (string, error) {
	body := map[string]string{"room_id": roomID, "user_id": userID, "role": role}

	var resp struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/tokens", body, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

func (c *Client) StartRecording(ctx context.Context, roomID string) (*Recording, error) {
	var rec Recording
	err := c.do(ctx, http.MethodPost, "/recordings/room/"+roomID+"/start", map[string]string{}, &rec)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (c *Client) StopRecording(ctx context.Context, recordingID string) (*Recording, error) {
	var rec Recording
	err := c.do(ctx, http.MethodPost, "/recordings/"+recordingID+"/stop", map[string]string{}, &rec)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (c *Client) GetRecording(ctx context.Context, recordingID string) (*Recording, error) {
	var rec Recording
	if err := c.do(ctx, http.MethodGet, "/recordings/"+recordingID, nil, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (c *Client) ListRecordings(ctx context.Context, roomID string) ([]Recording, error) {
	var resp struct {
		Data []Recording `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/recordings/room/"+roomID, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// AssetDownloadURL asks the platform for a short-lived signed link to the
// asset's media file.
func (c *Client) AssetDownloadURL(ctx context.Context, assetID string) (string, error) {
	var resp struct {
		URL string `json:"url"`
	}
	if err := c.do(ctx, http.MethodGet, "/recording-assets/"+assetID+"/presigned-url", nil, &resp); err != nil {
		return "", err
	}
	if resp.URL == "" {
		return "", ErrNoAssetURL
	}
	return resp.URL, nil
}

// AssetPayload is a fetched remote resource. The caller owns Body.
type AssetPayload struct {
	ContentType string
	Size        int64
	Body        io.ReadCloser
}

// FetchAsset retrieves an already-resolved URL (signed link, platform URL).
// No API auth header is attached: the URL carries its own credentials.
func (c *Client) FetchAsset(ctx context.Context, url string) (*AssetPayload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("platform: fetch %q: status %d", url, resp.StatusCode)
	}

	return &AssetPayload{
		ContentType: resp.Header.Get("Content-Type"),
		Size:        resp.ContentLength,
		Body:        resp.Body,
	}, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		c.log.Error("platform request failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.Int("status", resp.StatusCode),
		)
		return fmt.Errorf("platform: %s %s: status %d: %s", method, path, resp.StatusCode, string(data))
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
