package platform

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, "test-key", time.Second, nil)
}

func TestCreateRoom(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/rooms", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "standup", body["name"])

		json.NewEncoder(w).Encode(Room{ID: "room-1", Name: body["name"]})
	})

	room, err := client.CreateRoom(context.Background(), "standup", "daily")
	require.NoError(t, err)
	require.Equal(t, "room-1", room.ID)
}

func TestIssueToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/tokens", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{"token": "jwt-abc"})
	})

	token, err := client.IssueToken(context.Background(), "room-1", "user-1", "host")
	require.NoError(t, err)
	require.Equal(t, "jwt-abc", token)
}

func TestStartStopRecording(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/recordings/room/room-1/start":
			json.NewEncoder(w).Encode(Recording{ID: "rec-1", Status: "starting"})
		case "/recordings/rec-1/stop":
			json.NewEncoder(w).Encode(Recording{ID: "rec-1", Status: "stopped"})
		default:
			http.NotFound(w, r)
		}
	})

	started, err := client.StartRecording(context.Background(), "room-1")
	require.NoError(t, err)
	require.Equal(t, "starting", started.Status)

	stopped, err := client.StopRecording(context.Background(), "rec-1")
	require.NoError(t, err)
	require.Equal(t, "stopped", stopped.Status)
}

func TestListRecordings_DataEnvelope(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/recordings/room/room-1", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"data": []Recording{{ID: "rec-1"}, {ID: "rec-2"}},
		})
	})

	recordings, err := client.ListRecordings(context.Background(), "room-1")
	require.NoError(t, err)
	require.Len(t, recordings, 2)
}

func TestAssetDownloadURL(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/recording-assets/asset-1/presigned-url", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{"url": "https://cdn.example.com/a.mp4"})
	})

	url, err := client.AssetDownloadURL(context.Background(), "asset-1")
	require.NoError(t, err)
	require.Equal(t, "https://cdn.example.com/a.mp4", url)
}

func TestAssetDownloadURL_EmptyURL(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{})
	})

	_, err := client.AssetDownloadURL(context.Background(), "asset-1")
	require.ErrorIs(t, err, ErrNoAssetURL)
}

func TestStatusMapping(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/recordings/missing":
			w.WriteHeader(http.StatusNotFound)
		case "/recordings/secret":
			w.WriteHeader(http.StatusForbidden)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	})

	_, err := client.GetRecording(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = client.GetRecording(context.Background(), "secret")
	require.ErrorIs(t, err, ErrUnauthorized)

	_, err = client.GetRecording(context.Background(), "broken")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNotFound)
}

func TestFetchAsset(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Empty(t, r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "video/mp4")
		w.Write(make([]byte, 2048))
	})

	payload, err := client.FetchAsset(context.Background(), clientURL(t, client)+"/files/rec.mp4")
	require.NoError(t, err)
	defer payload.Body.Close()
	require.Equal(t, "video/mp4", payload.ContentType)
	require.Equal(t, int64(2048), payload.Size)
}

func TestFetchAsset_ErrorStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := client.FetchAsset(context.Background(), clientURL(t, client)+"/files/rec.mp4")
	require.Error(t, err)
}

func clientURL(t *testing.T, c *Client) string {
	t.Helper()
	return c.baseURL
}

func TestFreshAssetID(t *testing.T) {
	rec := &Recording{AssetID: "top"}
	require.Equal(t, "top", rec.FreshAssetID())

	rec = &Recording{Assets: []Asset{{ID: ""}, {ID: "nested"}}}
	require.Equal(t, "nested", rec.FreshAssetID())

	rec = &Recording{}
	require.Empty(t, rec.FreshAssetID())
}
