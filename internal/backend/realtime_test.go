package backend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/gelogrammer/voice-gateway/internal/domain"
)

func TestBuildFeedURL(t *testing.T) {
	t.Parallel()

	url, err := buildFeedURL("https://api.example.com/v1", "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(url, "wss://api.example.com/v1/progress/feed") {
		t.Fatalf("unexpected feed url: %s", url)
	}
	if !strings.Contains(url, "user_id=user-1") {
		t.Fatalf("expected user id in url: %s", url)
	}

	url, err = buildFeedURL("http://localhost:9000/", "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(url, "ws://localhost:9000/progress/feed") {
		t.Fatalf("unexpected feed url: %s", url)
	}
}

func TestBuildFeedURLInvalidBase(t *testing.T) {
	t.Parallel()

	if _, err := buildFeedURL(":// bad", "user-1"); err == nil {
		t.Fatalf("expected invalid base url error")
	}
}

func TestRealtimeFeedDeliversSnapshots(t *testing.T) {
	t.Parallel()

	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("user_id"); got != "user-1" {
			t.Errorf("unexpected user id %q", got)
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		defer conn.Close()

		// Noise messages are skipped by the reader.
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"ping"}`))
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`not json`))
		_ = conn.WriteMessage(websocket.TextMessage, []byte(
			`{"type":"progress","progress":{"completedScriptIds":["hf-1","hf-2"],"currentCategory":"HIGH_FLUENCY","lastUpdated":"2025-03-01T10:00:00Z"}}`))
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	}))
	defer server.Close()

	feed := NewRealtimeFeed(RealtimeConfig{BaseURL: server.URL}, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	snapshots, err := feed.Subscribe(ctx, "user-1")
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	select {
	case snapshot, ok := <-snapshots:
		if !ok {
			t.Fatalf("feed closed before delivering a snapshot")
		}
		if len(snapshot.CompletedScriptIDs) != 2 {
			t.Fatalf("unexpected snapshot: %+v", snapshot)
		}
		if snapshot.CurrentCategory != domain.CategoryHighFluency {
			t.Fatalf("unexpected category: %s", snapshot.CurrentCategory)
		}
	case <-ctx.Done():
		t.Fatalf("timed out waiting for snapshot")
	}

	// The server's normal close ends the subscription channel.
	select {
	case _, ok := <-snapshots:
		if ok {
			t.Fatalf("expected channel to close")
		}
	case <-ctx.Done():
		t.Fatalf("timed out waiting for channel close")
	}
}

func TestRealtimeFeedDialFailure(t *testing.T) {
	t.Parallel()

	feed := NewRealtimeFeed(RealtimeConfig{BaseURL: "http://127.0.0.1:1"}, nil)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if _, err := feed.Subscribe(ctx, "user-1"); err == nil {
		t.Fatalf("expected dial failure")
	}
}
