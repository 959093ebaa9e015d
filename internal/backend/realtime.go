package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/gelogrammer/voice-gateway/internal/domain"
)

// RealtimeConfig controls the progress feed websocket.
type RealtimeConfig struct {
	BaseURL string
	Token   string
}

// RealtimeFeed subscribes to progress snapshots pushed by the backend when
// another device writes the durable copy. Delivery, not polling.
type RealtimeFeed struct {
	cfg RealtimeConfig
	log *zap.Logger
}

func NewRealtimeFeed(cfg RealtimeConfig, log *zap.Logger) *RealtimeFeed {
	if log == nil {
		log = zap.NewNop()
	}
	return &RealtimeFeed{cfg: cfg, log: log}
}

func (f *RealtimeFeed) Subscribe(ctx context.Context, userID string) (<-chan domain.ProgressSnapshot, error) {
	wsURL, err := buildFeedURL(f.cfg.BaseURL, userID)
	if err != nil {
		return nil, err
	}

	headers := http.Header{}
	if f.cfg.Token != "" {
		headers.Set("Authorization", "Bearer "+f.cfg.Token)
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, headers)
	if err != nil {
		return nil, fmt.Errorf("connect to progress feed: %w", err)
	}

	sub := &feedSubscription{
		conn:      conn,
		snapshots: make(chan domain.ProgressSnapshot, 8),
		log:       f.log,
	}
	go sub.readLoop()
	go func() {
		<-ctx.Done()
		sub.close()
	}()
	return sub.snapshots, nil
}

type feedSubscription struct {
	conn      *websocket.Conn
	snapshots chan domain.ProgressSnapshot
	log       *zap.Logger
	closeOnce sync.Once
}

func (s *feedSubscription) close() {
	s.closeOnce.Do(func() {
		_ = s.conn.Close()
	})
}

// feedMessage is the wire shape of one pushed progress update.
type feedMessage struct {
	Type     string `json:"type"`
	Progress struct {
		CompletedScriptIDs []string  `json:"completedScriptIds"`
		CurrentCategory    string    `json:"currentCategory"`
		LastUpdated        time.Time `json:"lastUpdated"`
	} `json:"progress"`
}

func (s *feedSubscription) readLoop() {
	defer close(s.snapshots)
	defer s.close()

	for {
		_, payload, err := s.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived,
			) {
				s.log.Warn("progress feed closed unexpectedly", zap.Error(err))
			}
			return
		}

		var msg feedMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			continue
		}
		if !strings.EqualFold(msg.Type, "progress") {
			continue
		}

		snapshot := domain.ProgressSnapshot{
			CompletedScriptIDs: msg.Progress.CompletedScriptIDs,
			CurrentCategory:    domain.Category(msg.Progress.CurrentCategory),
			LastUpdated:        msg.Progress.LastUpdated,
		}
		select {
		case s.snapshots <- snapshot:
		default:
			// A full buffer means the consumer is behind; the next snapshot
			// supersedes this one anyway.
		}
	}
}

func buildFeedURL(base, userID string) (string, error) {
	base = strings.TrimSpace(base)
	if strings.HasPrefix(base, "https://") {
		base = "wss://" + strings.TrimPrefix(base, "https://")
	} else if strings.HasPrefix(base, "http://") {
		base = "ws://" + strings.TrimPrefix(base, "http://")
	}
	base = strings.TrimRight(base, "/")

	feedURL, err := url.Parse(base + "/progress/feed")
	if err != nil {
		return "", fmt.Errorf("invalid feed base URL: %w", err)
	}
	query := feedURL.Query()
	query.Set("user_id", userID)
	feedURL.RawQuery = query.Encode()
	return feedURL.String(), nil
}
