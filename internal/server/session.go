package server

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/example/go-faceblend/internal/engine"
	"github.com/example/go-faceblend/internal/expression"
	"github.com/example/go-faceblend/internal/viseme"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a frame to the peer.
	writeWait = 10 * time.Second

	// Maximum message size allowed from peer. Events are small JSON objects.
	maxMessageSize = 4 * 1024

	// Duration assumed for phoneme events that omit one.
	defaultPhonemeMS = 120
)

// inboundMessage is an event pushed by the client. Type selects which fields
// apply: "phoneme" uses code/duration_ms/intensity, "mode" uses the rest.
type inboundMessage struct {
	Type string `json:"type"`

	Code       string  `json:"code,omitempty"`
	DurationMS int     `json:"duration_ms,omitempty"`
	Intensity  float64 `json:"intensity,omitempty"`

	Listening bool   `json:"listening,omitempty"`
	Speaking  bool   `json:"speaking,omitempty"`
	Emotion   string `json:"emotion,omitempty"`
}

// frameMessage is one composed frame streamed to the client.
type frameMessage struct {
	Type    string             `json:"type"`
	TSMS    int64              `json:"ts_ms"`
	Weights map[string]float64 `json:"weights"`
	Clip    string             `json:"clip,omitempty"`
	Speed   float64            `json:"speed,omitempty"`
	Pose    string             `json:"pose,omitempty"`
}

// mailbox holds the latest value of each input. Events arriving between
// frames collapse to the most recent one; there is no queue or backpressure.
type mailbox struct {
	mu    sync.Mutex
	event *viseme.Event
	mode  *inboundMessage
}

func (m *mailbox) putEvent(ev viseme.Event) {
	m.mu.Lock()
	m.event = &ev
	m.mu.Unlock()
}

func (m *mailbox) putMode(msg inboundMessage) {
	m.mu.Lock()
	m.mode = &msg
	m.mu.Unlock()
}

// take drains the mailbox, returning whichever inputs changed since the last
// frame tick.
func (m *mailbox) take() (*viseme.Event, *inboundMessage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ev, mode := m.event, m.mode
	m.event, m.mode = nil, nil
	return ev, mode
}

// session owns one engine and one websocket connection. The engine is only
// touched from the tick loop goroutine; the reader goroutine communicates
// through the latest-value mailbox, preserving the engine's single-writer
// contract.
type session struct {
	id   string
	conn *websocket.Conn
	eng  *engine.Engine
	fps  int
	log  *slog.Logger

	box mailbox
}

func newSession(id string, conn *websocket.Conn, eng *engine.Engine, fps int, log *slog.Logger) *session {
	if fps <= 0 {
		fps = 60
	}
	return &session{
		id:   id,
		conn: conn,
		eng:  eng,
		fps:  fps,
		log:  log,
	}
}

// run services the session until the client disconnects or ctx is cancelled.
func (s *session) run(ctx context.Context) {
	defer func() { _ = s.conn.Close() }()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go s.readLoop(cancel)

	interval := time.Second / time.Duration(s.fps)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	start := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			ev, mode := s.box.take()
			if ev != nil {
				s.eng.OnPhoneme(*ev)
			}
			if mode != nil {
				s.eng.OnMode(mode.Listening, mode.Speaking, expression.Emotion(mode.Emotion))
			}

			frame := s.eng.Tick(now)

			msg := frameMessage{
				Type:    "frame",
				TSMS:    now.Sub(start).Milliseconds(),
				Weights: frame.Weights,
				Clip:    frame.Clip,
				Speed:   frame.Speed,
				Pose:    frame.Pose,
			}
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteJSON(msg); err != nil {
				s.log.Debug("frame write failed", slog.String("error", err.Error()))
				return
			}
		}
	}
}

// readLoop decodes inbound events into the mailbox until the connection
// drops, then cancels the tick loop.
func (s *session) readLoop(cancel context.CancelFunc) {
	defer cancel()
	s.conn.SetReadLimit(maxMessageSize)

	for {
		var msg inboundMessage
		if err := s.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Debug("session read failed", slog.String("error", err.Error()))
			}
			return
		}

		switch msg.Type {
		case "phoneme":
			durMS := msg.DurationMS
			if durMS <= 0 {
				durMS = defaultPhonemeMS
			}
			s.box.putEvent(viseme.Event{
				Code:      msg.Code,
				Start:     time.Now(),
				Duration:  time.Duration(durMS) * time.Millisecond,
				Intensity: msg.Intensity,
			})
		case "mode":
			s.box.putMode(msg)
		default:
			s.log.Debug("unknown message type", slog.String("type", msg.Type))
		}
	}
}
