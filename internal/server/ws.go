// internal/server/ws.go
package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/takashiotakes/BattleShipGame/engine"
	"github.com/takashiotakes/BattleShipGame/internal/auth"
	"github.com/takashiotakes/BattleShipGame/internal/game"
)

const wsWriteTimeout = 5 * time.Second

// subscriber is one websocket connection attached to a match feed. seatID is
// Nil for spectators, who receive public events only.
type subscriber struct {
	seatID uuid.UUID
	ch     chan game.MatchEvent
}

// hub fans match events out to subscribers. Broadcast callbacks run while
// the match lock is held, so sends never block: a subscriber that cannot
// keep up drops events and resyncs from the next private_sync_state.
type hub struct {
	mu   sync.Mutex
	subs map[*subscriber]bool
}

func newHub() *hub {
	return &hub{subs: make(map[*subscriber]bool)}
}

func (h *hub) subscribe(seatID uuid.UUID) *subscriber {
	sub := &subscriber{seatID: seatID, ch: make(chan game.MatchEvent, 64)}
	h.mu.Lock()
	h.subs[sub] = true
	h.mu.Unlock()
	return sub
}

func (h *hub) unsubscribe(sub *subscriber) {
	h.mu.Lock()
	if h.subs[sub] {
		delete(h.subs, sub)
		close(sub.ch)
	}
	h.mu.Unlock()
}

func (sub *subscriber) send(ev game.MatchEvent) {
	select {
	case sub.ch <- ev:
	default:
		// Slow consumer; drop.
	}
}

// broadcast delivers a public event to every subscriber.
func (h *hub) broadcast(ev game.MatchEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs {
		sub.send(ev)
	}
}

// broadcastToSeat delivers a private event to the seat's connections only.
func (h *hub) broadcastToSeat(seatID uuid.UUID, ev game.MatchEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs {
		if sub.seatID == seatID {
			sub.send(ev)
		}
	}
}

// handleWS upgrades the connection and streams match events. A ?token= query
// carrying a seat token binds the connection to that seat and unlocks its
// private events; without it the connection is a spectator feed.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	e, ok := s.lookupMatch(w, r)
	if !ok {
		return
	}
	m, h := e.m, e.hub

	var seatID uuid.UUID
	if q := r.URL.Query().Get("token"); q != "" {
		tokMatch, id, err := auth.VerifySeatToken(s.secret, q)
		if err != nil {
			writeJSON(w, 401, map[string]string{"error": "invalid token"})
			return
		}
		if tokMatch != m.ID {
			writeJSON(w, 403, map[string]string{"error": "token is for another match"})
			return
		}
		seatID = id
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("websocket accept failed")
		return
	}

	sub := h.subscribe(seatID)
	log := s.log.WithFields(logrus.Fields{"match_id": m.ID, "seat": seatID})
	log.Info("websocket subscribed")

	if seatID != uuid.Nil {
		m.HandleReconnect(seatID)
	}

	ctx := r.Context()

	// Writer: forward hub events until the subscription closes.
	go func() {
		for ev := range sub.ch {
			writeCtx, cancel := context.WithTimeout(ctx, wsWriteTimeout)
			err := wsjson.Write(writeCtx, conn, ev)
			cancel()
			if err != nil {
				return
			}
		}
	}()

	// Reader: the feed is one-way; we only watch for the close frame.
	for {
		if _, _, err := conn.Read(ctx); err != nil {
			break
		}
	}

	h.unsubscribe(sub)
	if seatID != uuid.Nil {
		m.Mu.Lock()
		isHuman := false
		for _, si := range m.Seats {
			if si.ID == seatID && si.Role == engine.RoleHuman {
				isHuman = true
			}
		}
		m.Mu.Unlock()
		if isHuman {
			m.HandleDisconnect(seatID)
		}
	}
	log.Info("websocket closed")
	conn.Close(websocket.StatusNormalClosure, "bye")
}
