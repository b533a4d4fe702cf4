// Package server exposes match orchestration over HTTP and mirrors match
// events to websocket subscribers. One authoritative process owns every
// match; the transport validates input, tokens, and turn ownership before
// the orchestrator sees anything.
package server

import (
	"crypto/rand"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/takashiotakes/BattleShipGame/engine"
	"github.com/takashiotakes/BattleShipGame/internal/auth"
	"github.com/takashiotakes/BattleShipGame/internal/config"
	"github.com/takashiotakes/BattleShipGame/internal/game"
	"github.com/takashiotakes/BattleShipGame/internal/history"
)

// matchEntry bundles one registered match with its event hub and the
// optional bcrypt hash of its join password.
type matchEntry struct {
	m            *game.Match
	hub          *hub
	passwordHash string
}

// Server owns the in-memory match registry and the seat-token signing key.
type Server struct {
	cfg    config.Config
	secret []byte
	log    *logrus.Entry

	mu      sync.RWMutex
	matches map[uuid.UUID]*matchEntry
}

// New creates a server with an empty registry. Without a configured auth
// secret a random one is generated, so seat tokens die with the process.
func New(cfg config.Config) *Server {
	secret := []byte(cfg.Auth.Secret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			logrus.WithError(err).Fatal("generate auth secret")
		}
		logrus.Warn("no auth secret configured; seat tokens will not survive a restart")
	}
	return &Server{
		cfg:     cfg,
		secret:  secret,
		log:     logrus.WithField("component", "server"),
		matches: make(map[uuid.UUID]*matchEntry),
	}
}

// Routes registers all handlers on the mux.
func (s *Server) Routes(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/matches", s.handleCreateMatch)
	mux.HandleFunc("GET /v1/matches/{id}", s.handleMatchState)
	mux.HandleFunc("POST /v1/matches/{id}/tokens", s.handleReissueToken)
	mux.HandleFunc("POST /v1/matches/{id}/place", s.handlePlace)
	mux.HandleFunc("POST /v1/matches/{id}/ready", s.handleReady)
	mux.HandleFunc("POST /v1/matches/{id}/fire", s.handleFire)
	mux.HandleFunc("GET /v1/matches/{id}/history", s.handleHistory)
	mux.HandleFunc("GET /v1/matches/{id}/ws", s.handleWS)
	mux.HandleFunc("GET /v1/healthz", s.handleHealthz)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

func (s *Server) tokenTTL() time.Duration {
	return time.Duration(s.cfg.Auth.TokenTTLMinutes) * time.Minute
}

// lookupMatch resolves the {id} path value to a registered match.
func (s *Server) lookupMatch(w http.ResponseWriter, r *http.Request) (*matchEntry, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeJSON(w, 400, map[string]string{"error": "bad match id"})
		return nil, false
	}
	s.mu.RLock()
	e, ok := s.matches[id]
	s.mu.RUnlock()
	if !ok {
		writeJSON(w, 404, map[string]string{"error": "match not found"})
		return nil, false
	}
	return e, true
}

// authSeat resolves the Authorization bearer token to the seat it grants in
// the given match. Writes the error response itself on failure.
func (s *Server) authSeat(w http.ResponseWriter, r *http.Request, matchID uuid.UUID) (uuid.UUID, bool) {
	hdr := r.Header.Get("Authorization")
	tok, ok := strings.CutPrefix(hdr, "Bearer ")
	if !ok || tok == "" {
		writeJSON(w, 401, map[string]string{"error": "missing bearer token"})
		return uuid.Nil, false
	}
	tokMatch, seatID, err := auth.VerifySeatToken(s.secret, tok)
	if err != nil {
		writeJSON(w, 401, map[string]string{"error": "invalid token"})
		return uuid.Nil, false
	}
	if tokMatch != matchID {
		writeJSON(w, 403, map[string]string{"error": "token is for another match"})
		return uuid.Nil, false
	}
	return seatID, true
}

// === Match creation ===

type createSeatReq struct {
	Name  string `json:"name"`
	Role  string `json:"role"`            // "human" | "computer"
	Skill string `json:"skill,omitempty"` // "easy" | "normal" | "hard"
}

type createMatchReq struct {
	Seats        []createSeatReq `json:"seats"`
	Password     string          `json:"password,omitempty"` // guards token reissue
	ThinkDelayMs int             `json:"thinkDelayMs,omitempty"`
}

// seatGrant pairs a created seat with its bearer token. Computer seats get
// no token; nothing external ever acts for them.
type seatGrant struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Role  string    `json:"role"`
	Token string    `json:"token,omitempty"`
}

type createMatchResp struct {
	MatchID uuid.UUID   `json:"matchId"`
	Seats   []seatGrant `json:"seats"`
}

func (s *Server) handleCreateMatch(w http.ResponseWriter, r *http.Request) {
	var req createMatchReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, 400, map[string]string{"error": "bad json"})
		return
	}
	if len(req.Seats) < 2 || len(req.Seats) > engine.MaxSeats {
		writeJSON(w, 400, map[string]string{"error": "need 2-4 seats"})
		return
	}

	m := game.NewMatch()
	m.Rules = engine.Rules{
		PlacementAttempts: uint16(s.cfg.Match.PlacementAttempts),
		FleetRetries:      uint8(s.cfg.Match.FleetRetries),
	}
	m.ThinkDelay = time.Duration(s.cfg.Match.ThinkDelayMs) * time.Millisecond
	if req.ThinkDelayMs > 0 {
		m.ThinkDelay = time.Duration(req.ThinkDelayMs) * time.Millisecond
	}

	h := newHub()
	m.BroadcastFn = h.broadcast
	m.BroadcastToSeatFn = h.broadcastToSeat
	m.OnMatchEnd = func(matchID uuid.UUID, winner uuid.UUID, shots map[uuid.UUID]int) {
		s.log.WithFields(logrus.Fields{"match_id": matchID, "winner": winner}).Info("match concluded")
	}

	resp := createMatchResp{MatchID: m.ID}
	for _, seat := range req.Seats {
		role, err := game.ParseRole(seat.Role)
		if err != nil {
			writeError(w, 400, err)
			return
		}
		skillName := seat.Skill
		if skillName == "" {
			skillName = s.cfg.Match.DefaultSkill
		}
		skill, err := game.ParseSkill(skillName)
		if err != nil {
			writeError(w, 400, err)
			return
		}
		id, err := m.AddSeat(seat.Name, role, skill)
		if err != nil {
			writeError(w, 400, err)
			return
		}
		grant := seatGrant{ID: id, Name: seat.Name, Role: game.RoleName(role)}
		if role == engine.RoleHuman {
			tok, err := auth.IssueSeatToken(s.secret, m.ID, id, s.tokenTTL())
			if err != nil {
				writeError(w, 500, err)
				return
			}
			grant.Token = tok
		}
		resp.Seats = append(resp.Seats, grant)
	}

	var pwHash string
	if req.Password != "" {
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			writeError(w, 500, err)
			return
		}
		pwHash = hash
	}

	if err := m.Begin(); err != nil {
		writeError(w, 400, err)
		return
	}

	s.mu.Lock()
	s.matches[m.ID] = &matchEntry{m: m, hub: h, passwordHash: pwHash}
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{"match_id": m.ID, "seats": len(req.Seats)}).Info("match created")
	writeJSON(w, 200, resp)
}

// === Token reissue ===

type reissueTokenReq struct {
	Seat     uuid.UUID `json:"seat"`
	Password string    `json:"password,omitempty"`
}

// handleReissueToken grants a fresh token for a human seat, for clients that
// lost theirs. Guarded by the match password when one was set.
func (s *Server) handleReissueToken(w http.ResponseWriter, r *http.Request) {
	e, ok := s.lookupMatch(w, r)
	if !ok {
		return
	}
	var req reissueTokenReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, 400, map[string]string{"error": "bad json"})
		return
	}

	m := e.m
	m.Mu.Lock()
	found := false
	for _, si := range m.Seats {
		if si.ID == req.Seat && si.Role == engine.RoleHuman {
			found = true
		}
	}
	m.Mu.Unlock()
	if !found {
		writeJSON(w, 404, map[string]string{"error": "no such human seat"})
		return
	}

	if e.passwordHash != "" && !auth.CheckPassword(e.passwordHash, req.Password) {
		writeJSON(w, 403, map[string]string{"error": "bad password"})
		return
	}

	tok, err := auth.IssueSeatToken(s.secret, m.ID, req.Seat, s.tokenTTL())
	if err != nil {
		writeError(w, 500, err)
		return
	}
	writeJSON(w, 200, map[string]string{"token": tok})
}

// === State ===

// handleMatchState returns the obfuscated projection. With a bearer token
// the view reveals that seat's own fleet; without one it is the spectator
// view.
func (s *Server) handleMatchState(w http.ResponseWriter, r *http.Request) {
	e, ok := s.lookupMatch(w, r)
	if !ok {
		return
	}
	var seatID uuid.UUID
	if r.Header.Get("Authorization") != "" {
		id, ok := s.authSeat(w, r, e.m.ID)
		if !ok {
			return
		}
		seatID = id
	}
	e.m.Mu.Lock()
	state := e.m.StateFor(seatID)
	e.m.Mu.Unlock()
	writeJSON(w, 200, state)
}

// === Placement ===

type placeReq struct {
	Random bool   `json:"random,omitempty"`
	Ship   int    `json:"ship,omitempty"`
	Col    int    `json:"col,omitempty"`
	Row    int    `json:"row,omitempty"`
	Orient string `json:"orient,omitempty"` // "horizontal" | "vertical"
}

func (s *Server) handlePlace(w http.ResponseWriter, r *http.Request) {
	e, ok := s.lookupMatch(w, r)
	if !ok {
		return
	}
	seatID, ok := s.authSeat(w, r, e.m.ID)
	if !ok {
		return
	}
	var req placeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, 400, map[string]string{"error": "bad json"})
		return
	}

	if req.Random {
		if err := e.m.PlaceFleetRandomly(seatID); err != nil {
			writeError(w, 409, err)
			return
		}
		writeJSON(w, 200, map[string]bool{"placed": true})
		return
	}

	// Range-check as ints before narrowing; conversion wraps silently.
	if req.Ship < 0 || req.Ship >= int(engine.NumShipClasses) {
		writeJSON(w, 400, map[string]string{"error": "ship index out of range"})
		return
	}
	if req.Col < 0 || req.Col >= engine.BoardSize || req.Row < 0 || req.Row >= engine.BoardSize {
		writeJSON(w, 400, map[string]string{"error": "coordinate out of range"})
		return
	}
	var orient engine.Orientation
	switch req.Orient {
	case "", "horizontal":
		orient = engine.Horizontal
	case "vertical":
		orient = engine.Vertical
	default:
		writeJSON(w, 400, map[string]string{"error": "bad orientation"})
		return
	}
	anchor := engine.Coord{Col: int8(req.Col), Row: int8(req.Row)}
	if err := e.m.PlaceShip(seatID, uint8(req.Ship), anchor, orient); err != nil {
		writeError(w, 409, err)
		return
	}
	writeJSON(w, 200, map[string]bool{"placed": true})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	e, ok := s.lookupMatch(w, r)
	if !ok {
		return
	}
	seatID, ok := s.authSeat(w, r, e.m.ID)
	if !ok {
		return
	}
	if err := e.m.Ready(seatID); err != nil {
		writeError(w, 409, err)
		return
	}
	writeJSON(w, 200, map[string]bool{"ready": true})
}

// === Combat ===

type fireReq struct {
	Target uuid.UUID `json:"target,omitempty"` // ignored when salvo
	Col    int       `json:"col"`
	Row    int       `json:"row"`
	Salvo  bool      `json:"salvo,omitempty"`
}

func (s *Server) handleFire(w http.ResponseWriter, r *http.Request) {
	e, ok := s.lookupMatch(w, r)
	if !ok {
		return
	}
	seatID, ok := s.authSeat(w, r, e.m.ID)
	if !ok {
		return
	}
	var req fireReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, 400, map[string]string{"error": "bad json"})
		return
	}
	// Range-check as ints before narrowing; conversion wraps silently.
	if req.Col < 0 || req.Col >= engine.BoardSize || req.Row < 0 || req.Row >= engine.BoardSize {
		writeJSON(w, 400, map[string]string{"error": "coordinate out of range"})
		return
	}
	c := engine.Coord{Col: int8(req.Col), Row: int8(req.Row)}

	if req.Salvo {
		outs, err := e.m.FireSalvo(seatID, c)
		if err != nil {
			writeError(w, 409, err)
			return
		}
		writeJSON(w, 200, map[string]any{"outcomes": outs})
		return
	}

	out, err := e.m.FireAt(seatID, req.Target, c)
	if err != nil {
		writeError(w, 409, err)
		return
	}
	writeJSON(w, 200, out)
}

// === History ===

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	e, ok := s.lookupMatch(w, r)
	if !ok {
		return
	}
	if history.Rdb == nil {
		writeJSON(w, 503, map[string]string{"error": "historian not connected"})
		return
	}
	records, err := history.MatchActions(r.Context(), e.m.ID)
	if err != nil {
		writeError(w, 500, err)
		return
	}
	writeJSON(w, 200, map[string]any{"actions": records})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, 200, map[string]string{"status": "ok"})
}

// ListenAndServe builds the mux and serves until the listener fails.
func (s *Server) ListenAndServe() error {
	mux := http.NewServeMux()
	s.Routes(mux)
	s.log.WithField("addr", s.cfg.Server.Addr).Info("listening")
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.ListenAndServe()
}
