// internal/game/match.go
package game

import (
	"context"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/takashiotakes/BattleShipGame/engine"
	"github.com/takashiotakes/BattleShipGame/internal/history"
	"github.com/takashiotakes/BattleShipGame/internal/store"
)

// OnMatchEndFunc is the callback executed when a match ends. winner is Nil
// on a draw. shots maps each seat to the number of attacks it resolved.
type OnMatchEndFunc func(matchID uuid.UUID, winner uuid.UUID, shots map[uuid.UUID]int)

// MatchEventType labels an event broadcast to match subscribers.
type MatchEventType string

const (
	EventSeatJoined     MatchEventType = "seat_joined"        // Public: a seat joined before start.
	EventMatchStarted   MatchEventType = "match_started"      // Public: placement finished, combat begins.
	EventPrivateFleet   MatchEventType = "private_fleet"      // Private: the seat's own fleet layout.
	EventAttackResolved MatchEventType = "attack_resolved"    // Public: one attack and its result.
	EventSalvoResolved  MatchEventType = "salvo_resolved"     // Public: one volley across all living opponents.
	EventFleetSunk      MatchEventType = "fleet_sunk"         // Public: a seat lost its last ship.
	EventSeatTurn       MatchEventType = "seat_turn"          // Public: whose turn it is now.
	EventPrivateSync    MatchEventType = "private_sync_state" // Private: full per-seat obfuscated view.
	EventMatchEnd       MatchEventType = "match_end"          // Public: match has ended, includes results.
)

// EventSeat identifies a seat within a MatchEvent payload.
type EventSeat struct {
	ID uuid.UUID `json:"id"`
}

// EventShot describes one resolved attack within a MatchEvent.
type EventShot struct {
	Target          uuid.UUID `json:"target"`
	Col             int       `json:"col"`
	Row             int       `json:"row"`
	Hit             bool      `json:"hit"`
	AlreadyResolved bool      `json:"alreadyResolved,omitempty"`
	SunkShip        string    `json:"sunkShip,omitempty"` // Class name when this shot sank a ship.
}

// MatchEvent is the standard structure for broadcasting match state changes.
type MatchEvent struct {
	Type  MatchEventType `json:"type"`
	Seat  *EventSeat     `json:"seat,omitempty"`  // The seat initiating or targeted by the event.
	Shot  *EventShot     `json:"shot,omitempty"`  // Single attack, for attack_resolved.
	Shots []EventShot    `json:"shots,omitempty"` // Full volley, for salvo_resolved.

	Payload map[string]interface{} `json:"payload,omitempty"` // Additional arbitrary data.

	State *MatchState `json:"state,omitempty"` // Full obfuscated state for sync events.
}

// SeatInfo is the service-side identity of one seat.
type SeatInfo struct {
	ID        uuid.UUID
	Name      string
	Role      engine.Role
	Skill     engine.Skill // meaningful only for computer seats
	Connected bool
}

// Match wraps one engine Session with seat identities, broadcast plumbing,
// and the computer-turn driver. All exported methods lock Mu; the engine
// session itself is only ever touched under the lock.
type Match struct {
	ID uuid.UUID

	Session engine.Session // Authoritative game state.
	Rules   engine.Rules   // Applied at Begin; zero fields mean engine defaults.

	Seats        []*SeatInfo
	SeatToEngine map[uuid.UUID]uint8          // Service seat UUID -> engine index.
	EngineToSeat [engine.MaxSeats]uuid.UUID   // Engine index -> service seat UUID.

	TurnID     int           // Increments each combat turn, for state synchronization.
	ThinkDelay time.Duration // Artificial delay before a computer seat fires.

	Started bool
	Over    bool

	aiTimer *time.Timer
	aiGen   int // Bumped to invalidate any scheduled computer turn.

	actionIndex int
	shots       map[uuid.UUID]int

	rng *rand.Rand
	log *logrus.Entry

	Mu sync.Mutex

	BroadcastFn       func(ev MatchEvent)
	BroadcastToSeatFn func(seatID uuid.UUID, ev MatchEvent)
	OnMatchEnd        OnMatchEndFunc
}

// NewMatch creates an empty match waiting for seats.
func NewMatch() *Match {
	id, _ := uuid.NewRandom()
	m := &Match{
		ID:           id,
		SeatToEngine: make(map[uuid.UUID]uint8),
		shots:        make(map[uuid.UUID]int),
		ThinkDelay:   600 * time.Millisecond,
		rng: rand.New(rand.NewPCG(
			uint64(time.Now().UnixNano()),
			binary.BigEndian.Uint64(id[:8]),
		)),
		log: logrus.WithField("match_id", id),
	}
	return m
}

// AddSeat registers a seat before the match begins and returns its ID.
func (m *Match) AddSeat(name string, role engine.Role, skill engine.Skill) (uuid.UUID, error) {
	m.Mu.Lock()
	defer m.Mu.Unlock()

	if m.Started || m.Over {
		return uuid.Nil, fmt.Errorf("add seat: match %s already started", m.ID)
	}
	if len(m.Seats) >= engine.MaxSeats {
		return uuid.Nil, fmt.Errorf("add seat: match %s is full (%d seats)", m.ID, engine.MaxSeats)
	}

	seat := &SeatInfo{
		ID:        uuid.New(),
		Name:      name,
		Role:      role,
		Skill:     skill,
		Connected: role == engine.RoleComputer, // Computer seats are always "present".
	}
	m.Seats = append(m.Seats, seat)

	m.logAction(seat.ID, string(EventSeatJoined), map[string]interface{}{
		"name": name, "role": RoleName(role), "skill": skill.String(),
	})
	m.fireEvent(MatchEvent{Type: EventSeatJoined, Seat: &EventSeat{ID: seat.ID}, Payload: map[string]interface{}{
		"name": name, "role": RoleName(role),
	}})
	return seat.ID, nil
}

// Begin freezes the seat list, builds the engine session, and opens the
// placement phase. Computer seats place their fleets immediately whenever the
// placement pointer reaches them; once every seat has readied, combat starts.
func (m *Match) Begin() error {
	m.Mu.Lock()
	defer m.Mu.Unlock()

	if m.Started || m.Over {
		return fmt.Errorf("begin: match %s already started", m.ID)
	}
	if len(m.Seats) < 2 {
		return fmt.Errorf("begin: match %s needs at least 2 seats, has %d", m.ID, len(m.Seats))
	}

	seats := make([]engine.Seat, len(m.Seats))
	for i, si := range m.Seats {
		seats[i] = engine.Seat{Role: si.Role, Skill: si.Skill}
		m.SeatToEngine[si.ID] = uint8(i)
		m.EngineToSeat[i] = si.ID
	}

	seed := uint64(time.Now().UnixNano())
	sess, err := engine.NewSession(seed, m.Rules, seats)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	m.Session = sess
	if err := m.Session.BeginPlacement(); err != nil {
		return fmt.Errorf("begin: %w", err)
	}

	m.log.WithField("seats", len(m.Seats)).Info("match placement phase opened")
	m.logAction(uuid.Nil, "match_placement_start", map[string]interface{}{"seats": len(m.Seats)})

	m.autoPlaceComputerSeats()
	return nil
}

// PlaceShip places one ship for a human seat during its placement window.
func (m *Match) PlaceShip(seatID uuid.UUID, shipIdx uint8, anchor engine.Coord, orient engine.Orientation) error {
	m.Mu.Lock()
	defer m.Mu.Unlock()

	idx, err := m.engineIndex(seatID)
	if err != nil {
		return err
	}
	if err := m.Session.PlaceShip(idx, shipIdx, anchor, orient); err != nil {
		return err
	}
	m.logAction(seatID, "ship_placed", map[string]interface{}{
		"ship": int(shipIdx), "col": int(anchor.Col), "row": int(anchor.Row), "orient": orient.String(),
	})
	return nil
}

// PlaceFleetRandomly fills the seat's whole fleet with a random valid layout.
func (m *Match) PlaceFleetRandomly(seatID uuid.UUID) error {
	m.Mu.Lock()
	defer m.Mu.Unlock()

	idx, err := m.engineIndex(seatID)
	if err != nil {
		return err
	}
	if err := m.Session.RandomizeFleet(idx); err != nil {
		return err
	}
	m.logAction(seatID, "fleet_randomized", nil)
	m.sendPrivateFleet(seatID, idx)
	return nil
}

// Ready marks a seat's placement complete. When the last seat readies, the
// session enters combat and the first turn starts.
func (m *Match) Ready(seatID uuid.UUID) error {
	m.Mu.Lock()
	defer m.Mu.Unlock()

	idx, err := m.engineIndex(seatID)
	if err != nil {
		return err
	}
	if err := m.Session.SeatReady(idx); err != nil {
		return err
	}
	m.logAction(seatID, "seat_ready", nil)

	m.autoPlaceComputerSeats()
	return nil
}

// autoPlaceComputerSeats advances the placement pointer past every computer
// seat, randomizing each fleet. Transitions to combat when placement ends.
// Assumes lock is held by caller.
func (m *Match) autoPlaceComputerSeats() {
	for m.Session.Phase == engine.PhasePlacement {
		idx := m.Session.PlaceIdx
		if idx >= uint8(len(m.Seats)) || m.Seats[idx].Role != engine.RoleComputer {
			break
		}
		if err := m.Session.RandomizeFleet(idx); err != nil {
			m.log.WithError(err).WithField("seat", idx).Error("computer fleet placement failed")
			return
		}
		if err := m.Session.SeatReady(idx); err != nil {
			m.log.WithError(err).WithField("seat", idx).Error("computer seat ready failed")
			return
		}
		m.logAction(m.EngineToSeat[idx], "fleet_randomized", nil)
	}
	if m.Session.Phase == engine.PhaseCombat && !m.Started {
		m.startCombat()
	}
}

// startCombat marks the match live and kicks off the first turn.
// Assumes lock is held by caller.
func (m *Match) startCombat() {
	m.Started = true
	m.log.Info("match started")
	m.logAction(uuid.Nil, string(EventMatchStarted), nil)
	m.persistInitialFleets()

	m.fireEvent(MatchEvent{Type: EventMatchStarted})
	m.broadcastSyncStateToAll()
	m.broadcastSeatTurn()
	m.scheduleComputerTurn()
}

// FireAt resolves one attack from a human seat against one target.
func (m *Match) FireAt(seatID, targetID uuid.UUID, c engine.Coord) (engine.Outcome, error) {
	m.Mu.Lock()
	defer m.Mu.Unlock()

	att, err := m.currentSeatCheck(seatID)
	if err != nil {
		return engine.Outcome{}, err
	}
	tgt, err := m.engineIndex(targetID)
	if err != nil {
		return engine.Outcome{}, err
	}

	out, err := m.resolveAndReport(att, tgt, c)
	if err != nil {
		return out, err
	}
	m.fireEvent(MatchEvent{
		Type: EventAttackResolved,
		Seat: &EventSeat{ID: seatID},
		Shot: m.shotEvent(tgt, c, out),
	})
	m.finishTurn(out.Concluded, out.Winner)
	return out, nil
}

// FireSalvo resolves one volley from a human seat: the same coordinate fired
// once at every living opponent, in seating order. Resolution stops early if
// the match concludes mid-volley.
func (m *Match) FireSalvo(seatID uuid.UUID, c engine.Coord) ([]engine.Outcome, error) {
	m.Mu.Lock()
	defer m.Mu.Unlock()

	att, err := m.currentSeatCheck(seatID)
	if err != nil {
		return nil, err
	}
	targets := m.Session.Opponents(att)
	if len(targets) == 0 {
		return nil, fmt.Errorf("fire salvo: seat %s has no living opponents", seatID)
	}

	outs := make([]engine.Outcome, 0, len(targets))
	shots := make([]EventShot, 0, len(targets))
	concluded := false
	winner := int8(-1)
	for _, tgt := range targets {
		out, err := m.resolveAndReport(att, tgt, c)
		if err != nil {
			return outs, err
		}
		outs = append(outs, out)
		shots = append(shots, *m.shotEvent(tgt, c, out))
		if out.Concluded {
			concluded = true
			winner = out.Winner
			break
		}
	}

	m.fireEvent(MatchEvent{Type: EventSalvoResolved, Seat: &EventSeat{ID: seatID}, Shots: shots})
	m.finishTurn(concluded, winner)
	return outs, nil
}

// resolveAndReport applies one engine resolution and the bookkeeping shared
// by single attacks, salvos, and computer turns. Assumes lock is held.
func (m *Match) resolveAndReport(att, tgt uint8, c engine.Coord) (engine.Outcome, error) {
	out, err := m.Session.ResolveAttack(att, tgt, c)
	if err != nil {
		return out, err
	}
	attID := m.EngineToSeat[att]
	tgtID := m.EngineToSeat[tgt]
	m.shots[attID]++

	m.logAction(attID, string(EventAttackResolved), map[string]interface{}{
		"target": tgtID.String(),
		"col":    int(c.Col), "row": int(c.Row),
		"hit": out.Hit, "alreadyResolved": out.AlreadyResolved,
		"sunkShip": int(out.SunkShip),
	})
	if out.SunkShip >= 0 && !m.Session.SeatAlive(tgt) {
		m.log.WithFields(logrus.Fields{"seat": tgtID, "by": attID}).Info("fleet sunk")
		m.fireEvent(MatchEvent{Type: EventFleetSunk, Seat: &EventSeat{ID: tgtID}})
	}
	return out, nil
}

// shotEvent builds the event payload for one resolved attack.
// Assumes lock is held by caller.
func (m *Match) shotEvent(tgt uint8, c engine.Coord, out engine.Outcome) *EventShot {
	ev := &EventShot{
		Target:          m.EngineToSeat[tgt],
		Col:             int(c.Col),
		Row:             int(c.Row),
		Hit:             out.Hit,
		AlreadyResolved: out.AlreadyResolved,
	}
	if out.SunkShip >= 0 {
		ev.SunkShip = out.SunkClass.Name()
	}
	return ev
}

// finishTurn ends the match or rotates to the next seat after an attack.
// Assumes lock is held by caller.
func (m *Match) finishTurn(concluded bool, winner int8) {
	if concluded {
		m.endMatch(winner)
		return
	}
	m.Session.Advance()
	m.TurnID++
	m.broadcastSyncStateToAll()
	m.broadcastSeatTurn()
	m.scheduleComputerTurn()
}

// scheduleComputerTurn arms the think-delay timer when the current seat is a
// computer. The timer body re-validates everything under the lock, so a turn
// scheduled for a match that has since ended or advanced commits nothing.
// Assumes lock is held by caller.
func (m *Match) scheduleComputerTurn() {
	if m.Over || m.Session.Phase != engine.PhaseCombat {
		return
	}
	cur := m.Session.Current
	if int(cur) >= len(m.Seats) || m.Seats[cur].Role != engine.RoleComputer {
		return
	}
	gen := m.aiGen
	m.aiTimer = time.AfterFunc(m.ThinkDelay, func() {
		m.runComputerTurn(gen)
	})
}

// runComputerTurn is the timer body for one computer attack.
func (m *Match) runComputerTurn(gen int) {
	m.Mu.Lock()
	defer m.Mu.Unlock()

	// Stale timer: match ended, reset, or turn moved on while we waited.
	if gen != m.aiGen || m.Over || m.Session.Phase != engine.PhaseCombat {
		return
	}
	cur := m.Session.Current
	if int(cur) >= len(m.Seats) || m.Seats[cur].Role != engine.RoleComputer {
		return
	}

	opps := m.Session.Opponents(cur)
	if len(opps) == 0 {
		return
	}
	tgt := opps[m.rng.IntN(len(opps))]
	board := &m.Session.Boards[tgt]
	c, err := engine.ChooseTarget(m.Seats[cur].Skill, board, board.RemainingShipLengths(), m.rng)
	if err != nil {
		m.log.WithError(err).WithField("seat", cur).Error("computer targeting failed")
		return
	}

	out, err := m.resolveAndReport(cur, tgt, c)
	if err != nil {
		m.log.WithError(err).WithField("seat", cur).Error("computer attack rejected")
		return
	}
	m.fireEvent(MatchEvent{
		Type: EventAttackResolved,
		Seat: &EventSeat{ID: m.EngineToSeat[cur]},
		Shot: m.shotEvent(tgt, c, out),
	})
	m.finishTurn(out.Concluded, out.Winner)
}

// endMatch finalizes the match, broadcasts results, and triggers callbacks.
// Assumes lock is held by caller.
func (m *Match) endMatch(winner int8) {
	if m.Over {
		return
	}
	m.Over = true
	m.Started = false
	m.aiGen++
	if m.aiTimer != nil {
		m.aiTimer.Stop()
		m.aiTimer = nil
	}

	var winnerID uuid.UUID
	if winner >= 0 {
		winnerID = m.EngineToSeat[winner]
	}
	shots := make(map[uuid.UUID]int, len(m.shots))
	for id, n := range m.shots {
		shots[id] = n
	}

	m.log.WithField("winner", winnerID).Info("match ended")
	m.logAction(uuid.Nil, string(EventMatchEnd), map[string]interface{}{
		"winner": winnerID.String(), "draw": winner < 0,
	})
	m.persistResult(winnerID, shots)

	payload := map[string]interface{}{
		"winner": winnerID.String(),
		"draw":   winner < 0,
		"shots":  map[string]int{},
	}
	for id, n := range shots {
		payload["shots"].(map[string]int)[id.String()] = n
	}
	m.broadcastSyncStateToAll()
	m.fireEvent(MatchEvent{Type: EventMatchEnd, Payload: payload})

	if m.OnMatchEnd != nil {
		m.OnMatchEnd(m.ID, winnerID, shots)
	}
}

// Close cancels any pending computer turn without resolving it.
func (m *Match) Close() {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	m.aiGen++
	if m.aiTimer != nil {
		m.aiTimer.Stop()
		m.aiTimer = nil
	}
}

// HandleDisconnect marks a human seat disconnected. The match keeps running;
// the seat's fleet stays targetable.
func (m *Match) HandleDisconnect(seatID uuid.UUID) {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	if si := m.getSeatByID(seatID); si != nil {
		si.Connected = false
		m.logAction(seatID, "seat_disconnect", nil)
	}
}

// HandleReconnect marks a human seat connected again and resyncs it.
func (m *Match) HandleReconnect(seatID uuid.UUID) {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	if si := m.getSeatByID(seatID); si != nil {
		si.Connected = true
		m.logAction(seatID, "seat_reconnect", nil)
		m.sendSyncState(seatID)
	}
}

// ---------------------------------------------------------------------------
// Internal helpers
// ---------------------------------------------------------------------------

// engineIndex resolves a seat UUID to its engine index.
// Assumes lock is held by caller.
func (m *Match) engineIndex(seatID uuid.UUID) (uint8, error) {
	idx, ok := m.SeatToEngine[seatID]
	if !ok {
		return 0, fmt.Errorf("seat %s is not part of match %s", seatID, m.ID)
	}
	return idx, nil
}

// currentSeatCheck validates that the match is live and the seat holds the
// turn. Assumes lock is held by caller.
func (m *Match) currentSeatCheck(seatID uuid.UUID) (uint8, error) {
	if m.Over {
		return 0, fmt.Errorf("match %s is over", m.ID)
	}
	if !m.Started {
		return 0, fmt.Errorf("match %s has not started", m.ID)
	}
	idx, err := m.engineIndex(seatID)
	if err != nil {
		return 0, err
	}
	if idx != m.Session.Current {
		return 0, fmt.Errorf("seat %s does not hold the turn", seatID)
	}
	return idx, nil
}

// getSeatByID finds the seat info for a seat UUID, or nil.
// Assumes lock is held by caller.
func (m *Match) getSeatByID(seatID uuid.UUID) *SeatInfo {
	for _, si := range m.Seats {
		if si.ID == seatID {
			return si
		}
	}
	return nil
}

// fireEvent broadcasts an event to all subscribers via the BroadcastFn
// callback. Assumes lock is held by caller.
func (m *Match) fireEvent(ev MatchEvent) {
	if m.BroadcastFn != nil {
		m.BroadcastFn(ev)
	}
}

// fireEventToSeat sends an event to a single seat.
// Assumes lock is held by caller.
func (m *Match) fireEventToSeat(seatID uuid.UUID, ev MatchEvent) {
	if m.BroadcastToSeatFn != nil {
		m.BroadcastToSeatFn(seatID, ev)
	}
}

// broadcastSeatTurn notifies everyone whose turn it is.
// Assumes lock is held by caller.
func (m *Match) broadcastSeatTurn() {
	if m.Over || m.Session.Phase != engine.PhaseCombat {
		return
	}
	cur := m.Session.Current
	if int(cur) >= len(m.Seats) {
		return
	}
	m.fireEvent(MatchEvent{
		Type:    EventSeatTurn,
		Seat:    &EventSeat{ID: m.EngineToSeat[cur]},
		Payload: map[string]interface{}{"turnId": m.TurnID},
	})
}

// sendSyncState sends the per-seat obfuscated state to one seat.
// Assumes lock is held by caller.
func (m *Match) sendSyncState(seatID uuid.UUID) {
	state := m.StateFor(seatID)
	m.fireEventToSeat(seatID, MatchEvent{Type: EventPrivateSync, State: &state})
}

// broadcastSyncStateToAll resyncs every connected human seat.
// Assumes lock is held by caller.
func (m *Match) broadcastSyncStateToAll() {
	for _, si := range m.Seats {
		if si.Role == engine.RoleHuman && si.Connected {
			m.sendSyncState(si.ID)
		}
	}
}

// sendPrivateFleet reveals a seat's own fleet layout to it after placement.
// Assumes lock is held by caller.
func (m *Match) sendPrivateFleet(seatID uuid.UUID, idx uint8) {
	m.fireEventToSeat(seatID, MatchEvent{
		Type:    EventPrivateFleet,
		Payload: map[string]interface{}{"fleet": m.fleetView(idx)},
	})
}

// persistInitialFleets saves every seat's starting layout for replay/audit.
// Assumes lock is held by caller.
func (m *Match) persistInitialFleets() {
	snap := map[string]interface{}{}
	for i := range m.Seats {
		snap[m.EngineToSeat[i].String()] = m.fleetView(uint8(i))
	}
	if store.DB != nil {
		go store.UpsertInitialFleets(m.ID, snap)
	}
	m.logAction(uuid.Nil, "match_initial_fleets_saved", nil)
}

// persistResult saves the final outcome.
// Assumes lock is held by caller.
func (m *Match) persistResult(winnerID uuid.UUID, shots map[uuid.UUID]int) {
	snapshot := map[string]interface{}{
		"winner": winnerID.String(),
		"turns":  m.TurnID,
		"shots":  map[string]int{},
		"boards": map[string]interface{}{},
	}
	for id, n := range shots {
		snapshot["shots"].(map[string]int)[id.String()] = n
	}
	for i := range m.Seats {
		snapshot["boards"].(map[string]interface{})[m.EngineToSeat[i].String()] = map[string]interface{}{
			"alive":     m.Session.SeatAlive(uint8(i)),
			"shipsLeft": int(m.Session.Boards[i].UnsunkShips()),
		}
	}
	if store.DB != nil {
		go store.StoreMatchResult(context.Background(), m.ID, snapshot)
	}
}

// logAction queues match action details for the historian via Redis.
// Assumes lock is held by caller.
func (m *Match) logAction(actorID uuid.UUID, actionType string, payload map[string]interface{}) {
	m.actionIndex++
	if payload == nil {
		payload = make(map[string]interface{})
	}
	record := history.MatchActionRecord{
		MatchID:       m.ID,
		ActionIndex:   m.actionIndex,
		ActorSeatID:   actorID,
		ActionType:    actionType,
		ActionPayload: payload,
		Timestamp:     time.Now().UnixMilli(),
	}

	go func(rec history.MatchActionRecord) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if history.Rdb == nil {
			return
		}
		if err := history.PublishMatchAction(ctx, rec); err != nil {
			m.log.WithError(err).WithField("action", rec.ActionType).Error("failed publishing action to historian")
		}
	}(record)
}

// RoleName renders a role for payloads and config.
func RoleName(r engine.Role) string {
	if r == engine.RoleComputer {
		return "computer"
	}
	return "human"
}

// ParseRole parses a role name from config or API input.
func ParseRole(s string) (engine.Role, error) {
	switch s {
	case "human":
		return engine.RoleHuman, nil
	case "computer", "cpu", "ai":
		return engine.RoleComputer, nil
	}
	return 0, fmt.Errorf("unknown role %q", s)
}

// ParseSkill parses a skill name from config or API input.
func ParseSkill(s string) (engine.Skill, error) {
	switch s {
	case "", "easy":
		return engine.SkillEasy, nil
	case "normal":
		return engine.SkillNormal, nil
	case "hard":
		return engine.SkillHard, nil
	}
	return 0, fmt.Errorf("unknown skill %q", s)
}
