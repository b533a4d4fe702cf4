// internal/game/match_test.go
package game

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/takashiotakes/BattleShipGame/engine"
)

// mockBroadcaster captures match events for testing assertions.
type mockBroadcaster struct {
	mu         sync.Mutex
	allEvents  []MatchEvent
	seatEvents map[uuid.UUID][]MatchEvent
}

func newMockBroadcaster() *mockBroadcaster {
	return &mockBroadcaster{seatEvents: make(map[uuid.UUID][]MatchEvent)}
}

func (mb *mockBroadcaster) broadcastFn(ev MatchEvent) {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	mb.allEvents = append(mb.allEvents, ev)
}

func (mb *mockBroadcaster) broadcastToSeatFn(seatID uuid.UUID, ev MatchEvent) {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	mb.seatEvents[seatID] = append(mb.seatEvents[seatID], ev)
}

func (mb *mockBroadcaster) findEventByType(eventType MatchEventType) *MatchEvent {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	for i := len(mb.allEvents) - 1; i >= 0; i-- {
		if mb.allEvents[i].Type == eventType {
			return &mb.allEvents[i]
		}
	}
	return nil
}

func (mb *mockBroadcaster) countEventsByType(eventType MatchEventType) int {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	n := 0
	for _, ev := range mb.allEvents {
		if ev.Type == eventType {
			n++
		}
	}
	return n
}

func (mb *mockBroadcaster) lastSeatEvent(seatID uuid.UUID, eventType MatchEventType) *MatchEvent {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	events := mb.seatEvents[seatID]
	for i := len(events) - 1; i >= 0; i-- {
		if events[i].Type == eventType {
			return &events[i]
		}
	}
	return nil
}

// seatSpec describes one seat for test setup.
type seatSpec struct {
	role  engine.Role
	skill engine.Skill
}

// setupTestMatch builds a match with the given seats and a mock broadcaster.
// Human fleets are randomized and readied so the match reaches combat.
func setupTestMatch(t *testing.T, seats []seatSpec) (*Match, []uuid.UUID, *mockBroadcaster) {
	t.Helper()

	m := NewMatch()
	m.ThinkDelay = time.Millisecond
	mb := newMockBroadcaster()
	m.BroadcastFn = mb.broadcastFn
	m.BroadcastToSeatFn = mb.broadcastToSeatFn

	ids := make([]uuid.UUID, len(seats))
	for i, spec := range seats {
		id, err := m.AddSeat("Seat"+string(rune('A'+i)), spec.role, spec.skill)
		require.NoError(t, err)
		ids[i] = id
		if spec.role == engine.RoleHuman {
			m.HandleReconnect(id) // mark connected so syncs flow
		}
	}
	require.NoError(t, m.Begin())

	for i, spec := range seats {
		if spec.role != engine.RoleHuman {
			continue
		}
		require.NoError(t, m.PlaceFleetRandomly(ids[i]))
		require.NoError(t, m.Ready(ids[i]))
	}
	return m, ids, mb
}

func humanSeats(n int) []seatSpec {
	out := make([]seatSpec, n)
	for i := range out {
		out[i] = seatSpec{role: engine.RoleHuman}
	}
	return out
}

func currentSeatID(m *Match) uuid.UUID {
	m.Mu.Lock()
	defer m.Mu.Unlock()
	return m.EngineToSeat[m.Session.Current]
}

func TestAddSeatLimits(t *testing.T) {
	m := NewMatch()
	for i := 0; i < engine.MaxSeats; i++ {
		_, err := m.AddSeat("s", engine.RoleComputer, engine.SkillEasy)
		require.NoError(t, err)
	}
	_, err := m.AddSeat("extra", engine.RoleHuman, engine.SkillEasy)
	assert.Error(t, err, "fifth seat must be rejected")
}

func TestBeginRequiresTwoSeats(t *testing.T) {
	m := NewMatch()
	_, err := m.AddSeat("solo", engine.RoleHuman, engine.SkillEasy)
	require.NoError(t, err)
	assert.Error(t, m.Begin())
}

func TestHumanMatchReachesCombat(t *testing.T) {
	m, ids, mb := setupTestMatch(t, humanSeats(2))

	m.Mu.Lock()
	started := m.Started
	phase := m.Session.Phase
	m.Mu.Unlock()

	require.True(t, started)
	require.Equal(t, engine.PhaseCombat, phase)
	assert.NotNil(t, mb.findEventByType(EventMatchStarted))
	assert.Equal(t, ids[0], currentSeatID(m), "seat 0 opens combat")
}

func TestComputerSeatsAutoPlace(t *testing.T) {
	m, _, mb := setupTestMatch(t, []seatSpec{
		{role: engine.RoleHuman},
		{role: engine.RoleComputer, skill: engine.SkillEasy},
	})

	m.Mu.Lock()
	placed := m.Session.Boards[1].FleetPlaced()
	started := m.Started
	m.Mu.Unlock()

	assert.True(t, placed, "computer fleet should be placed without explicit calls")
	assert.True(t, started)
	assert.NotNil(t, mb.findEventByType(EventMatchStarted))
}

func TestTurnGateRejectsOutOfTurnFire(t *testing.T) {
	m, ids, _ := setupTestMatch(t, humanSeats(2))

	// Seat 1 does not hold the opening turn.
	_, err := m.FireAt(ids[1], ids[0], engine.Coord{Col: 0, Row: 0})
	assert.Error(t, err)

	// Unknown seat is rejected outright.
	_, err = m.FireAt(uuid.New(), ids[0], engine.Coord{Col: 0, Row: 0})
	assert.Error(t, err)
}

func TestFireAtAdvancesTurn(t *testing.T) {
	m, ids, mb := setupTestMatch(t, humanSeats(2))

	out, err := m.FireAt(ids[0], ids[1], engine.Coord{Col: 0, Row: 0})
	require.NoError(t, err)
	assert.False(t, out.Concluded)

	assert.Equal(t, ids[1], currentSeatID(m), "turn passes to seat 1")
	ev := mb.findEventByType(EventAttackResolved)
	require.NotNil(t, ev)
	require.NotNil(t, ev.Shot)
	assert.Equal(t, ids[1], ev.Shot.Target)
}

func TestStateObfuscation(t *testing.T) {
	m, ids, _ := setupTestMatch(t, humanSeats(2))

	m.Mu.Lock()
	state := m.StateFor(ids[0])
	m.Mu.Unlock()

	require.Len(t, state.Boards, 2)
	countShips := func(cells []string) int {
		n := 0
		for _, row := range cells {
			for _, ch := range row {
				if ch == 'S' {
					n++
				}
			}
		}
		return n
	}
	assert.Equal(t, 17, countShips(state.Boards[0].Cells), "own fleet fully visible")
	assert.Zero(t, countShips(state.Boards[1].Cells), "opponent's unhit ships hidden")
	assert.NotEmpty(t, state.Boards[0].Fleet)
	assert.Empty(t, state.Boards[1].Fleet)
}

func TestHumanMatchPlaysToConclusion(t *testing.T) {
	m, ids, mb := setupTestMatch(t, humanSeats(2))

	// Each seat sweeps the opponent's grid in row-major order; the sweep that
	// finishes first wins. Alternation guarantees conclusion within 200 shots.
	pointers := map[uuid.UUID]int{ids[0]: 0, ids[1]: 0}
	targets := map[uuid.UUID]uuid.UUID{ids[0]: ids[1], ids[1]: ids[0]}

	for i := 0; i < 200; i++ {
		m.Mu.Lock()
		over := m.Over
		m.Mu.Unlock()
		if over {
			break
		}
		cur := currentSeatID(m)
		p := pointers[cur]
		c := engine.Coord{Col: int8(p % engine.BoardSize), Row: int8(p / engine.BoardSize)}
		pointers[cur] = p + 1
		_, err := m.FireAt(cur, targets[cur], c)
		require.NoError(t, err)
	}

	m.Mu.Lock()
	over := m.Over
	winner := m.Session.Winner
	m.Mu.Unlock()
	require.True(t, over, "sweeping both grids must conclude the match")
	assert.GreaterOrEqual(t, winner, int8(0), "a full sweep produces a winner, not a draw")
	assert.NotNil(t, mb.findEventByType(EventMatchEnd))
}

func TestSalvoHitsEveryLivingOpponent(t *testing.T) {
	m, ids, mb := setupTestMatch(t, humanSeats(3))

	outs, err := m.FireSalvo(ids[0], engine.Coord{Col: 4, Row: 4})
	require.NoError(t, err)
	assert.Len(t, outs, 2, "one resolution per living opponent")

	ev := mb.findEventByType(EventSalvoResolved)
	require.NotNil(t, ev)
	assert.Len(t, ev.Shots, 2)
	assert.NotEqual(t, ids[0], currentSeatID(m), "salvo consumes the turn")
}

func TestComputerMatchPlaysItself(t *testing.T) {
	m := NewMatch()
	m.ThinkDelay = time.Millisecond
	mb := newMockBroadcaster()
	m.BroadcastFn = mb.broadcastFn
	m.BroadcastToSeatFn = mb.broadcastToSeatFn

	endCh := make(chan uuid.UUID, 1)
	m.OnMatchEnd = func(matchID uuid.UUID, winner uuid.UUID, shots map[uuid.UUID]int) {
		endCh <- winner
	}

	_, err := m.AddSeat("cpu-a", engine.RoleComputer, engine.SkillNormal)
	require.NoError(t, err)
	_, err = m.AddSeat("cpu-b", engine.RoleComputer, engine.SkillHard)
	require.NoError(t, err)
	require.NoError(t, m.Begin())

	require.Eventually(t, func() bool {
		m.Mu.Lock()
		defer m.Mu.Unlock()
		return m.Over
	}, 30*time.Second, 10*time.Millisecond, "two computer seats should finish unattended")

	select {
	case winner := <-endCh:
		assert.NotEqual(t, uuid.Nil, winner, "hunt strategies always finish with a winner")
	case <-time.After(time.Second):
		t.Fatal("OnMatchEnd callback never fired")
	}
	assert.NotNil(t, mb.findEventByType(EventMatchEnd))
}

func TestCloseCancelsPendingComputerTurn(t *testing.T) {
	m, _, _ := setupTestMatch(t, []seatSpec{
		{role: engine.RoleComputer, skill: engine.SkillEasy},
		{role: engine.RoleComputer, skill: engine.SkillEasy},
	})
	m.Close()

	m.Mu.Lock()
	hash := m.Session.StateHash()
	m.Mu.Unlock()

	// Any timer that was armed before Close must not commit an attack.
	time.Sleep(50 * time.Millisecond)

	m.Mu.Lock()
	after := m.Session.StateHash()
	m.Mu.Unlock()
	assert.Equal(t, hash, after, "cancelled computer turn mutated the session")
}

func TestPrivateFleetEventOnRandomize(t *testing.T) {
	m := NewMatch()
	mb := newMockBroadcaster()
	m.BroadcastFn = mb.broadcastFn
	m.BroadcastToSeatFn = mb.broadcastToSeatFn

	a, err := m.AddSeat("a", engine.RoleHuman, engine.SkillEasy)
	require.NoError(t, err)
	_, err = m.AddSeat("b", engine.RoleHuman, engine.SkillEasy)
	require.NoError(t, err)
	require.NoError(t, m.Begin())

	require.NoError(t, m.PlaceFleetRandomly(a))
	ev := mb.lastSeatEvent(a, EventPrivateFleet)
	require.NotNil(t, ev, "randomizing a fleet reveals it privately")
}

func TestManualPlacementFlow(t *testing.T) {
	m := NewMatch()
	a, err := m.AddSeat("a", engine.RoleHuman, engine.SkillEasy)
	require.NoError(t, err)
	b, err := m.AddSeat("b", engine.RoleHuman, engine.SkillEasy)
	require.NoError(t, err)
	require.NoError(t, m.Begin())

	// Ready before placing anything is a contract violation.
	require.Error(t, m.Ready(a))

	for ship := uint8(0); ship < engine.FleetSize; ship++ {
		err := m.PlaceShip(a, ship, engine.Coord{Col: 0, Row: int8(ship * 2)}, engine.Horizontal)
		require.NoError(t, err)
	}
	require.NoError(t, m.Ready(a))

	// Seat b's window opens only after a readies.
	require.NoError(t, m.PlaceFleetRandomly(b))
	require.NoError(t, m.Ready(b))

	m.Mu.Lock()
	started := m.Started
	m.Mu.Unlock()
	assert.True(t, started)
}
