package engine

import "testing"

// newCombatSession builds a session in the combat phase with every seat's
// fleet placed deterministically: ship i horizontal at (0, i).
func newCombatSession(t *testing.T, numSeats int) *Session {
	t.Helper()
	seats := make([]Seat, numSeats)
	s, err := NewSession(42, DefaultRules(), seats)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if err := s.BeginPlacement(); err != nil {
		t.Fatalf("BeginPlacement: %v", err)
	}
	for seat := uint8(0); seat < uint8(numSeats); seat++ {
		for ship := uint8(0); ship < FleetSize; ship++ {
			if err := s.PlaceShip(seat, ship, Coord{Col: 0, Row: int8(ship)}, Horizontal); err != nil {
				t.Fatalf("PlaceShip(seat %d, ship %d): %v", seat, ship, err)
			}
		}
		if err := s.SeatReady(seat); err != nil {
			t.Fatalf("SeatReady(%d): %v", seat, err)
		}
	}
	if s.Phase != PhaseCombat {
		t.Fatalf("Phase = %s after placement, want combat", s.Phase)
	}
	return &s
}

// sinkBoard fires at every occupied coordinate of the target's deterministic
// fleet from the given attacker.
func sinkBoard(t *testing.T, s *Session, attacker, target uint8) {
	t.Helper()
	for ship := uint8(0); ship < FleetSize; ship++ {
		length := s.Boards[target].Ships[ship].Length()
		for i := uint8(0); i < length; i++ {
			if s.Phase != PhaseCombat {
				return
			}
			if _, err := s.ResolveAttack(attacker, target, Coord{Col: int8(i), Row: int8(ship)}); err != nil {
				t.Fatalf("ResolveAttack(%d → %d, (%d,%d)): %v", attacker, target, i, ship, err)
			}
		}
	}
}

// TestResolveHitAndIdempotence resolves a hit on a length-3 ship, then
// repeats the shot at the same cell and expects a zero-diff no-op.
func TestResolveHitAndIdempotence(t *testing.T) {
	s := newCombatSession(t, 2)
	// Cruiser (ship 2, length 3) sits at (0,2)..(2,2).
	out, err := s.ResolveAttack(0, 1, Coord{Col: 1, Row: 2})
	if err != nil {
		t.Fatalf("ResolveAttack: %v", err)
	}
	if !out.Hit {
		t.Error("Hit = false, want true")
	}
	if out.SunkShip != -1 {
		t.Errorf("SunkShip = %d with 1/3 hits, want -1", out.SunkShip)
	}
	if out.Concluded {
		t.Error("Concluded = true after a single hit")
	}
	if got := s.Boards[1].At(Coord{1, 2}).State; got != CellHit {
		t.Errorf("cell state = %s, want hit", got)
	}

	// Second shot at the same coordinate: no-op, zero board diff.
	before := s.Boards[1]
	out, err = s.ResolveAttack(0, 1, Coord{Col: 1, Row: 2})
	if err != nil {
		t.Fatalf("repeat ResolveAttack: %v", err)
	}
	if !out.AlreadyResolved {
		t.Error("AlreadyResolved = false on repeat shot, want true")
	}
	if out.Hit {
		t.Error("Hit = true on repeat shot, want false")
	}
	if s.Boards[1] != before {
		t.Error("board mutated by an already-resolved shot")
	}
}

// TestResolveMiss verifies a miss marks the cell and hits nothing.
func TestResolveMiss(t *testing.T) {
	s := newCombatSession(t, 2)
	out, err := s.ResolveAttack(0, 1, Coord{Col: 9, Row: 9})
	if err != nil {
		t.Fatalf("ResolveAttack: %v", err)
	}
	if out.Hit {
		t.Error("Hit = true on empty cell")
	}
	if got := s.Boards[1].At(Coord{9, 9}).State; got != CellMiss {
		t.Errorf("cell state = %s, want miss", got)
	}
}

// TestResolveSinkReportsShip covers scenario 2: hitting every cell of a ship
// in arbitrary order reports the sink on the final shot and marks all cells.
func TestResolveSinkReportsShip(t *testing.T) {
	s := newCombatSession(t, 2)
	// Destroyer (ship 4, length 2) sits at (0,4),(1,4).
	order := []Coord{{1, 4}, {0, 4}}
	var last Outcome
	for _, c := range order {
		out, err := s.ResolveAttack(0, 1, c)
		if err != nil {
			t.Fatalf("ResolveAttack(%v): %v", c, err)
		}
		last = out
	}
	if last.SunkShip != 4 {
		t.Errorf("SunkShip = %d, want 4", last.SunkShip)
	}
	if last.SunkClass != ClassDestroyer {
		t.Errorf("SunkClass = %s, want Destroyer", last.SunkClass.Name())
	}
	for _, c := range order {
		if got := s.Boards[1].At(c).State; got != CellSunk {
			t.Errorf("cell (%d,%d) state = %s, want sunk", c.Col, c.Row, got)
		}
	}
	if s.Phase != PhaseCombat {
		t.Errorf("Phase = %s with four ships left, want combat", s.Phase)
	}
}

// TestResolveConcludesTwoSeats covers scenario 3: sinking seat 1's whole
// fleet concludes the session with seat 0 as winner, and a later Advance is
// a no-op.
func TestResolveConcludesTwoSeats(t *testing.T) {
	s := newCombatSession(t, 2)
	sinkBoard(t, s, 0, 1)

	if s.Phase != PhaseConcluded {
		t.Fatalf("Phase = %s, want concluded", s.Phase)
	}
	if s.Winner != 0 {
		t.Errorf("Winner = %d, want 0", s.Winner)
	}

	cur := s.Current
	s.Advance()
	if s.Current != cur {
		t.Errorf("Advance after conclusion moved Current from %d to %d", cur, s.Current)
	}

	// Firing after conclusion is a contract violation.
	if _, err := s.ResolveAttack(0, 1, Coord{9, 0}); err == nil {
		t.Error("ResolveAttack after conclusion succeeded, want error")
	}
}

// TestResolveEliminationKeepsPlaying verifies that in a 3-seat session,
// sinking one fleet eliminates the seat without concluding.
func TestResolveEliminationKeepsPlaying(t *testing.T) {
	s := newCombatSession(t, 3)
	sinkBoard(t, s, 0, 1)

	if s.Phase != PhaseCombat {
		t.Fatalf("Phase = %s with two fleets living, want combat", s.Phase)
	}
	if s.Winner != -1 {
		t.Errorf("Winner = %d mid-game, want -1", s.Winner)
	}
	if s.SeatAlive(1) {
		t.Error("SeatAlive(1) = true after full sink")
	}
	alive := s.AliveSeats()
	if len(alive) != 2 || alive[0] != 0 || alive[1] != 2 {
		t.Errorf("AliveSeats = %v, want [0 2]", alive)
	}

	// Firing at the eliminated seat is a contract violation.
	if _, err := s.ResolveAttack(0, 1, Coord{9, 9}); err == nil {
		t.Error("ResolveAttack at eliminated seat succeeded, want error")
	}

	sinkBoard(t, s, 0, 2)
	if s.Phase != PhaseConcluded || s.Winner != 0 {
		t.Errorf("Phase = %s, Winner = %d after last elimination, want concluded/0", s.Phase, s.Winner)
	}
}

// TestResolveContractViolations verifies bad inputs are rejected without
// mutation.
func TestResolveContractViolations(t *testing.T) {
	s := newCombatSession(t, 2)
	before := *s

	cases := []struct {
		name             string
		attacker, target uint8
		coord            Coord
	}{
		{"self fire", 0, 0, Coord{0, 0}},
		{"bad attacker", 7, 1, Coord{0, 0}},
		{"bad target", 0, 7, Coord{0, 0}},
		{"out of bounds col", 0, 1, Coord{10, 0}},
		{"out of bounds neg", 0, 1, Coord{-1, 0}},
	}
	for _, tc := range cases {
		if _, err := s.ResolveAttack(tc.attacker, tc.target, tc.coord); err == nil {
			t.Errorf("%s: ResolveAttack succeeded, want error", tc.name)
		}
	}
	if *s != before {
		t.Error("session mutated by rejected attacks")
	}
}

// TestCellStatusOnlyAdvances replays a full elimination and asserts no cell
// status ever steps backward.
func TestCellStatusOnlyAdvances(t *testing.T) {
	rank := func(st CellState) int {
		switch st {
		case CellEmpty, CellOccupied:
			return 0
		case CellHit, CellMiss:
			return 1
		case CellSunk:
			return 2
		}
		return -1
	}

	s := newCombatSession(t, 2)
	prev := s.Boards[1]
	for ship := uint8(0); ship < FleetSize; ship++ {
		length := s.Boards[1].Ships[ship].Length()
		for i := uint8(0); i < length; i++ {
			if s.Phase != PhaseCombat {
				break
			}
			if _, err := s.ResolveAttack(0, 1, Coord{Col: int8(i), Row: int8(ship)}); err != nil {
				t.Fatalf("ResolveAttack: %v", err)
			}
			for r := int8(0); r < BoardSize; r++ {
				for c := int8(0); c < BoardSize; c++ {
					was := rank(prev.Grid[r][c].State)
					now := rank(s.Boards[1].Grid[r][c].State)
					if now < was {
						t.Fatalf("cell (%d,%d) regressed %s → %s",
							c, r, prev.Grid[r][c].State, s.Boards[1].Grid[r][c].State)
					}
				}
			}
			prev = s.Boards[1]
		}
	}
}
