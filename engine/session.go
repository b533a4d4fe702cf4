// Package engine implements the decision and resolution core of a multi-seat
// grid-based naval-combat game.
//
// The package is a self-contained flat-value engine: a Session carries every
// board, the seating order, the phase, and its own RNG state. Nothing here
// does I/O; orchestration, transport, and persistence live in the service
// layer on top.
package engine

import "fmt"

// Session is the complete, self-contained state of one game. It is a flat
// value type: copying a Session copies the whole game, which makes
// snapshot/undo and deterministic tests plain struct copies.
type Session struct {
	Rules    Rules
	Seats    [MaxSeats]Seat
	Boards   [MaxSeats]Board
	Seated   uint8 // number of active seats (2–4)
	Phase    Phase
	Current  uint8 // seat whose turn it is during combat
	Winner   int8  // winning seat when concluded, -1 otherwise
	PlaceIdx uint8 // seat whose placement is pending during placement
	RNG      uint64
}

// NewSession creates a session in the seating phase with empty boards.
// seats must contain 2–4 active entries in their fixed seating order.
func NewSession(seed uint64, rules Rules, seats []Seat) (Session, error) {
	var s Session
	if len(seats) < 2 || len(seats) > MaxSeats {
		return s, fmt.Errorf("new session: need 2-%d seats, got %d", MaxSeats, len(seats))
	}
	s.Rules = rules
	s.RNG = seed
	if s.RNG == 0 {
		s.RNG = 1 // xorshift can't start at 0
	}
	s.Seated = uint8(len(seats))
	for i, seat := range seats {
		s.Seats[i] = seat
		s.Boards[i] = NewBoard()
	}
	s.Phase = PhaseSeating
	s.Winner = -1
	return s, nil
}

// ---------------------------------------------------------------------------
// xorshift64 RNG — inline, no interface
// ---------------------------------------------------------------------------

func (s *Session) nextRand() uint64 {
	x := s.RNG
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	s.RNG = x
	return x
}

// randN returns a random number in [0, n).
func (s *Session) randN(n uint64) uint64 {
	return s.nextRand() % n
}

// ---------------------------------------------------------------------------
// Query methods
// ---------------------------------------------------------------------------

// NumSeats returns the number of active seats.
func (s *Session) NumSeats() uint8 { return s.Seated }

// SeatAlive reports whether the seat's board retains an unsunk ship.
func (s *Session) SeatAlive(seat uint8) bool {
	return seat < s.Seated && s.Boards[seat].Alive()
}

// AliveSeats returns the seats with a living fleet, in seating order.
func (s *Session) AliveSeats() []uint8 {
	out := make([]uint8, 0, s.Seated)
	for i := uint8(0); i < s.Seated; i++ {
		if s.Boards[i].Alive() {
			out = append(out, i)
		}
	}
	return out
}

// Opponents returns all living seats except the given one, in seating order.
func (s *Session) Opponents(seat uint8) []uint8 {
	out := make([]uint8, 0, s.Seated-1)
	for i := uint8(0); i < s.Seated; i++ {
		if i != seat && s.Boards[i].Alive() {
			out = append(out, i)
		}
	}
	return out
}

// Concluded reports whether the session has ended.
func (s *Session) Concluded() bool { return s.Phase == PhaseConcluded }

// ---------------------------------------------------------------------------
// Seating and placement flow
// ---------------------------------------------------------------------------

// Reseat replaces the seat list before placement starts, resetting all
// boards. Any seating change after placement begins is a contract violation.
func (s *Session) Reseat(seats []Seat) error {
	if s.Phase != PhaseSeating && s.Phase != PhasePlacement {
		return fmt.Errorf("reseat: not allowed in phase %s", s.Phase)
	}
	if len(seats) < 2 || len(seats) > MaxSeats {
		return fmt.Errorf("reseat: need 2-%d seats, got %d", MaxSeats, len(seats))
	}
	s.Seated = uint8(len(seats))
	for i, seat := range seats {
		s.Seats[i] = seat
		s.Boards[i] = NewBoard()
	}
	s.Phase = PhaseSeating
	s.PlaceIdx = 0
	return nil
}

// BeginPlacement moves the session from seating to placement. The placement
// pointer starts at seat 0 and advances in the same fixed order combat
// rotation uses.
func (s *Session) BeginPlacement() error {
	if s.Phase != PhaseSeating {
		return fmt.Errorf("begin placement: session is in phase %s", s.Phase)
	}
	s.Phase = PhasePlacement
	s.PlaceIdx = 0
	return nil
}

// PlaceShip places one ship for the seat whose placement is pending.
func (s *Session) PlaceShip(seat, shipIdx uint8, anchor Coord, orient Orientation) error {
	if s.Phase != PhasePlacement {
		return fmt.Errorf("place ship: session is in phase %s", s.Phase)
	}
	if seat >= s.Seated {
		return fmt.Errorf("place ship: invalid seat %d", seat)
	}
	if seat != s.PlaceIdx {
		return fmt.Errorf("place ship: seat %d is not placing (pointer at %d)", seat, s.PlaceIdx)
	}
	return s.Boards[seat].Place(shipIdx, anchor, orient)
}

// SeatReady marks the pending seat's placement complete and advances the
// placement pointer. When the last seat readies, combat begins with seat 0.
func (s *Session) SeatReady(seat uint8) error {
	if s.Phase != PhasePlacement {
		return fmt.Errorf("seat ready: session is in phase %s", s.Phase)
	}
	if seat != s.PlaceIdx {
		return fmt.Errorf("seat ready: seat %d is not placing (pointer at %d)", seat, s.PlaceIdx)
	}
	if !s.Boards[seat].FleetPlaced() {
		return fmt.Errorf("seat ready: seat %d has placed %d of %d ships", seat, s.Boards[seat].NumPlaced, FleetSize)
	}
	s.PlaceIdx++
	if s.PlaceIdx >= s.Seated {
		s.Phase = PhaseCombat
		s.Current = 0
	}
	return nil
}
