package engine

import "fmt"

// ResolveAttack applies one shot from attacker against target's board.
//
// A shot at an already-resolved cell returns AlreadyResolved with zero
// mutation, making the call safe against presentation-layer races. Everything
// else in the preconditions — wrong phase, bad seat ids, self-fire, dead
// target, out-of-bounds coordinate — is a contract violation and is rejected
// before any state changes. The check-and-apply runs as one step under the
// caller's synchronization, so two near-simultaneous shots can never both
// observe a cell as unresolved.
//
// Only this operation may conclude the session and set the winner.
func (s *Session) ResolveAttack(attacker, target uint8, c Coord) (Outcome, error) {
	out := Outcome{SunkShip: -1, Winner: -1}

	if s.Phase != PhaseCombat {
		return out, fmt.Errorf("resolve attack: session is in phase %s", s.Phase)
	}
	if attacker >= s.Seated || target >= s.Seated {
		return out, fmt.Errorf("resolve attack: invalid seat (attacker %d, target %d, seats %d)", attacker, target, s.Seated)
	}
	if attacker == target {
		return out, fmt.Errorf("resolve attack: seat %d cannot fire at itself", attacker)
	}
	if !c.InBounds() {
		return out, fmt.Errorf("resolve attack: coordinate (%d,%d) out of bounds", c.Col, c.Row)
	}
	b := &s.Boards[target]
	if !b.Alive() {
		return out, fmt.Errorf("resolve attack: target seat %d has no living fleet", target)
	}

	cell := b.Grid[c.Row][c.Col]

	// Idempotent no-op: a resolved cell is never re-fired upon.
	if cell.State.Resolved() {
		out.AlreadyResolved = true
		return out, nil
	}

	switch cell.State {
	case CellOccupied:
		ship := &b.Ships[cell.Ship]
		idx, ok := ship.CellIndex(c)
		if !ok {
			return out, fmt.Errorf("resolve attack: cell (%d,%d) references ship %d but is not among its cells", c.Col, c.Row, cell.Ship)
		}
		ship.Hits |= 1 << idx
		b.Grid[c.Row][c.Col].State = CellHit
		out.Hit = true
		if ship.Sunk() {
			for i := uint8(0); i < ship.Length(); i++ {
				sc := ship.CellAt(i)
				b.Grid[sc.Row][sc.Col].State = CellSunk
			}
			out.SunkShip = cell.Ship
			out.SunkClass = ship.Class
		}
	case CellEmpty:
		b.Grid[c.Row][c.Col].State = CellMiss
	default:
		// Resolved states were handled above; CellState is closed.
		return out, fmt.Errorf("resolve attack: cell (%d,%d) in unexpected state %s", c.Col, c.Row, cell.State)
	}

	// Conclusion check: recomputed fresh on every call, never cached.
	if b.UnsunkShips() == 0 {
		s.concludeIfDecided(&out)
	}
	return out, nil
}

// concludeIfDecided recomputes the global set of seats with a living fleet
// and concludes the session when at most one remains. Exactly one survivor
// wins; zero is a draw.
func (s *Session) concludeIfDecided(out *Outcome) {
	survivor := int8(-1)
	count := 0
	for i := uint8(0); i < s.Seated; i++ {
		if s.Boards[i].Alive() {
			survivor = int8(i)
			count++
		}
	}
	if count > 1 {
		return
	}
	s.Phase = PhaseConcluded
	if count == 1 {
		s.Winner = survivor
	} else {
		s.Winner = -1 // all fleets sunk: draw
	}
	out.Concluded = true
	out.Winner = s.Winner
}
