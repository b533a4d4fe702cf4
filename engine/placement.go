package engine

import "fmt"

// PlaceRandomly places the seat's ship at shipIdx via rejection sampling:
// draw a uniform anchor and orientation, accept when CanPlace holds, redraw
// otherwise, bounded by the configured attempt budget. Exhaustion is a
// reported failure; the board is left unchanged for that ship.
func (s *Session) PlaceRandomly(seat, shipIdx uint8) error {
	if s.Phase != PhasePlacement {
		return fmt.Errorf("place randomly: session is in phase %s", s.Phase)
	}
	if seat >= s.Seated {
		return fmt.Errorf("place randomly: invalid seat %d", seat)
	}
	if shipIdx >= FleetSize {
		return fmt.Errorf("place randomly: ship index %d out of range", shipIdx)
	}

	b := &s.Boards[seat]
	class := b.Ships[shipIdx].Class
	budget := s.Rules.placementAttempts()
	for attempt := uint16(0); attempt < budget; attempt++ {
		anchor := Coord{
			Col: int8(s.randN(BoardSize)),
			Row: int8(s.randN(BoardSize)),
		}
		orient := Horizontal
		if s.randN(2) == 1 {
			orient = Vertical
		}
		if b.CanPlace(class, anchor, orient) {
			return b.Place(shipIdx, anchor, orient)
		}
	}
	return fmt.Errorf("place randomly: no valid placement for %s after %d attempts", class.Name(), budget)
}

// RandomizeFleet clears the seat's board and places the full fleet randomly.
// A single exhausted ship restarts the whole fleet rather than leaving a
// partially-placed board; whole-fleet retries are bounded by the rules.
func (s *Session) RandomizeFleet(seat uint8) error {
	if s.Phase != PhasePlacement {
		return fmt.Errorf("randomize fleet: session is in phase %s", s.Phase)
	}
	if seat >= s.Seated {
		return fmt.Errorf("randomize fleet: invalid seat %d", seat)
	}

	retries := s.Rules.fleetRetries()
	var lastErr error
	for r := uint8(0); r < retries; r++ {
		s.Boards[seat].ClearPlacement()
		lastErr = nil
		for ship := uint8(0); ship < FleetSize; ship++ {
			if err := s.PlaceRandomly(seat, ship); err != nil {
				lastErr = err
				break
			}
		}
		if lastErr == nil {
			return nil
		}
	}
	s.Boards[seat].ClearPlacement()
	return fmt.Errorf("randomize fleet: exhausted %d fleet attempts: %w", retries, lastErr)
}
