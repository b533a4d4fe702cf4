package engine

import "fmt"

// CanPlace reports whether the given class fits at anchor with the given
// orientation: every derived cell in bounds and currently empty.
func (b *Board) CanPlace(class ShipClass, anchor Coord, orient Orientation) bool {
	probe := ShipInstance{Class: class, Anchor: anchor, Orient: orient, Placed: true}
	for i := uint8(0); i < class.Length(); i++ {
		c := probe.CellAt(i)
		if !c.InBounds() {
			return false
		}
		if b.Grid[c.Row][c.Col].State != CellEmpty {
			return false
		}
	}
	return true
}

// Place puts the ship at index shipIdx onto the board. Callers must pre-check
// CanPlace; an invalid placement is a contract violation and is rejected
// without mutating the board.
func (b *Board) Place(shipIdx uint8, anchor Coord, orient Orientation) error {
	if shipIdx >= FleetSize {
		return fmt.Errorf("place: ship index %d out of range", shipIdx)
	}
	ship := &b.Ships[shipIdx]
	if ship.Placed {
		return fmt.Errorf("place: %s is already placed", ship.Class.Name())
	}
	if !b.CanPlace(ship.Class, anchor, orient) {
		return fmt.Errorf("place: %s at (%d,%d) %s does not fit", ship.Class.Name(), anchor.Col, anchor.Row, orient)
	}

	ship.Anchor = anchor
	ship.Orient = orient
	ship.Hits = 0
	ship.Placed = true
	for i := uint8(0); i < ship.Length(); i++ {
		c := ship.CellAt(i)
		b.Grid[c.Row][c.Col] = Cell{State: CellOccupied, Ship: int8(shipIdx)}
	}
	b.NumPlaced++
	return nil
}

// ClearPlacement removes every ship from the board and resets all cells.
// Used when a seat re-randomizes or when seating changes reset all boards.
func (b *Board) ClearPlacement() {
	for r := int8(0); r < BoardSize; r++ {
		for c := int8(0); c < BoardSize; c++ {
			b.Grid[r][c] = Cell{State: CellEmpty, Ship: -1}
		}
	}
	for i := range b.Ships {
		b.Ships[i].Anchor = Coord{}
		b.Ships[i].Orient = Horizontal
		b.Ships[i].Hits = 0
		b.Ships[i].Placed = false
	}
	b.NumPlaced = 0
}
