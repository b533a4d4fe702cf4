package engine

import "math/bits"

const (
	// BoardSize is the side length of every board. All coordinates live in
	// [0, BoardSize) on both axes.
	BoardSize = 10

	// MaxSeats is the maximum number of active seats in a session.
	MaxSeats = 4

	// FleetSize is the number of ships every seat must place.
	FleetSize = 5
)

// Coord is a board coordinate: column (x) and row (y).
type Coord struct {
	Col int8
	Row int8
}

// InBounds reports whether the coordinate lies on the board.
func (c Coord) InBounds() bool {
	return c.Col >= 0 && c.Col < BoardSize && c.Row >= 0 && c.Row < BoardSize
}

// Neighbors returns the four orthogonal neighbors, including any that fall
// off the board. Callers filter with InBounds.
func (c Coord) Neighbors() [4]Coord {
	return [4]Coord{
		{c.Col - 1, c.Row},
		{c.Col + 1, c.Row},
		{c.Col, c.Row - 1},
		{c.Col, c.Row + 1},
	}
}

// ---------------------------------------------------------------------------
// Cell state — closed variant, only ever advances
// ---------------------------------------------------------------------------

// CellState is the per-position status of a board cell.
// Transitions: {empty|occupied} → {hit|miss} → {sunk, from hit only}.
type CellState uint8

const (
	CellEmpty CellState = iota
	CellOccupied
	CellHit
	CellMiss
	CellSunk
)

// Resolved reports whether the cell has already been fired upon.
// A resolved cell is never re-fired.
func (s CellState) Resolved() bool {
	return s == CellHit || s == CellMiss || s == CellSunk
}

func (s CellState) String() string {
	switch s {
	case CellEmpty:
		return "empty"
	case CellOccupied:
		return "occupied"
	case CellHit:
		return "hit"
	case CellMiss:
		return "miss"
	case CellSunk:
		return "sunk"
	}
	return "invalid"
}

// Cell is one grid position: its status plus a non-owning back-reference to
// the occupying ship (index into Board.Ships, -1 when unoccupied).
type Cell struct {
	State CellState
	Ship  int8
}

// ---------------------------------------------------------------------------
// Ship catalog
// ---------------------------------------------------------------------------

// ShipClass identifies an entry in the fixed ship catalog.
type ShipClass uint8

const (
	ClassCarrier    ShipClass = iota // length 5
	ClassBattleship                  // length 4
	ClassCruiser                     // length 3
	ClassSubmarine                   // length 3
	ClassDestroyer                   // length 2

	NumShipClasses
)

// shipLengths maps class to hull length. The fixed fleet is one of each.
var shipLengths = [NumShipClasses]uint8{5, 4, 3, 3, 2}

var shipNames = [NumShipClasses]string{
	"Carrier", "Battleship", "Cruiser", "Submarine", "Destroyer",
}

// Length returns the number of cells the class occupies.
func (c ShipClass) Length() uint8 { return shipLengths[c] }

// Name returns the display name of the class.
func (c ShipClass) Name() string { return shipNames[c] }

// Orientation is the axis a ship extends along from its anchor.
type Orientation uint8

const (
	Horizontal Orientation = iota // extends along columns
	Vertical                      // extends along rows
)

func (o Orientation) String() string {
	if o == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// ---------------------------------------------------------------------------
// ShipInstance
// ---------------------------------------------------------------------------

// ShipInstance is one placed (or not yet placed) ship on a board. Hits is a
// bitmask over the ship's cells: bit i set means the cell at offset i from
// the anchor has been hit. Sunk is derived, never stored.
type ShipInstance struct {
	Class  ShipClass
	Anchor Coord
	Orient Orientation
	Hits   uint8
	Placed bool
}

// Length returns the hull length of the ship.
func (s *ShipInstance) Length() uint8 { return s.Class.Length() }

// CellAt returns the coordinate of the ship cell at offset i from the anchor.
func (s *ShipInstance) CellAt(i uint8) Coord {
	if s.Orient == Horizontal {
		return Coord{Col: s.Anchor.Col + int8(i), Row: s.Anchor.Row}
	}
	return Coord{Col: s.Anchor.Col, Row: s.Anchor.Row + int8(i)}
}

// CellIndex returns the offset of coordinate c within the ship, if c is one
// of the ship's occupied cells.
func (s *ShipInstance) CellIndex(c Coord) (uint8, bool) {
	if !s.Placed {
		return 0, false
	}
	for i := uint8(0); i < s.Length(); i++ {
		if s.CellAt(i) == c {
			return i, true
		}
	}
	return 0, false
}

// HitCount returns the number of distinct cells hit on this ship.
func (s *ShipInstance) HitCount() uint8 {
	return uint8(bits.OnesCount8(s.Hits))
}

// Sunk reports whether every cell of the ship has been hit.
func (s *ShipInstance) Sunk() bool {
	return s.Placed && s.HitCount() == s.Length()
}

// ---------------------------------------------------------------------------
// Board
// ---------------------------------------------------------------------------

// Board is one seat's grid and fleet. It is a flat value type: copying a
// Board copies the whole state.
type Board struct {
	Grid      [BoardSize][BoardSize]Cell
	Ships     [FleetSize]ShipInstance
	NumPlaced uint8
}

// NewBoard returns an empty board with the fixed fleet catalog assigned but
// nothing placed.
func NewBoard() Board {
	var b Board
	for r := int8(0); r < BoardSize; r++ {
		for c := int8(0); c < BoardSize; c++ {
			b.Grid[r][c] = Cell{State: CellEmpty, Ship: -1}
		}
	}
	b.Ships[0] = ShipInstance{Class: ClassCarrier}
	b.Ships[1] = ShipInstance{Class: ClassBattleship}
	b.Ships[2] = ShipInstance{Class: ClassCruiser}
	b.Ships[3] = ShipInstance{Class: ClassSubmarine}
	b.Ships[4] = ShipInstance{Class: ClassDestroyer}
	return b
}

// At returns the cell at c. c must be in bounds.
func (b *Board) At(c Coord) Cell {
	return b.Grid[c.Row][c.Col]
}

// FleetPlaced reports whether every ship has been placed.
func (b *Board) FleetPlaced() bool { return b.NumPlaced == FleetSize }

// UnsunkShips returns the number of placed ships that are not yet sunk.
func (b *Board) UnsunkShips() uint8 {
	var n uint8
	for i := range b.Ships {
		if b.Ships[i].Placed && !b.Ships[i].Sunk() {
			n++
		}
	}
	return n
}

// Alive reports whether the board retains at least one unsunk ship.
func (b *Board) Alive() bool {
	return b.FleetPlaced() && b.UnsunkShips() > 0
}

// RemainingShipLengths returns the lengths of all placed, unsunk ships.
// This is observable information: a ship's class is announced when it sinks.
func (b *Board) RemainingShipLengths() []uint8 {
	out := make([]uint8, 0, FleetSize)
	for i := range b.Ships {
		if b.Ships[i].Placed && !b.Ships[i].Sunk() {
			out = append(out, b.Ships[i].Length())
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// Seats and phases
// ---------------------------------------------------------------------------

// Role classifies how a seat is controlled.
type Role uint8

const (
	RoleHuman Role = iota
	RoleComputer
)

// Skill is a computer seat's targeting tier.
type Skill uint8

const (
	SkillEasy Skill = iota
	SkillNormal
	SkillHard
)

func (s Skill) String() string {
	switch s {
	case SkillEasy:
		return "easy"
	case SkillNormal:
		return "normal"
	case SkillHard:
		return "hard"
	}
	return "invalid"
}

// Seat is one active participant. Inactive slots never enter a Session;
// callers filter them out before construction.
type Seat struct {
	Role  Role
	Skill Skill // meaningful only when Role == RoleComputer
}

// Phase is the session lifecycle stage.
type Phase uint8

const (
	PhaseSeating Phase = iota
	PhasePlacement
	PhaseCombat
	PhaseConcluded
)

func (p Phase) String() string {
	switch p {
	case PhaseSeating:
		return "seating"
	case PhasePlacement:
		return "placement"
	case PhaseCombat:
		return "combat"
	case PhaseConcluded:
		return "concluded"
	}
	return "invalid"
}

// ---------------------------------------------------------------------------
// Outcome
// ---------------------------------------------------------------------------

// Outcome reports the result of a single attack resolution.
type Outcome struct {
	// AlreadyResolved is set when the target cell had a prior resolution.
	// Nothing was mutated.
	AlreadyResolved bool

	// Hit is set when the shot struck a ship cell.
	Hit bool

	// SunkShip is the index of the ship this shot sank on the target board,
	// or -1 when no ship sank.
	SunkShip int8

	// SunkClass is the catalog class of the sunk ship; valid only when
	// SunkShip >= 0.
	SunkClass ShipClass

	// Concluded is set when this resolution ended the session.
	Concluded bool

	// Winner is the winning seat index when Concluded, or -1 (draw or not
	// concluded).
	Winner int8
}
