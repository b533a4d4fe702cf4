// internal/game/views.go
package game

import (
	"github.com/google/uuid"

	"github.com/takashiotakes/BattleShipGame/engine"
)

// ShipView describes one ship of a seat's own fleet.
type ShipView struct {
	Class  string `json:"class"`
	Length int    `json:"length"`
	Col    int    `json:"col"`
	Row    int    `json:"row"`
	Orient string `json:"orient"`
	Hits   int    `json:"hits"`
	Sunk   bool   `json:"sunk"`
}

// BoardView is one seat's board as seen by a specific observer. Cells is ten
// row strings of cell codes: '.' unknown or open water, 'S' own ship, 'x'
// hit, 'o' miss, '#' sunk. An opponent's unhit ship cells render as '.'.
type BoardView struct {
	SeatID    uuid.UUID `json:"seatId"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Connected bool      `json:"connected"`
	Alive     bool      `json:"alive"`
	ShipsLeft int       `json:"shipsLeft"`
	IsTurn    bool      `json:"isTurn"`
	Cells     []string  `json:"cells"`
	// Fleet is populated only on the observer's own board.
	Fleet []ShipView `json:"fleet,omitempty"`
}

// MatchState is the overall match state, obfuscated for a specific observer.
type MatchState struct {
	MatchID       uuid.UUID   `json:"matchId"`
	Phase         string      `json:"phase"`
	Started       bool        `json:"started"`
	Over          bool        `json:"over"`
	TurnID        int         `json:"turnId"`
	CurrentSeatID uuid.UUID   `json:"currentSeatId,omitempty"`
	WinnerSeatID  uuid.UUID   `json:"winnerSeatId,omitempty"`
	Draw          bool        `json:"draw,omitempty"`
	Boards        []BoardView `json:"boards"`
}

// StateFor generates a snapshot of the match tailored to the perspective of
// the requesting seat. Every board's resolved cells are public; only the
// observer's own unhit ships are revealed.
// This function assumes the match lock is HELD by the caller.
func (m *Match) StateFor(forSeat uuid.UUID) MatchState {
	st := MatchState{
		MatchID: m.ID,
		Phase:   m.Session.Phase.String(),
		Started: m.Started,
		Over:    m.Over || m.Session.Concluded(),
		TurnID:  m.TurnID,
	}

	if m.Started && !st.Over {
		cur := m.Session.Current
		if int(cur) < len(m.Seats) {
			st.CurrentSeatID = m.EngineToSeat[cur]
		}
	}
	if m.Session.Concluded() {
		if m.Session.Winner >= 0 {
			st.WinnerSeatID = m.EngineToSeat[m.Session.Winner]
		} else {
			st.Draw = true
		}
	}

	st.Boards = make([]BoardView, len(m.Seats))
	for i, si := range m.Seats {
		idx := uint8(i)
		isSelf := si.ID == forSeat

		bv := BoardView{
			SeatID:    si.ID,
			Name:      si.Name,
			Role:      RoleName(si.Role),
			Connected: si.Connected,
			Alive:     m.Session.SeatAlive(idx),
			ShipsLeft: int(m.Session.Boards[idx].UnsunkShips()),
			IsTurn:    m.Started && !st.Over && m.Session.Current == idx,
			Cells:     renderBoard(&m.Session.Boards[idx], isSelf),
		}
		if isSelf {
			bv.Fleet = m.fleetView(idx)
		}
		st.Boards[i] = bv
	}
	return st
}

// renderBoard projects a board into row strings. revealShips controls
// whether unhit occupied cells show as ships or as open water.
func renderBoard(b *engine.Board, revealShips bool) []string {
	rows := make([]string, engine.BoardSize)
	var buf [engine.BoardSize]byte
	for r := int8(0); r < engine.BoardSize; r++ {
		for c := int8(0); c < engine.BoardSize; c++ {
			switch b.Grid[r][c].State {
			case engine.CellHit:
				buf[c] = 'x'
			case engine.CellMiss:
				buf[c] = 'o'
			case engine.CellSunk:
				buf[c] = '#'
			case engine.CellOccupied:
				if revealShips {
					buf[c] = 'S'
				} else {
					buf[c] = '.'
				}
			default:
				buf[c] = '.'
			}
		}
		rows[r] = string(buf[:])
	}
	return rows
}

// fleetView lists a seat's placed ships with their hit state.
// Assumes lock is held by caller.
func (m *Match) fleetView(idx uint8) []ShipView {
	b := &m.Session.Boards[idx]
	out := make([]ShipView, 0, engine.FleetSize)
	for i := range b.Ships {
		ship := &b.Ships[i]
		if !ship.Placed {
			continue
		}
		out = append(out, ShipView{
			Class:  ship.Class.Name(),
			Length: int(ship.Length()),
			Col:    int(ship.Anchor.Col),
			Row:    int(ship.Anchor.Row),
			Orient: ship.Orient.String(),
			Hits:   int(ship.HitCount()),
			Sunk:   ship.Sunk(),
		})
	}
	return out
}
