package engine

import (
	"fmt"
	"math/rand/v2"
)

// ChooseTarget picks the next coordinate to fire at on the opponent board b.
// It is stateless: the decision derives solely from currently observable
// cell statuses and the remaining (unsunk) ship lengths. remaining may be
// nil, in which case it is derived from the board.
//
// The candidate set for a given skill and board is fully deterministic; only
// the draw among tied candidates uses rng. The caller must supply a
// *rand.Rand (math/rand/v2) for thread safety and determinism.
//
//   - SkillEasy: uniform over unresolved coordinates.
//   - SkillNormal: hunt/target. Target exploits neighbors of confirmed hits;
//     hunt restricts to the even-parity subset so no length-≥2 ship can hide
//     between samples.
//   - SkillHard: adds directional inference along contiguous hit runs and a
//     placement-density map for hunting.
//
// Choosing on a board with no unresolved coordinate is a contract violation.
func ChooseTarget(skill Skill, b *Board, remaining []uint8, rng *rand.Rand) (Coord, error) {
	if remaining == nil {
		remaining = b.RemainingShipLengths()
	}

	var cands []Coord
	switch skill {
	case SkillEasy:
		cands = unresolvedCoords(b)
	case SkillNormal:
		cands = hitNeighborCandidates(b)
		if len(cands) == 0 {
			cands = parityCandidates(b)
		}
		if len(cands) == 0 {
			cands = unresolvedCoords(b)
		}
	case SkillHard:
		cands = runExtensionCandidates(b)
		if len(cands) == 0 {
			cands = hitNeighborCandidates(b)
		}
		if len(cands) == 0 {
			cands = densityCandidates(b, remaining)
		}
		if len(cands) == 0 {
			cands = unresolvedCoords(b)
		}
	default:
		return Coord{}, fmt.Errorf("choose target: unknown skill %d", skill)
	}

	if len(cands) == 0 {
		return Coord{}, fmt.Errorf("choose target: no unresolved coordinates on board")
	}
	return cands[rng.IntN(len(cands))], nil
}

// unresolvedCoords returns every coordinate not yet fired upon, in row-major
// order.
func unresolvedCoords(b *Board) []Coord {
	out := make([]Coord, 0, BoardSize*BoardSize)
	for r := int8(0); r < BoardSize; r++ {
		for c := int8(0); c < BoardSize; c++ {
			if !b.Grid[r][c].State.Resolved() {
				out = append(out, Coord{Col: c, Row: r})
			}
		}
	}
	return out
}

// hitCells returns every cell currently in the hit state. Cells of sunk
// ships are marked sunk, so a hit cell always belongs to an unsunk ship.
func hitCells(b *Board) []Coord {
	var out []Coord
	for r := int8(0); r < BoardSize; r++ {
		for c := int8(0); c < BoardSize; c++ {
			if b.Grid[r][c].State == CellHit {
				out = append(out, Coord{Col: c, Row: r})
			}
		}
	}
	return out
}

// hitNeighborCandidates returns the deduplicated unresolved in-bounds
// orthogonal neighbors of every exploitable hit.
func hitNeighborCandidates(b *Board) []Coord {
	var out []Coord
	seen := make(map[Coord]bool)
	for _, h := range hitCells(b) {
		for _, n := range h.Neighbors() {
			if !n.InBounds() || seen[n] {
				continue
			}
			if b.Grid[n.Row][n.Col].State.Resolved() {
				continue
			}
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

// parityCandidates returns the unresolved coordinates where col+row is even.
// Every ship of length ≥2 covers at least one such coordinate.
func parityCandidates(b *Board) []Coord {
	var out []Coord
	for r := int8(0); r < BoardSize; r++ {
		for c := int8(0); c < BoardSize; c++ {
			if (c+r)%2 != 0 {
				continue
			}
			if !b.Grid[r][c].State.Resolved() {
				out = append(out, Coord{Col: c, Row: r})
			}
		}
	}
	return out
}

// runExtensionCandidates infers the axis of any contiguous run of two or
// more hits and returns the unresolved cells extending each run at both
// ends. With equal rows the ship must be horizontal; with equal columns,
// vertical. Empty when no run of length ≥2 exists or all extensions are
// resolved or off-board.
func runExtensionCandidates(b *Board) []Coord {
	var out []Coord
	seen := make(map[Coord]bool)

	add := func(c Coord) {
		if c.InBounds() && !seen[c] && !b.Grid[c.Row][c.Col].State.Resolved() {
			seen[c] = true
			out = append(out, c)
		}
	}

	// Horizontal runs.
	for r := int8(0); r < BoardSize; r++ {
		c := int8(0)
		for c < BoardSize {
			if b.Grid[r][c].State != CellHit {
				c++
				continue
			}
			start := c
			for c < BoardSize && b.Grid[r][c].State == CellHit {
				c++
			}
			if c-start >= 2 {
				add(Coord{Col: start - 1, Row: r})
				add(Coord{Col: c, Row: r})
			}
		}
	}

	// Vertical runs.
	for c := int8(0); c < BoardSize; c++ {
		r := int8(0)
		for r < BoardSize {
			if b.Grid[r][c].State != CellHit {
				r++
				continue
			}
			start := r
			for r < BoardSize && b.Grid[r][c].State == CellHit {
				r++
			}
			if r-start >= 2 {
				add(Coord{Col: c, Row: start - 1})
				add(Coord{Col: c, Row: r})
			}
		}
	}

	return out
}

// densityCandidates builds a per-coordinate count of axis-aligned placements
// of the remaining ship lengths that fit entirely within unresolved cells —
// a probability-density map under a uniform prior over placements — and
// returns the coordinates with the maximum count.
func densityCandidates(b *Board, remaining []uint8) []Coord {
	var density [BoardSize][BoardSize]uint16

	fits := func(c Coord) bool {
		return !b.Grid[c.Row][c.Col].State.Resolved()
	}

	for _, length := range remaining {
		l := int8(length)
		if l <= 0 || l > BoardSize {
			continue
		}
		// Horizontal placements.
		for r := int8(0); r < BoardSize; r++ {
			for c := int8(0); c+l <= BoardSize; c++ {
				ok := true
				for i := int8(0); i < l; i++ {
					if !fits(Coord{Col: c + i, Row: r}) {
						ok = false
						break
					}
				}
				if ok {
					for i := int8(0); i < l; i++ {
						density[r][c+i]++
					}
				}
			}
		}
		// Vertical placements.
		for c := int8(0); c < BoardSize; c++ {
			for r := int8(0); r+l <= BoardSize; r++ {
				ok := true
				for i := int8(0); i < l; i++ {
					if !fits(Coord{Col: c, Row: r + i}) {
						ok = false
						break
					}
				}
				if ok {
					for i := int8(0); i < l; i++ {
						density[r+i][c]++
					}
				}
			}
		}
	}

	var best uint16
	var out []Coord
	for r := int8(0); r < BoardSize; r++ {
		for c := int8(0); c < BoardSize; c++ {
			d := density[r][c]
			if d == 0 {
				continue
			}
			switch {
			case d > best:
				best = d
				out = out[:0]
				out = append(out, Coord{Col: c, Row: r})
			case d == best:
				out = append(out, Coord{Col: c, Row: r})
			}
		}
	}
	return out
}
