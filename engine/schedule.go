package engine

// Advance moves the turn to the next seat, in fixed seating order, whose
// board retains at least one unsunk ship. Seating order is never reordered
// after seating; eliminated seats are skipped, not removed.
//
// Advance is a pure function of the session with no hidden state. If a full
// cycle finds no living seat the session should already be concluded by the
// resolution engine; Advance performs a defensive no-op rather than deciding
// a winner itself — only ResolveAttack may set one.
func (s *Session) Advance() {
	if s.Phase != PhaseCombat {
		return
	}
	n := s.Seated
	for step := uint8(1); step <= n; step++ {
		cand := (s.Current + step) % n
		if s.Boards[cand].Alive() {
			s.Current = cand
			return
		}
	}
}
