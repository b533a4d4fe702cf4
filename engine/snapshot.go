package engine

// Snapshot is a complete value-copy of a Session. Saving and restoring are
// plain struct copies, which is what lets a cancelled computer turn roll the
// world back to its last fully-resolved state.
type Snapshot Session

// Save returns a snapshot of the current session.
func (s *Session) Save() Snapshot { return Snapshot(*s) }

// Restore replaces the session with the given snapshot.
func (s *Session) Restore(snap Snapshot) { *s = Session(snap) }

// StateHash returns a fast 64-bit FNV-1a fingerprint of the session. Equal
// states always produce the same value, so comparing hashes before and after
// an operation detects whether it mutated anything.
func (s *Session) StateHash() uint64 {
	h := uint64(14695981039346656037) // FNV-1a offset basis
	const prime = uint64(1099511628211)

	mix := func(v uint64) {
		h ^= v
		h *= prime
	}

	for i := uint8(0); i < s.Seated; i++ {
		b := &s.Boards[i]
		for r := 0; r < BoardSize; r++ {
			for c := 0; c < BoardSize; c++ {
				mix(uint64(b.Grid[r][c].State) | uint64(uint8(b.Grid[r][c].Ship))<<8)
			}
		}
		for j := range b.Ships {
			mix(uint64(b.Ships[j].Hits) | uint64(b.Ships[j].Class)<<8)
		}
	}
	mix(uint64(s.Current) << 16)
	mix(uint64(s.Phase) << 24)
	if s.Winner >= 0 {
		mix(uint64(s.Winner+1) << 32)
	}
	return h
}
