package engine

// Rules holds configurable session settings.
type Rules struct {
	// PlacementAttempts bounds the rejection-sampling search for a single
	// ship. Exhaustion is a reported failure, never a silent overlap.
	PlacementAttempts uint16

	// FleetRetries bounds how many whole-fleet attempts RandomizeFleet makes
	// before reporting failure.
	FleetRetries uint8
}

// DefaultRules returns the standard session rules.
func DefaultRules() Rules {
	return Rules{
		PlacementAttempts: 1000,
		FleetRetries:      8,
	}
}

// placementAttempts returns the effective per-ship budget, treating 0 as the
// default.
func (r *Rules) placementAttempts() uint16 {
	if r.PlacementAttempts == 0 {
		return 1000
	}
	return r.PlacementAttempts
}

// fleetRetries returns the effective whole-fleet budget, treating 0 as the
// default.
func (r *Rules) fleetRetries() uint8 {
	if r.FleetRetries == 0 {
		return 8
	}
	return r.FleetRetries
}
