package state

import "github.com/mikitasolo/borwwcoin/foundation/blockchain/database"

// Validate walks the chain and reports the first block breaking the hash,
// link, transaction or difficulty rules. Validation is a query, the chain
// keeps accepting blocks whatever the outcome.
func (s *State) Validate() database.Report {
	s.mu.Lock()
	report := database.ValidateChain(s.blocks, s.genesis.Difficulty)
	s.mu.Unlock()

	if !report.Valid {
		s.evHandler("state: Validate: INVALID: %s", report.Violation)
	}

	return report
}

// IsValid reports whether the chain passes validation.
func (s *State) IsValid() bool {
	return s.Validate().Valid
}
