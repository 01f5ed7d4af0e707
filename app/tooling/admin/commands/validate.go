package commands

import (
	"fmt"
	"io"

	"github.com/mikitasolo/borwwcoin/foundation/blockchain/database"
)

// Validate checks the chain held by the snapshot against the difficulty it
// was mined at and prints the outcome.
func Validate(w io.Writer, snap Snapshot) error {
	report := database.ValidateChain(snap.Chain, snap.Difficulty)

	if !report.Valid {
		fmt.Fprintf(w, "Blocks: %d  Valid: false  Violation: %s\n", report.Blocks, report.Violation)
		return nil
	}

	fmt.Fprintf(w, "Blocks: %d  Valid: true\n", report.Blocks)
	return nil
}
