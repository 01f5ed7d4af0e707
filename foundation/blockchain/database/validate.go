package database

import "fmt"

// ViolationKind names the invariant a block broke.
type ViolationKind string

// Set of invariants checked when validating the chain.
const (
	InvalidTransactions ViolationKind = "invalid_transactions"
	HashMismatch        ViolationKind = "hash_mismatch"
	LinkMismatch        ViolationKind = "link_mismatch"
	DifficultyUnmet     ViolationKind = "difficulty_unmet"
)

// ValidationError describes the first invariant a block broke.
type ValidationError struct {
	Kind     ViolationKind `json:"kind"`
	Index    int           `json:"index"`
	Hash     string        `json:"hash"`
	Expected string        `json:"expected,omitempty"`
	Actual   string        `json:"actual,omitempty"`
}

// Error implements the error interface.
func (ve *ValidationError) Error() string {
	switch ve.Kind {
	case InvalidTransactions:
		return fmt.Sprintf("block[%d] %s has invalid transactions", ve.Index, ve.Hash)
	case HashMismatch:
		return fmt.Sprintf("block[%d] has incorrect hash, got %s, exp %s", ve.Index, ve.Actual, ve.Expected)
	case LinkMismatch:
		return fmt.Sprintf("block[%d] %s has previous hash %s, exp %s", ve.Index, ve.Hash, ve.Actual, ve.Expected)
	case DifficultyUnmet:
		return fmt.Sprintf("block[%d] %s does not meet difficulty, got prefix %s, exp %s", ve.Index, ve.Hash, ve.Actual, ve.Expected)
	}

	return fmt.Sprintf("block[%d] %s is invalid: %s", ve.Index, ve.Hash, ve.Kind)
}

// =============================================================================

// Report is the outcome of validating a chain of blocks.
type Report struct {
	Valid     bool             `json:"valid"`
	Blocks    int              `json:"blocks"`
	Violation *ValidationError `json:"violation,omitempty"`
}

// ValidateChain walks the blocks from index 1 and reports the first block that
// fails validation against its predecessor. The genesis block is trusted.
func ValidateChain(blocks []Block, difficulty uint) Report {
	for i := 1; i < len(blocks); i++ {
		if ve := blocks[i].ValidateBlock(i, blocks[i-1], difficulty); ve != nil {
			return Report{
				Blocks:    len(blocks),
				Violation: ve,
			}
		}
	}

	return Report{
		Valid:  true,
		Blocks: len(blocks),
	}
}
