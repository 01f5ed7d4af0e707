package state

import (
	"errors"
	"fmt"

	"github.com/mikitasolo/borwwcoin/foundation/blockchain/database"
)

// Set of errors returned when a transaction can't be accepted into the
// pending pool.
var (
	ErrInvalidTransaction = errors.New("invalid transaction")
	ErrRewardSubmitted    = errors.New("rewards are only minted by mining")
	ErrAlreadyMined       = errors.New("transaction id already mined")
)

// =============================================================================

// AddTransaction accepts a signed transaction for inclusion in the next
// block. Balances are not checked here.
func (s *State) AddTransaction(tx database.Tx) error {
	if tx.IsReward() {
		return fmt.Errorf("%w: %w", ErrInvalidTransaction, ErrRewardSubmitted)
	}

	if tx.From == "" || tx.To == "" {
		return fmt.Errorf("%w: transaction must include from and to addresses", ErrInvalidTransaction)
	}

	if err := tx.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTransaction, err)
	}

	s.mu.Lock()
	n, err := s.addPending(tx)
	s.mu.Unlock()

	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTransaction, err)
	}

	s.evHandler("state: AddTransaction: tx[%s]: pending[%d]", tx, n)

	if s.Worker != nil {
		s.Worker.SignalStartMining()
	}

	return nil
}

// addPending adds the transaction to the pool unless its id is already on
// the chain or in the block being mined. The caller must hold mu.
func (s *State) addPending(tx database.Tx) (int, error) {
	for _, mining := range s.inflight {
		if mining.ID == tx.ID {
			return 0, ErrAlreadyMined
		}
	}

	for _, block := range s.blocks {
		for _, mined := range block.Trans {
			if mined.ID == tx.ID {
				return 0, ErrAlreadyMined
			}
		}
	}

	return s.mempool.Add(tx)
}
