package state

import (
	"errors"
	"fmt"

	"github.com/mikitasolo/borwwcoin/foundation/blockchain/database"
	"github.com/mikitasolo/borwwcoin/foundation/blockchain/genesis"
	"github.com/mikitasolo/borwwcoin/foundation/blockchain/merkle"
)

// ErrNotFound is returned when a transaction isn't held by any block.
var ErrNotFound = errors.New("not found")

// TxProof proves a mined transaction belongs to a block.
type TxProof struct {
	BlockNumber int          `json:"block_number"`
	BlockHash   string       `json:"block_hash"`
	Tx          database.Tx  `json:"tx"`
	Proof       merkle.Proof `json:"proof"`
}

// Genesis returns a copy of the genesis information.
func (s *State) Genesis() genesis.Genesis {
	return s.genesis
}

// LatestBlock returns a copy of the current latest block.
func (s *State) LatestBlock() database.Block {
	s.mu.Lock()
	defer s.mu.Unlock()

	return copyBlock(s.blocks[len(s.blocks)-1])
}

// Blocks returns a copy of every block in chain order.
func (s *State) Blocks() []database.Block {
	s.mu.Lock()
	defer s.mu.Unlock()

	blocks := make([]database.Block, len(s.blocks))
	for i, block := range s.blocks {
		blocks[i] = copyBlock(block)
	}

	return blocks
}

// QueryPending returns a copy of the pending transactions.
func (s *State) QueryPending() []database.Tx {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.mempool.Copy()
}

// QueryBlocksByAccount returns the set of blocks with a transaction sent or
// received by the account. If the account is empty, all blocks are returned.
func (s *State) QueryBlocksByAccount(accountID database.AccountID) []database.Block {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []database.Block
	for _, block := range s.blocks {
		if accountID == "" {
			out = append(out, copyBlock(block))
			continue
		}

		for _, tx := range block.Trans {
			if tx.From == accountID || tx.To == accountID {
				out = append(out, copyBlock(block))
				break
			}
		}
	}

	return out
}

// QueryProof finds the block holding the transaction and returns the merkle
// proof of the transaction against the block's transactions.
func (s *State) QueryProof(txID string) (TxProof, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, block := range s.blocks {
		for _, tx := range block.Trans {
			if tx.ID != txID {
				continue
			}

			tree, err := merkle.NewTree(block.Trans)
			if err != nil {
				return TxProof{}, err
			}

			proof, err := tree.Proof(tx)
			if err != nil {
				return TxProof{}, err
			}

			txp := TxProof{
				BlockNumber: i,
				BlockHash:   block.Hash,
				Tx:          tx,
				Proof:       proof,
			}

			return txp, nil
		}
	}

	return TxProof{}, fmt.Errorf("transaction %q: %w", txID, ErrNotFound)
}

// BalanceOf folds over every transaction in the chain, subtracting what the
// account sent and adding what it received. Balances can go negative since
// nothing checks funds on submission.
func (s *State) BalanceOf(accountID database.AccountID) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var balance int64
	for _, block := range s.blocks {
		for _, tx := range block.Trans {
			if !tx.IsReward() && tx.From == accountID {
				balance -= int64(tx.Amount)
			}
			if tx.To == accountID {
				balance += int64(tx.Amount)
			}
		}
	}

	return balance
}

// Balances folds over the chain and returns the balance of every account
// that has transacted.
func (s *State) Balances() map[database.AccountID]int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return database.Balances(s.blocks)
}

// =============================================================================

// copyBlock makes a copy of the block with its own set of transactions.
func copyBlock(block database.Block) database.Block {
	block.Trans = append(make([]database.Tx, 0, len(block.Trans)), block.Trans...)
	return block
}
