// Package state is the core API for the blockchain and implements all the
// business rules and processing.
package state

import (
	"context"
	"sync"

	"github.com/mikitasolo/borwwcoin/foundation/blockchain/database"
	"github.com/mikitasolo/borwwcoin/foundation/blockchain/genesis"
	"github.com/mikitasolo/borwwcoin/foundation/blockchain/mempool"
)

// =============================================================================

// EventHandler defines a function that is called when events
// occur in the processing of the blockchain.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by any
// package providing support for background mining.
type Worker interface {
	Shutdown()
	SignalStartMining()
	SignalCancelMining()
}

// =============================================================================

// Config represents the configuration required to start the blockchain.
type Config struct {
	Genesis   genesis.Genesis
	EvHandler EventHandler
}

// State manages the blockchain held in memory.
type State struct {
	genesis   genesis.Genesis
	evHandler EventHandler

	// mu protects the blocks, the pending pool and the transactions being
	// mined as a unit. mining makes sure only one block is mined from the
	// pending pool at a time.
	mu       sync.Mutex
	mining   sync.Mutex
	blocks   []database.Block
	mempool  *mempool.Mempool
	inflight []database.Tx

	Worker Worker
}

// New constructs a new blockchain with a mined genesis block.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	if err := cfg.Genesis.Validate(); err != nil {
		return nil, err
	}

	ev("state: New: MINING: genesis block: difficulty[%d]", cfg.Genesis.Difficulty)

	// The genesis block has no transactions and links to the "0" sentinel.
	genesisBlock := database.NewBlock(nil, database.GenesisPrevHash)
	if _, err := genesisBlock.Mine(context.Background(), cfg.Genesis.Difficulty, ev); err != nil {
		return nil, err
	}

	state := State{
		genesis:   cfg.Genesis,
		evHandler: ev,
		blocks:    []database.Block{genesisBlock},
		mempool:   mempool.New(),
	}

	// The Worker is not set here. The call to worker.Run will assign itself
	// and start everything up and running for the node.

	return &state, nil
}

// Shutdown cleanly brings the chain down.
func (s *State) Shutdown() error {
	s.evHandler("state: shutdown: started")
	defer s.evHandler("state: shutdown: completed")

	// Stop all blockchain writing activity.
	if s.Worker != nil {
		s.Worker.Shutdown()
	}

	return nil
}
