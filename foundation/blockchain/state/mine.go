package state

import (
	"context"
	"errors"
	"time"

	"github.com/mikitasolo/borwwcoin/foundation/blockchain/database"
)

// ErrMissingRewardAddress is returned when a block is requested to be mined
// without an account to credit the reward to.
var ErrMissingRewardAddress = errors.New("mining reward address is required")

// =============================================================================

// MineResult describes a block that was mined and the work it took.
type MineResult struct {
	Block    database.Block `json:"block"`
	Attempts uint64         `json:"attempts"`
	Duration time.Duration  `json:"duration"`
}

// MinePendingTransactions takes every pending transaction plus a reward for
// the specified account, mines a new block on top of the latest block and
// appends it. If the context is cancelled nothing is appended and the
// pending transactions are put back into the pool.
func (s *State) MinePendingTransactions(ctx context.Context, rewardAddress database.AccountID) (MineResult, error) {
	if rewardAddress == "" {
		return MineResult{}, ErrMissingRewardAddress
	}

	// Only one block can be mined at a time from the pending pool.
	s.mining.Lock()
	defer s.mining.Unlock()

	s.evHandler("state: MinePendingTransactions: MINING: started: reward[%s]", rewardAddress)
	defer s.evHandler("state: MinePendingTransactions: MINING: completed")

	s.mu.Lock()
	trans := s.mempool.Drain()
	s.inflight = trans
	prevBlockHash := s.blocks[len(s.blocks)-1].Hash
	s.mu.Unlock()

	// The reward is minted by the chain and goes last in the block.
	reward := database.NewRewardTx(rewardAddress, s.genesis.MiningReward)
	block := database.NewBlock(append(trans, reward), prevBlockHash)

	// Perform the proof of work mining operation. This can be cancelled.
	t := time.Now()
	attempts, err := block.Mine(ctx, s.genesis.Difficulty, s.evHandler)
	duration := time.Since(t)

	if err != nil {
		s.evHandler("state: MinePendingTransactions: MINING: CANCELLED: restore[%d]", len(trans))

		s.mu.Lock()
		s.mempool.Restore(trans)
		s.inflight = nil
		s.mu.Unlock()

		return MineResult{Attempts: attempts, Duration: duration}, err
	}

	s.evHandler("state: MinePendingTransactions: MINING: append: blk[%s]: duration[%v]", block.Hash, duration)

	s.mu.Lock()
	s.blocks = append(s.blocks, block)
	s.inflight = nil
	s.mu.Unlock()

	res := MineResult{
		Block:    copyBlock(block),
		Attempts: attempts,
		Duration: duration,
	}

	return res, nil
}
