package main

import (
	"context"

	"github.com/mikitasolo/borwwcoin/foundation/blockchain/database"
)

// step is the outcome of validating the chain after one change.
type step struct {
	Name   string
	Report database.Report
}

// tamper edits the blocks one change at a time and validates the chain
// after each change. The first block after genesis has its reward amount
// changed, is sealed again, and the block after it is relinked and sealed
// again. Only the last step gives a valid chain. The blocks must hold at
// least three entries.
func tamper(ctx context.Context, blocks []database.Block, difficulty uint, ev func(v string, args ...any)) ([]step, error) {
	var steps []step
	validate := func(name string) {
		steps = append(steps, step{
			Name:   name,
			Report: database.ValidateChain(blocks, difficulty),
		})
	}

	validate("untouched")

	last := len(blocks[1].Trans) - 1
	blocks[1].Trans[last].Amount = 50
	validate("reward amount changed")

	blocks[1].Hash = blocks[1].ContentHash()
	if _, err := blocks[1].Mine(ctx, difficulty, ev); err != nil {
		return nil, err
	}
	validate("block 1 sealed again")

	blocks[2].PrevBlockHash = blocks[1].Hash
	validate("block 2 relinked")

	blocks[2].Hash = blocks[2].ContentHash()
	if _, err := blocks[2].Mine(ctx, difficulty, ev); err != nil {
		return nil, err
	}
	validate("block 2 sealed again")

	return steps, nil
}
