package state

import (
	"encoding/json"
	"fmt"

	"github.com/mikitasolo/borwwcoin/foundation/blockchain/database"
	"gopkg.in/yaml.v3"
)

// Set of formats a snapshot can be rendered in.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Snapshot is a structural copy of the entire chain state for inspection
// by external tooling.
type Snapshot struct {
	Difficulty   uint             `json:"difficulty" yaml:"difficulty"`
	MiningReward uint64           `json:"mining_reward" yaml:"mining_reward"`
	Chain        []database.Block `json:"chain" yaml:"chain"`
	Pending      []database.Tx    `json:"pending_transactions" yaml:"pending_transactions"`
}

// Snapshot captures the chain and the pending pool at a single point in time.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	blocks := make([]database.Block, len(s.blocks))
	for i, block := range s.blocks {
		blocks[i] = copyBlock(block)
	}

	return Snapshot{
		Difficulty:   s.genesis.Difficulty,
		MiningReward: s.genesis.MiningReward,
		Chain:        blocks,
		Pending:      s.mempool.Copy(),
	}
}

// Marshal renders the snapshot as an indented textual tree.
func (snap Snapshot) Marshal(format string) ([]byte, error) {
	switch format {
	case FormatJSON, "":
		return json.MarshalIndent(snap, "", "    ")
	case FormatYAML:
		return yaml.Marshal(snap)
	}

	return nil, fmt.Errorf("unknown snapshot format %q", format)
}
