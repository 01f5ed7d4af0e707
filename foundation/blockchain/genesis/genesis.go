// Package genesis maintains access to the genesis parameters.
package genesis

import (
	"encoding/json"
	"errors"
	"os"
	"time"
)

// Set of default values matching the original borwwcoin chain.
const (
	DefaultDifficulty   = 3
	DefaultMiningReward = 100
)

// Genesis represents the genesis file.
type Genesis struct {
	Date         time.Time `json:"date" yaml:"date"`
	Difficulty   uint      `json:"difficulty" yaml:"difficulty"`       // How difficult it needs to be to solve the work problem.
	MiningReward uint64    `json:"mining_reward" yaml:"mining_reward"` // Reward for mining a block.
}

// Default returns the genesis parameters used when no file is provided.
func Default() Genesis {
	return Genesis{
		Date:         time.Now().UTC(),
		Difficulty:   DefaultDifficulty,
		MiningReward: DefaultMiningReward,
	}
}

// =============================================================================

// Load opens and consumes the genesis file. Fields missing from the file
// keep their default values.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	genesis := Default()
	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, err
	}

	if err := genesis.Validate(); err != nil {
		return Genesis{}, err
	}

	return genesis, nil
}

// Validate checks the parameters can drive a chain. The hash is 64 hex
// characters so the difficulty can't ask for more zeros than that.
func (g Genesis) Validate() error {
	if g.Difficulty > 64 {
		return errors.New("difficulty can't be larger than 64")
	}

	return nil
}
