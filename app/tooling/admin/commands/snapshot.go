// Package commands contains the functionality for the admin commands.
package commands

import (
	"errors"
	"os"

	"github.com/mikitasolo/borwwcoin/foundation/blockchain/state"
	"gopkg.in/yaml.v3"
)

// ErrHelp is returned when no known command was provided.
var ErrHelp = errors.New("provide a command")

// Snapshot is the chain state the commands operate on.
type Snapshot = state.Snapshot

// LoadSnapshot reads a snapshot rendered as json or yaml. A json document is
// valid yaml so one decoder handles both.
func LoadSnapshot(path string) (Snapshot, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, err
	}

	var snap Snapshot
	if err := yaml.Unmarshal(content, &snap); err != nil {
		return Snapshot{}, err
	}

	if len(snap.Chain) == 0 {
		return Snapshot{}, errors.New("snapshot holds no blocks")
	}

	return snap, nil
}
