package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/ardanlabs/conf/v3"
	"github.com/mikitasolo/borwwcoin/app/tooling/admin/commands"
	"github.com/mikitasolo/borwwcoin/foundation/blockchain/database"
)

func TestProcessCommands(t *testing.T) {
	genesisBlock := database.NewBlock(nil, database.GenesisPrevHash)
	snap := commands.Snapshot{Chain: []database.Block{genesisBlock}}

	var out bytes.Buffer
	if err := processCommands(conf.Args{"validate"}, snap, &out); err != nil {
		t.Fatalf("Should be able to run validate: %v", err)
	}
	if !strings.Contains(out.String(), "Valid: true") {
		t.Fatalf("Should validate a chain holding only genesis: %s", out.String())
	}

	out.Reset()
	if err := processCommands(conf.Args{}, snap, &out); !errors.Is(err, commands.ErrHelp) {
		t.Fatalf("Should ask for a command: %v", err)
	}
	if !strings.Contains(out.String(), "bals") {
		t.Fatalf("Should list the commands: %s", out.String())
	}
}
