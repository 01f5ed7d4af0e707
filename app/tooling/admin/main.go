// This program performs administrative tasks against a chain snapshot taken
// from a node or the demo.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ardanlabs/conf/v3"
	"github.com/mikitasolo/borwwcoin/app/tooling/admin/commands"
	"github.com/mikitasolo/borwwcoin/foundation/logger"
	"go.uber.org/zap"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

func main() {

	// Construct the application logger.
	log, err := logger.New("ADMIN")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	// Perform the startup and shutdown sequence.
	if err := run(log); err != nil {
		if !errors.Is(err, commands.ErrHelp) {
			log.Errorw("startup", "ERROR", err)
		}
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {
	cfg := struct {
		conf.Version
		Args     conf.Args
		Snapshot string `conf:"default:zblock/snapshot.yaml,help:json or yaml snapshot of the chain"`
	}{
		Version: conf.Version{
			Build: build,
			Desc:  "borwwcoin snapshot administration",
		},
	}

	const prefix = "ADMIN"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	log.Infow("startup", "status", "loading snapshot", "path", cfg.Snapshot)

	snap, err := commands.LoadSnapshot(cfg.Snapshot)
	if err != nil {
		return fmt.Errorf("loading snapshot: %w", err)
	}

	return processCommands(cfg.Args, snap, os.Stdout)
}

// processCommands handles the execution of the commands specified on
// the command line.
func processCommands(args conf.Args, snap commands.Snapshot, out io.Writer) error {
	switch args.Num(0) {
	case "bals":
		if err := commands.Balances(out, snap, args.Num(1)); err != nil {
			return fmt.Errorf("getting balances: %w", err)
		}
	case "trans":
		if err := commands.Transactions(out, snap, args.Num(1)); err != nil {
			return fmt.Errorf("getting transactions: %w", err)
		}
	case "validate":
		if err := commands.Validate(out, snap); err != nil {
			return fmt.Errorf("validating chain: %w", err)
		}
	default:
		fmt.Fprintln(out, "bals [account]:  show the balance of every account or a single account")
		fmt.Fprintln(out, "trans [account]: show the mined and pending transactions")
		fmt.Fprintln(out, "validate:        validate the chain held by the snapshot")
		return commands.ErrHelp
	}

	return nil
}
