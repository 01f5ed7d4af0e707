// This program runs the borwwcoin walkthrough: it mines a couple of blocks,
// moves value between accounts, tampers with copies of the chain to show
// what validation reports and prints a snapshot of the result.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ardanlabs/conf/v3"
	"github.com/mikitasolo/borwwcoin/foundation/blockchain/database"
	"github.com/mikitasolo/borwwcoin/foundation/blockchain/genesis"
	"github.com/mikitasolo/borwwcoin/foundation/blockchain/signature"
	"github.com/mikitasolo/borwwcoin/foundation/blockchain/state"
	"github.com/mikitasolo/borwwcoin/foundation/logger"
	"go.uber.org/zap"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

func main() {

	// Construct the application logger.
	log, err := logger.New("DEMO")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	// Perform the startup and shutdown sequence.
	if err := run(log, os.Stdout); err != nil {
		log.Errorw("startup", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}

// config represents the settings for a demo run.
type config struct {
	conf.Version
	Difficulty   uint   `conf:"default:2"`
	MiningReward uint64 `conf:"default:100"`
	Transfer     uint64 `conf:"default:30"`
	Format       string `conf:"default:yaml"`
}

func run(log *zap.SugaredLogger, out io.Writer) error {

	// =========================================================================
	// Configuration

	cfg := config{
		Version: conf.Version{
			Build: build,
			Desc:  "borwwcoin walkthrough",
		},
	}

	const prefix = "DEMO"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	return walkthrough(log, out, cfg)
}

// walkthrough performs the demo against a new chain.
func walkthrough(log *zap.SugaredLogger, out io.Writer, cfg config) error {
	ev := func(v string, args ...any) {
		log.Debugw(fmt.Sprintf(v, args...))
	}

	st, err := state.New(state.Config{
		Genesis: genesis.Genesis{
			Difficulty:   cfg.Difficulty,
			MiningReward: cfg.MiningReward,
		},
		EvHandler: ev,
	})
	if err != nil {
		return fmt.Errorf("starting chain: %w", err)
	}
	defer st.Shutdown()

	log.Infow("demo", "status", "genesis mined", "hash", st.LatestBlock().Hash, "difficulty", cfg.Difficulty)

	// =========================================================================
	// Mine and transfer

	minerKey, err := signature.NewKey()
	if err != nil {
		return err
	}
	userKey, err := signature.NewKey()
	if err != nil {
		return err
	}

	miner := database.AccountID(minerKey.PublicID())
	user := database.AccountID(userKey.PublicID())

	ctx := context.Background()

	log.Infow("demo", "status", "mining block 1", "reward", miner)
	res, err := st.MinePendingTransactions(ctx, miner)
	if err != nil {
		return fmt.Errorf("mining block 1: %w", err)
	}
	log.Infow("demo", "status", "block mined", "hash", res.Block.Hash, "attempts", res.Attempts, "duration", res.Duration)

	tx := database.NewTransferTx(miner, user, cfg.Transfer)
	if err := tx.Sign(minerKey); err != nil {
		return fmt.Errorf("signing transfer: %w", err)
	}
	if err := st.AddTransaction(tx); err != nil {
		return fmt.Errorf("adding transfer: %w", err)
	}
	log.Infow("demo", "status", "transfer pending", "tx", tx)

	log.Infow("demo", "status", "mining block 2", "reward", miner)
	res, err = st.MinePendingTransactions(ctx, miner)
	if err != nil {
		return fmt.Errorf("mining block 2: %w", err)
	}
	log.Infow("demo", "status", "block mined", "hash", res.Block.Hash, "attempts", res.Attempts, "duration", res.Duration)

	log.Infow("demo", "status", "balances", "miner", st.BalanceOf(miner), "user", st.BalanceOf(user))
	log.Infow("demo", "status", "chain validated", "valid", st.IsValid())

	// =========================================================================
	// Tamper with a copy of the chain

	steps, err := tamper(ctx, st.Blocks(), cfg.Difficulty, ev)
	if err != nil {
		return fmt.Errorf("tampering: %w", err)
	}
	for _, step := range steps {
		if step.Report.Valid {
			log.Infow("tamper", "step", step.Name, "valid", true)
			continue
		}
		log.Infow("tamper", "step", step.Name, "valid", false, "violation", step.Report.Violation.Error())
	}

	// The live chain was never touched.
	log.Infow("demo", "status", "live chain validated", "valid", st.IsValid())

	// =========================================================================
	// Snapshot

	data, err := st.Snapshot().Marshal(cfg.Format)
	if err != nil {
		return err
	}

	if _, err := out.Write(data); err != nil {
		return err
	}

	return nil
}
