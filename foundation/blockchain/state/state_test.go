package state_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/mikitasolo/borwwcoin/foundation/blockchain/database"
	"github.com/mikitasolo/borwwcoin/foundation/blockchain/genesis"
	"github.com/mikitasolo/borwwcoin/foundation/blockchain/signature"
	"github.com/mikitasolo/borwwcoin/foundation/blockchain/state"
	"gopkg.in/yaml.v3"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

const (
	MINER_ECDSA = "8dc79feefd3b86e2f9991def0e5ccd9a5128e104682407b308594bc1032ac7f0"
	USER_ECDSA  = "fae85851bdf5c9f49923722ce38f3c1defcfd3619ef5453230a58ad805499959"
)

func ifErrFailNow(t *testing.T, err error) {
	if err != nil {
		t.Error(err)
		t.FailNow()
	}
}

func newState(t *testing.T, difficulty uint) *state.State {
	st, err := state.New(state.Config{
		Genesis: genesis.Genesis{
			Difficulty:   difficulty,
			MiningReward: genesis.DefaultMiningReward,
		},
	})
	ifErrFailNow(t, err)

	return st
}

func loadKey(t *testing.T, hexKey string) signature.Key {
	key, err := signature.HexToKey(hexKey)
	ifErrFailNow(t, err)

	return key
}

func transfer(t *testing.T, key signature.Key, to database.AccountID, amount uint64) database.Tx {
	tx := database.NewTransferTx(database.AccountID(key.PublicID()), to, amount)
	ifErrFailNow(t, tx.Sign(key))

	return tx
}

// =============================================================================

func Test_Genesis(t *testing.T) {
	t.Log("Given the need to start a new chain.")
	{
		st := newState(t, 2)

		blocks := st.Blocks()
		if len(blocks) != 1 {
			t.Fatalf("\t%s\tShould start with a single block, got %d.", failed, len(blocks))
		}
		t.Logf("\t%s\tShould start with a single block.", success)

		gen := blocks[0]
		if gen.PrevBlockHash != "0" || len(gen.Trans) != 0 {
			t.Fatalf("\t%s\tShould get an empty genesis linked to \"0\": %+v", failed, gen)
		}
		t.Logf("\t%s\tShould get an empty genesis linked to \"0\".", success)

		if !strings.HasPrefix(gen.Hash, "00") || st.LatestBlock().Hash != gen.Hash {
			t.Fatalf("\t%s\tShould mine the genesis block: %s", failed, gen.Hash)
		}
		t.Logf("\t%s\tShould mine the genesis block.", success)

		if !st.IsValid() {
			t.Fatalf("\t%s\tShould validate a new chain.", failed)
		}
		t.Logf("\t%s\tShould validate a new chain.", success)

		if _, err := state.New(state.Config{Genesis: genesis.Genesis{Difficulty: 65}}); err == nil {
			t.Fatalf("\t%s\tShould reject a difficulty the hash can't meet.", failed)
		}
		t.Logf("\t%s\tShould reject a difficulty the hash can't meet.", success)
	}
}

func Test_EndToEnd(t *testing.T) {
	const reward = genesis.DefaultMiningReward

	r1Key := loadKey(t, MINER_ECDSA)
	r1 := database.AccountID(r1Key.PublicID())
	r2 := database.AccountID(loadKey(t, USER_ECDSA).PublicID())

	t.Log("Given the need to mine blocks and transfer value.")
	{
		st := newState(t, 2)

		res, err := st.MinePendingTransactions(context.Background(), r1)
		ifErrFailNow(t, err)
		t.Logf("\t%s\tShould be able to mine the empty pending pool in %v.", success, res.Duration)

		if n := len(st.Blocks()); n != 2 {
			t.Fatalf("\t%s\tShould have two blocks, got %d.", failed, n)
		}
		if bal := st.BalanceOf(r1); bal != reward {
			t.Fatalf("\t%s\tShould credit the reward, got %d.", failed, bal)
		}
		if !st.IsValid() {
			t.Fatalf("\t%s\tShould keep the chain valid.", failed)
		}
		t.Logf("\t%s\tShould credit the reward to the miner.", success)

		if res.Block.PrevBlockHash != st.Blocks()[0].Hash || !database.IsHashSolved(2, res.Block.Hash) {
			t.Fatalf("\t%s\tShould link and solve the mined block.", failed)
		}
		t.Logf("\t%s\tShould link and solve the mined block.", success)

		ifErrFailNow(t, st.AddTransaction(transfer(t, r1Key, r2, 30)))
		t.Logf("\t%s\tShould be able to add a signed transfer.", success)

		_, err = st.MinePendingTransactions(context.Background(), r1)
		ifErrFailNow(t, err)

		if n := len(st.Blocks()); n != 3 {
			t.Fatalf("\t%s\tShould have three blocks, got %d.", failed, n)
		}
		if bal := st.BalanceOf(r1); bal != 2*reward-30 {
			t.Fatalf("\t%s\tShould get the miner balance, got %d.", failed, bal)
		}
		if bal := st.BalanceOf(r2); bal != 30 {
			t.Fatalf("\t%s\tShould get the receiver balance, got %d.", failed, bal)
		}
		if !st.IsValid() {
			t.Fatalf("\t%s\tShould keep the chain valid.", failed)
		}
		t.Logf("\t%s\tShould get the right balances after the transfer.", success)

		if len(st.QueryPending()) != 0 {
			t.Fatalf("\t%s\tShould clear the pending pool after mining.", failed)
		}
		t.Logf("\t%s\tShould clear the pending pool after mining.", success)

		bals := st.Balances()
		if bals[r1] != 2*reward-30 || bals[r2] != 30 || len(bals) != 2 {
			t.Fatalf("\t%s\tShould get every balance: %v", failed, bals)
		}
		t.Logf("\t%s\tShould get every balance.", success)

		if n := len(st.QueryBlocksByAccount(r2)); n != 1 {
			t.Fatalf("\t%s\tShould find one block for the receiver, got %d.", failed, n)
		}
		if n := len(st.QueryBlocksByAccount("")); n != 3 {
			t.Fatalf("\t%s\tShould find every block for no account, got %d.", failed, n)
		}
		t.Logf("\t%s\tShould query blocks by account.", success)
	}
}

func Test_BalanceAccounting(t *testing.T) {
	aKey := loadKey(t, USER_ECDSA)
	bKey := loadKey(t, MINER_ECDSA)
	a := database.AccountID(aKey.PublicID())
	b := database.AccountID(bKey.PublicID())

	rKey, err := signature.NewKey()
	ifErrFailNow(t, err)
	r := database.AccountID(rKey.PublicID())

	t.Log("Given the need to fold balances over the chain.")
	{
		st := newState(t, 1)

		ifErrFailNow(t, st.AddTransaction(transfer(t, aKey, b, 10)))
		ifErrFailNow(t, st.AddTransaction(transfer(t, bKey, a, 4)))

		_, err := st.MinePendingTransactions(context.Background(), r)
		ifErrFailNow(t, err)

		if bal := st.BalanceOf(a); bal != -6 {
			t.Fatalf("\t%s\tShould get -6 for A, got %d.", failed, bal)
		}
		if bal := st.BalanceOf(b); bal != 6 {
			t.Fatalf("\t%s\tShould get 6 for B, got %d.", failed, bal)
		}
		t.Logf("\t%s\tShould get the net balance of each account.", success)

		if bal := st.BalanceOf(""); bal != 0 {
			t.Fatalf("\t%s\tShould not count rewards against an empty account, got %d.", failed, bal)
		}
		t.Logf("\t%s\tShould not count rewards against an empty account.", success)
	}
}

func Test_AddTransaction(t *testing.T) {
	key := loadKey(t, USER_ECDSA)
	from := database.AccountID(key.PublicID())
	to := database.AccountID(loadKey(t, MINER_ECDSA).PublicID())

	signed := transfer(t, key, to, 5)

	tampered := transfer(t, key, to, 5)
	tampered.Amount = 500

	noTo := database.NewTransferTx(from, "", 5)
	ifErrFailNow(t, noTo.Sign(key))

	forged := database.NewTransferTx(from, to, 1000)
	forged.Kind = database.TxKindReward

	type table struct {
		name  string
		tx    database.Tx
		cause error
	}

	tt := []table{
		{name: "unsigned", tx: database.NewTransferTx(from, to, 5), cause: database.ErrMissingSignature},
		{name: "tampered", tx: tampered, cause: database.ErrInvalidSignature},
		{name: "noFrom", tx: database.NewTransferTx("", to, 5)},
		{name: "noTo", tx: noTo},
		{name: "reward", tx: database.NewRewardTx(to, 1000), cause: state.ErrRewardSubmitted},
		{name: "forgedReward", tx: forged, cause: state.ErrRewardSubmitted},
		{name: "duplicate", tx: signed},
	}

	t.Log("Given the need to reject bad transactions.")
	{
		st := newState(t, 1)
		ifErrFailNow(t, st.AddTransaction(signed))

		for testID, tst := range tt {
			f := func(t *testing.T) {
				err := st.AddTransaction(tst.tx)
				if !errors.Is(err, state.ErrInvalidTransaction) {
					t.Fatalf("\t%s\tTest %d:\tShould get an invalid transaction error: %v", failed, testID, err)
				}
				if tst.cause != nil && !errors.Is(err, tst.cause) {
					t.Fatalf("\t%s\tTest %d:\tShould keep the cause %v: %v", failed, testID, tst.cause, err)
				}
				t.Logf("\t%s\tTest %d:\tShould get an invalid transaction error: %s", success, testID, err)
			}

			t.Run(tst.name, f)
		}

		if n := len(st.QueryPending()); n != 1 {
			t.Fatalf("\t%s\tShould only hold the valid transaction, got %d.", failed, n)
		}
		t.Logf("\t%s\tShould only hold the valid transaction.", success)
	}
}

func Test_ForgedReward(t *testing.T) {
	const reward = genesis.DefaultMiningReward

	victimKey := loadKey(t, USER_ECDSA)
	victim := database.AccountID(victimKey.PublicID())
	thief := database.AccountID(loadKey(t, MINER_ECDSA).PublicID())

	t.Log("Given the need to stop a reward from spending an account's funds.")
	{
		st := newState(t, 1)

		_, err := st.MinePendingTransactions(context.Background(), victim)
		ifErrFailNow(t, err)

		forged := database.NewTransferTx(victim, thief, 1000)
		forged.Kind = database.TxKindReward

		if err := st.AddTransaction(forged); !errors.Is(err, state.ErrRewardSubmitted) {
			t.Fatalf("\t%s\tShould not accept an unsigned reward from the victim: %v", failed, err)
		}
		t.Logf("\t%s\tShould not accept an unsigned reward from the victim.", success)

		_, err = st.MinePendingTransactions(context.Background(), victim)
		ifErrFailNow(t, err)

		if bal := st.BalanceOf(victim); bal != 2*reward {
			t.Fatalf("\t%s\tShould keep the victim balance, got %d.", failed, bal)
		}
		if bal := st.BalanceOf(thief); bal != 0 {
			t.Fatalf("\t%s\tShould not credit the thief, got %d.", failed, bal)
		}
		if !st.IsValid() {
			t.Fatalf("\t%s\tShould keep the chain valid.", failed)
		}
		t.Logf("\t%s\tShould keep every balance unchanged.", success)
	}
}

func Test_Replay(t *testing.T) {
	aKey := loadKey(t, USER_ECDSA)
	a := database.AccountID(aKey.PublicID())
	b := database.AccountID(loadKey(t, MINER_ECDSA).PublicID())

	t.Log("Given the need to stop a mined transfer from being mined again.")
	{
		st := newState(t, 1)

		tx := transfer(t, aKey, b, 30)
		ifErrFailNow(t, st.AddTransaction(tx))

		_, err := st.MinePendingTransactions(context.Background(), a)
		ifErrFailNow(t, err)

		err = st.AddTransaction(tx)
		if !errors.Is(err, state.ErrInvalidTransaction) || !errors.Is(err, state.ErrAlreadyMined) {
			t.Fatalf("\t%s\tShould not accept a transfer already on the chain: %v", failed, err)
		}
		t.Logf("\t%s\tShould not accept a transfer already on the chain.", success)

		if n := len(st.QueryPending()); n != 0 {
			t.Fatalf("\t%s\tShould keep the pending pool empty, got %d.", failed, n)
		}
		if bal := st.BalanceOf(b); bal != 30 {
			t.Fatalf("\t%s\tShould debit the transfer once, got %d.", failed, bal)
		}
		t.Logf("\t%s\tShould debit the transfer once.", success)
	}
}

func Test_MiningCancelled(t *testing.T) {
	key := loadKey(t, USER_ECDSA)
	to := database.AccountID(loadKey(t, MINER_ECDSA).PublicID())

	t.Log("Given the need to cancel a mining operation.")
	{
		st := newState(t, 4)
		tx := transfer(t, key, to, 5)
		ifErrFailNow(t, st.AddTransaction(tx))

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := st.MinePendingTransactions(ctx, to)
		if err == nil {
			t.Skip("block was solved before the cancel was observed")
		}
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("\t%s\tShould get a cancelled error: %v", failed, err)
		}
		t.Logf("\t%s\tShould get a cancelled error.", success)

		if n := len(st.Blocks()); n != 1 {
			t.Fatalf("\t%s\tShould not append a block, got %d blocks.", failed, n)
		}
		t.Logf("\t%s\tShould not append a block.", success)

		pending := st.QueryPending()
		if len(pending) != 1 || pending[0].ID != tx.ID {
			t.Fatalf("\t%s\tShould restore the pending transactions: %v", failed, pending)
		}
		t.Logf("\t%s\tShould restore the pending transactions.", success)

		if err := st.AddTransaction(tx); errors.Is(err, state.ErrAlreadyMined) || err == nil {
			t.Fatalf("\t%s\tShould treat a restored transaction as pending, not mined: %v", failed, err)
		}
		t.Logf("\t%s\tShould treat a restored transaction as pending, not mined.", success)

		if _, err := st.MinePendingTransactions(context.Background(), ""); !errors.Is(err, state.ErrMissingRewardAddress) {
			t.Fatalf("\t%s\tShould require a reward address: %v", failed, err)
		}
		t.Logf("\t%s\tShould require a reward address.", success)
	}
}

func Test_Concurrency(t *testing.T) {
	const (
		submitters = 4
		perSubmit  = 5
		mines      = 3
	)

	key := loadKey(t, USER_ECDSA)
	miner := database.AccountID(loadKey(t, MINER_ECDSA).PublicID())

	t.Log("Given the need to submit and mine from many goroutines.")
	{
		st := newState(t, 1)

		var wg sync.WaitGroup
		wg.Add(submitters + mines)

		for range submitters {
			go func() {
				defer wg.Done()
				for range perSubmit {
					tx := database.NewTransferTx(database.AccountID(key.PublicID()), miner, 1)
					if err := tx.Sign(key); err != nil {
						t.Error(err)
						return
					}
					if err := st.AddTransaction(tx); err != nil {
						t.Error(err)
					}
				}
			}()
		}

		for range mines {
			go func() {
				defer wg.Done()
				if _, err := st.MinePendingTransactions(context.Background(), miner); err != nil {
					t.Error(err)
				}
			}()
		}

		wg.Wait()

		_, err := st.MinePendingTransactions(context.Background(), miner)
		ifErrFailNow(t, err)

		var transfers int
		for _, block := range st.Blocks() {
			for _, tx := range block.Trans {
				if !tx.IsReward() {
					transfers++
				}
			}
		}

		if transfers != submitters*perSubmit {
			t.Fatalf("\t%s\tShould mine every transfer exactly once, got %d.", failed, transfers)
		}
		t.Logf("\t%s\tShould mine every transfer exactly once.", success)

		if n := len(st.Blocks()); n != mines+2 {
			t.Fatalf("\t%s\tShould get one block per mining call, got %d.", failed, n)
		}
		if !st.IsValid() {
			t.Fatalf("\t%s\tShould keep the chain valid: %s", failed, st.Validate().Violation)
		}
		t.Logf("\t%s\tShould keep the chain linked and valid.", success)
	}
}

func Test_Snapshot(t *testing.T) {
	key := loadKey(t, USER_ECDSA)
	to := database.AccountID(loadKey(t, MINER_ECDSA).PublicID())

	t.Log("Given the need to snapshot the chain.")
	{
		st := newState(t, 1)

		_, err := st.MinePendingTransactions(context.Background(), to)
		ifErrFailNow(t, err)
		ifErrFailNow(t, st.AddTransaction(transfer(t, key, to, 5)))

		snap := st.Snapshot()
		if len(snap.Chain) != 2 || len(snap.Pending) != 1 || snap.Difficulty != 1 {
			t.Fatalf("\t%s\tShould capture the chain and the pending pool: %+v", failed, snap)
		}
		t.Logf("\t%s\tShould capture the chain and the pending pool.", success)

		data, err := snap.Marshal(state.FormatJSON)
		ifErrFailNow(t, err)

		var fromJSON state.Snapshot
		ifErrFailNow(t, json.Unmarshal(data, &fromJSON))
		if fromJSON.Chain[1].Hash != snap.Chain[1].Hash || fromJSON.Pending[0].Signature != snap.Pending[0].Signature {
			t.Fatalf("\t%s\tShould render the snapshot as json.", failed)
		}
		t.Logf("\t%s\tShould render the snapshot as json.", success)

		data, err = snap.Marshal(state.FormatYAML)
		ifErrFailNow(t, err)

		var fromYAML state.Snapshot
		ifErrFailNow(t, yaml.Unmarshal(data, &fromYAML))
		if fromYAML.Chain[1].Hash != snap.Chain[1].Hash || fromYAML.Chain[1].Trans[0].To != to {
			t.Fatalf("\t%s\tShould render the snapshot as yaml.", failed)
		}
		if !strings.Contains(string(data), fmt.Sprintf("previous_hash: \"%s\"", snap.Chain[0].PrevBlockHash)) {
			t.Logf("%s", data)
			t.Fatalf("\t%s\tShould use the snake case field names.", failed)
		}
		t.Logf("\t%s\tShould render the snapshot as yaml.", success)

		if _, err := snap.Marshal("xml"); err == nil {
			t.Fatalf("\t%s\tShould reject an unknown format.", failed)
		}
		t.Logf("\t%s\tShould reject an unknown format.", success)
	}
}

func Test_QueryProof(t *testing.T) {
	key := loadKey(t, USER_ECDSA)
	to := database.AccountID(loadKey(t, MINER_ECDSA).PublicID())

	t.Log("Given the need to prove a transaction was mined.")
	{
		st := newState(t, 1)

		var txs []database.Tx
		for amount := range uint64(3) {
			tx := transfer(t, key, to, amount+1)
			ifErrFailNow(t, st.AddTransaction(tx))
			txs = append(txs, tx)
		}

		if _, err := st.QueryProof(txs[0].ID); !errors.Is(err, state.ErrNotFound) {
			t.Fatalf("\t%s\tShould not prove a pending transaction: %v", failed, err)
		}
		t.Logf("\t%s\tShould not prove a pending transaction.", success)

		res, err := st.MinePendingTransactions(context.Background(), to)
		ifErrFailNow(t, err)

		for _, tx := range txs {
			txp, err := st.QueryProof(tx.ID)
			ifErrFailNow(t, err)

			if txp.BlockNumber != 1 || txp.BlockHash != res.Block.Hash || txp.Tx.ID != tx.ID {
				t.Fatalf("\t%s\tShould locate the transaction in block 1: %+v", failed, txp)
			}
			if txp.Proof.Root != res.Block.TransRoot() {
				t.Fatalf("\t%s\tShould prove against the block's transaction root.", failed)
			}
			ifErrFailNow(t, txp.Proof.Verify())
		}
		t.Logf("\t%s\tShould verify a proof for every mined transaction.", success)
	}
}
