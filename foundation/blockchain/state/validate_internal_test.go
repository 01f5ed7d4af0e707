package state

import (
	"context"
	"testing"

	"github.com/mikitasolo/borwwcoin/foundation/blockchain/database"
	"github.com/mikitasolo/borwwcoin/foundation/blockchain/genesis"
	"github.com/mikitasolo/borwwcoin/foundation/blockchain/signature"
)

func Test_TamperedChain(t *testing.T) {
	st, err := New(Config{Genesis: genesis.Genesis{Difficulty: 2, MiningReward: 100}})
	if err != nil {
		t.Fatal(err)
	}

	key, err := signature.NewKey()
	if err != nil {
		t.Fatal(err)
	}
	from := database.AccountID(key.PublicID())

	for range 2 {
		tx := database.NewTransferTx(from, from, 1)
		if err := tx.Sign(key); err != nil {
			t.Fatal(err)
		}
		if err := st.AddTransaction(tx); err != nil {
			t.Fatal(err)
		}
		if _, err := st.MinePendingTransactions(context.Background(), from); err != nil {
			t.Fatal(err)
		}
	}

	t.Log("Given the need to detect a block changed after it was mined.")
	{
		if !st.IsValid() {
			t.Fatalf("\t✗\tShould start from a valid chain.")
		}

		st.blocks[2].Trans[1].Amount = 1_000_000

		report := st.Validate()
		if report.Valid || report.Violation.Kind != database.HashMismatch || report.Violation.Index != 2 {
			t.Fatalf("\t✗\tShould report the hash mismatch at block 2: %+v", report.Violation)
		}
		t.Logf("\t✓\tShould report the hash mismatch at block 2.")

		st.blocks[2].Trans[1].Amount = 100
		if !st.IsValid() {
			t.Fatalf("\t✗\tShould be valid again once the change is undone.")
		}
		t.Logf("\t✓\tShould be valid again once the change is undone.")

		st.blocks[1].Trans[0].Amount = 2
		report = st.Validate()
		if report.Valid || report.Violation.Kind != database.InvalidTransactions || report.Violation.Index != 1 {
			t.Fatalf("\t✗\tShould report the broken signature at block 1: %+v", report.Violation)
		}
		t.Logf("\t✓\tShould report the broken signature at block 1.")
	}
}
