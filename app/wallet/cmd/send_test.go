package cmd

import (
	"testing"

	"github.com/mikitasolo/borwwcoin/foundation/blockchain/database"
	"github.com/mikitasolo/borwwcoin/foundation/blockchain/signature"
)

func TestSignTransfer(t *testing.T) {
	key, err := signature.NewKey()
	if err != nil {
		t.Fatal(err)
	}

	other, err := signature.NewKey()
	if err != nil {
		t.Fatal(err)
	}

	t.Log("Given the need to sign a transfer for the node.")
	{
		tx, err := signTransfer(key, database.AccountID(other.PublicID()), 42)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to sign: %v", failed, err)
		}

		if tx.From != database.AccountID(key.PublicID()) || tx.Amount != 42 || !tx.IsValid() {
			t.Fatalf("\t%s\tShould get a valid transfer from the key's account: %s", failed, tx)
		}
		t.Logf("\t%s\tShould get a valid transfer from the key's account.", success)
	}
}
