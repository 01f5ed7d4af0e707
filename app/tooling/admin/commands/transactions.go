package commands

import (
	"fmt"
	"io"

	"github.com/mikitasolo/borwwcoin/foundation/blockchain/database"
)

// Transactions prints the mined and pending transactions in the snapshot,
// filtered to the specified account when one is given.
func Transactions(w io.Writer, snap Snapshot, account string) error {
	accountID := database.AccountID(account)
	if account != "" {
		var err error
		if accountID, err = database.ToAccountID(account); err != nil {
			return err
		}
	}

	show := func(tx database.Tx) {
		if accountID != "" && tx.From != accountID && tx.To != accountID {
			return
		}

		from := string(tx.From)
		if tx.IsReward() {
			from = "reward"
		}

		fmt.Fprintf(w, "ID: %s  From: %s  To: %s  Amount: %d  Valid: %t\n",
			tx.ID, from, tx.To, tx.Amount, tx.IsValid())
	}

	for i, block := range snap.Chain {
		fmt.Fprintf(w, "Block: %d  Hash: %s\n", i, block.Hash)
		for _, tx := range block.Trans {
			show(tx)
		}
	}

	fmt.Fprintf(w, "Pending: %d\n", len(snap.Pending))
	for _, tx := range snap.Pending {
		show(tx)
	}

	return nil
}
