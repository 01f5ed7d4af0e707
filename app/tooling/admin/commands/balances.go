package commands

import (
	"fmt"
	"io"
	"sort"

	"github.com/mikitasolo/borwwcoin/foundation/blockchain/database"
)

// Balances prints the balance of every account in the snapshot, or only
// the specified account.
func Balances(w io.Writer, snap Snapshot, account string) error {
	latest := snap.Chain[len(snap.Chain)-1]
	fmt.Fprintf(w, "LatestBlockHash: %s\n\n", latest.Hash)

	bals := database.Balances(snap.Chain)

	if account != "" {
		accountID, err := database.ToAccountID(account)
		if err != nil {
			return err
		}

		fmt.Fprintf(w, "Account: %s  Balance: %d\n", accountID, bals[accountID])
		return nil
	}

	accounts := make([]database.AccountID, 0, len(bals))
	for accountID := range bals {
		accounts = append(accounts, accountID)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i] < accounts[j] })

	for _, accountID := range accounts {
		fmt.Fprintf(w, "Account: %s  Balance: %d\n", accountID, bals[accountID])
	}

	return nil
}
