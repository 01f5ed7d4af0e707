package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/mikitasolo/borwwcoin/foundation/blockchain/database"
	"github.com/mikitasolo/borwwcoin/foundation/blockchain/signature"
	"github.com/spf13/cobra"
)

var (
	to     string
	amount uint64
)

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Sign and submit a transfer",
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := signature.LoadKey(getPrivateKeyPath())
		if err != nil {
			return err
		}

		toID, err := database.ToAccountID(to)
		if err != nil {
			return err
		}

		tx, err := signTransfer(key, toID, amount)
		if err != nil {
			return err
		}

		data, err := json.Marshal(tx)
		if err != nil {
			return err
		}

		resp, err := http.Post(fmt.Sprintf("%s/v1/tx/submit", url), "application/json", bytes.NewBuffer(data))
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return decodeError(resp)
		}

		fmt.Fprintln(cmd.OutOrStdout(), tx.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&to, "to", "t", "", "Account to send to.")
	sendCmd.MarkFlagRequired("to")
	sendCmd.Flags().Uint64VarP(&amount, "amount", "v", 0, "Amount to send.")
}

// signTransfer constructs a transfer from the key's account and signs it.
func signTransfer(key signature.Key, to database.AccountID, amount uint64) (database.Tx, error) {
	tx := database.NewTransferTx(database.AccountID(key.PublicID()), to, amount)
	if err := tx.Sign(key); err != nil {
		return database.Tx{}, err
	}

	return tx, nil
}
