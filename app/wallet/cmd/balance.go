package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/mikitasolo/borwwcoin/business/web/errs"
	"github.com/mikitasolo/borwwcoin/foundation/blockchain/signature"
	"github.com/spf13/cobra"
)

// balanceCmd represents the balance command
var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Print your balance",
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := signature.LoadKey(getPrivateKeyPath())
		if err != nil {
			return err
		}

		account := key.PublicID()
		fmt.Fprintln(cmd.OutOrStdout(), "For Account:", account)

		resp, err := http.Get(fmt.Sprintf("%s/v1/balances/list/%s", url, account))
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return decodeError(resp)
		}

		var balances struct {
			Balances []struct {
				Balance int64 `json:"balance"`
			} `json:"balances"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&balances); err != nil {
			return err
		}

		if len(balances.Balances) > 0 {
			fmt.Fprintln(cmd.OutOrStdout(), balances.Balances[0].Balance)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(balanceCmd)
}

// decodeError turns a failed node response into an error.
func decodeError(resp *http.Response) error {
	var er errs.Response
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return fmt.Errorf("node responded %s", resp.Status)
	}

	if len(er.Fields) > 0 {
		return fmt.Errorf("node responded %s: %s: %v", resp.Status, er.Error, er.Fields)
	}

	return fmt.Errorf("node responded %s: %s", resp.Status, er.Error)
}
