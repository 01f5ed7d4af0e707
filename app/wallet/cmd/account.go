package cmd

import (
	"fmt"

	"github.com/mikitasolo/borwwcoin/foundation/blockchain/signature"
	"github.com/spf13/cobra"
)

// accountCmd represents the account command
var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Print the account id of the key file",
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := signature.LoadKey(getPrivateKeyPath())
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), key.PublicID())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(accountCmd)
}
