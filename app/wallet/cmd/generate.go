package cmd

import (
	"fmt"
	"os"

	"github.com/mikitasolo/borwwcoin/foundation/blockchain/signature"
	"github.com/spf13/cobra"
)

// generateCmd represents the generate command
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a new key pair",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := getPrivateKeyPath()
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("key file %s already exists", path)
		}

		if err := os.MkdirAll(accountPath, 0755); err != nil {
			return err
		}

		key, err := signature.NewKey()
		if err != nil {
			return err
		}

		if err := key.Save(path); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), key.PublicID())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
}
