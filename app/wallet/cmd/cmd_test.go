package cmd

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mikitasolo/borwwcoin/foundation/blockchain/database"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func execute(t *testing.T, args ...string) string {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("\t%s\tShould be able to run %v: %v", failed, args, err)
	}

	return strings.TrimSpace(out.String())
}

func TestWallet(t *testing.T) {
	dir := t.TempDir()

	t.Log("Given the need to manage a key file.")
	{
		id := execute(t, "generate", "--account", "alice", "--account-path", dir)
		if !database.AccountID(id).IsAccountID() {
			t.Fatalf("\t%s\tShould print the new account id, got %q.", failed, id)
		}
		t.Logf("\t%s\tShould print the new account id.", success)

		if got := getPrivateKeyPath(); got != filepath.Join(dir, "alice.ecdsa") {
			t.Fatalf("\t%s\tShould add the key extension, got %s.", failed, got)
		}
		t.Logf("\t%s\tShould add the key extension.", success)

		if got := execute(t, "account", "--account", "alice", "--account-path", dir); got != id {
			t.Fatalf("\t%s\tShould print the same account id, got %q.", failed, got)
		}
		t.Logf("\t%s\tShould print the same account id.", success)

		rootCmd.SetArgs([]string{"generate", "--account", "alice", "--account-path", dir})
		if err := rootCmd.Execute(); err == nil {
			t.Fatalf("\t%s\tShould not overwrite an existing key file.", failed)
		}
		t.Logf("\t%s\tShould not overwrite an existing key file.", success)
	}
}
