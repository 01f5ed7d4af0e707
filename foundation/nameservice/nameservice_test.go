package nameservice_test

import (
	"path/filepath"
	"testing"

	"github.com/mikitasolo/borwwcoin/foundation/blockchain/database"
	"github.com/mikitasolo/borwwcoin/foundation/blockchain/signature"
	"github.com/mikitasolo/borwwcoin/foundation/nameservice"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func TestLookup(t *testing.T) {
	root := t.TempDir()

	key, err := signature.NewKey()
	if err != nil {
		t.Fatal(err)
	}
	if err := key.Save(filepath.Join(root, "miner1"+nameservice.KeyExt)); err != nil {
		t.Fatal(err)
	}
	account := database.AccountID(key.PublicID())

	t.Log("Given the need to name accounts from key files.")
	{
		ns, err := nameservice.New(root)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to load the folder: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to load the folder.", success)

		if name := ns.Lookup(account); name != "miner1" {
			t.Fatalf("\t%s\tShould find the name of the account, got %s.", failed, name)
		}
		t.Logf("\t%s\tShould find the name of the account.", success)

		got, err := ns.Resolve("miner1")
		if err != nil || got != account {
			t.Fatalf("\t%s\tShould resolve the name to the account: %v", failed, err)
		}
		if _, err := ns.Resolve("nobody"); err == nil {
			t.Fatalf("\t%s\tShould not resolve an unknown name.", failed)
		}
		t.Logf("\t%s\tShould resolve names to accounts.", success)

		if len(ns.Copy()) != 1 {
			t.Fatalf("\t%s\tShould copy the accounts.", failed)
		}
		t.Logf("\t%s\tShould copy the accounts.", success)
	}
}

func TestMissingFolder(t *testing.T) {
	t.Log("Given the need to start without any key files.")
	{
		ns, err := nameservice.New(filepath.Join(t.TempDir(), "missing"))
		if err != nil {
			t.Fatalf("\t%s\tShould accept a missing folder: %v", failed, err)
		}
		if len(ns.Copy()) != 0 {
			t.Fatalf("\t%s\tShould get an empty name service.", failed)
		}
		t.Logf("\t%s\tShould get an empty name service.", success)
	}
}
