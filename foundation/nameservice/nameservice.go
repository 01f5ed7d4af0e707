// Package nameservice reads a folder of key files and creates a name
// service lookup for the accounts they belong to.
package nameservice

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/mikitasolo/borwwcoin/foundation/blockchain/database"
	"github.com/mikitasolo/borwwcoin/foundation/blockchain/signature"
)

// KeyExt is the file extension of a key file.
const KeyExt = ".ecdsa"

// NameService maintains a map of accounts for name lookup.
type NameService struct {
	accounts map[database.AccountID]string
	names    map[string]database.AccountID
}

// New constructs a name service with accounts from the key files found
// under the root folder. The name of an account is its key file name. A
// missing folder gives an empty name service.
func New(root string) (*NameService, error) {
	ns := NameService{
		accounts: make(map[database.AccountID]string),
		names:    make(map[string]database.AccountID),
	}

	if _, err := os.Stat(root); errors.Is(err, fs.ErrNotExist) {
		return &ns, nil
	}

	fn := func(fileName string, info fs.FileInfo, err error) error {
		if err != nil {
			return fmt.Errorf("walkdir failure: %w", err)
		}

		if path.Ext(fileName) != KeyExt {
			return nil
		}

		key, err := signature.LoadKey(fileName)
		if err != nil {
			return err
		}

		account := database.AccountID(key.PublicID())
		name := strings.TrimSuffix(path.Base(fileName), KeyExt)

		ns.accounts[account] = name
		ns.names[name] = account

		return nil
	}

	if err := filepath.Walk(root, fn); err != nil {
		return nil, fmt.Errorf("walking directory: %w", err)
	}

	return &ns, nil
}

// Lookup returns the name for the specified account.
func (ns *NameService) Lookup(account database.AccountID) string {
	name, exists := ns.accounts[account]
	if !exists {
		return string(account)
	}
	return name
}

// Resolve returns the account for a name, or the value itself when it is
// already an account.
func (ns *NameService) Resolve(nameOrAccount string) (database.AccountID, error) {
	if account, exists := ns.names[nameOrAccount]; exists {
		return account, nil
	}

	return database.ToAccountID(nameOrAccount)
}

// Copy returns a copy of the map of names and accounts.
func (ns *NameService) Copy() map[database.AccountID]string {
	cpy := make(map[database.AccountID]string, len(ns.accounts))
	for account, name := range ns.accounts {
		cpy[account] = name
	}
	return cpy
}
