package database

import (
	"crypto/ecdsa"
	"errors"

	"github.com/mikitasolo/borwwcoin/foundation/blockchain/signature"
)

// AccountID represents the public identifier of an account. It is used to
// sign transactions and is associated with transactions on the blockchain.
type AccountID string

// ToAccountID converts a hex-encoded string to an account and validates the
// hex-encoded string is formatted correctly.
func ToAccountID(hex string) (AccountID, error) {
	a := AccountID(hex)
	if !a.IsAccountID() {
		return "", errors.New("invalid account format")
	}

	return a, nil
}

// PublicKeyToAccountID converts the public key to an account value.
func PublicKeyToAccountID(pk ecdsa.PublicKey) AccountID {
	return AccountID(signature.PublicKeyToID(pk))
}

// IsAccountID verifies whether the underlying data represents a valid
// hex-encoded compressed public key.
func (a AccountID) IsAccountID() bool {
	const keyLength = 33

	if !has0xPrefix(a) {
		return false
	}
	a = a[2:]

	if len(a) != 2*keyLength || !isHex(a) {
		return false
	}

	// A compressed key starts with 02 or 03.
	return a[0] == '0' && (a[1] == '2' || a[1] == '3')
}

// =============================================================================

// has0xPrefix validates the account starts with a 0x.
func has0xPrefix(a AccountID) bool {
	return len(a) >= 2 && a[0] == '0' && (a[1] == 'x' || a[1] == 'X')
}

// isHex validates whether each byte is valid hexadecimal string.
func isHex(a AccountID) bool {
	if len(a)%2 != 0 {
		return false
	}

	for _, c := range []byte(a) {
		if !isHexCharacter(c) {
			return false
		}
	}

	return true
}

// isHexCharacter returns bool of c being a valid hexadecimal.
func isHexCharacter(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}
