// Package signature provides helper functions for handling the blockchain
// signature needs.
package signature

import (
	"crypto/ecdsa"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// borwwID is an arbitrary number added to the recovery id of every signature.
// This will make it clear that the signature comes from the borwwcoin chain.
// Ethereum and Bitcoin do this as well, but they use the value of 27.
const borwwID = 29

// ErrInvalidKey is returned when a public identifier can't be decoded
// into a secp256k1 public key.
var ErrInvalidKey = errors.New("invalid public key")

// =============================================================================

// Hash returns the hex encoded sha256 of the concatenated parts. There is no
// 0x prefix so proof of work can look at the leading characters directly.
func Hash(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
	}

	return hex.EncodeToString(h.Sum(nil))
}

// =============================================================================

// Key represents the private key used by an account to sign transactions.
type Key struct {
	pk *ecdsa.PrivateKey
}

// NewKey generates a new secp256k1 key.
func NewKey() (Key, error) {
	pk, err := crypto.GenerateKey()
	if err != nil {
		return Key{}, err
	}

	return Key{pk: pk}, nil
}

// FromECDSA wraps an existing private key.
func FromECDSA(pk *ecdsa.PrivateKey) Key {
	return Key{pk: pk}
}

// HexToKey parses a hex encoded private key.
func HexToKey(hexKey string) (Key, error) {
	pk, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return Key{}, err
	}

	return Key{pk: pk}, nil
}

// LoadKey reads a hex encoded private key from the specified file.
func LoadKey(path string) (Key, error) {
	pk, err := crypto.LoadECDSA(path)
	if err != nil {
		return Key{}, err
	}

	return Key{pk: pk}, nil
}

// Save writes the private key in hex form to the specified file.
func (k Key) Save(path string) error {
	return crypto.SaveECDSA(path, k.pk)
}

// ECDSA returns the underlying private key.
func (k Key) ECDSA() *ecdsa.PrivateKey {
	return k.pk
}

// PublicID returns the public identifier for the key. This is the 0x
// prefixed hex form of the compressed public key.
func (k Key) PublicID() string {
	return PublicKeyToID(k.pk.PublicKey)
}

// Sign produces a signature for the specified hex hash. The returned
// signature is the 0x prefixed hex form of [R|S|V] with the borwwID added
// to V.
func (k Key) Sign(hash string) (string, error) {

	// Prepare the data for signing.
	data, err := stamp(hash)
	if err != nil {
		return "", err
	}

	// Sign the hash with the private key to produce a signature.
	sig, err := crypto.Sign(data, k.pk)
	if err != nil {
		return "", err
	}

	// Check the signature against our own public key before handing it out.
	if !crypto.VerifySignature(crypto.FromECDSAPub(&k.pk.PublicKey), data, sig[:crypto.RecoveryIDOffset]) {
		return "", errors.New("invalid signature")
	}

	sig[crypto.RecoveryIDOffset] += borwwID

	return hexutil.Encode(sig), nil
}

// =============================================================================

// PublicKeyToID converts the public key to a public identifier.
func PublicKeyToID(pk ecdsa.PublicKey) string {
	return hexutil.Encode(crypto.CompressPubkey(&pk))
}

// IDToPublicKey converts a public identifier back into a public key.
func IDToPublicKey(id string) (*ecdsa.PublicKey, error) {
	b, err := hexutil.Decode(id)
	if err != nil {
		return nil, ErrInvalidKey
	}

	pk, err := crypto.DecompressPubkey(b)
	if err != nil {
		return nil, ErrInvalidKey
	}

	return pk, nil
}

// Verify checks the signature was produced over the hash by the private key
// belonging to the public identifier.
func Verify(id string, hash string, sig string) bool {
	pk, err := IDToPublicKey(id)
	if err != nil {
		return false
	}

	sigBytes, err := hexutil.Decode(sig)
	if err != nil || len(sigBytes) != crypto.SignatureLength {
		return false
	}

	// Check the recovery id is either 0 or 1.
	v := sigBytes[crypto.RecoveryIDOffset] - borwwID
	if v != 0 && v != 1 {
		return false
	}

	// Check the signature values are valid.
	r := new(big.Int).SetBytes(sigBytes[:32])
	s := new(big.Int).SetBytes(sigBytes[32:64])
	if !crypto.ValidateSignatureValues(v, r, s, true) {
		return false
	}

	data, err := stamp(hash)
	if err != nil {
		return false
	}

	return crypto.VerifySignature(crypto.FromECDSAPub(pk), data, sigBytes[:crypto.RecoveryIDOffset])
}

// =============================================================================

// stamp returns a hash of 32 bytes that represents the hex hash with
// the borwwcoin stamp embedded into the final hash.
func stamp(hash string) ([]byte, error) {
	h, err := hex.DecodeString(hash)
	if err != nil {
		return nil, err
	}

	// Convert the stamp into a slice of bytes. This stamp is
	// used so signatures we produce when signing data
	// are always unique to the borwwcoin chain.
	stamp := []byte("\x19Borwwcoin Signed Message:\n32")

	// Hash the stamp and the hash together in a final 32 byte array
	// that represents the data.
	return crypto.Keccak256(stamp, h), nil
}
