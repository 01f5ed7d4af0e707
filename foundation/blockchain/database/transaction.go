package database

import (
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/mikitasolo/borwwcoin/foundation/blockchain/signature"
)

// Set of errors raised while signing and verifying transactions.
var (
	ErrAuthorization    = errors.New("not authorized to sign for the from account")
	ErrMissingSignature = errors.New("no signature")
	ErrInvalidSignature = errors.New("invalid signature")
	ErrRewardFrom       = errors.New("reward must not carry a from account")
)

// TxKind distinguishes a transfer between two accounts from a reward minted
// by the chain itself.
type TxKind string

// Set of transaction kinds.
const (
	TxKindTransfer TxKind = "transfer"
	TxKindReward   TxKind = "reward"
)

// =============================================================================

// Signer represents the key material able to sign for an account.
type Signer interface {
	Sign(hash string) (string, error)
	PublicID() string
}

// Tx is the transactional information between two parties.
type Tx struct {
	Kind      TxKind    `json:"kind" yaml:"kind"`
	ID        string    `json:"id" yaml:"id"`
	From      AccountID `json:"from,omitempty" yaml:"from,omitempty"` // Empty for rewards.
	To        AccountID `json:"to" yaml:"to"`
	Amount    uint64    `json:"amount" yaml:"amount"`
	TimeStamp int64     `json:"timestamp" yaml:"timestamp"` // Unix milliseconds.
	Signature string    `json:"signature,omitempty" yaml:"signature,omitempty"`
}

// NewTransferTx constructs a new unsigned transfer.
func NewTransferTx(from AccountID, to AccountID, amount uint64) Tx {
	return Tx{
		Kind:      TxKindTransfer,
		ID:        uuid.NewString(),
		From:      from,
		To:        to,
		Amount:    amount,
		TimeStamp: time.Now().UnixMilli(),
	}
}

// NewRewardTx constructs the transaction crediting a miner.
func NewRewardTx(to AccountID, amount uint64) Tx {
	return Tx{
		Kind:      TxKindReward,
		ID:        uuid.NewString(),
		To:        to,
		Amount:    amount,
		TimeStamp: time.Now().UnixMilli(),
	}
}

// IsReward reports whether the transaction was minted by the chain.
func (tx Tx) IsReward() bool {
	return tx.Kind == TxKindReward
}

// ContentHash returns the hash of the transaction fields. The signature is
// not part of the hash since it is produced over it.
func (tx Tx) ContentHash() string {
	return signature.Hash(
		string(tx.From),
		string(tx.To),
		strconv.FormatUint(tx.Amount, 10),
		strconv.FormatInt(tx.TimeStamp, 10),
		tx.ID,
	)
}

// Hash implements the merkle Hashable interface. The hash covers the full
// transaction, signature included.
func (tx Tx) Hash() ([]byte, error) {
	data, err := json.Marshal(tx)
	if err != nil {
		return nil, err
	}

	h := sha256.Sum256(data)
	return h[:], nil
}

// Equals implements the merkle Hashable interface.
func (tx Tx) Equals(otherTx Tx) bool {
	return tx.ID == otherTx.ID
}

// Sign uses the specified key to sign the transaction. The key must belong
// to the from account.
func (tx *Tx) Sign(key Signer) error {
	if tx.IsReward() || key.PublicID() != string(tx.From) {
		return ErrAuthorization
	}

	sig, err := key.Sign(tx.ContentHash())
	if err != nil {
		return err
	}
	tx.Signature = sig

	return nil
}

// Validate verifies the transaction has a signature produced by the from
// account over the current content of the transaction. Rewards carry no
// signature, so a reward naming a from account is never valid.
func (tx Tx) Validate() error {
	if tx.IsReward() {
		if tx.From != "" {
			return ErrRewardFrom
		}
		return nil
	}

	if tx.Signature == "" {
		return ErrMissingSignature
	}

	if !signature.Verify(string(tx.From), tx.ContentHash(), tx.Signature) {
		return ErrInvalidSignature
	}

	return nil
}

// IsValid reports the outcome of Validate as a boolean.
func (tx Tx) IsValid() bool {
	return tx.Validate() == nil
}

// String implements the fmt.Stringer interface for logging.
func (tx Tx) String() string {
	from := string(tx.From)
	if tx.IsReward() {
		from = "reward"
	}

	return fmt.Sprintf("%s:%s->%s:%d", tx.ID, from, tx.To, tx.Amount)
}
