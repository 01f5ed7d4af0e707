package database

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/mikitasolo/borwwcoin/foundation/blockchain/merkle"
	"github.com/mikitasolo/borwwcoin/foundation/blockchain/signature"
)

// GenesisPrevHash is the previous hash recorded by the first block.
const GenesisPrevHash = "0"

// =============================================================================

// Block represents a group of transactions batched together.
type Block struct {
	TimeStamp     int64  `json:"timestamp" yaml:"timestamp"` // Unix milliseconds the block was constructed.
	Trans         []Tx   `json:"transactions" yaml:"transactions"`
	PrevBlockHash string `json:"previous_hash" yaml:"previous_hash"`
	Hash          string `json:"hash" yaml:"hash"`
	Nonce         uint64 `json:"nonce" yaml:"nonce"` // Value identified to solve the hash solution.
}

// NewBlock constructs a block from the transactions that links to the
// specified previous hash. The block takes its own copy of the transactions
// so the caller's slice can be reused.
func NewBlock(trans []Tx, prevBlockHash string) Block {
	b := Block{
		TimeStamp:     time.Now().UnixMilli(),
		Trans:         append(make([]Tx, 0, len(trans)), trans...),
		PrevBlockHash: prevBlockHash,
	}
	b.Hash = b.ContentHash()

	return b
}

// ContentHash returns the hash of the block fields, including the nonce.
func (b Block) ContentHash() string {
	trans := b.Trans
	if trans == nil {
		trans = []Tx{}
	}

	data, err := json.Marshal(trans)
	if err != nil {
		return ""
	}

	return signature.Hash(
		b.PrevBlockHash,
		strconv.FormatInt(b.TimeStamp, 10),
		string(data),
		strconv.FormatUint(b.Nonce, 10),
	)
}

// TransRoot returns the merkle root of the transactions, or an empty string
// for a block without transactions. It is not part of the block hash.
func (b Block) TransRoot() string {
	tree, err := merkle.NewTree(b.Trans)
	if err != nil {
		return ""
	}

	return tree.RootHex()
}

// Mine performs the work of finding a nonce that makes the block hash start
// with difficulty number of 0's. Pointer semantics are being used since a
// nonce is being discovered. If the context is cancelled the nonce reached so
// far is kept, so calling Mine again resumes the search from there.
func (b *Block) Mine(ctx context.Context, difficulty uint, evHandler func(v string, args ...any)) (uint64, error) {
	evHandler("database: Mine: MINING: started: prevBlk[%s]: nonce[%d]", b.PrevBlockHash, b.Nonce)
	defer evHandler("database: Mine: MINING: completed")

	for _, tx := range b.Trans {
		evHandler("database: Mine: MINING: tx[%s]", tx)
	}

	var attempts uint64
	for !IsHashSolved(difficulty, b.Hash) {

		// Did we get cancelled trying to solve the problem.
		if ctx.Err() != nil {
			evHandler("database: Mine: MINING: CANCELLED: nonce[%d]: attempts[%d]", b.Nonce, attempts)
			return attempts, ctx.Err()
		}

		attempts++
		if attempts%1_000_000 == 0 {
			evHandler("database: Mine: MINING: attempts[%d]", attempts)
		}

		b.Nonce++
		b.Hash = b.ContentHash()
	}

	evHandler("database: Mine: MINING: SOLVED: blk[%s]: nonce[%d]: attempts[%d]", b.Hash, b.Nonce, attempts)

	return attempts, nil
}

// HasValidTransactions checks no two transactions share an id and every
// transaction carries a valid signature.
func (b Block) HasValidTransactions() bool {
	ids := make(map[string]struct{}, len(b.Trans))
	for _, tx := range b.Trans {
		if _, exists := ids[tx.ID]; exists {
			return false
		}
		ids[tx.ID] = struct{}{}
	}

	for _, tx := range b.Trans {
		if tx.Validate() != nil {
			return false
		}
	}

	return true
}

// ValidateBlock checks the block against the block it claims to follow. The
// first broken rule is returned, nil means the block is valid.
func (b Block) ValidateBlock(index int, previousBlock Block, difficulty uint) *ValidationError {
	if !b.HasValidTransactions() {
		return &ValidationError{
			Kind:  InvalidTransactions,
			Index: index,
			Hash:  b.Hash,
		}
	}

	if expected := b.ContentHash(); b.Hash != expected {
		return &ValidationError{
			Kind:     HashMismatch,
			Index:    index,
			Hash:     b.Hash,
			Expected: expected,
			Actual:   b.Hash,
		}
	}

	if b.PrevBlockHash != previousBlock.Hash {
		return &ValidationError{
			Kind:     LinkMismatch,
			Index:    index,
			Hash:     b.Hash,
			Expected: previousBlock.Hash,
			Actual:   b.PrevBlockHash,
		}
	}

	if !IsHashSolved(difficulty, b.Hash) {
		return &ValidationError{
			Kind:     DifficultyUnmet,
			Index:    index,
			Hash:     b.Hash,
			Expected: strings.Repeat("0", int(difficulty)),
			Actual:   prefix(b.Hash, difficulty),
		}
	}

	return nil
}

// =============================================================================

// IsHashSolved checks the hash to make sure it complies with
// the POW rules. We need to match a difficulty number of 0's.
func IsHashSolved(difficulty uint, hash string) bool {
	if uint(len(hash)) < difficulty {
		return false
	}

	for i := range difficulty {
		if hash[i] != '0' {
			return false
		}
	}

	return true
}

// prefix returns up to n leading characters of s.
func prefix(s string, n uint) string {
	if uint(len(s)) < n {
		return s
	}
	return s[:n]
}
