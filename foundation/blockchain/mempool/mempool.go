// Package mempool maintains the pool of pending transactions for the
// blockchain.
package mempool

import (
	"errors"
	"sync"

	"github.com/mikitasolo/borwwcoin/foundation/blockchain/database"
)

// ErrDuplicateID is returned when a transaction with the same id is
// already pending.
var ErrDuplicateID = errors.New("transaction id already pending")

// Mempool represents a cache of transactions kept in submission order with
// a second key on the transaction id.
type Mempool struct {
	mu    sync.RWMutex
	trans []database.Tx
	ids   map[string]struct{}
}

// New constructs a new empty mempool.
func New() *Mempool {
	return &Mempool{
		ids: make(map[string]struct{}),
	}
}

// Count returns the current number of transaction in the pool.
func (mp *Mempool) Count() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return len(mp.trans)
}

// Add appends a transaction to the end of the pool.
func (mp *Mempool) Add(tx database.Tx) (int, error) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if _, exists := mp.ids[tx.ID]; exists {
		return len(mp.trans), ErrDuplicateID
	}

	mp.trans = append(mp.trans, tx)
	mp.ids[tx.ID] = struct{}{}

	return len(mp.trans), nil
}

// Drain removes and returns every transaction in submission order.
func (mp *Mempool) Drain() []database.Tx {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	trans := mp.trans
	mp.trans = nil
	mp.ids = make(map[string]struct{})

	return trans
}

// Restore puts previously drained transactions back to the front of the
// pool. Any transaction whose id has been added since is skipped.
func (mp *Mempool) Restore(trans []database.Tx) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	restored := make([]database.Tx, 0, len(trans)+len(mp.trans))
	for _, tx := range trans {
		if _, exists := mp.ids[tx.ID]; exists {
			continue
		}
		mp.ids[tx.ID] = struct{}{}
		restored = append(restored, tx)
	}

	mp.trans = append(restored, mp.trans...)
}

// Copy returns a copy of the pending transactions in submission order.
func (mp *Mempool) Copy() []database.Tx {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return append([]database.Tx(nil), mp.trans...)
}

// Truncate clears all the transactions from the pool.
func (mp *Mempool) Truncate() {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.trans = nil
	mp.ids = make(map[string]struct{})
}
