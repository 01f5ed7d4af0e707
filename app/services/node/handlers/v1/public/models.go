package public

import (
	"github.com/mikitasolo/borwwcoin/foundation/blockchain/database"
	"github.com/mikitasolo/borwwcoin/foundation/nameservice"
)

type balance struct {
	Account database.AccountID `json:"account"`
	Name    string             `json:"name"`
	Balance int64              `json:"balance"`
}

type balances struct {
	LatestBlock string    `json:"latest_block"`
	Pending     int       `json:"pending"`
	Balances    []balance `json:"balances"`
}

type tx struct {
	Kind      database.TxKind    `json:"kind"`
	ID        string             `json:"id"`
	From      database.AccountID `json:"from,omitempty"`
	FromName  string             `json:"from_name,omitempty"`
	To        database.AccountID `json:"to"`
	ToName    string             `json:"to_name"`
	Amount    uint64             `json:"amount"`
	TimeStamp int64              `json:"timestamp"`
	Signature string             `json:"signature,omitempty"`
}

type block struct {
	Number        int    `json:"number"`
	TimeStamp     int64  `json:"timestamp"`
	PrevBlockHash string `json:"previous_hash"`
	Hash          string `json:"hash"`
	Nonce         uint64 `json:"nonce"`
	TransRoot     string `json:"trans_root,omitempty"`
	Transactions  []tx   `json:"transactions"`
}

// submitTx is the form of a signed transfer sent by a wallet.
type submitTx struct {
	Kind      database.TxKind    `json:"kind" validate:"omitempty,eq=transfer"`
	ID        string             `json:"id" validate:"required,uuid4"`
	From      database.AccountID `json:"from" validate:"required,account"`
	To        database.AccountID `json:"to" validate:"required,account"`
	Amount    uint64             `json:"amount"`
	TimeStamp int64              `json:"timestamp" validate:"required"`
	Signature string             `json:"signature" validate:"required,hexadecimal"`
}

func (stx submitTx) toTx() database.Tx {
	return database.Tx{
		Kind:      database.TxKindTransfer,
		ID:        stx.ID,
		From:      stx.From,
		To:        stx.To,
		Amount:    stx.Amount,
		TimeStamp: stx.TimeStamp,
		Signature: stx.Signature,
	}
}

// =============================================================================

func toTx(ns *nameservice.NameService, dbTx database.Tx) tx {
	t := tx{
		Kind:      dbTx.Kind,
		ID:        dbTx.ID,
		From:      dbTx.From,
		To:        dbTx.To,
		ToName:    ns.Lookup(dbTx.To),
		Amount:    dbTx.Amount,
		TimeStamp: dbTx.TimeStamp,
		Signature: dbTx.Signature,
	}

	if !dbTx.IsReward() {
		t.FromName = ns.Lookup(dbTx.From)
	}

	return t
}

func toTxs(ns *nameservice.NameService, dbTxs []database.Tx) []tx {
	trans := make([]tx, len(dbTxs))
	for i, dbTx := range dbTxs {
		trans[i] = toTx(ns, dbTx)
	}
	return trans
}
