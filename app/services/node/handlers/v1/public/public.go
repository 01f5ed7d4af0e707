// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/gorilla/websocket"
	"github.com/mikitasolo/borwwcoin/business/sys/validate"
	"github.com/mikitasolo/borwwcoin/business/web/errs"
	"github.com/mikitasolo/borwwcoin/foundation/blockchain/database"
	"github.com/mikitasolo/borwwcoin/foundation/blockchain/state"
	"github.com/mikitasolo/borwwcoin/foundation/events"
	"github.com/mikitasolo/borwwcoin/foundation/nameservice"
	"github.com/mikitasolo/borwwcoin/foundation/web"
	"go.uber.org/zap"
)

// Handlers manages the set of node endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	NS    *nameservice.NameService
	WS    websocket.Upgrader
	Evts  *events.Events
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	// Need this to handle CORS on the websocket.
	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	// This upgrades the HTTP connection to a websocket connection.
	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	// This provides a channel for receiving events from the blockchain.
	ch := h.Evts.Acquire(v.TraceID)
	defer func() {
		if dropped, err := h.Evts.Release(v.TraceID); err == nil && dropped > 0 {
			h.Log.Infow("events", "traceid", v.TraceID, "dropped", dropped)
		}
	}()

	// Starting a ticker to send a ping message over the websocket.
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	// Block waiting for events from the blockchain or ticker.
	for {
		select {
		case msg, wd := <-ch:

			// If the channel is closed, release the websocket.
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return err
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// Genesis returns the genesis information.
func (h Handlers) Genesis(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.Genesis(), http.StatusOK)
}

// Balances returns the current balance of every account, or the balance
// of the specified account.
func (h Handlers) Balances(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var bals []balance

	switch param := web.Param(r, "account"); param {
	case "":
		for account, amount := range h.State.Balances() {
			bals = append(bals, balance{
				Account: account,
				Name:    h.NS.Lookup(account),
				Balance: amount,
			})
		}
		sort.Slice(bals, func(i, j int) bool { return bals[i].Account < bals[j].Account })

	default:
		account, err := h.NS.Resolve(param)
		if err != nil {
			return errs.NewTrusted(err, http.StatusBadRequest)
		}

		bals = append(bals, balance{
			Account: account,
			Name:    h.NS.Lookup(account),
			Balance: h.State.BalanceOf(account),
		})
	}

	resp := balances{
		LatestBlock: h.State.LatestBlock().Hash,
		Pending:     len(h.State.QueryPending()),
		Balances:    bals,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// BlocksByAccount returns all the blocks holding a transaction for the
// specified account, or every block when no account is given.
func (h Handlers) BlocksByAccount(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var account database.AccountID

	if param := web.Param(r, "account"); param != "" {
		var err error
		if account, err = h.NS.Resolve(param); err != nil {
			return errs.NewTrusted(err, http.StatusBadRequest)
		}
	}

	// Block numbers come from the position in the chain.
	numbers := make(map[string]int)
	for i, blk := range h.State.Blocks() {
		numbers[blk.Hash] = i
	}

	dbBlocks := h.State.QueryBlocksByAccount(account)
	if len(dbBlocks) == 0 {
		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}

	blocks := make([]block, len(dbBlocks))
	for i, blk := range dbBlocks {
		blocks[i] = block{
			Number:        numbers[blk.Hash],
			TimeStamp:     blk.TimeStamp,
			PrevBlockHash: blk.PrevBlockHash,
			Hash:          blk.Hash,
			Nonce:         blk.Nonce,
			TransRoot:     blk.TransRoot(),
			Transactions:  toTxs(h.NS, blk.Trans),
		}
	}

	return web.Respond(ctx, w, blocks, http.StatusOK)
}

// Pending returns the set of transactions waiting to be mined.
func (h Handlers) Pending(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, toTxs(h.NS, h.State.QueryPending()), http.StatusOK)
}

// SubmitTransaction adds a signed wallet transaction to the pending pool.
func (h Handlers) SubmitTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var stx submitTx
	if err := web.Decode(r, &stx); err != nil {
		return errs.NewTrusted(fmt.Errorf("unable to decode payload: %w", err), http.StatusBadRequest)
	}

	if err := validate.Check(stx); err != nil {
		return err
	}

	tx := stx.toTx()

	h.Log.Infow("submit tran", "traceid", v.TraceID, "tx", tx)
	if err := h.State.AddTransaction(tx); err != nil {
		if errors.Is(err, state.ErrInvalidTransaction) {
			return errs.NewTrusted(err, http.StatusBadRequest)
		}
		return err
	}

	resp := struct {
		Status string `json:"status"`
		ID     string `json:"id"`
	}{
		Status: "transaction added to pending pool",
		ID:     tx.ID,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Proof returns the merkle proof that a mined transaction belongs to its
// block.
func (h Handlers) Proof(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	txp, err := h.State.QueryProof(web.Param(r, "id"))
	if err != nil {
		if errors.Is(err, state.ErrNotFound) {
			return errs.NewTrusted(err, http.StatusNotFound)
		}
		return err
	}

	return web.Respond(ctx, w, txp, http.StatusOK)
}

// Mine mines the pending transactions into a new block, crediting the
// reward to the specified account. The request blocks until the block is
// mined or the client goes away.
func (h Handlers) Mine(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	account, err := h.NS.Resolve(web.Param(r, "account"))
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	res, err := h.State.MinePendingTransactions(ctx, account)
	if err != nil {
		if ctx.Err() != nil {
			return errs.NewTrusted(fmt.Errorf("mining cancelled: %w", err), http.StatusServiceUnavailable)
		}
		return err
	}

	resp := struct {
		Hash     string `json:"hash"`
		Nonce    uint64 `json:"nonce"`
		Attempts uint64 `json:"attempts"`
		Duration string `json:"duration"`
		Trans    []tx   `json:"transactions"`
	}{
		Hash:     res.Block.Hash,
		Nonce:    res.Block.Nonce,
		Attempts: res.Attempts,
		Duration: res.Duration.String(),
		Trans:    toTxs(h.NS, res.Block.Trans),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// SignalMining asks the background worker to mine the pending pool.
func (h Handlers) SignalMining(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if h.State.Worker == nil {
		return errs.NewTrusted(errors.New("no mining worker is running on this node"), http.StatusConflict)
	}

	h.State.Worker.SignalStartMining()

	resp := struct {
		Status string `json:"status"`
	}{
		Status: "mining signalled",
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Validate walks the chain and reports the first broken block.
func (h Handlers) Validate(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.Validate(), http.StatusOK)
}

// Snapshot returns the chain and the pending pool as a json or yaml
// document depending on the format query parameter.
func (h Handlers) Snapshot(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = state.FormatJSON
	}

	data, err := h.State.Snapshot().Marshal(format)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	contentType := "application/json"
	if format == state.FormatYAML {
		contentType = "application/yaml"
	}

	return web.RespondRaw(ctx, w, data, contentType, http.StatusOK)
}
