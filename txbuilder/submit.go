package txbuilder

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/cryptonote-community/walletcore/types"
)

// Submit implements spec.md §4.4 "Submit": sends raw hex to the node,
// classifies the failure mode, and on success locks the spent inputs and
// records the transaction as unconfirmed.
func (b *Builder) Submit(ctx context.Context, built *BuiltTransaction) (types.Transaction, error) {
	resp, err := b.Client.SendRawTransaction(ctx, built.RawHex)
	if err != nil {
		if isGatewayTimeout(err) {
			return types.Transaction{}, types.ErrDaemonStillProcessing
		}
		if errors.Is(err, types.ErrNodeUnreachable) {
			return types.Transaction{}, types.ErrDaemonOffline
		}
		return types.Transaction{}, types.ErrDaemonOffline
	}
	if resp.Status != "OK" && resp.Status != "" {
		if resp.Error != "" {
			return types.Transaction{}, errWithMessage(types.ErrDaemonError, resp.Error)
		}
		return types.Transaction{}, types.ErrDaemonError
	}

	for _, in := range built.Inputs {
		sw := b.Collection.Subwallets[in.Owner]
		sw.MarkInputAsLocked(in.Input.KeyImage)
	}

	tx := types.Transaction{
		Hash:      built.Hash,
		Fee:       built.Fee,
		Transfers: built.Transfers,
	}
	b.Collection.AppendLockedTransaction(tx)

	for _, out := range built.OwnOutputs {
		sw := b.Collection.Subwallets[out.Owner]
		sw.StoreUnconfirmedIncoming(types.UnconfirmedInput{
			Amount:       out.Amount,
			OutputKey:    out.OutputKey,
			ParentTxHash: built.Hash,
		})
	}

	return tx, nil
}

func isGatewayTimeout(err error) bool {
	return strings.Contains(err.Error(), http.StatusText(http.StatusGatewayTimeout)) ||
		strings.Contains(err.Error(), "504")
}

func errWithMessage(sentinel error, msg string) error {
	return &daemonError{sentinel: sentinel, msg: msg}
}

type daemonError struct {
	sentinel error
	msg      string
}

func (e *daemonError) Error() string { return e.sentinel.Error() + ": " + e.msg }
func (e *daemonError) Unwrap() error { return e.sentinel }
