package synchronizer

import (
	"github.com/cryptonote-community/walletcore/cryptoprim"
	"github.com/cryptonote-community/walletcore/subwallet"
	"github.com/cryptonote-community/walletcore/types"
)

// ScanResult is one output the scan step attributes to one of our
// subwallets (spec.md §4.2 step 3/4).
type ScanResult struct {
	Owner types.PublicKey
	Input types.TransactionInput
}

// OutputScanFunc is the pluggable output-detection contract of spec.md
// §4.2 "Output-scan extensibility": block in, (owner, input) pairs out. The
// default implementation below is pure Go and calls the Engine once per
// transaction/output; a native-speed scanner can be substituted without
// touching the rest of the pipeline.
type OutputScanFunc func(block types.Block, privateViewKey types.PrivateKey, publicSpendKeys []types.PublicKey, engine cryptoprim.Engine) ([]ScanResult, error)

// DefaultOutputScan implements spec.md §4.2 step 3: derivation =
// H(txPublicKey·privateViewKey)·G; for each output, derivedSpendKey =
// outputKey − H(derivation‖i)·G; match against our public spend keys.
func DefaultOutputScan(block types.Block, privateViewKey types.PrivateKey, publicSpendKeys []types.PublicKey, engine cryptoprim.Engine) ([]ScanResult, error) {
	owners := make(map[types.PublicKey]struct{}, len(publicSpendKeys))
	for _, pk := range publicSpendKeys {
		owners[pk] = struct{}{}
	}

	var results []ScanResult
	txs := block.Transactions
	if block.CoinbaseTransaction != nil {
		txs = append([]types.RawTransaction{*block.CoinbaseTransaction}, txs...)
	}

	for _, tx := range txs {
		derivation, err := engine.GenerateKeyDerivation(tx.TxPublicKey, privateViewKey)
		if err != nil {
			return nil, err
		}
		for i, out := range tx.KeyOutputs {
			derivedSpendKey := engine.DerivePublicKey(derivation, uint64(i), out.Key)
			if _, ours := owners[derivedSpendKey]; !ours {
				continue
			}
			globalIndex := uint64(0)
			if out.GlobalIndex != nil {
				globalIndex = *out.GlobalIndex
			}
			results = append(results, ScanResult{
				Owner: derivedSpendKey,
				Input: types.TransactionInput{
					Amount:            out.Amount,
					BlockHeight:       block.BlockHeight,
					TxPublicKey:       tx.TxPublicKey,
					TxIndex:           uint64(i),
					GlobalOutputIndex: globalIndex,
					OutputKey:         out.Key,
					UnlockTime:        tx.UnlockTime,
					ParentTxHash:      tx.Hash,
				},
			})
		}
	}
	return results, nil
}

// fillKeyImage computes the key image for a just-detected output, if the
// owning subwallet can (i.e. is not view-only). View wallets store a zero
// key image, per spec.md §4.2 step 4.
func fillKeyImage(engine cryptoprim.Engine, sw *subwallet.Subwallet, derivation [32]byte, outputIndex uint64, ephemeralPublic types.PublicKey) (types.KeyImage, error) {
	if sw.IsViewOnly() {
		return types.KeyImage{}, nil
	}
	ephemeralSecret := engine.DeriveSecretKey(derivation, outputIndex, *sw.PrivateSpendKey)
	return engine.GenerateKeyImage(ephemeralPublic, ephemeralSecret)
}
