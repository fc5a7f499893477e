package node

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/cryptonote-community/walletcore/types"
)

// Non2xx returns true for non-success HTTP status codes, same helper the
// teacher's pkg/client/http.go keeps alongside apiGet/apiPost.
func Non2xx(code int) bool {
	return code < 200 || code > 299
}

// HTTPClient talks to a CryptoNote daemon's REST API. It auto-detects
// HTTPS vs HTTP on the first request and caches the result for the rest of
// the process (spec.md §6), grounded on the teacher's HTTPClient.apiGet /
// apiPost wrapping pattern in pkg/client/http.go, generalized from a single
// hardcoded "http://" prefix to a cached scheme probe.
type HTTPClient struct {
	Host string
	Port uint16

	httpClient *http.Client

	schemeOnce sync.Once
	scheme     string // "https://" or "http://", cached after the first call

	rawBlocksOnce    sync.Once
	rawBlocksMissing bool // true once /getrawblocks has 404'd, permanently

	cacheAPIMu sync.RWMutex
	isCacheAPI bool
}

// NewHTTPClient returns a client for host:port, with RequestTimeout from the
// spec's Config applied to every request.
func NewHTTPClient(host string, port uint16, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		Host:       host,
		Port:       port,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *HTTPClient) baseURL() string {
	return fmt.Sprintf("%s%s:%d", c.resolveScheme(), c.Host, c.Port)
}

// resolveScheme probes https first and falls back to http, caching the
// result for every subsequent call (spec.md §6: "the client must attempt
// HTTPS first... and cache the result for the remainder of the session").
func (c *HTTPClient) resolveScheme() string {
	c.schemeOnce.Do(func() {
		probe := &http.Client{Timeout: 3 * time.Second}
		resp, err := probe.Get(fmt.Sprintf("https://%s:%d/info", c.Host, c.Port))
		if err == nil {
			resp.Body.Close()
			c.scheme = "https://"
			return
		}
		c.scheme = "http://"
	})
	return c.scheme
}

func (c *HTTPClient) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL()+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *HTTPClient) postJSON(ctx context.Context, path string, body, out interface{}) error {
	buf, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL()+path, bytes.NewReader(buf))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

// do wraps the request with the status-code check the teacher's apiGet /
// apiPost perform, then decodes into out when a body is expected.
func (c *HTTPClient) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", types.ErrNodeUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return types.ErrNodeEndpointNotFound
	}
	if Non2xx(resp.StatusCode) {
		var apiErr struct {
			Error string `json:"error"`
		}
		if decErr := json.NewDecoder(resp.Body).Decode(&apiErr); decErr == nil && apiErr.Error != "" {
			return fmt.Errorf("%w: %s", types.ErrNodeRequestFailed, apiErr.Error)
		}
		return types.ErrNodeRequestFailed
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *HTTPClient) Info(ctx context.Context) (InfoResponse, error) {
	var resp InfoResponse
	if err := c.get(ctx, "/info", &resp); err != nil {
		return InfoResponse{}, err
	}
	c.cacheAPIMu.Lock()
	c.isCacheAPI = resp.IsCacheAPI
	c.cacheAPIMu.Unlock()
	return resp, nil
}

func (c *HTTPClient) Fee(ctx context.Context) (FeeResponse, error) {
	var resp FeeResponse
	err := c.get(ctx, "/fee", &resp)
	return resp, err
}

// GetSyncData implements the permanent-fallback rule of spec.md §6: prefer
// the leaner /getrawblocks endpoint, but once it answers 404 fall back to
// /getwalletsyncdata for the remainder of the process.
func (c *HTTPClient) GetSyncData(ctx context.Context, req SyncDataRequest) (SyncDataResponse, error) {
	var resp SyncDataResponse

	c.rawBlocksOnce.Do(func() {
		err := c.postJSON(ctx, "/getrawblocks", req, &resp)
		if err == nil {
			return
		}
		if errors.Is(err, types.ErrNodeEndpointNotFound) {
			c.rawBlocksMissing = true
			return
		}
	})

	if !c.rawBlocksMissing {
		err := c.postJSON(ctx, "/getrawblocks", req, &resp)
		if err == nil {
			return resp, nil
		}
		if !errors.Is(err, types.ErrNodeEndpointNotFound) {
			return SyncDataResponse{}, err
		}
		c.rawBlocksMissing = true
	}

	err := c.postJSON(ctx, "/getwalletsyncdata", req, &resp)
	return resp, err
}

func (c *HTTPClient) GetGlobalIndexesForRange(ctx context.Context, req GlobalIndexesRangeRequest) (GlobalIndexesRangeResponse, error) {
	var resp GlobalIndexesRangeResponse
	err := c.postJSON(ctx, "/get_global_indexes_for_range", req, &resp)
	return resp, err
}

func (c *HTTPClient) GetTransactionsStatus(ctx context.Context, hashes []types.Hash) (TransactionsStatusResponse, error) {
	var resp TransactionsStatusResponse
	body := struct {
		TransactionHashes []types.Hash `json:"transactionHashes"`
	}{hashes}
	err := c.postJSON(ctx, "/get_transactions_status", body, &resp)
	return resp, err
}

// GetRandomOutputs asks the daemon for decoy candidates. The endpoint name
// differs between full nodes and lightweight cache APIs (spec.md §6).
func (c *HTTPClient) GetRandomOutputs(ctx context.Context, amounts []uint64, mixin uint64) ([]RandomOutputsForAmount, error) {
	path := "/randomOutputs"
	if c.IsCacheAPI() {
		path = "/getrandom_outs"
	}
	var resp struct {
		Outs []RandomOutputsForAmount `json:"outs"`
	}
	body := struct {
		Amounts      []uint64 `json:"amounts"`
		Mixin        uint64   `json:"mixin"`
		OutsCount    uint64   `json:"outs_count,omitempty"`
	}{Amounts: amounts, Mixin: mixin, OutsCount: mixin + 1}
	err := c.postJSON(ctx, path, body, &resp)
	return resp.Outs, err
}

func (c *HTTPClient) SendRawTransaction(ctx context.Context, txHex string) (SendRawTransactionResponse, error) {
	var resp SendRawTransactionResponse
	body := struct {
		TxAsHex string `json:"tx_as_hex"`
	}{strings.TrimSpace(txHex)}
	err := c.postJSON(ctx, "/sendrawtransaction", body, &resp)
	return resp, err
}

func (c *HTTPClient) IsCacheAPI() bool {
	c.cacheAPIMu.RLock()
	defer c.cacheAPIMu.RUnlock()
	return c.isCacheAPI
}

var _ Client = (*HTTPClient)(nil)
