package node

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cryptonote-community/walletcore/types"
)

func newTestClient(t *testing.T, handler http.Handler) (*HTTPClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	port, err := strconv.Atoi(u.Port())
	require.NoError(t, err)
	return NewHTTPClient(u.Hostname(), uint16(port), 2*time.Second), srv
}

func TestInfoDecodesResponseAndCachesCacheAPIFlag(t *testing.T) {
	c, srv := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/info", r.URL.Path)
		json.NewEncoder(w).Encode(InfoResponse{Height: 42, IsCacheAPI: true})
	}))
	defer srv.Close()

	resp, err := c.Info(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(42), resp.Height)
	assert.True(t, c.IsCacheAPI())
}

func TestDoReturnsNotFoundSentinel(t *testing.T) {
	c, srv := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := c.Fee(context.Background())
	assert.ErrorIs(t, err, types.ErrNodeEndpointNotFound)
}

func TestGetSyncDataFallsBackWhenRawBlocksMissing(t *testing.T) {
	var sawRawBlocks, sawFallback bool
	c, srv := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/getrawblocks":
			sawRawBlocks = true
			w.WriteHeader(http.StatusNotFound)
		case "/getwalletsyncdata":
			sawFallback = true
			json.NewEncoder(w).Encode(SyncDataResponse{})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	_, err := c.GetSyncData(context.Background(), SyncDataRequest{})
	require.NoError(t, err)
	assert.True(t, sawRawBlocks)
	assert.True(t, sawFallback)

	sawRawBlocks = false
	_, err = c.GetSyncData(context.Background(), SyncDataRequest{})
	require.NoError(t, err)
	assert.False(t, sawRawBlocks, "rawblocks must not be retried once it's 404'd")
}

func TestSendRawTransactionPostsTrimmedHex(t *testing.T) {
	var gotBody string
	c, srv := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			TxAsHex string `json:"tx_as_hex"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		gotBody = body.TxAsHex
		json.NewEncoder(w).Encode(SendRawTransactionResponse{Status: "OK"})
	}))
	defer srv.Close()

	resp, err := c.SendRawTransaction(context.Background(), "  deadbeef  ")
	require.NoError(t, err)
	assert.Equal(t, "OK", resp.Status)
	assert.Equal(t, "deadbeef", gotBody)
}

func TestGetRandomOutputsUsesCacheAPIPath(t *testing.T) {
	var gotPath string
	c, srv := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if strings.Contains(gotPath, "info") {
			json.NewEncoder(w).Encode(InfoResponse{IsCacheAPI: true})
			return
		}
		json.NewEncoder(w).Encode(struct {
			Outs []RandomOutputsForAmount `json:"outs"`
		}{})
	}))
	defer srv.Close()

	_, err := c.Info(context.Background())
	require.NoError(t, err)

	_, err = c.GetRandomOutputs(context.Background(), []uint64{100}, 3)
	require.NoError(t, err)
	assert.Equal(t, "/getrandom_outs", gotPath)
}
