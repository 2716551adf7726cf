package reporter

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TEENet-io/swapflow/etherman"
	"github.com/TEENet-io/swapflow/normalizer"
	"github.com/TEENet-io/swapflow/registry"
	"github.com/TEENet-io/swapflow/router"
	"github.com/TEENet-io/swapflow/state"
	"github.com/TEENet-io/swapflow/swapflow"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestReporter(t *testing.T, enforce bool) (*HttpReporter, *HttpReader) {
	kv := state.NewMemKV()
	flow, err := swapflow.New(kv, swapflow.DefaultConfig(), nil)
	require.NoError(t, err)

	h := NewHttpReporter("127.0.0.1", "0", flow, registry.New(kv), enforce)
	srv := httptest.NewServer(h.SetupRouter())
	t.Cleanup(srv.Close)
	return h, NewHttpReaderWithURL(srv.URL)
}

func swapInitiatedLog(t *testing.T) (string, string) {
	ev := etherman.RandSwapInitiatedEvent()
	data, err := etherman.EncodeSwapInitiatedLog(ethcommon.HexToAddress(router.DefaultContract), ev)
	require.NoError(t, err)
	return ev.GlobalTxId.Hex(), data
}

func statusOf(t *testing.T, err error) int {
	var he *HttpError
	require.True(t, errors.As(err, &he), "%v", err)
	return he.StatusCode
}

func TestHello(t *testing.T) {
	_, rd := newTestReporter(t, false)
	body, err := rd.GetHello()
	require.NoError(t, err)
	assert.JSONEq(t, `{"message":"world"}`, body)
}

func TestSwapRoutes(t *testing.T) {
	_, rd := newTestReporter(t, false)

	id, data := swapInitiatedLog(t)

	_, err := rd.GetSigningHash(id)
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))

	count, err := rd.PostEvent(id, etherman.SourceSwapInitiated, data)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)

	count, err = rd.GetEventCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)

	hash, err := rd.GetSigningHash(id)
	require.NoError(t, err)
	assert.Len(t, hash, 64)

	cd, err := rd.GetCallData(id, hexutil.Encode(make([]byte, 65)))
	require.NoError(t, err)
	assert.Equal(t, router.DefaultProvider, cd.Provider)
	assert.Equal(t, ethcommon.HexToAddress(swapflow.DefaultRelayerAddress).Hex(), cd.From)

	_, err = rd.GetCallData(id, "0x12")
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))

	_, err = rd.PostEvent(id, 2, data)
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
	_, err = rd.PostEvent(id, etherman.SourceSwapInitiated, "not base64!")
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))

	count, err = rd.GetEventCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
}

func TestAuditRoutes(t *testing.T) {
	h, rd := newTestReporter(t, false)
	engine := h.SetupRouter()

	id, data := swapInitiatedLog(t)
	_, err := rd.PostEvent(id, etherman.SourceSwapInitiated, data)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/events/"+id+"SwapInitiated", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var ev struct {
		Data *state.EventRecord `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ev))
	assert.Equal(t, etherman.EventSwapInitiated, ev.Data.Type)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/payloads/"+id+"execute_swap", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var p struct {
		Data *state.PayloadRecord `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.Equal(t, state.PayloadExecuteSwap, p.Data.Type)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/payloads/"+id+"finalize_swap", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, ROUTE_SIGNING_HASH, nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, ROUTE_EVENTS, bytes.NewBufferString(`{"global_tx_id":"x"}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func postSource(t *testing.T, engine *gin.Engine, src *registry.EventSource) uint64 {
	body, err := json.Marshal(src)
	require.NoError(t, err)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, ROUTE_SOURCES, bytes.NewReader(body)))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var out struct {
		Index uint64 `json:"index"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out.Index
}

func TestSourceRoutes(t *testing.T) {
	h, rd := newTestReporter(t, true)
	engine := h.SetupRouter()

	id, data := swapInitiatedLog(t)

	// nothing registered yet
	_, err := rd.PostEvent(id, etherman.SourceSwapInitiated, data)
	assert.Equal(t, http.StatusForbidden, statusOf(t, err))

	index := postSource(t, engine, &registry.EventSource{
		SourceID:             "0",
		Chain:                "ethereum",
		SmartContractAddress: router.DefaultContract,
		EventType:            etherman.SwapInitiatedEventName,
	})
	assert.Equal(t, uint64(1), index)

	_, err = rd.PostEvent(id, etherman.SourceSwapInitiated, data)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sources/1", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sources/9", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sources/abc", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/sources/1", nil))
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, ROUTE_SOURCES+"?from=1", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Next uint64                    `json:"next"`
		Data []*registry.EventSourceOp `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, uint64(3), list.Next)
	require.Len(t, list.Data, 2)
	assert.Equal(t, registry.OpRemove, list.Data[1].Op)

	_, err = rd.PostEvent(id, etherman.SourceSwapInitiated, data)
	assert.Equal(t, http.StatusForbidden, statusOf(t, err))
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, StatusOf(fmt.Errorf("%w: x", etherman.ErrDecode)))
	assert.Equal(t, http.StatusBadRequest, StatusOf(normalizer.ErrConversion))
	assert.Equal(t, http.StatusNotFound, StatusOf(swapflow.ErrUnknownGlobalTxID))
	assert.Equal(t, http.StatusForbidden, StatusOf(registry.ErrUnauthorizedSource))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(state.ErrCounterOverflow))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(errors.New("other")))
}
