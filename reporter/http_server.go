// This is a http type of reporter.
// It drives the swap flow and the source registry,
// and publishes their state on the http routes.

package reporter

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	logger "github.com/sirupsen/logrus"

	"github.com/TEENet-io/swapflow/etherman"
	"github.com/TEENet-io/swapflow/normalizer"
	"github.com/TEENet-io/swapflow/registry"
	"github.com/TEENet-io/swapflow/swapflow"
)

const (
	ROUTE_HELLO        = "/hello"
	ROUTE_EVENTS       = "/events"
	ROUTE_EVENT_COUNT  = "/events/count"
	ROUTE_EVENT        = "/events/:key"
	ROUTE_PAYLOAD      = "/payloads/:key"
	ROUTE_SIGNING_HASH = "/signing-hash"
	ROUTE_CALLDATA     = "/calldata"
	ROUTE_SOURCES      = "/sources"
	ROUTE_SOURCE       = "/sources/:index"

	shutdownTimeout = 5 * time.Second
)

type HttpReporter struct {
	serverIP   string // listen ip
	serverPort string // listen port

	flow     *swapflow.Flow
	registry *registry.Registry

	// reject events whose source id has no live registration
	enforceRegistry bool
}

func NewHttpReporter(serverIP string, serverPort string, flow *swapflow.Flow, reg *registry.Registry, enforceRegistry bool) *HttpReporter {
	return &HttpReporter{
		serverIP:        serverIP,
		serverPort:      serverPort,
		flow:            flow,
		registry:        reg,
		enforceRegistry: enforceRegistry,
	}
}

// Hook up routes & handlers
func (h *HttpReporter) SetupRouter() *gin.Engine {
	router := gin.Default()

	router.GET(ROUTE_HELLO, Hello)

	router.POST(ROUTE_EVENTS, h.IngestEvent)
	router.GET(ROUTE_EVENT_COUNT, h.EventCount)
	router.GET(ROUTE_EVENT, h.Event)
	router.GET(ROUTE_PAYLOAD, h.Payload)
	router.GET(ROUTE_SIGNING_HASH, h.SigningHash)
	router.GET(ROUTE_CALLDATA, h.CallData)

	router.POST(ROUTE_SOURCES, h.RegisterSource)
	router.GET(ROUTE_SOURCES, h.Sources)
	router.GET(ROUTE_SOURCE, h.Source)
	router.DELETE(ROUTE_SOURCE, h.UnregisterSource)

	return router
}

// Run serves until ctx is cancelled, then shuts the server down.
func (h *HttpReporter) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    h.serverIP + ":" + h.serverPort,
		Handler: h.SetupRouter(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WithField("address", srv.Addr).Info("http reporter listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("http reporter shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// Liveness route.
func Hello(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "world",
	})
}

type ingestRequest struct {
	GlobalTxID string  `json:"global_tx_id" binding:"required"`
	SourceID   *uint64 `json:"source_id" binding:"required"`
	EventData  string  `json:"event_data" binding:"required"`
}

func (h *HttpReporter) IngestEvent(c *gin.Context) {
	var req ingestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	if h.enforceRegistry && h.registry != nil {
		if err := h.registry.Authorize(ctx, *req.SourceID); err != nil {
			writeError(c, err)
			return
		}
	}

	if err := h.flow.IngestEvent(ctx, req.GlobalTxID, *req.SourceID, req.EventData); err != nil {
		writeError(c, err)
		return
	}

	count, err := h.flow.GetEventCount(ctx)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

func (h *HttpReporter) EventCount(c *gin.Context) {
	count, err := h.flow.GetEventCount(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

func (h *HttpReporter) Event(c *gin.Context) {
	rec, err := h.flow.GetEvent(c.Request.Context(), c.Param("key"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rec})
}

func (h *HttpReporter) Payload(c *gin.Context) {
	rec, err := h.flow.GetPayload(c.Request.Context(), c.Param("key"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rec})
}

func (h *HttpReporter) SigningHash(c *gin.Context) {
	id := c.Query("global_tx_id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "global_tx_id must be provided"})
		return
	}

	hash, err := h.flow.GetSigningHash(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"hash": hash})
}

func (h *HttpReporter) CallData(c *gin.Context) {
	id := c.Query("global_tx_id")
	sig := c.Query("signature")
	if id == "" || sig == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "global_tx_id and signature must be provided"})
		return
	}

	cd, err := h.flow.GetCallData(c.Request.Context(), id, sig)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cd)
}

func (h *HttpReporter) RegisterSource(c *gin.Context) {
	var src registry.EventSource
	if err := c.ShouldBindJSON(&src); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	index, err := h.registry.Register(c.Request.Context(), &src)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"index": index})
}

func (h *HttpReporter) UnregisterSource(c *gin.Context) {
	index, ok := parseIndex(c, c.Param("index"))
	if !ok {
		return
	}

	removed, err := h.registry.Unregister(c.Request.Context(), index)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"index": removed})
}

func (h *HttpReporter) Sources(c *gin.Context) {
	from, ok := parseIndex(c, c.DefaultQuery("from", "1"))
	if !ok {
		return
	}

	next, ops, err := h.registry.SourcesFrom(c.Request.Context(), from)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"next": next, "data": ops})
}

func (h *HttpReporter) Source(c *gin.Context) {
	index, ok := parseIndex(c, c.Param("index"))
	if !ok {
		return
	}

	op, err := h.registry.Source(c.Request.Context(), index)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": op})
}

func parseIndex(c *gin.Context, s string) (uint64, bool) {
	index, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid index: " + s})
		return 0, false
	}
	return index, true
}

func writeError(c *gin.Context, err error) {
	c.JSON(StatusOf(err), gin.H{"error": err.Error()})
}

// StatusOf maps an error returned by the flow or the registry to a http
// status code.
func StatusOf(err error) int {
	switch {
	case errors.Is(err, etherman.ErrDecode),
		errors.Is(err, etherman.ErrUnknownSourceID),
		errors.Is(err, etherman.ErrSignatureParse),
		errors.Is(err, normalizer.ErrConversion):
		return http.StatusBadRequest
	case errors.Is(err, swapflow.ErrUnknownGlobalTxID),
		errors.Is(err, registry.ErrSourceNotFound):
		return http.StatusNotFound
	case errors.Is(err, registry.ErrUnauthorizedSource):
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}
