package swapflow

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	logger "github.com/sirupsen/logrus"

	"github.com/TEENet-io/swapflow/common"
	"github.com/TEENet-io/swapflow/etherman"
	"github.com/TEENet-io/swapflow/notifier"
	"github.com/TEENet-io/swapflow/router"
	"github.com/TEENet-io/swapflow/state"
)

// Flow relays swaps between two chains. It ingests the logs of both
// sides, keeps the payload each log calls for and turns a payload plus
// signature into calldata.
//
// Calls are serialized. An ingest either writes the event, its payload and
// the counter together or writes nothing. Notifications go out after the
// lock is released.
type Flow struct {
	mu sync.Mutex

	kv        state.KVStore
	events    *state.EventStore
	payloads  *state.PayloadStore
	counter   *state.EventCounter
	router    *router.Router
	relayer   ethcommon.Address
	publisher notifier.Publisher
}

func New(kv state.KVStore, cfg *Config, publisher notifier.Publisher) (*Flow, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	relayer, err := router.ParseAddress(cfg.RelayerAddress)
	if err != nil {
		return nil, err
	}
	routerCfg := cfg.Router
	if routerCfg == nil {
		routerCfg = router.DefaultConfig()
	}
	r, err := router.New(routerCfg)
	if err != nil {
		return nil, err
	}
	if publisher == nil {
		publisher = notifier.Nop{}
	}

	return &Flow{
		kv:        kv,
		events:    state.NewEventStore(kv),
		payloads:  state.NewPayloadStore(kv),
		counter:   state.NewEventCounter(kv),
		router:    r,
		relayer:   relayer,
		publisher: publisher,
	}, nil
}

// IngestEvent decodes one log forwarded by a relayer and records it under
// globalTxID together with the payload it derives. The notification is
// published after the lock is released.
func (f *Flow) IngestEvent(ctx context.Context, globalTxID string, sourceID uint64, eventData string) error {
	n, err := f.ingest(ctx, globalTxID, sourceID, eventData)
	if err != nil {
		return err
	}
	f.publish(ctx, n)
	return nil
}

func (f *Flow) ingest(ctx context.Context, globalTxID string, sourceID uint64, eventData string) (*Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	ev, err := etherman.DecodeLog(sourceID, eventData)
	if err != nil {
		logger.WithFields(logger.Fields{
			"global_tx_id": globalTxID,
			"source_id":    sourceID,
		}).Errorf("failed to decode event: %v", err)
		return nil, err
	}

	tx := state.NewTx(f.kv)
	defer tx.Discard()

	evRec, payload, err := state.SaveEvent(ctx, tx, globalTxID, ev)
	if err != nil {
		logger.WithField("global_tx_id", globalTxID).Errorf("failed to save event: %v", err)
		return nil, err
	}
	count, err := state.NewEventCounter(tx).Get(ctx)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		logger.WithField("global_tx_id", globalTxID).Errorf("failed to commit event: %v", err)
		return nil, err
	}

	logger.WithFields(logger.Fields{
		"global_tx_id": globalTxID,
		"event":        evRec.Type,
		"payload":      payload.Type,
		"count":        count,
	}).Info("ingested event")

	return &Notification{
		GlobalTxId: globalTxID,
		Count:      count,
		Event:      evRec,
		Payload:    payload,
	}, nil
}

// publish is best effort: the event is already committed.
func (f *Flow) publish(ctx context.Context, n *Notification) {
	data, err := json.Marshal(n)
	if err == nil {
		err = f.publisher.Publish(ctx, state.EventKey(n.GlobalTxId, n.Event.Type), data)
	}
	if err != nil {
		logger.WithField("global_tx_id", n.GlobalTxId).Warnf("failed to publish event: %v", err)
	}
}

// GetSigningHash returns the hex digest to be signed for the pending
// payload of globalTxID. A finalize payload takes precedence over an
// execute payload.
func (f *Flow) GetSigningHash(ctx context.Context, globalTxID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	rec, err := f.pendingPayload(ctx, globalTxID)
	if err != nil {
		return "", err
	}

	var hash string
	switch rec.Type {
	case state.PayloadFinalizeSwap:
		hash, err = rec.FinalizeSwap.SigningHash()
	default:
		hash, err = rec.ExecuteSwap.SigningHash()
	}
	if err != nil {
		return "", err
	}

	logger.WithFields(logger.Fields{
		"global_tx_id": globalTxID,
		"payload":      rec.Type,
		"hash":         common.Shorten(hash, 8),
	}).Debug("signing hash")
	return hash, nil
}

// GetCallData encodes the pending payload of globalTxID with signature
// and picks the chain it has to be sent to.
func (f *Flow) GetCallData(ctx context.Context, globalTxID, signature string) (*CallData, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	sig, err := etherman.ParseSignature(signature)
	if err != nil {
		return nil, err
	}

	rec, err := f.pendingPayload(ctx, globalTxID)
	if err != nil {
		return nil, err
	}

	var (
		input []byte
		route router.Route
	)
	switch rec.Type {
	case state.PayloadFinalizeSwap:
		if input, err = etherman.EncodeFinalizeSwap(rec.FinalizeSwap, sig); err != nil {
			return nil, err
		}
		route, err = f.finalizeRoute(ctx, globalTxID)
		if err != nil {
			return nil, err
		}
	default:
		if input, err = etherman.EncodeExecuteSwap(rec.ExecuteSwap, sig); err != nil {
			return nil, err
		}
		route = f.router.Route(rec.ExecuteSwap.TokenAddress.Eth())
	}

	cd := &CallData{
		InputData: hexutil.Encode(input),
		Provider:  route.Provider,
		To:        route.Contract.Hex(),
		From:      f.relayer.Hex(),
	}
	logger.WithFields(logger.Fields{
		"global_tx_id": globalTxID,
		"payload":      rec.Type,
		"to":           cd.To,
		"provider":     cd.Provider,
		"input":        common.Shorten(cd.InputData, 8),
	}).Debug("call data")
	return cd, nil
}

// finalizeSwap goes to the chain of the token the swap was executed with.
func (f *Flow) finalizeRoute(ctx context.Context, globalTxID string) (router.Route, error) {
	ev, ok, err := f.events.Get(ctx, globalTxID, etherman.EventSwapExecuted)
	if err != nil {
		return router.Route{}, err
	}
	if !ok {
		return f.router.Default(), nil
	}
	return f.router.Route(ev.SwapExecuted.TokenAddress.Eth()), nil
}

func (f *Flow) pendingPayload(ctx context.Context, globalTxID string) (*state.PayloadRecord, error) {
	for _, t := range []state.PayloadType{state.PayloadFinalizeSwap, state.PayloadExecuteSwap} {
		rec, ok, err := f.payloads.Get(ctx, globalTxID, t)
		if err != nil {
			return nil, err
		}
		if ok {
			return rec, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownGlobalTxID, globalTxID)
}

func (f *Flow) GetEventCount(ctx context.Context) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counter.Get(ctx)
}

// GetEvent looks an event up by its store key, the global tx id followed by
// the event name.
func (f *Flow) GetEvent(ctx context.Context, key string) (*state.EventRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, t := range []etherman.EventType{etherman.EventSwapInitiated, etherman.EventSwapExecuted} {
		id, found := strings.CutSuffix(key, string(t))
		if !found {
			continue
		}
		rec, ok, err := f.events.Get(ctx, id, t)
		if err != nil {
			return nil, err
		}
		if ok {
			return rec, nil
		}
	}
	return nil, fmt.Errorf("%w: no event under %s", ErrUnknownGlobalTxID, key)
}

// GetPayload looks a payload up by its store key, the global tx id followed
// by the payload type.
func (f *Flow) GetPayload(ctx context.Context, key string) (*state.PayloadRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, t := range []state.PayloadType{state.PayloadExecuteSwap, state.PayloadFinalizeSwap} {
		id, found := strings.CutSuffix(key, string(t))
		if !found {
			continue
		}
		rec, ok, err := f.payloads.Get(ctx, id, t)
		if err != nil {
			return nil, err
		}
		if ok {
			return rec, nil
		}
	}
	return nil, fmt.Errorf("%w: no payload under %s", ErrUnknownGlobalTxID, key)
}
