// Server = storage backend + swap flow + source registry + notifier + http reporter.
// All components are configured via environment variables (strings!).

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"

	logger "github.com/sirupsen/logrus"

	"github.com/TEENet-io/swapflow/notifier"
	"github.com/TEENet-io/swapflow/registry"
	"github.com/TEENet-io/swapflow/reporter"
	"github.com/TEENet-io/swapflow/router"
	"github.com/TEENet-io/swapflow/state"
	"github.com/TEENet-io/swapflow/swapflow"
)

const (
	DB_BACKEND_SQLITE = "sqlite"
	DB_BACKEND_REDIS  = "redis"
	DB_BACKEND_MEMORY = "memory"
)

// Keep the configuration's fields as "text" as possible.
// Its easier to load it from env vars or a config file.
type SwapFlowServerConfig struct {
	// state side
	DbBackend  string // sqlite (default), redis or memory
	DbFilePath string // sqlite db file path
	RedisAddr  string // eg. 127.0.0.1:6379
	RedisPwd   string

	// flow side
	RelayerAddress  string // reported as "from" of every call
	DefaultProvider string // rpc of the chain that takes unrouted tokens
	DefaultContract string
	AltTokenAddress string // token routed to the alt chain, empty to disable
	AltProvider     string
	AltContract     string

	// notifier side
	KafkaBrokers string // comma separated, empty to disable
	KafkaTopic   string

	// registry side
	EnforceSourceRegistry string // "true" to reject events of unregistered sources

	// Http side
	HttpIp   string // eg. 0.0.0.0
	HttpPort string // eg. 8080
}

// DefaultSwapFlowServerConfig uses a local sqlite file and the goerli /
// optimism goerli deployments.
func DefaultSwapFlowServerConfig() *SwapFlowServerConfig {
	return &SwapFlowServerConfig{
		DbBackend:             DB_BACKEND_SQLITE,
		DbFilePath:            "swapflow.db",
		RelayerAddress:        swapflow.DefaultRelayerAddress,
		DefaultProvider:       router.DefaultProvider,
		DefaultContract:       router.DefaultContract,
		AltTokenAddress:       router.AltTokenAddress,
		AltProvider:           router.AltProvider,
		AltContract:           router.AltContract,
		KafkaTopic:            notifier.DefaultTopic,
		EnforceSourceRegistry: "false",
		HttpIp:                "0.0.0.0",
		HttpPort:              "8080",
	}
}

// SwapFlowServer holds the objects that consists of the server.
type SwapFlowServer struct {
	Store     state.KVStore
	Flow      *swapflow.Flow
	Registry  *registry.Registry
	Publisher notifier.Publisher
	Reporter  *reporter.HttpReporter

	closers []func() error
}

// NewSwapFlowServer creates the server without starting the http side.
func NewSwapFlowServer(ctx context.Context, ssc *SwapFlowServerConfig) (*SwapFlowServer, error) {
	srv := &SwapFlowServer{}

	// 1) storage
	store, err := srv.openStore(ctx, ssc)
	if err != nil {
		srv.Close()
		return nil, err
	}
	srv.Store = store

	// 2) notifier
	publisher, err := notifier.New(ssc.KafkaBrokers, ssc.KafkaTopic)
	if err != nil {
		srv.Close()
		return nil, err
	}
	srv.Publisher = publisher
	srv.closers = append(srv.closers, publisher.Close)

	// 3) flow
	flowCfg := &swapflow.Config{
		RelayerAddress: ssc.RelayerAddress,
		Router: &router.Config{
			DefaultProvider: ssc.DefaultProvider,
			DefaultContract: ssc.DefaultContract,
		},
	}
	if ssc.AltTokenAddress != "" {
		flowCfg.Router.Tokens = append(flowCfg.Router.Tokens, router.TokenRoute{
			Token:    ssc.AltTokenAddress,
			Provider: ssc.AltProvider,
			Contract: ssc.AltContract,
		})
	}
	flow, err := swapflow.New(store, flowCfg, publisher)
	if err != nil {
		srv.Close()
		return nil, err
	}
	srv.Flow = flow

	// 4) registry, on the same storage
	srv.Registry = registry.New(store)

	// 5) http reporter
	enforce, err := parseBool(ssc.EnforceSourceRegistry)
	if err != nil {
		srv.Close()
		return nil, err
	}
	srv.Reporter = reporter.NewHttpReporter(ssc.HttpIp, ssc.HttpPort, flow, srv.Registry, enforce)

	logger.WithFields(logger.Fields{
		"db":      ssc.DbBackend,
		"relayer": ssc.RelayerAddress,
		"kafka":   ssc.KafkaBrokers != "",
		"enforce": enforce,
		"http":    ssc.HttpIp + ":" + ssc.HttpPort,
	}).Info("swap flow server created")

	return srv, nil
}

func (s *SwapFlowServer) openStore(ctx context.Context, ssc *SwapFlowServerConfig) (state.KVStore, error) {
	switch strings.ToLower(ssc.DbBackend) {
	case "", DB_BACKEND_SQLITE:
		sqldb, err := state.OpenSQLite(ssc.DbFilePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open db file: %v", err)
		}
		s.closers = append(s.closers, sqldb.Close)

		statedb, err := state.NewStateDB(sqldb)
		if err != nil {
			return nil, fmt.Errorf("failed to create state db: %v", err)
		}
		s.closers = append(s.closers, statedb.Close)
		return statedb, nil
	case DB_BACKEND_REDIS:
		redisdb, err := state.NewRedisDB(ctx, &state.RedisConfig{Addr: ssc.RedisAddr, Password: ssc.RedisPwd})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %v", err)
		}
		s.closers = append(s.closers, redisdb.Close)
		return redisdb, nil
	case DB_BACKEND_MEMORY:
		return state.NewMemKV(), nil
	}
	return nil, fmt.Errorf("unknown db backend %q", ssc.DbBackend)
}

// Close releases everything in reverse order of creation.
func (s *SwapFlowServer) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}

// Create, then start the server and wait.
// Press Ctrl-C to kill the server.
func StartSwapFlowServerAndWait(ssc *SwapFlowServerConfig) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up a signal channel to listen for Ctrl-C (SIGINT) or SIGTERM
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	// Launch a new goroutine to handle the signal
	go func() {
		sig := <-sigCh
		fmt.Printf("Received signal: %v, cancelling context...\n", sig)
		cancel()
	}()

	srv, err := NewSwapFlowServer(ctx, ssc)
	if err != nil {
		logger.Fatalf("failed to create swap flow server: %v", err)
		return
	}
	defer srv.Close()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := srv.Reporter.Run(ctx); err != nil {
			logger.Errorf("http reporter stopped: %v", err)
			cancel()
		}
	}()

	// wait for the http side to finish (which is until Ctrl-C)
	wg.Wait()
}

func parseBool(s string) (bool, error) {
	if strings.TrimSpace(s) == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return false, fmt.Errorf("invalid boolean %q", s)
	}
	return b, nil
}
