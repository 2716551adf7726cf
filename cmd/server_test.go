package cmd_test

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TEENet-io/swapflow/cmd"
	"github.com/TEENet-io/swapflow/etherman"
	"github.com/TEENet-io/swapflow/logconfig"
	"github.com/TEENet-io/swapflow/notifier"
	"github.com/TEENet-io/swapflow/reporter"
	"github.com/TEENet-io/swapflow/router"
)

func freePort(t *testing.T) string {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	return strconv.Itoa(l.Addr().(*net.TCPAddr).Port)
}

func TestNewSwapFlowServerBackends(t *testing.T) {
	ctx := context.Background()

	ssc := cmd.DefaultSwapFlowServerConfig()
	ssc.DbBackend = cmd.DB_BACKEND_MEMORY
	srv, err := cmd.NewSwapFlowServer(ctx, ssc)
	require.NoError(t, err)
	assert.IsType(t, notifier.Nop{}, srv.Publisher)
	assert.NoError(t, srv.Close())

	ssc.DbBackend = "mongo"
	_, err = cmd.NewSwapFlowServer(ctx, ssc)
	assert.Error(t, err)

	ssc.DbBackend = cmd.DB_BACKEND_REDIS
	ssc.RedisAddr = ""
	_, err = cmd.NewSwapFlowServer(ctx, ssc)
	assert.Error(t, err)

	ssc = cmd.DefaultSwapFlowServerConfig()
	ssc.DbBackend = cmd.DB_BACKEND_MEMORY
	ssc.EnforceSourceRegistry = "maybe"
	_, err = cmd.NewSwapFlowServer(ctx, ssc)
	assert.Error(t, err)

	ssc = cmd.DefaultSwapFlowServerConfig()
	ssc.DbBackend = cmd.DB_BACKEND_MEMORY
	ssc.AltContract = "0x00"
	_, err = cmd.NewSwapFlowServer(ctx, ssc)
	assert.ErrorIs(t, err, router.ErrAddressParse)
}

// Runs the whole server over a sqlite file and drives it through http.
func TestSwapFlowServer(t *testing.T) {
	logconfig.ConfigDebugLogger()
	defer logconfig.ConfigInfoLogger()

	ssc := cmd.DefaultSwapFlowServerConfig()
	ssc.DbFilePath = filepath.Join(t.TempDir(), "swapflow.db")
	ssc.HttpIp = "127.0.0.1"
	ssc.HttpPort = freePort(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv, err := cmd.NewSwapFlowServer(ctx, ssc)
	require.NoError(t, err)
	defer srv.Close()

	done := make(chan error, 1)
	go func() { done <- srv.Reporter.Run(ctx) }()

	rd := reporter.NewHttpReader(ssc.HttpIp, ssc.HttpPort)
	require.Eventually(t, func() bool {
		_, err := rd.GetHello()
		return err == nil
	}, 5*time.Second, 50*time.Millisecond)

	ev := etherman.RandSwapInitiatedEvent()
	data, err := etherman.EncodeSwapInitiatedLog(ethcommon.HexToAddress(router.DefaultContract), ev)
	require.NoError(t, err)
	id := ev.GlobalTxId.Hex()

	count, err := rd.PostEvent(id, etherman.SourceSwapInitiated, data)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)

	hash, err := rd.GetSigningHash(id)
	require.NoError(t, err)

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	sig, err := crypto.Sign(ethcommon.FromHex(hash), key)
	require.NoError(t, err)

	cd, err := rd.GetCallData(id, hexutil.Encode(sig))
	require.NoError(t, err)
	assert.Equal(t, router.DefaultProvider, cd.Provider)

	// the signer can be recovered from what was signed
	pub, err := crypto.SigToPub(ethcommon.FromHex(hash), sig)
	require.NoError(t, err)
	assert.Equal(t, crypto.PubkeyToAddress(key.PublicKey), crypto.PubkeyToAddress(*pub))

	// same through the signer cli backend
	su, err := cmd.NewSignerUser(&cmd.SignerUserConfig{
		ServerIp:   ssc.HttpIp,
		ServerPort: ssc.HttpPort,
		SignerPriv: hexutil.Encode(crypto.FromECDSA(key)),
	})
	require.NoError(t, err)
	assert.Equal(t, crypto.PubkeyToAddress(key.PublicKey).Hex(), su.GetAddress())
	suCd, err := su.SignAndGetCallData(id)
	require.NoError(t, err)
	assert.Equal(t, cd, suCd)
	_, err = su.SignAndGetCallData("unknown")
	assert.Error(t, err)

	_, err = cmd.NewSignerUser(&cmd.SignerUserConfig{SignerPriv: "xyz"})
	assert.Error(t, err)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("http reporter did not stop")
	}

	// state survives a restart
	srv2, err := cmd.NewSwapFlowServer(context.Background(), &cmd.SwapFlowServerConfig{
		DbFilePath:      ssc.DbFilePath,
		RelayerAddress:  ssc.RelayerAddress,
		DefaultProvider: ssc.DefaultProvider,
		DefaultContract: ssc.DefaultContract,
	})
	require.NoError(t, err)
	defer srv2.Close()
	n, err := srv2.Flow.GetEventCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(1), n)
	again, err := srv2.Flow.GetSigningHash(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, hash, again)
}

func TestLoadDotEnv(t *testing.T) {
	assert.NoError(t, cmd.LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")))

	f := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(f, []byte("SWAPFLOW_TEST_KEY=abc\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("SWAPFLOW_TEST_KEY") })
	require.NoError(t, cmd.LoadDotEnv(f))
	assert.Equal(t, "abc", os.Getenv("SWAPFLOW_TEST_KEY"))

	assert.True(t, cmd.FileExists(f))
	assert.False(t, cmd.FileExists(f+".nope"))
}
