package state

import (
	"context"
	"os"
	"testing"

	"github.com/TEENet-io/swapflow/common"
	"github.com/stretchr/testify/require"
)

// Requires a running redis, e.g. REDIS_ADDR=127.0.0.1:6379.
func TestRedisDB(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	db, err := NewRedisDB(context.Background(), &RedisConfig{
		Addr:   addr,
		Prefix: "swapflow-test:" + common.ByteSliceToPureHexStr(common.RandBytes(8)) + ":",
	})
	require.NoError(t, err)
	defer db.Close()

	testKVStore(t, db)
}

func TestRedisDBRequiresAddr(t *testing.T) {
	_, err := NewRedisDB(context.Background(), &RedisConfig{})
	require.Error(t, err)
}
