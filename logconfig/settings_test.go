package logconfig

import (
	"testing"

	myLogger "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestConfigLogger(t *testing.T) {
	defer ConfigInfoLogger()

	assert.True(t, ConfigLogger("debug"))
	assert.Equal(t, myLogger.DebugLevel, myLogger.GetLevel())

	assert.True(t, ConfigLogger("INFO"))
	assert.Equal(t, myLogger.InfoLevel, myLogger.GetLevel())

	assert.True(t, ConfigLogger("warn"))
	assert.Equal(t, myLogger.WarnLevel, myLogger.GetLevel())

	assert.False(t, ConfigLogger("loud"))
	assert.Equal(t, myLogger.InfoLevel, myLogger.GetLevel())
}
