package main

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/TEENet-io/swapflow/cmd"
	"github.com/TEENet-io/swapflow/logconfig"
)

const (
	ENV_CONFIG_FILE_PATH = "SWAPFLOW_CONFIG"
	DOT_ENV_FILE_PATH    = ".env"
)

func main() {
	// .env first, so viper sees its variables as environment.
	if err := cmd.LoadDotEnv(DOT_ENV_FILE_PATH); err != nil {
		fmt.Printf("Error loading %s: %s\n", DOT_ENV_FILE_PATH, err)
		return
	}

	// Tool to read environment variables
	viper.AutomaticEnv()
	setDefaults()

	// Config file is optional, environment variables alone are enough.
	_config_file := viper.GetString(ENV_CONFIG_FILE_PATH)
	if _config_file != "" {
		fmt.Printf("Swap flow server configuration file = %s\n", _config_file)
		if !cmd.FileExists(_config_file) {
			fmt.Printf("Swap flow server configuration file not found: %s\n", _config_file)
			return
		}
		if !initializeViper(_config_file) {
			return
		}
	}

	if !logconfig.ConfigLogger(viper.GetString("LOG_LEVEL")) {
		fmt.Printf("Unknown LOG_LEVEL %q, using production logger\n", viper.GetString("LOG_LEVEL"))
	}

	// Make the configuration
	ssc := PrepareSwapFlowServerConfig()

	fmt.Println("Starting swap flow server... press Ctrl+C to kill the server")
	// Start server and block.
	cmd.StartSwapFlowServerAndWait(ssc)
}

func initializeViper(filePath string) bool {
	viper.SetConfigFile(filePath)
	if err := viper.ReadInConfig(); err != nil {
		fmt.Printf("Error reading configuration file, %s", err)
		return false
	}
	return true
}

func setDefaults() {
	d := cmd.DefaultSwapFlowServerConfig()
	viper.SetDefault("DB_BACKEND", d.DbBackend)
	viper.SetDefault("DB_FILE_PATH", d.DbFilePath)
	viper.SetDefault("RELAYER_ADDRESS", d.RelayerAddress)
	viper.SetDefault("DEFAULT_PROVIDER", d.DefaultProvider)
	viper.SetDefault("DEFAULT_CONTRACT", d.DefaultContract)
	viper.SetDefault("ALT_TOKEN_ADDRESS", d.AltTokenAddress)
	viper.SetDefault("ALT_PROVIDER", d.AltProvider)
	viper.SetDefault("ALT_CONTRACT", d.AltContract)
	viper.SetDefault("KAFKA_TOPIC", d.KafkaTopic)
	viper.SetDefault("ENFORCE_SOURCE_REGISTRY", d.EnforceSourceRegistry)
	viper.SetDefault("HTTP_IP", d.HttpIp)
	viper.SetDefault("HTTP_PORT", d.HttpPort)
	viper.SetDefault("LOG_LEVEL", "info")
}

// PrepareSwapFlowServerConfig reads configuration variables and returns a SwapFlowServerConfig.
func PrepareSwapFlowServerConfig() *cmd.SwapFlowServerConfig {
	return &cmd.SwapFlowServerConfig{
		// state side
		DbBackend:  viper.GetString("DB_BACKEND"),
		DbFilePath: viper.GetString("DB_FILE_PATH"),
		RedisAddr:  viper.GetString("REDIS_ADDR"),
		RedisPwd:   viper.GetString("REDIS_PWD"),
		// flow side
		RelayerAddress:  viper.GetString("RELAYER_ADDRESS"),
		DefaultProvider: viper.GetString("DEFAULT_PROVIDER"),
		DefaultContract: viper.GetString("DEFAULT_CONTRACT"),
		AltTokenAddress: viper.GetString("ALT_TOKEN_ADDRESS"),
		AltProvider:     viper.GetString("ALT_PROVIDER"),
		AltContract:     viper.GetString("ALT_CONTRACT"),
		// notifier side
		KafkaBrokers: viper.GetString("KAFKA_BROKERS"),
		KafkaTopic:   viper.GetString("KAFKA_TOPIC"),
		// registry side
		EnforceSourceRegistry: viper.GetString("ENFORCE_SOURCE_REGISTRY"),
		// Http side
		HttpIp:   viper.GetString("HTTP_IP"),
		HttpPort: viper.GetString("HTTP_PORT"),
	}
}
