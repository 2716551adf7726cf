package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/viper"

	"github.com/TEENet-io/swapflow/cmd"
)

const (
	ENV_CONFIG_FILE_PATH = "SIGNER_USER_CONFIG"
)

func main() {
	// Tool to read environment variables
	viper.AutomaticEnv()

	// Accessing an environment variable of configuration file location.
	_config_file := viper.GetString(ENV_CONFIG_FILE_PATH)
	fmt.Printf("Signer user configuration file = %s\n", _config_file)

	// See if file exists
	if !cmd.FileExists(_config_file) {
		fmt.Printf("Signer user configuration file not found: %s\n", _config_file)
		return
	}

	// Read from config file.
	success := initializeViper(_config_file)
	if !success {
		return
	}

	suc := PrepareSignerUserConfig()
	su, err := cmd.NewSignerUser(suc)
	if err != nil {
		fmt.Printf("Error creating signer user: %s\n", err)
		return
	}

	fmt.Println(strings.Repeat("=", 30))
	fmt.Println("Welcome to swap flow signer command line tool.")
	fmt.Printf("Connected to: %s:%s\n", suc.ServerIp, suc.ServerPort)
	fmt.Printf("Your signer address: %s\n", su.GetAddress())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handler to catch Ctrl-C.
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		_captured := <-sig
		fmt.Printf("\nReceived interrupt signal, shutting down... %v\n", _captured)
		cancel()
		os.Exit(0)
	}()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		fmt.Println("What to do:")
		fmt.Println("1) View event count")
		fmt.Println("2) Sign a pending payload and get its calldata")
		fmt.Print("Type option and press Enter: ")

		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())

		switch input {
		case "1":
			count, err := su.GetEventCount()
			if err != nil {
				fmt.Printf("Error getting event count: %s\n", err)
			} else {
				fmt.Printf("Events ingested: %d\n", count)
			}
		case "2":
			fmt.Print("Enter global tx id: ")
			if !scanner.Scan() {
				return
			}
			id := strings.TrimSpace(scanner.Text())
			cd, err := su.SignAndGetCallData(id)
			if err != nil {
				fmt.Printf("Error signing %s: %s\n", id, err)
				break
			}
			fmt.Printf("to:       %s\n", cd.To)
			fmt.Printf("from:     %s\n", cd.From)
			fmt.Printf("provider: %s\n", cd.Provider)
			fmt.Printf("input:    %s\n", cd.InputData)
		default:
			fmt.Println("Unknown option, try again.")
		}
		fmt.Println()
	}
}

func initializeViper(filePath string) bool {
	viper.SetConfigFile(filePath)
	if err := viper.ReadInConfig(); err != nil {
		fmt.Printf("Error reading configuration file, %s", err)
		return false
	}
	return true
}

func PrepareSignerUserConfig() *cmd.SignerUserConfig {
	return &cmd.SignerUserConfig{
		ServerIp:   viper.GetString("SERVER_IP"),
		ServerPort: viper.GetString("SERVER_PORT"),
		SignerPriv: viper.GetString("SIGNER_PRIV"),
	}
}
