package cmd

import (
	"os"

	"github.com/joho/godotenv"
)

// fileExists checks if a file exists and is readable
func FileExists(filePath string) bool {
	file, err := os.Open(filePath)
	if err != nil {
		return false
	}
	defer file.Close()
	return true
}

// LoadDotEnv loads filePath into the environment if it exists. Variables
// already set are not overridden.
func LoadDotEnv(filePath string) error {
	if _, err := os.Stat(filePath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(filePath)
}
