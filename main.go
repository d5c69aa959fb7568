package main

import (
	"os"

	"fbay/pkg/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logger.Error("command failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}
