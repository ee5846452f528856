package ygoprodeck_test

import (
	"fmt"
	"os"
	"testing"

	logger "github.com/konstantinfoerster/ygoprodeck-importer-go/internal/log"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	logger.SetupConsoleLogger()
	err := logger.SetLogLevel("warn")
	if err != nil {
		fmt.Printf("Failed to set log level %v", err)
		os.Exit(1)
	}

	goleak.VerifyTestMain(m)
}
