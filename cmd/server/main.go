// Command server runs the registration HTTP API.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/antonrybalko/registration-service-go/internal/app"
)

// startupTimeout bounds database and S3 initialization
const startupTimeout = 30 * time.Second

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	svc, err := app.NewService(ctx)
	cancel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize registration service: %v\n", err)
		return 1
	}
	defer svc.Cleanup()

	if err := svc.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start registration service: %v\n", err)
		return 1
	}

	svc.WaitForShutdown()
	return 0
}
