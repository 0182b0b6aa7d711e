package main

import (
	"context"
	"fmt"
	"os"

	"github.com/yungbote/speaking-practice-backend/internal/app"
	"github.com/yungbote/speaking-practice-backend/internal/platform/shutdown"
)

func main() {
	ctx, stop := shutdown.NotifyContext(context.Background())
	defer stop()

	a, err := app.New(ctx)
	if err != nil {
		fmt.Printf("failed to initialize app: %v\n", err)
		os.Exit(1)
	}
	a.Start()

	runErr := a.Run(ctx, ":"+a.Cfg.Port)
	if runErr != nil {
		a.Log.Error("server exited", "error", runErr)
	}
	a.Close()
	if runErr != nil {
		os.Exit(1)
	}
}
