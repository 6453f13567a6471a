package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/doeshing/guruji/internal/app"
	"github.com/doeshing/guruji/internal/infrastructure/cli"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root, container := cli.NewRootCmd(cli.Options{Verbose: app.DebugFromEnv()})
	defer container.Close()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", cli.ErrorMessage(err))
		return 1
	}
	return 0
}
