package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/idilsaglam/taskreminder/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	// Hand the args to the CLI runner.
	code := cli.Run(ctx, os.Args[1:])
	stop()
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	os.Exit(code)
}
