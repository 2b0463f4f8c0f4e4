package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	root, app := newRootCmd()
	err := root.ExecuteContext(ctx)
	app.close()
	stop()

	if err != nil {
		var se *syncError
		if errors.As(err, &se) {
			fmt.Fprintln(os.Stderr, "error:", se.message)
		} else {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}
