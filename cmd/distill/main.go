package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"distill/internal/services"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCommand()
	if err := cmd.ExecuteContext(ctx); err != nil {
		code := reportError(os.Stderr, err)
		stop()
		os.Exit(code)
	}
}

// reportError prints err for the user and returns the exit status.
func reportError(w io.Writer, err error) int {
	if err == nil {
		return services.ExitCode(nil)
	}
	if !errors.Is(err, context.Canceled) {
		fmt.Fprintln(w, err)
		if services.IsFatalConfig(err) {
			fmt.Fprintln(w, "Check the flags or run 'distill config validate'.")
		}
	}
	return services.ExitCode(err)
}
