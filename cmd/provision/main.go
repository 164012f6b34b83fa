package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	app "github.com/mohammadpnp/user-provisioning/internal/application/user"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the command line and returns the process exit status. Errors
// that the commands could not log are written to stderr.
func run(ctx context.Context, args []string, stderr io.Writer) (code int) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintln(stderr, "fatal error:", r)
			code = app.ExitFailure
		}
	}()

	cmd := newRootCmd()
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)

	if msg := errorMessage(err); msg != "" {
		fmt.Fprintln(stderr, "error:", msg)
	}
	return exitCodeOf(err)
}
